// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"errors"
	"fmt"
)

// ErrInvalidInput is matched by every InvalidInputError.
var ErrInvalidInput = errors.New("invalid input")

// InvalidInputError describes why a snapshot could not be diffed. Side is
// "before" or "after"; Path locates the offending node, e.g. "meta" or
// "candidates[3].id".
type InvalidInputError struct {
	Side   string
	Path   string
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("%s: %s: %s", ErrInvalidInput, e.Side, e.Reason)
	}
	return fmt.Sprintf("%s: %s.%s: %s", ErrInvalidInput, e.Side, e.Path, e.Reason)
}

// Is makes errors.Is(err, ErrInvalidInput) hold.
func (e *InvalidInputError) Is(target error) bool {
	return target == ErrInvalidInput
}

func invalid(side, path, format string, args ...any) error {
	return &InvalidInputError{Side: side, Path: path, Reason: fmt.Sprintf(format, args...)}
}
