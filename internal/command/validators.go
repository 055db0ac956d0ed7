// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package command

import (
	"fmt"
	"slices"
	"time"

	"github.com/tfctl/snapdiff/internal/output"
)

type FlagValidatorType func(any) error

func FlagValidators(value any, validators ...FlagValidatorType) error {
	for _, v := range validators {
		if err := v(value); err != nil {
			return err
		}
	}
	return nil
}

func OutputValidator(value any) error {
	s, _ := value.(string)
	if !slices.Contains(output.Formats, s) {
		return fmt.Errorf("must be one of %v", output.Formats)
	}
	return nil
}

// ZoneValidator accepts IANA zone names such as Europe/Kyiv, plus UTC and
// Local.
func ZoneValidator(value any) error {
	s, ok := value.(string)
	if !ok || s == "" {
		return fmt.Errorf("zone must be a non-empty string")
	}
	if _, err := time.LoadLocation(s); err != nil {
		return fmt.Errorf("unknown zone %q: %w", s, err)
	}
	return nil
}
