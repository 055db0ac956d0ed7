// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/yudai/gojsondiff"
	"github.com/yudai/gojsondiff/formatter"

	"github.com/tfctl/snapdiff/internal/log"
)

// DeltaOptions tunes Delta.
type DeltaOptions struct {
	// Ignore lists top-level keys dropped from both documents before
	// comparing.
	Ignore []string
	// Color enables ANSI coloring of additions and deletions.
	Color bool
}

// Delta writes an ascii rendering of every difference between two JSON
// object documents to w and reports whether there were any. Nothing is
// written when the documents are identical.
func Delta(w io.Writer, before, after []byte, opts DeltaOptions) (bool, error) {
	log.Debugf("delta: len(before)=%d len(after)=%d", len(before), len(after))

	var left, right map[string]interface{}
	if err := json.Unmarshal(before, &left); err != nil {
		return false, fmt.Errorf("failed to unmarshal before: %w", err)
	}
	if err := json.Unmarshal(after, &right); err != nil {
		return false, fmt.Errorf("failed to unmarshal after: %w", err)
	}

	for _, key := range opts.Ignore {
		if key != "" {
			delete(left, key)
			delete(right, key)
		}
	}

	delta := gojsondiff.New().CompareObjects(left, right)
	if !delta.Modified() {
		return false, nil
	}

	config := formatter.AsciiFormatterConfig{
		ShowArrayIndex: false,
		Coloring:       opts.Color,
	}

	out, err := formatter.NewAsciiFormatter(left, config).Format(delta)
	if err != nil {
		return true, fmt.Errorf("failed to format delta: %w", err)
	}

	if _, err := fmt.Fprintln(w, out); err != nil {
		return true, err
	}
	return true, nil
}
