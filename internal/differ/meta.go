// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"strings"
	"time"

	"github.com/tfctl/snapdiff/internal/document"
	"github.com/tfctl/snapdiff/internal/log"
)

// NormalizedLayout is the form date-time metadata is rewritten to: second
// precision, numeric offset without a colon.
const NormalizedLayout = "2006-01-02T15:04:05-0700"

// zonedLayouts are the accepted ISO-8601 zoned date-time shapes. Fractional
// seconds are accepted by time.Parse after the seconds field even though the
// layout does not spell them out.
var zonedLayouts = []string{
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04Z07:00",
}

// diffMeta walks before's fields in order and reports those whose normalized
// value differs in after. Fields only in after are never reported.
func (d *Differ) diffMeta(before, after document.Value) []MetaItem {
	items := []MetaItem{}

	for _, m := range before.Members() {
		if d.ignored[m.Key] {
			log.Tracef("meta field ignored: field=%s", m.Key)
			continue
		}

		valueAfter, ok := after.Get(m.Key)
		b := d.Normalize(m.Value, true)
		a := d.Normalize(valueAfter, ok)
		if b == a {
			continue
		}

		log.Tracef("meta field changed: field=%s before=%s after=%s", m.Key, b, a)
		items = append(items, MetaItem{Field: m.Key, Before: b, After: a})
	}

	return items
}

// Normalize returns the comparison form of a metadata value. An absent value
// (present false) and JSON null both read "null". Anything whose string form
// parses as a zoned date-time is rewritten in the Differ's zone using
// NormalizedLayout; everything else keeps its plain string form.
func (d *Differ) Normalize(v document.Value, present bool) string {
	s := "null"
	if present {
		s = v.String()
	}

	if t, ok := ParseZoned(s); ok {
		return t.In(d.zone).Format(NormalizedLayout)
	}
	return s
}

// ParseZoned parses an ISO-8601 date-time carrying an offset, optionally
// followed by a bracketed region id such as "[Europe/Paris]". The instant
// comes from the offset; the region must be a known zone but does not move
// the instant. A string that does not parse is reported with ok false.
func ParseZoned(s string) (t time.Time, ok bool) {
	// Cheap reject for the common case of plain strings and numbers.
	if len(s) < len("2006-01-02T15:04Z") || s[4] != '-' || s[10] != 'T' {
		return time.Time{}, false
	}

	if strings.HasSuffix(s, "]") {
		open := strings.LastIndexByte(s, '[')
		if open <= 0 {
			return time.Time{}, false
		}
		// LoadLocation maps "" to UTC and "Local" to the host zone; neither is a region id.
		region := s[open+1 : len(s)-1]
		if region == "" || region == "Local" {
			return time.Time{}, false
		}
		if _, err := time.LoadLocation(region); err != nil {
			return time.Time{}, false
		}
		s = s[:open]
	}

	for _, layout := range zonedLayouts {
		if parsed, err := time.Parse(layout, s); err == nil {
			return parsed, true
		}
	}
	return time.Time{}, false
}
