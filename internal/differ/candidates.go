// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"

	"github.com/tfctl/snapdiff/internal/document"
	"github.com/tfctl/snapdiff/internal/log"
)

// indexCandidates validates a candidates list and keys its records by id.
// Duplicate ids are rejected.
func indexCandidates(side string, list document.Value) (map[int64]document.Value, error) {
	records := make(map[int64]document.Value, list.Len())

	for i, rec := range list.Elems() {
		path := fmt.Sprintf("%s[%d]", CandidatesKey, i)

		if rec.Kind() != document.Object {
			return nil, invalid(side, path, "is %s, want object", rec.Kind())
		}

		raw, ok := rec.Get(IDKey)
		if !ok {
			return nil, invalid(side, path, "missing member %q", IDKey)
		}
		id, ok := raw.Int()
		if !ok {
			return nil, invalid(side, path+"."+IDKey, "%s is not an integer", raw.Raw())
		}

		if _, dup := records[id]; dup {
			return nil, invalid(side, path+"."+IDKey, "duplicate id %d", id)
		}
		records[id] = rec
	}

	return records, nil
}

// diffCandidates reconciles the two id-keyed record sets.
func diffCandidates(before, after map[int64]document.Value) CandidatesDiff {
	var added, removed, edited []int64

	for id := range after {
		if _, ok := before[id]; !ok {
			added = append(added, id)
		}
	}

	for id, rec := range before {
		other, ok := after[id]
		if !ok {
			removed = append(removed, id)
			continue
		}
		if isEdited(rec, other) {
			log.Tracef("candidate edited: id=%d", id)
			edited = append(edited, id)
		}
	}

	return CandidatesDiff{
		Edited:  NewMarkerSet(edited...),
		Added:   NewMarkerSet(added...),
		Removed: NewMarkerSet(removed...),
	}
}

// isEdited compares before's non-id fields against after. Fields that only
// after carries are not looked at. A null field and a missing field are the
// same thing.
func isEdited(before, after document.Value) bool {
	for _, m := range before.Members() {
		if m.Key == IDKey {
			continue
		}

		other, ok := after.Get(m.Key)
		if !ok {
			if m.Value.IsNull() {
				continue
			}
			return true
		}
		if !m.Value.Equal(other) {
			return true
		}
	}
	return false
}
