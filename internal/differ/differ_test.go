// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

package differ

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tfctl/snapdiff/internal/document"
)

const testZone = "Europe/Kyiv"

func newTestDiffer(t *testing.T, opts ...Option) *Differ {
	t.Helper()
	d, err := New(testZone, opts...)
	require.NoError(t, err)
	return d
}

func readFixture(t *testing.T, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	return data
}

func TestDiffFixtures(t *testing.T) {
	d := newTestDiffer(t)

	actual, err := d.DiffJSON(readFixture(t, "before.json"), readFixture(t, "after.json"))
	require.NoError(t, err)

	var expected Result
	require.NoError(t, json.Unmarshal(readFixture(t, "diff.json"), &expected))

	assert.True(t, expected.Candidates.Added.Equal(actual.Candidates.Added), "added: %v", actual.Candidates.Added.IDs())
	assert.True(t, expected.Candidates.Removed.Equal(actual.Candidates.Removed), "removed: %v", actual.Candidates.Removed.IDs())
	assert.True(t, expected.Candidates.Edited.Equal(actual.Candidates.Edited), "edited: %v", actual.Candidates.Edited.IDs())

	// Meta items follow before's key order.
	assert.Equal(t, expected.Meta, actual.Meta)
}

func TestDiffSameDocumentIsEmpty(t *testing.T) {
	d := newTestDiffer(t)

	for _, name := range []string{"before.json", "after.json"} {
		t.Run(name, func(t *testing.T) {
			data := readFixture(t, name)
			result, err := d.DiffJSON(data, data)
			require.NoError(t, err)

			assert.True(t, result.Empty())
			assert.Empty(t, result.Meta)
			assert.Zero(t, result.Candidates.Added.Len())
			assert.Zero(t, result.Candidates.Removed.Len())
			assert.Zero(t, result.Candidates.Edited.Len())
		})
	}
}

func TestDiffScenarios(t *testing.T) {
	tests := []struct {
		name    string
		before  string
		after   string
		meta    []MetaItem
		edited  []int64
		added   []int64
		removed []int64
	}{
		{
			name:   "meta change",
			before: `{"meta": {"status": "open"}, "candidates": []}`,
			after:  `{"meta": {"status": "closed"}, "candidates": []}`,
			meta:   []MetaItem{{Field: "status", Before: "open", After: "closed"}},
		},
		{
			name:    "added and removed",
			before:  `{"meta": {}, "candidates": [{"id": 1}, {"id": 2}]}`,
			after:   `{"meta": {}, "candidates": [{"id": 2}, {"id": 3}]}`,
			added:   []int64{3},
			removed: []int64{1},
		},
		{
			name:   "edited",
			before: `{"meta": {}, "candidates": [{"id": 1, "name": "a"}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "name": "b"}]}`,
			edited: []int64{1},
		},
		{
			name:   "field only in after is not an edit",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": 1}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "x": 1, "y": 2}]}`,
		},
		{
			name:   "field dropped in after is an edit",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": 1, "y": 2}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "x": 1}]}`,
			edited: []int64{1},
		},
		{
			name:   "null and missing candidate field are the same",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": null}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1}]}`,
		},
		{
			name:   "id only records are never edited",
			before: `{"meta": {}, "candidates": [{"id": 7}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 7, "name": "new"}]}`,
		},
		{
			name:   "number type change is an edit",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": 1}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "x": "1"}]}`,
			edited: []int64{1},
		},
		{
			name:   "integer to fraction is an edit",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": 1}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "x": 1.0}]}`,
			edited: []int64{1},
		},
		{
			name:   "equal fractions are not an edit",
			before: `{"meta": {}, "candidates": [{"id": 1, "x": 2.50}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "x": 2.5}]}`,
		},
		{
			name:   "candidate dates are not normalized",
			before: `{"meta": {}, "candidates": [{"id": 1, "at": "2021-01-01T10:00:00+02:00"}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "at": "2021-01-01T09:00:00+01:00"}]}`,
			edited: []int64{1},
		},
		{
			name:   "nested values compare shallowly by value",
			before: `{"meta": {}, "candidates": [{"id": 1, "tags": ["a", "b"], "addr": {"city": "x"}}]}`,
			after:  `{"meta": {}, "candidates": [{"id": 1, "tags": ["a","b"], "addr": {"city":"x"}}]}`,
		},
		{
			name:   "meta key only in after is not reported",
			before: `{"meta": {"a": 1}, "candidates": []}`,
			after:  `{"meta": {"a": 1, "b": 2}, "candidates": []}`,
		},
		{
			name:   "meta key missing in after reads null",
			before: `{"meta": {"a": 1}, "candidates": []}`,
			after:  `{"meta": {}, "candidates": []}`,
			meta:   []MetaItem{{Field: "a", Before: "1", After: "null"}},
		},
		{
			name:   "meta null and missing are the same",
			before: `{"meta": {"a": null}, "candidates": []}`,
			after:  `{"meta": {}, "candidates": []}`,
		},
		{
			name:   "meta compares string forms",
			before: `{"meta": {"flag": true, "n": 5}, "candidates": []}`,
			after:  `{"meta": {"flag": "true", "n": "5"}, "candidates": []}`,
		},
		{
			name:   "meta equal fractions",
			before: `{"meta": {"n": 2.50}, "candidates": []}`,
			after:  `{"meta": {"n": 2.5}, "candidates": []}`,
		},
		{
			name:   "meta integer and exponent differ",
			before: `{"meta": {"m": 10}, "candidates": []}`,
			after:  `{"meta": {"m": 1e1}, "candidates": []}`,
			meta:   []MetaItem{{Field: "m", Before: "10", After: "10.0"}},
		},
		{
			name:   "meta same instant in different offsets",
			before: `{"meta": {"at": "2021-01-01T10:00:00+02:00"}, "candidates": []}`,
			after:  `{"meta": {"at": "2021-01-01T09:00:00+01:00"}, "candidates": []}`,
		},
		{
			name:   "meta date change is reported normalized",
			before: `{"meta": {"at": "2021-01-01T10:00:00+02:00"}, "candidates": []}`,
			after:  `{"meta": {"at": "2021-01-01T12:30:00Z"}, "candidates": []}`,
			meta:   []MetaItem{{Field: "at", Before: "2021-01-01T10:00:00+0200", After: "2021-01-01T14:30:00+0200"}},
		},
	}

	d := newTestDiffer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.Diff(document.MustParse(tt.before), document.MustParse(tt.after))
			require.NoError(t, err)

			if tt.meta == nil {
				assert.Empty(t, result.Meta)
			} else {
				assert.Equal(t, tt.meta, result.Meta)
			}
			assert.Equal(t, nonNil(tt.edited), result.Candidates.Edited.IDs(), "edited")
			assert.Equal(t, nonNil(tt.added), result.Candidates.Added.IDs(), "added")
			assert.Equal(t, nonNil(tt.removed), result.Candidates.Removed.IDs(), "removed")
		})
	}
}

func nonNil(ids []int64) []int64 {
	if ids == nil {
		return []int64{}
	}
	return ids
}

func TestDiffIgnoresCandidateOrder(t *testing.T) {
	d := newTestDiffer(t)

	before := document.MustParse(`{"meta": {}, "candidates": [{"id": 1, "n": "a"}, {"id": 2, "n": "b"}, {"id": 3, "n": "c"}]}`)
	after := document.MustParse(`{"meta": {}, "candidates": [{"id": 4}, {"id": 2, "n": "x"}, {"id": 1, "n": "a"}]}`)
	shuffled := document.MustParse(`{"meta": {}, "candidates": [{"id": 1, "n": "a"}, {"id": 4}, {"id": 2, "n": "x"}]}`)

	a, err := d.Diff(before, after)
	require.NoError(t, err)
	b, err := d.Diff(before, shuffled)
	require.NoError(t, err)

	assert.True(t, a.Candidates.Added.Equal(b.Candidates.Added))
	assert.True(t, a.Candidates.Removed.Equal(b.Candidates.Removed))
	assert.True(t, a.Candidates.Edited.Equal(b.Candidates.Edited))
	assert.Equal(t, []int64{2}, a.Candidates.Edited.IDs())
}

func TestDiffAddedRemovedDisjoint(t *testing.T) {
	d := newTestDiffer(t)

	result, err := d.DiffJSON(readFixture(t, "before.json"), readFixture(t, "after.json"))
	require.NoError(t, err)

	for _, id := range result.Candidates.Added.IDs() {
		assert.False(t, result.Candidates.Removed.Contains(id), "id %d both added and removed", id)
		assert.False(t, result.Candidates.Edited.Contains(id), "id %d both added and edited", id)
	}
	for _, id := range result.Candidates.Removed.IDs() {
		assert.False(t, result.Candidates.Edited.Contains(id), "id %d both removed and edited", id)
	}
}

func TestDiffWithIgnoredFields(t *testing.T) {
	d := newTestDiffer(t, WithIgnoredFields("updated", "owner", ""))

	result, err := d.DiffJSON(readFixture(t, "before.json"), readFixture(t, "after.json"))
	require.NoError(t, err)

	var fields []string
	for _, item := range result.Meta {
		fields = append(fields, item.Field)
	}
	assert.Equal(t, []string{"status", "headcount"}, fields)
}

func TestDiffInvalidInput(t *testing.T) {
	valid := `{"meta": {}, "candidates": []}`

	tests := []struct {
		name   string
		before string
		after  string
		side   string
		path   string
	}{
		{name: "missing meta", before: `{"candidates": []}`, after: valid, side: "before"},
		{name: "missing candidates", before: valid, after: `{"meta": {}}`, side: "after"},
		{name: "document not an object", before: `[]`, after: valid, side: "before"},
		{name: "meta not an object", before: `{"meta": [], "candidates": []}`, after: valid, side: "before", path: "meta"},
		{name: "meta null", before: valid, after: `{"meta": null, "candidates": []}`, side: "after", path: "meta"},
		{name: "candidates not an array", before: `{"meta": {}, "candidates": {}}`, after: valid, side: "before", path: "candidates"},
		{name: "candidate not an object", before: `{"meta": {}, "candidates": [1]}`, after: valid, side: "before", path: "candidates[0]"},
		{name: "missing id", before: valid, after: `{"meta": {}, "candidates": [{"id": 1}, {"name": "x"}]}`, side: "after", path: "candidates[1]"},
		{name: "string id", before: `{"meta": {}, "candidates": [{"id": "1"}]}`, after: valid, side: "before", path: "candidates[0].id"},
		{name: "fractional id", before: `{"meta": {}, "candidates": [{"id": 1.5}]}`, after: valid, side: "before", path: "candidates[0].id"},
		{name: "duplicate id", before: `{"meta": {}, "candidates": [{"id": 1}, {"id": 1}]}`, after: valid, side: "before", path: "candidates[1].id"},
	}

	d := newTestDiffer(t)

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := d.Diff(document.MustParse(tt.before), document.MustParse(tt.after))
			require.Error(t, err)
			assert.Nil(t, result)
			assert.ErrorIs(t, err, ErrInvalidInput)

			var ie *InvalidInputError
			require.True(t, errors.As(err, &ie))
			assert.Equal(t, tt.side, ie.Side)
			assert.Equal(t, tt.path, ie.Path)
		})
	}
}

func TestDiffJSONRejectsBadText(t *testing.T) {
	d := newTestDiffer(t)

	_, err := d.DiffJSON([]byte(`{"meta":`), []byte(`{"meta": {}, "candidates": []}`))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "before")

	_, err = d.DiffJSON([]byte(`{"meta": {}, "candidates": []}`), []byte(`nope`))
	assert.ErrorIs(t, err, ErrInvalidInput)
	assert.Contains(t, err.Error(), "after")
}

func TestNew(t *testing.T) {
	d, err := New("")
	require.NoError(t, err)
	assert.Equal(t, "UTC", d.Zone().String())

	d, err = New(testZone)
	require.NoError(t, err)
	assert.Equal(t, testZone, d.Zone().String())

	_, err = New("Nowhere/Special")
	assert.Error(t, err)
}

func TestResultJSON(t *testing.T) {
	empty := Result{
		Candidates: CandidatesDiff{
			Edited:  NewMarkerSet(),
			Added:   NewMarkerSet(),
			Removed: NewMarkerSet(),
		},
	}
	out, err := json.Marshal(empty)
	require.NoError(t, err)
	assert.JSONEq(t, `{"meta": [], "candidates": {"edited": [], "added": [], "removed": []}}`, string(out))

	full := Result{
		Meta: []MetaItem{{Field: "status", Before: "open", After: "closed"}},
		Candidates: CandidatesDiff{
			Edited:  NewMarkerSet(9, 2),
			Added:   NewMarkerSet(3, 3),
			Removed: NewMarkerSet(),
		},
	}
	out, err = json.Marshal(full)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"meta": [{"field": "status", "before": "open", "after": "closed"}],
		"candidates": {"edited": [{"id": 2}, {"id": 9}], "added": [{"id": 3}], "removed": []}
	}`, string(out))

	var back Result
	require.NoError(t, json.Unmarshal(out, &back))
	assert.True(t, back.Candidates.Edited.Equal(full.Candidates.Edited))
	assert.True(t, back.Candidates.Added.Equal(full.Candidates.Added))
	assert.Equal(t, full.Meta, back.Meta)
}

func TestMarkerSet(t *testing.T) {
	s := NewMarkerSet(5, 1, 5, 3)

	assert.Equal(t, 3, s.Len())
	assert.True(t, s.Contains(5))
	assert.False(t, s.Contains(2))
	assert.Equal(t, []int64{1, 3, 5}, s.IDs())
	assert.Equal(t, []Marker{{ID: 1}, {ID: 3}, {ID: 5}}, s.Markers())

	assert.True(t, s.Equal(NewMarkerSet(3, 5, 1)))
	assert.False(t, s.Equal(NewMarkerSet(3, 5)))
	assert.False(t, s.Equal(NewMarkerSet(3, 5, 2)))

	var zero MarkerSet
	assert.Zero(t, zero.Len())
	assert.False(t, zero.Contains(1))
	assert.True(t, zero.Equal(NewMarkerSet()))
}
