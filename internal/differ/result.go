// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"encoding/json"
	"slices"
)

// MetaItem records one metadata field whose value changed. Before and After
// hold normalized string forms; a field missing from after reads "null".
type MetaItem struct {
	Field  string `json:"field" yaml:"field"`
	Before string `json:"before" yaml:"before"`
	After  string `json:"after" yaml:"after"`
}

// Marker identifies a candidate by id and nothing else.
type Marker struct {
	ID int64 `json:"id" yaml:"id"`
}

// MarkerSet is an immutable set of candidate markers. It serializes as a list
// of markers sorted by id.
type MarkerSet struct {
	ids map[int64]struct{}
}

// NewMarkerSet builds a set from ids. Repeated ids collapse.
func NewMarkerSet(ids ...int64) MarkerSet {
	s := MarkerSet{ids: make(map[int64]struct{}, len(ids))}
	for _, id := range ids {
		s.ids[id] = struct{}{}
	}
	return s
}

// Len returns the number of markers.
func (s MarkerSet) Len() int { return len(s.ids) }

// Contains reports whether id is in the set.
func (s MarkerSet) Contains(id int64) bool {
	_, ok := s.ids[id]
	return ok
}

// IDs returns the ids in ascending order.
func (s MarkerSet) IDs() []int64 {
	ids := make([]int64, 0, len(s.ids))
	for id := range s.ids {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// Markers returns the markers in ascending id order.
func (s MarkerSet) Markers() []Marker {
	ids := s.IDs()
	out := make([]Marker, len(ids))
	for i, id := range ids {
		out[i] = Marker{ID: id}
	}
	return out
}

// Equal reports set equality.
func (s MarkerSet) Equal(o MarkerSet) bool {
	if len(s.ids) != len(o.ids) {
		return false
	}
	for id := range s.ids {
		if !o.Contains(id) {
			return false
		}
	}
	return true
}

func (s MarkerSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Markers())
}

func (s *MarkerSet) UnmarshalJSON(data []byte) error {
	var markers []Marker
	if err := json.Unmarshal(data, &markers); err != nil {
		return err
	}
	ids := make([]int64, len(markers))
	for i, m := range markers {
		ids[i] = m.ID
	}
	*s = NewMarkerSet(ids...)
	return nil
}

// MarshalYAML implements yaml.Marshaler.
func (s MarkerSet) MarshalYAML() (interface{}, error) {
	return s.Markers(), nil
}

// CandidatesDiff partitions candidate ids into edited, added and removed.
type CandidatesDiff struct {
	Edited  MarkerSet `json:"edited" yaml:"edited"`
	Added   MarkerSet `json:"added" yaml:"added"`
	Removed MarkerSet `json:"removed" yaml:"removed"`
}

// Result is the outcome of one Diff call.
type Result struct {
	Meta       []MetaItem     `json:"meta" yaml:"meta"`
	Candidates CandidatesDiff `json:"candidates" yaml:"candidates"`
}

// Empty reports whether nothing changed.
func (r *Result) Empty() bool {
	return len(r.Meta) == 0 &&
		r.Candidates.Edited.Len() == 0 &&
		r.Candidates.Added.Len() == 0 &&
		r.Candidates.Removed.Len() == 0
}

// MetaItem returns the change recorded for field, if any.
func (r *Result) MetaItem(field string) (MetaItem, bool) {
	for _, item := range r.Meta {
		if item.Field == field {
			return item, true
		}
	}
	return MetaItem{}, false
}

// MarshalJSON keeps an empty metadata list as [] rather than null.
func (r Result) MarshalJSON() ([]byte, error) {
	type plain Result
	p := plain(r)
	if p.Meta == nil {
		p.Meta = []MetaItem{}
	}
	return json.Marshal(p)
}
