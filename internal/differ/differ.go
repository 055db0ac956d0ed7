// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package differ

import (
	"fmt"
	"time"
	_ "time/tzdata"

	"github.com/tfctl/snapdiff/internal/document"
	"github.com/tfctl/snapdiff/internal/log"
)

// Document member names.
const (
	MetaKey       = "meta"
	CandidatesKey = "candidates"
	IDKey         = "id"
)

// DefaultZone is used when New is given an empty zone name.
const DefaultZone = "UTC"

// Differ compares snapshots. It holds only configuration fixed at
// construction and is safe for concurrent use.
type Differ struct {
	zone    *time.Location
	ignored map[string]bool
}

// Option customizes a Differ.
type Option func(*Differ)

// WithIgnoredFields makes the metadata diff skip the named fields.
func WithIgnoredFields(fields ...string) Option {
	return func(d *Differ) {
		for _, f := range fields {
			if f != "" {
				d.ignored[f] = true
			}
		}
	}
}

// New returns a Differ that normalizes date-time metadata into the named IANA
// zone (e.g. "Europe/Kyiv"). An empty name selects DefaultZone.
func New(zone string, opts ...Option) (*Differ, error) {
	if zone == "" {
		zone = DefaultZone
	}
	loc, err := time.LoadLocation(zone)
	if err != nil {
		return nil, fmt.Errorf("failed to load time zone %q: %w", zone, err)
	}
	return NewWithLocation(loc, opts...), nil
}

// NewWithLocation is New for an already resolved location.
func NewWithLocation(loc *time.Location, opts ...Option) *Differ {
	d := &Differ{zone: loc, ignored: map[string]bool{}}
	for _, opt := range opts {
		opt(d)
	}
	log.Debugf("differ ready: zone=%s ignored=%d", loc, len(d.ignored))
	return d
}

// Zone returns the target zone used for date-time normalization.
func (d *Differ) Zone() *time.Location { return d.zone }

// Diff compares before and after. Both must be objects holding a "meta"
// object and a "candidates" array whose elements are objects with an integer
// "id" unique within their list. Any violation fails the whole call with an
// *InvalidInputError and no partial result.
func (d *Differ) Diff(before, after document.Value) (*Result, error) {
	metaBefore, listBefore, err := sections("before", before)
	if err != nil {
		return nil, err
	}
	metaAfter, listAfter, err := sections("after", after)
	if err != nil {
		return nil, err
	}

	candidatesBefore, err := indexCandidates("before", listBefore)
	if err != nil {
		return nil, err
	}
	candidatesAfter, err := indexCandidates("after", listAfter)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Meta:       d.diffMeta(metaBefore, metaAfter),
		Candidates: diffCandidates(candidatesBefore, candidatesAfter),
	}

	log.Debugf("diff done: meta=%d edited=%d added=%d removed=%d",
		len(result.Meta),
		result.Candidates.Edited.Len(),
		result.Candidates.Added.Len(),
		result.Candidates.Removed.Len())

	return result, nil
}

// DiffJSON parses before and after as JSON text and diffs them.
func (d *Differ) DiffJSON(before, after []byte) (*Result, error) {
	b, err := document.Parse(before)
	if err != nil {
		return nil, &InvalidInputError{Side: "before", Reason: err.Error()}
	}
	a, err := document.Parse(after)
	if err != nil {
		return nil, &InvalidInputError{Side: "after", Reason: err.Error()}
	}
	return d.Diff(b, a)
}

// sections pulls the two required members out of a snapshot.
func sections(side string, doc document.Value) (meta, candidates document.Value, err error) {
	if doc.Kind() != document.Object {
		return meta, candidates, invalid(side, "", "document is %s, want object", doc.Kind())
	}

	meta, ok := doc.Get(MetaKey)
	if !ok {
		return meta, candidates, invalid(side, "", "missing member %q", MetaKey)
	}
	if meta.Kind() != document.Object {
		return meta, candidates, invalid(side, MetaKey, "is %s, want object", meta.Kind())
	}

	candidates, ok = doc.Get(CandidatesKey)
	if !ok {
		return meta, candidates, invalid(side, "", "missing member %q", CandidatesKey)
	}
	if candidates.Kind() != document.Array {
		return meta, candidates, invalid(side, CandidatesKey, "is %s, want array", candidates.Kind())
	}

	return meta, candidates, nil
}
