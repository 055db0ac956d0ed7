// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package differ computes the structural difference between two snapshots of
// a document holding a flat "meta" mapping and a list of "candidates" records
// identified by "id".
//
// Metadata is compared field by field over the before snapshot's keys, with
// date-time values first normalized into a single target zone so that the same
// instant written with different offsets is not reported as a change.
// Candidates are reconciled by id into added, removed and edited sets.
//
// The package also renders a full ascii delta of two documents (Delta) and
// offers an interactive picker for choosing two snapshot files.
package differ
