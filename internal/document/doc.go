// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package document models a parsed JSON document as an immutable tree of
// tagged values. Object members keep their source order so callers that walk
// an object see keys in the order they were written.
package document
