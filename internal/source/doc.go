// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package source resolves a snapshot argument to its bytes. An argument is
// one of:
//   - a local file path
//   - "-" for standard input
//   - s3://bucket/key, optionally with ?versionId=v to pin an object version
//
// Versioned S3 objects never change, so their bodies are cached on disk
// through cacheutil. List enumerates a directory of *.json snapshots for the
// interactive picker.
package source
