// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package cacheutil keeps fetched remote snapshots on disk. Only content that
// can never change under its key, such as a versioned S3 object, belongs here.
package cacheutil
