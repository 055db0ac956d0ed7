// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0
// no-cloc

// Package driller selects a snapshot document nested inside a larger JSON
// envelope, such as an API response wrapping it under data.items[0].
package driller
