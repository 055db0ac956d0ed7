// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package cacheutil

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/tfctl/snapdiff/internal/log"
)

// Store is a directory of cached blobs. Blobs live under a namespace of
// subdirectories and are named by the sha256 of their clear-text key.
type Store struct {
	Dir string
}

// Open resolves the cache directory.
// Precedence:
//  1. SNAPDIFF_CACHE_DIR, if set and non-empty
//  2. os.UserCacheDir()/snapdiff
//
// ok is false when caching is disabled via SNAPDIFF_CACHE=0|false or no
// directory can be resolved.
func Open() (s Store, ok bool) {
	if !Enabled() {
		return Store{}, false
	}
	if d, set := os.LookupEnv("SNAPDIFF_CACHE_DIR"); set && d != "" {
		return Store{Dir: d}, true
	}
	if d, err := os.UserCacheDir(); err == nil && d != "" {
		return Store{Dir: filepath.Join(d, "snapdiff")}, true
	}
	return Store{}, false
}

// Enabled is false when SNAPDIFF_CACHE is "0" or "false".
func Enabled() bool {
	v := os.Getenv("SNAPDIFF_CACHE")
	return v != "0" && v != "false"
}

// Path returns where the blob for key under ns lives, whether or not it
// exists.
func (s Store) Path(ns []string, key string) string {
	parts := append([]string{s.Dir}, ns...)
	return filepath.Join(append(parts, hashKey(key))...)
}

// Get returns the cached blob for key.
func (s Store) Get(ns []string, key string) ([]byte, bool) {
	data, err := os.ReadFile(s.Path(ns, key))
	if err != nil {
		return nil, false
	}
	log.Debugf("cache hit: key=%s", key)
	return data, true
}

// Put stores data for key, creating directories as needed.
func (s Store) Put(ns []string, key string, data []byte) error {
	p := s.Path(ns, key)
	if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil { //nolint:mnd
		return fmt.Errorf("failed to create cache directory: %w", err)
	}
	if err := os.WriteFile(p, data, 0o600); err != nil { //nolint:mnd
		return fmt.Errorf("failed to write cache entry: %w", err)
	}
	log.Debugf("cache write: key=%s path=%s", key, p)
	return nil
}

// Purge removes blobs last written more than maxAge ago and returns how many
// went. maxAge <= 0 disables purging.
func (s Store) Purge(maxAge time.Duration) (int, error) {
	if maxAge <= 0 {
		log.Debug("cache purge disabled")
		return 0, nil
	}

	removed := 0
	err := filepath.Walk(s.Dir, func(path string, info os.FileInfo, walkErr error) error {
		if walkErr != nil {
			if os.IsNotExist(walkErr) {
				return nil
			}
			return walkErr
		}
		if info == nil || info.IsDir() || time.Since(info.ModTime()) <= maxAge {
			return nil
		}
		if err := os.Remove(path); err != nil {
			log.WithError(err).Warnf("failed to remove cache file %s", path)
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return removed, fmt.Errorf("failed to purge cache: %w", err)
	}
	log.Debugf("cache purged: removed=%d", removed)
	return removed, nil
}

func hashKey(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
