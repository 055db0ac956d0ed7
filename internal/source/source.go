// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package source

import (
	"context"
	"fmt"
	"io"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/tfctl/snapdiff/internal/aws"
	"github.com/tfctl/snapdiff/internal/cacheutil"
	"github.com/tfctl/snapdiff/internal/log"
)

// Stdin is the argument that reads a snapshot from standard input.
const Stdin = "-"

// StdinArg stands in for Stdin on the command line. The flag parser drops a
// bare "-", so it is rewritten to StdinArg before parsing.
const StdinArg = "stdin:"

// IsStdin reports whether spec reads from standard input.
func IsStdin(spec string) bool {
	return spec == Stdin || spec == StdinArg
}

// S3Location addresses one S3 object, optionally pinned to a version.
type S3Location struct {
	Bucket  string
	Key     string
	Version string
}

func (l S3Location) String() string {
	s := "s3://" + l.Bucket + "/" + l.Key
	if l.Version != "" {
		s += "?versionId=" + l.Version
	}
	return s
}

// IsS3 reports whether spec looks like an s3:// URL.
func IsS3(spec string) bool {
	return strings.HasPrefix(spec, "s3://")
}

// ParseS3URL splits s3://bucket/key[?versionId=v]. Both bucket and key are
// required.
func ParseS3URL(spec string) (S3Location, error) {
	u, err := url.Parse(spec)
	if err != nil {
		return S3Location{}, fmt.Errorf("invalid s3 url %q: %w", spec, err)
	}
	if u.Scheme != "s3" {
		return S3Location{}, fmt.Errorf("invalid s3 url %q: scheme must be s3", spec)
	}

	loc := S3Location{
		Bucket:  u.Host,
		Key:     strings.TrimPrefix(u.Path, "/"),
		Version: u.Query().Get("versionId"),
	}
	if loc.Bucket == "" || loc.Key == "" {
		return S3Location{}, fmt.Errorf("invalid s3 url %q: want s3://bucket/key", spec)
	}
	return loc, nil
}

// Loader fetches snapshot bytes. The zero value reads files only; S3 access
// is built lazily on first use from AWS, unless API is set.
type Loader struct {
	// AWS options applied when the S3 client is built.
	AWS []aws.Option

	// API overrides the S3 client.
	API aws.GetObjectAPI

	// Stdin is read for "-". Defaults to os.Stdin.
	Stdin io.Reader

	// Cache holds versioned S3 bodies when set.
	Cache *cacheutil.Store

	// CacheMaxAge purges cache entries older than this before the first
	// read. Zero leaves the cache alone.
	CacheMaxAge time.Duration

	purged bool
}

// Load returns the bytes behind spec.
func (l *Loader) Load(ctx context.Context, spec string) ([]byte, error) {
	switch {
	case IsStdin(spec):
		in := l.Stdin
		if in == nil {
			in = os.Stdin
		}
		data, err := io.ReadAll(in)
		if err != nil {
			return nil, fmt.Errorf("failed to read stdin: %w", err)
		}
		return data, nil
	case IsS3(spec):
		loc, err := ParseS3URL(spec)
		if err != nil {
			return nil, err
		}
		return l.loadS3(ctx, loc)
	default:
		data, err := os.ReadFile(spec)
		if err != nil {
			return nil, fmt.Errorf("failed to read snapshot: %w", err)
		}
		return data, nil
	}
}

// LoadPair loads before and after. Only one of them may be stdin.
func (l *Loader) LoadPair(ctx context.Context, before, after string) ([]byte, []byte, error) {
	if IsStdin(before) && IsStdin(after) {
		return nil, nil, fmt.Errorf("only one snapshot can be read from stdin")
	}

	b, err := l.Load(ctx, before)
	if err != nil {
		return nil, nil, fmt.Errorf("before: %w", err)
	}
	a, err := l.Load(ctx, after)
	if err != nil {
		return nil, nil, fmt.Errorf("after: %w", err)
	}
	return b, a, nil
}

func (l *Loader) loadS3(ctx context.Context, loc S3Location) ([]byte, error) {
	ns := []string{"s3", loc.Bucket}
	cacheable := l.Cache != nil && loc.Version != ""

	if cacheable {
		l.purge()
		if data, ok := l.Cache.Get(ns, loc.String()); ok {
			return data, nil
		}
	}

	api, err := l.api(ctx)
	if err != nil {
		return nil, err
	}

	data, err := aws.FetchObject(ctx, api, loc.Bucket, loc.Key, loc.Version)
	if err != nil {
		return nil, err
	}

	if cacheable {
		if err := l.Cache.Put(ns, loc.String(), data); err != nil {
			log.WithError(err).Warn("error writing to cache")
		}
	}
	return data, nil
}

func (l *Loader) purge() {
	if l.purged {
		return
	}
	l.purged = true
	if _, err := l.Cache.Purge(l.CacheMaxAge); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}
}

func (l *Loader) api(ctx context.Context) (aws.GetObjectAPI, error) {
	if l.API != nil {
		return l.API, nil
	}
	cfg, err := aws.LoadConfig(ctx, l.AWS...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}
	l.API = aws.NewS3(cfg, l.AWS...)
	return l.API, nil
}
