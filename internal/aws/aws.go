// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package aws

import (
	"context"
	"fmt"
	"io"

	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/tfctl/snapdiff/internal/log"
)

// options holds optional overrides for config loading and client
// construction.
type options struct {
	profile   string
	region    string
	endpoint  string
	pathStyle bool
	retryer   func() awsv2.Retryer
}

// Option customizes how AWS config is loaded and how the S3 client is built.
// With no options the shell environment and shared config chain
// (AWS_PROFILE, ~/.aws/config, env, IMDS) apply unchanged.
type Option func(*options)

// WithProfile selects a shared config profile.
func WithProfile(profile string) Option {
	return func(o *options) { o.profile = profile }
}

// WithRegion overrides the region.
func WithRegion(region string) Option {
	return func(o *options) { o.region = region }
}

// WithEndpoint points the S3 client at a custom base URL, e.g. a MinIO or
// LocalStack instance.
func WithEndpoint(url string) Option {
	return func(o *options) { o.endpoint = url }
}

// WithPathStyle forces path-style bucket addressing, which most S3-compatible
// stores need.
func WithPathStyle(enabled bool) Option {
	return func(o *options) { o.pathStyle = enabled }
}

// WithRetryer injects a custom retryer; SDK defaults otherwise.
func WithRetryer(newRetryer func() awsv2.Retryer) Option {
	return func(o *options) { o.retryer = newRetryer }
}

func apply(opts []Option) options {
	var o options
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// LoadConfig loads AWS SDK v2 config honoring the profile, region and retryer
// options.
func LoadConfig(ctx context.Context, opts ...Option) (awsv2.Config, error) {
	o := apply(opts)
	log.Debugf("aws opts applied: profile=%s region=%s", o.profile, o.region)

	var loadOpts []func(*config.LoadOptions) error
	if o.profile != "" {
		loadOpts = append(loadOpts, config.WithSharedConfigProfile(o.profile))
	}
	if o.region != "" {
		loadOpts = append(loadOpts, config.WithRegion(o.region))
	}
	if o.retryer != nil {
		loadOpts = append(loadOpts, config.WithRetryer(o.retryer))
	}

	cfg, err := config.LoadDefaultConfig(ctx, loadOpts...)
	if err != nil {
		log.Debugf("aws config load err: err=%v", err)
		return awsv2.Config{}, err
	}
	return cfg, nil
}

// NewS3 builds an S3 client from cfg honoring the endpoint and path-style
// options.
func NewS3(cfg awsv2.Config, opts ...Option) *s3v2.Client {
	o := apply(opts)
	client := s3v2.NewFromConfig(cfg, s3Options(o))
	log.Debugf("s3 client created: endpoint=%q pathStyle=%t", o.endpoint, o.pathStyle)
	return client
}

func s3Options(o options) func(*s3v2.Options) {
	return func(so *s3v2.Options) {
		if o.endpoint != "" {
			so.BaseEndpoint = awsv2.String(o.endpoint)
		}
		so.UsePathStyle = o.pathStyle
	}
}

// GetObjectAPI is the slice of the S3 client FetchObject needs.
type GetObjectAPI interface {
	GetObject(ctx context.Context, params *s3v2.GetObjectInput, optFns ...func(*s3v2.Options)) (*s3v2.GetObjectOutput, error)
}

// FetchObject reads a whole object. An empty version reads the current one.
func FetchObject(ctx context.Context, api GetObjectAPI, bucket, key, version string) ([]byte, error) {
	input := &s3v2.GetObjectInput{
		Bucket: awsv2.String(bucket),
		Key:    awsv2.String(key),
	}
	if version != "" {
		input.VersionId = awsv2.String(version)
	}

	result, err := api.GetObject(ctx, input)
	if err != nil {
		return nil, fmt.Errorf("failed to get s3://%s/%s: %w", bucket, key, err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read s3://%s/%s: %w", bucket, key, err)
	}
	log.Debugf("s3 object read: bucket=%s key=%s version=%s len=%d", bucket, key, version, len(data))
	return data, nil
}
