// Copyright (c) 2026 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package s3

import (
	"context"
	"fmt"
	"io"
	"path"

	"github.com/apex/log"
	awsv2 "github.com/aws/aws-sdk-go-v2/aws"
	s3v2 "github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/urfave/cli/v3"

	awsx "github.com/polctl/polctl/internal/aws"
	"github.com/polctl/polctl/internal/resource"
)

// BackendS3 reads inventory snapshots from an S3 bucket/prefix, one JSON
// export object per resource type. Objects are fronted by the disk cache.
type BackendS3 struct {
	Ctx    context.Context
	Cmd    *cli.Command
	Bucket string
	Prefix string
	Region string
}

// Option customizes a BackendS3 during construction.
type Option func(*BackendS3)

// FromBucket sets the snapshot bucket and key prefix.
func FromBucket(bucket, prefix string) Option {
	return func(be *BackendS3) {
		be.Bucket = bucket
		be.Prefix = prefix
	}
}

// WithRegion overrides the region from the usual AWS config chain.
func WithRegion(region string) Option {
	return func(be *BackendS3) { be.Region = region }
}

// NewBackendS3 constructs an S3 backend.
func NewBackendS3(ctx context.Context, cmd *cli.Command, opts ...Option) (*BackendS3, error) {
	be := &BackendS3{Ctx: ctx, Cmd: cmd}
	for _, opt := range opts {
		opt(be)
	}

	if be.Bucket == "" {
		return nil, fmt.Errorf("s3 backend requires a bucket")
	}

	return be, nil
}

// Resources returns the raw list document for the given resource type.
func (be *BackendS3) Resources(ctx context.Context, rt resource.Type) ([]byte, error) {
	return be.fetch(ctx, rt.Export)
}

// FirewallPolicies returns the raw firewall-policy list document.
func (be *BackendS3) FirewallPolicies(ctx context.Context) ([]byte, error) {
	rt, _ := resource.Lookup(resource.FirewallPolicyType)
	return be.fetch(ctx, rt.Export)
}

func (be *BackendS3) String() string {
	return "s3: " + be.Bucket + "/" + be.Prefix
}

// fetch retrieves <prefix>/<export>.json from the bucket, consulting the disk
// cache first.
func (be *BackendS3) fetch(ctx context.Context, export string) ([]byte, error) {
	key := path.Join(be.Prefix, export+".json")

	if err := PurgeCache(); err != nil {
		log.WithError(err).Warn("failed to purge cache")
	}

	if entry, ok := CacheReader(be, key); ok {
		return entry.Data, nil
	}

	var cfgOpts []awsx.Option
	if be.Region != "" {
		cfgOpts = append(cfgOpts, awsx.WithRegion(be.Region))
	}
	cfg, err := awsx.LoadAWSConfig(ctx, cfgOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS config: %w", err)
	}

	svc := awsx.NewS3(cfg)
	result, err := svc.GetObject(ctx, &s3v2.GetObjectInput{
		Bucket: awsv2.String(be.Bucket),
		Key:    awsv2.String(key),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to get S3 object: %w", err)
	}
	defer result.Body.Close()

	data, err := io.ReadAll(result.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read S3 object body: %w", err)
	}

	if err := CacheWriter(be, key, data); err != nil {
		log.WithError(err).Warnf("failed to cache %s", key)
	}

	return data, nil
}
