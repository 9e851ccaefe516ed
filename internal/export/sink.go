// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package export

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
)

// Sink stores a finished snapshot and reports where it went.
type Sink interface {
	Name() string
	Put(ctx context.Context, name string, data []byte, contentType string) (string, error)
}

// DirSink writes snapshots into a local directory.
type DirSink struct {
	Dir string
}

// Name implements Sink.
func (DirSink) Name() string { return "dir" }

// Put implements Sink.
func (s DirSink) Put(ctx context.Context, name string, data []byte, _ string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if s.Dir == "" {
		return "", errors.New("export directory is not set")
	}
	if filepath.Base(name) != name {
		return "", fmt.Errorf("invalid snapshot name %q", name)
	}
	if err := os.MkdirAll(s.Dir, 0o750); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	target := filepath.Join(s.Dir, name)
	tmp := target + ".tmp"
	if err := os.WriteFile(tmp, data, 0o640); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}
	if err := os.Rename(tmp, target); err != nil {
		_ = os.Remove(tmp)
		return "", fmt.Errorf("finalize snapshot: %w", err)
	}
	return target, nil
}

// S3Putter is the subset of the S3 client used by S3Sink.
type S3Putter interface {
	PutObject(ctx context.Context, params *s3.PutObjectInput, optFns ...func(*s3.Options)) (*s3.PutObjectOutput, error)
}

// S3Sink uploads snapshots to an S3 (or S3-compatible) bucket.
type S3Sink struct {
	client S3Putter
	bucket string
	prefix string
}

// NewS3Sink builds a sink from the default AWS credential chain. A non-empty
// endpoint switches to path-style addressing for MinIO and similar stores.
func NewS3Sink(ctx context.Context, bucket, prefix, region, endpoint string) (*S3Sink, error) {
	if bucket == "" {
		return nil, errors.New("s3 bucket is required")
	}

	var opts []func(*awsconfig.LoadOptions) error
	if region != "" {
		opts = append(opts, awsconfig.WithRegion(region))
	}
	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}

	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		if endpoint != "" {
			o.BaseEndpoint = aws.String(endpoint)
			o.UsePathStyle = true
		}
	})
	return NewS3SinkWithClient(client, bucket, prefix), nil
}

// NewS3SinkWithClient wraps an existing client.
func NewS3SinkWithClient(client S3Putter, bucket, prefix string) *S3Sink {
	return &S3Sink{client: client, bucket: bucket, prefix: strings.TrimPrefix(prefix, "/")}
}

// Name implements Sink.
func (*S3Sink) Name() string { return "s3" }

// Put implements Sink.
func (s *S3Sink) Put(ctx context.Context, name string, data []byte, contentType string) (string, error) {
	key := path.Join(s.prefix, name)
	_, err := s.client.PutObject(ctx, &s3.PutObjectInput{
		Bucket:        aws.String(s.bucket),
		Key:           aws.String(key),
		Body:          bytes.NewReader(data),
		ContentLength: aws.Int64(int64(len(data))),
		ContentType:   aws.String(contentType),
	})
	if err != nil {
		return "", fmt.Errorf("put s3://%s/%s: %w", s.bucket, key, err)
	}
	return "s3://" + s.bucket + "/" + key, nil
}
