// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

//go:build integration

package testinfra

import (
	"context"
	"fmt"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/testcontainers/testcontainers-go/modules/minio"
)

const (
	// DefaultMinIOImage is the object store used for snapshot export tests.
	DefaultMinIOImage = "minio/minio:latest"

	minioUser     = "minioadmin"
	minioPassword = "minioadmin"
)

// MinIO is a running S3-compatible store with one empty bucket.
type MinIO struct {
	Endpoint string
	Bucket   string
	Client   *s3.Client
}

// StartMinIO starts a MinIO container, creates bucket and returns a
// path-style S3 client for it. The container is removed when t ends.
func StartMinIO(ctx context.Context, t *testing.T, bucket string) *MinIO {
	t.Helper()
	SkipIfNoDocker(t)

	container, err := minio.Run(ctx, DefaultMinIOImage,
		minio.WithUsername(minioUser),
		minio.WithPassword(minioPassword),
	)
	if err != nil {
		t.Fatalf("start minio: %v", err)
	}
	CleanupContainer(t, container)

	host, err := container.Host(ctx)
	if err != nil {
		t.Fatalf("minio host: %v", err)
	}
	// localhost does not resolve in every network setup
	if host == "localhost" {
		host = "127.0.0.1"
	}
	port, err := container.MappedPort(ctx, "9000")
	if err != nil {
		t.Fatalf("minio port: %v", err)
	}
	endpoint := fmt.Sprintf("http://%s:%s", host, port.Port())

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx,
		awsconfig.WithRegion("us-east-1"),
		awsconfig.WithCredentialsProvider(credentials.NewStaticCredentialsProvider(minioUser, minioPassword, "")),
	)
	if err != nil {
		t.Fatalf("aws config: %v", err)
	}
	client := s3.NewFromConfig(awsCfg, func(o *s3.Options) {
		o.BaseEndpoint = aws.String(endpoint)
		o.UsePathStyle = true
	})

	if _, err := client.CreateBucket(ctx, &s3.CreateBucketInput{Bucket: aws.String(bucket)}); err != nil {
		t.Fatalf("create bucket %s: %v", bucket, err)
	}

	return &MinIO{Endpoint: endpoint, Bucket: bucket, Client: client}
}
