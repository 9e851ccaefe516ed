// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

//go:build integration

package export

import (
	"context"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/testinfra"
)

func TestS3SinkMinIO(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	store := testinfra.StartMinIO(ctx, t, "bvl-snapshots")
	sink := NewS3SinkWithClient(store.Client, store.Bucket, "daily")

	res, err := Export(ctx, sampleTab(), FormatCSV, sink, exportNow)
	if err != nil {
		t.Fatalf("Export() error = %v", err)
	}
	wantKey := "daily/overview_2025-03-01_2025-03-10_20250310T153000Z.csv"
	if res.Location != "s3://bvl-snapshots/"+wantKey {
		t.Errorf("Location = %q", res.Location)
	}

	obj, err := store.Client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(store.Bucket),
		Key:    aws.String(wantKey),
	})
	if err != nil {
		t.Fatalf("GetObject() error = %v", err)
	}
	defer obj.Body.Close()

	body, err := io.ReadAll(obj.Body)
	if err != nil {
		t.Fatalf("read object: %v", err)
	}
	if int64(len(body)) != res.Bytes {
		t.Errorf("object has %d bytes, export reported %d", len(body), res.Bytes)
	}
	if !strings.HasPrefix(string(body), "tab,overview\n") {
		t.Errorf("unexpected snapshot header: %q", string(body[:min(len(body), 40)]))
	}
	if got := aws.ToString(obj.ContentType); got != FormatCSV.ContentType() {
		t.Errorf("ContentType = %q, want %q", got, FormatCSV.ContentType())
	}
}
