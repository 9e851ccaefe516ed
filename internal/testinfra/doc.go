// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package testinfra starts containers for integration tests.
//
// Everything here is behind the integration build tag and skips when Docker
// is not available:
//
//	go test -tags integration ./internal/export/...
//
// StartMinIO provides an S3-compatible bucket for snapshot export tests.
package testinfra
