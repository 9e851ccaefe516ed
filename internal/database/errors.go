// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"errors"
	"fmt"
	"io"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
)

var (
	// ErrCircuitOpen is returned while the warehouse circuit breaker rejects queries.
	ErrCircuitOpen = errors.New("warehouse circuit breaker is open")

	// ErrWindowTooShort is returned by retention queries when the filter range
	// is shorter than the requested day offset.
	ErrWindowTooShort = errors.New("date range too short for retention window")

	// ErrNotSupported is returned for operations the active driver cannot run.
	ErrNotSupported = errors.New("operation not supported by warehouse driver")
)

// errorContext prefixes err with the failed operation.
func errorContext(operation string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", operation, err)
}

// closeWithLog closes a resource and logs any error
func closeWithLog(closer io.Closer, resourceType string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.Warn().Str("type", resourceType).Err(err).Msg("Failed to close resource")
	}
}

// closeQuietly closes a resource and explicitly ignores any error.
// Use this in error paths where Close() errors are not actionable.
func closeQuietly(closer io.Closer) {
	if closer != nil {
		_ = closer.Close()
	}
}
