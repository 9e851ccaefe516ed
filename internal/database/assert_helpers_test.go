// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import "testing"

// checkNoError fails the test if err is not nil
func checkNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// checkInt64Equal checks that got equals want
func checkInt64Equal(t *testing.T, fieldName string, got, want int64) {
	t.Helper()
	if got != want {
		t.Errorf("%s: expected %d, got %d", fieldName, want, got)
	}
}

// checkFloatPtr checks that got is non-nil and equals want
func checkFloatPtr(t *testing.T, fieldName string, got *float64, want float64) {
	t.Helper()
	if got == nil {
		t.Errorf("%s: expected %v, got nil", fieldName, want)
		return
	}
	if *got != want {
		t.Errorf("%s: expected %v, got %v", fieldName, want, *got)
	}
}
