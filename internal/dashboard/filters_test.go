// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

func TestResolveFilter(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeStore())

	tests := []struct {
		name          string
		in            FilterInput
		wantStart     string
		wantEnd       string
		wantPlatforms []string
		wantVersions  []string
		wantErr       error
	}{
		{
			name:          "defaults",
			in:            FilterInput{},
			wantStart:     "2025-02-08",
			wantEnd:       "2025-03-10",
			wantPlatforms: []string{"ANDROID", "IOS"},
		},
		{
			name:          "seven day preset",
			in:            FilterInput{Preset: "7d", Platforms: []string{"ios"}},
			wantStart:     "2025-03-03",
			wantEnd:       "2025-03-10",
			wantPlatforms: []string{"IOS"},
		},
		{
			name:          "dates without preset are custom",
			in:            FilterInput{Start: "2025-01-01", End: "2025-01-31", Versions: []string{"1.1", "1.0", "1.1"}},
			wantStart:     "2025-01-01",
			wantEnd:       "2025-01-31",
			wantPlatforms: []string{"ANDROID", "IOS"},
			wantVersions:  []string{"1.0", "1.1"},
		},
		{
			name:          "preset wins over dates",
			in:            FilterInput{Preset: "14D", Start: "2024-01-01", End: "2024-01-02"},
			wantStart:     "2025-02-24",
			wantEnd:       "2025-03-10",
			wantPlatforms: []string{"ANDROID", "IOS"},
		},
		{
			name:    "custom without end",
			in:      FilterInput{Preset: "custom", Start: "2025-01-01"},
			wantErr: models.ErrInvalidDateRange,
		},
		{
			name:    "inverted range",
			in:      FilterInput{Start: "2025-02-01", End: "2025-01-01"},
			wantErr: models.ErrInvalidDateRange,
		},
		{
			name:    "range too long",
			in:      FilterInput{Start: "2023-01-01", End: "2025-01-01"},
			wantErr: models.ErrInvalidDateRange,
		},
		{
			name:    "unknown preset",
			in:      FilterInput{Preset: "1y"},
			wantErr: models.ErrUnknownPreset,
		},
		{
			name:    "unknown platform",
			in:      FilterInput{Platforms: []string{"WEBGL"}},
			wantErr: ErrUnknownPlatform,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			f, err := svc.ResolveFilter(tt.in)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("ResolveFilter() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ResolveFilter() unexpected error = %v", err)
			}
			if f.StartString() != tt.wantStart || f.EndString() != tt.wantEnd {
				t.Errorf("range = %s..%s, want %s..%s", f.StartString(), f.EndString(), tt.wantStart, tt.wantEnd)
			}
			if diff := cmp.Diff(tt.wantPlatforms, f.Platforms); diff != "" {
				t.Errorf("platforms mismatch (-want +got):\n%s", diff)
			}
			if len(tt.wantVersions) > 0 {
				if diff := cmp.Diff(tt.wantVersions, f.Versions); diff != "" {
					t.Errorf("versions mismatch (-want +got):\n%s", diff)
				}
			}
		})
	}
}

func TestDefaultFilterDoesNotShareDefaults(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeStore())
	f := svc.DefaultFilter()
	f.Platforms[0] = "CHANGED"

	if models.AllPlatforms[0] != models.PlatformAndroid {
		t.Fatalf("AllPlatforms was mutated through a filter: %v", models.AllPlatforms)
	}
	if got := svc.DefaultFilter().Platforms[0]; got != models.PlatformAndroid {
		t.Errorf("DefaultFilter().Platforms[0] = %q, want %q", got, models.PlatformAndroid)
	}
}
