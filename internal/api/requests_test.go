// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package api

import (
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParseFilterRequest(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name    string
		query   string
		want    FilterRequest
		wantErr bool
	}{
		{
			name:  "empty",
			query: "",
			want:  FilterRequest{},
		},
		{
			name:  "repeated and comma separated",
			query: "preset=30D&platform=ANDROID&platform=ios&version=1.0,%201.1&version=2.0",
			want: FilterRequest{
				Preset:    "30d",
				Platforms: []string{"ANDROID", "ios"},
				Versions:  []string{"1.0", "1.1", "2.0"},
			},
		},
		{
			name:  "custom dates",
			query: "preset=custom&start=2025-01-01&end=2025-01-31&country=uz,KZ",
			want: FilterRequest{
				Preset:    "custom",
				Start:     "2025-01-01",
				End:       "2025-01-31",
				Countries: []string{"uz", "KZ"},
			},
		},
		{
			name:    "too many platforms",
			query:   "platform=ANDROID,IOS,ANDROID",
			wantErr: true,
		},
		{
			name:    "bad version",
			query:   "version=1.0;DROP",
			wantErr: true,
		},
		{
			name:    "bad country",
			query:   "country=UZB",
			wantErr: true,
		},
		{
			name:    "escaped semicolon in version",
			query:   "version=1.0%3BDROP",
			wantErr: true,
		},
		{
			name:    "bad escape in preset",
			query:   "preset=%zz",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			req := parseFilterRequest(httptest.NewRequest("GET", "/?"+tt.query, nil))
			apiErr := validateRequest(&req)
			if tt.wantErr {
				if apiErr == nil {
					t.Fatalf("validateRequest(%+v) = nil, want error", req)
				}
				if apiErr.Code != ErrCodeValidation {
					t.Errorf("code = %q, want %q", apiErr.Code, ErrCodeValidation)
				}
				return
			}
			if apiErr != nil {
				t.Fatalf("validateRequest() = %+v", apiErr)
			}
			if diff := cmp.Diff(tt.want, req); diff != "" {
				t.Errorf("request mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestQueryValues(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		raw  string
		want url.Values
	}{
		{name: "empty", raw: "", want: url.Values{}},
		{name: "repeated keys", raw: "platform=IOS&platform=ANDROID", want: url.Values{"platform": {"IOS", "ANDROID"}}},
		{name: "semicolon kept in value", raw: "version=1.0;DROP&preset=7d", want: url.Values{"version": {"1.0;DROP"}, "preset": {"7d"}}},
		{name: "escapes decoded", raw: "country=uz%2Ckz&start=2025-01-01", want: url.Values{"country": {"uz,kz"}, "start": {"2025-01-01"}}},
		{name: "bad escape kept raw", raw: "preset=%zz", want: url.Values{"preset": {"%zz"}}},
		{name: "empty pairs skipped", raw: "&&preset=7d&", want: url.Values{"preset": {"7d"}}},
		{name: "key without value", raw: "version", want: url.Values{"version": {""}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if diff := cmp.Diff(tt.want, queryValues(tt.raw)); diff != "" {
				t.Errorf("queryValues(%q) mismatch (-want +got):\n%s", tt.raw, diff)
			}
		})
	}
}

func TestFilterRequestInputUppercasesCountries(t *testing.T) {
	t.Parallel()

	in := FilterRequest{Countries: []string{"uz", "Kz"}}.Input()
	if diff := cmp.Diff([]string{"UZ", "KZ"}, in.Countries); diff != "" {
		t.Errorf("countries mismatch (-want +got):\n%s", diff)
	}
}

func TestSanitizeLogValue(t *testing.T) {
	t.Parallel()

	if got := sanitizeLogValue("bad\nline\x7f"); got != `bad\x0aline\x7f` {
		t.Errorf("sanitizeLogValue() = %q", got)
	}
}
