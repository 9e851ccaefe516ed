// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package models

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
)

func TestResolveDateRange(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 31, 17, 45, 0, 0, time.UTC)

	tests := []struct {
		name      string
		preset    DatePreset
		start     string
		end       string
		wantStart string
		wantEnd   string
		wantErr   error
	}{
		{"last 7 days", PresetLast7Days, "", "", "2026-03-24", "2026-03-31", nil},
		{"last 14 days", PresetLast14Days, "", "", "2026-03-17", "2026-03-31", nil},
		{"last 30 days", PresetLast30Days, "", "", "2026-03-01", "2026-03-31", nil},
		{"last 90 days", PresetLast90Days, "", "", "2025-12-31", "2026-03-31", nil},
		{"preset ignores custom dates", PresetLast7Days, "2020-01-01", "2020-01-02", "2026-03-24", "2026-03-31", nil},
		{"custom", PresetCustom, "2026-02-01", "2026-02-10", "2026-02-01", "2026-02-10", nil},
		{"custom single day", PresetCustom, "2026-02-01", "2026-02-01", "2026-02-01", "2026-02-01", nil},
		{"custom inverted", PresetCustom, "2026-02-10", "2026-02-01", "", "", ErrInvalidDateRange},
		{"custom missing end", PresetCustom, "2026-02-10", "", "", "", ErrInvalidDateRange},
		{"custom bad format", PresetCustom, "02/10/2026", "2026-02-11", "", "", ErrInvalidDateRange},
		{"unknown preset", DatePreset("1y"), "", "", "", "", ErrUnknownPreset},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			r, err := ResolveDateRange(now, tt.preset, tt.start, tt.end)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("expected %v, got %v", tt.wantErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got := r.Start.Format(DateLayout); got != tt.wantStart {
				t.Errorf("start = %s, want %s", got, tt.wantStart)
			}
			if got := r.End.Format(DateLayout); got != tt.wantEnd {
				t.Errorf("end = %s, want %s", got, tt.wantEnd)
			}
		})
	}
}

func TestDateRangeDays(t *testing.T) {
	t.Parallel()

	r := DateRange{Start: time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC), End: time.Date(2026, 1, 31, 0, 0, 0, 0, time.UTC)}
	if got := r.Days(); got != 31 {
		t.Errorf("Days() = %d, want 31", got)
	}
}

func TestPresetLabel(t *testing.T) {
	t.Parallel()

	if got := PresetLast30Days.Label(); got != "Last 30 days" {
		t.Errorf("Label() = %q", got)
	}
	if got := PresetCustom.Label(); got != "Custom" {
		t.Errorf("Label() = %q", got)
	}
}

func TestFilterNormalize(t *testing.T) {
	t.Parallel()

	r := DateRange{
		Start: time.Date(2026, 1, 1, 13, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 1, 7, 8, 0, 0, 0, time.UTC),
	}
	f := NewFilter(r, []string{"ios", " ANDROID", "IOS"}, []string{"1.2.0", "1.10.0", "1.2.0", ""}, nil)

	want := Filter{
		Start:     time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC),
		End:       time.Date(2026, 1, 7, 0, 0, 0, 0, time.UTC),
		Platforms: []string{"ANDROID", "IOS"},
		Versions:  []string{"1.10.0", "1.2.0"},
		Countries: []string{},
	}
	if diff := cmp.Diff(want, f); diff != "" {
		t.Errorf("NewFilter() mismatch (-want +got):\n%s", diff)
	}
	if f.StartString() != "2026-01-01" || f.EndString() != "2026-01-07" {
		t.Errorf("unexpected strings %s %s", f.StartString(), f.EndString())
	}
}

func TestFilterCohortEnd(t *testing.T) {
	t.Parallel()

	f := Filter{
		Start: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
	}

	tests := []struct {
		n      int
		want   string
		wantOK bool
	}{
		{1, "2026-03-30", true},
		{7, "2026-03-24", true},
		{30, "2026-03-01", true},
		{31, "", false},
	}
	for _, tt := range tests {
		got, ok := f.CohortEnd(tt.n)
		if ok != tt.wantOK {
			t.Errorf("CohortEnd(%d) ok = %v, want %v", tt.n, ok, tt.wantOK)
			continue
		}
		if ok && got.Format(DateLayout) != tt.want {
			t.Errorf("CohortEnd(%d) = %s, want %s", tt.n, got.Format(DateLayout), tt.want)
		}
	}
}

func TestPercentage(t *testing.T) {
	t.Parallel()

	tests := []struct {
		part, whole int64
		want        float64
		wantOK      bool
	}{
		{1, 3, 33.3, true},
		{2, 3, 66.7, true},
		{0, 10, 0, true},
		{10, 10, 100, true},
		{1, 0, 0, false},
	}
	for _, tt := range tests {
		got, ok := Percentage(tt.part, tt.whole)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("Percentage(%d, %d) = %v, %v; want %v, %v", tt.part, tt.whole, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestStickiness(t *testing.T) {
	t.Parallel()

	dau := 120.0
	zero := 0.0

	tests := []struct {
		name   string
		dau    *float64
		mau    int64
		want   float64
		wantOK bool
	}{
		{"normal", &dau, 1000, 12, true},
		{"rounded", &dau, 700, 17.1, true},
		{"zero mau", &dau, 0, 0, false},
		{"missing dau", nil, 1000, 0, false},
		{"zero dau", &zero, 1000, 0, false},
	}
	for _, tt := range tests {
		got, ok := Stickiness(tt.dau, tt.mau)
		if ok != tt.wantOK || got != tt.want {
			t.Errorf("%s: Stickiness() = %v, %v; want %v, %v", tt.name, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestMetrics(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		m    Metric
		want string
	}{
		{"count", CountMetric("total", "Total", "", 1234567), "1,234,567"},
		{"small count", CountMetric("total", "Total", "", 42), "42"},
		{"ratio", RatioMetric("spp", "Sessions/Player", "", "", 2.456, 2), "2.46"},
		{"percent", RatioMetric("stick", "Stickiness", "", "%", 12.04, 1), "12%"},
		{"minutes", RatioMetric("len", "Avg Session", "", "min", 7.5, 2), "7.5 min"},
		{"large ratio", RatioMetric("dau", "Avg DAU", "", "", 12345, 0), "12,345"},
		{"unavailable", UnavailableMetric("wau", "WAU", ""), NotAvailable},
	}
	for _, tt := range tests {
		if tt.m.Display != tt.want {
			t.Errorf("%s: Display = %q, want %q", tt.name, tt.m.Display, tt.want)
		}
	}
	if UnavailableMetric("x", "X", "").Available() {
		t.Error("unavailable metric reports a value")
	}
}

func TestFriendlyActionName(t *testing.T) {
	t.Parallel()

	tests := map[string]string{
		"sessionStart":         "🚀 Game Start",
		"playedMiniGameStatus": "🎮 Mini-game Played",
		"lobbyActionInExit":    "🏠 Lobby Action",
		"tutorialSkipped":      "⏩ Tutorial Skipped",
		"notificationAsked":    "🎯 notificationAsked",
	}
	for code, want := range tests {
		if got := FriendlyActionName(code); got != want {
			t.Errorf("FriendlyActionName(%q) = %q, want %q", code, got, want)
		}
	}
}

func TestWeekdayLabel(t *testing.T) {
	t.Parallel()

	got := make([]string, 0, 7)
	for i := 0; i < 7; i++ {
		got = append(got, WeekdayLabel(i))
	}
	if strings.Join(got, ",") != "Sun,Mon,Tue,Wed,Thu,Fri,Sat" {
		t.Errorf("weekday labels = %v", got)
	}
	if WeekdayLabel(7) != "" {
		t.Error("expected empty label for out-of-range day")
	}
}

func TestNewEventDeepDive(t *testing.T) {
	t.Parallel()

	dd := NewEventDeepDive("levelUp", []EventDaily{
		{Date: "2026-03-01", Count: 10, UniqueUsers: 4},
		{Date: "2026-03-02", Count: 5, UniqueUsers: 3},
	})
	if dd.TotalCount != 15 || dd.UniquePlayers != 7 {
		t.Errorf("totals = %d/%d, want 15/7", dd.TotalCount, dd.UniquePlayers)
	}
	if dd.Action != "⬆️ Level Up" {
		t.Errorf("Action = %q", dd.Action)
	}
}

func TestTabDegraded(t *testing.T) {
	t.Parallel()

	tab := Tab{Panels: []Panel{{ID: "a", Status: PanelOK}, {ID: "b", Status: PanelEmpty}}}
	if tab.Degraded() {
		t.Error("empty panel should not degrade a tab")
	}
	tab.Panels = append(tab.Panels, Panel{ID: "c", Status: PanelUnavailable})
	if !tab.Degraded() {
		t.Error("unavailable panel should degrade a tab")
	}
	if p, ok := tab.Panel("b"); !ok || p.Status != PanelEmpty {
		t.Errorf("Panel(b) = %+v, %v", p, ok)
	}
	if !TabRetention.Valid() || TabName("billing").Valid() {
		t.Error("unexpected Valid() result")
	}
}
