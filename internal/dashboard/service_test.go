// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/jonboulle/clockwork"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

var _ Store = (*database.DB)(nil)

var testNow = time.Date(2025, 3, 10, 15, 30, 0, 0, time.UTC)

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()
	svc := NewService(store, Options{Workers: 4, PanelTimeout: 5 * time.Second}, clockwork.NewFakeClockAt(testNow))
	t.Cleanup(svc.Close)
	return svc
}

func testFilter() models.Filter {
	return models.NewFilter(models.DateRange{
		Start: time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 3, 10, 0, 0, 0, 0, time.UTC),
	}, models.AllPlatforms, nil, nil)
}

func panelIDs(tab *models.Tab) []string {
	ids := make([]string, len(tab.Panels))
	for i := range tab.Panels {
		ids[i] = tab.Panels[i].ID
	}
	return ids
}

func mustPanel(t *testing.T, tab *models.Tab, id string) *models.Panel {
	t.Helper()
	p, ok := tab.Panel(id)
	if !ok {
		t.Fatalf("panel %q missing from tab %s (have %v)", id, tab.Name, panelIDs(tab))
	}
	return p
}

func metricDisplay(t *testing.T, p *models.Panel) string {
	t.Helper()
	m, ok := p.Data.(models.Metric)
	if !ok {
		t.Fatalf("panel %s data is %T, want models.Metric", p.ID, p.Data)
	}
	return m.Display
}

func TestTab_OverviewPanels(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeStore())
	tab, err := svc.Tab(context.Background(), models.TabOverview, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}

	want := []string{
		PanelTotalPlayers, PanelAvgDAU, PanelWAU, PanelMAU,
		PanelNewPlayers, PanelSessionsPerPlayer, PanelAvgSession, PanelTotalSessions,
		PanelActionsPerPlayer, PanelTotalActions, PanelStickiness, PanelActionsPerSession,
		PanelDAU, PanelNewPlayersDaily, PanelSessionLength,
	}
	if diff := cmp.Diff(want, panelIDs(tab)); diff != "" {
		t.Errorf("panel order mismatch (-want +got):\n%s", diff)
	}
	if tab.Degraded() {
		t.Error("Degraded() = true, want false")
	}
	if tab.Cached {
		t.Error("first build reported Cached = true")
	}
	if tab.Title != models.TabOverview.Title() {
		t.Errorf("Title = %q, want %q", tab.Title, models.TabOverview.Title())
	}

	displays := map[string]string{
		PanelTotalPlayers:      "4",
		PanelAvgDAU:            "2",
		PanelSessionsPerPlayer: "1.75",
		PanelAvgSession:        "10.17 min",
		PanelStickiness:        "50%",
		PanelActionsPerSession: "5.1",
	}
	for id, want := range displays {
		if got := metricDisplay(t, mustPanel(t, tab, id)); got != want {
			t.Errorf("%s display = %q, want %q", id, got, want)
		}
	}
}

func TestTab_PanelFailureIsIsolated(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.setFail("TotalPlayers", errors.New("snowflake: 390114 authentication token expired"))
	svc := newTestService(t, store)

	tab, err := svc.Tab(context.Background(), models.TabOverview, testFilter())
	if err != nil {
		t.Fatalf("Tab() must not fail when one panel fails: %v", err)
	}

	failed := mustPanel(t, tab, PanelTotalPlayers)
	if failed.Status != models.PanelUnavailable {
		t.Errorf("failed panel status = %q, want %q", failed.Status, models.PanelUnavailable)
	}
	if got := metricDisplay(t, failed); got != models.NotAvailable {
		t.Errorf("failed panel display = %q, want %q", got, models.NotAvailable)
	}
	if failed.Message != MessageNoData {
		t.Errorf("failed panel message = %q, want %q", failed.Message, MessageNoData)
	}

	for _, p := range tab.Panels {
		if p.ID == PanelTotalPlayers {
			continue
		}
		if p.Status != models.PanelOK {
			t.Errorf("panel %s status = %q, want ok", p.ID, p.Status)
		}
	}
	if !tab.Degraded() {
		t.Error("Degraded() = false, want true")
	}
}

func TestTab_PanicIsIsolated(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.panics["MiniGameStats"] = true
	svc := newTestService(t, store)

	tab, err := svc.Tab(context.Background(), models.TabMiniGames, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if p := mustPanel(t, tab, PanelMiniGames); p.Status != models.PanelUnavailable {
		t.Errorf("panicking panel status = %q, want unavailable", p.Status)
	}
	if p := mustPanel(t, tab, PanelLobbyActions); p.Status != models.PanelOK {
		t.Errorf("sibling panel status = %q, want ok", p.Status)
	}
}

func TestTab_CircuitOpenMessage(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.setFail("PlayersByPlatform", fmt.Errorf("players_by_platform: %w", database.ErrCircuitOpen))
	svc := newTestService(t, store)

	tab, err := svc.Tab(context.Background(), models.TabSegments, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	p := mustPanel(t, tab, PanelPlatforms)
	if p.Status != models.PanelUnavailable || p.Message != MessageUnavailable {
		t.Errorf("panel = {%q, %q}, want {unavailable, %q}", p.Status, p.Message, MessageUnavailable)
	}
}

func TestTab_EmptyResults(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.empty = true
	svc := newTestService(t, store)

	tests := []struct {
		tab     models.TabName
		panel   string
		message string
	}{
		{models.TabOverview, PanelDAU, MessageNoData},
		{models.TabMiniGames, PanelMiniGames, messageNoMiniGames},
		{models.TabMiniGames, PanelLobbyActions, messageNoLobby},
		{models.TabSegments, PanelCountries, MessageNoData},
		{models.TabActions, PanelTopEvents, messageNoActions},
	}
	for _, tt := range tests {
		t.Run(tt.panel, func(t *testing.T) {
			tab, err := svc.Tab(context.Background(), tt.tab, testFilter())
			if err != nil {
				t.Fatalf("Tab() error = %v", err)
			}
			p := mustPanel(t, tab, tt.panel)
			if p.Status != models.PanelEmpty {
				t.Errorf("status = %q, want empty", p.Status)
			}
			if p.Message != tt.message {
				t.Errorf("message = %q, want %q", p.Message, tt.message)
			}
			if tab.Degraded() {
				t.Error("empty results must not degrade the tab")
			}
		})
	}
}

func TestTab_Retention(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeStore())
	tab, err := svc.Tab(context.Background(), models.TabRetention, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}

	want := []string{"retention_d1", "retention_d7", "retention_d14", "retention_d30", PanelRetentionCurve}
	if diff := cmp.Diff(want, panelIDs(tab)); diff != "" {
		t.Errorf("panel ids mismatch (-want +got):\n%s", diff)
	}

	d1 := mustPanel(t, tab, RetentionPanelID(1))
	if got := metricDisplay(t, d1); got != "66.7%" {
		t.Errorf("D1 display = %q, want 66.7%%", got)
	}

	// The fake store reports a too-short window from day 14 on.
	d14 := mustPanel(t, tab, RetentionPanelID(14))
	if d14.Status != models.PanelEmpty {
		t.Errorf("D14 status = %q, want empty", d14.Status)
	}
	if got := metricDisplay(t, d14); got != models.NotAvailable {
		t.Errorf("D14 display = %q, want N/A", got)
	}
	if !strings.Contains(d14.Message, "14 days") {
		t.Errorf("D14 message = %q, want mention of the required window", d14.Message)
	}
	if tab.Degraded() {
		t.Error("a too-short window must not degrade the tab")
	}

	curve := mustPanel(t, tab, PanelRetentionCurve)
	if curve.Status != models.PanelOK {
		t.Errorf("curve status = %q, want ok", curve.Status)
	}
}

func TestTab_RetentionCurveNeedsTwoPoints(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.curve = models.RetentionCurve{Points: []models.RetentionPoint{{Day: 0, ActiveUsers: 1, Rate: 100}}}
	svc := newTestService(t, store)

	tab, err := svc.Tab(context.Background(), models.TabRetention, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	p := mustPanel(t, tab, PanelRetentionCurve)
	if p.Status != models.PanelEmpty || p.Message != messageNoCurve {
		t.Errorf("curve = {%q, %q}, want {empty, %q}", p.Status, p.Message, messageNoCurve)
	}
}

func TestTab_Stickiness(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name       string
		setup      func(*fakeStore)
		wantStatus models.PanelStatus
		wantValue  string
	}{
		{
			name:       "derived",
			setup:      func(*fakeStore) {},
			wantStatus: models.PanelOK,
			wantValue:  "50%",
		},
		{
			name:       "zero MAU",
			setup:      func(s *fakeStore) { s.mau = 0 },
			wantStatus: models.PanelEmpty,
			wantValue:  models.NotAvailable,
		},
		{
			name:       "missing DAU",
			setup:      func(s *fakeStore) { s.avgDAU = nil },
			wantStatus: models.PanelEmpty,
			wantValue:  models.NotAvailable,
		},
		{
			name:       "MAU query failed",
			setup:      func(s *fakeStore) { s.setFail("MAU", errors.New("timeout")) },
			wantStatus: models.PanelUnavailable,
			wantValue:  models.NotAvailable,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			store := newFakeStore()
			tt.setup(store)
			svc := newTestService(t, store)

			tab, err := svc.Tab(context.Background(), models.TabOverview, testFilter())
			if err != nil {
				t.Fatalf("Tab() error = %v", err)
			}
			p := mustPanel(t, tab, PanelStickiness)
			if p.Status != tt.wantStatus {
				t.Errorf("status = %q, want %q", p.Status, tt.wantStatus)
			}
			if got := metricDisplay(t, p); got != tt.wantValue {
				t.Errorf("display = %q, want %q", got, tt.wantValue)
			}
		})
	}
}

func TestTab_Caching(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.Tab(ctx, models.TabSegments, testFilter()); err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	second, err := svc.Tab(ctx, models.TabSegments, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if !second.Cached {
		t.Error("second request Cached = false, want true")
	}
	if got := store.callCount("PlayersByPlatform"); got != 1 {
		t.Errorf("PlayersByPlatform called %d times, want 1", got)
	}

	// Equal selections in a different order share the cache entry.
	f := testFilter()
	f.Platforms = []string{"ios", "android"}
	third, err := svc.Tab(ctx, models.TabSegments, f)
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if !third.Cached {
		t.Error("reordered platforms missed the cache")
	}

	if _, err := svc.Refresh(ctx, models.TabSegments, testFilter()); err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if got := store.callCount("PlayersByPlatform"); got != 2 {
		t.Errorf("after Refresh PlayersByPlatform called %d times, want 2", got)
	}
}

func TestTab_DegradedTabsAreNotCached(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.setFail("TopEvents", errors.New("connection reset by peer"))
	svc := newTestService(t, store)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		tab, err := svc.Tab(ctx, models.TabActions, testFilter())
		if err != nil {
			t.Fatalf("Tab() error = %v", err)
		}
		if tab.Cached {
			t.Fatalf("request %d served a degraded tab from cache", i+1)
		}
	}
	if got := store.callCount("TopEvents"); got != 2 {
		t.Errorf("TopEvents called %d times, want 2", got)
	}

	store.setFail("TopEvents", nil)
	if _, err := svc.Tab(ctx, models.TabActions, testFilter()); err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	tab, err := svc.Tab(ctx, models.TabActions, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if !tab.Cached {
		t.Error("recovered tab was not cached")
	}
}

func TestTab_ConcurrentRequests(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tab, err := svc.Tab(context.Background(), models.TabMiniGames, testFilter())
			if err != nil {
				t.Errorf("Tab() error = %v", err)
				return
			}
			if len(tab.Panels) != 2 {
				t.Errorf("got %d panels, want 2", len(tab.Panels))
			}
		}()
	}
	wg.Wait()
}

func TestTab_UnknownTab(t *testing.T) {
	t.Parallel()

	svc := newTestService(t, newFakeStore())
	_, err := svc.Tab(context.Background(), models.TabName("revenue"), testFilter())
	if !errors.Is(err, ErrUnknownTab) {
		t.Errorf("Tab() error = %v, want ErrUnknownTab", err)
	}
}

func TestFilters(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)

	opts := svc.Filters(context.Background())
	if diff := cmp.Diff([]string{"1.1", "1.0"}, opts.Versions); diff != "" {
		t.Errorf("versions mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"KZ", "RU", "UZ"}, opts.Countries); diff != "" {
		t.Errorf("countries mismatch (-want +got):\n%s", diff)
	}
	if len(opts.Presets) != len(models.Presets) {
		t.Errorf("got %d presets, want %d", len(opts.Presets), len(models.Presets))
	}
	if opts.Default.StartString() != "2025-02-08" || opts.Default.EndString() != "2025-03-10" {
		t.Errorf("default range = %s..%s, want 2025-02-08..2025-03-10",
			opts.Default.StartString(), opts.Default.EndString())
	}

	svc.Filters(context.Background())
	if got := store.callCount("ClientVersions"); got != 1 {
		t.Errorf("ClientVersions called %d times, want 1 (cached)", got)
	}
}

func TestFilters_VersionLookupFails(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	store.setFail("ClientVersions", errors.New("warehouse suspended"))
	svc := newTestService(t, store)

	opts := svc.Filters(context.Background())
	if opts.Versions == nil || len(opts.Versions) != 0 {
		t.Errorf("Versions = %#v, want empty non-nil slice", opts.Versions)
	}
	if len(opts.Countries) != 3 {
		t.Errorf("Countries = %v, want the lookup result", opts.Countries)
	}

	svc.Filters(context.Background())
	if got := store.callCount("ClientVersions"); got != 2 {
		t.Errorf("ClientVersions called %d times, want 2 (failed lookups are not cached)", got)
	}
}

func TestEventDaily(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if _, err := svc.EventDaily(ctx, testFilter(), ""); !errors.Is(err, ErrUnknownEvent) {
		t.Errorf("EventDaily(\"\") error = %v, want ErrUnknownEvent", err)
	}

	dd, err := svc.EventDaily(ctx, testFilter(), "sessionStart")
	if err != nil {
		t.Fatalf("EventDaily() error = %v", err)
	}
	if dd.TotalCount != 2 || dd.Action != models.FriendlyActionName("sessionStart") {
		t.Errorf("EventDaily() = %+v", dd)
	}
	if _, err := svc.EventDaily(ctx, testFilter(), "sessionStart"); err != nil {
		t.Fatalf("EventDaily() error = %v", err)
	}
	if got := store.callCount("EventDaily"); got != 1 {
		t.Errorf("EventDaily store calls = %d, want 1", got)
	}

	store.setFail("EventDaily", errors.New("boom"))
	if _, err := svc.EventDaily(ctx, testFilter(), "sessionEnd"); err == nil {
		t.Error("EventDaily() expected error from store")
	}
}

func TestWarm(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()

	if err := svc.Warm(ctx); err != nil {
		t.Fatalf("Warm() error = %v", err)
	}
	for _, name := range models.Tabs {
		tab, err := svc.Tab(ctx, name, svc.DefaultFilter())
		if err != nil {
			t.Fatalf("Tab(%s) error = %v", name, err)
		}
		if !tab.Cached {
			t.Errorf("tab %s not warmed", name)
		}
	}

	store.setFail("WAU", errors.New("timeout"))
	err := svc.Warm(ctx)
	if err == nil || !strings.Contains(err.Error(), "overview") {
		t.Errorf("Warm() error = %v, want degraded overview", err)
	}
}

func TestWarm_DegradedRebuildKeepsCachedCopy(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)
	ctx := context.Background()
	f := svc.DefaultFilter()

	if _, err := svc.Tab(ctx, models.TabOverview, f); err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	svc.Filters(ctx)

	store.setFail("MAU", errors.New("warehouse overloaded"))
	store.setFail("ClientVersions", errors.New("warehouse overloaded"))
	if err := svc.Warm(ctx); err == nil {
		t.Fatal("Warm() error = nil, want degraded overview")
	}
	if got := store.callCount("TotalPlayers"); got != 2 {
		t.Fatalf("TotalPlayers called %d times, want 2 (initial build and warm-up)", got)
	}
	store.setFail("MAU", nil)
	store.setFail("ClientVersions", nil)

	tab, err := svc.Tab(ctx, models.TabOverview, f)
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if !tab.Cached || tab.Degraded() {
		t.Errorf("Cached = %v, Degraded = %v; want the healthy copy from before the warm-up", tab.Cached, tab.Degraded())
	}
	if got := store.callCount("TotalPlayers"); got != 2 {
		t.Errorf("TotalPlayers called %d times, want 2", got)
	}

	opts := svc.Filters(ctx)
	if len(opts.Versions) == 0 {
		t.Error("filter options lost their versions after a failed warm-up")
	}
	if got := store.callCount("ClientVersions"); got != 2 {
		t.Errorf("ClientVersions called %d times, want 2", got)
	}
}

func TestRefresh_ReplacesCachedTab(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	clock := clockwork.NewFakeClockAt(testNow)
	svc := NewService(store, Options{Workers: 4, PanelTimeout: 5 * time.Second}, clock)
	t.Cleanup(svc.Close)
	ctx := context.Background()

	first, err := svc.Tab(ctx, models.TabSegments, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	clock.Advance(time.Minute)
	refreshed, err := svc.Refresh(ctx, models.TabSegments, testFilter())
	if err != nil {
		t.Fatalf("Refresh() error = %v", err)
	}
	if refreshed.Cached {
		t.Error("Refresh() returned a cached tab")
	}

	got, err := svc.Tab(ctx, models.TabSegments, testFilter())
	if err != nil {
		t.Fatalf("Tab() error = %v", err)
	}
	if !got.Cached || !got.GeneratedAt.Equal(refreshed.GeneratedAt) || got.GeneratedAt.Equal(first.GeneratedAt) {
		t.Errorf("GeneratedAt = %v, want the refreshed build at %v", got.GeneratedAt, refreshed.GeneratedAt)
	}
}

func TestReady(t *testing.T) {
	t.Parallel()

	store := newFakeStore()
	svc := newTestService(t, store)
	if err := svc.Ready(context.Background()); err != nil {
		t.Errorf("Ready() error = %v", err)
	}
	store.setFail("Ping", errors.New("down"))
	if err := svc.Ready(context.Background()); err == nil {
		t.Error("Ready() expected error")
	}
}
