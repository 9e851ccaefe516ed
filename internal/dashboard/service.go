// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package dashboard assembles the dashboard tabs. Every tab is a list of
// panels; each panel runs its own warehouse query on a shared worker pool
// so one failing query degrades only its own panel. Healthy tabs are cached
// per filter.
package dashboard

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alitto/pond/v2"
	"github.com/jonboulle/clockwork"
	"golang.org/x/sync/singleflight"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/cache"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

var (
	// ErrUnknownTab is returned for a tab name outside models.Tabs.
	ErrUnknownTab = errors.New("unknown tab")

	// ErrUnknownEvent is returned when a deep dive is requested without an event name.
	ErrUnknownEvent = errors.New("event name is required")

	// ErrUnknownPlatform is returned for a platform outside models.AllPlatforms.
	ErrUnknownPlatform = errors.New("unknown platform")
)

// Store is the warehouse surface used by the dashboard. *database.DB
// implements it.
type Store interface {
	Ping(ctx context.Context) error

	TotalPlayers(ctx context.Context, f models.Filter) (int64, error)
	AverageDAU(ctx context.Context, f models.Filter) (*float64, error)
	WAU(ctx context.Context, f models.Filter) (int64, error)
	MAU(ctx context.Context, f models.Filter) (int64, error)
	NewPlayers(ctx context.Context, f models.Filter) (int64, error)
	SessionsPerPlayer(ctx context.Context, f models.Filter) (*float64, error)
	AverageSessionMinutes(ctx context.Context, f models.Filter) (*float64, error)
	TotalSessions(ctx context.Context, f models.Filter) (int64, error)
	ActionsPerPlayer(ctx context.Context, f models.Filter) (*float64, error)
	TotalActions(ctx context.Context, f models.Filter) (int64, error)
	ActionsPerSession(ctx context.Context, f models.Filter) (*float64, error)
	DailyActiveUsers(ctx context.Context, f models.Filter) ([]models.DailyValue, error)
	DailyNewPlayers(ctx context.Context, f models.Filter) ([]models.DailyValue, error)
	DailySessionLength(ctx context.Context, f models.Filter) ([]models.DailyValue, error)

	DayNRetention(ctx context.Context, f models.Filter, n int) (models.RetentionResult, error)
	RetentionCurve(ctx context.Context, f models.Filter, maxDay int) (models.RetentionCurve, error)

	MiniGameStats(ctx context.Context, f models.Filter) ([]models.MiniGameStat, error)
	LobbyActionStats(ctx context.Context, f models.Filter) ([]models.LobbyActionStat, error)

	PlayersByPlatform(ctx context.Context, f models.Filter) ([]models.SegmentCount, error)
	PlayersByVersion(ctx context.Context, f models.Filter) ([]models.SegmentCount, error)
	TopCountries(ctx context.Context, f models.Filter, limit int) ([]models.SegmentCount, error)
	ActivityByHour(ctx context.Context, f models.Filter) ([]models.HourActivity, error)
	PlayersByWeekday(ctx context.Context, f models.Filter) ([]models.WeekdayPlayers, error)
	ClientVersions(ctx context.Context) ([]string, error)
	Countries(ctx context.Context) ([]string, error)

	TopEvents(ctx context.Context, f models.Filter, limit int) ([]models.EventCount, error)
	EventNames(ctx context.Context, f models.Filter) ([]string, error)
	EventDaily(ctx context.Context, f models.Filter, eventName string) (models.EventDeepDive, error)
}

// Options tune tab assembly. Zero values fall back to the defaults below.
type Options struct {
	Workers       int
	PanelTimeout  time.Duration
	CacheTTL      time.Duration
	CacheCapacity uint64

	DefaultPreset    models.DatePreset
	DefaultPlatforms []string

	RetentionDays []int
	CurveDays     int
	TopCountries  int
	TopEvents     int
	MaxRangeDays  int
}

// OptionsFromConfig maps the dashboard configuration section.
func OptionsFromConfig(cfg *config.DashboardConfig) Options {
	return Options{
		Workers:          cfg.Workers,
		PanelTimeout:     cfg.PanelTimeout,
		CacheTTL:         cfg.CacheTTL,
		CacheCapacity:    cfg.CacheCapacity,
		DefaultPreset:    models.DatePreset(cfg.DefaultPreset),
		DefaultPlatforms: cfg.DefaultPlatforms,
		RetentionDays:    cfg.RetentionDays,
		CurveDays:        cfg.CurveDays,
		TopCountries:     cfg.TopCountries,
		TopEvents:        cfg.TopEvents,
		MaxRangeDays:     cfg.MaxRangeDays,
	}
}

func (o *Options) applyDefaults() {
	if o.Workers <= 0 {
		o.Workers = 8
	}
	if o.PanelTimeout <= 0 {
		o.PanelTimeout = 60 * time.Second
	}
	if o.CacheTTL <= 0 {
		o.CacheTTL = 10 * time.Minute
	}
	if o.CacheCapacity == 0 {
		o.CacheCapacity = 500
	}
	if o.DefaultPreset == "" {
		o.DefaultPreset = models.PresetLast30Days
	}
	if len(o.DefaultPlatforms) == 0 {
		o.DefaultPlatforms = models.AllPlatforms
	}
	if len(o.RetentionDays) == 0 {
		o.RetentionDays = []int{1, 7, 14, 30}
	}
	if o.CurveDays <= 0 {
		o.CurveDays = 30
	}
	if o.TopCountries <= 0 {
		o.TopCountries = 10
	}
	if o.TopEvents <= 0 {
		o.TopEvents = 20
	}
	if o.MaxRangeDays <= 0 {
		o.MaxRangeDays = 366
	}
}

// Service builds and caches dashboard tabs.
type Service struct {
	store Store
	opts  Options
	clock clockwork.Clock

	pool    pond.ResultPool[models.Panel]
	tabs    *cache.Cache[*models.Tab]
	options *cache.Cache[models.FilterOptions]
	events  *cache.Cache[models.EventDeepDive]
	flight  singleflight.Group
}

// NewService creates the service. A nil clock uses the wall clock.
func NewService(store Store, opts Options, clock clockwork.Clock) *Service {
	opts.applyDefaults()
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Service{
		store:   store,
		opts:    opts,
		clock:   clock,
		pool:    pond.NewResultPool[models.Panel](opts.Workers),
		tabs:    cache.New[*models.Tab]("tabs", opts.CacheTTL, opts.CacheCapacity),
		options: cache.New[models.FilterOptions]("filter_options", opts.CacheTTL, 1),
		events:  cache.New[models.EventDeepDive]("event_daily", opts.CacheTTL, opts.CacheCapacity),
	}
}

// Close stops the worker pool after in-flight panels finish.
func (s *Service) Close() {
	s.pool.StopAndWait()
	s.tabs.Stop()
	s.options.Stop()
	s.events.Stop()
}

// Options returns the effective options.
func (s *Service) Options() Options {
	return s.opts
}

// Ready reports whether the warehouse answers.
func (s *Service) Ready(ctx context.Context) error {
	return s.store.Ping(ctx)
}

func tabKey(name models.TabName, f models.Filter) string {
	return cache.GenerateKey("tab:"+string(name), f)
}

// Tab returns the named tab for f, from cache when a healthy copy exists.
// Concurrent requests for the same tab and filter share one build.
func (s *Service) Tab(ctx context.Context, name models.TabName, f models.Filter) (*models.Tab, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	f.Normalize()
	key := tabKey(name, f)
	if tab, ok := s.tabs.Get(key); ok {
		cached := *tab
		cached.Cached = true
		return &cached, nil
	}

	return s.buildAndStore(ctx, key, name, f)
}

// Refresh rebuilds the tab, bypassing the cache. A healthy rebuild replaces
// the cached copy; a degraded one leaves the previous copy in place.
func (s *Service) Refresh(ctx context.Context, name models.TabName, f models.Filter) (*models.Tab, error) {
	if !name.Valid() {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTab, name)
	}
	f.Normalize()
	return s.buildAndStore(ctx, tabKey(name, f), name, f)
}

func (s *Service) buildAndStore(ctx context.Context, key string, name models.TabName, f models.Filter) (*models.Tab, error) {
	v, err, _ := s.flight.Do(key, func() (interface{}, error) {
		// Detach from the first caller so its cancellation does not fail
		// the build for everyone waiting on it; panels keep their timeout.
		tab := s.build(context.WithoutCancel(ctx), name, f)
		if !tab.Degraded() {
			s.tabs.Set(key, tab)
		}
		return tab, nil
	})
	if err != nil {
		return nil, err
	}
	out := *v.(*models.Tab)
	return &out, nil
}

// ClearCache drops every cached tab, option list and deep dive.
func (s *Service) ClearCache() {
	s.tabs.Clear()
	s.options.Clear()
	s.events.Clear()
}

func (s *Service) build(ctx context.Context, name models.TabName, f models.Filter) *models.Tab {
	start := s.clock.Now()
	panels := s.runPanels(ctx, name, s.tasks(name, f))
	if name == models.TabOverview {
		deriveStickiness(panels)
	}
	tab := &models.Tab{
		Name:        name,
		Title:       name.Title(),
		Filter:      f,
		Panels:      panels,
		GeneratedAt: s.clock.Now().UTC(),
	}
	elapsed := s.clock.Since(start)
	metrics.TabBuildDuration.WithLabelValues(string(name)).Observe(elapsed.Seconds())

	event := logging.Ctx(ctx).Debug()
	if tab.Degraded() {
		event = logging.Ctx(ctx).Warn()
	}
	event.
		Str("tab", string(name)).
		Str("start", f.StartString()).
		Str("end", f.EndString()).
		Int("panels", len(panels)).
		Bool("degraded", tab.Degraded()).
		Dur("duration", elapsed).
		Msg("Built dashboard tab")
	return tab
}

func (s *Service) tasks(name models.TabName, f models.Filter) []panelTask {
	switch name {
	case models.TabOverview:
		return s.overviewTasks(f)
	case models.TabRetention:
		return s.retentionTasks(f)
	case models.TabMiniGames:
		return s.miniGameTasks(f)
	case models.TabSegments:
		return s.segmentTasks(f)
	case models.TabActions:
		return s.actionTasks(f)
	default:
		return nil
	}
}

// Filters returns the sidebar choices. A failed version or country lookup
// leaves that list empty rather than failing the sidebar.
func (s *Service) Filters(ctx context.Context) models.FilterOptions {
	if opts, ok := s.options.Get("options"); ok {
		return opts
	}
	return s.loadFilters(ctx)
}

// loadFilters queries the sidebar choices and caches them when both
// lookups succeed.
func (s *Service) loadFilters(ctx context.Context) models.FilterOptions {
	presets := make([]models.PresetOption, len(models.Presets))
	for i, p := range models.Presets {
		presets[i] = models.PresetOption{Value: p, Label: p.Label()}
	}
	opts := models.FilterOptions{
		Presets:       presets,
		Platforms:     models.AllPlatforms,
		Versions:      []string{},
		Countries:     []string{},
		DefaultPreset: s.opts.DefaultPreset,
		Default:       s.DefaultFilter(),
	}

	healthy := true
	if versions, err := s.store.ClientVersions(ctx); err != nil {
		healthy = false
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load client versions")
	} else {
		opts.Versions = versions
	}
	if countries, err := s.store.Countries(ctx); err != nil {
		healthy = false
		logging.Ctx(ctx).Warn().Err(err).Msg("Failed to load countries")
	} else {
		opts.Countries = countries
	}
	if healthy {
		s.options.Set("options", opts)
	}
	return opts
}

// EventDaily returns the per-day trend of one event.
func (s *Service) EventDaily(ctx context.Context, f models.Filter, eventName string) (models.EventDeepDive, error) {
	if eventName == "" {
		return models.EventDeepDive{}, ErrUnknownEvent
	}
	f.Normalize()
	key := cache.GenerateKey("event:"+eventName, f)
	if dd, ok := s.events.Get(key); ok {
		return dd, nil
	}

	ctx, cancel := context.WithTimeout(ctx, s.opts.PanelTimeout)
	defer cancel()
	dd, err := s.store.EventDaily(ctx, f, eventName)
	if err != nil {
		return models.EventDeepDive{}, err
	}
	s.events.Set(key, dd)
	return dd, nil
}

// Warm rebuilds every tab for the default filter so the first visitor is
// served from cache. It returns an error naming the tabs that came back
// degraded.
func (s *Service) Warm(ctx context.Context) error {
	f := s.DefaultFilter()
	var degraded []string
	for _, name := range models.Tabs {
		if ctx.Err() != nil {
			metrics.CacheWarmRuns.WithLabelValues("canceled").Inc()
			return ctx.Err()
		}
		tab, err := s.Refresh(ctx, name, f)
		if err != nil {
			return err
		}
		if tab.Degraded() {
			degraded = append(degraded, string(name))
		}
	}
	s.loadFilters(ctx)

	if len(degraded) > 0 {
		metrics.CacheWarmRuns.WithLabelValues("degraded").Inc()
		return fmt.Errorf("cache warm-up left degraded tabs: %v", degraded)
	}
	metrics.CacheWarmRuns.WithLabelValues("ok").Inc()
	logging.Ctx(ctx).Debug().Int("tabs", len(models.Tabs)).Msg("Dashboard cache warmed")
	return nil
}
