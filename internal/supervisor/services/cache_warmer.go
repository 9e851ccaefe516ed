// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package services

import (
	"context"
	"errors"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/rs/zerolog"
)

// Warmer pre-builds dashboard tabs. Satisfied by *dashboard.Service.
type Warmer interface {
	Warm(ctx context.Context) error
}

// CacheWarmerConfig controls the warm-up schedule.
type CacheWarmerConfig struct {
	// Interval between warm-ups. Keep it below the cache TTL so the default
	// tabs never expire between runs.
	Interval time.Duration

	// WarmOnStartup runs one warm-up before the first tick.
	WarmOnStartup bool
}

// CacheWarmerService periodically rebuilds the default-filter tabs so the
// first visitor after a cache expiry does not wait on the warehouse.
//
// A warm-up that leaves degraded tabs is logged and retried on the next
// tick; it never fails the service.
type CacheWarmerService struct {
	warmer Warmer
	config CacheWarmerConfig
	clock  clockwork.Clock
	logger zerolog.Logger
	name   string
}

// NewCacheWarmerService creates the service. A nil clock uses the real one.
//
//nolint:gocritic // zerolog.Logger is passed by value
func NewCacheWarmerService(warmer Warmer, cfg CacheWarmerConfig, clock clockwork.Clock, logger zerolog.Logger) *CacheWarmerService {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	if cfg.Interval <= 0 {
		cfg.Interval = 4 * time.Minute
	}
	return &CacheWarmerService{
		warmer: warmer,
		config: cfg,
		clock:  clock,
		logger: logger.With().Str("service", "cache-warmer").Logger(),
		name:   "cache-warmer",
	}
}

// Serve implements suture.Service.
func (s *CacheWarmerService) Serve(ctx context.Context) error {
	s.logger.Info().
		Bool("warm_on_startup", s.config.WarmOnStartup).
		Dur("interval", s.config.Interval).
		Msg("cache warmer starting")

	if s.config.WarmOnStartup {
		s.warm(ctx)
	}

	ticker := s.clock.NewTicker(s.config.Interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			s.logger.Info().Msg("cache warmer stopping")
			return ctx.Err()
		case <-ticker.Chan():
			s.warm(ctx)
		}
	}
}

func (s *CacheWarmerService) warm(ctx context.Context) {
	start := s.clock.Now()
	err := s.warmer.Warm(ctx)
	switch {
	case err == nil:
		s.logger.Debug().Dur("duration", s.clock.Since(start)).Msg("cache warm-up complete")
	case errors.Is(err, context.Canceled):
		s.logger.Debug().Msg("cache warm-up canceled")
	default:
		s.logger.Warn().Err(err).Dur("duration", s.clock.Since(start)).Msg("cache warm-up incomplete, retrying on next tick")
	}
}

// String names the service in supervisor logs.
func (s *CacheWarmerService) String() string {
	return s.name
}
