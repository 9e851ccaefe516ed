// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/api"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/dashboard"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/supervisor"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/supervisor/services"
)

// version is set at build time with -ldflags "-X main.version=...".
var version = "dev"

//nolint:gocyclo // Main initialization function with sequential setup steps
func main() {
	// Load configuration first to get logging settings
	cfg, err := config.Load()
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to load configuration")
	}

	logging.Init(logging.Config{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		Caller:    cfg.Logging.Caller,
		Timestamp: true,
		Output:    os.Stderr,
	})

	logging.Info().
		Str("version", version).
		Str("warehouse", cfg.Warehouse.Driver).
		Int64("game_id", cfg.Warehouse.GameID).
		Str("environment", cfg.Server.Environment).
		Msg("Starting Bek va Lola analytics dashboard")

	db, err := database.New(&cfg.Warehouse)
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to connect to warehouse")
	}
	defer func() {
		if err := db.Close(); err != nil {
			logging.Error().Err(err).Msg("Error closing warehouse connection")
		}
	}()

	if cfg.Warehouse.Driver == database.DriverDuckDB && cfg.Warehouse.DuckDB.SeedDemoData {
		logging.Info().Msg("Demo data seeding enabled (SEED_DEMO_DATA=true)")
		res, err := db.SeedDemoData(context.Background(), database.DefaultSeedOptions())
		if err != nil {
			// Close before the fatal exit; deferred calls do not run.
			if closeErr := db.Close(); closeErr != nil {
				logging.Error().Err(closeErr).Msg("Error closing warehouse connection")
			}
			logging.Fatal().Err(err).Msg("Failed to seed demo data")
		}
		logging.Info().
			Bool("skipped", res.Skipped).
			Int("players", res.Players).
			Int64("sessions", res.Sessions).
			Int64("events", res.Events).
			Msg("Demo data ready")
	}

	pingCtx, pingCancel := context.WithTimeout(context.Background(), cfg.Warehouse.QueryTimeout)
	if err := db.Ping(pingCtx); err != nil {
		// The dashboard still starts; panels render placeholders until the
		// warehouse answers and /health/ready reports the outage.
		logging.Warn().Err(err).Msg("Warehouse is not reachable yet")
	} else {
		logging.Info().Str("driver", db.Driver()).Msg("Warehouse connection established")
	}
	pingCancel()

	dash := dashboard.NewService(db, dashboard.OptionsFromConfig(&cfg.Dashboard), nil)
	defer dash.Close()

	handler := api.NewHandler(dash)
	chiMiddleware := api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security))
	router := api.NewRouter(handler, chiMiddleware)

	if cfg.Security.RateLimitDisabled {
		logging.Warn().Msg("Rate limiting is DISABLED (DISABLE_RATE_LIMIT=true)")
	}

	server := &http.Server{
		Addr:              fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler:           router.SetupChi(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       cfg.Server.Timeout,
		// Tabs wait on several warehouse queries; allow a full panel timeout
		// on top of the request budget.
		WriteTimeout: cfg.Server.Timeout + cfg.Dashboard.PanelTimeout,
		IdleTimeout:  2 * time.Minute,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Bridges zerolog to slog for sutureslog
	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.TreeConfig{
		FailureThreshold: 5,
		FailureBackoff:   15 * time.Second,
		ShutdownTimeout:  cfg.Server.ShutdownTimeout + 5*time.Second,
	})
	if err != nil {
		logging.Fatal().Err(err).Msg("Failed to create supervisor tree")
	}

	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))

	if cfg.Dashboard.WarmInterval > 0 {
		tree.AddDataService(services.NewCacheWarmerService(dash, services.CacheWarmerConfig{
			Interval:      cfg.Dashboard.WarmInterval,
			WarmOnStartup: true,
		}, nil, logging.Logger()))
		logging.Info().Dur("interval", cfg.Dashboard.WarmInterval).Msg("Cache warmer enabled")
	} else {
		logging.Info().Msg("Cache warmer disabled (DASHBOARD_WARM_INTERVAL=0)")
	}

	metrics.AppInfo.WithLabelValues(version, runtime.Version(), cfg.Warehouse.Driver).Set(1)
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(15 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				metrics.AppUptime.Set(time.Since(startTime).Seconds())
			}
		}
	}()

	logging.Info().Str("addr", server.Addr).Msg("Starting supervisor tree")
	errCh := tree.ServeBackground(ctx)

	// Serve returns once every service has stopped or the shutdown timeout hit.
	if err := <-errCh; err != nil && !errors.Is(err, context.Canceled) {
		logging.Error().Err(err).Msg("Supervisor tree error")
	}

	unstopped, _ := tree.UnstoppedServiceReport()
	if len(unstopped) > 0 {
		logging.Warn().Int("count", len(unstopped)).Msg("Services failed to stop within timeout")
		for _, svc := range unstopped {
			logging.Warn().Str("service", svc.Name).Msg("Service failed to stop")
		}
	}

	logging.Info().Msg("Application stopped gracefully")
}
