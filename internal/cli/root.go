// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package cli implements bvlctl, the operator command line for the
// dashboard: printing tabs as tables, exporting snapshots and seeding a
// local DuckDB warehouse.
package cli

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/dashboard"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
)

type ExitCode int

const (
	exitCodeSuccess ExitCode = 0
	exitCodeError   ExitCode = 1
)

// filterFlags are the sidebar filters as persistent flags.
type filterFlags struct {
	preset    string
	start     string
	end       string
	platforms []string
	versions  []string
	countries []string
}

func (f *filterFlags) input() dashboard.FilterInput {
	return dashboard.FilterInput{
		Preset:    f.preset,
		Start:     f.start,
		End:       f.end,
		Platforms: f.platforms,
		Versions:  f.versions,
		Countries: f.countries,
	}
}

// Run executes the root command and returns the process exit code.
func Run() ExitCode {
	if err := NewRootCmd().Execute(); err != nil {
		return exitCodeError
	}
	return exitCodeSuccess
}

// NewRootCmd builds the command tree.
func NewRootCmd() *cobra.Command {
	var verbose bool
	filters := &filterFlags{}

	rootCmd := &cobra.Command{
		Use:           "bvlctl",
		Short:         "Command line for the Bek va Lola analytics dashboard.",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			level := "warn"
			if verbose {
				level = "debug"
			}
			// Library packages log through zerolog; keep them on stderr
			// so report output on stdout stays clean.
			logging.Init(logging.Config{Level: level, Format: "console", Output: os.Stderr})
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cmd.Help(); err != nil {
				return fmt.Errorf("failed to show help: %w", err)
			}
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.BoolVarP(&verbose, "verbose", "v", false, "set debug logging level")
	flags.StringVar(&filters.preset, "preset", "", "date preset (7d, 14d, 30d, 90d, custom)")
	flags.StringVar(&filters.start, "start", "", "custom range start (YYYY-MM-DD)")
	flags.StringVar(&filters.end, "end", "", "custom range end (YYYY-MM-DD)")
	flags.StringSliceVar(&filters.platforms, "platform", nil, "platforms to include (ANDROID, IOS)")
	flags.StringSliceVar(&filters.versions, "client-version", nil, "client versions to include (default all)")
	flags.StringSliceVar(&filters.countries, "country", nil, "ISO country codes to include (default all)")

	rootCmd.AddCommand(
		NewReportCmd(filters, &verbose).Command(),
		NewExportCmd(filters, &verbose).Command(),
		NewSeedCmd(&verbose).Command(),
	)
	return rootCmd
}

func newLogger(verbose bool) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      level,
		TimeFormat: time.Kitchen,
	}))
}

// session is an open warehouse plus the dashboard service built on it.
type session struct {
	cfg  *config.Config
	db   *database.DB
	dash *dashboard.Service
}

func openSession(cfg *config.Config) (*session, error) {
	db, err := database.New(&cfg.Warehouse)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to warehouse: %w", err)
	}
	opts := dashboard.OptionsFromConfig(&cfg.Dashboard)
	return &session{
		cfg:  cfg,
		db:   db,
		dash: dashboard.NewService(db, opts, nil),
	}, nil
}

func (s *session) Close() error {
	s.dash.Close()
	return s.db.Close()
}
