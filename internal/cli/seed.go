// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package cli

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
)

type SeedCmd struct {
	verbose *bool
}

func NewSeedCmd(verbose *bool) *SeedCmd {
	return &SeedCmd{verbose: verbose}
}

func (c *SeedCmd) Command() *cobra.Command {
	defaults := database.DefaultSeedOptions()

	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Create and fill a local DuckDB warehouse with demo players",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*c.verbose)

			path, err := cmd.Flags().GetString("path")
			if err != nil {
				return fmt.Errorf("failed to get path flag: %w", err)
			}
			players, err := cmd.Flags().GetInt("players")
			if err != nil {
				return fmt.Errorf("failed to get players flag: %w", err)
			}
			days, err := cmd.Flags().GetInt("days")
			if err != nil {
				return fmt.Errorf("failed to get days flag: %w", err)
			}
			seed, err := cmd.Flags().GetUint64("seed")
			if err != nil {
				return fmt.Errorf("failed to get seed flag: %w", err)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			cfg.Warehouse.Driver = database.DriverDuckDB
			if path != "" {
				cfg.Warehouse.DuckDB.Path = path
			}

			db, err := database.New(&cfg.Warehouse)
			if err != nil {
				return fmt.Errorf("failed to open duckdb: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					log.Warn("Failed to close duckdb", "error", err)
				}
			}()

			start := time.Now()
			res, err := db.SeedDemoData(ctx, database.SeedOptions{
				Players: players,
				Days:    days,
				Seed:    seed,
			})
			if err != nil {
				return fmt.Errorf("failed to seed demo data: %w", err)
			}
			if res.Skipped {
				log.Info("Warehouse already has data, nothing seeded", "path", cfg.Warehouse.DuckDB.Path)
				return nil
			}
			log.Info("Demo data seeded",
				"path", cfg.Warehouse.DuckDB.Path,
				"players", res.Players,
				"sessions", res.Sessions,
				"events", res.Events,
				"took", time.Since(start).Round(time.Millisecond),
			)
			return nil
		},
	}

	cmd.Flags().String("path", "", "duckdb file to seed (default from DUCKDB_PATH)")
	cmd.Flags().Int("players", defaults.Players, "number of synthetic players")
	cmd.Flags().Int("days", defaults.Days, "days of activity ending today")
	cmd.Flags().Uint64("seed", defaults.Seed, "random seed for a reproducible data set")
	return cmd
}
