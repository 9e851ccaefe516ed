// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package cli

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/export"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

var errNoDestination = errors.New("no export destination: set --dir or --s3-bucket (or EXPORT_DIR / EXPORT_S3_BUCKET)")

type ExportCmd struct {
	filters *filterFlags
	verbose *bool
}

func NewExportCmd(filters *filterFlags, verbose *bool) *ExportCmd {
	return &ExportCmd{filters: filters, verbose: verbose}
}

func (c *ExportCmd) Command() *cobra.Command {
	cmd := &cobra.Command{
		Use:       "export <tab>",
		Short:     "Write a timestamped JSON or CSV snapshot of a tab",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tabArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*c.verbose)

			formatFlag, err := cmd.Flags().GetString("format")
			if err != nil {
				return fmt.Errorf("failed to get format flag: %w", err)
			}
			dir, err := cmd.Flags().GetString("dir")
			if err != nil {
				return fmt.Errorf("failed to get dir flag: %w", err)
			}
			bucket, err := cmd.Flags().GetString("s3-bucket")
			if err != nil {
				return fmt.Errorf("failed to get s3-bucket flag: %w", err)
			}

			format, err := export.ParseFormat(formatFlag)
			if err != nil {
				return err
			}
			name := models.TabName(args[0])
			if !name.Valid() {
				return fmt.Errorf("unknown tab %q (valid: %v)", args[0], models.Tabs)
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load configuration: %w", err)
			}
			sink, err := sinkFor(ctx, &cfg.Export, dir, bucket)
			if err != nil {
				return err
			}

			s, err := openSession(cfg)
			if err != nil {
				return err
			}
			defer func() {
				if err := s.Close(); err != nil {
					log.Warn("Failed to close warehouse connection", "error", err)
				}
			}()

			f, err := s.dash.ResolveFilter(c.filters.input())
			if err != nil {
				return fmt.Errorf("invalid filter: %w", err)
			}
			tab, err := s.dash.Tab(ctx, name, f)
			if err != nil {
				return fmt.Errorf("failed to build tab: %w", err)
			}
			if tab.Degraded() {
				log.Warn("Exporting a tab with unavailable panels", "tab", name)
			}

			res, err := export.Export(ctx, tab, format, sink, time.Now())
			if err != nil {
				return err
			}
			log.Info("Snapshot written", "location", res.Location, "bytes", res.Bytes)
			fmt.Fprintln(cmd.OutOrStdout(), res.Location)
			return nil
		},
	}

	cmd.Flags().String("format", string(export.FormatJSON), "snapshot format (json, csv)")
	cmd.Flags().String("dir", "", "write the snapshot to this directory")
	cmd.Flags().String("s3-bucket", "", "upload the snapshot to this S3 bucket")
	cmd.MarkFlagsMutuallyExclusive("dir", "s3-bucket")
	return cmd
}

// sinkFor picks the destination: flags first, then the export config.
// A bucket wins over a directory when both come from the config.
func sinkFor(ctx context.Context, cfg *config.ExportConfig, dir, bucket string) (export.Sink, error) {
	switch {
	case dir != "":
		return export.DirSink{Dir: dir}, nil
	case bucket != "":
		return export.NewS3Sink(ctx, bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
	case cfg.S3Bucket != "":
		return export.NewS3Sink(ctx, cfg.S3Bucket, cfg.S3Prefix, cfg.S3Region, cfg.S3Endpoint)
	case cfg.Dir != "":
		return export.DirSink{Dir: cfg.Dir}, nil
	}
	return nil, errNoDestination
}
