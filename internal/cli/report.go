// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package cli

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"syscall"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/export"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

type ReportCmd struct {
	filters *filterFlags
	verbose *bool
}

func NewReportCmd(filters *filterFlags, verbose *bool) *ReportCmd {
	return &ReportCmd{filters: filters, verbose: verbose}
}

func (c *ReportCmd) Command() *cobra.Command {
	return &cobra.Command{
		Use:       "report <tab>",
		Short:     "Print a dashboard tab as tables",
		Args:      cobra.ExactArgs(1),
		ValidArgs: tabArgs(),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := newLogger(*c.verbose)

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

			log.Debug("Building tab", "tab", name, "start", f.StartString(), "end", f.EndString())
			tab, err := s.dash.Tab(ctx, name, f)
			if err != nil {
				return fmt.Errorf("failed to build tab: %w", err)
			}
			if tab.Degraded() {
				log.Warn("Some panels are unavailable", "tab", name)
			}

			printReport(cmd.OutOrStdout(), tab)
			return nil
		},
	}
}

func tabArgs() []string {
	out := make([]string, len(models.Tabs))
	for i, t := range models.Tabs {
		out[i] = string(t)
	}
	return out
}

// printReport writes the metric tiles and every tabular panel of tab.
// Panels without data are listed with their placeholder message.
func printReport(w io.Writer, tab *models.Tab) {
	fmt.Fprintf(w, "%s\n", tab.Title)
	fmt.Fprintf(w, "Period: %s to %s\n", tab.Filter.StartString(), tab.Filter.EndString())
	if len(tab.Filter.Platforms) > 0 {
		fmt.Fprintf(w, "Platforms: %v\n", tab.Filter.Platforms)
	}
	fmt.Fprintln(w)

	if t, ok := export.MetricsTable(tab); ok {
		renderTable(w, t)
	}

	for i := range tab.Panels {
		p := &tab.Panels[i]
		if _, isMetric := p.Data.(models.Metric); isMetric {
			continue
		}
		if !p.OK() {
			msg := p.Message
			if msg == "" {
				msg = "no data"
			}
			fmt.Fprintf(w, "%s: %s\n\n", p.Title, msg)
			continue
		}
		t, ok := export.PanelTable(p)
		if !ok {
			continue
		}
		fmt.Fprintln(w, t.Title)
		renderTable(w, t)
	}
}

func renderTable(w io.Writer, t export.Table) {
	table := tablewriter.NewWriter(w)
	table.SetAutoWrapText(false)
	table.SetAutoFormatHeaders(false)
	table.SetHeaderAlignment(tablewriter.ALIGN_LEFT)
	table.SetBorder(true)
	table.SetHeader(t.Header)
	table.AppendBulk(t.Rows)
	table.Render()
	fmt.Fprintln(w)
}
