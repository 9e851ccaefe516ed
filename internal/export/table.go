// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package export turns dashboard tabs into downloadable files. Panels are
// flattened into header-plus-rows tables (shared with the CSV download
// endpoint and the CLI report), and whole tabs are written as JSON or CSV
// snapshots to a local directory or an S3 bucket.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/dashboard"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Table is a panel flattened to strings.
type Table struct {
	Title  string
	Header []string
	Rows   [][]string
}

var segmentHeaders = map[string]string{
	dashboard.PanelPlatforms: "Platform",
	dashboard.PanelVersions:  "Version",
	dashboard.PanelCountries: "Country",
}

func itoa(n int64) string { return strconv.FormatInt(n, 10) }

func ftoa(v float64) string { return strconv.FormatFloat(v, 'f', -1, 64) }

// PanelTable flattens a panel's data. It returns false for panels with no
// tabular data, such as failed or empty panels without a placeholder.
func PanelTable(p *models.Panel) (Table, bool) {
	t := Table{Title: p.Title}

	switch data := p.Data.(type) {
	case models.Metric:
		t.Header = []string{"Metric", "Value"}
		t.Rows = [][]string{{data.Label, data.Display}}

	case []models.DailyValue:
		t.Header = []string{"Date", "Value"}
		for _, d := range data {
			t.Rows = append(t.Rows, []string{d.Date, ftoa(d.Value)})
		}

	case models.RetentionCurve:
		t.Header = []string{"Day", "Active Users", "Retention %"}
		for _, pt := range data.Points {
			t.Rows = append(t.Rows, []string{strconv.Itoa(pt.Day), itoa(pt.ActiveUsers), ftoa(pt.Rate)})
		}

	case []models.MiniGameStat:
		t.Header = []string{"Mini-Game", "Plays", "Avg Duration (sec)", "Completion %"}
		for _, m := range data {
			t.Rows = append(t.Rows, []string{m.MiniGame, itoa(m.Plays), ftoa(m.AvgDurationSec), ftoa(m.CompletionRate)})
		}

	case []models.LobbyActionStat:
		t.Header = []string{"Action", "Count", "Completion %"}
		for _, a := range data {
			t.Rows = append(t.Rows, []string{a.Action, itoa(a.Count), ftoa(a.CompletionRate)})
		}

	case []models.SegmentCount:
		first := segmentHeaders[p.ID]
		if first == "" {
			first = "Segment"
		}
		t.Header = []string{first, "Players"}
		for _, s := range data {
			t.Rows = append(t.Rows, []string{s.Segment, itoa(s.Players)})
		}

	case []models.HourActivity:
		t.Header = []string{"Hour (UTC)", "Actions"}
		for _, h := range data {
			t.Rows = append(t.Rows, []string{strconv.Itoa(h.Hour), itoa(h.Actions)})
		}

	case []models.WeekdayPlayers:
		t.Header = []string{"Day", "Players"}
		for _, d := range data {
			t.Rows = append(t.Rows, []string{d.Day, itoa(d.Players)})
		}

	case []models.EventCount:
		t.Header = []string{"Action", "Event Code", "Total"}
		for _, e := range data {
			t.Rows = append(t.Rows, []string{e.Action, e.EventName, itoa(e.Total)})
		}

	case []string:
		t.Header = []string{"Event Code", "Action"}
		for _, name := range data {
			t.Rows = append(t.Rows, []string{name, models.FriendlyActionName(name)})
		}

	case models.EventDeepDive:
		t.Header = []string{"Date", "Count", "Unique Players"}
		for _, d := range data.Days {
			t.Rows = append(t.Rows, []string{d.Date, itoa(d.Count), itoa(d.UniqueUsers)})
		}

	default:
		return Table{}, false
	}
	return t, true
}

// MetricsTable collects every metric tile of a tab into one two-column table.
func MetricsTable(tab *models.Tab) (Table, bool) {
	t := Table{Title: tab.Title, Header: []string{"Metric", "Value"}}
	for i := range tab.Panels {
		if m, ok := tab.Panels[i].Data.(models.Metric); ok {
			t.Rows = append(t.Rows, []string{m.Label, m.Display})
		}
	}
	return t, len(t.Rows) > 0
}

// WriteCSV writes the header and rows of t.
func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Header); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return fmt.Errorf("write csv rows: %w", err)
	}
	return nil
}
