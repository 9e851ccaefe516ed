// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package models

import (
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
)

// NotAvailable is the placeholder shown for a metric that could not be computed.
const NotAvailable = "N/A"

// TabName identifies a dashboard tab.
type TabName string

const (
	TabOverview  TabName = "overview"
	TabRetention TabName = "retention"
	TabMiniGames TabName = "minigames"
	TabSegments  TabName = "segments"
	TabActions   TabName = "actions"
)

// Tabs lists the dashboard tabs in display order.
var Tabs = []TabName{TabOverview, TabRetention, TabMiniGames, TabSegments, TabActions}

// Title returns the tab heading.
func (t TabName) Title() string {
	switch t {
	case TabOverview:
		return "📈 Overview"
	case TabRetention:
		return "🔄 Retention"
	case TabMiniGames:
		return "🎮 Mini-Games"
	case TabSegments:
		return "📊 Segments"
	case TabActions:
		return "🎯 Player Actions"
	default:
		return string(t)
	}
}

// Valid reports whether t is a known tab.
func (t TabName) Valid() bool {
	for _, known := range Tabs {
		if t == known {
			return true
		}
	}
	return false
}

// PanelStatus is the outcome of one panel's query.
type PanelStatus string

const (
	// PanelOK means Data holds a result.
	PanelOK PanelStatus = "ok"

	// PanelEmpty means the query succeeded but returned nothing to show.
	PanelEmpty PanelStatus = "empty"

	// PanelUnavailable means the query failed; Message holds the placeholder text.
	PanelUnavailable PanelStatus = "unavailable"
)

// PanelKind tells the renderer how to draw a panel.
type PanelKind string

const (
	KindMetrics PanelKind = "metrics"
	KindLine    PanelKind = "line"
	KindBar     PanelKind = "bar"
	KindTable   PanelKind = "table"
)

// Panel is one independently computed block of a tab.
type Panel struct {
	ID          string      `json:"id"`
	Title       string      `json:"title"`
	Caption     string      `json:"caption,omitempty"`
	Kind        PanelKind   `json:"kind"`
	Status      PanelStatus `json:"status"`
	Message     string      `json:"message,omitempty"`
	Data        interface{} `json:"data,omitempty"`
	QueryTimeMS int64       `json:"query_time_ms"`
}

// OK reports whether the panel holds data.
func (p *Panel) OK() bool { return p.Status == PanelOK }

// Tab is a fully assembled dashboard tab.
type Tab struct {
	Name        TabName   `json:"name"`
	Title       string    `json:"title"`
	Filter      Filter    `json:"filter"`
	Panels      []Panel   `json:"panels"`
	GeneratedAt time.Time `json:"generated_at"`
	Cached      bool      `json:"cached,omitempty"`
}

// Panel returns the panel with the given id.
func (t *Tab) Panel(id string) (*Panel, bool) {
	for i := range t.Panels {
		if t.Panels[i].ID == id {
			return &t.Panels[i], true
		}
	}
	return nil, false
}

// Degraded reports whether any panel failed.
func (t *Tab) Degraded() bool {
	for i := range t.Panels {
		if t.Panels[i].Status == PanelUnavailable {
			return true
		}
	}
	return false
}

// Metric is a single KPI tile.
type Metric struct {
	ID      string   `json:"id"`
	Label   string   `json:"label"`
	Help    string   `json:"help,omitempty"`
	Unit    string   `json:"unit,omitempty"`
	Value   *float64 `json:"value"`
	Display string   `json:"display"`
}

// Available reports whether the metric has a value.
func (m Metric) Available() bool { return m.Value != nil }

// CountMetric builds a metric for an integer count, shown with thousands separators.
func CountMetric(id, label, help string, n int64) Metric {
	v := float64(n)
	return Metric{ID: id, Label: label, Help: help, Value: &v, Display: humanize.Comma(n)}
}

// RatioMetric builds a metric rounded to the given number of decimals.
// Units "%" and "min" are appended to the display string.
func RatioMetric(id, label, help, unit string, v float64, decimals int) Metric {
	v = Round(v, decimals)
	display := strconv.FormatFloat(v, 'f', -1, 64)
	if v >= 1000 {
		display = humanize.CommafWithDigits(v, decimals)
	}
	switch unit {
	case "%":
		display += "%"
	case "":
	default:
		display += " " + unit
	}
	return Metric{ID: id, Label: label, Help: help, Unit: unit, Value: &v, Display: display}
}

// UnavailableMetric is the placeholder tile for a failed or empty query.
func UnavailableMetric(id, label, help string) Metric {
	return Metric{ID: id, Label: label, Help: help, Display: NotAvailable}
}
