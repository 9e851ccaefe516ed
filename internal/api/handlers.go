// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/dashboard"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/export"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Dashboard is the part of dashboard.Service the handlers use.
type Dashboard interface {
	ResolveFilter(in dashboard.FilterInput) (models.Filter, error)
	Tab(ctx context.Context, name models.TabName, f models.Filter) (*models.Tab, error)
	Filters(ctx context.Context) models.FilterOptions
	EventDaily(ctx context.Context, f models.Filter, eventName string) (models.EventDeepDive, error)
	Ready(ctx context.Context) error
}

// Handler serves the dashboard page and the JSON API.
//
// Handler methods are split across files:
//   - handlers.go: constructor, filter, tab, deep dive and CSV endpoints
//   - handlers_health.go: liveness and readiness probes
//   - handlers_index.go: the server-rendered dashboard page
type Handler struct {
	dash         Dashboard
	readyTimeout time.Duration
	startTime    time.Time
}

// NewHandler creates a handler over dash.
func NewHandler(dash Dashboard) *Handler {
	return &Handler{
		dash:         dash,
		readyTimeout: 10 * time.Second,
		startTime:    time.Now(),
	}
}

// resolveFilter validates the query string and resolves it into a filter.
// It writes the error response and returns false on failure.
func (h *Handler) resolveFilter(w http.ResponseWriter, r *http.Request) (models.Filter, bool) {
	req := parseFilterRequest(r)
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, apiErr)
		return models.Filter{}, false
	}
	f, err := h.dash.ResolveFilter(req.Input())
	if err != nil {
		respondServiceError(w, err)
		return models.Filter{}, false
	}
	return f, true
}

// Filters returns the options for the filter sidebar.
func (h *Handler) Filters(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	respondSuccess(w, h.dash.Filters(r.Context()), models.Metadata{})
}

// Tab assembles one dashboard tab.
//
// A tab with unavailable panels is still a 200; metadata.degraded tells the
// client some panels are placeholders.
func (h *Handler) Tab(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()

	name := models.TabName(chi.URLParam(r, "tab"))
	if !name.Valid() {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Unknown tab %q", name), nil)
		return
	}
	f, ok := h.resolveFilter(w, r)
	if !ok {
		return
	}

	tab, err := h.dash.Tab(r.Context(), name, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	meta := models.Metadata{
		Timestamp: time.Now(),
		Cached:    tab.Cached,
		Degraded:  tab.Degraded(),
	}
	if !tab.Cached {
		meta.QueryTimeMS = time.Since(start).Milliseconds()
	}
	if meta.Degraded {
		w.Header().Set("Cache-Control", "no-store")
	}
	respondSuccess(w, tab, meta)
}

// EventDaily returns the per-day trend of one event.
func (h *Handler) EventDaily(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	start := time.Now()

	ev := EventRequest{Event: chi.URLParam(r, "event")}
	if apiErr := validateRequest(&ev); apiErr != nil {
		respondValidationError(w, apiErr)
		return
	}
	f, ok := h.resolveFilter(w, r)
	if !ok {
		return
	}

	dd, err := h.dash.EventDaily(r.Context(), f, ev.Event)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	respondSuccess(w, dd, models.Metadata{QueryTimeMS: time.Since(start).Milliseconds()})
}

// ExportPanelCSV downloads one tabular panel as CSV.
func (h *Handler) ExportPanelCSV(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}

	name := models.TabName(chi.URLParam(r, "tab"))
	if !name.Valid() {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Unknown tab %q", name), nil)
		return
	}
	f, ok := h.resolveFilter(w, r)
	if !ok {
		return
	}

	tab, err := h.dash.Tab(r.Context(), name, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	panelID := chi.URLParam(r, "panel")
	panel, found := tab.Panel(panelID)
	if !found {
		respondError(w, http.StatusNotFound, ErrCodeNotFound, fmt.Sprintf("Unknown panel %q", panelID), nil)
		return
	}
	table, ok := export.PanelTable(panel)
	if !ok {
		msg := panel.Message
		if msg == "" {
			msg = dashboard.MessageNoData
		}
		respondError(w, http.StatusNotFound, ErrCodeNotFound, msg, nil)
		return
	}

	filename := fmt.Sprintf("%s_%s_%s_%s.csv", name, panel.ID, f.StartString(), f.EndString())
	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(http.StatusOK)
	if err := export.WriteCSV(w, table); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Str("panel", panel.ID).Msg("Failed to write CSV export")
	}
}
