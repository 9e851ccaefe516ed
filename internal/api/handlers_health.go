// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// HealthStatus is the body of the health probes.
type HealthStatus struct {
	Status            string  `json:"status"`
	WarehouseHealthy  bool    `json:"warehouse_healthy"`
	UptimeSeconds     float64 `json:"uptime_seconds"`
	WarehouseResponse string  `json:"warehouse_response,omitempty"`
}

// HealthLive reports that the process is serving requests. It never touches
// the warehouse.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, HealthStatus{
		Status:        "alive",
		UptimeSeconds: time.Since(h.startTime).Seconds(),
	}, models.Metadata{})
}

// HealthReady pings the warehouse.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	ctx, cancel := context.WithTimeout(r.Context(), h.readyTimeout)
	defer cancel()

	start := time.Now()
	if err := h.dash.Ready(ctx); err != nil {
		respondError(w, http.StatusServiceUnavailable, ErrCodeServiceUnavailable, "Warehouse is not reachable", err)
		return
	}

	w.Header().Set("Cache-Control", "no-store")
	respondSuccess(w, HealthStatus{
		Status:            "ready",
		WarehouseHealthy:  true,
		UptimeSeconds:     time.Since(h.startTime).Seconds(),
		WarehouseResponse: time.Since(start).Round(time.Millisecond).String(),
	}, models.Metadata{})
}
