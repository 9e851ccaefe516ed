// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package metrics holds the Prometheus collectors exported at /metrics:
// warehouse query latency and failures, circuit breaker state, dashboard
// panel outcomes, cache efficiency, HTTP traffic and snapshot exports.
//
// Collectors are registered on the default registry through promauto, so
// importing the package is enough to expose them.
package metrics

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Warehouse Metrics
	WarehouseQueryDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "warehouse_query_duration_seconds",
			Help:    "Duration of warehouse queries in seconds",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"operation"},
	)

	WarehouseQueryErrors = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_errors_total",
			Help: "Total number of failed warehouse queries",
		},
		[]string{"operation", "error_type"},
	)

	WarehouseQueryRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "warehouse_query_retries_total",
			Help: "Total number of warehouse query retry attempts",
		},
		[]string{"operation"},
	)

	WarehouseThrottleWait = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "warehouse_throttle_wait_seconds",
			Help:    "Time spent waiting for the warehouse query rate limiter",
			Buckets: []float64{.001, .01, .05, .1, .5, 1, 5},
		},
	)

	WarehouseOpenConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "warehouse_open_connections",
			Help: "Current number of open warehouse connections",
		},
	)

	// Circuit Breaker Metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_requests_total",
			Help: "Requests through the circuit breaker by result",
		},
		[]string{"name", "result"}, // "success", "failure", "rejected"
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	// Dashboard Metrics
	PanelsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_panels_total",
			Help: "Dashboard panels computed by tab and status",
		},
		[]string{"tab", "status"},
	)

	PanelDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_panel_duration_seconds",
			Help:    "Time to compute one dashboard panel",
			Buckets: []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30, 60},
		},
		[]string{"tab", "panel"},
	)

	TabBuildDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "dashboard_tab_build_duration_seconds",
			Help:    "Time to assemble a dashboard tab, all panels included",
			Buckets: []float64{.1, .25, .5, 1, 2.5, 5, 10, 30, 60, 120},
		},
		[]string{"tab"},
	)

	CacheWarmRuns = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "dashboard_cache_warm_runs_total",
			Help: "Cache warm-up runs by result",
		},
		[]string{"result"},
	)

	// Cache Metrics
	CacheHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_hits_total",
			Help: "Total number of cache hits",
		},
		[]string{"cache"},
	)

	CacheMisses = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_misses_total",
			Help: "Total number of cache misses",
		},
		[]string{"cache"},
	)

	CacheEvictions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cache_evictions_total",
			Help: "Total number of cache evictions by reason",
		},
		[]string{"cache", "reason"},
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "cache_entries",
			Help: "Current number of cached entries",
		},
		[]string{"cache"},
	)

	// API Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: []float64{.001, .005, .01, .05, .1, .5, 1, 5, 10, 30, 60},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "http_requests_in_flight",
			Help: "Current number of HTTP requests being processed",
		},
	)

	// Export Metrics
	ExportsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "exports_total",
			Help: "Snapshot exports by format, destination and result",
		},
		[]string{"format", "destination", "result"},
	)

	ExportBytes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "export_bytes_total",
			Help: "Bytes written by snapshot exports",
		},
		[]string{"destination"},
	)

	// Application Info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "app_info",
			Help: "Application build information",
		},
		[]string{"version", "go_version", "warehouse"},
	)

	AppUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "app_uptime_seconds",
			Help: "Application uptime in seconds",
		},
	)
)

// ErrorType buckets an error into a low-cardinality label value.
func ErrorType(err error) string {
	switch {
	case err == nil:
		return "none"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.Is(err, context.Canceled):
		return "canceled"
	}
	msg := strings.ToLower(err.Error())
	switch {
	case strings.Contains(msg, "circuit breaker"):
		return "circuit_open"
	case strings.Contains(msg, "connection"), strings.Contains(msg, "network"):
		return "connection"
	case strings.Contains(msg, "syntax"), strings.Contains(msg, "compilation"):
		return "sql"
	default:
		return "other"
	}
}

// RecordWarehouseQuery records the latency and outcome of one warehouse query.
func RecordWarehouseQuery(operation string, duration time.Duration, err error) {
	WarehouseQueryDuration.WithLabelValues(operation).Observe(duration.Seconds())
	if err != nil {
		WarehouseQueryErrors.WithLabelValues(operation, ErrorType(err)).Inc()
	}
}

// RecordPanel records one computed dashboard panel.
func RecordPanel(tab, panel, status string, duration time.Duration) {
	PanelsTotal.WithLabelValues(tab, status).Inc()
	PanelDuration.WithLabelValues(tab, panel).Observe(duration.Seconds())
}

// RecordAPIRequest records an API request metric
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest tracks active API requests
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}

// RecordExport records the outcome of a snapshot export.
func RecordExport(format, destination string, bytes int64, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	ExportsTotal.WithLabelValues(format, destination, result).Inc()
	if err == nil {
		ExportBytes.WithLabelValues(destination).Add(float64(bytes))
	}
}
