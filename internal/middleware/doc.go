// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package middleware provides the HTTP middleware of the dashboard server in
// the chi func(http.Handler) http.Handler form:
//
//   - RequestID: accepts or generates X-Request-ID and binds it to the
//     logging context
//   - PrometheusMetrics: request counts, durations and in-flight gauge,
//     labelled by chi route pattern
//   - RequestLogger: one structured zerolog line per request
//
// Typical chain:
//
//	r := chi.NewRouter()
//	r.Use(middleware.RequestID)
//	r.Use(middleware.PrometheusMetrics)
//	r.Use(middleware.RequestLogger)
package middleware
