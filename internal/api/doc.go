// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

/*
Package api provides the HTTP surface of the dashboard.

Routes:

	GET /                                  server-rendered dashboard (query: tab, filters, event)
	GET /api/v1/filters                    sidebar options
	GET /api/v1/tabs/{tab}                 one assembled tab
	GET /api/v1/actions/{event}/daily      per-day deep dive of one event
	GET /api/v1/export/{tab}/{panel}.csv   CSV download of a tabular panel
	GET /health/live, /health/ready        probes
	GET /metrics                           Prometheus exposition

Filter query parameters are preset, start, end, platform, version and
country; the last three may be repeated or comma-separated:

	/api/v1/tabs/retention?preset=custom&start=2025-01-01&end=2025-01-31&platform=IOS,ANDROID

JSON endpoints answer with the models.APIResponse envelope. A tab with failed
panels is still a 200 with metadata.degraded set; only invalid input (400),
unknown tabs (404) and an open warehouse circuit (503) fail the request.

Usage:

	handler := api.NewHandler(dashboardService)
	router := api.NewRouter(handler, api.NewChiMiddleware(api.ChiMiddlewareConfigFromSecurity(&cfg.Security)))
	srv := &http.Server{Addr: ":8501", Handler: router.SetupChi()}
*/
package api
