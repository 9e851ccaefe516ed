// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

/*
Package main is the entry point for the Bek va Lola analytics dashboard.

The server reads player sessions and raw game events from the Unity Analytics
share in Snowflake and renders them as five dashboard tabs (overview,
retention, mini-games, segments, player actions), both as an HTML page and as
a JSON API.

# Application Architecture

	RootSupervisor ("bekvalola")
	├── DataSupervisor ("data-layer")
	│   └── Cache warmer (optional, DASHBOARD_WARM_INTERVAL > 0)
	└── APISupervisor ("api-layer")
	    └── HTTP Server

Component initialization order:

 1. Configuration: koanf v2 with .env, config.yaml and environment variables
 2. Logging: zerolog with JSON/console output modes
 3. Warehouse: Snowflake, or DuckDB with optional demo data for development
 4. Dashboard service: panel worker pool and tab cache
 5. Supervisor tree: suture v4 process supervision
 6. HTTP server: chi router with middleware stack

# Local development

	export WAREHOUSE_DRIVER=duckdb
	export SEED_DEMO_DATA=true
	./bekvalola

# Signal Handling

SIGINT and SIGTERM cancel the root context; the supervisor stops the HTTP
server gracefully and the warehouse connection is closed last.
*/
package main
