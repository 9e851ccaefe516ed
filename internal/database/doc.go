// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package database is the read-only warehouse client of the dashboard.
//
// # Overview
//
// The game's analytics live in two tables of the Unity Analytics share:
//
//   - ACCOUNT_FACT_USER_SESSIONS_DAY: one row per player, session and day with
//     platform, client version, country, first-launch date, session length
//     and event count.
//   - ACCOUNT_EVENTS: one row per in-game event with its name, timestamp and
//     a JSON payload (mini-game name, duration, completion flag, lobby action).
//
// In production the tables are read from Snowflake through gosnowflake. For
// local development and tests the same schema is created in DuckDB and filled
// with synthetic players (see InitSchema and SeedDemoData).
//
// # Architecture
//
//   - database.go: connection lifecycle and pool configuration
//   - dialect.go: SQL differences between Snowflake and DuckDB
//   - resilience.go: circuit breaker, retry with exponential backoff and
//     query throttling around every statement
//   - schema.go, seed.go: DuckDB development schema and demo data
//   - analytics_overview.go: KPI tiles and daily series
//   - analytics_retention.go: day-N retention and the retention curve
//   - analytics_minigames.go: mini-game and lobby statistics
//   - analytics_segments.go: platform, version, country, hour and weekday splits
//   - analytics_actions.go: event counts, event names and per-event trends
//
// # Query Safety
//
// Filter values are always bind arguments built by the query subpackage.
// Only identifiers that come from this package (table names, JSON keys) are
// placed into SQL text.
//
// # Usage Example
//
//	db, err := database.New(&cfg.Warehouse)
//	if err != nil {
//	    return err
//	}
//	defer db.Close()
//
//	players, err := db.TotalPlayers(ctx, filter)
//	d7, err := db.DayNRetention(ctx, filter, 7)
package database
