// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"fmt"
)

// schemaStatements mirror the columns of the Unity Analytics share that the
// dashboard reads. EVENT_JSON is kept as text; the json extension parses it.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS ` + TableSessions + ` (
		GAME_ID BIGINT NOT NULL,
		USER_ID VARCHAR NOT NULL,
		SESSION_ID VARCHAR NOT NULL,
		EVENT_DATE DATE NOT NULL,
		PLATFORM VARCHAR,
		CLIENT_VERSION VARCHAR,
		USER_COUNTRY VARCHAR,
		PLAYER_START_DATE DATE,
		TOTAL_TIME_MS BIGINT,
		NUMBER_OF_EVENTS INTEGER
	)`,
	`CREATE TABLE IF NOT EXISTS ` + TableEvents + ` (
		GAME_ID BIGINT NOT NULL,
		USER_ID VARCHAR NOT NULL,
		SESSION_ID VARCHAR,
		EVENT_NAME VARCHAR NOT NULL,
		EVENT_TIMESTAMP TIMESTAMP NOT NULL,
		EVENT_JSON VARCHAR
	)`,
	`CREATE INDEX IF NOT EXISTS idx_sessions_game_date ON ` + TableSessions + `(GAME_ID, EVENT_DATE)`,
	`CREATE INDEX IF NOT EXISTS idx_events_game_ts ON ` + TableEvents + `(GAME_ID, EVENT_TIMESTAMP)`,
}

// InitSchema creates the analytics tables in a DuckDB warehouse. Snowflake
// tables are owned by the data share and are never created from here.
func (db *DB) InitSchema(ctx context.Context) error {
	if db.Driver() != DriverDuckDB {
		return fmt.Errorf("init schema: %w", ErrNotSupported)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	for _, stmt := range schemaStatements {
		if _, err := db.conn.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create schema: %w", err)
		}
	}
	return nil
}

// rowCount returns the number of rows of one of the analytics tables.
func (db *DB) rowCount(ctx context.Context, table string) (int64, error) {
	var n int64
	err := db.queryRow(ctx, "row count", "SELECT COUNT(*) FROM "+db.dialect.Table(table), nil, &n)
	return n, err
}
