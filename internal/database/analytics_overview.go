// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database/query"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

func (db *DB) sessionsTable() string { return db.dialect.Table(TableSessions) }

func (db *DB) eventsTable() string { return db.dialect.Table(TableEvents) }

// sessionsWhere returns the WHERE clause and args for the sessions table.
func (db *DB) sessionsWhere(alias string, f models.Filter) (string, []interface{}) {
	return query.SessionsWhere(alias, db.gameID, f).Build()
}

// eventsWhere returns the WHERE clause and args for the events table.
func (db *DB) eventsWhere(alias string, f models.Filter) (string, []interface{}) {
	return query.EventsWhere(alias, db.gameID, f).Build()
}

// nullableRound converts a nullable warehouse value to a rounded pointer.
func nullableRound(v sql.NullFloat64, decimals int) *float64 {
	if !v.Valid {
		return nil
	}
	r := models.Round(v.Float64, decimals)
	return &r
}

// countQuery runs a single COUNT statement.
func (db *DB) countQuery(ctx context.Context, operation, sqlText string, args []interface{}) (int64, error) {
	var n sql.NullInt64
	if err := db.queryRow(ctx, operation, sqlText, args, &n); err != nil {
		return 0, err
	}
	return n.Int64, nil
}

// ratioQuery runs a single-value statement returning a nullable DOUBLE.
func (db *DB) ratioQuery(ctx context.Context, operation, sqlText string, args []interface{}, decimals int) (*float64, error) {
	var v sql.NullFloat64
	if err := db.queryRow(ctx, operation, sqlText, args, &v); err != nil {
		return nil, err
	}
	return nullableRound(v, decimals), nil
}

// TotalPlayers returns the distinct players with a session in the filter.
func (db *DB) TotalPlayers(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.sessionsWhere("", f)
	return db.countQuery(ctx, "total players",
		"SELECT COUNT(DISTINCT USER_ID) FROM "+db.sessionsTable()+" WHERE "+where, args)
}

// AverageDAU returns the mean of the daily distinct players, rounded to a
// whole player. Nil when no day has activity.
func (db *DB) AverageDAU(ctx context.Context, f models.Filter) (*float64, error) {
	where, args := db.sessionsWhere("", f)
	return db.ratioQuery(ctx, "average dau", `
		SELECT CAST(AVG(daily_users) AS DOUBLE)
		FROM (
			SELECT EVENT_DATE, COUNT(DISTINCT USER_ID) AS daily_users
			FROM `+db.sessionsTable()+`
			WHERE `+where+`
			GROUP BY EVENT_DATE
		) d`, args, 0)
}

// WAU returns the distinct players active in the last seven days before the
// filter end (end-7 .. end), within the filter.
func (db *DB) WAU(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.sessionsWhere("", f)
	args = append(args, f.End.AddDate(0, 0, -7).Format(models.DateLayout))
	return db.countQuery(ctx, "wau",
		"SELECT COUNT(DISTINCT USER_ID) FROM "+db.sessionsTable()+
			" WHERE "+where+" AND EVENT_DATE >= CAST(? AS DATE)", args)
}

// MAU returns the distinct players active in the whole filter range.
func (db *DB) MAU(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.sessionsWhere("", f)
	return db.countQuery(ctx, "mau",
		"SELECT COUNT(DISTINCT USER_ID) FROM "+db.sessionsTable()+" WHERE "+where, args)
}

// NewPlayers returns the players whose first launch falls in the range.
func (db *DB) NewPlayers(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.sessionsWhere("", f)
	args = append(args, f.StartString(), f.EndString())
	return db.countQuery(ctx, "new players",
		"SELECT COUNT(DISTINCT USER_ID) FROM "+db.sessionsTable()+
			" WHERE "+where+" AND PLAYER_START_DATE BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)", args)
}

// SessionsPerPlayer returns distinct sessions per distinct player (2dp).
func (db *DB) SessionsPerPlayer(ctx context.Context, f models.Filter) (*float64, error) {
	where, args := db.sessionsWhere("", f)
	return db.ratioQuery(ctx, "sessions per player",
		"SELECT CAST(COUNT(DISTINCT SESSION_ID) AS DOUBLE) / NULLIF(COUNT(DISTINCT USER_ID), 0) FROM "+
			db.sessionsTable()+" WHERE "+where, args, 2)
}

// AverageSessionMinutes returns the mean session length in minutes (2dp),
// ignoring sessions without a recorded duration.
func (db *DB) AverageSessionMinutes(ctx context.Context, f models.Filter) (*float64, error) {
	where, args := db.sessionsWhere("", f)
	return db.ratioQuery(ctx, "average session minutes",
		"SELECT CAST(AVG(TOTAL_TIME_MS) AS DOUBLE) / 60000 FROM "+db.sessionsTable()+
			" WHERE "+where+" AND TOTAL_TIME_MS > 0", args, 2)
}

// TotalSessions returns the distinct sessions in the filter.
func (db *DB) TotalSessions(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.sessionsWhere("", f)
	return db.countQuery(ctx, "total sessions",
		"SELECT COUNT(DISTINCT SESSION_ID) FROM "+db.sessionsTable()+" WHERE "+where, args)
}

// ActionsPerPlayer returns events per distinct player (1dp).
func (db *DB) ActionsPerPlayer(ctx context.Context, f models.Filter) (*float64, error) {
	where, args := db.eventsWhere("", f)
	return db.ratioQuery(ctx, "actions per player",
		"SELECT CAST(COUNT(*) AS DOUBLE) / NULLIF(COUNT(DISTINCT USER_ID), 0) FROM "+
			db.eventsTable()+" WHERE "+where, args, 1)
}

// TotalActions returns the number of events in the filter window.
func (db *DB) TotalActions(ctx context.Context, f models.Filter) (int64, error) {
	where, args := db.eventsWhere("", f)
	return db.countQuery(ctx, "total actions",
		"SELECT COUNT(*) FROM "+db.eventsTable()+" WHERE "+where, args)
}

// ActionsPerSession returns the mean NUMBER_OF_EVENTS per session row (1dp).
func (db *DB) ActionsPerSession(ctx context.Context, f models.Filter) (*float64, error) {
	where, args := db.sessionsWhere("", f)
	return db.ratioQuery(ctx, "actions per session",
		"SELECT CAST(AVG(NUMBER_OF_EVENTS) AS DOUBLE) FROM "+db.sessionsTable()+" WHERE "+where, args, 1)
}

func scanDailyValue(decimals int) func(*sql.Rows) (models.DailyValue, error) {
	return func(rows *sql.Rows) (models.DailyValue, error) {
		var day time.Time
		var v sql.NullFloat64
		if err := rows.Scan(&day, &v); err != nil {
			return models.DailyValue{}, err
		}
		return models.DailyValue{Date: day.Format(models.DateLayout), Value: models.Round(v.Float64, decimals)}, nil
	}
}

// DailyActiveUsers returns distinct players per EVENT_DATE.
func (db *DB) DailyActiveUsers(ctx context.Context, f models.Filter) ([]models.DailyValue, error) {
	where, args := db.sessionsWhere("", f)
	return queryList(ctx, db, "daily active users", `
		SELECT EVENT_DATE, CAST(COUNT(DISTINCT USER_ID) AS DOUBLE)
		FROM `+db.sessionsTable()+`
		WHERE `+where+`
		GROUP BY EVENT_DATE
		ORDER BY EVENT_DATE`, args, scanDailyValue(0))
}

// DailyNewPlayers returns first-time players per PLAYER_START_DATE.
func (db *DB) DailyNewPlayers(ctx context.Context, f models.Filter) ([]models.DailyValue, error) {
	where, args := db.sessionsWhere("", f)
	args = append(args, f.StartString(), f.EndString())
	return queryList(ctx, db, "daily new players", `
		SELECT PLAYER_START_DATE, CAST(COUNT(DISTINCT USER_ID) AS DOUBLE)
		FROM `+db.sessionsTable()+`
		WHERE `+where+`
		AND PLAYER_START_DATE BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)
		GROUP BY PLAYER_START_DATE
		ORDER BY PLAYER_START_DATE`, args, scanDailyValue(0))
}

// DailySessionLength returns the mean session minutes per EVENT_DATE (2dp).
func (db *DB) DailySessionLength(ctx context.Context, f models.Filter) ([]models.DailyValue, error) {
	where, args := db.sessionsWhere("", f)
	return queryList(ctx, db, "daily session length", `
		SELECT EVENT_DATE, CAST(AVG(TOTAL_TIME_MS) AS DOUBLE) / 60000
		FROM `+db.sessionsTable()+`
		WHERE `+where+`
		AND TOTAL_TIME_MS > 0
		GROUP BY EVENT_DATE
		ORDER BY EVENT_DATE`, args, scanDailyValue(2))
}
