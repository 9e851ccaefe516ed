// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

func scanSegment(rows *sql.Rows) (models.SegmentCount, error) {
	var (
		segment sql.NullString
		players int64
	)
	if err := rows.Scan(&segment, &players); err != nil {
		return models.SegmentCount{}, err
	}
	return models.SegmentCount{Segment: labelOrUnknown(segment), Players: players}, nil
}

// playersBy counts distinct players per value of a sessions column.
func (db *DB) playersBy(ctx context.Context, operation, column string, f models.Filter, order string, limit int) ([]models.SegmentCount, error) {
	where, args := db.sessionsWhere("", f)
	sqlText := `
		SELECT ` + column + `, COUNT(DISTINCT USER_ID) AS players
		FROM ` + db.sessionsTable() + `
		WHERE ` + where + `
		GROUP BY ` + column + `
		ORDER BY ` + order
	if limit > 0 {
		sqlText += fmt.Sprintf("\n\t\tLIMIT %d", limit)
	}
	return queryList(ctx, db, operation, sqlText, args, scanSegment)
}

// PlayersByPlatform returns distinct players per platform.
func (db *DB) PlayersByPlatform(ctx context.Context, f models.Filter) ([]models.SegmentCount, error) {
	return db.playersBy(ctx, "players by platform", "PLATFORM", f, "PLATFORM", 0)
}

// PlayersByVersion returns distinct players per client version, largest first.
func (db *DB) PlayersByVersion(ctx context.Context, f models.Filter) ([]models.SegmentCount, error) {
	return db.playersBy(ctx, "players by version", "CLIENT_VERSION", f, "players DESC, CLIENT_VERSION DESC", 0)
}

// TopCountries returns the limit countries with the most distinct players.
func (db *DB) TopCountries(ctx context.Context, f models.Filter, limit int) ([]models.SegmentCount, error) {
	if limit <= 0 {
		limit = 10
	}
	return db.playersBy(ctx, "top countries", "USER_COUNTRY", f, "players DESC, USER_COUNTRY", limit)
}

// ActivityByHour returns the number of events per UTC hour of day. Hours
// without events are omitted.
func (db *DB) ActivityByHour(ctx context.Context, f models.Filter) ([]models.HourActivity, error) {
	where, args := db.eventsWhere("", f)
	sqlText := `
		SELECT HOUR(EVENT_TIMESTAMP) AS event_hour, COUNT(*) AS actions
		FROM ` + db.eventsTable() + `
		WHERE ` + where + `
		GROUP BY HOUR(EVENT_TIMESTAMP)
		ORDER BY event_hour`

	return queryList(ctx, db, "activity by hour", sqlText, args, func(rows *sql.Rows) (models.HourActivity, error) {
		var h models.HourActivity
		var hour int64
		if err := rows.Scan(&hour, &h.Actions); err != nil {
			return h, err
		}
		h.Hour = int(hour)
		return h, nil
	})
}

// PlayersByWeekday returns distinct players per day of week, Sunday first.
func (db *DB) PlayersByWeekday(ctx context.Context, f models.Filter) ([]models.WeekdayPlayers, error) {
	where, args := db.sessionsWhere("", f)
	sqlText := `
		SELECT DAYOFWEEK(EVENT_DATE) AS day_num, COUNT(DISTINCT USER_ID) AS players
		FROM ` + db.sessionsTable() + `
		WHERE ` + where + `
		GROUP BY DAYOFWEEK(EVENT_DATE)
		ORDER BY day_num`

	return queryList(ctx, db, "players by weekday", sqlText, args, func(rows *sql.Rows) (models.WeekdayPlayers, error) {
		var w models.WeekdayPlayers
		var dayNum int64
		if err := rows.Scan(&dayNum, &w.Players); err != nil {
			return w, err
		}
		w.DayNum = int(dayNum)
		w.Day = models.WeekdayLabel(w.DayNum)
		return w, nil
	})
}

// ClientVersions returns every client version seen for the game, newest first.
func (db *DB) ClientVersions(ctx context.Context) ([]string, error) {
	sqlText := `
		SELECT DISTINCT CLIENT_VERSION
		FROM ` + db.sessionsTable() + `
		WHERE GAME_ID = ? AND CLIENT_VERSION IS NOT NULL
		ORDER BY CLIENT_VERSION DESC`

	return queryList(ctx, db, "client versions", sqlText, []interface{}{db.gameID}, func(rows *sql.Rows) (string, error) {
		var v string
		err := rows.Scan(&v)
		return v, err
	})
}

// Countries returns every country seen for the game, alphabetically.
func (db *DB) Countries(ctx context.Context) ([]string, error) {
	sqlText := `
		SELECT DISTINCT USER_COUNTRY
		FROM ` + db.sessionsTable() + `
		WHERE GAME_ID = ? AND USER_COUNTRY IS NOT NULL
		ORDER BY USER_COUNTRY`

	return queryList(ctx, db, "countries", sqlText, []interface{}{db.gameID}, func(rows *sql.Rows) (string, error) {
		var v string
		err := rows.Scan(&v)
		return v, err
	})
}
