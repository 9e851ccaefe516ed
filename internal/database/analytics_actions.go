// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// TopEvents returns the limit most frequent event names with their
// dashboard labels.
func (db *DB) TopEvents(ctx context.Context, f models.Filter, limit int) ([]models.EventCount, error) {
	if limit <= 0 {
		limit = 20
	}
	where, args := db.eventsWhere("", f)
	sqlText := fmt.Sprintf(`
		SELECT EVENT_NAME, COUNT(*) AS event_count
		FROM %s
		WHERE %s
		GROUP BY EVENT_NAME
		ORDER BY event_count DESC, EVENT_NAME
		LIMIT %d`, db.eventsTable(), where, limit)

	return queryList(ctx, db, "top events", sqlText, args, func(rows *sql.Rows) (models.EventCount, error) {
		var e models.EventCount
		if err := rows.Scan(&e.EventName, &e.Total); err != nil {
			return e, err
		}
		e.Action = models.FriendlyActionName(e.EventName)
		return e, nil
	})
}

// EventNames returns the distinct event names in the filter window, sorted.
func (db *DB) EventNames(ctx context.Context, f models.Filter) ([]string, error) {
	where, args := db.eventsWhere("", f)
	sqlText := `
		SELECT DISTINCT EVENT_NAME
		FROM ` + db.eventsTable() + `
		WHERE ` + where + `
		ORDER BY EVENT_NAME`

	return queryList(ctx, db, "event names", sqlText, args, func(rows *sql.Rows) (string, error) {
		var name string
		err := rows.Scan(&name)
		return name, err
	})
}

// EventDaily returns the per-day count and distinct players of one event,
// with the totals summed over the days.
func (db *DB) EventDaily(ctx context.Context, f models.Filter, eventName string) (models.EventDeepDive, error) {
	where, args := db.eventsWhere("", f)
	args = append(args, eventName)
	sqlText := `
		SELECT CAST(EVENT_TIMESTAMP AS DATE) AS event_day, COUNT(*) AS event_count, COUNT(DISTINCT USER_ID) AS unique_users
		FROM ` + db.eventsTable() + `
		WHERE ` + where + ` AND EVENT_NAME = ?
		GROUP BY CAST(EVENT_TIMESTAMP AS DATE)
		ORDER BY event_day`

	days, err := queryList(ctx, db, "event daily", sqlText, args, func(rows *sql.Rows) (models.EventDaily, error) {
		var (
			d   models.EventDaily
			day time.Time
		)
		if err := rows.Scan(&day, &d.Count, &d.UniqueUsers); err != nil {
			return d, err
		}
		d.Date = day.Format(models.DateLayout)
		return d, nil
	})
	if err != nil {
		return models.EventDeepDive{}, err
	}
	return models.NewEventDeepDive(eventName, days), nil
}
