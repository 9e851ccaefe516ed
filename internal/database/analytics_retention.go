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

// firstDayCTE selects every player's first session day over the whole game.
// Retention cohorts are defined by first launch, not by the sidebar's
// platform or version selection. Takes one arg: the game id.
func (db *DB) firstDayCTE() string {
	return `first_day AS (
			SELECT USER_ID, MIN(EVENT_DATE) AS first_date
			FROM ` + db.sessionsTable() + `
			WHERE GAME_ID = ?
			GROUP BY USER_ID
		),
		cohort AS (
			SELECT USER_ID, first_date
			FROM first_day
			WHERE first_date BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)
		)`
}

// DayNRetention returns the share of players first seen in [start, end-n]
// who played again exactly n days after their first day.
//
// Returns ErrWindowTooShort when the filter covers fewer than n days after
// start. An empty cohort yields a result with a nil Rate.
func (db *DB) DayNRetention(ctx context.Context, f models.Filter, n int) (models.RetentionResult, error) {
	result := models.RetentionResult{Day: n}
	operation := fmt.Sprintf("day %d retention", n)
	if n < 1 {
		return result, fmt.Errorf("%s: day must be positive", operation)
	}

	cohortEnd, ok := f.CohortEnd(n)
	if !ok {
		return result, errorContext(operation, ErrWindowTooShort)
	}
	result.CohortFrom = f.StartString()
	result.CohortTo = cohortEnd.Format(models.DateLayout)

	sqlText := `
		WITH ` + db.firstDayCTE() + `,
		returned AS (
			SELECT DISTINCT c.USER_ID
			FROM cohort c
			JOIN ` + db.sessionsTable() + ` s
				ON s.USER_ID = c.USER_ID
				AND s.GAME_ID = ?
				AND s.EVENT_DATE = ` + db.dialect.AddDays("c.first_date") + `
		)
		SELECT
			(SELECT COUNT(*) FROM cohort),
			(SELECT COUNT(*) FROM returned)`
	args := []interface{}{db.gameID, result.CohortFrom, result.CohortTo, db.gameID, n}

	var cohortSize, returned sql.NullInt64
	if err := db.queryRow(ctx, operation, sqlText, args, &cohortSize, &returned); err != nil {
		return result, err
	}

	result.CohortSize = cohortSize.Int64
	result.Returned = returned.Int64
	if rate, ok := models.Percentage(result.Returned, result.CohortSize); ok {
		result.Rate = &rate
	}
	return result, nil
}

// RetentionCurve returns, for each day 0..maxDay since first launch, the
// share of the cohort first seen in [start, end-maxDay] that was active.
// Days on which no cohort player was active are omitted.
func (db *DB) RetentionCurve(ctx context.Context, f models.Filter, maxDay int) (models.RetentionCurve, error) {
	const operation = "retention curve"

	cohortEnd, ok := f.CohortEnd(maxDay)
	if !ok {
		return models.RetentionCurve{}, errorContext(operation, ErrWindowTooShort)
	}
	curve := models.RetentionCurve{
		CohortFrom: f.StartString(),
		CohortTo:   cohortEnd.Format(models.DateLayout),
	}

	// cohort_size always yields one row, so the size is known even when no
	// cohort player has activity in range (day and active are then NULL).
	sqlText := `
		WITH ` + db.firstDayCTE() + `,
		activity AS (
			SELECT DISTINCT c.USER_ID, ` + db.dialect.DaysBetween("c.first_date", "s.EVENT_DATE") + ` AS day_offset
			FROM cohort c
			JOIN ` + db.sessionsTable() + ` s
				ON s.USER_ID = c.USER_ID
				AND s.GAME_ID = ?
		),
		daily AS (
			SELECT day_offset, COUNT(DISTINCT USER_ID) AS active_users
			FROM activity
			WHERE day_offset BETWEEN 0 AND ?
			GROUP BY day_offset
		),
		cohort_size AS (
			SELECT COUNT(*) AS total_users FROM cohort
		)
		SELECT d.day_offset, d.active_users, cs.total_users
		FROM cohort_size cs
		LEFT JOIN daily d ON 1 = 1
		ORDER BY d.day_offset`
	args := []interface{}{db.gameID, curve.CohortFrom, curve.CohortTo, db.gameID, maxDay}

	type row struct {
		day, active sql.NullInt64
		size        int64
	}
	rows, err := queryList(ctx, db, operation, sqlText, args, func(rs *sql.Rows) (row, error) {
		var r row
		err := rs.Scan(&r.day, &r.active, &r.size)
		return r, err
	})
	if err != nil {
		return curve, err
	}

	curve.Points = make([]models.RetentionPoint, 0, len(rows))
	for _, r := range rows {
		curve.CohortSize = r.size
		if !r.day.Valid {
			continue
		}
		rate, ok := models.Percentage(r.active.Int64, r.size)
		if !ok {
			continue
		}
		curve.Points = append(curve.Points, models.RetentionPoint{
			Day:         int(r.day.Int64),
			ActiveUsers: r.active.Int64,
			Rate:        rate,
		})
	}
	return curve, nil
}
