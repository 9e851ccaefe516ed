// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database/query"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Event names and payload keys written by the game client. "isComplated" is
// the key as the client spells it.
const (
	EventMiniGamePlayed = "playedMiniGameStatus"
	EventLobbyAction    = "lobbyActionInExit"

	keyMiniGameName    = "MiniGameName"
	keyDuration        = "duration"
	keyCompleted       = "isComplated"
	keyLobbyActionName = "lobbyActionName"
)

const unknownLabel = "unknown"

// MiniGameStats aggregates playedMiniGameStatus events per mini-game: plays,
// mean duration in seconds (2dp) and completion rate (1dp), most played first.
func (db *DB) MiniGameStats(ctx context.Context, f models.Filter) ([]models.MiniGameStat, error) {
	where, args := db.eventsWhere("", f)
	args = append(args, EventMiniGamePlayed)

	sqlText := `
		SELECT
			mini_game,
			COUNT(*) AS plays,
			CAST(AVG(duration_sec) AS DOUBLE) AS avg_duration,
			CAST(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END) AS BIGINT) AS completed
		FROM (
			SELECT
				` + db.dialect.JSONString(query.ColEventJSON, keyMiniGameName) + ` AS mini_game,
				` + db.dialect.JSONFloat(query.ColEventJSON, keyDuration) + ` AS duration_sec,
				` + db.dialect.JSONInt(query.ColEventJSON, keyCompleted) + ` AS completed
			FROM ` + db.eventsTable() + `
			WHERE ` + where + ` AND EVENT_NAME = ?
		) e
		GROUP BY mini_game
		ORDER BY plays DESC, mini_game`

	return queryList(ctx, db, "mini-game stats", sqlText, args, func(rows *sql.Rows) (models.MiniGameStat, error) {
		var (
			name      sql.NullString
			plays     int64
			avgDur    sql.NullFloat64
			completed sql.NullInt64
		)
		if err := rows.Scan(&name, &plays, &avgDur, &completed); err != nil {
			return models.MiniGameStat{}, err
		}
		stat := models.MiniGameStat{
			MiniGame:       labelOrUnknown(name),
			Plays:          plays,
			AvgDurationSec: models.Round(avgDur.Float64, 2),
		}
		stat.CompletionRate, _ = models.Percentage(completed.Int64, plays)
		return stat, nil
	})
}

// LobbyActionStats aggregates lobbyActionInExit events per lobby action:
// count and completion rate (1dp), most frequent first.
func (db *DB) LobbyActionStats(ctx context.Context, f models.Filter) ([]models.LobbyActionStat, error) {
	where, args := db.eventsWhere("", f)
	args = append(args, EventLobbyAction)

	sqlText := `
		SELECT
			action_name,
			COUNT(*) AS action_count,
			CAST(SUM(CASE WHEN completed = 1 THEN 1 ELSE 0 END) AS BIGINT) AS completed
		FROM (
			SELECT
				` + db.dialect.JSONString(query.ColEventJSON, keyLobbyActionName) + ` AS action_name,
				` + db.dialect.JSONInt(query.ColEventJSON, keyCompleted) + ` AS completed
			FROM ` + db.eventsTable() + `
			WHERE ` + where + ` AND EVENT_NAME = ?
		) e
		GROUP BY action_name
		ORDER BY action_count DESC, action_name`

	return queryList(ctx, db, "lobby action stats", sqlText, args, func(rows *sql.Rows) (models.LobbyActionStat, error) {
		var (
			name      sql.NullString
			count     int64
			completed sql.NullInt64
		)
		if err := rows.Scan(&name, &count, &completed); err != nil {
			return models.LobbyActionStat{}, err
		}
		stat := models.LobbyActionStat{Action: labelOrUnknown(name), Count: count}
		stat.CompletionRate, _ = models.Percentage(completed.Int64, count)
		return stat, nil
	})
}

func labelOrUnknown(s sql.NullString) string {
	if !s.Valid || s.String == "" {
		return unknownLabel
	}
	return s.String
}
