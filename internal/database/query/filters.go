// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package query

import (
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Column names of the Unity Analytics share.
const (
	ColGameID         = "GAME_ID"
	ColUserID         = "USER_ID"
	ColSessionID      = "SESSION_ID"
	ColEventDate      = "EVENT_DATE"
	ColPlatform       = "PLATFORM"
	ColClientVersion  = "CLIENT_VERSION"
	ColUserCountry    = "USER_COUNTRY"
	ColPlayerStart    = "PLAYER_START_DATE"
	ColTotalTimeMS    = "TOTAL_TIME_MS"
	ColNumberOfEvents = "NUMBER_OF_EVENTS"
	ColEventName      = "EVENT_NAME"
	ColEventTimestamp = "EVENT_TIMESTAMP"
	ColEventJSON      = "EVENT_JSON"
)

func qualify(alias, column string) string {
	if alias == "" {
		return column
	}
	return alias + "." + column
}

// SessionsWhere returns the builder for the daily sessions table: game,
// EVENT_DATE range, platforms, client versions and countries. alias
// qualifies the columns when the table is joined ("" for none).
func SessionsWhere(alias string, gameID int64, f models.Filter) *WhereBuilder {
	return NewWhereBuilder().
		AddEquals(qualify(alias, ColGameID), gameID).
		AddDateRange(qualify(alias, ColEventDate), f.Start, f.End).
		AddIn(qualify(alias, ColPlatform), f.Platforms).
		AddIn(qualify(alias, ColClientVersion), f.Versions).
		AddIn(qualify(alias, ColUserCountry), f.Countries)
}

// EventsWhere returns the builder for the raw events table: game and the
// EVENT_TIMESTAMP window covering the filter's days. The events table has no
// platform or version columns, so those selections do not apply.
func EventsWhere(alias string, gameID int64, f models.Filter) *WhereBuilder {
	return NewWhereBuilder().
		AddEquals(qualify(alias, ColGameID), gameID).
		AddTimestampRange(qualify(alias, ColEventTimestamp), f.Start, f.End)
}
