// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package models

import "math"

// Round rounds half away from zero, matching the warehouse ROUND().
func Round(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}

// Percentage returns round(part*100/whole, 1), or false when whole is zero.
func Percentage(part, whole int64) (float64, bool) {
	if whole <= 0 {
		return 0, false
	}
	return Round(float64(part)*100/float64(whole), 1), true
}

// Stickiness returns average DAU / MAU as a percentage with one decimal.
// It is undefined when MAU is zero or average DAU is missing or zero.
func Stickiness(avgDAU *float64, mau int64) (float64, bool) {
	if avgDAU == nil || *avgDAU == 0 || mau <= 0 {
		return 0, false
	}
	return Round(*avgDAU/float64(mau)*100, 1), true
}

// DailyValue is one point of a per-day series.
type DailyValue struct {
	Date  string  `json:"date"`
	Value float64 `json:"value"`
}

// RetentionResult is the day-N retention of the cohort first seen in the
// filter window. Rate is nil when the cohort is empty or the window is too
// short to observe day N.
type RetentionResult struct {
	Day        int      `json:"day"`
	CohortFrom string   `json:"cohort_from,omitempty"`
	CohortTo   string   `json:"cohort_to,omitempty"`
	CohortSize int64    `json:"cohort_size"`
	Returned   int64    `json:"returned"`
	Rate       *float64 `json:"rate"`
}

// RetentionPoint is one day of the retention curve.
type RetentionPoint struct {
	Day         int     `json:"day"`
	ActiveUsers int64   `json:"active_users"`
	Rate        float64 `json:"rate"`
}

// RetentionCurve is the share of a cohort active on each day since first launch.
// Day 0 is 100% by construction.
type RetentionCurve struct {
	CohortFrom string           `json:"cohort_from"`
	CohortTo   string           `json:"cohort_to"`
	CohortSize int64            `json:"cohort_size"`
	Points     []RetentionPoint `json:"points"`
}

// MiniGameStat aggregates playedMiniGameStatus events for one mini-game.
type MiniGameStat struct {
	MiniGame       string  `json:"mini_game"`
	Plays          int64   `json:"plays"`
	AvgDurationSec float64 `json:"avg_duration_sec"`
	CompletionRate float64 `json:"completion_rate"`
}

// LobbyActionStat aggregates lobbyActionInExit events for one lobby action.
type LobbyActionStat struct {
	Action         string  `json:"action"`
	Count          int64   `json:"count"`
	CompletionRate float64 `json:"completion_rate"`
}

// SegmentCount is the number of distinct players in one segment.
type SegmentCount struct {
	Segment string `json:"segment"`
	Players int64  `json:"players"`
}

// HourActivity is the number of events in one UTC hour of the day.
type HourActivity struct {
	Hour    int   `json:"hour"`
	Actions int64 `json:"actions"`
}

// WeekdayPlayers is the number of distinct players on one day of the week.
// DayNum follows the warehouse convention 0=Sunday .. 6=Saturday.
type WeekdayPlayers struct {
	DayNum  int    `json:"day_num"`
	Day     string `json:"day"`
	Players int64  `json:"players"`
}

var weekdayShort = [7]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// WeekdayLabel returns the short name for a 0=Sunday day number.
func WeekdayLabel(dayNum int) string {
	if dayNum < 0 || dayNum > 6 {
		return ""
	}
	return weekdayShort[dayNum]
}

// EventCount is an event name with its occurrence count.
type EventCount struct {
	Action    string `json:"action"`
	EventName string `json:"event_name"`
	Total     int64  `json:"total"`
}

// EventDaily is one day of an event's trend.
type EventDaily struct {
	Date        string `json:"date"`
	Count       int64  `json:"count"`
	UniqueUsers int64  `json:"unique_users"`
}

// EventDeepDive is the per-day trend of a single event with summed totals.
// UniquePlayers sums the per-day distinct users, so a player active on two
// days is counted twice.
type EventDeepDive struct {
	EventName     string       `json:"event_name"`
	Action        string       `json:"action"`
	TotalCount    int64        `json:"total_count"`
	UniquePlayers int64        `json:"unique_players"`
	Days          []EventDaily `json:"days"`
}

// NewEventDeepDive sums the daily rows of an event.
func NewEventDeepDive(eventName string, days []EventDaily) EventDeepDive {
	dd := EventDeepDive{
		EventName: eventName,
		Action:    FriendlyActionName(eventName),
		Days:      days,
	}
	for _, d := range days {
		dd.TotalCount += d.Count
		dd.UniquePlayers += d.UniqueUsers
	}
	return dd
}

// FilterOptions are the choices offered by the filter sidebar.
type FilterOptions struct {
	Presets       []PresetOption `json:"presets"`
	Platforms     []string       `json:"platforms"`
	Versions      []string       `json:"versions"`
	Countries     []string       `json:"countries"`
	DefaultPreset DatePreset     `json:"default_preset"`
	Default       Filter         `json:"default"`
}

// PresetOption is a period choice with its label.
type PresetOption struct {
	Value DatePreset `json:"value"`
	Label string     `json:"label"`
}
