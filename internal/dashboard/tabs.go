// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"context"
	"fmt"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Panel identifiers. They are stable: the HTML page, the CSV export URL and
// the CLI refer to panels by id.
const (
	PanelTotalPlayers      = "total_players"
	PanelAvgDAU            = "avg_dau"
	PanelWAU               = "wau"
	PanelMAU               = "mau"
	PanelNewPlayers        = "new_players"
	PanelSessionsPerPlayer = "sessions_per_player"
	PanelAvgSession        = "avg_session"
	PanelTotalSessions     = "total_sessions"
	PanelActionsPerPlayer  = "actions_per_player"
	PanelTotalActions      = "total_actions"
	PanelStickiness        = "stickiness"
	PanelActionsPerSession = "actions_per_session"
	PanelDAU               = "dau"
	PanelNewPlayersDaily   = "new_players_daily"
	PanelSessionLength     = "session_length"

	PanelRetentionCurve = "retention_curve"

	PanelMiniGames    = "minigames"
	PanelLobbyActions = "lobby_actions"

	PanelPlatforms = "platforms"
	PanelVersions  = "versions"
	PanelCountries = "countries"
	PanelHours     = "hours"
	PanelWeekdays  = "weekdays"

	PanelTopEvents  = "top_events"
	PanelEventNames = "event_names"
)

const (
	labelStickiness = "📌 Stickiness"
	helpStickiness  = "DAU/MAU - how often players return"

	messageNoCurve     = "Not enough data to build retention curve. Try selecting a wider date range."
	messageNoMiniGames = "No mini-game data for selected period"
	messageNoLobby     = "No lobby action data available"
	messageNoActions   = "No action data available"
)

// RetentionPanelID returns the id of the day-N retention tile.
func RetentionPanelID(n int) string {
	return fmt.Sprintf("retention_d%d", n)
}

var retentionHelp = map[int]string{
	1:  "Returned next day",
	7:  "Returned after a week",
	14: "Returned after 2 weeks",
	30: "Returned after a month",
}

func (s *Service) overviewTasks(f models.Filter) []panelTask {
	st := s.store
	count := func(fn func(context.Context, models.Filter) (int64, error)) func(context.Context) (int64, error) {
		return func(ctx context.Context) (int64, error) { return fn(ctx, f) }
	}
	ratio := func(fn func(context.Context, models.Filter) (*float64, error)) func(context.Context) (*float64, error) {
		return func(ctx context.Context) (*float64, error) { return fn(ctx, f) }
	}
	series := func(fn func(context.Context, models.Filter) ([]models.DailyValue, error)) func(context.Context) ([]models.DailyValue, error) {
		return func(ctx context.Context) ([]models.DailyValue, error) { return fn(ctx, f) }
	}

	return []panelTask{
		countTile(PanelTotalPlayers, "👥 Total Players", "Unique players in period", count(st.TotalPlayers)),
		ratioTile(PanelAvgDAU, "📊 Avg DAU", "Average daily active users", "", 0, ratio(st.AverageDAU)),
		countTile(PanelWAU, "📅 WAU", "Weekly active users", count(st.WAU)),
		countTile(PanelMAU, "📆 MAU", "Monthly active users", count(st.MAU)),
		countTile(PanelNewPlayers, "🆕 New Players", "Players who started in this period", count(st.NewPlayers)),
		ratioTile(PanelSessionsPerPlayer, "🔄 Sessions/Player", "Average sessions per player", "", 2, ratio(st.SessionsPerPlayer)),
		ratioTile(PanelAvgSession, "⏱️ Avg Session", "Average session duration", "min", 2, ratio(st.AverageSessionMinutes)),
		countTile(PanelTotalSessions, "🎮 Total Sessions", "Total game sessions", count(st.TotalSessions)),
		ratioTile(PanelActionsPerPlayer, "🎯 Actions/Player", "Average actions per player", "", 1, ratio(st.ActionsPerPlayer)),
		countTile(PanelTotalActions, "📊 Total Actions", "Total in-game actions", count(st.TotalActions)),
		{
			// Filled in from avg_dau and mau once the tab's panels finish.
			id:          PanelStickiness,
			title:       labelStickiness,
			kind:        models.KindMetrics,
			run:         func(context.Context) (interface{}, bool, error) { return nil, true, nil },
			placeholder: func() interface{} { return models.UnavailableMetric(PanelStickiness, labelStickiness, helpStickiness) },
		},
		ratioTile(PanelActionsPerSession, "🔢 Actions/Session", "Average actions per session", "", 1, ratio(st.ActionsPerSession)),

		listPanel(PanelDAU, "📊 Daily Active Users (DAU)", "Unique players who played each day",
			models.KindLine, "", series(st.DailyActiveUsers)),
		listPanel(PanelNewPlayersDaily, "👥 Daily New Players", "Players who launched the game for the first time",
			models.KindLine, "", series(st.DailyNewPlayers)),
		listPanel(PanelSessionLength, "⏱️ Average Session Length (minutes)", "How long players spend in the game per session",
			models.KindLine, "", series(st.DailySessionLength)),
	}
}

func (s *Service) retentionTasks(f models.Filter) []panelTask {
	tasks := make([]panelTask, 0, len(s.opts.RetentionDays)+1)
	for _, n := range s.opts.RetentionDays {
		id := RetentionPanelID(n)
		label := fmt.Sprintf("📅 Day %d", n)
		help := retentionHelp[n]
		if help == "" {
			help = fmt.Sprintf("Returned after %d days", n)
		}
		tasks = append(tasks, panelTask{
			id:           id,
			title:        label,
			kind:         models.KindMetrics,
			emptyMessage: fmt.Sprintf("Select a period longer than %d days to see Day %d retention", n, n),
			run: func(ctx context.Context) (interface{}, bool, error) {
				res, err := s.store.DayNRetention(ctx, f, n)
				if err != nil {
					return nil, false, err
				}
				if res.Rate == nil {
					return nil, true, nil
				}
				return models.RatioMetric(id, label, help, "%", *res.Rate, 1), false, nil
			},
			placeholder: func() interface{} { return models.UnavailableMetric(id, label, help) },
		})
	}

	tasks = append(tasks, panelTask{
		id:           PanelRetentionCurve,
		title:        "📉 Retention Curve",
		caption:      "Shows how the percentage of active players changes each day after first launch. Day 0 = 100% (all new players)",
		kind:         models.KindLine,
		emptyMessage: messageNoCurve,
		run: func(ctx context.Context) (interface{}, bool, error) {
			curve, err := s.store.RetentionCurve(ctx, f, s.opts.CurveDays)
			if err != nil {
				return nil, false, err
			}
			return curve, len(curve.Points) < 2, nil
		},
	})
	return tasks
}

func (s *Service) miniGameTasks(f models.Filter) []panelTask {
	return []panelTask{
		listPanel(PanelMiniGames, "🎮 Mini-Games Statistics", "Analysis of mini-game plays by players",
			models.KindTable, messageNoMiniGames,
			func(ctx context.Context) ([]models.MiniGameStat, error) { return s.store.MiniGameStats(ctx, f) }),
		listPanel(PanelLobbyActions, "🏠 Lobby Actions", "What players do in the main menu",
			models.KindTable, messageNoLobby,
			func(ctx context.Context) ([]models.LobbyActionStat, error) { return s.store.LobbyActionStats(ctx, f) }),
	}
}

func (s *Service) segmentTasks(f models.Filter) []panelTask {
	segments := func(fn func(context.Context, models.Filter) ([]models.SegmentCount, error)) func(context.Context) ([]models.SegmentCount, error) {
		return func(ctx context.Context) ([]models.SegmentCount, error) { return fn(ctx, f) }
	}
	return []panelTask{
		listPanel(PanelPlatforms, "📱 By Platform", "Player distribution between Android and iOS",
			models.KindBar, "", segments(s.store.PlayersByPlatform)),
		listPanel(PanelVersions, "📦 By App Version", "Which versions players are using",
			models.KindBar, "", segments(s.store.PlayersByVersion)),
		listPanel(PanelCountries, fmt.Sprintf("🌍 By Country (Top %d)", s.opts.TopCountries), "Geographic distribution of players",
			models.KindBar, "",
			func(ctx context.Context) ([]models.SegmentCount, error) {
				return s.store.TopCountries(ctx, f, s.opts.TopCountries)
			}),
		listPanel(PanelHours, "🕐 Activity by Hour", "When players are most active during the day (UTC)",
			models.KindBar, "",
			func(ctx context.Context) ([]models.HourActivity, error) { return s.store.ActivityByHour(ctx, f) }),
		listPanel(PanelWeekdays, "📅 Activity by Day of Week", "Which days players play more",
			models.KindBar, "",
			func(ctx context.Context) ([]models.WeekdayPlayers, error) { return s.store.PlayersByWeekday(ctx, f) }),
	}
}

func (s *Service) actionTasks(f models.Filter) []panelTask {
	return []panelTask{
		listPanel(PanelTopEvents, "🎯 In-Game Player Actions", "All player interactions: launches, completions, purchases, and more",
			models.KindTable, messageNoActions,
			func(ctx context.Context) ([]models.EventCount, error) {
				return s.store.TopEvents(ctx, f, s.opts.TopEvents)
			}),
		listPanel(PanelEventNames, "🔍 Action Deep Dive", "Select an action to view daily trends",
			models.KindTable, "",
			func(ctx context.Context) ([]string, error) { return s.store.EventNames(ctx, f) }),
	}
}
