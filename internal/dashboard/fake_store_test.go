// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"context"
	"sync"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// fakeStore returns canned results. Any method named in fail returns that
// error instead; methods named in panics panic.
type fakeStore struct {
	mu     sync.Mutex
	calls  map[string]int
	fail   map[string]error
	panics map[string]bool

	avgDAU *float64
	mau    int64
	curve  models.RetentionCurve
	empty  bool
}

func newFakeStore() *fakeStore {
	dau := 2.0
	return &fakeStore{
		calls:  map[string]int{},
		fail:   map[string]error{},
		panics: map[string]bool{},
		avgDAU: &dau,
		mau:    4,
		curve: models.RetentionCurve{
			CohortFrom: "2025-03-01",
			CohortTo:   "2025-03-03",
			CohortSize: 2,
			Points: []models.RetentionPoint{
				{Day: 0, ActiveUsers: 2, Rate: 100},
				{Day: 1, ActiveUsers: 1, Rate: 50},
			},
		},
	}
}

func (s *fakeStore) enter(name string) error {
	s.mu.Lock()
	s.calls[name]++
	err := s.fail[name]
	p := s.panics[name]
	s.mu.Unlock()
	if p {
		panic("boom in " + name)
	}
	return err
}

func (s *fakeStore) callCount(name string) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[name]
}

func (s *fakeStore) setFail(name string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err == nil {
		delete(s.fail, name)
		return
	}
	s.fail[name] = err
}

func ptr(v float64) *float64 { return &v }

func (s *fakeStore) Ping(context.Context) error { return s.enter("Ping") }

func (s *fakeStore) TotalPlayers(context.Context, models.Filter) (int64, error) {
	return 4, s.enter("TotalPlayers")
}

func (s *fakeStore) AverageDAU(context.Context, models.Filter) (*float64, error) {
	return s.avgDAU, s.enter("AverageDAU")
}

func (s *fakeStore) WAU(context.Context, models.Filter) (int64, error) {
	return 3, s.enter("WAU")
}

func (s *fakeStore) MAU(context.Context, models.Filter) (int64, error) {
	return s.mau, s.enter("MAU")
}

func (s *fakeStore) NewPlayers(context.Context, models.Filter) (int64, error) {
	return 3, s.enter("NewPlayers")
}

func (s *fakeStore) SessionsPerPlayer(context.Context, models.Filter) (*float64, error) {
	return ptr(1.75), s.enter("SessionsPerPlayer")
}

func (s *fakeStore) AverageSessionMinutes(context.Context, models.Filter) (*float64, error) {
	return ptr(10.17), s.enter("AverageSessionMinutes")
}

func (s *fakeStore) TotalSessions(context.Context, models.Filter) (int64, error) {
	return 7, s.enter("TotalSessions")
}

func (s *fakeStore) ActionsPerPlayer(context.Context, models.Filter) (*float64, error) {
	return ptr(3.5), s.enter("ActionsPerPlayer")
}

func (s *fakeStore) TotalActions(context.Context, models.Filter) (int64, error) {
	return 7, s.enter("TotalActions")
}

func (s *fakeStore) ActionsPerSession(context.Context, models.Filter) (*float64, error) {
	return ptr(5.1), s.enter("ActionsPerSession")
}

func (s *fakeStore) daily(name string) ([]models.DailyValue, error) {
	if err := s.enter(name); err != nil {
		return nil, err
	}
	if s.empty {
		return []models.DailyValue{}, nil
	}
	return []models.DailyValue{{Date: "2025-03-01", Value: 2}, {Date: "2025-03-02", Value: 1}}, nil
}

func (s *fakeStore) DailyActiveUsers(context.Context, models.Filter) ([]models.DailyValue, error) {
	return s.daily("DailyActiveUsers")
}

func (s *fakeStore) DailyNewPlayers(context.Context, models.Filter) ([]models.DailyValue, error) {
	return s.daily("DailyNewPlayers")
}

func (s *fakeStore) DailySessionLength(context.Context, models.Filter) ([]models.DailyValue, error) {
	return s.daily("DailySessionLength")
}

func (s *fakeStore) DayNRetention(_ context.Context, _ models.Filter, n int) (models.RetentionResult, error) {
	if err := s.enter("DayNRetention"); err != nil {
		return models.RetentionResult{Day: n}, err
	}
	if n >= 14 {
		return models.RetentionResult{Day: n}, database.ErrWindowTooShort
	}
	return models.RetentionResult{Day: n, CohortSize: 3, Returned: 2, Rate: ptr(66.7)}, nil
}

func (s *fakeStore) RetentionCurve(context.Context, models.Filter, int) (models.RetentionCurve, error) {
	return s.curve, s.enter("RetentionCurve")
}

func (s *fakeStore) MiniGameStats(context.Context, models.Filter) ([]models.MiniGameStat, error) {
	if err := s.enter("MiniGameStats"); err != nil || s.empty {
		return []models.MiniGameStat{}, err
	}
	return []models.MiniGameStat{{MiniGame: "Puzzle", Plays: 2, AvgDurationSec: 40.25, CompletionRate: 50}}, nil
}

func (s *fakeStore) LobbyActionStats(context.Context, models.Filter) ([]models.LobbyActionStat, error) {
	if err := s.enter("LobbyActionStats"); err != nil || s.empty {
		return []models.LobbyActionStat{}, err
	}
	return []models.LobbyActionStat{{Action: "openShop", Count: 2, CompletionRate: 50}}, nil
}

func (s *fakeStore) segments(name string) ([]models.SegmentCount, error) {
	if err := s.enter(name); err != nil || s.empty {
		return []models.SegmentCount{}, err
	}
	return []models.SegmentCount{{Segment: "ANDROID", Players: 3}, {Segment: "IOS", Players: 1}}, nil
}

func (s *fakeStore) PlayersByPlatform(context.Context, models.Filter) ([]models.SegmentCount, error) {
	return s.segments("PlayersByPlatform")
}

func (s *fakeStore) PlayersByVersion(context.Context, models.Filter) ([]models.SegmentCount, error) {
	return s.segments("PlayersByVersion")
}

func (s *fakeStore) TopCountries(context.Context, models.Filter, int) ([]models.SegmentCount, error) {
	return s.segments("TopCountries")
}

func (s *fakeStore) ActivityByHour(context.Context, models.Filter) ([]models.HourActivity, error) {
	if err := s.enter("ActivityByHour"); err != nil || s.empty {
		return []models.HourActivity{}, err
	}
	return []models.HourActivity{{Hour: 10, Actions: 3}}, nil
}

func (s *fakeStore) PlayersByWeekday(context.Context, models.Filter) ([]models.WeekdayPlayers, error) {
	if err := s.enter("PlayersByWeekday"); err != nil || s.empty {
		return []models.WeekdayPlayers{}, err
	}
	return []models.WeekdayPlayers{{DayNum: 6, Day: "Sat", Players: 2}}, nil
}

func (s *fakeStore) ClientVersions(context.Context) ([]string, error) {
	if err := s.enter("ClientVersions"); err != nil {
		return nil, err
	}
	return []string{"1.1", "1.0"}, nil
}

func (s *fakeStore) Countries(context.Context) ([]string, error) {
	if err := s.enter("Countries"); err != nil {
		return nil, err
	}
	return []string{"KZ", "RU", "UZ"}, nil
}

func (s *fakeStore) TopEvents(context.Context, models.Filter, int) ([]models.EventCount, error) {
	if err := s.enter("TopEvents"); err != nil || s.empty {
		return []models.EventCount{}, err
	}
	return []models.EventCount{{Action: models.FriendlyActionName("sessionStart"), EventName: "sessionStart", Total: 2}}, nil
}

func (s *fakeStore) EventNames(context.Context, models.Filter) ([]string, error) {
	if err := s.enter("EventNames"); err != nil || s.empty {
		return []string{}, err
	}
	return []string{"sessionStart"}, nil
}

func (s *fakeStore) EventDaily(_ context.Context, _ models.Filter, name string) (models.EventDeepDive, error) {
	if err := s.enter("EventDaily"); err != nil {
		return models.EventDeepDive{}, err
	}
	return models.NewEventDeepDive(name, []models.EventDaily{{Date: "2025-03-01", Count: 2, UniqueUsers: 1}}), nil
}
