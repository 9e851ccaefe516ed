// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"math"
	"math/rand/v2"
	"time"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// seedNamespace derives stable player and session UUIDs for demo data.
var seedNamespace = uuid.MustParse("6f1c2a0e-4b1d-4c55-9a57-1b3c5d7e9f01")

// SeedOptions controls the synthetic data set.
type SeedOptions struct {
	Players int
	Days    int

	// End is the last day with activity; defaults to today (UTC).
	End time.Time

	// Seed makes the data set reproducible.
	Seed uint64
}

// DefaultSeedOptions returns a data set covering the longest preset.
func DefaultSeedOptions() SeedOptions {
	return SeedOptions{Players: 400, Days: 120, Seed: 181330318}
}

// SeedResult reports what SeedDemoData inserted.
type SeedResult struct {
	Players  int   `json:"players"`
	Sessions int64 `json:"sessions"`
	Events   int64 `json:"events"`
	Skipped  bool  `json:"skipped"`
}

var (
	seedCountries = []string{"UZ", "UZ", "UZ", "KZ", "RU", "TJ", "KG", "TR", "US", "DE", "AE", "GB"}
	seedVersions  = []string{"1.2.0", "1.3.0", "1.3.1", "1.4.0"}
	seedMiniGames = []string{"Puzzle", "Memory", "Coloring", "Counting", "Letters", "Shapes"}
	seedLobby     = []string{"openShop", "openSettings", "openAlbum", "changeCharacter", "dailyReward"}
	seedExtra     = []string{"levelUp", "achievementUnlocked", "rewardClaimed", "adWatched", "settingsChanged", "tutorialCompleted"}
)

// SeedDemoData fills an empty DuckDB warehouse with synthetic players whose
// activity decays after their first launch, so every dashboard panel has data.
// Seeding is skipped when the sessions table already has rows.
func (db *DB) SeedDemoData(ctx context.Context, opts SeedOptions) (SeedResult, error) {
	if db.Driver() != DriverDuckDB {
		return SeedResult{}, fmt.Errorf("seed demo data: %w", ErrNotSupported)
	}
	if err := db.InitSchema(ctx); err != nil {
		return SeedResult{}, err
	}

	existing, err := db.rowCount(ctx, TableSessions)
	if err != nil {
		return SeedResult{}, err
	}
	if existing > 0 {
		logging.Info().Int64("rows", existing).Msg("Warehouse already has session data, skipping demo seed")
		return SeedResult{Skipped: true}, nil
	}

	if opts.Players <= 0 {
		opts.Players = DefaultSeedOptions().Players
	}
	if opts.Days <= 0 {
		opts.Days = DefaultSeedOptions().Days
	}
	if opts.End.IsZero() {
		opts.End = time.Now()
	}
	end := models.Day(opts.End)

	logging.Info().
		Int("players", opts.Players).
		Int("days", opts.Days).
		Str("end", end.Format(models.DateLayout)).
		Msg("Seeding warehouse with demo data...")

	tx, err := db.conn.BeginTx(ctx, nil)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to begin seed transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	sessStmt, err := tx.PrepareContext(ctx, `INSERT INTO `+TableSessions+`
		(GAME_ID, USER_ID, SESSION_ID, EVENT_DATE, PLATFORM, CLIENT_VERSION, USER_COUNTRY, PLAYER_START_DATE, TOTAL_TIME_MS, NUMBER_OF_EVENTS)
		VALUES (?, ?, ?, CAST(? AS DATE), ?, ?, ?, CAST(? AS DATE), ?, ?)`)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to prepare session insert: %w", err)
	}
	defer closeQuietly(sessStmt)

	evStmt, err := tx.PrepareContext(ctx, `INSERT INTO `+TableEvents+`
		(GAME_ID, USER_ID, SESSION_ID, EVENT_NAME, EVENT_TIMESTAMP, EVENT_JSON)
		VALUES (?, ?, ?, ?, CAST(? AS TIMESTAMP), ?)`)
	if err != nil {
		return SeedResult{}, fmt.Errorf("failed to prepare event insert: %w", err)
	}
	defer closeQuietly(evStmt)

	gen := &seedGenerator{
		rng:     rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15)),
		gameID:  db.gameID,
		sess:    sessStmt,
		events:  evStmt,
		endDay:  end,
		numDays: opts.Days,
	}

	result := SeedResult{Players: opts.Players}
	for i := 0; i < opts.Players; i++ {
		sessions, events, err := gen.player(ctx, i)
		if err != nil {
			return SeedResult{}, err
		}
		result.Sessions += sessions
		result.Events += events
	}

	if err := tx.Commit(); err != nil {
		return SeedResult{}, fmt.Errorf("failed to commit demo data: %w", err)
	}

	logging.Info().
		Int("players", result.Players).
		Int64("sessions", result.Sessions).
		Int64("events", result.Events).
		Msg("Demo data seeded")

	return result, nil
}

type seedGenerator struct {
	rng     *rand.Rand
	gameID  int64
	sess    *sql.Stmt
	events  *sql.Stmt
	endDay  time.Time
	numDays int
}

func (g *seedGenerator) pick(values []string) string {
	return values[g.rng.IntN(len(values))]
}

// player writes one synthetic player: a first-launch day, then a return
// probability that halves roughly every nine days.
func (g *seedGenerator) player(ctx context.Context, index int) (int64, int64, error) {
	userID := uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("player-%d", index))).String()
	platform := models.PlatformAndroid
	if g.rng.Float64() < 0.35 {
		platform = models.PlatformIOS
	}
	country := g.pick(seedCountries)
	firstOffset := g.rng.IntN(g.numDays)
	firstDay := g.endDay.AddDate(0, 0, -(g.numDays - 1 - firstOffset))
	versionIdx := min(len(seedVersions)-1, firstOffset*len(seedVersions)/g.numDays)
	loyalty := 0.25 + g.rng.Float64()*0.5

	var sessions, events int64
	for day := firstDay; !day.After(g.endDay); day = day.AddDate(0, 0, 1) {
		age := int(day.Sub(firstDay).Hours() / 24)
		if age > 0 && g.rng.Float64() > loyalty*math.Exp(-float64(age)/13) {
			continue
		}
		if versionIdx < len(seedVersions)-1 && g.rng.Float64() < 0.03 {
			versionIdx++
		}

		perDay := 1 + g.rng.IntN(2)
		for s := 0; s < perDay; s++ {
			sessionID := uuid.NewSHA1(seedNamespace, []byte(fmt.Sprintf("%s/%s/%d", userID, day.Format(models.DateLayout), s))).String()
			n, err := g.session(ctx, userID, sessionID, day)
			if err != nil {
				return 0, 0, err
			}
			if _, err := g.sess.ExecContext(ctx,
				g.gameID, userID, sessionID, day.Format(models.DateLayout), platform,
				seedVersions[versionIdx], country, firstDay.Format(models.DateLayout),
				int64(60_000+g.rng.IntN(19*60_000)), n,
			); err != nil {
				return 0, 0, fmt.Errorf("failed to insert demo session: %w", err)
			}
			sessions++
			events += int64(n)
		}
	}
	return sessions, events, nil
}

// session writes the events of one session and returns how many it wrote.
func (g *seedGenerator) session(ctx context.Context, userID, sessionID string, day time.Time) (int, error) {
	// evening-heavy hour distribution
	hour := 7 + g.rng.IntN(10)
	if g.rng.Float64() < 0.4 {
		hour = 17 + g.rng.IntN(5)
	}
	ts := day.Add(time.Duration(hour)*time.Hour + time.Duration(g.rng.IntN(3600))*time.Second)

	count := 0
	emit := func(name string, payload map[string]interface{}) error {
		body := "{}"
		if payload != nil {
			b, err := json.Marshal(payload)
			if err != nil {
				return err
			}
			body = string(b)
		}
		ts = ts.Add(time.Duration(5+g.rng.IntN(90)) * time.Second)
		if _, err := g.events.ExecContext(ctx, g.gameID, userID, sessionID, name, ts.Format("2006-01-02 15:04:05"), body); err != nil {
			return fmt.Errorf("failed to insert demo event: %w", err)
		}
		count++
		return nil
	}

	if err := emit("sessionStart", nil); err != nil {
		return 0, err
	}
	plays := 1 + g.rng.IntN(4)
	for i := 0; i < plays; i++ {
		completed := 0
		if g.rng.Float64() < 0.7 {
			completed = 1
		}
		if err := emit("playedMiniGameStatus", map[string]interface{}{
			"MiniGameName": g.pick(seedMiniGames),
			"duration":     math.Round((20+g.rng.Float64()*160)*100) / 100,
			"isComplated":  completed,
		}); err != nil {
			return 0, err
		}
	}
	if g.rng.Float64() < 0.6 {
		completed := 0
		if g.rng.Float64() < 0.8 {
			completed = 1
		}
		if err := emit("lobbyActionInExit", map[string]interface{}{
			"lobbyActionName": g.pick(seedLobby),
			"isComplated":     completed,
		}); err != nil {
			return 0, err
		}
	}
	if g.rng.Float64() < 0.5 {
		if err := emit(g.pick(seedExtra), nil); err != nil {
			return 0, err
		}
	}
	if err := emit("sessionEnd", nil); err != nil {
		return 0, err
	}
	return count, nil
}
