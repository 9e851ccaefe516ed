// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package services

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/thejerf/suture/v4"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
)

var _ suture.Service = (*CacheWarmerService)(nil)

type fakeWarmer struct {
	mu   sync.Mutex
	runs int
	err  error
	ran  chan struct{}
}

func newFakeWarmer(err error) *fakeWarmer {
	return &fakeWarmer{err: err, ran: make(chan struct{}, 16)}
}

func (w *fakeWarmer) Warm(context.Context) error {
	w.mu.Lock()
	w.runs++
	err := w.err
	w.mu.Unlock()
	w.ran <- struct{}{}
	return err
}

func (w *fakeWarmer) count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

func waitRun(t *testing.T, w *fakeWarmer) {
	t.Helper()
	select {
	case <-w.ran:
	case <-time.After(2 * time.Second):
		t.Fatal("warm-up did not run")
	}
}

func TestCacheWarmerRunsOnStartupAndEveryTick(t *testing.T) {
	t.Parallel()

	clock := clockwork.NewFakeClock()
	warmer := newFakeWarmer(nil)
	svc := NewCacheWarmerService(warmer, CacheWarmerConfig{Interval: time.Minute, WarmOnStartup: true}, clock, logging.NewTestLogger(&bytes.Buffer{}))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitRun(t, warmer)

	for i := 0; i < 2; i++ {
		blockCtx, blockCancel := context.WithTimeout(ctx, 2*time.Second)
		if err := clock.BlockUntilContext(blockCtx, 1); err != nil {
			blockCancel()
			t.Fatalf("ticker was not created: %v", err)
		}
		blockCancel()
		clock.Advance(time.Minute)
		waitRun(t, warmer)
	}

	cancel()
	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if got := warmer.count(); got != 3 {
		t.Errorf("warm-ups = %d, want 3", got)
	}
}

func TestCacheWarmerKeepsRunningAfterDegradedWarmUp(t *testing.T) {
	t.Parallel()

	var logs bytes.Buffer
	clock := clockwork.NewFakeClock()
	warmer := newFakeWarmer(errors.New("cache warm-up left degraded tabs: [retention]"))
	svc := NewCacheWarmerService(warmer, CacheWarmerConfig{Interval: time.Minute, WarmOnStartup: true}, clock, logging.NewTestLogger(&logs))

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- svc.Serve(ctx) }()

	waitRun(t, warmer)
	cancel()

	if err := <-errCh; !errors.Is(err, context.Canceled) {
		t.Errorf("Serve() = %v, want context.Canceled", err)
	}
	if !strings.Contains(logs.String(), "retrying on next tick") {
		t.Errorf("degraded warm-up was not logged: %s", logs.String())
	}
}

func TestNewCacheWarmerServiceDefaults(t *testing.T) {
	t.Parallel()

	svc := NewCacheWarmerService(newFakeWarmer(nil), CacheWarmerConfig{}, nil, logging.NewTestLogger(&bytes.Buffer{}))
	if svc.config.Interval != 4*time.Minute {
		t.Errorf("interval = %v, want 4m", svc.config.Interval)
	}
	if svc.clock == nil {
		t.Error("clock not defaulted")
	}
	if svc.String() != "cache-warmer" {
		t.Errorf("String() = %q", svc.String())
	}
}
