// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/snowflakedb/gosnowflake"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
)

// newBreaker creates the circuit breaker guarding warehouse queries.
//
// Configuration (defaults):
//   - MaxRequests: 3 requests allowed in half-open state
//   - Interval: 1 minute statistical window
//   - Timeout: 2 minutes before transitioning from open to half-open
//   - ReadyToTrip: at least 10 requests with a 60% failure ratio
func newBreaker(name string, cfg config.BreakerConfig) *gobreaker.CircuitBreaker[struct{}] {
	minRequests := cfg.MinRequests
	if minRequests == 0 {
		minRequests = 10
	}
	failureRatio := cfg.FailureRatio
	if failureRatio <= 0 {
		failureRatio = 0.6
	}

	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: cfg.MaxRequests,
		Interval:    cfg.Interval,
		Timeout:     cfg.Timeout,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			if counts.Requests < minRequests {
				return false
			}
			ratio := float64(counts.TotalFailures) / float64(counts.Requests)
			shouldTrip := ratio >= failureRatio
			if shouldTrip {
				logging.Warn().
					Str("name", name).
					Uint32("requests", counts.Requests).
					Uint32("failures", counts.TotalFailures).
					Float64("failure_ratio", ratio).
					Msg("Circuit breaker tripping")
			}
			return shouldTrip
		},
		OnStateChange: func(name string, from gobreaker.State, to gobreaker.State) {
			logging.Info().
				Str("name", name).
				Str("from", from.String()).
				Str("to", to.String()).
				Msg("Circuit breaker state changed")
			metrics.CircuitBreakerState.WithLabelValues(name).Set(stateToFloat(to))
			metrics.CircuitBreakerTransitions.WithLabelValues(name, from.String(), to.String()).Inc()
		},
		// A caller that gave up is not a warehouse failure.
		IsSuccessful: func(err error) bool {
			return err == nil || errors.Is(err, context.Canceled) || errors.Is(err, sql.ErrNoRows)
		},
	}

	metrics.CircuitBreakerState.WithLabelValues(name).Set(0)
	return gobreaker.NewCircuitBreaker[struct{}](settings)
}

func stateToFloat(state gobreaker.State) float64 {
	switch state {
	case gobreaker.StateClosed:
		return 0
	case gobreaker.StateHalfOpen:
		return 1
	case gobreaker.StateOpen:
		return 2
	default:
		return -1
	}
}

// newLimiter returns nil (no throttling) when qps is not positive.
func newLimiter(qps float64) *rate.Limiter {
	if qps <= 0 {
		return nil
	}
	burst := int(qps)
	if burst < 1 {
		burst = 1
	}
	return rate.NewLimiter(rate.Limit(qps), burst)
}

func (db *DB) throttle(ctx context.Context) error {
	if db.limiter == nil {
		return nil
	}
	start := time.Now()
	err := db.limiter.Wait(ctx)
	metrics.WarehouseThrottleWait.Observe(time.Since(start).Seconds())
	return err
}

func (db *DB) retryOptions(operation string) []backoff.RetryOption {
	b := backoff.NewExponentialBackOff()
	if db.cfg.Retry.InitialInterval > 0 {
		b.InitialInterval = db.cfg.Retry.InitialInterval
	}
	if db.cfg.Retry.MaxInterval > 0 {
		b.MaxInterval = db.cfg.Retry.MaxInterval
	}
	tries := db.cfg.Retry.MaxAttempts
	if tries == 0 {
		tries = 1
	}

	return []backoff.RetryOption{
		backoff.WithBackOff(b),
		backoff.WithMaxTries(tries),
		backoff.WithNotify(func(err error, next time.Duration) {
			metrics.WarehouseQueryRetries.WithLabelValues(operation).Inc()
			logging.Debug().
				Str("operation", operation).
				Dur("retry_in", next).
				Err(err).
				Msg("Retrying warehouse query")
		}),
	}
}

// run executes fn with the per-query timeout, the rate limiter, the circuit
// breaker and retries for transient errors, and records its latency.
func (db *DB) run(ctx context.Context, operation string, fn func(ctx context.Context) error) error {
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	breakerName := db.breaker.Name()
	start := time.Now()

	_, err := backoff.Retry(ctx, func() (struct{}, error) {
		if err := db.throttle(ctx); err != nil {
			return struct{}{}, backoff.Permanent(err)
		}

		_, err := db.breaker.Execute(func() (struct{}, error) {
			return struct{}{}, fn(ctx)
		})
		switch {
		case err == nil:
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "success").Inc()
			return struct{}{}, nil
		case errors.Is(err, gobreaker.ErrOpenState), errors.Is(err, gobreaker.ErrTooManyRequests):
			metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "rejected").Inc()
			return struct{}{}, backoff.Permanent(fmt.Errorf("%w: %v", ErrCircuitOpen, err))
		}

		metrics.CircuitBreakerRequests.WithLabelValues(breakerName, "failure").Inc()
		if !isTransient(err) {
			return struct{}{}, backoff.Permanent(err)
		}
		return struct{}{}, err
	}, db.retryOptions(operation)...)

	duration := time.Since(start)
	metrics.RecordWarehouseQuery(operation, duration, err)
	metrics.WarehouseOpenConnections.Set(float64(db.conn.Stats().OpenConnections))

	if err != nil {
		logging.Ctx(ctx).Debug().
			Str("operation", operation).
			Dur("duration", duration).
			Err(err).
			Msg("Warehouse query failed")
		return errorContext(operation, err)
	}
	return nil
}

// isTransient reports whether a failed statement is worth retrying.
func isTransient(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) ||
		errors.Is(err, sql.ErrNoRows) || errors.Is(err, ErrCircuitOpen) {
		return false
	}
	if errors.Is(err, driver.ErrBadConn) || errors.Is(err, io.ErrUnexpectedEOF) {
		return true
	}

	var sfErr *gosnowflake.SnowflakeError
	if errors.As(err, &sfErr) {
		// 08xxx connection exceptions, 40xxx transaction rollbacks, 57xxx
		// operator intervention (warehouse suspended, statement aborted).
		switch {
		case strings.HasPrefix(sfErr.SQLState, "08"),
			strings.HasPrefix(sfErr.SQLState, "40"),
			strings.HasPrefix(sfErr.SQLState, "57"):
			return true
		default:
			return false
		}
	}

	msg := strings.ToLower(err.Error())
	for _, marker := range []string{"connection reset", "connection refused", "broken pipe", "i/o timeout", "bad connection", "service unavailable"} {
		if strings.Contains(msg, marker) {
			return true
		}
	}
	return false
}

// queryRow runs a single-row statement and scans it into dest.
func (db *DB) queryRow(ctx context.Context, operation, sqlText string, args []interface{}, dest ...interface{}) error {
	return db.run(ctx, operation, func(ctx context.Context) error {
		return db.conn.QueryRowContext(ctx, sqlText, args...).Scan(dest...)
	})
}

// queryList runs a multi-row statement and scans every row with scan. The
// result is rebuilt on each retry attempt.
func queryList[T any](ctx context.Context, db *DB, operation, sqlText string, args []interface{}, scan func(*sql.Rows) (T, error)) ([]T, error) {
	var out []T
	err := db.run(ctx, operation, func(ctx context.Context) error {
		out = out[:0]

		rows, err := db.conn.QueryContext(ctx, sqlText, args...)
		if err != nil {
			return err
		}
		defer closeQuietly(rows)

		for rows.Next() {
			item, err := scan(rows)
			if err != nil {
				return err
			}
			out = append(out, item)
		}
		return rows.Err()
	})
	if err != nil {
		return nil, err
	}
	if out == nil {
		out = []T{}
	}
	return out, nil
}
