// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"time"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/snowflakedb/gosnowflake"
	"github.com/sony/gobreaker/v2"
	"golang.org/x/time/rate"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/config"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
)

// DB wraps the warehouse connection and provides the analytics queries
type DB struct {
	conn    *sql.DB
	cfg     *config.WarehouseConfig
	dialect Dialect
	breaker *gobreaker.CircuitBreaker[struct{}]
	limiter *rate.Limiter
	gameID  int64
}

// New opens the configured warehouse. The connection is lazy for Snowflake;
// call Ping to verify credentials.
func New(cfg *config.WarehouseConfig) (*DB, error) {
	dialect, err := NewDialect(cfg.Driver, cfg.TablePrefix)
	if err != nil {
		return nil, err
	}

	var conn *sql.DB
	switch cfg.Driver {
	case DriverSnowflake:
		conn, err = openSnowflake(&cfg.Snowflake)
	case DriverDuckDB:
		conn, err = openDuckDB(&cfg.DuckDB)
	}
	if err != nil {
		return nil, err
	}

	db := &DB{
		conn:    conn,
		cfg:     cfg,
		dialect: dialect,
		breaker: newBreaker("warehouse", cfg.Breaker),
		limiter: newLimiter(cfg.QueriesPerSecond),
		gameID:  cfg.GameID,
	}
	db.configureConnectionPool()

	logging.Info().
		Str("driver", cfg.Driver).
		Int64("game_id", cfg.GameID).
		Int("max_open_conns", cfg.MaxOpenConns).
		Msg("Warehouse client ready")

	return db, nil
}

func openSnowflake(cfg *config.SnowflakeConfig) (*sql.DB, error) {
	dsn, err := gosnowflake.DSN(&gosnowflake.Config{
		Account:   cfg.Account,
		User:      cfg.User,
		Password:  cfg.Password,
		Warehouse: cfg.Warehouse,
		Database:  cfg.Database,
		Schema:    cfg.Schema,
		Role:      cfg.Role,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to build snowflake DSN: %w", err)
	}
	conn, err := sql.Open(DriverSnowflake, dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open snowflake connection: %w", err)
	}
	return conn, nil
}

func openDuckDB(cfg *config.DuckDBConfig) (*sql.DB, error) {
	threads := cfg.Threads
	if threads <= 0 {
		threads = runtime.NumCPU()
	}
	maxMemory := cfg.MaxMemory
	if maxMemory == "" {
		maxMemory = "1GB"
	}

	// Use 0750 permissions (owner: rwx, group: rx, other: none) per gosec G301
	if cfg.Path != ":memory:" {
		if dir := filepath.Dir(cfg.Path); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o750); err != nil {
				return nil, fmt.Errorf("failed to create database directory %s: %w", dir, err)
			}
		}
	}

	connStr := fmt.Sprintf("%s?access_mode=read_write&threads=%d&max_memory=%s", cfg.Path, threads, maxMemory)
	conn, err := sql.Open(DriverDuckDB, connStr)
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb database: %w", err)
	}
	return conn, nil
}

// configureConnectionPool applies the pool limits from the warehouse config.
func (db *DB) configureConnectionPool() {
	maxOpen := db.cfg.MaxOpenConns
	if maxOpen <= 0 {
		maxOpen = runtime.NumCPU()
	}
	maxIdle := db.cfg.MaxIdleConns
	if maxIdle <= 0 || maxIdle > maxOpen {
		maxIdle = maxOpen
	}
	lifetime := db.cfg.ConnMaxLifetime
	if lifetime <= 0 {
		lifetime = time.Hour
	}

	db.conn.SetMaxOpenConns(maxOpen)
	db.conn.SetMaxIdleConns(maxIdle)
	db.conn.SetConnMaxLifetime(lifetime)
	db.conn.SetConnMaxIdleTime(lifetime / 2)
}

// Ping verifies the warehouse is reachable.
func (db *DB) Ping(ctx context.Context) error {
	if db.conn == nil {
		return fmt.Errorf("database connection is nil")
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()
	return db.conn.PingContext(ctx)
}

// Close closes the warehouse connection pool.
func (db *DB) Close() error {
	if db.conn == nil {
		return nil
	}
	return db.conn.Close()
}

// Conn returns the underlying SQL database connection.
func (db *DB) Conn() *sql.DB {
	return db.conn
}

// Driver returns the active warehouse driver name.
func (db *DB) Driver() string {
	return db.dialect.Name()
}

// GameID returns the game every query is scoped to.
func (db *DB) GameID() int64 {
	return db.gameID
}

// BreakerState returns the circuit breaker state: closed, half-open or open.
func (db *DB) BreakerState() string {
	return db.breaker.State().String()
}

// ensureContext bounds ctx by the configured query timeout when it has no deadline.
func (db *DB) ensureContext(ctx context.Context) (context.Context, context.CancelFunc) {
	timeout := db.cfg.QueryTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	if ctx == nil {
		return context.WithTimeout(context.Background(), timeout)
	}

	if _, hasDeadline := ctx.Deadline(); !hasDeadline {
		return context.WithTimeout(ctx, timeout)
	}

	return ctx, func() {}
}
