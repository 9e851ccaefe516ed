// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package config loads the dashboard configuration.
//
// Loading order (Koanf v2):
//  1. Built-in defaults
//  2. Optional YAML file (CONFIG_PATH or config.yaml in the working directory)
//  3. Environment variables, after a .env file (if present) has been merged
//     into the process environment
//
// Warehouse credentials are expected to come from the environment or .env:
//
//	SNOWFLAKE_ACCOUNT=xy12345.us-central1.gcp
//	SNOWFLAKE_USER=analytics
//	SNOWFLAKE_PASSWORD=...
//	SNOWFLAKE_WAREHOUSE=COMPUTE_WH
package config

import (
	"time"
)

// Config holds all application configuration.
type Config struct {
	Warehouse WarehouseConfig `koanf:"warehouse"`
	Dashboard DashboardConfig `koanf:"dashboard"`
	Server    ServerConfig    `koanf:"server"`
	Security  SecurityConfig  `koanf:"security"`
	Export    ExportConfig    `koanf:"export"`
	Logging   LoggingConfig   `koanf:"logging"`
}

// WarehouseConfig selects and configures the SQL warehouse.
type WarehouseConfig struct {
	// Driver is "snowflake" (production) or "duckdb" (local development).
	Driver string `koanf:"driver"`

	// GameID scopes every query to one game in the shared analytics tables.
	GameID int64 `koanf:"game_id"`

	// TablePrefix is the DATABASE.SCHEMA qualifier for Snowflake tables.
	// Ignored by the duckdb driver, which uses unqualified table names.
	TablePrefix string `koanf:"table_prefix"`

	Snowflake SnowflakeConfig `koanf:"snowflake"`
	DuckDB    DuckDBConfig    `koanf:"duckdb"`

	MaxOpenConns    int           `koanf:"max_open_conns"`
	MaxIdleConns    int           `koanf:"max_idle_conns"`
	ConnMaxLifetime time.Duration `koanf:"conn_max_lifetime"`

	// QueryTimeout bounds a single statement including retries.
	QueryTimeout time.Duration `koanf:"query_timeout"`

	// QueriesPerSecond throttles statements sent to the warehouse (0 = unlimited).
	QueriesPerSecond float64 `koanf:"queries_per_second"`

	Retry   RetryConfig   `koanf:"retry"`
	Breaker BreakerConfig `koanf:"breaker"`
}

// SnowflakeConfig holds connector settings. Secrets belong in the environment.
type SnowflakeConfig struct {
	Account   string `koanf:"account"`
	User      string `koanf:"user"`
	Password  string `koanf:"password"`
	Warehouse string `koanf:"warehouse"`
	Database  string `koanf:"database"`
	Schema    string `koanf:"schema"`
	Role      string `koanf:"role"`
}

// DuckDBConfig configures the embedded development warehouse.
type DuckDBConfig struct {
	Path      string `koanf:"path"`
	MaxMemory string `koanf:"max_memory"`
	Threads   int    `koanf:"threads"`

	// SeedDemoData creates the analytics tables and fills them with synthetic
	// players on startup when they are empty.
	SeedDemoData bool `koanf:"seed_demo_data"`
}

// RetryConfig bounds the exponential backoff for transient warehouse errors.
type RetryConfig struct {
	MaxAttempts     uint          `koanf:"max_attempts"`
	InitialInterval time.Duration `koanf:"initial_interval"`
	MaxInterval     time.Duration `koanf:"max_interval"`
}

// BreakerConfig configures the warehouse circuit breaker.
type BreakerConfig struct {
	MaxRequests  uint32        `koanf:"max_requests"`
	Interval     time.Duration `koanf:"interval"`
	Timeout      time.Duration `koanf:"timeout"`
	MinRequests  uint32        `koanf:"min_requests"`
	FailureRatio float64       `koanf:"failure_ratio"`
}

// DashboardConfig controls how tabs are assembled and cached.
type DashboardConfig struct {
	// Workers is the size of the panel worker pool shared by all requests.
	Workers int `koanf:"workers"`

	// PanelTimeout bounds one panel; a slow panel becomes a placeholder.
	PanelTimeout time.Duration `koanf:"panel_timeout"`

	CacheTTL      time.Duration `koanf:"cache_ttl"`
	CacheCapacity uint64        `koanf:"cache_capacity"`

	// WarmInterval rebuilds the default-filter tabs in the background (0 = off).
	WarmInterval time.Duration `koanf:"warm_interval"`

	DefaultPreset    string   `koanf:"default_preset"`
	DefaultPlatforms []string `koanf:"default_platforms"`

	RetentionDays []int `koanf:"retention_days"`
	CurveDays     int   `koanf:"curve_days"`
	TopCountries  int   `koanf:"top_countries"`
	TopEvents     int   `koanf:"top_events"`

	// MaxRangeDays caps custom date ranges to keep warehouse scans bounded.
	MaxRangeDays int `koanf:"max_range_days"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Port            int           `koanf:"port"`
	Host            string        `koanf:"host"`
	Timeout         time.Duration `koanf:"timeout"`
	ShutdownTimeout time.Duration `koanf:"shutdown_timeout"`
	Environment     string        `koanf:"environment"`
}

// SecurityConfig holds rate limiting and CORS settings. The dashboard itself
// is read-only and unauthenticated; put it behind a proxy for access control.
type SecurityConfig struct {
	RateLimitReqs     int           `koanf:"rate_limit_reqs"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`
	RateLimitDisabled bool          `koanf:"rate_limit_disabled"`
	CORSOrigins       []string      `koanf:"cors_origins"`
}

// ExportConfig configures snapshot exports from the CLI.
type ExportConfig struct {
	Dir      string `koanf:"dir"`
	S3Bucket string `koanf:"s3_bucket"`
	S3Prefix string `koanf:"s3_prefix"`
	S3Region string `koanf:"s3_region"`

	// S3Endpoint targets an S3-compatible store such as MinIO; it also
	// switches to path-style addressing.
	S3Endpoint string `koanf:"s3_endpoint"`
}

// LoggingConfig holds logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: trace, debug, info, warn, error.
	Level string `koanf:"level"`

	// Format is json (production) or console (development).
	Format string `koanf:"format"`

	Caller bool `koanf:"caller"`
}

// Load reads configuration from defaults, the optional config file and the
// environment. See LoadWithKoanf.
func Load() (*Config, error) {
	return LoadWithKoanf()
}

// IsProduction reports whether the server runs in production mode.
func (c *Config) IsProduction() bool {
	return c.Server.Environment == "production"
}
