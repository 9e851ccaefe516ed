// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/structs"
	"github.com/knadh/koanf/v2"
)

// DefaultConfigPaths lists the paths where config files are searched in order of priority.
var DefaultConfigPaths = []string{
	"config.yaml",
	"config.yml",
	"/etc/bekvalola/config.yaml",
}

// ConfigPathEnvVar overrides the config file path.
const ConfigPathEnvVar = "CONFIG_PATH"

// DotEnvPathEnvVar overrides the .env file path.
const DotEnvPathEnvVar = "DOTENV_PATH"

// Unity Analytics share that holds the Bek va Lola tables.
const (
	DefaultGameID      int64 = 181330318
	DefaultTablePrefix       = "UNITY_ANALYTICS_GCP_US_CENTRAL1_UNITY_ANALYTICS_PDA.SHARES"
)

func defaultConfig() *Config {
	return &Config{
		Warehouse: WarehouseConfig{
			Driver:      "snowflake",
			GameID:      DefaultGameID,
			TablePrefix: DefaultTablePrefix,
			Snowflake: SnowflakeConfig{
				Database: "UNITY_ANALYTICS_GCP_US_CENTRAL1_UNITY_ANALYTICS_PDA",
				Schema:   "SHARES",
			},
			DuckDB: DuckDBConfig{
				Path:      "bekvalola.duckdb",
				MaxMemory: "1GB",
			},
			MaxOpenConns:     8,
			MaxIdleConns:     4,
			ConnMaxLifetime:  30 * time.Minute,
			QueryTimeout:     60 * time.Second,
			QueriesPerSecond: 0,
			Retry: RetryConfig{
				MaxAttempts:     3,
				InitialInterval: 500 * time.Millisecond,
				MaxInterval:     5 * time.Second,
			},
			Breaker: BreakerConfig{
				MaxRequests:  3,
				Interval:     time.Minute,
				Timeout:      2 * time.Minute,
				MinRequests:  10,
				FailureRatio: 0.6,
			},
		},
		Dashboard: DashboardConfig{
			Workers:          8,
			PanelTimeout:     45 * time.Second,
			CacheTTL:         5 * time.Minute,
			CacheCapacity:    256,
			WarmInterval:     0,
			DefaultPreset:    "30d",
			DefaultPlatforms: []string{"ANDROID", "IOS"},
			RetentionDays:    []int{1, 7, 14, 30},
			CurveDays:        30,
			TopCountries:     10,
			TopEvents:        20,
			MaxRangeDays:     366,
		},
		Server: ServerConfig{
			Port:            8501,
			Host:            "0.0.0.0",
			Timeout:         90 * time.Second,
			ShutdownTimeout: 15 * time.Second,
			Environment:     "development",
		},
		Security: SecurityConfig{
			RateLimitReqs:     120,
			RateLimitWindow:   time.Minute,
			RateLimitDisabled: false,
			CORSOrigins:       []string{"*"},
		},
		Export: ExportConfig{
			Dir:      "exports",
			S3Prefix: "bekvalola/",
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
			Caller: false,
		},
	}
}

// LoadWithKoanf loads configuration with layered sources:
//  1. Defaults
//  2. Config file (optional)
//  3. Environment variables, including those from an optional .env file
func LoadWithKoanf() (*Config, error) {
	if err := loadDotEnv(); err != nil {
		return nil, err
	}

	k := koanf.New(".")

	if err := k.Load(structs.Provider(defaultConfig(), "koanf"), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if configPath := findConfigFile(); configPath != "" {
		if err := k.Load(file.Provider(configPath), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
	}

	if err := k.Load(env.Provider("", ".", envTransformFunc), nil); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	if err := processSliceFields(k); err != nil {
		return nil, fmt.Errorf("failed to process slice fields: %w", err)
	}

	cfg := &Config{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// loadDotEnv merges a .env file into the process environment. Variables that
// are already set win over the file. A missing file is not an error.
func loadDotEnv() error {
	path := ".env"
	if p := os.Getenv(DotEnvPathEnvVar); p != "" {
		path = p
	}
	if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func findConfigFile() string {
	if envPath := os.Getenv(ConfigPathEnvVar); envPath != "" {
		if _, err := os.Stat(envPath); err == nil {
			return envPath
		}
	}
	for _, path := range DefaultConfigPaths {
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	return ""
}

// sliceConfigPaths are parsed from comma-separated environment values.
var sliceConfigPaths = []string{
	"dashboard.default_platforms",
	"dashboard.retention_days",
	"security.cors_origins",
}

func processSliceFields(k *koanf.Koanf) error {
	for _, path := range sliceConfigPaths {
		strVal, ok := k.Get(path).(string)
		if !ok || strVal == "" {
			continue
		}
		parts := strings.Split(strVal, ",")
		trimmed := make([]string, 0, len(parts))
		for _, p := range parts {
			if p = strings.TrimSpace(p); p != "" {
				trimmed = append(trimmed, p)
			}
		}
		if len(trimmed) == 0 {
			continue
		}
		if err := k.Set(path, trimmed); err != nil {
			return fmt.Errorf("failed to set %s: %w", path, err)
		}
	}
	return nil
}

// envMappings maps environment variable names (lowercased) to koanf paths.
var envMappings = map[string]string{
	// Warehouse
	"warehouse_driver":             "warehouse.driver",
	"game_id":                      "warehouse.game_id",
	"warehouse_table_prefix":       "warehouse.table_prefix",
	"warehouse_max_open_conns":     "warehouse.max_open_conns",
	"warehouse_max_idle_conns":     "warehouse.max_idle_conns",
	"warehouse_conn_max_lifetime":  "warehouse.conn_max_lifetime",
	"warehouse_query_timeout":      "warehouse.query_timeout",
	"warehouse_queries_per_second": "warehouse.queries_per_second",
	"warehouse_retry_attempts":     "warehouse.retry.max_attempts",
	"warehouse_breaker_timeout":    "warehouse.breaker.timeout",

	// Snowflake
	"snowflake_account":   "warehouse.snowflake.account",
	"snowflake_user":      "warehouse.snowflake.user",
	"snowflake_password":  "warehouse.snowflake.password",
	"snowflake_warehouse": "warehouse.snowflake.warehouse",
	"snowflake_database":  "warehouse.snowflake.database",
	"snowflake_schema":    "warehouse.snowflake.schema",
	"snowflake_role":      "warehouse.snowflake.role",

	// DuckDB
	"duckdb_path":       "warehouse.duckdb.path",
	"duckdb_max_memory": "warehouse.duckdb.max_memory",
	"duckdb_threads":    "warehouse.duckdb.threads",
	"seed_demo_data":    "warehouse.duckdb.seed_demo_data",

	// Dashboard
	"dashboard_workers":           "dashboard.workers",
	"dashboard_panel_timeout":     "dashboard.panel_timeout",
	"dashboard_cache_ttl":         "dashboard.cache_ttl",
	"dashboard_cache_capacity":    "dashboard.cache_capacity",
	"dashboard_warm_interval":     "dashboard.warm_interval",
	"dashboard_default_preset":    "dashboard.default_preset",
	"dashboard_default_platforms": "dashboard.default_platforms",
	"dashboard_retention_days":    "dashboard.retention_days",
	"dashboard_max_range_days":    "dashboard.max_range_days",

	// Server
	"http_port":        "server.port",
	"http_host":        "server.host",
	"http_timeout":     "server.timeout",
	"shutdown_timeout": "server.shutdown_timeout",
	"environment":      "server.environment",

	// Security
	"rate_limit_requests": "security.rate_limit_reqs",
	"rate_limit_window":   "security.rate_limit_window",
	"disable_rate_limit":  "security.rate_limit_disabled",
	"cors_origins":        "security.cors_origins",

	// Export
	"export_dir":         "export.dir",
	"export_s3_bucket":   "export.s3_bucket",
	"export_s3_prefix":   "export.s3_prefix",
	"export_s3_region":   "export.s3_region",
	"export_s3_endpoint": "export.s3_endpoint",

	// Logging
	"log_level":  "logging.level",
	"log_format": "logging.format",
	"log_caller": "logging.caller",
}

// envTransformFunc maps an environment variable name to its koanf path.
// Unmapped variables return "" and are skipped, so unrelated environment
// does not leak into the configuration.
func envTransformFunc(key string) string {
	return envMappings[strings.ToLower(key)]
}
