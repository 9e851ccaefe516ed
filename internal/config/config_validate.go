// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package config

import (
	"fmt"
	"time"
)

// Validate checks that required configuration is present and valid
func (c *Config) Validate() error {
	if err := c.validateWarehouse(); err != nil {
		return err
	}
	if err := c.validateDashboard(); err != nil {
		return err
	}
	if err := c.validateServer(); err != nil {
		return err
	}
	if err := c.validateRateLimits(); err != nil {
		return err
	}
	return c.validateLogging()
}

func (c *Config) validateWarehouse() error {
	if c.Warehouse.GameID <= 0 {
		return fmt.Errorf("GAME_ID must be a positive integer")
	}
	switch c.Warehouse.Driver {
	case "snowflake":
		if err := c.validateSnowflake(); err != nil {
			return err
		}
	case "duckdb":
		if c.Warehouse.DuckDB.Path == "" {
			return fmt.Errorf("DUCKDB_PATH is required when WAREHOUSE_DRIVER=duckdb")
		}
	default:
		return fmt.Errorf("WAREHOUSE_DRIVER must be one of: snowflake, duckdb")
	}
	if c.Warehouse.QueryTimeout <= 0 {
		return fmt.Errorf("WAREHOUSE_QUERY_TIMEOUT must be positive")
	}
	if c.Warehouse.QueriesPerSecond < 0 {
		return fmt.Errorf("WAREHOUSE_QUERIES_PER_SECOND must not be negative")
	}
	return c.validateBreaker()
}

func (c *Config) validateSnowflake() error {
	sf := c.Warehouse.Snowflake
	if sf.Account == "" {
		return fmt.Errorf("SNOWFLAKE_ACCOUNT is required when WAREHOUSE_DRIVER=snowflake")
	}
	if sf.User == "" {
		return fmt.Errorf("SNOWFLAKE_USER is required when WAREHOUSE_DRIVER=snowflake")
	}
	if sf.Password == "" {
		return fmt.Errorf("SNOWFLAKE_PASSWORD is required when WAREHOUSE_DRIVER=snowflake")
	}
	return nil
}

func (c *Config) validateBreaker() error {
	b := c.Warehouse.Breaker
	if b.FailureRatio <= 0 || b.FailureRatio > 1 {
		return fmt.Errorf("warehouse.breaker.failure_ratio must be in (0, 1]")
	}
	if b.Timeout <= 0 {
		return fmt.Errorf("WAREHOUSE_BREAKER_TIMEOUT must be positive")
	}
	return nil
}

var validPresets = map[string]bool{
	"7d":  true,
	"14d": true,
	"30d": true,
	"90d": true,
}

func (c *Config) validateDashboard() error {
	d := c.Dashboard
	if d.Workers < 1 || d.Workers > 64 {
		return fmt.Errorf("DASHBOARD_WORKERS must be between 1 and 64")
	}
	if d.PanelTimeout <= 0 {
		return fmt.Errorf("DASHBOARD_PANEL_TIMEOUT must be positive")
	}
	if !validPresets[d.DefaultPreset] {
		return fmt.Errorf("DASHBOARD_DEFAULT_PRESET must be one of: 7d, 14d, 30d, 90d")
	}
	if d.MaxRangeDays < 1 {
		return fmt.Errorf("DASHBOARD_MAX_RANGE_DAYS must be at least 1")
	}
	if d.CurveDays < 1 {
		return fmt.Errorf("dashboard.curve_days must be at least 1")
	}
	for _, n := range d.RetentionDays {
		if n < 1 || n > d.MaxRangeDays {
			return fmt.Errorf("DASHBOARD_RETENTION_DAYS entries must be between 1 and %d, got %d", d.MaxRangeDays, n)
		}
	}
	return nil
}

func (c *Config) validateServer() error {
	if c.Server.Port < 1 || c.Server.Port > 65535 {
		return fmt.Errorf("HTTP_PORT must be between 1 and 65535")
	}
	return nil
}

const (
	minRateLimitRequests = 1
	maxRateLimitRequests = 100000
	minRateLimitWindow   = time.Second
	maxRateLimitWindow   = time.Hour
)

func (c *Config) validateRateLimits() error {
	if c.Security.RateLimitDisabled {
		return nil
	}
	if c.Security.RateLimitReqs < minRateLimitRequests || c.Security.RateLimitReqs > maxRateLimitRequests {
		return fmt.Errorf("RATE_LIMIT_REQUESTS must be between %d and %d", minRateLimitRequests, maxRateLimitRequests)
	}
	if c.Security.RateLimitWindow < minRateLimitWindow || c.Security.RateLimitWindow > maxRateLimitWindow {
		return fmt.Errorf("RATE_LIMIT_WINDOW must be between %v and %v", minRateLimitWindow, maxRateLimitWindow)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"trace": true,
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

var validLogFormats = map[string]bool{
	"json":    true,
	"console": true,
}

func (c *Config) validateLogging() error {
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("LOG_LEVEL must be one of: trace, debug, info, warn, error")
	}
	if c.Logging.Format != "" && !validLogFormats[c.Logging.Format] {
		return fmt.Errorf("LOG_FORMAT must be one of: json, console")
	}
	return nil
}
