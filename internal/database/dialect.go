// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package database

import (
	"fmt"
	"strings"
)

// Warehouse drivers.
const (
	DriverSnowflake = "snowflake"
	DriverDuckDB    = "duckdb"
)

// Table names of the Unity Analytics share.
const (
	TableSessions = "ACCOUNT_FACT_USER_SESSIONS_DAY"
	TableEvents   = "ACCOUNT_EVENTS"
)

// Dialect renders the SQL fragments that differ between warehouses. Every
// method returns SQL text; values are still bound with ? placeholders.
type Dialect interface {
	// Name returns the driver name.
	Name() string

	// Table returns the fully qualified table name.
	Table(name string) string

	// JSONString, JSONFloat and JSONInt extract a top-level key of a JSON column.
	JSONString(column, key string) string
	JSONFloat(column, key string) string
	JSONInt(column, key string) string

	// AddDays adds a bound number of days (one ? placeholder) to a date expression.
	AddDays(expr string) string

	// DaysBetween returns the whole days from a to b.
	DaysBetween(a, b string) string
}

// NewDialect returns the dialect for driver. prefix is the DATABASE.SCHEMA
// qualifier used by Snowflake.
func NewDialect(driver, prefix string) (Dialect, error) {
	switch driver {
	case DriverSnowflake:
		return snowflakeDialect{prefix: strings.TrimSuffix(prefix, ".")}, nil
	case DriverDuckDB:
		return duckdbDialect{}, nil
	default:
		return nil, fmt.Errorf("unknown warehouse driver %q", driver)
	}
}

type snowflakeDialect struct {
	prefix string
}

func (snowflakeDialect) Name() string { return DriverSnowflake }

func (d snowflakeDialect) Table(name string) string {
	if d.prefix == "" {
		return name
	}
	return d.prefix + "." + name
}

func (snowflakeDialect) JSONString(column, key string) string {
	return column + ":" + key + "::STRING"
}

func (snowflakeDialect) JSONFloat(column, key string) string {
	return column + ":" + key + "::FLOAT"
}

func (snowflakeDialect) JSONInt(column, key string) string {
	return column + ":" + key + "::INT"
}

func (snowflakeDialect) AddDays(expr string) string {
	return "DATEADD(day, ?, " + expr + ")"
}

func (snowflakeDialect) DaysBetween(a, b string) string {
	return "DATEDIFF(day, " + a + ", " + b + ")"
}

// duckdbDialect stores EVENT_JSON as a JSON column of the json extension.
type duckdbDialect struct{}

func (duckdbDialect) Name() string { return DriverDuckDB }

func (duckdbDialect) Table(name string) string { return name }

func (duckdbDialect) JSONString(column, key string) string {
	return "json_extract_string(" + column + ", '$." + key + "')"
}

func (duckdbDialect) JSONFloat(column, key string) string {
	return "TRY_CAST(json_extract_string(" + column + ", '$." + key + "') AS DOUBLE)"
}

func (duckdbDialect) JSONInt(column, key string) string {
	return "TRY_CAST(json_extract_string(" + column + ", '$." + key + "') AS INTEGER)"
}

func (duckdbDialect) AddDays(expr string) string {
	return "(" + expr + " + CAST(? AS INTEGER))"
}

func (duckdbDialect) DaysBetween(a, b string) string {
	return "date_diff('day', " + a + ", " + b + ")"
}
