// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package query builds parameterized WHERE clauses for the warehouse queries.
// Filter values are never spliced into SQL text; every value is a bind
// argument behind a ? placeholder, which both Snowflake and DuckDB accept.
package query

import (
	"strings"
	"time"
)

const dateLayout = "2006-01-02"

// WhereBuilder constructs SQL WHERE clauses with parameterized arguments.
//
//	wb := query.NewWhereBuilder()
//	wb.AddEquals("GAME_ID", gameID)
//	wb.AddDateRange("EVENT_DATE", start, end)
//	wb.AddIn("PLATFORM", []string{"ANDROID", "IOS"})
//	where, args := wb.Build()
//	// GAME_ID = ? AND EVENT_DATE BETWEEN CAST(? AS DATE) AND CAST(? AS DATE) AND PLATFORM IN (?, ?)
type WhereBuilder struct {
	clauses []string
	args    []interface{}
}

// NewWhereBuilder creates a new WhereBuilder instance.
func NewWhereBuilder() *WhereBuilder {
	return &WhereBuilder{
		clauses: []string{},
		args:    []interface{}{},
	}
}

// AddClause adds a raw condition with its arguments.
func (wb *WhereBuilder) AddClause(clause string, args ...interface{}) *WhereBuilder {
	wb.clauses = append(wb.clauses, clause)
	wb.args = append(wb.args, args...)
	return wb
}

// AddEquals adds "column = ?".
func (wb *WhereBuilder) AddEquals(column string, value interface{}) *WhereBuilder {
	return wb.AddClause(column+" = ?", value)
}

// AddDateRange adds an inclusive calendar-day range on a DATE column.
// Dates are bound as YYYY-MM-DD strings and cast in SQL so the same text
// works with every driver.
func (wb *WhereBuilder) AddDateRange(column string, start, end time.Time) *WhereBuilder {
	return wb.AddClause(
		column+" BETWEEN CAST(? AS DATE) AND CAST(? AS DATE)",
		start.Format(dateLayout), end.Format(dateLayout),
	)
}

// AddTimestampRange restricts a TIMESTAMP column to the calendar days
// start..end inclusive, as the half-open interval [start, end+1 day).
func (wb *WhereBuilder) AddTimestampRange(column string, start, end time.Time) *WhereBuilder {
	return wb.AddClause(
		column+" >= CAST(? AS TIMESTAMP) AND "+column+" < CAST(? AS TIMESTAMP)",
		start.Format(dateLayout), end.AddDate(0, 0, 1).Format(dateLayout),
	)
}

// AddIn adds "column IN (?, ?, ...)". An empty list adds nothing, meaning
// no restriction on that column.
func (wb *WhereBuilder) AddIn(column string, values []string) *WhereBuilder {
	if len(values) == 0 {
		return wb
	}
	placeholders := make([]string, len(values))
	for i, v := range values {
		placeholders[i] = "?"
		wb.args = append(wb.args, v)
	}
	wb.clauses = append(wb.clauses, column+" IN ("+strings.Join(placeholders, ", ")+")")
	return wb
}

// Build joins the clauses with AND. Returns ("1=1", []) when empty.
//
//	where, args := wb.Build()
//	rows, err := db.QueryContext(ctx, "SELECT ... WHERE "+where, args...)
func (wb *WhereBuilder) Build() (string, []interface{}) {
	if len(wb.clauses) == 0 {
		return "1=1", []interface{}{}
	}
	return strings.Join(wb.clauses, " AND "), wb.args
}

// BuildWithPrefix returns the clause with a leading "WHERE ".
func (wb *WhereBuilder) BuildWithPrefix() (string, []interface{}) {
	whereClause, args := wb.Build()
	return "WHERE " + whereClause, args
}

// Count returns the number of clauses added to the builder.
func (wb *WhereBuilder) Count() int {
	return len(wb.clauses)
}

// IsEmpty returns true if no clauses have been added.
func (wb *WhereBuilder) IsEmpty() bool {
	return len(wb.clauses) == 0
}
