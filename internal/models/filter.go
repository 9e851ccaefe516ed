// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package models holds the data structures shared by the warehouse client,
// the dashboard service, the HTTP API and the CLI: dashboard filters, panel
// envelopes, analytics rows and the API response wrapper.
package models

import (
	"errors"
	"fmt"
	"slices"
	"strings"
	"time"
)

// DateLayout is the calendar-day format used in filters, URLs and SQL binds.
const DateLayout = "2006-01-02"

// DatePreset is one of the sidebar period choices.
type DatePreset string

const (
	PresetLast7Days  DatePreset = "7d"
	PresetLast14Days DatePreset = "14d"
	PresetLast30Days DatePreset = "30d"
	PresetLast90Days DatePreset = "90d"
	PresetCustom     DatePreset = "custom"
)

// Presets lists the period choices in display order.
var Presets = []DatePreset{PresetLast7Days, PresetLast14Days, PresetLast30Days, PresetLast90Days, PresetCustom}

var presetDays = map[DatePreset]int{
	PresetLast7Days:  7,
	PresetLast14Days: 14,
	PresetLast30Days: 30,
	PresetLast90Days: 90,
}

// Label returns the human readable preset name.
func (p DatePreset) Label() string {
	if days, ok := presetDays[p]; ok {
		return fmt.Sprintf("Last %d days", days)
	}
	if p == PresetCustom {
		return "Custom"
	}
	return string(p)
}

// Platforms known to the Unity Analytics share.
const (
	PlatformAndroid = "ANDROID"
	PlatformIOS     = "IOS"
)

// AllPlatforms is the platform filter default.
var AllPlatforms = []string{PlatformAndroid, PlatformIOS}

var (
	// ErrInvalidDateRange is returned for unparsable, inverted or oversized ranges.
	ErrInvalidDateRange = errors.New("invalid date range")

	// ErrUnknownPreset is returned for a preset outside Presets.
	ErrUnknownPreset = errors.New("unknown date preset")
)

// DateRange is an inclusive range of calendar days in UTC.
type DateRange struct {
	Start time.Time
	End   time.Time
}

// Days returns the number of calendar days in the range, inclusive.
func (r DateRange) Days() int {
	return int(r.End.Sub(r.Start).Hours()/24) + 1
}

// Day truncates t to its UTC calendar day.
func Day(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// ParseDay parses a YYYY-MM-DD string.
func ParseDay(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(s))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q is not a YYYY-MM-DD date", ErrInvalidDateRange, s)
	}
	return t, nil
}

// ResolveDateRange turns a preset (or custom start/end) into a concrete range.
// Presets end on now's calendar day and start N days earlier. Custom ranges
// require both ends and start <= end.
func ResolveDateRange(now time.Time, preset DatePreset, start, end string) (DateRange, error) {
	if days, ok := presetDays[preset]; ok {
		e := Day(now)
		return DateRange{Start: e.AddDate(0, 0, -days), End: e}, nil
	}
	if preset != PresetCustom {
		return DateRange{}, fmt.Errorf("%w: %q", ErrUnknownPreset, preset)
	}
	if start == "" || end == "" {
		return DateRange{}, fmt.Errorf("%w: custom range needs both start and end", ErrInvalidDateRange)
	}
	s, err := ParseDay(start)
	if err != nil {
		return DateRange{}, err
	}
	e, err := ParseDay(end)
	if err != nil {
		return DateRange{}, err
	}
	if s.After(e) {
		return DateRange{}, fmt.Errorf("%w: start %s is after end %s", ErrInvalidDateRange, start, end)
	}
	return DateRange{Start: s, End: e}, nil
}

// Filter is the set of sidebar selections applied to every panel.
// Empty Versions or Countries means no restriction on that dimension.
type Filter struct {
	Start     time.Time `json:"start"`
	End       time.Time `json:"end"`
	Platforms []string  `json:"platforms"`
	Versions  []string  `json:"versions,omitempty"`
	Countries []string  `json:"countries,omitempty"`
}

// NewFilter builds a normalized filter for r.
func NewFilter(r DateRange, platforms, versions, countries []string) Filter {
	f := Filter{
		Start:     r.Start,
		End:       r.End,
		Platforms: platforms,
		Versions:  versions,
		Countries: countries,
	}
	f.Normalize()
	return f
}

// Normalize upper-cases platforms and sorts and de-duplicates every list so
// equal selections produce equal cache keys.
func (f *Filter) Normalize() {
	f.Start = Day(f.Start)
	f.End = Day(f.End)
	platforms := make([]string, len(f.Platforms))
	for i, p := range f.Platforms {
		platforms[i] = strings.ToUpper(p)
	}
	f.Platforms = sortedUnique(platforms)
	f.Versions = sortedUnique(f.Versions)
	f.Countries = sortedUnique(f.Countries)
}

// StartString returns the first day as YYYY-MM-DD.
func (f Filter) StartString() string { return f.Start.Format(DateLayout) }

// EndString returns the last day as YYYY-MM-DD.
func (f Filter) EndString() string { return f.End.Format(DateLayout) }

// Range returns the filter's date range.
func (f Filter) Range() DateRange { return DateRange{Start: f.Start, End: f.End} }

// CohortEnd returns the last first-seen day that still leaves n days of
// observation before End, and false when the range is shorter than n days.
func (f Filter) CohortEnd(n int) (time.Time, bool) {
	last := f.End.AddDate(0, 0, -n)
	if last.Before(f.Start) {
		return time.Time{}, false
	}
	return last, true
}

func sortedUnique(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	slices.Sort(out)
	return slices.Compact(out)
}
