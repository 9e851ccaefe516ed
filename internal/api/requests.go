// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package api

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/dashboard"
)

// FilterRequest holds the sidebar filters from the query string. Platform,
// version and country accept repeated parameters, comma-separated values or
// both.
type FilterRequest struct {
	Preset    string   `query:"preset" validate:"omitempty,oneof=7d 14d 30d 90d custom"`
	Start     string   `query:"start" validate:"omitempty,datetime=2006-01-02"`
	End       string   `query:"end" validate:"omitempty,datetime=2006-01-02"`
	Platforms []string `query:"platform" validate:"max=2,dive,platform"`
	Versions  []string `query:"version" validate:"max=50,dive,clientversion"`
	Countries []string `query:"country" validate:"max=50,dive,countrycode"`
}

// EventRequest names the event of a deep dive.
type EventRequest struct {
	Event string `query:"event" validate:"required,eventname"`
}

func multiValue(q url.Values, key string) []string {
	var out []string
	for _, v := range q[key] {
		out = append(out, parseCommaSeparated(v)...)
	}
	return out
}

// queryValues parses a raw query string. Unlike url.ParseQuery it splits on
// '&' only and keeps pairs it cannot unescape, so a malformed value reaches
// validation instead of silently vanishing.
func queryValues(raw string) url.Values {
	q := make(url.Values)
	for raw != "" {
		var pair string
		pair, raw, _ = strings.Cut(raw, "&")
		if pair == "" {
			continue
		}
		key, value, _ := strings.Cut(pair, "=")
		if k, err := url.QueryUnescape(key); err == nil {
			key = k
		}
		if v, err := url.QueryUnescape(value); err == nil {
			value = v
		}
		q[key] = append(q[key], value)
	}
	return q
}

func parseFilterRequest(r *http.Request) FilterRequest {
	q := queryValues(r.URL.RawQuery)
	return FilterRequest{
		Preset:    strings.ToLower(strings.TrimSpace(q.Get("preset"))),
		Start:     strings.TrimSpace(q.Get("start")),
		End:       strings.TrimSpace(q.Get("end")),
		Platforms: multiValue(q, "platform"),
		Versions:  multiValue(q, "version"),
		Countries: multiValue(q, "country"),
	}
}

// Input converts the request for dashboard.Service.ResolveFilter.
func (req FilterRequest) Input() dashboard.FilterInput {
	countries := make([]string, len(req.Countries))
	for i, c := range req.Countries {
		countries[i] = strings.ToUpper(c)
	}
	return dashboard.FilterInput{
		Preset:    req.Preset,
		Start:     req.Start,
		End:       req.End,
		Platforms: req.Platforms,
		Versions:  req.Versions,
		Countries: countries,
	}
}
