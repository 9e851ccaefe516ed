// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package api

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"html/template"
	"net/http"
	"net/url"
	"slices"

	"github.com/goccy/go-json"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/export"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

//go:embed templates/index.html.tmpl
var indexTemplateText string

var indexTemplate = template.Must(template.New("index").Funcs(template.FuncMap{
	"has": func(list []string, v string) bool { return slices.Contains(list, v) },
}).Parse(indexTemplateText))

type tabLink struct {
	Title  string
	URL    string
	Active bool
}

type panelView struct {
	models.Panel
	Table  *export.Table
	Chart  bool
	CSVURL string
}

// chartSeries is what the page script draws for one panel.
type chartSeries struct {
	ID     string           `json:"id"`
	Kind   models.PanelKind `json:"kind"`
	Labels []string         `json:"labels"`
	Values []float64        `json:"values"`
}

type deepDiveView struct {
	Event models.EventDeepDive
	Table export.Table
	Error string
}

type indexPage struct {
	Tabs        []tabLink
	Active      models.TabName
	Options     models.FilterOptions
	Form        FilterRequest
	Filter      models.Filter
	Error       string
	Tab         *models.Tab
	Metrics     []models.Metric
	Panels      []panelView
	Charts      template.JS
	EventNames  []string
	Event       string
	DeepDive    *deepDiveView
	Actions     interface{}
	ShowGuide   bool
	GeneratedAt string
}

// Index renders the dashboard for the tab and filters in the query string.
// Panels are rendered server side; charts are drawn by the page script from
// the embedded series JSON.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	if !requireGET(w, r) {
		return
	}
	ctx := r.Context()
	q := queryValues(r.URL.RawQuery)

	active := models.TabName(q.Get("tab"))
	if !active.Valid() {
		active = models.TabOverview
	}

	page := indexPage{
		Active:  active,
		Options: h.dash.Filters(ctx),
		Actions: models.ActionReference,
	}
	status := http.StatusOK

	page.Form = parseFilterRequest(r)
	f, err := h.pageFilter(page.Form)
	if err != nil {
		status = http.StatusBadRequest
		page.Error = err.Error()
		page.Form = FilterRequest{}
		f, _ = h.dash.ResolveFilter(page.Form.Input())
	}
	page.Filter = f
	if page.Form.Preset == "" && page.Form.Start == "" && page.Form.End == "" {
		page.Form.Preset = string(page.Options.DefaultPreset)
	}
	if page.Form.Start == "" {
		page.Form.Start = f.StartString()
	}
	if page.Form.End == "" {
		page.Form.End = f.EndString()
	}
	page.Form.Platforms = f.Platforms
	page.Form.Versions = f.Versions
	page.Form.Countries = f.Countries

	for _, name := range models.Tabs {
		page.Tabs = append(page.Tabs, tabLink{
			Title:  name.Title(),
			URL:    "/?" + withTab(q, name).Encode(),
			Active: name == active,
		})
	}

	tab, err := h.dash.Tab(ctx, active, f)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	page.Tab = tab
	page.GeneratedAt = tab.GeneratedAt.Format("2006-01-02 15:04:05 UTC")
	page.ShowGuide = active == models.TabRetention

	apiQuery := filterQuery(q).Encode()
	var charts []chartSeries
	for i := range tab.Panels {
		p := tab.Panels[i]
		if m, ok := p.Data.(models.Metric); ok {
			page.Metrics = append(page.Metrics, m)
			continue
		}
		view := panelView{Panel: p}
		if t, ok := export.PanelTable(&p); ok && p.OK() {
			view.Table = &t
			view.CSVURL = fmt.Sprintf("/api/v1/export/%s/%s.csv?%s", active, p.ID, apiQuery)
		}
		if series, ok := chartFor(&p); ok {
			view.Chart = true
			charts = append(charts, series)
		}
		if names, ok := p.Data.([]string); ok {
			page.EventNames = names
		}
		page.Panels = append(page.Panels, view)
	}

	if active == models.TabActions {
		if event := q.Get("event"); event != "" {
			page.Event = event
			page.DeepDive = h.deepDive(r, f, event)
			if page.DeepDive.Error == "" {
				charts = append(charts, deepDiveChart(page.DeepDive.Event))
			}
		}
	}

	data, err := json.Marshal(charts)
	if err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to encode chart data")
		data = []byte("[]")
	}
	page.Charts = template.JS(data)

	var buf bytes.Buffer
	if err := indexTemplate.Execute(&buf, page); err != nil {
		logging.Ctx(ctx).Error().Err(err).Msg("Failed to execute index template")
		respondError(w, http.StatusInternalServerError, ErrCodeInternal, "Failed to render dashboard", err)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if _, err := w.Write(buf.Bytes()); err != nil {
		logging.Ctx(ctx).Debug().Err(err).Msg("Failed to write dashboard page")
	}
}

func (h *Handler) pageFilter(req FilterRequest) (models.Filter, error) {
	if apiErr := validateRequest(&req); apiErr != nil {
		return models.Filter{}, errors.New(apiErr.Message)
	}
	return h.dash.ResolveFilter(req.Input())
}

func (h *Handler) deepDive(r *http.Request, f models.Filter, event string) *deepDiveView {
	ev := EventRequest{Event: event}
	if apiErr := validateRequest(&ev); apiErr != nil {
		return &deepDiveView{Error: apiErr.Message}
	}
	dd, err := h.dash.EventDaily(r.Context(), f, event)
	if err != nil {
		logging.Ctx(r.Context()).Warn().Err(err).Str("event", sanitizeLogValue(event)).Msg("Event deep dive failed")
		return &deepDiveView{Error: "No data available"}
	}
	view := &deepDiveView{Event: dd}
	if t, ok := export.PanelTable(&models.Panel{Title: dd.Action, Data: dd}); ok {
		view.Table = t
	}
	return view
}

// filterQuery keeps only the filter parameters of q.
func filterQuery(q url.Values) url.Values {
	out := url.Values{}
	for _, key := range []string{"preset", "start", "end", "platform", "version", "country"} {
		if v, ok := q[key]; ok {
			out[key] = v
		}
	}
	return out
}

func withTab(q url.Values, name models.TabName) url.Values {
	out := filterQuery(q)
	out.Set("tab", string(name))
	return out
}

// chartFor extracts the series of a line or bar panel.
func chartFor(p *models.Panel) (chartSeries, bool) {
	if !p.OK() || (p.Kind != models.KindLine && p.Kind != models.KindBar) {
		return chartSeries{}, false
	}
	s := chartSeries{ID: p.ID, Kind: p.Kind}
	add := func(label string, v float64) {
		s.Labels = append(s.Labels, label)
		s.Values = append(s.Values, v)
	}

	switch data := p.Data.(type) {
	case []models.DailyValue:
		for _, d := range data {
			add(d.Date, d.Value)
		}
	case models.RetentionCurve:
		for _, pt := range data.Points {
			add(fmt.Sprintf("Day %d", pt.Day), pt.Rate)
		}
	case []models.MiniGameStat:
		for _, m := range data {
			add(m.MiniGame, float64(m.Plays))
		}
	case []models.LobbyActionStat:
		for _, a := range data {
			add(a.Action, float64(a.Count))
		}
	case []models.SegmentCount:
		for _, seg := range data {
			add(seg.Segment, float64(seg.Players))
		}
	case []models.HourActivity:
		for _, h := range data {
			add(fmt.Sprintf("%02d:00", h.Hour), float64(h.Actions))
		}
	case []models.WeekdayPlayers:
		for _, d := range data {
			add(d.Day, float64(d.Players))
		}
	case []models.EventCount:
		for _, e := range data {
			add(e.Action, float64(e.Total))
		}
	default:
		return chartSeries{}, false
	}
	return s, len(s.Values) > 0
}

func deepDiveChart(dd models.EventDeepDive) chartSeries {
	s := chartSeries{ID: "event_daily", Kind: models.KindLine}
	for _, d := range dd.Days {
		s.Labels = append(s.Labels, d.Date)
		s.Values = append(s.Values, float64(d.Count))
	}
	return s
}
