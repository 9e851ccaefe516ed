// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"context"
	"errors"
	"fmt"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/database"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Placeholder texts.
const (
	MessageNoData      = "No data available"
	MessageUnavailable = "Warehouse temporarily unavailable, please retry shortly"
)

// panelTask is one query of a tab. run returns the panel data and whether
// the result is empty.
type panelTask struct {
	id      string
	title   string
	caption string
	kind    models.PanelKind

	// emptyMessage replaces MessageNoData for empty results and too-short
	// windows.
	emptyMessage string

	run func(ctx context.Context) (interface{}, bool, error)

	// placeholder is the Data of an empty or failed panel. Metric tiles
	// keep their label with an N/A value.
	placeholder func() interface{}
}

func (t panelTask) panel(status models.PanelStatus, data interface{}, message string) models.Panel {
	return models.Panel{
		ID:      t.id,
		Title:   t.title,
		Caption: t.caption,
		Kind:    t.kind,
		Status:  status,
		Message: message,
		Data:    data,
	}
}

func (t panelTask) placeholderData() interface{} {
	if t.placeholder == nil {
		return nil
	}
	return t.placeholder()
}

func (t panelTask) empty() models.Panel {
	msg := t.emptyMessage
	if msg == "" {
		msg = MessageNoData
	}
	return t.panel(models.PanelEmpty, t.placeholderData(), msg)
}

// failed classifies err: a window too short for the query is an empty
// result, an open breaker and everything else make the panel unavailable.
func (t panelTask) failed(err error) models.Panel {
	if errors.Is(err, database.ErrWindowTooShort) {
		return t.empty()
	}
	msg := MessageNoData
	if errors.Is(err, database.ErrCircuitOpen) {
		msg = MessageUnavailable
	}
	return t.panel(models.PanelUnavailable, t.placeholderData(), msg)
}

// runPanels executes tasks on the shared pool and returns their panels in
// task order.
func (s *Service) runPanels(ctx context.Context, tab models.TabName, tasks []panelTask) []models.Panel {
	group := s.pool.NewGroupContext(ctx)
	for _, task := range tasks {
		group.Submit(func() models.Panel {
			return s.runPanel(ctx, tab, task)
		})
	}

	panels, err := group.Wait()
	if err == nil && len(panels) == len(tasks) {
		return panels
	}

	logging.Ctx(ctx).Error().Err(err).Str("tab", string(tab)).Msg("Panel group failed")
	panels = make([]models.Panel, len(tasks))
	for i, task := range tasks {
		panels[i] = task.failed(err)
		metrics.RecordPanel(string(tab), task.id, string(panels[i].Status), 0)
	}
	return panels
}

func (s *Service) runPanel(ctx context.Context, tab models.TabName, task panelTask) (panel models.Panel) {
	ctx, cancel := context.WithTimeout(ctx, s.opts.PanelTimeout)
	defer cancel()

	start := s.clock.Now()
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("panel %s panicked: %v", task.id, r)
			logging.Ctx(ctx).Error().Err(err).Str("tab", string(tab)).Str("panel", task.id).Msg("Panel panicked")
			panel = task.failed(err)
		}
		elapsed := s.clock.Since(start)
		panel.QueryTimeMS = elapsed.Milliseconds()
		metrics.RecordPanel(string(tab), task.id, string(panel.Status), elapsed)
	}()

	data, empty, err := task.run(ctx)
	switch {
	case err != nil:
		panel = task.failed(err)
		if panel.Status == models.PanelUnavailable {
			logging.Ctx(ctx).Warn().
				Err(err).
				Str("tab", string(tab)).
				Str("panel", task.id).
				Str("error_type", metrics.ErrorType(err)).
				Msg("Panel query failed")
		}
		return panel
	case empty:
		return task.empty()
	default:
		return task.panel(models.PanelOK, data, "")
	}
}

// countTile is a KPI tile holding an integer count.
func countTile(id, label, help string, fn func(ctx context.Context) (int64, error)) panelTask {
	return panelTask{
		id:    id,
		title: label,
		kind:  models.KindMetrics,
		run: func(ctx context.Context) (interface{}, bool, error) {
			n, err := fn(ctx)
			if err != nil {
				return nil, false, err
			}
			return models.CountMetric(id, label, help, n), false, nil
		},
		placeholder: func() interface{} { return models.UnavailableMetric(id, label, help) },
	}
}

// ratioTile is a KPI tile holding a rounded ratio. A NULL ratio (no rows)
// is an empty tile.
func ratioTile(id, label, help, unit string, decimals int, fn func(ctx context.Context) (*float64, error)) panelTask {
	return panelTask{
		id:    id,
		title: label,
		kind:  models.KindMetrics,
		run: func(ctx context.Context) (interface{}, bool, error) {
			v, err := fn(ctx)
			if err != nil {
				return nil, false, err
			}
			if v == nil {
				return nil, true, nil
			}
			return models.RatioMetric(id, label, help, unit, *v, decimals), false, nil
		},
		placeholder: func() interface{} { return models.UnavailableMetric(id, label, help) },
	}
}

// listPanel is a chart or table over a row list; no rows is empty.
func listPanel[T any](id, title, caption string, kind models.PanelKind, emptyMessage string, fn func(ctx context.Context) ([]T, error)) panelTask {
	return panelTask{
		id:           id,
		title:        title,
		caption:      caption,
		kind:         kind,
		emptyMessage: emptyMessage,
		run: func(ctx context.Context) (interface{}, bool, error) {
			rows, err := fn(ctx)
			if err != nil {
				return nil, false, err
			}
			return rows, len(rows) == 0, nil
		},
	}
}

// metricValue returns the value of an OK metric panel.
func metricValue(panels []models.Panel, id string) (*float64, models.PanelStatus) {
	for i := range panels {
		if panels[i].ID != id {
			continue
		}
		if m, ok := panels[i].Data.(models.Metric); ok && panels[i].Status == models.PanelOK {
			return m.Value, models.PanelOK
		}
		return nil, panels[i].Status
	}
	return nil, models.PanelEmpty
}

// deriveStickiness fills the stickiness tile from the average DAU and MAU
// tiles of the same tab.
func deriveStickiness(panels []models.Panel) {
	var target *models.Panel
	for i := range panels {
		if panels[i].ID == PanelStickiness {
			target = &panels[i]
		}
	}
	if target == nil {
		return
	}

	avgDAU, dauStatus := metricValue(panels, PanelAvgDAU)
	mau, mauStatus := metricValue(panels, PanelMAU)
	if dauStatus == models.PanelUnavailable || mauStatus == models.PanelUnavailable {
		target.Status = models.PanelUnavailable
		target.Message = MessageNoData
		return
	}

	var mauCount int64
	if mau != nil {
		mauCount = int64(*mau)
	}
	v, ok := models.Stickiness(avgDAU, mauCount)
	if !ok {
		return
	}
	target.Status = models.PanelOK
	target.Message = ""
	target.Data = models.RatioMetric(PanelStickiness, labelStickiness, helpStickiness, "%", v, 1)
}
