// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package export

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/logging"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/metrics"
	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// Format is a snapshot file format.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ErrUnknownFormat is returned for formats other than json and csv.
var ErrUnknownFormat = errors.New("unknown export format")

// ParseFormat accepts "json" or "csv" in any case.
func ParseFormat(s string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case FormatJSON, FormatCSV:
		return f, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownFormat, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv; charset=utf-8"
	}
	return "application/json"
}

// Snapshot is the JSON document written for a tab.
type Snapshot struct {
	ExportedAt time.Time   `json:"exported_at"`
	Tab        *models.Tab `json:"tab"`
}

// Encode renders tab in the given format. CSV output holds one section per
// tabular panel: a title row, the header and the rows, separated by an
// empty line.
func Encode(tab *models.Tab, format Format, now time.Time) ([]byte, error) {
	switch format {
	case FormatJSON:
		data, err := json.MarshalIndent(Snapshot{ExportedAt: now.UTC(), Tab: tab}, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encode json snapshot: %w", err)
		}
		return data, nil

	case FormatCSV:
		var buf bytes.Buffer
		cw := csv.NewWriter(&buf)
		write := func(record ...string) {
			_ = cw.Write(record) // errors surface through cw.Error below
		}

		write("tab", string(tab.Name))
		write("period", tab.Filter.StartString(), tab.Filter.EndString())
		write("platforms", strings.Join(tab.Filter.Platforms, " "))
		if metricsTable, ok := MetricsTable(tab); ok {
			write()
			write(metricsTable.Header...)
			for _, row := range metricsTable.Rows {
				write(row...)
			}
		}
		for i := range tab.Panels {
			p := &tab.Panels[i]
			if _, isMetric := p.Data.(models.Metric); isMetric {
				continue
			}
			t, ok := PanelTable(p)
			if !ok {
				continue
			}
			write()
			write(t.Title)
			write(t.Header...)
			for _, row := range t.Rows {
				write(row...)
			}
		}
		cw.Flush()
		if err := cw.Error(); err != nil {
			return nil, fmt.Errorf("encode csv snapshot: %w", err)
		}
		return buf.Bytes(), nil

	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, format)
	}
}

// TimestampedFilename names a snapshot file, e.g.
// overview_2025-03-01_2025-03-10_20250310T153000Z.json.
func TimestampedFilename(tab *models.Tab, format Format, now time.Time) string {
	return fmt.Sprintf("%s_%s_%s_%s.%s",
		tab.Name,
		tab.Filter.StartString(),
		tab.Filter.EndString(),
		now.UTC().Format("20060102T150405Z"),
		format,
	)
}

// Result describes a written snapshot.
type Result struct {
	Location string
	Bytes    int64
}

// Export encodes tab and hands it to sink.
func Export(ctx context.Context, tab *models.Tab, format Format, sink Sink, now time.Time) (Result, error) {
	data, err := Encode(tab, format, now)
	if err != nil {
		metrics.RecordExport(string(format), sink.Name(), 0, err)
		return Result{}, err
	}

	name := TimestampedFilename(tab, format, now)
	location, err := sink.Put(ctx, name, data, format.ContentType())
	metrics.RecordExport(string(format), sink.Name(), int64(len(data)), err)
	if err != nil {
		return Result{}, fmt.Errorf("write snapshot %s: %w", name, err)
	}

	logging.Ctx(ctx).Info().
		Str("tab", string(tab.Name)).
		Str("format", string(format)).
		Str("location", location).
		Int("bytes", len(data)).
		Msg("Exported dashboard snapshot")
	return Result{Location: location, Bytes: int64(len(data))}, nil
}
