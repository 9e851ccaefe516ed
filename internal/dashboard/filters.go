// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

package dashboard

import (
	"fmt"
	"slices"
	"strings"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/models"
)

// FilterInput is the raw sidebar selection as received from a request or
// the command line. Empty fields take the configured defaults.
type FilterInput struct {
	Preset    string
	Start     string
	End       string
	Platforms []string
	Versions  []string
	Countries []string
}

// DefaultFilter is the selection shown on first load: the default preset,
// the default platforms and every version.
func (s *Service) DefaultFilter() models.Filter {
	r, err := models.ResolveDateRange(s.clock.Now(), s.opts.DefaultPreset, "", "")
	if err != nil {
		r, _ = models.ResolveDateRange(s.clock.Now(), models.PresetLast30Days, "", "")
	}
	return models.NewFilter(r, s.opts.DefaultPlatforms, nil, nil)
}

// ResolveFilter turns raw input into a filter. A preset wins over explicit
// dates; explicit dates without a preset mean a custom range.
func (s *Service) ResolveFilter(in FilterInput) (models.Filter, error) {
	preset := models.DatePreset(strings.ToLower(strings.TrimSpace(in.Preset)))
	if preset == "" {
		if in.Start != "" || in.End != "" {
			preset = models.PresetCustom
		} else {
			preset = s.opts.DefaultPreset
		}
	}

	r, err := models.ResolveDateRange(s.clock.Now(), preset, in.Start, in.End)
	if err != nil {
		return models.Filter{}, err
	}
	if days := r.Days(); days > s.opts.MaxRangeDays {
		return models.Filter{}, fmt.Errorf("%w: %d days exceeds the %d day limit",
			models.ErrInvalidDateRange, days, s.opts.MaxRangeDays)
	}

	platforms := in.Platforms
	if len(platforms) == 0 {
		platforms = s.opts.DefaultPlatforms
	}
	for _, p := range platforms {
		if !slices.Contains(models.AllPlatforms, strings.ToUpper(strings.TrimSpace(p))) {
			return models.Filter{}, fmt.Errorf("%w: %q", ErrUnknownPlatform, p)
		}
	}

	return models.NewFilter(r, platforms, in.Versions, in.Countries), nil
}
