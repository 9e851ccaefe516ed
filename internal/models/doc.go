// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package models defines the filter, panel and analytics result types shared
// by the warehouse layer, the dashboard service and the HTTP API.
package models
