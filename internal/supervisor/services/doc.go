// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Package services adapts long-running components to suture.Service.
//
//   - HTTPServerService: ListenAndServe with graceful Shutdown on cancel
//   - CacheWarmerService: periodic dashboard warm-up on a clockwork ticker
package services
