// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

/*
Package supervisor provides process supervision for the dashboard server
using suture v4.

# Overview

	RootSupervisor ("bekvalola")
	├── DataSupervisor ("data-layer")
	│   └── CacheWarmerService (if dashboard.warm_interval > 0)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

Crashed services restart with suture's backoff; a failing warmer never
restarts the HTTP server. Supervisor events are logged through sutureslog
into the zerolog bridge from logging.NewSlogLogger.

# Usage

	tree, err := supervisor.NewSupervisorTree(logging.NewSlogLogger(), supervisor.DefaultTreeConfig())
	if err != nil {
	    return err
	}
	tree.AddAPIService(services.NewHTTPServerService(server, cfg.Server.ShutdownTimeout))
	tree.AddDataService(services.NewCacheWarmerService(dash, warmCfg, nil, logging.Logger()))
	err = tree.Serve(ctx)
*/
package supervisor
