// Bek va Lola Analytics - Game Analytics Dashboard
// Copyright 2026 OXXXYZED
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/OXXXYZED/BekVaLolaAnalitics

// Command bvlctl prints, exports and seeds dashboard data from a terminal.
//
//	bvlctl report overview --preset 7d
//	bvlctl export retention --format csv --dir ./snapshots
//	bvlctl export actions --s3-bucket bvl-snapshots
//	bvlctl seed --path ./bekvalola.duckdb
package main

import (
	"os"

	"github.com/OXXXYZED/BekVaLolaAnalitics/internal/cli"
)

func main() {
	os.Exit(int(cli.Run()))
}
