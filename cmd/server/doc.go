// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package main is the entry point for the UsageLens server.

UsageLens loads a CSV of daily per-user ML feature usage into DuckDB, builds
per-user totals, median-threshold segments, an engagement funnel and a KPI
set, and serves five dashboard pages of Plotly figures over HTTP.

# Startup

 1. Configuration: .env, config.yaml and environment variables (Koanf v2)
 2. Logging: zerolog with JSON or console output
 3. Database: in-memory DuckDB, the CSV is validated and loaded once
 4. Analytics engine: per-user totals and segmentation memoised in an LRU
 5. Chart registry and page controller
 6. Supervisor tree: dataset watcher and HTTP server (suture v4)

The process exits non-zero when the dataset is missing, malformed or empty.
No page is served from partial data.

# Supervision

	RootSupervisor ("usagelens")
	├── DataSupervisor ("data-layer")
	│   └── DatasetWatcher (DATASET_WATCH=true)
	└── APISupervisor ("api-layer")
	    └── HTTPServerService

# Configuration

Priority: environment variables > config file > defaults.

	DATASET_PATH=data/usage.csv          # CSV with the eight usage columns
	DATASET_WATCH=true                   # mark the data stale when the file changes
	HTTP_PORT=8501
	LOG_LEVEL=info                       # trace, debug, info, warn, error
	LOG_FORMAT=json                      # json or console
	ANALYTICS_ZERO_REQUEST_POLICY=exclude # exclude or propagate
	DISABLE_RATE_LIMIT=false

# Signal Handling

SIGINT and SIGTERM cancel the supervisor tree. The HTTP server drains
in-flight requests for SUPERVISOR_SHUTDOWN_TIMEOUT before the database is
closed.

# Example Usage

	DATASET_PATH=./ai_usage.csv LOG_FORMAT=console ./usagelens
*/
package main
