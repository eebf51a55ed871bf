// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package api provides the HTTP layer of the dashboard.

Every JSON endpoint returns models.APIResponse. Success responses carry an
ETag over the data payload and honour If-None-Match with 304. Metadata reports
the dataset fingerprint, query time and whether every engine call was served
from the memo cache.

Routes:

	GET /api/health, /api/health/live, /api/health/ready
	GET /api/v1/dataset
	GET /api/v1/performance
	GET /api/v1/pages, /api/v1/pages/{slug}
	GET /api/v1/charts, /api/v1/charts/{id}
	GET /api/v1/analytics/kpis
	GET /api/v1/analytics/segments[?include_users=true&limit=&offset=]
	GET /api/v1/analytics/segments/timeseries
	GET /api/v1/analytics/funnel
	GET /api/v1/analytics/users?limit=&offset=&sort=user_id|requests|spend
	GET /metrics, /swagger/*, / (dashboard shell), /static/*

Usage Example:

	handler := api.NewHandler(engine, registry, controller, db, cfg)
	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
*/
package api
