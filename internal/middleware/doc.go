// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

/*
Package middleware provides the HTTP middleware used by the dashboard API.

All middleware follows the chi signature func(http.Handler) http.Handler and
is mounted by the api router:

	r.Use(middleware.RequestID)
	r.Use(middleware.PrometheusMetrics)
	r.Use(middleware.Compression)
	r.Use(monitor.Middleware)

Key Components:

  - RequestID: X-Request-ID propagation into the logging context
  - PrometheusMetrics: request counts and latency labelled by chi route pattern
  - Compression: gzip for clients that accept it
  - PerformanceMonitor: rolling latency percentiles and throttled slow-request warnings
*/
package middleware
