// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// @title UsageLens API
// @version 1.0
// @description Analytics over daily per-user ML feature usage: per-user totals, median-threshold segments, an engagement funnel, KPIs and Plotly dashboard pages.
// @description
// @description ## Rate Limiting
// @description
// @description Default rate limit: 100 requests per minute per IP address on /api/v1.
// @description
// @description ## Caching
// @description
// @description Success responses carry an ETag over the data payload. Send If-None-Match to receive 304.
// @description
// @description ## Error Responses
// @description
// @description ```json
// @description {
// @description   "status": "error",
// @description   "error": {"code": "VALIDATION_ERROR", "message": "limit must be at most 1000"},
// @description   "metadata": {"timestamp": "2026-03-01T12:00:00Z"}
// @description }
// @description ```
//
// @contact.name GitHub Repository
// @contact.url https://github.com/tomtom215/usagelens/issues
//
// @license.name AGPL-3.0-or-later
// @license.url https://www.gnu.org/licenses/agpl-3.0.html
//
// @host localhost:8501
// @BasePath /api
// @schemes http https
//
// @tag.name Core
// @tag.description Health, dataset description and API latency statistics
//
// @tag.name Analytics
// @tag.description KPIs, segmentation, segment time series, funnel and per-user totals
//
// @tag.name Charts
// @tag.description Plotly figure JSON for every dashboard chart
//
// @tag.name Pages
// @tag.description Fully rendered dashboard pages
package main
