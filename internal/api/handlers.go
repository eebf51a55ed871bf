// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"context"
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/charts"
	"github.com/tomtom215/usagelens/internal/config"
	"github.com/tomtom215/usagelens/internal/middleware"
	"github.com/tomtom215/usagelens/internal/models"
	"github.com/tomtom215/usagelens/internal/pages"
)

// Database is the part of the DuckDB handle the health probes need.
type Database interface {
	Ping(ctx context.Context) error
	Loaded() bool
}

// StalenessReporter reports whether the dataset file changed after load.
type StalenessReporter interface {
	Stale() bool
}

// Handler contains dependencies for API handlers.
//
// Handler methods are split across files:
//   - handlers.go: Handler struct, constructor and envelope helpers (this file)
//   - handlers_helpers.go: JSON, ETag and parameter helpers
//   - handlers_health.go: health and readiness probes
//   - handlers_core.go: dataset, pages, charts and performance
//   - handlers_analytics.go: KPI, segment, funnel and user endpoints
type Handler struct {
	engine    *analytics.Engine
	charts    *charts.Registry
	pages     *pages.Controller
	db        Database
	config    *config.Config
	perfMon   *middleware.PerformanceMonitor
	staleness StalenessReporter
	version   string
	startTime time.Time
}

// NewHandler creates a handler over a loaded engine. db may be nil when the
// process runs without the DuckDB handle (tests).
//
//	handler := api.NewHandler(engine, registry, controller, db, cfg)
//	router := api.NewRouter(handler, api.NewChiMiddlewareFromConfig(&cfg.Security))
//	srv := &http.Server{Addr: cfg.Server.Addr(), Handler: router.SetupChi()}
func NewHandler(engine *analytics.Engine, registry *charts.Registry, controller *pages.Controller, db Database, cfg *config.Config) *Handler {
	return &Handler{
		engine:    engine,
		charts:    registry,
		pages:     controller,
		db:        db,
		config:    cfg,
		perfMon:   middleware.NewPerformanceMonitor(1000, middleware.DefaultSlowThreshold),
		version:   "dev",
		startTime: time.Now(),
	}
}

// SetVersion sets the version reported by the health endpoint.
func (h *Handler) SetVersion(v string) { h.version = v }

// SetStalenessReporter wires the dataset watcher into the health endpoint.
func (h *Handler) SetStalenessReporter(s StalenessReporter) { h.staleness = s }

// PerformanceMonitor returns the monitor mounted on the API routes.
func (h *Handler) PerformanceMonitor() *middleware.PerformanceMonitor { return h.perfMon }

func (h *Handler) defaultPageSize() int {
	if h.config == nil || h.config.API.DefaultPageSize <= 0 {
		return 100
	}
	return h.config.API.DefaultPageSize
}

func (h *Handler) clampPageSize(limit int) int {
	if h.config != nil && h.config.API.MaxPageSize > 0 && limit > h.config.API.MaxPageSize {
		return h.config.API.MaxPageSize
	}
	return limit
}

// computeContext attaches a cache status to the request context so the
// response metadata can report whether every engine call was a cache hit.
func computeContext(r *http.Request) (context.Context, *analytics.CacheStatus) {
	return analytics.WithCacheStatus(r.Context())
}

// respondData sends a success envelope stamped with query time, cache status
// and dataset version.
func (h *Handler) respondData(w http.ResponseWriter, r *http.Request, start time.Time, status *analytics.CacheStatus, data interface{}) {
	meta := models.Metadata{
		Timestamp:      time.Now(),
		QueryTimeMS:    time.Since(start).Milliseconds(),
		DatasetVersion: h.engine.Fingerprint(),
	}
	if status != nil {
		meta.Cached = status.Cached()
	}
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status:   "success",
		Data:     data,
		Metadata: meta,
	})
}
