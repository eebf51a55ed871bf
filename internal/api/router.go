// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"embed"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/middleware"
	"github.com/tomtom215/usagelens/internal/models"
)

//go:embed static
var staticFiles embed.FS

// indexTemplate renders the dashboard shell around the page navigation.
var indexTemplate = template.Must(template.ParseFS(staticFiles, "static/index.html.tmpl"))

// Router sets up HTTP routes using the Chi router.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a router. A nil mw uses DefaultChiMiddlewareConfig.
func NewRouter(handler *Handler, mw *ChiMiddleware) *Router {
	if mw == nil {
		mw = NewChiMiddleware(nil)
	}
	return &Router{handler: handler, chiMiddleware: mw}
}

// SetupChi configures every route.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order.
	r.Use(middleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // must be global to answer OPTIONS preflight

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusNotFound, ErrCodeNotFound, "Route not found", nil)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		respondError(w, r, http.StatusMethodNotAllowed, ErrCodeMethodNotAllowed, "Method not allowed", nil)
	})

	r.Route("/api/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/", router.handler.Health)
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimit())
		r.Use(APISecurityHeaders())
		r.Use(middleware.PrometheusMetrics)
		r.Use(middleware.Compression)
		r.Use(router.handler.perfMon.Middleware)

		r.Get("/dataset", router.handler.Dataset)
		r.Get("/performance", router.handler.Performance)

		r.Get("/pages", router.handler.Pages)
		r.Get("/pages/{slug}", router.handler.Page)

		r.Get("/charts", router.handler.Charts)
		r.Get("/charts/{id}", router.handler.Chart)

		r.Route("/analytics", func(r chi.Router) {
			r.Get("/kpis", router.handler.AnalyticsKPIs)
			r.Get("/segments", router.handler.AnalyticsSegments)
			r.Get("/segments/timeseries", router.handler.AnalyticsSegmentTimeSeries)
			r.Get("/funnel", router.handler.AnalyticsFunnel)
			r.Get("/users", router.handler.AnalyticsUsers)
		})
	})

	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.Handler(httpSwagger.URL("/swagger/doc.json")))

	static, err := fs.Sub(staticFiles, "static")
	if err != nil {
		panic(err) // embedded path is fixed at compile time
	}
	r.Handle("/static/*", http.StripPrefix("/static/", staticHandler(http.FileServer(http.FS(static)))))
	r.Get("/", router.handler.Index)

	return r
}

func staticHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Cache-Control", "public, max-age=300")
		next.ServeHTTP(w, r)
	})
}

// indexData feeds index.html.tmpl.
type indexData struct {
	Title          string
	Pages          []models.PageSummary
	DefaultPage    string
	DatasetVersion string
}

// Index serves the dashboard shell.
func (h *Handler) Index(w http.ResponseWriter, r *http.Request) {
	data := indexData{
		Title:          "UsageLens",
		Pages:          h.pages.List(),
		DatasetVersion: h.engine.Fingerprint(),
	}
	if len(data.Pages) > 0 {
		data.DefaultPage = data.Pages[0].Slug
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-cache")
	if err := indexTemplate.Execute(w, data); err != nil {
		logging.Ctx(r.Context()).Error().Err(err).Msg("Failed to execute index template")
	}
}
