// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/tomtom215/usagelens/internal/middleware"
)

// ChartList is the response of GET /api/v1/charts.
type ChartList struct {
	Charts []string `json:"charts"`
}

// PerformanceStats is the response of GET /api/v1/performance.
type PerformanceStats struct {
	Endpoints []middleware.EndpointStats `json:"endpoints"`
	Recent    []middleware.RequestSample `json:"recent,omitempty"`
}

// Dataset describes the loaded table
//
// @Summary Describe the loaded dataset
// @Description Returns row and user counts, day range, distinct models, features and licenses, and the table fingerprint
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.DatasetInfo}
// @Router /v1/dataset [get]
func (h *Handler) Dataset(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.respondData(w, r, start, nil, h.engine.Table().Info())
}

// Pages lists the dashboard pages
//
// @Summary List dashboard pages
// @Tags Pages
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.PageSummary}
// @Router /v1/pages [get]
func (h *Handler) Pages(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.respondData(w, r, start, nil, h.pages.List())
}

// Page renders one dashboard page
//
// @Summary Render a dashboard page
// @Description Renders every block of the page: Plotly figures, metric cards, tables and commentary
// @Tags Pages
// @Produce json
// @Param slug path string true "Page slug" Enums(overview, relations, trends, behaviour, summary)
// @Success 200 {object} models.APIResponse{data=models.Page}
// @Failure 404 {object} models.APIResponse "Unknown page"
// @Router /v1/pages/{slug} [get]
func (h *Handler) Page(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, status := computeContext(r)

	page, err := h.pages.Render(ctx, chi.URLParam(r, "slug"))
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	h.respondData(w, r, start, status, page)
}

// Charts lists the chart ids
//
// @Summary List chart ids
// @Tags Charts
// @Produce json
// @Success 200 {object} models.APIResponse{data=api.ChartList}
// @Router /v1/charts [get]
func (h *Handler) Charts(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	h.respondData(w, r, start, nil, ChartList{Charts: h.charts.IDs()})
}

// Chart renders one figure
//
// @Summary Render a chart
// @Description Returns the Plotly figure JSON for the chart id
// @Tags Charts
// @Produce json
// @Param id path string true "Chart id"
// @Success 200 {object} models.APIResponse{data=charts.Figure}
// @Failure 404 {object} models.APIResponse "Unknown chart"
// @Router /v1/charts/{id} [get]
func (h *Handler) Chart(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, status := computeContext(r)

	fig, err := h.charts.Render(ctx, chi.URLParam(r, "id"))
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	h.respondData(w, r, start, status, fig)
}

// Performance reports API latency percentiles
//
// @Summary API latency statistics
// @Description Per-endpoint latency percentiles over the last 1000 requests
// @Tags Core
// @Produce json
// @Param recent query int false "Include the N most recent requests" minimum(0) maximum(1000)
// @Success 200 {object} models.APIResponse{data=api.PerformanceStats}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Router /v1/performance [get]
func (h *Handler) Performance(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := PerformanceRequest{Recent: getIntParam(r, "recent", 0)}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	stats := PerformanceStats{Endpoints: h.perfMon.Stats()}
	if req.Recent > 0 {
		stats.Recent = h.perfMon.Recent(req.Recent)
	}
	h.respondData(w, r, start, nil, stats)
}
