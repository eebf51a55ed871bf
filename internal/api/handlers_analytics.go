// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/models"
)

// AnalyticsKPIs returns the KPI set
//
// @Summary Summary KPIs
// @Description Usage, efficiency, engagement and power-usage KPIs. Undefined ratios are null.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.KPISet}
// @Failure 500 {object} models.APIResponse "Computation failed"
// @Router /v1/analytics/kpis [get]
func (h *Handler) AnalyticsKPIs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, status := computeContext(r)

	kpis, err := h.engine.KPIs(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	h.respondData(w, r, start, status, kpis)
}

// AnalyticsSegments returns the segmentation summary
//
// @Summary User segmentation
// @Description Median thresholds and users per segment. With include_users=true a page of segmented users is added.
// @Tags Analytics
// @Produce json
// @Param include_users query bool false "Include a page of segmented users"
// @Param limit query int false "Page size" minimum(1) maximum(1000)
// @Param offset query int false "Page offset" minimum(0)
// @Success 200 {object} models.APIResponse{data=models.SegmentsResponse}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Router /v1/analytics/segments [get]
func (h *Handler) AnalyticsSegments(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := SegmentsRequest{
		IncludeUsers: getBoolParam(r, "include_users"),
		Limit:        getIntParam(r, "limit", h.defaultPageSize()),
		Offset:       getIntParam(r, "offset", 0),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ctx, status := computeContext(r)
	seg, err := h.engine.Segmentation(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	counts, err := h.engine.SegmentCounts(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}

	resp := models.SegmentsResponse{
		RequestThreshold: seg.RequestThreshold,
		SpendThreshold:   seg.SpendThreshold,
		Counts:           counts,
	}
	if req.IncludeUsers {
		limit := h.clampPageSize(req.Limit)
		lo, hi := pageBounds(len(seg.Users), limit, req.Offset)
		resp.Users = seg.Users[lo:hi]
		page := models.NewPaginationInfo(limit, req.Offset, len(seg.Users))
		resp.Pagination = &page
	}
	h.respondData(w, r, start, status, resp)
}

// AnalyticsSegmentTimeSeries returns active users per day and segment
//
// @Summary Segment time series
// @Description Distinct active users per (day, segment), sorted by day then segment. Days without activity are absent.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=[]models.SegmentDayCount}
// @Router /v1/analytics/segments/timeseries [get]
func (h *Handler) AnalyticsSegmentTimeSeries(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, status := computeContext(r)

	series, err := h.engine.SegmentTimeSeries(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	h.respondData(w, r, start, status, series)
}

// AnalyticsFunnel returns the engagement funnel
//
// @Summary Engagement funnel
// @Description Users who used the app, used more than one feature, and spent more than 100 credits. The last stage is not a subset of the second.
// @Tags Analytics
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.FunnelResponse}
// @Router /v1/analytics/funnel [get]
func (h *Handler) AnalyticsFunnel(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	ctx, status := computeContext(r)

	funnel, err := h.engine.Funnel(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}
	h.respondData(w, r, start, status, models.FunnelResponse{Counts: funnel, Stages: funnel.Stages()})
}

// AnalyticsUsers lists segmented users
//
// @Summary Segmented users
// @Description One page of per-user totals with their segment
// @Tags Analytics
// @Produce json
// @Param limit query int false "Page size" minimum(1) maximum(1000)
// @Param offset query int false "Page offset" minimum(0)
// @Param sort query string false "Sort order" Enums(user_id, requests, spend)
// @Success 200 {object} models.APIResponse{data=models.UsersResponse}
// @Failure 400 {object} models.APIResponse "Invalid parameter"
// @Router /v1/analytics/users [get]
func (h *Handler) AnalyticsUsers(w http.ResponseWriter, r *http.Request) {
	start := time.Now()
	req := UsersRequest{
		Limit:  getIntParam(r, "limit", h.defaultPageSize()),
		Offset: getIntParam(r, "offset", 0),
		Sort:   r.URL.Query().Get("sort"),
	}
	if apiErr := validateRequest(&req); apiErr != nil {
		respondValidationError(w, r, apiErr)
		return
	}

	ctx, status := computeContext(r)
	seg, err := h.engine.Segmentation(ctx)
	if err != nil {
		respondComputeError(w, r, err)
		return
	}

	users := seg.Users
	if req.Sort != "" {
		users = analytics.SortUsers(users, analytics.UserSort(req.Sort))
	}
	limit := h.clampPageSize(req.Limit)
	lo, hi := pageBounds(len(users), limit, req.Offset)
	page := users[lo:hi]
	if page == nil {
		page = []models.SegmentedUser{}
	}
	h.respondData(w, r, start, status, models.UsersResponse{
		Users:      page,
		Pagination: models.NewPaginationInfo(limit, req.Offset, len(users)),
	})
}
