// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/models"
)

// ErrUnknownChart is returned for chart ids with no renderer.
var ErrUnknownChart = errors.New("unknown chart")

// Store serves the aggregates computed in SQL.
type Store interface {
	GetBoxStats(ctx context.Context, measure models.Measure) ([]models.BoxStats, error)
	GetWeeklyTotals(ctx context.Context) ([]models.PeriodTotal, error)
	GetMonthlyTotalsByLicense(ctx context.Context) ([]models.PeriodTotal, error)
}

// Options tunes rendering.
type Options struct {
	// ScatterSampleLimit caps the points drawn in scatter charts. Zero draws all.
	ScatterSampleLimit int
}

// Renderer builds one figure.
type Renderer func(ctx context.Context, r *Registry) (Figure, error)

// Chart ids.
const (
	RequestsBox              = "requests_box"
	SpendBox                 = "spend_box"
	SpendHeatmap             = "spend_heatmap"
	RequestsHeatmap          = "requests_heatmap"
	ModelSummaryChart        = "model_summary"
	ActivityVsSpend          = "activity_vs_spend"
	ActivityVsSpendByLicense = "activity_vs_spend_by_license"
	DailyCorrelationChart    = "daily_correlation"
	DailySpend               = "daily_spend"
	WeeklyTrends             = "weekly_trends"
	MonthlyRequestsByLicense = "monthly_requests_by_license"
	SegmentsOverTime         = "segments_over_time"
	EngagementFunnel         = "engagement_funnel"
	RetentionHistogram       = "retention_histogram"
	RetentionByLicenseChart  = "retention_by_license"
	SpendPerRequestByLicense = "spend_per_request_by_license"
	SpendPerRequestByModel   = "spend_per_request_by_model"
	TopSpendersChart         = "top_spenders"
	FeatureHistogram         = "feature_histogram"
	LicenseHistogram         = "license_histogram"
	SegmentComposition       = "segment_composition"
	ModelSpendRankingChart   = "model_spend_ranking"
)

var renderers = map[string]Renderer{
	RequestsBox:              renderRequestsBox,
	SpendBox:                 renderSpendBox,
	SpendHeatmap:             renderSpendHeatmap,
	RequestsHeatmap:          renderRequestsHeatmap,
	ModelSummaryChart:        renderModelSummary,
	ActivityVsSpend:          renderActivityVsSpend,
	ActivityVsSpendByLicense: renderActivityVsSpendByLicense,
	DailyCorrelationChart:    renderDailyCorrelation,
	DailySpend:               renderDailySpend,
	WeeklyTrends:             renderWeeklyTrends,
	MonthlyRequestsByLicense: renderMonthlyRequestsByLicense,
	SegmentsOverTime:         renderSegmentsOverTime,
	EngagementFunnel:         renderEngagementFunnel,
	RetentionHistogram:       renderRetentionHistogram,
	RetentionByLicenseChart:  renderRetentionByLicense,
	SpendPerRequestByLicense: renderSpendPerRequestByLicense,
	SpendPerRequestByModel:   renderSpendPerRequestByModel,
	TopSpendersChart:         renderTopSpenders,
	FeatureHistogram:         renderFeatureHistogram,
	LicenseHistogram:         renderLicenseHistogram,
	SegmentComposition:       renderSegmentComposition,
	ModelSpendRankingChart:   renderModelSpendRanking,
}

// Registry resolves chart ids against one engine and store.
type Registry struct {
	engine *analytics.Engine
	store  Store
	opts   Options
}

// NewRegistry builds a registry over engine and store.
func NewRegistry(engine *analytics.Engine, store Store, opts Options) *Registry {
	return &Registry{engine: engine, store: store, opts: opts}
}

// Has reports whether id names a chart.
func (r *Registry) Has(id string) bool {
	_, ok := renderers[id]
	return ok
}

// IDs returns every chart id, sorted.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, len(renderers))
	for id := range renderers {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

// Render builds the figure for id.
func (r *Registry) Render(ctx context.Context, id string) (Figure, error) {
	render, ok := renderers[id]
	if !ok {
		return Figure{}, fmt.Errorf("%w: %q", ErrUnknownChart, id)
	}

	start := time.Now()
	fig, err := render(ctx, r)
	if err != nil {
		return Figure{}, fmt.Errorf("render %s: %w", id, err)
	}
	fig.ID = id
	elapsed := time.Since(start)
	metrics.RecordChartRender(id, elapsed)
	logging.Ctx(ctx).Debug().Str("chart", id).Dur("duration", elapsed).Msg("Chart rendered")
	return fig, nil
}
