// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/tomtom215/usagelens/internal/cache"
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/logging"
	"github.com/tomtom215/usagelens/internal/metrics"
	"github.com/tomtom215/usagelens/internal/models"
)

// cacheName labels the engine memo in metrics.
const cacheName = "analytics"

// Options configures an Engine.
type Options struct {
	ZeroRequestPolicy RatioPolicy
	TopSpenders       int
}

// Engine serves every analytics operation over one table, memoising results
// in a shared LRU. Keys start with the table fingerprint, so engines over
// different tables can share a cache without ever sharing entries.
type Engine struct {
	table *dataset.Table
	memo  *cache.LRU
	group singleflight.Group
	opts  Options
}

// NewEngine wraps table. A nil memo gets a private cache of default size.
func NewEngine(table *dataset.Table, memo *cache.LRU, opts Options) (*Engine, error) {
	if table == nil {
		return nil, fmt.Errorf("analytics: nil table")
	}
	if opts.ZeroRequestPolicy == "" {
		opts.ZeroRequestPolicy = PolicyExclude
	}
	if err := opts.ZeroRequestPolicy.Validate(); err != nil {
		return nil, err
	}
	if opts.TopSpenders <= 0 {
		opts.TopSpenders = 5
	}
	if memo == nil {
		memo = cache.NewLRU(0)
	}
	return &Engine{table: table, memo: memo, opts: opts}, nil
}

// Table returns the underlying table.
func (e *Engine) Table() *dataset.Table { return e.table }

// Fingerprint identifies the table the engine computes over.
func (e *Engine) Fingerprint() string { return e.table.Fingerprint() }

// Options returns the engine configuration.
func (e *Engine) Options() Options { return e.opts }

// CacheStats exposes the memo counters.
func (e *Engine) CacheStats() cache.Stats { return e.memo.Stats() }

// CacheStatus records whether the engine calls made with a context were all
// served from the memo.
type CacheStatus struct {
	hits   atomic.Int32
	misses atomic.Int32
}

// Cached reports true when at least one lookup happened and none missed.
func (s *CacheStatus) Cached() bool {
	return s.hits.Load() > 0 && s.misses.Load() == 0
}

type cacheStatusKey struct{}

// WithCacheStatus attaches a CacheStatus that engine calls made with the
// returned context will update.
func WithCacheStatus(ctx context.Context) (context.Context, *CacheStatus) {
	s := &CacheStatus{}
	return context.WithValue(ctx, cacheStatusKey{}, s), s
}

func statusFrom(ctx context.Context) *CacheStatus {
	s, _ := ctx.Value(cacheStatusKey{}).(*CacheStatus)
	return s
}

// memoize returns the cached value for (operation, args) or computes it once.
// Concurrent callers with the same key share a single computation, which runs
// detached from the first caller's cancellation.
func memoize[T any](ctx context.Context, e *Engine, operation string, args interface{}, compute func(context.Context) (T, error)) (T, error) {
	var zero T
	key := cache.GenerateKey(e.table.Fingerprint()+":"+operation, args)
	status := statusFrom(ctx)

	if v, ok := e.memo.Get(key); ok {
		metrics.RecordCacheLookup(cacheName, true)
		if status != nil {
			status.hits.Add(1)
		}
		return v.(T), nil
	}
	metrics.RecordCacheLookup(cacheName, false)
	if status != nil {
		status.misses.Add(1)
	}

	if err := ctx.Err(); err != nil {
		return zero, err
	}

	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		if cached, ok := e.memo.Get(key); ok {
			return cached, nil
		}
		start := time.Now()
		result, err := compute(context.WithoutCancel(ctx))
		elapsed := time.Since(start)
		metrics.RecordAnalyticsCompute(operation, elapsed, err)
		if err != nil {
			return nil, err
		}
		e.memo.Add(key, result)
		logging.Ctx(ctx).Debug().
			Str("operation", operation).
			Dur("duration", elapsed).
			Msg("Analytics computed")
		return result, nil
	})
	if err != nil {
		return zero, err
	}
	return v.(T), nil
}

// noArgs is the key argument of parameterless operations.
type noArgs struct{}

func pure[T any](fn func() T) func(context.Context) (T, error) {
	return func(context.Context) (T, error) { return fn(), nil }
}

// UserTotals returns per-user aggregates sorted by user id.
func (e *Engine) UserTotals(ctx context.Context) ([]models.UserTotals, error) {
	return memoize(ctx, e, "user_totals", noArgs{}, pure(func() []models.UserTotals {
		return ComputePerUserTotals(e.table)
	}))
}

// Segmentation classifies every user into a behaviour segment.
func (e *Engine) Segmentation(ctx context.Context) (models.Segmentation, error) {
	return memoize(ctx, e, "segmentation", noArgs{}, func(ctx context.Context) (models.Segmentation, error) {
		totals, err := e.UserTotals(ctx)
		if err != nil {
			return models.Segmentation{}, err
		}
		return ClassifySegments(totals), nil
	})
}

// SegmentCounts returns users per segment in canonical order.
func (e *Engine) SegmentCounts(ctx context.Context) ([]models.SegmentCount, error) {
	return memoize(ctx, e, "segment_counts", noArgs{}, func(ctx context.Context) ([]models.SegmentCount, error) {
		seg, err := e.Segmentation(ctx)
		if err != nil {
			return nil, err
		}
		return SegmentCounts(seg), nil
	})
}

// SegmentTimeSeries returns distinct active users per day and segment.
func (e *Engine) SegmentTimeSeries(ctx context.Context) ([]models.SegmentDayCount, error) {
	return memoize(ctx, e, "segment_timeseries", noArgs{}, func(ctx context.Context) ([]models.SegmentDayCount, error) {
		seg, err := e.Segmentation(ctx)
		if err != nil {
			return nil, err
		}
		return SegmentTimeSeries(e.table, seg), nil
	})
}

// Funnel returns the engagement funnel.
func (e *Engine) Funnel(ctx context.Context) (models.FunnelCounts, error) {
	return memoize(ctx, e, "funnel", noArgs{}, func(ctx context.Context) (models.FunnelCounts, error) {
		totals, err := e.UserTotals(ctx)
		if err != nil {
			return models.FunnelCounts{}, err
		}
		return funnelFromTotals(totals), nil
	})
}

// KPIs returns the summary KPI set under the configured zero request policy.
func (e *Engine) KPIs(ctx context.Context) (models.KPISet, error) {
	opts := KPIOptions{ZeroRequestPolicy: e.opts.ZeroRequestPolicy}
	return memoize(ctx, e, "kpis", opts, pure(func() models.KPISet {
		return ComputeKPISet(e.table, opts)
	}))
}

// Overview returns the overview page metrics.
func (e *Engine) Overview(ctx context.Context) (models.OverviewMetrics, error) {
	return memoize(ctx, e, "overview", noArgs{}, pure(func() models.OverviewMetrics {
		return OverviewMetrics(e.table)
	}))
}

// Pivot returns the feature × model mean of measure.
func (e *Engine) Pivot(ctx context.Context, measure models.Measure) (models.Pivot, error) {
	return memoize(ctx, e, "pivot", measure, func(context.Context) (models.Pivot, error) {
		return MeanPivot(e.table, measure)
	})
}

// ModelSummary returns per-model means and standard deviations.
func (e *Engine) ModelSummary(ctx context.Context) ([]models.ModelStats, error) {
	return memoize(ctx, e, "model_summary", noArgs{}, pure(func() []models.ModelStats {
		return ModelSummary(e.table)
	}))
}

// CategoryCounts returns record counts per value of d.
func (e *Engine) CategoryCounts(ctx context.Context, d models.Dimension) ([]models.CategoryCount, error) {
	return memoize(ctx, e, "category_counts", d, func(context.Context) ([]models.CategoryCount, error) {
		return CategoryCounts(e.table, d)
	})
}

// DailyTotals returns per-day sums.
func (e *Engine) DailyTotals(ctx context.Context) ([]models.DailyTotal, error) {
	return memoize(ctx, e, "daily_totals", noArgs{}, pure(func() []models.DailyTotal {
		return DailyTotals(e.table)
	}))
}

// DailyCorrelation returns per-day correlations.
func (e *Engine) DailyCorrelation(ctx context.Context) ([]models.DailyCorrelation, error) {
	return memoize(ctx, e, "daily_correlation", noArgs{}, pure(func() []models.DailyCorrelation {
		return DailyCorrelation(e.table)
	}))
}

// Correlation returns the overall requests/spend correlation.
func (e *Engine) Correlation(ctx context.Context) (models.Number, error) {
	return memoize(ctx, e, "correlation", noArgs{}, pure(func() models.Number {
		return Correlation(e.table)
	}))
}

// ActivityTrend returns the spend-on-requests trend line, optionally for one license.
func (e *Engine) ActivityTrend(ctx context.Context, license string) (models.Trendline, error) {
	return memoize(ctx, e, "activity_trend", license, pure(func() models.Trendline {
		return ActivityTrend(e.table, license)
	}))
}

// SpendPerRequest returns the mean spend per request per value of d.
func (e *Engine) SpendPerRequest(ctx context.Context, d models.Dimension) ([]models.GroupRatio, error) {
	args := struct {
		Dimension models.Dimension
		Policy    RatioPolicy
	}{d, e.opts.ZeroRequestPolicy}
	return memoize(ctx, e, "spend_per_request", args, func(context.Context) ([]models.GroupRatio, error) {
		return SpendPerRequestBy(e.table, d, e.opts.ZeroRequestPolicy)
	})
}

// Retention returns the active-days histogram and per-license means.
func (e *Engine) Retention(ctx context.Context) (models.RetentionStats, error) {
	return memoize(ctx, e, "retention", noArgs{}, pure(func() models.RetentionStats {
		return RetentionByLicense(e.table)
	}))
}

// TopSpenders returns the configured number of top users per license.
func (e *Engine) TopSpenders(ctx context.Context) ([]models.TopSpender, error) {
	n := e.opts.TopSpenders
	return memoize(ctx, e, "top_spenders", n, pure(func() []models.TopSpender {
		return TopSpenders(e.table, n)
	}))
}

// ModelSpendRanking returns models by mean spend, highest first.
func (e *Engine) ModelSpendRanking(ctx context.Context) ([]models.ModelSpend, error) {
	return memoize(ctx, e, "model_spend_ranking", noArgs{}, pure(func() []models.ModelSpend {
		return ModelSpendRanking(e.table)
	}))
}
