// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// ErrUnknownDimension is returned for a dimension or measure the table lacks.
var ErrUnknownDimension = errors.New("unknown dimension")

func dimensionValue(r models.UsageRecord, d models.Dimension) string {
	switch d {
	case models.DimensionModel:
		return r.Model
	case models.DimensionFeature:
		return r.Feature
	default:
		return r.License
	}
}

// dimensionValues returns the distinct values of d in display order.
func dimensionValues(t *dataset.Table, d models.Dimension) ([]string, error) {
	switch d {
	case models.DimensionModel:
		return t.Models(), nil
	case models.DimensionFeature:
		return t.Features(), nil
	case models.DimensionLicense:
		return t.Licenses(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownDimension, d)
	}
}

func measureValue(r models.UsageRecord, m models.Measure) float64 {
	if m == models.MeasureRequests {
		return float64(r.Requests)
	}
	return r.Spent
}

func validMeasure(m models.Measure) error {
	if m != models.MeasureRequests && m != models.MeasureSpend {
		return fmt.Errorf("%w: measure %q", ErrUnknownDimension, m)
	}
	return nil
}

// OverviewMetrics computes the overview cards. Requests and spend means are
// over rows; the Enterprise share and active days are over users.
func OverviewMetrics(t *dataset.Table) models.OverviewMetrics {
	totals := ComputePerUserTotals(t)
	requests := make([]float64, 0, t.Len())
	spend := make([]float64, 0, t.Len())
	var totalSpend float64
	t.Each(func(_ int, r models.UsageRecord) {
		requests = append(requests, float64(r.Requests))
		spend = append(spend, r.Spent)
		totalSpend += r.Spent
	})

	var enterprise, days int
	for _, u := range totals {
		if u.License == models.LicenseEnterprise {
			enterprise++
		}
		days += u.ActiveDays
	}

	m := models.OverviewMetrics{
		Users:             len(totals),
		MeanRequests:      mean(requests),
		TotalSpend:        totalSpend,
		MeanSpend:         mean(spend),
		EnterprisePercent: percent(enterprise, len(totals)),
	}
	if len(totals) > 0 {
		m.MeanActiveDays = float64(days) / float64(len(totals))
	}
	return m
}

// MeanPivot averages measure per feature (rows) and model (columns).
func MeanPivot(t *dataset.Table, measure models.Measure) (models.Pivot, error) {
	if err := validMeasure(measure); err != nil {
		return models.Pivot{}, err
	}
	features, modelNames := t.Features(), t.Models()
	row := indexOf(features)
	col := indexOf(modelNames)

	sums := make([][]float64, len(features))
	counts := make([][]int, len(features))
	for i := range features {
		sums[i] = make([]float64, len(modelNames))
		counts[i] = make([]int, len(modelNames))
	}
	t.Each(func(_ int, r models.UsageRecord) {
		i, j := row[r.Feature], col[r.Model]
		sums[i][j] += measureValue(r, measure)
		counts[i][j]++
	})

	p := models.Pivot{Measure: measure, Rows: features, Columns: modelNames, Values: make([][]models.Number, len(features))}
	for i := range features {
		p.Values[i] = make([]models.Number, len(modelNames))
		for j := range modelNames {
			if counts[i][j] == 0 {
				p.Values[i][j] = models.NaN()
				continue
			}
			p.Values[i][j] = models.Number(sums[i][j] / float64(counts[i][j]))
		}
	}
	return p, nil
}

func indexOf(values []string) map[string]int {
	m := make(map[string]int, len(values))
	for i, v := range values {
		m[v] = i
	}
	return m
}

// groupRows collects per-group request and spend values in table order.
func groupRows(t *dataset.Table, d models.Dimension) map[string][2][]float64 {
	groups := make(map[string][2][]float64)
	t.Each(func(_ int, r models.UsageRecord) {
		key := dimensionValue(r, d)
		g := groups[key]
		g[0] = append(g[0], float64(r.Requests))
		g[1] = append(g[1], r.Spent)
		groups[key] = g
	})
	return groups
}

// ModelSummary returns mean and sample standard deviation of requests and
// spend per model, ordered by model name.
func ModelSummary(t *dataset.Table) []models.ModelStats {
	groups := groupRows(t, models.DimensionModel)
	names := t.Models()
	out := make([]models.ModelStats, 0, len(names))
	for _, name := range names {
		g := groups[name]
		out = append(out, models.ModelStats{
			Model:        name,
			RequestsMean: mean(g[0]),
			SpendMean:    mean(g[1]),
			RequestsStd:  sampleStdDev(g[0]),
			SpendStd:     sampleStdDev(g[1]),
		})
	}
	return out
}

// CategoryCounts counts records per value of d, in display order.
func CategoryCounts(t *dataset.Table, d models.Dimension) ([]models.CategoryCount, error) {
	values, err := dimensionValues(t, d)
	if err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(values))
	t.Each(func(_ int, r models.UsageRecord) {
		counts[dimensionValue(r, d)]++
	})
	out := make([]models.CategoryCount, len(values))
	for i, v := range values {
		out[i] = models.CategoryCount{Category: v, Count: counts[v]}
	}
	return out, nil
}

// DailyTotals sums requests and spend per day, ascending by day.
func DailyTotals(t *dataset.Table) []models.DailyTotal {
	days := t.Days()
	index := make(map[time.Time]int, len(days))
	out := make([]models.DailyTotal, len(days))
	for i, d := range days {
		index[d] = i
		out[i].Day = d
	}
	t.Each(func(_ int, r models.UsageRecord) {
		i := index[r.Day]
		out[i].Requests += r.Requests
		out[i].Spent += r.Spent
	})
	return out
}

// DailyCorrelation computes the requests/spend correlation within each day.
// Days with fewer than two rows or no variance are null.
func DailyCorrelation(t *dataset.Table) []models.DailyCorrelation {
	days := t.Days()
	index := make(map[time.Time]int, len(days))
	xs := make([][]float64, len(days))
	ys := make([][]float64, len(days))
	for i, d := range days {
		index[d] = i
	}
	t.Each(func(_ int, r models.UsageRecord) {
		i := index[r.Day]
		xs[i] = append(xs[i], float64(r.Requests))
		ys[i] = append(ys[i], r.Spent)
	})
	out := make([]models.DailyCorrelation, len(days))
	for i, d := range days {
		out[i] = models.DailyCorrelation{Day: d, Correlation: pearson(xs[i], ys[i])}
	}
	return out
}

// SpendPerRequestBy averages spend/requests over the rows of each value of d.
func SpendPerRequestBy(t *dataset.Table, d models.Dimension, policy RatioPolicy) ([]models.GroupRatio, error) {
	values, err := dimensionValues(t, d)
	if err != nil {
		return nil, err
	}
	accs := make(map[string]*ratioAccumulator, len(values))
	for _, v := range values {
		accs[v] = &ratioAccumulator{}
	}
	t.Each(func(_ int, r models.UsageRecord) {
		accs[dimensionValue(r, d)].add(r)
	})
	out := make([]models.GroupRatio, len(values))
	for i, v := range values {
		acc := accs[v]
		out[i] = models.GroupRatio{Group: v, SpendPerRequest: acc.mean(policy), Rows: acc.rows + acc.undefined}
	}
	return out, nil
}

// RetentionByLicense buckets users by distinct active days within their
// license, and averages active days per license. Licenses follow tier order.
func RetentionByLicense(t *dataset.Table) models.RetentionStats {
	totals := ComputePerUserTotals(t)
	type bucket struct {
		license string
		days    int
	}
	buckets := make(map[bucket]int)
	sums := make(map[string]int)
	users := make(map[string]int)
	for _, u := range totals {
		buckets[bucket{u.License, u.ActiveDays}]++
		sums[u.License] += u.ActiveDays
		users[u.License]++
	}

	var stats models.RetentionStats
	for b, n := range buckets {
		stats.Buckets = append(stats.Buckets, models.RetentionBucket{License: b.license, ActiveDays: b.days, Users: n})
	}
	sort.Slice(stats.Buckets, func(i, j int) bool {
		a, b := stats.Buckets[i], stats.Buckets[j]
		if a.License != b.License {
			return models.LessLicense(a.License, b.License)
		}
		return a.ActiveDays < b.ActiveDays
	})

	licenses := make([]string, 0, len(users))
	for l := range users {
		licenses = append(licenses, l)
	}
	models.SortLicenses(licenses)
	for _, l := range licenses {
		stats.ByLicense = append(stats.ByLicense, models.LicenseRetention{
			License:        l,
			Users:          users[l],
			MeanActiveDays: float64(sums[l]) / float64(users[l]),
		})
	}
	return stats
}

// TopSpenders returns up to perLicense users with the highest total spend
// within each license. Licenses follow tier order; users within a license
// are ranked by spend descending, then user id.
func TopSpenders(t *dataset.Table, perLicense int) []models.TopSpender {
	totals := ComputePerUserTotals(t)
	ranked := make([]models.UserTotals, len(totals))
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		a, b := ranked[i], ranked[j]
		if a.License != b.License {
			return models.LessLicense(a.License, b.License)
		}
		if a.Spent != b.Spent {
			return a.Spent > b.Spent
		}
		return a.UserID < b.UserID
	})

	var out []models.TopSpender
	taken := make(map[string]int)
	for _, u := range ranked {
		if taken[u.License] >= perLicense {
			continue
		}
		taken[u.License]++
		out = append(out, models.TopSpender{UserID: u.UserID, License: u.License, Requests: u.Requests, Spent: u.Spent})
	}
	return out
}

// ModelSpendRanking returns row-mean spend and requests per model, highest
// mean spend first.
func ModelSpendRanking(t *dataset.Table) []models.ModelSpend {
	groups := groupRows(t, models.DimensionModel)
	out := make([]models.ModelSpend, 0, len(groups))
	for _, name := range t.Models() {
		g := groups[name]
		out = append(out, models.ModelSpend{
			Model:        name,
			MeanRequests: float64(mean(g[0])),
			MeanSpend:    float64(mean(g[1])),
		})
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].MeanSpend > out[j].MeanSpend
	})
	return out
}

// ActivityTrend fits spend against requests over the rows whose license
// matches, or over all rows when license is empty.
func ActivityTrend(t *dataset.Table, license string) models.Trendline {
	var xs, ys []float64
	t.Each(func(_ int, r models.UsageRecord) {
		if license != "" && r.License != license {
			return
		}
		xs = append(xs, float64(r.Requests))
		ys = append(ys, r.Spent)
	})
	return Trendline(xs, ys)
}

// Correlation is the Pearson correlation of requests and spend over all rows.
func Correlation(t *dataset.Table) models.Number {
	xs := make([]float64, 0, t.Len())
	ys := make([]float64, 0, t.Len())
	t.Each(func(_ int, r models.UsageRecord) {
		xs = append(xs, float64(r.Requests))
		ys = append(ys, r.Spent)
	})
	return pearson(xs, ys)
}
