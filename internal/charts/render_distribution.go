// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"

	"github.com/tomtom215/usagelens/internal/models"
)

func renderRequestsBox(ctx context.Context, r *Registry) (Figure, error) {
	return boxFigure(ctx, r, models.MeasureRequests, "Requests count per model and license", "Requests count", []float64{0, 170})
}

func renderSpendBox(ctx context.Context, r *Registry) (Figure, error) {
	return boxFigure(ctx, r, models.MeasureSpend, "Amount of units spent per model and license", "Amount of units", []float64{0, 30})
}

// boxFigure draws one box trace per license from SQL-computed quartiles.
func boxFigure(ctx context.Context, r *Registry, measure models.Measure, title, yTitle string, yRange []float64) (Figure, error) {
	stats, err := r.store.GetBoxStats(ctx, measure)
	if err != nil {
		return Figure{}, err
	}

	var licenses []string
	byLicense := make(map[string][]models.BoxStats)
	for _, s := range stats {
		if _, ok := byLicense[s.License]; !ok {
			licenses = append(licenses, s.License)
		}
		byLicense[s.License] = append(byLicense[s.License], s)
	}
	models.SortLicenses(licenses)

	fig := Figure{Layout: newLayout(title, "Model", yTitle)}
	fig.Layout.BoxMode = "group"
	fig.Layout.YAxis.Range = yRange
	fig.Layout.Legend = &Legend{Title: Title{Text: "License"}}

	for i, license := range licenses {
		rows := byLicense[license]
		x := make([]string, len(rows))
		box := Trace{
			Type:       "box",
			Name:       license,
			Marker:     &Marker{Color: licenseColor(license, i)},
			Q1:         make([]float64, len(rows)),
			Median:     make([]float64, len(rows)),
			Q3:         make([]float64, len(rows)),
			LowerFence: make([]float64, len(rows)),
			UpperFence: make([]float64, len(rows)),
			Mean:       make([]float64, len(rows)),
		}
		for j, s := range rows {
			x[j] = s.Model
			box.Q1[j] = s.Q1
			box.Median[j] = s.Median
			box.Q3[j] = s.Q3
			box.LowerFence[j] = s.LowerFence
			box.UpperFence[j] = s.UpperFence
			box.Mean[j] = s.Mean
		}
		box.X = x
		fig.Data = append(fig.Data, box)
	}
	return fig, nil
}

func renderSpendHeatmap(ctx context.Context, r *Registry) (Figure, error) {
	return heatmapFigure(ctx, r, models.MeasureSpend, "Average spent amount per feature and model")
}

func renderRequestsHeatmap(ctx context.Context, r *Registry) (Figure, error) {
	return heatmapFigure(ctx, r, models.MeasureRequests, "Average requests count per feature and model")
}

func heatmapFigure(ctx context.Context, r *Registry, measure models.Measure, title string) (Figure, error) {
	pivot, err := r.engine.Pivot(ctx, measure)
	if err != nil {
		return Figure{}, err
	}
	return Figure{
		Data: []Trace{{
			Type:         "heatmap",
			X:            pivot.Columns,
			Y:            pivot.Rows,
			Z:            pivot.Values,
			ColorScale:   BuPuScale,
			TextTemplate: "%{z:.1f}",
		}},
		Layout: newLayout(title, "Model", "Feature"),
	}, nil
}

// Model summary statistic names, in bar order.
var summaryStats = []string{"requests_mean", "spend_mean", "requests_std", "spend_std"}

func renderModelSummary(ctx context.Context, r *Registry) (Figure, error) {
	summary, err := r.engine.ModelSummary(ctx)
	if err != nil {
		return Figure{}, err
	}
	fig := Figure{Layout: newLayout("Summary Statistics per Model", "Statistic", "Value")}
	fig.Layout.BarMode = "group"
	for i, m := range summary {
		fig.Data = append(fig.Data, Trace{
			Type:   "bar",
			Name:   m.Model,
			X:      summaryStats,
			Y:      []models.Number{m.RequestsMean, m.SpendMean, m.RequestsStd, m.SpendStd},
			Marker: &Marker{Color: sequentialColor(i)},
		})
	}
	return fig, nil
}

func renderFeatureHistogram(ctx context.Context, r *Registry) (Figure, error) {
	return countFigure(ctx, r, models.DimensionFeature, "Histogram of Features", "Feature", "#b3cde3")
}

func renderLicenseHistogram(ctx context.Context, r *Registry) (Figure, error) {
	return countFigure(ctx, r, models.DimensionLicense, "Histogram of Licenses", "License", "#810f7c")
}

func countFigure(ctx context.Context, r *Registry, d models.Dimension, title, xTitle, color string) (Figure, error) {
	counts, err := r.engine.CategoryCounts(ctx, d)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(counts))
	y := make([]int, len(counts))
	for i, c := range counts {
		x[i] = c.Category
		y[i] = c.Count
	}
	return Figure{
		Data:   []Trace{{Type: "bar", X: x, Y: y, Marker: &Marker{Color: color}}},
		Layout: newLayout(title, xTitle, "count"),
	}, nil
}
