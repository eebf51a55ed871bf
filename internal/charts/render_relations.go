// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"
	"fmt"

	"github.com/tomtom215/usagelens/internal/models"
)

// scatterColor is the marker colour of the single-series scatter.
const scatterColor = "#b3cde3"

// requestRange returns the smallest and largest request counts among rows
// matching license, or all rows when license is empty.
func requestRange(r *Registry, license string) (lo, hi float64, ok bool) {
	r.engine.Table().Each(func(_ int, rec models.UsageRecord) {
		if license != "" && rec.License != license {
			return
		}
		x := float64(rec.Requests)
		if !ok || x < lo {
			lo = x
		}
		if !ok || x > hi {
			hi = x
		}
		ok = true
	})
	return lo, hi, ok
}

// trendTrace draws line from the smallest to the largest request count.
func trendTrace(r *Registry, line models.Trendline, license, name, color string) (Trace, bool) {
	if !line.Slope.Valid() {
		return Trace{}, false
	}
	lo, hi, ok := requestRange(r, license)
	if !ok {
		return Trace{}, false
	}
	return Trace{
		Type:        "scatter",
		Mode:        "lines",
		Name:        name,
		X:           []float64{lo, hi},
		Y:           []float64{line.At(lo), line.At(hi)},
		Line:        &Line{Color: color, Width: 2},
		LegendGroup: license,
		ShowLegend:  boolPtr(false),
	}, true
}

func formatCorrelation(c models.Number) string {
	if !c.Valid() {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", c.Float64())
}

func renderActivityVsSpend(ctx context.Context, r *Registry) (Figure, error) {
	corr, err := r.engine.Correlation(ctx)
	if err != nil {
		return Figure{}, err
	}
	line, err := r.engine.ActivityTrend(ctx, "")
	if err != nil {
		return Figure{}, err
	}

	sample := r.engine.Table().Sample(r.opts.ScatterSampleLimit)
	x := make([]int64, len(sample))
	y := make([]float64, len(sample))
	for i, rec := range sample {
		x[i] = rec.Requests
		y[i] = rec.Spent
	}

	fig := Figure{
		Data: []Trace{{
			Type:    "scatter",
			Mode:    "markers",
			Name:    "records",
			X:       x,
			Y:       y,
			Opacity: 0.8,
			Marker:  &Marker{Color: scatterColor, Size: 6},
		}},
		Layout: newLayout(fmt.Sprintf("Activity vs Spending (corr = %s)", formatCorrelation(corr)), "requests_cnt", "spent_amount"),
	}
	fig.Layout.XAxis.Range = []float64{0, 6000}
	fig.Layout.YAxis.Range = []float64{0, 2000}
	if trend, ok := trendTrace(r, line, "", "OLS trend", "#8856a7"); ok {
		fig.Data = append(fig.Data, trend)
	}
	return fig, nil
}

func renderActivityVsSpendByLicense(ctx context.Context, r *Registry) (Figure, error) {
	sample := r.engine.Table().Sample(r.opts.ScatterSampleLimit)
	licenses := r.engine.Table().Licenses()

	fig := Figure{Layout: newLayout("Activity vs Spending by License", "requests_cnt", "spent_amount")}
	fig.Layout.Legend = &Legend{Title: Title{Text: "License"}}

	for i, license := range licenses {
		var x []int64
		var y []float64
		for _, rec := range sample {
			if rec.License == license {
				x = append(x, rec.Requests)
				y = append(y, rec.Spent)
			}
		}
		color := licenseColor(license, i)
		fig.Data = append(fig.Data, Trace{
			Type:        "scatter",
			Mode:        "markers",
			Name:        license,
			X:           x,
			Y:           y,
			Opacity:     0.8,
			LegendGroup: license,
			Marker:      &Marker{Color: color, Size: 6},
		})

		line, err := r.engine.ActivityTrend(ctx, license)
		if err != nil {
			return Figure{}, err
		}
		if trend, ok := trendTrace(r, line, license, license+" trend", color); ok {
			fig.Data = append(fig.Data, trend)
		}
	}
	return fig, nil
}

func renderDailyCorrelation(ctx context.Context, r *Registry) (Figure, error) {
	daily, err := r.engine.DailyCorrelation(ctx)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(daily))
	y := make([]models.Number, len(daily))
	for i, d := range daily {
		x[i] = formatDay(d.Day)
		y[i] = d.Correlation
	}
	return Figure{
		Data:   []Trace{lineTrace("corr", x, y)},
		Layout: newLayout("Daily correlation between activity and spending", "day_id", "corr"),
	}, nil
}
