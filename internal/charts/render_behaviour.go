// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"

	"github.com/tomtom215/usagelens/internal/models"
)

func renderEngagementFunnel(ctx context.Context, r *Registry) (Figure, error) {
	funnel, err := r.engine.Funnel(ctx)
	if err != nil {
		return Figure{}, err
	}
	stages := funnel.Stages()
	x := make([]int, len(stages))
	y := make([]string, len(stages))
	for i, s := range stages {
		x[i] = s.Users
		y[i] = s.Stage
	}
	return Figure{
		Data: []Trace{{
			Type:   "funnel",
			X:      x,
			Y:      y,
			Marker: &Marker{Color: "#8856a7"},
		}},
		Layout: newLayout("User Engagement Funnel", "users", "stage"),
	}, nil
}

func renderRetentionHistogram(ctx context.Context, r *Registry) (Figure, error) {
	retention, err := r.engine.Retention(ctx)
	if err != nil {
		return Figure{}, err
	}

	fig := Figure{Layout: newLayout("User Retention (days active) by License Type", "Days Active", "Number of Users")}
	fig.Layout.BarMode = "stack"
	fig.Layout.Legend = &Legend{Title: Title{Text: "License Type"}}

	for i, l := range retention.ByLicense {
		var x, y []int
		for _, b := range retention.Buckets {
			if b.License == l.License {
				x = append(x, b.ActiveDays)
				y = append(y, b.Users)
			}
		}
		fig.Data = append(fig.Data, Trace{
			Type:   "bar",
			Name:   l.License,
			X:      x,
			Y:      y,
			Marker: &Marker{Color: licenseColor(l.License, i)},
		})
	}
	return fig, nil
}

func renderRetentionByLicense(ctx context.Context, r *Registry) (Figure, error) {
	retention, err := r.engine.Retention(ctx)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(retention.ByLicense))
	y := make([]float64, len(retention.ByLicense))
	for i, l := range retention.ByLicense {
		x[i] = l.License
		y[i] = l.MeanActiveDays
	}
	fig := Figure{
		Data: []Trace{{
			Type:         "bar",
			X:            x,
			Y:            y,
			Text:         y,
			TextTemplate: "%{text:.1f}",
			TextPosition: "outside",
			Marker:       &Marker{Color: licenseColors(x)},
		}},
		Layout: newLayout("Average Retention (Days Active) by License", "License", "Average days active"),
	}
	fig.Layout.ShowLegend = boolPtr(false)
	return fig, nil
}

func renderSpendPerRequestByLicense(ctx context.Context, r *Registry) (Figure, error) {
	return ratioFigure(ctx, r, models.DimensionLicense, "Average Spend per Request by License", "license", "#8856a7")
}

func renderSpendPerRequestByModel(ctx context.Context, r *Registry) (Figure, error) {
	return ratioFigure(ctx, r, models.DimensionModel, "Average Spend per Request by Model", "model", "#b3cde3")
}

func ratioFigure(ctx context.Context, r *Registry, d models.Dimension, title, xTitle, color string) (Figure, error) {
	ratios, err := r.engine.SpendPerRequest(ctx, d)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(ratios))
	y := make([]models.Number, len(ratios))
	for i, g := range ratios {
		x[i] = g.Group
		y[i] = g.SpendPerRequest
	}
	return Figure{
		Data:   []Trace{{Type: "bar", X: x, Y: y, Marker: &Marker{Color: color}}},
		Layout: newLayout(title, xTitle, "spend_per_req"),
	}, nil
}

func renderTopSpenders(ctx context.Context, r *Registry) (Figure, error) {
	top, err := r.engine.TopSpenders(ctx)
	if err != nil {
		return Figure{}, err
	}

	var licenses []string
	byLicense := make(map[string][]models.TopSpender)
	for _, u := range top {
		if _, ok := byLicense[u.License]; !ok {
			licenses = append(licenses, u.License)
		}
		byLicense[u.License] = append(byLicense[u.License], u)
	}

	fig := Figure{Layout: newLayout("Top Power Users per License", "uuid", "spent_amount")}
	fig.Layout.XAxis.CategoryOrder = "total descending"
	fig.Layout.Legend = &Legend{Title: Title{Text: "License"}}
	for i, license := range licenses {
		users := byLicense[license]
		x := make([]string, len(users))
		y := make([]float64, len(users))
		for j, u := range users {
			x[j] = u.UserID
			y[j] = u.Spent
		}
		fig.Data = append(fig.Data, Trace{
			Type:   "bar",
			Name:   license,
			X:      x,
			Y:      y,
			Marker: &Marker{Color: licenseColor(license, i)},
		})
	}
	return fig, nil
}

func renderSegmentComposition(ctx context.Context, r *Registry) (Figure, error) {
	counts, err := r.engine.SegmentCounts(ctx)
	if err != nil {
		return Figure{}, err
	}
	labels := make([]string, len(counts))
	values := make([]int, len(counts))
	colors := make([]string, len(counts))
	for i, c := range counts {
		labels[i] = c.Label
		values[i] = c.Users
		colors[i] = segmentColor(c.Segment)
	}
	return Figure{
		Data: []Trace{{
			Type:   "pie",
			Labels: labels,
			Values: values,
			Marker: &Marker{Colors: colors},
		}},
		Layout: Layout{Template: Template, Title: Title{Text: "User Composition by Behaviour Segment"}},
	}, nil
}

func renderModelSpendRanking(ctx context.Context, r *Registry) (Figure, error) {
	ranking, err := r.engine.ModelSpendRanking(ctx)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(ranking))
	y := make([]float64, len(ranking))
	for i, m := range ranking {
		x[i] = m.Model
		y[i] = m.MeanSpend
	}
	fig := Figure{
		Data: []Trace{{
			Type:         "bar",
			X:            x,
			Y:            y,
			Text:         y,
			TextTemplate: "%{text:.2f}",
			Marker:       &Marker{Color: sequentialColors(len(x))},
		}},
		Layout: newLayout("Average Spend by Model", "model", "spent_amount"),
	}
	fig.Layout.ShowLegend = boolPtr(false)
	return fig, nil
}
