// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

const dayLayout = "2006-01-02"

func formatDay(t time.Time) string { return t.Format(dayLayout) }

// lineTrace is the purple line with light markers shared by the trend charts.
func lineTrace(name string, x, y interface{}) Trace {
	return Trace{
		Type:   "scatter",
		Mode:   "lines+markers",
		Name:   name,
		X:      x,
		Y:      y,
		Line:   &Line{Color: "#8856a7", Width: 2},
		Marker: &Marker{Color: "#b3cde3", Size: 6},
	}
}

func renderDailySpend(ctx context.Context, r *Registry) (Figure, error) {
	daily, err := r.engine.DailyTotals(ctx)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(daily))
	y := make([]float64, len(daily))
	for i, d := range daily {
		x[i] = formatDay(d.Day)
		y[i] = d.Spent
	}
	return Figure{
		Data:   []Trace{lineTrace("spent_amount", x, y)},
		Layout: newLayout("Daily Trends in Spending", "day_id", "spent_amount"),
	}, nil
}

func renderWeeklyTrends(ctx context.Context, r *Registry) (Figure, error) {
	weekly, err := r.store.GetWeeklyTotals(ctx)
	if err != nil {
		return Figure{}, err
	}
	x := make([]string, len(weekly))
	requests := make([]int64, len(weekly))
	spend := make([]float64, len(weekly))
	for i, w := range weekly {
		x[i] = formatDay(w.Period)
		requests[i] = w.Requests
		spend[i] = w.Spent
	}

	spendTrace := lineTrace("spent_amount", x, spend)
	spendTrace.Line = &Line{Color: "#b3cde3", Width: 2}
	spendTrace.Marker = &Marker{Color: "#8856a7", Size: 6}

	fig := Figure{
		Data:   []Trace{lineTrace("requests_cnt", x, requests), spendTrace},
		Layout: newLayout("Weekly Trends in Requests and Spending", "week", "value"),
	}
	fig.Layout.Legend = &Legend{Title: Title{Text: "variable"}}
	return fig, nil
}

func renderMonthlyRequestsByLicense(ctx context.Context, r *Registry) (Figure, error) {
	monthly, err := r.store.GetMonthlyTotalsByLicense(ctx)
	if err != nil {
		return Figure{}, err
	}

	var licenses []string
	byLicense := make(map[string][]models.PeriodTotal)
	for _, m := range monthly {
		if _, ok := byLicense[m.License]; !ok {
			licenses = append(licenses, m.License)
		}
		byLicense[m.License] = append(byLicense[m.License], m)
	}
	models.SortLicenses(licenses)

	fig := Figure{Layout: newLayout("Monthly Trends in Requests and Spending", "month", "requests_cnt")}
	fig.Layout.Legend = &Legend{Title: Title{Text: "License"}}
	for i, license := range licenses {
		rows := byLicense[license]
		x := make([]string, len(rows))
		y := make([]int64, len(rows))
		for j, m := range rows {
			x[j] = formatDay(m.Period)
			y[j] = m.Requests
		}
		color := licenseColor(license, i)
		fig.Data = append(fig.Data, Trace{
			Type:   "scatter",
			Mode:   "lines+markers",
			Name:   license,
			X:      x,
			Y:      y,
			Line:   &Line{Color: color, Width: 2},
			Marker: &Marker{Color: color, Size: 6},
		})
	}
	return fig, nil
}

// renderSegmentsOverTime stacks one area per segment. Days on which a
// segment has no active users are drawn as zero so the stack stays aligned.
func renderSegmentsOverTime(ctx context.Context, r *Registry) (Figure, error) {
	series, err := r.engine.SegmentTimeSeries(ctx)
	if err != nil {
		return Figure{}, err
	}

	var days []time.Time
	dayIndex := make(map[time.Time]int)
	for _, p := range series {
		if _, ok := dayIndex[p.Day]; !ok {
			dayIndex[p.Day] = len(days)
			days = append(days, p.Day)
		}
	}
	x := make([]string, len(days))
	for i, d := range days {
		x[i] = formatDay(d)
	}

	users := make([][]int, len(models.Segments))
	for i := range users {
		users[i] = make([]int, len(days))
	}
	present := make([]bool, len(models.Segments))
	for _, p := range series {
		i := p.Segment.Index()
		users[i][dayIndex[p.Day]] = p.Users
		present[i] = true
	}

	fig := Figure{Layout: newLayout("User Behaviour Segments Over Time", "Date", "Number of Users")}
	fig.Layout.Legend = &Legend{Title: Title{Text: "User Segment"}}
	fig.Layout.HoverMode = "x unified"
	for i, s := range models.Segments {
		if !present[i] {
			continue
		}
		fig.Data = append(fig.Data, Trace{
			Type:       "scatter",
			Mode:       "lines",
			Name:       s.Label(),
			X:          x,
			Y:          users[i],
			StackGroup: "segments",
			Line:       &Line{Color: segmentColor(s)},
		})
	}
	return fig, nil
}
