// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package pages

import (
	"context"
	"fmt"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/models"
)

// notAvailable is shown for undefined values.
const notAvailable = "n/a"

type cardGroup func(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error)

// cardGroups is the catalogue of metrics blocks.
var cardGroups = map[string]cardGroup{
	"overview":       overviewCards,
	"kpi_usage":      usageCards,
	"kpi_efficiency": efficiencyCards,
	"kpi_engagement": engagementCards,
	"kpi_power":      powerCards,
	"correlation":    correlationCards,
}

func count(n int64) string { return humanize.Comma(n) }

func whole(f float64) string { return humanize.FormatFloat("#,###.", f) }

func oneDecimal(f float64) string { return humanize.FormatFloat("#,###.#", f) }

func pct(f float64) string { return fmt.Sprintf("%.1f%%", f) }

func number(n models.Number, format string) string {
	if !n.Valid() {
		return notAvailable
	}
	return humanize.FormatFloat(format, n.Float64())
}

func name(s string) string {
	if s == "" {
		return notAvailable
	}
	return s
}

func shortDay(t time.Time) string {
	if t.IsZero() {
		return notAvailable
	}
	return t.Format("Jan 02")
}

func overviewCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	m, err := e.Overview(ctx)
	if err != nil {
		return nil, err
	}
	return []models.MetricCard{
		{Label: "Users", Value: count(int64(m.Users))},
		{Label: "Avg Requests", Value: number(m.MeanRequests, "#,###.#"), Help: "Mean requests per record"},
		{Label: "Total Spent", Value: whole(m.TotalSpend)},
		{Label: "Avg Spend", Value: number(m.MeanSpend, "#,###.#"), Help: "Mean spend per record"},
		{Label: "Enterprise % of Users", Value: pct(m.EnterprisePercent)},
		{Label: "Avg Active Days/User", Value: oneDecimal(m.MeanActiveDays)},
	}, nil
}

func usageCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	k, err := e.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	return []models.MetricCard{
		{Label: "Total Users", Value: count(int64(k.TotalUsers))},
		{Label: "Total Requests", Value: count(k.TotalRequests)},
		{Label: "Total Spent", Value: whole(k.TotalSpend)},
		{Label: "Avg Requests/User", Value: oneDecimal(k.MeanRequestsPerUser)},
		{Label: "Avg Spend/User", Value: oneDecimal(k.MeanSpendPerUser)},
	}, nil
}

func efficiencyCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	k, err := e.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	cards := []models.MetricCard{
		{Label: "Avg Spend per Request", Value: number(k.MeanSpendPerRequest, "#,###.###")},
		{Label: "Best Model (Cost-Efficient)", Value: name(k.BestModel)},
		{Label: "Most Expensive Model", Value: name(k.WorstModel)},
		{Label: "Enterprise % of Users", Value: pct(k.EnterprisePercent)},
		{Label: "Corr(Requests, Spend)", Value: number(k.Correlation, "#.##")},
	}
	if k.ZeroRequestRows > 0 {
		cards[0].Help = fmt.Sprintf("%s records with zero requests", count(int64(k.ZeroRequestRows)))
	}
	return cards, nil
}

func engagementCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	k, err := e.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	return []models.MetricCard{
		{Label: "Avg Active Days/User", Value: oneDecimal(k.MeanActiveDays)},
		{Label: "Retention >7 days", Value: pct(k.RetainedOver7DaysPercent)},
		{Label: "Retention >30 days", Value: pct(k.RetainedOver30DaysPercent)},
		{Label: "Users Using >1 Feature", Value: pct(k.MultiFeaturePercent)},
		{Label: fmt.Sprintf("Users Spent >%d", analytics.SpendStageThreshold), Value: pct(k.SpenderPercent)},
	}, nil
}

func powerCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	k, err := e.KPIs(ctx)
	if err != nil {
		return nil, err
	}
	return []models.MetricCard{
		{Label: "Avg Daily Spend", Value: whole(k.MeanDailySpend)},
		{Label: "Peak Day", Value: shortDay(k.PeakDay)},
		{Label: "Peak Spending", Value: whole(k.PeakDaySpend)},
		{Label: "Top 10% Spend Share", Value: pct(k.TopDecileSpendSharePercent)},
		{Label: "Most Recent Date", Value: shortDay(k.MostRecentDay)},
	}, nil
}

func correlationCards(ctx context.Context, e *analytics.Engine) ([]models.MetricCard, error) {
	c, err := e.Correlation(ctx)
	if err != nil {
		return nil, err
	}
	return []models.MetricCard{
		{Label: "Activity-Spend Correlation", Value: number(c, "#.##"), Help: "How strongly usage relates to spending"},
	}, nil
}
