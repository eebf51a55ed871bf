// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"sort"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// KPIOptions parameterises ComputeKPISet.
type KPIOptions struct {
	ZeroRequestPolicy RatioPolicy `json:"zero_request_policy"`
}

// Retention thresholds in distinct active days.
const (
	retentionShortDays = 7
	retentionLongDays  = 30
)

// ComputeKPISet derives the summary KPIs. Every sum runs in table or user id
// order, so two calls on the same table return bit-identical values.
func ComputeKPISet(t *dataset.Table, opts KPIOptions) models.KPISet {
	totals := ComputePerUserTotals(t)
	k := models.KPISet{TotalUsers: len(totals)}

	requests := make([]float64, 0, t.Len())
	spend := make([]float64, 0, t.Len())
	overall := &ratioAccumulator{}
	byModel := make(map[string]*ratioAccumulator)

	t.Each(func(_ int, r models.UsageRecord) {
		k.TotalRequests += r.Requests
		k.TotalSpend += r.Spent
		requests = append(requests, float64(r.Requests))
		spend = append(spend, r.Spent)

		overall.add(r)
		acc, ok := byModel[r.Model]
		if !ok {
			acc = &ratioAccumulator{}
			byModel[r.Model] = acc
		}
		acc.add(r)
	})

	if k.TotalUsers > 0 {
		k.MeanRequestsPerUser = float64(k.TotalRequests) / float64(k.TotalUsers)
		k.MeanSpendPerUser = k.TotalSpend / float64(k.TotalUsers)
	}

	k.MeanSpendPerRequest = overall.mean(opts.ZeroRequestPolicy)
	k.ZeroRequestRows = overall.undefined
	k.BestModel, k.BestModelSpendPerRequest, k.WorstModel, k.WorstModelSpendPerRequest =
		extremeModels(t.Models(), byModel, opts.ZeroRequestPolicy)
	k.Correlation = pearson(requests, spend)

	var enterprise, retainedShort, retainedLong, activeDays int
	for _, u := range totals {
		if u.License == models.LicenseEnterprise {
			enterprise++
		}
		if u.ActiveDays > retentionShortDays {
			retainedShort++
		}
		if u.ActiveDays > retentionLongDays {
			retainedLong++
		}
		activeDays += u.ActiveDays
	}
	k.EnterprisePercent = percent(enterprise, k.TotalUsers)
	k.RetainedOver7DaysPercent = percent(retainedShort, k.TotalUsers)
	k.RetainedOver30DaysPercent = percent(retainedLong, k.TotalUsers)
	if k.TotalUsers > 0 {
		k.MeanActiveDays = float64(activeDays) / float64(k.TotalUsers)
	}

	funnel := funnelFromTotals(totals)
	k.MultiFeaturePercent = percent(funnel.MultipleFeatures, k.TotalUsers)
	k.SpenderPercent = percent(funnel.Spenders, k.TotalUsers)

	daily := DailyTotals(t)
	if len(daily) > 0 {
		var sum float64
		peak := daily[0]
		for _, d := range daily {
			sum += d.Spent
			if d.Spent > peak.Spent {
				peak = d
			}
		}
		k.MeanDailySpend = sum / float64(len(daily))
		k.PeakDay = peak.Day
		k.PeakDaySpend = peak.Spent
		k.MostRecentDay = daily[len(daily)-1].Day
	}

	k.TopDecileSpendSharePercent = topDecileShare(totals)
	return k
}

// extremeModels picks the models with the lowest and highest defined mean
// spend per request. models must be sorted by name so ties go to the first name.
func extremeModels(names []string, byModel map[string]*ratioAccumulator, policy RatioPolicy) (best string, bestVal models.Number, worst string, worstVal models.Number) {
	bestVal, worstVal = models.NaN(), models.NaN()
	for _, name := range names {
		acc, ok := byModel[name]
		if !ok {
			continue
		}
		v := acc.mean(policy)
		if !v.Valid() {
			continue
		}
		if best == "" || v < bestVal {
			best, bestVal = name, v
		}
		if worst == "" || v > worstVal {
			worst, worstVal = name, v
		}
	}
	return best, bestVal, worst, worstVal
}

// topDecileShare is the percentage of total spend held by the top ceil(N/10)
// users, ranked by spend descending with ties broken by user id.
func topDecileShare(totals []models.UserTotals) float64 {
	n := len(totals)
	if n == 0 {
		return 0
	}
	ranked := make([]models.UserTotals, n)
	copy(ranked, totals)
	sort.SliceStable(ranked, func(i, j int) bool {
		if ranked[i].Spent != ranked[j].Spent {
			return ranked[i].Spent > ranked[j].Spent
		}
		return ranked[i].UserID < ranked[j].UserID
	})

	var total float64
	for _, u := range totals {
		total += u.Spent
	}
	if total == 0 {
		return 0
	}

	k := (n + 9) / 10
	var top float64
	for _, u := range ranked[:k] {
		top += u.Spent
	}
	return top / total * 100
}
