// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// SpendStageThreshold is the summed spend a user must strictly exceed to
// reach the last funnel stage.
const SpendStageThreshold = 100

// ComputeFunnelCounts counts users who used the app, used more than one
// feature, and spent more than SpendStageThreshold in total. The last stage
// is not a subset of the second and may be larger.
func ComputeFunnelCounts(t *dataset.Table) models.FunnelCounts {
	return funnelFromTotals(ComputePerUserTotals(t))
}

func funnelFromTotals(totals []models.UserTotals) models.FunnelCounts {
	f := models.FunnelCounts{UsedApp: len(totals)}
	for _, u := range totals {
		if u.Features > 1 {
			f.MultipleFeatures++
		}
		if u.Spent > SpendStageThreshold {
			f.Spenders++
		}
	}
	return f
}
