// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package pages

import (
	"context"
	"math"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/models"
)

type tableBuilder func(ctx context.Context, e *analytics.Engine) (*models.DataTable, error)

// tables is the catalogue of table blocks.
var tables = map[string]tableBuilder{
	"requests_pivot": requestsPivotTable,
}

// requestsPivotTable lists mean requests per feature (rows) and model
// (columns), rounded to one decimal.
func requestsPivotTable(ctx context.Context, e *analytics.Engine) (*models.DataTable, error) {
	p, err := e.Pivot(ctx, models.MeasureRequests)
	if err != nil {
		return nil, err
	}
	t := &models.DataTable{
		Title:   "Average requests per feature and model",
		Columns: p.Columns,
		Rows:    make([]models.DataTableRow, len(p.Rows)),
	}
	for i, feature := range p.Rows {
		values := make([]models.Number, len(p.Values[i]))
		for j, v := range p.Values[i] {
			if v.Valid() {
				v = models.Number(math.Round(v.Float64()*10) / 10)
			}
			values[j] = v
		}
		t.Rows[i] = models.DataTableRow{Label: feature, Values: values}
	}
	return t, nil
}
