// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package database

import (
	"context"
	"database/sql"
	"fmt"
	"sort"

	"github.com/tomtom215/usagelens/internal/models"
)

// measureColumns whitelists the columns a measure may select.
var measureColumns = map[models.Measure]string{
	models.MeasureRequests: "requests",
	models.MeasureSpend:    "spent",
}

// GetBoxStats returns box-plot statistics of measure per model × license.
// Quartiles use linear interpolation; whiskers end at the most extreme values
// within 1.5 IQR of the box. Results are ordered by model, then license tier.
func (db *DB) GetBoxStats(ctx context.Context, measure models.Measure) ([]models.BoxStats, error) {
	if !db.Loaded() {
		return nil, ErrNotLoaded
	}
	column, ok := measureColumns[measure]
	if !ok {
		return nil, fmt.Errorf("unknown measure %q", measure)
	}

	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
	WITH src AS (
		SELECT model, license, CAST(%s AS DOUBLE) AS v FROM %s
	),
	q AS (
		SELECT
			model,
			license,
			count(*) AS n,
			min(v) AS lo,
			quantile_cont(v, 0.25) AS q1,
			quantile_cont(v, 0.5) AS q2,
			quantile_cont(v, 0.75) AS q3,
			max(v) AS hi,
			avg(v) AS mean
		FROM src
		GROUP BY model, license
	)
	SELECT
		q.model, q.license, q.n, q.lo, q.q1, q.q2, q.q3, q.hi, q.mean,
		min(s.v) FILTER (WHERE s.v >= q.q1 - 1.5 * (q.q3 - q.q1)) AS lower_fence,
		max(s.v) FILTER (WHERE s.v <= q.q3 + 1.5 * (q.q3 - q.q1)) AS upper_fence
	FROM q
	JOIN src s ON s.model = q.model AND s.license = q.license
	GROUP BY q.model, q.license, q.n, q.lo, q.q1, q.q2, q.q3, q.hi, q.mean
	ORDER BY q.model, q.license`, column, recordTable)

	scanBox := func(rows *sql.Rows) (models.BoxStats, error) {
		var b models.BoxStats
		err := rows.Scan(&b.Model, &b.License, &b.Count, &b.Min, &b.Q1, &b.Median, &b.Q3, &b.Max, &b.Mean,
			&b.LowerFence, &b.UpperFence)
		return b, err
	}

	stats, err := queryAndScan(ctx, db.conn, query, nil, scanBox)
	if err != nil {
		return nil, fmt.Errorf("failed to query %s box stats: %w", measure, err)
	}

	sort.SliceStable(stats, func(i, j int) bool {
		if stats[i].Model != stats[j].Model {
			return stats[i].Model < stats[j].Model
		}
		return models.LessLicense(stats[i].License, stats[j].License)
	})
	return stats, nil
}
