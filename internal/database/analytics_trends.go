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

// GetWeeklyTotals sums requests and spend per ISO week (weeks start Monday).
func (db *DB) GetWeeklyTotals(ctx context.Context) ([]models.PeriodTotal, error) {
	if !db.Loaded() {
		return nil, ErrNotLoaded
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT
		CAST(date_trunc('week', day) AS DATE) AS period,
		CAST(sum(requests) AS BIGINT) AS requests,
		sum(spent) AS spent
	FROM %s
	GROUP BY period
	ORDER BY period`, recordTable)

	scanPeriod := func(rows *sql.Rows) (models.PeriodTotal, error) {
		var p models.PeriodTotal
		err := rows.Scan(&p.Period, &p.Requests, &p.Spent)
		p.Period = p.Period.UTC()
		return p, err
	}

	totals, err := queryAndScan(ctx, db.conn, query, nil, scanPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to query weekly totals: %w", err)
	}
	return totals, nil
}

// GetMonthlyTotalsByLicense sums requests and spend per calendar month and
// license. Results are ordered by month, then license tier.
func (db *DB) GetMonthlyTotalsByLicense(ctx context.Context) ([]models.PeriodTotal, error) {
	if !db.Loaded() {
		return nil, ErrNotLoaded
	}
	ctx, cancel := db.ensureContext(ctx)
	defer cancel()

	query := fmt.Sprintf(`
	SELECT
		CAST(date_trunc('month', day) AS DATE) AS period,
		license,
		CAST(sum(requests) AS BIGINT) AS requests,
		sum(spent) AS spent
	FROM %s
	GROUP BY period, license
	ORDER BY period, license`, recordTable)

	scanPeriod := func(rows *sql.Rows) (models.PeriodTotal, error) {
		var p models.PeriodTotal
		err := rows.Scan(&p.Period, &p.License, &p.Requests, &p.Spent)
		p.Period = p.Period.UTC()
		return p, err
	}

	totals, err := queryAndScan(ctx, db.conn, query, nil, scanPeriod)
	if err != nil {
		return nil, fmt.Errorf("failed to query monthly totals: %w", err)
	}

	sort.SliceStable(totals, func(i, j int) bool {
		if !totals[i].Period.Equal(totals[j].Period) {
			return totals[i].Period.Before(totals[j].Period)
		}
		return models.LessLicense(totals[i].License, totals[j].License)
	})
	return totals, nil
}
