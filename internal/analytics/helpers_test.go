// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"math"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func rec(user string, d int, model, feature, license string, requests int64, spent float64) models.UsageRecord {
	return models.UsageRecord{
		UserID:   user,
		Day:      day(d),
		Model:    model,
		Feature:  feature,
		License:  license,
		Requests: requests,
		Spent:    spent,
	}
}

func table(records ...models.UsageRecord) *dataset.Table {
	return dataset.New(records, "test")
}

// mixedTable is a small dataset touching every dimension.
func mixedTable() *dataset.Table {
	return table(
		rec("u1", 1, "Model_A", "Feature_1", "Enterprise", 10, 20),
		rec("u1", 2, "Model_B", "Feature_2", "Enterprise", 30, 40),
		rec("u2", 1, "Model_A", "Feature_1", "Basic", 5, 5),
		rec("u2", 3, "Model_A", "Feature_1", "Basic", 15, 10),
		rec("u3", 2, "Model_B", "Feature_3", "Premium", 40, 120),
		rec("u4", 3, "Model_C", "Feature_2", "Standard", 2, 1),
	)
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

func assertApprox(t *testing.T, name string, got, want float64) {
	t.Helper()
	if !approx(got, want) {
		t.Errorf("%s = %v, want %v", name, got, want)
	}
}
