// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"fmt"
	"reflect"
	"testing"

	"github.com/tomtom215/usagelens/internal/models"
)

func TestComputePerUserTotals(t *testing.T) {
	tbl := table(
		rec("b", 1, "Model_A", "Feature_1", "Premium", 10, 2.5),
		rec("a", 1, "Model_A", "Feature_1", "Basic", 1, 1),
		rec("b", 1, "Model_B", "Feature_2", "Enterprise", 5, 0.5),
		rec("b", 2, "Model_B", "Feature_2", "Enterprise", -3, 1),
	)

	got := ComputePerUserTotals(tbl)
	want := []models.UserTotals{
		{UserID: "a", License: "Basic", Requests: 1, Spent: 1, ActiveDays: 1, Features: 1},
		{UserID: "b", License: "Premium", Requests: 12, Spent: 4, ActiveDays: 2, Features: 2},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ComputePerUserTotals() = %+v, want %+v", got, want)
	}
}

func TestComputePerUserTotals_Empty(t *testing.T) {
	if got := ComputePerUserTotals(table()); len(got) != 0 {
		t.Errorf("expected no users, got %d", len(got))
	}
}

func TestClassifySegments_Thresholds(t *testing.T) {
	tbl := table(
		rec("a", 1, "Model_A", "Feature_1", "Basic", 10, 5),
		rec("b", 1, "Model_A", "Feature_1", "Basic", 50, 60),
		rec("c", 1, "Model_A", "Feature_1", "Basic", 100, 90),
	)
	seg := ClassifySegments(ComputePerUserTotals(tbl))

	if seg.RequestThreshold != 50 || seg.SpendThreshold != 60 {
		t.Fatalf("thresholds = (%v, %v), want (50, 60)", seg.RequestThreshold, seg.SpendThreshold)
	}

	want := map[string]models.Segment{
		"a": models.SegmentLowLow,
		"b": models.SegmentLowLow,
		"c": models.SegmentHighHigh,
	}
	if got := seg.Lookup(); !reflect.DeepEqual(got, want) {
		t.Errorf("Lookup() = %v, want %v", got, want)
	}

	counts := SegmentCounts(seg)
	wantCounts := []int{2, 0, 0, 1}
	for i, c := range counts {
		if c.Segment != models.Segments[i] {
			t.Errorf("counts[%d].Segment = %s, want %s", i, c.Segment, models.Segments[i])
		}
		if c.Users != wantCounts[i] {
			t.Errorf("counts[%s] = %d, want %d", c.Segment, c.Users, wantCounts[i])
		}
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		requests float64
		spend    float64
		want     models.Segment
	}{
		{"both below", 1, 1, models.SegmentLowLow},
		{"both equal", 5, 5, models.SegmentLowLow},
		{"requests above", 6, 5, models.SegmentHighActivityLowSpend},
		{"spend above", 5, 6, models.SegmentLowActivityHighSpend},
		{"both above", 6, 6, models.SegmentHighHigh},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.requests, tt.spend, 5, 5); got != tt.want {
				t.Errorf("classify() = %s, want %s", got, tt.want)
			}
		})
	}
}

func TestClassifySegments_Degenerate(t *testing.T) {
	var totals []models.UserTotals
	for i := 0; i < 6; i++ {
		totals = append(totals, models.UserTotals{UserID: fmt.Sprintf("u%d", i), Requests: 7, Spent: 3})
	}
	seg := ClassifySegments(totals)
	for _, u := range seg.Users {
		if u.Segment != models.SegmentLowLow {
			t.Errorf("user %s in %s, want low_low", u.UserID, u.Segment)
		}
	}
}

func TestClassifySegments_Exhaustive(t *testing.T) {
	var totals []models.UserTotals
	for i := 0; i < 37; i++ {
		totals = append(totals, models.UserTotals{
			UserID:   fmt.Sprintf("u%02d", i),
			Requests: int64((i * 7) % 11),
			Spent:    float64((i * 13) % 17),
		})
	}
	seg := ClassifySegments(totals)
	if len(seg.Users) != len(totals) {
		t.Fatalf("classified %d users, want %d", len(seg.Users), len(totals))
	}

	sum := 0
	for _, c := range SegmentCounts(seg) {
		sum += c.Users
	}
	if sum != len(totals) {
		t.Errorf("segment counts sum to %d, want %d", sum, len(totals))
	}
	for i, u := range seg.Users {
		if u.UserID != totals[i].UserID {
			t.Errorf("user order changed at %d: %s", i, u.UserID)
		}
	}
}

func TestMedian(t *testing.T) {
	tests := []struct {
		name string
		in   []float64
		want float64
	}{
		{"empty", nil, 0},
		{"odd", []float64{3, 1, 2}, 2},
		{"even", []float64{4, 1, 3, 2}, 2.5},
		{"single", []float64{9}, 9},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := median(tt.in); got != tt.want {
				t.Errorf("median(%v) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestSegmentTimeSeries(t *testing.T) {
	tbl := table(
		rec("a", 2, "Model_A", "Feature_1", "Basic", 1, 1),
		rec("a", 2, "Model_B", "Feature_2", "Basic", 1, 1),
		rec("b", 1, "Model_A", "Feature_1", "Basic", 100, 100),
		rec("b", 2, "Model_A", "Feature_1", "Basic", 100, 100),
		rec("c", 1, "Model_A", "Feature_1", "Basic", 1, 1),
	)
	seg := ClassifySegments(ComputePerUserTotals(tbl))

	got := SegmentTimeSeries(tbl, seg)
	want := []models.SegmentDayCount{
		{Day: day(1), Segment: models.SegmentLowLow, Users: 1},
		{Day: day(1), Segment: models.SegmentHighHigh, Users: 1},
		{Day: day(2), Segment: models.SegmentLowLow, Users: 1},
		{Day: day(2), Segment: models.SegmentHighHigh, Users: 1},
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("SegmentTimeSeries() = %+v, want %+v", got, want)
	}
}

func TestSegmentTimeSeries_SkipsUnknownUsers(t *testing.T) {
	tbl := table(rec("a", 1, "Model_A", "Feature_1", "Basic", 1, 1))
	if got := SegmentTimeSeries(tbl, models.Segmentation{}); len(got) != 0 {
		t.Errorf("expected no points, got %+v", got)
	}
}

func TestSortUsers(t *testing.T) {
	users := []models.SegmentedUser{
		{UserTotals: models.UserTotals{UserID: "c", Requests: 5, Spent: 1}},
		{UserTotals: models.UserTotals{UserID: "a", Requests: 5, Spent: 3}},
		{UserTotals: models.UserTotals{UserID: "b", Requests: 9, Spent: 2}},
	}
	tests := []struct {
		by   UserSort
		want []string
	}{
		{SortByUserID, []string{"a", "b", "c"}},
		{SortByRequests, []string{"b", "a", "c"}},
		{SortBySpend, []string{"a", "b", "c"}},
	}
	for _, tt := range tests {
		t.Run(string(tt.by), func(t *testing.T) {
			sorted := SortUsers(users, tt.by)
			ids := make([]string, len(sorted))
			for i, u := range sorted {
				ids[i] = u.UserID
			}
			if !reflect.DeepEqual(ids, tt.want) {
				t.Errorf("SortUsers(%s) = %v, want %v", tt.by, ids, tt.want)
			}
		})
	}
	if users[0].UserID != "c" {
		t.Error("SortUsers modified its input")
	}
}
