// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package dataset

import (
	"reflect"
	"testing"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func fixture() []models.UsageRecord {
	return []models.UsageRecord{
		{UserID: "u2", Day: day(3), Model: "Model_C", Feature: "Feature_1", License: "Premium", Requests: 10, Spent: 2},
		{UserID: "u1", Day: day(1), Model: "Model_A", Feature: "Feature_2", License: "Enterprise", Requests: 5, Spent: 1.5},
		{UserID: "u1", Day: day(2), Model: "Model_C", Feature: "Feature_1", License: "Enterprise", Requests: 7, Spent: 3},
		{UserID: "u3", Day: day(1), Model: "Model_B", Feature: "Feature_1", License: "Basic", Requests: 1, Spent: 0.5},
	}
}

func TestNew_Indexes(t *testing.T) {
	tbl := New(fixture(), "usage.csv")

	if tbl.Len() != 4 {
		t.Errorf("Len() = %d, want 4", tbl.Len())
	}
	if tbl.Users() != 3 {
		t.Errorf("Users() = %d, want 3", tbl.Users())
	}
	if got, want := tbl.Models(), []string{"Model_A", "Model_B", "Model_C"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Models() = %v, want %v", got, want)
	}
	if got, want := tbl.Licenses(), []string{"Basic", "Premium", "Enterprise"}; !reflect.DeepEqual(got, want) {
		t.Errorf("Licenses() = %v, want %v", got, want)
	}
	if got, want := tbl.Days(), []time.Time{day(1), day(2), day(3)}; !reflect.DeepEqual(got, want) {
		t.Errorf("Days() = %v, want %v", got, want)
	}

	info := tbl.Info()
	if !info.FirstDay.Equal(day(1)) || !info.LastDay.Equal(day(3)) {
		t.Errorf("Info() day range = %v..%v", info.FirstDay, info.LastDay)
	}
	if info.Source != "usage.csv" || info.Fingerprint != tbl.Fingerprint() {
		t.Errorf("Info() = %+v", info)
	}
}

func TestTable_Immutable(t *testing.T) {
	records := fixture()
	tbl := New(records, "")
	before := tbl.Fingerprint()

	// Mutating the input slice after construction has no effect.
	records[0].Spent = 999

	r := tbl.Record(0)
	r.Spent = 123

	all := tbl.Records()
	all[1].Requests = -1

	tbl.Each(func(_ int, rec models.UsageRecord) {
		rec.UserID = "changed"
	})

	names := tbl.Models()
	names[0] = "changed"

	if tbl.Record(0).Spent != 2 || tbl.Record(1).Requests != 5 || tbl.Record(0).UserID != "u2" {
		t.Errorf("table content changed through a copy: %+v", tbl.Records())
	}
	if tbl.Models()[0] != "Model_A" {
		t.Error("Models() exposed internal slice")
	}
	if got := fingerprint(tbl.Records()); got != before {
		t.Errorf("fingerprint drifted: %s != %s", got, before)
	}
}

func TestFingerprint(t *testing.T) {
	a := New(fixture(), "a.csv")
	b := New(fixture(), "b.csv")
	if a.Fingerprint() != b.Fingerprint() {
		t.Error("identical content should share a fingerprint")
	}

	changes := []struct {
		name   string
		mutate func(*models.UsageRecord)
	}{
		{"user", func(r *models.UsageRecord) { r.UserID = "u9" }},
		{"day", func(r *models.UsageRecord) { r.Day = day(9) }},
		{"model", func(r *models.UsageRecord) { r.Model = "Model_E" }},
		{"feature", func(r *models.UsageRecord) { r.Feature = "Feature_5" }},
		{"license", func(r *models.UsageRecord) { r.License = "Basic" }},
		{"requests", func(r *models.UsageRecord) { r.Requests++ }},
		{"spent", func(r *models.UsageRecord) { r.Spent += 0.001 }},
	}
	for _, tt := range changes {
		t.Run(tt.name, func(t *testing.T) {
			records := fixture()
			tt.mutate(&records[2])
			if New(records, "").Fingerprint() == a.Fingerprint() {
				t.Errorf("changing %s did not change the fingerprint", tt.name)
			}
		})
	}

	t.Run("field boundaries", func(t *testing.T) {
		x := []models.UsageRecord{{UserID: "ab", Model: "c"}}
		y := []models.UsageRecord{{UserID: "a", Model: "bc"}}
		if fingerprint(x) == fingerprint(y) {
			t.Error("shifted field boundary should change the fingerprint")
		}
	})

	t.Run("order", func(t *testing.T) {
		records := fixture()
		records[0], records[1] = records[1], records[0]
		if New(records, "").Fingerprint() == a.Fingerprint() {
			t.Error("reordering records should change the fingerprint")
		}
	})
}

func TestSample(t *testing.T) {
	records := make([]models.UsageRecord, 10)
	for i := range records {
		records[i] = models.UsageRecord{UserID: string(rune('a' + i)), Requests: int64(i)}
	}
	tbl := New(records, "")

	tests := []struct {
		limit int
		want  []int64
	}{
		{0, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{20, []int64{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}},
		{5, []int64{0, 2, 4, 6, 8}},
		{3, []int64{0, 3, 6}},
		{1, []int64{0}},
	}
	for _, tt := range tests {
		got := tbl.Sample(tt.limit)
		reqs := make([]int64, len(got))
		for i, r := range got {
			reqs[i] = r.Requests
		}
		if !reflect.DeepEqual(reqs, tt.want) {
			t.Errorf("Sample(%d) = %v, want %v", tt.limit, reqs, tt.want)
		}
	}
}

func TestEmptyTable(t *testing.T) {
	tbl := New(nil, "")
	if tbl.Len() != 0 || tbl.Users() != 0 || len(tbl.Days()) != 0 {
		t.Errorf("empty table = %+v", tbl.Info())
	}
	if tbl.Fingerprint() == "" {
		t.Error("empty table should still have a fingerprint")
	}
	info := tbl.Info()
	if !info.FirstDay.IsZero() {
		t.Errorf("FirstDay = %v, want zero", info.FirstDay)
	}
}
