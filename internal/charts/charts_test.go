// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package charts

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/goccy/go-json"

	"github.com/tomtom215/usagelens/internal/analytics"
	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

type fakeStore struct {
	box     []models.BoxStats
	weekly  []models.PeriodTotal
	monthly []models.PeriodTotal
	err     error
}

func (s *fakeStore) GetBoxStats(_ context.Context, _ models.Measure) ([]models.BoxStats, error) {
	return s.box, s.err
}

func (s *fakeStore) GetWeeklyTotals(_ context.Context) ([]models.PeriodTotal, error) {
	return s.weekly, s.err
}

func (s *fakeStore) GetMonthlyTotalsByLicense(_ context.Context) ([]models.PeriodTotal, error) {
	return s.monthly, s.err
}

func day(d int) time.Time {
	return time.Date(2025, time.March, d, 0, 0, 0, 0, time.UTC)
}

func testTable() *dataset.Table {
	licenses := []string{"Basic", "Premium", "Enterprise"}
	var records []models.UsageRecord
	for i := 0; i < 30; i++ {
		records = append(records, models.UsageRecord{
			UserID:   fmt.Sprintf("u%02d", i%9),
			Day:      day(i%5 + 1),
			Model:    fmt.Sprintf("Model_%c", 'A'+i%2),
			Feature:  fmt.Sprintf("Feature_%d", i%3+1),
			License:  licenses[(i%9)%3],
			Requests: int64(10 + i),
			Spent:    float64(20 + 2*i),
		})
	}
	return dataset.New(records, "test")
}

func newTestRegistry(t *testing.T, store Store, opts Options) *Registry {
	t.Helper()
	engine, err := analytics.NewEngine(testTable(), nil, analytics.Options{TopSpenders: 2})
	if err != nil {
		t.Fatalf("NewEngine() error = %v", err)
	}
	if store == nil {
		store = &fakeStore{
			box: []models.BoxStats{
				{Model: "Model_A", License: "Premium", Q1: 1, Median: 2, Q3: 3},
				{Model: "Model_A", License: "Basic", Q1: 1, Median: 2, Q3: 3},
				{Model: "Model_B", License: "Basic", Q1: 2, Median: 3, Q3: 4},
			},
			weekly: []models.PeriodTotal{{Period: day(3), Requests: 10, Spent: 5}},
			monthly: []models.PeriodTotal{
				{Period: day(1), License: "Enterprise", Requests: 3},
				{Period: day(1), License: "Basic", Requests: 4},
			},
		}
	}
	return NewRegistry(engine, store, opts)
}

func TestRegistry_RendersEveryChart(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	ids := r.IDs()
	if len(ids) != 22 {
		t.Errorf("IDs() returned %d charts, want 22", len(ids))
	}

	for _, id := range ids {
		t.Run(id, func(t *testing.T) {
			fig, err := r.Render(context.Background(), id)
			if err != nil {
				t.Fatalf("Render(%s) error = %v", id, err)
			}
			if fig.ID != id {
				t.Errorf("ID = %q, want %q", fig.ID, id)
			}
			if fig.Layout.Template != Template {
				t.Errorf("Template = %q, want %q", fig.Layout.Template, Template)
			}
			if fig.Layout.Title.Text == "" {
				t.Error("figure has no title")
			}
			if len(fig.Data) == 0 {
				t.Error("figure has no traces")
			}
			if _, err := json.Marshal(fig); err != nil {
				t.Errorf("Marshal() error = %v", err)
			}
		})
	}
}

func TestRegistry_UnknownChart(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	_, err := r.Render(context.Background(), "pie_of_pies")
	if !errors.Is(err, ErrUnknownChart) {
		t.Errorf("error = %v, want ErrUnknownChart", err)
	}
	if r.Has("pie_of_pies") {
		t.Error("Has() = true for unknown chart")
	}
	if !r.Has(EngagementFunnel) {
		t.Error("Has() = false for engagement_funnel")
	}
}

func TestRegistry_StoreError(t *testing.T) {
	boom := errors.New("boom")
	r := newTestRegistry(t, &fakeStore{err: boom}, Options{})
	if _, err := r.Render(context.Background(), WeeklyTrends); !errors.Is(err, boom) {
		t.Errorf("error = %v, want wrapped store error", err)
	}
}

func TestBoxFigure_TracePerLicense(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	fig, err := r.Render(context.Background(), RequestsBox)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want 2", len(fig.Data))
	}
	if fig.Data[0].Name != "Basic" || fig.Data[1].Name != "Premium" {
		t.Errorf("trace order = %s, %s; want Basic, Premium", fig.Data[0].Name, fig.Data[1].Name)
	}
	if got := fig.Data[0].Median; len(got) != 2 || got[1] != 3 {
		t.Errorf("Basic medians = %v, want [2 3]", got)
	}
	if c := fig.Data[1].Marker.Color; c != LicenseColors["Premium"] {
		t.Errorf("Premium colour = %v", c)
	}

	raw, err := json.Marshal(fig)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	if !strings.Contains(string(raw), `"q1":[`) || !strings.Contains(string(raw), `"range":[0,170]`) {
		t.Errorf("box JSON missing quartiles or range: %s", raw)
	}
}

func TestActivityVsSpend(t *testing.T) {
	r := newTestRegistry(t, nil, Options{ScatterSampleLimit: 10})
	fig, err := r.Render(context.Background(), ActivityVsSpend)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if want := "Activity vs Spending (corr = 1.00)"; fig.Layout.Title.Text != want {
		t.Errorf("title = %q, want %q", fig.Layout.Title.Text, want)
	}
	points, ok := fig.Data[0].X.([]int64)
	if !ok || len(points) != 10 {
		t.Errorf("scatter points = %v, want 10 sampled", fig.Data[0].X)
	}
	if len(fig.Data) != 2 {
		t.Fatalf("traces = %d, want scatter and trend", len(fig.Data))
	}
	trendY := fig.Data[1].Y.([]float64)
	if math.Abs(trendY[0]-20) > 1e-9 || math.Abs(trendY[1]-78) > 1e-9 {
		t.Errorf("trend endpoints = %v, want [20 78]", trendY)
	}
}

func TestHeatmap_NullCells(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	fig, err := r.Render(context.Background(), RequestsHeatmap)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if fig.Layout.Title.Text != "Average requests count per feature and model" {
		t.Errorf("title = %q", fig.Layout.Title.Text)
	}
	if fig.Data[0].ColorScale != BuPuScale || fig.Data[0].TextTemplate != "%{z:.1f}" {
		t.Errorf("heatmap style = %+v", fig.Data[0])
	}
}

func TestSegmentComposition_AllSegments(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	fig, err := r.Render(context.Background(), SegmentComposition)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	pie := fig.Data[0]
	if len(pie.Labels) != len(models.Segments) {
		t.Fatalf("labels = %v", pie.Labels)
	}
	for i, s := range models.Segments {
		if pie.Labels[i] != s.Label() || pie.Marker.Colors[i] != SegmentColors[i] {
			t.Errorf("slice %d = (%s, %s), want (%s, %s)", i, pie.Labels[i], pie.Marker.Colors[i], s.Label(), SegmentColors[i])
		}
	}
}

func TestTopSpenders_PerLicenseLimit(t *testing.T) {
	r := newTestRegistry(t, nil, Options{})
	fig, err := r.Render(context.Background(), TopSpendersChart)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	for _, tr := range fig.Data {
		if n := len(tr.X.([]string)); n > 2 {
			t.Errorf("license %s has %d bars, want at most 2", tr.Name, n)
		}
	}
}

func TestLicenseColor_Fallback(t *testing.T) {
	if got := licenseColor("Basic", 5); got != "#b3cde3" {
		t.Errorf("Basic colour = %s", got)
	}
	if got := licenseColor("Trial", 0); got != BuPu[3] {
		t.Errorf("fallback colour = %s, want %s", got, BuPu[3])
	}
}
