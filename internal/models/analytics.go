// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import "time"

// UserTotals aggregates every record of one user.
type UserTotals struct {
	UserID     string  `json:"user_id"`
	License    string  `json:"license"`
	Requests   int64   `json:"requests"`
	Spent      float64 `json:"spent"`
	ActiveDays int     `json:"active_days"`
	Features   int     `json:"features"`
}

// Segment is one quadrant of the activity × spend classification.
type Segment string

const (
	SegmentLowLow               Segment = "low_low"
	SegmentHighActivityLowSpend Segment = "high_activity_low_spend"
	SegmentLowActivityHighSpend Segment = "low_activity_high_spend"
	SegmentHighHigh             Segment = "high_high"
)

// Segments lists every segment in canonical display order.
var Segments = []Segment{
	SegmentLowLow,
	SegmentHighActivityLowSpend,
	SegmentLowActivityHighSpend,
	SegmentHighHigh,
}

var segmentLabels = map[Segment]string{
	SegmentLowLow:               "Low activity, low spend",
	SegmentHighActivityLowSpend: "High activity, low spend (free users)",
	SegmentLowActivityHighSpend: "High spend, low activity (power buyers)",
	SegmentHighHigh:             "High both (core users)",
}

// Label returns the display string used on charts.
func (s Segment) Label() string {
	if l, ok := segmentLabels[s]; ok {
		return l
	}
	return string(s)
}

// Index returns the canonical position of s, or -1.
func (s Segment) Index() int {
	for i, seg := range Segments {
		if seg == s {
			return i
		}
	}
	return -1
}

// SegmentedUser is a user's totals plus their segment.
type SegmentedUser struct {
	UserTotals
	Segment Segment `json:"segment"`
}

// Segmentation is the result of one classification run. Thresholds are the
// medians of the population it was computed from.
type Segmentation struct {
	RequestThreshold float64         `json:"request_threshold"`
	SpendThreshold   float64         `json:"spend_threshold"`
	Users            []SegmentedUser `json:"users"`
}

// Lookup maps user id to segment.
func (s *Segmentation) Lookup() map[string]Segment {
	m := make(map[string]Segment, len(s.Users))
	for _, u := range s.Users {
		m[u.UserID] = u.Segment
	}
	return m
}

// SegmentCount is the number of users in one segment.
type SegmentCount struct {
	Segment Segment `json:"segment"`
	Label   string  `json:"label"`
	Users   int     `json:"users"`
}

// SegmentDayCount is the number of distinct active users of a segment on a day.
type SegmentDayCount struct {
	Day     time.Time `json:"day"`
	Segment Segment   `json:"segment"`
	Users   int       `json:"users"`
}

// Funnel stage names.
const (
	FunnelStageUsedApp          = "Used app"
	FunnelStageMultipleFeatures = "Used multiple features"
	FunnelStageSpender          = "Spent > 100 credits"
)

// FunnelCounts holds the three engagement stages. Spenders is independent of
// MultipleFeatures and can exceed it.
type FunnelCounts struct {
	UsedApp          int `json:"used_app"`
	MultipleFeatures int `json:"multiple_features"`
	Spenders         int `json:"spenders"`
}

// FunnelStage is one named funnel step.
type FunnelStage struct {
	Stage string `json:"stage"`
	Users int    `json:"users"`
}

// Stages returns the funnel in display order.
func (f FunnelCounts) Stages() []FunnelStage {
	return []FunnelStage{
		{Stage: FunnelStageUsedApp, Users: f.UsedApp},
		{Stage: FunnelStageMultipleFeatures, Users: f.MultipleFeatures},
		{Stage: FunnelStageSpender, Users: f.Spenders},
	}
}

// KPISet is the summary page's KPI set, grouped as usage, efficiency,
// engagement and power usage.
type KPISet struct {
	TotalUsers          int     `json:"total_users"`
	TotalRequests       int64   `json:"total_requests"`
	TotalSpend          float64 `json:"total_spend"`
	MeanRequestsPerUser float64 `json:"mean_requests_per_user"`
	MeanSpendPerUser    float64 `json:"mean_spend_per_user"`

	MeanSpendPerRequest       Number  `json:"mean_spend_per_request"`
	BestModel                 string  `json:"best_model"`
	BestModelSpendPerRequest  Number  `json:"best_model_spend_per_request"`
	WorstModel                string  `json:"worst_model"`
	WorstModelSpendPerRequest Number  `json:"worst_model_spend_per_request"`
	EnterprisePercent         float64 `json:"enterprise_percent"`
	Correlation               Number  `json:"correlation"`
	ZeroRequestRows           int     `json:"zero_request_rows"`

	MeanActiveDays            float64 `json:"mean_active_days"`
	RetainedOver7DaysPercent  float64 `json:"retained_over_7_days_percent"`
	RetainedOver30DaysPercent float64 `json:"retained_over_30_days_percent"`
	MultiFeaturePercent       float64 `json:"multi_feature_percent"`
	SpenderPercent            float64 `json:"spender_percent"`

	MeanDailySpend             float64   `json:"mean_daily_spend"`
	PeakDay                    time.Time `json:"peak_day"`
	PeakDaySpend               float64   `json:"peak_day_spend"`
	TopDecileSpendSharePercent float64   `json:"top_decile_spend_share_percent"`
	MostRecentDay              time.Time `json:"most_recent_day"`
}

// OverviewMetrics backs the overview page cards. Means are over rows.
type OverviewMetrics struct {
	Users             int     `json:"users"`
	MeanRequests      Number  `json:"mean_requests"`
	TotalSpend        float64 `json:"total_spend"`
	MeanSpend         Number  `json:"mean_spend"`
	EnterprisePercent float64 `json:"enterprise_percent"`
	MeanActiveDays    float64 `json:"mean_active_days"`
}

// Measure selects a numeric column.
type Measure string

const (
	MeasureRequests Measure = "requests"
	MeasureSpend    Measure = "spend"
)

// Dimension selects a categorical column.
type Dimension string

const (
	DimensionModel   Dimension = "model"
	DimensionFeature Dimension = "feature"
	DimensionLicense Dimension = "license"
)

// Pivot is a feature × model grid. Values[i][j] is the cell for Rows[i] and
// Columns[j], null where no record exists.
type Pivot struct {
	Measure Measure    `json:"measure"`
	Rows    []string   `json:"rows"`
	Columns []string   `json:"columns"`
	Values  [][]Number `json:"values"`
}

// ModelStats summarises one model. Std is the sample standard deviation.
type ModelStats struct {
	Model        string `json:"model"`
	RequestsMean Number `json:"requests_mean"`
	SpendMean    Number `json:"spend_mean"`
	RequestsStd  Number `json:"requests_std"`
	SpendStd     Number `json:"spend_std"`
}

// CategoryCount is the number of records carrying one category value.
type CategoryCount struct {
	Category string `json:"category"`
	Count    int    `json:"count"`
}

// DailyTotal sums one day's records.
type DailyTotal struct {
	Day      time.Time `json:"day"`
	Requests int64     `json:"requests"`
	Spent    float64   `json:"spent"`
}

// DailyCorrelation is the requests/spend correlation within one day.
type DailyCorrelation struct {
	Day         time.Time `json:"day"`
	Correlation Number    `json:"correlation"`
}

// Trendline is an ordinary least squares fit y = Intercept + Slope*x.
type Trendline struct {
	Intercept Number `json:"intercept"`
	Slope     Number `json:"slope"`
}

// At evaluates the line at x.
func (t Trendline) At(x float64) float64 {
	return float64(t.Intercept) + float64(t.Slope)*x
}

// GroupRatio is the mean spend per request of one group.
type GroupRatio struct {
	Group           string `json:"group"`
	SpendPerRequest Number `json:"spend_per_request"`
	Rows            int    `json:"rows"`
}

// RetentionBucket counts users of a license with a given number of active days.
type RetentionBucket struct {
	License    string `json:"license"`
	ActiveDays int    `json:"active_days"`
	Users      int    `json:"users"`
}

// LicenseRetention is the mean active days of one license.
type LicenseRetention struct {
	License        string  `json:"license"`
	Users          int     `json:"users"`
	MeanActiveDays float64 `json:"mean_active_days"`
}

// RetentionStats combines the histogram and per-license means.
type RetentionStats struct {
	Buckets   []RetentionBucket  `json:"buckets"`
	ByLicense []LicenseRetention `json:"by_license"`
}

// TopSpender is one of the highest-spending users of a license.
type TopSpender struct {
	UserID   string  `json:"user_id"`
	License  string  `json:"license"`
	Requests int64   `json:"requests"`
	Spent    float64 `json:"spent"`
}

// ModelSpend is the row-mean spend and requests of one model.
type ModelSpend struct {
	Model        string  `json:"model"`
	MeanSpend    float64 `json:"mean_spend"`
	MeanRequests float64 `json:"mean_requests"`
}

// BoxStats are the box-plot statistics of one model × license group.
// Fences are clamped to the observed min and max, as box plots draw them.
type BoxStats struct {
	Model      string  `json:"model"`
	License    string  `json:"license"`
	Count      int64   `json:"count"`
	Min        float64 `json:"min"`
	Q1         float64 `json:"q1"`
	Median     float64 `json:"median"`
	Q3         float64 `json:"q3"`
	Max        float64 `json:"max"`
	Mean       float64 `json:"mean"`
	LowerFence float64 `json:"lower_fence"`
	UpperFence float64 `json:"upper_fence"`
}

// PeriodTotal sums records over a week or month, optionally per license.
type PeriodTotal struct {
	Period   time.Time `json:"period"`
	License  string    `json:"license,omitempty"`
	Requests int64     `json:"requests"`
	Spent    float64   `json:"spent"`
}

// DatasetInfo describes the loaded table.
type DatasetInfo struct {
	Source      string    `json:"source"`
	Rows        int       `json:"rows"`
	Users       int       `json:"users"`
	FirstDay    time.Time `json:"first_day"`
	LastDay     time.Time `json:"last_day"`
	Models      []string  `json:"models"`
	Features    []string  `json:"features"`
	Licenses    []string  `json:"licenses"`
	Fingerprint string    `json:"fingerprint"`
	LoadedAt    time.Time `json:"loaded_at"`
}
