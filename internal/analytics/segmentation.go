// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package analytics

import (
	"sort"
	"time"

	"github.com/tomtom215/usagelens/internal/dataset"
	"github.com/tomtom215/usagelens/internal/models"
)

// userAccumulator collects one user's records while scanning the table.
type userAccumulator struct {
	totals   models.UserTotals
	days     map[time.Time]struct{}
	features map[string]struct{}
}

// ComputePerUserTotals aggregates the table per user: summed requests and
// spend, distinct active days and features, and the license of the user's
// first record. Output is sorted by user id. Negative values are summed as-is.
func ComputePerUserTotals(t *dataset.Table) []models.UserTotals {
	byUser := make(map[string]*userAccumulator)

	t.Each(func(_ int, r models.UsageRecord) {
		acc, ok := byUser[r.UserID]
		if !ok {
			acc = &userAccumulator{
				totals:   models.UserTotals{UserID: r.UserID, License: r.License},
				days:     make(map[time.Time]struct{}),
				features: make(map[string]struct{}),
			}
			byUser[r.UserID] = acc
		}
		acc.totals.Requests += r.Requests
		acc.totals.Spent += r.Spent
		acc.days[r.Day] = struct{}{}
		acc.features[r.Feature] = struct{}{}
	})

	out := make([]models.UserTotals, 0, len(byUser))
	for _, acc := range byUser {
		acc.totals.ActiveDays = len(acc.days)
		acc.totals.Features = len(acc.features)
		out = append(out, acc.totals)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].UserID < out[j].UserID })
	return out
}

// ClassifySegments splits users into four quadrants around the median of
// total requests and the median of total spend. A value equal to its median
// counts as low. Users keep their input order.
func ClassifySegments(totals []models.UserTotals) models.Segmentation {
	requests := make([]float64, len(totals))
	spend := make([]float64, len(totals))
	for i, u := range totals {
		requests[i] = float64(u.Requests)
		spend[i] = u.Spent
	}

	seg := models.Segmentation{
		RequestThreshold: median(requests),
		SpendThreshold:   median(spend),
		Users:            make([]models.SegmentedUser, len(totals)),
	}
	for i, u := range totals {
		seg.Users[i] = models.SegmentedUser{
			UserTotals: u,
			Segment:    classify(requests[i], spend[i], seg.RequestThreshold, seg.SpendThreshold),
		}
	}
	return seg
}

func classify(requests, spend, requestThr, spendThr float64) models.Segment {
	highActivity := requests > requestThr
	highSpend := spend > spendThr
	switch {
	case !highActivity && !highSpend:
		return models.SegmentLowLow
	case highActivity && !highSpend:
		return models.SegmentHighActivityLowSpend
	case !highActivity && highSpend:
		return models.SegmentLowActivityHighSpend
	default:
		return models.SegmentHighHigh
	}
}

// SegmentCounts returns the user count of every segment in canonical order,
// zero counts included.
func SegmentCounts(seg models.Segmentation) []models.SegmentCount {
	counts := make(map[models.Segment]int, len(models.Segments))
	for _, u := range seg.Users {
		counts[u.Segment]++
	}
	out := make([]models.SegmentCount, len(models.Segments))
	for i, s := range models.Segments {
		out[i] = models.SegmentCount{Segment: s, Label: s.Label(), Users: counts[s]}
	}
	return out
}

// SegmentTimeSeries counts distinct active users per day and segment. Days
// ascend; segments follow canonical order within a day. Absent (day, segment)
// pairs are omitted, and records of users missing from seg are skipped.
func SegmentTimeSeries(t *dataset.Table, seg models.Segmentation) []models.SegmentDayCount {
	lookup := seg.Lookup()

	type key struct {
		day     time.Time
		segment models.Segment
	}
	active := make(map[key]map[string]struct{})

	t.Each(func(_ int, r models.UsageRecord) {
		s, ok := lookup[r.UserID]
		if !ok {
			return
		}
		k := key{day: r.Day, segment: s}
		users, ok := active[k]
		if !ok {
			users = make(map[string]struct{})
			active[k] = users
		}
		users[r.UserID] = struct{}{}
	})

	out := make([]models.SegmentDayCount, 0, len(active))
	for k, users := range active {
		out = append(out, models.SegmentDayCount{Day: k.day, Segment: k.segment, Users: len(users)})
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].Day.Equal(out[j].Day) {
			return out[i].Day.Before(out[j].Day)
		}
		return out[i].Segment.Index() < out[j].Segment.Index()
	})
	return out
}

// UserSort names an ordering for user listings.
type UserSort string

const (
	SortByUserID   UserSort = "user_id"
	SortByRequests UserSort = "requests"
	SortBySpend    UserSort = "spend"
)

// SortUsers returns a sorted copy of users. Requests and spend sort
// descending; ties and SortByUserID sort by user id ascending.
func SortUsers(users []models.SegmentedUser, by UserSort) []models.SegmentedUser {
	out := make([]models.SegmentedUser, len(users))
	copy(out, users)
	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i], out[j]
		switch by {
		case SortByRequests:
			if a.Requests != b.Requests {
				return a.Requests > b.Requests
			}
		case SortBySpend:
			if a.Spent != b.Spent {
				return a.Spent > b.Spent
			}
		}
		return a.UserID < b.UserID
	})
	return out
}
