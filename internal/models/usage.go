// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

// Package models defines the usage record schema, the derived analytics result
// types and the HTTP response envelope shared across UsageLens packages.
package models

import (
	"sort"
	"time"
)

// CSV column names. These identifiers are load-bearing: the loader resolves
// them by name, in any order.
const (
	ColumnUserID   = "uuid"
	ColumnDay      = "day_id"
	ColumnModel    = "model"
	ColumnFeature  = "feature"
	ColumnLicense  = "license"
	ColumnRequests = "requests_cnt"
	ColumnSpent    = "spent_amount"
)

// RequiredColumns lists every column the dataset must provide.
var RequiredColumns = []string{
	ColumnUserID,
	ColumnDay,
	ColumnModel,
	ColumnFeature,
	ColumnLicense,
	ColumnRequests,
	ColumnSpent,
}

// UsageRecord is one (user, day, model, feature) slice of activity.
// Records are immutable once loaded.
type UsageRecord struct {
	UserID   string    `json:"user_id"`
	Day      time.Time `json:"day"`
	Model    string    `json:"model"`
	Feature  string    `json:"feature"`
	License  string    `json:"license"`
	Requests int64     `json:"requests_cnt"`
	Spent    float64   `json:"spent_amount"`
}

// License tiers in ascending value order.
const (
	LicenseBasic      = "Basic"
	LicenseStandard   = "Standard"
	LicensePremium    = "Premium"
	LicenseEnterprise = "Enterprise"
)

var licenseRank = map[string]int{
	LicenseBasic:      0,
	LicenseStandard:   1,
	LicensePremium:    2,
	LicenseEnterprise: 3,
}

// LicenseRank orders tiers Basic < Standard < Premium < Enterprise.
// Unknown tiers rank after all known ones.
func LicenseRank(license string) int {
	if r, ok := licenseRank[license]; ok {
		return r
	}
	return len(licenseRank)
}

// LessLicense reports whether a sorts before b: by tier, then by name.
func LessLicense(a, b string) bool {
	ra, rb := LicenseRank(a), LicenseRank(b)
	if ra != rb {
		return ra < rb
	}
	return a < b
}

// SortLicenses sorts tiers in place using LessLicense.
func SortLicenses(licenses []string) {
	sort.Slice(licenses, func(i, j int) bool { return LessLicense(licenses[i], licenses[j]) })
}
