// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

// Query parameter structs validated with go-playground/validator before use.
//
//	req := UsersRequest{
//	    Limit:  getIntParam(r, "limit", h.defaultPageSize()),
//	    Offset: getIntParam(r, "offset", 0),
//	    Sort:   r.URL.Query().Get("sort"),
//	}
//	if apiErr := validateRequest(&req); apiErr != nil { ... }

// SegmentsRequest binds GET /api/v1/analytics/segments. Limit and Offset
// only apply when IncludeUsers is set.
type SegmentsRequest struct {
	IncludeUsers bool
	Limit        int `validate:"gte=1,lte=1000"`
	Offset       int `validate:"gte=0,lte=10000000"`
}

// UsersRequest binds GET /api/v1/analytics/users.
type UsersRequest struct {
	Limit  int    `validate:"gte=1,lte=1000"`
	Offset int    `validate:"gte=0,lte=10000000"`
	Sort   string `validate:"omitempty,oneof=user_id requests spend"`
}

// PerformanceRequest binds GET /api/v1/performance.
type PerformanceRequest struct {
	Recent int `validate:"gte=0,lte=1000"`
}
