// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package models

import "time"

// APIResponse is the envelope returned by every JSON endpoint.
//
// Status is "success" (see Data) or "error" (see Error).
//
// Example success response:
//
//	{
//	  "status": "success",
//	  "data": {"total_users": 1000, "total_requests": 184233},
//	  "metadata": {
//	    "timestamp": "2026-10-19T12:00:00Z",
//	    "query_time_ms": 3,
//	    "dataset_version": "9f2c1e0b7a64d3f1"
//	  }
//	}
type APIResponse struct {
	Status   string      `json:"status"`
	Data     interface{} `json:"data"`
	Metadata Metadata    `json:"metadata"`
	Error    *APIError   `json:"error,omitempty"`
}

// Metadata describes how a response was produced. DatasetVersion is the
// fingerprint of the table the data was computed from.
type Metadata struct {
	Timestamp      time.Time `json:"timestamp"`
	QueryTimeMS    int64     `json:"query_time_ms,omitempty"`
	Cached         bool      `json:"cached,omitempty"`
	DatasetVersion string    `json:"dataset_version,omitempty"`
}

// APIError carries a machine-readable code (e.g. "VALIDATION_ERROR",
// "NOT_FOUND") plus a human-readable message.
type APIError struct {
	Code    string                 `json:"code"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
}

// PaginationInfo describes an offset page of a larger result.
type PaginationInfo struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	Total   int  `json:"total"`
	HasMore bool `json:"has_more"`
}

// NewPaginationInfo computes HasMore from the page bounds.
func NewPaginationInfo(limit, offset, total int) PaginationInfo {
	return PaginationInfo{
		Limit:   limit,
		Offset:  offset,
		Total:   total,
		HasMore: offset+limit < total,
	}
}

// HealthStatus is returned by GET /api/health.
type HealthStatus struct {
	Status         string  `json:"status"` // healthy, degraded
	Version        string  `json:"version"`
	DatasetLoaded  bool    `json:"dataset_loaded"`
	DatabaseOnline bool    `json:"database_online"`
	DatasetStale   bool    `json:"dataset_stale"`
	Uptime         float64 `json:"uptime_seconds"`
}

// SegmentsResponse summarises a segmentation. Users and Pagination are only
// present when the caller asked for the user listing.
type SegmentsResponse struct {
	RequestThreshold float64         `json:"request_threshold"`
	SpendThreshold   float64         `json:"spend_threshold"`
	Counts           []SegmentCount  `json:"counts"`
	Users            []SegmentedUser `json:"users,omitempty"`
	Pagination       *PaginationInfo `json:"pagination,omitempty"`
}

// UsersResponse is one page of segmented users.
type UsersResponse struct {
	Users      []SegmentedUser `json:"users"`
	Pagination PaginationInfo  `json:"pagination"`
}

// FunnelResponse carries the raw counts and the ordered stages.
type FunnelResponse struct {
	Counts FunnelCounts  `json:"counts"`
	Stages []FunnelStage `json:"stages"`
}
