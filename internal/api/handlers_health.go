// UsageLens - ML Feature Usage Analytics Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/usagelens

package api

import (
	"net/http"
	"time"

	"github.com/tomtom215/usagelens/internal/models"
)

// Health handles health check requests
//
// @Summary Get system health status
// @Description Returns dataset and database state, staleness of the dataset file and uptime
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse{data=models.HealthStatus} "Health status retrieved successfully"
// @Router /health [get]
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	loaded := h.engine != nil
	dbOnline := h.db != nil && h.db.Ping(r.Context()) == nil
	stale := h.staleness != nil && h.staleness.Stale()

	status := "healthy"
	if !loaded || !dbOnline || stale {
		status = "degraded"
	}

	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: models.HealthStatus{
			Status:         status,
			Version:        h.version,
			DatasetLoaded:  loaded,
			DatabaseOnline: dbOnline,
			DatasetStale:   stale,
			Uptime:         time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthLive handles liveness probe requests
//
// @Summary Liveness probe
// @Description Returns 200 OK while the process is alive
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is alive"
// @Router /health/live [get]
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, r, http.StatusOK, &models.APIResponse{
		Status: "success",
		Data: map[string]interface{}{
			"alive":  true,
			"uptime": time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}

// HealthReady handles readiness probe requests
//
// @Summary Readiness probe
// @Description Returns 200 once the dataset is loaded into the database, 503 otherwise
// @Tags Core
// @Produce json
// @Success 200 {object} models.APIResponse "Service is ready"
// @Failure 503 {object} models.APIResponse "Service is not ready"
// @Router /health/ready [get]
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	loaded := h.engine != nil && h.db != nil && h.db.Loaded()

	statusCode := http.StatusOK
	status := "ready"
	if !loaded {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	data := map[string]interface{}{
		"dataset_loaded": loaded,
		"uptime":         time.Since(h.startTime).Seconds(),
	}
	if loaded {
		data["rows"] = h.engine.Table().Len()
	}

	respondJSON(w, r, statusCode, &models.APIResponse{
		Status:   status,
		Data:     data,
		Metadata: models.Metadata{Timestamp: time.Now()},
	})
}
