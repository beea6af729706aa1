// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/olegiv/olp-go/internal/pagecache"
	"github.com/olegiv/olp-go/internal/sync"
	"github.com/olegiv/olp-go/internal/version"
)

// HealthHandler handles health check requests.
type HealthHandler struct {
	db        *sql.DB
	sy        *sync.Synchronizer
	cache     pagecache.Cache
	info      *version.Info
	startTime time.Time
}

// NewHealthHandler creates a new health handler.
func NewHealthHandler(db *sql.DB, sy *sync.Synchronizer, cache pagecache.Cache, info *version.Info) *HealthHandler {
	return &HealthHandler{
		db:        db,
		sy:        sy,
		cache:     cache,
		info:      info,
		startTime: time.Now(),
	}
}

// HealthStatus is the health check response.
type HealthStatus struct {
	Status    string           `json:"status"`
	Timestamp time.Time        `json:"timestamp"`
	Uptime    string           `json:"uptime"`
	Version   string           `json:"version"`
	Content   ContentStatus    `json:"content"`
	Checks    map[string]Check `json:"checks"`
}

// ContentStatus describes the content document lifecycle.
type ContentStatus struct {
	State    string `json:"state"`
	Revision int64  `json:"revision"`
}

// Check represents a single health check result.
type Check struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Latency string `json:"latency,omitempty"`
}

// Health handles GET /health requests.
func (h *HealthHandler) Health(w http.ResponseWriter, _ *http.Request) {
	dbCheck := h.checkDatabase()

	overallStatus := "healthy"
	if dbCheck.Status != "healthy" || !h.sy.Ready() {
		overallStatus = "degraded"
	}

	statusCode := http.StatusOK
	if overallStatus != "healthy" {
		statusCode = http.StatusServiceUnavailable
	}

	ver := "dev"
	if h.info != nil {
		ver = h.info.Version
	}

	contentState := "loading"
	if h.sy.Ready() {
		contentState = "ready"
	}

	checks := map[string]Check{
		"database": dbCheck,
	}
	if h.cache != nil {
		checks["page_cache"] = Check{Status: "healthy", Message: h.cache.Backend()}
	}

	writeJSON(w, statusCode, HealthStatus{
		Status:    overallStatus,
		Timestamp: time.Now().UTC(),
		Uptime:    time.Since(h.startTime).Round(time.Second).String(),
		Version:   ver,
		Content: ContentStatus{
			State:    contentState,
			Revision: h.sy.Revision(),
		},
		Checks: checks,
	})
}

// Liveness handles GET /health/live - simple liveness check.
func (h *HealthHandler) Liveness(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "alive"})
}

// Readiness handles GET /health/ready - the service is ready once the local
// database responds and the content document has loaded.
func (h *HealthHandler) Readiness(w http.ResponseWriter, _ *http.Request) {
	if h.checkDatabase().Status == "healthy" && h.sy.Ready() {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ready"})
		return
	}
	writeJSON(w, http.StatusServiceUnavailable, map[string]string{"status": "not_ready"})
}

// checkDatabase verifies database connectivity.
func (h *HealthHandler) checkDatabase() Check {
	start := time.Now()
	err := h.db.Ping()
	latency := time.Since(start)

	if err != nil {
		return Check{Status: "unhealthy", Message: err.Error(), Latency: latency.String()}
	}
	return Check{Status: "healthy", Message: "Connected", Latency: latency.String()}
}
