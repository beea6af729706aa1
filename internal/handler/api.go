// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"net/http"
	"strconv"

	"github.com/olegiv/olp-go/internal/sync"
)

// APIHandler serves the public read-only content API.
type APIHandler struct {
	sy *sync.Synchronizer
}

// NewAPIHandler creates a new APIHandler.
func NewAPIHandler(sy *sync.Synchronizer) *APIHandler {
	return &APIHandler{sy: sy}
}

// Content handles GET /api/content - returns the current content document
// with the admin password stripped. The endpoint is open cross-origin so
// external widgets can read the published content.
func (h *APIHandler) Content(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Access-Control-Allow-Origin", "*")

	if !h.sy.Ready() {
		writeJSONError(w, http.StatusServiceUnavailable, "content not loaded yet")
		return
	}

	w.Header().Set("X-Content-Revision", strconv.FormatInt(h.sy.Revision(), 10))
	writeJSON(w, http.StatusOK, h.sy.Current().Public())
}
