// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/olegiv/olp-go/internal/analytics"
	"github.com/olegiv/olp-go/internal/session"
	"github.com/olegiv/olp-go/internal/sync"
)

// TrackVisits counts landing page renders into the content document's
// analytics section. A render is counted only when all of these hold:
//
//   - the content document has finished loading
//   - the visit is not in admin mode and not authenticated
//   - the device does not carry the durable admin marker
//   - the user agent is not a recognized bot
//
// The unique counter additionally requires that this browsing session has not
// viewed the page before. Counting happens before the page is served, so the
// session write lands in the same response.
func TrackVisits(sy *sync.Synchronizer, gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if trackable(r) && eligible(sy, gate, r) {
				ctx := r.Context()
				isUnique := !gate.Visited(r)

				doc := sy.Current()
				today := time.Now().Format(analytics.DateFormat)
				updated := analytics.Accumulate(doc, today, isUnique)

				if err := sy.Update(ctx, updated); err != nil {
					slog.Warn("recording visit failed", "error", err)
				}
				// The page view happened either way; the flag tracks the
				// browsing session, not the counter write.
				gate.MarkVisited(ctx)
			}

			next.ServeHTTP(w, r)
		})
	}
}

// trackable limits counting to actual landing page views.
func trackable(r *http.Request) bool {
	return r.Method == http.MethodGet && r.URL.Path == "/"
}

// eligible applies the visit counting rules.
func eligible(sy *sync.Synchronizer, gate *session.Gate, r *http.Request) bool {
	if !sy.Ready() {
		return false
	}
	if gate.AdminModeRequested(r) || gate.Authenticated(r) {
		return false
	}
	if gate.IsDeviceAdmin(r) {
		return false
	}
	if analytics.IsBot(r.UserAgent()) {
		return false
	}
	return true
}
