// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package middleware

import (
	"net/http"

	"github.com/olegiv/olp-go/internal/session"
)

// AdminEntryParam is the secret query parameter that opens admin mode.
const AdminEntryParam = "admin"

// AdminEntry watches GET requests for the secret ?admin=true query parameter.
// When present, the visit is switched into admin mode and the browser is
// redirected to the same path with the parameter stripped, so the secret never
// lingers in the address bar or in shared links.
func AdminEntry(gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodGet && r.URL.Query().Get(AdminEntryParam) == "true" {
				gate.RequestAdmin(r.Context())

				u := *r.URL
				q := u.Query()
				q.Del(AdminEntryParam)
				u.RawQuery = q.Encode()

				http.Redirect(w, r, u.RequestURI(), http.StatusSeeOther)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// RequireAdmin guards the admin panel: only authenticated visits pass.
// A visit that requested admin mode but has not logged in yet is sent to the
// login form; anyone else is bounced to the landing page.
func RequireAdmin(gate *session.Gate) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch gate.State(r) {
			case session.AdminAuthenticated:
				next.ServeHTTP(w, r)
			case session.AdminLoginPending:
				http.Redirect(w, r, "/admin/login", http.StatusSeeOther)
			default:
				http.Redirect(w, r, "/", http.StatusSeeOther)
			}
		})
	}
}
