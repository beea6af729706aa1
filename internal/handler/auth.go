// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"

	"github.com/olegiv/olp-go/internal/auth"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/session"
	"github.com/olegiv/olp-go/internal/sync"
)

// AuthHandler handles the admin login flow. There is a single shared admin
// identity; the password lives inside the content document itself.
type AuthHandler struct {
	sy       *sync.Synchronizer
	gate     *session.Gate
	renderer *render.Renderer
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(sy *sync.Synchronizer, gate *session.Gate, renderer *render.Renderer) *AuthHandler {
	return &AuthHandler{sy: sy, gate: gate, renderer: renderer}
}

// LoginForm renders the login page. Only visits that explicitly requested
// admin mode ever see it; everyone else is sent back to the landing page so
// the panel stays invisible to casual probing.
func (h *AuthHandler) LoginForm(w http.ResponseWriter, r *http.Request) {
	switch h.gate.State(r) {
	case session.AdminAuthenticated:
		http.Redirect(w, r, redirectAdmin, http.StatusSeeOther)
		return
	case session.Public:
		http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
		return
	}

	if err := h.renderer.Render(w, r, "auth/login", render.TemplateData{
		Title: "Admin Login",
	}); err != nil {
		logAndInternalError(w, "rendering login page", "error", err)
	}
}

// Login handles the login form submission. There is no attempt counter or
// lockout; a wrong password simply re-renders the form with an error.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if h.gate.State(r) != session.AdminLoginPending {
		http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
		return
	}

	if !h.sy.Ready() {
		flashError(w, r, h.renderer, redirectLogin, "Content is still loading, try again shortly")
		return
	}

	if !parseFormOrRedirect(w, r, h.renderer, redirectLogin) {
		return
	}

	password := r.FormValue("password")
	doc := h.sy.Current()

	if !auth.VerifyPassword(password, doc.AdminConfig.Password) {
		slog.Debug("admin login attempt with wrong password")
		flashError(w, r, h.renderer, redirectLogin, "Incorrect password")
		return
	}

	if err := h.gate.Authenticate(w, r); err != nil {
		logAndInternalError(w, "session renewal error", "error", err)
		return
	}

	slog.Info("admin logged in")
	flashSuccess(w, r, h.renderer, redirectAdmin, "Welcome back")
}

// Logout handles admin logout. The durable admin-device marker stays, so this
// device's visits remain excluded from analytics.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	h.gate.Logout(r.Context())
	slog.Info("admin logged out")
	flashAndRedirect(w, r, h.renderer, redirectRoot, "Logged out", "info")
}

// Cancel abandons a pending login and returns to the public landing page.
func (h *AuthHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	h.gate.Cancel(r.Context())
	http.Redirect(w, r, redirectRoot, http.StatusSeeOther)
}
