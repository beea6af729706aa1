// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package session

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/alexedwards/scs/v2"
	"github.com/google/uuid"
)

// Session keys. The visited flag is browsing-session scoped by nature of the
// session cookie; the admin flags reset with the session as well. Only the
// device marker is durable, and it lives in the content store, not here.
const (
	keyAdminMode     = "admin_mode"
	keyAuthenticated = "authenticated"
	keyVisited       = "visited"
)

// DeviceCookie is the durable device identity cookie name.
const DeviceCookie = "olp_device"

// GateState describes where the current visitor sits in the admin flow.
type GateState int

const (
	// Public is the default state: a plain visitor.
	Public GateState = iota
	// AdminLoginPending means admin mode was requested but no valid
	// password has been presented yet.
	AdminLoginPending
	// AdminAuthenticated grants full read/write access to the document.
	AdminAuthenticated
)

// DeviceStore persists the durable per-device admin marker.
type DeviceStore interface {
	MarkDeviceAdmin(ctx context.Context, deviceID string) error
	IsDeviceAdmin(ctx context.Context, deviceID string) (bool, error)
}

// Gate tracks admin authentication state for the current visit.
type Gate struct {
	sessions *scs.SessionManager
	devices  DeviceStore
	secure   bool
}

// NewGate creates a Gate on top of the session manager and device store.
func NewGate(sm *scs.SessionManager, devices DeviceStore, isDev bool) *Gate {
	return &Gate{sessions: sm, devices: devices, secure: !isDev}
}

// State returns the current gate state for the request.
func (g *Gate) State(r *http.Request) GateState {
	ctx := r.Context()
	switch {
	case g.sessions.GetBool(ctx, keyAuthenticated):
		return AdminAuthenticated
	case g.sessions.GetBool(ctx, keyAdminMode):
		return AdminLoginPending
	default:
		return Public
	}
}

// RequestAdmin transitions Public -> AdminLoginPending. Triggered by the
// secret query parameter or the visible admin entry control; the visibility
// flag on the latter never gates this call.
func (g *Gate) RequestAdmin(ctx context.Context) {
	g.sessions.Put(ctx, keyAdminMode, true)
}

// AdminModeRequested reports whether this visit asked for admin mode.
func (g *Gate) AdminModeRequested(r *http.Request) bool {
	return g.sessions.GetBool(r.Context(), keyAdminMode)
}

// Authenticated reports whether this visit holds admin credentials.
func (g *Gate) Authenticated(r *http.Request) bool {
	return g.sessions.GetBool(r.Context(), keyAuthenticated)
}

// Authenticate transitions AdminLoginPending -> AdminAuthenticated. The
// session token is renewed to prevent fixation, and the device is durably
// marked as an admin device so its visits never count toward analytics again.
func (g *Gate) Authenticate(w http.ResponseWriter, r *http.Request) error {
	ctx := r.Context()
	if err := g.sessions.RenewToken(ctx); err != nil {
		return err
	}
	g.sessions.Put(ctx, keyAdminMode, true)
	g.sessions.Put(ctx, keyAuthenticated, true)

	deviceID := g.DeviceID(w, r)
	if err := g.devices.MarkDeviceAdmin(ctx, deviceID); err != nil {
		// The login itself still succeeds; only the analytics exclusion
		// marker is affected.
		slog.Error("marking admin device failed", "error", err)
	}
	return nil
}

// Logout transitions AdminAuthenticated -> Public and exits admin mode. The
// durable admin-device marker is deliberately left in place.
func (g *Gate) Logout(ctx context.Context) {
	g.sessions.Remove(ctx, keyAuthenticated)
	g.sessions.Remove(ctx, keyAdminMode)
}

// Cancel transitions AdminLoginPending -> Public.
func (g *Gate) Cancel(ctx context.Context) {
	g.sessions.Remove(ctx, keyAdminMode)
}

// Visited reports whether this browsing session already viewed the page.
func (g *Gate) Visited(r *http.Request) bool {
	return g.sessions.GetBool(r.Context(), keyVisited)
}

// MarkVisited records that this browsing session viewed the page, so a second
// render within the same session is never counted as unique.
func (g *Gate) MarkVisited(ctx context.Context) {
	g.sessions.Put(ctx, keyVisited, true)
}

// DeviceID returns the durable device identifier, minting a new one (and
// setting its cookie) when the request carries none.
func (g *Gate) DeviceID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(DeviceCookie); err == nil && c.Value != "" {
		return c.Value
	}

	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     DeviceCookie,
		Value:    id,
		Path:     "/",
		Expires:  time.Now().Add(365 * 24 * time.Hour),
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		Secure:   g.secure,
	})
	return id
}

// IsDeviceAdmin reports whether the request's device carries the durable
// admin marker. Lookup failures are logged and treated as "not admin" so
// storage trouble never blocks rendering.
func (g *Gate) IsDeviceAdmin(r *http.Request) bool {
	c, err := r.Cookie(DeviceCookie)
	if err != nil || c.Value == "" {
		return false
	}
	isAdmin, err := g.devices.IsDeviceAdmin(r.Context(), c.Value)
	if err != nil {
		slog.Warn("admin device lookup failed", "error", err)
		return false
	}
	return isAdmin
}
