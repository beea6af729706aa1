// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"fmt"
	"net/http"

	"github.com/olegiv/olp-go/internal/model"
	"github.com/olegiv/olp-go/internal/pagecache"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/session"
	"github.com/olegiv/olp-go/internal/sync"
	"github.com/olegiv/olp-go/internal/util"
)

// FrontendHandler serves the public landing page.
type FrontendHandler struct {
	sy       *sync.Synchronizer
	gate     *session.Gate
	renderer *render.Renderer
	cache    pagecache.Cache
}

// NewFrontendHandler creates a new FrontendHandler.
func NewFrontendHandler(sy *sync.Synchronizer, gate *session.Gate, renderer *render.Renderer, cache pagecache.Cache) *FrontendHandler {
	return &FrontendHandler{
		sy:       sy,
		gate:     gate,
		renderer: renderer,
		cache:    cache,
	}
}

// LandingData holds data for the landing page template.
type LandingData struct {
	Doc             *model.ContentDocument
	WhatsAppURL     string
	ShowAdminButton bool
	ShowAdminBar    bool
}

// Home handles GET / - renders the landing page.
// Until the content document has loaded, visitors get a lightweight loading
// page with a 503 so crawlers and load balancers do not cache an empty shell.
func (h *FrontendHandler) Home(w http.ResponseWriter, r *http.Request) {
	if !h.sy.Ready() {
		if err := h.renderer.RenderStatus(w, r, "frontend/loading", http.StatusServiceUnavailable, render.TemplateData{
			Title: "Loading",
		}); err != nil {
			logAndInternalError(w, "rendering loading page", "error", err)
		}
		return
	}

	doc := h.sy.Current()
	state := h.gate.State(r)

	// Plain public visits share one rendered page per content revision.
	// Admin-mode visits bypass the cache: they carry per-session state
	// (flash messages, the admin bar).
	cacheable := h.cache != nil && state == session.Public
	cacheKey := fmt.Sprintf("page:%d", h.sy.Revision())

	if cacheable {
		if body, ok := h.cache.Get(r.Context(), cacheKey); ok {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			_, _ = w.Write(body)
			return
		}
	}

	data := render.TemplateData{
		Title: doc.Branding.BrandName,
		Data: LandingData{
			Doc:             doc.Public(),
			WhatsAppURL:     util.WhatsAppLink(doc.CTA.WhatsAppNumber, ""),
			ShowAdminButton: doc.AdminConfig.ShowAdminButton,
			ShowAdminBar:    state == session.AdminAuthenticated,
		},
	}

	if cacheable {
		body, err := h.renderer.RenderToBytes("frontend/landing", data)
		if err != nil {
			logAndInternalError(w, "rendering landing page", "error", err)
			return
		}
		h.cache.Set(r.Context(), cacheKey, body)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write(body)
		return
	}

	if err := h.renderer.Render(w, r, "frontend/landing", data); err != nil {
		logAndInternalError(w, "rendering landing page", "error", err)
	}
}
