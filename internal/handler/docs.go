// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"bytes"
	"html/template"
	"io/fs"
	"net/http"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/yuin/goldmark"

	"github.com/olegiv/olp-go/internal/config"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/version"
)

// DocsHandler serves the built-in admin help pages: markdown guides embedded
// in the binary plus a system information overview.
type DocsHandler struct {
	renderer    *render.Renderer
	cfg         *config.Config
	docsFS      fs.FS
	versionInfo *version.Info
	startTime   time.Time
}

// NewDocsHandler creates a new DocsHandler.
func NewDocsHandler(renderer *render.Renderer, cfg *config.Config, docsFS fs.FS, versionInfo *version.Info, startTime time.Time) *DocsHandler {
	return &DocsHandler{
		renderer:    renderer,
		cfg:         cfg,
		docsFS:      docsFS,
		versionInfo: versionInfo,
		startTime:   startTime,
	}
}

// DocsPageData holds data for the docs overview page.
type DocsPageData struct {
	System DocsSystemInfo
	Guides []DocsGuide
}

// DocsSystemInfo contains system-level information for display.
type DocsSystemInfo struct {
	Version       string
	GitCommit     string
	BuildTime     string
	GoVersion     string
	Environment   string
	ServerPort    int
	DBPath        string
	RemoteEnabled bool
	CacheType     string
	Uptime        string
}

// DocsGuide represents a guide available for viewing.
type DocsGuide struct {
	Slug  string
	Title string
}

// DocsGuideData holds data for the guide viewer page.
type DocsGuideData struct {
	Title   string
	Content template.HTML
}

// Overview handles GET /admin/docs.
func (h *DocsHandler) Overview(w http.ResponseWriter, r *http.Request) {
	data := DocsPageData{
		System: h.getSystemInfo(),
		Guides: h.listGuides(),
	}

	if err := h.renderer.Render(w, r, "admin/docs", render.TemplateData{
		Title: "Help",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering docs overview", "error", err)
	}
}

// Guide handles GET /admin/docs/{slug} - renders one embedded markdown guide.
func (h *DocsHandler) Guide(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	if !isValidDocsSlug(slug) {
		http.NotFound(w, r)
		return
	}

	content, err := fs.ReadFile(h.docsFS, slug+".md")
	if err != nil {
		http.NotFound(w, r)
		return
	}

	var buf bytes.Buffer
	if err := goldmark.Convert(content, &buf); err != nil {
		logAndInternalError(w, "rendering markdown guide", "slug", slug, "error", err)
		return
	}

	title := slugToTitle(slug)
	if err := h.renderer.Render(w, r, "admin/docs_guide", render.TemplateData{
		Title: title,
		Data: DocsGuideData{
			Title:   title,
			Content: template.HTML(buf.String()), //nolint:gosec // trusted embedded markdown
		},
	}); err != nil {
		logAndInternalError(w, "rendering guide page", "error", err)
	}
}

// isValidDocsSlug validates that a slug contains only safe characters.
func isValidDocsSlug(slug string) bool {
	if slug == "" {
		return false
	}
	for _, c := range slug {
		if !((c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9') || c == '-' || c == '_') {
			return false
		}
	}
	return true
}

// slugToTitle converts a filename slug to a human-readable title.
func slugToTitle(slug string) string {
	title := strings.ReplaceAll(slug, "-", " ")
	title = strings.ReplaceAll(title, "_", " ")

	words := strings.Fields(title)
	for idx, word := range words {
		if word != "" {
			words[idx] = strings.ToUpper(word[:1]) + word[1:]
		}
	}
	return strings.Join(words, " ")
}

// listGuides scans the embedded docs and returns available guides.
func (h *DocsHandler) listGuides() []DocsGuide {
	entries, err := fs.ReadDir(h.docsFS, ".")
	if err != nil {
		return nil
	}

	var guides []DocsGuide
	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".md") {
			continue
		}
		slug := strings.TrimSuffix(name, ".md")
		guides = append(guides, DocsGuide{Slug: slug, Title: slugToTitle(slug)})
	}

	sort.Slice(guides, func(i, j int) bool {
		return guides[i].Title < guides[j].Title
	})

	return guides
}

// getSystemInfo builds system information from runtime and config.
func (h *DocsHandler) getSystemInfo() DocsSystemInfo {
	cacheType := "Memory"
	if h.cfg.UseRedisCache() {
		cacheType = "Redis"
	}

	ver, commit, buildTime := "dev", "unknown", "unknown"
	if h.versionInfo != nil {
		ver = h.versionInfo.Version
		commit = h.versionInfo.GitCommit
		buildTime = h.versionInfo.BuildTime
	}

	return DocsSystemInfo{
		Version:       ver,
		GitCommit:     commit,
		BuildTime:     buildTime,
		GoVersion:     runtime.Version(),
		Environment:   h.cfg.Env,
		ServerPort:    h.cfg.ServerPort,
		DBPath:        h.cfg.DBPath,
		RemoteEnabled: h.cfg.RemoteEnabled(),
		CacheType:     cacheType,
		Uptime:        time.Since(h.startTime).Round(time.Second).String(),
	}
}
