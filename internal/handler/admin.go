// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package handler

import (
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/olegiv/olp-go/internal/analytics"
	"github.com/olegiv/olp-go/internal/config"
	"github.com/olegiv/olp-go/internal/imaging"
	"github.com/olegiv/olp-go/internal/model"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/sync"
	"github.com/olegiv/olp-go/internal/util"
)

// dashboardChartDays is how many days of traffic the dashboard chart shows.
const dashboardChartDays = 14

// AdminHandler handles the admin panel: dashboard, content editing, uploads,
// and manual remote sync.
type AdminHandler struct {
	sy       *sync.Synchronizer
	renderer *render.Renderer
	cfg      *config.Config
}

// NewAdminHandler creates a new AdminHandler.
func NewAdminHandler(sy *sync.Synchronizer, renderer *render.Renderer, cfg *config.Config) *AdminHandler {
	return &AdminHandler{sy: sy, renderer: renderer, cfg: cfg}
}

// DashboardData holds data for the admin dashboard.
type DashboardData struct {
	TotalVisits   int
	UniqueVisits  int
	VisitsToday   int
	LastReset     string
	DailySeries   []analytics.DayCount
	RemoteEnabled bool
	Revision      int64
}

// notReady serves the loading page while the content document is still being
// resolved. Admin sessions persist across restarts, so the panel can be hit
// during startup just like the public page.
func (h *AdminHandler) notReady(w http.ResponseWriter, r *http.Request) bool {
	if h.sy.Ready() {
		return false
	}
	if err := h.renderer.RenderStatus(w, r, "frontend/loading", http.StatusServiceUnavailable, render.TemplateData{
		Title: "Loading",
	}); err != nil {
		logAndInternalError(w, "rendering loading page", "error", err)
	}
	return true
}

// Dashboard handles GET /admin - shows visit statistics.
func (h *AdminHandler) Dashboard(w http.ResponseWriter, r *http.Request) {
	if h.notReady(w, r) {
		return
	}

	doc := h.sy.Current()
	today := time.Now().Format(analytics.DateFormat)

	data := DashboardData{
		TotalVisits:   doc.Analytics.TotalVisits,
		UniqueVisits:  doc.Analytics.UniqueVisits,
		VisitsToday:   doc.Analytics.DailyStats[today],
		LastReset:     doc.Analytics.LastReset,
		DailySeries:   analytics.DailySeries(doc, dashboardChartDays, time.Now()),
		RemoteEnabled: h.cfg.RemoteEnabled(),
		Revision:      h.sy.Revision(),
	}

	if err := h.renderer.Render(w, r, "admin/dashboard", render.TemplateData{
		Title: "Dashboard",
		Data:  data,
	}); err != nil {
		logAndInternalError(w, "rendering dashboard", "error", err)
	}
}

// ContentData holds data for the content editor page.
type ContentData struct {
	Doc *model.ContentDocument
}

// Content handles GET /admin/content - shows the section editor forms.
func (h *AdminHandler) Content(w http.ResponseWriter, r *http.Request) {
	if h.notReady(w, r) {
		return
	}

	if err := h.renderer.Render(w, r, "admin/content", render.TemplateData{
		Title: "Edit Content",
		Data:  ContentData{Doc: h.sy.Current()},
	}); err != nil {
		logAndInternalError(w, "rendering content editor", "error", err)
	}
}

// apply clones the current document, lets mutate edit the clone, and hands it
// to the synchronizer. All section update handlers funnel through here.
func (h *AdminHandler) apply(w http.ResponseWriter, r *http.Request, section string, mutate func(doc *model.ContentDocument)) {
	if h.notReady(w, r) {
		return
	}

	doc := h.sy.Current().Clone()
	mutate(doc)

	if err := h.sy.Update(r.Context(), doc); err != nil {
		slog.Error("content update rejected", "section", section, "error", err)
		flashError(w, r, h.renderer, redirectContent, "Saving changes failed")
		return
	}

	slog.Info("content updated", "section", section)
	flashSuccess(w, r, h.renderer, redirectContent, "Changes saved")
}

// UpdateBranding handles POST /admin/content/branding.
func (h *AdminHandler) UpdateBranding(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "branding", func(doc *model.ContentDocument) {
		doc.Branding.BrandName = util.SanitizeText(r.FormValue("brand_name"))
		doc.Branding.AccentColor = util.SanitizeText(r.FormValue("accent_color"))
		doc.Branding.LogoURL = strings.TrimSpace(r.FormValue("logo_url"))
		doc.Branding.FaviconURL = strings.TrimSpace(r.FormValue("favicon_url"))
	})
}

// UpdateHero handles POST /admin/content/hero.
func (h *AdminHandler) UpdateHero(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "hero", func(doc *model.ContentDocument) {
		doc.Hero.Headline = util.SanitizeText(r.FormValue("headline"))
		doc.Hero.Subheadline = util.SanitizeText(r.FormValue("subheadline"))
		doc.Hero.CTAText = util.SanitizeText(r.FormValue("cta_text"))
		doc.Hero.ImageURL = strings.TrimSpace(r.FormValue("image_url"))
		doc.Hero.Visible = formBool(r, "visible")
		doc.Hero.BadgeWarranty = util.SanitizeText(r.FormValue("badge_warranty"))
		doc.Hero.BadgeRating = util.SanitizeText(r.FormValue("badge_rating"))
		doc.Hero.BadgeTestimonial = util.SanitizeText(r.FormValue("badge_testimonial"))
		doc.Hero.BadgeTrust = util.SanitizeText(r.FormValue("badge_trust"))
		doc.Hero.TrustBadges = formTextList(r, "trust_badge")
	})
}

// UpdatePricing handles POST /admin/content/pricing. Package rows arrive as
// parallel form value slices; rows with an empty name are dropped, which is
// how the editor deletes a package.
func (h *AdminHandler) UpdatePricing(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "pricing", func(doc *model.ContentDocument) {
		doc.Pricing.SectionTitle = util.SanitizeText(r.FormValue("section_title"))
		doc.Pricing.SectionSubtitle = util.SanitizeText(r.FormValue("section_subtitle"))
		doc.Pricing.Visible = formBool(r, "visible")

		names := r.PostForm["pkg_name"]
		packages := make([]model.Package, 0, len(names))
		for i, rawName := range names {
			name := util.SanitizeText(rawName)
			if name == "" {
				continue
			}
			packages = append(packages, model.Package{
				ID:              itemID(formAt(r, "pkg_id", i), name),
				Name:            name,
				StepPoles:       formIntAt(r, "pkg_step_poles", i),
				WaktuPengerjaan: util.SanitizeText(formAt(r, "pkg_waktu", i)),
				Ketahanan:       util.SanitizeText(formAt(r, "pkg_ketahanan", i)),
				Proteksi:        util.SanitizeText(formAt(r, "pkg_proteksi", i)),
				Garansi:         util.SanitizeText(formAt(r, "pkg_garansi", i)),
				RetakRambut:     formAt(r, "pkg_retak_rambut", i) == "true",
				Harga:           formInt64At(r, "pkg_harga", i),
				IsBestSeller:    formAt(r, "pkg_best_seller", i) == "true",
				Visible:         formAt(r, "pkg_visible", i) == "true",
			})
		}
		doc.Pricing.Packages = packages
	})
}

// UpdateFeatures handles POST /admin/content/features.
func (h *AdminHandler) UpdateFeatures(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "features", func(doc *model.ContentDocument) {
		doc.Features.SectionTitle = util.SanitizeText(r.FormValue("section_title"))
		doc.Features.Visible = formBool(r, "visible")

		titles := r.PostForm["feature_title"]
		items := make([]model.Feature, 0, len(titles))
		for i, rawTitle := range titles {
			title := util.SanitizeText(rawTitle)
			if title == "" {
				continue
			}
			items = append(items, model.Feature{
				ID:          itemID(formAt(r, "feature_id", i), title),
				Title:       title,
				Description: util.SanitizeText(formAt(r, "feature_description", i)),
				Icon:        util.SanitizeText(formAt(r, "feature_icon", i)),
			})
		}
		doc.Features.Items = items
	})
}

// UpdateProcess handles POST /admin/content/process. Steps are renumbered
// sequentially in submission order.
func (h *AdminHandler) UpdateProcess(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "process", func(doc *model.ContentDocument) {
		doc.Process.SectionTitle = util.SanitizeText(r.FormValue("section_title"))
		doc.Process.Visible = formBool(r, "visible")

		titles := r.PostForm["step_title"]
		steps := make([]model.Step, 0, len(titles))
		for i, rawTitle := range titles {
			title := util.SanitizeText(rawTitle)
			if title == "" {
				continue
			}
			steps = append(steps, model.Step{
				ID:          itemID(formAt(r, "step_id", i), title),
				Number:      len(steps) + 1,
				Title:       title,
				Description: util.SanitizeText(formAt(r, "step_description", i)),
			})
		}
		doc.Process.Steps = steps
	})
}

// UpdateGallery handles POST /admin/content/gallery. Image rows arrive as
// parallel form value slices; rows with an empty URL are dropped.
func (h *AdminHandler) UpdateGallery(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "gallery", func(doc *model.ContentDocument) {
		doc.Gallery.SectionTitle = util.SanitizeText(r.FormValue("section_title"))
		doc.Gallery.SectionSubtitle = util.SanitizeText(r.FormValue("section_subtitle"))
		doc.Gallery.Visible = formBool(r, "visible")

		urls := r.PostForm["img_url"]
		images := make([]model.GalleryImage, 0, len(urls))
		for i, rawURL := range urls {
			imgURL := strings.TrimSpace(rawURL)
			if imgURL == "" {
				continue
			}
			alt := util.SanitizeText(formAt(r, "img_alt", i))
			images = append(images, model.GalleryImage{
				ID:  itemID(formAt(r, "img_id", i), alt),
				URL: imgURL,
				Alt: alt,
			})
		}
		doc.Gallery.Images = images
	})
}

// UpdateTestimonials handles POST /admin/content/testimonials. Rows with an
// empty name are dropped; ratings are clamped to 0-5.
func (h *AdminHandler) UpdateTestimonials(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "testimonials", func(doc *model.ContentDocument) {
		doc.Testimonials.SectionTitle = util.SanitizeText(r.FormValue("section_title"))
		doc.Testimonials.SectionSubtitle = util.SanitizeText(r.FormValue("section_subtitle"))
		doc.Testimonials.Visible = formBool(r, "visible")

		names := r.PostForm["review_name"]
		items := make([]model.Testimonial, 0, len(names))
		for i, rawName := range names {
			name := util.SanitizeText(rawName)
			if name == "" {
				continue
			}
			rating := formIntAt(r, "review_rating", i)
			if rating < 0 {
				rating = 0
			} else if rating > 5 {
				rating = 5
			}
			items = append(items, model.Testimonial{
				ID:        itemID(formAt(r, "review_id", i), name),
				Name:      name,
				Role:      util.SanitizeText(formAt(r, "review_role", i)),
				Content:   util.SanitizeText(formAt(r, "review_content", i)),
				Rating:    rating,
				AvatarURL: strings.TrimSpace(formAt(r, "review_avatar_url", i)),
			})
		}
		doc.Testimonials.Items = items
	})
}

// UpdateCTA handles POST /admin/content/cta.
func (h *AdminHandler) UpdateCTA(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "cta", func(doc *model.ContentDocument) {
		doc.CTA.Headline = util.SanitizeText(r.FormValue("headline"))
		doc.CTA.Subheadline = util.SanitizeText(r.FormValue("subheadline"))
		doc.CTA.ButtonText = util.SanitizeText(r.FormValue("button_text"))
		doc.CTA.WhatsAppNumber = util.SanitizeText(r.FormValue("whatsapp_number"))
		doc.CTA.Visible = formBool(r, "visible")
	})
}

// UpdateFooter handles POST /admin/content/footer.
func (h *AdminHandler) UpdateFooter(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "footer", func(doc *model.ContentDocument) {
		doc.Footer.Tagline = util.SanitizeText(r.FormValue("tagline"))
		doc.Footer.Contact = util.SanitizeText(r.FormValue("contact"))
		doc.Footer.Address = util.SanitizeText(r.FormValue("address"))
		doc.Footer.Visible = formBool(r, "visible")
	})
}

// UpdateSettings handles POST /admin/content/settings - admin password and
// entry button visibility. An empty password field keeps the current one.
func (h *AdminHandler) UpdateSettings(w http.ResponseWriter, r *http.Request) {
	if !parseFormOrRedirect(w, r, h.renderer, redirectContent) {
		return
	}
	h.apply(w, r, "settings", func(doc *model.ContentDocument) {
		if pw := r.FormValue("password"); pw != "" {
			doc.AdminConfig.Password = pw
		}
		doc.AdminConfig.ShowAdminButton = formBool(r, "show_admin_button")
	})
}

// Upload handles POST /admin/upload - converts an uploaded image to a data
// URL and stores it in the target branding or hero field.
func (h *AdminHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.notReady(w, r) {
		return
	}

	if err := r.ParseMultipartForm(imaging.MaxUploadBytes); err != nil {
		flashError(w, r, h.renderer, redirectContent, "Upload too large or malformed")
		return
	}

	target := r.FormValue("target")
	if target != "logo" && target != "favicon" && target != "hero" {
		flashError(w, r, h.renderer, redirectContent, "Unknown upload target")
		return
	}

	file, _, err := r.FormFile("image")
	if err != nil {
		flashError(w, r, h.renderer, redirectContent, "No image file provided")
		return
	}
	defer func() { _ = file.Close() }()

	dataURL, err := imaging.DataURL(file, imaging.MaxWidth)
	if err != nil {
		slog.Warn("image upload rejected", "target", target, "error", err)
		flashError(w, r, h.renderer, redirectContent, "Could not process image")
		return
	}

	h.apply(w, r, "upload:"+target, func(doc *model.ContentDocument) {
		switch target {
		case "logo":
			doc.Branding.LogoURL = dataURL
		case "favicon":
			doc.Branding.FaviconURL = dataURL
		case "hero":
			doc.Hero.ImageURL = dataURL
		}
	})
}

// SyncNow handles POST /admin/sync - pushes the current document to the
// remote store immediately, bypassing the debounce.
func (h *AdminHandler) SyncNow(w http.ResponseWriter, r *http.Request) {
	if err := h.sy.SyncNow(r.Context()); err != nil {
		slog.Warn("manual sync failed", "error", err)
		flashError(w, r, h.renderer, redirectAdmin, "Sync failed: "+err.Error())
		return
	}
	flashSuccess(w, r, h.renderer, redirectAdmin, "Content synchronized")
}

// ResetAnalytics handles POST /admin/analytics/reset - zeroes all visit
// counters and stamps a new reset time.
func (h *AdminHandler) ResetAnalytics(w http.ResponseWriter, r *http.Request) {
	h.apply(w, r, "analytics-reset", func(doc *model.ContentDocument) {
		doc.Analytics = model.Analytics{
			DailyStats: make(map[string]int),
			LastReset:  time.Now().UTC().Format(time.RFC3339),
		}
	})
}

// itemID keeps an existing item ID, derives one from the display name for new
// rows, and falls back to a UUID when the name yields an empty slug.
func itemID(existing, name string) string {
	if existing != "" {
		return existing
	}
	if slug := util.Slugify(name); slug != "" {
		return slug
	}
	return uuid.NewString()
}

// formBool reads a checkbox value.
func formBool(r *http.Request, key string) bool {
	v := r.FormValue(key)
	return v == "on" || v == "true" || v == "1"
}

// formAt reads the i-th repeated form value for a key, or "".
func formAt(r *http.Request, key string, i int) string {
	vals := r.PostForm[key]
	if i < 0 || i >= len(vals) {
		return ""
	}
	return vals[i]
}

// formIntAt parses the i-th repeated form value as an int, defaulting to 0.
func formIntAt(r *http.Request, key string, i int) int {
	n, _ := strconv.Atoi(strings.TrimSpace(formAt(r, key, i)))
	return n
}

// formInt64At parses the i-th repeated form value as an int64, defaulting to 0.
func formInt64At(r *http.Request, key string, i int) int64 {
	n, _ := strconv.ParseInt(strings.TrimSpace(formAt(r, key, i)), 10, 64)
	return n
}

// formTextList reads all repeated values for a key, sanitized, with empties
// dropped.
func formTextList(r *http.Request, key string) []string {
	var out []string
	for _, v := range r.PostForm[key] {
		if s := util.SanitizeText(v); s != "" {
			out = append(out, s)
		}
	}
	return out
}
