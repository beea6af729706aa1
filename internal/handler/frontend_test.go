package handler

import (
	"context"
	"net/http"
	"strings"
	"testing"
)

func TestHomeShowsLoadingPageUntilReady(t *testing.T) {
	env := newTestEnv(t, false)
	h := NewFrontendHandler(env.sy, env.gate, env.renderer, env.cache)

	resp := env.get(t, h.Home, cookieJar{}, "/")
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Loading") {
		t.Error("loading page should say it is loading")
	}
}

func TestHomeRendersLanding(t *testing.T) {
	env := newTestEnv(t, true)
	h := NewFrontendHandler(env.sy, env.gate, env.renderer, env.cache)

	resp := env.get(t, h.Home, cookieJar{}, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}

	body := readBody(t, resp)
	if !strings.Contains(body, "Heppimobi") {
		t.Error("landing page should carry the brand name")
	}
	if !strings.Contains(body, "Hasil Pengerjaan Kami") {
		t.Error("landing page should render the gallery section")
	}
	if !strings.Contains(body, "Budi Santoso") {
		t.Error("landing page should render the testimonials section")
	}
	if strings.Contains(body, "admin123") {
		t.Error("the admin password must never reach the rendered page")
	}
	if !strings.Contains(body, "wa.me/628123456789") {
		t.Error("the CTA should link to WhatsApp")
	}
	// Default config shows the discreet admin entry link.
	if !strings.Contains(body, "/?admin=true") {
		t.Error("the admin entry link should render when enabled")
	}
}

func TestHomeCachesPublicRenders(t *testing.T) {
	env := newTestEnv(t, true)
	h := NewFrontendHandler(env.sy, env.gate, env.renderer, env.cache)

	env.get(t, h.Home, cookieJar{}, "/")

	if _, ok := env.cache.Get(context.Background(), "page:1"); !ok {
		t.Error("a public render should populate the page cache")
	}

	// The cached copy serves subsequent public visits byte for byte.
	resp := env.get(t, h.Home, cookieJar{}, "/")
	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want 200 from cache", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); !strings.Contains(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
}

func TestHomeBypassesCacheInAdminMode(t *testing.T) {
	env := newTestEnv(t, true)
	h := NewFrontendHandler(env.sy, env.gate, env.renderer, env.cache)

	jar := cookieJar{}
	env.enterAdminMode(t, jar)

	resp := env.get(t, h.Home, jar, "/")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if _, ok := env.cache.Get(context.Background(), "page:1"); ok {
		t.Error("admin-mode renders must not populate the shared page cache")
	}
}

func TestHomeShowsAdminBarWhenAuthenticated(t *testing.T) {
	env := newTestEnv(t, true)
	h := NewFrontendHandler(env.sy, env.gate, env.renderer, env.cache)

	jar := cookieJar{}
	env.loginAdmin(t, jar)

	resp := env.get(t, h.Home, jar, "/")
	if body := readBody(t, resp); !strings.Contains(body, "admin-bar") {
		t.Error("authenticated visits should see the admin bar")
	}
}
