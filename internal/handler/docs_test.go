package handler

import (
	"io/fs"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/olegiv/olp-go/web"
)

func newDocsHandler(t *testing.T, env *testEnv) *DocsHandler {
	t.Helper()
	docsFS, err := fs.Sub(web.Docs, "docs")
	if err != nil {
		t.Fatalf("sub docs fs: %v", err)
	}
	return NewDocsHandler(env.renderer, testConfig(), docsFS, nil, time.Now())
}

func TestDocsOverviewListsGuides(t *testing.T) {
	env := newTestEnv(t, true)
	h := newDocsHandler(t, env)

	resp := env.get(t, h.Overview, cookieJar{}, "/admin/docs")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want 200", resp.StatusCode)
	}
	if body := readBody(t, resp); !strings.Contains(body, "Getting Started") {
		t.Error("overview should list the embedded guides")
	}
}

func TestDocsGuideRendersMarkdown(t *testing.T) {
	env := newTestEnv(t, true)
	h := newDocsHandler(t, env)

	router := chi.NewRouter()
	router.Get("/admin/docs/{slug}", func(w http.ResponseWriter, r *http.Request) {
		env.sm.LoadAndSave(http.HandlerFunc(h.Guide)).ServeHTTP(w, r)
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/docs/getting-started", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/docs/no-such-guide", nil))
	if w.Code != http.StatusNotFound {
		t.Errorf("status = %d, want 404 for a missing guide", w.Code)
	}
}

func TestSlugToTitle(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"getting-started", "Getting Started"},
		{"analytics", "Analytics"},
		{"multi_word_slug", "Multi Word Slug"},
	}
	for _, tt := range tests {
		if got := slugToTitle(tt.in); got != tt.want {
			t.Errorf("slugToTitle(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsValidDocsSlug(t *testing.T) {
	valid := []string{"getting-started", "a", "guide_2"}
	for _, s := range valid {
		if !isValidDocsSlug(s) {
			t.Errorf("isValidDocsSlug(%q) = false, want true", s)
		}
	}
	invalid := []string{"", "../etc/passwd", "a/b", "a.b"}
	for _, s := range invalid {
		if isValidDocsSlug(s) {
			t.Errorf("isValidDocsSlug(%q) = true, want false", s)
		}
	}
}
