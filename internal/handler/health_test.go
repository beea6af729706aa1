package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"

	"github.com/olegiv/olp-go/internal/store"
)

func TestHealthEndpoints(t *testing.T) {
	env := newTestEnv(t, true)

	db, err := store.NewDB(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	h := NewHealthHandler(db, env.sy, env.cache, nil)

	w := httptest.NewRecorder()
	h.Health(w, httptest.NewRequest(http.MethodGet, "/health", nil))
	if w.Code != http.StatusOK {
		t.Fatalf("health status = %d, want 200", w.Code)
	}

	var status HealthStatus
	if err := json.Unmarshal(w.Body.Bytes(), &status); err != nil {
		t.Fatalf("decoding health response: %v", err)
	}
	if status.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", status.Status)
	}
	if status.Content.State != "ready" {
		t.Errorf("Content.State = %q, want ready", status.Content.State)
	}
	if status.Content.Revision != 1 {
		t.Errorf("Content.Revision = %d, want 1", status.Content.Revision)
	}
	if status.Checks["page_cache"].Message != "memory" {
		t.Errorf("page_cache backend = %q, want memory", status.Checks["page_cache"].Message)
	}

	w = httptest.NewRecorder()
	h.Liveness(w, httptest.NewRequest(http.MethodGet, "/health/live", nil))
	if w.Code != http.StatusOK {
		t.Errorf("liveness status = %d, want 200", w.Code)
	}

	w = httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusOK {
		t.Errorf("readiness status = %d, want 200", w.Code)
	}
}

func TestReadinessBeforeContentLoads(t *testing.T) {
	env := newTestEnv(t, false)

	db, err := store.NewDB(filepath.Join(t.TempDir(), "health.db"))
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	h := NewHealthHandler(db, env.sy, env.cache, nil)

	w := httptest.NewRecorder()
	h.Readiness(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
	if w.Code != http.StatusServiceUnavailable {
		t.Errorf("readiness status = %d, want 503 while loading", w.Code)
	}
}
