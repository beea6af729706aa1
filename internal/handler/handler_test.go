package handler

import (
	"context"
	"io"
	"io/fs"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/alexedwards/scs/v2"

	"github.com/olegiv/olp-go/internal/model"
	"github.com/olegiv/olp-go/internal/pagecache"
	"github.com/olegiv/olp-go/internal/render"
	"github.com/olegiv/olp-go/internal/session"
	"github.com/olegiv/olp-go/internal/sync"
	"github.com/olegiv/olp-go/web"
)

// fakeLocal is an in-memory sync.LocalStore.
type fakeLocal struct {
	doc *model.ContentDocument
}

func (f *fakeLocal) Load(_ context.Context) (*model.ContentDocument, error) {
	return f.doc, nil
}

func (f *fakeLocal) Save(_ context.Context, doc *model.ContentDocument) error {
	f.doc = doc
	return nil
}

// fakeDevices is an in-memory session.DeviceStore.
type fakeDevices struct {
	marked map[string]bool
}

func newFakeDevices() *fakeDevices {
	return &fakeDevices{marked: make(map[string]bool)}
}

func (f *fakeDevices) MarkDeviceAdmin(_ context.Context, deviceID string) error {
	f.marked[deviceID] = true
	return nil
}

func (f *fakeDevices) IsDeviceAdmin(_ context.Context, deviceID string) (bool, error) {
	return f.marked[deviceID], nil
}

// testEnv wires a renderer over the real embedded templates, a memory-backed
// session, and a synchronizer on fake stores.
type testEnv struct {
	sy       *sync.Synchronizer
	gate     *session.Gate
	sm       *scs.SessionManager
	renderer *render.Renderer
	cache    pagecache.Cache
}

func newTestEnv(t *testing.T, start bool) *testEnv {
	t.Helper()

	sm := scs.New()
	gate := session.NewGate(sm, newFakeDevices(), true)

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		t.Fatalf("sub templates fs: %v", err)
	}
	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sm,
		IsDev:          true,
	})
	if err != nil {
		t.Fatalf("building renderer: %v", err)
	}

	sy := sync.New(sync.Config{Local: &fakeLocal{}, Debounce: time.Minute})
	if start {
		sy.Start(context.Background())
		t.Cleanup(sy.Close)
	}

	return &testEnv{
		sy:       sy,
		gate:     gate,
		sm:       sm,
		renderer: renderer,
		cache:    pagecache.New(pagecache.Config{TTL: time.Minute, MaxSize: 8}),
	}
}

// cookieJar accumulates cookies across requests, standing in for a browser.
type cookieJar map[string]*http.Cookie

func (j cookieJar) absorb(resp *http.Response) {
	for _, c := range resp.Cookies() {
		j[c.Name] = c
	}
}

// get runs a session-wrapped GET request.
func (e *testEnv) get(t *testing.T, h http.HandlerFunc, jar cookieJar, target string) *http.Response {
	t.Helper()

	r := httptest.NewRequest(http.MethodGet, target, nil)
	for _, c := range jar {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.sm.LoadAndSave(h).ServeHTTP(w, r)

	resp := w.Result()
	jar.absorb(resp)
	return resp
}

// post runs a session-wrapped form POST request.
func (e *testEnv) post(t *testing.T, h http.HandlerFunc, jar cookieJar, target string, form url.Values) *http.Response {
	t.Helper()

	r := httptest.NewRequest(http.MethodPost, target, strings.NewReader(form.Encode()))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	for _, c := range jar {
		r.AddCookie(c)
	}
	w := httptest.NewRecorder()
	e.sm.LoadAndSave(h).ServeHTTP(w, r)

	resp := w.Result()
	jar.absorb(resp)
	return resp
}

// enterAdminMode flips a session into login-pending state.
func (e *testEnv) enterAdminMode(t *testing.T, jar cookieJar) {
	t.Helper()
	e.get(t, func(w http.ResponseWriter, r *http.Request) {
		e.gate.RequestAdmin(r.Context())
	}, jar, "/")
}

// loginAdmin takes a session all the way to authenticated.
func (e *testEnv) loginAdmin(t *testing.T, jar cookieJar) {
	t.Helper()
	e.enterAdminMode(t, jar)
	e.get(t, func(w http.ResponseWriter, r *http.Request) {
		if err := e.gate.Authenticate(w, r); err != nil {
			t.Fatalf("Authenticate: %v", err)
		}
	}, jar, "/")
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	defer func() { _ = resp.Body.Close() }()
	b, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("reading body: %v", err)
	}
	return string(b)
}
