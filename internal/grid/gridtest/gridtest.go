// Package gridtest provides an in-memory backend and a request harness for
// exercising entity screens without the ERP API.
package gridtest

import (
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"

	"github.com/odyssey-erp/odyssey-admin/internal/api"
	"github.com/odyssey-erp/odyssey-admin/internal/grid"
	"github.com/odyssey-erp/odyssey-admin/internal/lookup"
	"github.com/odyssey-erp/odyssey-admin/internal/shared"
	"github.com/odyssey-erp/odyssey-admin/internal/state"
	"github.com/odyssey-erp/odyssey-admin/internal/view"
)

// Memory is an in-memory grid.Backend. Cursors are decimal offsets.
type Memory[T any, In any] struct {
	mu    sync.Mutex
	items []T
	id    func(T) string
	build func(id string, in In) T
	seq   int

	// Err, when set, fails every call.
	Err        error
	WriteErr   error
	LastParams api.ListParams
	Created    []In
}

// NewMemory seeds a backend. build turns a payload into a stored record.
func NewMemory[T any, In any](id func(T) string, build func(id string, in In) T, items ...T) *Memory[T, In] {
	return &Memory[T, In]{items: items, id: id, build: build, seq: len(items)}
}

// Items returns a copy of the stored records.
func (m *Memory[T, In]) Items() []T {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]T(nil), m.items...)
}

func (m *Memory[T, In]) List(ctx context.Context, params api.ListParams) (api.Page[T], error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastParams = params
	if m.Err != nil {
		return api.Page[T]{}, m.Err
	}
	offset := 0
	if params.Cursor != "" {
		n, err := strconv.Atoi(params.Cursor)
		if err != nil || n > len(m.items) {
			return api.Page[T]{}, &api.Error{Status: http.StatusUnprocessableEntity, Message: "bad cursor"}
		}
		offset = n
	}
	limit := params.Limit
	if limit <= 0 {
		limit = api.DefaultLimit
	}
	end := min(offset+limit, len(m.items))
	page := api.Page[T]{Items: append([]T(nil), m.items[offset:end]...)}
	if end < len(m.items) {
		page.NextCursor = strconv.Itoa(end)
	}
	return page, nil
}

// All returns up to max records, ignoring filters.
func (m *Memory[T, In]) All(ctx context.Context, params api.ListParams, max int) ([]T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.LastParams = params
	if m.Err != nil {
		return nil, m.Err
	}
	return append([]T(nil), m.items[:min(max, len(m.items))]...), nil
}

func (m *Memory[T, In]) Get(ctx context.Context, id string) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.Err != nil {
		return zero, m.Err
	}
	for _, item := range m.items {
		if m.id(item) == id {
			return item, nil
		}
	}
	return zero, &api.Error{Status: http.StatusNotFound, Message: "not found"}
}

func (m *Memory[T, In]) Create(ctx context.Context, in In) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if err := m.writeErr(); err != nil {
		return zero, err
	}
	m.seq++
	item := m.build(strconv.Itoa(m.seq), in)
	m.items = append(m.items, item)
	m.Created = append(m.Created, in)
	return item, nil
}

func (m *Memory[T, In]) Update(ctx context.Context, id string, in In) (T, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if err := m.writeErr(); err != nil {
		return zero, err
	}
	for i, item := range m.items {
		if m.id(item) == id {
			m.items[i] = m.build(id, in)
			return m.items[i], nil
		}
	}
	return zero, &api.Error{Status: http.StatusNotFound, Message: "not found"}
}

func (m *Memory[T, In]) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.writeErr(); err != nil {
		return err
	}
	for i, item := range m.items {
		if m.id(item) == id {
			m.items = append(m.items[:i], m.items[i+1:]...)
			return nil
		}
	}
	return &api.Error{Status: http.StatusNotFound, Message: "not found"}
}

func (m *Memory[T, In]) writeErr() error {
	if m.WriteErr != nil {
		return m.WriteErr
	}
	return m.Err
}

// Recorder collects activity entries.
type Recorder struct {
	mu      sync.Mutex
	entries []shared.Activity
}

func (r *Recorder) Record(ctx context.Context, entry shared.Activity) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, entry)
	return nil
}

// Entries returns the recorded activity.
func (r *Recorder) Entries() []shared.Activity {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]shared.Activity(nil), r.entries...)
}

// Harness wires grid dependencies against miniredis and the embedded templates.
type Harness struct {
	Deps     grid.Deps
	Redis    *miniredis.Miniredis
	Activity *Recorder
	Lookups  *lookup.Service
	State    *state.Store
	Session  *shared.Session
}

// New builds a harness whose session belongs to a user holding perms.
func New(t *testing.T, perms ...string) *Harness {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	engine, err := view.NewEngine(view.Options{})
	if err != nil {
		t.Fatalf("parse templates: %v", err)
	}
	t.Cleanup(func() { _ = engine.Close() })

	logger := slog.New(slog.NewTextHandler(testWriter{t}, nil))
	rec := &Recorder{}
	lookups := lookup.NewService(client, time.Minute, logger)
	store := state.NewStore(client, time.Hour, state.DefaultLimit)

	sess := &shared.Session{ID: "sid-test"}
	sess.SetPrincipal(shared.Principal{ID: "u-1", Name: "Test User", Email: "test@example.com", Permissions: perms})

	return &Harness{
		Deps: grid.Deps{
			Logger:    logger,
			Renderer:  view.Renderer{Engine: engine, CSRF: shared.NewCSRFManager("test-secret"), Logger: logger},
			State:     store,
			Lookups:   lookups,
			Activity:  rec,
			Validator: grid.NewValidator(),
		},
		Redis:    mr,
		Activity: rec,
		Lookups:  lookups,
		State:    store,
		Session:  sess,
	}
}

// Router mounts a screen under base.
func (h *Harness) Router(base string, mount func(chi.Router)) http.Handler {
	r := chi.NewRouter()
	r.Route(base, mount)
	return r
}

// Do sends a request carrying the harness session. A non-nil form is posted url-encoded.
func (h *Harness) Do(handler http.Handler, method, target string, form url.Values) *httptest.ResponseRecorder {
	var req *http.Request
	if form != nil {
		req = httptest.NewRequest(method, target, strings.NewReader(form.Encode()))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	req = req.WithContext(shared.ContextWithSession(req.Context(), h.Session))
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

// Follow sends a GET and, when it answers 303, a GET to the new location.
func (h *Harness) Follow(handler http.Handler, target string) *httptest.ResponseRecorder {
	rec := h.Do(handler, http.MethodGet, target, nil)
	if rec.Code != http.StatusSeeOther {
		return rec
	}
	return h.Do(handler, http.MethodGet, rec.Header().Get("Location"), nil)
}

// Flash pops the pending flash message text.
func (h *Harness) Flash() string {
	if f := h.Session.PopFlash(); f != nil {
		return f.Message
	}
	return ""
}

type testWriter struct{ t *testing.T }

func (w testWriter) Write(p []byte) (int, error) {
	w.t.Log(strings.TrimRight(string(p), "\n"))
	return len(p), nil
}
