package events

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/ziadkadry99/docshell/internal/db"
)

func setupStore(t *testing.T) *Store {
	t.Helper()

	database, err := db.OpenMemory()
	if err != nil {
		t.Fatalf("opening test db: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	return NewStore(database)
}

func TestRecordAndQuery(t *testing.T) {
	store := setupStore(t)
	ctx := context.Background()

	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	for i, path := range []string{"/en", "/en/get-started", "/ja"} {
		_, err := store.Record(ctx, Event{
			Type:      TypePage,
			SessionID: "s1",
			Path:      path,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatalf("Record: %v", err)
		}
	}
	if _, err := store.Record(ctx, Event{Type: TypeExperiment, SessionID: "s2", Payload: map[string]string{"experiment": "ai_search", "variation": "treatment"}}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	pages, err := store.Query(ctx, Filter{Type: TypePage})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(pages) != 3 {
		t.Fatalf("expected 3 page events, got %d", len(pages))
	}
	if pages[0].Path != "/ja" {
		t.Errorf("expected newest first, got %q", pages[0].Path)
	}
	if !pages[2].CreatedAt.Equal(base) {
		t.Errorf("created_at = %v, want %v", pages[2].CreatedAt, base)
	}

	exp, err := store.Query(ctx, Filter{SessionID: "s2"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(exp) != 1 || exp[0].Payload["variation"] != "treatment" {
		t.Errorf("unexpected experiment events: %+v", exp)
	}

	since := base.Add(90 * time.Second)
	recent, err := store.Query(ctx, Filter{Type: TypePage, Since: &since})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(recent) != 1 {
		t.Errorf("expected 1 event since %v, got %d", since, len(recent))
	}

	limited, err := store.Query(ctx, Filter{Limit: 2})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("expected 2 events with limit, got %d", len(limited))
	}
}

func TestRecordRejectsUnknownType(t *testing.T) {
	store := setupStore(t)
	if _, err := store.Record(context.Background(), Event{Type: "bogus"}); err == nil {
		t.Error("expected error for unknown type")
	}
}

func TestRecordAssignsID(t *testing.T) {
	store := setupStore(t)
	e, err := store.Record(context.Background(), Event{Type: TypeClient})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if e.ID == "" {
		t.Error("expected generated ID")
	}
	if e.CreatedAt.IsZero() {
		t.Error("expected CreatedAt to be set")
	}
}

func TestTrackerInitializeEvents(t *testing.T) {
	store := setupStore(t)

	tracker := NewTracker(store, "sess-1", "/en/get-started", "en", "free-pro-team@latest").
		WithPayload(map[string]string{"staging": "pine"})
	if err := tracker.InitializeEvents(); err != nil {
		t.Fatalf("InitializeEvents: %v", err)
	}

	list, err := store.Query(context.Background(), Filter{SessionID: "sess-1"})
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(list) != 1 {
		t.Fatalf("expected 1 event, got %d", len(list))
	}
	got := list[0]
	if got.Type != TypePage || got.Path != "/en/get-started" || got.Version != "free-pro-team@latest" {
		t.Errorf("unexpected event: %+v", got)
	}
	if got.Payload["staging"] != "pine" {
		t.Errorf("payload = %v", got.Payload)
	}
}

func TestTrackerWithoutStore(t *testing.T) {
	if err := NewTracker(nil, "s", "/", "en", "").InitializeEvents(); err == nil {
		t.Error("expected error without a store")
	}
}

func setupRouter(store *Store) chi.Router {
	r := chi.NewRouter()
	RegisterRoutes(r, store)
	return r
}

func TestPostBeacon(t *testing.T) {
	store := setupStore(t)
	r := setupRouter(store)

	body := `{"session_id":"abc","path":"/en","payload":{"action":"copy_code"}}`
	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader(body))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d: %s", w.Code, w.Body.String())
	}

	var e Event
	if err := json.NewDecoder(w.Body).Decode(&e); err != nil {
		t.Fatalf("decoding event: %v", err)
	}
	if e.Type != TypeClient {
		t.Errorf("beacon type = %q, want client", e.Type)
	}
	if e.Payload["action"] != "copy_code" {
		t.Errorf("payload = %v", e.Payload)
	}
}

func TestPostBeaconInvalidBody(t *testing.T) {
	r := setupRouter(setupStore(t))

	req := httptest.NewRequest(http.MethodPost, "/api/events", strings.NewReader("{"))
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestQueryEndpoint(t *testing.T) {
	store := setupStore(t)
	r := setupRouter(store)
	ctx := context.Background()

	store.Record(ctx, Event{Type: TypePage, SessionID: "a", Path: "/en"})
	store.Record(ctx, Event{Type: TypeFeature, SessionID: "a", Path: "/en"})

	req := httptest.NewRequest(http.MethodGet, "/api/events?type=feature", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	var list []Event
	if err := json.NewDecoder(w.Body).Decode(&list); err != nil {
		t.Fatalf("decoding: %v", err)
	}
	if len(list) != 1 || list[0].Type != TypeFeature {
		t.Errorf("unexpected events: %+v", list)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events?type=nope", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400 for unknown type, got %d", w.Code)
	}

	req = httptest.NewRequest(http.MethodGet, "/api/events?session=missing", nil)
	w = httptest.NewRecorder()
	r.ServeHTTP(w, req)
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("expected empty list, got %s", w.Body.String())
	}
}
