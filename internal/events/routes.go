package events

import (
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
)

// maxBeaconBytes caps the size of a client beacon body.
const maxBeaconBytes = 16 << 10

// RegisterRoutes mounts event endpoints under /api/events on the given router.
func RegisterRoutes(r chi.Router, store *Store) {
	r.Route("/api/events", func(r chi.Router) {
		r.Post("/", handleRecord(store))
		r.Get("/", handleQuery(store))
	})
}

// beacon is the body accepted from browsers. Clients may only submit
// client events.
type beacon struct {
	SessionID string            `json:"session_id"`
	Path      string            `json:"path"`
	Locale    string            `json:"locale"`
	Version   string            `json:"version"`
	Payload   map[string]string `json:"payload"`
}

func handleRecord(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var b beacon
		if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBeaconBytes)).Decode(&b); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid request body"})
			return
		}

		e, err := store.Record(r.Context(), Event{
			Type:      TypeClient,
			SessionID: b.SessionID,
			Path:      b.Path,
			Locale:    b.Locale,
			Version:   b.Version,
			Payload:   b.Payload,
		})
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}

		writeJSON(w, http.StatusCreated, e)
	}
}

func handleQuery(store *Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()

		filter := Filter{
			SessionID: q.Get("session"),
			Path:      q.Get("path"),
			Limit:     100,
		}
		if v := q.Get("type"); v != "" {
			if !Type(v).Valid() {
				writeJSON(w, http.StatusBadRequest, map[string]string{"error": "unknown event type"})
				return
			}
			filter.Type = Type(v)
		}
		if v := q.Get("since"); v != "" {
			if t, err := time.Parse(time.RFC3339, v); err == nil {
				filter.Since = &t
			}
		}
		if v := q.Get("limit"); v != "" {
			if n, err := strconv.Atoi(v); err == nil && n > 0 && n <= 1000 {
				filter.Limit = n
			}
		}

		list, err := store.Query(r.Context(), filter)
		if err != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
			return
		}
		if list == nil {
			list = []Event{}
		}

		writeJSON(w, http.StatusOK, list)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
