package events

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/ziadkadry99/docshell/internal/db"
)

// timeLayout sorts lexically in chronological order.
const timeLayout = "2006-01-02T15:04:05.000000000Z07:00"

// Store persists events.
type Store struct {
	db  *db.DB
	now func() time.Time
}

// NewStore creates a Store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database, now: time.Now}
}

// Record inserts an event. If e.ID is empty a UUID is generated; a zero
// CreatedAt is set to the current time.
func (s *Store) Record(ctx context.Context, e Event) (*Event, error) {
	if !e.Type.Valid() {
		return nil, fmt.Errorf("invalid event type %q", e.Type)
	}
	if e.ID == "" {
		e.ID = uuid.New().String()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = s.now()
	}
	e.CreatedAt = e.CreatedAt.UTC()

	payload := "{}"
	if len(e.Payload) > 0 {
		data, err := json.Marshal(e.Payload)
		if err != nil {
			return nil, fmt.Errorf("marshalling payload: %w", err)
		}
		payload = string(data)
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, created_at, type, session_id, path, locale, version, payload)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.ID,
		e.CreatedAt.Format(timeLayout),
		string(e.Type),
		e.SessionID,
		e.Path,
		e.Locale,
		e.Version,
		payload,
	)
	if err != nil {
		return nil, fmt.Errorf("inserting event: %w", err)
	}
	return &e, nil
}

// Filter controls which events are returned by Query.
type Filter struct {
	Type      Type
	SessionID string
	Path      string
	Since     *time.Time
	Limit     int
}

// Query returns events matching the filter, newest first.
func (s *Store) Query(ctx context.Context, filter Filter) ([]Event, error) {
	var (
		clauses []string
		args    []any
	)

	if filter.Type != "" {
		clauses = append(clauses, "type = ?")
		args = append(args, string(filter.Type))
	}
	if filter.SessionID != "" {
		clauses = append(clauses, "session_id = ?")
		args = append(args, filter.SessionID)
	}
	if filter.Path != "" {
		clauses = append(clauses, "path = ?")
		args = append(args, filter.Path)
	}
	if filter.Since != nil {
		clauses = append(clauses, "created_at >= ?")
		args = append(args, filter.Since.UTC().Format(timeLayout))
	}

	query := "SELECT id, created_at, type, session_id, path, locale, version, payload FROM events"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY created_at DESC, rowid DESC"

	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var out []Event
	for rows.Next() {
		var (
			e       Event
			ts      string
			typ     string
			payload string
		)
		if err := rows.Scan(&e.ID, &ts, &typ, &e.SessionID, &e.Path, &e.Locale, &e.Version, &payload); err != nil {
			return nil, fmt.Errorf("scanning event: %w", err)
		}
		e.Type = Type(typ)
		if t, parseErr := time.Parse(timeLayout, ts); parseErr == nil {
			e.CreatedAt = t
		}
		if payload != "" && payload != "{}" {
			if err := json.Unmarshal([]byte(payload), &e.Payload); err != nil {
				e.Payload = nil
			}
		}
		out = append(out, e)
	}
	return out, rows.Err()
}
