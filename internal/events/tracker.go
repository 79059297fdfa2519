package events

import (
	"context"
	"fmt"
	"time"
)

// recordTimeout bounds a single best-effort event write.
const recordTimeout = 5 * time.Second

// Tracker is the analytics entry point for one client session.
type Tracker struct {
	store     *Store
	sessionID string
	path      string
	locale    string
	version   string
	payload   map[string]string
}

// NewTracker returns a Tracker that attributes events to the given session
// and landing page.
func NewTracker(store *Store, sessionID, path, locale, version string) *Tracker {
	return &Tracker{
		store:     store,
		sessionID: sessionID,
		path:      path,
		locale:    locale,
		version:   version,
	}
}

// WithPayload attaches extra fields to the page event.
func (t *Tracker) WithPayload(payload map[string]string) *Tracker {
	t.payload = payload
	return t
}

// InitializeEvents records the session's page event.
func (t *Tracker) InitializeEvents() error {
	if t.store == nil {
		return fmt.Errorf("event store not configured")
	}
	ctx, cancel := context.WithTimeout(context.Background(), recordTimeout)
	defer cancel()

	_, err := t.store.Record(ctx, Event{
		Type:      TypePage,
		SessionID: t.sessionID,
		Path:      t.path,
		Locale:    t.locale,
		Version:   t.version,
		Payload:   t.payload,
	})
	if err != nil {
		return fmt.Errorf("recording page event: %w", err)
	}
	return nil
}
