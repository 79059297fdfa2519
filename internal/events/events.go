// Package events records analytics events for client sessions.
package events

import "time"

// Type classifies an event.
type Type string

const (
	TypePage       Type = "page"
	TypeExperiment Type = "experiment"
	TypeFeature    Type = "feature"
	TypeClient     Type = "client"
)

// validTypes is the set of recognized event types.
var validTypes = map[Type]bool{
	TypePage:       true,
	TypeExperiment: true,
	TypeFeature:    true,
	TypeClient:     true,
}

// Valid reports whether t is a recognized event type.
func (t Type) Valid() bool { return validTypes[t] }

// Event is a single analytics record.
type Event struct {
	ID        string            `json:"id"`
	CreatedAt time.Time         `json:"created_at"`
	Type      Type              `json:"type"`
	SessionID string            `json:"session_id,omitempty"`
	Path      string            `json:"path,omitempty"`
	Locale    string            `json:"locale,omitempty"`
	Version   string            `json:"version,omitempty"`
	Payload   map[string]string `json:"payload,omitempty"`
}
