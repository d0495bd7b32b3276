package model

import (
	"encoding/json"
	"time"
)

// Event is an immutable record of something that happened, submitted by a
// client. Once written it is never updated or deleted.
type Event struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt time.Time       `json:"created_at"`
	Instance  string          `json:"instance"`
}

// EventDraft is the client-submitted portion of an event. ID, CreatedAt and
// Instance are assigned server-side.
type EventDraft struct {
	Source  string          `json:"source"`
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}
