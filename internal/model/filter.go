package model

import "time"

// EventFilter holds criteria for querying events.
type EventFilter struct {
	Source    string     `json:"source,omitempty"` // exact match
	Type      string     `json:"type,omitempty"`   // exact match
	Search    string     `json:"search,omitempty"` // case-insensitive substring over the serialized payload
	Since     *time.Time `json:"since,omitempty"`  // lower bound on created_at (inclusive)
	Limit     int        `json:"limit,omitempty"`
	Ascending bool       `json:"ascending,omitempty"` // oldest first; used by backfill and archive
}

// Listing and backfill limit bounds. Unbounded queries are never issued;
// the store enforces MaxBackfillLimit as a hard backstop regardless of caller.
const (
	DefaultListLimit = 50
	MaxListLimit     = 500

	DefaultBackfillLimit = 10000
	MaxBackfillLimit     = 200000
)

// ClampLimit returns limit forced into [1, max], substituting def when the
// value is unset or non-positive.
func ClampLimit(limit, def, max int) int {
	if limit <= 0 {
		limit = def
	}
	if limit < 1 {
		limit = 1
	}
	if limit > max {
		limit = max
	}
	return limit
}
