// Package store defines the persistence interface for events.
package store

import (
	"context"
	"errors"

	"github.com/groblegark/evlog/internal/model"
)

// ErrNotFound is returned when no event exists for the requested ID.
var ErrNotFound = errors.New("event not found")

// Store is the authoritative persistent store for events. Events are
// append-only: there are no update or delete operations.
type Store interface {
	// InsertEvent writes a fully populated event in a single atomic
	// statement. The caller assigns ID, CreatedAt and Instance before
	// calling.
	InsertEvent(ctx context.Context, event *model.Event) error

	// GetEvent returns the event with the given ID, or ErrNotFound.
	GetEvent(ctx context.Context, id string) (*model.Event, error)

	// ListEvents returns events matching the filter, ordered by created_at
	// (descending unless filter.Ascending). The limit is always clamped;
	// the store never issues an unbounded query.
	ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error)

	// Ping verifies database connectivity with a trivial query.
	Ping(ctx context.Context) error

	// Lifecycle
	Close() error
}
