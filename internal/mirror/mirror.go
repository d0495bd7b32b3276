// Package mirror maintains a best-effort, non-authoritative copy of events
// in a search index. The mirror can silently drop writes; it is never read
// back for consistency-sensitive logic.
package mirror

import (
	"context"

	"github.com/groblegark/evlog/internal/model"
)

// Mirror is the interface for the search index copy of events.
type Mirror interface {
	// Enabled reports whether a mirror is configured at all.
	Enabled() bool

	// Available probes the index with a short timeout. It never returns an
	// error; unreachable simply means false.
	Available(ctx context.Context) bool

	// Index writes one document keyed by the event ID. Callers on the write
	// path log the returned error and move on; only backfill counts it.
	Index(ctx context.Context, event *model.Event) error

	// EnsureIndex creates the index namespace if absent.
	EnsureIndex(ctx context.Context) error
}

// Noop is a Mirror that does nothing (used when no search index is configured).
type Noop struct{}

func (Noop) Enabled() bool { return false }

func (Noop) Available(ctx context.Context) bool { return false }

func (Noop) Index(ctx context.Context, event *model.Event) error { return nil }

func (Noop) EnsureIndex(ctx context.Context) error { return nil }
