// Package events publishes accepted events to an optional message bus.
// Publishing is best-effort fan-out: the record store stays authoritative.
package events

import (
	"context"

	"github.com/groblegark/evlog/internal/model"
)

// Topic constants
const (
	TopicEventRecorded = "evlog.event.recorded"
)

// EventRecorded is published after an event is durably written.
type EventRecorded struct {
	Event *model.Event `json:"event"`
}

// Publisher is the interface for emitting events.
type Publisher interface {
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}
