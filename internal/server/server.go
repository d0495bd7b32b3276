// Package server implements the HTTP API, dashboard, and readiness surface.
package server

import (
	"context"
	"log/slog"
	"time"

	"github.com/groblegark/evlog/internal/config"
	"github.com/groblegark/evlog/internal/events"
	"github.com/groblegark/evlog/internal/idgen"
	"github.com/groblegark/evlog/internal/mirror"
	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/startup"
	"github.com/groblegark/evlog/internal/store"
)

// InitStatus exposes the startup initializer's state to the readiness probe.
type InitStatus interface {
	State() startup.State
}

// Server handles all HTTP traffic. The record store is required; the mirror
// and publisher degrade gracefully when unconfigured or unreachable.
type Server struct {
	store     store.Store
	mirror    mirror.Mirror
	publisher events.Publisher
	init      InitStatus
	cfg       *config.Config
	logger    *slog.Logger
}

// New returns a Server wired to the given collaborators.
func New(s store.Store, m mirror.Mirror, p events.Publisher, init InitStatus, cfg *config.Config, logger *slog.Logger) *Server {
	return &Server{
		store:     s,
		mirror:    m,
		publisher: p,
		init:      init,
		cfg:       cfg,
		logger:    logger,
	}
}

// recordEvent assigns server-side fields and writes the event, then fans out
// to the mirror and publisher. The primary write is authoritative; mirror and
// publisher failures are logged and swallowed, never surfaced to the caller.
func (s *Server) recordEvent(ctx context.Context, draft model.EventDraft) (*model.Event, error) {
	if err := model.ValidateDraft(&draft); err != nil {
		return nil, err
	}

	id, err := idgen.Generate()
	if err != nil {
		return nil, err
	}

	event := &model.Event{
		ID:        id,
		Source:    draft.Source,
		Type:      draft.Type,
		Payload:   draft.Payload,
		CreatedAt: time.Now().UTC(),
		Instance:  s.cfg.Instance,
	}

	if err := s.store.InsertEvent(ctx, event); err != nil {
		return nil, err
	}

	s.mirrorAndPublish(ctx, event)
	return event, nil
}

// mirrorAndPublish indexes the event into the search mirror and publishes it
// to the bus. Both operations are best-effort.
func (s *Server) mirrorAndPublish(ctx context.Context, event *model.Event) {
	if s.mirror.Enabled() && s.mirror.Available(ctx) {
		if err := s.mirror.Index(ctx, event); err != nil {
			s.logger.Warn("failed to index event in mirror", "event_id", event.ID, "error", err)
		}
	}
	if err := s.publisher.Publish(ctx, events.TopicEventRecorded, events.EventRecorded{Event: event}); err != nil {
		s.logger.Warn("failed to publish event", "event_id", event.ID, "error", err)
	}
}
