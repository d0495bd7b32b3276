package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/store"
)

// handleCreateEvent handles POST /events.
func (s *Server) handleCreateEvent(w http.ResponseWriter, r *http.Request) {
	var draft model.EventDraft
	if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}

	event, err := s.recordEvent(r.Context(), draft)
	if err != nil {
		var ve *model.ValidationError
		if errors.As(err, &ve) {
			writeError(w, http.StatusBadRequest, ve.Error())
			return
		}
		s.logger.Error("failed to insert event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record event")
		return
	}

	writeJSON(w, http.StatusCreated, event)
}

// handleListEvents handles GET /events.
func (s *Server) handleListEvents(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)

	events, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("failed to list events", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to list events")
		return
	}

	// Ensure events is never null in JSON output.
	if events == nil {
		events = []*model.Event{}
	}

	writeJSON(w, http.StatusOK, events)
}

// handleGetEvent handles GET /events/{id}.
func (s *Server) handleGetEvent(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if id == "" {
		writeError(w, http.StatusBadRequest, "id is required")
		return
	}

	event, err := s.store.GetEvent(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		writeError(w, http.StatusNotFound, "event not found")
		return
	}
	if err != nil {
		s.logger.Error("failed to get event", "event_id", id, "error", err)
		writeError(w, http.StatusInternalServerError, "failed to get event")
		return
	}

	writeJSON(w, http.StatusOK, event)
}

// handleDemo handles GET /demo: inserts a sample event, for smoke testing a
// fresh deployment.
func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	event, err := s.recordEvent(r.Context(), model.EventDraft{
		Source:  "demo",
		Type:    "PING",
		Payload: json.RawMessage(`{"note":"hello"}`),
	})
	if err != nil {
		s.logger.Error("failed to insert demo event", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to record event")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"inserted": true,
		"event":    event,
	})
}

// listFilterFromQuery maps GET /events (and /dashboard) query parameters to
// an EventFilter, clamping the limit to the listing range.
func listFilterFromQuery(r *http.Request) model.EventFilter {
	q := r.URL.Query()
	filter := model.EventFilter{
		Source: q.Get("source"),
		Type:   q.Get("type"),
		Search: q.Get("q"),
	}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	filter.Limit = model.ClampLimit(filter.Limit, model.DefaultListLimit, model.MaxListLimit)

	return filter
}
