package server

import (
	"net/http"
	"strconv"
	"time"

	"github.com/groblegark/evlog/internal/model"
)

// backfillResult reports how a mirror backfill went. Only the first few
// per-event errors are returned; the rest are visible in the logs.
type backfillResult struct {
	Synced    int      `json:"synced"`
	Attempted int      `json:"attempted"`
	Errors    []string `json:"errors"`
}

const maxBackfillErrors = 5

// handleBackfill handles POST /admin/backfill: re-reads events from the
// record store and replays them into the search mirror. Used for disaster
// recovery after mirror data loss or downtime.
func (s *Server) handleBackfill(w http.ResponseWriter, r *http.Request) {
	if !s.mirror.Enabled() || !s.mirror.Available(r.Context()) {
		writeError(w, http.StatusServiceUnavailable, "search mirror is not reachable (set EVLOG_ELASTIC_URL)")
		return
	}

	q := r.URL.Query()
	filter := model.EventFilter{Ascending: true}

	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	filter.Limit = model.ClampLimit(filter.Limit, model.DefaultBackfillLimit, model.MaxBackfillLimit)

	if v := q.Get("since"); v != "" {
		since, err := parseSince(v)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid 'since' timestamp; use RFC 3339, e.g. 2026-01-02T15:04:05Z")
			return
		}
		filter.Since = &since
	}

	events, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("backfill list failed", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to read events for backfill")
		return
	}

	result := backfillResult{Attempted: len(events), Errors: []string{}}
	for _, e := range events {
		if err := s.mirror.Index(r.Context(), e); err != nil {
			s.logger.Warn("backfill index failed", "event_id", e.ID, "error", err)
			if len(result.Errors) < maxBackfillErrors {
				result.Errors = append(result.Errors, err.Error())
			}
			continue
		}
		result.Synced++
	}

	s.logger.Info("backfill completed", "synced", result.Synced, "attempted", result.Attempted)
	writeJSON(w, http.StatusOK, result)
}

// parseSince accepts RFC 3339 timestamps, with or without an offset. A bare
// timestamp is taken as UTC.
func parseSince(v string) (time.Time, error) {
	if t, err := time.Parse(time.RFC3339, v); err == nil {
		return t, nil
	}
	t, err := time.Parse("2006-01-02T15:04:05", v)
	if err != nil {
		return time.Time{}, err
	}
	return t.UTC(), nil
}
