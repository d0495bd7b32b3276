package server

import (
	"encoding/json"
	"net/http"

	"github.com/groblegark/evlog/internal/startup"
)

// NewHTTPHandler returns an http.Handler with all routes registered, wrapped
// in the recovery and instrumentation middleware.
func (s *Server) NewHTTPHandler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("POST /events", s.handleCreateEvent)
	mux.HandleFunc("GET /events", s.handleListEvents)
	mux.HandleFunc("GET /events/{id}", s.handleGetEvent)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ready", s.handleReady)
	mux.HandleFunc("GET /demo", s.handleDemo)
	mux.HandleFunc("GET /dashboard", s.handleDashboard)
	mux.HandleFunc("POST /admin/backfill", s.handleBackfill)
	mux.HandleFunc("GET /debug/config", s.handleDebugConfig)
	mux.HandleFunc("GET /debug/mirror", s.handleDebugMirror)
	return s.Recovery(s.Instrument(mux))
}

// handleHealth handles GET /health. Liveness only: succeeds whenever the
// process is running, regardless of database state.
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ok",
		"instance": s.cfg.Instance,
	})
}

// handleReady handles GET /ready. Ready means schema initialization reached
// READY and the database answers a trivial probe; anything else is 503 with
// sanitized connection hints so the load balancer can route around us.
func (s *Server) handleReady(w http.ResponseWriter, r *http.Request) {
	state := s.init.State()
	if state != startup.StateReady {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":    "initialization not complete",
			"state":    state.String(),
			"instance": s.cfg.Instance,
			"hint":     s.cfg.Hint(),
		})
		return
	}

	if err := s.store.Ping(r.Context()); err != nil {
		writeJSON(w, http.StatusServiceUnavailable, map[string]any{
			"error":    "database not ready",
			"instance": s.cfg.Instance,
			"hint":     s.cfg.Hint(),
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{
		"status":   "ready",
		"instance": s.cfg.Instance,
	})
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes a JSON error response.
func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
