package server

import "net/http"

// handleDebugConfig handles GET /debug/config: sanitized runtime
// configuration for operators. Credentials are never included.
func (s *Server) handleDebugConfig(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"instance":      s.cfg.Instance,
		"database_url":  s.cfg.RedactedDSN(),
		"host":          s.cfg.DBHost,
		"port":          s.cfg.DBPort,
		"database":      s.cfg.DBName,
		"pool_size":     s.cfg.PoolSize,
		"pool_overflow": s.cfg.PoolOverflow,
		"init_state":    s.init.State().String(),
		"mirror":        s.mirror.Enabled(),
		"nats":          s.cfg.NATSURL != "",
	})
}

// handleDebugMirror handles GET /debug/mirror: search mirror connectivity
// status.
func (s *Server) handleDebugMirror(w http.ResponseWriter, r *http.Request) {
	info := map[string]any{
		"enabled": s.mirror.Enabled(),
		"url":     s.cfg.ElasticURL,
		"index":   s.cfg.ElasticIndex,
	}
	if s.mirror.Enabled() {
		info["available"] = s.mirror.Available(r.Context())
	}
	writeJSON(w, http.StatusOK, info)
}
