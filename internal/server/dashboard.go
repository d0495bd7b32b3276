package server

import (
	"bytes"
	"embed"
	"html/template"
	"net/http"

	"github.com/groblegark/evlog/internal/model"
)

//go:embed templates/*.html
var templatesFS embed.FS

var templates = template.Must(template.ParseFS(templatesFS, "templates/*.html"))

// dashboardData feeds the dashboard template.
type dashboardData struct {
	Instance string
	Source   string
	Type     string
	Search   string
	Limit    int
	Events   []*model.Event
}

// handleIndex handles GET /: a small landing page listing the endpoints.
func (s *Server) handleIndex(w http.ResponseWriter, _ *http.Request) {
	s.renderHTML(w, http.StatusOK, "index.html", map[string]string{
		"Instance": s.cfg.Instance,
	})
}

// handleDashboard handles GET /dashboard: an auto-refreshing HTML table over
// the same filter surface as GET /events. Errors degrade to an HTML error
// page so the view stays readable for operators.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	filter := listFilterFromQuery(r)

	events, err := s.store.ListEvents(r.Context(), filter)
	if err != nil {
		s.logger.Error("dashboard query failed", "error", err)
		s.renderHTML(w, http.StatusInternalServerError, "error.html", map[string]string{
			"Message": "failed to query events; the database may be unavailable",
		})
		return
	}

	s.renderHTML(w, http.StatusOK, "dashboard.html", dashboardData{
		Instance: s.cfg.Instance,
		Source:   filter.Source,
		Type:     filter.Type,
		Search:   filter.Search,
		Limit:    filter.Limit,
		Events:   events,
	})
}

// renderHTML executes a template into a buffer first so a render failure can
// still produce a degraded error page instead of a half-written response.
func (s *Server) renderHTML(w http.ResponseWriter, status int, name string, data any) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		s.logger.Error("template render failed", "template", name, "error", err)
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusInternalServerError)
		_, _ = w.Write([]byte("<html><body><h2>Dashboard Error</h2><p>rendering failed</p></body></html>"))
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	_, _ = buf.WriteTo(w)
}
