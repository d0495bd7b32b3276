package server

import (
	"errors"
	"net/http"
	"strings"
	"testing"
	"time"

	"github.com/groblegark/evlog/internal/model"
)

func TestDashboard(t *testing.T) {
	ts := newTestServer(t)
	ts.store.events["ev-dash"] = &model.Event{
		ID: "ev-dash", Source: "web", Type: "LOGIN",
		CreatedAt: time.Now().UTC(), Instance: "test-1",
	}

	w := ts.do(t, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("Content-Type = %q", ct)
	}
	if body := w.Body.String(); !strings.Contains(body, "ev-dash") {
		t.Error("dashboard table missing the stored event")
	}
}

func TestDashboard_DatabaseErrorDegrades(t *testing.T) {
	ts := newTestServer(t)
	ts.store.listErr = errors.New("connection refused")

	w := ts.do(t, http.MethodGet, "/dashboard", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", w.Code)
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("error view should stay HTML, got Content-Type %q", ct)
	}
}

func TestIndexPage(t *testing.T) {
	ts := newTestServer(t)
	w := ts.do(t, http.MethodGet, "/", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d", w.Code)
	}
	if body := w.Body.String(); !strings.Contains(body, "/dashboard") {
		t.Error("landing page should link the dashboard")
	}
}
