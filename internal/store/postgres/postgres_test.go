package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/store"
)

// newMockDB creates a sqlmock database with automatic cleanup and expectation checking.
func newMockDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() {
		if err := mock.ExpectationsWereMet(); err != nil {
			t.Errorf("unfulfilled expectations: %v", err)
		}
		db.Close()
	})
	return db, mock
}

// eventRowColumns is the column list for scanEvent results.
var eventRowColumns = []string{"id", "source", "type", "payload", "created_at", "instance"}

func TestQueryInsertEvent(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	e := &model.Event{
		ID:        "ev-abc123",
		Source:    "web",
		Type:      "LOGIN",
		Payload:   json.RawMessage(`{"user":"alice"}`),
		CreatedAt: now,
		Instance:  "api-1",
	}

	mock.ExpectExec("INSERT INTO events").
		WithArgs("ev-abc123", "web", "LOGIN", []byte(`{"user":"alice"}`), now, "api-1").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryInsertEvent(context.Background(), db, e); err != nil {
		t.Fatalf("queryInsertEvent: %v", err)
	}
}

func TestQueryInsertEvent_NilPayload(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	e := &model.Event{ID: "ev-x", Source: "cron", Type: "TICK", CreatedAt: now, Instance: "api-2"}

	// An absent payload is passed as a typed nil []byte so the column stays NULL.
	mock.ExpectExec("INSERT INTO events").
		WithArgs("ev-x", "cron", "TICK", []byte(nil), now, "api-2").
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := queryInsertEvent(context.Background(), db, e); err != nil {
		t.Fatalf("queryInsertEvent: %v", err)
	}
}

func TestQueryGetEvent(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("ev-abc123", "web", "LOGIN", []byte(`{"user":"alice"}`), now, "api-1")
	mock.ExpectQuery("SELECT id, source, type, payload, created_at, instance FROM events WHERE id = \\$1").
		WithArgs("ev-abc123").
		WillReturnRows(rows)

	e, err := queryGetEvent(context.Background(), db, "ev-abc123")
	if err != nil {
		t.Fatalf("queryGetEvent: %v", err)
	}
	if e.ID != "ev-abc123" || e.Source != "web" || e.Type != "LOGIN" {
		t.Errorf("unexpected event: %+v", e)
	}
	if string(e.Payload) != `{"user":"alice"}` {
		t.Errorf("unexpected payload: %s", e.Payload)
	}
	if e.Instance != "api-1" {
		t.Errorf("unexpected instance: %s", e.Instance)
	}
	if !e.CreatedAt.Equal(now) {
		t.Errorf("CreatedAt = %v, want %v", e.CreatedAt, now)
	}
}

func TestQueryGetEvent_NotFound(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM events WHERE id = \\$1").
		WithArgs("ev-missing").
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := queryGetEvent(context.Background(), db, "ev-missing")
	if !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("expected store.ErrNotFound, got %v", err)
	}
}

func TestQueryListEvents_NoFilter(t *testing.T) {
	db, mock := newMockDB(t)
	now := time.Now().UTC()

	rows := sqlmock.NewRows(eventRowColumns).
		AddRow("ev-2", "web", "LOGIN", nil, now, "api-1").
		AddRow("ev-1", "web", "LOGOUT", nil, now.Add(-time.Minute), "api-1")
	mock.ExpectQuery("SELECT .+ FROM events ORDER BY created_at DESC LIMIT \\$1").
		WithArgs(model.DefaultListLimit).
		WillReturnRows(rows)

	events, err := queryListEvents(context.Background(), db, model.EventFilter{})
	if err != nil {
		t.Fatalf("queryListEvents: %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].ID != "ev-2" {
		t.Errorf("expected newest first, got %s", events[0].ID)
	}
}

func TestQueryListEvents_AllFilters(t *testing.T) {
	db, mock := newMockDB(t)
	since := time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC)

	mock.ExpectQuery("SELECT .+ FROM events WHERE source = \\$1 AND type = \\$2 AND payload::text ILIKE '%' \\|\\| \\$3 \\|\\| '%' AND created_at >= \\$4 ORDER BY created_at DESC LIMIT \\$5").
		WithArgs("web", "LOGIN", "alice", since, 10).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := queryListEvents(context.Background(), db, model.EventFilter{
		Source: "web",
		Type:   "LOGIN",
		Search: "alice",
		Since:  &since,
		Limit:  10,
	})
	if err != nil {
		t.Fatalf("queryListEvents: %v", err)
	}
}

func TestQueryListEvents_Ascending(t *testing.T) {
	db, mock := newMockDB(t)

	mock.ExpectQuery("SELECT .+ FROM events ORDER BY created_at ASC LIMIT \\$1").
		WithArgs(100).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := queryListEvents(context.Background(), db, model.EventFilter{Limit: 100, Ascending: true})
	if err != nil {
		t.Fatalf("queryListEvents: %v", err)
	}
}

func TestQueryListEvents_ClampsLimit(t *testing.T) {
	db, mock := newMockDB(t)

	// Even an absurd limit is clamped to the hard backstop.
	mock.ExpectQuery("SELECT .+ FROM events ORDER BY created_at DESC LIMIT \\$1").
		WithArgs(model.MaxBackfillLimit).
		WillReturnRows(sqlmock.NewRows(eventRowColumns))

	_, err := queryListEvents(context.Background(), db, model.EventFilter{Limit: 99999999})
	if err != nil {
		t.Fatalf("queryListEvents: %v", err)
	}
}

func TestPing(t *testing.T) {
	db, mock := newMockDB(t)
	s := &EventStore{db: db}

	mock.ExpectQuery("SELECT 1").WillReturnRows(sqlmock.NewRows([]string{"?column?"}).AddRow(1))
	if err := s.Ping(context.Background()); err != nil {
		t.Fatalf("Ping: %v", err)
	}
}

func TestPing_Unavailable(t *testing.T) {
	db, mock := newMockDB(t)
	s := &EventStore{db: db}

	mock.ExpectQuery("SELECT 1").WillReturnError(errors.New("connection refused"))
	if err := s.Ping(context.Background()); err == nil {
		t.Fatal("expected error when database is unreachable")
	}
}

func TestJSONBBytes(t *testing.T) {
	if jsonbBytes(nil) != nil {
		t.Error("jsonbBytes(nil) should be nil")
	}
	if jsonbBytes(json.RawMessage{}) != nil {
		t.Error("jsonbBytes(empty) should be nil")
	}
	input := json.RawMessage(`{"key":"value"}`)
	if string(jsonbBytes(input)) != `{"key":"value"}` {
		t.Errorf("jsonbBytes round trip = %s", jsonbBytes(input))
	}
}
