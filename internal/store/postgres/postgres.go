// Package postgres implements the store.Store interface backed by PostgreSQL.
package postgres

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-migrate/migrate/v4"
	migratepg "github.com/golang-migrate/migrate/v4/database/postgres"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/lib/pq"

	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/store"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// schemaLockKey identifies the cross-instance advisory lock guarding schema
// setup. All racing instances take the same lock, so DDL runs once.
const schemaLockKey = 1234567890

// PoolConfig bounds the shared connection pool. Size connections are kept
// idle and ready; Overflow additional connections may be opened under load.
type PoolConfig struct {
	Size     int
	Overflow int
}

// EventStore implements store.Store backed by a PostgreSQL database.
type EventStore struct {
	db *sql.DB
}

// Compile-time check that EventStore implements store.Store.
var _ store.Store = (*EventStore)(nil)

// New opens a lazy connection pool to the PostgreSQL database at the given
// URL. It does not ping: the database may not be up yet, and schema setup
// retries separately (see InitSchema). Idle connections are validated before
// reuse by the driver, and capped lifetimes survive idle-connection drops.
func New(databaseURL string, pool PoolConfig) (*EventStore, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if pool.Size <= 0 {
		pool.Size = 5
	}
	if pool.Overflow < 0 {
		pool.Overflow = 0
	}
	db.SetMaxOpenConns(pool.Size + pool.Overflow)
	db.SetMaxIdleConns(pool.Size)
	db.SetConnMaxLifetime(5 * time.Minute)
	db.SetConnMaxIdleTime(time.Minute)

	return &EventStore{db: db}, nil
}

// InitSchema creates the events table and its indexes if absent. The DDL is
// serialized across concurrently starting instances by a database-scoped
// advisory lock taken on a dedicated connection (advisory locks are
// session-scoped, so lock and unlock must happen on the same session).
func (s *EventStore) InitSchema(ctx context.Context) error {
	conn, err := s.db.Conn(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Close()

	if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_lock($1)`, schemaLockKey); err != nil {
		return fmt.Errorf("acquire schema lock: %w", err)
	}
	defer func() {
		if _, err := conn.ExecContext(ctx, `SELECT pg_advisory_unlock($1)`, schemaLockKey); err != nil {
			slog.Warn("failed to release schema lock", "error", err)
		}
	}()

	return runMigrations(s.db)
}

func runMigrations(db *sql.DB) error {
	sourceDriver, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("create migration source: %w", err)
	}

	dbDriver, err := migratepg.WithInstance(db, &migratepg.Config{})
	if err != nil {
		return fmt.Errorf("create migration db driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", sourceDriver, "postgres", dbDriver)
	if err != nil {
		return fmt.Errorf("create migrator: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("apply migrations: %w", err)
	}

	return nil
}

// Ping verifies connectivity with a trivial query. Used by the readiness
// probe.
func (s *EventStore) Ping(ctx context.Context) error {
	var one int
	if err := s.db.QueryRowContext(ctx, `SELECT 1`).Scan(&one); err != nil {
		return fmt.Errorf("ping database: %w", err)
	}
	return nil
}

// Close closes the underlying database connection pool.
func (s *EventStore) Close() error {
	return s.db.Close()
}

func (s *EventStore) InsertEvent(ctx context.Context, event *model.Event) error {
	return queryInsertEvent(ctx, s.db, event)
}

func (s *EventStore) GetEvent(ctx context.Context, id string) (*model.Event, error) {
	return queryGetEvent(ctx, s.db, id)
}

func (s *EventStore) ListEvents(ctx context.Context, filter model.EventFilter) ([]*model.Event, error) {
	return queryListEvents(ctx, s.db, filter)
}
