package postgres

import (
	"encoding/json"

	"github.com/groblegark/evlog/internal/model"
)

// scannable is the interface satisfied by both *sql.Row and *sql.Rows.
type scannable interface {
	Scan(dest ...any) error
}

// scanEvent scans a single row into a model.Event.
// The row must contain columns in the order defined by eventColumns.
func scanEvent(row scannable) (*model.Event, error) {
	var e model.Event
	var payload []byte

	err := row.Scan(
		&e.ID,
		&e.Source,
		&e.Type,
		&payload,
		&e.CreatedAt,
		&e.Instance,
	)
	if err != nil {
		return nil, err
	}

	if len(payload) > 0 {
		e.Payload = json.RawMessage(payload)
	}
	e.CreatedAt = e.CreatedAt.UTC()

	return &e, nil
}

// jsonbBytes converts a json.RawMessage to a value suitable for a JSONB
// column parameter: nil when empty so the column stays NULL.
func jsonbBytes(m json.RawMessage) []byte {
	if len(m) == 0 {
		return nil
	}
	return []byte(m)
}
