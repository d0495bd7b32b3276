package mirror

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	elasticsearch "github.com/elastic/go-elasticsearch/v8"

	"github.com/groblegark/evlog/internal/model"
)

// probeTimeout bounds every mirror round trip so a slow or unreachable index
// cannot stall request handling.
const probeTimeout = 5 * time.Second

// Elastic mirrors events into an Elasticsearch index.
type Elastic struct {
	client *elasticsearch.Client
	url    string
	index  string
}

// Compile-time check that Elastic implements Mirror.
var _ Mirror = (*Elastic)(nil)

// NewElastic creates a mirror writing to the given index at url. The client
// retries transient failures at most twice.
func NewElastic(url, index string) (*Elastic, error) {
	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses:  []string{url},
		MaxRetries: 2,
	})
	if err != nil {
		return nil, fmt.Errorf("create elasticsearch client: %w", err)
	}
	return &Elastic{client: client, url: url, index: index}, nil
}

func (m *Elastic) Enabled() bool { return true }

// URL returns the configured index endpoint (for debug output).
func (m *Elastic) URL() string { return m.url }

// IndexName returns the configured index name (for debug output).
func (m *Elastic) IndexName() string { return m.index }

// Available pings the cluster with a short timeout.
func (m *Elastic) Available(ctx context.Context) bool {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := m.client.Ping(m.client.Ping.WithContext(ctx))
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return !res.IsError()
}

// document is the shape stored in the search index: the event fields with
// created_at always expressed as an explicit UTC instant.
type document struct {
	ID        string          `json:"id"`
	Source    string          `json:"source"`
	Type      string          `json:"type"`
	Payload   json.RawMessage `json:"payload,omitempty"`
	CreatedAt string          `json:"created_at,omitempty"`
	Instance  string          `json:"instance"`
}

// Index writes one document per event, keyed by the event ID. Re-indexing the
// same ID overwrites, so backfill replays are idempotent.
func (m *Elastic) Index(ctx context.Context, event *model.Event) error {
	doc := document{
		ID:       event.ID,
		Source:   event.Source,
		Type:     event.Type,
		Payload:  event.Payload,
		Instance: event.Instance,
	}
	if !event.CreatedAt.IsZero() {
		doc.CreatedAt = event.CreatedAt.UTC().Format(time.RFC3339Nano)
	}

	body, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := m.client.Index(m.index, bytes.NewReader(body),
		m.client.Index.WithDocumentID(event.ID),
		m.client.Index.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("index event %s: %w", event.ID, err)
	}
	defer res.Body.Close()
	if res.IsError() {
		return fmt.Errorf("index event %s: %s", event.ID, res.Status())
	}
	return nil
}

// EnsureIndex creates the index if it does not exist yet.
func (m *Elastic) EnsureIndex(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, probeTimeout)
	defer cancel()

	res, err := m.client.Indices.Exists([]string{m.index},
		m.client.Indices.Exists.WithContext(ctx),
	)
	if err != nil {
		return fmt.Errorf("check index %s: %w", m.index, err)
	}
	defer res.Body.Close()

	switch res.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusNotFound:
		created, err := m.client.Indices.Create(m.index,
			m.client.Indices.Create.WithContext(ctx),
		)
		if err != nil {
			return fmt.Errorf("create index %s: %w", m.index, err)
		}
		defer created.Body.Close()
		if created.IsError() {
			return fmt.Errorf("create index %s: %s", m.index, created.Status())
		}
		return nil
	default:
		return fmt.Errorf("check index %s: %s", m.index, res.Status())
	}
}
