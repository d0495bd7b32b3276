package archive

import (
	"context"
	"sort"
	"strings"

	"github.com/groblegark/evlog/internal/model"
	"github.com/groblegark/evlog/internal/store"
)

// mockStore is a minimal in-memory store for archive tests.
type mockStore struct {
	events map[string]*model.Event
}

// Compile-time check that mockStore implements store.Store.
var _ store.Store = (*mockStore)(nil)

func newMockStore() *mockStore {
	return &mockStore{events: make(map[string]*model.Event)}
}

func (m *mockStore) InsertEvent(_ context.Context, e *model.Event) error {
	m.events[e.ID] = e
	return nil
}

func (m *mockStore) GetEvent(_ context.Context, id string) (*model.Event, error) {
	e, ok := m.events[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return e, nil
}

func (m *mockStore) ListEvents(_ context.Context, filter model.EventFilter) ([]*model.Event, error) {
	var result []*model.Event
	for _, e := range m.events {
		if filter.Source != "" && e.Source != filter.Source {
			continue
		}
		if filter.Type != "" && e.Type != filter.Type {
			continue
		}
		if filter.Search != "" && !strings.Contains(strings.ToLower(string(e.Payload)), strings.ToLower(filter.Search)) {
			continue
		}
		result = append(result, e)
	}
	sort.Slice(result, func(i, j int) bool {
		if filter.Ascending {
			return result[i].CreatedAt.Before(result[j].CreatedAt)
		}
		return result[j].CreatedAt.Before(result[i].CreatedAt)
	})
	limit := model.ClampLimit(filter.Limit, model.DefaultListLimit, model.MaxBackfillLimit)
	if len(result) > limit {
		result = result[:limit]
	}
	return result, nil
}

func (m *mockStore) Ping(context.Context) error { return nil }

func (m *mockStore) Close() error { return nil }

// nonEmptyLines splits s on newlines, dropping blanks.
func nonEmptyLines(s string) []string {
	var lines []string
	for _, l := range strings.Split(s, "\n") {
		if strings.TrimSpace(l) != "" {
			lines = append(lines, l)
		}
	}
	return lines
}
