package repositories

import (
	"context"
	"sync"

	"rentals-api/domain"
	"rentals-api/search"
)

// MemorySearchIndex keeps every property in process and evaluates predicates
// with search.Execute. It suits single-replica deployments and tests.
type MemorySearchIndex struct {
	mu    sync.RWMutex
	items map[string]domain.Property
}

func NewMemorySearchIndex() *MemorySearchIndex {
	return &MemorySearchIndex{items: make(map[string]domain.Property)}
}

// Load replaces the whole index.
func (m *MemorySearchIndex) Load(properties []domain.Property) {
	items := make(map[string]domain.Property, len(properties))
	for _, p := range properties {
		items[p.ID] = p
	}
	m.mu.Lock()
	m.items = items
	m.mu.Unlock()
}

func (m *MemorySearchIndex) Upsert(_ context.Context, property *domain.Property) error {
	m.mu.Lock()
	m.items[property.ID] = *property
	m.mu.Unlock()
	return nil
}

func (m *MemorySearchIndex) Delete(_ context.Context, propertyID string) error {
	m.mu.Lock()
	delete(m.items, propertyID)
	m.mu.Unlock()
	return nil
}

func (m *MemorySearchIndex) Search(_ context.Context, pred search.Predicate, page search.Page) ([]string, int64, error) {
	m.mu.RLock()
	snapshot := make([]domain.Property, 0, len(m.items))
	for _, p := range m.items {
		snapshot = append(snapshot, p)
	}
	m.mu.RUnlock()

	matches, total := search.Execute(snapshot, pred, page)
	ids := make([]string, 0, len(matches))
	for _, p := range matches {
		ids = append(ids, p.ID)
	}
	return ids, int64(total), nil
}

func (m *MemorySearchIndex) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}
