package client

import (
	"fmt"
	"strings"
	"sync"

	"finmap/internal/domain/mapping"
	"finmap/internal/domain/pinelabs"
)

// Storage is the local cache contract. SQLite is the default; the
// in-memory fallback keeps the client usable when the cache file cannot
// be opened.
type Storage interface {
	ReplaceMappings(items []mapping.Item) error
	ListMappings() ([]mapping.Item, error)
	GetMapping(id int) (*mapping.Item, error)
	ReplaceDetails(rows []pinelabs.Row) error
	ListDetails(mappingID int, term string) ([]pinelabs.Row, error)
	CountMappings() (int, error)
	Close() error
}

type MemoryStorage struct {
	mu       sync.RWMutex
	mappings []mapping.Item
	details  []pinelabs.Row
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{}
}

func (m *MemoryStorage) ReplaceMappings(items []mapping.Item) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.mappings = append([]mapping.Item(nil), items...)
	return nil
}

func (m *MemoryStorage) ListMappings() ([]mapping.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]mapping.Item(nil), m.mappings...), nil
}

func (m *MemoryStorage) GetMapping(id int) (*mapping.Item, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, item := range m.mappings {
		if item.ID == id {
			found := item
			return &found, nil
		}
	}
	return nil, fmt.Errorf("mapping not cached: %d", id)
}

func (m *MemoryStorage) ReplaceDetails(rows []pinelabs.Row) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.details = append([]pinelabs.Row(nil), rows...)
	return nil
}

func (m *MemoryStorage) ListDetails(mappingID int, term string) ([]pinelabs.Row, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	needle := strings.ToLower(term)
	var out []pinelabs.Row
	for _, r := range m.details {
		if mappingID > 0 && r.MappingID != mappingID {
			continue
		}
		if needle != "" && !detailMatches(r, needle) {
			continue
		}
		out = append(out, r)
	}
	return out, nil
}

func detailMatches(r pinelabs.Row, needle string) bool {
	for _, field := range []string{r.StoreName, r.Brand, r.PosID, r.TID, r.SerialNo, r.StoreID} {
		if strings.Contains(strings.ToLower(field), needle) {
			return true
		}
	}
	return false
}

func (m *MemoryStorage) CountMappings() (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.mappings), nil
}

func (m *MemoryStorage) Close() error {
	return nil
}
