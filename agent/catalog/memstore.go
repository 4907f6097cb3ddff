package catalog

import (
	"context"
	"strings"
	"sync"
)

// MemStore is an in-process catalog used in tests and local runs.
type MemStore struct {
	mu    sync.RWMutex
	byID  map[string]Product
	bySKU map[string]Product
}

var _ Store = (*MemStore)(nil)

func NewMemStore(products ...Product) *MemStore {
	m := &MemStore{
		byID:  make(map[string]Product, len(products)),
		bySKU: make(map[string]Product, len(products)),
	}
	for _, p := range products {
		m.Put(p)
	}
	return m
}

func (m *MemStore) Put(p Product) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.byID[p.ID] = p
	if p.SKU != "" {
		m.bySKU[p.SKU] = p
	}
}

func (m *MemStore) ByID(ctx context.Context, id string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.byID[strings.TrimSpace(id)]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}

func (m *MemStore) BySKU(ctx context.Context, sku string) (Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	p, ok := m.bySKU[strings.TrimSpace(sku)]
	if !ok {
		return Product{}, ErrProductNotFound
	}
	return p, nil
}
