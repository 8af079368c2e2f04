package view

import (
	"sync"

	"github.com/NischalAcharya060/GearZone-sub001/internal/model"
)

// Key identifies the inputs of a derivation. The catalog and rating map are
// replaced wholesale, never patched, so their versions stand in for
// reference equality; criteria compare by value.
type Key struct {
	CatalogVersion uint64
	RatingsVersion uint64
	Criteria       model.FilterCriteria
}

// Memo remembers the last derivation. It is safe for concurrent use.
type Memo struct {
	mu     sync.Mutex
	valid  bool
	key    Key
	result []model.Product
	hits   uint64
}

// Derive returns the cached result when key matches the previous call and
// recomputes from scratch otherwise. The returned slice must not be modified.
func (m *Memo) Derive(key Key, products []model.Product, ratings model.RatingMap) []model.Product {
	key.Criteria = key.Criteria.Normalized()

	m.mu.Lock()
	defer m.mu.Unlock()

	if m.valid && m.key == key {
		m.hits++
		return m.result
	}

	m.result = Derive(products, ratings, key.Criteria)
	m.key = key
	m.valid = true
	return m.result
}

func (m *Memo) Hits() uint64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.hits
}
