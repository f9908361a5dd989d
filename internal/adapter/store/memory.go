package store

import (
	"fmt"
	"sort"
	"sync"

	"docqa/internal/port"
)

// MemoryVectorStore is an in-memory VectorStore with the same search
// semantics as the Bolt-backed one. Useful for tests and throwaway indexes.
type MemoryVectorStore struct {
	mu        sync.RWMutex
	dimension int
	entries   map[string]cacheEntry
}

func NewMemoryVectorStore(dimension int) *MemoryVectorStore {
	return &MemoryVectorStore{
		dimension: dimension,
		entries:   make(map[string]cacheEntry),
	}
}

func (s *MemoryVectorStore) Insert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	for _, item := range items {
		if len(item.Vector) != s.dimension {
			return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
		}
		s.entries[item.ID] = cacheEntry{
			text:     item.Text,
			metadata: item.Metadata,
			vector:   item.Vector,
		}
	}
	return nil
}

func (s *MemoryVectorStore) Search(query []float32, k int) ([]port.VectorResult, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if len(query) != s.dimension {
		return nil, fmt.Errorf("query dimension mismatch: expected %d, got %d", s.dimension, len(query))
	}
	if len(s.entries) == 0 || k <= 0 {
		return nil, nil
	}

	results := make([]port.VectorResult, 0, len(s.entries))
	for id, entry := range s.entries {
		results = append(results, port.VectorResult{
			ID:       id,
			Text:     entry.text,
			Metadata: entry.metadata,
			Distance: cosineDistance(query, entry.vector),
		})
	}

	sort.Slice(results, func(i, j int) bool {
		return results[i].Distance < results[j].Distance
	})

	if k < len(results) {
		results = results[:k]
	}
	return results, nil
}

func (s *MemoryVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

func (s *MemoryVectorStore) List() ([]port.VectorItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := make([]port.VectorItem, 0, len(s.entries))
	for id, entry := range s.entries {
		items = append(items, port.VectorItem{
			ID:       id,
			Text:     entry.text,
			Metadata: entry.metadata,
			Vector:   entry.vector,
		})
	}
	return items, nil
}

func (s *MemoryVectorStore) Close() error {
	return nil
}
