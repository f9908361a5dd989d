package store

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"sync"

	"go.etcd.io/bbolt"

	"docqa/internal/port"
)

var (
	bucketChunks = []byte("chunks")
	bucketMeta   = []byte("meta")
	keyIndexInfo = []byte("index_info")
)

// BoltVectorStore persists embedded chunks in BoltDB and answers similarity
// queries from an in-memory cache. Search is brute force; the index sizes
// this serves stay well within what a full scan handles.
//
// The store records which embedding model produced its vectors and refuses
// to reopen under a different model, since distances across models are
// meaningless.
type BoltVectorStore struct {
	db *bbolt.DB

	mu        sync.RWMutex
	dimension int
	entries   map[string]cacheEntry
}

type cacheEntry struct {
	text     string
	metadata map[string]string
	vector   []float32
}

type storedChunk struct {
	Text     string            `json:"t"`
	Metadata map[string]string `json:"m,omitempty"`
	Vector   []float32         `json:"v"`
}

type indexInfo struct {
	Model     string `json:"model"`
	Dimension int    `json:"dimension"`
}

// Open opens or creates the index at path for the given embedding model.
func Open(path, model string, dimension int) (*BoltVectorStore, error) {
	db, err := bbolt.Open(path, 0600, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to open index: %w", err)
	}

	s := &BoltVectorStore{
		db:        db,
		dimension: dimension,
		entries:   make(map[string]cacheEntry),
	}

	err = db.Update(func(tx *bbolt.Tx) error {
		if _, err := tx.CreateBucketIfNotExists(bucketChunks); err != nil {
			return err
		}
		meta, err := tx.CreateBucketIfNotExists(bucketMeta)
		if err != nil {
			return err
		}

		want := indexInfo{Model: model, Dimension: dimension}
		if data := meta.Get(keyIndexInfo); data != nil {
			var have indexInfo
			if err := json.Unmarshal(data, &have); err != nil {
				return fmt.Errorf("corrupted index metadata: %w", err)
			}
			if have != want {
				return fmt.Errorf("index was built with model %s (dimension %d), requested %s (dimension %d): re-ingest or delete the index",
					have.Model, have.Dimension, want.Model, want.Dimension)
			}
			return nil
		}

		data, err := json.Marshal(want)
		if err != nil {
			return err
		}
		return meta.Put(keyIndexInfo, data)
	})
	if err != nil {
		db.Close()
		return nil, err
	}

	if err := s.loadCache(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to load index: %w", err)
	}
	return s, nil
}

func (s *BoltVectorStore) loadCache() error {
	return s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketChunks).ForEach(func(k, v []byte) error {
			var stored storedChunk
			if err := json.Unmarshal(v, &stored); err != nil {
				return fmt.Errorf("corrupted chunk %s: %w", k, err)
			}
			s.entries[string(k)] = cacheEntry{
				text:     stored.Text,
				metadata: stored.Metadata,
				vector:   stored.Vector,
			}
			return nil
		})
	})
}

// Insert adds or replaces chunks. Re-ingesting the same content is a no-op
// because chunk IDs are content-addressed.
func (s *BoltVectorStore) Insert(items []port.VectorItem) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(bucketChunks)
		for _, item := range items {
			if len(item.Vector) != s.dimension {
				return fmt.Errorf("vector dimension mismatch: expected %d, got %d", s.dimension, len(item.Vector))
			}
			data, err := json.Marshal(storedChunk{
				Text:     item.Text,
				Metadata: item.Metadata,
				Vector:   item.Vector,
			})
			if err != nil {
				return err
			}
			if err := b.Put([]byte(item.ID), data); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return err
	}

	for _, item := range items {
		s.entries[item.ID] = cacheEntry{
			text:     item.Text,
			metadata: item.Metadata,
			vector:   item.Vector,
		}
	}
	return nil
}

// Search returns the k nearest chunks by cosine distance, nearest first.
func (s *BoltVectorStore) Search(query []float32, k int) ([]port.VectorResult, error) {
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

// Count returns the number of stored chunks.
func (s *BoltVectorStore) Count() (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries), nil
}

// List returns every stored chunk in unspecified order.
func (s *BoltVectorStore) List() ([]port.VectorItem, error) {
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

func (s *BoltVectorStore) Close() error {
	return s.db.Close()
}

// cosineDistance is 1 minus cosine similarity: 0 for identical direction,
// 1 for orthogonal, 2 for opposite. Zero vectors are treated as maximally
// distant from everything.
func cosineDistance(a, b []float32) float64 {
	if len(a) != len(b) {
		return 1
	}

	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 1
	}
	return 1 - dot/(math.Sqrt(normA)*math.Sqrt(normB))
}
