package port

import "context"

// Embedder generates vector embeddings for text.
type Embedder interface {
	// Embed generates embeddings for the given texts.
	// Returns a slice of vectors, one per input text.
	Embed(ctx context.Context, texts []string) ([][]float32, error)

	// Dimension returns the embedding vector dimension.
	Dimension() int

	// ModelName returns the name of the embedding model.
	ModelName() string
}

// VectorStore persists (chunk text, metadata, vector) tuples and answers
// nearest-neighbor queries.
type VectorStore interface {
	// Insert adds or replaces items in the store.
	Insert(items []VectorItem) error

	// Search finds the k nearest stored vectors to the query, ordered by
	// ascending distance (most similar first).
	Search(query []float32, k int) ([]VectorResult, error)

	// Count returns the number of stored vectors.
	Count() (int, error)

	// List returns every stored item. Intended for inspection tooling.
	List() ([]VectorItem, error)

	// Close releases the underlying storage.
	Close() error
}

// VectorItem represents a chunk to be stored alongside its embedding.
type VectorItem struct {
	ID       string
	Text     string
	Metadata map[string]string
	Vector   []float32
}

// VectorResult represents a search result.
type VectorResult struct {
	ID       string
	Text     string
	Metadata map[string]string
	Distance float64 // lower is more similar
}
