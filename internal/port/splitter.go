package port

import "docqa/internal/domain"

// Splitter converts one loaded document into an ordered sequence of chunks.
type Splitter interface {
	Split(doc domain.Document) ([]domain.Chunk, error)
}
