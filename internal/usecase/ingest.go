package usecase

import (
	"context"
	"fmt"
	"log/slog"

	"docqa/internal/adapter/splitter"
	"docqa/internal/domain"
	"docqa/internal/port"
)

// Ingestor builds the vector index: scan files, split them into chunks,
// embed the chunks in batches and insert them into the store.
//
// Per-file failures are recorded and skipped; a broken PDF must not abort
// the rest of the corpus. Embedding and store failures abort, since they
// mean every remaining file would fail the same way.
type Ingestor struct {
	loader    port.Loader
	splitters *splitter.Registry
	embedder  port.Embedder
	store     port.VectorStore
	batchSize int
	logger    *slog.Logger
}

// IngestResult summarizes one ingestion run.
type IngestResult struct {
	FilesScanned  int
	FilesLoaded   int
	FilesFailed   int
	ChunksIndexed int
	Errors        []string
}

// ProgressFunc is called once per scanned file, after it is processed.
type ProgressFunc func(path string)

func NewIngestor(loader port.Loader, splitters *splitter.Registry, embedder port.Embedder, store port.VectorStore, batchSize int, logger *slog.Logger) *Ingestor {
	if logger == nil {
		logger = slog.Default()
	}
	if batchSize <= 0 {
		batchSize = 100
	}
	return &Ingestor{
		loader:    loader,
		splitters: splitters,
		embedder:  embedder,
		store:     store,
		batchSize: batchSize,
		logger:    logger,
	}
}

// Ingest indexes every supported file under root. progress may be nil.
func (u *Ingestor) Ingest(ctx context.Context, root string, progress ProgressFunc) (*IngestResult, error) {
	refs, err := u.loader.Scan(root)
	if err != nil {
		return nil, fmt.Errorf("failed to scan source directory: %w", err)
	}

	result := &IngestResult{FilesScanned: len(refs)}

	var pending []domain.Chunk
	for _, ref := range refs {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		chunks, err := u.processFile(ref)
		if err != nil {
			u.logger.Warn("skipping file", "path", ref.Path, "error", err)
			result.FilesFailed++
			result.Errors = append(result.Errors, fmt.Sprintf("%s: %v", ref.Path, err))
		} else {
			result.FilesLoaded++
			pending = append(pending, chunks...)
		}

		for len(pending) >= u.batchSize {
			batch := pending[:u.batchSize]
			pending = pending[u.batchSize:]
			if err := u.indexBatch(ctx, batch); err != nil {
				return nil, err
			}
			result.ChunksIndexed += len(batch)
		}

		if progress != nil {
			progress(ref.Path)
		}
	}

	if len(pending) > 0 {
		if err := u.indexBatch(ctx, pending); err != nil {
			return nil, err
		}
		result.ChunksIndexed += len(pending)
	}

	u.logger.Info("ingestion finished",
		"scanned", result.FilesScanned,
		"loaded", result.FilesLoaded,
		"failed", result.FilesFailed,
		"chunks", result.ChunksIndexed)
	return result, nil
}

func (u *Ingestor) processFile(ref port.FileRef) ([]domain.Chunk, error) {
	docs, err := u.loader.Load(ref)
	if err != nil {
		return nil, err
	}

	var chunks []domain.Chunk
	for _, doc := range docs {
		split, err := u.splitters.Split(doc)
		if err != nil {
			return nil, fmt.Errorf("failed to split: %w", err)
		}
		chunks = append(chunks, split...)
	}
	return chunks, nil
}

func (u *Ingestor) indexBatch(ctx context.Context, chunks []domain.Chunk) error {
	texts := make([]string, len(chunks))
	for i, c := range chunks {
		texts[i] = c.Text
	}

	vectors, err := u.embedder.Embed(ctx, texts)
	if err != nil {
		return fmt.Errorf("failed to embed chunks: %w", err)
	}
	if len(vectors) != len(chunks) {
		return fmt.Errorf("embedding count mismatch: %d chunks, %d vectors", len(chunks), len(vectors))
	}

	items := make([]port.VectorItem, len(chunks))
	for i, c := range chunks {
		items[i] = port.VectorItem{
			ID:       c.ID,
			Text:     c.Text,
			Metadata: c.Metadata,
			Vector:   vectors[i],
		}
	}

	if err := u.store.Insert(items); err != nil {
		return fmt.Errorf("failed to insert chunks: %w", err)
	}
	return nil
}
