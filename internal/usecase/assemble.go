package usecase

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"docqa/internal/port"
)

// ContextAssembler turns a question into the retrieval context that grounds
// the answer: embed the question, find the nearest chunks, keep the ones
// below the distance threshold and join their texts.
type ContextAssembler struct {
	embedder  port.Embedder
	store     port.VectorStore
	topK      int
	threshold float64
	logger    *slog.Logger
}

func NewContextAssembler(embedder port.Embedder, store port.VectorStore, topK int, threshold float64, logger *slog.Logger) *ContextAssembler {
	if logger == nil {
		logger = slog.Default()
	}
	return &ContextAssembler{
		embedder:  embedder,
		store:     store,
		topK:      topK,
		threshold: threshold,
		logger:    logger,
	}
}

// Assemble returns the joined context string and the chunks that made the
// cut, in nearest-first order. A question with no sufficiently close chunks
// yields an empty context, not an error: the answer layer decides what an
// empty context means.
func (a *ContextAssembler) Assemble(ctx context.Context, question string) (string, []port.VectorResult, error) {
	vectors, err := a.embedder.Embed(ctx, []string{question})
	if err != nil {
		return "", nil, fmt.Errorf("failed to embed question: %w", err)
	}
	if len(vectors) != 1 {
		return "", nil, fmt.Errorf("expected 1 question vector, got %d", len(vectors))
	}

	candidates, err := a.store.Search(vectors[0], a.topK)
	if err != nil {
		return "", nil, fmt.Errorf("similarity search failed: %w", err)
	}

	var accepted []port.VectorResult
	for _, c := range candidates {
		// Strict inequality: a chunk exactly at the threshold is rejected.
		if c.Distance < a.threshold {
			a.logger.Debug("chunk accepted", "id", c.ID, "distance", c.Distance, "source", c.Metadata["source"])
			accepted = append(accepted, c)
		} else {
			a.logger.Debug("chunk rejected", "id", c.ID, "distance", c.Distance, "threshold", a.threshold)
		}
	}

	texts := make([]string, len(accepted))
	for i, c := range accepted {
		texts[i] = c.Text
	}

	a.logger.Info("context assembled", "candidates", len(candidates), "accepted", len(accepted))
	return strings.Join(texts, "\n\n"), accepted, nil
}
