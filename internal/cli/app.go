package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"docqa/config"
	"docqa/internal/adapter/loader"
	"docqa/internal/adapter/ollama"
	"docqa/internal/adapter/store"
	"docqa/internal/usecase"
)

// app bundles the wired pipeline components for one command invocation.
// Everything is constructed up front so configuration problems surface
// before any work starts.
type app struct {
	embedder *ollama.Embedder
	store    *store.BoltVectorStore
	answers  *usecase.AnswerService
}

func (a *app) Close() error {
	return a.store.Close()
}

func newEmbedder() *ollama.Embedder {
	return ollama.NewEmbedder(cfg.Ollama.BaseURL, cfg.Ollama.EmbeddingModel, cfg.Ollama.Timeout(), cfg.Ollama.MaxRetries)
}

// openStore opens the index, creating its directory if needed.
func openStore(embedder *ollama.Embedder) (*store.BoltVectorStore, error) {
	path := config.IndexPath(rootDir, cfg)
	if err := config.EnsureIndexDir(path); err != nil {
		return nil, fmt.Errorf("failed to create index directory: %w", err)
	}
	return store.Open(path, embedder.ModelName(), embedder.Dimension())
}

// openExistingStore is openStore for read paths: it refuses to silently
// create an empty index when none has been built yet.
func openExistingStore(embedder *ollama.Embedder) (*store.BoltVectorStore, error) {
	path := config.IndexPath(rootDir, cfg)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("no index found at %s: run 'docqa ingest' first", path)
	}
	return store.Open(path, embedder.ModelName(), embedder.Dimension())
}

// newApp wires the full answering pipeline against an existing index.
func newApp() (*app, error) {
	embedder := newEmbedder()
	st, err := openExistingStore(embedder)
	if err != nil {
		return nil, err
	}

	assembler := usecase.NewContextAssembler(embedder, st, cfg.Retrieve.TopK, cfg.Retrieve.ScoreThreshold, logger)
	chat := ollama.NewChat(cfg.Ollama.BaseURL, cfg.Ollama.ChatModel, cfg.Ollama.Timeout(), cfg.Ollama.MaxRetries)
	answers, err := usecase.NewAnswerService(assembler, chat, logger)
	if err != nil {
		st.Close()
		return nil, err
	}

	return &app{embedder: embedder, store: st, answers: answers}, nil
}

func newLoader() *loader.Loader {
	return loader.New(cfg.Source.Includes, cfg.Source.Excludes, logger)
}

// sourceDir resolves the configured source directory against the project
// root and verifies it exists.
func sourceDir() (string, error) {
	dir := cfg.Source.Dir
	if !filepath.IsAbs(dir) {
		dir = filepath.Join(rootDir, dir)
	}

	info, err := os.Stat(dir)
	if err != nil {
		return "", fmt.Errorf("source directory does not exist: %w", err)
	}
	if !info.IsDir() {
		return "", fmt.Errorf("source path is not a directory: %s", dir)
	}
	return dir, nil
}
