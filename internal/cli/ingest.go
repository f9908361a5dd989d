package cli

import (
	"fmt"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"docqa/internal/adapter/splitter"
	"docqa/internal/usecase"
)

var ingestCmd = &cobra.Command{
	Use:   "ingest [path]",
	Short: "Index documents for question answering",
	Long: `Index documents under the source directory (or the given path) into
the local vector index. Supported formats: plain text, markdown, HTML,
PDF and common source code files.

Examples:
  docqa ingest             # Index the configured source directory
  docqa ingest ./docs      # Index a specific directory`,
	Args: cobra.MaximumNArgs(1),
	RunE: runIngest,
}

func init() {
	rootCmd.AddCommand(ingestCmd)
}

func runIngest(cmd *cobra.Command, args []string) error {
	dir, err := sourceDir()
	if err != nil {
		return err
	}
	if len(args) > 0 {
		dir = args[0]
	}

	// Verify the embedding model is reachable before opening the index, so
	// a down Ollama or a bad model name aborts with nothing half-written.
	embedder := newEmbedder()
	if _, err := embedder.Embed(cmd.Context(), []string{"connectivity check"}); err != nil {
		return fmt.Errorf("embedding model unavailable: %w", err)
	}

	st, err := openStore(embedder)
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer st.Close()

	ing := usecase.NewIngestor(
		newLoader(),
		splitter.NewRegistry(cfg.Index.ChunkSize, cfg.Index.ChunkOverlap),
		embedder, st, cfg.Index.BatchSize, logger,
	)

	fmt.Printf("Indexing %s...\n", dir)
	start := time.Now()

	bar := progressbar.NewOptions(-1,
		progressbar.OptionSetDescription("Indexing"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionOnCompletion(func() {
			fmt.Println()
		}),
	)

	result, err := ing.Ingest(cmd.Context(), dir, func(path string) {
		bar.Add(1)
	})
	bar.Finish()
	if err != nil {
		return fmt.Errorf("ingestion failed: %w", err)
	}

	fmt.Printf("Indexed %d of %d files (%d chunks) in %s\n",
		result.FilesLoaded, result.FilesScanned, result.ChunksIndexed, time.Since(start).Round(time.Millisecond))
	if result.FilesFailed > 0 {
		fmt.Printf("Skipped %d files with errors:\n", result.FilesFailed)
		for _, e := range result.Errors {
			fmt.Printf("  %s\n", e)
		}
	}
	return nil
}
