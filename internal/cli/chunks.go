package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"
)

var chunksJSON bool

var chunksCmd = &cobra.Command{
	Use:   "chunks",
	Short: "List the chunks stored in the index",
	Long: `Dump every chunk in the local index with its metadata. Useful for
inspecting how documents were split before asking questions.

Examples:
  docqa chunks
  docqa chunks --json`,
	RunE: runChunks,
}

func init() {
	rootCmd.AddCommand(chunksCmd)
	chunksCmd.Flags().BoolVar(&chunksJSON, "json", false, "output as JSON")
}

func runChunks(cmd *cobra.Command, args []string) error {
	embedder := newEmbedder()
	st, err := openExistingStore(embedder)
	if err != nil {
		return err
	}
	defer st.Close()

	items, err := st.List()
	if err != nil {
		return fmt.Errorf("failed to list chunks: %w", err)
	}

	// Stable output: group by source file.
	sort.Slice(items, func(i, j int) bool {
		si, sj := items[i].Metadata["source"], items[j].Metadata["source"]
		if si != sj {
			return si < sj
		}
		return items[i].ID < items[j].ID
	})

	if chunksJSON {
		type chunkOut struct {
			ID       string            `json:"id"`
			Text     string            `json:"text"`
			Metadata map[string]string `json:"metadata,omitempty"`
		}
		out := make([]chunkOut, len(items))
		for i, item := range items {
			out[i] = chunkOut{ID: item.ID, Text: item.Text, Metadata: item.Metadata}
		}
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	}

	for _, item := range items {
		fmt.Printf("--- %s (%s)\n", item.ID, item.Metadata["source"])
		for k, v := range item.Metadata {
			if k != "source" {
				fmt.Printf("    %s: %s\n", k, v)
			}
		}
		fmt.Println(item.Text)
		fmt.Println()
	}
	fmt.Printf("%d chunks\n", len(items))
	return nil
}
