package splitter

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strconv"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// Registry selects the splitting strategy for a document's format.
// Structure-aware strategies (markdown and HTML headers, code grammars) are
// preferred wherever the format provides exploitable structure; plain
// character splitting is the fallback when none exists.
type Registry struct {
	chunkSize    int
	chunkOverlap int

	text     *RecursiveSplitter
	markdown *MarkdownSplitter
	html     *HTMLSplitter
}

func NewRegistry(chunkSize, chunkOverlap int) *Registry {
	return &Registry{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		text:         NewRecursiveSplitter(chunkSize, chunkOverlap),
		markdown:     NewMarkdownSplitter(),
		html:         NewHTMLSplitter(),
	}
}

// For returns the splitter for the given document.
func (r *Registry) For(doc domain.Document) port.Splitter {
	switch doc.Format {
	case domain.FormatMarkdown:
		return r.markdown
	case domain.FormatHTML:
		return r.html
	case domain.FormatCode:
		return NewCodeSplitter(doc.Language, r.chunkSize, r.chunkOverlap)
	default:
		// Plain text and PDF-extracted text carry no reliable structure.
		return r.text
	}
}

// Split dispatches by format and splits the document.
func (r *Registry) Split(doc domain.Document) ([]domain.Chunk, error) {
	return r.For(doc).Split(doc)
}

// newChunk builds a chunk with base metadata plus any strategy-specific
// entries. Chunk IDs are content-addressed so re-ingesting identical content
// replaces rather than duplicates.
func newChunk(doc domain.Document, ordinal int, text string, extra map[string]string) domain.Chunk {
	meta := map[string]string{
		domain.MetaSource: doc.Path,
	}
	if doc.Page > 0 {
		meta[domain.MetaPage] = strconv.Itoa(doc.Page)
	}
	if doc.Language != "" {
		meta[domain.MetaLanguage] = doc.Language
	}
	for k, v := range extra {
		if v != "" {
			meta[k] = v
		}
	}

	return domain.Chunk{
		ID:       chunkID(doc.ID, ordinal, text),
		DocID:    doc.ID,
		Ordinal:  ordinal,
		Text:     text,
		Metadata: meta,
	}
}

func chunkID(docID string, ordinal int, text string) string {
	data := fmt.Sprintf("%s:%d:%s", docID, ordinal, text)
	hash := sha256.Sum256([]byte(data))
	return hex.EncodeToString(hash[:8])
}
