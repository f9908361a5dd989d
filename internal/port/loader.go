package port

import "docqa/internal/domain"

// FileRef identifies a file discovered during a source scan, with its
// detected format.
type FileRef struct {
	Path     string
	Format   domain.Format
	Language string // for domain.FormatCode
}

// Loader enumerates and reads source files into documents.
type Loader interface {
	// Scan recursively enumerates supported files under root. Files with
	// unrecognized extensions are skipped, not errors.
	Scan(root string) ([]FileRef, error)

	// Load reads one file into documents (PDFs produce one per page).
	Load(ref FileRef) ([]domain.Document, error)
}
