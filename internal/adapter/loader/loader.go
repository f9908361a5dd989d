package loader

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"docqa/internal/domain"
	"docqa/internal/port"
)

// Loader enumerates files under a source tree and reads them into documents,
// dispatching by file extension. Unrecognized extensions are skipped with a
// warning; they are never an error.
type Loader struct {
	walker *Walker
	logger *slog.Logger
}

func New(includes, excludes []string, logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{
		walker: NewWalker(includes, excludes),
		logger: logger,
	}
}

// codeLanguages maps source-code extensions to their grammar name.
// Extensions in codeFallback are recognized as code but have no dedicated
// grammar; they use the default one.
var codeLanguages = map[string]string{
	".go":    "go",
	".py":    "python",
	".js":    "javascript",
	".ts":    "typescript",
	".java":  "java",
	".cs":    "csharp",
	".c":     "c",
	".h":     "c",
	".cpp":   "cpp",
	".hpp":   "cpp",
	".rb":    "ruby",
	".php":   "php",
	".swift": "swift",
	".kt":    "kotlin",
	".scala": "scala",
	".rs":    "rust",
}

// Scan recursively enumerates supported files under root.
func (l *Loader) Scan(root string) ([]port.FileRef, error) {
	files, err := l.walker.Walk(root)
	if err != nil {
		return nil, fmt.Errorf("failed to walk source directory: %w", err)
	}

	var refs []port.FileRef
	for _, path := range files {
		ref, ok := l.classify(path)
		if !ok {
			l.logger.Warn("extension not supported, skipping file", "path", path)
			continue
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (l *Loader) classify(path string) (port.FileRef, bool) {
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".pdf":
		return port.FileRef{Path: path, Format: domain.FormatPDF}, true
	case ".md", ".markdown":
		return port.FileRef{Path: path, Format: domain.FormatMarkdown}, true
	case ".html", ".htm":
		return port.FileRef{Path: path, Format: domain.FormatHTML}, true
	case ".txt":
		return port.FileRef{Path: path, Format: domain.FormatPlainText}, true
	}

	if lang, ok := codeLanguages[ext]; ok {
		return port.FileRef{Path: path, Format: domain.FormatCode, Language: lang}, true
	}
	return port.FileRef{}, false
}

// Load reads one file into documents. PDFs produce one document per page;
// everything else produces exactly one.
func (l *Loader) Load(ref port.FileRef) ([]domain.Document, error) {
	if ref.Format == domain.FormatPDF {
		return loadPDF(ref.Path)
	}

	data, err := os.ReadFile(ref.Path)
	if err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	return []domain.Document{{
		ID:       docID(ref.Path),
		Path:     ref.Path,
		Content:  string(data),
		Format:   ref.Format,
		Language: ref.Language,
	}}, nil
}

// docID derives a stable document ID from the source path.
func docID(path string) string {
	hash := sha256.Sum256([]byte(path))
	return hex.EncodeToString(hash[:8])
}

func pageDocID(path string, page int) string {
	hash := sha256.Sum256([]byte(fmt.Sprintf("%s#%d", path, page)))
	return hex.EncodeToString(hash[:8])
}
