package domain

// Format identifies how a document's content is structured, and therefore
// which splitting strategy applies to it. The set is closed: adding a format
// means adding a splitter for it.
type Format int

const (
	FormatPlainText Format = iota
	FormatMarkdown
	FormatHTML
	FormatPDF
	FormatCode
)

func (f Format) String() string {
	switch f {
	case FormatPlainText:
		return "text"
	case FormatMarkdown:
		return "markdown"
	case FormatHTML:
		return "html"
	case FormatPDF:
		return "pdf"
	case FormatCode:
		return "code"
	default:
		return "unknown"
	}
}

// Document is one unit of loaded source content. PDFs produce one Document
// per page. Immutable once loaded; discarded after chunking.
type Document struct {
	ID       string
	Path     string
	Content  string
	Format   Format
	Language string // set for FormatCode only
	Page     int    // 1-based for FormatPDF, 0 otherwise
}

// Metadata keys attached to chunks.
const (
	MetaSource   = "source"
	MetaPage     = "page"
	MetaLanguage = "language"
	MetaH1       = "H1"
	MetaH2       = "H2"
	MetaH3       = "H3"
)

// Chunk is a bounded unit of retrievable text with its metadata. Created at
// ingestion, embedded once, persisted in the vector index, never mutated.
type Chunk struct {
	ID       string
	DocID    string
	Ordinal  int
	Text     string
	Metadata map[string]string
}