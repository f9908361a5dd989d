package loader

import (
	"fmt"
	"strings"

	"github.com/ledongthuc/pdf"

	"docqa/internal/domain"
)

// loadPDF extracts plain text from a PDF, one document per page so chunk
// metadata can carry the page number. The extracted text has no reliable
// structure left, so downstream splitting is plain character splitting.
func loadPDF(path string) ([]domain.Document, error) {
	f, reader, err := pdf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open pdf: %w", err)
	}
	defer f.Close()

	var docs []domain.Document
	for pageNum := 1; pageNum <= reader.NumPage(); pageNum++ {
		page := reader.Page(pageNum)
		if page.V.IsNull() {
			continue
		}

		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("failed to extract text from page %d: %w", pageNum, err)
		}
		if strings.TrimSpace(text) == "" {
			continue
		}

		docs = append(docs, domain.Document{
			ID:      pageDocID(path, pageNum),
			Path:    path,
			Content: text,
			Format:  domain.FormatPDF,
			Page:    pageNum,
		})
	}

	return docs, nil
}
