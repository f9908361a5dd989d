package splitter

import (
	"strings"

	"golang.org/x/net/html"

	"docqa/internal/domain"
)

// HTMLSplitter splits on heading tags (h1-h3), analogous to the Markdown
// splitter: heading tags open a new section and the metadata records the
// heading hierarchy. Script and style content is dropped.
type HTMLSplitter struct{}

func NewHTMLSplitter() *HTMLSplitter {
	return &HTMLSplitter{}
}

var headingLevels = map[string]int{"h1": 1, "h2": 2, "h3": 3}

func (s *HTMLSplitter) Split(doc domain.Document) ([]domain.Chunk, error) {
	tokenizer := html.NewTokenizer(strings.NewReader(doc.Content))

	var chunks []domain.Chunk
	var content []string
	headings := map[int]string{}

	flush := func() {
		text := strings.TrimSpace(strings.Join(content, "\n"))
		content = nil
		if text == "" {
			return
		}
		extra := map[string]string{
			domain.MetaH1: headings[1],
			domain.MetaH2: headings[2],
			domain.MetaH3: headings[3],
		}
		chunks = append(chunks, newChunk(doc, len(chunks), text, extra))
	}

	// skipTag is set while inside script/style; headingLevel > 0 while
	// inside an h1-h3 element, collecting its title text.
	skipTag := ""
	headingLevel := 0
	var headingText strings.Builder

	for {
		tt := tokenizer.Next()
		if tt == html.ErrorToken {
			// io.EOF or malformed input; either way, emit what we have.
			break
		}

		switch tt {
		case html.StartTagToken:
			tok := tokenizer.Token()
			name := tok.Data
			if name == "script" || name == "style" {
				skipTag = name
				continue
			}
			if level, ok := headingLevels[name]; ok {
				flush()
				headingLevel = level
				headingText.Reset()
			}

		case html.EndTagToken:
			tok := tokenizer.Token()
			name := tok.Data
			if name == skipTag {
				skipTag = ""
				continue
			}
			if level, ok := headingLevels[name]; ok && level == headingLevel {
				headings[headingLevel] = strings.TrimSpace(headingText.String())
				for l := headingLevel + 1; l <= maxHeadingLevel; l++ {
					delete(headings, l)
				}
				headingLevel = 0
			}

		case html.TextToken:
			if skipTag != "" {
				continue
			}
			text := string(tokenizer.Text())
			if headingLevel > 0 {
				headingText.WriteString(text)
				continue
			}
			if trimmed := strings.TrimSpace(text); trimmed != "" {
				content = append(content, trimmed)
			}
		}
	}
	flush()

	return chunks, nil
}
