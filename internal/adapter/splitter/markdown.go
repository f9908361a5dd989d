package splitter

import (
	"strings"

	"docqa/internal/domain"
)

// MarkdownSplitter splits on heading markers (levels 1-3). Chunk boundaries
// align with section boundaries and each chunk's metadata records the heading
// hierarchy it falls under. Section content is never size-split: the document
// structure, not a character budget, decides the boundaries here.
type MarkdownSplitter struct{}

func NewMarkdownSplitter() *MarkdownSplitter {
	return &MarkdownSplitter{}
}

const maxHeadingLevel = 3

func (s *MarkdownSplitter) Split(doc domain.Document) ([]domain.Chunk, error) {
	lines := strings.Split(doc.Content, "\n")

	var chunks []domain.Chunk
	var content []string
	headings := map[int]string{} // level -> title

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

	inFence := false
	for _, line := range lines {
		trimmed := strings.TrimSpace(line)

		// Headings inside fenced code blocks are content, not structure.
		if strings.HasPrefix(trimmed, "```") || strings.HasPrefix(trimmed, "~~~") {
			inFence = !inFence
			content = append(content, line)
			continue
		}

		level, title, ok := parseHeading(trimmed)
		if !ok || inFence {
			content = append(content, line)
			continue
		}

		flush()
		headings[level] = title
		for l := level + 1; l <= maxHeadingLevel; l++ {
			delete(headings, l)
		}
	}
	flush()

	return chunks, nil
}

// parseHeading recognizes ATX headings of level 1-3. Deeper headings stay in
// the section content.
func parseHeading(line string) (level int, title string, ok bool) {
	if !strings.HasPrefix(line, "#") {
		return 0, "", false
	}

	level = 0
	for level < len(line) && line[level] == '#' {
		level++
	}
	if level > maxHeadingLevel {
		return 0, "", false
	}
	if level == len(line) {
		return level, "", true
	}
	if line[level] != ' ' && line[level] != '\t' {
		return 0, "", false
	}

	return level, strings.TrimSpace(line[level:]), true
}
