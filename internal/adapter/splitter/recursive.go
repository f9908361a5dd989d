package splitter

import (
	"strings"
	"unicode/utf8"

	"docqa/internal/domain"
)

// DefaultSeparators is the separator hierarchy for unstructured text:
// paragraph breaks first, then lines, then words, then single characters.
var DefaultSeparators = []string{"\n\n", "\n", " ", ""}

// RecursiveSplitter splits text by character count with a configured overlap.
// It tries the coarsest separator that appears in the text and recurses into
// oversized pieces with the finer separators, so chunk boundaries land on the
// most natural break available. No semantic awareness beyond that; this is
// the fallback for formats that carry no reliable structure.
type RecursiveSplitter struct {
	chunkSize    int
	chunkOverlap int
	separators   []string
}

func NewRecursiveSplitter(chunkSize, chunkOverlap int) *RecursiveSplitter {
	return NewRecursiveSplitterWithSeparators(chunkSize, chunkOverlap, DefaultSeparators)
}

func NewRecursiveSplitterWithSeparators(chunkSize, chunkOverlap int, separators []string) *RecursiveSplitter {
	if len(separators) == 0 {
		separators = DefaultSeparators
	}
	return &RecursiveSplitter{
		chunkSize:    chunkSize,
		chunkOverlap: chunkOverlap,
		separators:   separators,
	}
}

func (s *RecursiveSplitter) Split(doc domain.Document) ([]domain.Chunk, error) {
	texts := s.SplitText(doc.Content)

	chunks := make([]domain.Chunk, 0, len(texts))
	for i, text := range texts {
		chunks = append(chunks, newChunk(doc, i, text, nil))
	}
	return chunks, nil
}

// SplitText splits raw text into pieces of at most chunkSize characters with
// up to chunkOverlap characters shared between adjacent pieces.
func (s *RecursiveSplitter) SplitText(text string) []string {
	if strings.TrimSpace(text) == "" {
		return nil
	}

	out := s.splitRecursive(text, s.separators)

	// Drop pieces that are only whitespace.
	result := out[:0]
	for _, c := range out {
		if trimmed := strings.TrimSpace(c); trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}

func (s *RecursiveSplitter) splitRecursive(text string, separators []string) []string {
	sep, rest := chooseSeparator(text, separators)
	pieces := splitKeepSep(text, sep)

	var out []string
	var pending []string

	flush := func() {
		if len(pending) == 0 {
			return
		}
		out = append(out, s.merge(pending)...)
		pending = nil
	}

	for _, piece := range pieces {
		if runeLen(piece) <= s.chunkSize {
			pending = append(pending, piece)
			continue
		}
		// Oversized piece: emit what we have, then recurse with finer
		// separators.
		flush()
		if len(rest) == 0 {
			out = append(out, hardSplit(piece, s.chunkSize, s.chunkOverlap)...)
		} else {
			out = append(out, s.splitRecursive(piece, rest)...)
		}
	}
	flush()

	return out
}

// merge concatenates small pieces into chunks up to chunkSize, carrying a
// trailing window of up to chunkOverlap characters into the next chunk.
// Separators stay attached to their pieces, so no content is lost.
func (s *RecursiveSplitter) merge(pieces []string) []string {
	var chunks []string
	var window []string
	total := 0

	for _, piece := range pieces {
		pl := runeLen(piece)

		if len(window) > 0 && total+pl > s.chunkSize {
			chunks = append(chunks, strings.Join(window, ""))

			// Shrink the window to the overlap budget, and further if the
			// incoming piece would still not fit.
			for len(window) > 0 && (total > s.chunkOverlap || total+pl > s.chunkSize) {
				total -= runeLen(window[0])
				window = window[1:]
			}
		}

		window = append(window, piece)
		total += pl
	}

	if len(window) > 0 {
		chunks = append(chunks, strings.Join(window, ""))
	}
	return chunks
}

// chooseSeparator picks the first separator present in the text; the
// remaining finer separators are used when recursing into oversized pieces.
func chooseSeparator(text string, separators []string) (string, []string) {
	for i, sep := range separators {
		if sep == "" {
			return "", nil
		}
		if strings.Contains(text, sep) {
			return sep, separators[i+1:]
		}
	}
	return "", nil
}

// splitKeepSep splits text by sep, keeping each separator attached to the
// piece that follows it. Joining the pieces reproduces the input exactly.
func splitKeepSep(text, sep string) []string {
	if sep == "" {
		return []string{text}
	}

	parts := strings.Split(text, sep)
	out := make([]string, 0, len(parts))
	for i, p := range parts {
		if i > 0 {
			p = sep + p
		}
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// hardSplit is the last resort: a sliding character window for text with no
// usable separators at all.
func hardSplit(text string, size, overlap int) []string {
	runes := []rune(text)
	if len(runes) <= size {
		return []string{text}
	}

	step := size - overlap
	if step <= 0 {
		step = size
	}

	var out []string
	for start := 0; start < len(runes); start += step {
		end := start + size
		if end > len(runes) {
			end = len(runes)
		}
		out = append(out, string(runes[start:end]))
		if end == len(runes) {
			break
		}
	}
	return out
}

func runeLen(s string) int {
	return utf8.RuneCountInString(s)
}
