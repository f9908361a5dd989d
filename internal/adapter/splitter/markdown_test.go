package splitter

import (
	"strings"
	"testing"

	"docqa/internal/domain"
)

func mdDoc(content string) domain.Document {
	return domain.Document{
		ID:      "md1",
		Path:    "docs/guide.md",
		Content: content,
		Format:  domain.FormatMarkdown,
	}
}

func TestMarkdownSplitterSections(t *testing.T) {
	content := `# A
content one

## B
content two

## C
content three
`
	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 3 {
		t.Fatalf("expected 3 chunks, got %d", len(chunks))
	}

	if chunks[0].Text != "content one" {
		t.Errorf("chunk 0 text = %q", chunks[0].Text)
	}
	if chunks[0].Metadata[domain.MetaH1] != "A" {
		t.Errorf("chunk 0 H1 = %q", chunks[0].Metadata[domain.MetaH1])
	}
	if _, ok := chunks[0].Metadata[domain.MetaH2]; ok {
		t.Error("chunk 0 should have no H2")
	}

	if chunks[1].Text != "content two" {
		t.Errorf("chunk 1 text = %q", chunks[1].Text)
	}
	if chunks[1].Metadata[domain.MetaH1] != "A" || chunks[1].Metadata[domain.MetaH2] != "B" {
		t.Errorf("chunk 1 hierarchy = %v", chunks[1].Metadata)
	}

	if chunks[2].Metadata[domain.MetaH2] != "C" {
		t.Errorf("chunk 2 H2 = %q", chunks[2].Metadata[domain.MetaH2])
	}
}

func TestMarkdownSplitterHierarchyReset(t *testing.T) {
	content := `# One
## Sub
deep content
# Two
top content
`
	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}

	last := chunks[1]
	if last.Metadata[domain.MetaH1] != "Two" {
		t.Errorf("H1 = %q", last.Metadata[domain.MetaH1])
	}
	if _, ok := last.Metadata[domain.MetaH2]; ok {
		t.Error("a new H1 must clear the stale H2")
	}
}

func TestMarkdownSplitterNoChunkSpansHeaders(t *testing.T) {
	content := "# First\nalpha\n# Second\nbeta\n"

	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	for i, c := range chunks {
		if strings.Contains(c.Text, "alpha") && strings.Contains(c.Text, "beta") {
			t.Errorf("chunk %d spans two top-level sections: %q", i, c.Text)
		}
	}
}

func TestMarkdownSplitterIdempotent(t *testing.T) {
	// A chunk that contains no further headers re-splits to itself.
	content := "plain body text\nwith two lines"

	first, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}
	if len(first) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(first))
	}

	again, err := NewMarkdownSplitter().Split(mdDoc(first[0].Text))
	if err != nil {
		t.Fatal(err)
	}
	if len(again) != 1 {
		t.Fatalf("re-split produced %d chunks", len(again))
	}
	if again[0].Text != first[0].Text {
		t.Errorf("re-split changed text: %q vs %q", again[0].Text, first[0].Text)
	}
}

func TestMarkdownSplitterPreamble(t *testing.T) {
	content := "intro before any header\n\n# Later\nbody\n"

	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 2 {
		t.Fatalf("expected 2 chunks, got %d", len(chunks))
	}
	if chunks[0].Text != "intro before any header" {
		t.Errorf("preamble text = %q", chunks[0].Text)
	}
	if _, ok := chunks[0].Metadata[domain.MetaH1]; ok {
		t.Error("preamble chunk should carry no heading metadata")
	}
}

func TestMarkdownSplitterFencedCode(t *testing.T) {
	content := "# Docs\nbefore\n```\n# not a heading\n```\nafter\n"

	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "# not a heading") {
		t.Error("fenced pseudo-heading should remain in content")
	}
	if !strings.Contains(chunks[0].Text, "after") {
		t.Error("content after the fence lost")
	}
}

func TestMarkdownSplitterDeepHeadingsAreContent(t *testing.T) {
	content := "# Top\nbody\n#### detail\nmore\n"

	chunks, err := NewMarkdownSplitter().Split(mdDoc(content))
	if err != nil {
		t.Fatal(err)
	}

	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if !strings.Contains(chunks[0].Text, "#### detail") {
		t.Error("level-4 heading should stay in section content")
	}
}

func TestParseHeading(t *testing.T) {
	cases := []struct {
		line  string
		level int
		title string
		ok    bool
	}{
		{"# Title", 1, "Title", true},
		{"## Sub Title", 2, "Sub Title", true},
		{"### Deep", 3, "Deep", true},
		{"#### Too deep", 0, "", false},
		{"#NoSpace", 0, "", false},
		{"plain line", 0, "", false},
		{"#", 1, "", true},
	}

	for _, c := range cases {
		level, title, ok := parseHeading(c.line)
		if level != c.level || title != c.title || ok != c.ok {
			t.Errorf("parseHeading(%q) = (%d, %q, %v), want (%d, %q, %v)",
				c.line, level, title, ok, c.level, c.title, c.ok)
		}
	}
}
