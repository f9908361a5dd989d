package splitter

import (
	"strings"
	"testing"
	"unicode/utf8"

	"docqa/internal/domain"
)

func TestCodeSplitterPrefersDeclarations(t *testing.T) {
	content := `package main

func First() int {
	return 1
}

func Second() int {
	return 2
}

func Third() int {
	return 3
}
`
	doc := domain.Document{
		ID:       "code1",
		Path:     "pkg/x.go",
		Content:  content,
		Format:   domain.FormatCode,
		Language: "go",
	}

	s := NewCodeSplitter("go", 60, 0)
	chunks, err := s.Split(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("expected multiple chunks, got %d", len(chunks))
	}

	// Function bodies should stay whole: the declaration separator is
	// preferred over cutting inside a body.
	for i, c := range chunks {
		opens := strings.Count(c.Text, "{")
		closes := strings.Count(c.Text, "}")
		if opens != closes {
			t.Errorf("chunk %d cuts inside a function body:\n%s", i, c.Text)
		}
	}
}

func TestCodeSplitterSizeEnvelope(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("def handler():\n")
	for i := 0; i < 100; i++ {
		sb.WriteString("    x = compute(x)\n")
	}

	doc := domain.Document{
		ID:       "code2",
		Path:     "app.py",
		Content:  sb.String(),
		Format:   domain.FormatCode,
		Language: "python",
	}

	s := NewCodeSplitter("python", 120, 20)
	chunks, err := s.Split(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) < 2 {
		t.Fatalf("oversized body should be size-split, got %d chunks", len(chunks))
	}
	for i, c := range chunks {
		if got := utf8.RuneCountInString(c.Text); got > 120 {
			t.Errorf("chunk %d length %d exceeds the envelope", i, got)
		}
	}
}

func TestCodeSplitterLanguageMetadata(t *testing.T) {
	doc := domain.Document{
		ID:       "code3",
		Path:     "lib.rs",
		Content:  "fn main() {}\n",
		Format:   domain.FormatCode,
		Language: "rust",
	}

	chunks, err := NewCodeSplitter("rust", 1000, 200).Split(doc)
	if err != nil {
		t.Fatal(err)
	}
	if len(chunks) != 1 {
		t.Fatalf("expected 1 chunk, got %d", len(chunks))
	}
	if chunks[0].Metadata[domain.MetaLanguage] != "rust" {
		t.Errorf("language metadata = %q", chunks[0].Metadata[domain.MetaLanguage])
	}
}

func TestGrammarFor(t *testing.T) {
	if seps := GrammarFor("go"); seps[0] != "\nfunc " {
		t.Errorf("go grammar should lead with func declarations, got %q", seps[0])
	}
	if seps := GrammarFor("no-such-language"); len(seps) != len(defaultGrammar) {
		t.Error("unknown language should get the default grammar")
	}
	// Every grammar must end with the unstructured fallback ladder so the
	// size envelope always holds.
	for lang, seps := range grammars {
		if seps[len(seps)-1] != "" {
			t.Errorf("%s grammar missing final character fallback", lang)
		}
	}
}

func TestRegistryDispatch(t *testing.T) {
	r := NewRegistry(1000, 200)

	cases := []struct {
		doc  domain.Document
		want string
	}{
		{domain.Document{Format: domain.FormatMarkdown}, "*splitter.MarkdownSplitter"},
		{domain.Document{Format: domain.FormatHTML}, "*splitter.HTMLSplitter"},
		{domain.Document{Format: domain.FormatCode, Language: "go"}, "*splitter.CodeSplitter"},
		{domain.Document{Format: domain.FormatPlainText}, "*splitter.RecursiveSplitter"},
		{domain.Document{Format: domain.FormatPDF}, "*splitter.RecursiveSplitter"},
	}

	for _, c := range cases {
		got := typeName(r.For(c.doc))
		if got != c.want {
			t.Errorf("format %s dispatched to %s, want %s", c.doc.Format, got, c.want)
		}
	}
}

func typeName(v interface{}) string {
	switch v.(type) {
	case *MarkdownSplitter:
		return "*splitter.MarkdownSplitter"
	case *HTMLSplitter:
		return "*splitter.HTMLSplitter"
	case *CodeSplitter:
		return "*splitter.CodeSplitter"
	case *RecursiveSplitter:
		return "*splitter.RecursiveSplitter"
	default:
		return "unknown"
	}
}
