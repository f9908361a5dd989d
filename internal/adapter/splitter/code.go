package splitter

import "docqa/internal/domain"

// CodeSplitter splits source code with a per-language separator grammar:
// declaration-level separators come first, so splits prefer the gaps between
// functions and classes over cutting through a body. The size and overlap
// parameters form the same fallback envelope as unstructured splitting.
type CodeSplitter struct {
	inner *RecursiveSplitter
}

func NewCodeSplitter(language string, chunkSize, chunkOverlap int) *CodeSplitter {
	return &CodeSplitter{
		inner: NewRecursiveSplitterWithSeparators(chunkSize, chunkOverlap, GrammarFor(language)),
	}
}

func (s *CodeSplitter) Split(doc domain.Document) ([]domain.Chunk, error) {
	return s.inner.Split(doc)
}

// GrammarFor returns the separator grammar for a language name. Unknown
// languages get the default grammar, which still prefers blank-line breaks.
func GrammarFor(language string) []string {
	if seps, ok := grammars[language]; ok {
		return seps
	}
	return defaultGrammar
}

var defaultGrammar = []string{"\n\n", "\n", " ", ""}

// Separator grammars per language: top-level declarations first, then
// nested control flow, then the unstructured fallback ladder.
var grammars = map[string][]string{
	"go": {
		"\nfunc ", "\ntype ", "\nconst ", "\nvar ",
		"\n\tif ", "\n\tfor ", "\n\tswitch ",
		"\n\n", "\n", " ", "",
	},
	"python": {
		"\nclass ", "\ndef ", "\n\tdef ", "\n    def ",
		"\n\n", "\n", " ", "",
	},
	"javascript": {
		"\nfunction ", "\nconst ", "\nlet ", "\nvar ", "\nclass ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"typescript": {
		"\nenum ", "\ninterface ", "\nnamespace ", "\ntype ",
		"\nfunction ", "\nconst ", "\nclass ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"java": {
		"\nclass ", "\npublic ", "\nprotected ", "\nprivate ", "\nstatic ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"csharp": {
		"\nnamespace ", "\nclass ", "\npublic ", "\nprotected ", "\nprivate ",
		"\nif ", "\nfor ", "\nforeach ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"c": {
		"\nstruct ", "\ntypedef ", "\nstatic ", "\nvoid ", "\nint ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"cpp": {
		"\nclass ", "\nnamespace ", "\nstruct ", "\ntemplate ", "\nvoid ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"ruby": {
		"\nclass ", "\nmodule ", "\ndef ",
		"\nif ", "\nunless ", "\nwhile ", "\nfor ",
		"\n\n", "\n", " ", "",
	},
	"php": {
		"\nfunction ", "\nclass ", "\ninterface ", "\ntrait ",
		"\nif ", "\nforeach ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"swift": {
		"\nfunc ", "\nclass ", "\nstruct ", "\nenum ", "\nextension ",
		"\nif ", "\nfor ", "\nwhile ", "\nswitch ",
		"\n\n", "\n", " ", "",
	},
	"kotlin": {
		"\nfun ", "\nclass ", "\nobject ", "\ninterface ", "\ncompanion ",
		"\nif ", "\nfor ", "\nwhile ", "\nwhen ",
		"\n\n", "\n", " ", "",
	},
	"scala": {
		"\nclass ", "\nobject ", "\ndef ", "\ntrait ", "\nval ", "\nvar ",
		"\nif ", "\nfor ", "\nwhile ", "\nmatch ",
		"\n\n", "\n", " ", "",
	},
	"rust": {
		"\nfn ", "\nimpl ", "\nstruct ", "\nenum ", "\ntrait ", "\nmod ",
		"\nif ", "\nfor ", "\nwhile ", "\nmatch ",
		"\n\n", "\n", " ", "",
	},
}
