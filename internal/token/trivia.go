package token

import "unparen/internal/source"

// TriviaKind classifies non-significant source text.
type TriviaKind uint8

const (
	TriviaSpace TriviaKind = iota
	TriviaNewline
	TriviaLineComment
	TriviaBlockComment
	TriviaDirective
)

func (k TriviaKind) String() string {
	switch k {
	case TriviaSpace:
		return "Space"
	case TriviaNewline:
		return "Newline"
	case TriviaLineComment:
		return "LineComment"
	case TriviaBlockComment:
		return "BlockComment"
	case TriviaDirective:
		return "Directive"
	}
	return "Trivia?"
}

// Directive is a parsed preprocessor line such as "#if (A || B)".
type Directive struct {
	Name string      // if, elif, else, endif, define, region, ...
	Cond source.Span // text after the name, empty when absent
}

// Trivia is a run of text attached to the following token.
type Trivia struct {
	Kind      TriviaKind
	Span      source.Span
	Text      string
	Directive *Directive // только если Kind == TriviaDirective
}
