package token

import (
	"unparen/internal/source"
)

// Token represents a single source token with its location and trivia.
type Token struct {
	Kind    Kind
	Span    source.Span
	Text    string
	Leading []Trivia
	// Holes holds the expression spans of an interpolated string, in order.
	Holes []source.Span
}

// IsLiteral reports whether the token is a literal, including true/false/null.
func (t Token) IsLiteral() bool {
	switch t.Kind {
	case IntLit, RealLit, CharLit, StringLit, InterpStringLit, KwTrue, KwFalse, KwNull:
		return true
	default:
		return false
	}
}

// IsKeyword reports whether the token is a reserved keyword.
func (t Token) IsKeyword() bool {
	return t.Kind >= KwAs && t.Kind <= KwVoid
}

// IsPunctOrOp reports whether the token is punctuation or an operator.
func (t Token) IsPunctOrOp() bool {
	return t.Kind >= Plus && t.Kind <= Hash
}

// IsIdent reports whether the token is an identifier.
func (t Token) IsIdent() bool { return t.Kind == Ident }

// IsContextual reports whether the token is the identifier kw.
func (t Token) IsContextual(kw string) bool {
	return t.Kind == Ident && t.Text == kw
}

// HasLeadingSpace reports whether any trivia separates the token from the previous one.
func (t Token) HasLeadingSpace() bool {
	return len(t.Leading) > 0
}
