package token_test

import (
	"testing"

	"unparen/internal/source"
	"unparen/internal/token"
)

func tok(k token.Kind) token.Token {
	return token.Token{Kind: k, Span: source.Span{}}
}

func TestClassification(t *testing.T) {
	for _, k := range []token.Kind{token.IntLit, token.RealLit, token.StringLit, token.KwNull, token.KwTrue} {
		if !tok(k).IsLiteral() {
			t.Fatalf("%v should be literal", k)
		}
	}
	for _, k := range []token.Kind{token.Ident, token.Plus, token.KwInt} {
		if tok(k).IsLiteral() {
			t.Fatalf("%v must NOT be literal", k)
		}
	}
	if !tok(token.KwStackalloc).IsKeyword() || tok(token.Ident).IsKeyword() {
		t.Fatalf("keyword range is wrong")
	}
	if !tok(token.QuestionDot).IsPunctOrOp() || tok(token.InterpStringLit).IsPunctOrOp() {
		t.Fatalf("operator range is wrong")
	}
}

func TestLookupKeyword(t *testing.T) {
	cases := map[string]token.Kind{
		"stackalloc": token.KwStackalloc,
		"checked":    token.KwChecked,
		"is":         token.KwIs,
		"int":        token.KwInt,
	}
	for lexeme, want := range cases {
		got, ok := token.LookupKeyword(lexeme)
		if !ok || got != want {
			t.Fatalf("LookupKeyword(%q) = %v,%v; want %v", lexeme, got, ok, want)
		}
	}
	for _, ctx := range []string{"var", "dynamic", "when", "and", "or", "not", "nameof", "Int"} {
		if _, ok := token.LookupKeyword(ctx); ok {
			t.Fatalf("%q must stay an identifier", ctx)
		}
	}
}

func TestKindString(t *testing.T) {
	if token.QuestionQuestion.String() != "??" || token.KwNew.String() != "new" {
		t.Fatalf("unexpected names %q %q", token.QuestionQuestion, token.KwNew)
	}
	if !token.IsPredefinedType(token.KwDecimal) || token.IsPredefinedType(token.KwNew) {
		t.Fatalf("IsPredefinedType wrong")
	}
}
