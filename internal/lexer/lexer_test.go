package lexer_test

import (
	"testing"

	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/source"
	"unparen/internal/token"
)

// testReporter собирает все диагностики, полученные от лексера
type testReporter struct {
	diagnostics []diag.Diagnostic
}

func (r *testReporter) Report(code diag.Code, sev diag.Severity, primary source.Span, msg string, notes []diag.Note, fixes []diag.Fix) {
	r.diagnostics = append(r.diagnostics, diag.Diagnostic{Severity: sev, Code: code, Message: msg, Primary: primary})
}

func lexAll(t *testing.T, input string) ([]token.Token, *testReporter) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("test.cs", []byte(input)))
	rep := &testReporter{}
	return lexer.New(file, lexer.Options{Reporter: rep}).All(), rep
}

func kinds(toks []token.Token) []token.Kind {
	out := make([]token.Kind, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Kind)
	}
	return out
}

func expectKinds(t *testing.T, input string, want ...token.Kind) []token.Token {
	t.Helper()
	toks, rep := lexAll(t, input)
	if len(rep.diagnostics) != 0 {
		t.Fatalf("%q: unexpected diagnostics %+v", input, rep.diagnostics)
	}
	got := kinds(toks)
	want = append(want, token.EOF)
	if len(got) != len(want) {
		t.Fatalf("%q: got %v; want %v", input, got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("%q: token %d is %v; want %v (all: %v)", input, i, got[i], want[i], got)
		}
	}
	return toks
}

func TestOperators(t *testing.T) {
	expectKinds(t, "a ?? b ??= c", token.Ident, token.QuestionQuestion, token.Ident, token.QuestionAssign, token.Ident)
	expectKinds(t, "s?.Length", token.Ident, token.QuestionDot, token.Ident)
	expectKinds(t, "c ? .5 : 1", token.Ident, token.Question, token.RealLit, token.Colon, token.IntLit)
	expectKinds(t, "x?[0]", token.Ident, token.Question, token.LBracket, token.IntLit, token.RBracket)
	expectKinds(t, "1 << 2 >> 3", token.IntLit, token.Shl, token.IntLit, token.Gt, token.Gt, token.IntLit)
	expectKinds(t, "x+(++x)", token.Ident, token.Plus, token.LParen, token.PlusPlus, token.Ident, token.RParen)
	expectKinds(t, "e::N", token.Ident, token.ColonColon, token.Ident)
	expectKinds(t, "v => v", token.Ident, token.FatArrow, token.Ident)
}

func TestNumbers(t *testing.T) {
	toks := expectKinds(t, "1 1.0 6.67e-11 1m 2f 0x1F 10UL .5",
		token.IntLit, token.RealLit, token.RealLit, token.RealLit, token.RealLit, token.IntLit, token.IntLit, token.RealLit)
	if toks[2].Text != "6.67e-11" {
		t.Fatalf("exponent text = %q", toks[2].Text)
	}
	expectKinds(t, "s[1..]", token.Ident, token.LBracket, token.IntLit, token.DotDot, token.RBracket)
	expectKinds(t, "5.ToString()", token.IntLit, token.Dot, token.Ident, token.LParen, token.RParen)
}

func TestKeywordsAndVerbatimIdent(t *testing.T) {
	toks := expectKinds(t, "stackalloc @class var", token.KwStackalloc, token.Ident, token.Ident)
	if toks[1].Text != "@class" {
		t.Fatalf("verbatim ident text = %q", toks[1].Text)
	}
}

func TestStrings(t *testing.T) {
	expectKinds(t, `"a\"b" @"c""d" 'x' '\''`, token.StringLit, token.StringLit, token.CharLit, token.CharLit)

	_, rep := lexAll(t, "\"abc\n")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnterminatedString {
		t.Fatalf("expected unterminated string, got %+v", rep.diagnostics)
	}
}

func TestInterpolatedHoles(t *testing.T) {
	input := `$"{ (a ? b : c) } and {x,5:N2} {{lit}} { f ? "" : "x" }"`
	toks := expectKinds(t, input, token.InterpStringLit)
	holes := toks[0].Holes
	if len(holes) != 3 {
		t.Fatalf("holes = %d; want 3", len(holes))
	}
	text := func(sp source.Span) string { return input[sp.Start:sp.End] }
	if got := text(holes[0]); got != " (a ? b : c) " {
		t.Fatalf("hole 0 = %q", got)
	}
	if got := text(holes[1]); got != "x" {
		t.Fatalf("hole 1 = %q", got)
	}
	if got := text(holes[2]); got != " f ? \"\" " {
		t.Fatalf("hole 2 = %q", got)
	}
}

func TestTriviaAndDirectives(t *testing.T) {
	input := "// c\n#if(A || B) // note\nx /* b */ y"
	toks := expectKinds(t, input, token.Ident, token.Ident)
	var dir *token.Directive
	for _, tv := range toks[0].Leading {
		if tv.Kind == token.TriviaDirective {
			dir = tv.Directive
		}
	}
	if dir == nil || dir.Name != "if" {
		t.Fatalf("directive not collected: %+v", toks[0].Leading)
	}
	if got := input[dir.Cond.Start:dir.Cond.End]; got != "(A || B)" {
		t.Fatalf("directive cond = %q", got)
	}
	if !toks[1].HasLeadingSpace() {
		t.Fatalf("y should carry leading trivia")
	}
}

func TestRangeLexer(t *testing.T) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("r.cs", []byte("#if(A || B)\n")))
	lx := lexer.NewRange(file, source.Span{File: file.ID, Start: 3, End: 11}, lexer.Options{})
	got := kinds(lx.All())
	want := []token.Kind{token.LParen, token.Ident, token.OrOr, token.Ident, token.RParen, token.EOF}
	if len(got) != len(want) {
		t.Fatalf("got %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("got %v; want %v", got, want)
		}
	}
}

func TestUnknownCharacter(t *testing.T) {
	toks, rep := lexAll(t, "a ` b")
	if len(rep.diagnostics) != 1 || rep.diagnostics[0].Code != diag.LexUnknownChar {
		t.Fatalf("diagnostics = %+v", rep.diagnostics)
	}
	if toks[1].Kind != token.Invalid {
		t.Fatalf("expected Invalid token, got %v", toks[1].Kind)
	}
}
