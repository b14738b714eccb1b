package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
)

func TestCastOrParenthesized(t *testing.T) {
	p := mustParse(t, `
var a = (int)x;
var b = (x) + 1;
var c = (A)-1;
var d = (A)b;
var e = (int)-1;
var f = (A.B)(c);
`)
	tests := []struct {
		stmt int
		kind ast.ExprKind
	}{
		{0, ast.ExprCast},
		{1, ast.ExprBinary},
		{2, ast.ExprBinary},
		{3, ast.ExprCast},
		{4, ast.ExprCast},
		{5, ast.ExprCast},
	}
	for _, tt := range tests {
		if got := p.kindOf(p.firstInit(t, tt.stmt)); got != tt.kind {
			t.Errorf("stmt %d: expected %s, got %s", tt.stmt, tt.kind, got)
		}
	}
	want := []string{"(x)", "(A)", "(c)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestGenericInvocationOrComparison(t *testing.T) {
	p := mustParse(t, `
F(N<T, U>(5+0));
F(a < b, c > d);
`)
	exprs := p.builder.Exprs
	stmts := p.builder.Files.Get(p.file).Stmts
	if len(stmts) != 2 {
		t.Fatalf("expected 2 statements, got %d", len(stmts))
	}

	first, _ := p.builder.Stmts.ExprStmt(stmts[0])
	call, ok := exprs.Call(first.Expr)
	if !ok || len(call.Args) != 1 {
		t.Fatalf("expected call with one argument, got %s", p.text(first.Expr))
	}
	inner, ok := exprs.Call(call.Args[0].Value)
	if !ok {
		t.Fatalf("expected generic invocation, got %s", p.kindOf(call.Args[0].Value))
	}
	ident, ok := exprs.Ident(inner.Target)
	if !ok || len(ident.TypeArgs) != 2 {
		t.Fatalf("expected N<T, U> with two type arguments")
	}

	second, _ := p.builder.Stmts.ExprStmt(stmts[1])
	call, ok = exprs.Call(second.Expr)
	if !ok || len(call.Args) != 2 {
		t.Fatalf("expected two comparison arguments, got %s", p.text(second.Expr))
	}
	for i, a := range call.Args {
		if p.kindOf(a.Value) != ast.ExprBinary {
			t.Errorf("argument %d: expected binary, got %s", i, p.kindOf(a.Value))
		}
	}
}

func TestConditionalAccessOrConditional(t *testing.T) {
	p := mustParse(t, `
var x = a?[0];
var y = c ? [1] : [2];
var z = a?.b.c;
`)
	x := p.firstInit(t, 0)
	element, ok := p.builder.Exprs.CondAccess(x)
	if !ok {
		t.Fatalf("a?[0]: expected CondAccess, got %s", p.kindOf(x))
	}
	if got := p.text(element.WhenNotNull); got != "[0]" {
		t.Fatalf("expected when-not-null %q, got %q", "[0]", got)
	}
	if got := p.kindOf(p.firstInit(t, 1)); got != ast.ExprConditional {
		t.Fatalf("c ? [1] : [2]: expected Conditional, got %s", got)
	}
	z := p.firstInit(t, 2)
	access, ok := p.builder.Exprs.CondAccess(z)
	if !ok {
		t.Fatalf("a?.b.c: expected CondAccess, got %s", p.kindOf(z))
	}
	if got := p.text(access.WhenNotNull); got != ".b.c" {
		t.Fatalf("expected when-not-null %q, got %q", ".b.c", got)
	}
}

func TestShiftFromAdjacentGreater(t *testing.T) {
	p := mustParse(t, "var a = x >> 2;")
	bin, ok := p.builder.Exprs.Binary(p.firstInit(t, 0))
	if !ok || bin.Op != ast.ExprBinaryShiftRight {
		t.Fatalf("expected '>>' shift")
	}
	if !parseSource(t, "var b = x > > 2;").bag.HasErrors() {
		t.Fatalf("expected '> >' to be a syntax error")
	}
}

func TestLambdaAndQuery(t *testing.T) {
	p := mustParse(t, `
Func<int, int> f = x => (x + 1);
var g = async (a, b) => { return (a); };
var q = from c in cs where (c > 0) select (c * 2);
`)
	if got := p.kindOf(p.firstInit(t, 0)); got != ast.ExprLambda {
		t.Fatalf("expected lambda, got %s", got)
	}
	lam, _ := p.builder.Exprs.Lambda(p.firstInit(t, 1))
	if !lam.Async || len(lam.Params) != 2 || !lam.Block.IsValid() {
		t.Fatalf("unexpected async lambda shape: %+v", lam)
	}
	q, ok := p.builder.Exprs.Query(p.firstInit(t, 2))
	if !ok || len(q.Clauses) != 3 {
		t.Fatalf("expected query with 3 clauses")
	}
	want := []string{"(x + 1)", "(a)", "(c > 0)", "(c * 2)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestObjectAndCollectionCreation(t *testing.T) {
	p := mustParse(t, `
var a = new C { A = (1), B = { 2 } };
var b = new List<int> { (1), 2 };
var c = new int[(n)];
int[] d = { (1), 2 };
var e = [(1), ..xs];
`)
	want := []string{"(1)", "(1)", "(n)", "(1)", "(1)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if got := p.kindOf(p.firstInit(t, 2)); got != ast.ExprArrayNew {
		t.Fatalf("expected array creation, got %s", got)
	}
}

func TestInterpolationHoles(t *testing.T) {
	p := mustParse(t, `var s = $"{(a + b)} and {(c ? d : e)}";`)
	holes, ok := p.builder.Exprs.Interpolated(p.firstInit(t, 0))
	if !ok || len(holes.Holes) != 2 {
		t.Fatalf("expected two holes")
	}
	for i, h := range holes.Holes {
		if p.kindOf(h) != ast.ExprGroup {
			t.Errorf("hole %d: expected group, got %s", i, p.kindOf(h))
		}
	}
}

func TestHoleLexErrorReportedOnce(t *testing.T) {
	// скобочный шаблон пробуется спекулятивно, затем дыра лексируется заново
	p := parseSource(t, "var r = x is ($\"{a ` b}\");\n")
	n := 0
	for _, d := range p.bag.Items() {
		if d.Code == diag.LexUnknownChar {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("expected one unknown character diagnostic, got %d: %s", n, diagnosticsSummary(p.bag))
	}
}

func TestUnclosedParenIsError(t *testing.T) {
	p := parseSource(t, "x = (1 + 2;\n")
	if p.result.Errors == 0 {
		t.Fatalf("expected syntax errors")
	}
	if !hasCode(p.bag, diag.SynUnclosedParen) {
		t.Fatalf("expected unclosed paren diagnostic, got %s", diagnosticsSummary(p.bag))
	}
}

func TestMissingSemicolonIsWarning(t *testing.T) {
	p := parseSource(t, "x = (1)")
	if p.result.Errors != 0 {
		t.Fatalf("unexpected errors: %s", diagnosticsSummary(p.bag))
	}
	if !hasCode(p.bag, diag.SynExpectSemicolon) {
		t.Fatalf("expected missing semicolon warning, got %s", diagnosticsSummary(p.bag))
	}
	if got := p.collect(t, ast.ExprGroup); len(got) != 1 {
		t.Fatalf("expected the group to be parsed, got %v", got)
	}
}

func virtualFile(text string) *source.File {
	fs := source.NewFileSet()
	return fs.Get(fs.AddVirtual("expr.cs", []byte(text)))
}

func TestParseExpression(t *testing.T) {
	b := ast.NewBuilder(ast.Hints{}, nil)
	src := virtualFile("(a + b) * c")
	bag := diag.NewBag(10)
	id, res := ParseExpression(src, b, Options{Reporter: &diag.BagReporter{Bag: bag}})
	if res.Errors != 0 {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(bag))
	}
	bin, ok := b.Exprs.Binary(id)
	if !ok || bin.Op != ast.ExprBinaryMul {
		t.Fatalf("expected multiplication at the root")
	}
	if b.Exprs.Get(bin.Left).Kind != ast.ExprGroup {
		t.Fatalf("expected group on the left")
	}

	_, res = ParseExpression(virtualFile("a +"), ast.NewBuilder(ast.Hints{}, nil), Options{})
	if res.Errors == 0 {
		t.Fatalf("expected error for incomplete expression")
	}
}
