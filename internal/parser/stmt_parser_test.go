package parser

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"unparen/internal/ast"
	"unparen/internal/diag"
)

func TestStatementParensAreNotGroups(t *testing.T) {
	p := mustParse(t, `
if (x) { y(); } else if ((z)) { }
while (a && b) { break; }
switch (v) { default: break; }
`)
	want := []string{"(z)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	stmts := p.builder.Files.Get(p.file).Stmts
	if len(stmts) != 3 {
		t.Fatalf("expected 3 statements, got %d", len(stmts))
	}
	if _, ok := p.builder.Stmts.While(stmts[1]); !ok {
		t.Fatalf("expected while statement")
	}
}

func TestPatterns(t *testing.T) {
	p := mustParse(t, `
var a = o is (> 5 or < 0);
var b = o is (1) + 2;
var c = o is Point { X: (1) } pt;
var d = o is not (A.B);
var e = o is int n;
var f = o is var (x, y);
`)
	want := []string{"(> 5 or < 0)", "(1)", "(1)", "(A.B)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	exprs := p.builder.Exprs
	kinds := []ast.ExprKind{ast.ExprGroup, ast.PatConstant, ast.PatRecursive, ast.PatNot, ast.PatDeclaration, ast.PatVar}
	for i, k := range kinds {
		is, ok := exprs.Is(p.firstInit(t, i))
		if !ok {
			t.Fatalf("stmt %d: expected is-pattern", i)
		}
		if got := p.kindOf(is.Pattern); got != k {
			t.Errorf("stmt %d: expected %s pattern, got %s", i, k, got)
		}
	}
}

func TestSwitchStatementAndExpression(t *testing.T) {
	p := mustParse(t, `
switch (x)
{
    case (1):
    case > 2 when (y):
        break;
    default:
        z = (3);
        break;
}
var r = v switch { (1) => (2), _ when (g) => 0 };
`)
	want := []string{"(1)", "(y)", "(3)", "(1)", "(2)", "(g)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	sw, ok := p.builder.Stmts.Switch(p.builder.Files.Get(p.file).Stmts[0])
	if !ok || len(sw.Sections) != 2 || len(sw.Sections[0].Labels) != 2 {
		t.Fatalf("unexpected switch shape")
	}
}

func TestDeclarations(t *testing.T) {
	p := mustParse(t, `
using System;

namespace N
{
    public class C : Base
    {
        const int K = (1);
        private int f = (2), g;
        public int P { get => (3); set { x = (4); } }
        public int Q => (5);
        public int R { get; } = (6);
        public C(int a = (7)) : base(a) { }
        public static C operator +(C a, C b) => (a);
        public static implicit operator bool(C c) => (true);
        void M() { return; }
    }
    enum E { A = (1 << 2), B }
}
`)
	want := []string{"(1)", "(2)", "(3)", "(4)", "(5)", "(6)", "(7)", "(a)", "(true)", "(1 << 2)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}

	items := p.builder.Items
	file := p.builder.Files.Get(p.file)
	if len(file.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(file.Items))
	}
	ns, ok := items.Namespace(file.Items[0])
	if !ok || p.builder.Name(ns.Name) != "N" || len(ns.Items) != 2 {
		t.Fatalf("unexpected namespace shape")
	}
	class, ok := items.Type(ns.Items[0])
	if !ok || len(class.Members) != 9 {
		t.Fatalf("expected class with 9 members")
	}
	op, ok := items.Method(class.Members[6])
	if !ok || !op.IsStatic || !op.ExprBody.IsValid() {
		t.Fatalf("expected static operator with expression body")
	}
	enum, ok := items.Type(ns.Items[1])
	if !ok || len(enum.Members) != 2 {
		t.Fatalf("expected enum with 2 members")
	}
	member, _ := items.Field(enum.Members[0])
	if !member.IsConst || member.Type.IsValid() {
		t.Fatalf("enum member should be an untyped constant")
	}
}

func TestFileScopedNamespace(t *testing.T) {
	p := mustParse(t, `
namespace A.B;
record R(int X);
class C { int M() => (1); }
`)
	ns, ok := p.builder.Items.Namespace(p.builder.Files.Get(p.file).Items[0])
	if !ok || p.builder.Name(ns.Name) != "A.B" || len(ns.Items) != 2 {
		t.Fatalf("unexpected file-scoped namespace shape")
	}
}

func TestDirectiveConditions(t *testing.T) {
	p := mustParse(t, `
#if (A || B) && !C
class X { }
#elif DEBUG == true
#endif
`)
	dirs := p.builder.Files.Get(p.file).Directives
	if len(dirs) != 2 {
		t.Fatalf("expected 2 directive conditions, got %d", len(dirs))
	}
	if dirs[0].Name != "if" || dirs[1].Name != "elif" {
		t.Fatalf("unexpected directive names %q, %q", dirs[0].Name, dirs[1].Name)
	}
	bin, ok := p.builder.Exprs.Binary(dirs[0].Expr)
	if !ok || bin.Op != ast.ExprBinaryLogicalAnd {
		t.Fatalf("expected && at the root of the #if condition")
	}
	want := []string{"(A || B)"}
	if diff := cmp.Diff(want, p.collect(t, ast.ExprGroup)); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
}

func TestBadDirectiveCondition(t *testing.T) {
	for _, input := range []string{"#if\nclass X { }\n#endif\n", "#if A B\n#endif\n", "#if (A\n#endif\n"} {
		p := parseSource(t, input)
		if !hasCode(p.bag, diag.SynBadDirectiveCond) {
			t.Errorf("%q: expected bad directive diagnostic, got %s", input, diagnosticsSummary(p.bag))
		}
	}
}

func TestRecoveryAfterError(t *testing.T) {
	p := parseSource(t, `
x = ;
y = (1);
`)
	if p.result.Errors == 0 {
		t.Fatalf("expected an error")
	}
	if got := p.collect(t, ast.ExprGroup); len(got) != 1 || got[0] != "(1)" {
		t.Fatalf("expected parsing to resume after the error, got %v", got)
	}
}

func TestMaxErrors(t *testing.T) {
	p := parseSourceWithOptions(t, "a = ; b = ; c = ; d = ;", Options{MaxErrors: 2})
	if p.bag.Len() > 2 {
		t.Fatalf("expected at most 2 diagnostics, got %d: %s", p.bag.Len(), diagnosticsSummary(p.bag))
	}
	if p.result.Errors < 4 {
		t.Fatalf("expected all errors to be counted, got %d", p.result.Errors)
	}
}
