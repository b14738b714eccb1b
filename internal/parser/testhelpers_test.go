package parser

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/source"
)

type parsed struct {
	builder *ast.Builder
	file    ast.FileID
	src     *source.File
	bag     *diag.Bag
	result  Result
}

func parseSource(t *testing.T, input string) parsed {
	return parseSourceWithOptions(t, input, Options{})
}

func parseSourceWithOptions(t *testing.T, input string, opts Options) parsed {
	t.Helper()

	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(input))
	file := fs.Get(fileID)

	bag := diag.NewBag(100)
	reporter := &diag.BagReporter{Bag: bag}

	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	if opts.MaxErrors == 0 {
		opts.MaxErrors = 100
	}
	opts.Reporter = reporter

	result := ParseFile(context.Background(), file, lx, builder, opts)
	if result.Bag == nil {
		result.Bag = bag
	}
	return parsed{builder: builder, file: result.File, src: file, bag: result.Bag, result: result}
}

func mustParse(t *testing.T, input string) parsed {
	t.Helper()
	p := parseSource(t, input)
	if p.bag.HasErrors() {
		t.Fatalf("unexpected diagnostics: %s", diagnosticsSummary(p.bag))
	}
	return p
}

func diagnosticsSummary(bag *diag.Bag) string {
	if bag == nil {
		return "<nil bag>"
	}
	diags := bag.Items()
	if len(diags) == 0 {
		return "<none>"
	}
	lines := make([]string, len(diags))
	for i, d := range diags {
		lines[i] = fmt.Sprintf("[%s] %s", d.Code.ID(), d.Message)
	}
	return strings.Join(lines, "; ")
}

// collect returns source text of every expression of kind k in walk order.
func (p parsed) collect(t *testing.T, k ast.ExprKind) []string {
	t.Helper()
	var out []string
	err := ast.Walk(p.builder, p.file, func(v ast.Visit) error {
		e := p.builder.Exprs.Get(v.Slot.Expr)
		if e != nil && e.Kind == k {
			out = append(out, p.src.Text(e.Span))
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk: %v", err)
	}
	return out
}

// firstInit returns the initializer of the first local declared by top-level statement i.
func (p parsed) firstInit(t *testing.T, i int) ast.ExprID {
	t.Helper()
	f := p.builder.Files.Get(p.file)
	if len(f.Stmts) <= i {
		t.Fatalf("expected at least %d statements, got %d", i+1, len(f.Stmts))
	}
	local, ok := p.builder.Stmts.Local(f.Stmts[i])
	if !ok {
		t.Fatalf("statement %d is not a local declaration", i)
	}
	return local.Decls[0].Init
}

func (p parsed) kindOf(id ast.ExprID) ast.ExprKind {
	return p.builder.Exprs.Get(id).Kind
}

func (p parsed) text(id ast.ExprID) string {
	return p.src.Text(p.builder.Exprs.Get(id).Span)
}

func hasCode(bag *diag.Bag, code diag.Code) bool {
	for _, d := range bag.Items() {
		if d.Code == code {
			return true
		}
	}
	return false
}
