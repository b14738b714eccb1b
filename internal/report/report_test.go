package report

import (
	"context"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/source"
	"unparen/internal/types"
)

func load(t *testing.T, text string) *parens.Tree {
	t.Helper()
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("test.cs", []byte(text)))
	reporter := &diag.BagReporter{Bag: diag.NewBag(100)}
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), src, lexer.New(src, lexer.Options{Reporter: reporter}), b, parser.Options{Reporter: reporter})
	require.Zero(t, res.Errors, "unexpected syntax errors in %q", text)
	env, err := types.Annotate(context.Background(), b, res.File)
	require.NoError(t, err)
	return parens.NewTree(b, res.File, src, env)
}

// apply применяет непересекающиеся правки к content
func apply(content []byte, edits []diag.TextEdit) string {
	sorted := append([]diag.TextEdit(nil), edits...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Span.Start > sorted[j].Span.Start })
	out := append([]byte(nil), content...)
	for _, e := range sorted {
		tail := append([]byte(nil), out[e.Span.End:]...)
		out = append(append(out[:e.Span.Start], e.NewText...), tail...)
	}
	return string(out)
}

func fixAll(t *testing.T, text string) string {
	t.Helper()
	tree := load(t, text)
	groups, err := parens.FixAll(context.Background(), tree, parens.AlwaysRemove())
	require.NoError(t, err)
	return apply(tree.Source().Content, FixEdits(tree, groups))
}

func TestDiagnosticShape(t *testing.T) {
	tree := load(t, "var x = 1 + (2 * 3);\n")
	verdicts, err := parens.Analyze(context.Background(), tree, parens.AlwaysRemove())
	require.NoError(t, err)

	diags := Diagnostics(tree, verdicts)
	require.Len(t, diags, 1)
	d := diags[0]

	require.Equal(t, diag.SevHidden, d.Severity)
	require.Equal(t, diag.StyUnnecessaryParens, d.Code)
	require.Equal(t, Category, d.Category)
	require.Equal(t, "(2 * 3)", tree.Source().Text(d.Primary))
	require.Len(t, d.Additional, 3)
	require.Equal(t, "(2 * 3)", tree.Source().Text(d.Additional[0]))
	require.Equal(t, "(", tree.Source().Text(d.Additional[1]))
	require.Equal(t, ")", tree.Source().Text(d.Additional[2]))
	require.Equal(t, "[1,2]", d.Properties[PropertyUnnecessary])
	require.Equal(t, verdicts[0].Rule, d.Properties["Rule"])

	require.Len(t, d.Fixes, 1)
	f := d.Fixes[0]
	require.Equal(t, FixTitle, f.Title)
	require.True(t, f.IsPreferred)
	require.Equal(t, "STY3001-0-12", f.ID)
	require.Equal(t, "var x = 1 + 2 * 3;\n", apply(tree.Source().Content, f.Edits))
}

func TestDiagnosticsSkipNecessary(t *testing.T) {
	tree := load(t, "var x = (1 + 2) * 3;\n")
	verdicts, err := parens.Analyze(context.Background(), tree, parens.AlwaysRemove())
	require.NoError(t, err)
	require.Len(t, verdicts, 1)
	require.Empty(t, Diagnostics(tree, verdicts))
}

func TestPrimaryIsFirstLine(t *testing.T) {
	tree := load(t, "var x = 1 + (2 *   \n    3);\n")
	verdicts, err := parens.RemovableVerdicts(context.Background(), tree, parens.AlwaysRemove())
	require.NoError(t, err)
	require.Len(t, verdicts, 1)

	d := Diagnostic(tree, verdicts[0])
	require.Equal(t, "(2 *", tree.Source().Text(d.Primary))
	require.Equal(t, "(2 *   \n    3)", tree.Source().Text(d.Additional[0]))
}

func TestFixEdits(t *testing.T) {
	tests := []struct {
		name string
		code string
		want string
	}{
		{"plain", "var x = (a);", "var x = a;"},
		{"nested", "var x = 1 + ((a));", "var x = 1 + a;"},
		{"keyword glue", "class C\n{\n    int M(int value)\n    {\n        return(value);\n    }\n}", "class C\n{\n    int M(int value)\n    {\n        return value;\n    }\n}"},
		{"nested keyword glue", "class C\n{\n    int M(int value)\n    {\n        return((value));\n    }\n}", "class C\n{\n    int M(int value)\n    {\n        return value;\n    }\n}"},
		{"directive", "#if(A || B)\n#endif\n", "#if A || B\n#endif\n"},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.want, fixAll(t, tc.code))
		})
	}
}

func TestFixEditsKeepOldText(t *testing.T) {
	tree := load(t, "var x = (a);")
	edits := FixEdits(tree, tree.Groups())
	require.Len(t, edits, 2)
	require.Equal(t, "(", edits[0].OldText)
	require.Equal(t, ")", edits[1].OldText)
	require.Less(t, edits[0].Span.Start, edits[1].Span.Start)
}

func TestFirstLineTrimsBlanks(t *testing.T) {
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("test.cs", []byte("(a +\t \nb)")))
	got := FirstLine(src, source.Span{File: src.ID, Start: 0, End: 9})
	require.Equal(t, "(a +", src.Text(got))
}
