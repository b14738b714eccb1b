package types

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parser"
	"unparen/internal/source"
)

type annotated struct {
	b    *ast.Builder
	src  *source.File
	file ast.FileID
	env  *Env
}

func annotate(t *testing.T, input string) annotated {
	t.Helper()
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("test.cs", []byte(input)))
	bag := diag.NewBag(50)
	reporter := &diag.BagReporter{Bag: bag}
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), src, lexer.New(src, lexer.Options{Reporter: reporter}), b, parser.Options{Reporter: reporter})
	require.Zero(t, res.Errors, "unexpected syntax errors")
	env, err := Annotate(context.Background(), b, res.File)
	require.NoError(t, err)
	return annotated{b: b, src: src, file: res.File, env: env}
}

// kindsByText maps the source text of every expression to its kind; later
// occurrences of the same text overwrite earlier ones.
func (a annotated) kindsByText(t *testing.T) map[string]Kind {
	t.Helper()
	out := make(map[string]Kind)
	err := ast.Walk(a.b, a.file, func(v ast.Visit) error {
		out[a.src.Text(a.b.Exprs.Get(v.Slot.Expr).Span)] = a.env.Kind(v.Slot.Expr)
		return nil
	})
	require.NoError(t, err)
	return out
}

func TestAnnotateKinds(t *testing.T) {
	a := annotate(t, `
class C
{
    const int K = 1;
    double d;
    decimal m;
    dynamic dy;
    C other;
    int Twice(int v) => v * 2;

    void M(long l, string s)
    {
        var i = 1 + l;
        var f = d * 2;
        var dm = m + 1m;
        var x = dy + 1;
        var o = other;
        var b = i > 2 && true;
        var sum = s + 1;
        var max = int.MaxValue;
        var nan = double.NaN;
        var len = s.Length;
        var call = Twice(3);
        var cast = (float)i;
        var real = 1.5;
        var fl = 2f;
        var hex = 0xFF;
    }
}
`)
	kinds := a.kindsByText(t)
	tests := map[string]Kind{
		"1 + l":         KindIntegral,
		"d * 2":         KindFloating,
		"m + 1m":        KindDecimal,
		"dy + 1":        KindDynamic,
		"other":         KindOther,
		"i > 2 && true": KindBoolean,
		"s + 1":         KindString,
		"int.MaxValue":  KindIntegral,
		"double.NaN":    KindFloating,
		"s.Length":      KindIntegral,
		"Twice(3)":      KindIntegral,
		"(float)i":      KindFloating,
		"1.5":           KindFloating,
		"2f":            KindFloating,
		"0xFF":          KindIntegral,
		"v * 2":         KindIntegral,
	}
	for text, want := range tests {
		got, ok := kinds[text]
		if !ok {
			t.Errorf("%q: expression not found", text)
			continue
		}
		if got != want {
			t.Errorf("%q: expected %s, got %s", text, want, got)
		}
	}
}

func TestAnnotateIntegralTypes(t *testing.T) {
	a := annotate(t, `
class C
{
    void M(long l, int i, int j, uint u, short s, byte b)
    {
        var v1 = l + i;
        var v2 = i + j;
        var v3 = u + i;
        var v4 = s * b;
        var v5 = -u;
        var v6 = (long)i;
        var v7 = 1 + 2;
        var v8 = 3L * i;
        var v9 = int.MaxValue;
        var v10 = 'x' + 1;
        var v11 = l + (i + j);
    }
}
`)
	got := make(map[string]Integral)
	err := ast.Walk(a.b, a.file, func(v ast.Visit) error {
		got[a.src.Text(a.b.Exprs.Get(v.Slot.Expr).Span)] = a.env.Type(v.Slot.Expr).Int
		return nil
	})
	require.NoError(t, err)
	want := map[string]Integral{
		"l + i":        IntegralLong,
		"i + j":        IntegralInt,
		"u + i":        IntegralLong,
		"s * b":        IntegralInt,
		"-u":           IntegralLong,
		"(long)i":      IntegralLong,
		"1 + 2":        IntegralInt,
		"3L * i":       IntegralLong,
		"int.MaxValue": IntegralInt,
		"'x' + 1":      IntegralInt,
		"l + (i + j)":  IntegralLong,
		"(i + j)":      IntegralInt,
	}
	for text, w := range want {
		if got[text] != w {
			t.Errorf("%q: expected %s, got %s", text, w, got[text])
		}
	}
}

func TestAnnotateScopes(t *testing.T) {
	a := annotate(t, `
int x = 1;
{
    double x2 = 2;
    var y = x2 + x;
}
var z = y + 1;
`)
	kinds := a.kindsByText(t)
	require.Equal(t, KindFloating, kinds["x2 + x"])
	// y объявлен во вложенном блоке и снаружи не виден
	require.Equal(t, KindUnknown, kinds["y + 1"])
}

func TestAnnotateCheckedContext(t *testing.T) {
	a := annotate(t, `
checked
{
    a = b + c;
    d = unchecked(e + f);
}
g = checked(h + i);
j = k + l;
`)
	checked := make(map[string]bool)
	err := ast.Walk(a.b, a.file, func(v ast.Visit) error {
		checked[a.src.Text(a.b.Exprs.Get(v.Slot.Expr).Span)] = a.env.Checked(v.Slot.Expr)
		return nil
	})
	require.NoError(t, err)
	require.True(t, checked["b + c"])
	require.False(t, checked["e + f"])
	require.True(t, checked["h + i"])
	require.False(t, checked["k + l"])
}

func TestAnnotateDeclaredNames(t *testing.T) {
	a := annotate(t, `
class Goo { }
enum Color { Red, Green }
class C
{
    const int Goo = 1;
    void M() { const int Local = 2; }
}
`)
	strs := a.b.Strings
	require.True(t, a.env.IsTypeName(strs.Intern("Goo")))
	require.True(t, a.env.IsTypeName(strs.Intern("Color")))
	require.True(t, a.env.IsConstant(strs.Intern("Goo")))
	require.True(t, a.env.IsConstant(strs.Intern("Red")))
	require.True(t, a.env.IsConstant(strs.Intern("Local")))
	require.False(t, a.env.IsConstant(strs.Intern("M")))
}

func TestNilEnv(t *testing.T) {
	var env *Env
	require.Equal(t, KindUnknown, env.Kind(1))
	require.Equal(t, Type{}, env.Type(1))
	require.False(t, env.Checked(1))
	require.False(t, env.IsTypeName(1))
	require.Zero(t, env.Len())
}

func TestAnnotateCancelled(t *testing.T) {
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("test.cs", []byte("a = 1;")))
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), src, lexer.New(src, lexer.Options{}), b, parser.Options{})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := Annotate(ctx, b, res.File)
	require.ErrorIs(t, err, context.Canceled)
}
