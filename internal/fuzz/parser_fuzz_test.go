package fuzztests

import (
	"context"
	"testing"
	"time"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/report"
	"unparen/internal/source"
	"unparen/internal/testkit"
	"unparen/internal/types"
)

// parseTimeout is the maximum time allowed for parsing a single input.
// If parsing takes longer, it indicates a potential infinite loop.
const parseTimeout = 5 * time.Second

func parse(ctx context.Context, name string, input []byte) (*source.File, *ast.Builder, parser.Result, *diag.Bag) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(name, input))
	bag := diag.NewBag(128)
	reporter := diag.BagReporter{Bag: bag}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(ctx, file, lexer.New(file, lexer.Options{Reporter: reporter}), builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: 128,
	})
	return file, builder, res, bag
}

// FuzzParserNoHang tests that the parser doesn't hang on any input.
func FuzzParserNoHang(f *testing.F) {
	addCorpusSeeds(f)
	f.Add([]byte("var x = (((((((((a)))))))));"))
	f.Add([]byte("M((a < b, c > (d)));"))
	f.Add([]byte("var y = (a is (b or (c and not d)))"))
	f.Add([]byte("#if ((A)\n#endif"))

	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx, cancel := context.WithTimeout(context.Background(), parseTimeout)
		defer cancel()

		done := make(chan struct{})
		go func() {
			defer close(done)
			_, _, _, _ = parse(ctx, "fuzz.cs", input)
		}()

		select {
		case <-done:
		case <-ctx.Done():
			t.Fatalf("parser hang detected: parsing took longer than %v\ninput (%d bytes): %q",
				parseTimeout, len(input), truncateForLog(input, 200))
		}
	})
}

// FuzzFixAllReparses removes every removable group of a well-formed input
// and checks that the result parses again without errors.
func FuzzFixAllReparses(f *testing.F) {
	addCorpusSeeds(f)
	f.Fuzz(func(t *testing.T, input []byte) {
		input = clampInput(input)
		ctx := context.Background()
		file, builder, res, bag := parse(ctx, "fuzz.cs", input)
		if res.Errors > 0 || bag.HasErrors() {
			return
		}
		if err := testkit.CheckSpanInvariants(builder, res.File, file); err != nil {
			t.Fatalf("span invariants: %v", err)
		}
		env, err := types.Annotate(ctx, builder, res.File)
		if err != nil {
			t.Fatalf("annotate: %v", err)
		}
		tree := parens.NewTree(builder, res.File, file, env)
		if err := testkit.CheckGroupInvariants(tree); err != nil {
			t.Fatalf("group invariants: %v", err)
		}
		opts := parens.AlwaysRemove()
		verdicts, err := parens.Analyze(ctx, tree, opts)
		if err != nil {
			t.Fatalf("analyze: %v", err)
		}
		if err := testkit.CheckVerdicts(tree, verdicts); err != nil {
			t.Fatalf("verdicts: %v", err)
		}
		groups, err := parens.FixAll(ctx, tree, opts)
		if err != nil {
			t.Fatalf("fix all: %v", err)
		}
		if len(groups) == 0 {
			return
		}

		fixed := applyEdits(input, report.FixEdits(tree, groups))
		_, _, reparsed, rebag := parse(ctx, "fixed.cs", fixed)
		if reparsed.Errors > 0 || rebag.HasErrors() {
			t.Fatalf("fixed text no longer parses\nbefore: %q\nafter:  %q", truncateForLog(input, 200), truncateForLog(fixed, 200))
		}
	})
}

// applyEdits applies sorted, non-overlapping edits.
func applyEdits(input []byte, edits []diag.TextEdit) []byte {
	out := make([]byte, 0, len(input))
	var pos uint32
	for _, e := range edits {
		out = append(out, input[pos:e.Span.Start]...)
		out = append(out, e.NewText...)
		pos = e.Span.End
	}
	return append(out, input[pos:]...)
}

// truncateForLog truncates input for logging purposes
func truncateForLog(input []byte, maxLen int) []byte {
	if len(input) <= maxLen {
		return input
	}
	return append(input[:maxLen:maxLen], "..."...)
}
