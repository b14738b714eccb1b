package driver

import (
	"context"

	"fortio.org/safecast"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/source"
	"unparen/internal/types"
)

type ParseResult struct {
	FileSet *source.FileSet
	File    *source.File
	Builder *ast.Builder
	FileID  ast.FileID
	Bag     *diag.Bag
	// Errors counts syntax errors; Verdicts refuses files with errors.
	Errors uint
}

func Parse(ctx context.Context, filePath string, maxDiagnostics int) (*ParseResult, error) {
	fs := source.NewFileSet()
	fileID, err := fs.Load(filePath)
	if err != nil {
		return nil, err
	}
	file := fs.Get(fileID)

	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	lx := lexer.New(file, lexer.Options{Reporter: reporter})
	builder := ast.NewBuilder(ast.Hints{}, nil)

	var maxErrors uint
	maxErrors, err = safecast.Conv[uint](maxDiagnostics)
	if err != nil {
		return nil, err
	}

	result := parser.ParseFile(ctx, file, lx, builder, parser.Options{
		Reporter:  reporter,
		MaxErrors: maxErrors,
	})

	return &ParseResult{
		FileSet: fs,
		File:    file,
		Builder: builder,
		FileID:  result.File,
		Bag:     bag,
		Errors:  result.Errors,
	}, nil
}

// Verdicts annotates a parsed file and judges its groups. It returns no
// verdicts for a file with syntax errors.
func (r *ParseResult) Verdicts(ctx context.Context, opts parens.Options) ([]parens.Verdict, error) {
	if r.Errors > 0 || r.Bag.HasErrors() {
		return nil, nil
	}
	env, err := types.Annotate(ctx, r.Builder, r.FileID)
	if err != nil {
		return nil, err
	}
	return parens.Analyze(ctx, parens.NewTree(r.Builder, r.FileID, r.File, env), opts)
}
