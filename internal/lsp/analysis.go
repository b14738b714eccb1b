package lsp

import (
	"context"
	"encoding/json"
	"slices"

	"fortio.org/safecast"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/report"
	"unparen/internal/source"
	"unparen/internal/types"
)

// analysis is the outcome of one document version.
type analysis struct {
	version int
	file    *source.File
	// tree is nil when the document has syntax errors.
	tree     *parens.Tree
	style    parens.Options
	verdicts []parens.Verdict
	diags    []diag.Diagnostic
}

// analyzeText runs the pipeline over an in-memory document. Syntax errors
// are returned as diagnostics; the error is reserved for cancellation.
func analyzeText(ctx context.Context, path, text string, version int, style parens.Options, maxDiagnostics int) (*analysis, error) {
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual(path, []byte(text)))
	res := &analysis{version: version, file: file, style: style}

	bag := diag.NewBag(maxDiagnostics)
	reporter := &diag.BagReporter{Bag: bag}
	maxErrors, err := safecast.Conv[uint](max(maxDiagnostics, 0))
	if err != nil {
		maxErrors = 0
	}
	builder := ast.NewBuilder(ast.Hints{}, nil)
	parsed := parser.ParseFile(ctx, file, lexer.New(file, lexer.Options{Reporter: reporter}), builder, parser.Options{Reporter: reporter, MaxErrors: maxErrors})
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if parsed.Errors > 0 || bag.HasErrors() {
		bag.Sort()
		res.diags = slices.Clone(bag.Items())
		return res, nil
	}

	env, err := types.Annotate(ctx, builder, parsed.File)
	if err != nil {
		return nil, err
	}
	res.tree = parens.NewTree(builder, parsed.File, file, env)
	if res.verdicts, err = parens.Analyze(ctx, res.tree, style); err != nil {
		return nil, err
	}
	res.diags = slices.Concat(bag.Items(), report.Diagnostics(res.tree, res.verdicts))
	return res, nil
}

// lspDiagnostics converts the diagnostics of a into protocol diagnostics.
//
// A removal is published at its primary location, followed by one faded
// diagnostic per location listed in its Unnecessary property, so editors
// grey out the parentheses and leave the inner expression alone.
func (a *analysis) lspDiagnostics(uri string) []lspDiagnostic {
	out := make([]lspDiagnostic, 0, len(a.diags))
	for _, d := range a.diags {
		item := lspDiagnostic{
			Range:    rangeForSpan(a.file, d.Primary),
			Severity: lspSeverity(d.Severity),
			Code:     d.Code.ID(),
			Source:   "unparen",
			Message:  d.Message,
		}
		if len(d.Fixes) > 0 {
			item.Data = &diagnosticData{FixID: d.Fixes[0].ID}
		}
		faded := unnecessaryLocations(d)
		for _, sp := range faded {
			item.RelatedInformation = append(item.RelatedInformation, diagnosticRelatedInformation{
				Location: location{URI: uri, Range: rangeForSpan(a.file, sp)},
				Message:  "unnecessary",
			})
		}
		out = append(out, item)
		for _, sp := range faded {
			out = append(out, lspDiagnostic{
				Range:    rangeForSpan(a.file, sp),
				Severity: severityHint,
				Code:     item.Code,
				Source:   item.Source,
				Message:  d.Message,
				Tags:     []int{tagUnnecessary},
				Data:     item.Data,
			})
		}
	}
	return out
}

// unnecessaryLocations resolves the Unnecessary property of d, a JSON list
// of indexes into its additional locations.
func unnecessaryLocations(d diag.Diagnostic) []source.Span {
	raw, ok := d.Properties[report.PropertyUnnecessary]
	if !ok {
		return nil
	}
	var idx []int
	if err := json.Unmarshal([]byte(raw), &idx); err != nil {
		return nil
	}
	out := make([]source.Span, 0, len(idx))
	for _, i := range idx {
		if i >= 0 && i < len(d.Additional) {
			out = append(out, d.Additional[i])
		}
	}
	return out
}

func lspSeverity(sev diag.Severity) int {
	switch sev {
	case diag.SevError:
		return severityError
	case diag.SevWarning:
		return severityWarning
	case diag.SevInfo:
		return severityInformation
	default:
		return severityHint
	}
}
