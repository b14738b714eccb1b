package driver

import (
	"context"
	"fmt"

	"unparen/internal/diag"
	"unparen/internal/fix"
	"unparen/internal/parens"
	"unparen/internal/report"
	"unparen/internal/source"
	"unparen/internal/trace"
)

// FixAllID names the fix-all fix of a file.
func FixAllID(file source.FileID) string {
	return fmt.Sprintf("%s-all-%d", diag.StyUnnecessaryParens.ID(), file)
}

// PlanFixAll turns every analyzed file of res into one diagnostic whose
// single fix removes all the groups parens.FixAll selects. Groups are
// re-checked one after another, so removing one pair never makes a later
// removal unsafe. res must come from a run with Options.KeepTrees.
func PlanFixAll(ctx context.Context, res *Result, style parens.Options) ([]diag.Diagnostic, error) {
	ctx, span := trace.Start(ctx, trace.ScopePass, "fix-all")
	defer span.End("")

	out := make([]diag.Diagnostic, 0, len(res.Files))
	for i := range res.Files {
		fr := &res.Files[i]
		if fr.Tree == nil {
			continue
		}
		groups, err := parens.FixAll(ctx, fr.Tree, style)
		if err != nil {
			return nil, err
		}
		if len(groups) == 0 {
			continue
		}
		edits := report.FixEdits(fr.Tree, groups)
		d := diag.New(diag.SevHidden, diag.StyUnnecessaryParens, source.Span{File: fr.FileID},
			fmt.Sprintf("%d pairs of parentheses can be removed", len(groups)))
		d.Category = report.Category
		out = append(out, d.WithFixSuggestion(fix.EditSet(report.FixTitle, edits,
			fix.WithID(FixAllID(fr.FileID)),
			fix.Preferred(),
		)))
	}
	return out, nil
}
