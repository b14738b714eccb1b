package testkit

import (
	"fmt"

	"fortio.org/safecast"

	"unparen/internal/ast"
	"unparen/internal/parens"
	"unparen/internal/source"
)

// CheckSpanInvariants runs a minimal set of span invariants on a parsed file:
// 1) file.Span is within file content bounds and points at sf
// 2) every item span is non-empty and fully contained in file.Span
// 3) every expression span lies inside file.Span
func CheckSpanInvariants(b *ast.Builder, fileID ast.FileID, sf *source.File) error {
	if b == nil || sf == nil {
		return fmt.Errorf("nil builder or file")
	}
	f := b.Files.Get(fileID)
	if f == nil {
		return fmt.Errorf("file node not found")
	}

	if f.Span.File != sf.ID {
		return fmt.Errorf("file span points to different file id: got=%d want=%d", f.Span.File, sf.ID)
	}
	lenContent, err := safecast.Conv[uint32](len(sf.Content))
	if err != nil {
		return fmt.Errorf("len content overflow: %w", err)
	}
	if f.Span.End > lenContent || f.Span.Start > f.Span.End {
		return fmt.Errorf("file span %v is outside content [0,%d)", f.Span, lenContent)
	}

	for _, it := range f.Items {
		item := b.Items.Get(it)
		if item == nil {
			return fmt.Errorf("nil item for id=%d", it)
		}
		sp := item.Span
		if sp.End <= sp.Start {
			return fmt.Errorf("empty item span: %v", sp)
		}
		if sp.File != sf.ID {
			return fmt.Errorf("item span file mismatch: got=%d want=%d", sp.File, sf.ID)
		}
		if !within(sp, f.Span) {
			return fmt.Errorf("item span %v is outside file span %v", sp, f.Span)
		}
	}

	return ast.Walk(b, fileID, func(v ast.Visit) error {
		e := b.Exprs.Get(v.Slot.Expr)
		if e == nil {
			return fmt.Errorf("nil expression for id=%d", v.Slot.Expr)
		}
		if e.Span.File != sf.ID {
			return fmt.Errorf("expression %d span file mismatch: got=%d want=%d", v.Slot.Expr, e.Span.File, sf.ID)
		}
		if e.Span.Start > e.Span.End || e.Span.End > lenContent {
			return fmt.Errorf("expression %d span %v is outside content", v.Slot.Expr, e.Span)
		}
		return nil
	})
}

// CheckGroupInvariants checks the shape of every group of tree: the span
// starts with the "(" of Open and ends with the ")" of Close, and the inner
// expression sits strictly between them.
func CheckGroupInvariants(tree *parens.Tree) error {
	exprs := tree.Builder().Exprs
	src := tree.Source()
	for _, g := range tree.Groups() {
		e := exprs.Get(g)
		d, ok := exprs.Group(g)
		if e == nil || !ok {
			return fmt.Errorf("node %d is listed as a group but is not one", g)
		}
		if got := src.Text(d.Open); got != "(" {
			return fmt.Errorf("group %v: open delimiter is %q", e.Span, got)
		}
		if got := src.Text(d.Close); got != ")" {
			return fmt.Errorf("group %v: close delimiter is %q", e.Span, got)
		}
		if d.Open.Start != e.Span.Start || d.Close.End != e.Span.End {
			return fmt.Errorf("group %v: delimiters %v and %v do not bound it", e.Span, d.Open, d.Close)
		}
		inner := exprs.Get(d.Inner)
		if inner == nil {
			return fmt.Errorf("group %v has no inner expression", e.Span)
		}
		if inner.Span.Start < d.Open.End || inner.Span.End > d.Close.Start {
			return fmt.Errorf("group %v: inner %v overlaps a delimiter", e.Span, inner.Span)
		}
	}
	return nil
}

// CheckVerdicts checks that verdicts describe the groups of tree one to one,
// in the same order, with matching spans.
func CheckVerdicts(tree *parens.Tree, verdicts []parens.Verdict) error {
	groups := tree.Groups()
	if len(verdicts) != len(groups) {
		return fmt.Errorf("%d verdicts for %d groups", len(verdicts), len(groups))
	}
	exprs := tree.Builder().Exprs
	for i, v := range verdicts {
		if v.Group != groups[i] {
			return fmt.Errorf("verdict %d judges node %d, want %d", i, v.Group, groups[i])
		}
		d, _ := exprs.Group(v.Group)
		if v.Span != exprs.Get(v.Group).Span || v.Open != d.Open || v.Close != d.Close {
			return fmt.Errorf("verdict %d (%s) spans disagree with group %v", i, v, exprs.Get(v.Group).Span)
		}
	}
	return nil
}

func within(inner, outer source.Span) bool {
	return inner.Start >= outer.Start && inner.End <= outer.End
}
