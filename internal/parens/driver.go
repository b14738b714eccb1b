package parens

import (
	"context"
	"fmt"

	"unparen/internal/ast"
)

// Analyze judges every group of t in pre-order. Each group is judged against
// the original tree, so the verdicts do not depend on one another.
// A cancelled ctx stops the run and no verdicts are returned.
func Analyze(ctx context.Context, t *Tree, opts Options) ([]Verdict, error) {
	a := &analyzer{t: t, opts: opts}
	out := make([]Verdict, 0, len(t.groups))
	for _, g := range t.groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		out = append(out, a.decide(g))
	}
	return out, nil
}

// RemovableVerdicts returns the verdicts of the groups whose parentheses can go.
func RemovableVerdicts(ctx context.Context, t *Tree, opts Options) ([]Verdict, error) {
	all, err := Analyze(ctx, t, opts)
	if err != nil {
		return nil, err
	}
	out := all[:0]
	for _, v := range all {
		if v.Removable() {
			out = append(out, v)
		}
	}
	return out, nil
}

// FixAll returns the groups a sequential fix-all removes, in removal order.
// Each candidate is re-judged with the groups removed so far treated as
// transparent; passes repeat until one removes nothing, so applying the
// result and running FixAll again removes nothing more.
func FixAll(ctx context.Context, t *Tree, opts Options) ([]ast.ExprID, error) {
	a := &analyzer{t: t, opts: opts, ov: newOverlay()}
	for {
		removed := 0
		for _, g := range t.groups {
			if a.ov.has(g) {
				continue
			}
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			v := a.decide(g)
			if !v.Removable() {
				continue
			}
			a.ov.add(g, v.Open)
			removed++
		}
		if removed == 0 {
			return a.ov.order, nil
		}
	}
}

// Judge returns the verdict for a single group as Analyze would.
func Judge(t *Tree, opts Options, group ast.ExprID) Verdict {
	a := &analyzer{t: t, opts: opts}
	return a.decide(group)
}

// decide runs the checks in order and stops at the first one that keeps the parentheses.
func (a *analyzer) decide(group ast.ExprID) Verdict {
	exprs := a.t.b.Exprs
	e := exprs.Get(group)
	d, ok := exprs.Group(group)
	if !ok || exprs.Get(d.Inner) == nil {
		panic(fmt.Sprintf("parens: node %d is not a well-formed group", group))
	}
	ctx := a.t.contextOf(group, a.ov)
	v := Verdict{
		Group:   group,
		Context: ctx,
		Span:    e.Span,
		Open:    d.Open,
		Close:   d.Close,
	}
	child := a.t.see(d.Inner, a.ov)

	if a.opts.Ignore {
		v.Reason, v.Rule = NecessaryIgnored, "ignored"
		return v
	}
	dec := a.grammar(ctx, group, child)
	if !dec.necessary() {
		dec = a.evaluate(ctx, child)
	}
	if !dec.necessary() {
		if c := a.clarity(ctx, child); c.necessary() {
			dec = c
		}
	}
	v.Reason, v.Rule = dec.reason, dec.rule
	return v
}
