package parens

import (
	"unparen/internal/ast"
	"unparen/internal/precedence"
	"unparen/internal/types"
)

// analyzer judges the groups of one tree under one set of options.
// ov is nil for stateless analysis.
type analyzer struct {
	t    *Tree
	opts Options
	ov   *overlay
}

// primary reports a child that never needs parentheses for precedence:
// a primary expression, a primary pattern or a cast of a primary.
// A conditional access has primary precedence but does not count.
func (a *analyzer) primary(id ast.ExprID) bool {
	exprs := a.t.b.Exprs
	e := exprs.Get(id)
	if e == nil {
		return false
	}
	switch e.Kind {
	case ast.ExprCondAccess:
		return false
	case ast.ExprCast:
		d, _ := exprs.Cast(id)
		return a.primary(a.t.see(d.Value, a.ov))
	}
	lvl := precedence.OfExpr(exprs, id).Level
	return lvl == precedence.LevelPrimary || lvl == precedence.LevelPatternPrimary
}

// evaluate decides by precedence and associativity whether child may stand
// in the group's position without parentheses.
func (a *analyzer) evaluate(ctx Context, child ast.ExprID) decision {
	exprs := a.t.b.Exprs
	if ctx.IsRoot() {
		return drop("statement")
	}
	pe := exprs.Get(ctx.Parent)
	cop := precedence.OfExpr(exprs, child)
	if cop.Level == precedence.LevelNone {
		return keep(NecessaryUnknown, "unknown-child")
	}
	primary := a.primary(child)

	switch pe.Kind {
	case ast.ExprGroup:
		return drop("nested")

	case ast.ExprAssign:
		if ctx.Slot.Role == ast.SlotLeft {
			if primary {
				return drop("primary")
			}
			return keep(NecessaryPrecedence, "assignment-target")
		}
		return drop("assignment-value")

	case ast.ExprBinary:
		d, _ := exprs.Binary(ctx.Parent)
		return a.binary(ctx, d, child, cop, primary)

	case ast.ExprIs, ast.ExprAs:
		if ctx.Slot.Role != ast.SlotLeft {
			return drop("pattern")
		}
		if primary {
			return drop("primary")
		}
		parent := precedence.Operator{Level: precedence.LevelRelational, Assoc: precedence.AssocLeft}
		return a.relation(precedence.Compare(cop, parent))

	case ast.ExprConditional:
		if primary {
			return drop("primary")
		}
		return keep(NecessaryPrecedence, "conditional-branch")

	case ast.ExprUnary, ast.ExprCast:
		if primary {
			return drop("primary")
		}
		if cop.Level == precedence.LevelUnary {
			return drop("unary-operand")
		}
		return keep(NecessaryPrecedence, "looser")

	case ast.ExprPostfix, ast.ExprRef,
		ast.ExprMember, ast.ExprCall, ast.ExprIndex, ast.ExprElementBinding, ast.ExprCondAccess:
		if ctx.Slot.Role != ast.SlotReceiver && ctx.Slot.Role != ast.SlotOperand {
			return drop("argument")
		}
		if primary {
			return drop("primary")
		}
		return keep(NecessaryPrecedence, "looser")

	case ast.ExprRange:
		if primary {
			return drop("primary")
		}
		return a.relation(precedence.Compare(cop, precedence.OfExpr(exprs, ctx.Parent)))

	case ast.ExprSwitch:
		if ctx.Slot.Role != ast.SlotSwitchValue {
			return drop("switch-arm")
		}
		if primary {
			return drop("primary")
		}
		return a.relation(precedence.Compare(cop, precedence.OfExpr(exprs, ctx.Parent)))

	case ast.PatBinary, ast.PatNot:
		return a.pattern(ctx, child, cop, primary)

	case ast.PatConstant, ast.PatRelational:
		// более слабые выражения отсекает грамматика
		return drop("pattern-constant")
	}
	// аргументы, элементы, тела лямбд, дырки интерполяции и прочие
	// позиции с собственными разделителями
	return drop("delimited")
}

func (a *analyzer) relation(rel precedence.Relation) decision {
	switch rel {
	case precedence.Tighter:
		return drop("tighter")
	case precedence.Looser:
		return keep(NecessaryPrecedence, "looser")
	case precedence.EqualSameFamily, precedence.EqualDifferentFamily:
		return keep(NecessaryPrecedence, "equal-precedence")
	}
	return keep(NecessaryUnknown, "unknown-relation")
}

// mixedFamilyGuard lists the parents whose operands keep their parentheses
// unless they repeat the parent operator: (a + b) << c, (a | b) & c, (a ?? b) ?? c.
func mixedFamilyGuard(op ast.ExprBinaryOp) bool {
	switch op {
	case ast.ExprBinaryShiftLeft, ast.ExprBinaryShiftRight,
		ast.ExprBinaryBitAnd, ast.ExprBinaryBitOr, ast.ExprBinaryBitXor,
		ast.ExprBinaryCoalesce:
		return true
	}
	return false
}

func (a *analyzer) binary(ctx Context, pd *ast.ExprBinaryData, child ast.ExprID, cop precedence.Operator, primary bool) decision {
	if precedence.Unknown(pd.Op) {
		return keep(NecessaryUnknown, "unknown-operator")
	}
	if primary {
		return drop("primary")
	}
	exprs := a.t.b.Exprs
	if mixedFamilyGuard(pd.Op) {
		cd, ok := exprs.Binary(child)
		if !ok || exprs.Get(child).Kind != ast.ExprBinary || cd.Op != pd.Op {
			return keep(NecessaryPrecedence, "mixed-family")
		}
	}
	switch precedence.Compare(cop, precedence.Binary(pd.Op)) {
	case precedence.Tighter:
		return drop("tighter")
	case precedence.Looser:
		return keep(NecessaryPrecedence, "looser")
	case precedence.EqualDifferentFamily:
		return keep(NecessaryPrecedence, "equal-precedence")
	case precedence.EqualSameFamily:
		return a.equal(ctx, pd, child)
	}
	return keep(NecessaryUnknown, "unknown-relation")
}

// equal handles a child of the same precedence and family as its parent.
func (a *analyzer) equal(ctx Context, pd *ast.ExprBinaryData, child ast.ExprID) decision {
	switch precedence.Assoc(pd.Op) {
	case precedence.AssocLeft:
		if ctx.Slot.Role == ast.SlotLeft {
			return drop("left-associative")
		}
		cd, ok := a.t.b.Exprs.Binary(child)
		if !ok || cd.Op != pd.Op || !precedence.Associative(pd.Op) {
			return keep(NecessaryPrecedence, "operand-order")
		}
		if rule := a.caveat(ctx, pd, cd, child); rule != "" {
			return keep(NecessaryPrecedence, rule)
		}
		return drop("associative")
	case precedence.AssocRight:
		if ctx.Slot.Role == ast.SlotRight {
			return drop("right-associative")
		}
		return keep(NecessaryPrecedence, "operand-order")
	}
	return keep(NecessaryUnknown, "unknown-associativity")
}

// caveat checks that a op (b op c) == (a op b) op c for the operand kinds at
// hand. It returns the name of the failed condition or "".
func (a *analyzer) caveat(ctx Context, pd, cd *ast.ExprBinaryData, child ast.ExprID) string {
	env := a.t.env
	kinds := [...]types.Kind{env.Kind(pd.Left), env.Kind(cd.Left), env.Kind(cd.Right), env.Kind(child)}
	known := types.KindUnknown
	for _, k := range kinds {
		switch k {
		case types.KindFloating, types.KindDecimal:
			return "floating-point"
		case types.KindDynamic:
			return "dynamic"
		case types.KindOther:
			return "user-defined"
		case types.KindUnknown:
			continue
		}
		if known.Known() && known != k {
			return "mixed-kinds"
		}
		known = k
	}
	if !types.CanOverflow(pd.Op) {
		return ""
	}
	for _, k := range kinds {
		if !k.Known() {
			return "unknown-kind"
		}
	}
	if ctx.Checked || a.opts.CheckOverflow || env.Checked(child) {
		return "checked-overflow"
	}
	if a.mixedWidths(ctx, pd, cd, child) {
		return "mixed-widths"
	}
	return ""
}

// mixedWidths reports an integral regrouping where some operation would run
// at another type than the parent: in l + (i + j) with int i, j the inner sum
// wraps at int, in l + i + j it does not.
func (a *analyzer) mixedWidths(ctx Context, pd, cd *ast.ExprBinaryData, child ast.ExprID) bool {
	env := a.t.env
	want := env.Type(ctx.Parent).Int
	if !want.Known() || env.Type(child).Int != want {
		return true
	}
	for _, id := range [...]ast.ExprID{pd.Left, cd.Left, cd.Right} {
		if env.Type(id).Int.Promoted() != want {
			return true
		}
	}
	return false
}

// pattern handles groups under or, and, not.
func (a *analyzer) pattern(ctx Context, child ast.ExprID, cop precedence.Operator, primary bool) decision {
	exprs := a.t.b.Exprs
	if primary {
		return drop("primary-pattern")
	}
	parent := precedence.OfExpr(exprs, ctx.Parent)
	rel := precedence.Compare(cop, parent)
	switch rel {
	case precedence.Tighter:
		return drop("tighter")
	case precedence.Looser:
		return keep(NecessaryPrecedence, "looser")
	case precedence.EqualSameFamily:
		return drop("same-combinator")
	case precedence.EqualDifferentFamily:
		if exprs.Get(child).Kind == exprs.Get(ctx.Parent).Kind {
			// not (not x)
			return drop("same-combinator")
		}
		return keep(NecessaryPrecedence, "equal-precedence")
	}
	return keep(NecessaryUnknown, "unknown-relation")
}
