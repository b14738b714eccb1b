package parens

import (
	"unparen/internal/ast"
	"unparen/internal/precedence"
)

// grammar reports the syntactic hazards of dropping the parentheses of a group
// whose visible content is child. The rules are independent; the first match wins.
func (a *analyzer) grammar(ctx Context, group, child ast.ExprID) decision {
	exprs := a.t.b.Exprs
	ce := exprs.Get(child)
	pe := exprs.Get(ctx.Parent)
	receiver := pe != nil && ctx.Slot.Role == ast.SlotReceiver

	switch {
	case ce.Kind == ast.ExprCondAccess && receiver:
		// (a?.b).c и a?.b.c - разные цепочки
		return keep(NecessaryGrammar, "conditional-access-receiver")
	case ce.Kind == ast.ExprStackalloc:
		return keep(NecessaryGrammar, "stackalloc")
	case ce.Kind == ast.ExprArrayNew && receiver && pe.Kind == ast.ExprIndex:
		return keep(NecessaryGrammar, "array-creation-receiver")
	}

	if pe != nil && pe.Kind == ast.ExprCast {
		if rule := a.castHazard(ctx.Parent, child); rule != "" {
			return keep(NecessaryGrammar, rule)
		}
	}
	if a.patternOverExpression(ctx, pe, ce, child) {
		return keep(NecessaryGrammar, "pattern-over-expression")
	}
	if a.glues(ctx, group, child) {
		return keep(NecessaryGrammar, "operator-glue")
	}
	if a.conditionalRefTarget(ctx, pe, child) {
		return keep(NecessaryGrammar, "conditional-ref-target")
	}
	if a.constantTypeAmbiguity(ce, child) {
		return keep(NecessaryGrammar, "constant-type-ambiguity")
	}
	if receiver && pe.Kind != ast.ExprCondAccess && pe.Kind != ast.ExprPostfix && !a.plainPrimary(child) {
		return keep(NecessaryGrammar, "access-receiver")
	}
	if ce.Kind == ast.ExprConditional && ctx.Slot.Role == ast.SlotHole {
		// двоеточие внутри дырки интерполяции начинает формат
		return keep(NecessaryGrammar, "interpolation-conditional")
	}
	if a.whenClauseHazard(ctx, child) {
		return keep(NecessaryGrammar, "when-clause-element-access")
	}
	if a.initializerHazard(ctx, pe, ce, child) {
		return keep(NecessaryGrammar, "initializer-element")
	}
	if a.genericAmbiguity(ctx, pe, child) {
		return keep(NecessaryGrammar, "generic-ambiguity")
	}
	return decision{}
}

// plainPrimary is a primary expression that is not a cast of one.
func (a *analyzer) plainPrimary(id ast.ExprID) bool {
	return precedence.OfExpr(a.t.b.Exprs, id).Level == precedence.LevelPrimary
}

// castHazard covers the rules that look at the type of a parent cast.
func (a *analyzer) castHazard(cast, child ast.ExprID) string {
	exprs := a.t.b.Exprs
	cd, _ := exprs.Cast(cast)
	ce := exprs.Get(child)
	switch ce.Kind {
	case ast.ExprUnary:
		ud, _ := exprs.Unary(child)
		switch ud.Op {
		case ast.ExprUnaryPreInc, ast.ExprUnaryPreDec:
			return "operator-glue"
		case ast.ExprUnaryPlus, ast.ExprUnaryMinus, ast.ExprUnaryAddrOf, ast.ExprUnaryDeref:
			// (X)-1 читается как вычитание, если X не заведомо тип
			if !a.unambiguousCastType(cd.Type) {
				return "ambiguous-cast"
			}
		}
	case ast.ExprCollection:
		ld, _ := exprs.Collection(child)
		if len(ld.Elements) > 0 && a.nameCastType(cd.Type) {
			// (A)[1] - это индексация A
			return "collection-cast"
		}
	}
	return ""
}

// unambiguousCastType lists the cast shapes that can only be types.
func (a *analyzer) unambiguousCastType(id ast.TypeID) bool {
	types := a.t.b.Types
	te := types.Get(id)
	if te == nil {
		return false
	}
	switch te.Kind {
	case ast.TypeExprPredefined, ast.TypeExprArray, ast.TypeExprPointer, ast.TypeExprNullable:
		return true
	}
	return types.HasAliasRoot(id)
}

// nameCastType reports the cast shapes that also read as a value: A, A.B, global::A.B.
func (a *analyzer) nameCastType(id ast.TypeID) bool {
	types := a.t.b.Types
	te := types.Get(id)
	if te == nil {
		return false
	}
	if te.Kind == ast.TypeExprName {
		return len(te.Args) == 0
	}
	return types.IsDottedPlain(id)
}

// patternOverExpression: a pattern lifted into an expression position, or a
// constant pattern whose value binds looser than a shift (x is (a < b)).
func (a *analyzer) patternOverExpression(ctx Context, pe, ce *ast.Expr, child ast.ExprID) bool {
	if pe == nil {
		return false
	}
	if ce.Kind == ast.ExprIs || ce.Kind.IsPattern() {
		if ctx.Slot.Role == ast.SlotReceiver {
			return true
		}
		if pe.Kind == ast.ExprUnary {
			ud, _ := a.t.b.Exprs.Unary(ctx.Parent)
			return ud.Op == ast.ExprUnaryNot
		}
		return false
	}
	if ctx.Slot.Role == ast.SlotConstant {
		// константа паттерна разбирается на уровне сдвига
		lvl := precedence.OfExpr(a.t.b.Exprs, child).Level
		return lvl != precedence.LevelNone && !lvl.IsPattern() && lvl < precedence.LevelShift
	}
	return false
}

// glues reports ++x or +x that would fuse with the operator before the group.
func (a *analyzer) glues(ctx Context, group, child ast.ExprID) bool {
	exprs := a.t.b.Exprs
	if exprs.Get(child).Kind != ast.ExprUnary {
		return false
	}
	ud, _ := exprs.Unary(child)
	switch ud.Op {
	case ast.ExprUnaryPreInc, ast.ExprUnaryPreDec, ast.ExprUnaryPlus, ast.ExprUnaryMinus:
	default:
		return false
	}
	gd, _ := exprs.Group(group)
	prev := a.t.prevByte(gd.Open.Start, a.ov)
	first := a.t.firstByte(child)
	return (prev == '+' || prev == '-') && prev == first
}

func (a *analyzer) conditionalRefTarget(ctx Context, pe *ast.Expr, child ast.ExprID) bool {
	if pe == nil || pe.Kind != ast.ExprAssign || ctx.Slot.Role != ast.SlotLeft {
		return false
	}
	exprs := a.t.b.Exprs
	cd, ok := exprs.Conditional(child)
	if !ok {
		return false
	}
	isRef := func(id ast.ExprID) bool {
		e := exprs.Get(a.t.see(id, a.ov))
		return e != nil && e.Kind == ast.ExprRef
	}
	return isRef(cd.Then) && isRef(cd.Else)
}

// constantTypeAmbiguity: o is (Goo) where Goo is both a constant and a type.
func (a *analyzer) constantTypeAmbiguity(ce *ast.Expr, child ast.ExprID) bool {
	exprs := a.t.b.Exprs
	if ce.Kind != ast.PatConstant {
		return false
	}
	pd, _ := exprs.Pattern(child)
	id, ok := exprs.Ident(pd.Value)
	if !ok || len(id.TypeArgs) > 0 {
		return false
	}
	return a.t.env.IsConstant(id.Name) && a.t.env.IsTypeName(id.Name)
}

// whenClauseHazard: case X when (a || b?[0]): the ?[ ... ] followed by the
// case colon reads as a conditional expression once the parentheses are gone.
func (a *analyzer) whenClauseHazard(ctx Context, child ast.ExprID) bool {
	if ctx.Slot.Role != ast.SlotCaseWhen && ctx.Slot.Role != ast.SlotArmWhen {
		return false
	}
	found := false
	var visit func(id ast.ExprID)
	visit = func(id ast.ExprID) {
		if found {
			return
		}
		e := a.t.b.Exprs.Get(id)
		if e == nil {
			return
		}
		switch e.Kind {
		case ast.ExprGroup:
			if !a.ov.has(id) {
				return
			}
		case ast.ExprCondAccess:
			d, _ := a.t.b.Exprs.CondAccess(id)
			if a.bindingRoot(d.WhenNotNull) == ast.ExprElementBinding {
				found = true
				return
			}
		case ast.ExprLambda:
			return
		}
		for _, s := range ast.Children(a.t.b.Exprs, id) {
			visit(s.Expr)
		}
	}
	visit(child)
	return found
}

// bindingRoot returns the kind of the binding a conditional access chain starts with.
func (a *analyzer) bindingRoot(id ast.ExprID) ast.ExprKind {
	exprs := a.t.b.Exprs
	for {
		e := exprs.Get(id)
		if e == nil {
			return ast.ExprBad
		}
		switch e.Kind {
		case ast.ExprMember:
			d, _ := exprs.Member(id)
			if !d.Target.IsValid() {
				return e.Kind
			}
			id = d.Target
		case ast.ExprCall, ast.ExprIndex:
			d, _ := exprs.Call(id)
			id = d.Target
		case ast.ExprPostfix:
			d, _ := exprs.Unary(id)
			id = d.Operand
		case ast.ExprCondAccess:
			d, _ := exprs.CondAccess(id)
			id = d.Target
		default:
			return e.Kind
		}
	}
}

// initializerHazard: { ([0]) } would become an indexer initializer and
// { (A = 1) } a member initializer.
func (a *analyzer) initializerHazard(ctx Context, pe, ce *ast.Expr, child ast.ExprID) bool {
	if pe == nil || pe.Kind != ast.ExprInitializer || ctx.Slot.Role != ast.SlotElement {
		return false
	}
	d, _ := a.t.b.Exprs.Initializer(ctx.Parent)
	if d.Kind == ast.InitArray {
		return false
	}
	return ce.Kind == ast.ExprAssign || a.t.firstByte(child) == '['
}

// genericAmbiguity: M((a < b), (c > (d))) would read as M(a<b, c>(d)).
func (a *analyzer) genericAmbiguity(ctx Context, pe *ast.Expr, child ast.ExprID) bool {
	if pe == nil {
		return false
	}
	switch {
	case ctx.Slot.Role == ast.SlotArgument && (pe.Kind == ast.ExprCall || pe.Kind == ast.ExprNew):
	case ctx.Slot.Role == ast.SlotElement && pe.Kind == ast.ExprTuple:
	default:
		return false
	}
	siblings := make([]ast.ExprID, 0, 4)
	at := -1
	for _, s := range ast.Children(a.t.b.Exprs, ctx.Parent) {
		if s.Role != ctx.Slot.Role {
			continue
		}
		if s.Expr == ctx.Slot.Expr {
			at = len(siblings)
		}
		siblings = append(siblings, s.Expr)
	}
	if at < 0 {
		return false
	}
	switch {
	case a.lessOfNames(child):
		return at+1 < len(siblings) && a.greaterBeforeParen(a.t.see(siblings[at+1], a.ov))
	case a.greaterBeforeParen(child):
		return at > 0 && a.lessOfNames(a.t.see(siblings[at-1], a.ov))
	}
	return false
}

// lessOfNames matches a < b with plain identifiers on both sides.
func (a *analyzer) lessOfNames(id ast.ExprID) bool {
	d, ok := a.t.b.Exprs.Binary(id)
	if !ok || a.t.b.Exprs.Get(id).Kind != ast.ExprBinary || d.Op != ast.ExprBinaryLess {
		return false
	}
	return a.plainName(a.t.see(d.Left, a.ov)) && a.plainName(a.t.see(d.Right, a.ov))
}

// greaterBeforeParen matches c > (...) with a plain identifier on the left.
func (a *analyzer) greaterBeforeParen(id ast.ExprID) bool {
	d, ok := a.t.b.Exprs.Binary(id)
	if !ok || a.t.b.Exprs.Get(id).Kind != ast.ExprBinary || d.Op != ast.ExprBinaryGreater {
		return false
	}
	if !a.plainName(a.t.see(d.Left, a.ov)) {
		return false
	}
	return a.t.firstByte(a.t.see(d.Right, a.ov)) == '('
}

func (a *analyzer) plainName(id ast.ExprID) bool {
	d, ok := a.t.b.Exprs.Ident(id)
	return ok && len(d.TypeArgs) == 0
}
