package precedence

import (
	"testing"

	"unparen/internal/ast"
	"unparen/internal/source"
)

func TestCompare(t *testing.T) {
	tests := []struct {
		child, parent ast.ExprBinaryOp
		want          Relation
	}{
		{ast.ExprBinaryMul, ast.ExprBinaryAdd, Tighter},
		{ast.ExprBinaryAdd, ast.ExprBinaryMul, Looser},
		{ast.ExprBinaryAdd, ast.ExprBinaryAdd, EqualSameFamily},
		{ast.ExprBinarySub, ast.ExprBinaryAdd, EqualSameFamily},
		{ast.ExprBinaryMod, ast.ExprBinaryDiv, EqualSameFamily},
		{ast.ExprBinaryShiftRight, ast.ExprBinaryShiftLeft, EqualDifferentFamily},
		{ast.ExprBinaryShiftLeft, ast.ExprBinaryShiftLeft, EqualSameFamily},
		{ast.ExprBinaryLess, ast.ExprBinaryGreater, EqualDifferentFamily},
		{ast.ExprBinaryEq, ast.ExprBinaryNotEq, EqualDifferentFamily},
		{ast.ExprBinaryBitAnd, ast.ExprBinaryBitOr, Tighter},
		{ast.ExprBinaryBitOr, ast.ExprBinaryBitAnd, Looser},
		{ast.ExprBinaryLogicalAnd, ast.ExprBinaryLogicalOr, Tighter},
		{ast.ExprBinaryCoalesce, ast.ExprBinaryLogicalOr, Looser},
		{ast.ExprBinaryPatAnd, ast.ExprBinaryPatOr, Tighter},
		{ast.ExprBinaryPatOr, ast.ExprBinaryPatAnd, Looser},
	}
	for _, tt := range tests {
		got := Compare(Binary(tt.child), Binary(tt.parent))
		if got != tt.want {
			t.Errorf("Compare(%s, %s): expected %s, got %s", tt.child, tt.parent, tt.want, got)
		}
	}
}

func TestCompareAcrossScales(t *testing.T) {
	if got := Compare(Binary(ast.ExprBinaryPatOr), Binary(ast.ExprBinaryAdd)); got != RelationUnknown {
		t.Fatalf("pattern vs expression: got %s", got)
	}
	if got := Compare(Operator{}, Binary(ast.ExprBinaryAdd)); got != RelationUnknown {
		t.Fatalf("missing level: got %s", got)
	}
}

func TestAssociativity(t *testing.T) {
	if Assoc(ast.ExprBinaryCoalesce) != AssocRight {
		t.Fatalf("?? must be right-associative")
	}
	if Assoc(ast.ExprBinaryAddAssign) != AssocRight {
		t.Fatalf("assignment must be right-associative")
	}
	if Assoc(ast.ExprBinaryShiftLeft) != AssocLeft {
		t.Fatalf("<< must be left-associative")
	}
	for _, op := range []ast.ExprBinaryOp{ast.ExprBinarySub, ast.ExprBinaryDiv, ast.ExprBinaryShiftLeft, ast.ExprBinaryCoalesce, ast.ExprBinaryLess} {
		if Associative(op) {
			t.Errorf("%s must not be associative", op)
		}
	}
	for _, op := range []ast.ExprBinaryOp{ast.ExprBinaryAdd, ast.ExprBinaryMul, ast.ExprBinaryBitXor, ast.ExprBinaryLogicalOr} {
		if !Associative(op) {
			t.Errorf("%s must be associative", op)
		}
	}
}

func TestUnknownOperator(t *testing.T) {
	if Unknown(ast.ExprBinaryAdd) {
		t.Fatalf("+ is in the table")
	}
	if !Unknown(ast.ExprBinaryOp(200)) {
		t.Fatalf("out-of-range operator must be unknown")
	}
	if Of(ast.ExprBinaryOp(200)) != LevelNone {
		t.Fatalf("unknown operator must have LevelNone")
	}
}

func TestOfUnary(t *testing.T) {
	tests := map[ast.ExprUnaryOp]Level{
		ast.ExprUnaryMinus:    LevelUnary,
		ast.ExprUnaryPreInc:   LevelUnary,
		ast.ExprUnaryAwait:    LevelUnary,
		ast.ExprUnaryPostInc:  LevelPrimary,
		ast.ExprUnarySuppress: LevelPrimary,
		ast.ExprUnaryThrow:    LevelAssignment,
		ast.ExprUnaryPatNot:   LevelPatternNot,
	}
	for op, want := range tests {
		if got := OfUnary(op); got != want {
			t.Errorf("OfUnary(%s): expected %s, got %s", op, want, got)
		}
	}
}

func TestOfExpr(t *testing.T) {
	exprs := ast.NewExprs(0)
	a := exprs.NewIdent(sp(0, 1), 1, nil)
	b := exprs.NewIdent(sp(4, 5), 2, nil)
	sum := exprs.NewBinary(sp(0, 5), ast.ExprBinaryAdd, a, b, sp(2, 3))
	neg := exprs.NewUnary(ast.ExprUnary, sp(0, 2), ast.ExprUnaryMinus, a, sp(0, 1))
	cond := exprs.NewConditional(sp(0, 9), ast.ExprConditionalData{Cond: a, Then: b, Else: a})

	if got := OfExpr(exprs, a).Level; got != LevelPrimary {
		t.Fatalf("ident: got %s", got)
	}
	if got := OfExpr(exprs, sum); got.Level != LevelAdditive || got.Family != FamilyAdditive {
		t.Fatalf("sum: got %+v", got)
	}
	if got := OfExpr(exprs, neg).Level; got != LevelUnary {
		t.Fatalf("negation: got %s", got)
	}
	if got := OfExpr(exprs, cond).Level; got != LevelConditional {
		t.Fatalf("conditional: got %s", got)
	}
	if got := OfExpr(exprs, ast.NoExprID).Level; got != LevelNone {
		t.Fatalf("missing expression: got %s", got)
	}
}

func sp(start, end uint32) source.Span {
	return source.Span{Start: start, End: end}
}
