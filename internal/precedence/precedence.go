// Package precedence is the static operator table shared by the parser and
// the parenthesis analyzers: levels, associativity and operator families.
package precedence

import (
	"fmt"

	"unparen/internal/ast"
)

// Level is the binding strength of an operator; larger binds tighter.
type Level uint8

const (
	// LevelNone marks operators and kinds absent from the table.
	LevelNone Level = iota
	// LevelAssignment also covers lambdas, throw expressions, queries and ref.
	LevelAssignment
	LevelConditional
	LevelCoalesce
	LevelConditionalOr
	LevelConditionalAnd
	LevelLogicalOr
	LevelLogicalXor
	LevelLogicalAnd
	LevelEquality
	// LevelRelational includes the type tests is and as.
	LevelRelational
	LevelShift
	LevelAdditive
	LevelMultiplicative
	LevelSwitch
	LevelRange
	// LevelUnary includes casts, await and pre-increment/decrement.
	LevelUnary
	LevelPrimary

	// Уровни шаблонов образуют отдельную шкалу и с уровнями выражений не сравниваются.

	LevelPatternOr
	LevelPatternAnd
	LevelPatternNot
	LevelPatternPrimary
)

var levelNames = [...]string{
	LevelNone: "none", LevelAssignment: "assignment", LevelConditional: "conditional",
	LevelCoalesce: "coalesce", LevelConditionalOr: "conditional-or", LevelConditionalAnd: "conditional-and",
	LevelLogicalOr: "logical-or", LevelLogicalXor: "logical-xor", LevelLogicalAnd: "logical-and",
	LevelEquality: "equality", LevelRelational: "relational", LevelShift: "shift", LevelAdditive: "additive",
	LevelMultiplicative: "multiplicative", LevelSwitch: "switch", LevelRange: "range", LevelUnary: "unary",
	LevelPrimary: "primary", LevelPatternOr: "pattern-or", LevelPatternAnd: "pattern-and",
	LevelPatternNot: "pattern-not", LevelPatternPrimary: "pattern-primary",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return fmt.Sprintf("Level(%d)", l)
}

// IsPattern reports whether l belongs to the pattern scale.
func (l Level) IsPattern() bool {
	return l >= LevelPatternOr
}

// Associativity of an operator at equal precedence.
type Associativity uint8

const (
	AssocNone Associativity = iota
	AssocLeft
	AssocRight
)

func (a Associativity) String() string {
	switch a {
	case AssocLeft:
		return "left"
	case AssocRight:
		return "right"
	default:
		return "none"
	}
}

// Family groups operators that may be interchanged when flattened at equal
// precedence: + with -, and * with / and %. Every other operator is its own family.
type Family uint8

const (
	FamilyNone Family = iota
	FamilyAdditive
	FamilyMultiplicative
	FamilyShiftLeft
	FamilyShiftRight
	FamilyLess
	FamilyLessEq
	FamilyGreater
	FamilyGreaterEq
	FamilyEq
	FamilyNotEq
	FamilyBitAnd
	FamilyBitOr
	FamilyBitXor
	FamilyLogicalAnd
	FamilyLogicalOr
	FamilyCoalesce
	FamilyAssignment
	FamilyPatternOr
	FamilyPatternAnd
)

type entry struct {
	level  Level
	assoc  Associativity
	family Family
}

var binaryTable = map[ast.ExprBinaryOp]entry{
	ast.ExprBinaryAdd:            {LevelAdditive, AssocLeft, FamilyAdditive},
	ast.ExprBinarySub:            {LevelAdditive, AssocLeft, FamilyAdditive},
	ast.ExprBinaryMul:            {LevelMultiplicative, AssocLeft, FamilyMultiplicative},
	ast.ExprBinaryDiv:            {LevelMultiplicative, AssocLeft, FamilyMultiplicative},
	ast.ExprBinaryMod:            {LevelMultiplicative, AssocLeft, FamilyMultiplicative},
	ast.ExprBinaryShiftLeft:      {LevelShift, AssocLeft, FamilyShiftLeft},
	ast.ExprBinaryShiftRight:     {LevelShift, AssocLeft, FamilyShiftRight},
	ast.ExprBinaryLess:           {LevelRelational, AssocLeft, FamilyLess},
	ast.ExprBinaryLessEq:         {LevelRelational, AssocLeft, FamilyLessEq},
	ast.ExprBinaryGreater:        {LevelRelational, AssocLeft, FamilyGreater},
	ast.ExprBinaryGreaterEq:      {LevelRelational, AssocLeft, FamilyGreaterEq},
	ast.ExprBinaryEq:             {LevelEquality, AssocLeft, FamilyEq},
	ast.ExprBinaryNotEq:          {LevelEquality, AssocLeft, FamilyNotEq},
	ast.ExprBinaryBitAnd:         {LevelLogicalAnd, AssocLeft, FamilyBitAnd},
	ast.ExprBinaryBitXor:         {LevelLogicalXor, AssocLeft, FamilyBitXor},
	ast.ExprBinaryBitOr:          {LevelLogicalOr, AssocLeft, FamilyBitOr},
	ast.ExprBinaryLogicalAnd:     {LevelConditionalAnd, AssocLeft, FamilyLogicalAnd},
	ast.ExprBinaryLogicalOr:      {LevelConditionalOr, AssocLeft, FamilyLogicalOr},
	ast.ExprBinaryCoalesce:       {LevelCoalesce, AssocRight, FamilyCoalesce},
	ast.ExprBinaryPatOr:          {LevelPatternOr, AssocLeft, FamilyPatternOr},
	ast.ExprBinaryPatAnd:         {LevelPatternAnd, AssocLeft, FamilyPatternAnd},
	ast.ExprBinaryAssign:         {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryAddAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinarySubAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryMulAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryDivAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryModAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryBitAndAssign:   {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryBitOrAssign:    {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryBitXorAssign:   {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryShlAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryShrAssign:      {LevelAssignment, AssocRight, FamilyAssignment},
	ast.ExprBinaryCoalesceAssign: {LevelAssignment, AssocRight, FamilyAssignment},
}

// Of returns the precedence level of a binary operator.
func Of(op ast.ExprBinaryOp) Level {
	return binaryTable[op].level
}

// Assoc returns the associativity of a binary operator.
func Assoc(op ast.ExprBinaryOp) Associativity {
	return binaryTable[op].assoc
}

// FamilyOf returns the flattening family of a binary operator.
func FamilyOf(op ast.ExprBinaryOp) Family {
	return binaryTable[op].family
}

// Unknown reports whether op is absent from the table.
func Unknown(op ast.ExprBinaryOp) bool {
	_, ok := binaryTable[op]
	return !ok
}

// Associative reports whether a right-nested child with the same operator
// may be flattened: a op (b op c) == a op b op c. For + and * this holds for
// exact arithmetic only; the caller checks operand kinds.
func Associative(op ast.ExprBinaryOp) bool {
	switch op {
	case ast.ExprBinaryAdd, ast.ExprBinaryMul,
		ast.ExprBinaryBitAnd, ast.ExprBinaryBitOr, ast.ExprBinaryBitXor,
		ast.ExprBinaryLogicalAnd, ast.ExprBinaryLogicalOr:
		return true
	}
	return false
}

// OfUnary returns the level of a unary operator. Postfix forms are primary.
func OfUnary(op ast.ExprUnaryOp) Level {
	switch op {
	case ast.ExprUnaryPostInc, ast.ExprUnaryPostDec, ast.ExprUnarySuppress:
		return LevelPrimary
	case ast.ExprUnaryRef, ast.ExprUnaryThrow, ast.ExprUnarySpread:
		return LevelAssignment
	case ast.ExprUnaryPatNot:
		return LevelPatternNot
	}
	return LevelUnary
}

// Operator is the precedence view of one expression node.
type Operator struct {
	Level  Level
	Family Family
	Assoc  Associativity
}

// Binary returns the Operator of a binary operator.
func Binary(op ast.ExprBinaryOp) Operator {
	e := binaryTable[op]
	return Operator{Level: e.level, Family: e.family, Assoc: e.assoc}
}

// OfExpr returns the Operator of expression id. Kinds that never take part
// in precedence (ExprBad) get LevelNone.
func OfExpr(exprs *ast.Exprs, id ast.ExprID) Operator {
	e := exprs.Get(id)
	if e == nil {
		return Operator{}
	}
	switch e.Kind {
	case ast.ExprIdent, ast.ExprLit, ast.ExprThis, ast.ExprPredefined, ast.ExprMember, ast.ExprCall,
		ast.ExprIndex, ast.ExprPostfix, ast.ExprNew, ast.ExprArrayNew, ast.ExprStackalloc, ast.ExprDefault,
		ast.ExprChecked, ast.ExprTypeof, ast.ExprSizeof, ast.ExprInterpolated, ast.ExprCollection,
		ast.ExprTuple, ast.ExprMemberBinding, ast.ExprElementBinding, ast.ExprInitializer,
		ast.ExprDeclaration, ast.ExprCondAccess, ast.ExprGroup:
		return Operator{Level: LevelPrimary}
	case ast.ExprUnary:
		d, _ := exprs.Unary(id)
		return Operator{Level: OfUnary(d.Op)}
	case ast.ExprCast:
		return Operator{Level: LevelUnary}
	case ast.ExprRange:
		return Operator{Level: LevelRange}
	case ast.ExprSwitch:
		return Operator{Level: LevelSwitch}
	case ast.ExprBinary, ast.ExprAssign, ast.PatBinary:
		d, _ := exprs.Binary(id)
		return Binary(d.Op)
	case ast.ExprIs, ast.ExprAs:
		return Operator{Level: LevelRelational, Assoc: AssocLeft}
	case ast.ExprConditional:
		return Operator{Level: LevelConditional, Assoc: AssocRight}
	case ast.ExprLambda, ast.ExprQuery, ast.ExprThrow, ast.ExprRef, ast.ExprSpread:
		return Operator{Level: LevelAssignment}
	case ast.PatNot:
		return Operator{Level: LevelPatternNot}
	case ast.PatConstant, ast.PatType, ast.PatRelational, ast.PatDeclaration, ast.PatVar,
		ast.PatDiscard, ast.PatRecursive:
		return Operator{Level: LevelPatternPrimary}
	case ast.ExprBad:
		return Operator{}
	default:
		panic(fmt.Sprintf("precedence: unhandled expression kind %s", e.Kind))
	}
}

// Relation is the outcome of comparing a child operator against its parent.
type Relation uint8

const (
	// RelationUnknown means one side is absent from the table.
	RelationUnknown Relation = iota
	Tighter
	EqualSameFamily
	EqualDifferentFamily
	Looser
)

func (r Relation) String() string {
	switch r {
	case Tighter:
		return "tighter"
	case EqualSameFamily:
		return "equal-same-family"
	case EqualDifferentFamily:
		return "equal-different-family"
	case Looser:
		return "looser"
	default:
		return "unknown"
	}
}

// Compare relates child to parent. Expression and pattern levels are never
// compared with each other.
func Compare(child, parent Operator) Relation {
	if child.Level == LevelNone || parent.Level == LevelNone {
		return RelationUnknown
	}
	if child.Level.IsPattern() != parent.Level.IsPattern() {
		return RelationUnknown
	}
	switch {
	case child.Level > parent.Level:
		return Tighter
	case child.Level < parent.Level:
		return Looser
	case child.Family != FamilyNone && child.Family == parent.Family:
		return EqualSameFamily
	default:
		return EqualDifferentFamily
	}
}
