package types

import "unparen/internal/ast"

// FamilyMask describes broad categories of operand kinds an operator accepts.
type FamilyMask uint16

const (
	FamilyNone FamilyMask = 0
	FamilyAny  FamilyMask = 1 << iota
	FamilyBool
	FamilyIntegral
	FamilyFloating
	FamilyDecimal
	FamilyString
)

const (
	FamilyNumeric = FamilyIntegral | FamilyFloating | FamilyDecimal
)

// BinaryResult describes how to derive the result kind of an operator.
type BinaryResult uint8

const (
	BinaryResultUnknown BinaryResult = iota
	BinaryResultLeft
	BinaryResultRight
	BinaryResultBool
	BinaryResultNumeric
	BinaryResultString
)

// BinaryFlags annotate special handling for binary operators.
type BinaryFlags uint16

const (
	BinaryFlagNone       BinaryFlags = 0
	BinaryFlagAssignment BinaryFlags = 1 << iota
	BinaryFlagShortCircuit
	BinaryFlagCommutative
	// BinaryFlagOverflow marks integral operations that throw in a checked context.
	BinaryFlagOverflow
)

// BinarySpec lists operand families and the expected result for an operation.
type BinarySpec struct {
	Left   FamilyMask
	Right  FamilyMask
	Result BinaryResult
	Flags  BinaryFlags
}

// UnaryResult indicates how to derive the resulting kind.
type UnaryResult uint8

const (
	UnaryResultUnknown UnaryResult = iota
	UnaryResultSame
	UnaryResultBool
	UnaryResultOther
)

// UnarySpec describes operand expectations for unary operators.
type UnarySpec struct {
	Operand FamilyMask
	Result  UnaryResult
}

var binarySpecTable = map[ast.ExprBinaryOp][]BinarySpec{
	ast.ExprBinaryAdd: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative | BinaryFlagOverflow},
		{Left: FamilyString, Right: FamilyAny, Result: BinaryResultString},
		{Left: FamilyAny, Right: FamilyString, Result: BinaryResultString},
	},
	ast.ExprBinarySub: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric, Flags: BinaryFlagOverflow},
	},
	ast.ExprBinaryMul: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative | BinaryFlagOverflow},
	},
	ast.ExprBinaryDiv: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric, Flags: BinaryFlagOverflow},
	},
	ast.ExprBinaryMod: {
		{Left: FamilyNumeric, Right: FamilyNumeric, Result: BinaryResultNumeric},
	},
	ast.ExprBinaryBitAnd: {
		{Left: FamilyIntegral, Right: FamilyIntegral, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative},
		{Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool, Flags: BinaryFlagCommutative},
	},
	ast.ExprBinaryBitOr: {
		{Left: FamilyIntegral, Right: FamilyIntegral, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative},
		{Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool, Flags: BinaryFlagCommutative},
	},
	ast.ExprBinaryBitXor: {
		{Left: FamilyIntegral, Right: FamilyIntegral, Result: BinaryResultNumeric, Flags: BinaryFlagCommutative},
		{Left: FamilyBool, Right: FamilyBool, Result: BinaryResultBool, Flags: BinaryFlagCommutative},
	},
	ast.ExprBinaryShiftLeft: {
		{Left: FamilyIntegral, Right: FamilyIntegral, Result: BinaryResultLeft},
	},
	ast.ExprBinaryShiftRight: {
		{Left: FamilyIntegral, Right: FamilyIntegral, Result: BinaryResultLeft},
	},
	ast.ExprBinaryLogicalAnd: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool, Flags: BinaryFlagShortCircuit},
	},
	ast.ExprBinaryLogicalOr: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool, Flags: BinaryFlagShortCircuit},
	},
	ast.ExprBinaryEq: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool, Flags: BinaryFlagCommutative},
	},
	ast.ExprBinaryNotEq: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool, Flags: BinaryFlagCommutative},
	},
	ast.ExprBinaryLess: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	},
	ast.ExprBinaryLessEq: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	},
	ast.ExprBinaryGreater: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	},
	ast.ExprBinaryGreaterEq: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultBool},
	},
	ast.ExprBinaryCoalesce: {
		{Left: FamilyAny, Right: FamilyAny, Result: BinaryResultLeft, Flags: BinaryFlagShortCircuit},
	},
}

var unarySpecTable = map[ast.ExprUnaryOp]UnarySpec{
	ast.ExprUnaryPlus:         {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryMinus:        {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryNot:          {Operand: FamilyAny, Result: UnaryResultBool},
	ast.ExprUnaryBitNot:       {Operand: FamilyIntegral, Result: UnaryResultSame},
	ast.ExprUnaryPreInc:       {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryPreDec:       {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryPostInc:      {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnaryPostDec:      {Operand: FamilyNumeric, Result: UnaryResultSame},
	ast.ExprUnarySuppress:     {Operand: FamilyAny, Result: UnaryResultSame},
	ast.ExprUnaryRef:          {Operand: FamilyAny, Result: UnaryResultSame},
	ast.ExprUnaryIndexFromEnd: {Operand: FamilyIntegral, Result: UnaryResultOther},
}

// BinarySpecs returns the operand/result specs of op, nil for assignments and
// pattern combinators.
func BinarySpecs(op ast.ExprBinaryOp) []BinarySpec {
	return binarySpecTable[op]
}

// UnarySpecFor returns the operand expectations of op.
func UnarySpecFor(op ast.ExprUnaryOp) (UnarySpec, bool) {
	spec, ok := unarySpecTable[op]
	return spec, ok
}

// CanOverflow reports whether op on integral operands can throw in a checked context.
func CanOverflow(op ast.ExprBinaryOp) bool {
	for _, spec := range binarySpecTable[op] {
		if spec.Flags&BinaryFlagOverflow != 0 {
			return true
		}
	}
	return false
}

func familyOf(k Kind) FamilyMask {
	switch k {
	case KindBoolean:
		return FamilyAny | FamilyBool
	case KindIntegral:
		return FamilyAny | FamilyIntegral
	case KindFloating:
		return FamilyAny | FamilyFloating
	case KindDecimal:
		return FamilyAny | FamilyDecimal
	case KindString:
		return FamilyAny | FamilyString
	default:
		return FamilyAny
	}
}

// promote applies the numeric promotion: decimal and floating never mix.
func promote(l, r Kind) Kind {
	switch {
	case l == r:
		return l
	case l == KindDecimal && r == KindFloating, l == KindFloating && r == KindDecimal:
		return KindUnknown
	case l == KindDecimal || r == KindDecimal:
		return KindDecimal
	case l == KindFloating || r == KindFloating:
		return KindFloating
	}
	return KindIntegral
}

// BinaryKind derives the result kind of l op r.
func BinaryKind(op ast.ExprBinaryOp, l, r Kind) Kind {
	if op.IsAssign() {
		return l
	}
	specs := binarySpecTable[op]
	if len(specs) == 0 {
		return KindUnknown
	}
	// dynamic заражает всё выражение, пользовательские операторы возвращают что угодно
	if l == KindDynamic || r == KindDynamic {
		return KindDynamic
	}
	boolOnly := true
	for _, spec := range specs {
		if spec.Result != BinaryResultBool {
			boolOnly = false
			break
		}
	}
	if boolOnly {
		return KindBoolean
	}
	if l == KindOther || r == KindOther {
		return KindOther
	}
	if !l.Known() || !r.Known() {
		if op == ast.ExprBinaryCoalesce && r.Known() {
			return r
		}
		return KindUnknown
	}
	lf, rf := familyOf(l), familyOf(r)
	for _, spec := range specs {
		if lf&spec.Left == 0 || rf&spec.Right == 0 {
			continue
		}
		switch spec.Result {
		case BinaryResultLeft:
			return l
		case BinaryResultRight:
			return r
		case BinaryResultBool:
			return KindBoolean
		case BinaryResultString:
			return KindString
		case BinaryResultNumeric:
			return promote(l, r)
		}
	}
	return KindUnknown
}

// UnaryKind derives the result kind of op applied to operand.
func UnaryKind(op ast.ExprUnaryOp, operand Kind) Kind {
	spec, ok := unarySpecTable[op]
	if !ok {
		return KindUnknown
	}
	switch spec.Result {
	case UnaryResultBool:
		if operand == KindDynamic || operand == KindOther {
			return operand
		}
		return KindBoolean
	case UnaryResultOther:
		return KindOther
	case UnaryResultSame:
		if operand == KindDynamic || operand == KindOther || familyOf(operand)&spec.Operand != 0 {
			return operand
		}
	}
	return KindUnknown
}
