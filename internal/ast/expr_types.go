package ast

import (
	"unparen/internal/source"
	"unparen/internal/token"
)

// ExprKind enumerates the different kinds of expressions and patterns.
// Patterns live in the same arena so a parenthesized pattern is an ExprGroup too.
type ExprKind uint8

const (
	// ExprIdent represents an identifier, optionally with type arguments (M<T>).
	ExprIdent ExprKind = iota
	// ExprLit represents a literal, including true, false and null.
	ExprLit
	// ExprThis represents this or base.
	ExprThis
	// ExprPredefined represents a predefined type used as a receiver (int.MaxValue).
	ExprPredefined
	// ExprMember represents a.b, a->b and alias::b.
	ExprMember
	// ExprCall represents an invocation.
	ExprCall
	// ExprIndex represents an element access a[i].
	ExprIndex
	// ExprPostfix represents x++, x-- and the suppression x!.
	ExprPostfix
	// ExprNew represents an object creation, including new() and anonymous new { }.
	ExprNew
	// ExprArrayNew represents new T[n], new T[] { } and new[] { }.
	ExprArrayNew
	// ExprStackalloc represents stackalloc T[n] and stackalloc[] { }.
	ExprStackalloc
	// ExprDefault represents default(T) and the default literal.
	ExprDefault
	// ExprChecked represents checked(...) and unchecked(...).
	ExprChecked
	ExprTypeof
	ExprSizeof
	// ExprInterpolated represents $"..."; its holes are child expressions.
	ExprInterpolated
	// ExprCollection represents [a, b, ..c].
	ExprCollection
	ExprTuple
	// ExprMemberBinding is the .b that follows ?. inside a conditional access.
	ExprMemberBinding
	// ExprElementBinding is the [i] that follows ? inside a conditional access.
	ExprElementBinding
	// ExprInitializer represents { ... } after new or as an array initializer.
	ExprInitializer
	// ExprDeclaration represents out var x and out int x.
	ExprDeclaration
	ExprUnary
	ExprCast
	ExprBinary
	// ExprIs represents e is pattern.
	ExprIs
	// ExprAs represents e as T.
	ExprAs
	// ExprConditional represents c ? a : b.
	ExprConditional
	// ExprCondAccess represents a?.b and a?[i].
	ExprCondAccess
	// ExprAssign represents simple and compound assignment.
	ExprAssign
	// ExprRange represents a..b with optional ends.
	ExprRange
	// ExprSwitch represents e switch { ... }.
	ExprSwitch
	ExprLambda
	// ExprQuery represents from ... select ... .
	ExprQuery
	ExprThrow
	// ExprRef represents ref e.
	ExprRef
	// ExprSpread represents ..e inside a collection expression.
	ExprSpread
	// ExprGroup represents an explicit parenthesization of one expression or pattern.
	ExprGroup

	// Паттерны

	PatConstant
	PatType
	// PatRelational represents < 5, >= x and friends.
	PatRelational
	// PatDeclaration represents T x.
	PatDeclaration
	// PatVar represents var x.
	PatVar
	PatDiscard
	// PatRecursive represents T (a, b) { P: p } x.
	PatRecursive
	// PatBinary represents p or q and p and q.
	PatBinary
	PatNot

	// ExprBad marks a node produced by error recovery.
	ExprBad
)

var exprKindNames = [...]string{
	ExprIdent: "Ident", ExprLit: "Lit", ExprThis: "This", ExprPredefined: "Predefined",
	ExprMember: "Member", ExprCall: "Call", ExprIndex: "Index", ExprPostfix: "Postfix",
	ExprNew: "New", ExprArrayNew: "ArrayNew", ExprStackalloc: "Stackalloc", ExprDefault: "Default",
	ExprChecked: "Checked", ExprTypeof: "Typeof", ExprSizeof: "Sizeof", ExprInterpolated: "Interpolated",
	ExprCollection: "Collection", ExprTuple: "Tuple", ExprMemberBinding: "MemberBinding",
	ExprElementBinding: "ElementBinding", ExprInitializer: "Initializer", ExprDeclaration: "Declaration",
	ExprUnary: "Unary", ExprCast: "Cast", ExprBinary: "Binary", ExprIs: "Is", ExprAs: "As",
	ExprConditional: "Conditional", ExprCondAccess: "CondAccess", ExprAssign: "Assign", ExprRange: "Range",
	ExprSwitch: "Switch", ExprLambda: "Lambda", ExprQuery: "Query", ExprThrow: "Throw", ExprRef: "Ref",
	ExprSpread: "Spread", ExprGroup: "Group",
	PatConstant: "PatConstant", PatType: "PatType", PatRelational: "PatRelational",
	PatDeclaration: "PatDeclaration", PatVar: "PatVar", PatDiscard: "PatDiscard",
	PatRecursive: "PatRecursive", PatBinary: "PatBinary", PatNot: "PatNot",
	ExprBad: "Bad",
}

func (k ExprKind) String() string {
	if int(k) < len(exprKindNames) && exprKindNames[k] != "" {
		return exprKindNames[k]
	}
	return "ExprKind(?)"
}

// IsPattern reports whether k is one of the pattern kinds.
func (k ExprKind) IsPattern() bool {
	return k >= PatConstant && k <= PatNot
}

// Expr represents an expression node in the AST.
type Expr struct {
	Kind    ExprKind
	Span    source.Span
	Payload PayloadID
}

// ExprBinaryOp enumerates binary operator kinds, assignment forms and pattern combinators.
type ExprBinaryOp uint8

const (
	// Арифметические

	// ExprBinaryAdd represents the addition operator (+).
	ExprBinaryAdd ExprBinaryOp = iota
	// ExprBinarySub represents the subtraction operator (-).
	ExprBinarySub
	// ExprBinaryMul represents the multiplication operator (*).
	ExprBinaryMul
	// ExprBinaryDiv represents the division operator (/).
	ExprBinaryDiv
	// ExprBinaryMod represents the modulo operator (%).
	ExprBinaryMod

	// Битовые

	ExprBinaryShiftLeft
	ExprBinaryShiftRight
	ExprBinaryBitAnd
	ExprBinaryBitOr
	ExprBinaryBitXor

	// Логические

	ExprBinaryLogicalAnd
	ExprBinaryLogicalOr

	// Сравнения

	ExprBinaryEq
	ExprBinaryNotEq
	ExprBinaryLess
	ExprBinaryLessEq
	ExprBinaryGreater
	ExprBinaryGreaterEq

	// ExprBinaryCoalesce represents ??.
	ExprBinaryCoalesce

	// Присваивание

	ExprBinaryAssign
	ExprBinaryAddAssign
	ExprBinarySubAssign
	ExprBinaryMulAssign
	ExprBinaryDivAssign
	ExprBinaryModAssign
	ExprBinaryBitAndAssign
	ExprBinaryBitOrAssign
	ExprBinaryBitXorAssign
	ExprBinaryShlAssign
	ExprBinaryShrAssign
	ExprBinaryCoalesceAssign

	// Комбинаторы паттернов

	ExprBinaryPatOr
	ExprBinaryPatAnd
)

var binaryOpNames = [...]string{
	ExprBinaryAdd: "+", ExprBinarySub: "-", ExprBinaryMul: "*", ExprBinaryDiv: "/", ExprBinaryMod: "%",
	ExprBinaryShiftLeft: "<<", ExprBinaryShiftRight: ">>", ExprBinaryBitAnd: "&", ExprBinaryBitOr: "|",
	ExprBinaryBitXor: "^", ExprBinaryLogicalAnd: "&&", ExprBinaryLogicalOr: "||",
	ExprBinaryEq: "==", ExprBinaryNotEq: "!=", ExprBinaryLess: "<", ExprBinaryLessEq: "<=",
	ExprBinaryGreater: ">", ExprBinaryGreaterEq: ">=", ExprBinaryCoalesce: "??",
	ExprBinaryAssign: "=", ExprBinaryAddAssign: "+=", ExprBinarySubAssign: "-=", ExprBinaryMulAssign: "*=",
	ExprBinaryDivAssign: "/=", ExprBinaryModAssign: "%=", ExprBinaryBitAndAssign: "&=",
	ExprBinaryBitOrAssign: "|=", ExprBinaryBitXorAssign: "^=", ExprBinaryShlAssign: "<<=",
	ExprBinaryShrAssign: ">>=", ExprBinaryCoalesceAssign: "??=",
	ExprBinaryPatOr: "or", ExprBinaryPatAnd: "and",
}

// String returns the symbol representation of a binary operator.
func (op ExprBinaryOp) String() string {
	if int(op) < len(binaryOpNames) {
		return binaryOpNames[op]
	}
	return "?"
}

// IsAssign reports whether op is a simple or compound assignment.
func (op ExprBinaryOp) IsAssign() bool {
	return op >= ExprBinaryAssign && op <= ExprBinaryCoalesceAssign
}

// ExprUnaryOp enumerates prefix, postfix and wrapper operator kinds.
type ExprUnaryOp uint8

const (
	ExprUnaryPlus ExprUnaryOp = iota
	ExprUnaryMinus
	ExprUnaryNot
	ExprUnaryBitNot
	ExprUnaryPreInc
	ExprUnaryPreDec
	// ExprUnaryAddrOf represents &x in unsafe code.
	ExprUnaryAddrOf
	// ExprUnaryDeref represents *p in unsafe code.
	ExprUnaryDeref
	// ExprUnaryIndexFromEnd represents ^i.
	ExprUnaryIndexFromEnd
	ExprUnaryAwait

	// постфиксные

	ExprUnaryPostInc
	ExprUnaryPostDec
	ExprUnarySuppress

	// обёртки: ref e, throw e, ..e, not p

	ExprUnaryRef
	ExprUnaryThrow
	ExprUnarySpread
	ExprUnaryPatNot
)

var unaryOpNames = [...]string{
	ExprUnaryPlus: "+", ExprUnaryMinus: "-", ExprUnaryNot: "!", ExprUnaryBitNot: "~",
	ExprUnaryPreInc: "++", ExprUnaryPreDec: "--", ExprUnaryAddrOf: "&", ExprUnaryDeref: "*",
	ExprUnaryIndexFromEnd: "^", ExprUnaryAwait: "await",
	ExprUnaryPostInc: "++", ExprUnaryPostDec: "--", ExprUnarySuppress: "!",
	ExprUnaryRef: "ref", ExprUnaryThrow: "throw", ExprUnarySpread: "..", ExprUnaryPatNot: "not",
}

// String returns the symbol representation of a unary operator.
func (op ExprUnaryOp) String() string {
	if int(op) < len(unaryOpNames) {
		return unaryOpNames[op]
	}
	return "?"
}

// ExprLitKind enumerates literal kinds.
type ExprLitKind uint8

const (
	ExprLitInt ExprLitKind = iota
	ExprLitReal
	ExprLitChar
	ExprLitString
	ExprLitTrue
	ExprLitFalse
	ExprLitNull
)

// ExprIdentData holds identifier expression details.
type ExprIdentData struct {
	Name     source.StringID
	TypeArgs []TypeID // M<int>(x); пусто для обычного имени
}

// ExprLiteralData holds literal expression details.
type ExprLiteralData struct {
	Kind  ExprLitKind
	Value source.StringID // сырой текст литерала
}

// ExprMemberData holds member access and member binding details.
type ExprMemberData struct {
	Target   ExprID // NoExprID for a member binding
	Name     source.StringID
	Op       token.Kind // Dot, Arrow or ColonColon
	TypeArgs []TypeID
}

// Arg is an invocation, element access or tuple argument.
type Arg struct {
	Name     source.StringID // NoStringID for positional args
	Modifier token.Kind      // KwRef, KwOut, KwIn or Invalid
	Value    ExprID
}

// ExprCallData holds invocation and element access details.
type ExprCallData struct {
	Target ExprID // NoExprID for an element binding
	Args   []Arg
	Open   source.Span
	Close  source.Span
}

// ExprUnaryData holds unary, postfix and wrapper details.
type ExprUnaryData struct {
	Op      ExprUnaryOp
	Operand ExprID
	OpSpan  source.Span
}

// ExprCastData holds cast expression details.
type ExprCastData struct {
	Type  TypeID
	Value ExprID
	Open  source.Span
	Close source.Span
}

// ExprBinaryData holds binary, assignment and pattern combinator details.
type ExprBinaryData struct {
	Op     ExprBinaryOp
	Left   ExprID
	Right  ExprID
	OpSpan source.Span
}

// ExprIsData holds e is pattern.
type ExprIsData struct {
	Value   ExprID
	Pattern ExprID
}

// ExprAsData holds e as T.
type ExprAsData struct {
	Value ExprID
	Type  TypeID
}

// ExprConditionalData holds c ? a : b.
type ExprConditionalData struct {
	Cond     ExprID
	Then     ExprID
	Else     ExprID
	Question source.Span
	Colon    source.Span
}

// ExprCondAccessData holds target?.binding. WhenNotNull is a chain rooted at
// an ExprMemberBinding or ExprElementBinding.
type ExprCondAccessData struct {
	Target      ExprID
	WhenNotNull ExprID
}

// ExprRangeData holds a..b; either end may be absent.
type ExprRangeData struct {
	Start ExprID
	End   ExprID
}

// NewKind classifies ExprNew.
type NewKind uint8

const (
	NewObject NewKind = iota
	// NewTargetTyped is new(...).
	NewTargetTyped
	// NewAnonymous is new { A = 1 }.
	NewAnonymous
)

// ExprNewData holds object creation details.
type ExprNewData struct {
	Kind    NewKind
	Type    TypeID
	Args    []Arg
	HasArgs bool
	Init    ExprID // NoExprID when absent
}

// ExprArrayNewData holds array creation and stackalloc details.
type ExprArrayNewData struct {
	Elem  TypeID // NoTypeID for new[] and stackalloc[]
	Sizes []ExprID
	Rank  int
	Init  ExprID
}

// ExprTypeData holds default(T), typeof(T), sizeof(T) and predefined receivers.
type ExprTypeData struct {
	Type TypeID // NoTypeID for the default literal
}

// ExprCheckedData holds checked(...) and unchecked(...).
type ExprCheckedData struct {
	Checked bool
	Inner   ExprID
}

// ExprInterpolatedData holds the parsed holes of $"...".
type ExprInterpolatedData struct {
	Holes []ExprID
}

// ExprListData holds collection elements. Elements may be ExprSpread.
type ExprListData struct {
	Elements []ExprID
	Open     source.Span
	Close    source.Span
}

// ExprTupleData holds tuple literal elements; names come from "a: 1".
type ExprTupleData struct {
	Elements []Arg
}

// InitKind classifies ExprInitializer.
type InitKind uint8

const (
	// InitObject holds member assignments: { A = 1 }.
	InitObject InitKind = iota
	// InitCollection holds collection elements, indexers and nested lists: { 1, [0] = 2, { 3, 4 } }.
	InitCollection
	// InitArray is the initializer of an array creation, a declaration or a nested array initializer.
	InitArray
)

// ExprInitializerData holds { ... } elements.
type ExprInitializerData struct {
	Kind     InitKind
	Elements []ExprID
}

// ExprDeclarationData holds out var x and out T x.
type ExprDeclarationData struct {
	Type TypeID // NoTypeID для var
	Name source.StringID
}

// SwitchArm is one "pattern when guard => value" arm.
type SwitchArm struct {
	Pattern ExprID
	When    ExprID
	Value   ExprID
}

// ExprSwitchData holds e switch { arms }.
type ExprSwitchData struct {
	Value ExprID
	Arms  []SwitchArm
}

// LambdaParam is a lambda parameter; Type is NoTypeID for implicit params.
type LambdaParam struct {
	Name     source.StringID
	Type     TypeID
	Modifier token.Kind
}

// ExprLambdaData holds lambda details. Exactly one of Body and Block is set.
type ExprLambdaData struct {
	Params     []LambdaParam
	Body       ExprID
	Block      StmtID
	Async      bool
	Attributed bool
	Static     bool
}

// QueryClauseKind classifies a LINQ clause.
type QueryClauseKind uint8

const (
	QueryFrom QueryClauseKind = iota
	QueryLet
	QueryWhere
	QueryOrderBy
	QuerySelect
	QueryGroup
)

// QueryClause is one clause of a query expression. By is set only for group ... by.
type QueryClause struct {
	Kind QueryClauseKind
	Name source.StringID
	Expr ExprID
	By   ExprID
	Span source.Span
}

// ExprQueryData holds the clauses of a query expression in source order.
type ExprQueryData struct {
	Clauses []QueryClause
}

// ExprGroupData holds a parenthesized expression or pattern with both delimiters.
type ExprGroupData struct {
	Inner ExprID
	Open  source.Span
	Close source.Span
}

// ExprPatternData holds the leaf patterns. Which fields are set depends on the kind:
// PatConstant uses Value; PatType uses Type; PatRelational uses Op and Value;
// PatDeclaration uses Type and Name; PatVar uses Name.
type ExprPatternData struct {
	Op    ExprBinaryOp
	Type  TypeID
	Value ExprID
	Name  source.StringID
}

// Subpattern is "Name: pattern" inside a recursive pattern; Member is NoExprID for positional ones.
type Subpattern struct {
	Member  ExprID
	Pattern ExprID
}

// ExprRecursivePatternData holds T (positional) { properties } designation.
type ExprRecursivePatternData struct {
	Type       TypeID
	Positional []Subpattern
	Properties []Subpattern
	HasParens  bool
	HasBraces  bool
	Name       source.StringID
}
