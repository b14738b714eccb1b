package ast

import (
	"slices"

	"unparen/internal/source"
)

// Exprs manages allocation of expressions and patterns.
type Exprs struct {
	Arena        *Arena[Expr]
	Idents       *Arena[ExprIdentData]
	Literals     *Arena[ExprLiteralData]
	Members      *Arena[ExprMemberData]
	Calls        *Arena[ExprCallData]
	Unaries      *Arena[ExprUnaryData]
	News         *Arena[ExprNewData]
	ArrayNews    *Arena[ExprArrayNewData]
	TypeOps      *Arena[ExprTypeData]
	Checkeds     *Arena[ExprCheckedData]
	Interps      *Arena[ExprInterpolatedData]
	Lists        *Arena[ExprListData]
	Tuples       *Arena[ExprTupleData]
	Inits        *Arena[ExprInitializerData]
	Decls        *Arena[ExprDeclarationData]
	Casts        *Arena[ExprCastData]
	Binaries     *Arena[ExprBinaryData]
	Iss          *Arena[ExprIsData]
	Ases         *Arena[ExprAsData]
	Conds        *Arena[ExprConditionalData]
	CondAccesses *Arena[ExprCondAccessData]
	Ranges       *Arena[ExprRangeData]
	Switches     *Arena[ExprSwitchData]
	Lambdas      *Arena[ExprLambdaData]
	Queries      *Arena[ExprQueryData]
	Groups       *Arena[ExprGroupData]
	Patterns     *Arena[ExprPatternData]
	RecPatterns  *Arena[ExprRecursivePatternData]
}

// NewExprs creates a new Exprs with per-kind arenas preallocated using capHint as the initial capacity.
// If capHint is 0, a default capacity of 1<<8 is used.
func NewExprs(capHint uint) *Exprs {
	if capHint == 0 {
		capHint = 1 << 8
	}
	small := capHint/8 + 1
	return &Exprs{
		Arena:        NewArena[Expr](capHint),
		Idents:       NewArena[ExprIdentData](capHint),
		Literals:     NewArena[ExprLiteralData](capHint),
		Members:      NewArena[ExprMemberData](capHint),
		Calls:        NewArena[ExprCallData](capHint),
		Unaries:      NewArena[ExprUnaryData](small),
		News:         NewArena[ExprNewData](small),
		ArrayNews:    NewArena[ExprArrayNewData](small),
		TypeOps:      NewArena[ExprTypeData](small),
		Checkeds:     NewArena[ExprCheckedData](small),
		Interps:      NewArena[ExprInterpolatedData](small),
		Lists:        NewArena[ExprListData](small),
		Tuples:       NewArena[ExprTupleData](small),
		Inits:        NewArena[ExprInitializerData](small),
		Decls:        NewArena[ExprDeclarationData](small),
		Casts:        NewArena[ExprCastData](small),
		Binaries:     NewArena[ExprBinaryData](capHint),
		Iss:          NewArena[ExprIsData](small),
		Ases:         NewArena[ExprAsData](small),
		Conds:        NewArena[ExprConditionalData](small),
		CondAccesses: NewArena[ExprCondAccessData](small),
		Ranges:       NewArena[ExprRangeData](small),
		Switches:     NewArena[ExprSwitchData](small),
		Lambdas:      NewArena[ExprLambdaData](small),
		Queries:      NewArena[ExprQueryData](small),
		Groups:       NewArena[ExprGroupData](capHint),
		Patterns:     NewArena[ExprPatternData](small),
		RecPatterns:  NewArena[ExprRecursivePatternData](small),
	}
}

func (e *Exprs) new(kind ExprKind, span source.Span, payload uint32) ExprID {
	return ExprID(e.Arena.Allocate(Expr{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

// payloadOf достаёт payload узла, если его вид входит в kinds.
func payloadOf[T any](e *Exprs, a *Arena[T], id ExprID, kinds ...ExprKind) (*T, bool) {
	expr := e.Get(id)
	if expr == nil || !slices.Contains(kinds, expr.Kind) {
		return nil, false
	}
	return a.Get(uint32(expr.Payload)), true
}

// Get returns the expression with the given ID.
func (e *Exprs) Get(id ExprID) *Expr {
	return e.Arena.Get(uint32(id))
}

// Len returns the number of allocated expressions. IDs run from 1 to Len.
func (e *Exprs) Len() uint32 {
	return e.Arena.Len()
}

// SetSpan widens or narrows the span of an existing node.
func (e *Exprs) SetSpan(id ExprID, sp source.Span) {
	if expr := e.Get(id); expr != nil {
		expr.Span = sp
	}
}

// NewIdent creates a new identifier expression.
func (e *Exprs) NewIdent(span source.Span, name source.StringID, typeArgs []TypeID) ExprID {
	payload := e.Idents.Allocate(ExprIdentData{Name: name, TypeArgs: slices.Clone(typeArgs)})
	return e.new(ExprIdent, span, payload)
}

// Ident returns the identifier data for the given expression ID.
func (e *Exprs) Ident(id ExprID) (*ExprIdentData, bool) {
	return payloadOf(e, e.Idents, id, ExprIdent)
}

// NewLiteral creates a new literal expression.
func (e *Exprs) NewLiteral(span source.Span, kind ExprLitKind, value source.StringID) ExprID {
	payload := e.Literals.Allocate(ExprLiteralData{Kind: kind, Value: value})
	return e.new(ExprLit, span, payload)
}

// Literal returns the literal data for the given expression ID.
func (e *Exprs) Literal(id ExprID) (*ExprLiteralData, bool) {
	return payloadOf(e, e.Literals, id, ExprLit)
}

// NewThis creates this or base.
func (e *Exprs) NewThis(span source.Span) ExprID {
	return e.new(ExprThis, span, 0)
}

// NewBad creates an error-recovery placeholder.
func (e *Exprs) NewBad(span source.Span) ExprID {
	return e.new(ExprBad, span, 0)
}

// NewMember creates a member access; a NoExprID target makes a member binding.
func (e *Exprs) NewMember(span source.Span, data ExprMemberData) ExprID {
	kind := ExprMember
	if !data.Target.IsValid() {
		kind = ExprMemberBinding
	}
	data.TypeArgs = slices.Clone(data.TypeArgs)
	return e.new(kind, span, e.Members.Allocate(data))
}

// Member returns member access or member binding data.
func (e *Exprs) Member(id ExprID) (*ExprMemberData, bool) {
	return payloadOf(e, e.Members, id, ExprMember, ExprMemberBinding)
}

// NewCall creates an invocation, element access or element binding.
func (e *Exprs) NewCall(kind ExprKind, span source.Span, data ExprCallData) ExprID {
	if kind != ExprCall && kind != ExprIndex && kind != ExprElementBinding {
		panic("ast: NewCall with kind " + kind.String())
	}
	data.Args = slices.Clone(data.Args)
	return e.new(kind, span, e.Calls.Allocate(data))
}

// Call returns invocation, element access or element binding data.
func (e *Exprs) Call(id ExprID) (*ExprCallData, bool) {
	return payloadOf(e, e.Calls, id, ExprCall, ExprIndex, ExprElementBinding)
}

// NewUnary creates a node of one of the operator-plus-operand kinds:
// ExprUnary, ExprPostfix, ExprRef, ExprThrow, ExprSpread or PatNot.
func (e *Exprs) NewUnary(kind ExprKind, span source.Span, op ExprUnaryOp, operand ExprID, opSpan source.Span) ExprID {
	payload := e.Unaries.Allocate(ExprUnaryData{Op: op, Operand: operand, OpSpan: opSpan})
	return e.new(kind, span, payload)
}

// Unary returns the operator data of any operator-plus-operand node.
func (e *Exprs) Unary(id ExprID) (*ExprUnaryData, bool) {
	return payloadOf(e, e.Unaries, id, ExprUnary, ExprPostfix, ExprRef, ExprThrow, ExprSpread, PatNot)
}

// NewNew creates an object creation expression.
func (e *Exprs) NewNew(span source.Span, data ExprNewData) ExprID {
	data.Args = slices.Clone(data.Args)
	return e.new(ExprNew, span, e.News.Allocate(data))
}

// New returns object creation data.
func (e *Exprs) New(id ExprID) (*ExprNewData, bool) {
	return payloadOf(e, e.News, id, ExprNew)
}

// NewArrayNew creates an array creation or, with stackalloc set, a stackalloc expression.
func (e *Exprs) NewArrayNew(span source.Span, stackalloc bool, data ExprArrayNewData) ExprID {
	kind := ExprArrayNew
	if stackalloc {
		kind = ExprStackalloc
	}
	data.Sizes = slices.Clone(data.Sizes)
	return e.new(kind, span, e.ArrayNews.Allocate(data))
}

// ArrayNew returns array creation or stackalloc data.
func (e *Exprs) ArrayNew(id ExprID) (*ExprArrayNewData, bool) {
	return payloadOf(e, e.ArrayNews, id, ExprArrayNew, ExprStackalloc)
}

// NewTypeOp creates ExprDefault, ExprTypeof, ExprSizeof or ExprPredefined.
func (e *Exprs) NewTypeOp(kind ExprKind, span source.Span, typ TypeID) ExprID {
	return e.new(kind, span, e.TypeOps.Allocate(ExprTypeData{Type: typ}))
}

// TypeOp returns the type operand of default, typeof, sizeof or a predefined receiver.
func (e *Exprs) TypeOp(id ExprID) (*ExprTypeData, bool) {
	return payloadOf(e, e.TypeOps, id, ExprDefault, ExprTypeof, ExprSizeof, ExprPredefined)
}

// NewChecked creates checked(...) or unchecked(...).
func (e *Exprs) NewChecked(span source.Span, checked bool, inner ExprID) ExprID {
	return e.new(ExprChecked, span, e.Checkeds.Allocate(ExprCheckedData{Checked: checked, Inner: inner}))
}

// Checked returns checked expression data.
func (e *Exprs) Checked(id ExprID) (*ExprCheckedData, bool) {
	return payloadOf(e, e.Checkeds, id, ExprChecked)
}

// NewInterpolated creates an interpolated string with parsed holes.
func (e *Exprs) NewInterpolated(span source.Span, holes []ExprID) ExprID {
	payload := e.Interps.Allocate(ExprInterpolatedData{Holes: slices.Clone(holes)})
	return e.new(ExprInterpolated, span, payload)
}

// Interpolated returns interpolated string data.
func (e *Exprs) Interpolated(id ExprID) (*ExprInterpolatedData, bool) {
	return payloadOf(e, e.Interps, id, ExprInterpolated)
}

// NewCollection creates a collection expression.
func (e *Exprs) NewCollection(span source.Span, data ExprListData) ExprID {
	data.Elements = slices.Clone(data.Elements)
	return e.new(ExprCollection, span, e.Lists.Allocate(data))
}

// Collection returns collection expression data.
func (e *Exprs) Collection(id ExprID) (*ExprListData, bool) {
	return payloadOf(e, e.Lists, id, ExprCollection)
}

// NewTuple creates a tuple literal.
func (e *Exprs) NewTuple(span source.Span, elements []Arg) ExprID {
	return e.new(ExprTuple, span, e.Tuples.Allocate(ExprTupleData{Elements: slices.Clone(elements)}))
}

// Tuple returns tuple literal data.
func (e *Exprs) Tuple(id ExprID) (*ExprTupleData, bool) {
	return payloadOf(e, e.Tuples, id, ExprTuple)
}

// NewInitializer creates a { ... } initializer.
func (e *Exprs) NewInitializer(span source.Span, kind InitKind, elements []ExprID) ExprID {
	payload := e.Inits.Allocate(ExprInitializerData{Kind: kind, Elements: slices.Clone(elements)})
	return e.new(ExprInitializer, span, payload)
}

// Initializer returns initializer data.
func (e *Exprs) Initializer(id ExprID) (*ExprInitializerData, bool) {
	return payloadOf(e, e.Inits, id, ExprInitializer)
}

// NewDeclaration creates out var x / out T x.
func (e *Exprs) NewDeclaration(span source.Span, typ TypeID, name source.StringID) ExprID {
	return e.new(ExprDeclaration, span, e.Decls.Allocate(ExprDeclarationData{Type: typ, Name: name}))
}

// Declaration returns declaration expression data.
func (e *Exprs) Declaration(id ExprID) (*ExprDeclarationData, bool) {
	return payloadOf(e, e.Decls, id, ExprDeclaration)
}

// NewCast creates a new cast expression.
func (e *Exprs) NewCast(span source.Span, data ExprCastData) ExprID {
	return e.new(ExprCast, span, e.Casts.Allocate(data))
}

// Cast returns the cast data for the given expression ID.
func (e *Exprs) Cast(id ExprID) (*ExprCastData, bool) {
	return payloadOf(e, e.Casts, id, ExprCast)
}

// NewBinary creates a binary, assignment or pattern combinator node depending on op.
func (e *Exprs) NewBinary(span source.Span, op ExprBinaryOp, left, right ExprID, opSpan source.Span) ExprID {
	kind := ExprBinary
	switch {
	case op.IsAssign():
		kind = ExprAssign
	case op == ExprBinaryPatOr || op == ExprBinaryPatAnd:
		kind = PatBinary
	}
	payload := e.Binaries.Allocate(ExprBinaryData{Op: op, Left: left, Right: right, OpSpan: opSpan})
	return e.new(kind, span, payload)
}

// Binary returns the binary data of a binary, assignment or pattern combinator node.
func (e *Exprs) Binary(id ExprID) (*ExprBinaryData, bool) {
	return payloadOf(e, e.Binaries, id, ExprBinary, ExprAssign, PatBinary)
}

// NewIs creates e is pattern.
func (e *Exprs) NewIs(span source.Span, value, pattern ExprID) ExprID {
	return e.new(ExprIs, span, e.Iss.Allocate(ExprIsData{Value: value, Pattern: pattern}))
}

// Is returns is-pattern data.
func (e *Exprs) Is(id ExprID) (*ExprIsData, bool) {
	return payloadOf(e, e.Iss, id, ExprIs)
}

// NewAs creates e as T.
func (e *Exprs) NewAs(span source.Span, value ExprID, typ TypeID) ExprID {
	return e.new(ExprAs, span, e.Ases.Allocate(ExprAsData{Value: value, Type: typ}))
}

// As returns as-expression data.
func (e *Exprs) As(id ExprID) (*ExprAsData, bool) {
	return payloadOf(e, e.Ases, id, ExprAs)
}

// NewConditional creates c ? a : b.
func (e *Exprs) NewConditional(span source.Span, data ExprConditionalData) ExprID {
	return e.new(ExprConditional, span, e.Conds.Allocate(data))
}

// Conditional returns conditional expression data.
func (e *Exprs) Conditional(id ExprID) (*ExprConditionalData, bool) {
	return payloadOf(e, e.Conds, id, ExprConditional)
}

// NewCondAccess creates target?.binding.
func (e *Exprs) NewCondAccess(span source.Span, target, whenNotNull ExprID) ExprID {
	payload := e.CondAccesses.Allocate(ExprCondAccessData{Target: target, WhenNotNull: whenNotNull})
	return e.new(ExprCondAccess, span, payload)
}

// CondAccess returns conditional access data.
func (e *Exprs) CondAccess(id ExprID) (*ExprCondAccessData, bool) {
	return payloadOf(e, e.CondAccesses, id, ExprCondAccess)
}

// NewRange creates a..b.
func (e *Exprs) NewRange(span source.Span, start, end ExprID) ExprID {
	return e.new(ExprRange, span, e.Ranges.Allocate(ExprRangeData{Start: start, End: end}))
}

// Range returns range data.
func (e *Exprs) Range(id ExprID) (*ExprRangeData, bool) {
	return payloadOf(e, e.Ranges, id, ExprRange)
}

// NewSwitch creates a switch expression.
func (e *Exprs) NewSwitch(span source.Span, value ExprID, arms []SwitchArm) ExprID {
	payload := e.Switches.Allocate(ExprSwitchData{Value: value, Arms: slices.Clone(arms)})
	return e.new(ExprSwitch, span, payload)
}

// Switch returns switch expression data.
func (e *Exprs) Switch(id ExprID) (*ExprSwitchData, bool) {
	return payloadOf(e, e.Switches, id, ExprSwitch)
}

// NewLambda creates a lambda expression.
func (e *Exprs) NewLambda(span source.Span, data ExprLambdaData) ExprID {
	data.Params = slices.Clone(data.Params)
	return e.new(ExprLambda, span, e.Lambdas.Allocate(data))
}

// Lambda returns lambda data.
func (e *Exprs) Lambda(id ExprID) (*ExprLambdaData, bool) {
	return payloadOf(e, e.Lambdas, id, ExprLambda)
}

// NewQuery creates a query expression.
func (e *Exprs) NewQuery(span source.Span, clauses []QueryClause) ExprID {
	return e.new(ExprQuery, span, e.Queries.Allocate(ExprQueryData{Clauses: slices.Clone(clauses)}))
}

// Query returns query expression data.
func (e *Exprs) Query(id ExprID) (*ExprQueryData, bool) {
	return payloadOf(e, e.Queries, id, ExprQuery)
}

// NewGroup creates a new parenthesized group.
func (e *Exprs) NewGroup(span source.Span, inner ExprID, open, closeSpan source.Span) ExprID {
	payload := e.Groups.Allocate(ExprGroupData{Inner: inner, Open: open, Close: closeSpan})
	return e.new(ExprGroup, span, payload)
}

// Group returns the group data for the given expression ID.
func (e *Exprs) Group(id ExprID) (*ExprGroupData, bool) {
	return payloadOf(e, e.Groups, id, ExprGroup)
}

// NewPattern creates one of the leaf pattern kinds.
func (e *Exprs) NewPattern(kind ExprKind, span source.Span, data ExprPatternData) ExprID {
	switch kind {
	case PatConstant, PatType, PatRelational, PatDeclaration, PatVar, PatDiscard:
	default:
		panic("ast: NewPattern with kind " + kind.String())
	}
	return e.new(kind, span, e.Patterns.Allocate(data))
}

// Pattern returns leaf pattern data.
func (e *Exprs) Pattern(id ExprID) (*ExprPatternData, bool) {
	return payloadOf(e, e.Patterns, id, PatConstant, PatType, PatRelational, PatDeclaration, PatVar, PatDiscard)
}

// NewRecursivePattern creates T (a, b) { P: p } x.
func (e *Exprs) NewRecursivePattern(span source.Span, data ExprRecursivePatternData) ExprID {
	data.Positional = slices.Clone(data.Positional)
	data.Properties = slices.Clone(data.Properties)
	return e.new(PatRecursive, span, e.RecPatterns.Allocate(data))
}

// RecursivePattern returns recursive pattern data.
func (e *Exprs) RecursivePattern(id ExprID) (*ExprRecursivePatternData, bool) {
	return payloadOf(e, e.RecPatterns, id, PatRecursive)
}
