package ast

import "fmt"

// SlotRole names the operand position a child occupies in its parent.
type SlotRole uint8

const (
	SlotNone SlotRole = iota

	// внутри выражений

	SlotLeft
	SlotRight
	SlotOperand
	// SlotReceiver is the target of a member access, invocation, element access,
	// conditional access or suppression.
	SlotReceiver
	SlotWhenNotNull
	SlotArgument
	SlotElement
	SlotCondition
	SlotWhenTrue
	SlotWhenFalse
	SlotRangeStart
	SlotRangeEnd
	SlotPattern
	SlotConstant
	SlotPatternMember
	SlotSwitchValue
	SlotArmWhen
	SlotArmValue
	SlotLambdaBody
	SlotHole
	SlotChecked
	SlotSize
	SlotInitializer
	SlotQuery
	SlotGroupInner

	// корни: выражения, принадлежащие операторам и объявлениям

	SlotExprStmt
	SlotLocalInit
	SlotReturn
	SlotThrowStmt
	SlotStmtCond
	SlotSwitchStmtValue
	SlotCaseLabel
	SlotCaseWhen
	SlotFieldInit
	SlotExprBody
	SlotParamDefault
	SlotDirective
)

var slotRoleNames = [...]string{
	SlotNone: "none", SlotLeft: "left", SlotRight: "right", SlotOperand: "operand", SlotReceiver: "receiver",
	SlotWhenNotNull: "when-not-null", SlotArgument: "argument", SlotElement: "element",
	SlotCondition: "condition", SlotWhenTrue: "when-true", SlotWhenFalse: "when-false",
	SlotRangeStart: "range-start", SlotRangeEnd: "range-end", SlotPattern: "pattern",
	SlotConstant: "constant", SlotPatternMember: "pattern-member", SlotSwitchValue: "switch-value",
	SlotArmWhen: "arm-when", SlotArmValue: "arm-value", SlotLambdaBody: "lambda-body", SlotHole: "hole",
	SlotChecked: "checked", SlotSize: "size", SlotInitializer: "initializer", SlotQuery: "query",
	SlotGroupInner: "group", SlotExprStmt: "expr-stmt", SlotLocalInit: "local-init", SlotReturn: "return",
	SlotThrowStmt: "throw", SlotStmtCond: "stmt-cond", SlotSwitchStmtValue: "switch-stmt-value",
	SlotCaseLabel: "case-label", SlotCaseWhen: "case-when", SlotFieldInit: "field-init",
	SlotExprBody: "expr-body", SlotParamDefault: "param-default", SlotDirective: "directive",
}

func (r SlotRole) String() string {
	if int(r) < len(slotRoleNames) {
		return slotRoleNames[r]
	}
	return fmt.Sprintf("SlotRole(%d)", r)
}

// IsRoot reports whether the role belongs to a statement or declaration rather than an expression.
func (r SlotRole) IsRoot() bool {
	return r >= SlotExprStmt
}

// Slot is one child position. Index orders siblings that share a role.
type Slot struct {
	Role  SlotRole
	Expr  ExprID
	Index int
}

func appendSlot(out []Slot, role SlotRole, id ExprID, index int) []Slot {
	if !id.IsValid() {
		return out
	}
	return append(out, Slot{Role: role, Expr: id, Index: index})
}

func appendArgs(out []Slot, role SlotRole, args []Arg) []Slot {
	for i, a := range args {
		out = appendSlot(out, role, a.Value, i)
	}
	return out
}

// Children enumerates the expression children of id in source order.
// It is the one place that knows the shape of every ExprKind; the switch must stay exhaustive.
func Children(e *Exprs, id ExprID) []Slot {
	expr := e.Get(id)
	if expr == nil {
		return nil
	}
	var out []Slot
	switch expr.Kind {
	case ExprIdent, ExprLit, ExprThis, ExprPredefined, ExprDefault, ExprTypeof, ExprSizeof,
		ExprMemberBinding, ExprDeclaration, PatType, PatDeclaration, PatVar, PatDiscard, ExprBad:
		// листья
	case ExprMember:
		d, _ := e.Member(id)
		out = appendSlot(out, SlotReceiver, d.Target, 0)
	case ExprCall, ExprIndex, ExprElementBinding:
		d, _ := e.Call(id)
		out = appendSlot(out, SlotReceiver, d.Target, 0)
		out = appendArgs(out, SlotArgument, d.Args)
	case ExprPostfix:
		d, _ := e.Unary(id)
		role := SlotOperand
		if d.Op == ExprUnarySuppress {
			role = SlotReceiver
		}
		out = appendSlot(out, role, d.Operand, 0)
	case ExprUnary, ExprRef, ExprThrow, ExprSpread, PatNot:
		d, _ := e.Unary(id)
		out = appendSlot(out, SlotOperand, d.Operand, 0)
	case ExprNew:
		d, _ := e.New(id)
		out = appendArgs(out, SlotArgument, d.Args)
		out = appendSlot(out, SlotInitializer, d.Init, 0)
	case ExprArrayNew, ExprStackalloc:
		d, _ := e.ArrayNew(id)
		for i, sz := range d.Sizes {
			out = appendSlot(out, SlotSize, sz, i)
		}
		out = appendSlot(out, SlotInitializer, d.Init, 0)
	case ExprChecked:
		d, _ := e.Checked(id)
		out = appendSlot(out, SlotChecked, d.Inner, 0)
	case ExprInterpolated:
		d, _ := e.Interpolated(id)
		for i, h := range d.Holes {
			out = appendSlot(out, SlotHole, h, i)
		}
	case ExprCollection:
		d, _ := e.Collection(id)
		for i, el := range d.Elements {
			out = appendSlot(out, SlotElement, el, i)
		}
	case ExprTuple:
		d, _ := e.Tuple(id)
		out = appendArgs(out, SlotElement, d.Elements)
	case ExprInitializer:
		d, _ := e.Initializer(id)
		for i, el := range d.Elements {
			out = appendSlot(out, SlotElement, el, i)
		}
	case ExprCast:
		d, _ := e.Cast(id)
		out = appendSlot(out, SlotOperand, d.Value, 0)
	case ExprBinary, ExprAssign, PatBinary:
		d, _ := e.Binary(id)
		out = appendSlot(out, SlotLeft, d.Left, 0)
		out = appendSlot(out, SlotRight, d.Right, 0)
	case ExprIs:
		d, _ := e.Is(id)
		out = appendSlot(out, SlotLeft, d.Value, 0)
		out = appendSlot(out, SlotPattern, d.Pattern, 0)
	case ExprAs:
		d, _ := e.As(id)
		out = appendSlot(out, SlotLeft, d.Value, 0)
	case ExprConditional:
		d, _ := e.Conditional(id)
		out = appendSlot(out, SlotCondition, d.Cond, 0)
		out = appendSlot(out, SlotWhenTrue, d.Then, 0)
		out = appendSlot(out, SlotWhenFalse, d.Else, 0)
	case ExprCondAccess:
		d, _ := e.CondAccess(id)
		out = appendSlot(out, SlotReceiver, d.Target, 0)
		out = appendSlot(out, SlotWhenNotNull, d.WhenNotNull, 0)
	case ExprRange:
		d, _ := e.Range(id)
		out = appendSlot(out, SlotRangeStart, d.Start, 0)
		out = appendSlot(out, SlotRangeEnd, d.End, 0)
	case ExprSwitch:
		d, _ := e.Switch(id)
		out = appendSlot(out, SlotSwitchValue, d.Value, 0)
		for i, arm := range d.Arms {
			out = appendSlot(out, SlotPattern, arm.Pattern, i)
			out = appendSlot(out, SlotArmWhen, arm.When, i)
			out = appendSlot(out, SlotArmValue, arm.Value, i)
		}
	case ExprLambda:
		d, _ := e.Lambda(id)
		out = appendSlot(out, SlotLambdaBody, d.Body, 0)
	case ExprQuery:
		d, _ := e.Query(id)
		for i, c := range d.Clauses {
			out = appendSlot(out, SlotQuery, c.Expr, i)
			out = appendSlot(out, SlotQuery, c.By, i)
		}
	case ExprGroup:
		d, _ := e.Group(id)
		out = appendSlot(out, SlotGroupInner, d.Inner, 0)
	case PatConstant, PatRelational:
		d, _ := e.Pattern(id)
		out = appendSlot(out, SlotConstant, d.Value, 0)
	case PatRecursive:
		d, _ := e.RecursivePattern(id)
		i := 0
		for _, sp := range d.Positional {
			out = appendSlot(out, SlotPattern, sp.Pattern, i)
			i++
		}
		for _, sp := range d.Properties {
			out = appendSlot(out, SlotPatternMember, sp.Member, i)
			out = appendSlot(out, SlotPattern, sp.Pattern, i)
			i++
		}
	default:
		panic(fmt.Sprintf("ast: Children: unhandled expression kind %s", expr.Kind))
	}
	return out
}
