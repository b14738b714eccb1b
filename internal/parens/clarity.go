package parens

import (
	"fmt"
	"strings"

	"unparen/internal/ast"
	"unparen/internal/precedence"
)

// Policy is the style preference for one category of binary operands.
type Policy uint8

const (
	// PolicyAlways removes parentheses whenever it is safe.
	PolicyAlways Policy = iota
	// PolicyRequire keeps parentheses around operands of a different precedence.
	PolicyRequire
	// PolicyIgnore never offers a removal in the category.
	PolicyIgnore
)

func (p Policy) String() string {
	switch p {
	case PolicyAlways:
		return "always"
	case PolicyRequire:
		return "require"
	case PolicyIgnore:
		return "ignore"
	default:
		return fmt.Sprintf("Policy(%d)", p)
	}
}

// ParsePolicy accepts the names printed by Policy.String.
func ParsePolicy(s string) (Policy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "always":
		return PolicyAlways, nil
	case "require":
		return PolicyRequire, nil
	case "ignore":
		return PolicyIgnore, nil
	}
	return 0, fmt.Errorf("unknown policy %q (want always, require or ignore)", s)
}

// Category is the clarity category of a binary-like parent.
type Category uint8

const (
	CategoryNone Category = iota
	// CategoryArithmetic: + - * / %.
	CategoryArithmetic
	// CategoryOtherBinary: shifts, bitwise, logical, coalesce, relational, equality, is and as.
	CategoryOtherBinary
	// CategoryPattern: or, and, not.
	CategoryPattern
)

func (c Category) String() string {
	switch c {
	case CategoryArithmetic:
		return "arithmetic"
	case CategoryOtherBinary:
		return "other-binary"
	case CategoryPattern:
		return "pattern"
	default:
		return "none"
	}
}

// Options configures the analyzer.
type Options struct {
	Arithmetic  Policy
	OtherBinary Policy
	Patterns    Policy
	// Ignore turns the analysis off: every group is necessary.
	Ignore bool
	// CheckOverflow treats the whole file as a checked context.
	CheckOverflow bool
}

// DefaultOptions keeps parentheses around mixed-precedence operands in every category.
func DefaultOptions() Options {
	return Options{
		Arithmetic:  PolicyRequire,
		OtherBinary: PolicyRequire,
		Patterns:    PolicyRequire,
	}
}

// AlwaysRemove removes everything that is safe to remove.
func AlwaysRemove() Options {
	return Options{}
}

// Policy returns the policy of category c; PolicyAlways for CategoryNone.
func (o Options) Policy(c Category) Policy {
	switch c {
	case CategoryArithmetic:
		return o.Arithmetic
	case CategoryOtherBinary:
		return o.OtherBinary
	case CategoryPattern:
		return o.Patterns
	default:
		return PolicyAlways
	}
}

// binaryLike returns the level and category of a parent that takes part in
// clarity decisions. ok is false for every other parent.
func (a *analyzer) binaryLike(ctx Context) (level precedence.Level, cat Category, ok bool) {
	exprs := a.t.b.Exprs
	pe := exprs.Get(ctx.Parent)
	if pe == nil {
		return precedence.LevelNone, CategoryNone, false
	}
	switch pe.Kind {
	case ast.ExprBinary:
		d, _ := exprs.Binary(ctx.Parent)
		return precedence.Of(d.Op), categoryOf(d.Op), true
	case ast.ExprIs:
		// группа на месте паттерна - это весь паттерн целиком
		if ctx.Slot.Role != ast.SlotLeft {
			return precedence.LevelNone, CategoryNone, false
		}
		return precedence.LevelRelational, CategoryOtherBinary, true
	case ast.ExprAs:
		return precedence.LevelRelational, CategoryOtherBinary, true
	case ast.PatBinary:
		d, _ := exprs.Binary(ctx.Parent)
		return precedence.Of(d.Op), CategoryPattern, true
	case ast.PatNot:
		return precedence.LevelPatternNot, CategoryPattern, true
	}
	return precedence.LevelNone, CategoryNone, false
}

func categoryOf(op ast.ExprBinaryOp) Category {
	switch op {
	case ast.ExprBinaryAdd, ast.ExprBinarySub, ast.ExprBinaryMul, ast.ExprBinaryDiv, ast.ExprBinaryMod:
		return CategoryArithmetic
	case ast.ExprBinaryPatOr, ast.ExprBinaryPatAnd:
		return CategoryPattern
	}
	return CategoryOtherBinary
}

// clarity applies the style policy to a group that is otherwise removable.
func (a *analyzer) clarity(ctx Context, child ast.ExprID) decision {
	level, cat, ok := a.binaryLike(ctx)
	if !ok {
		return decision{}
	}
	switch a.opts.Policy(cat) {
	case PolicyIgnore:
		return keep(NecessaryIgnored, "ignored-"+cat.String())
	case PolicyRequire:
		if a.primary(child) {
			return decision{}
		}
		if precedence.OfExpr(a.t.b.Exprs, child).Level != level {
			return keep(NecessaryClarity, "clarity-"+cat.String())
		}
	}
	return decision{}
}
