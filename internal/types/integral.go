package types

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"unparen/internal/ast"
	"unparen/internal/token"
)

// Integral names the concrete integral type of a value. Two integral
// operations regroup safely only when they run at the same type: an int sum
// wraps before it is widened to long, a long sum does not.
type Integral uint8

const (
	IntegralUnknown Integral = iota
	IntegralSbyte
	IntegralByte
	IntegralShort
	IntegralUshort
	IntegralChar
	IntegralInt
	IntegralUint
	IntegralLong
	IntegralUlong
	IntegralNint
	IntegralNuint
)

var integralNames = [...]string{
	IntegralUnknown: "unknown",
	IntegralSbyte:   "sbyte",
	IntegralByte:    "byte",
	IntegralShort:   "short",
	IntegralUshort:  "ushort",
	IntegralChar:    "char",
	IntegralInt:     "int",
	IntegralUint:    "uint",
	IntegralLong:    "long",
	IntegralUlong:   "ulong",
	IntegralNint:    "nint",
	IntegralNuint:   "nuint",
}

func (i Integral) String() string {
	if int(i) < len(integralNames) {
		return integralNames[i]
	}
	return fmt.Sprintf("Integral(%d)", i)
}

// Known reports whether i was determined.
func (i Integral) Known() bool {
	return i != IntegralUnknown
}

// Promoted returns the type arithmetic on an operand of type i runs at.
func (i Integral) Promoted() Integral {
	switch i {
	case IntegralSbyte, IntegralByte, IntegralShort, IntegralUshort, IntegralChar:
		return IntegralInt
	}
	return i
}

func (i Integral) signed() bool {
	switch i {
	case IntegralSbyte, IntegralShort, IntegralInt, IntegralLong, IntegralNint:
		return true
	}
	return false
}

func (i Integral) max() uint64 {
	switch i {
	case IntegralInt:
		return math.MaxInt32
	case IntegralUint:
		return math.MaxUint32
	case IntegralLong:
		return math.MaxInt64
	case IntegralUlong:
		return math.MaxUint64
	}
	return 0
}

// Type is what the annotator records for an expression: its kind and, for
// integral values, the concrete integral type when it is known.
type Type struct {
	Kind Kind
	Int  Integral
}

func integral(i Integral) Type {
	return Type{Kind: KindIntegral, Int: i}
}

func kindOnly(k Kind) Type {
	return Type{Kind: k}
}

// PromoteIntegral applies the binary numeric promotion to two integral
// operand types. Pairs with no predefined operator give IntegralUnknown.
func PromoteIntegral(l, r Integral) Integral {
	if !l.Known() || !r.Known() {
		return IntegralUnknown
	}
	l, r = l.Promoted(), r.Promoted()
	switch {
	case l == r:
		return l
	case l == IntegralUlong || r == IntegralUlong:
		// ulong со знаковыми не складывается
		if l.signed() || r.signed() {
			return IntegralUnknown
		}
		return IntegralUlong
	case l == IntegralNint && r == IntegralInt, l == IntegralInt && r == IntegralNint:
		return IntegralNint
	case l == IntegralNuint && r == IntegralUint, l == IntegralUint && r == IntegralNuint:
		return IntegralNuint
	case l == IntegralNint || l == IntegralNuint || r == IntegralNint || r == IntegralNuint:
		return IntegralUnknown
	case l == IntegralLong || r == IntegralLong:
		return IntegralLong
	case l == IntegralUint || r == IntegralUint:
		if l.signed() || r.signed() {
			return IntegralLong
		}
		return IntegralUint
	}
	return IntegralInt
}

// BinaryType derives the type of l op r.
func BinaryType(op ast.ExprBinaryOp, l, r Type) Type {
	k := BinaryKind(op, l.Kind, r.Kind)
	if k != KindIntegral {
		return kindOnly(k)
	}
	switch {
	case op.IsAssign():
		return l
	case op == ast.ExprBinaryShiftLeft || op == ast.ExprBinaryShiftRight:
		return integral(l.Int.Promoted())
	case op == ast.ExprBinaryCoalesce:
		if l == r {
			return l
		}
		return kindOnly(k)
	case l.Kind != KindIntegral || r.Kind != KindIntegral:
		return kindOnly(k)
	}
	return integral(PromoteIntegral(l.Int, r.Int))
}

// UnaryType derives the type of op applied to operand.
func UnaryType(op ast.ExprUnaryOp, operand Type) Type {
	k := UnaryKind(op, operand.Kind)
	if k != KindIntegral || operand.Kind != KindIntegral {
		return kindOnly(k)
	}
	switch op {
	case ast.ExprUnaryPlus, ast.ExprUnaryBitNot:
		return integral(operand.Int.Promoted())
	case ast.ExprUnaryMinus:
		switch p := operand.Int.Promoted(); p {
		case IntegralUint:
			return integral(IntegralLong)
		case IntegralUlong, IntegralNuint:
			return kindOnly(KindIntegral)
		default:
			return integral(p)
		}
	}
	return operand
}

// PredefinedIntegral maps an integral type keyword to its type.
func PredefinedIntegral(k token.Kind) Integral {
	switch k {
	case token.KwSbyte:
		return IntegralSbyte
	case token.KwByte:
		return IntegralByte
	case token.KwShort:
		return IntegralShort
	case token.KwUshort:
		return IntegralUshort
	case token.KwChar:
		return IntegralChar
	case token.KwInt:
		return IntegralInt
	case token.KwUint:
		return IntegralUint
	case token.KwLong:
		return IntegralLong
	case token.KwUlong:
		return IntegralUlong
	}
	return IntegralUnknown
}

var wellKnownIntegral = map[string]Integral{
	"SByte": IntegralSbyte, "Byte": IntegralByte,
	"Int16": IntegralShort, "UInt16": IntegralUshort, "Char": IntegralChar,
	"Int32": IntegralInt, "UInt32": IntegralUint,
	"Int64": IntegralLong, "UInt64": IntegralUlong,
	"IntPtr": IntegralNint, "nint": IntegralNint,
	"UIntPtr": IntegralNuint, "nuint": IntegralNuint,
}

// LiteralIntegral returns the type of an integer literal: the first of the
// types its suffix allows that holds the value.
func LiteralIntegral(text string) Integral {
	lower := strings.ToLower(strings.ReplaceAll(text, "_", ""))
	unsigned, long := false, false
suffix:
	for lower != "" {
		switch lower[len(lower)-1] {
		case 'u':
			unsigned = true
		case 'l':
			long = true
		default:
			break suffix
		}
		lower = lower[:len(lower)-1]
	}
	base := 10
	switch {
	case strings.HasPrefix(lower, "0x"):
		base, lower = 16, lower[2:]
	case strings.HasPrefix(lower, "0b"):
		base, lower = 2, lower[2:]
	}
	v, err := strconv.ParseUint(lower, base, 64)
	if err != nil {
		return IntegralUnknown
	}
	candidates := []Integral{IntegralInt, IntegralUint, IntegralLong, IntegralUlong}
	switch {
	case unsigned && long:
		candidates = []Integral{IntegralUlong}
	case unsigned:
		candidates = []Integral{IntegralUint, IntegralUlong}
	case long:
		candidates = []Integral{IntegralLong, IntegralUlong}
	}
	for _, c := range candidates {
		if v <= c.max() {
			return c
		}
	}
	return IntegralUnknown
}
