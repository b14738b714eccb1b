package types

import (
	"fmt"
	"strings"

	"unparen/internal/token"
)

// Kind is the static numeric classification of an expression. It is all the
// analyzers need to know about types: whether regrouping an operation can
// change rounding, overflow or operator resolution.
type Kind uint8

const (
	// KindUnknown means the annotator could not tell.
	KindUnknown Kind = iota
	KindIntegral
	KindFloating
	KindDecimal
	KindBoolean
	KindString
	KindDynamic
	// KindOther covers user-defined and library types; their operators may do anything.
	KindOther
)

func (k Kind) String() string {
	switch k {
	case KindUnknown:
		return "unknown"
	case KindIntegral:
		return "integral"
	case KindFloating:
		return "floating"
	case KindDecimal:
		return "decimal"
	case KindBoolean:
		return "boolean"
	case KindString:
		return "string"
	case KindDynamic:
		return "dynamic"
	case KindOther:
		return "other"
	default:
		return fmt.Sprintf("Kind(%d)", k)
	}
}

// Known reports whether k was determined.
func (k Kind) Known() bool {
	return k != KindUnknown
}

// Exact reports whether arithmetic on k is exact up to overflow, so that
// regrouping cannot change the result when no overflow is checked.
func (k Kind) Exact() bool {
	return k == KindIntegral || k == KindBoolean
}

// Numeric reports whether k takes part in arithmetic promotion.
func (k Kind) Numeric() bool {
	return k == KindIntegral || k == KindFloating || k == KindDecimal
}

// Predefined maps a predefined type keyword to its kind.
func Predefined(k token.Kind) Kind {
	switch k {
	case token.KwInt, token.KwLong, token.KwShort, token.KwByte, token.KwSbyte,
		token.KwUint, token.KwUlong, token.KwUshort, token.KwChar:
		return KindIntegral
	case token.KwFloat, token.KwDouble:
		return KindFloating
	case token.KwDecimal:
		return KindDecimal
	case token.KwBool:
		return KindBoolean
	case token.KwString:
		return KindString
	case token.KwObject:
		return KindOther
	default:
		return KindUnknown
	}
}

// wellKnown - имена типов BCL, которые встречаются вместо ключевых слов.
var wellKnown = map[string]Kind{
	"Int16": KindIntegral, "Int32": KindIntegral, "Int64": KindIntegral,
	"UInt16": KindIntegral, "UInt32": KindIntegral, "UInt64": KindIntegral,
	"Byte": KindIntegral, "SByte": KindIntegral, "Char": KindIntegral,
	"IntPtr": KindIntegral, "UIntPtr": KindIntegral, "nint": KindIntegral, "nuint": KindIntegral,
	"Single": KindFloating, "Double": KindFloating, "Half": KindFloating,
	"Decimal": KindDecimal,
	"Boolean": KindBoolean,
	"String": KindString,
	"dynamic": KindDynamic,
}

// Named classifies a type written as a name, with or without a namespace
// prefix. Names the annotator does not recognize are user types.
func Named(name string) Type {
	if i := strings.LastIndexByte(name, '.'); i >= 0 {
		name = name[i+1:]
	}
	if t, ok := wellKnownType(name); ok {
		return t
	}
	return kindOnly(KindOther)
}

func wellKnownType(name string) (Type, bool) {
	k, ok := wellKnown[name]
	if !ok {
		return Type{}, false
	}
	return Type{Kind: k, Int: wellKnownIntegral[name]}, true
}

// Literal classifies the raw text of a numeric literal by its suffix.
func Literal(text string, real bool) Kind {
	lower := strings.ToLower(text)
	if strings.HasPrefix(lower, "0x") || strings.HasPrefix(lower, "0b") {
		return KindIntegral
	}
	switch {
	case strings.HasSuffix(lower, "m"):
		return KindDecimal
	case strings.HasSuffix(lower, "f"), strings.HasSuffix(lower, "d"):
		return KindFloating
	case real:
		return KindFloating
	}
	return KindIntegral
}
