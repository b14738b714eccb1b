package token

var keywords = map[string]Kind{
	"as": KwAs, "base": KwBase, "bool": KwBool, "byte": KwByte, "case": KwCase,
	"char": KwChar, "checked": KwChecked, "class": KwClass, "const": KwConst,
	"decimal": KwDecimal, "default": KwDefault, "double": KwDouble, "else": KwElse,
	"false": KwFalse, "float": KwFloat, "if": KwIf, "in": KwIn, "int": KwInt,
	"internal": KwInternal, "is": KwIs, "long": KwLong, "namespace": KwNamespace,
	"new": KwNew, "null": KwNull, "object": KwObject, "operator": KwOperator,
	"out": KwOut, "private": KwPrivate, "protected": KwProtected, "public": KwPublic,
	"readonly": KwReadonly, "ref": KwRef, "return": KwReturn, "sbyte": KwSbyte,
	"short": KwShort, "sizeof": KwSizeof, "stackalloc": KwStackalloc, "static": KwStatic,
	"string": KwString, "struct": KwStruct, "switch": KwSwitch, "this": KwThis,
	"throw": KwThrow, "true": KwTrue, "typeof": KwTypeof, "uint": KwUint,
	"ulong": KwUlong, "unchecked": KwUnchecked, "unsafe": KwUnsafe, "ushort": KwUshort,
	"using": KwUsing, "void": KwVoid,
}

// LookupKeyword reports whether ident is a reserved keyword.
// Keywords are case-sensitive; contextual keywords are not listed.
func LookupKeyword(ident string) (Kind, bool) {
	k, ok := keywords[ident]
	return k, ok
}

// IsPredefinedType reports whether k names a built-in type keyword.
func IsPredefinedType(k Kind) bool {
	switch k {
	case KwBool, KwByte, KwChar, KwDecimal, KwDouble, KwFloat, KwInt, KwLong, KwObject,
		KwSbyte, KwShort, KwString, KwUint, KwUlong, KwUshort, KwVoid:
		return true
	default:
		return false
	}
}
