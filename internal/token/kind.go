package token

// Kind represents the category of a source token.
type Kind uint8

const (
	// Invalid indicates an erroneous token.
	Invalid Kind = iota
	// EOF marks the end of the source input.
	EOF

	// Ident represents an identifier, including contextual keywords.
	Ident

	// reserved keywords
	KwAs
	KwBase
	KwBool
	KwByte
	KwCase
	KwChar
	KwChecked
	KwClass
	KwConst
	KwDecimal
	KwDefault
	KwDouble
	KwElse
	KwFalse
	KwFloat
	KwIf
	KwIn
	KwInt
	KwInternal
	KwIs
	KwLong
	KwNamespace
	KwNew
	KwNull
	KwObject
	KwOperator
	KwOut
	KwPrivate
	KwProtected
	KwPublic
	KwReadonly
	KwRef
	KwReturn
	KwSbyte
	KwShort
	KwSizeof
	KwStackalloc
	KwStatic
	KwString
	KwStruct
	KwSwitch
	KwThis
	KwThrow
	KwTrue
	KwTypeof
	KwUint
	KwUlong
	KwUnchecked
	KwUnsafe
	KwUshort
	KwUsing
	KwVoid

	// literals
	IntLit
	RealLit
	CharLit
	StringLit
	// InterpStringLit is a whole $"..." literal; Token.Holes lists its holes.
	InterpStringLit

	Plus             // +
	Minus            // -
	Star             // *
	Slash            // /
	Percent          // %
	Assign           // =
	PlusAssign       // +=
	MinusAssign      // -=
	StarAssign       // *=
	SlashAssign      // /=
	PercentAssign    // %=
	AmpAssign        // &=
	PipeAssign       // |=
	CaretAssign      // ^=
	ShlAssign        // <<=
	QuestionAssign   // ??=
	EqEq             // ==
	Bang             // !
	BangEq           // !=
	Lt               // <
	LtEq             // <=
	Gt               // >
	GtEq             // >=
	Shl              // <<
	Amp              // &
	Pipe             // |
	Caret            // ^
	Tilde            // ~
	AndAnd           // &&
	OrOr             // ||
	PlusPlus         // ++
	MinusMinus       // --
	Question         // ?
	QuestionQuestion // ??
	QuestionDot      // ?.
	Colon            // :
	ColonColon       // ::
	Semicolon        // ;
	Comma            // ,
	Dot              // .
	DotDot           // ..
	Arrow            // ->
	FatArrow         // =>
	LParen           // (
	RParen           // )
	LBrace           // {
	RBrace           // }
	LBracket         // [
	RBracket         // ]
	Hash             // # (only inside directive lines)
)

var kindNames = [...]string{
	Invalid: "Invalid", EOF: "EOF", Ident: "Ident",
	KwAs: "as", KwBase: "base", KwBool: "bool", KwByte: "byte", KwCase: "case", KwChar: "char",
	KwChecked: "checked", KwClass: "class", KwConst: "const", KwDecimal: "decimal", KwDefault: "default",
	KwDouble: "double", KwElse: "else", KwFalse: "false", KwFloat: "float", KwIf: "if", KwIn: "in",
	KwInt: "int", KwInternal: "internal", KwIs: "is", KwLong: "long", KwNamespace: "namespace",
	KwNew: "new", KwNull: "null", KwObject: "object", KwOperator: "operator", KwOut: "out",
	KwPrivate: "private", KwProtected: "protected", KwPublic: "public", KwReadonly: "readonly",
	KwRef: "ref", KwReturn: "return", KwSbyte: "sbyte", KwShort: "short", KwSizeof: "sizeof",
	KwStackalloc: "stackalloc", KwStatic: "static", KwString: "string", KwStruct: "struct",
	KwSwitch: "switch", KwThis: "this", KwThrow: "throw", KwTrue: "true", KwTypeof: "typeof",
	KwUint: "uint", KwUlong: "ulong", KwUnchecked: "unchecked", KwUnsafe: "unsafe",
	KwUshort: "ushort", KwUsing: "using", KwVoid: "void",
	IntLit: "IntLit", RealLit: "RealLit", CharLit: "CharLit", StringLit: "StringLit",
	InterpStringLit: "InterpStringLit",
	Plus: "+", Minus: "-", Star: "*", Slash: "/", Percent: "%", Assign: "=",
	PlusAssign: "+=", MinusAssign: "-=", StarAssign: "*=", SlashAssign: "/=", PercentAssign: "%=",
	AmpAssign: "&=", PipeAssign: "|=", CaretAssign: "^=", ShlAssign: "<<=", QuestionAssign: "??=",
	EqEq: "==", Bang: "!", BangEq: "!=", Lt: "<", LtEq: "<=", Gt: ">", GtEq: ">=", Shl: "<<",
	Amp: "&", Pipe: "|", Caret: "^", Tilde: "~", AndAnd: "&&", OrOr: "||", PlusPlus: "++",
	MinusMinus: "--", Question: "?", QuestionQuestion: "??", QuestionDot: "?.", Colon: ":",
	ColonColon: "::", Semicolon: ";", Comma: ",", Dot: ".", DotDot: "..", Arrow: "->",
	FatArrow: "=>", LParen: "(", RParen: ")", LBrace: "{", RBrace: "}", LBracket: "[",
	RBracket: "]", Hash: "#",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return "Kind(?)"
}
