package diag

import (
	"fmt"
)

type Code uint16

const (
	UnknownCode Code = 0

	// Лексические
	LexInfo                     Code = 1000
	LexUnknownChar              Code = 1001
	LexUnterminatedString       Code = 1002
	LexUnterminatedBlockComment Code = 1003
	LexBadNumber                Code = 1004
	LexUnterminatedChar         Code = 1005
	LexBadDirective             Code = 1006

	// Парсерные
	SynInfo             Code = 2000
	SynUnexpectedToken  Code = 2001
	SynUnclosedParen    Code = 2002
	SynUnclosedBrace    Code = 2003
	SynUnclosedBracket  Code = 2004
	SynExpectSemicolon  Code = 2005
	SynExpectExpression Code = 2006
	SynExpectType       Code = 2007
	SynExpectIdentifier Code = 2008
	SynExpectPattern    Code = 2009
	SynBadInterpolation Code = 2010
	SynBadDirectiveCond Code = 2011
	SynTooManyErrors    Code = 2099

	// Стиль
	StyInfo              Code = 3000
	StyUnnecessaryParens Code = 3001

	// IO
	IOLoadFileError Code = 4001
	IOCacheError    Code = 4002

	// Конфигурация
	CfgInvalidValue Code = 5001
)

var codeDescription = map[Code]string{
	UnknownCode:                 "Unknown error",
	LexInfo:                     "Lexical information",
	LexUnknownChar:              "Unknown character",
	LexUnterminatedString:       "Unterminated string literal",
	LexUnterminatedBlockComment: "Unterminated block comment",
	LexBadNumber:                "Invalid numeric literal",
	LexUnterminatedChar:         "Unterminated character literal",
	LexBadDirective:             "Malformed preprocessor directive",
	SynInfo:                     "Syntax information",
	SynUnexpectedToken:          "Unexpected token",
	SynUnclosedParen:            "Unclosed parenthesis",
	SynUnclosedBrace:            "Unclosed brace",
	SynUnclosedBracket:          "Unclosed bracket",
	SynExpectSemicolon:          "Expected semicolon",
	SynExpectExpression:         "Expected expression",
	SynExpectType:               "Expected type",
	SynExpectIdentifier:         "Expected identifier",
	SynExpectPattern:            "Expected pattern",
	SynBadInterpolation:         "Malformed interpolation hole",
	SynBadDirectiveCond:         "Malformed directive condition",
	SynTooManyErrors:            "Too many syntax errors",
	StyInfo:                     "Style information",
	StyUnnecessaryParens:        "Remove unnecessary parentheses",
	IOLoadFileError:             "Failed to load file",
	IOCacheError:                "Result cache failure",
	CfgInvalidValue:             "Invalid configuration value",
}

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("STY%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("IO%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("CFG%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[UnknownCode]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
