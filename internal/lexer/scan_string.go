package lexer

import (
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// scanString scans a regular "..." literal with backslash escapes.
func (lx *Lexer) scanString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '"'
	if lx.skipRegularBody('"') {
		return lx.emit(token.StringLit, start)
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated string literal")
}

// scanVerbatimString scans @"...", where "" is the only escape.
func (lx *Lexer) scanVerbatimString() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Off += 2 // @"
	if lx.skipVerbatimBody() {
		return lx.emit(token.StringLit, start)
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated verbatim string literal")
}

// scanChar scans 'x' and '\n' style literals.
func (lx *Lexer) scanChar() token.Token {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // opening '\''
	if lx.skipRegularBody('\'') {
		return lx.emit(token.CharLit, start)
	}
	return lx.unterminated(start, diag.LexUnterminatedChar, "unterminated character literal")
}

func (lx *Lexer) unterminated(start Mark, code diag.Code, msg string) token.Token {
	tok := lx.emit(token.Invalid, start)
	lx.errLex(code, tok.Span, msg)
	return tok
}

// skipRegularBody consumes up to and including the closing quote.
// Newlines terminate the literal with an error.
func (lx *Lexer) skipRegularBody(quote byte) bool {
	for !lx.cursor.EOF() {
		switch b := lx.cursor.Peek(); b {
		case quote:
			lx.cursor.Bump()
			return true
		case '\\':
			lx.cursor.Bump()
			if lx.cursor.EOF() {
				return false
			}
			lx.cursor.Bump()
		case '\n':
			return false
		default:
			lx.cursor.Bump()
		}
	}
	return false
}

func (lx *Lexer) skipVerbatimBody() bool {
	for !lx.cursor.EOF() {
		if lx.cursor.Bump() != '"' {
			continue
		}
		if lx.cursor.Peek() == '"' {
			lx.cursor.Bump()
			continue
		}
		return true
	}
	return false
}

// scanInterpolated scans $"...", $@"..." and @$"..." as a single token and
// records the expression span of every hole. A hole expression stops at the
// first top-level ',' (alignment), ':' (format) or '}'.
func (lx *Lexer) scanInterpolated() token.Token {
	start := lx.cursor.Mark()
	verbatim := false
	for lx.cursor.Peek() != '"' {
		if lx.cursor.Bump() == '@' {
			verbatim = true
		}
	}
	lx.cursor.Bump() // opening '"'

	var holes []source.Span
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		switch {
		case b == '"':
			lx.cursor.Bump()
			if verbatim && lx.cursor.Peek() == '"' {
				lx.cursor.Bump()
				continue
			}
			tok := lx.emit(token.InterpStringLit, start)
			tok.Holes = holes
			return tok
		case b == '\\' && !verbatim:
			lx.cursor.Off += 2
		case b == '\n' && !verbatim:
			return lx.unterminated(start, diag.LexUnterminatedString, "newline in interpolated string")
		case b == '{' && lx.cursor.PeekAt(1) == '{', b == '}' && lx.cursor.PeekAt(1) == '}':
			lx.cursor.Off += 2
		case b == '{':
			lx.cursor.Bump()
			hole, ok := lx.scanHole()
			if !ok {
				return lx.unterminated(start, diag.LexUnterminatedString, "unterminated interpolation hole")
			}
			holes = append(holes, hole)
		default:
			lx.cursor.Bump()
		}
	}
	return lx.unterminated(start, diag.LexUnterminatedString, "unterminated interpolated string")
}

// scanHole consumes a hole body including its closing '}' and returns the
// span of the expression part.
func (lx *Lexer) scanHole() (source.Span, bool) {
	exprStart := lx.cursor.Mark()
	depth := 0
	exprEnd := -1
	for !lx.cursor.EOF() {
		b := lx.cursor.Peek()
		if exprEnd >= 0 {
			// alignment/format text: до закрывающей скобки
			if b == '}' {
				sp := source.Span{File: lx.file.ID, Start: uint32(exprStart), End: uint32(exprEnd)}
				lx.cursor.Bump()
				return sp, true
			}
			lx.cursor.Bump()
			continue
		}
		switch b {
		case '(', '[', '{':
			depth++
			lx.cursor.Bump()
		case ')', ']':
			depth--
			lx.cursor.Bump()
		case '}':
			if depth == 0 {
				sp := lx.cursor.SpanFrom(exprStart)
				lx.cursor.Bump()
				return sp, true
			}
			depth--
			lx.cursor.Bump()
		case ',', ':':
			if depth == 0 {
				exprEnd = int(lx.cursor.Off)
			}
			lx.cursor.Bump()
		case '"':
			lx.cursor.Bump()
			if !lx.skipRegularBody('"') {
				return source.Span{}, false
			}
		case '\'':
			lx.cursor.Bump()
			if !lx.skipRegularBody('\'') {
				return source.Span{}, false
			}
		default:
			lx.cursor.Bump()
		}
	}
	return source.Span{}, false
}
