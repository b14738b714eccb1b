package lexer

import (
	"unparen/internal/diag"
	"unparen/internal/token"
)

// scanNumber handles 123, 1_000, 0x1F, 0b1010, 1.5, .5, 1e-3, 6.67e-11 and
// the suffixes u, l, ul, f, d, m (any case). A '.' belongs to the number only
// when a digit follows, so "1..2" lexes as 1, .., 2.
func (lx *Lexer) scanNumber() token.Token {
	start := lx.cursor.Mark()
	kind := token.IntLit

	digits := func(ok func(byte) bool) int {
		n := 0
		for ok(lx.cursor.Peek()) || (n > 0 && lx.cursor.Peek() == '_') {
			lx.cursor.Bump()
			n++
		}
		return n
	}

	if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '0' && (b1 == 'x' || b1 == 'X' || b1 == 'b' || b1 == 'B') {
		lx.cursor.Off += 2
		valid := isHex
		if b1 == 'b' || b1 == 'B' {
			valid = func(b byte) bool { return b == '0' || b == '1' }
		}
		if digits(valid) == 0 {
			tok := lx.emit(token.Invalid, start)
			lx.errLex(diag.LexBadNumber, tok.Span, "expected digits after base prefix")
			return tok
		}
		lx.scanIntSuffix()
		return lx.emit(kind, start)
	}

	digits(isDec)
	if lx.isNumberAfterDot() {
		kind = token.RealLit
		lx.cursor.Bump()
		digits(isDec)
	}
	if b := lx.cursor.Peek(); b == 'e' || b == 'E' {
		mark := lx.cursor.Mark()
		lx.cursor.Bump()
		if s := lx.cursor.Peek(); s == '+' || s == '-' {
			lx.cursor.Bump()
		}
		if digits(isDec) == 0 {
			lx.cursor.Reset(mark)
		} else {
			kind = token.RealLit
		}
	}
	switch lx.cursor.Peek() {
	case 'f', 'F', 'd', 'D', 'm', 'M':
		lx.cursor.Bump()
		kind = token.RealLit
	default:
		if kind == token.IntLit {
			lx.scanIntSuffix()
		}
	}
	if isIdentContinueByte(lx.cursor.Peek()) {
		for isIdentContinueByte(lx.cursor.Peek()) {
			lx.cursor.Bump()
		}
		tok := lx.emit(token.Invalid, start)
		lx.errLex(diag.LexBadNumber, tok.Span, "invalid numeric literal")
		return tok
	}
	return lx.emit(kind, start)
}

func (lx *Lexer) scanIntSuffix() {
	for range 2 {
		switch lx.cursor.Peek() {
		case 'u', 'U', 'l', 'L':
			lx.cursor.Bump()
		default:
			return
		}
	}
}
