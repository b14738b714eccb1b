package lexer

import (
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// collectLeadingTrivia собирает подряд идущие trivia перед значимым токеном.
//   - ' ' и '\t' коалесцируются в один TriviaSpace
//   - последовательные '\n' коалесцируются в один TriviaNewline
//   - //... до \n -> TriviaLineComment
//   - /* ... */ -> TriviaBlockComment
//   - '#' в начале строки -> TriviaDirective до конца строки
func (lx *Lexer) collectLeadingTrivia() {
	lx.hold = lx.hold[:0:0]
	for !lx.cursor.EOF() {
		start := lx.cursor.Mark()
		b := lx.cursor.Peek()

		switch {
		case b == ' ' || b == '\t' || b == '\r':
			for b2 := lx.cursor.Peek(); b2 == ' ' || b2 == '\t' || b2 == '\r'; b2 = lx.cursor.Peek() {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaSpace, start)
			continue
		case b == '\n':
			for lx.cursor.Peek() == '\n' {
				lx.cursor.Bump()
			}
			lx.pushTrivia(token.TriviaNewline, start)
			continue
		case b == '/':
			if lx.scanCommentIntoHold() {
				continue
			}
		case b == '#' && !lx.inRange && lx.cursor.AtLineStart():
			lx.scanDirectiveIntoHold()
			continue
		}
		break
	}
}

func (lx *Lexer) pushTrivia(kind token.TriviaKind, start Mark) *token.Trivia {
	sp := lx.cursor.SpanFrom(start)
	lx.hold = append(lx.hold, token.Trivia{
		Kind: kind,
		Span: sp,
		Text: string(lx.file.Content[sp.Start:sp.End]),
	})
	return &lx.hold[len(lx.hold)-1]
}

// //... и /*...*/
func (lx *Lexer) scanCommentIntoHold() bool {
	start := lx.cursor.Mark()
	b0, b1, ok := lx.cursor.Peek2()
	if !ok || b0 != '/' {
		return false
	}
	switch b1 {
	case '/':
		for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
			lx.cursor.Bump()
		}
		lx.pushTrivia(token.TriviaLineComment, start)
		return true
	case '*':
		lx.cursor.Off += 2
		closed := false
		for !lx.cursor.EOF() {
			if lx.try2('*', '/') {
				closed = true
				break
			}
			lx.cursor.Bump()
		}
		tv := lx.pushTrivia(token.TriviaBlockComment, start)
		if !closed {
			lx.errLex(diag.LexUnterminatedBlockComment, tv.Span, "unterminated block comment")
		}
		return true
	}
	return false
}

// scanDirectiveIntoHold consumes "#name cond" up to the end of the line.
// Cond excludes trailing whitespace and a trailing // comment.
func (lx *Lexer) scanDirectiveIntoHold() {
	start := lx.cursor.Mark()
	lx.cursor.Bump() // '#'
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	nameStart := lx.cursor.Off
	for isIdentContinueByte(lx.cursor.Peek()) {
		lx.cursor.Bump()
	}
	name := string(lx.file.Content[nameStart:lx.cursor.Off])
	for b := lx.cursor.Peek(); b == ' ' || b == '\t'; b = lx.cursor.Peek() {
		lx.cursor.Bump()
	}
	condStart := lx.cursor.Off
	condEnd := condStart
	for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
		if b0, b1, ok := lx.cursor.Peek2(); ok && b0 == '/' && b1 == '/' {
			for !lx.cursor.EOF() && lx.cursor.Peek() != '\n' {
				lx.cursor.Bump()
			}
			break
		}
		b := lx.cursor.Bump()
		if b != ' ' && b != '\t' && b != '\r' {
			condEnd = lx.cursor.Off
		}
	}
	tv := lx.pushTrivia(token.TriviaDirective, start)
	tv.Directive = &token.Directive{
		Name: name,
		Cond: source.Span{File: lx.file.ID, Start: condStart, End: condEnd},
	}
	if name == "" {
		lx.errLex(diag.LexBadDirective, tv.Span, "expected directive name after '#'")
	}
}
