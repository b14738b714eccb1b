package lexer

import (
	"unparen/internal/source"
	"unparen/internal/token"
)

type Lexer struct {
	file   *source.File
	cursor Cursor
	opts   Options
	look   *token.Token   // 1 элементный буфер для токена
	hold   []token.Trivia // накопленные leading trivia

	// inRange lexers never see directive lines.
	inRange bool
}

// New lexes the whole file.
func New(file *source.File, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewCursor(file), opts: opts}
}

// NewRange lexes only span. It is used for interpolation holes and
// directive conditions, whose tokens keep file-absolute spans.
func NewRange(file *source.File, span source.Span, opts Options) *Lexer {
	return &Lexer{file: file, cursor: NewRangeCursor(file, span), opts: opts, inRange: true}
}

// Next возвращает следующий значимый токен с уже собранным Leading.
// После EOF всегда возвращает EOF.
func (lx *Lexer) Next() token.Token {
	if lx.look != nil {
		tok := *lx.look
		lx.look = nil
		return tok
	}

	lx.collectLeadingTrivia()

	if lx.cursor.EOF() {
		tok := token.Token{Kind: token.EOF, Span: lx.emptySpan()}
		tok.Leading = lx.hold
		lx.hold = nil
		return tok
	}

	ch := lx.cursor.Peek()
	var tok token.Token

	switch {
	case ch == '@' || ch == '$':
		tok = lx.scanPrefixed()
	case isIdentStartByte(ch), ch >= utf8RuneSelf:
		tok = lx.scanIdentOrKeyword()
	case isDec(ch):
		tok = lx.scanNumber()
	case ch == '.' && lx.isNumberAfterDot():
		tok = lx.scanNumber()
	case ch == '"':
		tok = lx.scanString()
	case ch == '\'':
		tok = lx.scanChar()
	default:
		tok = lx.scanOperatorOrPunct()
	}

	tok.Leading = lx.hold
	lx.hold = nil
	return tok
}

// Peek возвращает следующий токен, не потребляя его.
func (lx *Lexer) Peek() token.Token {
	if lx.look != nil {
		return *lx.look
	}
	t := lx.Next()
	lx.look = &t
	return t
}

// All drains the lexer. The last element is always EOF.
func (lx *Lexer) All() []token.Token {
	var out []token.Token
	for {
		tok := lx.Next()
		out = append(out, tok)
		if tok.Kind == token.EOF {
			return out
		}
	}
}

func (lx *Lexer) emptySpan() source.Span {
	return source.Span{File: lx.file.ID, Start: lx.cursor.Off, End: lx.cursor.Off}
}

func (lx *Lexer) emit(k token.Kind, start Mark) token.Token {
	sp := lx.cursor.SpanFrom(start)
	return token.Token{Kind: k, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}

// scanPrefixed handles '@' and '$' prefixes: verbatim identifiers (@class),
// verbatim strings (@"..."), interpolated strings ($"...", $@"...", @$"...").
func (lx *Lexer) scanPrefixed() token.Token {
	b0, b1, _ := lx.cursor.Peek2()
	b2 := lx.cursor.PeekAt(2)
	switch {
	case b0 == '@' && b1 == '"':
		return lx.scanVerbatimString()
	case b0 == '$' && b1 == '"',
		b0 == '$' && b1 == '@' && b2 == '"',
		b0 == '@' && b1 == '$' && b2 == '"':
		return lx.scanInterpolated()
	case b0 == '@' && (isIdentStartByte(b1) || b1 >= utf8RuneSelf):
		start := lx.cursor.Mark()
		lx.cursor.Bump()
		tok := lx.scanIdentOrKeyword()
		// @class - всегда идентификатор
		tok.Kind = token.Ident
		tok.Span = lx.cursor.SpanFrom(start)
		tok.Text = string(lx.file.Content[tok.Span.Start:tok.Span.End])
		return tok
	}
	start := lx.cursor.Mark()
	lx.cursor.Bump()
	sp := lx.cursor.SpanFrom(start)
	lx.errLex(diagUnknownChar, sp, "unknown character")
	return token.Token{Kind: token.Invalid, Span: sp, Text: string(lx.file.Content[sp.Start:sp.End])}
}
