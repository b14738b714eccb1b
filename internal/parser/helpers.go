package parser

import (
	"slices"

	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// peek - текущий токен без потребления
func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

// peekAt - токен на n позиций вперёд; за концом потока всегда EOF.
func (p *Parser) peekAt(n int) token.Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[i]
}

// advance - съедает следующий токен и обновляет lastSpan
func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Kind != token.EOF {
		p.pos++
	}
	if tok.Kind != token.EOF && tok.Kind != token.Invalid {
		p.lastSpan = tok.Span
	}
	return tok
}

// eat съедает токен k, если он текущий.
func (p *Parser) eat(k token.Kind) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	return token.Token{}, false
}

// adjacent - между токенами n и n+1 нет ни пробелов, ни комментариев.
// Так различаем `x?[0]` и `c ? [0] : [1]`, `>>` и `> >`.
func (p *Parser) adjacent(n int) bool {
	a, b := p.peekAt(n), p.peekAt(n+1)
	return a.Span.End == b.Span.Start && len(b.Leading) == 0
}

// getDiagnosticSpan - возвращает лучший span для диагностики
// Если текущий токен EOF, используем позицию после lastSpan
func (p *Parser) getDiagnosticSpan() source.Span {
	peek := p.peek()
	if peek.Kind == token.EOF && p.lastSpan.End > 0 {
		return source.Span{
			File:  p.lastSpan.File,
			Start: p.lastSpan.End,
			End:   p.lastSpan.End,
		}
	}
	return peek.Span
}

// expect - ожидаем конкретный токен. Если нет - репортим и возвращаем (invalid,false).
func (p *Parser) expect(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevError, diagSpan, msg)
	return token.Token{Kind: token.Invalid, Span: diagSpan, Text: p.peek().Text}, false
}

// want - желаем увидеть токен, но кидаем warning, если нет
func (p *Parser) want(k token.Kind, code diag.Code, msg string) (token.Token, bool) {
	if p.at(k) {
		return p.advance(), true
	}
	diagSpan := p.getDiagnosticSpan()
	p.report(code, diag.SevWarning, diagSpan, msg)
	return p.peek(), false
}

// репортует ошибку и передает текущий спан
func (p *Parser) err(code diag.Code, msg string) bool {
	return p.report(code, diag.SevError, p.getDiagnosticSpan(), msg)
}

// репортует warning и передает текущий спан
func (p *Parser) warn(code diag.Code, msg string) bool {
	return p.report(code, diag.SevWarning, p.getDiagnosticSpan(), msg)
}

func (p *Parser) report(code diag.Code, sev diag.Severity, sp source.Span, msg string) bool {
	if p.quiet > 0 {
		// спекулятивный разбор: ошибка лишь бракует ветку
		if sev == diag.SevError {
			p.failed = true
		}
		return false
	}
	if sev == diag.SevError {
		p.opts.CurrentErrors++
	}
	if p.opts.Reporter == nil {
		return false // нет reporter - ничего не записали
	}
	if p.opts.Enough() {
		return false // достигли максимального количества ошибок
	}
	p.opts.Reporter.Report(code, sev, sp, msg, nil, nil)
	return true
}

// speculate пробует разобрать конструкцию. Ошибки внутри fn не репортятся;
// при неудаче позиция откатывается. Узлы, созданные в отвергнутой ветке,
// остаются в аренах, но ни на что не ссылаются.
func (p *Parser) speculate(fn func() bool) bool {
	pos, last, failed := p.pos, p.lastSpan, p.failed
	p.quiet++
	p.failed = false
	ok := fn() && !p.failed
	p.quiet--
	p.failed = failed
	if !ok {
		p.pos, p.lastSpan = pos, last
	}
	return ok
}

// resyncUntil прокручивает до одного из stop-токенов (не съедая его) или EOF,
// перескакивая вложенные скобки целиком.
func (p *Parser) resyncUntil(stop ...token.Kind) {
	for !p.at(token.EOF) {
		if slices.Contains(stop, p.peek().Kind) {
			return
		}
		switch p.peek().Kind {
		case token.LParen, token.LBrace, token.LBracket:
			p.skipBalanced()
		default:
			p.advance()
		}
	}
}

// skipBalanced съедает скобку и всё до парной ей.
func (p *Parser) skipBalanced() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

// matchingClose возвращает смещение (относительно pos) токена, закрывающего
// скобку на позиции n, или -1.
func (p *Parser) matchingClose(n int) int {
	depth := 0
	for i := p.pos + n; i < len(p.toks); i++ {
		switch p.toks[i].Kind {
		case token.LParen, token.LBrace, token.LBracket:
			depth++
		case token.RParen, token.RBrace, token.RBracket:
			depth--
			if depth == 0 {
				return i - p.pos
			}
		case token.EOF:
			return -1
		}
	}
	return -1
}

// closeDelim закрывает скобку open: незакрытая скобка - ошибка с отдельным кодом,
// чтобы анализ таких файлов не проводился.
func (p *Parser) closeDelim(k token.Kind) (token.Token, bool) {
	code, msg := diag.SynUnclosedParen, "expected ')'"
	switch k {
	case token.RBrace:
		code, msg = diag.SynUnclosedBrace, "expected '}'"
	case token.RBracket:
		code, msg = diag.SynUnclosedBracket, "expected ']'"
	}
	return p.expect(k, code, msg)
}

func (p *Parser) spanFrom(start source.Span) source.Span {
	return start.Cover(p.lastSpan)
}

// relexReporter reports the lexical errors of text the parser lexes itself:
// interpolation holes and directive conditions. Lexer errors are reported
// even while speculating, and a branch that is rolled back lexes the same
// text again, so repeats are dropped.
func (p *Parser) relexReporter() diag.Reporter {
	if p.opts.Reporter == nil {
		return nil
	}
	if p.relex == nil {
		p.relex = diag.NewDedupReporter(p.opts.Reporter)
	}
	return p.relex
}
