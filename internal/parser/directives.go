package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/token"
)

// parseDirectives проходит по trivia всех токенов и разбирает условия #if и #elif.
// Директивы не участвуют в основной грамматике, поэтому разбираются отдельно,
// после основного прохода.
func (p *Parser) parseDirectives() {
	for _, tok := range p.toks {
		for _, tv := range tok.Leading {
			if tv.Kind != token.TriviaDirective || tv.Directive == nil {
				continue
			}
			name := tv.Directive.Name
			if name != "if" && name != "elif" {
				continue
			}
			p.parseDirectiveCond(name, tv)
		}
	}
}

func (p *Parser) parseDirectiveCond(name string, tv token.Trivia) {
	cond := tv.Directive.Cond
	if cond.Empty() {
		p.report(diag.SynBadDirectiveCond, diag.SevError, tv.Span, "#"+name+" requires a condition")
		return
	}
	toks := lexer.NewRange(p.src, cond, lexer.Options{Reporter: p.relexReporter()}).All()
	p.withTokens(toks, func() {
		id, ok := p.parseDirectiveOr()
		if ok && !p.at(token.EOF) {
			p.report(diag.SynBadDirectiveCond, diag.SevError, p.peek().Span, "unexpected "+p.describe(p.peek())+" in #"+name+" condition")
			return
		}
		if ok {
			p.arenas.PushDirective(p.file, ast.DirectiveCond{Name: name, Expr: id, Span: tv.Span})
		}
	})
}

// Грамматика условий: || → && → == != → ! → имя, true, false, ( ... ).

func (p *Parser) parseDirectiveOr() (ast.ExprID, bool) {
	left, ok := p.parseDirectiveAnd()
	for ok && p.at(token.OrOr) {
		op := p.advance()
		var right ast.ExprID
		if right, ok = p.parseDirectiveAnd(); ok {
			left = p.arenas.Exprs.NewBinary(p.cover(left, right), ast.ExprBinaryLogicalOr, left, right, op.Span)
		}
	}
	return left, ok
}

func (p *Parser) parseDirectiveAnd() (ast.ExprID, bool) {
	left, ok := p.parseDirectiveEq()
	for ok && p.at(token.AndAnd) {
		op := p.advance()
		var right ast.ExprID
		if right, ok = p.parseDirectiveEq(); ok {
			left = p.arenas.Exprs.NewBinary(p.cover(left, right), ast.ExprBinaryLogicalAnd, left, right, op.Span)
		}
	}
	return left, ok
}

func (p *Parser) parseDirectiveEq() (ast.ExprID, bool) {
	left, ok := p.parseDirectiveUnary()
	for ok && p.at_or(token.EqEq, token.BangEq) {
		op := p.advance()
		bop := ast.ExprBinaryEq
		if op.Kind == token.BangEq {
			bop = ast.ExprBinaryNotEq
		}
		var right ast.ExprID
		if right, ok = p.parseDirectiveUnary(); ok {
			left = p.arenas.Exprs.NewBinary(p.cover(left, right), bop, left, right, op.Span)
		}
	}
	return left, ok
}

func (p *Parser) parseDirectiveUnary() (ast.ExprID, bool) {
	if !p.at(token.Bang) {
		return p.parseDirectivePrimary()
	}
	op := p.advance()
	operand, ok := p.parseDirectiveUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(ast.ExprUnary, p.spanFrom(op.Span), ast.ExprUnaryNot, operand, op.Span), true
}

func (p *Parser) parseDirectivePrimary() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.peek()
	switch tok.Kind {
	case token.Ident:
		p.advance()
		return exprs.NewIdent(tok.Span, p.intern(tok), nil), true
	case token.KwTrue:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitTrue, p.arenas.Strings.Intern(tok.Text)), true
	case token.KwFalse:
		p.advance()
		return exprs.NewLiteral(tok.Span, ast.ExprLitFalse, p.arenas.Strings.Intern(tok.Text)), true
	case token.LParen:
		open := p.advance()
		inner, ok := p.parseDirectiveOr()
		if !ok {
			return ast.NoExprID, false
		}
		closeTok, ok := p.eat(token.RParen)
		if !ok {
			p.report(diag.SynBadDirectiveCond, diag.SevError, p.getDiagnosticSpan(), "expected ')' in directive condition")
			return ast.NoExprID, false
		}
		return exprs.NewGroup(p.spanFrom(open.Span), inner, open.Span, closeTok.Span), true
	}
	p.report(diag.SynBadDirectiveCond, diag.SevError, p.getDiagnosticSpan(), "unexpected "+p.describe(tok)+" in directive condition")
	return ast.NoExprID, false
}
