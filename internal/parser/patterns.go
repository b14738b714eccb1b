package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// parsePattern - вход в грамматику шаблонов: or → and → not → первичный шаблон.
func (p *Parser) parsePattern() (ast.ExprID, bool) {
	left, ok := p.parseAndPattern()
	for ok && p.atContextual("or") {
		op := p.advance()
		var right ast.ExprID
		if right, ok = p.parseAndPattern(); ok {
			left = p.arenas.Exprs.NewBinary(p.cover(left, right), ast.ExprBinaryPatOr, left, right, op.Span)
		}
	}
	return left, ok
}

func (p *Parser) parseAndPattern() (ast.ExprID, bool) {
	left, ok := p.parseNotPattern()
	for ok && p.atContextual("and") {
		op := p.advance()
		var right ast.ExprID
		if right, ok = p.parseNotPattern(); ok {
			left = p.arenas.Exprs.NewBinary(p.cover(left, right), ast.ExprBinaryPatAnd, left, right, op.Span)
		}
	}
	return left, ok
}

func (p *Parser) parseNotPattern() (ast.ExprID, bool) {
	if !p.atContextual("not") {
		return p.parsePrimaryPattern()
	}
	op := p.advance()
	operand, ok := p.parseNotPattern()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(ast.PatNot, p.spanFrom(op.Span), ast.ExprUnaryPatNot, operand, op.Span), true
}

// isPatternWord - контекстные слова, которые не могут быть именем переменной
// сразу после шаблона.
func isPatternWord(tok token.Token) bool {
	return tok.IsContextual("and") || tok.IsContextual("or") || tok.IsContextual("not") || tok.IsContextual("when")
}

func (p *Parser) parsePrimaryPattern() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	tok := p.peek()

	if op, ok := relationalPatternOp(tok.Kind); ok {
		p.advance()
		value, ok := p.parseBinary(precShift)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewPattern(ast.PatRelational, p.spanFrom(tok.Span), ast.ExprPatternData{Op: op, Type: ast.NoTypeID, Value: value}), true
	}

	switch {
	case tok.Kind == token.LParen:
		if id, ok := p.tryParenPattern(); ok {
			return id, true
		}
		return p.parseConstantPattern()

	case tok.Kind == token.LBrace:
		return p.parseRecursivePattern(ast.NoTypeID, tok.Span)

	case tok.IsContextual("var") && p.at1(token.Ident, token.LParen):
		p.advance()
		name := source.NoStringID
		if p.at(token.Ident) {
			name = p.intern(p.advance())
		} else {
			p.skipBalanced() // var (a, b)
		}
		return exprs.NewPattern(ast.PatVar, p.spanFrom(tok.Span), ast.ExprPatternData{Type: ast.NoTypeID, Value: ast.NoExprID, Name: name}), true

	case tok.IsContextual("_") && !p.at1(token.Dot, token.LParen, token.LBracket):
		p.advance()
		return exprs.NewPattern(ast.PatDiscard, tok.Span, ast.ExprPatternData{Type: ast.NoTypeID, Value: ast.NoExprID}), true
	}

	// тип или константа: `Goo g`, `List<int>`, `int` - тип; `Goo`, `A.B` - константа
	pos, last := p.pos, p.lastSpan
	var typ ast.TypeID
	if p.speculate(func() bool {
		t, ok := p.parseType()
		typ = t
		return ok
	}) {
		next := p.peek()
		switch {
		case next.Kind == token.LParen || next.Kind == token.LBrace:
			return p.parseRecursivePattern(typ, tok.Span)
		case next.Kind == token.Ident && !isPatternWord(next):
			p.advance()
			return exprs.NewPattern(ast.PatDeclaration, p.spanFrom(tok.Span), ast.ExprPatternData{
				Type:  typ,
				Value: ast.NoExprID,
				Name:  p.intern(next),
			}), true
		case !p.typeIsExpressionLike(typ) && next.Kind != token.Dot:
			return exprs.NewPattern(ast.PatType, p.spanFrom(tok.Span), ast.ExprPatternData{Type: typ, Value: ast.NoExprID}), true
		}
		p.pos, p.lastSpan = pos, last
	}
	return p.parseConstantPattern()
}

// parseConstantPattern - выражение на уровне сдвигов: `is 1`, `is A.B`, `is (true == true)`.
func (p *Parser) parseConstantPattern() (ast.ExprID, bool) {
	start := p.peek().Span
	value, ok := p.parseBinary(precShift)
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewPattern(ast.PatConstant, p.spanFrom(start), ast.ExprPatternData{Type: ast.NoTypeID, Value: value}), true
}

// tryParenPattern пробует `(pattern)` и позиционный `(p1, p2)`. Если за
// скобками выражение продолжается (`(1) + 2`), это константа, а не шаблон.
func (p *Parser) tryParenPattern() (ast.ExprID, bool) {
	var id ast.ExprID
	ok := p.speculate(func() bool {
		open := p.advance()
		first, ok := p.parseSubpattern()
		if !ok {
			return false
		}
		if p.at(token.Comma) {
			subs := []ast.Subpattern{first}
			for {
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
				sp, ok := p.parseSubpattern()
				if !ok {
					return false
				}
				subs = append(subs, sp)
			}
			if _, ok := p.eat(token.RParen); !ok {
				return false
			}
			data := ast.ExprRecursivePatternData{Type: ast.NoTypeID, Positional: subs, HasParens: true}
			if !p.parseRecursiveTail(&data) {
				return false
			}
			id = p.arenas.Exprs.NewRecursivePattern(p.spanFrom(open.Span), data)
			return true
		}
		closeTok, ok := p.eat(token.RParen)
		if !ok || first.Member.IsValid() {
			return false
		}
		if p.expressionContinues() {
			return false
		}
		id = p.arenas.Exprs.NewGroup(p.spanFrom(open.Span), first.Pattern, open.Span, closeTok.Span)
		return true
	})
	return id, ok
}

// expressionContinues - после `)` идёт продолжение выражения уровня сдвига или выше.
func (p *Parser) expressionContinues() bool {
	if _, prec, _, ok := p.binaryOp(); ok && prec >= precShift {
		return true
	}
	switch p.peek().Kind {
	case token.Dot, token.LBracket, token.LParen, token.PlusPlus, token.MinusMinus, token.QuestionDot, token.Arrow:
		return true
	}
	return false
}

// parseSubpattern - `Name: pattern` или просто pattern.
func (p *Parser) parseSubpattern() (ast.Subpattern, bool) {
	sp := ast.Subpattern{Member: ast.NoExprID}
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
		tok := p.advance()
		p.advance()
		sp.Member = p.arenas.Exprs.NewIdent(tok.Span, p.intern(tok), nil)
	}
	pat, ok := p.parsePattern()
	sp.Pattern = pat
	return sp, ok
}

// parseRecursivePattern - T (a, b) { P: p, Q.R: q } x; текущий токен - '(' или '{'.
func (p *Parser) parseRecursivePattern(typ ast.TypeID, start source.Span) (ast.ExprID, bool) {
	data := ast.ExprRecursivePatternData{Type: typ}
	if p.at(token.LParen) {
		p.advance()
		for !p.at_or(token.RParen, token.EOF) {
			sp, ok := p.parseSubpattern()
			if !ok {
				return ast.NoExprID, false
			}
			data.Positional = append(data.Positional, sp)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.closeDelim(token.RParen); !ok {
			return ast.NoExprID, false
		}
		data.HasParens = true
	}
	if !p.parseRecursiveTail(&data) {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewRecursivePattern(p.spanFrom(start), data), true
}

// parseRecursiveTail - необязательные `{ ... }` и имя после них.
func (p *Parser) parseRecursiveTail(data *ast.ExprRecursivePatternData) bool {
	exprs := p.arenas.Exprs
	if p.at(token.LBrace) {
		p.advance()
		for !p.at_or(token.RBrace, token.EOF) {
			tok := p.peek()
			name, _, ok := p.parseIdent()
			if !ok {
				return false
			}
			member := exprs.NewIdent(tok.Span, name, nil)
			for p.at(token.Dot) {
				p.advance()
				sub, _, ok := p.parseIdent()
				if !ok {
					return false
				}
				member = exprs.NewMember(p.spanFrom(tok.Span), ast.ExprMemberData{Target: member, Name: sub, Op: token.Dot})
			}
			if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in property pattern"); !ok {
				return false
			}
			pat, ok := p.parsePattern()
			if !ok {
				return false
			}
			data.Properties = append(data.Properties, ast.Subpattern{Member: member, Pattern: pat})
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.closeDelim(token.RBrace); !ok {
			return false
		}
		data.HasBraces = true
	}
	if p.at(token.Ident) && !isPatternWord(p.peek()) {
		data.Name = p.intern(p.advance())
	}
	return true
}
