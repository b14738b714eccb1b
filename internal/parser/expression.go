package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// parseExpr - главная точка входа для парсинга выражений: лямбда, query,
// throw-выражение или присваивание поверх условного выражения.
// Возвращает ExprID и флаг успеха
func (p *Parser) parseExpr() (ast.ExprID, bool) {
	allowLambda := !p.noLambda
	p.noLambda = false

	switch {
	case allowLambda && p.lambdaAhead():
		return p.parseLambda()
	case p.queryAhead():
		return p.parseQuery()
	case p.at(token.KwThrow):
		return p.parseThrowExpr()
	}

	left, ok := p.parseConditional()
	if !ok {
		return ast.NoExprID, false
	}
	op, width, isAssign := p.assignOp()
	if !isAssign {
		return left, true
	}
	opSpan := p.consumeOp(width)
	var right ast.ExprID
	if p.at(token.LBrace) && p.inInitializer > 0 {
		// A = { ... } внутри инициализатора объекта
		right, ok = p.parseInitializer(p.initializerKind())
	} else {
		right, ok = p.parseExpr() // правоассоциативно
	}
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewBinary(p.cover(left, right), op, left, right, opSpan), true
}

// parseConditional - c ? a : b. Ветки разбираются как полные выражения:
// в них допустимы ref, throw и лямбды.
func (p *Parser) parseConditional() (ast.ExprID, bool) {
	cond, ok := p.parseBinary(precCoalesce)
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.Question) {
		return cond, true
	}
	q := p.advance()
	then, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	colon, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' in conditional expression")
	if !ok {
		return ast.NoExprID, false
	}
	els, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewConditional(p.cover(cond, els), ast.ExprConditionalData{
		Cond:     cond,
		Then:     then,
		Else:     els,
		Question: q.Span,
		Colon:    colon.Span,
	}), true
}

// parseBinary реализует Pratt parsing для бинарных операторов
// minPrec - минимальный приоритет для текущего уровня
func (p *Parser) parseBinary(minPrec int) (ast.ExprID, bool) {
	left, ok := p.parseSwitchExpr()
	if !ok {
		return ast.NoExprID, false
	}
	exprs := p.arenas.Exprs

	for {
		// is / as живут на уровне сравнений, но справа у них шаблон или тип
		if p.at(token.KwIs) && precRelational >= minPrec {
			p.advance()
			pat, ok := p.parsePattern()
			if !ok {
				return ast.NoExprID, false
			}
			left = exprs.NewIs(p.cover(left, pat), left, pat)
			continue
		}
		if p.at(token.KwAs) && precRelational >= minPrec {
			p.advance()
			typ, ok := p.parseType()
			if !ok {
				return ast.NoExprID, false
			}
			left = exprs.NewAs(p.spanFrom(p.exprSpan(left)), left, typ)
			continue
		}

		op, prec, width, isOp := p.binaryOp()
		if !isOp || prec < minPrec {
			break
		}
		opSpan := p.consumeOp(width)

		// Вычисляем приоритет для правой части
		next := prec + 1
		if op == ast.ExprBinaryCoalesce {
			next = prec
		}

		var right ast.ExprID
		if op == ast.ExprBinaryCoalesce && p.at(token.KwThrow) {
			right, ok = p.parseThrowExpr()
		} else {
			right, ok = p.parseBinary(next)
		}
		if !ok {
			return ast.NoExprID, false
		}
		left = exprs.NewBinary(p.cover(left, right), op, left, right, opSpan)
	}
	return left, true
}

// parseSwitchExpr - e switch { pattern when guard => value, ... }.
func (p *Parser) parseSwitchExpr() (ast.ExprID, bool) {
	left, ok := p.parseRange()
	if !ok {
		return ast.NoExprID, false
	}
	for p.at(token.KwSwitch) && p.peekAt(1).Kind == token.LBrace {
		p.advance()
		p.advance()
		var arms []ast.SwitchArm
		for !p.at_or(token.RBrace, token.EOF) {
			arm := ast.SwitchArm{When: ast.NoExprID}
			arm.Pattern, ok = p.parsePattern()
			if !ok {
				return ast.NoExprID, false
			}
			if p.atContextual("when") {
				p.advance()
				p.noLambda = true // `when x => y` - это не лямбда
				arm.When, ok = p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
			}
			if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' in switch arm"); !ok {
				return ast.NoExprID, false
			}
			arm.Value, ok = p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			arms = append(arms, arm)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.closeDelim(token.RBrace); !ok {
			return ast.NoExprID, false
		}
		left = p.arenas.Exprs.NewSwitch(p.spanFrom(p.exprSpan(left)), left, arms)
	}
	return left, true
}

// parseRange - a..b, ..b, a.., ..
func (p *Parser) parseRange() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	if p.at(token.DotDot) {
		op := p.advance()
		end := ast.NoExprID
		if startsExpression(p.peek()) {
			var ok bool
			if end, ok = p.parseUnary(); !ok {
				return ast.NoExprID, false
			}
		}
		return exprs.NewRange(p.spanFrom(op.Span), ast.NoExprID, end), true
	}
	left, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.DotDot) {
		return left, true
	}
	p.advance()
	end := ast.NoExprID
	if startsExpression(p.peek()) {
		if end, ok = p.parseUnary(); !ok {
			return ast.NoExprID, false
		}
	}
	return exprs.NewRange(p.spanFrom(p.exprSpan(left)), left, end), true
}

// parseUnary обрабатывает унарные операторы (префиксы), приведения, ref и await
func (p *Parser) parseUnary() (ast.ExprID, bool) {
	tok := p.peek()
	exprs := p.arenas.Exprs

	if op, ok := prefixOp(tok.Kind); ok {
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewUnary(ast.ExprUnary, p.spanFrom(tok.Span), op, operand, tok.Span), true
	}

	switch {
	case tok.Kind == token.KwRef:
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewUnary(ast.ExprRef, p.spanFrom(tok.Span), ast.ExprUnaryRef, operand, tok.Span), true

	case tok.IsContextual("await") && p.awaitAhead():
		p.advance()
		operand, ok := p.parseUnary()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewUnary(ast.ExprUnary, p.spanFrom(tok.Span), ast.ExprUnaryAwait, operand, tok.Span), true

	case tok.Kind == token.LParen && p.castAhead():
		return p.parseCast()
	}

	left, ok := p.parsePrimary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.parsePostfix(left)
}

func (p *Parser) awaitAhead() bool {
	next := p.peekAt(1)
	switch next.Kind {
	case token.Ident, token.LParen, token.KwThis, token.KwBase, token.KwNew, token.InterpStringLit:
		return true
	}
	return next.IsLiteral()
}

// castAhead решает, начинается ли с '(' приведение типа. Правило то же, что у
// компилятора C#: после `(T)` приведение, если T не может быть выражением и дальше
// идёт начало выражения, либо если за `)` стоит `~`, `!`, `(`, идентификатор,
// литерал или ключевое слово кроме as и is.
func (p *Parser) castAhead() bool {
	return p.lookahead(func() bool {
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return false
		}
		if _, ok := p.eat(token.RParen); !ok {
			return false
		}
		next := p.peek()
		if !p.typeIsExpressionLike(typ) {
			return startsExpression(next)
		}
		switch next.Kind {
		case token.Tilde, token.Bang, token.LParen, token.Ident:
			return true
		case token.KwAs, token.KwIs, token.KwSwitch, token.KwIn:
			return false
		}
		return next.IsLiteral() || next.IsKeyword()
	})
}

func (p *Parser) parseCast() (ast.ExprID, bool) {
	open := p.advance()
	typ, ok := p.parseType()
	if !ok {
		return ast.NoExprID, false
	}
	closeTok, ok := p.closeDelim(token.RParen)
	if !ok {
		return ast.NoExprID, false
	}
	operand, ok := p.parseUnary()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewCast(p.spanFrom(open.Span), ast.ExprCastData{
		Type:  typ,
		Value: operand,
		Open:  open.Span,
		Close: closeTok.Span,
	}), true
}

// lookahead пробует fn и всегда откатывает позицию.
func (p *Parser) lookahead(fn func() bool) bool {
	pos, last, failed := p.pos, p.lastSpan, p.failed
	p.quiet++
	p.failed = false
	ok := fn() && !p.failed
	p.quiet--
	p.failed = failed
	p.pos, p.lastSpan = pos, last
	return ok
}

// startsExpression - может ли tok начинать унарное выражение.
func startsExpression(tok token.Token) bool {
	if tok.IsLiteral() {
		return true
	}
	if _, ok := prefixOp(tok.Kind); ok {
		return true
	}
	switch tok.Kind {
	case token.Ident, token.LParen, token.LBracket, token.KwThis, token.KwBase, token.KwNew,
		token.KwDefault, token.KwTypeof, token.KwSizeof, token.KwChecked, token.KwUnchecked,
		token.KwStackalloc, token.KwRef, token.KwThrow, token.DotDot:
		return true
	}
	return token.IsPredefinedType(tok.Kind)
}

// consumeOp съедает оператор из width токенов и возвращает его span.
func (p *Parser) consumeOp(width int) source.Span {
	sp := p.advance().Span
	for i := 1; i < width; i++ {
		sp = sp.Cover(p.advance().Span)
	}
	return sp
}

func (p *Parser) exprSpan(id ast.ExprID) source.Span {
	if e := p.arenas.Exprs.Get(id); e != nil {
		return e.Span
	}
	return p.lastSpan
}

func (p *Parser) cover(a, b ast.ExprID) source.Span {
	return p.exprSpan(a).Cover(p.exprSpan(b))
}

func (p *Parser) parseThrowExpr() (ast.ExprID, bool) {
	tok := p.advance()
	operand, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewUnary(ast.ExprThrow, p.spanFrom(tok.Span), ast.ExprUnaryThrow, operand, tok.Span), true
}
