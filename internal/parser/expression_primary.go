package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/source"
	"unparen/internal/token"
)

// parsePrimary разбирает первичное выражение без постфиксов.
func (p *Parser) parsePrimary() (ast.ExprID, bool) {
	tok := p.peek()
	exprs := p.arenas.Exprs

	if kind, ok := literalKind(tok.Kind); ok {
		p.advance()
		return exprs.NewLiteral(tok.Span, kind, p.intern(tok)), true
	}

	switch tok.Kind {
	case token.InterpStringLit:
		return p.parseInterpolated()

	case token.Ident:
		p.advance()
		args := p.tryGenericArgs()
		return exprs.NewIdent(p.spanFrom(tok.Span), p.intern(tok), args), true

	case token.KwThis, token.KwBase:
		p.advance()
		return exprs.NewThis(tok.Span), true

	case token.KwNew:
		return p.parseNew()

	case token.KwStackalloc:
		return p.parseStackalloc()

	case token.KwDefault:
		p.advance()
		if !p.at(token.LParen) {
			return exprs.NewTypeOp(ast.ExprDefault, tok.Span, ast.NoTypeID), true
		}
		typ, ok := p.parseParenType()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewTypeOp(ast.ExprDefault, p.spanFrom(tok.Span), typ), true

	case token.KwTypeof, token.KwSizeof:
		p.advance()
		typ, ok := p.parseParenType()
		if !ok {
			return ast.NoExprID, false
		}
		kind := ast.ExprTypeof
		if tok.Kind == token.KwSizeof {
			kind = ast.ExprSizeof
		}
		return exprs.NewTypeOp(kind, p.spanFrom(tok.Span), typ), true

	case token.KwChecked, token.KwUnchecked:
		p.advance()
		if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '(' after "+tok.Text); !ok {
			return ast.NoExprID, false
		}
		inner, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		if _, ok := p.closeDelim(token.RParen); !ok {
			return ast.NoExprID, false
		}
		return exprs.NewChecked(p.spanFrom(tok.Span), tok.Kind == token.KwChecked, inner), true

	case token.LParen:
		return p.parseParenOrTuple()

	case token.LBracket:
		return p.parseCollection()
	}

	if token.IsPredefinedType(tok.Kind) {
		// int.MaxValue, string.Empty
		p.advance()
		typ := p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprPredefined, Span: tok.Span, Keyword: tok.Kind})
		return exprs.NewTypeOp(ast.ExprPredefined, tok.Span, typ), true
	}

	p.err(diag.SynExpectExpression, "expected expression, got "+p.describe(tok))
	return ast.NoExprID, false
}

// parseParenType - `(T)` после default, typeof и sizeof.
func (p *Parser) parseParenType() (ast.TypeID, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return ast.NoTypeID, false
	}
	typ, ok := p.parseType()
	if !ok {
		return ast.NoTypeID, false
	}
	if _, ok := p.closeDelim(token.RParen); !ok {
		return ast.NoTypeID, false
	}
	return typ, true
}

// parsePostfix обрабатывает цепочку постфиксов: .x, ->x, (args), [args], ++, --, !
// и условный доступ ?. / ?[.
func (p *Parser) parsePostfix(left ast.ExprID) (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	for {
		tok := p.peek()
		switch {
		case tok.Kind == token.Dot || tok.Kind == token.Arrow:
			p.advance()
			name, _, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			args := p.tryGenericArgs()
			left = exprs.NewMember(p.spanFrom(p.exprSpan(left)), ast.ExprMemberData{
				Target:   left,
				Name:     name,
				Op:       tok.Kind,
				TypeArgs: args,
			})

		case tok.Kind == token.LParen || tok.Kind == token.LBracket:
			kind, closeKind := ast.ExprCall, token.RParen
			if tok.Kind == token.LBracket {
				kind, closeKind = ast.ExprIndex, token.RBracket
			}
			args, open, closeTok, ok := p.parseArgList(closeKind)
			if !ok {
				return ast.NoExprID, false
			}
			left = exprs.NewCall(kind, p.spanFrom(p.exprSpan(left)), ast.ExprCallData{
				Target: left,
				Args:   args,
				Open:   open,
				Close:  closeTok,
			})

		case tok.Kind == token.PlusPlus || tok.Kind == token.MinusMinus:
			p.advance()
			op := ast.ExprUnaryPostInc
			if tok.Kind == token.MinusMinus {
				op = ast.ExprUnaryPostDec
			}
			left = exprs.NewUnary(ast.ExprPostfix, p.spanFrom(p.exprSpan(left)), op, left, tok.Span)

		case tok.Kind == token.Bang:
			// x! - подавление nullable-предупреждения
			p.advance()
			left = exprs.NewUnary(ast.ExprPostfix, p.spanFrom(p.exprSpan(left)), ast.ExprUnarySuppress, left, tok.Span)

		case tok.Kind == token.QuestionDot,
			tok.Kind == token.Question && p.adjacent(0) && p.peekAt(1).Kind == token.LBracket:
			chain, ok := p.parseWhenNotNull()
			if !ok {
				return ast.NoExprID, false
			}
			// цепочка справа съела все постфиксы
			return exprs.NewCondAccess(p.cover(left, chain), left, chain), true

		default:
			return left, true
		}
	}
}

// parseWhenNotNull разбирает правую часть условного доступа: привязку
// (.x или [i]) и все постфиксы за ней.
func (p *Parser) parseWhenNotNull() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	var binding ast.ExprID
	if p.at(token.QuestionDot) {
		// привязка начинается с точки, ? принадлежит условному доступу
		start := p.advance().Span
		start.Start++
		name, _, ok := p.parseIdent()
		if !ok {
			return ast.NoExprID, false
		}
		args := p.tryGenericArgs()
		binding = exprs.NewMember(p.spanFrom(start), ast.ExprMemberData{
			Target:   ast.NoExprID,
			Name:     name,
			Op:       token.Dot,
			TypeArgs: args,
		})
	} else {
		p.advance() // ?
		start := p.peek().Span
		args, open, closeTok, ok := p.parseArgList(token.RBracket)
		if !ok {
			return ast.NoExprID, false
		}
		binding = exprs.NewCall(ast.ExprElementBinding, p.spanFrom(start), ast.ExprCallData{
			Target: ast.NoExprID,
			Args:   args,
			Open:   open,
			Close:  closeTok,
		})
	}
	return p.parsePostfix(binding)
}

// parseArgList разбирает `(a, ref b, name: c)` или `[i, j]`; текущий токен - открывающая скобка.
func (p *Parser) parseArgList(closeKind token.Kind) (args []ast.Arg, open, closeSpan source.Span, ok bool) {
	open = p.advance().Span
	for !p.at_or(closeKind, token.EOF) {
		arg, ok := p.parseArgument()
		if !ok {
			return nil, open, open, false
		}
		args = append(args, arg)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.closeDelim(closeKind)
	if !ok {
		return nil, open, open, false
	}
	return args, open, closeTok.Span, true
}

func (p *Parser) parseArgument() (ast.Arg, bool) {
	arg := ast.Arg{Name: source.NoStringID, Modifier: token.Invalid}
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
		arg.Name = p.intern(p.advance())
		p.advance()
	}
	if p.at_or(token.KwRef, token.KwOut, token.KwIn) {
		arg.Modifier = p.advance().Kind
		if decl, ok := p.tryDeclarationExpr(); ok {
			arg.Value = decl
			return arg, true
		}
	}
	value, ok := p.parseExpr()
	if !ok {
		return arg, false
	}
	arg.Value = value
	return arg, true
}

// tryDeclarationExpr - `out var x` и `out int x` в аргументах.
func (p *Parser) tryDeclarationExpr() (ast.ExprID, bool) {
	start := p.peek().Span
	var (
		typ  ast.TypeID
		name token.Token
	)
	ok := p.speculate(func() bool {
		if p.atContextual("var") && p.peekAt(1).Kind == token.Ident {
			p.advance()
			typ = ast.NoTypeID
		} else {
			t, ok := p.parseType()
			if !ok {
				return false
			}
			typ = t
		}
		tok, ok := p.eat(token.Ident)
		if !ok || !p.at_or(token.Comma, token.RParen) {
			return false
		}
		name = tok
		return true
	})
	if !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewDeclaration(p.spanFrom(start), typ, p.intern(name)), true
}

// tryGenericArgs пробует `<T, U>` после имени в выражении. Аргументы
// принимаются, только если за `>` стоит токен из списка C#: иначе это сравнение.
func (p *Parser) tryGenericArgs() []ast.TypeID {
	if !p.at(token.Lt) {
		return nil
	}
	var args []ast.TypeID
	p.speculate(func() bool {
		list, ok := p.parseTypeArgs()
		if !ok || !genericFollows(p.peek().Kind) {
			return false
		}
		args = list
		return true
	})
	return args
}

func genericFollows(k token.Kind) bool {
	switch k {
	case token.LParen, token.RParen, token.RBracket, token.RBrace, token.Colon, token.Semicolon,
		token.Comma, token.Dot, token.Question, token.QuestionDot, token.EqEq, token.BangEq,
		token.Pipe, token.Caret, token.AndAnd, token.OrOr, token.Amp, token.LBracket, token.EOF:
		return true
	}
	return false
}

// parseParenOrTuple - `(e)` или кортеж `(a, b: c)`.
func (p *Parser) parseParenOrTuple() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	open := p.advance()
	first, ok := p.parseTupleElement()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.Comma) {
		elems := []ast.Arg{first}
		for {
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
			el, ok := p.parseTupleElement()
			if !ok {
				return ast.NoExprID, false
			}
			elems = append(elems, el)
		}
		if _, ok := p.closeDelim(token.RParen); !ok {
			return ast.NoExprID, false
		}
		return exprs.NewTuple(p.spanFrom(open.Span), elems), true
	}
	closeTok, ok := p.closeDelim(token.RParen)
	if !ok {
		return ast.NoExprID, false
	}
	if first.Name != source.NoStringID {
		p.report(diag.SynUnexpectedToken, diag.SevError, p.spanFrom(open.Span), "tuple must contain at least two elements")
		return ast.NoExprID, false
	}
	return exprs.NewGroup(p.spanFrom(open.Span), first.Value, open.Span, closeTok.Span), true
}

func (p *Parser) parseTupleElement() (ast.Arg, bool) {
	arg := ast.Arg{Name: source.NoStringID, Modifier: token.Invalid}
	if p.at(token.Ident) && p.peekAt(1).Kind == token.Colon {
		arg.Name = p.intern(p.advance())
		p.advance()
	}
	value, ok := p.parseExpr()
	arg.Value = value
	return arg, ok
}

// parseCollection - коллекционное выражение `[a, ..b]`.
func (p *Parser) parseCollection() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	open := p.advance()
	var elems []ast.ExprID
	for !p.at_or(token.RBracket, token.EOF) {
		var (
			el ast.ExprID
			ok bool
		)
		if p.at(token.DotDot) {
			op := p.advance()
			inner, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			el = exprs.NewUnary(ast.ExprSpread, p.spanFrom(op.Span), ast.ExprUnarySpread, inner, op.Span)
		} else if el, ok = p.parseExpr(); !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, el)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	closeTok, ok := p.closeDelim(token.RBracket)
	if !ok {
		return ast.NoExprID, false
	}
	return exprs.NewCollection(p.spanFrom(open.Span), ast.ExprListData{
		Elements: elems,
		Open:     open.Span,
		Close:    closeTok.Span,
	}), true
}

// parseInterpolated разбирает дыры $"..." отдельным проходом лексера по их спанам.
func (p *Parser) parseInterpolated() (ast.ExprID, bool) {
	tok := p.advance()
	holes := make([]ast.ExprID, 0, len(tok.Holes))
	good := true
	for _, h := range tok.Holes {
		toks := lexer.NewRange(p.src, h, lexer.Options{Reporter: p.relexReporter()}).All()
		p.withTokens(toks, func() {
			id, ok := p.parseExpr()
			if ok && !p.at(token.EOF) {
				p.report(diag.SynBadInterpolation, diag.SevError, p.peek().Span, "unexpected "+p.describe(p.peek())+" in interpolation hole")
				ok = false
			}
			if !ok {
				good = false
				return
			}
			holes = append(holes, id)
		})
	}
	if !good {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewInterpolated(tok.Span, holes), true
}

// withTokens временно подменяет поток токенов: дыры интерполяции и условия
// директив разбираются тем же парсером в те же арены.
func (p *Parser) withTokens(toks []token.Token, fn func()) {
	saved, pos, last := p.toks, p.pos, p.lastSpan
	p.toks, p.pos = toks, 0
	defer func() {
		p.toks, p.pos, p.lastSpan = saved, pos, last
	}()
	fn()
}
