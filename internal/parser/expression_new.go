package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/token"
)

// parseNew разбирает все формы new: new T(args) { init }, new(args), new { A = 1 },
// new T[n], new T[] { ... } и new[] { ... }.
func (p *Parser) parseNew() (ast.ExprID, bool) {
	exprs := p.arenas.Exprs
	newTok := p.advance()

	switch {
	case p.at(token.LParen):
		args, _, _, ok := p.parseArgList(token.RParen)
		if !ok {
			return ast.NoExprID, false
		}
		init, ok := p.parseOptInitializer()
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewNew(p.spanFrom(newTok.Span), ast.ExprNewData{
			Kind:    ast.NewTargetTyped,
			Type:    ast.NoTypeID,
			Args:    args,
			HasArgs: true,
			Init:    init,
		}), true

	case p.at(token.LBrace):
		init, ok := p.parseInitializer(ast.InitObject)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewNew(p.spanFrom(newTok.Span), ast.ExprNewData{
			Kind: ast.NewAnonymous,
			Type: ast.NoTypeID,
			Init: init,
		}), true

	case p.at(token.LBracket):
		// new[] { ... }
		rank, ok := p.parseRankSpecifier()
		if !ok {
			return ast.NoExprID, false
		}
		init, ok := p.parseInitializer(ast.InitArray)
		if !ok {
			return ast.NoExprID, false
		}
		return exprs.NewArrayNew(p.spanFrom(newTok.Span), false, ast.ExprArrayNewData{
			Elem: ast.NoTypeID,
			Rank: rank,
			Init: init,
		}), true
	}

	typ, ok := p.parseNonArrayType()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.Question) && p.nullableFollows() {
		p.advance()
		typ = p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprNullable, Span: p.spanFrom(p.arenas.Types.Get(typ).Span), Elem: typ})
	}

	if p.at(token.LBracket) {
		return p.parseArrayCreation(newTok, typ, false)
	}

	data := ast.ExprNewData{Kind: ast.NewObject, Type: typ, Init: ast.NoExprID}
	if p.at(token.LParen) {
		args, _, _, ok := p.parseArgList(token.RParen)
		if !ok {
			return ast.NoExprID, false
		}
		data.Args, data.HasArgs = args, true
	}
	if data.Init, ok = p.parseOptInitializer(); !ok {
		return ast.NoExprID, false
	}
	if !data.HasArgs && !data.Init.IsValid() {
		p.err(diag.SynUnexpectedToken, "expected '(' or '{' after type in object creation")
		return ast.NoExprID, false
	}
	return exprs.NewNew(p.spanFrom(newTok.Span), data), true
}

// parseArrayCreation - хвост `[n, m][] { ... }` после типа элемента.
func (p *Parser) parseArrayCreation(start token.Token, elem ast.TypeID, stackalloc bool) (ast.ExprID, bool) {
	data := ast.ExprArrayNewData{Elem: elem, Init: ast.NoExprID}
	if p.at1(token.RBracket, token.Comma) {
		rank, ok := p.parseRankSpecifier()
		if !ok {
			return ast.NoExprID, false
		}
		data.Rank = rank
	} else {
		p.advance() // [
		for {
			size, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			data.Sizes = append(data.Sizes, size)
			if _, ok := p.eat(token.Comma); !ok {
				break
			}
		}
		if _, ok := p.closeDelim(token.RBracket); !ok {
			return ast.NoExprID, false
		}
		data.Rank = len(data.Sizes)
	}
	// зубчатые массивы: new int[3][]
	for p.at(token.LBracket) && p.at1(token.RBracket, token.Comma) {
		if _, ok := p.parseRankSpecifier(); !ok {
			return ast.NoExprID, false
		}
	}
	var ok bool
	if data.Init, ok = p.parseOptInitializerKind(ast.InitArray); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewArrayNew(p.spanFrom(start.Span), stackalloc, data), true
}

// parseRankSpecifier - `[]` или `[,,]`, возвращает ранг.
func (p *Parser) parseRankSpecifier() (int, bool) {
	p.advance()
	rank := 1
	for p.at(token.Comma) {
		p.advance()
		rank++
	}
	if _, ok := p.closeDelim(token.RBracket); !ok {
		return 0, false
	}
	return rank, true
}

// parseStackalloc - stackalloc T[n], stackalloc T[] { ... }, stackalloc[] { ... }.
func (p *Parser) parseStackalloc() (ast.ExprID, bool) {
	tok := p.advance()
	if p.at(token.LBracket) {
		rank, ok := p.parseRankSpecifier()
		if !ok {
			return ast.NoExprID, false
		}
		init, ok := p.parseInitializer(ast.InitArray)
		if !ok {
			return ast.NoExprID, false
		}
		return p.arenas.Exprs.NewArrayNew(p.spanFrom(tok.Span), true, ast.ExprArrayNewData{
			Elem: ast.NoTypeID,
			Rank: rank,
			Init: init,
		}), true
	}
	elem, ok := p.parseNonArrayType()
	if !ok {
		return ast.NoExprID, false
	}
	if !p.at(token.LBracket) {
		p.err(diag.SynUnexpectedToken, "expected '[' after stackalloc element type")
		return ast.NoExprID, false
	}
	return p.parseArrayCreation(tok, elem, true)
}

func (p *Parser) parseOptInitializer() (ast.ExprID, bool) {
	if !p.at(token.LBrace) {
		return ast.NoExprID, true
	}
	return p.parseInitializer(p.initializerKind())
}

func (p *Parser) parseOptInitializerKind(kind ast.InitKind) (ast.ExprID, bool) {
	if !p.at(token.LBrace) {
		return ast.NoExprID, true
	}
	return p.parseInitializer(kind)
}

// initializerKind смотрит за `{`: `{ Name = ...` - инициализатор объекта,
// иначе коллекции.
func (p *Parser) initializerKind() ast.InitKind {
	if p.peekAt(1).Kind == token.RBrace {
		return ast.InitObject
	}
	if p.peekAt(1).Kind == token.Ident && p.peekAt(2).Kind == token.Assign {
		return ast.InitObject
	}
	return ast.InitCollection
}

// parseInitializer разбирает `{ ... }`; текущий токен - `{`.
func (p *Parser) parseInitializer(kind ast.InitKind) (ast.ExprID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoExprID, false
	}
	p.inInitializer++
	defer func() { p.inInitializer-- }()

	var elems []ast.ExprID
	for !p.at_or(token.RBrace, token.EOF) {
		var el ast.ExprID
		if p.at(token.LBrace) {
			// вложенный список: { 1, 2 } в коллекции, { {1}, {2} } в массиве
			sub := ast.InitCollection
			if kind == ast.InitArray {
				sub = ast.InitArray
			}
			el, ok = p.parseInitializer(sub)
		} else {
			el, ok = p.parseExpr()
		}
		if !ok {
			return ast.NoExprID, false
		}
		elems = append(elems, el)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.closeDelim(token.RBrace); !ok {
		return ast.NoExprID, false
	}
	return p.arenas.Exprs.NewInitializer(p.spanFrom(open.Span), kind, elems), true
}
