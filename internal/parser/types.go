package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// parseType разбирает тип вместе с суффиксами `?`, `*` и `[]`.
func (p *Parser) parseType() (ast.TypeID, bool) {
	base, ok := p.parseNonArrayType()
	if !ok {
		return ast.NoTypeID, false
	}
	return p.parseTypeSuffixes(base), true
}

// parseNonArrayType - тип без суффиксов: предопределённый, (квалифицированное) имя
// с аргументами типов, alias::имя или кортеж.
func (p *Parser) parseNonArrayType() (ast.TypeID, bool) {
	types := p.arenas.Types
	tok := p.peek()
	switch {
	case token.IsPredefinedType(tok.Kind):
		p.advance()
		return types.New(ast.TypeExpr{Kind: ast.TypeExprPredefined, Span: tok.Span, Keyword: tok.Kind}), true

	case tok.Kind == token.LParen:
		return p.parseTupleType()

	case tok.Kind == token.Ident:
		var t ast.TypeID
		if p.peekAt(1).Kind == token.ColonColon {
			alias := p.advance()
			p.advance() // ::
			name, _, ok := p.parseIdent()
			if !ok {
				return ast.NoTypeID, false
			}
			args, ok := p.parseOptTypeArgs()
			if !ok {
				return ast.NoTypeID, false
			}
			t = types.New(ast.TypeExpr{
				Kind:  ast.TypeExprAliasQualified,
				Span:  p.spanFrom(tok.Span),
				Alias: p.intern(alias),
				Name:  name,
				Args:  args,
			})
		} else {
			name := p.intern(p.advance())
			args, ok := p.parseOptTypeArgs()
			if !ok {
				return ast.NoTypeID, false
			}
			t = types.New(ast.TypeExpr{Kind: ast.TypeExprName, Span: p.spanFrom(tok.Span), Name: name, Args: args})
		}
		for p.at(token.Dot) && p.peekAt(1).Kind == token.Ident {
			p.advance()
			name := p.intern(p.advance())
			args, ok := p.parseOptTypeArgs()
			if !ok {
				return ast.NoTypeID, false
			}
			t = types.New(ast.TypeExpr{Kind: ast.TypeExprQualified, Span: p.spanFrom(tok.Span), Left: t, Name: name, Args: args})
		}
		return t, true
	}
	p.err(diag.SynExpectType, "expected type, got "+p.describe(tok))
	return ast.NoTypeID, false
}

func (p *Parser) parseTupleType() (ast.TypeID, bool) {
	open := p.advance()
	var (
		elems []ast.TypeID
		names []source.StringID
	)
	for {
		t, ok := p.parseType()
		if !ok {
			return ast.NoTypeID, false
		}
		name := source.NoStringID
		if p.at(token.Ident) {
			name = p.intern(p.advance())
		}
		elems = append(elems, t)
		names = append(names, name)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.closeDelim(token.RParen); !ok {
		return ast.NoTypeID, false
	}
	if len(elems) < 2 {
		p.report(diag.SynExpectType, diag.SevError, p.spanFrom(open.Span), "tuple type needs at least two elements")
		return ast.NoTypeID, false
	}
	return p.arenas.Types.New(ast.TypeExpr{Kind: ast.TypeExprTuple, Span: p.spanFrom(open.Span), Args: elems, Names: names}), true
}

// parseOptTypeArgs разбирает `<T, U>`, если он есть.
func (p *Parser) parseOptTypeArgs() ([]ast.TypeID, bool) {
	if !p.at(token.Lt) {
		return nil, true
	}
	return p.parseTypeArgs()
}

func (p *Parser) parseTypeArgs() ([]ast.TypeID, bool) {
	if _, ok := p.expect(token.Lt, diag.SynUnexpectedToken, "expected '<'"); !ok {
		return nil, false
	}
	var args []ast.TypeID
	for {
		t, ok := p.parseType()
		if !ok {
			return nil, false
		}
		args = append(args, t)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.expect(token.Gt, diag.SynUnexpectedToken, "expected '>' to close type arguments"); !ok {
		return nil, false
	}
	return args, true
}

func (p *Parser) parseTypeSuffixes(t ast.TypeID) ast.TypeID {
	types := p.arenas.Types
	start := types.Get(t).Span
	for {
		switch {
		case p.at(token.Question) && p.nullableFollows():
			p.advance()
			t = types.New(ast.TypeExpr{Kind: ast.TypeExprNullable, Span: p.spanFrom(start), Elem: t})
		case p.at(token.Star) && p.pointerFollows():
			p.advance()
			t = types.New(ast.TypeExpr{Kind: ast.TypeExprPointer, Span: p.spanFrom(start), Elem: t})
		case p.at(token.LBracket) && p.at1(token.RBracket, token.Comma):
			p.advance()
			rank := 1
			for p.at(token.Comma) {
				p.advance()
				rank++
			}
			if _, ok := p.closeDelim(token.RBracket); !ok {
				return t
			}
			t = types.New(ast.TypeExpr{Kind: ast.TypeExprArray, Span: p.spanFrom(start), Elem: t, Rank: rank})
		default:
			return t
		}
	}
}

// at1 - токен после текущего один из kinds.
func (p *Parser) at1(kinds ...token.Kind) bool {
	k := p.peekAt(1).Kind
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// nullableFollows решает, является ли `?` после типа суффиксом nullable, а не
// началом условного выражения: `x is T ? a : b` против `(int?)x` и `T? v = ...`.
func (p *Parser) nullableFollows() bool {
	next := p.peekAt(1)
	switch next.Kind {
	case token.RParen, token.Comma, token.Gt, token.RBracket, token.Semicolon, token.Assign,
		token.LBrace, token.RBrace, token.Star, token.EOF, token.FatArrow, token.QuestionQuestion:
		return true
	case token.LBracket:
		k := p.peekAt(2).Kind
		return k == token.RBracket || k == token.Comma
	case token.Ident:
		return declaratorFollows(p.peekAt(2).Kind)
	}
	return false
}

// pointerFollows - `*` после типа является указателем: `(int*)p`, `byte* b = ...`.
func (p *Parser) pointerFollows() bool {
	next := p.peekAt(1)
	switch next.Kind {
	case token.RParen, token.Star, token.Gt, token.Comma:
		return true
	case token.LBracket:
		k := p.peekAt(2).Kind
		return k == token.RBracket || k == token.Comma
	case token.Ident:
		return declaratorFollows(p.peekAt(2).Kind)
	}
	return false
}

// declaratorFollows - после `T name` идёт то, что бывает только в объявлении.
func declaratorFollows(k token.Kind) bool {
	switch k {
	case token.Assign, token.Semicolon, token.Comma, token.RParen:
		return true
	}
	return false
}

// typeIsExpressionLike - тип мог бы быть и выражением: простое или
// квалифицированное имя без аргументов типов. `(A)-1` - вычитание, `(int)-1` - приведение.
func (p *Parser) typeIsExpressionLike(id ast.TypeID) bool {
	types := p.arenas.Types
	te := types.Get(id)
	if te == nil {
		return false
	}
	switch te.Kind {
	case ast.TypeExprName:
		return len(te.Args) == 0
	case ast.TypeExprQualified:
		return !types.IsGeneric(id) && (types.IsDottedPlain(id) || types.HasAliasRoot(id))
	}
	return false
}
