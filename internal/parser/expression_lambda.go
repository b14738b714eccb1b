package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// lambdaAhead: [attrs] [async] [static] (x | (params)) =>
func (p *Parser) lambdaAhead() bool {
	n := 0
	for p.peekAt(n).Kind == token.LBracket {
		c := p.matchingClose(n)
		if c < 0 {
			return false
		}
		n = c + 1
	}
	for {
		t := p.peekAt(n)
		if (t.IsContextual("async") || t.Kind == token.KwStatic) && p.peekAt(n+1).Kind != token.FatArrow {
			n++
			continue
		}
		break
	}
	switch p.peekAt(n).Kind {
	case token.Ident:
		return p.peekAt(n+1).Kind == token.FatArrow
	case token.LParen:
		c := p.matchingClose(n)
		return c > 0 && p.peekAt(c+1).Kind == token.FatArrow
	}
	return false
}

func (p *Parser) parseLambda() (ast.ExprID, bool) {
	start := p.peek().Span
	data := ast.ExprLambdaData{Body: ast.NoExprID, Block: ast.NoStmtID}
	for p.at(token.LBracket) {
		p.skipBalanced()
		data.Attributed = true
	}
mods:
	for !p.at1(token.FatArrow) {
		switch {
		case p.atContextual("async"):
			data.Async = true
		case p.at(token.KwStatic):
			data.Static = true
		default:
			break mods
		}
		p.advance()
	}
	if p.at(token.Ident) {
		tok := p.advance()
		data.Params = []ast.LambdaParam{{Name: p.intern(tok), Type: ast.NoTypeID, Modifier: token.Invalid}}
	} else {
		params, ok := p.parseLambdaParams()
		if !ok {
			return ast.NoExprID, false
		}
		data.Params = params
	}
	if _, ok := p.expect(token.FatArrow, diag.SynUnexpectedToken, "expected '=>' in lambda"); !ok {
		return ast.NoExprID, false
	}
	if p.at(token.LBrace) {
		block, ok := p.parseBlock()
		if !ok {
			return ast.NoExprID, false
		}
		data.Block = block
	} else {
		body, ok := p.parseExpr()
		if !ok {
			return ast.NoExprID, false
		}
		data.Body = body
	}
	return p.arenas.Exprs.NewLambda(p.spanFrom(start), data), true
}

// parseLambdaParams - `()`, `(a, b)`, `(int a, ref int b)`.
func (p *Parser) parseLambdaParams() ([]ast.LambdaParam, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected lambda parameters"); !ok {
		return nil, false
	}
	var params []ast.LambdaParam
	for !p.at_or(token.RParen, token.EOF) {
		prm := ast.LambdaParam{Type: ast.NoTypeID, Modifier: token.Invalid}
		if p.at_or(token.KwRef, token.KwOut, token.KwIn) {
			prm.Modifier = p.advance().Kind
		}
		if p.at(token.Ident) && p.at1(token.Comma, token.RParen) {
			prm.Name = p.intern(p.advance())
		} else {
			typ, ok := p.parseType()
			if !ok {
				return nil, false
			}
			name, _, ok := p.parseIdent()
			if !ok {
				return nil, false
			}
			prm.Type, prm.Name = typ, name
		}
		params = append(params, prm)
		if _, ok := p.eat(token.Comma); !ok {
			break
		}
	}
	if _, ok := p.closeDelim(token.RParen); !ok {
		return nil, false
	}
	return params, true
}

// queryAhead: from x in ... или from T x in ...
func (p *Parser) queryAhead() bool {
	if !p.atContextual("from") {
		return false
	}
	t1, t2 := p.peekAt(1), p.peekAt(2)
	if t1.Kind == token.Ident && t2.Kind == token.KwIn {
		return true
	}
	return (t1.Kind == token.Ident || token.IsPredefinedType(t1.Kind)) &&
		t2.Kind == token.Ident && p.peekAt(3).Kind == token.KwIn
}

// parseQuery разбирает LINQ: from, let, where, orderby, select, group ... by, into.
func (p *Parser) parseQuery() (ast.ExprID, bool) {
	start := p.peek().Span
	var clauses []ast.QueryClause

	from, ok := p.parseFromClause()
	if !ok {
		return ast.NoExprID, false
	}
	clauses = append(clauses, from)

	for {
		tok := p.peek()
		switch {
		case tok.IsContextual("from"):
			c, ok := p.parseFromClause()
			if !ok {
				return ast.NoExprID, false
			}
			clauses = append(clauses, c)

		case tok.IsContextual("let"):
			p.advance()
			name, _, ok := p.parseIdent()
			if !ok {
				return ast.NoExprID, false
			}
			if _, ok := p.expect(token.Assign, diag.SynUnexpectedToken, "expected '=' in let clause"); !ok {
				return ast.NoExprID, false
			}
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			clauses = append(clauses, ast.QueryClause{Kind: ast.QueryLet, Name: name, Expr: e, By: ast.NoExprID, Span: p.spanFrom(tok.Span)})

		case tok.IsContextual("where"):
			p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			clauses = append(clauses, ast.QueryClause{Kind: ast.QueryWhere, Expr: e, By: ast.NoExprID, Span: p.spanFrom(tok.Span)})

		case tok.IsContextual("orderby"):
			p.advance()
			for {
				e, ok := p.parseExpr()
				if !ok {
					return ast.NoExprID, false
				}
				if p.atContextual("ascending") || p.atContextual("descending") {
					p.advance()
				}
				clauses = append(clauses, ast.QueryClause{Kind: ast.QueryOrderBy, Expr: e, By: ast.NoExprID, Span: p.spanFrom(tok.Span)})
				if _, ok := p.eat(token.Comma); !ok {
					break
				}
			}

		case tok.IsContextual("select"):
			p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			clauses = append(clauses, ast.QueryClause{Kind: ast.QuerySelect, Expr: e, By: ast.NoExprID, Span: p.spanFrom(tok.Span)})
			if !p.parseQueryContinuation(&clauses) {
				return p.arenas.Exprs.NewQuery(p.spanFrom(start), clauses), true
			}

		case tok.IsContextual("group"):
			p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			if !p.atContextual("by") {
				p.err(diag.SynUnexpectedToken, "expected 'by' in group clause")
				return ast.NoExprID, false
			}
			p.advance()
			by, ok := p.parseExpr()
			if !ok {
				return ast.NoExprID, false
			}
			clauses = append(clauses, ast.QueryClause{Kind: ast.QueryGroup, Expr: e, By: by, Span: p.spanFrom(tok.Span)})
			if !p.parseQueryContinuation(&clauses) {
				return p.arenas.Exprs.NewQuery(p.spanFrom(start), clauses), true
			}

		default:
			if last := clauses[len(clauses)-1].Kind; last != ast.QuerySelect && last != ast.QueryGroup {
				p.err(diag.SynUnexpectedToken, "query body must end with select or group")
				return ast.NoExprID, false
			}
			return p.arenas.Exprs.NewQuery(p.spanFrom(start), clauses), true
		}
	}
}

func (p *Parser) parseFromClause() (ast.QueryClause, bool) {
	tok := p.advance() // from
	if !(p.at(token.Ident) && p.peekAt(1).Kind == token.KwIn) {
		if _, ok := p.parseType(); !ok {
			return ast.QueryClause{}, false
		}
	}
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.QueryClause{}, false
	}
	if _, ok := p.expect(token.KwIn, diag.SynUnexpectedToken, "expected 'in' in from clause"); !ok {
		return ast.QueryClause{}, false
	}
	e, ok := p.parseExpr()
	if !ok {
		return ast.QueryClause{}, false
	}
	return ast.QueryClause{Kind: ast.QueryFrom, Name: name, Expr: e, By: ast.NoExprID, Span: p.spanFrom(tok.Span)}, true
}

// parseQueryContinuation - `into x` после select/group продолжает запрос.
func (p *Parser) parseQueryContinuation(clauses *[]ast.QueryClause) bool {
	if !p.atContextual("into") {
		return false
	}
	tok := p.advance()
	name, _, ok := p.parseIdent()
	if !ok {
		name = source.NoStringID
	}
	*clauses = append(*clauses, ast.QueryClause{Kind: ast.QueryFrom, Name: name, Expr: ast.NoExprID, By: ast.NoExprID, Span: p.spanFrom(tok.Span)})
	return true
}
