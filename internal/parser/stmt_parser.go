package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// parseBlock - `{ stmt* }`; текущий токен должен быть `{`.
func (p *Parser) parseBlock() (ast.StmtID, bool) {
	open, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{'")
	if !ok {
		return ast.NoStmtID, false
	}
	var stmts []ast.StmtID
	for !p.at_or(token.RBrace, token.EOF) {
		start := p.pos
		id, ok := p.parseStmt()
		if ok {
			stmts = append(stmts, id)
		}
		if !ok || p.pos == start {
			p.resyncStmt(start)
		}
	}
	if _, ok := p.closeDelim(token.RBrace); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewBlock(p.spanFrom(open.Span), stmts), true
}

// resyncStmt - пропускаем до ';' (включительно) или до '}' (не съедая).
func (p *Parser) resyncStmt(start int) {
	if p.pos == start && !p.at_or(token.RBrace, token.EOF) {
		p.advance()
	}
	p.resyncUntil(token.Semicolon, token.RBrace)
	p.eat(token.Semicolon)
}

// parseStmt выбирает по первому токену нужный распознаватель оператора.
func (p *Parser) parseStmt() (ast.StmtID, bool) {
	stmts := p.arenas.Stmts
	tok := p.peek()

	switch {
	case tok.Kind == token.LBrace:
		return p.parseBlock()

	case tok.Kind == token.Semicolon:
		p.advance()
		return stmts.NewSimple(ast.StmtEmpty, tok.Span), true

	case tok.Kind == token.KwReturn || tok.Kind == token.KwThrow:
		p.advance()
		kind := ast.StmtReturn
		if tok.Kind == token.KwThrow {
			kind = ast.StmtThrow
		}
		e := ast.NoExprID
		if !p.at(token.Semicolon) {
			var ok bool
			if e, ok = p.parseExpr(); !ok {
				return ast.NoStmtID, false
			}
		}
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after "+tok.Text)
		return stmts.NewExprStmt(kind, p.spanFrom(tok.Span), e), true

	case tok.Kind == token.KwIf:
		return p.parseIf()

	case tok.IsContextual("while") && p.at1(token.LParen):
		return p.parseWhile()

	case tok.Kind == token.KwSwitch && p.at1(token.LParen):
		return p.parseSwitchStmt()

	case (tok.Kind == token.KwChecked || tok.Kind == token.KwUnchecked) && p.at1(token.LBrace):
		p.advance()
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		return stmts.NewChecked(ast.StmtChecked, p.spanFrom(tok.Span), tok.Kind == token.KwChecked, body), true

	case tok.Kind == token.KwUnsafe && p.at1(token.LBrace):
		p.advance()
		body, ok := p.parseBlock()
		if !ok {
			return ast.NoStmtID, false
		}
		return stmts.NewChecked(ast.StmtUnsafe, p.spanFrom(tok.Span), false, body), true

	case tok.IsContextual("break") && p.at1(token.Semicolon), tok.IsContextual("continue") && p.at1(token.Semicolon):
		p.advance()
		p.advance()
		return stmts.NewSimple(ast.StmtBreak, p.spanFrom(tok.Span)), true

	case tok.Kind == token.KwConst:
		return p.parseLocalDecl()
	}

	if p.localDeclAhead() {
		return p.parseLocalDecl()
	}
	return p.parseExprStmt()
}

func (p *Parser) parseExprStmt() (ast.StmtID, bool) {
	start := p.peek().Span
	e, ok := p.parseExpr()
	if !ok {
		return ast.NoStmtID, false
	}
	p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after expression")
	return p.arenas.Stmts.NewExprStmt(ast.StmtExpr, p.spanFrom(start), e), true
}

// localDeclAhead: `T name =`, `T name;`, `T name,` или `var name`.
func (p *Parser) localDeclAhead() bool {
	if p.atContextual("var") && p.at1(token.Ident) {
		return true
	}
	return p.lookahead(func() bool {
		if _, ok := p.parseType(); !ok {
			return false
		}
		if _, ok := p.eat(token.Ident); !ok {
			return false
		}
		return p.at_or(token.Assign, token.Semicolon, token.Comma)
	})
}

// parseLocalDecl - [const] (var | T) a = e, b;
func (p *Parser) parseLocalDecl() (ast.StmtID, bool) {
	start := p.peek().Span
	data := ast.StmtLocalData{Type: ast.NoTypeID}
	if _, ok := p.eat(token.KwConst); ok {
		data.IsConst = true
	}
	if p.atContextual("var") && p.at1(token.Ident) {
		p.advance()
	} else {
		typ, ok := p.parseType()
		if !ok {
			return ast.NoStmtID, false
		}
		data.Type = typ
	}
	decls, ok := p.parseDeclarators()
	if !ok {
		return ast.NoStmtID, false
	}
	data.Decls = decls
	p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after declaration")
	return p.arenas.Stmts.NewLocal(p.spanFrom(start), data), true
}

// parseDeclarators - `a = e, b, c = { 1, 2 }`.
func (p *Parser) parseDeclarators() ([]ast.VarDecl, bool) {
	var decls []ast.VarDecl
	for {
		name, nameSpan, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		decl, ok := p.parseDeclaratorTail(name, nameSpan)
		if !ok {
			return nil, false
		}
		decls = append(decls, decl)
		if _, ok := p.eat(token.Comma); !ok {
			return decls, true
		}
	}
}

func (p *Parser) parseDeclaratorTail(name source.StringID, nameSpan source.Span) (ast.VarDecl, bool) {
	decl := ast.VarDecl{Name: name, NameSpan: nameSpan, Init: ast.NoExprID}
	if _, ok := p.eat(token.Assign); !ok {
		return decl, true
	}
	var ok bool
	if p.at(token.LBrace) {
		decl.Init, ok = p.parseInitializer(ast.InitArray)
	} else {
		decl.Init, ok = p.parseExpr()
	}
	return decl, ok
}

// parseCondition - `( expr )` у if, while и switch. Скобки принадлежат оператору,
// а не выражению, поэтому группа не создаётся.
func (p *Parser) parseCondition() (ast.ExprID, bool) {
	_, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('")
	if !ok {
		return ast.NoExprID, false
	}
	cond, ok := p.parseExpr()
	if !ok {
		return ast.NoExprID, false
	}
	if p.at(token.Comma) {
		// switch (a, b) - кортеж
		elems := []ast.Arg{{Name: source.NoStringID, Modifier: token.Invalid, Value: cond}}
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
		cond = p.arenas.Exprs.NewTuple(p.cover(elems[0].Value, elems[len(elems)-1].Value), elems)
	}
	if _, ok := p.closeDelim(token.RParen); !ok {
		return ast.NoExprID, false
	}
	return cond, true
}

func (p *Parser) parseIf() (ast.StmtID, bool) {
	tok := p.advance()
	cond, ok := p.parseCondition()
	if !ok {
		return ast.NoStmtID, false
	}
	then, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtIfData{Cond: cond, Then: then, Else: ast.NoStmtID}
	if _, ok := p.eat(token.KwElse); ok {
		if data.Else, ok = p.parseStmt(); !ok {
			return ast.NoStmtID, false
		}
	}
	return p.arenas.Stmts.NewIf(p.spanFrom(tok.Span), data), true
}

func (p *Parser) parseWhile() (ast.StmtID, bool) {
	tok := p.advance()
	cond, ok := p.parseCondition()
	if !ok {
		return ast.NoStmtID, false
	}
	body, ok := p.parseStmt()
	if !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewWhile(p.spanFrom(tok.Span), ast.StmtWhileData{Cond: cond, Body: body}), true
}

// parseSwitchStmt - switch (e) { case p when g: ... default: ... }
func (p *Parser) parseSwitchStmt() (ast.StmtID, bool) {
	tok := p.advance()
	value, ok := p.parseCondition()
	if !ok {
		return ast.NoStmtID, false
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after switch"); !ok {
		return ast.NoStmtID, false
	}
	data := ast.StmtSwitchData{Value: value}
	for !p.at_or(token.RBrace, token.EOF) {
		var sec ast.SwitchSection
		for p.atCaseLabel() {
			label, ok := p.parseCaseLabel()
			if !ok {
				return ast.NoStmtID, false
			}
			sec.Labels = append(sec.Labels, label)
		}
		if len(sec.Labels) == 0 {
			p.err(diag.SynUnexpectedToken, "expected 'case' or 'default' in switch")
			return ast.NoStmtID, false
		}
		for !p.atCaseLabel() && !p.at_or(token.RBrace, token.EOF) {
			start := p.pos
			st, ok := p.parseStmt()
			if ok {
				sec.Body = append(sec.Body, st)
			}
			if !ok || p.pos == start {
				p.resyncStmt(start)
			}
		}
		data.Sections = append(data.Sections, sec)
	}
	if _, ok := p.closeDelim(token.RBrace); !ok {
		return ast.NoStmtID, false
	}
	return p.arenas.Stmts.NewSwitch(p.spanFrom(tok.Span), data), true
}

func (p *Parser) atCaseLabel() bool {
	return p.at(token.KwCase) || p.at(token.KwDefault) && p.at1(token.Colon)
}

func (p *Parser) parseCaseLabel() (ast.CaseLabel, bool) {
	tok := p.advance()
	label := ast.CaseLabel{Pattern: ast.NoExprID, When: ast.NoExprID}
	if tok.Kind == token.KwCase {
		var ok bool
		if label.Pattern, ok = p.parsePattern(); !ok {
			return label, false
		}
		if p.atContextual("when") {
			p.advance()
			if label.When, ok = p.parseExpr(); !ok {
				return label, false
			}
		}
	}
	if _, ok := p.expect(token.Colon, diag.SynUnexpectedToken, "expected ':' after case label"); !ok {
		return label, false
	}
	label.Span = p.spanFrom(tok.Span)
	return label, true
}
