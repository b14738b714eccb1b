package parser

import (
	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/source"
	"unparen/internal/token"
)

// modifiers - то, что нам важно из модификаторов объявления.
type modifiers struct {
	static bool
	span   source.Span
	any    bool
}

// contextualModifiers - модификаторы, которые лексер отдаёт идентификаторами.
var contextualModifiers = map[string]bool{
	"abstract": true, "sealed": true, "partial": true, "override": true, "virtual": true,
	"async": true, "extern": true, "volatile": true, "required": true, "file": true,
}

// isModifierAt - токен на позиции n является модификатором объявления.
// Контекстные модификаторы считаются таковыми, только если за ними идёт ещё
// что-то кроме `(`, `=`, `;` - `partial` может быть и именем метода.
func (p *Parser) isModifierAt(n int, member bool) bool {
	t := p.peekAt(n)
	switch t.Kind {
	case token.KwPublic, token.KwPrivate, token.KwProtected, token.KwInternal, token.KwStatic,
		token.KwReadonly, token.KwUnsafe:
		return true
	case token.KwNew:
		return member
	case token.Ident:
		if !contextualModifiers[t.Text] {
			return false
		}
		next := p.peekAt(n + 1)
		return next.Kind == token.Ident || next.IsKeyword()
	}
	return false
}

func (p *Parser) parseModifiers(member bool) modifiers {
	var mods modifiers
	for p.isModifierAt(0, member) {
		tok := p.advance()
		if !mods.any {
			mods.span = tok.Span
		}
		mods.span = mods.span.Cover(tok.Span)
		mods.any = true
		if tok.Kind == token.KwStatic {
			mods.static = true
		}
	}
	return mods
}

func (p *Parser) skipAttributes() {
	for p.at(token.LBracket) {
		p.skipBalanced()
	}
}

// atTypeKeyword - class, struct, record, interface, enum.
func atTypeKeyword(tok token.Token) bool {
	switch {
	case tok.Kind == token.KwClass, tok.Kind == token.KwStruct:
		return true
	case tok.IsContextual("record"), tok.IsContextual("interface"), tok.IsContextual("enum"):
		return true
	}
	return false
}

// startsDeclaration - на верхнем уровне начинается namespace или тип,
// а не top-level statement.
func (p *Parser) startsDeclaration() bool {
	n := 0
	for p.peekAt(n).Kind == token.LBracket {
		c := p.matchingClose(n)
		if c < 0 {
			return false
		}
		n = c + 1
	}
	for p.isModifierAt(n, false) {
		n++
	}
	t := p.peekAt(n)
	if t.Kind == token.KwNamespace {
		return true
	}
	return atTypeKeyword(t) && p.peekAt(n+1).Kind == token.Ident || t.IsContextual("record") && p.peekAt(n+1).Kind == token.KwClass
}

// parseDeclaration - namespace или объявление типа.
func (p *Parser) parseDeclaration() (ast.ItemID, bool) {
	start := p.peek().Span
	p.skipAttributes()
	p.parseModifiers(false)
	if p.at(token.KwNamespace) {
		return p.parseNamespace(start)
	}
	if atTypeKeyword(p.peek()) {
		return p.parseTypeDecl(start)
	}
	p.err(diag.SynUnexpectedToken, "expected namespace or type declaration, got "+p.describe(p.peek()))
	return ast.NoItemID, false
}

func (p *Parser) parseQualifiedName() (source.StringID, bool) {
	first, _, ok := p.parseIdent()
	if !ok {
		return source.NoStringID, false
	}
	name := p.arenas.Name(first)
	for p.at(token.Dot) {
		p.advance()
		part, _, ok := p.parseIdent()
		if !ok {
			return source.NoStringID, false
		}
		name += "." + p.arenas.Name(part)
	}
	return p.arenas.Strings.Intern(name), true
}

// parseNamespace - `namespace A.B { ... }` или file-scoped `namespace A.B;`.
func (p *Parser) parseNamespace(start source.Span) (ast.ItemID, bool) {
	p.advance()
	name, ok := p.parseQualifiedName()
	if !ok {
		return ast.NoItemID, false
	}
	fileScoped := false
	if _, ok := p.eat(token.Semicolon); ok {
		fileScoped = true
	} else if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' after namespace name"); !ok {
		return ast.NoItemID, false
	}
	var items []ast.ItemID
	for !p.at(token.EOF) && (fileScoped || !p.at(token.RBrace)) {
		begin := p.pos
		switch {
		case p.at(token.KwUsing):
			p.skipUsingDirective()
		case p.startsDeclaration():
			if id, ok := p.parseDeclaration(); ok {
				items = append(items, id)
			}
		default:
			p.err(diag.SynUnexpectedToken, "expected type declaration in namespace, got "+p.describe(p.peek()))
			p.resyncTop()
		}
		if p.pos == begin {
			p.resyncTop()
		}
	}
	if !fileScoped {
		if _, ok := p.closeDelim(token.RBrace); !ok {
			return ast.NoItemID, false
		}
	}
	return p.arenas.Items.NewNamespace(p.spanFrom(start), name, items), true
}

// parseTypeDecl - class/struct/record/interface/enum с членами.
func (p *Parser) parseTypeDecl(start source.Span) (ast.ItemID, bool) {
	kw := p.advance()
	if kw.IsContextual("record") && p.at_or(token.KwClass, token.KwStruct) {
		p.advance()
	}
	name, _, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	isEnum := kw.IsContextual("enum")
	if p.at(token.Lt) {
		p.skipTypeParams()
	}
	if p.at(token.LParen) {
		// первичный конструктор record
		if _, ok := p.parseParams(); !ok {
			return ast.NoItemID, false
		}
	}
	// базовые типы и where-ограничения нам не интересны
	p.resyncUntil(token.LBrace, token.Semicolon)
	data := ast.TypeItem{Keyword: kw.Kind, Name: name}
	if _, ok := p.eat(token.Semicolon); ok {
		return p.arenas.Items.NewType(p.spanFrom(start), data), true
	}
	if _, ok := p.expect(token.LBrace, diag.SynUnexpectedToken, "expected '{' in type declaration"); !ok {
		return ast.NoItemID, false
	}
	for !p.at_or(token.RBrace, token.EOF) {
		begin := p.pos
		var (
			id ast.ItemID
			ok bool
		)
		if isEnum {
			id, ok = p.parseEnumMember()
		} else {
			id, ok = p.parseMember()
		}
		if ok {
			data.Members = append(data.Members, id)
		}
		if !ok || p.pos == begin {
			p.resyncStmt(begin)
		}
	}
	if _, ok := p.closeDelim(token.RBrace); !ok {
		return ast.NoItemID, false
	}
	p.eat(token.Semicolon)
	return p.arenas.Items.NewType(p.spanFrom(start), data), true
}

// skipTypeParams пропускает `<T, U>` у объявления.
func (p *Parser) skipTypeParams() {
	depth := 0
	for !p.at(token.EOF) {
		switch p.advance().Kind {
		case token.Lt:
			depth++
		case token.Gt:
			depth--
		}
		if depth <= 0 {
			return
		}
	}
}

func (p *Parser) parseEnumMember() (ast.ItemID, bool) {
	start := p.peek().Span
	p.skipAttributes()
	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	decl, ok := p.parseDeclaratorTail(name, nameSpan)
	if !ok {
		return ast.NoItemID, false
	}
	if !p.at(token.RBrace) {
		p.expect(token.Comma, diag.SynUnexpectedToken, "expected ',' between enum members")
	}
	return p.arenas.Items.NewField(p.spanFrom(start), ast.FieldItem{
		Type:    ast.NoTypeID,
		IsConst: true,
		Decls:   []ast.VarDecl{decl},
	}), true
}

// parseMember - поле, константа, метод, конструктор, оператор, свойство или вложенный тип.
func (p *Parser) parseMember() (ast.ItemID, bool) {
	items := p.arenas.Items
	start := p.peek().Span
	p.skipAttributes()
	mods := p.parseModifiers(true)

	switch {
	case atTypeKeyword(p.peek()) && (p.at1(token.Ident) || p.peek().IsContextual("record")):
		return p.parseTypeDecl(start)

	case p.at(token.KwConst):
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		decls, ok := p.parseDeclarators()
		if !ok {
			return ast.NoItemID, false
		}
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after constant")
		return items.NewField(p.spanFrom(start), ast.FieldItem{Type: typ, IsConst: true, Decls: decls}), true

	case (p.atContextual("implicit") || p.atContextual("explicit")) && p.at1(token.KwOperator):
		// implicit operator bool(C c) => ...
		conv := p.advance()
		p.advance()
		typ, ok := p.parseType()
		if !ok {
			return ast.NoItemID, false
		}
		m := ast.MethodItem{
			Name:       p.arenas.Strings.Intern("op_" + conv.Text),
			ReturnType: typ,
			Operator:   token.KwOperator,
			IsStatic:   true,
		}
		return p.finishMethod(start, m)

	case p.at(token.Tilde) && p.at1(token.Ident):
		// деструктор
		p.advance()
		fallthrough
	case p.at(token.Ident) && p.at1(token.LParen):
		// конструктор
		name, _, _ := p.parseIdent()
		m := ast.MethodItem{Name: name, ReturnType: ast.NoTypeID, IsStatic: mods.static}
		return p.finishMethod(start, m)
	}

	typ, ok := p.parseType()
	if !ok {
		return ast.NoItemID, false
	}

	if p.at(token.KwOperator) {
		p.advance()
		opTok := p.advance()
		opKind := opTok.Kind
		text := opTok.Text
		if opTok.Kind == token.Gt && p.at(token.Gt) && p.peek().Span.Start == opTok.Span.End {
			p.advance()
			text = ">>"
		}
		m := ast.MethodItem{
			Name:       p.arenas.Strings.Intern("operator" + text),
			ReturnType: typ,
			Operator:   opKind,
			IsStatic:   true,
		}
		return p.finishMethod(start, m)
	}

	name, nameSpan, ok := p.parseIdent()
	if !ok {
		return ast.NoItemID, false
	}
	// явная реализация интерфейса: I.M
	for p.at(token.Dot) && p.at1(token.Ident) {
		p.advance()
		name, nameSpan, _ = p.parseIdent()
	}
	if p.at(token.Lt) {
		p.skipTypeParams()
	}

	switch {
	case p.at(token.LParen):
		m := ast.MethodItem{Name: name, ReturnType: typ, IsStatic: mods.static}
		return p.finishMethod(start, m)

	case p.at(token.LBrace):
		return p.parseProperty(start, name, typ)

	case p.at(token.FatArrow):
		p.advance()
		body, ok := p.parseExpr()
		if !ok {
			return ast.NoItemID, false
		}
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after property body")
		return items.NewProperty(p.spanFrom(start), ast.PropertyItem{Name: name, Type: typ, ExprBody: body, Init: ast.NoExprID}), true
	}

	// поле: первый декларатор уже наполовину прочитан
	first, ok := p.parseDeclaratorTail(name, nameSpan)
	if !ok {
		return ast.NoItemID, false
	}
	decls := []ast.VarDecl{first}
	if _, ok := p.eat(token.Comma); ok {
		rest, ok := p.parseDeclarators()
		if !ok {
			return ast.NoItemID, false
		}
		decls = append(decls, rest...)
	}
	p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after field")
	return items.NewField(p.spanFrom(start), ast.FieldItem{Type: typ, Decls: decls}), true
}

// finishMethod дочитывает параметры и тело метода; текущий токен - `(`.
func (p *Parser) finishMethod(start source.Span, m ast.MethodItem) (ast.ItemID, bool) {
	params, ok := p.parseParams()
	if !ok {
		return ast.NoItemID, false
	}
	m.Params = params
	m.Body, m.ExprBody = ast.NoStmtID, ast.NoExprID
	// : base(...), : this(...) и where-ограничения
	if p.at(token.Colon) || p.atContextual("where") {
		p.resyncUntil(token.LBrace, token.FatArrow, token.Semicolon)
	}
	switch {
	case p.at(token.LBrace):
		if m.Body, ok = p.parseBlock(); !ok {
			return ast.NoItemID, false
		}
	case p.at(token.FatArrow):
		p.advance()
		if m.ExprBody, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after method body")
	default:
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' or method body")
	}
	return p.arenas.Items.NewMethod(p.spanFrom(start), m), true
}

// parseParams - `(ref int a, params object[] rest, int b = 0)`.
func (p *Parser) parseParams() ([]ast.Param, bool) {
	if _, ok := p.expect(token.LParen, diag.SynUnexpectedToken, "expected '('"); !ok {
		return nil, false
	}
	var params []ast.Param
	for !p.at_or(token.RParen, token.EOF) {
		p.skipAttributes()
		prm := ast.Param{Modifier: token.Invalid, Default: ast.NoExprID}
		switch {
		case p.at_or(token.KwRef, token.KwOut, token.KwIn, token.KwThis):
			prm.Modifier = p.advance().Kind
		case p.atContextual("params"):
			prm.Modifier = p.advance().Kind
		}
		typ, ok := p.parseType()
		if !ok {
			return nil, false
		}
		name, _, ok := p.parseIdent()
		if !ok {
			return nil, false
		}
		prm.Type, prm.Name = typ, name
		if _, ok := p.eat(token.Assign); ok {
			if prm.Default, ok = p.parseExpr(); !ok {
				return nil, false
			}
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

// parseProperty - `{ get; set => x = value; init { } } = e;`; текущий токен - `{`.
func (p *Parser) parseProperty(start source.Span, name source.StringID, typ ast.TypeID) (ast.ItemID, bool) {
	stmts := p.arenas.Stmts
	p.advance()
	data := ast.PropertyItem{Name: name, Type: typ, ExprBody: ast.NoExprID, Init: ast.NoExprID}
	for !p.at_or(token.RBrace, token.EOF) {
		p.skipAttributes()
		p.parseModifiers(true)
		acc, _, ok := p.parseIdent()
		if !ok {
			return ast.NoItemID, false
		}
		switch {
		case p.at(token.LBrace):
			body, ok := p.parseBlock()
			if !ok {
				return ast.NoItemID, false
			}
			data.Accessors = append(data.Accessors, body)
		case p.at(token.FatArrow):
			arrow := p.advance()
			e, ok := p.parseExpr()
			if !ok {
				return ast.NoItemID, false
			}
			kind := ast.StmtExpr
			if p.arenas.Name(acc) == "get" {
				kind = ast.StmtReturn
			}
			p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after accessor body")
			data.Accessors = append(data.Accessors, stmts.NewExprStmt(kind, p.spanFrom(arrow.Span), e))
		default:
			p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after accessor")
		}
	}
	if _, ok := p.closeDelim(token.RBrace); !ok {
		return ast.NoItemID, false
	}
	if _, ok := p.eat(token.Assign); ok {
		var ok bool
		if data.Init, ok = p.parseExpr(); !ok {
			return ast.NoItemID, false
		}
		p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after property initializer")
	}
	return p.arenas.Items.NewProperty(p.spanFrom(start), data), true
}
