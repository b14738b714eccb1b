package parser

import (
	"context"
	"slices"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/source"
	"unparen/internal/token"
)

type Options struct {
	MaxErrors     uint
	CurrentErrors uint
	Reporter      diag.Reporter
}

// Enough - проверить, достигли ли мы максимального количества ошибок
func (o *Options) Enough() bool {
	if o.MaxErrors == 0 {
		return false
	}
	return o.CurrentErrors >= o.MaxErrors
}

type Result struct {
	File ast.FileID
	Bag  *diag.Bag
	// Errors counts syntax errors. Analyzers skip files with Errors > 0.
	Errors uint
}

// Parser - состояние парсера на один файл
type Parser struct {
	toks     []token.Token // весь поток токенов файла, последний всегда EOF
	pos      int           // индекс текущего токена
	src      *source.File  // нужен для дыр интерполяции и директив
	arenas   *ast.Builder  // построитель аренных узлов
	file     ast.FileID    // текущий FileID (в AST)
	opts     Options
	lastSpan source.Span // span последнего съеденного токена для лучшей диагностики

	quiet  int  // >0 во время спекулятивного разбора: ошибки не репортим
	failed bool // спекулятивная ветка встретила ошибку
	relex  *diag.DedupReporter

	noLambda      bool // следующий parseExpr не ищет лямбду (guard в switch-арме)
	inInitializer int  // глубина { ... } инициализатора: там `A = { ... }` допустимо
}

// ParseFile - входная точка для разбора одного файла.
// Лексер выкачивается целиком: разбор C# требует отката при неоднозначностях
// (приведение или скобки, generic или сравнение).
func ParseFile(
	ctx context.Context,
	src *source.File,
	lx *lexer.Lexer,
	arenas *ast.Builder,
	opts Options,
) Result {
	toks := lx.All()
	p := Parser{
		toks:   toks,
		src:    src,
		arenas: arenas,
		opts:   opts,
	}
	p.file = arenas.Files.New(source.Span{File: src.ID, Start: 0, End: uint32(len(src.Content))})
	p.lastSpan = source.Span{File: src.ID}

	p.parseTopLevel(ctx)
	p.parseDirectives()

	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return Result{
		File:   p.file,
		Bag:    bag,
		Errors: p.opts.CurrentErrors,
	}
}

// ParseExpression разбирает src как одно выражение, без объявлений и операторов.
func ParseExpression(src *source.File, arenas *ast.Builder, opts Options) (ast.ExprID, Result) {
	p := Parser{
		toks:   lexer.New(src, lexer.Options{Reporter: opts.Reporter}).All(),
		src:    src,
		arenas: arenas,
		opts:   opts,
	}
	p.file = arenas.Files.New(source.Span{File: src.ID, Start: 0, End: uint32(len(src.Content))})
	id, ok := p.parseExpr()
	if ok && !p.at(token.EOF) {
		p.err(diag.SynUnexpectedToken, "unexpected "+p.describe(p.peek())+" after expression")
	}
	var bag *diag.Bag
	if br, ok := opts.Reporter.(*diag.BagReporter); ok {
		bag = br.Bag
	}
	return id, Result{File: p.file, Bag: bag, Errors: p.opts.CurrentErrors}
}

func (p *Parser) at(k token.Kind) bool {
	return p.peek().Kind == k
}

func (p *Parser) at_or(kinds ...token.Kind) bool {
	return slices.Contains(kinds, p.peek().Kind)
}

// atContextual - текущий токен является идентификатором kw (when, var, and, or, not...).
func (p *Parser) atContextual(kw string) bool {
	return p.peek().IsContextual(kw)
}

func (p *Parser) IsError() bool {
	return p.opts.CurrentErrors != 0
}

// parseTopLevel - основной цикл: using-директивы, пространства имён, типы и
// top-level statements.
func (p *Parser) parseTopLevel(ctx context.Context) {
	for !p.at(token.EOF) {
		if ctx.Err() != nil {
			return
		}
		start := p.pos
		if p.at(token.KwUsing) && p.peekAt(1).Kind != token.LParen {
			p.skipUsingDirective()
			continue
		}
		if p.startsDeclaration() {
			if id, ok := p.parseDeclaration(); ok {
				p.arenas.PushItem(p.file, id)
			}
		} else {
			if id, ok := p.parseStmt(); ok {
				p.arenas.PushStmt(p.file, id)
			}
		}
		if p.pos == start {
			// ничего не съели - пропускаем токен, иначе зациклимся
			p.resyncTop()
		}
	}
}

// resyncTop - восстановление после ошибки на верхнем уровне:
// прокручиваем до ';' или '}' (включительно) или EOF.
func (p *Parser) resyncTop() {
	p.resyncUntil(token.Semicolon, token.RBrace)
	if p.at_or(token.Semicolon, token.RBrace) {
		p.advance()
	}
}

func (p *Parser) skipUsingDirective() {
	p.advance()
	for !p.at_or(token.Semicolon, token.EOF) {
		p.advance()
	}
	p.want(token.Semicolon, diag.SynExpectSemicolon, "expected ';' after using directive")
}

// parseIdent - утилита: ожидает Ident и интернирует его, возвращает source.StringID.
// На ошибке - репорт SynExpectIdentifier.
func (p *Parser) parseIdent() (source.StringID, source.Span, bool) {
	if p.at(token.Ident) {
		tok := p.advance()
		return p.intern(tok), tok.Span, true
	}
	p.err(diag.SynExpectIdentifier, "expected identifier, got "+p.describe(p.peek()))
	return source.NoStringID, p.getDiagnosticSpan(), false
}

// intern кладёт текст токена в интернер; у @verbatim идентификаторов '@' отрезаем.
func (p *Parser) intern(tok token.Token) source.StringID {
	text := tok.Text
	if tok.Kind == token.Ident && len(text) > 1 && text[0] == '@' {
		text = text[1:]
	}
	return p.arenas.Strings.Intern(text)
}

func (p *Parser) describe(tok token.Token) string {
	switch tok.Kind {
	case token.EOF:
		return "end of file"
	case token.Ident:
		return "identifier \"" + tok.Text + "\""
	}
	return "\"" + tok.Text + "\""
}
