package ast

import (
	"unparen/internal/source"
)

type Hints struct{ Files, Items, Stmts, Exprs, Types uint }

// Builder owns every arena of one parse. It is the tree handed to the analyzers.
type Builder struct {
	Files   *Files
	Items   *Items
	Stmts   *Stmts
	Exprs   *Exprs
	Types   *TypeExprs
	Strings *source.Interner
}

func NewBuilder(hints Hints, strings *source.Interner) *Builder {
	if hints.Files == 0 {
		hints.Files = 1
	}
	if hints.Items == 0 {
		hints.Items = 1 << 6
	}
	if hints.Stmts == 0 {
		hints.Stmts = 1 << 8
	}
	if hints.Exprs == 0 {
		hints.Exprs = 1 << 9
	}
	if hints.Types == 0 {
		hints.Types = 1 << 6
	}
	if strings == nil {
		strings = source.NewInterner()
	}
	return &Builder{
		Files:   NewFiles(hints.Files),
		Items:   NewItems(hints.Items),
		Stmts:   NewStmts(hints.Stmts),
		Exprs:   NewExprs(hints.Exprs),
		Types:   NewTypeExprs(hints.Types),
		Strings: strings,
	}
}

func (b *Builder) NewFile(sp source.Span) FileID {
	return b.Files.New(sp)
}

func (b *Builder) PushItem(file FileID, item ItemID) {
	b.Files.Get(file).Items = append(b.Files.Get(file).Items, item)
}

func (b *Builder) PushStmt(file FileID, stmt StmtID) {
	b.Files.Get(file).Stmts = append(b.Files.Get(file).Stmts, stmt)
}

// PushDirective records a parsed #if/#elif condition.
func (b *Builder) PushDirective(file FileID, d DirectiveCond) {
	b.Files.Get(file).Directives = append(b.Files.Get(file).Directives, d)
}

// Name returns the interned text of id.
func (b *Builder) Name(id source.StringID) string {
	s, _ := b.Strings.Lookup(id)
	return s
}
