package parens

import (
	"unparen/internal/ast"
	"unparen/internal/source"
	"unparen/internal/types"
)

// link records where an expression sits.
type link struct {
	parent  ast.ExprID
	slot    ast.Slot
	stmt    ast.StmtID
	checked bool
}

// Tree is one parsed and annotated file prepared for analysis.
// It is read-only after NewTree and safe for concurrent analyzers.
type Tree struct {
	b      *ast.Builder
	src    *source.File
	env    *types.Env
	links  map[ast.ExprID]link
	groups []ast.ExprID
}

// NewTree indexes file. env may be nil, in which case every operand kind is unknown.
func NewTree(b *ast.Builder, file ast.FileID, src *source.File, env *types.Env) *Tree {
	t := &Tree{
		b:     b,
		src:   src,
		env:   env,
		links: make(map[ast.ExprID]link, b.Exprs.Len()),
	}
	// Walk не возвращает ошибок, пока их не возвращает колбэк
	_ = ast.Walk(b, file, func(v ast.Visit) error {
		t.links[v.Slot.Expr] = link{parent: v.Parent, slot: v.Slot, stmt: v.Stmt, checked: v.Checked}
		if b.Exprs.Get(v.Slot.Expr).Kind == ast.ExprGroup {
			t.groups = append(t.groups, v.Slot.Expr)
		}
		return nil
	})
	return t
}

// Groups returns every parenthesized node in pre-order.
func (t *Tree) Groups() []ast.ExprID {
	return t.groups
}

func (t *Tree) Builder() *ast.Builder { return t.b }
func (t *Tree) Source() *source.File  { return t.src }
func (t *Tree) Env() *types.Env       { return t.env }

// Context is the position of a group as the analyzer sees it.
type Context struct {
	// Parent is NoExprID when the group is the whole expression of a statement,
	// declaration or directive.
	Parent ast.ExprID
	// Slot.Expr is the node that occupies the position: the group itself, or
	// the outermost removed group around it.
	Slot    ast.Slot
	Stmt    ast.StmtID
	Checked bool
}

// IsRoot reports whether the group has no parent expression.
func (c Context) IsRoot() bool {
	return !c.Parent.IsValid()
}

// overlay is the set of groups already removed by a fix-all run.
type overlay struct {
	removed map[ast.ExprID]struct{}
	// opens индексирует открывающие скобки удалённых групп по смещению
	opens map[uint32]ast.ExprID
	order []ast.ExprID
}

func newOverlay() *overlay {
	return &overlay{
		removed: make(map[ast.ExprID]struct{}),
		opens:   make(map[uint32]ast.ExprID),
	}
}

func (o *overlay) has(id ast.ExprID) bool {
	if o == nil {
		return false
	}
	_, ok := o.removed[id]
	return ok
}

func (o *overlay) add(id ast.ExprID, open source.Span) {
	o.removed[id] = struct{}{}
	o.opens[open.Start] = id
	o.order = append(o.order, id)
}

// contextOf climbs out of removed groups so that a group nested in removed
// ones sees the first surviving parent.
func (t *Tree) contextOf(id ast.ExprID, ov *overlay) Context {
	l := t.links[id]
	for l.parent.IsValid() && ov.has(l.parent) {
		l = t.links[l.parent]
	}
	return Context{Parent: l.parent, Slot: l.slot, Stmt: l.stmt, Checked: l.checked}
}

// see looks through removed groups and returns the node that is visible at id.
func (t *Tree) see(id ast.ExprID, ov *overlay) ast.ExprID {
	for ov.has(id) {
		d, _ := t.b.Exprs.Group(id)
		id = d.Inner
	}
	return id
}

// prevByte returns the byte that will precede offset off once the open
// delimiters of removed groups are gone; 0 at the start of the file.
func (t *Tree) prevByte(off uint32, ov *overlay) byte {
	for off > 0 {
		if ov != nil {
			if _, ok := ov.opens[off-1]; ok {
				off--
				continue
			}
		}
		return t.src.Content[off-1]
	}
	return 0
}

// firstByte returns the first source byte of id.
func (t *Tree) firstByte(id ast.ExprID) byte {
	e := t.b.Exprs.Get(id)
	if e == nil || int(e.Span.Start) >= len(t.src.Content) {
		return 0
	}
	return t.src.Content[e.Span.Start]
}
