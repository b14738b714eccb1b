package ast

// Visit describes one expression position met during Walk.
type Visit struct {
	// Parent is NoExprID when the slot belongs to a statement, declaration or directive.
	Parent ExprID
	Slot   Slot
	// Stmt is the innermost enclosing statement, NoStmtID at declaration level.
	Stmt StmtID
	// Checked is true inside checked { } or checked(...) and false again inside unchecked.
	Checked bool
}

// WalkFunc is called in pre-order for every expression. A non-nil error stops the walk.
type WalkFunc func(v Visit) error

type walker struct {
	b  *Builder
	fn WalkFunc
}

// Walk visits every expression of file in document order: declarations and
// statements first-to-last, then #if/#elif conditions.
func Walk(b *Builder, file FileID, fn WalkFunc) error {
	f := b.Files.Get(file)
	if f == nil {
		return nil
	}
	w := walker{b: b, fn: fn}
	for _, it := range f.Items {
		if err := w.item(it); err != nil {
			return err
		}
	}
	for _, st := range f.Stmts {
		if err := w.stmt(st, false); err != nil {
			return err
		}
	}
	for i, d := range f.Directives {
		if err := w.root(SlotDirective, d.Expr, i, NoStmtID, false); err != nil {
			return err
		}
	}
	return nil
}

// WalkExpr visits id and its subtree as if it occupied slot under parent.
func WalkExpr(b *Builder, parent ExprID, slot Slot, fn WalkFunc) error {
	w := walker{b: b, fn: fn}
	return w.expr(Visit{Parent: parent, Slot: slot})
}

func (w *walker) root(role SlotRole, id ExprID, index int, stmt StmtID, checked bool) error {
	if !id.IsValid() {
		return nil
	}
	return w.expr(Visit{Slot: Slot{Role: role, Expr: id, Index: index}, Stmt: stmt, Checked: checked})
}

func (w *walker) expr(v Visit) error {
	if err := w.fn(v); err != nil {
		return err
	}
	id := v.Slot.Expr
	checked := v.Checked
	if d, ok := w.b.Exprs.Checked(id); ok {
		checked = d.Checked
	}
	for _, s := range Children(w.b.Exprs, id) {
		if err := w.expr(Visit{Parent: id, Slot: s, Stmt: v.Stmt, Checked: checked}); err != nil {
			return err
		}
	}
	if d, ok := w.b.Exprs.Lambda(id); ok && d.Block.IsValid() {
		return w.stmt(d.Block, checked)
	}
	return nil
}

func (w *walker) item(id ItemID) error {
	items := w.b.Items
	it := items.Get(id)
	if it == nil {
		return nil
	}
	switch it.Kind {
	case ItemNamespace:
		d, _ := items.Namespace(id)
		for _, m := range d.Items {
			if err := w.item(m); err != nil {
				return err
			}
		}
	case ItemType:
		d, _ := items.Type(id)
		for _, m := range d.Members {
			if err := w.item(m); err != nil {
				return err
			}
		}
	case ItemField:
		d, _ := items.Field(id)
		for i, decl := range d.Decls {
			if err := w.root(SlotFieldInit, decl.Init, i, NoStmtID, false); err != nil {
				return err
			}
		}
	case ItemMethod:
		d, _ := items.Method(id)
		for i, p := range d.Params {
			if err := w.root(SlotParamDefault, p.Default, i, NoStmtID, false); err != nil {
				return err
			}
		}
		if err := w.root(SlotExprBody, d.ExprBody, 0, NoStmtID, false); err != nil {
			return err
		}
		if d.Body.IsValid() {
			return w.stmt(d.Body, false)
		}
	case ItemProperty:
		d, _ := items.Property(id)
		if err := w.root(SlotExprBody, d.ExprBody, 0, NoStmtID, false); err != nil {
			return err
		}
		for _, acc := range d.Accessors {
			if err := w.stmt(acc, false); err != nil {
				return err
			}
		}
		return w.root(SlotFieldInit, d.Init, 0, NoStmtID, false)
	}
	return nil
}

func (w *walker) stmts(list []StmtID, checked bool) error {
	for _, st := range list {
		if err := w.stmt(st, checked); err != nil {
			return err
		}
	}
	return nil
}

func (w *walker) stmt(id StmtID, checked bool) error {
	stmts := w.b.Stmts
	st := stmts.Get(id)
	if st == nil {
		return nil
	}
	switch st.Kind {
	case StmtBlock:
		d, _ := stmts.Block(id)
		return w.stmts(d.Stmts, checked)
	case StmtLocal:
		d, _ := stmts.Local(id)
		for i, decl := range d.Decls {
			if err := w.root(SlotLocalInit, decl.Init, i, id, checked); err != nil {
				return err
			}
		}
	case StmtExpr, StmtReturn, StmtThrow:
		d, _ := stmts.ExprStmt(id)
		role := SlotExprStmt
		switch st.Kind {
		case StmtReturn:
			role = SlotReturn
		case StmtThrow:
			role = SlotThrowStmt
		}
		return w.root(role, d.Expr, 0, id, checked)
	case StmtIf:
		d, _ := stmts.If(id)
		if err := w.root(SlotStmtCond, d.Cond, 0, id, checked); err != nil {
			return err
		}
		if err := w.stmt(d.Then, checked); err != nil {
			return err
		}
		return w.stmt(d.Else, checked)
	case StmtWhile:
		d, _ := stmts.While(id)
		if err := w.root(SlotStmtCond, d.Cond, 0, id, checked); err != nil {
			return err
		}
		return w.stmt(d.Body, checked)
	case StmtSwitch:
		d, _ := stmts.Switch(id)
		if err := w.root(SlotSwitchStmtValue, d.Value, 0, id, checked); err != nil {
			return err
		}
		for i, sec := range d.Sections {
			for _, l := range sec.Labels {
				if err := w.root(SlotCaseLabel, l.Pattern, i, id, checked); err != nil {
					return err
				}
				if err := w.root(SlotCaseWhen, l.When, i, id, checked); err != nil {
					return err
				}
			}
			if err := w.stmts(sec.Body, checked); err != nil {
				return err
			}
		}
	case StmtChecked, StmtUnsafe:
		d, _ := stmts.Checked(id)
		inner := checked
		if st.Kind == StmtChecked {
			inner = d.Checked
		}
		return w.stmt(d.Body, inner)
	case StmtBreak, StmtEmpty, StmtBad:
	}
	return nil
}
