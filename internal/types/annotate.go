package types

import (
	"context"

	"unparen/internal/ast"
	"unparen/internal/source"
)

// annotator walks one file keeping a stack of lexical scopes.
type annotator struct {
	b       *ast.Builder
	env     *Env
	scopes  []map[source.StringID]Type
	methods map[source.StringID]Type // имя метода -> тип возвращаемого значения
}

// Annotate computes the type of every expression in file. Declarations are
// collected first, so a field or method may be used before it is declared.
func Annotate(ctx context.Context, b *ast.Builder, file ast.FileID) (*Env, error) {
	a := &annotator{
		b:       b,
		env:     newEnv(),
		methods: make(map[source.StringID]Type),
	}
	f := b.Files.Get(file)
	if f == nil {
		return a.env, nil
	}
	a.push()
	for _, it := range f.Items {
		a.declare(it)
	}
	for _, it := range f.Items {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.item(it)
	}
	a.push()
	for _, st := range f.Stmts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		a.stmt(st, false)
	}
	a.pop()
	for _, d := range f.Directives {
		a.expr(d.Expr, false)
	}
	a.pop()
	return a.env, nil
}

func (a *annotator) push() {
	a.scopes = append(a.scopes, make(map[source.StringID]Type))
}

func (a *annotator) pop() {
	a.scopes = a.scopes[:len(a.scopes)-1]
}

func (a *annotator) bind(name source.StringID, t Type) {
	if name == source.NoStringID || len(a.scopes) == 0 {
		return
	}
	a.scopes[len(a.scopes)-1][name] = t
}

func (a *annotator) lookup(name source.StringID) (Type, bool) {
	for i := len(a.scopes) - 1; i >= 0; i-- {
		if t, ok := a.scopes[i][name]; ok {
			return t, true
		}
	}
	return Type{}, false
}

// declare collects type names, constants, members and method result types.
func (a *annotator) declare(id ast.ItemID) {
	items := a.b.Items
	it := items.Get(id)
	if it == nil {
		return
	}
	switch it.Kind {
	case ast.ItemNamespace:
		d, _ := items.Namespace(id)
		for _, m := range d.Items {
			a.declare(m)
		}
	case ast.ItemType:
		d, _ := items.Type(id)
		a.env.typeNames[d.Name] = struct{}{}
		for _, m := range d.Members {
			a.declare(m)
		}
	case ast.ItemField:
		d, _ := items.Field(id)
		t := a.typeOf(d.Type)
		if !d.Type.IsValid() {
			t = kindOnly(KindOther) // член enum
		}
		for _, decl := range d.Decls {
			if d.IsConst {
				a.env.constants[decl.Name] = struct{}{}
			}
			a.bind(decl.Name, t)
		}
	case ast.ItemProperty:
		d, _ := items.Property(id)
		a.bind(d.Name, a.typeOf(d.Type))
	case ast.ItemMethod:
		d, _ := items.Method(id)
		if d.ReturnType.IsValid() && d.Operator == 0 {
			a.methods[d.Name] = a.typeOf(d.ReturnType)
		}
	}
}

func (a *annotator) item(id ast.ItemID) {
	items := a.b.Items
	it := items.Get(id)
	if it == nil {
		return
	}
	switch it.Kind {
	case ast.ItemNamespace:
		d, _ := items.Namespace(id)
		for _, m := range d.Items {
			a.item(m)
		}
	case ast.ItemType:
		d, _ := items.Type(id)
		for _, m := range d.Members {
			a.item(m)
		}
	case ast.ItemField:
		d, _ := items.Field(id)
		for _, decl := range d.Decls {
			a.expr(decl.Init, false)
		}
	case ast.ItemProperty:
		d, _ := items.Property(id)
		a.push()
		a.bind(a.b.Strings.Intern("value"), a.typeOf(d.Type))
		a.expr(d.ExprBody, false)
		for _, acc := range d.Accessors {
			a.stmt(acc, false)
		}
		a.pop()
		a.expr(d.Init, false)
	case ast.ItemMethod:
		d, _ := items.Method(id)
		a.push()
		for _, p := range d.Params {
			a.expr(p.Default, false)
			a.bind(p.Name, a.typeOf(p.Type))
		}
		a.expr(d.ExprBody, false)
		a.stmt(d.Body, false)
		a.pop()
	}
}

func (a *annotator) stmt(id ast.StmtID, checked bool) {
	stmts := a.b.Stmts
	st := stmts.Get(id)
	if st == nil {
		return
	}
	switch st.Kind {
	case ast.StmtBlock:
		d, _ := stmts.Block(id)
		a.push()
		for _, s := range d.Stmts {
			a.stmt(s, checked)
		}
		a.pop()
	case ast.StmtLocal:
		d, _ := stmts.Local(id)
		for _, decl := range d.Decls {
			t := a.expr(decl.Init, checked)
			if declared := a.typeOf(d.Type); declared.Kind.Known() {
				t = declared
			}
			if d.IsConst {
				a.env.constants[decl.Name] = struct{}{}
			}
			a.bind(decl.Name, t)
		}
	case ast.StmtExpr, ast.StmtReturn, ast.StmtThrow:
		d, _ := stmts.ExprStmt(id)
		a.expr(d.Expr, checked)
	case ast.StmtIf:
		d, _ := stmts.If(id)
		a.expr(d.Cond, checked)
		a.stmt(d.Then, checked)
		a.stmt(d.Else, checked)
	case ast.StmtWhile:
		d, _ := stmts.While(id)
		a.expr(d.Cond, checked)
		a.stmt(d.Body, checked)
	case ast.StmtSwitch:
		d, _ := stmts.Switch(id)
		a.expr(d.Value, checked)
		for _, sec := range d.Sections {
			a.push()
			for _, l := range sec.Labels {
				a.expr(l.Pattern, checked)
				a.expr(l.When, checked)
			}
			for _, s := range sec.Body {
				a.stmt(s, checked)
			}
			a.pop()
		}
	case ast.StmtChecked, ast.StmtUnsafe:
		d, _ := stmts.Checked(id)
		inner := checked
		if st.Kind == ast.StmtChecked {
			inner = d.Checked
		}
		a.stmt(d.Body, inner)
	}
}

// expr annotates id and its subtree and returns the type of id.
func (a *annotator) expr(id ast.ExprID, checked bool) Type {
	exprs := a.b.Exprs
	e := exprs.Get(id)
	if !id.IsValid() || e == nil {
		return Type{}
	}
	if checked {
		a.env.checked[id] = struct{}{}
	}
	inner := checked
	if d, ok := exprs.Checked(id); ok {
		inner = d.Checked
	}

	if d, ok := exprs.Lambda(id); ok {
		a.push()
		for _, p := range d.Params {
			a.bind(p.Name, a.typeOf(p.Type))
		}
		a.expr(d.Body, inner)
		a.stmt(d.Block, inner)
		a.pop()
		return Type{}
	}

	for _, s := range ast.Children(exprs, id) {
		a.expr(s.Expr, inner)
	}
	t := a.typeFor(id, e)
	a.env.types[id] = t
	return t
}


// typeFor derives the type of id from its already annotated children.
func (a *annotator) typeFor(id ast.ExprID, e *ast.Expr) Type {
	exprs := a.b.Exprs
	known := a.env.types
	switch e.Kind {
	case ast.ExprIdent:
		d, _ := exprs.Ident(id)
		if t, ok := a.lookup(d.Name); ok {
			return t
		}
		return Type{}

	case ast.ExprLit:
		d, _ := exprs.Literal(id)
		switch d.Kind {
		case ast.ExprLitInt, ast.ExprLitReal:
			text := a.b.Name(d.Value)
			k := Literal(text, d.Kind == ast.ExprLitReal)
			if k == KindIntegral {
				return integral(LiteralIntegral(text))
			}
			return kindOnly(k)
		case ast.ExprLitChar:
			return integral(IntegralChar)
		case ast.ExprLitString:
			return kindOnly(KindString)
		case ast.ExprLitTrue, ast.ExprLitFalse:
			return kindOnly(KindBoolean)
		}
		return Type{}

	case ast.ExprThis, ast.ExprTypeof, ast.ExprArrayNew, ast.ExprStackalloc, ast.ExprCollection,
		ast.ExprTuple, ast.ExprInitializer, ast.ExprRange, ast.ExprQuery:
		return kindOnly(KindOther)

	case ast.ExprSizeof:
		return integral(IntegralInt)

	case ast.ExprInterpolated:
		return kindOnly(KindString)

	case ast.ExprMember:
		return a.memberType(id)

	case ast.ExprCall:
		d, _ := exprs.Call(id)
		if ident, ok := exprs.Ident(d.Target); ok {
			if a.b.Name(ident.Name) == "nameof" {
				return kindOnly(KindString)
			}
			return a.methods[ident.Name]
		}
		if m, ok := exprs.Member(d.Target); ok {
			if recv := a.receiverType(m.Target); recv.Kind.Known() && a.b.Name(m.Name) == "Parse" {
				return recv
			}
		}
		return Type{}

	case ast.ExprIndex:
		d, _ := exprs.Call(id)
		if known[d.Target].Kind == KindString {
			return integral(IntegralChar)
		}
		return Type{}

	case ast.ExprPostfix, ast.ExprUnary, ast.ExprRef:
		d, _ := exprs.Unary(id)
		return UnaryType(d.Op, known[d.Operand])

	case ast.ExprNew:
		d, _ := exprs.New(id)
		if d.Kind == ast.NewObject {
			return a.typeOf(d.Type)
		}
		return kindOnly(KindOther)

	case ast.ExprDefault:
		d, _ := exprs.TypeOp(id)
		return a.typeOf(d.Type)

	case ast.ExprChecked:
		d, _ := exprs.Checked(id)
		return known[d.Inner]

	case ast.ExprDeclaration:
		d, _ := exprs.Declaration(id)
		a.bind(d.Name, a.typeOf(d.Type))
		return Type{}

	case ast.ExprCast:
		d, _ := exprs.Cast(id)
		return a.typeOf(d.Type)

	case ast.ExprBinary, ast.ExprAssign:
		d, _ := exprs.Binary(id)
		return BinaryType(d.Op, known[d.Left], known[d.Right])

	case ast.ExprIs:
		return kindOnly(KindBoolean)

	case ast.ExprAs:
		d, _ := exprs.As(id)
		return a.typeOf(d.Type)

	case ast.ExprConditional:
		d, _ := exprs.Conditional(id)
		t, f := known[d.Then], known[d.Else]
		if t == f {
			return t
		}
		if t.Kind.Numeric() && f.Kind.Numeric() {
			k := promote(t.Kind, f.Kind)
			if k == KindIntegral && t.Kind == KindIntegral && f.Kind == KindIntegral {
				return integral(PromoteIntegral(t.Int, f.Int))
			}
			return kindOnly(k)
		}
		return Type{}

	case ast.ExprSwitch:
		d, _ := exprs.Switch(id)
		var t Type
		for i, arm := range d.Arms {
			if i == 0 {
				t = known[arm.Value]
			} else if known[arm.Value] != t {
				return Type{}
			}
		}
		return t

	case ast.ExprGroup:
		d, _ := exprs.Group(id)
		return known[d.Inner]

	case ast.PatDeclaration:
		d, _ := exprs.Pattern(id)
		a.bind(d.Name, a.typeOf(d.Type))

	case ast.PatRecursive:
		d, _ := exprs.RecursivePattern(id)
		a.bind(d.Name, a.typeOf(d.Type))
	}
	return Type{}
}

// memberType handles int.MaxValue, double.NaN, string.Empty and s.Length.
func (a *annotator) memberType(id ast.ExprID) Type {
	d, _ := a.b.Exprs.Member(id)
	name := a.b.Name(d.Name)
	recv := a.receiverType(d.Target)
	switch name {
	case "MaxValue", "MinValue", "Epsilon", "NaN", "PositiveInfinity", "NegativeInfinity", "Zero", "One":
		if recv.Kind.Numeric() {
			return recv
		}
	case "Empty":
		if recv.Kind == KindString {
			return recv
		}
	case "Length", "Count":
		if a.env.types[d.Target].Kind == KindString {
			return integral(IntegralInt)
		}
	}
	return Type{}
}

// receiverType returns the type named by a type receiver: int in int.MaxValue
// or Int32 in Int32.MaxValue. Values are not type receivers.
func (a *annotator) receiverType(id ast.ExprID) Type {
	exprs := a.b.Exprs
	if d, ok := exprs.TypeOp(id); ok && exprs.Get(id).Kind == ast.ExprPredefined {
		return a.typeOf(d.Type)
	}
	if d, ok := exprs.Ident(id); ok {
		if _, bound := a.lookup(d.Name); bound {
			return Type{}
		}
		if t, ok := wellKnownType(a.b.Name(d.Name)); ok {
			return t
		}
	}
	if d, ok := exprs.Member(id); ok {
		// System.Int32.MaxValue
		if t, ok := wellKnownType(a.b.Name(d.Name)); ok {
			return t
		}
	}
	return Type{}
}

// typeOf classifies a type syntax node.
func (a *annotator) typeOf(id ast.TypeID) Type {
	types := a.b.Types
	te := types.Get(id)
	if !id.IsValid() || te == nil {
		return Type{}
	}
	switch te.Kind {
	case ast.TypeExprPredefined:
		k := Predefined(te.Keyword)
		if k == KindIntegral {
			return integral(PredefinedIntegral(te.Keyword))
		}
		return kindOnly(k)
	case ast.TypeExprName, ast.TypeExprQualified, ast.TypeExprAliasQualified:
		if len(te.Args) > 0 {
			return kindOnly(KindOther)
		}
		name := a.b.Name(te.Name)
		if name == "var" && te.Kind == ast.TypeExprName {
			return Type{}
		}
		if _, ok := a.env.typeNames[te.Name]; ok {
			return kindOnly(KindOther)
		}
		return Named(name)
	case ast.TypeExprNullable:
		return a.typeOf(te.Elem)
	}
	return kindOnly(KindOther)
}
