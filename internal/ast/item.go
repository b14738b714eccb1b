package ast

import (
	"slices"

	"unparen/internal/source"
	"unparen/internal/token"
)

type ItemKind uint8

const (
	ItemNamespace ItemKind = iota
	// ItemType covers class, struct, record and interface declarations.
	ItemType
	// ItemField covers fields and const fields.
	ItemField
	// ItemMethod covers methods, constructors and user-defined operators.
	ItemMethod
	ItemProperty
)

type Item struct {
	Kind    ItemKind
	Span    source.Span
	Payload PayloadID
}

// Param is a method parameter.
type Param struct {
	Name     source.StringID
	Type     TypeID
	Modifier token.Kind // KwRef, KwOut, KwIn, Ident("params"/"this") or Invalid
	Default  ExprID
}

type NamespaceItem struct {
	Name  source.StringID
	Items []ItemID
}

type TypeItem struct {
	Keyword token.Kind // KwClass, KwStruct, or Ident for record/interface
	Name    source.StringID
	Members []ItemID
}

type FieldItem struct {
	Type    TypeID
	IsConst bool
	Decls   []VarDecl
}

// MethodItem holds a method; exactly one of Body and ExprBody is set for
// methods with an implementation. Operator is set for "operator +" declarations.
type MethodItem struct {
	Name       source.StringID
	ReturnType TypeID
	Params     []Param
	Body       StmtID
	ExprBody   ExprID
	Operator   token.Kind
	IsStatic   bool
}

// PropertyItem holds "T P => e;", "T P { get; set; } = e;" or accessors with bodies.
type PropertyItem struct {
	Name      source.StringID
	Type      TypeID
	ExprBody  ExprID
	Accessors []StmtID
	Init      ExprID
}

type Items struct {
	Arena      *Arena[Item]
	Namespaces *Arena[NamespaceItem]
	Types      *Arena[TypeItem]
	Fields     *Arena[FieldItem]
	Methods    *Arena[MethodItem]
	Properties *Arena[PropertyItem]
}

// NewItems creates and returns an *Items with per-kind arenas initialized to capHint.
// If capHint is 0, NewItems uses a default initial capacity of 1<<7.
func NewItems(capHint uint) *Items {
	if capHint == 0 {
		capHint = 1 << 7
	}
	return &Items{
		Arena:      NewArena[Item](capHint),
		Namespaces: NewArena[NamespaceItem](4),
		Types:      NewArena[TypeItem](capHint / 4),
		Fields:     NewArena[FieldItem](capHint / 2),
		Methods:    NewArena[MethodItem](capHint / 2),
		Properties: NewArena[PropertyItem](capHint / 4),
	}
}

func (i *Items) new(kind ItemKind, span source.Span, payload uint32) ItemID {
	return ItemID(i.Arena.Allocate(Item{Kind: kind, Span: span, Payload: PayloadID(payload)}))
}

func (i *Items) Get(id ItemID) *Item {
	return i.Arena.Get(uint32(id))
}

func itemPayload[T any](i *Items, a *Arena[T], id ItemID, kind ItemKind) (*T, bool) {
	it := i.Get(id)
	if it == nil || it.Kind != kind {
		return nil, false
	}
	return a.Get(uint32(it.Payload)), true
}

func (i *Items) NewNamespace(span source.Span, name source.StringID, items []ItemID) ItemID {
	return i.new(ItemNamespace, span, i.Namespaces.Allocate(NamespaceItem{Name: name, Items: slices.Clone(items)}))
}

func (i *Items) Namespace(id ItemID) (*NamespaceItem, bool) {
	return itemPayload(i, i.Namespaces, id, ItemNamespace)
}

func (i *Items) NewType(span source.Span, data TypeItem) ItemID {
	data.Members = slices.Clone(data.Members)
	return i.new(ItemType, span, i.Types.Allocate(data))
}

func (i *Items) Type(id ItemID) (*TypeItem, bool) {
	return itemPayload(i, i.Types, id, ItemType)
}

func (i *Items) NewField(span source.Span, data FieldItem) ItemID {
	data.Decls = slices.Clone(data.Decls)
	return i.new(ItemField, span, i.Fields.Allocate(data))
}

func (i *Items) Field(id ItemID) (*FieldItem, bool) {
	return itemPayload(i, i.Fields, id, ItemField)
}

func (i *Items) NewMethod(span source.Span, data MethodItem) ItemID {
	data.Params = slices.Clone(data.Params)
	return i.new(ItemMethod, span, i.Methods.Allocate(data))
}

func (i *Items) Method(id ItemID) (*MethodItem, bool) {
	return itemPayload(i, i.Methods, id, ItemMethod)
}

func (i *Items) NewProperty(span source.Span, data PropertyItem) ItemID {
	data.Accessors = slices.Clone(data.Accessors)
	return i.new(ItemProperty, span, i.Properties.Allocate(data))
}

func (i *Items) Property(id ItemID) (*PropertyItem, bool) {
	return itemPayload(i, i.Properties, id, ItemProperty)
}
