package ast

import (
	"slices"

	"unparen/internal/source"
	"unparen/internal/token"
)

// TypeExprKind is the syntactic shape of a type.
type TypeExprKind uint8

const (
	// TypeExprPredefined is int, string, object, ...
	TypeExprPredefined TypeExprKind = iota
	// TypeExprName is a simple name, optionally generic: T, List<int>.
	TypeExprName
	// TypeExprQualified is Left.Name: System.Int32, A.B<T>.
	TypeExprQualified
	// TypeExprAliasQualified is Alias::Name: global::System.
	TypeExprAliasQualified
	TypeExprArray
	TypeExprPointer
	TypeExprNullable
	TypeExprTuple
)

var typeExprKindNames = [...]string{
	TypeExprPredefined: "Predefined", TypeExprName: "Name", TypeExprQualified: "Qualified",
	TypeExprAliasQualified: "AliasQualified", TypeExprArray: "Array", TypeExprPointer: "Pointer",
	TypeExprNullable: "Nullable", TypeExprTuple: "Tuple",
}

func (k TypeExprKind) String() string {
	if int(k) < len(typeExprKindNames) {
		return typeExprKindNames[k]
	}
	return "TypeExprKind(?)"
}

// TypeExpr is one node of a type syntax tree. Fields are used per kind:
//   - Predefined: Keyword
//   - Name: Name, Args
//   - Qualified: Left, Name, Args
//   - AliasQualified: Alias, Name, Args
//   - Array: Elem, Rank
//   - Pointer, Nullable: Elem
//   - Tuple: Args (elements), Names
type TypeExpr struct {
	Kind    TypeExprKind
	Span    source.Span
	Keyword token.Kind
	Name    source.StringID
	Alias   source.StringID
	Left    TypeID
	Elem    TypeID
	Args    []TypeID
	Names   []source.StringID
	Rank    int
}

type TypeExprs struct {
	Arena *Arena[TypeExpr]
}

func NewTypeExprs(capHint uint) *TypeExprs {
	return &TypeExprs{
		Arena: NewArena[TypeExpr](capHint),
	}
}

func (t *TypeExprs) New(te TypeExpr) TypeID {
	te.Args = slices.Clone(te.Args)
	te.Names = slices.Clone(te.Names)
	return TypeID(t.Arena.Allocate(te))
}

func (t *TypeExprs) Get(id TypeID) *TypeExpr {
	return t.Arena.Get(uint32(id))
}

// IsGeneric reports whether the outermost named part carries type arguments.
func (t *TypeExprs) IsGeneric(id TypeID) bool {
	te := t.Get(id)
	if te == nil {
		return false
	}
	switch te.Kind {
	case TypeExprName, TypeExprQualified, TypeExprAliasQualified:
		return len(te.Args) > 0
	}
	return false
}

// HasAliasRoot reports whether a qualified name starts with Alias::, as in global::A.B.
func (t *TypeExprs) HasAliasRoot(id TypeID) bool {
	for te := t.Get(id); te != nil; te = t.Get(te.Left) {
		switch te.Kind {
		case TypeExprAliasQualified:
			return true
		case TypeExprQualified:
			continue
		}
		return false
	}
	return false
}

// IsDottedPlain reports a qualified name with no type arguments anywhere along its spine.
func (t *TypeExprs) IsDottedPlain(id TypeID) bool {
	te := t.Get(id)
	if te == nil || te.Kind != TypeExprQualified {
		return false
	}
	for ; te != nil; te = t.Get(te.Left) {
		if len(te.Args) > 0 {
			return false
		}
		if te.Kind != TypeExprQualified {
			break
		}
	}
	return true
}
