package types

import (
	"unparen/internal/ast"
	"unparen/internal/source"
)

// Env is the result of annotating one file: the type of every expression,
// the checked context per expression and the names declared in the file.
// A nil *Env answers "unknown" to every question.
type Env struct {
	types     map[ast.ExprID]Type
	checked   map[ast.ExprID]struct{}
	typeNames map[source.StringID]struct{}
	constants map[source.StringID]struct{}
}

func newEnv() *Env {
	return &Env{
		types:     make(map[ast.ExprID]Type),
		checked:   make(map[ast.ExprID]struct{}),
		typeNames: make(map[source.StringID]struct{}),
		constants: make(map[source.StringID]struct{}),
	}
}

// Kind returns the static kind of id.
func (e *Env) Kind(id ast.ExprID) Kind {
	if e == nil {
		return KindUnknown
	}
	return e.types[id].Kind
}

// Type returns the static type of id.
func (e *Env) Type(id ast.ExprID) Type {
	if e == nil {
		return Type{}
	}
	return e.types[id]
}

// Checked reports whether id is evaluated in a checked context:
// inside checked { } or checked(...) and not inside a nested unchecked.
func (e *Env) Checked(id ast.ExprID) bool {
	if e == nil {
		return false
	}
	_, ok := e.checked[id]
	return ok
}

// IsTypeName reports whether a class, struct, record, interface or enum named
// name is declared in the file.
func (e *Env) IsTypeName(name source.StringID) bool {
	if e == nil {
		return false
	}
	_, ok := e.typeNames[name]
	return ok
}

// IsConstant reports whether a const field, const local or enum member named name is declared in the file.
func (e *Env) IsConstant(name source.StringID) bool {
	if e == nil {
		return false
	}
	_, ok := e.constants[name]
	return ok
}

// Len returns the number of annotated expressions.
func (e *Env) Len() int {
	if e == nil {
		return 0
	}
	return len(e.types)
}
