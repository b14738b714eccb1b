package ast

import "unparen/internal/source"

// DirectiveCond is the parsed condition of an #if or #elif line.
type DirectiveCond struct {
	Name string // "if" или "elif"
	Expr ExprID
	Span source.Span // span of the whole directive line
}
