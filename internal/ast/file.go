package ast

import (
	"unparen/internal/source"
)

// File is the root of one parsed source file.
type File struct {
	Span       source.Span
	Items      []ItemID
	Stmts      []StmtID // top-level statements
	Directives []DirectiveCond
}

type Files struct {
	Arena *Arena[File]
}

func NewFiles(capHint uint) *Files {
	return &Files{
		Arena: NewArena[File](capHint),
	}
}

func (f *Files) New(sp source.Span) FileID {
	return FileID(f.Arena.Allocate(File{
		Span:       sp,
		Items:      make([]ItemID, 0),
		Directives: make([]DirectiveCond, 0),
	}))
}

func (f *Files) Get(id FileID) *File {
	return f.Arena.Get(uint32(id))
}
