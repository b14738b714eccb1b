package ast

import (
	"slices"

	"unparen/internal/source"
)

type StmtKind uint8

const (
	StmtBlock StmtKind = iota
	// StmtLocal declares locals: int x = 1, y; const int K = 2; var z = e.
	StmtLocal
	StmtExpr
	StmtReturn
	StmtThrow
	StmtIf
	StmtWhile
	StmtSwitch
	// StmtChecked is checked { } or unchecked { }.
	StmtChecked
	// StmtUnsafe is unsafe { }.
	StmtUnsafe
	StmtBreak
	StmtEmpty
	StmtBad
)

type Stmt struct {
	Kind    StmtKind
	Span    source.Span
	Payload PayloadID
}

// VarDecl is one declarator: Name = Init. Init is NoExprID when absent.
type VarDecl struct {
	Name     source.StringID
	NameSpan source.Span
	Init     ExprID
}

type StmtBlockData struct {
	Stmts []StmtID
}

// StmtLocalData holds a local declaration; Type is NoTypeID for var.
type StmtLocalData struct {
	Type    TypeID
	IsConst bool
	Decls   []VarDecl
}

// StmtExprData holds the expression of StmtExpr, StmtReturn and StmtThrow.
type StmtExprData struct {
	Expr ExprID
}

type StmtIfData struct {
	Cond ExprID
	Then StmtID
	Else StmtID
}

type StmtWhileData struct {
	Cond ExprID
	Body StmtID
}

// CaseLabel is "case pattern when guard:" or "default:" (Pattern == NoExprID).
type CaseLabel struct {
	Pattern ExprID
	When    ExprID
	Span    source.Span
}

type SwitchSection struct {
	Labels []CaseLabel
	Body   []StmtID
}

type StmtSwitchData struct {
	Value    ExprID
	Sections []SwitchSection
}

// StmtCheckedData holds checked/unchecked/unsafe blocks.
type StmtCheckedData struct {
	Checked bool
	Body    StmtID
}

type Stmts struct {
	Arena    *Arena[Stmt]
	Blocks   *Arena[StmtBlockData]
	Locals   *Arena[StmtLocalData]
	Exprs    *Arena[StmtExprData]
	Ifs      *Arena[StmtIfData]
	Whiles   *Arena[StmtWhileData]
	Switches *Arena[StmtSwitchData]
	Checkeds *Arena[StmtCheckedData]
}

func NewStmts(capHint uint) *Stmts {
	if capHint == 0 {
		capHint = 1 << 8
	}
	return &Stmts{
		Arena:    NewArena[Stmt](capHint),
		Blocks:   NewArena[StmtBlockData](capHint / 4),
		Locals:   NewArena[StmtLocalData](capHint / 4),
		Exprs:    NewArena[StmtExprData](capHint / 2),
		Ifs:      NewArena[StmtIfData](capHint / 8),
		Whiles:   NewArena[StmtWhileData](capHint / 8),
		Switches: NewArena[StmtSwitchData](capHint / 8),
		Checkeds: NewArena[StmtCheckedData](capHint / 8),
	}
}

func (s *Stmts) new(kind StmtKind, span source.Span, payload uint32) StmtID {
	return StmtID(s.Arena.Allocate(Stmt{
		Kind:    kind,
		Span:    span,
		Payload: PayloadID(payload),
	}))
}

func (s *Stmts) Get(id StmtID) *Stmt {
	return s.Arena.Get(uint32(id))
}

func stmtPayload[T any](s *Stmts, a *Arena[T], id StmtID, kinds ...StmtKind) (*T, bool) {
	st := s.Get(id)
	if st == nil || !slices.Contains(kinds, st.Kind) {
		return nil, false
	}
	return a.Get(uint32(st.Payload)), true
}

// NewSimple creates a statement without payload (break, empty, bad).
func (s *Stmts) NewSimple(kind StmtKind, span source.Span) StmtID {
	return s.new(kind, span, 0)
}

func (s *Stmts) NewBlock(span source.Span, stmts []StmtID) StmtID {
	return s.new(StmtBlock, span, s.Blocks.Allocate(StmtBlockData{Stmts: slices.Clone(stmts)}))
}

func (s *Stmts) Block(id StmtID) (*StmtBlockData, bool) {
	return stmtPayload(s, s.Blocks, id, StmtBlock)
}

func (s *Stmts) NewLocal(span source.Span, data StmtLocalData) StmtID {
	data.Decls = slices.Clone(data.Decls)
	return s.new(StmtLocal, span, s.Locals.Allocate(data))
}

func (s *Stmts) Local(id StmtID) (*StmtLocalData, bool) {
	return stmtPayload(s, s.Locals, id, StmtLocal)
}

// NewExprStmt creates StmtExpr, StmtReturn or StmtThrow.
func (s *Stmts) NewExprStmt(kind StmtKind, span source.Span, expr ExprID) StmtID {
	return s.new(kind, span, s.Exprs.Allocate(StmtExprData{Expr: expr}))
}

func (s *Stmts) ExprStmt(id StmtID) (*StmtExprData, bool) {
	return stmtPayload(s, s.Exprs, id, StmtExpr, StmtReturn, StmtThrow)
}

func (s *Stmts) NewIf(span source.Span, data StmtIfData) StmtID {
	return s.new(StmtIf, span, s.Ifs.Allocate(data))
}

func (s *Stmts) If(id StmtID) (*StmtIfData, bool) {
	return stmtPayload(s, s.Ifs, id, StmtIf)
}

func (s *Stmts) NewWhile(span source.Span, data StmtWhileData) StmtID {
	return s.new(StmtWhile, span, s.Whiles.Allocate(data))
}

func (s *Stmts) While(id StmtID) (*StmtWhileData, bool) {
	return stmtPayload(s, s.Whiles, id, StmtWhile)
}

func (s *Stmts) NewSwitch(span source.Span, data StmtSwitchData) StmtID {
	data.Sections = slices.Clone(data.Sections)
	return s.new(StmtSwitch, span, s.Switches.Allocate(data))
}

func (s *Stmts) Switch(id StmtID) (*StmtSwitchData, bool) {
	return stmtPayload(s, s.Switches, id, StmtSwitch)
}

// NewChecked creates StmtChecked or StmtUnsafe.
func (s *Stmts) NewChecked(kind StmtKind, span source.Span, checked bool, body StmtID) StmtID {
	return s.new(kind, span, s.Checkeds.Allocate(StmtCheckedData{Checked: checked, Body: body}))
}

func (s *Stmts) Checked(id StmtID) (*StmtCheckedData, bool) {
	return stmtPayload(s, s.Checkeds, id, StmtChecked, StmtUnsafe)
}
