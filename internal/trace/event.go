package trace

import "time"

// Kind represents the type of trace event.
type Kind uint8

const (
	KindSpanBegin Kind = iota + 1
	KindSpanEnd
	// KindPoint is an instant event, e.g. one group verdict.
	KindPoint
	// KindHeartbeat is the periodic liveness signal listing the files in flight.
	KindHeartbeat
)

var kindNames = [...]string{
	KindSpanBegin: "begin",
	KindSpanEnd:   "end",
	KindPoint:     "point",
	KindHeartbeat: "heartbeat",
}

func (k Kind) String() string {
	if k > 0 && int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "unknown"
}

// Scope is the granularity of an event. Lower values are coarser.
type Scope uint8

const (
	// ScopeDriver covers a whole command: check, fix, lsp.
	ScopeDriver Scope = iota + 1
	// ScopePass covers a stage over all files: collect, analyze, fix-all.
	ScopePass
	// ScopeFile covers one source file from load to report.
	ScopeFile
	// ScopeNode is one parenthesized group and its verdict.
	ScopeNode
)

var scopeNames = [...]string{
	ScopeDriver: "driver",
	ScopePass:   "pass",
	ScopeFile:   "file",
	ScopeNode:   "node",
}

func (s Scope) String() string {
	if s > 0 && int(s) < len(scopeNames) {
		return scopeNames[s]
	}
	return "unknown"
}

// Group is the verdict carried by a ScopeNode event.
type Group struct {
	Line   int    `json:"line"`
	Col    int    `json:"col"`
	Reason string `json:"reason"`
	Rule   string `json:"rule"`
	Text   string `json:"text,omitempty"`
}

// Removable reports whether the group was judged removable.
func (g *Group) Removable() bool {
	return g != nil && g.Reason == "removable"
}

// Event is a single trace record.
type Event struct {
	Time     time.Time
	Seq      uint64
	Kind     Kind
	Scope    Scope
	SpanID   uint64
	ParentID uint64
	GID      uint64
	Name     string
	// File is the source file the event belongs to, relative to the run's
	// base directory; empty above file scope.
	File   string
	Group  *Group
	Detail string
	Extra  map[string]string
}
