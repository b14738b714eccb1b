package parens

import (
	"fmt"

	"unparen/internal/ast"
	"unparen/internal/source"
)

// Reason says why a group was judged the way it was.
type Reason uint8

const (
	// Removable: dropping the parentheses keeps the meaning and the style allows it.
	Removable Reason = iota
	// NecessaryGrammar: without the parentheses the code parses differently or not at all.
	NecessaryGrammar
	// NecessaryPrecedence: the child binds looser than its position, or regrouping would change the result.
	NecessaryPrecedence
	// NecessaryClarity: removable, but the configured style keeps mixed-precedence groups.
	NecessaryClarity
	// NecessaryIgnored: analysis is off, or the group's category uses the Ignore policy.
	NecessaryIgnored
	// NecessaryUnknown: an operator or node the tables do not describe.
	NecessaryUnknown
)

var reasonNames = [...]string{
	Removable:           "removable",
	NecessaryGrammar:    "grammar",
	NecessaryPrecedence: "precedence",
	NecessaryClarity:    "clarity",
	NecessaryIgnored:    "ignored",
	NecessaryUnknown:    "unknown",
}

func (r Reason) String() string {
	if int(r) < len(reasonNames) {
		return reasonNames[r]
	}
	return fmt.Sprintf("Reason(%d)", r)
}

// Verdict is the decision for one group.
type Verdict struct {
	Group   ast.ExprID
	Context Context
	Reason  Reason
	// Rule names the check that decided, e.g. "access-receiver" or "left-associative".
	Rule  string
	Span  source.Span
	Open  source.Span
	Close source.Span
}

// Removable reports whether the parentheses can be dropped.
func (v Verdict) Removable() bool {
	return v.Reason == Removable
}

func (v Verdict) String() string {
	return fmt.Sprintf("%s(%s)", v.Reason, v.Rule)
}

// decision is what a single check returns; the zero value means "no objection".
type decision struct {
	reason Reason
	rule   string
	set    bool
}

func keep(reason Reason, rule string) decision {
	return decision{reason: reason, rule: rule, set: true}
}

func drop(rule string) decision {
	return decision{reason: Removable, rule: rule, set: true}
}

func (d decision) necessary() bool {
	return d.set && d.reason != Removable
}
