package diag

import (
	"unparen/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// FixKind classifies a fix for UI grouping.
type FixKind uint8

const (
	FixKindQuickFix FixKind = iota
	FixKindRefactor
)

// FixApplicability states how confident the producer is that the fix is safe.
type FixApplicability uint8

const (
	FixApplicabilityAlwaysSafe FixApplicability = iota
	FixApplicabilitySafeWithHeuristics
	FixApplicabilityManualReview
)

func (a FixApplicability) String() string {
	switch a {
	case FixApplicabilityAlwaysSafe:
		return "always-safe"
	case FixApplicabilitySafeWithHeuristics:
		return "safe-with-heuristics"
	default:
		return "manual-review"
	}
}

// TextEdit replaces Span with NewText. OldText, when set, must match the
// current file contents or the edit is rejected.
type TextEdit struct {
	Span    source.Span
	NewText string
	OldText string
}

type Fix struct {
	ID            string
	Title         string
	Kind          FixKind
	Applicability FixApplicability
	IsPreferred   bool
	Edits         []TextEdit
}

type Diagnostic struct {
	Severity   Severity
	Code       Code
	Message    string
	Category   string
	Primary    source.Span
	Additional []source.Span
	Properties map[string]string
	Notes      []Note
	Fixes      []Fix
}
