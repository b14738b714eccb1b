package fix

import (
	"unparen/internal/diag"
	"unparen/internal/source"
)

// Option adjusts a fix while it is built.
type Option func(*diag.Fix)

// Preferred marks the fix hosts should offer first.
func Preferred() Option {
	return func(f *diag.Fix) {
		f.IsPreferred = true
	}
}

// WithID sets the identifier `fix --id` selects the fix by.
func WithID(id string) Option {
	return func(f *diag.Fix) {
		f.ID = id
	}
}

// Delete removes the delimiter at span; expect guards against stale offsets.
func Delete(span source.Span, expect string) diag.TextEdit {
	return diag.TextEdit{Span: span, OldText: expect}
}

// Replace swaps the delimiter at span for newText, e.g. a space that keeps
// return(x) from becoming returnx.
func Replace(span source.Span, newText, expect string) diag.TextEdit {
	return diag.TextEdit{Span: span, NewText: newText, OldText: expect}
}

// EditSet bundles edits that must be applied together into one fix.
// The edits keep their order; the engine rejects the fix if any two overlap.
func EditSet(title string, edits []diag.TextEdit, opts ...Option) diag.Fix {
	f := diag.Fix{
		Title:         title,
		Kind:          diag.FixKindQuickFix,
		Applicability: diag.FixApplicabilityAlwaysSafe,
		Edits:         append([]diag.TextEdit(nil), edits...),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&f)
		}
	}
	return f
}
