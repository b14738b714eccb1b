// Package report turns parenthesis verdicts into diagnostics and text edits.
package report

import (
	"fmt"
	"sort"
	"unicode/utf8"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/fix"
	"unparen/internal/parens"
	"unparen/internal/source"
)

const (
	// Category is the diagnostic category of every removal.
	Category = "style"
	// FixTitle names the single fix of each diagnostic.
	FixTitle = "Remove unnecessary parentheses"

	// PropertyUnnecessary lists the additional locations hosts should fade.
	PropertyUnnecessary = "Unnecessary"
	// fadedLocations: 0 - всё выражение, 1 и 2 - скобки
	fadedLocations = "[1,2]"
)

// Diagnostics emits one hidden STY3001 diagnostic per removable verdict, in
// the order of verdicts.
func Diagnostics(tree *parens.Tree, verdicts []parens.Verdict) []diag.Diagnostic {
	out := make([]diag.Diagnostic, 0, len(verdicts))
	for _, v := range verdicts {
		if !v.Removable() {
			continue
		}
		out = append(out, Diagnostic(tree, v))
	}
	return out
}

// Diagnostic builds the diagnostic of a single removable verdict.
//
// The primary location covers only the first line of the group so that hosts
// do not underline whole multi-line expressions. The additional locations
// are the group, its open parenthesis and its close parenthesis.
func Diagnostic(tree *parens.Tree, v parens.Verdict) diag.Diagnostic {
	d := diag.New(diag.SevHidden, diag.StyUnnecessaryParens, FirstLine(tree.Source(), v.Span), "Parentheses can be removed")
	d.Category = Category
	d = d.WithLocations(v.Span, v.Open, v.Close).
		WithProperty(PropertyUnnecessary, fadedLocations).
		WithProperty("Rule", v.Rule)
	edits := FixEdits(tree, []ast.ExprID{v.Group})
	return d.WithFixSuggestion(fix.EditSet(FixTitle, edits,
		fix.WithID(FixID(v.Span.File, v.Open.Start)),
		fix.Preferred(),
	))
}

// FixID names the fix that removes the group opening at offset open of file.
func FixID(file source.FileID, open uint32) string {
	return fmt.Sprintf("%s-%d-%d", diag.StyUnnecessaryParens.ID(), file, open)
}

// FirstLine clips sp to the end of the line it starts on, without trailing blanks.
func FirstLine(src *source.File, sp source.Span) source.Span {
	line := src.LineSpan(src.Position(sp.Start).Line)
	end := min(sp.End, line.End)
	for end > sp.Start {
		switch src.Content[end-1] {
		case ' ', '\t', '\r':
			end--
			continue
		}
		break
	}
	return source.Span{File: sp.File, Start: sp.Start, End: end}
}

// FixEdits returns the edits that remove the delimiters of groups. Each
// delimiter is deleted, or replaced with a single space when deleting it
// would join two identifier characters, as in return(x) or #if(A).
// The edits are sorted by offset and never overlap.
func FixEdits(tree *parens.Tree, groups []ast.ExprID) []diag.TextEdit {
	exprs := tree.Builder().Exprs
	src := tree.Source()

	delims := make([]source.Span, 0, 2*len(groups))
	removed := make(map[uint32]bool, 2*len(groups))
	for _, g := range groups {
		d, ok := exprs.Group(g)
		if !ok {
			panic(fmt.Sprintf("report: node %d is not a group", g))
		}
		delims = append(delims, d.Open, d.Close)
		removed[d.Open.Start] = true
		removed[d.Close.Start] = true
	}
	sort.Slice(delims, func(i, j int) bool { return delims[i].Start < delims[j].Start })

	spaced := make(map[uint32]bool)
	before := func(off uint32) rune {
		for off > 0 {
			if removed[off-1] {
				if spaced[off-1] {
					return ' '
				}
				off--
				continue
			}
			r, _ := utf8.DecodeLastRune(src.Content[:off])
			return r
		}
		return 0
	}
	after := func(off uint32) rune {
		for int(off) < len(src.Content) {
			if removed[off] {
				off++
				continue
			}
			r, _ := utf8.DecodeRune(src.Content[off:])
			return r
		}
		return 0
	}

	edits := make([]diag.TextEdit, 0, len(delims))
	for _, sp := range delims {
		if identRune(before(sp.Start)) && identRune(after(sp.End)) {
			spaced[sp.Start] = true
			edits = append(edits, fix.Replace(sp, " ", src.Text(sp)))
			continue
		}
		edits = append(edits, fix.Delete(sp, src.Text(sp)))
	}
	return edits
}

func identRune(r rune) bool {
	switch {
	case r == '_' || r == '@':
		return true
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	}
	return r >= utf8.RuneSelf
}
