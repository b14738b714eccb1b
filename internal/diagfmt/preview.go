package diagfmt

import (
	"fmt"
	"slices"
	"strings"

	"unparen/internal/diag"
	"unparen/internal/source"
)

// fixPreview is the text of the lines a fix touches, before and after all of
// its edits are applied together. Removing a pair of parentheses takes two
// edits; previewing them one at a time would show unbalanced code.
type fixPreview struct {
	before []string
	after  []string
}

func buildFixPreview(fs *source.FileSet, f diag.Fix) (fixPreview, error) {
	if fs == nil {
		return fixPreview{}, fmt.Errorf("nil FileSet")
	}
	if len(f.Edits) == 0 {
		return fixPreview{}, fmt.Errorf("fix %q has no edits", f.Title)
	}
	edits := slices.Clone(f.Edits)
	slices.SortFunc(edits, func(a, b diag.TextEdit) int {
		return int(a.Span.Start) - int(b.Span.Start)
	})
	id := edits[0].Span.File
	file := fs.Get(id)
	if file == nil {
		return fixPreview{}, fmt.Errorf("file %d not found in FileSet", id)
	}
	for i, e := range edits {
		if e.Span.File != id {
			return fixPreview{}, fmt.Errorf("fix %q spans several files", f.Title)
		}
		if e.Span.End < e.Span.Start || int(e.Span.End) > len(file.Content) {
			return fixPreview{}, fmt.Errorf("edit %d..%d out of range", e.Span.Start, e.Span.End)
		}
		if i > 0 && e.Span.Start < edits[i-1].Span.End {
			return fixPreview{}, fmt.Errorf("fix %q has overlapping edits", f.Title)
		}
	}

	first, _ := fs.Resolve(edits[0].Span)
	_, last := fs.Resolve(edits[len(edits)-1].Span)
	blockStart := file.LineSpan(first.Line).Start
	blockEnd := max(file.LineSpan(last.Line).End, blockStart)

	var after strings.Builder
	at := blockStart
	for _, e := range edits {
		after.Write(file.Content[at:e.Span.Start])
		after.WriteString(e.NewText)
		at = e.Span.End
	}
	after.Write(file.Content[at:blockEnd])

	return fixPreview{
		before: previewLines(string(file.Content[blockStart:blockEnd])),
		after:  previewLines(after.String()),
	}, nil
}

func previewLines(text string) []string {
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}
