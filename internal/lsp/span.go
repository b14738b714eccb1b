package lsp

import (
	"sort"
	"unicode/utf8"

	"fortio.org/safecast"

	"unparen/internal/source"
)

const maxUint32 = ^uint32(0)

func safeUint32(n int) uint32 {
	if n < 0 {
		return 0
	}
	v, err := safecast.Conv[uint32](n)
	if err != nil {
		return maxUint32
	}
	return v
}

// offsetForPositionInFile is offsetForPosition over a loaded file, using its
// line index instead of scanning.
func offsetForPositionInFile(file *source.File, pos position) uint32 {
	if file == nil || pos.Line < 0 || pos.Character < 0 {
		return 0
	}
	contentLen := safeUint32(len(file.Content))
	if pos.Line > len(file.LineIdx) {
		return contentLen
	}
	var lineStart uint32
	if pos.Line > 0 {
		lineStart = file.LineIdx[pos.Line-1] + 1
	}
	return lineStart + safeUint32(utf16Prefix(string(file.Content[lineStart:]), pos.Character))
}

func positionForOffsetInFile(file *source.File, offset uint32) position {
	if file == nil {
		return position{}
	}
	offset = min(offset, safeUint32(len(file.Content)))
	lineIdx := file.LineIdx
	line := sort.Search(len(lineIdx), func(i int) bool { return lineIdx[i] >= offset })
	var lineStart uint32
	if line > 0 {
		lineStart = lineIdx[line-1] + 1
	}
	units := 0
	for off := lineStart; off < offset; {
		r, size := utf8.DecodeRune(file.Content[off:offset])
		units += utf16Width(r)
		off += safeUint32(size)
	}
	return position{Line: line, Character: units}
}

func rangeForSpan(file *source.File, span source.Span) lspRange {
	if file == nil {
		return lspRange{}
	}
	return lspRange{
		Start: positionForOffsetInFile(file, span.Start),
		End:   positionForOffsetInFile(file, span.End),
	}
}

// spanForRange is the inverse of rangeForSpan.
func spanForRange(file *source.File, r lspRange) source.Span {
	if file == nil {
		return source.Span{}
	}
	start := offsetForPositionInFile(file, r.Start)
	end := max(offsetForPositionInFile(file, r.End), start)
	return source.Span{File: file.ID, Start: start, End: end}
}

// overlaps reports whether a and b share a byte, treating an empty span as
// a caret that touches the spans around it.
func overlaps(a, b source.Span) bool {
	if a.Start == a.End {
		return a.Start >= b.Start && a.Start <= b.End
	}
	if b.Start == b.End {
		return b.Start >= a.Start && b.Start <= a.End
	}
	return a.Start < b.End && b.Start < a.End
}
