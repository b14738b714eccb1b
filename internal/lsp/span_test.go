package lsp

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/source"
)

func TestUTF16SpanMapping(t *testing.T) {
	text := strings.Join([]string{
		`var s = "e` + "́" + `🙂" + (a);`,
		`var t = (b);`,
		``,
	}, "\n")
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("a.cs", []byte(text)))

	open := strings.Index(text, "(a)")
	span := source.Span{File: file.ID, Start: safeUint32(open), End: safeUint32(open + len("(a)"))}
	r := rangeForSpan(file, span)
	// 9 байт префикса, e и U+0301 по одной единице, эмодзи две
	require.Equal(t, position{Line: 0, Character: 17}, r.Start)
	require.Equal(t, position{Line: 0, Character: 20}, r.End)
	require.Equal(t, span, spanForRange(file, r))

	for off := range len(text) + 1 {
		pos := positionForOffsetInFile(file, safeUint32(off))
		want := offsetForPosition(text, pos)
		got := offsetForPositionInFile(file, pos)
		require.Equal(t, safeUint32(want), got, "offset %d", off)
	}
}

func TestOverlaps(t *testing.T) {
	group := source.Span{Start: 8, End: 11}
	require.True(t, overlaps(source.Span{Start: 8, End: 8}, group))
	require.True(t, overlaps(source.Span{Start: 11, End: 11}, group))
	require.True(t, overlaps(source.Span{Start: 0, End: 9}, group))
	require.False(t, overlaps(source.Span{Start: 0, End: 8}, group))
	require.False(t, overlaps(source.Span{Start: 12, End: 12}, group))
}
