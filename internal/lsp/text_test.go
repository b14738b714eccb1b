package lsp

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestApplyChanges(t *testing.T) {
	text := "var x = a;\nvar y = b;\n"
	got := applyChanges(text, []textDocumentContentChangeEvent{
		{Range: &lspRange{Start: position{Line: 0, Character: 8}, End: position{Line: 0, Character: 9}}, Text: "(a)"},
		{Range: &lspRange{Start: position{Line: 1, Character: 8}, End: position{Line: 1, Character: 99}}, Text: "c;"},
	})
	require.Equal(t, "var x = (a);\nvar y = c;\n", got)

	require.Equal(t, "new", applyChanges(text, []textDocumentContentChangeEvent{{Text: "new"}}))
	require.Equal(t, text, applyChanges(text, nil))
}

func TestOffsetForPositionUTF16(t *testing.T) {
	text := "a🙂b\né\n"
	cases := []struct {
		pos  position
		want int
	}{
		{position{0, 0}, 0},
		{position{0, 1}, 1},
		// середина суррогатной пары не делит руну
		{position{0, 2}, 1},
		{position{0, 3}, 5},
		{position{0, 4}, 6},
		{position{0, 40}, 6},
		{position{1, 1}, 9},
		{position{5, 0}, len(text)},
		{position{-1, 3}, 0},
	}
	for _, c := range cases {
		require.Equal(t, c.want, offsetForPosition(text, c.pos), "position %+v", c.pos)
	}
}
