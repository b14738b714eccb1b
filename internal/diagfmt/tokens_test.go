package diagfmt

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/lexer"
	"unparen/internal/source"
)

func lexString(t *testing.T, text string) (*source.FileSet, *lexer.Lexer) {
	t.Helper()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("t.cs", []byte(text)))
	return fs, lexer.New(file, lexer.Options{})
}

func TestTokenRowsMatchParens(t *testing.T) {
	fs, lx := lexString(t, "f((a), b) )")
	rows := tokenRows(lx.All(), fs)

	// f ( ( a ) , b ) ) EOF
	require.Len(t, rows, 10)
	require.Equal(t, 1, rows[1].Depth)
	require.Equal(t, 7, *rows[1].Pair)
	require.Equal(t, 2, rows[2].Depth)
	require.Equal(t, 4, *rows[2].Pair)
	require.Equal(t, 2, *rows[4].Pair)
	require.Nil(t, rows[8].Pair, "stray close paren")
	require.Equal(t, uint32(1), rows[2].Line)
	require.Equal(t, uint32(3), rows[2].Col)
}

func TestFormatTokensPretty(t *testing.T) {
	fs, lx := lexString(t, "x = (a;\n")
	var buf bytes.Buffer
	require.NoError(t, FormatTokensPretty(&buf, lx.All(), fs))
	out := buf.String()
	require.Contains(t, out, "at 1:5 unmatched")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 6)
	require.Contains(t, lines[5], "EOF")
}

func TestFormatTokensJSON(t *testing.T) {
	fs, lx := lexString(t, "(a)")
	var buf bytes.Buffer
	require.NoError(t, FormatTokensJSON(&buf, lx.All(), fs))
	var rows []TokenOutput
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rows))
	require.Len(t, rows, 4)
	require.Equal(t, 2, *rows[0].Pair)
	require.Equal(t, 0, *rows[2].Pair)
	require.Nil(t, rows[1].Pair)
}
