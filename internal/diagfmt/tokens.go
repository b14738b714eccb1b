package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"unparen/internal/source"
	"unparen/internal/token"
)

// TokenOutput is one token of a dump. Parentheses carry their nesting depth
// and the index of the matching parenthesis, which is what to check when a
// group is parsed differently than expected.
type TokenOutput struct {
	Kind    string      `json:"kind"`
	Text    string      `json:"text,omitempty"`
	Line    uint32      `json:"line"`
	Col     uint32      `json:"col"`
	Span    source.Span `json:"span"`
	Leading []string    `json:"leading,omitempty"`
	Holes   int         `json:"holes,omitempty"`
	Depth   int         `json:"depth,omitempty"`
	// Pair is the index of the matching parenthesis; nil when unmatched.
	Pair *int `json:"pair,omitempty"`

	kind token.Kind
}

func (t *TokenOutput) isParen() bool {
	return t.kind == token.LParen || t.kind == token.RParen
}

// tokenRows converts tokens up to and including EOF, matching parentheses
// with a stack.
func tokenRows(tokens []token.Token, fs *source.FileSet) []TokenOutput {
	rows := make([]TokenOutput, 0, len(tokens))
	var open []int
	for _, tok := range tokens {
		row := TokenOutput{kind: tok.Kind, Kind: tok.Kind.String(), Text: tok.Text, Span: tok.Span, Holes: len(tok.Holes)}
		if fs != nil {
			start, _ := fs.Resolve(tok.Span)
			row.Line, row.Col = start.Line, start.Col
		}
		for _, tr := range tok.Leading {
			row.Leading = append(row.Leading, tr.Kind.String())
		}
		i := len(rows)
		switch tok.Kind {
		case token.LParen:
			open = append(open, i)
			row.Depth = len(open)
		case token.RParen:
			if n := len(open); n > 0 {
				j := open[n-1]
				open = open[:n-1]
				row.Depth = n
				row.Pair = &j
				rows[j].Pair = &i
			}
		}
		rows = append(rows, row)
		if tok.Kind == token.EOF {
			break
		}
	}
	return rows
}

// FormatTokensPretty writes one token per line.
func FormatTokensPretty(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	for i, row := range tokenRows(tokens, fs) {
		var sb strings.Builder
		fmt.Fprintf(&sb, "%3d: %-15s", i+1, row.Kind)
		if row.Text != "" {
			fmt.Fprintf(&sb, " %q", row.Text)
		}
		fmt.Fprintf(&sb, " at %d:%d", row.Line, row.Col)
		if row.isParen() {
			if row.Pair != nil {
				fmt.Fprintf(&sb, " depth=%d pair=%d", row.Depth, *row.Pair+1)
			} else {
				sb.WriteString(" unmatched")
			}
		}
		if row.Holes > 0 {
			fmt.Fprintf(&sb, " holes=%d", row.Holes)
		}
		if len(row.Leading) > 0 {
			fmt.Fprintf(&sb, " (leading: %s)", strings.Join(row.Leading, ", "))
		}
		sb.WriteString("\n")
		if _, err := io.WriteString(w, sb.String()); err != nil {
			return err
		}
	}
	return nil
}

// FormatTokensJSON writes the dump as an indented JSON array.
func FormatTokensJSON(w io.Writer, tokens []token.Token, fs *source.FileSet) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(tokenRows(tokens, fs))
}
