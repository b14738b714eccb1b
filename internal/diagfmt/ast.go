package diagfmt

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"unparen/internal/ast"
	"unparen/internal/parens"
	"unparen/internal/source"
)

const astTextWidth = 48

// ASTNodeOutput is one expression of the dump.
type ASTNodeOutput struct {
	Slot     string           `json:"slot"`
	Kind     string           `json:"kind"`
	Op       string           `json:"op,omitempty"`
	Span     source.Span      `json:"span"`
	Text     string           `json:"text,omitempty"`
	Verdict  *VerdictOutput   `json:"verdict,omitempty"`
	Children []*ASTNodeOutput `json:"children,omitempty"`
}

// VerdictOutput is the verdict attached to a parenthesized group.
type VerdictOutput struct {
	Removable bool   `json:"removable"`
	Reason    string `json:"reason"`
	Rule      string `json:"rule"`
}

// BuildAST returns the expression roots of file in document order. Groups
// are annotated with their verdict when verdicts is non-empty.
func BuildAST(builder *ast.Builder, fileID ast.FileID, src *source.File, verdicts []parens.Verdict) ([]*ASTNodeOutput, error) {
	if builder.Files.Get(fileID) == nil {
		return nil, fmt.Errorf("file not found")
	}
	byGroup := make(map[ast.ExprID]parens.Verdict, len(verdicts))
	for _, v := range verdicts {
		byGroup[v.Group] = v
	}

	nodes := make(map[ast.ExprID]*ASTNodeOutput)
	roots := make([]*ASTNodeOutput, 0)
	err := ast.Walk(builder, fileID, func(v ast.Visit) error {
		id := v.Slot.Expr
		e := builder.Exprs.Get(id)
		if e == nil {
			return nil
		}
		node := &ASTNodeOutput{
			Slot: v.Slot.Role.String(),
			Kind: e.Kind.String(),
			Op:   exprOp(builder.Exprs, id),
			Span: e.Span,
			Text: clipWidth(strings.Join(strings.Fields(src.Text(e.Span)), " "), astTextWidth),
		}
		if verdict, ok := byGroup[id]; ok {
			node.Verdict = &VerdictOutput{
				Removable: verdict.Removable(),
				Reason:    verdict.Reason.String(),
				Rule:      verdict.Rule,
			}
		}
		nodes[id] = node
		if parent, ok := nodes[v.Parent]; ok && v.Parent.IsValid() {
			parent.Children = append(parent.Children, node)
		} else {
			roots = append(roots, node)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return roots, nil
}

func exprOp(exprs *ast.Exprs, id ast.ExprID) string {
	if d, ok := exprs.Binary(id); ok {
		return d.Op.String()
	}
	if d, ok := exprs.Unary(id); ok {
		return d.Op.String()
	}
	return ""
}

// FormatASTPretty prints the expression tree of fileID with box-drawing guides.
func FormatASTPretty(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet, verdicts []parens.Verdict) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}
	src := fs.Get(file.Span.File)
	roots, err := BuildAST(builder, fileID, src, verdicts)
	if err != nil {
		return err
	}

	fmt.Fprintf(w, "%s (span: %s)\n", src.FormatPath("auto", fs.BaseDir()), formatSpan(file.Span, fs))
	for i, root := range roots {
		writeASTNode(w, root, fs, "", i == len(roots)-1)
	}
	return nil
}

func writeASTNode(w io.Writer, node *ASTNodeOutput, fs *source.FileSet, prefix string, last bool) {
	branch, next := "├─ ", "│  "
	if last {
		branch, next = "└─ ", "   "
	}
	label := node.Kind
	if node.Op != "" {
		label += " " + node.Op
	}
	fmt.Fprintf(w, "%s%s%s: %s %q (%s)", prefix, branch, node.Slot, label, node.Text, formatSpan(node.Span, fs))
	if node.Verdict != nil {
		fmt.Fprintf(w, " => %s(%s)", node.Verdict.Reason, node.Verdict.Rule)
	}
	fmt.Fprintln(w)
	for i, child := range node.Children {
		writeASTNode(w, child, fs, prefix+next, i == len(node.Children)-1)
	}
}

// FormatASTJSON writes the expression tree of fileID as indented JSON.
func FormatASTJSON(w io.Writer, builder *ast.Builder, fileID ast.FileID, fs *source.FileSet, verdicts []parens.Verdict) error {
	file := builder.Files.Get(fileID)
	if file == nil {
		return fmt.Errorf("file not found")
	}
	roots, err := BuildAST(builder, fileID, fs.Get(file.Span.File), verdicts)
	if err != nil {
		return err
	}
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(struct {
		File  string           `json:"file"`
		Exprs []*ASTNodeOutput `json:"exprs"`
	}{
		File:  fs.Get(file.Span.File).FormatPath("auto", fs.BaseDir()),
		Exprs: roots,
	})
}
