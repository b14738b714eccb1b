package diagfmt

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/ast"
	"unparen/internal/diag"
	"unparen/internal/lexer"
	"unparen/internal/parens"
	"unparen/internal/parser"
	"unparen/internal/source"
	"unparen/internal/types"
)

func parenBag(t *testing.T) (*diag.Bag, *source.FileSet) {
	t.Helper()
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("var x = (a);\n"))
	bag := diag.NewBag(4)
	d := diag.New(diag.SevHidden, diag.StyUnnecessaryParens, source.Span{File: fileID, Start: 8, End: 11}, "Parentheses can be removed")
	d = d.WithLocations(source.Span{File: fileID, Start: 8, End: 11}).
		WithFix("Remove unnecessary parentheses",
			diag.TextEdit{Span: source.Span{File: fileID, Start: 8, End: 9}, OldText: "("},
			diag.TextEdit{Span: source.Span{File: fileID, Start: 10, End: 11}, OldText: ")"},
		)
	bag.Add(d)
	return bag, fs
}

func TestShort(t *testing.T) {
	bag, fs := parenBag(t)
	var buf bytes.Buffer
	require.NoError(t, Short(&buf, bag, fs, PathModeBasename))
	require.Equal(t, "a.cs:1:9: hidden STY3001 Parentheses can be removed\n", buf.String())
}

func TestSarif(t *testing.T) {
	bag, fs := parenBag(t)
	var buf bytes.Buffer
	require.NoError(t, Sarif(&buf, bag, fs, SarifRunMeta{ToolName: "unparen", ToolVersion: "1.0.0"}))

	var log struct {
		Version string `json:"version"`
		Runs    []struct {
			Tool struct {
				Driver struct {
					Name  string `json:"name"`
					Rules []struct {
						ID string `json:"id"`
					} `json:"rules"`
				} `json:"driver"`
			} `json:"tool"`
			Results []struct {
				RuleID    string `json:"ruleId"`
				Level     string `json:"level"`
				Locations []struct {
					PhysicalLocation struct {
						ArtifactLocation struct {
							URI string `json:"uri"`
						} `json:"artifactLocation"`
						Region struct {
							StartLine   int `json:"startLine"`
							StartColumn int `json:"startColumn"`
						} `json:"region"`
					} `json:"physicalLocation"`
				} `json:"locations"`
				RelatedLocations []json.RawMessage `json:"relatedLocations"`
				Fixes            []struct {
					ArtifactChanges []struct {
						Replacements []json.RawMessage `json:"replacements"`
					} `json:"artifactChanges"`
				} `json:"fixes"`
			} `json:"results"`
		} `json:"runs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &log))
	require.Equal(t, "2.1.0", log.Version)
	require.Len(t, log.Runs, 1)
	run := log.Runs[0]
	require.Equal(t, "unparen", run.Tool.Driver.Name)
	require.Len(t, run.Tool.Driver.Rules, 1)
	require.Equal(t, "STY3001", run.Tool.Driver.Rules[0].ID)
	require.Len(t, run.Results, 1)
	res := run.Results[0]
	require.Equal(t, "none", res.Level)
	require.Equal(t, 1, res.Locations[0].PhysicalLocation.Region.StartLine)
	require.Equal(t, 9, res.Locations[0].PhysicalLocation.Region.StartColumn)
	require.True(t, strings.HasSuffix(res.Locations[0].PhysicalLocation.ArtifactLocation.URI, "a.cs"))
	require.Len(t, res.RelatedLocations, 1)
	require.Len(t, res.Fixes, 1)
	require.Len(t, res.Fixes[0].ArtifactChanges[0].Replacements, 2)
}

func TestParseFormat(t *testing.T) {
	for _, name := range []string{"pretty", "short", "json", "sarif"} {
		f, err := ParseFormat(name)
		require.NoError(t, err)
		require.Equal(t, name, f.String())
	}
	_, err := ParseFormat("xml")
	require.Error(t, err)
}

func TestFormatASTWithVerdicts(t *testing.T) {
	fs := source.NewFileSet()
	src := fs.Get(fs.AddVirtual("a.cs", []byte("var x = 1 + (2 * 3);\n")))
	reporter := &diag.BagReporter{Bag: diag.NewBag(10)}
	b := ast.NewBuilder(ast.Hints{}, nil)
	res := parser.ParseFile(context.Background(), src, lexer.New(src, lexer.Options{Reporter: reporter}), b, parser.Options{Reporter: reporter})
	require.Zero(t, res.Errors)
	env, err := types.Annotate(context.Background(), b, res.File)
	require.NoError(t, err)
	tree := parens.NewTree(b, res.File, src, env)
	verdicts, err := parens.Analyze(context.Background(), tree, parens.AlwaysRemove())
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, FormatASTPretty(&buf, b, res.File, fs, verdicts))
	out := buf.String()
	require.Contains(t, out, "Group \"(2 * 3)\"")
	require.Contains(t, out, "=> removable(")

	buf.Reset()
	require.NoError(t, FormatASTJSON(&buf, b, res.File, fs, verdicts))
	var dump struct {
		Exprs []*ASTNodeOutput `json:"exprs"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &dump))
	require.Len(t, dump.Exprs, 1)
	require.Equal(t, "local-init", dump.Exprs[0].Slot)
}
