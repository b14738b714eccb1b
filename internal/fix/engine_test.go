package fix

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/diag"
	"unparen/internal/source"
)

func parenDiag(file source.FileID, open, closeAt uint32) diag.Diagnostic {
	openSp := source.Span{File: file, Start: open, End: open + 1}
	closeSp := source.Span{File: file, Start: closeAt, End: closeAt + 1}
	d := diag.New(diag.SevHidden, diag.StyUnnecessaryParens, source.Span{File: file, Start: open, End: closeAt + 1}, "Parentheses can be removed")
	return d.WithFixSuggestion(EditSet("Remove unnecessary parentheses", []diag.TextEdit{
		{Span: openSp, OldText: "("},
		{Span: closeSp, OldText: ")"},
	}))
}

func TestGatherCandidatesSkipsDuplicateFixIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte(""))
	span := source.Span{File: fileID, Start: 0, End: 0}

	diagnostics := []diag.Diagnostic{{
		Code:    diag.SynExpectSemicolon,
		Message: "missing semicolon",
		Primary: span,
		Fixes: []diag.Fix{
			{
				ID:    "fix-duplicate",
				Title: "insert semicolon",
				Edits: []diag.TextEdit{{Span: span, NewText: ";"}},
			},
			{
				ID:    "fix-duplicate",
				Title: "insert semicolon again",
				Edits: []diag.TextEdit{{Span: span, NewText: ";"}},
			},
		},
	}}

	candidates, skips := gatherCandidates(diagnostics)

	if len(candidates) != 1 {
		t.Fatalf("expected 1 candidate, got %d", len(candidates))
	}
	if len(skips) != 1 {
		t.Fatalf("expected 1 skipped fix, got %d", len(skips))
	}
	skip := skips[0]
	if skip.ID != "fix-duplicate" {
		t.Fatalf("expected skipped fix id 'fix-duplicate', got %q", skip.ID)
	}
	if skip.Reason != "duplicate fix id" {
		t.Fatalf("expected duplicate fix reason, got %q", skip.Reason)
	}
}

func TestGatherCandidatesSynthesizesIDs(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x = (a);"))

	candidates, skips := gatherCandidates([]diag.Diagnostic{parenDiag(fileID, 4, 6)})
	require.Empty(t, skips)
	require.Len(t, candidates, 1)
	require.Equal(t, "STY3001-0-4-0", candidates[0].fix.ID)
}

func TestApplyDryRunAllPairs(t *testing.T) {
	fs := source.NewFileSet()
	//                                    0123456789012345678
	fileID := fs.AddVirtual("test.cs", []byte("x = (a) + (b);\n"))

	res, err := Apply(fs, []diag.Diagnostic{
		parenDiag(fileID, 4, 6),
		parenDiag(fileID, 10, 12),
	}, ApplyOptions{Mode: ApplyModeAll, DryRun: true, Diff: true})
	require.NoError(t, err)
	require.Len(t, res.Applied, 2)
	require.Empty(t, res.Skipped)
	require.Len(t, res.FileChanges, 1)

	change := res.FileChanges[0]
	require.Equal(t, "x = a + b;\n", string(change.Content))
	require.Equal(t, 4, change.EditCount)
	require.Contains(t, change.Diff, "-x = (a) + (b);")
	require.Contains(t, change.Diff, "+x = a + b;")
}

func TestApplyRejectsOverlappingFixes(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x = (a);"))

	first := parenDiag(fileID, 4, 6)
	second := parenDiag(fileID, 4, 6)
	second.Fixes[0].ID = "other"

	res, err := Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	require.Len(t, res.Skipped, 1)
	require.True(t, strings.HasPrefix(res.Skipped[0].Reason, "conflicts with previously applied edits"), res.Skipped[0].Reason)
	require.Equal(t, "x = a;", string(res.FileChanges[0].Content))
}

func TestApplyRejectsStaleText(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x = [a];"))

	res, err := Apply(fs, []diag.Diagnostic{parenDiag(fileID, 4, 6)}, ApplyOptions{Mode: ApplyModeAll, DryRun: true})
	require.True(t, errors.Is(err, ErrNoFixes))
	require.Len(t, res.Skipped, 1)
	require.Contains(t, res.Skipped[0].Reason, "existing text does not match")
}

func TestApplySkipsVirtualFilesOnDisk(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x = (a);"))

	res, err := Apply(fs, []diag.Diagnostic{parenDiag(fileID, 4, 6)}, ApplyOptions{Mode: ApplyModeAll})
	require.ErrorIs(t, err, ErrNoFixes)
	require.Equal(t, "target file is virtual", res.Skipped[0].Reason)
}

func TestApplyModeID(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("test.cs", []byte("x = (a) + (b);"))

	first := parenDiag(fileID, 4, 6)
	second := parenDiag(fileID, 10, 12)
	second.Fixes[0].ID = "wanted"

	res, err := Apply(fs, []diag.Diagnostic{first, second}, ApplyOptions{Mode: ApplyModeID, TargetID: "wanted", DryRun: true})
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)
	require.Equal(t, "x = (a) + b;", string(res.FileChanges[0].Content))

	_, err = Apply(fs, []diag.Diagnostic{first}, ApplyOptions{Mode: ApplyModeID, TargetID: "missing", DryRun: true})
	require.ErrorIs(t, err, ErrNoFixes)
}

func TestApplyWritesFileAndKeepsLineEndings(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "a.cs")
	require.NoError(t, os.WriteFile(path, []byte("\xEF\xBB\xBFx = (a);\r\ny = 1;\r\n"), 0o600))

	fs := source.NewFileSetWithBase(dir)
	fileID, err := fs.Load(path)
	require.NoError(t, err)

	res, err := Apply(fs, []diag.Diagnostic{parenDiag(fileID, 4, 6)}, ApplyOptions{Mode: ApplyModeOnce})
	require.NoError(t, err)
	require.Len(t, res.Applied, 1)

	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "\xEF\xBB\xBFx = a;\r\ny = 1;\r\n", string(got))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1, "temporary file left behind")
}

func TestSpansConflict(t *testing.T) {
	at := func(start, end uint32) diag.TextEdit {
		return diag.TextEdit{Span: source.Span{Start: start, End: end}}
	}
	cases := []struct {
		a, b diag.TextEdit
		want bool
	}{
		{at(1, 1), at(1, 1), false},
		{at(1, 1), at(1, 3), true},
		{at(3, 3), at(1, 3), false},
		{at(1, 3), at(2, 4), true},
		{at(1, 3), at(3, 5), false},
	}
	for _, tc := range cases {
		if got := spansConflict(tc.a, tc.b); got != tc.want {
			t.Errorf("spansConflict(%v, %v) = %v, want %v", tc.a.Span, tc.b.Span, got, tc.want)
		}
	}
}
