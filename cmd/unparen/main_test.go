package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"unparen/internal/diagfmt"
	"unparen/internal/fix"
)

type cliResult struct {
	code   int
	stdout string
	stderr string
}

func runCLI(t *testing.T, args ...string) cliResult {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	code := run(root, args)
	return cliResult{code: code, stdout: stdout.String(), stderr: stderr.String()}
}

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestApplyMode(t *testing.T) {
	tests := []struct {
		name    string
		all     bool
		once    bool
		id      string
		want    fix.ApplyMode
		wantErr bool
	}{
		{name: "default", want: fix.ApplyModeOnce},
		{name: "all", all: true, want: fix.ApplyModeAll},
		{name: "once", once: true, want: fix.ApplyModeOnce},
		{name: "id", id: "STY3001-0-8", want: fix.ApplyModeID},
		{name: "all and once", all: true, once: true, wantErr: true},
		{name: "id and all", all: true, id: "x", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := applyMode(tt.all, tt.once, tt.id)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestReadUIMode(t *testing.T) {
	for in, want := range map[string]uiMode{"": uiModeAuto, "AUTO": uiModeAuto, " on ": uiModeOn, "off": uiModeOff} {
		got, err := readUIMode(in)
		require.NoError(t, err)
		require.Equal(t, want, got, "input %q", in)
	}
	_, err := readUIMode("sometimes")
	require.Error(t, err)
}

func TestProgressViewEnabled(t *testing.T) {
	tests := []struct {
		name  string
		view  progressView
		files int
		want  bool
	}{
		{name: "off", view: progressView{mode: uiModeOff, format: diagfmt.FormatPretty}, files: 100},
		{name: "on", view: progressView{mode: uiModeOn, format: diagfmt.FormatPretty}, files: 1, want: true},
		{name: "on short", view: progressView{mode: uiModeOn, format: diagfmt.FormatShort}, files: 1, want: true},
		{name: "json owns stdout", view: progressView{mode: uiModeOn, format: diagfmt.FormatJSON}, files: 100},
		{name: "sarif owns stdout", view: progressView{mode: uiModeOn, format: diagfmt.FormatSARIF}, files: 100},
		{name: "auto small tree", view: progressView{mode: uiModeAuto, format: diagfmt.FormatPretty}, files: progressMinFiles - 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, tt.view.enabled(tt.files))
		})
	}
}

func TestCheckReportsRemovable(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", "var x = (a);\n")

	res := runCLI(t, "check", dir, "--format", "short", "--no-cache")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.Contains(t, res.stdout, "a.cs:1:9:")
	require.Contains(t, res.stdout, "STY3001")
	require.Contains(t, res.stderr, "1 of 1 group(s) removable")
}

func TestCheckPreview(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", "var x = ((a)) + b;\n")

	res := runCLI(t, "check", dir, "--no-cache", "--preview", "--color", "off")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.Contains(t, res.stdout, "preview:")
	require.Contains(t, res.stdout, "- var x = ((a)) + b;")
	require.Contains(t, res.stdout, "+ var x = (a) + b;")

	res = runCLI(t, "check", dir, "--no-cache", "--color", "off")
	require.NotContains(t, res.stdout, "preview:")

	res = runCLI(t, "check", dir, "--no-cache", "--preview", "--format", "json")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.Contains(t, res.stdout, `"after_lines"`)
}

func TestCheckTraceRing(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "a.cs", "var x = (a);\n")
	writeFile(t, dir, "b.cs", "var y = (b);\n")

	res := runCLI(t, "check", dir, "--format", "short", "--no-cache",
		"--trace-level", "debug", "--trace-mode", "ring", "--trace-files", "a.cs")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.Contains(t, res.stderr, "→ check")
	require.Contains(t, res.stderr, "group @a.cs 1:9 removable(")
	require.NotContains(t, res.stderr, "@b.cs")
	require.NotContains(t, res.stderr, "unfinished files")

	res = runCLI(t, "check", dir, "--trace-level", "debug", "--trace-files", "src/[a")
	require.Equal(t, exitErrors, res.code)
	require.Contains(t, res.stderr, "invalid trace file pattern")
}

func TestCheckCleanAndQuiet(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "clean.cs", "var x = (a + b) * c;\n")

	res := runCLI(t, "--quiet", "check", path, "--format", "short", "--no-cache")
	require.Equal(t, 0, res.code, res.stderr)
	require.Empty(t, res.stdout)
	require.Empty(t, res.stderr)
}

func TestCheckSyntaxError(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.cs", "var x = (1;\n")

	res := runCLI(t, "check", dir, "--format", "short", "--no-cache")
	require.Equal(t, exitErrors, res.code)
	require.Contains(t, res.stdout, "broken.cs:")
}

func TestCheckJSONAndStyleFlags(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "p.cs", "var x = 1 + (2 * 3);\n")

	// по умолчанию арифметика требует скобок
	res := runCLI(t, "check", path, "--format", "json", "--no-cache")
	require.Equal(t, 0, res.code, res.stderr)
	var payload struct {
		Count int `json:"count"`
	}
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Zero(t, payload.Count)

	res = runCLI(t, "check", path, "--format", "json", "--no-cache", "--arithmetic", "always")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Equal(t, 1, payload.Count)

	res = runCLI(t, "check", path, "--arithmetic", "bogus")
	require.Equal(t, exitErrors, res.code)
	require.Contains(t, res.stderr, "--arithmetic")
}

func TestCheckConfigFile(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "unparen.toml", "[style]\narithmetic = \"always\"\n\n[run]\ncache = false\n")
	writeFile(t, dir, "p.cs", "var x = 1 + (2 * 3);\n")

	res := runCLI(t, "check", dir, "--format", "short")
	require.Equal(t, exitFindings, res.code, res.stderr)
	require.Contains(t, res.stdout, "p.cs:1:13:")
}

func TestFixAllDiffAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "f.cs", "var x = ((a));\n")

	res := runCLI(t, "fix", path, "--all", "--diff", "--no-cache")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "-var x = ((a));")
	require.Contains(t, res.stdout, "+var x = a;")
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "var x = ((a));\n", string(got), "--diff must not touch the file")

	res = runCLI(t, "fix", path, "--all", "--no-cache")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "Applied 1 fix(es)")
	got, err = os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "var x = a;\n", string(got))

	res = runCLI(t, "fix", path, "--all", "--no-cache")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "No applicable fixes found.")
}

func TestFixRejectsIDForDirectory(t *testing.T) {
	res := runCLI(t, "fix", t.TempDir(), "--id", "STY3001-0-8")
	require.Equal(t, exitErrors, res.code)
	require.Contains(t, res.stderr, "--id")
}

func TestParseVerdicts(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "v.cs", "var x = (a) * b;\n")

	res := runCLI(t, "parse", path, "--verdicts")
	require.Equal(t, 0, res.code, res.stderr)
	require.Contains(t, res.stdout, "=> removable(")
}

func TestVersionJSON(t *testing.T) {
	res := runCLI(t, "version", "--format", "json", "--full")
	require.Equal(t, 0, res.code, res.stderr)
	var payload map[string]any
	require.NoError(t, json.Unmarshal([]byte(res.stdout), &payload))
	require.Equal(t, "unparen", payload["tool"])
	require.NotEmpty(t, payload["version"])
	require.Contains(t, payload, "git_commit")
}

func TestLSPLifecycle(t *testing.T) {
	var in bytes.Buffer
	for _, msg := range []string{
		`{"jsonrpc":"2.0","id":1,"method":"initialize","params":{}}`,
		`{"jsonrpc":"2.0","id":2,"method":"shutdown"}`,
		`{"jsonrpc":"2.0","method":"exit"}`,
	} {
		fmt.Fprintf(&in, "Content-Length: %d\r\n\r\n%s", len(msg), msg)
	}
	root := newRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetIn(&in)
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	require.Equal(t, 0, run(root, []string{"lsp"}), stderr.String())
	require.Contains(t, stdout.String(), `"codeActionProvider"`)
	require.Contains(t, stdout.String(), `"id":2`)
}
