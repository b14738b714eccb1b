package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"

	"unparen/internal/parens"
)

func write(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
}

func TestLoadTOML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "unparen.toml")
	write(t, path, `
[style]
arithmetic = "always"
other_binary = "ignore"

[analysis]
check_overflow = true

[files]
exclude = ["obj/**"]

[run]
jobs = 2
cache = false
`)
	cfg, err := Load(path)
	require.NoError(t, err)

	opts, err := cfg.Options()
	require.NoError(t, err)
	want := parens.Options{
		Arithmetic:    parens.PolicyAlways,
		OtherBinary:   parens.PolicyIgnore,
		Patterns:      parens.PolicyRequire,
		CheckOverflow: true,
	}
	if diff := cmp.Diff(want, opts); diff != "" {
		t.Fatalf("options mismatch (-want +got):\n%s", diff)
	}
	require.Equal(t, 2, cfg.Run.Jobs)
	require.False(t, cfg.CacheEnabled())
	require.Equal(t, []string{"**/*.cs"}, cfg.Files.Include)
	require.Equal(t, dir, cfg.Root)
}

func TestLoadYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".unparen.yaml")
	write(t, path, "style:\n  patterns: always\n  ignore: true\n")

	cfg, err := Load(path)
	require.NoError(t, err)
	opts, err := cfg.Options()
	require.NoError(t, err)
	require.Equal(t, parens.PolicyAlways, opts.Patterns)
	require.True(t, opts.Ignore)
	require.True(t, cfg.CacheEnabled())
}

func TestLoadEmptyYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".unparen.yml")
	write(t, path, "")

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, Default().Style, cfg.Style)
}

func TestLoadRejectsBadValues(t *testing.T) {
	dir := t.TempDir()
	cases := map[string]string{
		"policy":  "[style]\narithmetic = \"sometimes\"\n",
		"glob":    "[files]\ninclude = [\"[\"]\n",
		"jobs":    "[run]\njobs = -1\n",
		"key":     "[style]\narithmatic = \"always\"\n",
		"syntax":  "[style\n",
		"unknown": "",
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			path := filepath.Join(dir, name, "unparen.toml")
			if name == "unknown" {
				path = filepath.Join(dir, name, "unparen.json")
			}
			write(t, path, content)
			_, err := Load(path)
			require.Error(t, err)
		})
	}
}

func TestDiscoverWalksUp(t *testing.T) {
	dir := t.TempDir()
	write(t, filepath.Join(dir, "unparen.toml"), "[run]\njobs = 3\n")
	nested := filepath.Join(dir, "src", "deep")
	require.NoError(t, os.MkdirAll(nested, 0o755))

	cfg, err := Discover(nested)
	require.NoError(t, err)
	require.Equal(t, 3, cfg.Run.Jobs)
	require.Equal(t, filepath.Join(dir, "unparen.toml"), cfg.Path)
}

func TestDiscoverNotFound(t *testing.T) {
	dir := t.TempDir()
	cfg, err := Discover(dir)
	require.True(t, errors.Is(err, ErrNotFound))
	require.Equal(t, Default().Style, cfg.Style)
}

func TestCollect(t *testing.T) {
	dir := t.TempDir()
	for _, f := range []string{"a.cs", "b.txt", "src/c.cs", "obj/gen.cs", "src/obj/d.cs"} {
		write(t, filepath.Join(dir, f), "")
	}
	cfg := Default()
	cfg.Root = dir
	cfg.Files.Exclude = []string{"obj/**"}

	files, err := cfg.Collect(dir)
	require.NoError(t, err)
	rel := make([]string, 0, len(files))
	for _, f := range files {
		r, err := filepath.Rel(dir, f)
		require.NoError(t, err)
		rel = append(rel, filepath.ToSlash(r))
	}
	require.Equal(t, []string{"a.cs", "src/c.cs", "src/obj/d.cs"}, rel)
}

func TestMatch(t *testing.T) {
	cfg := Default()
	cfg.Files.Exclude = []string{"**/*.g.cs"}
	require.True(t, cfg.Match("src/a.cs"))
	require.False(t, cfg.Match("src/a.g.cs"))
	require.False(t, cfg.Match("src/a.txt"))
}
