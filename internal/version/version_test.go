package version

import (
	"testing"

	"github.com/fatih/color"
)

func TestResolveDefaults(t *testing.T) {
	info := Resolve()
	if info.Version == "" {
		t.Error("Version should have a default value")
	}
}

func TestResolvePrefersLdflags(t *testing.T) {
	origVersion, origCommit, origDate := Version, GitCommit, BuildDate
	t.Cleanup(func() { Version, GitCommit, BuildDate = origVersion, origCommit, origDate })

	Version = " 1.2.3 "
	GitCommit = "abc123def456"
	BuildDate = "2024-01-15T10:30:00Z"

	info := Resolve()
	if info.Version != "1.2.3" {
		t.Errorf("Version = %q, want %q", info.Version, "1.2.3")
	}
	if info.GitCommit != "abc123def456" {
		t.Errorf("GitCommit = %q, want %q", info.GitCommit, "abc123def456")
	}
	if info.BuildDate != "2024-01-15T10:30:00Z" {
		t.Errorf("BuildDate = %q, want %q", info.BuildDate, "2024-01-15T10:30:00Z")
	}
}

func TestResolveEmptyVersion(t *testing.T) {
	orig := Version
	t.Cleanup(func() { Version = orig })
	Version = "   "
	if got := Resolve().Version; got != "dev" {
		t.Errorf("Version = %q, want dev", got)
	}
}

func TestColorized(t *testing.T) {
	orig := color.NoColor
	t.Cleanup(func() { color.NoColor = orig })
	color.NoColor = true

	cases := map[string]string{
		"0.1.0-dev":   "0.1.0-dev",
		"1.2.3":       "1.2.3",
		"2.0.1+build": "2.0.1+build",
		"dev":         "dev",
	}
	for in, want := range cases {
		if got := Colorized(in); got != want {
			t.Errorf("Colorized(%q) = %q, want %q", in, got, want)
		}
	}
}
