package testkit

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"testing"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/fatih/color"
	"github.com/pmezard/go-difflib/difflib"
	"gopkg.in/yaml.v3"
)

// Corpus is a table-driven test whose table lives in testdata: every file
// with the given extension is a case, and every Output is a sibling file
// named "<case>.<output extension>" holding the expected result.
type Corpus struct {
	// Root is the corpus directory, relative to the file calling Run.
	Root string
	// Refresh names an environment variable holding a glob over case
	// names. Matching cases rewrite their outputs instead of comparing.
	Refresh   string
	Extension string
	// A missing output file is expected to be empty.
	Outputs []Output

	// Test runs one case and returns one string per element of Outputs.
	Test func(t *testing.T, path, text string) []string
}

// Output is one expected result of a case.
type Output struct {
	Extension string
	// Compare returns "" on a match and a message otherwise; nil compares
	// byte for byte.
	Compare Compare
}

// Compare is a comparison of a produced output against the expected one.
type Compare func(got, want string) string

// Run executes every case of the corpus as a subtest.
func (c Corpus) Run(t *testing.T) {
	testDir := callerDir(0)
	root := filepath.Join(testDir, c.Root)

	var cases []string
	err := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.TrimPrefix(filepath.Ext(p), ".") == c.Extension {
			cases = append(cases, p)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("testkit: walking corpus %q: %v", root, err)
	}
	if len(cases) == 0 {
		t.Fatalf("testkit: no *.%s cases under %q", c.Extension, root)
	}

	var refresh string
	if c.Refresh != "" {
		refresh = os.Getenv(c.Refresh)
		if !doublestar.ValidatePattern(refresh) {
			t.Fatalf("testkit: invalid glob in %s: %q", c.Refresh, refresh)
		}
	}
	if refresh != "" {
		// перезапись эталонов не должна выглядеть как зелёный прогон
		t.Logf("testkit: refreshing outputs because %s=%s", c.Refresh, refresh)
		t.Fail()
	}

	for _, casePath := range cases {
		name, _ := filepath.Rel(testDir, casePath)
		name = filepath.ToSlash(name)
		t.Run(name, func(t *testing.T) {
			input, err := os.ReadFile(casePath)
			if err != nil {
				t.Fatalf("testkit: reading case %q: %v", casePath, err)
			}
			results := c.Test(t, name, string(input))
			if len(results) != len(c.Outputs) {
				t.Fatalf("testkit: case returned %d outputs, want %d", len(results), len(c.Outputs))
			}

			rewrite := false
			if refresh != "" {
				rewrite, _ = doublestar.Match(refresh, name)
			}
			for i, output := range c.Outputs {
				outPath := casePath + "." + output.Extension
				if rewrite {
					if err := writeOutput(outPath, results[i]); err != nil {
						t.Errorf("testkit: %v", err)
					}
					continue
				}
				want, err := os.ReadFile(outPath)
				if err != nil && !errors.Is(err, os.ErrNotExist) {
					t.Errorf("testkit: reading output %q: %v", outPath, err)
					continue
				}
				cmp := output.Compare
				if cmp == nil {
					cmp = DiffCompare
				}
				if msg := cmp(results[i], string(want)); msg != "" {
					t.Errorf("output mismatch for %q:\n%s", outPath, msg)
				}
			}
		})
	}
}

func writeOutput(path, text string) error {
	if text == "" {
		if err := os.Remove(path); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("deleting output %q: %w", path, err)
		}
		return nil
	}
	if err := os.WriteFile(path, []byte(text), 0o644); err != nil {
		return fmt.Errorf("writing output %q: %w", path, err)
	}
	return nil
}

var (
	diffAdd = color.New(color.FgHiGreen, color.Bold)
	diffDel = color.New(color.FgHiRed, color.Bold)
)

// DiffCompare reports a unified diff from want to got.
func DiffCompare(got, want string) string {
	if got == want {
		return ""
	}
	diff, err := difflib.GetUnifiedDiffString(difflib.UnifiedDiff{
		A:        difflib.SplitLines(want),
		B:        difflib.SplitLines(got),
		FromFile: "want",
		ToFile:   "got",
		Context:  2,
	})
	if err != nil {
		return err.Error()
	}
	lines := strings.Split(diff, "\n")
	for i, s := range lines {
		switch {
		case strings.HasPrefix(s, "+"):
			lines[i] = diffAdd.Sprint(s)
		case strings.HasPrefix(s, "-"):
			lines[i] = diffDel.Sprint(s)
		}
	}
	return strings.Join(lines, "\n")
}

// HeaderPrefix starts a header line of a corpus case.
const HeaderPrefix = "//% "

// ParseHeader decodes the leading "//% " lines of text as one YAML document
// into out. Text without a header leaves out untouched.
func ParseHeader(text string, out any) error {
	var doc strings.Builder
	for line := range strings.Lines(text) {
		rest, ok := strings.CutPrefix(line, HeaderPrefix)
		if !ok {
			break
		}
		doc.WriteString(rest)
	}
	if doc.Len() == 0 {
		return nil
	}
	if err := yaml.Unmarshal([]byte(doc.String()), out); err != nil {
		return fmt.Errorf("corpus header: %w", err)
	}
	return nil
}

func callerDir(skip int) string {
	_, file, _, ok := runtime.Caller(skip + 2)
	if !ok {
		panic("testkit: could not determine the test file's directory")
	}
	return filepath.Dir(file)
}
