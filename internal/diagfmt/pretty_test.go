package diagfmt

import (
	"bytes"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"

	"unparen/internal/diag"
	"unparen/internal/fix"
	"unparen/internal/source"
)

// TestPathModes проверяет различные режимы форматирования путей
func TestPathModes(t *testing.T) {
	// Создаём FileSet
	fs := source.NewFileSet()

	// Добавляем тестовый файл
	content := []byte("var x = \"unterminated string\n")
	fileID := fs.AddVirtual("/home/user/project/src/test.cs", content)

	// Устанавливаем базовую директорию для relative paths
	fs.SetBaseDir("/home/user/project")

	// Создаём диагностику
	bag := diag.NewBag(10)
	d := diag.New(
		diag.SevError,
		diag.LexUnterminatedString,
		source.Span{File: fileID, Start: 8, End: 28},
		"Unterminated string literal",
	)
	bag.Add(d)

	tests := []struct {
		name     string
		mode     PathMode
		contains string
	}{
		{
			name:     "Absolute path",
			mode:     PathModeAbsolute,
			contains: "/home/user/project/src/test.cs",
		},
		{
			name:     "Relative path",
			mode:     PathModeRelative,
			contains: "src/test.cs",
		},
		{
			name:     "Basename only",
			mode:     PathModeBasename,
			contains: "test.cs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  1,
				PathMode: tt.mode,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.contains) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.contains, output)
			}

			// Проверяем что есть основные элементы
			if !strings.Contains(output, "ERROR") {
				t.Error("Expected ERROR in output")
			}
			if !strings.Contains(output, "LEX1002") {
				t.Error("Expected LEX1002 code in output")
			}
			if !strings.Contains(output, "Unterminated string") {
				t.Error("Expected error message in output")
			}
		})
	}
}

// TestPathModeAuto проверяет авто-режим выбора пути
func TestPathModeAuto(t *testing.T) {
	fs := source.NewFileSet()

	tests := []struct {
		name     string
		path     string
		expected string // что должно быть в выводе
	}{
		{
			name:     "Short path - as is",
			path:     "test.cs",
			expected: "test.cs",
		},
		{
			name:     "Long absolute path - basename",
			path:     "/very/long/absolute/path/to/some/nested/directory/file.cs",
			expected: "file.cs",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := []byte("var x = 42;\n")
			fileID := fs.AddVirtual(tt.path, content)

			bag := diag.NewBag(10)
			d := diag.New(
				diag.SevWarning,
				diag.LexUnknownChar,
				source.Span{File: fileID, Start: 8, End: 10},
				"Test warning",
			)
			bag.Add(d)

			var buf bytes.Buffer
			opts := PrettyOpts{
				Color:    false,
				Context:  0,
				PathMode: PathModeAuto,
			}

			Pretty(&buf, bag, fs, opts)
			output := buf.String()

			if !strings.Contains(output, tt.expected) {
				t.Errorf("Expected output to contain %q, got:\n%s", tt.expected, output)
			}
		})
	}
}

func TestPrettyNotesAndFixes(t *testing.T) {
	fs := source.NewFileSet()
	content := []byte("using System.Text\n")
	fileID := fs.AddVirtual("test.cs", content)

	bag := diag.NewBag(4)
	primary := source.Span{File: fileID, Start: 6, End: 12}
	d := diag.New(diag.SevWarning, diag.SynUnexpectedToken, primary, "unexpected token")

	noteSpan := source.Span{File: fileID, Start: 13, End: 17}
	d = d.WithNote(noteSpan, "remove trailing identifier")

	insertSpan := source.Span{File: fileID, Start: 17, End: 17}
	d = d.WithFix("insert semicolon", diag.TextEdit{Span: insertSpan, NewText: ";"})

	end := uint32(len(content) - 1)
	wrap := fix.EditSet("comment out using", []diag.TextEdit{
		fix.Replace(source.Span{File: fileID}, "/* ", ""),
		fix.Replace(source.Span{File: fileID, Start: end, End: end}, " */", ""),
	}, fix.WithID("wrap-using-001"))
	d = d.WithFixSuggestion(wrap)

	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:     false,
		Context:   0,
		PathMode:  PathModeBasename,
		ShowNotes: true,
		ShowFixes: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()

	if !strings.Contains(output, "note: test.cs:1:14") {
		t.Fatalf("expected note with location, got:\n%s", output)
	}

	if !strings.Contains(output, "fix #1: insert semicolon") {
		t.Fatalf("expected first fix entry, got:\n%s", output)
	}

	if !strings.Contains(output, "apply=\";\"") {
		t.Fatalf("expected fix edit apply preview, got:\n%s", output)
	}

	if !strings.Contains(output, "id=wrap-using-001") {
		t.Fatalf("expected wrap fix id in output, got:\n%s", output)
	}
}

func TestPrettyFixPreview(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("example.cs", []byte("var a = ((b)) + c;\n"))

	bag := diag.NewBag(2)
	d := diag.New(diag.SevHidden, diag.StyUnnecessaryParens, source.Span{File: fileID, Start: 8, End: 13}, "Parentheses can be removed")
	d = d.WithFix("Remove unnecessary parentheses",
		diag.TextEdit{Span: source.Span{File: fileID, Start: 8, End: 9}, OldText: "("},
		diag.TextEdit{Span: source.Span{File: fileID, Start: 12, End: 13}, OldText: ")"},
	)
	bag.Add(d)

	var buf bytes.Buffer
	opts := PrettyOpts{
		Color:       false,
		Context:     0,
		PathMode:    PathModeBasename,
		ShowFixes:   true,
		ShowPreview: true,
	}
	Pretty(&buf, bag, fs, opts)

	output := buf.String()
	if strings.Count(output, "preview:") != 1 {
		t.Fatalf("expected one preview per fix, got:\n%s", output)
	}
	if !strings.Contains(output, "- var a = ((b)) + c;") {
		t.Fatalf("expected before line in preview, got:\n%s", output)
	}
	if !strings.Contains(output, "+ var a = (b) + c;") {
		t.Fatalf("expected both edits applied in preview, got:\n%s", output)
	}

	buf.Reset()
	opts.ShowPreview = false
	Pretty(&buf, bag, fs, opts)
	if strings.Contains(buf.String(), "preview:") {
		t.Fatalf("unexpected preview without ShowPreview:\n%s", buf.String())
	}
}

func TestFixPreviewRejectsOverlap(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("var x = (a);"))
	_, err := buildFixPreview(fs, diag.Fix{Title: "overlap", Edits: []diag.TextEdit{
		{Span: source.Span{File: fileID, Start: 8, End: 10}},
		{Span: source.Span{File: fileID, Start: 9, End: 11}},
	}})
	if err == nil {
		t.Fatal("expected an error for overlapping edits")
	}
	if _, err := buildFixPreview(fs, diag.Fix{Title: "empty"}); err == nil {
		t.Fatal("expected an error for a fix without edits")
	}
}

func TestPrettyUnderline(t *testing.T) {
	fs := source.NewFileSet()
	fileID := fs.AddVirtual("a.cs", []byte("var x = 1;\n\tvar y = (a);\nvar z = 2;\n"))

	bag := diag.NewBag(2)
	bag.Add(diag.New(diag.SevHidden, diag.StyUnnecessaryParens, source.Span{File: fileID, Start: 20, End: 23}, "Parentheses can be removed"))

	var buf bytes.Buffer
	Pretty(&buf, bag, fs, PrettyOpts{Context: 1, PathMode: PathModeBasename})

	want := strings.Join([]string{
		"a.cs:2:10: HIDDEN STY3001: Parentheses can be removed",
		"  1 | var x = 1;",
		"  2 |     var y = (a);",
		"    |             ^~~",
		"  3 | var z = 2;",
		"",
	}, "\n")
	if diff := cmp.Diff(want, buf.String()); diff != "" {
		t.Fatalf("pretty output mismatch (-want +got):\n%s", diff)
	}
}

func TestClipWidth(t *testing.T) {
	if got := clipWidth("abcdef", 4); got != "abc…" {
		t.Fatalf("clipWidth = %q", got)
	}
	if got := clipWidth("日本語です", 5); got != "日本…" {
		t.Fatalf("clipWidth wide = %q", got)
	}
	if got := clipWidth("abc", 0); got != "abc" {
		t.Fatalf("clipWidth unlimited = %q", got)
	}
}
