package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestFileSetVersioning(t *testing.T) {
	fs := NewFileSet()

	id1 := fs.Add("test.cs", []byte("hello world"), 0)
	id2 := fs.Add("test.cs", []byte("hello universe"), 0)
	if id1 == id2 {
		t.Fatalf("re-adding a path must allocate a new id")
	}
	latest, ok := fs.GetLatest("test.cs")
	if !ok || latest != id2 {
		t.Fatalf("GetLatest = %d,%v; want %d,true", latest, ok, id2)
	}
	if got := string(fs.Get(id1).Content); got != "hello world" {
		t.Fatalf("old version lost: %q", got)
	}
}

func TestResolvePositions(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("a.cs", []byte("ab\ncd\r\nef"))
	f := fs.Get(id)

	if string(f.Content) != "ab\ncd\nef" {
		t.Fatalf("CRLF not folded: %q", f.Content)
	}
	tests := []struct {
		off  uint32
		want LineCol
	}{
		{0, LineCol{1, 1}},
		{2, LineCol{1, 3}},
		{3, LineCol{2, 1}},
		{7, LineCol{3, 2}},
	}
	for _, tt := range tests {
		if got := f.Position(tt.off); got != tt.want {
			t.Errorf("Position(%d) = %+v; want %+v", tt.off, got, tt.want)
		}
	}
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{2, 1}) || end != (LineCol{2, 3}) {
		t.Fatalf("Resolve = %+v %+v", start, end)
	}
}

func TestGetLine(t *testing.T) {
	fs := NewFileSet()
	f := fs.Get(fs.AddVirtual("a.cs", []byte("first\nsecond\n")))

	if got := f.GetLine(1); got != "first" {
		t.Errorf("line 1 = %q", got)
	}
	if got := f.GetLine(2); got != "second" {
		t.Errorf("line 2 = %q", got)
	}
	if got := f.GetLine(3); got != "" {
		t.Errorf("line 3 = %q", got)
	}
	if got := f.GetLine(42); got != "" {
		t.Errorf("line 42 = %q", got)
	}
}

func TestLoadStripsBOM(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bom.cs")
	if err := os.WriteFile(path, append([]byte{0xEF, 0xBB, 0xBF}, "int x = (1);\r\n"...), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	f := fs.Get(id)
	if f.Flags&FileHadBOM == 0 || f.Flags&FileNormalizedCRLF == 0 {
		t.Fatalf("flags = %b", f.Flags)
	}
	if string(f.Content) != "int x = (1);\n" {
		t.Fatalf("content = %q", f.Content)
	}
	if _, err := fs.Load(filepath.Join(dir, "missing.cs")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestFormatPath(t *testing.T) {
	f := &File{Path: "dir/sub/file.cs"}
	if got := f.FormatPath("basename", ""); got != "file.cs" {
		t.Errorf("basename = %q", got)
	}
	if got := f.FormatPath("auto", ""); got != "dir/sub/file.cs" {
		t.Errorf("auto = %q", got)
	}
}

func TestSpanHelpers(t *testing.T) {
	a := Span{File: 1, Start: 4, End: 10}
	b := Span{File: 1, Start: 8, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 4, End: 12}) {
		t.Errorf("Cover = %v", got)
	}
	if !a.Overlaps(b) || a.Contains(b) {
		t.Errorf("Overlaps/Contains wrong for %v %v", a, b)
	}
	if !a.Contains(Span{File: 1, Start: 5, End: 6}) {
		t.Errorf("Contains inner span")
	}
	if a.Overlaps(Span{File: 2, Start: 4, End: 10}) {
		t.Errorf("spans in different files overlap")
	}
	if a.Head().Len() != 0 || a.Tail().Start != 10 {
		t.Errorf("Head/Tail wrong")
	}
}
