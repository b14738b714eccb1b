package ui

import (
	"strings"
	"testing"

	"unparen/internal/driver"
)

func TestProgressModelTracksEvents(t *testing.T) {
	m := NewProgressModel("check", []string{"a.cs", "b.cs"}, nil).(*progressModel)

	m.Update(eventMsg(driver.Event{File: "a.cs", Stage: driver.StageParse, Status: driver.StatusStart}))
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("status = %q, want parsing", got)
	}
	m.Update(eventMsg(driver.Event{File: "a.cs", Stage: driver.StageParse, Status: driver.StatusDone}))
	if got := m.items[0].status; got != "parsing" {
		t.Fatalf("intermediate done must not relabel, got %q", got)
	}
	m.Update(eventMsg(driver.Event{File: "a.cs", Stage: driver.StageReport, Status: driver.StatusDone}))
	m.Update(eventMsg(driver.Event{File: "b.cs", Stage: driver.StageLoad, Status: driver.StatusCached}))
	m.Update(eventMsg(driver.Event{File: "zzz.cs", Stage: driver.StageLoad, Status: driver.StatusStart}))

	if m.finished != 2 {
		t.Fatalf("finished = %d, want 2", m.finished)
	}
	if p := m.percent(); p != 1.0 {
		t.Fatalf("percent = %v, want 1", p)
	}
	if view := m.View(); !strings.Contains(view, "check 2/2") {
		t.Fatalf("unexpected header:\n%s", view)
	}

	m.Update(doneMsg{})
	view := m.View()
	if !strings.Contains(view, "done: check") || !strings.Contains(view, "cached") {
		t.Fatalf("unexpected final view:\n%s", view)
	}
}

func TestProgressModelCapsRows(t *testing.T) {
	files := make([]string, maxRows+5)
	for i := range files {
		files[i] = strings.Repeat("x", i+1) + ".cs"
	}
	m := NewProgressModel("check", files, nil).(*progressModel)
	if view := m.View(); !strings.Contains(view, "5 more") {
		t.Fatalf("expected overflow line:\n%s", view)
	}
}

func TestTruncate(t *testing.T) {
	cases := []struct {
		in    string
		width int
		want  string
	}{
		{"short.cs", 20, "short.cs"},
		{"very/long/path/file.cs", 10, "very..."},
		{"abcdef", 3, "abc"},
	}
	for _, c := range cases {
		if got := truncate(c.in, c.width); got != c.want {
			t.Errorf("truncate(%q, %d) = %q, want %q", c.in, c.width, got, c.want)
		}
	}
}
