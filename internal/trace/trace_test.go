package trace

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

func TestParseLevel(t *testing.T) {
	for in, want := range map[string]Level{"": LevelOff, "off": LevelOff, "PHASE": LevelPhase, "Detail": LevelDetail, "debug": LevelDebug} {
		got, err := ParseLevel(in)
		require.NoError(t, err, in)
		require.Equal(t, want, got, in)
	}
	_, err := ParseLevel("loud")
	require.Error(t, err)
}

func TestLevelIncludes(t *testing.T) {
	require.True(t, LevelPhase.Includes(ScopePass))
	require.False(t, LevelPhase.Includes(ScopeFile))
	require.True(t, LevelDetail.Includes(ScopeFile))
	require.False(t, LevelDetail.Includes(ScopeNode))
	require.True(t, LevelDebug.Includes(ScopeNode))
	require.False(t, LevelError.Includes(ScopeDriver))
}

func TestNewOffIsNop(t *testing.T) {
	tr, err := New(Config{Level: LevelOff})
	require.NoError(t, err)
	require.Equal(t, Nop, tr)
	ctx, span := Start(WithTracer(context.Background(), tr), ScopeDriver, "check")
	require.Nil(t, span)
	require.Zero(t, span.ID())
	require.Zero(t, span.End(""))
	Verdict(ctx, Group{Line: 1, Col: 1, Reason: "removable"})
}

func TestNewRejectsBadFilePattern(t *testing.T) {
	_, err := New(Config{Level: LevelDebug, Mode: ModeRing, Files: "src/[a"})
	require.Error(t, err)
}

func TestStreamNDJSONCarriesFileAndVerdict(t *testing.T) {
	var buf bytes.Buffer
	ctx := WithTracer(context.Background(), NewStreamTracer(&buf, LevelDebug, FormatNDJSON))

	ctx, root := Start(ctx, ScopeDriver, "check")
	fctx, file := StartFile(ctx, "src/a.cs")
	Verdict(fctx, Group{Line: 3, Col: 9, Reason: "removable", Rule: "primary", Text: "(a)"})
	file.WithExtra("groups", "1").End("analyzed")
	root.End("")

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 5)

	type record struct {
		Kind     string            `json:"kind"`
		Scope    string            `json:"scope"`
		Name     string            `json:"name"`
		ParentID uint64            `json:"parent_id"`
		GID      uint64            `json:"gid"`
		File     string            `json:"file"`
		Group    *Group            `json:"group"`
		Detail   string            `json:"detail"`
		Extra    map[string]string `json:"extra"`
	}
	var point record
	require.NoError(t, json.Unmarshal([]byte(lines[2]), &point))
	require.Equal(t, "node", point.Scope)
	require.Equal(t, "src/a.cs", point.File)
	require.Equal(t, file.ID(), point.ParentID)
	if diff := cmp.Diff(&Group{Line: 3, Col: 9, Reason: "removable", Rule: "primary", Text: "(a)"}, point.Group); diff != "" {
		t.Fatalf("group mismatch (-want +got):\n%s", diff)
	}

	var end record
	require.NoError(t, json.Unmarshal([]byte(lines[3]), &end))
	require.Equal(t, "end", end.Kind)
	require.Equal(t, "file", end.Scope)
	require.Equal(t, root.ID(), end.ParentID)
	require.NotZero(t, end.GID)
	require.Equal(t, "analyzed", end.Detail)
	require.Equal(t, map[string]string{"groups": "1"}, end.Extra)
}

func TestFileFilter(t *testing.T) {
	flt, err := newFilter(LevelDebug, "src/**/*.cs")
	require.NoError(t, err)
	ring := newRingTracer(16, flt)
	ctx := WithTracer(context.Background(), ring)

	ctx, pass := Start(ctx, ScopePass, "analyze")
	for _, path := range []string{"src/deep/a.cs", "test/b.cs"} {
		fctx, span := StartFile(ctx, path)
		Verdict(fctx, Group{Line: 1, Col: 1, Reason: "precedence"})
		span.End("")
	}
	pass.End("")

	files := map[string]int{}
	for _, ev := range ring.Snapshot() {
		files[ev.File]++
	}
	// проход без файла проходит фильтр, test/b.cs отброшен
	require.Equal(t, map[string]int{"": 2, "src/deep/a.cs": 3}, files)
}

func TestStreamChromeIsValidJSON(t *testing.T) {
	var buf bytes.Buffer
	tr := NewStreamTracer(&buf, LevelDebug, FormatChrome)
	ctx := WithTracer(context.Background(), tr)
	ctx, span := StartFile(ctx, "a.cs")
	Verdict(ctx, Group{Line: 1, Col: 9, Reason: "removable", Rule: "primary"})
	span.End("")
	require.NoError(t, tr.Close())

	var doc struct {
		TraceEvents []struct {
			Name string         `json:"name"`
			Ph   string         `json:"ph"`
			Args map[string]any `json:"args"`
		} `json:"traceEvents"`
	}
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	require.Len(t, doc.TraceEvents, 3)
	require.Equal(t, []string{"B", "i", "E"}, []string{doc.TraceEvents[0].Ph, doc.TraceEvents[1].Ph, doc.TraceEvents[2].Ph})
	require.Equal(t, "a.cs", doc.TraceEvents[1].Args["file"])
	require.Contains(t, doc.TraceEvents[1].Args, "group")
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestStreamReportsWriteErrors(t *testing.T) {
	tr := NewStreamTracer(failingWriter{}, LevelPhase, FormatText)
	tr.Emit(&Event{Kind: KindPoint, Scope: ScopePass, Name: "collect"})
	require.ErrorContains(t, tr.Flush(), "disk full")
	require.ErrorContains(t, tr.Close(), "disk full")
}

func TestOpenOutputKeepsStderrOpen(t *testing.T) {
	w, err := openOutput(Config{OutputPath: "-"})
	require.NoError(t, err)
	_, closer := w.(interface{ Close() error })
	require.False(t, closer)
}

func TestRingWraps(t *testing.T) {
	ring := NewRingTracer(3, LevelDebug)
	for i := range 5 {
		ring.Emit(&Event{Kind: KindPoint, Scope: ScopeNode, Name: string(rune('a' + i))})
	}
	snap := ring.Snapshot()
	require.Len(t, snap, 3)
	require.Equal(t, []string{"c", "d", "e"}, []string{snap[0].Name, snap[1].Name, snap[2].Name})

	var buf bytes.Buffer
	require.NoError(t, ring.Dump(&buf, FormatText))
	require.Equal(t, 3, strings.Count(buf.String(), "•"))
}

func TestRingUnfinishedFiles(t *testing.T) {
	ring := NewRingTracer(32, LevelDetail)
	ctx := WithTracer(context.Background(), ring)
	_, done := StartFile(ctx, "done.cs")
	_, stuck := StartFile(ctx, "stuck.cs")
	_, slow := StartFile(ctx, "slow.cs")
	done.End("")
	defer stuck.End("")
	defer slow.End("")

	require.Equal(t, []string{"stuck.cs", "slow.cs"}, ring.Unfinished())
	require.Subset(t, InFlight(), []string{"slow.cs", "stuck.cs"})
	require.NotContains(t, InFlight(), "done.cs")
}

func TestHeartbeatNamesFilesInFlight(t *testing.T) {
	files := []string{"a.cs", "b.cs", "c.cs", "d.cs", "e.cs", "f.cs", "g.cs", "h.cs", "i.cs", "j.cs"}
	ev := heartbeatEvent(4, files)
	require.Equal(t, KindHeartbeat, ev.Kind)
	require.Equal(t, "#4 a.cs b.cs c.cs d.cs e.cs f.cs g.cs h.cs +2", ev.Detail)
	require.Equal(t, "10", ev.Extra["in_flight"])
	require.Equal(t, "#1 idle", heartbeatEvent(1, nil).Detail)

	require.Nil(t, StartHeartbeat(Nop, 1))
	var h *Heartbeat
	h.Stop()
}

func TestMultiCopiesEvents(t *testing.T) {
	var buf bytes.Buffer
	ring := NewRingTracer(8, LevelPhase)
	multi := NewMultiTracer(LevelPhase, NewStreamTracer(&buf, LevelPhase, FormatText), ring)
	require.Same(t, ring, multi.Ring())

	_, span := Start(WithTracer(context.Background(), multi), ScopeDriver, "fix")
	span.End("")
	require.Len(t, ring.Snapshot(), 2)
	require.Contains(t, buf.String(), "→ fix")
	require.Contains(t, buf.String(), "← fix")
}

func TestTextRendering(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, FormatEvents(&buf, []Event{
		{Kind: KindPoint, Scope: ScopePass, Name: "n", Extra: map[string]string{"z": "1", "a": "2"}},
		{Kind: KindPoint, Scope: ScopeNode, Name: "group", File: "a.cs", Group: &Group{Line: 2, Col: 5, Reason: "grammar", Rule: "cast-ambiguity", Text: "(T)"}},
	}, FormatText))
	out := buf.String()
	require.Contains(t, out, "{a=2, z=1}")
	require.Contains(t, out, `group @a.cs 2:5 grammar(cast-ambiguity) "(T)"`)
}

func TestContextRoundTrip(t *testing.T) {
	require.Equal(t, Nop, FromContext(context.Background()))
	ring := NewRingTracer(4, LevelDetail)
	ctx := WithTracer(context.Background(), ring)
	require.Same(t, ring, FromContext(ctx).(*RingTracer))

	fctx, file := StartFile(ctx, "a.cs")
	_, inner := Start(fctx, ScopeFile, "cache")
	inner.End("hit")
	file.End("")
	snap := ring.Snapshot()
	require.Len(t, snap, 4)
	require.Equal(t, file.ID(), snap[1].ParentID)
	require.Equal(t, "a.cs", snap[1].File)
}

func TestDetectFormat(t *testing.T) {
	require.Equal(t, FormatNDJSON, DetectFormat("out.ndjson"))
	require.Equal(t, FormatChrome, DetectFormat("out.chrome.json"))
	require.Equal(t, FormatText, DetectFormat("trace.log"))
}

func TestPointRespectsLevel(t *testing.T) {
	ring := NewRingTracer(4, LevelDetail)
	ctx := WithTracer(context.Background(), ring)
	Point(ctx, ScopeNode, "group", "removable")
	require.Empty(t, ring.Snapshot())
	Point(ctx, ScopeFile, "cache", "hit")
	snap := ring.Snapshot()
	require.Len(t, snap, 1)
	require.Equal(t, KindPoint, snap[0].Kind)
	require.Equal(t, "hit", snap[0].Detail)
}

func TestGoroutineIDsDiffer(t *testing.T) {
	main := goroutineID()
	require.NotZero(t, main)
	other := make(chan uint64)
	go func() { other <- goroutineID() }()
	got := <-other
	require.NotZero(t, got)
	require.NotEqual(t, main, got)
}
