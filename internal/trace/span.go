package trace

import (
	"context"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"fortio.org/safecast"
	"github.com/petermattis/goid"
)

var (
	globalSeq   atomic.Uint64
	globalSpans atomic.Uint64
)

// NextSeq returns the next event sequence number.
func NextSeq() uint64 {
	return globalSeq.Add(1)
}

func goroutineID() uint64 {
	gid, err := safecast.Conv[uint64](goid.Get())
	if err != nil {
		return 0
	}
	return gid
}

type tracerKey struct{}

type spanKey struct{}

// WithTracer attaches t to ctx.
func WithTracer(ctx context.Context, t Tracer) context.Context {
	return context.WithValue(ctx, tracerKey{}, t)
}

// FromContext returns the tracer of ctx, or Nop.
func FromContext(ctx context.Context) Tracer {
	if t, ok := ctx.Value(tracerKey{}).(Tracer); ok && t != nil {
		return t
	}
	return Nop
}

func currentSpan(ctx context.Context) *Span {
	s, _ := ctx.Value(spanKey{}).(*Span)
	return s
}

// Span is an open interval of the run. A nil *Span is valid and records nothing.
type Span struct {
	tracer  Tracer
	id      uint64
	parent  uint64
	gid     uint64
	scope   Scope
	name    string
	file    string
	started time.Time
	extra   map[string]string
}

// Start opens a span under the current span of ctx and returns a context
// carrying it. The span inherits the file of its parent.
func Start(ctx context.Context, scope Scope, name string) (context.Context, *Span) {
	parent := currentSpan(ctx)
	file := ""
	if parent != nil {
		file = parent.file
	}
	return start(ctx, scope, name, file)
}

// StartFile opens the span of one source file; path is relative to the
// run's base directory. The file counts as in flight until the span ends.
func StartFile(ctx context.Context, path string) (context.Context, *Span) {
	return start(ctx, ScopeFile, "file", path)
}

func start(ctx context.Context, scope Scope, name, file string) (context.Context, *Span) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().Includes(scope) {
		return ctx, nil
	}
	s := &Span{
		tracer:  t,
		id:      globalSpans.Add(1),
		gid:     goroutineID(),
		scope:   scope,
		name:    name,
		file:    file,
		started: time.Now(),
	}
	if parent := currentSpan(ctx); parent != nil {
		s.parent = parent.id
	}
	if scope == ScopeFile {
		inFlight.add(s.id, file)
	}
	t.Emit(&Event{
		Time:     s.started,
		Kind:     KindSpanBegin,
		Scope:    scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     name,
		File:     file,
	})
	return context.WithValue(ctx, spanKey{}, s), s
}

// End closes s with an optional outcome and returns its duration.
func (s *Span) End(detail string) time.Duration {
	if s == nil {
		return 0
	}
	if s.scope == ScopeFile {
		inFlight.remove(s.id)
	}
	d := time.Since(s.started)
	s.tracer.Emit(&Event{
		Time:     time.Now(),
		Kind:     KindSpanEnd,
		Scope:    s.scope,
		SpanID:   s.id,
		ParentID: s.parent,
		GID:      s.gid,
		Name:     s.name,
		File:     s.file,
		Detail:   detail,
		Extra:    s.extra,
	})
	return d
}

// WithExtra records key=value on the end event.
func (s *Span) WithExtra(key, value string) *Span {
	if s == nil {
		return nil
	}
	if s.extra == nil {
		s.extra = make(map[string]string)
	}
	s.extra[key] = value
	return s
}

// ID returns the span id, 0 for a nil span.
func (s *Span) ID() uint64 {
	if s == nil {
		return 0
	}
	return s.id
}

// Verdict records the verdict on one parenthesized group of the file span
// in ctx. Nothing is recorded below LevelDebug.
func Verdict(ctx context.Context, g Group) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().Includes(ScopeNode) {
		return
	}
	ev := &Event{
		Time:  time.Now(),
		Kind:  KindPoint,
		Scope: ScopeNode,
		GID:   goroutineID(),
		Name:  "group",
		Group: &g,
	}
	if s := currentSpan(ctx); s != nil {
		ev.ParentID = s.id
		ev.File = s.file
	}
	t.Emit(ev)
}

// Point records an instant event under the current span of ctx.
func Point(ctx context.Context, scope Scope, name, detail string) {
	t := FromContext(ctx)
	if !t.Enabled() || !t.Level().Includes(scope) {
		return
	}
	ev := &Event{
		Time:   time.Now(),
		Kind:   KindPoint,
		Scope:  scope,
		GID:    goroutineID(),
		Name:   name,
		Detail: detail,
	}
	if s := currentSpan(ctx); s != nil {
		ev.ParentID = s.id
		ev.File = s.file
	}
	t.Emit(ev)
}

// inFlight tracks the file spans currently open, for the heartbeat.
var inFlight = &fileRegistry{files: make(map[uint64]string)}

type fileRegistry struct {
	mu    sync.Mutex
	files map[uint64]string
}

func (r *fileRegistry) add(id uint64, file string) {
	r.mu.Lock()
	r.files[id] = file
	r.mu.Unlock()
}

func (r *fileRegistry) remove(id uint64) {
	r.mu.Lock()
	delete(r.files, id)
	r.mu.Unlock()
}

// snapshot returns the open files sorted by path.
func (r *fileRegistry) snapshot() []string {
	r.mu.Lock()
	out := make([]string, 0, len(r.files))
	for _, f := range r.files {
		out = append(out, f)
	}
	r.mu.Unlock()
	slices.Sort(out)
	return out
}

// InFlight returns the files being analyzed right now, sorted.
func InFlight() []string {
	return inFlight.snapshot()
}
