package trace

import (
	"io"
	"sync"
)

// RingTracer keeps the last events in memory. A run that hangs or fails
// dumps it at exit; Unfinished then names the files that never completed.
type RingTracer struct {
	mu     sync.RWMutex
	events []Event
	head   int
	full   bool
	filter filter
}

// NewRingTracer keeps up to capacity events of level and above.
func NewRingTracer(capacity int, level Level) *RingTracer {
	return newRingTracer(capacity, filter{level: level})
}

func newRingTracer(capacity int, flt filter) *RingTracer {
	if capacity <= 0 {
		capacity = defaultRingSize
	}
	return &RingTracer{events: make([]Event, capacity), filter: flt}
}

func (t *RingTracer) Emit(ev *Event) {
	if !t.filter.allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	stored := *ev
	stored.Seq = NextSeq()
	t.events[t.head] = stored
	t.head = (t.head + 1) % len(t.events)
	if t.head == 0 {
		t.full = true
	}
}

// Snapshot returns the stored events, oldest first.
func (t *RingTracer) Snapshot() []Event {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if !t.full {
		return append([]Event(nil), t.events[:t.head]...)
	}
	out := make([]Event, 0, len(t.events))
	out = append(out, t.events[t.head:]...)
	return append(out, t.events[:t.head]...)
}

// Dump writes the stored events to w as one document.
func (t *RingTracer) Dump(w io.Writer, format Format) error {
	return FormatEvents(w, t.Snapshot(), format)
}

// Unfinished lists, in start order, the files whose span began within the
// ring but never ended.
func (t *RingTracer) Unfinished() []string {
	open := make(map[uint64]int)
	var files []string
	for _, ev := range t.Snapshot() {
		if ev.Scope != ScopeFile {
			continue
		}
		switch ev.Kind {
		case KindSpanBegin:
			open[ev.SpanID] = len(files)
			files = append(files, ev.File)
		case KindSpanEnd:
			if i, ok := open[ev.SpanID]; ok {
				files[i] = ""
				delete(open, ev.SpanID)
			}
		}
	}
	out := files[:0]
	for _, f := range files {
		if f != "" {
			out = append(out, f)
		}
	}
	return out
}

func (t *RingTracer) Flush() error  { return nil }
func (t *RingTracer) Close() error  { return nil }
func (t *RingTracer) Level() Level  { return t.filter.level }
func (t *RingTracer) Enabled() bool { return t.filter.level > LevelOff }
