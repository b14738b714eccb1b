package trace

import (
	"errors"
	"io"
	"sync"
)

// StreamTracer writes every recorded event as it happens.
type StreamTracer struct {
	mu     sync.Mutex
	w      io.Writer
	filter filter
	enc    encoder
	// err keeps the first write failure; tracing never interrupts a run,
	// the error surfaces from Flush and Close.
	err    error
	closed bool
}

// NewStreamTracer writes events of level and above, for every file, to w.
func NewStreamTracer(w io.Writer, level Level, format Format) *StreamTracer {
	return newStreamTracer(w, filter{level: level}, format)
}

func newStreamTracer(w io.Writer, flt filter, format Format) *StreamTracer {
	t := &StreamTracer{w: w, filter: flt, enc: newEncoder(format)}
	t.err = t.enc.open(w)
	return t
}

func (t *StreamTracer) Emit(ev *Event) {
	if !t.filter.allows(ev) {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.closed {
		return
	}
	ev.Seq = NextSeq()
	if err := t.enc.write(t.w, ev); err != nil && t.err == nil {
		t.err = err
	}
}

// Flush returns the first write error, if any.
func (t *StreamTracer) Flush() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	if f, ok := t.w.(interface{ Flush() error }); ok {
		if err := f.Flush(); err != nil && t.err == nil {
			t.err = err
		}
	}
	return t.err
}

// Close finishes the document and closes the output when the tracer opened it.
func (t *StreamTracer) Close() error {
	t.mu.Lock()
	if t.closed {
		t.mu.Unlock()
		return t.err
	}
	t.closed = true
	endErr := t.enc.close(t.w)
	t.mu.Unlock()

	err := errors.Join(t.Flush(), endErr)
	if c, ok := t.w.(io.Closer); ok {
		err = errors.Join(err, c.Close())
	}
	return err
}

func (t *StreamTracer) Level() Level  { return t.filter.level }
func (t *StreamTracer) Enabled() bool { return t.filter.level > LevelOff }
