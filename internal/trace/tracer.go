package trace

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"
)

// Tracer receives trace events. Implementations are safe for concurrent use.
type Tracer interface {
	Emit(ev *Event)
	Flush() error
	Close() error
	Level() Level
	Enabled() bool
}

// Nop discards everything; it is what FromContext returns when no tracer
// was attached.
var Nop Tracer = nopTracer{}

type nopTracer struct{}

func (nopTracer) Emit(*Event)   {}
func (nopTracer) Flush() error  { return nil }
func (nopTracer) Close() error  { return nil }
func (nopTracer) Level() Level  { return LevelOff }
func (nopTracer) Enabled() bool { return false }

// StorageMode says where recorded events go.
type StorageMode uint8

const (
	// ModeStream writes every event as it happens.
	ModeStream StorageMode = iota + 1
	// ModeRing keeps the last events in memory for a dump at exit.
	ModeRing
	ModeBoth
)

var modeNames = [...]string{
	ModeStream: "stream",
	ModeRing:   "ring",
	ModeBoth:   "both",
}

func (m StorageMode) String() string {
	if m > 0 && int(m) < len(modeNames) {
		return modeNames[m]
	}
	return "unknown"
}

// ParseMode converts a storage mode name.
func ParseMode(s string) (StorageMode, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for m, name := range modeNames {
		if m > 0 && name == s {
			return StorageMode(m), nil
		}
	}
	return ModeRing, fmt.Errorf("invalid storage mode %q (want stream|ring|both)", s)
}

// Config describes the tracer of one run.
type Config struct {
	Level  Level
	Mode   StorageMode
	Format Format
	// Output takes precedence over OutputPath; "-" or "" is stderr.
	Output     io.Writer
	OutputPath string
	RingSize   int
	// Files limits file and node events to paths matching this glob.
	Files     string
	Heartbeat time.Duration
}

const defaultRingSize = 4096

// New builds the tracer cfg describes. LevelOff gives Nop.
func New(cfg Config) (Tracer, error) {
	if cfg.Level == LevelOff {
		return Nop, nil
	}
	flt, err := newFilter(cfg.Level, cfg.Files)
	if err != nil {
		return nil, err
	}
	if cfg.RingSize <= 0 {
		cfg.RingSize = defaultRingSize
	}
	format := cfg.Format
	if format == FormatAuto {
		format = FormatText
		if cfg.OutputPath != "" && cfg.OutputPath != "-" {
			format = DetectFormat(cfg.OutputPath)
		}
	}

	switch cfg.Mode {
	case ModeStream:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return newStreamTracer(w, flt, format), nil
	case ModeRing:
		return newRingTracer(cfg.RingSize, flt), nil
	case ModeBoth:
		w, err := openOutput(cfg)
		if err != nil {
			return nil, err
		}
		return NewMultiTracer(cfg.Level, newStreamTracer(w, flt, format), newRingTracer(cfg.RingSize, flt)), nil
	}
	return nil, fmt.Errorf("unknown storage mode: %v", cfg.Mode)
}

// openOutput returns the writer of cfg. Only files opened here are closed
// by the tracer; stderr and caller writers are left open.
func openOutput(cfg Config) (io.Writer, error) {
	if cfg.Output != nil {
		return cfg.Output, nil
	}
	if cfg.OutputPath == "" || cfg.OutputPath == "-" {
		return uncloseable{os.Stderr}, nil
	}
	f, err := os.Create(cfg.OutputPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open trace output: %w", err)
	}
	return f, nil
}

// uncloseable hides the Close method of the wrapped writer.
type uncloseable struct {
	io.Writer
}
