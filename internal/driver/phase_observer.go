package driver

import "time"

// Stage names one step of the per-file pipeline.
type Stage uint8

const (
	StageLoad Stage = iota
	StageParse
	StageAnnotate
	StageAnalyze
	StageReport
)

func (s Stage) String() string {
	switch s {
	case StageLoad:
		return "load"
	case StageParse:
		return "parse"
	case StageAnnotate:
		return "annotate"
	case StageAnalyze:
		return "analyze"
	case StageReport:
		return "report"
	default:
		return "unknown"
	}
}

// Status reports where a file is in a stage.
type Status uint8

const (
	// StatusStart indicates that a stage has begun.
	StatusStart Status = iota
	StatusDone
	// StatusCached marks a file whose result came from the disk cache.
	StatusCached
	// StatusSkipped marks a file that was not analyzed because it does not parse.
	StatusSkipped
	StatusFailed
)

func (s Status) String() string {
	switch s {
	case StatusStart:
		return "start"
	case StatusDone:
		return "done"
	case StatusCached:
		return "cached"
	case StatusSkipped:
		return "skipped"
	case StatusFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// Event describes a stage boundary of one file.
type Event struct {
	File    string
	Stage   Stage
	Status  Status
	Err     error
	Elapsed time.Duration
}

// Terminal reports whether no further events follow for the file.
func (e Event) Terminal() bool {
	switch e.Status {
	case StatusCached, StatusSkipped, StatusFailed:
		return true
	}
	return e.Stage == StageReport && e.Status == StatusDone
}

// ProgressSink receives events emitted during AnalyzeDir. It is called from
// worker goroutines and must be safe for concurrent use.
type ProgressSink func(Event)

func (s ProgressSink) emit(ev Event) {
	if s != nil {
		s(ev)
	}
}

// ChannelSink forwards every event to ch. The send blocks when ch is full.
func ChannelSink(ch chan<- Event) ProgressSink {
	return func(ev Event) { ch <- ev }
}
