package trace

import (
	"fmt"
	"strings"
)

// Level controls how deep into the pipeline events are recorded.
type Level uint8

const (
	LevelOff Level = iota
	// LevelError records nothing while running; the ring is dumped only when a run fails.
	LevelError
	// LevelPhase records driver and pass spans.
	LevelPhase
	// LevelDetail adds one span per file.
	LevelDetail
	// LevelDebug adds one point per group verdict.
	LevelDebug
)

var levelNames = [...]string{
	LevelOff:    "off",
	LevelError:  "error",
	LevelPhase:  "phase",
	LevelDetail: "detail",
	LevelDebug:  "debug",
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel converts a level name, case-insensitively. The empty string is off.
func ParseLevel(s string) (Level, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return LevelOff, nil
	}
	for l, name := range levelNames {
		if name == s {
			return Level(l), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level %q (want %s)", s, strings.Join(levelNames[:], "|"))
}

// deepest is the finest scope recorded at l; 0 records nothing.
func (l Level) deepest() Scope {
	switch l {
	case LevelPhase:
		return ScopePass
	case LevelDetail:
		return ScopeFile
	case LevelDebug:
		return ScopeNode
	}
	return 0
}

// Includes reports whether events of scope are recorded at l.
func (l Level) Includes(scope Scope) bool {
	return scope <= l.deepest()
}
