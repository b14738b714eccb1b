package trace

import (
	"fmt"
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// filter decides which events a tracer records: by level, and for events
// tied to a file, by a glob over the file's relative path.
type filter struct {
	level Level
	files string
}

func newFilter(level Level, files string) (filter, error) {
	if files != "" && !doublestar.ValidatePattern(files) {
		return filter{}, fmt.Errorf("invalid trace file pattern %q", files)
	}
	return filter{level: level, files: files}, nil
}

func (f filter) allows(ev *Event) bool {
	if ev.Kind == KindHeartbeat {
		return f.level > LevelOff
	}
	if !f.level.Includes(ev.Scope) {
		return false
	}
	if f.files == "" || ev.File == "" {
		return true
	}
	ok, _ := doublestar.Match(f.files, filepath.ToSlash(ev.File))
	return ok
}
