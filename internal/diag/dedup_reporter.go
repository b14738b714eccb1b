package diag

import "unparen/internal/source"

// DedupReporter forwards each distinct diagnostic once. The parser lexes
// interpolation holes and directive conditions itself, and a speculative
// branch that is rolled back lexes them again; without it every lexical
// error there would be reported twice.
type DedupReporter struct {
	next    Reporter
	seen    map[reportKey]struct{}
	dropped int
}

type reportKey struct {
	code Code
	sev  Severity
	span source.Span
	msg  string
}

func NewDedupReporter(next Reporter) *DedupReporter {
	return &DedupReporter{next: next, seen: make(map[reportKey]struct{})}
}

func (r *DedupReporter) Report(code Code, sev Severity, primary source.Span, msg string, notes []Note, fixes []Fix) {
	key := reportKey{code: code, sev: sev, span: primary, msg: msg}
	if _, ok := r.seen[key]; ok {
		r.dropped++
		return
	}
	r.seen[key] = struct{}{}
	if r.next != nil {
		r.next.Report(code, sev, primary, msg, notes, fixes)
	}
}

// Dropped returns how many repeats were suppressed.
func (r *DedupReporter) Dropped() int {
	return r.dropped
}
