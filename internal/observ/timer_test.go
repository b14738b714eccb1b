package observ

import (
	"strings"
	"sync"
	"testing"
	"time"
)

func TestTimerAggregatesConcurrentSamples(t *testing.T) {
	tm := NewTimer()
	idx := tm.Begin("analyze")

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			tm.Add("parse", time.Millisecond)
		}()
	}
	wg.Wait()
	tm.End(idx, "8 files")

	rep := tm.Report()
	if len(rep.Phases) != 2 {
		t.Fatalf("expected 2 phases, got %+v", rep.Phases)
	}
	parse := rep.Phases[1]
	if parse.Name != "parse" || parse.Count != 8 || parse.DurationMS != 8 {
		t.Fatalf("unexpected aggregate: %+v", parse)
	}
	if rep.TotalMS != rep.Phases[0].DurationMS {
		t.Fatalf("aggregates must not count toward total: %+v", rep)
	}
	if !strings.Contains(tm.Summary(), "x8") {
		t.Fatalf("summary misses sample count:\n%s", tm.Summary())
	}
}

func TestNilTimer(t *testing.T) {
	var tm *Timer
	tm.End(tm.Begin("x"), "")
	tm.Add("y", time.Second)
	if rep := tm.Report(); len(rep.Phases) != 0 {
		t.Fatalf("nil timer reported %+v", rep)
	}
}
