package trace

import (
	"fmt"
	"strings"
	"sync"
	"time"
)

// heartbeatShown caps how many in-flight files one heartbeat names.
const heartbeatShown = 8

// Heartbeat periodically records which files are still being analyzed. A
// file that appears in many heartbeats in a row is the one a stuck run is
// stuck on.
type Heartbeat struct {
	tracer   Tracer
	interval time.Duration
	stop     chan struct{}
	once     sync.Once
	wg       sync.WaitGroup
}

// StartHeartbeat starts beating every interval; it returns nil when t is
// disabled or interval is not positive.
func StartHeartbeat(t Tracer, interval time.Duration) *Heartbeat {
	if t == nil || !t.Enabled() || interval <= 0 {
		return nil
	}
	h := &Heartbeat{tracer: t, interval: interval, stop: make(chan struct{})}
	h.wg.Add(1)
	go h.run()
	return h
}

func (h *Heartbeat) run() {
	defer h.wg.Done()
	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()
	var n uint64
	for {
		select {
		case <-ticker.C:
			n++
			h.tracer.Emit(heartbeatEvent(n, InFlight()))
		case <-h.stop:
			return
		}
	}
}

func heartbeatEvent(n uint64, files []string) *Event {
	detail := fmt.Sprintf("#%d idle", n)
	if len(files) > 0 {
		shown := files[:min(len(files), heartbeatShown)]
		detail = fmt.Sprintf("#%d %s", n, strings.Join(shown, " "))
		if rest := len(files) - len(shown); rest > 0 {
			detail += fmt.Sprintf(" +%d", rest)
		}
	}
	return &Event{
		Time:   time.Now(),
		Kind:   KindHeartbeat,
		Scope:  ScopeDriver,
		GID:    goroutineID(),
		Name:   "heartbeat",
		Detail: detail,
		Extra:  map[string]string{"in_flight": fmt.Sprint(len(files))},
	}
}

// Stop ends the heartbeat and waits for its goroutine. Safe on nil and
// safe to call twice.
func (h *Heartbeat) Stop() {
	if h == nil {
		return
	}
	h.once.Do(func() { close(h.stop) })
	h.wg.Wait()
}
