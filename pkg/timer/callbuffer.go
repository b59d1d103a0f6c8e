package timer

import (
	"sync"
	"time"
)

// CallBuffer coalesces bursts of Fire calls into a single callback
// invocation per window. The first Fire arms the timer for one delay;
// later calls within that window only add their arguments (merged,
// deduplicated, first-seen order preserved) and do not extend it.
//
// A zero delay invokes the callback synchronously on every Fire, which
// keeps tests deterministic.
type CallBuffer struct {
	mu      sync.Mutex
	fn      func(args []string)
	delay   time.Duration
	pending []string
	seen    map[string]struct{}
	timer   *time.Timer
	armed   bool
}

// NewCallBuffer creates a CallBuffer with the given window.
func NewCallBuffer(delay time.Duration, fn func(args []string)) *CallBuffer {
	return &CallBuffer{
		fn:    fn,
		delay: delay,
		seen:  make(map[string]struct{}),
	}
}

// Fire buffers the arguments and arms the flush timer if it is not
// already armed.
func (cb *CallBuffer) Fire(args ...string) {
	if cb.delay <= 0 {
		cb.fn(args)
		return
	}

	cb.mu.Lock()
	for _, a := range args {
		if _, dup := cb.seen[a]; dup {
			continue
		}
		cb.seen[a] = struct{}{}
		cb.pending = append(cb.pending, a)
	}

	if !cb.armed {
		cb.timer = time.AfterFunc(cb.delay, cb.flush)
		cb.armed = true
	}
	cb.mu.Unlock()
}

func (cb *CallBuffer) flush() {
	cb.mu.Lock()
	args := cb.pending
	cb.pending = nil
	cb.seen = make(map[string]struct{})
	cb.armed = false
	cb.mu.Unlock()

	if len(args) > 0 {
		cb.fn(args)
	}
}

// Stop cancels a pending flush. Buffered arguments are dropped.
func (cb *CallBuffer) Stop() {
	cb.mu.Lock()
	defer cb.mu.Unlock()
	if cb.timer != nil {
		cb.timer.Stop()
	}
	cb.pending = nil
	cb.seen = make(map[string]struct{})
	cb.armed = false
}
