package timer

import (
	"sync"
	"time"
)

// Periodic is a background task that runs a callback at a fixed interval.
// A Periodic is single-use: Start may be called once, Stop may be called
// any number of times after that. Stop returns after the run loop has
// exited; it does not interrupt a callback that is already executing.
type Periodic interface {
	Start()
	Stop()
}

// Factory builds a Periodic for the given interval and callback.
// It exists so callers can swap the timer backend (or inject a manual
// one in tests) without changing their scheduling logic.
type Factory func(interval time.Duration, fn func()) Periodic

// TickerTask drives the callback from a time.Ticker.
type TickerTask struct {
	interval time.Duration
	fn       func()
	ticker   *time.Ticker
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ Periodic = (*TickerTask)(nil)

// NewTicker creates a ticker-backed periodic task. It satisfies Factory.
func NewTicker(interval time.Duration, fn func()) Periodic {
	return &TickerTask{
		interval: interval,
		fn:       fn,
		done:     make(chan struct{}),
	}
}

func (t *TickerTask) Start() {
	t.ticker = time.NewTicker(t.interval)
	t.wg.Add(1)
	go t.run()
}

func (t *TickerTask) run() {
	defer t.wg.Done()

	for {
		select {
		case <-t.ticker.C:
			t.fn()
		case <-t.done:
			t.ticker.Stop()
			return
		}
	}
}

func (t *TickerTask) Stop() {
	t.stopOnce.Do(func() {
		close(t.done)
	})
	t.wg.Wait()
}

// SleepTask drives the callback from a sleep loop: wait one interval,
// then run. Behaves the same as TickerTask from the caller's side; the
// callback runs at the end of each interval so a stop during the wait
// skips the pending run.
type SleepTask struct {
	interval time.Duration
	fn       func()
	done     chan struct{}
	wg       sync.WaitGroup
	stopOnce sync.Once
}

var _ Periodic = (*SleepTask)(nil)

// NewSleeper creates a sleep-loop periodic task. It satisfies Factory.
func NewSleeper(interval time.Duration, fn func()) Periodic {
	return &SleepTask{
		interval: interval,
		fn:       fn,
		done:     make(chan struct{}),
	}
}

func (s *SleepTask) Start() {
	s.wg.Add(1)
	go s.run()
}

func (s *SleepTask) run() {
	defer s.wg.Done()

	for {
		select {
		case <-time.After(s.interval):
			s.fn()
		case <-s.done:
			return
		}
	}
}

func (s *SleepTask) Stop() {
	s.stopOnce.Do(func() {
		close(s.done)
	})
	s.wg.Wait()
}
