package timer

import (
	"sync/atomic"
	"testing"
	"time"
)

// Interface compliance checks
var (
	_ Periodic = (*TickerTask)(nil)
	_ Periodic = (*SleepTask)(nil)
	_ Factory  = NewTicker
	_ Factory  = NewSleeper
)

// =============================================================================
// Periodic Backend Tests
// =============================================================================

func TestPeriodic_RunsCallback(t *testing.T) {
	backends := []struct {
		name    string
		factory Factory
	}{
		{"ticker", NewTicker},
		{"sleeper", NewSleeper},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			var calls atomic.Int64
			task := b.factory(5*time.Millisecond, func() {
				calls.Add(1)
			})

			task.Start()
			time.Sleep(60 * time.Millisecond)
			task.Stop()

			got := calls.Load()
			if got < 3 {
				t.Errorf("callback ran %d times, want at least 3", got)
			}

			// No runs after Stop has returned.
			after := calls.Load()
			time.Sleep(30 * time.Millisecond)
			if calls.Load() != after {
				t.Error("callback ran after Stop returned")
			}
		})
	}
}

func TestPeriodic_StopIsIdempotent(t *testing.T) {
	backends := []struct {
		name    string
		factory Factory
	}{
		{"ticker", NewTicker},
		{"sleeper", NewSleeper},
	}

	for _, b := range backends {
		t.Run(b.name, func(t *testing.T) {
			task := b.factory(5*time.Millisecond, func() {})
			task.Start()
			task.Stop()
			task.Stop() // must not panic or hang
		})
	}
}

func TestPeriodic_StopWaitsForCallback(t *testing.T) {
	entered := make(chan struct{})
	release := make(chan struct{})
	var done atomic.Bool

	task := NewTicker(5*time.Millisecond, func() {
		select {
		case entered <- struct{}{}:
			<-release
			done.Store(true)
		default:
		}
	})

	task.Start()
	<-entered
	go func() {
		time.Sleep(10 * time.Millisecond)
		close(release)
	}()
	task.Stop()

	if !done.Load() {
		t.Error("Stop returned before the in-flight callback finished")
	}
}
