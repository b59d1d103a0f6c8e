package timer

import (
	"sync"
	"testing"
	"time"
)

// =============================================================================
// CallBuffer Tests
// =============================================================================

func TestCallBuffer_ZeroDelayIsSynchronous(t *testing.T) {
	var got [][]string
	cb := NewCallBuffer(0, func(args []string) {
		got = append(got, args)
	})

	cb.Fire("a")
	cb.Fire("b", "c")

	if len(got) != 2 {
		t.Fatalf("callback ran %d times, want 2", len(got))
	}
	if len(got[0]) != 1 || got[0][0] != "a" {
		t.Errorf("first call args = %v, want [a]", got[0])
	}
	if len(got[1]) != 2 || got[1][0] != "b" || got[1][1] != "c" {
		t.Errorf("second call args = %v, want [b c]", got[1])
	}
}

func TestCallBuffer_CoalescesBurst(t *testing.T) {
	var mu sync.Mutex
	var calls [][]string
	done := make(chan struct{}, 1)

	cb := NewCallBuffer(30*time.Millisecond, func(args []string) {
		mu.Lock()
		calls = append(calls, args)
		mu.Unlock()
		done <- struct{}{}
	})

	cb.Fire("u1")
	cb.Fire("u2")
	cb.Fire("u1") // duplicate within the window

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("callback never fired")
	}

	mu.Lock()
	defer mu.Unlock()
	if len(calls) != 1 {
		t.Fatalf("callback ran %d times, want 1", len(calls))
	}
	want := []string{"u1", "u2"}
	if len(calls[0]) != len(want) {
		t.Fatalf("args = %v, want %v", calls[0], want)
	}
	for i := range want {
		if calls[0][i] != want[i] {
			t.Errorf("args[%d] = %q, want %q (first-seen order)", i, calls[0][i], want[i])
		}
	}
}

func TestCallBuffer_RearmsAfterFlush(t *testing.T) {
	done := make(chan []string, 2)
	cb := NewCallBuffer(10*time.Millisecond, func(args []string) {
		done <- args
	})

	cb.Fire("first")
	first := <-done

	cb.Fire("second")
	second := <-done

	if len(first) != 1 || first[0] != "first" {
		t.Errorf("first flush args = %v, want [first]", first)
	}
	if len(second) != 1 || second[0] != "second" {
		t.Errorf("second flush args = %v, want [second]", second)
	}
}

func TestCallBuffer_StopDropsPending(t *testing.T) {
	fired := make(chan struct{}, 1)
	cb := NewCallBuffer(20*time.Millisecond, func(args []string) {
		fired <- struct{}{}
	})

	cb.Fire("dropped")
	cb.Stop()

	select {
	case <-fired:
		t.Error("callback ran after Stop")
	case <-time.After(60 * time.Millisecond):
	}
}
