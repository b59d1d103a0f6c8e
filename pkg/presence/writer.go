package presence

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/timer"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultTickInterval   = time.Minute
	defaultHeartbeatDelay = 5 // Ticks
)

// Writer keeps the "present in title" flag of every registered user
// alive with a periodic heartbeat write, coalescing all users into one
// flush cycle per countdown expiry.
//
// The mutex covers the registration table, the running flag and the
// countdown. The in-flight flag is a separate atomic so that the flush
// guard never blocks on, or is blocked by, table mutation.
type Writer struct {
	mu        sync.Mutex
	services  map[string]Service
	order     []string // registration order, defines snapshot order
	running   bool
	delayLeft int // ticks until the next scheduled flush

	inFlight atomic.Bool

	task    timer.Periodic
	newTask timer.Factory
	tick    time.Duration

	defaultDelay int
	log          *zap.Logger

	flushWG sync.WaitGroup
}

// Option overrides a writer default.
type Option func(*Writer)

// WithTaskFactory swaps the periodic timer backend.
func WithTaskFactory(f timer.Factory) Option {
	return func(w *Writer) { w.newTask = f }
}

// WithTickInterval overrides the tick resolution. Tests use short ticks.
func WithTickInterval(d time.Duration) Option {
	return func(w *Writer) { w.tick = d }
}

// NewWriter creates a stopped writer. The scheduler starts when the
// first user registers and stops when the last one deregisters.
func NewWriter(cfg *settings.Presence, log *zap.Logger, opts ...Option) *Writer {
	if log == nil {
		log = zap.NewNop()
	}

	w := &Writer{
		services:     make(map[string]Service),
		newTask:      timer.NewTicker,
		tick:         defaultTickInterval,
		defaultDelay: defaultHeartbeatDelay,
		log:          log,
	}

	if cfg != nil {
		if cfg.TickInterval > 0 {
			w.tick = utils.ToDuration(cfg.TickInterval)
		}
		if cfg.DefaultHeartbeat > 0 {
			w.defaultDelay = cfg.DefaultHeartbeat
		}
	}

	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Register adds a user to the writer. Registering the first user starts
// the scheduler loop; registering the same user twice is a no-op that
// returns ErrAlreadyRegistered.
//
// The first heartbeat is not written immediately: sign-in already wrote
// presence, so the countdown runs from the next tick.
func (w *Writer) Register(userID string, svc Service) error {
	if svc == nil {
		return ErrNilService
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if _, ok := w.services[userID]; ok {
		w.log.Info("presence service for the user already exists", zap.String("user_id", userID))
		return ErrAlreadyRegistered
	}

	w.log.Info("adding presence service into writer", zap.String("user_id", userID))
	w.services[userID] = svc
	w.order = append(w.order, userID)

	if !w.running {
		w.running = true
		w.task = w.newTask(w.tick, w.handleTick)
		w.task.Start()
	}
	return nil
}

// Deregister issues a best-effort "set inactive" write for the user and
// removes the registration. The write happens under the table lock so a
// later flush snapshot can never include the removed user. Removing the
// last user stops the scheduler loop; an in-flight flush is not
// cancelled.
func (w *Writer) Deregister(ctx context.Context, userID string) error {
	w.mu.Lock()

	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	svc, ok := w.services[userID]
	if !ok {
		w.mu.Unlock()
		return ErrNotRegistered
	}

	w.setInactive(ctx, userID, svc)

	delete(w.services, userID)
	for i, id := range w.order {
		if id == userID {
			w.order = append(w.order[:i], w.order[i+1:]...)
			break
		}
	}

	var task timer.Periodic
	if len(w.services) == 0 {
		w.running = false
		w.delayLeft = 0
		task = w.task
		w.task = nil
	}
	w.mu.Unlock()

	// Stop outside the lock: the run loop may be blocked on it right now.
	if task != nil {
		task.Stop()
	}
	return nil
}

// RequestFlush asks for an out-of-band flush cycle on behalf of a
// registered user. High priority runs the flush executor synchronously
// through the same single-flight guard as the scheduled path; low
// priority only zeroes the countdown so the next tick flushes. Either
// way the cycle covers every registered user.
func (w *Writer) RequestFlush(ctx context.Context, userID string, highPriority bool) error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return ErrNotRunning
	}
	if _, ok := w.services[userID]; !ok {
		w.mu.Unlock()
		return ErrNotRegistered
	}
	if !highPriority {
		w.delayLeft = 0
		w.mu.Unlock()
		return nil
	}
	w.mu.Unlock()

	w.flush(ctx)
	return nil
}

// Wait blocks until every flush cycle spawned so far has finished.
func (w *Writer) Wait() {
	w.flushWG.Wait()
}

// handleTick runs once per tick period. It only decides; the flush
// executor runs as its own goroutine so a slow write can never back up
// the tick cadence.
func (w *Writer) handleTick() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.delayLeft--
	if w.delayLeft > 0 {
		w.mu.Unlock()
		return
	}
	w.mu.Unlock()

	w.flushWG.Add(1)
	go func() {
		defer w.flushWG.Done()
		w.flush(context.Background())
	}()
}

type writeResult struct {
	userID string
	delay  int
	err    error
}

// flush is the flush executor: snapshot, fan-out one write per user,
// await all, then adopt the interval hint of the last result in
// snapshot order (default on error or absent hint).
func (w *Writer) flush(ctx context.Context) {
	if !w.inFlight.CompareAndSwap(false, true) {
		w.log.Info("presence write in progress, skipping cycle")
		return
	}
	defer w.inFlight.Store(false)

	w.mu.Lock()
	snapIDs := make([]string, len(w.order))
	copy(snapIDs, w.order)
	snapSvcs := make([]Service, len(snapIDs))
	for i, id := range snapIDs {
		snapSvcs[i] = w.services[id]
	}
	w.mu.Unlock()

	if len(snapIDs) == 0 {
		return
	}

	w.log.Info("start presence writing", zap.Int("users", len(snapIDs)))

	results := make([]writeResult, len(snapIDs))
	g := new(errgroup.Group)
	for i := range snapIDs {
		g.Go(func() error {
			delay, err := snapSvcs[i].SetActive(ctx)
			results[i] = writeResult{userID: snapIDs[i], delay: delay, err: err}
			if err != nil {
				w.log.Error("presence write failed",
					zap.String("user_id", snapIDs[i]), zap.Error(err))
			}
			// Failures are isolated per user; never short-circuit the group.
			return nil
		})
	}
	_ = g.Wait()

	last := results[len(results)-1]
	next := w.defaultDelay
	if last.err == nil && last.delay > 0 {
		next = last.delay
	} else if last.err != nil {
		w.log.Error("error detected on presence writing, using default interval for next write",
			zap.Error(last.err))
	}

	w.mu.Lock()
	if w.running {
		w.delayLeft = next
	}
	w.mu.Unlock()

	w.log.Info("presence writing finished", zap.Int("next_delay", next))
}

// setInactive is the single call site where an inactive-write failure is
// logged and discarded.
func (w *Writer) setInactive(ctx context.Context, userID string, svc Service) {
	if err := svc.SetInactive(ctx); err != nil {
		w.log.Error("set presence inactive failed", zap.String("user_id", userID), zap.Error(err))
	}
}
