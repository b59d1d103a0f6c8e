package stats

import (
	"context"
	"sync"
	"time"

	"github.com/pkg/errors"
	"go.uber.org/zap"

	"github.com/huynhanx03/go-titlesync/pkg/leaderboard"
	"github.com/huynhanx03/go-titlesync/pkg/offline"
	"github.com/huynhanx03/go-titlesync/pkg/settings"
	"github.com/huynhanx03/go-titlesync/pkg/telemetry"
	"github.com/huynhanx03/go-titlesync/pkg/timer"
	"github.com/huynhanx03/go-titlesync/pkg/utils"
)

const (
	defaultFlushDebounce = 30 * time.Second
	defaultPollInterval  = 5 * time.Minute

	statEventName = "StatEvent"
)

// Service is the transport to the remote stats service. Implemented by
// the title service client; documents travel as opaque JSON.
type Service interface {
	GetStatsValueDocument(ctx context.Context, userID string) ([]byte, error)
	UpdateStatsValueDocument(ctx context.Context, userID string, doc []byte) error
	GetLeaderboard(ctx context.Context, userID string, q leaderboard.Query) (*leaderboard.Result, error)
	GetSocialLeaderboard(ctx context.Context, userID, socialGroup string, q leaderboard.Query) (*leaderboard.Result, error)
}

type userContext struct {
	doc *Document
}

// Manager keeps one stat value document per local user and synchronizes
// them with the stats service in the background. Completed operations
// queue as events that the host drains with DoWork on its own cadence;
// nothing is delivered via callback.
type Manager struct {
	mu     sync.Mutex
	users  map[string]*userContext
	events []Event
	closed bool

	svc   Service
	store offline.Store
	sink  telemetry.Sink

	flushTimer    *timer.CallBuffer
	priorityTimer *timer.CallBuffer
	pollTask      timer.Periodic

	log *zap.Logger
	wg  sync.WaitGroup
}

// Option overrides a manager default.
type Option func(*managerConfig)

type managerConfig struct {
	store   offline.Store
	sink    telemetry.Sink
	newTask timer.Factory
}

// WithOfflineStore attaches a store that receives documents whose
// service write failed and serves them back on offline sign-in.
func WithOfflineStore(store offline.Store) Option {
	return func(c *managerConfig) { c.store = store }
}

// WithEventSink attaches an in-game event sink for offline stat writes.
func WithEventSink(sink telemetry.Sink) Option {
	return func(c *managerConfig) { c.sink = sink }
}

// WithTaskFactory swaps the periodic timer backend of the dirty poll.
func WithTaskFactory(f timer.Factory) Option {
	return func(c *managerConfig) { c.newTask = f }
}

// NewManager creates a manager and starts its dirty-document poll.
func NewManager(cfg *settings.Stats, svc Service, log *zap.Logger, opts ...Option) *Manager {
	if log == nil {
		log = zap.NewNop()
	}

	mc := managerConfig{newTask: timer.NewTicker}
	for _, opt := range opts {
		opt(&mc)
	}

	debounce := defaultFlushDebounce
	poll := defaultPollInterval
	if cfg != nil {
		if cfg.FlushDebounce > 0 {
			debounce = utils.ToDuration(cfg.FlushDebounce)
		}
		if cfg.PollInterval > 0 {
			poll = utils.ToDuration(cfg.PollInterval)
		}
	}

	m := &Manager{
		users: make(map[string]*userContext),
		svc:   svc,
		store: mc.store,
		sink:  mc.sink,
		log:   log,
	}
	m.flushTimer = timer.NewCallBuffer(debounce, m.requestFlushCallback)
	m.priorityTimer = timer.NewCallBuffer(0, m.requestFlushCallback)
	m.pollTask = mc.newTask(poll, m.pollDirty)
	m.pollTask.Start()
	return m
}

// AddLocalUser registers a user and fetches their stat value document in
// the background. Completion surfaces as an EventUserAdded carrying the
// fetch result; when the fetch fails the document falls back to the
// offline store copy, or to the offline-not-loaded state.
func (m *Manager) AddLocalUser(userID string) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if _, ok := m.users[userID]; ok {
		m.mu.Unlock()
		return ErrUserAlreadyAdded
	}
	m.users[userID] = &userContext{doc: NewDocument()}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx := context.Background()
		raw, err := m.svc.GetStatsValueDocument(ctx, userID)

		var fallback []byte
		if err != nil && m.store != nil {
			if b, ok, lerr := m.store.Load(ctx, userID); lerr == nil && ok {
				fallback = b
			}
		}

		m.mu.Lock()
		defer m.mu.Unlock()

		// The user could be removed by the time this completes.
		uc, ok := m.users[userID]
		if !ok {
			return
		}

		switch {
		case err == nil:
			remote := NewDocument()
			if derr := remote.Deserialize(raw); derr != nil {
				err = errors.Wrap(derr, "failed to unmarshal stats value document")
				uc.doc.SetState(StateOfflineNotLoaded)
			} else {
				uc.doc.Merge(remote)
				uc.doc.SetState(StateLoaded)
			}
		case fallback != nil:
			if derr := uc.doc.Deserialize(fallback); derr == nil {
				uc.doc.SetState(StateOfflineLoaded)
			} else {
				uc.doc.SetState(StateOfflineNotLoaded)
			}
		default:
			uc.doc.SetState(StateOfflineNotLoaded)
		}

		m.events = append(m.events, Event{Type: EventUserAdded, UserID: userID, Err: err})
	}()
	return nil
}

// RemoveLocalUser flushes the user's remaining dirty writes, then drops
// the user. A dirty document defers removal until its final write
// completes; the EventUserRemoved carries that write's result.
func (m *Manager) RemoveLocalUser(userID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.closed {
		return ErrClosed
	}
	uc, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}

	uc.doc.ApplyPending()
	if !uc.doc.IsDirty() {
		m.events = append(m.events, Event{Type: EventUserRemoved, UserID: userID})
		delete(m.users, userID)
		return nil
	}

	payload, err := uc.doc.Serialize()
	if err != nil {
		m.events = append(m.events, Event{Type: EventUserRemoved, UserID: userID, Err: err})
		delete(m.users, userID)
		return nil
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx := context.Background()
		uerr := m.svc.UpdateStatsValueDocument(ctx, userID, payload)

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.users[userID]; !ok {
			return
		}
		if uerr != nil && shouldWriteOffline(uerr) {
			m.writeOffline(userID, payload)
		}
		m.events = append(m.events, Event{Type: EventUserRemoved, UserID: userID, Err: uerr})
		delete(m.users, userID)
	}()
	return nil
}

// SetStatAsNumber replaces the numeric stat with the given value.
func (m *Manager) SetStatAsNumber(userID, name string, value float64) error {
	return m.withDocument(userID, func(doc *Document) error {
		return doc.SetNumber(name, value)
	})
}

// SetStatAsInteger replaces the integer stat with the given value.
func (m *Manager) SetStatAsInteger(userID, name string, value int64) error {
	return m.withDocument(userID, func(doc *Document) error {
		return doc.SetInteger(name, value)
	})
}

// SetStatAsString replaces the string stat with the given value.
func (m *Manager) SetStatAsString(userID, name, value string) error {
	return m.withDocument(userID, func(doc *Document) error {
		return doc.SetString(name, value)
	})
}

// GetStat returns the current value of the named stat.
func (m *Manager) GetStat(userID, name string) (Value, error) {
	var v Value
	err := m.withDocument(userID, func(doc *Document) error {
		var gerr error
		v, gerr = doc.Get(name)
		return gerr
	})
	return v, err
}

// GetStatNames returns every stat name in the user's document.
func (m *Manager) GetStatNames(userID string) ([]string, error) {
	var names []string
	err := m.withDocument(userID, func(doc *Document) error {
		names = doc.Names()
		return nil
	})
	return names, err
}

// DeleteStat removes the named stat.
func (m *Manager) DeleteStat(userID, name string) error {
	return m.withDocument(userID, func(doc *Document) error {
		return doc.Delete(name)
	})
}

func (m *Manager) withDocument(userID string, fn func(doc *Document) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	uc, ok := m.users[userID]
	if !ok {
		return ErrUserNotFound
	}
	return fn(uc.doc)
}

// RequestFlush asks for the user's document to be written out ahead of
// the next poll. Requests within one window coalesce into a single
// flush; high priority skips the window.
func (m *Manager) RequestFlush(userID string, highPriority bool) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if _, ok := m.users[userID]; !ok {
		m.mu.Unlock()
		return ErrUserNotFound
	}
	m.mu.Unlock()

	if highPriority {
		m.priorityTimer.Fire(userID)
	} else {
		m.flushTimer.Fire(userID)
	}
	return nil
}

func (m *Manager) requestFlushCallback(args []string) {
	for _, userID := range args {
		m.mu.Lock()
		if uc, ok := m.users[userID]; ok {
			uc.doc.ApplyPending()
			m.flushLocked(userID, uc)
		}
		m.mu.Unlock()
	}
}

// pollDirty is the periodic pass that flushes every dirty document.
func (m *Manager) pollDirty() {
	m.mu.Lock()
	defer m.mu.Unlock()

	for userID, uc := range m.users {
		if uc.doc.IsDirty() {
			uc.doc.ApplyPending()
			m.flushLocked(userID, uc)
		}
	}
}

// flushLocked starts a background write of the user's document. Caller
// holds the lock and has applied pending writes. The dirty flag clears
// here; writes staged after this point re-dirty the document and get
// picked up by a later cycle.
func (m *Manager) flushLocked(userID string, uc *userContext) {
	uc.doc.ClearDirty()

	if uc.doc.State() != StateLoaded {
		// Never loaded: fetch and merge the service copy first so the
		// update does not clobber stats written from elsewhere.
		m.wg.Add(1)
		go func() {
			defer m.wg.Done()

			ctx := context.Background()
			raw, err := m.svc.GetStatsValueDocument(ctx, userID)
			if err != nil {
				m.log.Error("stats document fetch before flush failed",
					zap.String("user_id", userID), zap.Error(err))
				return
			}

			m.mu.Lock()
			uc, ok := m.users[userID]
			if !ok {
				m.mu.Unlock()
				return
			}
			remote := NewDocument()
			if derr := remote.Deserialize(raw); derr != nil {
				m.mu.Unlock()
				m.log.Error("stats document unmarshal failed",
					zap.String("user_id", userID), zap.Error(derr))
				return
			}
			uc.doc.Merge(remote)
			uc.doc.SetState(StateLoaded)
			payload, serr := uc.doc.Serialize()
			m.mu.Unlock()

			if serr != nil {
				m.log.Error("stats document marshal failed",
					zap.String("user_id", userID), zap.Error(serr))
				return
			}
			m.updateDocument(userID, payload)
		}()
		return
	}

	payload, err := uc.doc.Serialize()
	if err != nil {
		m.log.Error("stats document marshal failed",
			zap.String("user_id", userID), zap.Error(err))
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()
		m.updateDocument(userID, payload)
	}()
}

// updateDocument performs the service write and folds the outcome into
// the event queue. Retryable failures divert the document to the
// offline path.
func (m *Manager) updateDocument(userID string, payload []byte) {
	ctx := context.Background()
	err := m.svc.UpdateStatsValueDocument(ctx, userID, payload)

	m.mu.Lock()
	defer m.mu.Unlock()

	uc, ok := m.users[userID]
	if !ok {
		return
	}

	if err != nil {
		if shouldWriteOffline(err) {
			if uc.doc.State() == StateLoaded {
				uc.doc.SetState(StateOfflineLoaded)
			}
			m.writeOffline(userID, payload)
		} else {
			m.log.Error("stats manager could not write stats value document",
				zap.String("user_id", userID), zap.Error(err))
		}
	}

	m.events = append(m.events, Event{Type: EventStatUpdateComplete, UserID: userID, Err: err})
}

// writeOffline ships the serialized document to the configured event
// sink and offline store, best effort. Caller may hold the lock; the
// I/O runs on its own goroutine.
func (m *Manager) writeOffline(userID string, payload []byte) {
	if m.sink == nil && m.store == nil {
		return
	}

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		ctx := context.Background()
		if m.sink != nil {
			ev := telemetry.InGameEvent{
				Name:    statEventName,
				UserID:  userID,
				Payload: payload,
				At:      time.Now(),
			}
			if err := m.sink.WriteEvent(ctx, ev); err != nil {
				m.log.Error("offline write for stats failed",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
		if m.store != nil {
			if err := m.store.Save(ctx, userID, payload); err != nil {
				m.log.Error("offline save for stats failed",
					zap.String("user_id", userID), zap.Error(err))
			}
		}
	}()
}

// GetLeaderboard starts a leaderboard fetch. The result arrives as an
// EventLeaderboardComplete from DoWork.
func (m *Manager) GetLeaderboard(userID string, q leaderboard.Query) error {
	return m.fetchLeaderboard(userID, func(ctx context.Context) (*leaderboard.Result, error) {
		return m.svc.GetLeaderboard(ctx, userID, q)
	})
}

// GetSocialLeaderboard starts a leaderboard fetch scoped to a social group.
func (m *Manager) GetSocialLeaderboard(userID, socialGroup string, q leaderboard.Query) error {
	return m.fetchLeaderboard(userID, func(ctx context.Context) (*leaderboard.Result, error) {
		return m.svc.GetSocialLeaderboard(ctx, userID, socialGroup, q)
	})
}

func (m *Manager) fetchLeaderboard(userID string, fetch func(ctx context.Context) (*leaderboard.Result, error)) error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return ErrClosed
	}
	if _, ok := m.users[userID]; !ok {
		m.mu.Unlock()
		return ErrUserNotFound
	}
	m.mu.Unlock()

	m.wg.Add(1)
	go func() {
		defer m.wg.Done()

		res, err := fetch(context.Background())

		m.mu.Lock()
		defer m.mu.Unlock()
		if _, ok := m.users[userID]; !ok {
			m.log.Debug("user removed while retrieving a leaderboard", zap.String("user_id", userID))
			return
		}
		m.events = append(m.events, Event{
			Type:        EventLeaderboardComplete,
			UserID:      userID,
			Err:         err,
			Leaderboard: res,
		})
	}()
	return nil
}

// DoWork returns, and clears, all events queued since the previous call,
// in completion order. It also applies every user's staged stat writes.
// The host is expected to call this on its own loop cadence.
func (m *Manager) DoWork() []Event {
	m.mu.Lock()
	defer m.mu.Unlock()

	drained := m.events
	m.events = nil
	for _, uc := range m.users {
		uc.doc.ApplyPending()
	}
	return drained
}

// Wait blocks until all background operations started so far complete.
func (m *Manager) Wait() {
	m.wg.Wait()
}

// Close stops the poll and the flush timers, then waits for in-flight
// background work. Queued events stay drainable via DoWork.
func (m *Manager) Close() error {
	m.mu.Lock()
	if m.closed {
		m.mu.Unlock()
		return nil
	}
	m.closed = true
	task := m.pollTask
	m.mu.Unlock()

	if task != nil {
		task.Stop()
	}
	m.flushTimer.Stop()
	m.priorityTimer.Stop()
	m.wg.Wait()
	return nil
}

// shouldWriteOffline reports whether the write failure is the kind the
// offline path can absorb (transient transport trouble rather than a
// rejected document).
func shouldWriteOffline(err error) bool {
	var temp interface{ Temporary() bool }
	return errors.As(err, &temp) && temp.Temporary()
}
