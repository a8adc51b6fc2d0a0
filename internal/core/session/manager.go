package session

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "session:"

// Observer is notified when the manager loads a store from the bridge.
type Observer interface {
	SessionLoaded(report LoadReport)
}

type entry struct {
	store    *Store
	lastSeen time.Time
	inflight int
}

// Manager keeps one live Store per session id. A store is loaded from the
// bridge the first time its id is seen and dropped after it sits idle.
type Manager struct {
	bridge   Bridge
	log      zerolog.Logger
	observer Observer
	now      func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
	loads    singleflight.Group
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithObserver reports every load to o.
func WithObserver(o Observer) ManagerOption {
	return func(m *Manager) { m.observer = o }
}

// WithClock overrides time.Now, for tests.
func WithClock(now func() time.Time) ManagerOption {
	return func(m *Manager) { m.now = now }
}

func NewManager(bridge Bridge, log zerolog.Logger, opts ...ManagerOption) *Manager {
	m := &Manager{
		bridge:   bridge,
		log:      log,
		now:      time.Now,
		sessions: make(map[string]*entry),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Open returns the live store for id, loading it on first use. Concurrent
// opens of the same id share one load.
func (m *Manager) Open(ctx context.Context, id string) *Store {
	if s := m.touch(id); s != nil {
		return s
	}

	v, _, _ := m.loads.Do(id, func() (any, error) {
		if s := m.touch(id); s != nil {
			return s, nil
		}
		// The load must not be cut short by the first caller's request.
		loadCtx := context.WithoutCancel(ctx)
		s := Load(loadCtx, Namespace(m.bridge, keyPrefix+id+":"), m.log.With().Str("session_id", id).Logger())

		m.mu.Lock()
		m.sessions[id] = &entry{store: s, lastSeen: m.now()}
		m.mu.Unlock()

		if m.observer != nil {
			m.observer.SessionLoaded(s.LoadReport())
		}
		return s, nil
	})
	return v.(*Store)
}

// Acquire opens the store for id and pins it until release is called. Sweep
// never drops a pinned store, so a request holding one keeps writing to the
// store later requests will see.
func (m *Manager) Acquire(ctx context.Context, id string) (*Store, func()) {
	for {
		s := m.Open(ctx, id)

		m.mu.Lock()
		e, ok := m.sessions[id]
		if ok && e.store == s {
			e.inflight++
			e.lastSeen = m.now()
			m.mu.Unlock()
			var once sync.Once
			return s, func() { once.Do(func() { m.release(e) }) }
		}
		// Swept between Open and the lock; load again.
		m.mu.Unlock()
	}
}

func (m *Manager) release(e *entry) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if e.inflight > 0 {
		e.inflight--
	}
	e.lastSeen = m.now()
}

func (m *Manager) touch(id string) *Store {
	m.mu.Lock()
	defer m.mu.Unlock()
	e, ok := m.sessions[id]
	if !ok {
		return nil
	}
	e.lastSeen = m.now()
	return e.store
}

// Len reports how many stores are live.
func (m *Manager) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// Sweep drops stores idle for longer than maxIdle and returns how many were
// dropped. Stores pinned by Acquire are kept. The state of a dropped store
// stays in the bridge and is reloaded on next use.
func (m *Manager) Sweep(maxIdle time.Duration) int {
	cutoff := m.now().Add(-maxIdle)

	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, e := range m.sessions {
		if e.inflight == 0 && e.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run sweeps every interval until ctx is cancelled.
func (m *Manager) Run(ctx context.Context, interval, maxIdle time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Sweep(maxIdle); n > 0 {
				m.log.Debug().Int("evicted", n).Int("live", m.Len()).Msg("idle sessions swept")
			}
		}
	}
}
