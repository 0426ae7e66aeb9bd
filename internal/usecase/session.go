package usecase

import (
	"context"
	"slices"
	"sync"
	"time"

	"cart-engine/internal/pkg/clock"
)

type session struct {
	id       string
	mu       sync.Mutex
	store    *CartStore
	sync     *SyncCoordinator
	lastUsed time.Time
	evicted  bool
}

// SessionRegistry holds one cart store and sync coordinator per browser
// session and runs every operation on a session under that session's lock.
type SessionRegistry struct {
	mu        sync.Mutex
	sessions  map[string]*session
	observers []func(Transition)

	persistence CartPersistence
	pricing     PricingService
	remote      RemoteCart
	tokens      TokenValidator
	clock       clock.Clock
}

func NewSessionRegistry(
	persistence CartPersistence,
	pricing PricingService,
	remote RemoteCart,
	tokens TokenValidator,
	clk clock.Clock,
) *SessionRegistry {
	return &SessionRegistry{
		sessions:    make(map[string]*session),
		persistence: persistence,
		pricing:     pricing,
		remote:      remote,
		tokens:      tokens,
		clock:       clk,
	}
}

// OnTransition registers fn on every session created from now on.
func (r *SessionRegistry) OnTransition(fn func(Transition)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.observers = append(r.observers, fn)
}

// With runs fn with exclusive access to the session, hydrating it from
// persistence on first use.
func (r *SessionRegistry) With(ctx context.Context, sessionID string, fn func(*CartStore, *SyncCoordinator) error) error {
	for {
		if ok, err := r.run(ctx, r.lookup(sessionID), fn); ok {
			return err
		}
	}
}

// run reports false when s was evicted before its lock was acquired.
func (r *SessionRegistry) run(ctx context.Context, s *session, fn func(*CartStore, *SyncCoordinator) error) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.evicted {
		return false, nil
	}

	if s.store == nil {
		s.store = NewCartStore(ctx, s.id, r.persistence, r.pricing)
		s.sync = NewSyncCoordinator(s.store, r.remote, r.tokens, r.pricing)
		for _, observer := range r.observerList() {
			s.sync.OnTransition(observer)
		}
	}
	s.lastUsed = r.clock.Now()
	return true, fn(s.store, s.sync)
}

// EvictIdle forgets sessions unused for longer than idle. Busy sessions are
// skipped. Carts stay persisted, so an evicted session comes back anonymous
// with its lines intact.
func (r *SessionRegistry) EvictIdle(idle time.Duration) int {
	cutoff := r.clock.Now().Add(-idle)

	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := 0
	for id, s := range r.sessions {
		if !s.mu.TryLock() {
			continue
		}
		if s.lastUsed.Before(cutoff) {
			s.evicted = true
			delete(r.sessions, id)
			evicted++
		}
		s.mu.Unlock()
	}
	return evicted
}

// Sweep calls EvictIdle every interval until ctx is done.
func (r *SessionRegistry) Sweep(ctx context.Context, interval, idle time.Duration, onEvict func(int)) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := r.EvictIdle(idle); n > 0 && onEvict != nil {
				onEvict(n)
			}
		}
	}
}

func (r *SessionRegistry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.sessions)
}

func (r *SessionRegistry) lookup(id string) *session {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[id]
	if !ok {
		s = &session{id: id, lastUsed: r.clock.Now()}
		r.sessions[id] = s
	}
	return s
}

func (r *SessionRegistry) observerList() []func(Transition) {
	r.mu.Lock()
	defer r.mu.Unlock()
	return slices.Clone(r.observers)
}
