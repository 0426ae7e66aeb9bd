package kv

import (
	"context"
	"sync"
	"time"

	"cart-engine/internal/pkg/clock"
)

type entry struct {
	value     string
	expiresAt time.Time
}

// MemoryStore keeps everything in process. Entries expire ttl after their
// last write; a zero ttl keeps them forever.
type MemoryStore struct {
	mu    sync.RWMutex
	data  map[string]entry
	ttl   time.Duration
	clock clock.Clock
}

func NewMemoryStore(ttl time.Duration, clk clock.Clock) *MemoryStore {
	return &MemoryStore{
		data:  make(map[string]entry),
		ttl:   ttl,
		clock: clk,
	}
}

var _ Store = (*MemoryStore)(nil)

func (m *MemoryStore) MGet(_ context.Context, keys ...string) (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.clock.Now()
	out := make(map[string]string, len(keys))
	for _, k := range keys {
		e, ok := m.data[k]
		if !ok || m.expired(e, now) {
			continue
		}
		out[k] = e.value
	}
	return out, nil
}

func (m *MemoryStore) Apply(_ context.Context, ops ...Op) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	var expiresAt time.Time
	if m.ttl > 0 {
		expiresAt = m.clock.Now().Add(m.ttl)
	}
	for _, op := range ops {
		if op.Delete {
			delete(m.data, op.Key)
			continue
		}
		m.data[op.Key] = entry{value: op.Value, expiresAt: expiresAt}
	}
	return nil
}

func (m *MemoryStore) Ping(context.Context) error { return nil }

func (m *MemoryStore) Close() error { return nil }

func (m *MemoryStore) expired(e entry, now time.Time) bool {
	return !e.expiresAt.IsZero() && !now.Before(e.expiresAt)
}
