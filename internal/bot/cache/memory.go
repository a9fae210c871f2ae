package cache

import (
	"context"
	"sync"
	"time"

	"github.com/golang/groupcache/lru"
)

type entry[V any] struct {
	value     V
	expiresAt time.Time
}

// Memory is an in-process LRU cache with a fixed TTL per entry.
type Memory[V any] struct {
	mu    sync.Mutex
	items *lru.Cache
	ttl   time.Duration
	now   Clock
}

type MemoryOption[V any] func(*Memory[V])

// WithClock replaces time.Now.
func WithClock[V any](now Clock) MemoryOption[V] {
	return func(m *Memory[V]) {
		m.now = now
	}
}

// NewMemory builds a cache holding at most maxEntries values for ttl each.
// The cache is always bounded: maxEntries below 1 is raised to 1.
func NewMemory[V any](maxEntries int, ttl time.Duration, opts ...MemoryOption[V]) *Memory[V] {
	if maxEntries < 1 {
		maxEntries = 1
	}
	m := &Memory[V]{
		items: lru.New(maxEntries),
		ttl:   ttl,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

func (m *Memory[V]) Get(_ context.Context, key string) (V, bool) {
	var zero V

	m.mu.Lock()
	defer m.mu.Unlock()

	raw, ok := m.items.Get(key)
	if !ok {
		return zero, false
	}
	e := raw.(entry[V])
	if !m.now().Before(e.expiresAt) {
		m.items.Remove(key)
		return zero, false
	}
	return e.value, true
}

// Set overwrites any previous value and restarts its TTL.
func (m *Memory[V]) Set(_ context.Context, key string, value V) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Add(key, entry[V]{value: value, expiresAt: m.now().Add(m.ttl)})
}

func (m *Memory[V]) Delete(_ context.Context, key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.items.Remove(key)
}

// Len counts stored entries, expired ones included until they are read.
func (m *Memory[V]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.items.Len()
}

var _ Cache[string] = (*Memory[string])(nil)
