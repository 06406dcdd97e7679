// Package cache provides the memoizing store for computed analytics.
//
// Entries are keyed by operation key plus ledger fingerprint and are valid while the
// stored fingerprint matches the caller's and the entry is younger than the TTL.
package cache

import (
	"container/list"
	"strconv"
	"sync"
	"time"

	"fjacquet/ledger-analytics/internal/logging"

	"golang.org/x/sync/singleflight"
)

// DefaultTTL is the lifetime of a cache entry.
const DefaultTTL = 120 * time.Second

// ScopeAll is the account scope used when an operation spans every account.
const ScopeAll = "all"

// Entry is one memoized result.
type Entry struct {
	Key         string
	Value       any
	CreatedAt   time.Time
	Fingerprint string
}

// Stats reports cache activity.
type Stats struct {
	Hits      int
	Misses    int
	Evictions int
	Clears    int
	Entries   int
}

// Memo is a TTL cache with fingerprint validation, LRU bound and single-flight
// coalescing of concurrent misses. It is safe for concurrent use.
type Memo struct {
	mu         sync.Mutex
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
	logger     logging.Logger

	items map[string]*list.Element
	lru   *list.List
	stats Stats
	// generation changes on Clear so that flights started earlier neither store their
	// result nor get joined by later callers.
	generation uint64
	group      singleflight.Group
}

// Option configures a Memo.
type Option func(*Memo)

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Memo) {
		if now != nil {
			m.now = now
		}
	}
}

// WithLogger sets the logger used for hit/miss tracing.
func WithLogger(logger logging.Logger) Option {
	return func(m *Memo) {
		if logger != nil {
			m.logger = logger
		}
	}
}

// New creates a Memo. A non-positive ttl selects DefaultTTL; a non-positive
// maxEntries leaves the cache unbounded.
func New(ttl time.Duration, maxEntries int, opts ...Option) *Memo {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	m := &Memo{
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
		logger:     logging.NewNopLogger(),
		items:      make(map[string]*list.Element),
		lru:        list.New(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Key builds the operation key from the operation name, range token and account scope.
func Key(operation, rangeToken, scope string) string {
	if scope == "" {
		scope = ScopeAll
	}
	return operation + "_" + rangeToken + "_" + scope
}

// TTL returns the configured entry lifetime.
func (m *Memo) TTL() time.Duration {
	return m.ttl
}

// GetOrCompute returns the cached value for opKey and fingerprint, or runs compute
// and stores its result.
func (m *Memo) GetOrCompute(opKey, fingerprint string, compute func() any) any {
	return m.getOrCompute(opKey, fingerprint, compute, nil)
}

// Memoize is the typed form of GetOrCompute. A stored value of the wrong type is
// treated as a miss and overwritten.
func Memoize[T any](m *Memo, opKey, fingerprint string, compute func() T) T {
	if m == nil {
		return compute()
	}
	accept := func(v any) bool {
		_, ok := v.(T)
		return ok
	}
	v := m.getOrCompute(opKey, fingerprint, func() any { return compute() }, accept)
	if typed, ok := v.(T); ok {
		return typed
	}
	return compute()
}

func (m *Memo) getOrCompute(opKey, fingerprint string, compute func() any, accept func(any) bool) any {
	fullKey := opKey + "_" + fingerprint

	m.mu.Lock()
	if v, ok := m.lookupLocked(fullKey, fingerprint, accept); ok {
		m.stats.Hits++
		m.mu.Unlock()
		m.logger.Debug("Cache hit", logging.F(logging.FieldCacheKey, fullKey))
		return v
	}
	m.stats.Misses++
	gen := m.generation
	m.mu.Unlock()

	m.logger.Debug("Cache miss", logging.F(logging.FieldCacheKey, fullKey))

	flightKey := strconv.FormatUint(gen, 10) + "|" + fullKey
	v, _, _ := m.group.Do(flightKey, func() (any, error) {
		m.mu.Lock()
		if v, ok := m.lookupLocked(fullKey, fingerprint, accept); ok {
			m.mu.Unlock()
			return v, nil
		}
		m.mu.Unlock()

		value := compute()

		m.mu.Lock()
		defer m.mu.Unlock()
		if m.generation == gen {
			m.storeLocked(Entry{
				Key:         fullKey,
				Value:       value,
				CreatedAt:   m.now(),
				Fingerprint: fingerprint,
			})
		}
		return value, nil
	})
	return v
}

// lookupLocked returns a valid entry's value. Invalid entries are removed.
func (m *Memo) lookupLocked(fullKey, fingerprint string, accept func(any) bool) (any, bool) {
	elem, ok := m.items[fullKey]
	if !ok {
		return nil, false
	}
	entry, ok := elem.Value.(*Entry)
	if !ok || entry == nil || !m.validLocked(entry, fingerprint) || (accept != nil && !accept(entry.Value)) {
		m.removeLocked(fullKey, elem)
		return nil, false
	}
	m.lru.MoveToFront(elem)
	return entry.Value, true
}

func (m *Memo) validLocked(entry *Entry, fingerprint string) bool {
	return entry.Fingerprint == fingerprint && m.now().Sub(entry.CreatedAt) < m.ttl
}

func (m *Memo) storeLocked(entry Entry) {
	if elem, ok := m.items[entry.Key]; ok {
		elem.Value = &entry
		m.lru.MoveToFront(elem)
		return
	}
	m.items[entry.Key] = m.lru.PushFront(&entry)

	if m.maxEntries > 0 && m.lru.Len() > m.maxEntries {
		if oldest := m.lru.Back(); oldest != nil {
			m.removeLocked(oldest.Value.(*Entry).Key, oldest)
			m.stats.Evictions++
		}
	}
}

func (m *Memo) removeLocked(key string, elem *list.Element) {
	delete(m.items, key)
	m.lru.Remove(elem)
}

// Clear drops every entry. Computations already in flight do not store their result.
func (m *Memo) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()

	dropped := len(m.items)
	m.items = make(map[string]*list.Element)
	m.lru.Init()
	m.generation++
	m.stats.Clears++

	m.logger.Debug("Cache cleared", logging.F(logging.FieldCount, dropped))
}

// CleanExpired removes entries older than the TTL and returns how many were removed.
func (m *Memo) CleanExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	removed := 0
	for key, elem := range m.items {
		entry, ok := elem.Value.(*Entry)
		if !ok || entry == nil || now.Sub(entry.CreatedAt) >= m.ttl {
			m.removeLocked(key, elem)
			removed++
		}
	}
	return removed
}

// Len returns the number of stored entries, valid or not.
func (m *Memo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}

// Stats returns a snapshot of the counters.
func (m *Memo) Stats() Stats {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.stats
	s.Entries = len(m.items)
	return s
}
