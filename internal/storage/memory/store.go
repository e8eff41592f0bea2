// Package memory provides the in-memory key-value store for respkv.
package memory

import (
	"context"
	"math"
	"sync"
	"time"
)

// Store is a concurrent-safe string map with per-entry expiry.
type Store struct {
	mu      sync.RWMutex
	entries map[string]Entry

	now func() time.Time
}

// Option configures the Store.
type Option func(*Store)

// WithClock sets the time source used for expiry.
func WithClock(now func() time.Time) Option {
	return func(s *Store) {
		s.now = now
	}
}

// New creates an empty store.
func New(opts ...Option) *Store {
	s := &Store{
		entries: make(map[string]Entry),
		now:     time.Now,
	}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// SetOption configures a single Set call.
type SetOption func(*setOptions)

type setOptions struct {
	ttl    time.Duration
	hasTTL bool
}

// WithTTL makes the entry expire ttl after it is written.
// A negative ttl is treated as zero.
func WithTTL(ttl time.Duration) SetOption {
	return func(o *setOptions) {
		if ttl < 0 {
			ttl = 0
		}
		o.ttl = ttl
		o.hasTTL = true
	}
}

// Get returns the value for key. It reports false when the key is absent or
// its entry has expired. Expired entries are left in place.
func (s *Store) Get(_ context.Context, key string) (string, bool) {
	s.mu.RLock()
	entry, ok := s.entries[key]
	s.mu.RUnlock()

	if !ok || entry.ExpiredAt(s.nowMillis()) {
		return "", false
	}
	return entry.Value, true
}

// Set stores value under key, replacing any previous entry and its expiry.
// Without WithTTL the entry never expires.
func (s *Store) Set(_ context.Context, key, value string, opts ...SetOption) {
	var o setOptions
	for _, opt := range opts {
		opt(&o)
	}

	entry := Entry{Value: value}
	if o.hasTTL {
		entry.ExpiresAt = expiryMillis(s.nowMillis(), o.ttl)
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries[key] = entry
}

// Lookup returns the raw entry for key, expired or not.
func (s *Store) Lookup(key string) (Entry, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	entry, ok := s.entries[key]
	return entry, ok
}

// Len returns the number of entries held, including expired entries that
// have not been overwritten yet.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

func (s *Store) nowMillis() int64 {
	return s.now().UnixMilli()
}

// expiryMillis returns now+ttl in milliseconds, clamped to math.MaxInt64.
func expiryMillis(now int64, ttl time.Duration) int64 {
	ms := ttl.Milliseconds()
	if ms > math.MaxInt64-now {
		return math.MaxInt64
	}
	at := now + ms
	if at == 0 {
		// Zero is reserved for "no expiry".
		at = 1
	}
	return at
}
