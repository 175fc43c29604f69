// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrcache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/apex/log"
	"golang.org/x/sync/singleflight"
)

// Forever is the TTL of an attribute that never goes stale once computed.
const Forever time.Duration = -1

// ErrTypeMismatch is returned when a cached value cannot be converted to the type
// the reader declared for it.
var ErrTypeMismatch = errors.New("cached value has unexpected type")

// now is swapped out by tests to freeze or advance time.
var now = time.Now

// SetClock replaces the clock entries are stamped and aged with, and returns a
// func restoring the previous one. It is meant for tests of packages built on
// attrcache that need to step past a TTL.
func SetClock(clock func() time.Time) (restore func()) {
	prev := now
	now = clock
	return func() { now = prev }
}

// Entry is a single cached value and the moment it was computed.
type Entry struct {
	Value      any
	ComputedAt time.Time
}

// Fresh reports whether the entry may still be served under ttl at instant t.
func (e Entry) Fresh(ttl time.Duration, t time.Time) bool {
	if ttl == Forever {
		return true
	}
	return t.Sub(e.ComputedAt) <= ttl
}

// Store is the per-instance mapping from attribute name to Entry. The zero value
// is ready to use and the map is only allocated on first write, so objects built
// in bulk from list responses cost nothing until read. A Store must not be copied
// after first use.
type Store struct {
	mu      sync.Mutex
	entries map[string]Entry
	flight  singleflight.Group
}

// lookup returns the entry for name if it is present and fresh under ttl.
func (s *Store) lookup(name string, ttl time.Duration) (Entry, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[name]
	if !ok {
		return Entry{}, false
	}
	if !e.Fresh(ttl, now()) {
		log.Debugf("attr %q expired (computed %s)", name, e.ComputedAt.Format(time.RFC3339))
		return Entry{}, false
	}
	return e, true
}

// put writes value under name, stamped with the current time.
func (s *Store) put(name string, value any) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.entries == nil {
		s.entries = make(map[string]Entry)
	}
	s.entries[name] = Entry{Value: value, ComputedAt: now()}
}

// Clear drops every entry in the store.
func (s *Store) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = nil
}

// Len returns the number of entries currently held, fresh or not.
func (s *Store) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Has reports whether an entry exists for name, regardless of its age.
func (s *Store) Has(name string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.entries[name]
	return ok
}

// GetOrCompute returns the cached value for name when it is fresh under ttl.
// Otherwise it runs compute, stores the result and returns it. Errors from
// compute are returned untouched and leave the store as it was, so the next read
// tries again.
//
// Concurrent misses for the same name share one computation, run with the
// compute of whichever caller got there first. When that computation fails
// because its caller's context was cancelled or timed out, each waiting caller
// tries once more with its own compute instead of inheriting the cancellation.
func GetOrCompute[T any](s *Store, name string, ttl time.Duration, compute func() (T, error)) (T, error) {
	var zero T

	if e, ok := s.lookup(name, ttl); ok {
		log.Debugf("attr %q hit", name)
		return cast[T](name, e.Value)
	}

	led := false
	fill := func() (any, error) {
		led = true

		// Another caller may have filled the entry while we queued.
		if e, ok := s.lookup(name, ttl); ok {
			return e.Value, nil
		}

		log.Debugf("attr %q miss", name)
		v, err := compute()
		if err != nil {
			return nil, err
		}
		s.put(name, v)
		return v, nil
	}

	v, err, _ := s.flight.Do(name, fill)
	if err != nil && !led && isContextErr(err) {
		log.Debugf("attr %q: shared computation cancelled, retrying", name)
		v, err, _ = s.flight.Do(name, fill)
	}
	if err != nil {
		return zero, err
	}

	return cast[T](name, v)
}

// Seed writes value under name without computing anything. It is the write path
// used when an object is built from data another call already returned.
func Seed[T any](s *Store, name string, value T) {
	s.put(name, value)
}

// Invalidate removes the entry for name, forcing the next read to compute.
func Invalidate(s *Store, name string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.entries, name)
}

func isContextErr(err error) bool {
	return errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)
}

func cast[T any](name string, v any) (T, error) {
	if v == nil {
		var zero T
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		var zero T
		return zero, fmt.Errorf("attr %q holds %T: %w", name, v, ErrTypeMismatch)
	}
	return t, nil
}
