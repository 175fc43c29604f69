// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package attrcache

import (
	"fmt"
	"time"
)

// Attr declares one cached attribute of an owning type. Declarations are static;
// they are normally package-level vars next to the type that uses them.
type Attr[T any] struct {
	Name string
	TTL  time.Duration
}

// NewAttr declares a cached attribute. ttl must be Forever or non-negative.
func NewAttr[T any](name string, ttl time.Duration) Attr[T] {
	if ttl < 0 && ttl != Forever {
		panic(fmt.Sprintf("attrcache: negative ttl %s for %q", ttl, name))
	}
	return Attr[T]{Name: name, TTL: ttl}
}

// Keyed derives a per-argument attribute, e.g. achievements:440, that shares the
// TTL of a.
func (a Attr[T]) Keyed(suffix string) Attr[T] {
	return Attr[T]{Name: a.Name + ":" + suffix, TTL: a.TTL}
}

// Get returns the cached value of a in s, computing it when missing or stale.
func (a Attr[T]) Get(s *Store, compute func() (T, error)) (T, error) {
	return GetOrCompute(s, a.Name, a.TTL, compute)
}

// Seed pre-populates a in s.
func (a Attr[T]) Seed(s *Store, value T) {
	Seed(s, a.Name, value)
}

// Invalidate drops a from s.
func (a Attr[T]) Invalidate(s *Store) {
	Invalidate(s, a.Name)
}

// Peek returns the value of a when a fresh entry exists, without computing.
func (a Attr[T]) Peek(s *Store) (T, bool) {
	var zero T
	e, ok := s.lookup(a.Name, a.TTL)
	if !ok {
		return zero, false
	}
	v, err := cast[T](a.Name, e.Value)
	if err != nil {
		return zero, false
	}
	return v, true
}

func (a Attr[T]) String() string {
	if a.TTL == Forever {
		return a.Name + " (forever)"
	}
	return fmt.Sprintf("%s (%s)", a.Name, a.TTL)
}
