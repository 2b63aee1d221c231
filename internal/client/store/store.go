// Package store holds the local in-memory snapshot of a remote collection,
// plus a derived filtered view. It is mutated only by the sync controller;
// the presentation layer just reads it.
package store

import "sync"

// Store is an ordered collection of records unique by identifier. Insertion
// order is preserved so listings stay stable across upserts.
type Store[T any] struct {
	mu    sync.RWMutex
	id    func(T) string
	items []T
	index map[string]int

	filtered  []T
	hasFilter bool
}

// New creates an empty store; id extracts a record's identifier.
func New[T any](id func(T) string) *Store[T] {
	return &Store[T]{id: id, index: make(map[string]int)}
}

// ReplaceAll swaps in a whole new snapshot, typically after a full fetch or
// a recovery re-fetch. Any active filter is dropped.
func (s *Store[T]) ReplaceAll(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.items = make([]T, len(records))
	copy(s.items, records)
	s.index = make(map[string]int, len(records))
	for i, r := range records {
		s.index[s.id(r)] = i
	}
	s.filtered = nil
	s.hasFilter = false
}

// Upsert inserts the record at the end, or overwrites in place when its
// identifier is already present.
func (s *Store[T]) Upsert(record T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.id(record)
	if i, ok := s.index[id]; ok {
		s.items[i] = record
		return
	}
	s.items = append(s.items, record)
	s.index[id] = len(s.items) - 1
}

// Replace substitutes the record stored under oldID with record, keeping its
// position. Used to reconcile an optimistic temporary record with the
// server-assigned one. No-op when oldID is absent.
func (s *Store[T]) Replace(oldID string, record T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[oldID]
	if !ok {
		return
	}
	delete(s.index, oldID)
	s.items[i] = record
	s.index[s.id(record)] = i
}

// Remove deletes the record with the given identifier. Removing an absent
// identifier is a no-op, not an error.
func (s *Store[T]) Remove(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.index[id]
	if !ok {
		return
	}
	s.items = append(s.items[:i], s.items[i+1:]...)
	delete(s.index, id)
	for j := i; j < len(s.items); j++ {
		s.index[s.id(s.items[j])] = j
	}
}

// Get returns the record with the given identifier.
func (s *Store[T]) Get(id string) (T, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if i, ok := s.index[id]; ok {
		return s.items[i], true
	}
	var zero T
	return zero, false
}

// All returns a copy of the full collection in insertion order.
func (s *Store[T]) All() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]T, len(s.items))
	copy(out, s.items)
	return out
}

// Len reports the number of records.
func (s *Store[T]) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.items)
}

// SetFiltered installs a search result as the current view.
func (s *Store[T]) SetFiltered(records []T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.filtered = make([]T, len(records))
	copy(s.filtered, records)
	s.hasFilter = true
}

// ResetFilter reverts the view to the full collection.
func (s *Store[T]) ResetFilter() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.filtered = nil
	s.hasFilter = false
}

// Filtered returns the current view: the active search result if one is
// installed, otherwise the full collection.
func (s *Store[T]) Filtered() []T {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.hasFilter {
		out := make([]T, len(s.items))
		copy(out, s.items)
		return out
	}
	out := make([]T, len(s.filtered))
	copy(out, s.filtered)
	return out
}
