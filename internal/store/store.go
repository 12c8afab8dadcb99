package store

import "sync"

// Store is the single shared mutable resource of the engine: the handle to
// the currently published Collection. Publish takes exclusive access;
// Snapshot takes shared access and returns an immutable collection, so a
// query racing a re-ingest completes against a complete snapshot.
type Store struct {
	mu  sync.RWMutex
	cur *Collection
}

// New returns a Store publishing an empty collection.
func New() *Store {
	return &Store{cur: Empty()}
}

// Publish atomically replaces the current collection.
func (s *Store) Publish(c *Collection) {
	s.mu.Lock()
	s.cur = c
	s.mu.Unlock()
}

// Snapshot returns the currently published collection.
func (s *Store) Snapshot() *Collection {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.cur
}
