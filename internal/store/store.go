// Package store holds the entries of the currently loaded trace.
//
// The store is replaced wholesale on every load; entries are never merged.
// Each replacement bumps a generation counter, which derived state (groups,
// visible subsets) uses as the store's identity for memoization.
package store

import (
	"slices"

	"github.com/daviddao/lockscope/internal/protocol"
)

// Store is the Event Store. It is owned by a single processing context and
// is not safe for concurrent use.
type Store struct {
	entries    []protocol.Entry
	generation uint64
	source     string
}

// New returns an empty store at generation 0.
func New() *Store {
	return &Store{}
}

// Replace installs a copy of entries as the current trace and returns the
// new generation.
func (s *Store) Replace(entries []protocol.Entry, source string) uint64 {
	s.entries = slices.Clone(entries)
	s.source = source
	s.generation++
	return s.generation
}

// Entries returns the current trace. Callers must not modify the slice.
func (s *Store) Entries() []protocol.Entry {
	return s.entries
}

// Generation identifies the current contents. Zero means nothing was loaded.
func (s *Store) Generation() uint64 {
	return s.generation
}

// Source is the path the current trace was loaded from.
func (s *Store) Source() string {
	return s.source
}

// Len returns the number of entries in the current trace.
func (s *Store) Len() int {
	return len(s.entries)
}
