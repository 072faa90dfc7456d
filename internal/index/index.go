// Package index implements the in-memory inverted index over extracted
// recipe documents: tf-idf retrieval, fuzzy re-ranking, and the title,
// phrase, proximity and boolean strategies. Rebuilds are copy-then-swap:
// a new Snapshot is built off to the side and atomically replaces the old
// one, so queries never observe a partially rebuilt index.
package index

import (
	"sync/atomic"
)

// Index is a handle to the current snapshot.
type Index struct {
	current atomic.Pointer[Snapshot]
}

// New creates an empty index handle. Load returns nil until the first Swap.
func New() *Index {
	return &Index{}
}

// Load returns the current snapshot, or nil before the first build.
func (i *Index) Load() *Snapshot {
	return i.current.Load()
}

// Swap atomically replaces the current snapshot.
func (i *Index) Swap(s *Snapshot) {
	i.current.Store(s)
}
