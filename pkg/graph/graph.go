// Package graph defines the shared Graph contract implemented by the
// classic indexed triple store (C5) and the roaring-bitmap-accelerated
// store (C6), plus the iterator types both return from pattern queries.
package graph

import (
	"iter"

	"github.com/graphcore/triplestore/pkg/rdf"
)

// Graph is the contract common to every triple store in this module.
// Implementations are not safe for concurrent mutation; concurrent reads
// are safe as long as nothing mutates the store for their duration. A
// RoaringStore in Automatic mode builds its bitmap index inside the first
// query that needs it, so that first query writes to the store.
type Graph interface {
	// Add inserts t, a no-op if an Equals (term-equal) triple is already
	// present.
	Add(t rdf.Triple)
	// Delete removes the Equals (term-equal) triple, a no-op if absent.
	Delete(t rdf.Triple)
	// Contains reports whether any stored triple Matches (value-equality)
	// the given pattern. pattern's positions may hold rdf.Any.
	Contains(pattern rdf.Triple) bool
	// Size returns the number of distinct (Equals) stored triples.
	Size() int
	// IsEmpty reports whether Size() == 0.
	IsEmpty() bool
	// Clear removes every triple.
	Clear()
	// Find returns a pull-style iterator over every stored triple that
	// Matches pattern. The iterator is not restartable and is only valid
	// while the store is not mutated.
	Find(pattern rdf.Triple) *Iterator
	// Stream returns a lazy, finite sequence of every stored triple that
	// Matches pattern, for use with a range-over-func loop. Like Find, it
	// observes a logical snapshot valid only while the store is not
	// mutated, but — unlike Find — nothing prevents a caller from pulling
	// from several independently-ranged copies of the same Stream call
	// concurrently, since doing so only reads the store.
	Stream(pattern rdf.Triple) iter.Seq[rdf.Triple]
	// Copy returns an independent deep copy of the graph.
	Copy() Graph
}

// Iterator is a pull-style cursor over a Find result: call Next until it
// returns false, reading Triple after each true return. It is not safe
// for concurrent use and is not restartable.
type Iterator struct {
	next func() (rdf.Triple, bool)
	stop func()
	cur  rdf.Triple
	done bool
}

// newIterator adapts a lazy sequence into a pull-style Iterator using the
// standard library's iter.Pull.
func newIterator(seq iter.Seq[rdf.Triple]) *Iterator {
	next, stop := iter.Pull(seq)
	return &Iterator{next: next, stop: stop}
}

// Next advances the iterator and reports whether a triple is available.
func (it *Iterator) Next() bool {
	if it.done {
		return false
	}
	t, ok := it.next()
	if !ok {
		it.done = true
		it.stop()
		return false
	}
	it.cur = t
	return true
}

// Triple returns the triple produced by the most recent true Next.
func (it *Iterator) Triple() rdf.Triple { return it.cur }

// Close releases the iterator's underlying goroutine early. It is safe
// to call Close after Next has already returned false, and safe to omit
// if the caller drains Next to completion.
func (it *Iterator) Close() {
	if !it.done {
		it.stop()
		it.done = true
	}
}
