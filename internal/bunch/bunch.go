// Package bunch implements the small-N triple container (C2): an
// unordered set of triples that all share a node at one fixed position
// (subject, predicate or object). It starts as a packed array and
// migrates, one-way, into a hashed set once it grows past a threshold.
package bunch

import "github.com/graphcore/triplestore/pkg/rdf"

// CompareFunc reports whether a and b are duplicates within a bunch: it
// must compare exactly the two positions the bunch does *not* fix. It is
// set once at construction and never changes — the three position-
// specialised bunches (S, P, O) differ only in which pair of coordinates
// this function compares.
type CompareFunc func(a, b rdf.Triple) bool

// BySubject returns the CompareFunc for a bunch indexed on the subject
// position: two triples sharing that subject are duplicates iff their
// predicate and object are term-equal.
func BySubject(a, b rdf.Triple) bool {
	return a.Predicate.Equals(b.Predicate) && a.Object.Equals(b.Object)
}

// ByPredicate returns the CompareFunc for a bunch indexed on the
// predicate position.
func ByPredicate(a, b rdf.Triple) bool {
	return a.Subject.Equals(b.Subject) && a.Object.Equals(b.Object)
}

// ByObject returns the CompareFunc for a bunch indexed on the object
// position.
func ByObject(a, b rdf.Triple) bool {
	return a.Subject.Equals(b.Subject) && a.Predicate.Equals(b.Predicate)
}

// Bunch is a set of triples sharing one fixed position. It holds either a
// packed array (small N) or a hashed set (large N); migration is one-way
// to avoid thrash (spec.md §9, "bunch growth hysteresis").
type Bunch struct {
	compare   CompareFunc
	threshold int

	arr    []rdf.Triple         // non-nil while representation is "array"
	hashed map[uint64][]rdf.Triple // non-nil once migrated to "hashed"

	size int
}

// New returns an empty array-backed bunch that migrates to a hashed
// representation once it holds more than threshold triples.
func New(compare CompareFunc, threshold int) *Bunch {
	return &Bunch{
		compare:   compare,
		threshold: threshold,
		arr:       make([]rdf.Triple, 0, 1),
	}
}

// Len returns the number of triples in the bunch.
func (b *Bunch) Len() int { return b.size }

// IsHashed reports whether the bunch has migrated to its hashed
// representation.
func (b *Bunch) IsHashed() bool { return b.hashed != nil }

// TryAdd inserts t if no triple already in the bunch is a duplicate of t
// under the bunch's CompareFunc. It returns true if t was added.
func (b *Bunch) TryAdd(t rdf.Triple) bool {
	if b.containsDup(t) {
		return false
	}
	b.AddUnchecked(t)
	return true
}

// AddUnchecked inserts t without checking for duplicates. The caller must
// already know t is not a duplicate (e.g. it just checked via TryAdd's
// dedup path at a higher layer).
func (b *Bunch) AddUnchecked(t rdf.Triple) {
	if b.hashed == nil && len(b.arr) >= b.threshold {
		b.migrate()
	}
	if b.hashed != nil {
		h := t.Hash()
		b.hashed[h] = append(b.hashed[h], t)
	} else {
		b.arr = append(b.arr, t)
	}
	b.size++
}

// migrate moves the array representation into a hashed one. One-way: a
// hashed bunch that later shrinks below threshold is never downgraded.
func (b *Bunch) migrate() {
	h := make(map[uint64][]rdf.Triple, len(b.arr)*2)
	for _, t := range b.arr {
		hv := t.Hash()
		h[hv] = append(h[hv], t)
	}
	b.hashed = h
	b.arr = nil
}

// containsDup reports whether the bunch already holds a duplicate of t.
func (b *Bunch) containsDup(t rdf.Triple) bool {
	if b.hashed != nil {
		for _, cand := range b.hashed[t.Hash()] {
			if b.compare(cand, t) {
				return true
			}
		}
		return false
	}
	for _, cand := range b.arr {
		if b.compare(cand, t) {
			return true
		}
	}
	return false
}

// TryRemove removes the triple that is a duplicate of t under the
// bunch's CompareFunc, if one is present, and reports whether anything
// was removed.
func (b *Bunch) TryRemove(t rdf.Triple) bool {
	if b.hashed != nil {
		h := t.Hash()
		bucket := b.hashed[h]
		for i, cand := range bucket {
			if b.compare(cand, t) {
				bucket[i] = bucket[len(bucket)-1]
				bucket = bucket[:len(bucket)-1]
				if len(bucket) == 0 {
					delete(b.hashed, h)
				} else {
					b.hashed[h] = bucket
				}
				b.size--
				return true
			}
		}
		return false
	}
	for i, cand := range b.arr {
		if b.compare(cand, t) {
			b.arr[i] = b.arr[len(b.arr)-1]
			b.arr = b.arr[:len(b.arr)-1]
			b.size--
			return true
		}
	}
	return false
}

// Contains reports whether the bunch holds a duplicate of t under the
// bunch's CompareFunc (exact structural dedup test, not pattern
// matching — callers doing pattern queries should use AnyMatch with a
// Node.Matches-based predicate instead).
func (b *Bunch) Contains(t rdf.Triple) bool {
	return b.containsDup(t)
}

// AnyMatch reports whether any triple in the bunch satisfies pred. This
// is the hook pattern-matching callers use to apply value-equality
// (Node.Matches) semantics rather than the bunch's own dedup CompareFunc.
func (b *Bunch) AnyMatch(pred func(rdf.Triple) bool) bool {
	if b.hashed != nil {
		for _, bucket := range b.hashed {
			for _, t := range bucket {
				if pred(t) {
					return true
				}
			}
		}
		return false
	}
	for _, t := range b.arr {
		if pred(t) {
			return true
		}
	}
	return false
}

// ForEach calls fn for every triple in the bunch, stopping early if fn
// returns false. Iteration order is insertion order for an array bunch
// and implementation-defined for a hashed bunch.
func (b *Bunch) ForEach(fn func(rdf.Triple) bool) {
	if b.hashed != nil {
		for _, bucket := range b.hashed {
			for _, t := range bucket {
				if !fn(t) {
					return
				}
			}
		}
		return
	}
	for _, t := range b.arr {
		if !fn(t) {
			return
		}
	}
}
