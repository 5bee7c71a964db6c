// Package idxset implements an open-addressed hash set that also hands
// out stable, dense, reusable integer indices for every live key (C3).
// It backs the roaring triple store's indexed triple set, and is generic
// so the same probing/free-list machinery could index any comparable
// key — the store instantiates it over rdf.Triple.
package idxset

import "container/heap"

// HashFunc computes a key's hash.
type HashFunc[K any] func(K) uint64

// EqualFunc reports whether two keys are the same entry.
type EqualFunc[K any] func(a, b K) bool

type slotState uint8

const (
	stateEmpty slotState = iota
	stateTombstone
	stateOccupied
)

type slot[K any] struct {
	state slotState
	key   K
	index int32
	hash  uint64
}

// int32Heap is a min-heap of freed indices so the smallest freed index is
// always reused first (spec.md §3, "the next insertion reuses the
// smallest freed index").
type int32Heap []int32

func (h int32Heap) Len() int            { return len(h) }
func (h int32Heap) Less(i, j int) bool  { return h[i] < h[j] }
func (h int32Heap) Swap(i, j int)       { h[i], h[j] = h[j], h[i] }
func (h *int32Heap) Push(x interface{}) { *h = append(*h, x.(int32)) }
func (h *int32Heap) Pop() interface{} {
	old := *h
	n := len(old)
	x := old[n-1]
	*h = old[:n-1]
	return x
}

// Set is an indexed hash set over keys of type K.
type Set[K any] struct {
	hash HashFunc[K]
	eq   EqualFunc[K]

	slots []slot[K]
	count int
	tomb  int

	keysAt []K
	live   []bool
	free   int32Heap

	gen uint64
}

// New returns an empty indexed set using the given hash and equality
// functions.
func New[K any](hash HashFunc[K], eq EqualFunc[K]) *Set[K] {
	return &Set[K]{
		hash:  hash,
		eq:    eq,
		slots: make([]slot[K], 8),
	}
}

// Len returns the number of live keys in the set.
func (s *Set[K]) Len() int { return s.count }

// Generation returns a monotonic counter bumped on every structural
// mutation (insert or remove). Used by bitmap iterators (C6) to detect
// concurrent modification of the backing set.
func (s *Set[K]) Generation() uint64 { return s.gen }

// AddAndGetIndex inserts key if absent. It returns the key's stable index
// and true if key was newly inserted, or the existing index and false if
// key was already present.
func (s *Set[K]) AddAndGetIndex(key K) (int32, bool) {
	h := s.hash(key)
	if (s.count+s.tomb+1)*4 >= len(s.slots)*3 {
		s.grow()
	}
	pos, found := s.locate(key, h)
	if found {
		return s.slots[pos].index, false
	}
	if s.slots[pos].state == stateTombstone {
		s.tomb--
	}
	idx := s.allocIndex(key)
	s.slots[pos] = slot[K]{state: stateOccupied, key: key, index: idx, hash: h}
	s.count++
	s.gen++
	return idx, true
}

// RemoveAndGetIndex removes key if present, returning its freed index and
// true; returns (0, false) if key was not present. The freed index is
// reclaimed by a subsequent AddAndGetIndex.
func (s *Set[K]) RemoveAndGetIndex(key K) (int32, bool) {
	h := s.hash(key)
	pos, found := s.locate(key, h)
	if !found {
		return 0, false
	}
	idx := s.slots[pos].index
	s.slots[pos] = slot[K]{state: stateTombstone}
	s.tomb++
	s.count--

	var zero K
	s.live[idx] = false
	s.keysAt[idx] = zero
	heap.Push(&s.free, idx)
	s.gen++
	return idx, true
}

// GetKeyAt returns the key stored at idx, and true if idx is currently
// live. It is defined for every index returned by AddAndGetIndex until
// that index is freed by RemoveAndGetIndex.
func (s *Set[K]) GetKeyAt(idx int32) (K, bool) {
	if idx < 0 || int(idx) >= len(s.live) || !s.live[idx] {
		var zero K
		return zero, false
	}
	return s.keysAt[idx], true
}

// Contains reports whether key is present in the set.
func (s *Set[K]) Contains(key K) bool {
	_, found := s.locate(key, s.hash(key))
	return found
}

// ForEach calls fn for every live (index, key) pair. Iteration order is
// dense-index order, not insertion order.
func (s *Set[K]) ForEach(fn func(idx int32, key K) bool) {
	for i, alive := range s.live {
		if !alive {
			continue
		}
		if !fn(int32(i), s.keysAt[i]) {
			return
		}
	}
}

// allocIndex assigns key to a fresh or reclaimed index and returns it.
func (s *Set[K]) allocIndex(key K) int32 {
	if s.free.Len() > 0 {
		idx := heap.Pop(&s.free).(int32)
		s.keysAt[idx] = key
		s.live[idx] = true
		return idx
	}
	idx := int32(len(s.keysAt))
	s.keysAt = append(s.keysAt, key)
	s.live = append(s.live, true)
	return idx
}

// locate probes for key starting at its hash's home slot. It returns the
// slot holding key (found=true), or the first empty/tombstone slot where
// key could be inserted (found=false).
func (s *Set[K]) locate(key K, h uint64) (pos int, found bool) {
	mask := uint64(len(s.slots) - 1)
	i := h & mask
	firstFree := -1
	for {
		sl := &s.slots[i]
		switch sl.state {
		case stateEmpty:
			if firstFree >= 0 {
				return firstFree, false
			}
			return int(i), false
		case stateTombstone:
			if firstFree < 0 {
				firstFree = int(i)
			}
		case stateOccupied:
			if sl.hash == h && s.eq(sl.key, key) {
				return int(i), true
			}
		}
		i = (i + 1) & mask
	}
}

// grow doubles capacity and rehashes the sparse slot table only; dense
// indices (keysAt/live/free) are untouched and remain stable across the
// resize.
func (s *Set[K]) grow() {
	old := s.slots
	s.slots = make([]slot[K], len(old)*2)
	s.tomb = 0
	for _, sl := range old {
		if sl.state != stateOccupied {
			continue
		}
		pos, _ := s.locate(sl.key, sl.hash)
		s.slots[pos] = sl
	}
}
