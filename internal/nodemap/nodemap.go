// Package nodemap implements the node→value map (C4): a hash map whose
// lookup short-circuits on (indexing-value hash, term-equality). It is
// generic over the value type so the same structure serves both the
// classic store's node→bunch maps and the roaring store's node→bitmap
// maps (spec.md §9: "the same shape... parameterise once").
package nodemap

import "github.com/graphcore/triplestore/pkg/rdf"

type entry[V any] struct {
	node  rdf.Node
	value V
}

// Map is a hash map keyed by rdf.Node, bucketed by indexing-value hash so
// that value-equal nodes (e.g. differently-spelled equal numeric
// literals) collide into the same bucket, but remain distinct entries
// within it (term equality).
type Map[V any] struct {
	buckets map[rdf.IndexKey][]entry[V]
	size    int
}

// New returns an empty Map.
func New[V any]() *Map[V] {
	return &Map[V]{buckets: make(map[rdf.IndexKey][]entry[V])}
}

// Len returns the number of distinct node keys stored.
func (m *Map[V]) Len() int { return m.size }

// Get returns the value stored for node, if any.
func (m *Map[V]) Get(node rdf.Node) (V, bool) {
	bucket := m.buckets[node.IndexingValue()]
	for _, e := range bucket {
		if e.node.Equals(node) {
			return e.value, true
		}
	}
	var zero V
	return zero, false
}

// ValueMatches returns every value stored under a node that is
// value-equal to node (i.e. every entry sharing node's indexing-value
// bucket and passing Node.Matches), not just the one exact term match
// Get would return. Only literals can have more than one stored spelling
// of the same value, so for every other kind this returns at most the
// single entry Get would. Pattern-matching callers (the graph stores)
// use this instead of Get wherever the lookup key can be a literal, so a
// query for one spelling finds triples stored under another.
func (m *Map[V]) ValueMatches(node rdf.Node) []V {
	bucket := m.buckets[node.IndexingValue()]
	if len(bucket) == 0 {
		return nil
	}
	out := make([]V, 0, len(bucket))
	for _, e := range bucket {
		if e.node.Matches(node) {
			out = append(out, e.value)
		}
	}
	return out
}

// ContainsKey reports whether node has an entry in the map.
func (m *Map[V]) ContainsKey(node rdf.Node) bool {
	_, ok := m.Get(node)
	return ok
}

// ComputeIfAbsent returns the value stored for node, creating and storing
// one via factory if absent.
func (m *Map[V]) ComputeIfAbsent(node rdf.Node, factory func() V) V {
	key := node.IndexingValue()
	bucket := m.buckets[key]
	for i := range bucket {
		if bucket[i].node.Equals(node) {
			return bucket[i].value
		}
	}
	v := factory()
	m.buckets[key] = append(bucket, entry[V]{node: node, value: v})
	m.size++
	return v
}

// Put stores value for node, overwriting any existing entry.
func (m *Map[V]) Put(node rdf.Node, value V) {
	key := node.IndexingValue()
	bucket := m.buckets[key]
	for i := range bucket {
		if bucket[i].node.Equals(node) {
			bucket[i].value = value
			return
		}
	}
	m.buckets[key] = append(bucket, entry[V]{node: node, value: value})
	m.size++
}

// Remove deletes node's entry, if present, and reports whether it was.
func (m *Map[V]) Remove(node rdf.Node) bool {
	key := node.IndexingValue()
	bucket := m.buckets[key]
	for i := range bucket {
		if bucket[i].node.Equals(node) {
			bucket[i] = bucket[len(bucket)-1]
			bucket = bucket[:len(bucket)-1]
			if len(bucket) == 0 {
				delete(m.buckets, key)
			} else {
				m.buckets[key] = bucket
			}
			m.size--
			return true
		}
	}
	return false
}

// Range calls fn for every (node, value) pair, stopping early if fn
// returns false. Iteration order is unspecified.
func (m *Map[V]) Range(fn func(node rdf.Node, value V) bool) {
	for _, bucket := range m.buckets {
		for _, e := range bucket {
			if !fn(e.node, e.value) {
				return
			}
		}
	}
}
