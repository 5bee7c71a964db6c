package rdf

// Triple is an ordered (subject, predicate, object) of concrete nodes, or
// a pattern when one or more positions hold Any.
type Triple struct {
	Subject   Node
	Predicate Node
	Object    Node
}

// New returns the triple (s, p, o).
func New(s, p, o Node) Triple {
	return Triple{Subject: s, Predicate: p, Object: o}
}

// String renders t as "s p o .".
func (t Triple) String() string {
	return t.Subject.String() + " " + t.Predicate.String() + " " + t.Object.String() + " ."
}

// Equals reports term equality position-by-position.
func (t Triple) Equals(other Triple) bool {
	return t.Subject.Equals(other.Subject) &&
		t.Predicate.Equals(other.Predicate) &&
		t.Object.Equals(other.Object)
}

// Matches reports whether t satisfies pattern: every non-wildcard position
// of pattern must value-match (Node.Matches) the corresponding position of
// t. Wildcard (Any) positions always match.
func (t Triple) Matches(pattern Triple) bool {
	return matchPos(t.Subject, pattern.Subject) &&
		matchPos(t.Predicate, pattern.Predicate) &&
		matchPos(t.Object, pattern.Object)
}

func matchPos(concrete, pattern Node) bool {
	if pattern.IsWildcard() {
		return true
	}
	return concrete.Matches(pattern)
}

// hashCombine mixes two 64-bit hashes (boost-style hash_combine, extended
// to 64 bits for collision headroom on large graphs).
func hashCombine(seed, v uint64) uint64 {
	const golden = 0x9e3779b97f4a7c15
	seed ^= v + golden + (seed << 6) + (seed >> 2)
	return seed
}

// Hash returns a 64-bit hash of t, mixing the hash of each position as
// specified by spec.md §3 ("a fixed function of (h(s), h(p), h(o))").
func (t Triple) Hash() uint64 {
	h := t.Subject.Hash()
	h = hashCombine(h, t.Predicate.Hash())
	h = hashCombine(h, t.Object.Hash())
	return h
}
