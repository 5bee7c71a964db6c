package graph

import (
	"iter"

	"github.com/graphcore/triplestore/internal/bunch"
	"github.com/graphcore/triplestore/internal/nodemap"
	"github.com/graphcore/triplestore/internal/pattern"
	"github.com/graphcore/triplestore/pkg/rdf"
)

// Default bunch migration thresholds (spec.md §9: T_bunch = 16 for the
// subject index, 32 for predicate/object) and the secondary-index scan
// threshold (§9 Open Question: the "T_secondary" beyond which a
// two-position lookup prefers scanning the smaller of its two bunches
// rather than the one picked by position alone).
const (
	DefaultSubjectThreshold   = 16
	DefaultPredicateThreshold = 32
	DefaultObjectThreshold    = 32
	DefaultSecondaryThreshold = 400
)

// ClassicStore is the in-memory indexed triple store (C5): three
// node→bunch maps, one per position, kept mirror-consistent on every
// mutation. Every exported method that finds the mirrors disagree panics
// via rdf.PanicInvariant rather than returning a silently wrong answer.
type ClassicStore struct {
	bySubject   *nodemap.Map[*bunch.Bunch]
	byPredicate *nodemap.Map[*bunch.Bunch]
	byObject    *nodemap.Map[*bunch.Bunch]
	size        int

	// SubjectThreshold, PredicateThreshold and ObjectThreshold configure
	// the bunch migration threshold for each index, applied to bunches
	// created from this point on.
	SubjectThreshold   int
	PredicateThreshold int
	ObjectThreshold    int
	// SecondaryThreshold configures the two-position lookup's scan-the-
	// smaller-bunch heuristic.
	SecondaryThreshold int
}

// NewClassicStore returns an empty ClassicStore with the default
// thresholds.
func NewClassicStore() *ClassicStore {
	return &ClassicStore{
		bySubject:          nodemap.New[*bunch.Bunch](),
		byPredicate:        nodemap.New[*bunch.Bunch](),
		byObject:           nodemap.New[*bunch.Bunch](),
		SubjectThreshold:   DefaultSubjectThreshold,
		PredicateThreshold: DefaultPredicateThreshold,
		ObjectThreshold:    DefaultObjectThreshold,
		SecondaryThreshold: DefaultSecondaryThreshold,
	}
}

var _ Graph = (*ClassicStore)(nil)

// Add inserts t into all three indices, or does nothing if it is already
// present (term-equal) in the subject index.
func (s *ClassicStore) Add(t rdf.Triple) {
	sb := s.bySubject.ComputeIfAbsent(t.Subject, func() *bunch.Bunch {
		return bunch.New(bunch.BySubject, s.SubjectThreshold)
	})
	if !sb.TryAdd(t) {
		return
	}

	pb := s.byPredicate.ComputeIfAbsent(t.Predicate, func() *bunch.Bunch {
		return bunch.New(bunch.ByPredicate, s.PredicateThreshold)
	})
	if !pb.TryAdd(t) {
		rdf.PanicInvariant("triple %s present in subject index but already present in predicate index", t)
	}

	ob := s.byObject.ComputeIfAbsent(t.Object, func() *bunch.Bunch {
		return bunch.New(bunch.ByObject, s.ObjectThreshold)
	})
	if !ob.TryAdd(t) {
		rdf.PanicInvariant("triple %s present in subject index but already present in object index", t)
	}

	s.size++
}

// Delete removes t's term-equal triple from all three indices, or does
// nothing if it is not present.
func (s *ClassicStore) Delete(t rdf.Triple) {
	sb, ok := s.bySubject.Get(t.Subject)
	if !ok || !sb.TryRemove(t) {
		return
	}
	if sb.Len() == 0 {
		s.bySubject.Remove(t.Subject)
	}

	pb, ok := s.byPredicate.Get(t.Predicate)
	if !ok || !pb.TryRemove(t) {
		rdf.PanicInvariant("triple %s removed from subject index but absent from predicate index", t)
	}
	if pb.Len() == 0 {
		s.byPredicate.Remove(t.Predicate)
	}

	ob, ok := s.byObject.Get(t.Object)
	if !ok || !ob.TryRemove(t) {
		rdf.PanicInvariant("triple %s removed from subject index but absent from object index", t)
	}
	if ob.Len() == 0 {
		s.byObject.Remove(t.Object)
	}

	s.size--
}

// Size returns the number of distinct stored triples.
func (s *ClassicStore) Size() int { return s.size }

// IsEmpty reports whether the store holds no triples.
func (s *ClassicStore) IsEmpty() bool { return s.size == 0 }

// Clear removes every triple.
func (s *ClassicStore) Clear() {
	s.bySubject = nodemap.New[*bunch.Bunch]()
	s.byPredicate = nodemap.New[*bunch.Bunch]()
	s.byObject = nodemap.New[*bunch.Bunch]()
	s.size = 0
}

// Contains reports whether any stored triple matches pattern.
func (s *ClassicStore) Contains(p rdf.Triple) bool {
	tag, err := pattern.Classify(p.Subject, p.Predicate, p.Object)
	if err != nil {
		rdf.PanicInvariant("Contains: %v", err)
	}

	switch tag {
	case pattern.SubPreObj, pattern.SubPreAny, pattern.SubAnyObj:
		sb, ok := s.bySubject.Get(p.Subject)
		if !ok {
			return false
		}
		return sb.AnyMatch(func(t rdf.Triple) bool { return t.Matches(p) })

	case pattern.SubAnyAny:
		return s.bySubject.ContainsKey(p.Subject)

	case pattern.AnyPreAny:
		return s.byPredicate.ContainsKey(p.Predicate)

	case pattern.AnyAnyObj:
		for _, ob := range s.byObject.ValueMatches(p.Object) {
			if ob.Len() > 0 {
				return true
			}
		}
		return false

	case pattern.AnyPreObj:
		pb, ok := s.byPredicate.Get(p.Predicate)
		if !ok {
			return false
		}
		obs := s.byObject.ValueMatches(p.Object)
		if len(obs) == 0 {
			return false
		}
		if s.preferPredicateScan(pb, obs) {
			return pb.AnyMatch(func(t rdf.Triple) bool { return t.Matches(p) })
		}
		for _, ob := range obs {
			if ob.AnyMatch(func(t rdf.Triple) bool { return t.Matches(p) }) {
				return true
			}
		}
		return false

	default: // AnyAnyAny
		return s.size > 0
	}
}

// preferPredicateScan reports whether a two-bunch lookup should scan the
// predicate bunch instead of the (possibly several, value-equal) object
// bunches, per the SecondaryThreshold heuristic: only worth it once the
// combined object side is large and the predicate side is smaller.
func (s *ClassicStore) preferPredicateScan(pb *bunch.Bunch, obs []*bunch.Bunch) bool {
	total := 0
	for _, ob := range obs {
		total += ob.Len()
	}
	return total > s.SecondaryThreshold && pb.Len() < total
}

// Find returns a pull-style iterator over every stored triple matching
// pattern.
func (s *ClassicStore) Find(p rdf.Triple) *Iterator {
	return newIterator(s.Stream(p))
}

// Stream returns a lazy sequence of every stored triple matching
// pattern.
func (s *ClassicStore) Stream(p rdf.Triple) iter.Seq[rdf.Triple] {
	tag, err := pattern.Classify(p.Subject, p.Predicate, p.Object)
	if err != nil {
		rdf.PanicInvariant("Stream: %v", err)
	}

	return func(yield func(rdf.Triple) bool) {
		switch tag {
		case pattern.SubPreObj, pattern.SubPreAny, pattern.SubAnyObj:
			sb, ok := s.bySubject.Get(p.Subject)
			if !ok {
				return
			}
			sb.ForEach(func(t rdf.Triple) bool {
				if !t.Matches(p) {
					return true
				}
				return yield(t)
			})

		case pattern.SubAnyAny:
			sb, ok := s.bySubject.Get(p.Subject)
			if !ok {
				return
			}
			sb.ForEach(yield)

		case pattern.AnyPreAny:
			pb, ok := s.byPredicate.Get(p.Predicate)
			if !ok {
				return
			}
			pb.ForEach(yield)

		case pattern.AnyAnyObj:
			for _, ob := range s.byObject.ValueMatches(p.Object) {
				cont := true
				ob.ForEach(func(t rdf.Triple) bool {
					cont = yield(t)
					return cont
				})
				if !cont {
					return
				}
			}

		case pattern.AnyPreObj:
			pb, ok := s.byPredicate.Get(p.Predicate)
			if !ok {
				return
			}
			obs := s.byObject.ValueMatches(p.Object)
			if len(obs) == 0 {
				return
			}
			if s.preferPredicateScan(pb, obs) {
				pb.ForEach(func(t rdf.Triple) bool {
					if !t.Matches(p) {
						return true
					}
					return yield(t)
				})
				return
			}
			for _, ob := range obs {
				cont := true
				ob.ForEach(func(t rdf.Triple) bool {
					if !t.Matches(p) {
						return true
					}
					cont = yield(t)
					return cont
				})
				if !cont {
					return
				}
			}

		default: // AnyAnyAny
			s.bySubject.Range(func(_ rdf.Node, sb *bunch.Bunch) bool {
				cont := true
				sb.ForEach(func(t rdf.Triple) bool {
					cont = yield(t)
					return cont
				})
				return cont
			})
		}
	}
}

// Copy returns an independent deep copy of the store.
func (s *ClassicStore) Copy() Graph {
	cp := NewClassicStore()
	cp.SubjectThreshold = s.SubjectThreshold
	cp.PredicateThreshold = s.PredicateThreshold
	cp.ObjectThreshold = s.ObjectThreshold
	cp.SecondaryThreshold = s.SecondaryThreshold
	s.bySubject.Range(func(_ rdf.Node, sb *bunch.Bunch) bool {
		sb.ForEach(func(t rdf.Triple) bool {
			cp.Add(t)
			return true
		})
		return true
	})
	return cp
}
