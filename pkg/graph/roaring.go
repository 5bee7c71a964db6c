package graph

import (
	"context"
	"iter"

	"github.com/RoaringBitmap/roaring"
	"golang.org/x/sync/errgroup"

	"github.com/graphcore/triplestore/internal/idxset"
	"github.com/graphcore/triplestore/internal/nodemap"
	"github.com/graphcore/triplestore/internal/pattern"
	"github.com/graphcore/triplestore/pkg/rdf"
)

// bitmapIterBatch is the batch size used when draining a roaring
// bitmap's iterator, so a pattern match over a huge bitmap doesn't pay a
// per-element check of the generation counter.
const bitmapIterBatch = 256

// IndexMode controls when a RoaringStore (re)builds its secondary
// node→bitmap indices.
type IndexMode int

const (
	// Automatic builds the index lazily, on the first pattern query that
	// needs it, and keeps it up to date incrementally thereafter.
	Automatic IndexMode = iota
	// Manual never builds the index implicitly; the caller must call
	// RebuildIndex before issuing any pattern query that needs it, or
	// those queries fail with ErrIndexNotBuilt.
	Manual
)

// RoaringStore is the large-graph triple store (C6): triples live in a
// single indexed hash set (internal/idxset) that hands out a stable,
// dense int32 index per triple; three node→bitmap maps, one per
// position, map a node to the set of indices of triples holding it
// there.
type RoaringStore struct {
	triples *idxset.Set[rdf.Triple]

	mode        IndexMode
	indexBuilt  bool
	bySubject   *nodemap.Map[*roaring.Bitmap]
	byPredicate *nodemap.Map[*roaring.Bitmap]
	byObject    *nodemap.Map[*roaring.Bitmap]

	// SecondaryThreshold mirrors ClassicStore's heuristic: unused for
	// bitmap intersection itself (which is cheap regardless of size) but
	// kept so callers can tune store behaviour uniformly; reserved for
	// future cost-based dispatch between intersection and scan.
	SecondaryThreshold int
}

func hashTriple(t rdf.Triple) uint64    { return t.Hash() }
func equalTriple(a, b rdf.Triple) bool { return a.Equals(b) }

// NewRoaringStore returns an empty RoaringStore using the given index
// mode.
func NewRoaringStore(mode IndexMode) *RoaringStore {
	return &RoaringStore{
		triples:            idxset.New(hashTriple, equalTriple),
		mode:               mode,
		SecondaryThreshold: DefaultSecondaryThreshold,
	}
}

var _ Graph = (*RoaringStore)(nil)

// Mode returns the store's index mode.
func (s *RoaringStore) Mode() IndexMode { return s.mode }

// IndexBuilt reports whether the bitmap index currently reflects every
// stored triple.
func (s *RoaringStore) IndexBuilt() bool { return s.indexBuilt }

// Add inserts t, a no-op if already present.
func (s *RoaringStore) Add(t rdf.Triple) {
	idx, inserted := s.triples.AddAndGetIndex(t)
	if !inserted {
		return
	}
	if s.indexBuilt {
		s.indexInsert(t, uint32(idx))
	}
}

func (s *RoaringStore) indexInsert(t rdf.Triple, idx uint32) {
	bitmapAdd(s.bySubject, t.Subject, idx)
	bitmapAdd(s.byPredicate, t.Predicate, idx)
	bitmapAdd(s.byObject, t.Object, idx)
}

func bitmapAdd(m *nodemap.Map[*roaring.Bitmap], key rdf.Node, idx uint32) {
	bm := m.ComputeIfAbsent(key, roaring.NewBitmap)
	bm.Add(idx)
}

// Delete removes t, a no-op if absent.
func (s *RoaringStore) Delete(t rdf.Triple) {
	idx, removed := s.triples.RemoveAndGetIndex(t)
	if !removed {
		return
	}
	if s.indexBuilt {
		bitmapRemove(s.bySubject, t.Subject, uint32(idx))
		bitmapRemove(s.byPredicate, t.Predicate, uint32(idx))
		bitmapRemove(s.byObject, t.Object, uint32(idx))
	}
}

func bitmapRemove(m *nodemap.Map[*roaring.Bitmap], key rdf.Node, idx uint32) {
	bm, ok := m.Get(key)
	if !ok {
		return
	}
	bm.Remove(idx)
	if bm.IsEmpty() {
		m.Remove(key)
	}
}

// Size returns the number of distinct stored triples.
func (s *RoaringStore) Size() int { return s.triples.Len() }

// IsEmpty reports whether the store holds no triples.
func (s *RoaringStore) IsEmpty() bool { return s.triples.Len() == 0 }

// Clear removes every triple and drops the bitmap index.
func (s *RoaringStore) Clear() {
	s.triples = idxset.New(hashTriple, equalTriple)
	s.bySubject, s.byPredicate, s.byObject = nil, nil, nil
	s.indexBuilt = false
}

// RebuildIndex (re)builds the three node→bitmap maps from scratch,
// fanning the three positions out across goroutines since each writes a
// disjoint map. Safe to call at any time, including while in Automatic
// mode; required at least once before any pattern query in Manual mode.
func (s *RoaringStore) RebuildIndex(ctx context.Context) error {
	bySubject := nodemap.New[*roaring.Bitmap]()
	byPredicate := nodemap.New[*roaring.Bitmap]()
	byObject := nodemap.New[*roaring.Bitmap]()

	positions := []struct {
		m   *nodemap.Map[*roaring.Bitmap]
		pos func(rdf.Triple) rdf.Node
	}{
		{bySubject, func(t rdf.Triple) rdf.Node { return t.Subject }},
		{byPredicate, func(t rdf.Triple) rdf.Node { return t.Predicate }},
		{byObject, func(t rdf.Triple) rdf.Node { return t.Object }},
	}

	g, _ := errgroup.WithContext(ctx)
	for _, p := range positions {
		p := p
		g.Go(func() error {
			s.triples.ForEach(func(idx int32, t rdf.Triple) bool {
				bitmapAdd(p.m, p.pos(t), uint32(idx))
				return true
			})
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	s.bySubject, s.byPredicate, s.byObject = bySubject, byPredicate, byObject
	s.indexBuilt = true
	return nil
}

// ensureIndex builds the index if missing and the store is Automatic,
// or returns ErrIndexNotBuilt if it is Manual.
func (s *RoaringStore) ensureIndex() error {
	if s.indexBuilt {
		return nil
	}
	if s.mode == Manual {
		return ErrIndexNotBuilt
	}
	return s.RebuildIndex(context.Background())
}

// Contains reports whether any stored triple matches pattern. It panics
// (with a *PreconditionError) if the index is required and missing; use
// TryContains to get that as an ordinary error instead.
func (s *RoaringStore) Contains(p rdf.Triple) bool {
	ok, err := s.TryContains(p)
	if err != nil {
		panic(err)
	}
	return ok
}

// TryContains is Contains, surfacing a missing-index precondition as an
// error instead of a panic.
func (s *RoaringStore) TryContains(p rdf.Triple) (bool, error) {
	tag, err := pattern.Classify(p.Subject, p.Predicate, p.Object)
	if err != nil {
		return false, err
	}

	switch tag {
	case pattern.SubPreObj:
		if s.triples.Contains(p) {
			return true, nil
		}
		if !p.Object.MayNeedValueFallback() {
			return false, nil
		}
		found := false
		s.triples.ForEach(func(_ int32, t rdf.Triple) bool {
			if t.Matches(p) {
				found = true
				return false
			}
			return true
		})
		return found, nil

	case pattern.AnyAnyAny:
		return s.triples.Len() > 0, nil
	}

	if err := s.ensureIndex(); err != nil {
		return false, err
	}

	switch tag {
	case pattern.SubAnyAny:
		bm, ok := s.bySubject.Get(p.Subject)
		return ok && !bm.IsEmpty(), nil
	case pattern.AnyPreAny:
		bm, ok := s.byPredicate.Get(p.Predicate)
		return ok && !bm.IsEmpty(), nil
	case pattern.AnyAnyObj:
		for _, bm := range s.byObject.ValueMatches(p.Object) {
			if !bm.IsEmpty() {
				return true, nil
			}
		}
		return false, nil
	default: // two-position patterns
		a, b, okA, okB := s.twoBitmaps(tag, p)
		if !okA || !okB {
			return false, nil
		}
		return a.Intersects(b), nil
	}
}

// twoBitmaps returns the pair of bitmaps a two-position pattern must
// intersect, unioning the object side across every value-equal object
// node first (only the object position can be a literal, so only it
// needs the value-equality union rather than an exact lookup).
func (s *RoaringStore) twoBitmaps(tag pattern.Tag, p rdf.Triple) (a, b *roaring.Bitmap, okA, okB bool) {
	switch tag {
	case pattern.SubPreAny:
		a, okA = s.bySubject.Get(p.Subject)
		b, okB = s.byPredicate.Get(p.Predicate)
	case pattern.SubAnyObj:
		a, okA = s.bySubject.Get(p.Subject)
		b, okB = unionBitmaps(s.byObject.ValueMatches(p.Object))
	case pattern.AnyPreObj:
		a, okA = s.byPredicate.Get(p.Predicate)
		b, okB = unionBitmaps(s.byObject.ValueMatches(p.Object))
	}
	return
}

func unionBitmaps(bms []*roaring.Bitmap) (*roaring.Bitmap, bool) {
	if len(bms) == 0 {
		return nil, false
	}
	out := roaring.NewBitmap()
	for _, bm := range bms {
		out.Or(bm)
	}
	return out, true
}

// Find returns a pull-style iterator over every stored triple matching
// pattern. It panics (with a *PreconditionError) if the index is
// required and missing; use TryFind to get that as an ordinary error.
func (s *RoaringStore) Find(p rdf.Triple) *Iterator {
	seq, err := s.TryStream(p)
	if err != nil {
		panic(err)
	}
	return newIterator(seq)
}

// TryFind is Find, surfacing a missing-index precondition as an error.
func (s *RoaringStore) TryFind(p rdf.Triple) (*Iterator, error) {
	seq, err := s.TryStream(p)
	if err != nil {
		return nil, err
	}
	return newIterator(seq), nil
}

// Stream returns a lazy sequence of every stored triple matching
// pattern. It panics (with a *PreconditionError) if the index is
// required and missing; use TryStream to get that as an ordinary error.
// Iterating the returned sequence panics with a *ConcurrentModificationError
// if the store is mutated before the sequence finishes.
func (s *RoaringStore) Stream(p rdf.Triple) iter.Seq[rdf.Triple] {
	seq, err := s.TryStream(p)
	if err != nil {
		panic(err)
	}
	return seq
}

// TryStream is Stream, surfacing a missing-index precondition as an
// error instead of a panic.
func (s *RoaringStore) TryStream(p rdf.Triple) (iter.Seq[rdf.Triple], error) {
	tag, err := pattern.Classify(p.Subject, p.Predicate, p.Object)
	if err != nil {
		return nil, err
	}

	empty := func(func(rdf.Triple) bool) {}

	switch tag {
	case pattern.AnyAnyAny:
		return func(yield func(rdf.Triple) bool) {
			s.triples.ForEach(func(_ int32, t rdf.Triple) bool { return yield(t) })
		}, nil

	case pattern.SubPreObj:
		return func(yield func(rdf.Triple) bool) {
			if !p.Object.MayNeedValueFallback() {
				if s.triples.Contains(p) {
					yield(p)
				}
				return
			}
			s.triples.ForEach(func(_ int32, t rdf.Triple) bool {
				if !t.Matches(p) {
					return true
				}
				return yield(t)
			})
		}, nil
	}

	if err := s.ensureIndex(); err != nil {
		return nil, err
	}

	switch tag {
	case pattern.SubAnyAny:
		bm, ok := s.bySubject.Get(p.Subject)
		if !ok {
			return empty, nil
		}
		return s.streamFromBitmap(bm, p), nil

	case pattern.AnyPreAny:
		bm, ok := s.byPredicate.Get(p.Predicate)
		if !ok {
			return empty, nil
		}
		return s.streamFromBitmap(bm, p), nil

	case pattern.AnyAnyObj:
		bm, ok := unionBitmaps(s.byObject.ValueMatches(p.Object))
		if !ok {
			return empty, nil
		}
		return s.streamFromBitmap(bm, p), nil

	default: // two-position patterns
		a, b, okA, okB := s.twoBitmaps(tag, p)
		if !okA || !okB {
			return empty, nil
		}
		return s.streamFromBitmap(roaring.And(a, b), p), nil
	}
}

// streamFromBitmap drains bm in batches, re-checking the indexed set's
// generation counter between batches so a mutation mid-iteration is
// detected (and panicked as *ConcurrentModificationError) rather than
// silently returning stale or mismatched triples.
func (s *RoaringStore) streamFromBitmap(bm *roaring.Bitmap, p rdf.Triple) iter.Seq[rdf.Triple] {
	gen := s.triples.Generation()
	return func(yield func(rdf.Triple) bool) {
		it := bm.Iterator()
		buf := make([]uint32, 0, bitmapIterBatch)
		for it.HasNext() {
			buf = buf[:0]
			for len(buf) < bitmapIterBatch && it.HasNext() {
				buf = append(buf, it.Next())
			}
			if s.triples.Generation() != gen {
				panic(&ConcurrentModificationError{})
			}
			for _, idx := range buf {
				t, ok := s.triples.GetKeyAt(int32(idx))
				if !ok {
					continue
				}
				if !t.Matches(p) {
					continue
				}
				if !yield(t) {
					return
				}
			}
		}
	}
}

// Copy returns an independent deep copy of the store, preserving its
// index mode and whether the bitmap index is currently built.
func (s *RoaringStore) Copy() Graph {
	cp := NewRoaringStore(s.mode)
	cp.SecondaryThreshold = s.SecondaryThreshold
	s.triples.ForEach(func(_ int32, t rdf.Triple) bool {
		cp.triples.AddAndGetIndex(t)
		return true
	})
	if s.indexBuilt {
		_ = cp.RebuildIndex(context.Background())
	}
	return cp
}
