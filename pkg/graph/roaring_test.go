package graph

import (
	"context"
	"testing"

	"github.com/graphcore/triplestore/pkg/rdf"
)

func TestRoaringAutomaticBuildsIndexLazily(t *testing.T) {
	s := NewRoaringStore(Automatic)
	a, p, b := rdf.NewIRI("a"), rdf.NewIRI("p"), rdf.NewIRI("b")
	s.Add(rdf.New(a, p, b))

	if s.IndexBuilt() {
		t.Fatal("index should not be built until a query needs it")
	}
	if !s.Contains(rdf.New(a, rdf.Any, rdf.Any)) {
		t.Fatal("expected SUB_ANY_ANY pattern to match")
	}
	if !s.IndexBuilt() {
		t.Fatal("Automatic mode should have built the index on demand")
	}
}

func TestRoaringManualRequiresRebuild(t *testing.T) {
	s := NewRoaringStore(Manual)
	a, p, b := rdf.NewIRI("a"), rdf.NewIRI("p"), rdf.NewIRI("b")
	s.Add(rdf.New(a, p, b))

	_, err := s.TryContains(rdf.New(a, rdf.Any, rdf.Any))
	if err != ErrIndexNotBuilt {
		t.Fatalf("expected ErrIndexNotBuilt, got %v", err)
	}

	if err := s.RebuildIndex(context.Background()); err != nil {
		t.Fatalf("RebuildIndex: %v", err)
	}
	ok, err := s.TryContains(rdf.New(a, rdf.Any, rdf.Any))
	if err != nil || !ok {
		t.Fatalf("TryContains after RebuildIndex = (%v, %v)", ok, err)
	}
}

func TestRoaringManualContainsPanicsWithoutIndex(t *testing.T) {
	s := NewRoaringStore(Manual)
	a := rdf.NewIRI("a")
	s.Add(rdf.New(a, rdf.NewIRI("p"), rdf.NewIRI("b")))

	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("expected Contains to panic without a built index in Manual mode")
		}
		if _, ok := r.(*PreconditionError); !ok {
			t.Fatalf("expected *PreconditionError panic, got %T", r)
		}
	}()
	s.Contains(rdf.New(a, rdf.Any, rdf.Any))
}

func TestRoaringContainsValueEquality(t *testing.T) {
	s := NewRoaringStore(Automatic)
	x, r := rdf.NewIRI("x"), rdf.NewIRI("R")
	s.Add(rdf.New(x, r, rdf.NewTypedLiteral("0.1", rdf.XSDDouble)))

	q := rdf.New(x, r, rdf.NewTypedLiteral("0.10", rdf.XSDDouble))
	if !s.Contains(q) {
		t.Fatal("expected value-equal numeric literal to be found (SUB_PRE_OBJ fallback scan)")
	}
}

func TestRoaringDeleteUpdatesBitmaps(t *testing.T) {
	s := NewRoaringStore(Automatic)
	a, p, b := rdf.NewIRI("a"), rdf.NewIRI("p"), rdf.NewIRI("b")
	tr := rdf.New(a, p, b)
	s.Add(tr)
	s.Contains(rdf.New(a, rdf.Any, rdf.Any)) // force index build
	s.Delete(tr)

	if s.Contains(rdf.New(a, rdf.Any, rdf.Any)) {
		t.Fatal("expected subject bitmap to no longer contain the deleted triple")
	}
}

func TestRoaringFindTwoPositionPattern(t *testing.T) {
	s := NewRoaringStore(Automatic)
	a, b, c := rdf.NewIRI("a"), rdf.NewIRI("b"), rdf.NewIRI("c")
	p1, p2 := rdf.NewIRI("p1"), rdf.NewIRI("p2")
	s.Add(rdf.New(a, p1, b))
	s.Add(rdf.New(a, p2, c))

	it := s.Find(rdf.New(a, p1, rdf.Any))
	count := 0
	for it.Next() {
		if !it.Triple().Equals(rdf.New(a, p1, b)) {
			t.Fatalf("unexpected triple %v", it.Triple())
		}
		count++
	}
	if count != 1 {
		t.Fatalf("expected exactly one match, got %d", count)
	}
}

func TestRoaringConcurrentModificationPanics(t *testing.T) {
	s := NewRoaringStore(Automatic)
	a, p := rdf.NewIRI("a"), rdf.NewIRI("p")
	for i := 0; i < 2*bitmapIterBatch; i++ {
		s.Add(rdf.New(a, p, rdf.NewIRI(randWord())))
	}
	s.Contains(rdf.New(a, rdf.Any, rdf.Any)) // force index build

	defer func() {
		if recover() == nil {
			t.Fatal("expected a panic when mutating mid-iteration")
		}
	}()
	for t := range s.Stream(rdf.New(a, rdf.Any, rdf.Any)) {
		_ = t
		s.Add(rdf.New(a, p, rdf.NewIRI(randWord())))
	}
}
