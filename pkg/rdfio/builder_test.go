package rdfio

import (
	"bytes"
	"errors"
	"testing"

	"github.com/graphcore/triplestore/pkg/codec"
	"github.com/graphcore/triplestore/pkg/graph"
	"github.com/graphcore/triplestore/pkg/rdf"
)

func TestBuilderInsertsBufferedTriples(t *testing.T) {
	g := graph.NewClassicStore()
	b := NewBuilder(g)
	b.Start()
	tr := rdf.New(rdf.NewIRI("http://example.org/a"), rdf.NewIRI("http://example.org/p"), rdf.NewLiteral("v"))
	if err := b.Triple(tr); err != nil {
		t.Fatal(err)
	}
	if g.Size() != 0 {
		t.Fatalf("expected triple to stay buffered until Finish, got size %d", g.Size())
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if !g.Contains(tr) {
		t.Fatal("expected triple to be inserted after Finish")
	}
}

func TestBuilderFlushesAtBatchSize(t *testing.T) {
	g := graph.NewClassicStore()
	b := NewBuilder(g)
	b.SetBatchSize(2)
	b.Start()
	t1 := rdf.New(rdf.NewIRI("s1"), rdf.NewIRI("p"), rdf.NewLiteral("a"))
	t2 := rdf.New(rdf.NewIRI("s2"), rdf.NewIRI("p"), rdf.NewLiteral("b"))
	if err := b.Triple(t1); err != nil {
		t.Fatal(err)
	}
	if err := b.Triple(t2); err != nil {
		t.Fatal(err)
	}
	if g.Size() != 2 {
		t.Fatalf("expected an in-window flush at batch size, got size %d", g.Size())
	}
}

func TestBuilderNestedStartFinish(t *testing.T) {
	g := graph.NewClassicStore()
	b := NewBuilder(g)
	b.Start()
	b.Start()
	tr := rdf.New(rdf.NewIRI("s"), rdf.NewIRI("p"), rdf.NewLiteral("o"))
	if err := b.Triple(tr); err != nil {
		t.Fatal(err)
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if g.Size() != 0 {
		t.Fatal("expected buffered triple to survive the inner Finish")
	}
	if err := b.Finish(); err != nil {
		t.Fatal(err)
	}
	if !g.Contains(tr) {
		t.Fatal("expected triple to be inserted once the outer window closes")
	}
}

func TestTripleOutsideWindowIsProtocolError(t *testing.T) {
	g := graph.NewClassicStore()
	b := NewBuilder(g)
	err := b.Triple(rdf.New(rdf.Any, rdf.Any, rdf.Any))
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestUnbalancedFinishIsProtocolError(t *testing.T) {
	g := graph.NewClassicStore()
	b := NewBuilder(g)
	err := b.Finish()
	var pe *ProtocolError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *ProtocolError, got %v", err)
	}
}

func TestLoadCodecStreamPopulatesGraph(t *testing.T) {
	var buf bytes.Buffer
	w := codec.NewWriter(&buf)
	if err := w.WritePrefix("ex", "http://example.org/"); err != nil {
		t.Fatal(err)
	}
	tr := rdf.New(rdf.NewIRI("http://example.org/a"), rdf.NewIRI("http://example.org/p"), rdf.NewLiteral("v"))
	if err := w.WriteTriple(tr); err != nil {
		t.Fatal(err)
	}

	g := graph.NewClassicStore()
	b := NewBuilder(g)
	r := codec.NewReader(&buf)
	if err := LoadCodecStream(r, b); err != nil {
		t.Fatal(err)
	}
	if !g.Contains(tr) {
		t.Fatal("expected decoded triple to land in the graph")
	}
	if b.Prefixes()["ex"] != "http://example.org/" {
		t.Fatalf("expected prefix to be recorded, got %+v", b.Prefixes())
	}
}
