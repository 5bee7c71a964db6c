// Package rdfio implements the streaming-events-in contract a parser
// feeds to a graph: nested start/finish pairs bracketing prefix, base,
// triple and quad events. It is the push-style counterpart to
// pkg/codec's pull-style Reader, and the two are meant to sit on either
// side of a graph.Graph: a codec.Reader's rows drive a Builder, and a
// Builder drives Add calls on a store, in batches.
package rdfio

import (
	"github.com/graphcore/triplestore/pkg/graph"
	"github.com/graphcore/triplestore/pkg/rdf"
)

// ProtocolError reports a triple/quad event delivered outside any
// start/finish window, or an unbalanced finish.
type ProtocolError struct {
	Reason string
}

func (e *ProtocolError) Error() string { return "rdfio: protocol error: " + e.Reason }

// Builder consumes streaming parse events and inserts the resulting
// triples into a graph.Graph, batching inserts the way the teacher's
// own Import/ImportGraph pairing batches bolt transactions.
type Builder struct {
	dst       graph.Graph
	depth     int
	base      string
	prefixes  map[string]string
	batch     []rdf.Triple
	batchSize int
}

// DefaultBatchSize mirrors the teacher's own Import default call site
// usage; callers needing a different batching granularity can call
// SetBatchSize after construction.
const DefaultBatchSize = 1000

// NewBuilder returns a Builder that inserts into dst.
func NewBuilder(dst graph.Graph) *Builder {
	return &Builder{dst: dst, prefixes: make(map[string]string), batchSize: DefaultBatchSize}
}

// SetBatchSize overrides the number of triples buffered before a
// batch is flushed into dst. It must be called before Start.
func (b *Builder) SetBatchSize(n int) { b.batchSize = n }

// Start opens a new nested event window.
func (b *Builder) Start() {
	b.depth++
}

// Finish closes the innermost open event window, flushing any
// buffered triples when the outermost window closes. Calling Finish
// with no open window is a protocol error.
func (b *Builder) Finish() error {
	if b.depth == 0 {
		return &ProtocolError{Reason: "finish with no matching start"}
	}
	b.depth--
	if b.depth == 0 {
		return b.flush()
	}
	return nil
}

// Prefix records a prefix declaration for later lookup (e.g. by a
// codec.Writer re-emitting the stream); it has no effect on the
// destination graph.
func (b *Builder) Prefix(name, iri string) error {
	if b.depth == 0 {
		return &ProtocolError{Reason: "prefix event outside start/finish"}
	}
	b.prefixes[name] = iri
	return nil
}

// Base records the stream's base IRI.
func (b *Builder) Base(iri string) error {
	if b.depth == 0 {
		return &ProtocolError{Reason: "base event outside start/finish"}
	}
	b.base = iri
	return nil
}

// Triple buffers t for insertion into the destination graph.
func (b *Builder) Triple(t rdf.Triple) error {
	if b.depth == 0 {
		return &ProtocolError{Reason: "triple event outside start/finish"}
	}
	b.batch = append(b.batch, t)
	if len(b.batch) >= b.batchSize {
		return b.flush()
	}
	return nil
}

// Quad buffers q's underlying triple for insertion, discarding the
// graph component: the destination Graph types (ClassicStore,
// RoaringStore) are triple stores, not quad stores, matching
// spec.md's own Graph API.
func (b *Builder) Quad(q rdf.Quad) error {
	return b.Triple(q.Triple())
}

// Prefixes returns the prefix table accumulated so far.
func (b *Builder) Prefixes() map[string]string { return b.prefixes }

// BaseIRI returns the most recently seen base IRI, or "" if none.
func (b *Builder) BaseIRI() string { return b.base }

func (b *Builder) flush() error {
	for _, t := range b.batch {
		b.dst.Add(t)
	}
	b.batch = b.batch[:0]
	return nil
}
