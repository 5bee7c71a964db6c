package codec

import (
	"io"

	"github.com/graphcore/triplestore/pkg/rdf"
)

// Writer serialises a stream of StreamRows (and the VarTuple/DataTuple
// framing used for SPARQL result sets) to an underlying byte sink,
// maintaining one string dictionary for the life of the stream.
type Writer struct {
	w    io.Writer
	dict *StringDictionaryWriter
}

// NewWriter returns a Writer over w with a fresh, empty string
// dictionary.
func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w, dict: NewStringDictionaryWriter()}
}

// WritePrefix emits a Prefix(name, iri) row.
func (w *Writer) WritePrefix(name, iri string) error {
	var body fieldWriter
	body.writeI32(w.dict.GetIndex(name).Index)
	body.writeI32(w.dict.GetIndex(iri).Index)
	return w.emit(RowPrefix, body.Bytes())
}

// WriteBase emits a Base(iri) row.
func (w *Writer) WriteBase(iri string) error {
	var body fieldWriter
	body.writeI32(w.dict.GetIndex(iri).Index)
	return w.emit(RowBase, body.Bytes())
}

// WriteTriple emits a Triple(s, p, o) row.
func (w *Writer) WriteTriple(t rdf.Triple) error {
	var body fieldWriter
	body.writeTerm(w.termFor(t.Subject))
	body.writeTerm(w.termFor(t.Predicate))
	body.writeTerm(w.termFor(t.Object))
	return w.emit(RowTriple, body.Bytes())
}

// WriteQuad emits a Quad(g, s, p, o) row.
func (w *Writer) WriteQuad(q rdf.Quad) error {
	var body fieldWriter
	body.writeTerm(w.termFor(q.Graph))
	body.writeTerm(w.termFor(q.Subject))
	body.writeTerm(w.termFor(q.Predicate))
	body.writeTerm(w.termFor(q.Object))
	return w.emit(RowQuad, body.Bytes())
}

// WriteVarTuple emits the result-set header row naming the projected
// variables. It should be written at most once, before any DataTuple.
func (w *Writer) WriteVarTuple(vars []rdf.Node) error {
	var body fieldWriter
	body.writeI32(int32(len(vars)))
	for _, v := range vars {
		body.writeTerm(w.termFor(v))
	}
	return w.emit(RowVarTuple, body.Bytes())
}

// WriteDataTuple emits one SPARQL result row. An unbound binding is
// represented by rdf.Any, which termFor encodes as TermUndefined.
func (w *Writer) WriteDataTuple(row []rdf.Node) error {
	var body fieldWriter
	body.writeI32(int32(len(row)))
	for _, v := range row {
		body.writeTerm(w.termFor(v))
	}
	return w.emit(RowDataTuple, body.Bytes())
}

// Flush forces any strings queued since the last emitted row out as a
// standalone StringDictBatch row. Returns *PreconditionError
// (ErrNothingToFlush) if nothing is queued; every other Write* method
// already flushes its own pending strings, so Flush is only needed to
// push a trailing batch with no row to ride along with.
func (w *Writer) Flush() error {
	batch, err := w.dict.Flush()
	if err != nil {
		return err
	}
	var body fieldWriter
	body.writeStringBatch(batch)
	return writeFrame(w.w, RowStringDictBatch, body.Bytes())
}

// termFor resolves n to its wire encoding, interning any strings it
// carries into the stream's dictionary (queued for the next flush).
// rdf.Any (and any other non-term kind) encodes as TermUndefined.
func (w *Writer) termFor(n rdf.Node) wireTerm {
	switch n.Kind() {
	case rdf.KindIRI:
		return wireTerm{kind: TermIRI, primaryIndex: w.dict.GetIndex(n.Value()).Index, langIndex: noIndex, datatypeIndex: noIndex}
	case rdf.KindBlank:
		return wireTerm{kind: TermBlank, primaryIndex: w.dict.GetIndex(n.Value()).Index, langIndex: noIndex, datatypeIndex: noIndex}
	case rdf.KindVariable:
		return wireTerm{kind: TermVariable, primaryIndex: w.dict.GetIndex(n.Value()).Index, langIndex: noIndex, datatypeIndex: noIndex}
	case rdf.KindLiteral:
		t := wireTerm{kind: TermLiteral, primaryIndex: w.dict.GetIndex(n.Value()).Index, langIndex: noIndex, datatypeIndex: noIndex}
		switch {
		case n.Lang() != "":
			t.langIndex = w.dict.GetIndex(n.Lang()).Index
		case n.Datatype() != "" && n.Datatype() != rdf.XSDString:
			t.datatypeIndex = w.dict.GetIndex(n.Datatype()).Index
		}
		return t
	default:
		return wireTerm{kind: TermUndefined, langIndex: noIndex, datatypeIndex: noIndex}
	}
}

// emit prepends any strings queued (by the caller's just-computed
// fields, or left over from an earlier call) as an embedded
// StringDictBatch, then writes the frame.
func (w *Writer) emit(kind RowKind, fields []byte) error {
	batch, err := w.dict.Flush()
	if err != nil && err != ErrNothingToFlush {
		return err
	}
	var frame fieldWriter
	frame.writeStringBatch(batch)
	frame.buf.Write(fields)
	return writeFrame(w.w, kind, frame.Bytes())
}
