package codec

import (
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/graphcore/triplestore/pkg/rdf"
)

func TestWriteReadPrefixAndBase(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WritePrefix("ex", "http://example.org/"); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteBase("http://example.org/base/"); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	row, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if row.Kind != RowPrefix || row.PrefixName != "ex" || row.PrefixIRI != "http://example.org/" {
		t.Fatalf("unexpected prefix row: %+v", row)
	}

	row, err = r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if row.Kind != RowBase || row.BaseIRI != "http://example.org/base/" {
		t.Fatalf("unexpected base row: %+v", row)
	}

	if _, err := r.ReadRow(); !errors.Is(err, io.EOF) {
		t.Fatalf("expected clean EOF, got %v", err)
	}
}

// TestDuplicateTriplesInternOnce is the two-identical-triples scenario:
// encoding the same triple twice must only add each distinct string to
// the dictionary once, and decoding must yield two equal triples.
func TestDuplicateTriplesInternOnce(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WritePrefix("ex", "http://example.org/"); err != nil {
		t.Fatal(err)
	}

	s := rdf.NewIRI("http://example.org/a")
	p := rdf.NewIRI("http://example.org/p")
	o := rdf.NewLiteral("v")
	triple := rdf.New(s, p, o)

	if err := w.WriteTriple(triple); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteTriple(triple); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	prefixRow, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if prefixRow.Kind != RowPrefix {
		t.Fatalf("expected prefix row first, got %v", prefixRow.Kind)
	}

	var got []rdf.Triple
	for {
		row, err := r.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			t.Fatal(err)
		}
		if row.Kind == RowTriple {
			got = append(got, row.Triple)
		}
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 triples, got %d", len(got))
	}
	for _, tr := range got {
		if !tr.Equals(triple) {
			t.Fatalf("decoded triple %v does not equal %v", tr, triple)
		}
	}
	// the second WriteTriple call interns no new strings: "ex",
	// "http://example.org/", "http://example.org/a",
	// "http://example.org/p" and "v" is 5 distinct strings total.
	if r.dict.Len() != 5 {
		t.Fatalf("expected 5 interned strings, got %d", r.dict.Len())
	}
}

func TestWriteReadQuad(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	q := rdf.NewQuad(
		rdf.NewIRI("http://example.org/g"),
		rdf.NewIRI("http://example.org/s"),
		rdf.NewIRI("http://example.org/p"),
		rdf.NewTypedLiteral("42", rdf.XSDInteger),
	)
	if err := w.WriteQuad(q); err != nil {
		t.Fatal(err)
	}
	r := NewReader(&buf)
	row, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if row.Kind != RowQuad || !row.Quad.Equals(q) {
		t.Fatalf("round-tripped quad %+v does not equal %+v", row.Quad, q)
	}
}

func TestWriteReadVarAndDataTuple(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	vars := []rdf.Node{rdf.NewVariable("s"), rdf.NewVariable("o")}
	if err := w.WriteVarTuple(vars); err != nil {
		t.Fatal(err)
	}
	row1 := []rdf.Node{rdf.NewIRI("http://example.org/a"), rdf.NewLiteral("hello")}
	row2 := []rdf.Node{rdf.NewIRI("http://example.org/b"), rdf.Any}
	if err := w.WriteDataTuple(row1); err != nil {
		t.Fatal(err)
	}
	if err := w.WriteDataTuple(row2); err != nil {
		t.Fatal(err)
	}

	r := NewReader(&buf)
	header, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if header.Kind != RowVarTuple || len(header.Vars) != 2 {
		t.Fatalf("unexpected header row: %+v", header)
	}
	if header.Vars[0].Value() != "s" || header.Vars[1].Value() != "o" {
		t.Fatalf("unexpected var names: %+v", header.Vars)
	}

	data1, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if data1.Kind != RowDataTuple || !data1.DataRow[0].Equals(row1[0]) || !data1.DataRow[1].Equals(row1[1]) {
		t.Fatalf("unexpected data row 1: %+v", data1.DataRow)
	}

	data2, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if !data2.DataRow[1].IsWildcard() {
		t.Fatalf("expected unbound binding to decode as Any, got %v", data2.DataRow[1])
	}
}

func TestFlushWithNothingQueuedIsPrecondition(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	err := w.Flush()
	var pe *PreconditionError
	if !errors.As(err, &pe) {
		t.Fatalf("expected *PreconditionError, got %v (%T)", err, err)
	}
}

func TestFlushEmitsStandaloneBatch(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	w.dict.GetIndex("http://example.org/dangling")
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}
	r := NewReader(&buf)
	row, err := r.ReadRow()
	if err != nil {
		t.Fatal(err)
	}
	if row.Kind != RowStringDictBatch || len(row.NewStrings) != 1 || row.NewStrings[0] != "http://example.org/dangling" {
		t.Fatalf("unexpected standalone batch row: %+v", row)
	}
}

func TestReadRowTruncatedHeaderIsUnexpectedEOF(t *testing.T) {
	r := NewReader(bytes.NewReader([]byte{byte(RowTriple), 0, 0}))
	_, err := r.ReadRow()
	var ue *UnexpectedEndOfStreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnexpectedEndOfStreamError, got %v (%T)", err, err)
	}
}

func TestReadRowTruncatedPayloadIsUnexpectedEOF(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)
	if err := w.WriteTriple(rdf.New(rdf.NewIRI("a"), rdf.NewIRI("b"), rdf.NewIRI("c"))); err != nil {
		t.Fatal(err)
	}
	full := buf.Bytes()
	truncated := full[:len(full)-2]
	r := NewReader(bytes.NewReader(truncated))
	_, err := r.ReadRow()
	var ue *UnexpectedEndOfStreamError
	if !errors.As(err, &ue) {
		t.Fatalf("expected *UnexpectedEndOfStreamError, got %v (%T)", err, err)
	}
}

func TestLookupOutOfRangeIsMalformed(t *testing.T) {
	rd := NewStringDictionaryReader()
	rd.Ingest([]string{"only"})
	_, err := rd.Lookup(5)
	var me *MalformedInputError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MalformedInputError, got %v (%T)", err, err)
	}
}

func TestUnknownRowKindIsMalformed(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFrame(&buf, RowKind(200), []byte{0, 0, 0, 0}); err != nil {
		t.Fatal(err)
	}
	r := NewReader(&buf)
	_, err := r.ReadRow()
	var me *MalformedInputError
	if !errors.As(err, &me) {
		t.Fatalf("expected *MalformedInputError, got %v (%T)", err, err)
	}
}
