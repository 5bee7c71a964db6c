package codec

import (
	"io"

	"github.com/graphcore/triplestore/pkg/rdf"
)

// Reader decodes a stream of frames written by a Writer, maintaining
// the mirror string dictionary the frames were encoded against.
type Reader struct {
	r    io.Reader
	dict *StringDictionaryReader
}

// NewReader returns a Reader over r with a fresh, empty string
// dictionary.
func NewReader(r io.Reader) *Reader {
	return &Reader{r: r, dict: NewStringDictionaryReader()}
}

// ReadRow decodes the next frame. It returns io.EOF, unwrapped, once
// the stream ends cleanly at a row boundary.
func (rd *Reader) ReadRow() (*Row, error) {
	kind, payload, err := readFrame(rd.r)
	if err != nil {
		return nil, err
	}
	fr := newFieldReader(payload)

	batch, err := fr.readStringBatch()
	if err != nil {
		return nil, err
	}
	rd.dict.Ingest(batch)

	row := &Row{Kind: kind, NewStrings: batch}
	switch kind {
	case RowPrefix:
		nameIdx, err := fr.readI32()
		if err != nil {
			return nil, err
		}
		iriIdx, err := fr.readI32()
		if err != nil {
			return nil, err
		}
		if row.PrefixName, err = rd.dict.Lookup(nameIdx); err != nil {
			return nil, err
		}
		if row.PrefixIRI, err = rd.dict.Lookup(iriIdx); err != nil {
			return nil, err
		}

	case RowBase:
		iriIdx, err := fr.readI32()
		if err != nil {
			return nil, err
		}
		if row.BaseIRI, err = rd.dict.Lookup(iriIdx); err != nil {
			return nil, err
		}

	case RowTriple:
		s, p, o, err := rd.readSPO(fr)
		if err != nil {
			return nil, err
		}
		row.Triple = rdf.New(s, p, o)

	case RowQuad:
		g, err := fr.readTerm()
		if err != nil {
			return nil, err
		}
		gn, err := rd.nodeFor(g)
		if err != nil {
			return nil, err
		}
		s, p, o, err := rd.readSPO(fr)
		if err != nil {
			return nil, err
		}
		row.Quad = rdf.NewQuad(gn, s, p, o)

	case RowVarTuple:
		row.Vars, err = rd.readNodeSeq(fr)
		if err != nil {
			return nil, err
		}

	case RowDataTuple:
		row.DataRow, err = rd.readNodeSeq(fr)
		if err != nil {
			return nil, err
		}

	case RowStringDictBatch:
		// payload is nothing but the batch already ingested above.

	default:
		return nil, malformedf("unknown row kind tag %d", kind)
	}
	return row, nil
}

func (rd *Reader) readSPO(fr *fieldReader) (s, p, o rdf.Node, err error) {
	ts, err := fr.readTerm()
	if err != nil {
		return
	}
	tp, err := fr.readTerm()
	if err != nil {
		return
	}
	to, err := fr.readTerm()
	if err != nil {
		return
	}
	if s, err = rd.nodeFor(ts); err != nil {
		return
	}
	if p, err = rd.nodeFor(tp); err != nil {
		return
	}
	o, err = rd.nodeFor(to)
	return
}

func (rd *Reader) readNodeSeq(fr *fieldReader) ([]rdf.Node, error) {
	n, err := fr.readI32()
	if err != nil {
		return nil, err
	}
	if n < 0 {
		return nil, malformedf("negative term sequence count %d", n)
	}
	out := make([]rdf.Node, n)
	for i := range out {
		t, err := fr.readTerm()
		if err != nil {
			return nil, err
		}
		if out[i], err = rd.nodeFor(t); err != nil {
			return nil, err
		}
	}
	return out, nil
}

// nodeFor resolves a wireTerm back to an rdf.Node, looking up any
// dictionary indices it carries. TermUndefined decodes to rdf.Any,
// meaning "unbound" in a DataTuple row and "wildcard" anywhere else a
// reader's pattern logic chooses to treat it that way.
func (rd *Reader) nodeFor(t wireTerm) (rdf.Node, error) {
	switch t.kind {
	case TermIRI:
		s, err := rd.dict.Lookup(t.primaryIndex)
		if err != nil {
			return rdf.Node{}, err
		}
		return rdf.NewIRI(s), nil
	case TermBlank:
		s, err := rd.dict.Lookup(t.primaryIndex)
		if err != nil {
			return rdf.Node{}, err
		}
		return rdf.NewBlank(s), nil
	case TermVariable:
		s, err := rd.dict.Lookup(t.primaryIndex)
		if err != nil {
			return rdf.Node{}, err
		}
		return rdf.NewVariable(s), nil
	case TermLiteral:
		lex, err := rd.dict.Lookup(t.primaryIndex)
		if err != nil {
			return rdf.Node{}, err
		}
		if t.langIndex != noIndex {
			lang, err := rd.dict.Lookup(t.langIndex)
			if err != nil {
				return rdf.Node{}, err
			}
			return rdf.NewLangLiteral(lex, lang), nil
		}
		if t.datatypeIndex != noIndex {
			dt, err := rd.dict.Lookup(t.datatypeIndex)
			if err != nil {
				return rdf.Node{}, err
			}
			return rdf.NewTypedLiteral(lex, dt), nil
		}
		return rdf.NewLiteral(lex), nil
	case TermUndefined:
		return rdf.Any, nil
	default:
		return rdf.Node{}, malformedf("unknown term kind tag %d", t.kind)
	}
}
