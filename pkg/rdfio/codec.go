package rdfio

import (
	"errors"
	"io"

	"github.com/graphcore/triplestore/pkg/codec"
)

// LoadCodecStream drains every row from r, feeding it through a single
// start/finish window of a Builder. It is the glue between pkg/codec's
// pull-style Reader and the push-style Builder contract: each decoded
// prefix, base, triple or quad row becomes exactly one Builder event;
// VarTuple, DataTuple and standalone StringDictBatch rows produce none.
func LoadCodecStream(r *codec.Reader, b *Builder) error {
	b.Start()
	for {
		row, err := r.ReadRow()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return err
		}
		switch row.Kind {
		case codec.RowPrefix:
			if err := b.Prefix(row.PrefixName, row.PrefixIRI); err != nil {
				return err
			}
		case codec.RowBase:
			if err := b.Base(row.BaseIRI); err != nil {
				return err
			}
		case codec.RowTriple:
			if err := b.Triple(row.Triple); err != nil {
				return err
			}
		case codec.RowQuad:
			if err := b.Quad(row.Quad); err != nil {
				return err
			}
		case codec.RowVarTuple, codec.RowDataTuple, codec.RowStringDictBatch:
			// result-set framing and standalone dictionary batches carry
			// no graph data; the Reader already applied them internally.
		}
	}
	return b.Finish()
}
