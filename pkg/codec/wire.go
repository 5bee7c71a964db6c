package codec

import "github.com/graphcore/triplestore/pkg/rdf"

// RowKind tags the StreamRow union.
type RowKind uint8

const (
	RowPrefix RowKind = iota
	RowBase
	RowTriple
	RowQuad
	RowStringDictBatch
	// RowVarTuple and RowDataTuple frame the result-set header and
	// per-row bindings (spec.md §4.5's VarTuple/DataTuple) using the
	// same [kind][length][payload] mechanism as the five StreamRow
	// variants, rather than inventing a second framing scheme for them.
	RowVarTuple
	RowDataTuple
)

func (k RowKind) String() string {
	switch k {
	case RowPrefix:
		return "Prefix"
	case RowBase:
		return "Base"
	case RowTriple:
		return "Triple"
	case RowQuad:
		return "Quad"
	case RowStringDictBatch:
		return "StringDictBatch"
	case RowVarTuple:
		return "VarTuple"
	case RowDataTuple:
		return "DataTuple"
	default:
		return "Invalid"
	}
}

// Row is a decoded StreamRow: exactly the fields relevant to Kind are
// meaningful.
type Row struct {
	Kind RowKind

	PrefixName string
	PrefixIRI  string

	BaseIRI string

	Triple rdf.Triple
	Quad   rdf.Quad

	// Vars and DataRow are populated for RowVarTuple and RowDataTuple
	// respectively. An rdf.Any entry in DataRow means "unbound".
	Vars    []rdf.Node
	DataRow []rdf.Node

	// NewStrings holds any dictionary entries the embedded
	// StringDictBatch contributed while decoding this row; callers
	// reading from a Reader don't normally need it (the Reader already
	// ingested them), but it is surfaced for a standalone
	// RowStringDictBatch row.
	NewStrings []string
}

// TermKind tags the wire encoding of one positional term.
type TermKind uint8

const (
	TermIRI TermKind = iota
	TermBlank
	TermLiteral
	TermVariable
	TermUndefined
)

// wireTerm is the wire encoding of one positional node: dictionary
// indices rather than inline strings. Optional indices use noIndex for
// absent. primaryIndex holds whichever single index every non-Any,
// non-Undefined kind requires: the IRI string, the blank label, the
// literal's lexical form, or the variable name.
type wireTerm struct {
	kind          TermKind
	primaryIndex  int32
	langIndex     int32
	datatypeIndex int32
}

const noIndex int32 = -1
