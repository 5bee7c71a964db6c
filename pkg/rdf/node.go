// Package rdf defines the canonical representation of RDF terms: IRIs,
// blank nodes, literals, variables and the wildcard used in graph patterns.
package rdf

import (
	"math"
	"strconv"
	"strings"

	"github.com/zeebo/xxh3"
)

// Kind identifies which variant of Node a value holds.
type Kind uint8

const (
	// KindIRI is a named node (an absolute IRI).
	KindIRI Kind = iota
	// KindBlank is a blank node, scoped to the store/stream that produced it.
	KindBlank
	// KindLiteral is a literal value: a lexical form plus an optional
	// language tag or datatype IRI.
	KindLiteral
	// KindVariable names a SPARQL-style result variable. It never appears
	// in a graph pattern passed to a store; it is used by the codec's
	// result-row terms.
	KindVariable
	// KindAny is the wildcard used in triple patterns.
	KindAny
)

func (k Kind) String() string {
	switch k {
	case KindIRI:
		return "IRI"
	case KindBlank:
		return "Blank"
	case KindLiteral:
		return "Literal"
	case KindVariable:
		return "Variable"
	case KindAny:
		return "Any"
	default:
		return "Invalid"
	}
}

// Well-known XSD/RDF datatype IRIs.
const (
	XSDString   = "http://www.w3.org/2001/XMLSchema#string"
	XSDInteger  = "http://www.w3.org/2001/XMLSchema#integer"
	XSDDecimal  = "http://www.w3.org/2001/XMLSchema#decimal"
	XSDDouble   = "http://www.w3.org/2001/XMLSchema#double"
	XSDFloat    = "http://www.w3.org/2001/XMLSchema#float"
	XSDBoolean  = "http://www.w3.org/2001/XMLSchema#boolean"
	RDFLangString = "http://www.w3.org/1999/02/22-rdf-syntax-ns#langString"
)

// Any is the singleton wildcard node used in triple patterns.
var Any = Node{kind: KindAny}

// Node is an immutable RDF term. The zero Node is not valid; construct
// values with NewIRI, NewBlank, NewLiteral and friends.
type Node struct {
	kind     Kind
	value    string // IRI string, blank label, variable name, or literal lexical form
	lang     string // literal language tag, only set for KindLiteral
	datatype string // literal datatype IRI, only set for KindLiteral (empty means implicit xsd:string, or rdf:langString if lang is set)
}

// NewIRI returns a named node for the given absolute IRI.
func NewIRI(iri string) Node {
	return Node{kind: KindIRI, value: iri}
}

// NewBlank returns a blank node with the given label.
func NewBlank(label string) Node {
	return Node{kind: KindBlank, value: label}
}

// NewVariable returns a query variable with the given name (without the
// leading '?' or '$').
func NewVariable(name string) Node {
	return Node{kind: KindVariable, value: name}
}

// NewLiteral returns a plain string literal (datatype xsd:string).
func NewLiteral(lex string) Node {
	return Node{kind: KindLiteral, value: lex, datatype: XSDString}
}

// NewLangLiteral returns a language-tagged string literal.
func NewLangLiteral(lex, lang string) Node {
	return Node{kind: KindLiteral, value: lex, lang: lang, datatype: RDFLangString}
}

// NewTypedLiteral returns a literal with an explicit datatype IRI.
func NewTypedLiteral(lex, datatypeIRI string) Node {
	return Node{kind: KindLiteral, value: lex, datatype: datatypeIRI}
}

// Kind reports which variant of Node this is.
func (n Node) Kind() Kind { return n.kind }

// IsWildcard reports whether n is the Any pattern wildcard.
func (n Node) IsWildcard() bool { return n.kind == KindAny }

// Value returns the node's lexical payload: the IRI, the blank label, the
// variable name, or a literal's lexical form.
func (n Node) Value() string { return n.value }

// Lang returns a literal's language tag, or "" if unset.
func (n Node) Lang() string { return n.lang }

// Datatype returns a literal's datatype IRI, or "" for non-literals.
func (n Node) Datatype() string { return n.datatype }

// String renders n in a Turtle/N-Triples-like surface syntax.
func (n Node) String() string {
	switch n.kind {
	case KindIRI:
		return "<" + n.value + ">"
	case KindBlank:
		return "_:" + n.value
	case KindVariable:
		return "?" + n.value
	case KindAny:
		return "*"
	case KindLiteral:
		var b strings.Builder
		b.WriteByte('"')
		b.WriteString(n.value)
		b.WriteByte('"')
		switch {
		case n.lang != "":
			b.WriteByte('@')
			b.WriteString(n.lang)
		case n.datatype != "" && n.datatype != XSDString:
			b.WriteString("^^<")
			b.WriteString(n.datatype)
			b.WriteByte('>')
		}
		return b.String()
	default:
		return "<invalid node>"
	}
}

// Equals reports term equality: same Kind and identical fields. Two
// literals with different lexical spellings of the same numeric value are
// NOT Equals (they are distinct triples when stored); see Matches.
func (n Node) Equals(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	switch n.kind {
	case KindAny:
		return true
	case KindLiteral:
		return n.value == other.value && n.lang == other.lang && n.datatype == other.datatype
	default:
		return n.value == other.value
	}
}

// isNumericDatatype reports whether dt is one of the XSD numeric types
// whose lexical forms are canonicalised for value-equality purposes.
func isNumericDatatype(dt string) bool {
	switch dt {
	case XSDInteger, XSDDecimal, XSDDouble, XSDFloat:
		return true
	default:
		return false
	}
}

// canonicalNumeric parses a numeric literal's lexical form into a
// canonical float64 bit pattern. Malformed lexical forms fall back to the
// raw string so they compare equal only to themselves.
func canonicalNumeric(lex string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(lex), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// IndexKey is the hashable, comparable grouping key used by node→value
// maps (C4): value-equal nodes share an IndexKey, distinct nodes that
// are merely value-equal still remain distinct map entries within the
// bucket keyed by it (see internal/nodemap).
type IndexKey struct {
	kind     Kind
	str      string
	datatype string
}

// IndexingValue returns n's grouping key: for numeric literals, the
// canonicalised numeric value (so "0.1"^^xsd:double and "0.10"^^xsd:double
// produce the same key); for every other node, the term itself.
func (n Node) IndexingValue() IndexKey {
	if n.kind == KindLiteral && isNumericDatatype(n.datatype) {
		if f, ok := canonicalNumeric(n.value); ok {
			return IndexKey{kind: n.kind, str: strconv.FormatFloat(f, 'g', -1, 64), datatype: n.datatype}
		}
	}
	if n.kind == KindLiteral {
		return IndexKey{kind: n.kind, str: n.value, datatype: n.datatype + "\x00" + n.lang}
	}
	return IndexKey{kind: n.kind, str: n.value}
}

// Hash returns a 64-bit hash of n's indexing value, used throughout the
// indexed hash set (C3) and node→bunch/bitmap maps (C4).
func (n Node) Hash() uint64 {
	k := n.IndexingValue()
	var b strings.Builder
	b.WriteByte(byte(k.kind))
	b.WriteString(k.str)
	b.WriteByte(0)
	b.WriteString(k.datatype)
	return xxh3.HashString(b.String())
}

// ValueEquals reports value equality: for literals, matching datatype and
// canonicalised lexical form (numeric literals compare by parsed value);
// for every other kind it is identical to Equals.
func (n Node) ValueEquals(other Node) bool {
	if n.kind != other.kind {
		return false
	}
	if n.kind != KindLiteral {
		return n.Equals(other)
	}
	if n.datatype != other.datatype || n.lang != other.lang {
		return false
	}
	if isNumericDatatype(n.datatype) {
		af, aok := canonicalNumeric(n.value)
		bf, bok := canonicalNumeric(other.value)
		if aok && bok {
			return af == bf || (math.IsNaN(af) && math.IsNaN(bf))
		}
	}
	return n.value == other.value
}

// Matches is the comparison used by every pattern-matching code path
// (contains/find/stream and bunch AnyMatch predicates): value-equality,
// so a query literal finds a stored triple regardless of lexical
// spelling differences for the same numeric value. It is deliberately
// distinct from Equals (spec.md's "identity-vs-value equality" design
// note): Equals governs storage identity/deduplication, Matches governs
// query semantics.
func (n Node) Matches(other Node) bool {
	return n.ValueEquals(other)
}

// MayNeedValueFallback reports whether an exact term-equality lookup for
// n could miss a value-equal stored node. Only literals can have more
// than one lexical spelling of the same value, so only literals need a
// fallback scan when a fast exact-index lookup misses.
func (n Node) MayNeedValueFallback() bool {
	return n.kind == KindLiteral
}
