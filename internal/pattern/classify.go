// Package pattern classifies a triple pattern (subject, predicate, object,
// any of which may be the rdf.Any wildcard) into one of the eight SPARQL
// access-pattern tags, and is the dispatch key every store operation
// switches on (C7 in the design).
package pattern

import (
	"fmt"

	"github.com/graphcore/triplestore/pkg/rdf"
)

// Tag names one of the eight access patterns over (subject, predicate,
// object), depending on which positions are concrete (non-wildcard).
type Tag uint8

const (
	SubPreObj Tag = iota // S P O
	SubPreAny            // S P ?
	SubAnyObj            // S ? O
	SubAnyAny            // S ? ?
	AnyPreObj            // ? P O
	AnyPreAny            // ? P ?
	AnyAnyObj            // ? ? O
	AnyAnyAny            // ? ? ?
)

func (t Tag) String() string {
	switch t {
	case SubPreObj:
		return "SUB_PRE_OBJ"
	case SubPreAny:
		return "SUB_PRE_ANY"
	case SubAnyObj:
		return "SUB_ANY_OBJ"
	case SubAnyAny:
		return "SUB_ANY_ANY"
	case AnyPreObj:
		return "ANY_PRE_OBJ"
	case AnyPreAny:
		return "ANY_PRE_ANY"
	case AnyAnyObj:
		return "ANY_ANY_OBJ"
	case AnyAnyAny:
		return "ANY_ANY_ANY"
	default:
		return "INVALID"
	}
}

// ErrInvalidPattern is returned when a position holds a Node that is
// neither concrete nor the Any wildcard (e.g. a Variable) — a programming
// error, since graph patterns are not SPARQL query patterns.
type ErrInvalidPattern struct {
	Position string
	Kind     rdf.Kind
}

func (e *ErrInvalidPattern) Error() string {
	return fmt.Sprintf("pattern: %s position holds non-pattern kind %s (only concrete terms and Any are valid)", e.Position, e.Kind)
}

// Classify maps (s, p, o) to its access-pattern tag.
func Classify(s, p, o rdf.Node) (Tag, error) {
	cs, err := concrete(s, "subject")
	if err != nil {
		return 0, err
	}
	cp, err := concrete(p, "predicate")
	if err != nil {
		return 0, err
	}
	co, err := concrete(o, "object")
	if err != nil {
		return 0, err
	}

	switch {
	case cs && cp && co:
		return SubPreObj, nil
	case cs && cp && !co:
		return SubPreAny, nil
	case cs && !cp && co:
		return SubAnyObj, nil
	case cs && !cp && !co:
		return SubAnyAny, nil
	case !cs && cp && co:
		return AnyPreObj, nil
	case !cs && cp && !co:
		return AnyPreAny, nil
	case !cs && !cp && co:
		return AnyAnyObj, nil
	default:
		return AnyAnyAny, nil
	}
}

func concrete(n rdf.Node, position string) (bool, error) {
	switch n.Kind() {
	case rdf.KindAny:
		return false, nil
	case rdf.KindIRI, rdf.KindBlank, rdf.KindLiteral:
		return true, nil
	default:
		return false, &ErrInvalidPattern{Position: position, Kind: n.Kind()}
	}
}
