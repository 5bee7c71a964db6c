package rdf

import "fmt"

// Invariant is the panic value raised when an internal consistency
// invariant is violated (e.g. a classic store's mirror maps disagree, or
// a bunch transitions into an invalid state). Per spec.md §7 this kind of
// error is not recoverable in the normal sense: it signals a defect in
// this layer, not a caller mistake, and the default is to crash. Callers
// that want to recover and inspect it may `recover()` and type-assert to
// *Invariant.
type Invariant struct {
	Msg string
}

func (e *Invariant) Error() string { return "invariant violation: " + e.Msg }

// PanicInvariant panics with an *Invariant built from the given message.
func PanicInvariant(format string, args ...interface{}) {
	panic(&Invariant{Msg: fmt.Sprintf(format, args...)})
}
