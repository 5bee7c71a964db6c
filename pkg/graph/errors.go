package graph

// PreconditionError reports that an operation's precondition was not met
// (e.g. a pattern query against a RoaringStore in Manual index mode
// before RebuildIndex has ever run). Graph-interface methods panic with
// this value rather than returning it; callers that want it as an
// ordinary error should use the Try-prefixed methods on the concrete
// store type instead.
type PreconditionError struct {
	Msg string
}

func (e *PreconditionError) Error() string { return "precondition violation: " + e.Msg }

// ErrIndexNotBuilt is returned by the Try-prefixed RoaringStore methods,
// and panicked by their Graph-interface counterparts, when a pattern
// query needs the bitmap index and the store is in Manual mode with no
// index built yet.
var ErrIndexNotBuilt = &PreconditionError{Msg: "roaring index not built (call RebuildIndex or construct the store with Automatic index mode)"}

// ConcurrentModificationError is panicked out of a Stream/Find sequence
// when the underlying indexed triple set's generation counter changes
// mid-iteration, i.e. the store was mutated while a bitmap-backed
// iterator was still being drained.
type ConcurrentModificationError struct{}

func (e *ConcurrentModificationError) Error() string {
	return "graph mutated during iteration over a roaring bitmap pattern match"
}
