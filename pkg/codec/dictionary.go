// Package codec implements the length-delimited binary streaming format
// (C8): tagged StreamRows, SPARQL result-row tuples, and the per-stream
// string dictionary that interns repeated IRIs and lexical forms.
package codec

// DictResult is the explicit sum-type replacement for the source's
// add_and_get_index "~idx" sign-bit convention (spec.md §9, "preserve
// the semantic contract, not the bit-twiddling"): it carries both the
// index and whether the string was newly inserted.
type DictResult struct {
	Index int32
	New   bool
}

// StringDictionaryWriter is an ordered, append-only set of strings with
// a reverse lookup, owned by exactly one stream's Writer. GetIndex
// queues new strings for the next Flush rather than emitting them
// immediately, so a Writer can batch every string a row needs into one
// embedded StringDictBatch field.
type StringDictionaryWriter struct {
	strings []string
	index   map[string]int32
	flushed int
}

// NewStringDictionaryWriter returns an empty dictionary.
func NewStringDictionaryWriter() *StringDictionaryWriter {
	return &StringDictionaryWriter{index: make(map[string]int32)}
}

// GetIndex returns s's index, inserting it (and queuing it for the next
// Flush) if not already present.
func (w *StringDictionaryWriter) GetIndex(s string) DictResult {
	if idx, ok := w.index[s]; ok {
		return DictResult{Index: idx, New: false}
	}
	idx := int32(len(w.strings))
	w.strings = append(w.strings, s)
	w.index[s] = idx
	return DictResult{Index: idx, New: true}
}

// Pending reports whether any string is queued for the next Flush.
func (w *StringDictionaryWriter) Pending() bool { return w.flushed < len(w.strings) }

// Flush returns every string added since the last Flush (in insertion
// order) and advances the flush pointer. It is a PreconditionViolation
// to call Flush with nothing queued.
func (w *StringDictionaryWriter) Flush() ([]string, error) {
	if !w.Pending() {
		return nil, ErrNothingToFlush
	}
	batch := append([]string(nil), w.strings[w.flushed:]...)
	w.flushed = len(w.strings)
	return batch, nil
}

// StringDictionaryReader mirrors a StringDictionaryWriter on the
// decoding side: its index space grows strictly append-only as it
// ingests batches.
type StringDictionaryReader struct {
	strings []string
}

// NewStringDictionaryReader returns an empty dictionary.
func NewStringDictionaryReader() *StringDictionaryReader {
	return &StringDictionaryReader{}
}

// Ingest appends batch to the dictionary, in order.
func (r *StringDictionaryReader) Ingest(batch []string) {
	r.strings = append(r.strings, batch...)
}

// Len returns the number of strings known to the reader.
func (r *StringDictionaryReader) Len() int { return len(r.strings) }

// Lookup returns the string at idx, or a *MalformedInputError if idx is
// out of range.
func (r *StringDictionaryReader) Lookup(idx int32) (string, error) {
	if idx < 0 || int(idx) >= len(r.strings) {
		return "", malformedf("dictionary index %d out of range (have %d entries)", idx, len(r.strings))
	}
	return r.strings[idx], nil
}
