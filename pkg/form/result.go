package form

// ResultKind tags the shape of a save result.
type ResultKind int

const (
	// ResultNone marks the zero Result; the form produced no records.
	ResultNone ResultKind = iota
	// ResultSingle marks a result carrying exactly one record.
	ResultSingle
	// ResultCollection marks a result carrying zero or more records from a
	// collection-backed form.
	ResultCollection
)

// Result is the tagged variant returned by Form.Save: either a single record
// or a collection of records. The explicit tag replaces duck typing between
// single forms and form collections.
type Result struct {
	kind       ResultKind
	single     Record
	collection []Record
}

// Single wraps one record as a save result.
func Single(record Record) Result {
	return Result{kind: ResultSingle, single: record}
}

// Collection wraps a sequence of records as a save result.
func Collection(records ...Record) Result {
	return Result{kind: ResultCollection, collection: records}
}

// Kind returns the variant tag.
func (r Result) Kind() ResultKind {
	return r.kind
}

// Single returns the wrapped record when the result is a single variant.
func (r Result) Single() (Record, bool) {
	if r.kind != ResultSingle {
		return nil, false
	}
	return r.single, true
}

// Records returns every record in the result regardless of variant. A single
// result yields a one-element slice.
func (r Result) Records() []Record {
	switch r.kind {
	case ResultSingle:
		return []Record{r.single}
	case ResultCollection:
		return append([]Record(nil), r.collection...)
	default:
		return nil
	}
}

// IsZero reports whether the result carries no variant at all.
func (r Result) IsZero() bool {
	return r.kind == ResultNone
}
