package pool

// Maybe is an optional value: Present=false is spec.md §3's `value=none`,
// the "the callable intentionally produced nothing" marker, distinguished
// from Present=true carrying the zero value of O.
type Maybe[O any] struct {
	Value   O
	Present bool
}

// Some wraps v as a present value.
func Some[O any](v O) Maybe[O] { return Maybe[O]{Value: v, Present: true} }

// None returns the suppressed-value marker for O.
func None[O any]() Maybe[O] { return Maybe[O]{} }

// Result is the outcome of processing a single input item, spec.md §3.
//
// HasValue distinguishes "the callable produced nothing" (HasValue=false,
// suppressed from the value stream) from "the callable produced the zero
// value of O" (HasValue=true, Value is the actual zero value). Err may be
// set independently of HasValue: a result can carry both a suppressed value
// and an error, per spec.md §4.5's emission rule.
type Result[O any] struct {
	Index    uint64
	Value    O
	HasValue bool
	Err      error
}
