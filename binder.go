package pool

import "context"

// Args is the finite string-to-value mapping spec.md §3 calls ArgMap. A nil
// or empty Args means "invoke with the pipeline item only."
type Args map[string]any

// Func is the bound callable: `f: Item -> Value | Error` from spec.md §1,
// rendered as a typed Go closure per the Design Notes resolution — there is
// no runtime name resolution or scope injection in this module, only a value
// the caller already has in hand.
type Func[I, O any] func(ctx context.Context, item I, args Args) (Maybe[O], error)

// InitFunc is the Pool's initialization closure (spec.md §4.1), run once per
// worker before it starts consuming items.
type InitFunc[I, O any] func(ctx context.Context, args Args) error

// boundCall is the CallableRef of spec.md §3: a callable bound once per
// Submission together with its extra arguments, reused for every Item of
// that Submission. Go closures already capture their defining scope, so
// binding here is just pairing the function value with its fixed Args — no
// per-worker reinstallation step is needed, unlike the reflective source
// this spec was distilled from.
type boundCall[I, O any] struct {
	fn   Func[I, O]
	args Args
}

// BindFunc resolves fn into a boundCall usable inside every worker. It fails
// with a BindingError only when fn itself is nil — the one case in a
// statically typed host where "the named function cannot be resolved" has a
// direct analogue.
func BindFunc[I, O any](fn Func[I, O], args Args) (boundCall[I, O], error) {
	if fn == nil {
		return boundCall[I, O]{}, bindingError("work")
	}
	return boundCall[I, O]{fn: fn, args: args}, nil
}

func (b boundCall[I, O]) invoke(ctx context.Context, item I) (Maybe[O], error) {
	return b.fn(ctx, item, b.args)
}

// boundInit is the worker-local installation of the Pool's InitFunc under
// the "initialize" symbol described in spec.md §4.1. Unlike BindFunc, a nil
// InitFunc is not an error — it is the documented default of a no-op init.
type boundInit[I, O any] struct {
	fn   InitFunc[I, O]
	args Args
}

// BindInit resolves an optional init closure, defaulting to a no-op.
func BindInit[I, O any](fn InitFunc[I, O], args Args) boundInit[I, O] {
	if fn == nil {
		fn = func(context.Context, Args) error { return nil }
	}
	return boundInit[I, O]{fn: fn, args: args}
}

func (b boundInit[I, O]) run(ctx context.Context) error {
	return b.fn(ctx, b.args)
}
