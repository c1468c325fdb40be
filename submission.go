package pool

import "context"

// Submission is the per-call state of spec.md §3/§4.4: a bound callable, its
// own ResultQueue, and the ordering merger that reassembles results into
// input order. A Submission is created and driven internally by RunOn; it is
// not constructed directly by callers.
type Submission[I, O any] struct {
	pool    *Pool[I, O]
	bound   boundCall[I, O]
	results *unboundedQueue[Result[O]]
	merger  *orderingMerger[O]

	nextIndex uint64
	received  uint64
}

func newSubmission[I, O any](p *Pool[I, O], bound boundCall[I, O], cfg runConfig) *Submission[I, O] {
	s := &Submission[I, O]{pool: p, bound: bound}
	if !cfg.noWait {
		s.results = newUnboundedQueue[Result[O]]()
		s.merger = newOrderingMerger[O](cfg.noSort)
	}
	return s
}

// submit enqueues one input value, assigning it the next dense, strictly
// increasing index for this Submission (spec.md §3 invariant 1), and
// triggers the admission policy exactly as spec.md §4.4 step 1 requires.
func (s *Submission[I, O]) submit(value I) {
	idx := s.nextIndex
	s.nextIndex++
	s.pool.admitWorkerIfNeeded()
	s.pool.input.Push(item[I, O]{index: idx, value: value, call: s.bound, sink: s.results})
}

// drainReady performs the non-blocking drain of §4.4 step 3, merging and
// emitting whatever results are already available.
func (s *Submission[I, O]) drainReady(emit func(Result[O])) {
	for {
		res, ok := s.results.TryPop()
		if !ok {
			return
		}
		s.received++
		for _, ready := range s.merger.onResult(res) {
			emit(ready)
		}
	}
}

// finish is spec.md §4.4's end-of-input phase: block-consume the
// ResultQueue until every submitted item has produced a Result, emitting
// through the merger as they arrive. Per spec.md §4.6, callers must not
// close the Pool while a Submission is still mid-flight — finish assumes no
// item is silently lost between submission and this call.
func (s *Submission[I, O]) finish(emit func(Result[O])) {
	for s.received < s.nextIndex {
		res, ok := s.results.Pop()
		if !ok {
			return
		}
		s.received++
		for _, ready := range s.merger.onResult(res) {
			emit(ready)
		}
	}
}

// run drives the full submit/finish lifecycle for one RunOn call.
func (s *Submission[I, O]) run(ctx context.Context, inputs <-chan I, values, errs chan<- Result[O]) {
	defer close(values)
	defer close(errs)

	emit := func(r Result[O]) {
		if r.HasValue {
			values <- r
		}
		if r.Err != nil {
			errs <- r
		}
	}

	for {
		select {
		case <-ctx.Done():
			// Caller-side interruption (spec.md §4.6): stop submitting, never
			// touch the Pool's InputQueue, and drop our ResultQueue reference.
			// Workers still holding items whose sink was s.results simply have
			// their Push calls become no-ops once it is closed here.
			s.results.Close()
			return
		case v, ok := <-inputs:
			if !ok {
				s.finish(emit)
				return
			}
			s.submit(v)
			s.drainReady(emit)
		}
	}
}

// RunOn submits every value from inputs to fn, executed across pool's
// workers, and returns two channels: values carries present results in the
// order requested (input order by default, completion order with NoSort),
// and errs carries any per-item failures tagged with their input index. A
// result may appear on both, neither, or only one of the two channels, per
// spec.md §4.5's emission rule.
//
// NoWait turns RunOn into fire-and-forget: both returned channels are
// immediately closed and empty, and results/errors from the bound callable
// are not delivered anywhere.
func RunOn[I, O any](ctx context.Context, p *Pool[I, O], fn Func[I, O], inputs <-chan I, opts ...RunOption) (values <-chan Result[O], errs <-chan Result[O]) {
	var cfg runConfig
	for _, opt := range opts {
		opt(&cfg)
	}

	bound, err := BindFunc(fn, cfg.args)
	if err != nil {
		vch, ech := make(chan Result[O]), make(chan Result[O], 1)
		close(vch)
		ech <- Result[O]{Err: err}
		close(ech)
		return vch, ech
	}

	if p.isClosed() {
		vch, ech := make(chan Result[O]), make(chan Result[O], 1)
		close(vch)
		ech <- Result[O]{Err: shutdownError("RunOn")}
		close(ech)
		return vch, ech
	}

	s := newSubmission(p, bound, cfg)

	if cfg.noWait {
		go func() {
			for {
				select {
				case <-ctx.Done():
					return
				case v, ok := <-inputs:
					if !ok {
						return
					}
					s.submit(v)
				}
			}
		}()
		return closedResultChans[O]()
	}

	vch := make(chan Result[O])
	ech := make(chan Result[O])
	go s.run(ctx, inputs, vch, ech)
	return vch, ech
}
