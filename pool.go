package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/nkozyra/callpool/metrics"
)

// item is the InputQueue element of spec.md §3: an input value paired with
// the bound callable that should run it and the sink its Result belongs to.
// sink is nil for a fire-and-forget (NoWait) Submission.
type item[I, O any] struct {
	index uint64
	value I
	call  boundCall[I, O]
	sink  *unboundedQueue[Result[O]]
}

// Pool owns the input queue, the worker set, and the initialization closure
// shared by every worker (spec.md §3). Workers are admitted lazily; NewPool
// starts none. A Pool outlives any number of Submissions created against it
// via RunOn and must be closed with Close; later calls to Close are no-ops.
type Pool[I, O any] struct {
	maxWorkers int
	input      *unboundedQueue[item[I, O]]
	status     *statusTable
	initFn     boundInit[I, O]
	metrics    *metrics.Value
	log        zerolog.Logger

	admitMu      sync.Mutex
	workers      map[int]struct{}
	nextWorkerID int
	eg           *errgroup.Group

	closed atomic.Bool
	once   sync.Once
}

// PoolOption configures a Pool at construction time.
type PoolOption[I, O any] func(*Pool[I, O])

// WithInit sets the closure run once inside every worker before it starts
// consuming items, together with the fixed arguments passed to it.
func WithInit[I, O any](fn InitFunc[I, O], args Args) PoolOption[I, O] {
	return func(p *Pool[I, O]) {
		p.initFn = BindInit(fn, args)
	}
}

// WithLogger sets the logger used for pool-level diagnostics such as
// InitializationError. The default is zerolog.Nop(): silent unless a caller
// opts in, per spec.md §7's "reported via a pool-level diagnostic channel
// (optional)".
func WithLogger[I, O any](log zerolog.Logger) PoolOption[I, O] {
	return func(p *Pool[I, O]) {
		p.log = log
	}
}

// WithMetrics attaches an externally owned metrics.Value, letting callers
// share one sink across multiple pools or wire it into a Prometheus
// registry via metrics.NewCollector.
func WithMetrics[I, O any](v *metrics.Value) PoolOption[I, O] {
	return func(p *Pool[I, O]) {
		p.metrics = v
	}
}

// NewPool creates a Pool with a cap of workers goroutines. workers<1 is
// normalized to 1, per spec.md §8's boundary behavior. No workers are
// started until the first item is submitted through RunOn.
func NewPool[I, O any](workers int, opts ...PoolOption[I, O]) (*Pool[I, O], error) {
	if workers < 1 {
		workers = 1
	}
	p := &Pool[I, O]{
		maxWorkers: workers,
		input:      newUnboundedQueue[item[I, O]](),
		status:     newStatusTable(),
		initFn:     BindInit[I, O](nil, nil),
		metrics:    metrics.New(),
		log:        zerolog.Nop(),
		workers:    make(map[int]struct{}),
	}
	for _, opt := range opts {
		opt(p)
	}
	p.eg = &errgroup.Group{}
	return p, nil
}

// Metrics returns the pool's metrics sink.
func (p *Pool[I, O]) Metrics() *metrics.Value {
	return p.metrics
}

// admitWorkerIfNeeded implements spec.md §4.2's elastic admission rule:
// admit one worker iff the pool is under cap AND no live worker is
// currently Waiting. The first check is optimistic (no lock); the actual
// spawn is gated by re-testing both conditions under admitMu so a benign
// race never admits a worker over cap.
func (p *Pool[I, O]) admitWorkerIfNeeded() {
	if p.status.len() >= p.maxWorkers || p.status.anyWaiting() {
		return
	}

	p.admitMu.Lock()
	defer p.admitMu.Unlock()

	if len(p.workers) >= p.maxWorkers || p.status.anyWaiting() {
		return
	}

	id := p.nextWorkerID
	p.nextWorkerID++
	p.workers[id] = struct{}{}
	p.status.set(id, stateWaiting)

	p.eg.Go(func() error {
		return p.runWorker(id)
	})
}

// retireWorker removes id from the live worker set so admitWorkerIfNeeded's
// cap check reflects currently running workers, not every worker ever
// admitted. Without this, a worker that exits early (e.g. a faulting
// initFn) would permanently occupy a slot under maxWorkers even though
// nothing is left running to process items.
func (p *Pool[I, O]) retireWorker(id int) {
	p.admitMu.Lock()
	delete(p.workers, id)
	p.admitMu.Unlock()
	p.status.remove(id)
}

// runWorker is the Worker loop of spec.md §4.3.
func (p *Pool[I, O]) runWorker(id int) error {
	defer p.retireWorker(id)

	endInit := p.metrics.StartTimer(metrics.TimerInit)
	err := p.initFn.run(context.Background())
	endInit()
	if err != nil {
		wrapped := initializationError(id, err)
		p.log.Error().Err(wrapped).Msg("worker initialization failed")
		return wrapped
	}

	endWait := p.metrics.StartTimer(metrics.TimerWait)
	for {
		it, ok := p.input.Pop()
		endWait()
		if !ok {
			return nil
		}

		p.status.set(id, stateProcessing)
		endProc := p.metrics.StartTimer(metrics.TimerProc)
		result, callErr := it.call.invoke(metrics.WithWorkerID(context.Background(), id), it.value)
		endProc()

		if callErr != nil {
			p.metrics.IncErrors()
			callErr = itemError(it.index, callErr)
		} else {
			p.metrics.IncProcessed()
		}

		if it.sink != nil {
			it.sink.Push(Result[O]{
				Index:    it.index,
				Value:    result.Value,
				HasValue: result.Present,
				Err:      callErr,
			})
		}

		p.status.set(id, stateWaiting)
		endWait = p.metrics.StartTimer(metrics.TimerWait)
	}
}

// Close marks the InputQueue closed, then waits for every admitted worker to
// exit. Items already dequeued by a worker run to completion; items still
// queued are abandoned and counted as dropped. Close is idempotent; the
// worker wait and drain happen exactly once.
func (p *Pool[I, O]) Close(_ context.Context) error {
	var err error
	p.once.Do(func() {
		p.closed.Store(true)
		dropped := p.input.Abandon()
		for range dropped {
			p.metrics.IncDropped()
		}

		err = p.eg.Wait()
	})
	return err
}

// isClosed reports whether Close has been called.
func (p *Pool[I, O]) isClosed() bool {
	return p.closed.Load()
}
