package pool

import "sync"

// unboundedQueue is the FIFO, multi-producer multi-consumer queue spec.md §3
// specifies for both InputQueue and ResultQueue. The pack's own MPMC
// implementations (utkarsh5026-poolme/pool/queue.go) use a lock-free ring
// buffer; this module uses a mutex-guarded slice with sync.Cond instead — see
// DESIGN.md for why the extra complexity of a lock-free ring wasn't
// warranted here (Pop is the only hot path and it already blocks on empty).
//
// Close marks the queue as having no further producers. Pop drains whatever
// remains and only then reports end-of-stream. Push after Close is a no-op,
// which is what lets a Submission tear down its ResultQueue while a worker
// still holds a reference to it (spec.md §4.6): the worker's Push simply
// drops the result instead of blocking or panicking.
type unboundedQueue[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	items  []T
	closed bool
}

func newUnboundedQueue[T any]() *unboundedQueue[T] {
	q := &unboundedQueue[T]{}
	q.cond = sync.NewCond(&q.mu)
	return q
}

// Push enqueues v. It is a no-op once the queue has been closed.
func (q *unboundedQueue[T]) Push(v T) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.items = append(q.items, v)
	q.cond.Signal()
}

// Pop blocks until an item is available or the queue is closed and drained,
// in which case ok is false.
func (q *unboundedQueue[T]) Pop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	for len(q.items) == 0 && !q.closed {
		q.cond.Wait()
	}
	if len(q.items) == 0 {
		return v, false
	}
	v, q.items = q.items[0], q.items[1:]
	return v, true
}

// TryPop returns immediately with ok=false if nothing is queued.
func (q *unboundedQueue[T]) TryPop() (v T, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.items) == 0 {
		return v, false
	}
	v, q.items = q.items[0], q.items[1:]
	return v, true
}

// Close marks the queue as having no further producers and wakes any
// goroutines blocked in Pop so they can observe end-of-stream once whatever
// is already buffered has been drained.
func (q *unboundedQueue[T]) Close() {
	q.mu.Lock()
	q.closed = true
	q.cond.Broadcast()
	q.mu.Unlock()
}

// Abandon closes the queue and discards whatever is currently buffered,
// returning the discarded items. Unlike Close, blocked Pop callers observe
// end-of-stream immediately rather than draining the backlog first — this is
// the "items still queued are abandoned" half of spec.md §4.2's Close
// semantics, as opposed to items a worker already holds, which run to
// completion outside the queue entirely.
func (q *unboundedQueue[T]) Abandon() []T {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.closed = true
	dropped := q.items
	q.items = nil
	q.cond.Broadcast()
	return dropped
}

// Len reports the number of items currently buffered.
func (q *unboundedQueue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.items)
}
