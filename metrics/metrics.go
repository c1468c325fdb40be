// Package metrics tracks per-pool worker counters and timings, and exposes
// them both as a plain snapshot and as a Prometheus collector.
//
// The worker-id-in-context idiom and the Value counter map are grounded on
// go-pkgz/pool/metrics; ThreadStatus in the core pool package is
// intentionally a separate, simpler structure since spec.md §3 states it
// "is used only by the admission policy; not on any correctness path" —
// Value is the component that is allowed to be a bookkeeping-only sink.
package metrics

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"
)

type contextKey string

const widContextKey contextKey = "callpool-worker-id"

// Timer identifies which phase of a worker's lifecycle a duration belongs to.
type Timer int

const (
	// TimerInit measures a worker's initialization closure.
	TimerInit Timer = iota
	// TimerProc measures time spent inside the bound callable.
	TimerProc
	// TimerWait measures time a worker spent idle waiting on the input queue.
	TimerWait
)

// Value is a thread-safe counter and timing sink shared by all workers of a
// Pool. It carries no correctness obligation.
type Value struct {
	startTime time.Time

	mu        sync.Mutex
	processed int
	errors    int
	dropped   int
	initTime  time.Duration
	procTime  time.Duration
	waitTime  time.Duration

	userMu   sync.RWMutex
	userData map[string]int
}

// New creates an empty metrics sink, timestamped at creation.
func New() *Value {
	return &Value{startTime: time.Now(), userData: map[string]int{}}
}

// IncProcessed records one successfully processed item.
func (v *Value) IncProcessed() {
	v.mu.Lock()
	v.processed++
	v.mu.Unlock()
}

// IncErrors records one item that ended in error.
func (v *Value) IncErrors() {
	v.mu.Lock()
	v.errors++
	v.mu.Unlock()
}

// IncDropped records one item abandoned by pool shutdown before it reached a worker.
func (v *Value) IncDropped() {
	v.mu.Lock()
	v.dropped++
	v.mu.Unlock()
}

// StartTimer starts timing a phase and returns a function that records the
// elapsed duration into the matching bucket when called.
func (v *Value) StartTimer(t Timer) func() {
	start := time.Now()
	return func() {
		elapsed := time.Since(start)
		v.mu.Lock()
		switch t {
		case TimerInit:
			v.initTime += elapsed
		case TimerProc:
			v.procTime += elapsed
		case TimerWait:
			v.waitTime += elapsed
		}
		v.mu.Unlock()
	}
}

// Add increments a user-defined counter by delta and returns its new value.
func (v *Value) Add(key string, delta int) int {
	v.userMu.Lock()
	defer v.userMu.Unlock()
	v.userData[key] += delta
	return v.userData[key]
}

// Get returns the current value of a user-defined counter.
func (v *Value) Get(key string) int {
	v.userMu.RLock()
	defer v.userMu.RUnlock()
	return v.userData[key]
}

// Stats is a point-in-time snapshot of a Value.
type Stats struct {
	Processed      int
	Errors         int
	Dropped        int
	InitTime       time.Duration
	ProcessingTime time.Duration
	WaitTime       time.Duration
	TotalTime      time.Duration
}

// String renders Stats the way go-pkgz/pool's own stats formatter does,
// as a compact single line suitable for log output.
func (s Stats) String() string {
	return fmt.Sprintf("processed:%d, errors:%d, dropped:%d, proc:%v, init:%v, wait:%v, total:%v",
		s.Processed, s.Errors, s.Dropped, s.ProcessingTime, s.InitTime, s.WaitTime, s.TotalTime)
}

// GetStats returns a snapshot of the built-in counters and timers.
func (v *Value) GetStats() Stats {
	v.mu.Lock()
	defer v.mu.Unlock()
	return Stats{
		Processed:      v.processed,
		Errors:         v.errors,
		Dropped:        v.dropped,
		InitTime:       v.initTime,
		ProcessingTime: v.procTime,
		WaitTime:       v.waitTime,
		TotalTime:      time.Since(v.startTime),
	}
}

// String renders both the built-in stats and any user-defined counters,
// sorted by key for determinism.
func (v *Value) String() string {
	stats := v.GetStats()

	v.userMu.RLock()
	keys := make([]string, 0, len(v.userData))
	for k := range v.userData {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, len(keys))
	for i, k := range keys {
		parts[i] = fmt.Sprintf("%s:%d", k, v.userData[k])
	}
	v.userMu.RUnlock()

	user := ""
	if len(parts) > 0 {
		user = fmt.Sprintf(" [%s]", strings.Join(parts, ", "))
	}
	return stats.String() + user
}

// WorkerID returns the worker id stored in ctx by WithWorkerID, or 0.
func WorkerID(ctx context.Context) int {
	id, ok := ctx.Value(widContextKey).(int)
	if !ok {
		return 0
	}
	return id
}

// WithWorkerID returns a context carrying the given worker id.
func WithWorkerID(ctx context.Context, id int) context.Context {
	return context.WithValue(ctx, widContextKey, id)
}
