package pool

import (
	"errors"
	"fmt"

	"github.com/ygrebnov/errorc"
)

// Sentinel error kinds. Use errors.Is to test the category of a failure.
// Binding and shutdown errors carry structured context attached with
// errorc.With; item errors carry their input index, recoverable with
// ItemIndex.
var (
	// ErrBinding is returned when a Func passed to BindFunc or RunOn is nil.
	// Fatal for the Submission being built. A nil init closure is not an
	// error: BindInit replaces it with a no-op.
	ErrBinding = errors.New("pool: callable could not be bound")

	// ErrInitialization is returned when a Pool's init closure faults inside
	// a worker. Only that worker exits; the pool keeps running with fewer
	// goroutines admitted so far.
	ErrInitialization = errors.New("pool: worker initialization failed")

	// ErrItem tags a per-item failure from the bound callable. It is never
	// returned to a caller directly — it is carried inside Result.Err.
	ErrItem = errors.New("pool: item processing failed")

	// ErrShutdown is returned when an operation is attempted against a Pool
	// after Close has been called.
	ErrShutdown = errors.New("pool: operation attempted after close")
)

// bindingError reports the target the binder failed to resolve.
func bindingError(target string) error {
	return errorc.With(ErrBinding, errorc.String("target", target))
}

// initializationError reports which worker's init closure faulted.
func initializationError(workerID int, cause error) error {
	return fmt.Errorf("%w (worker %d): %w", ErrInitialization, workerID, cause)
}

// shutdownError reports what operation was rejected.
func shutdownError(op string) error {
	return errorc.With(ErrShutdown, errorc.String("operation", op))
}

// itemMetaError carries the input index of a failed item, grounded on
// ygrebnov-workers' TaskMetaError: correlation metadata attached to the
// error itself rather than threaded through a side channel, recoverable via
// errors.As by any caller that cares which item failed.
type itemMetaError struct {
	err   error
	index uint64
}

// itemError wraps cause as an ErrItem failure tagged with the index of the
// input that produced it.
func itemError(index uint64, cause error) error {
	return &itemMetaError{err: fmt.Errorf("%w: %w", ErrItem, cause), index: index}
}

func (e *itemMetaError) Error() string { return e.err.Error() }
func (e *itemMetaError) Unwrap() error { return e.err }

// ItemIndex returns the input index of the item, if err (or something it
// wraps) is an itemMetaError.
func (e *itemMetaError) ItemIndex() (uint64, bool) { return e.index, true }

// itemMetaErrorMatcher is what ItemIndex probes for via errors.As, so it
// doesn't need the unexported *itemMetaError type itself.
type itemMetaErrorMatcher interface {
	ItemIndex() (uint64, bool)
}

// ItemIndex extracts the failing input index from err, if it (or an error it
// wraps) was produced by itemError.
func ItemIndex(err error) (uint64, bool) {
	var m itemMetaErrorMatcher
	if errors.As(err, &m) {
		return m.ItemIndex()
	}
	return 0, false
}
