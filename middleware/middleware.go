// Package middleware provides common wrappers around a bound callpool.Func,
// grounded on go-pkgz/pool/middleware's Worker-wrapping pattern but adapted
// to wrap a typed Func[I, O] instead of the Worker[T] interface, since
// callpool's core is a function, not an object with a Do method.
package middleware

import (
	"context"
	"fmt"
	"math/rand"
	"time"

	"golang.org/x/time/rate"

	pool "github.com/nkozyra/callpool"
)

// Middleware wraps a Func, matching the HTTP-middleware convention the
// teacher package uses: the first Middleware passed to a chain is the
// outermost wrapper.
type Middleware[I, O any] func(pool.Func[I, O]) pool.Func[I, O]

// Chain applies middlewares in order, first-outermost, to fn.
func Chain[I, O any](fn pool.Func[I, O], middlewares ...Middleware[I, O]) pool.Func[I, O] {
	wrapped := fn
	for i := len(middlewares) - 1; i >= 0; i-- {
		wrapped = middlewares[i](wrapped)
	}
	return wrapped
}

// Retry calls next up to maxAttempts times in total, waiting with exponential
// backoff and jitter between failed attempts, mirroring
// go-pkgz/pool/middleware.Retry.
func Retry[I, O any](maxAttempts int, baseDelay time.Duration) Middleware[I, O] {
	if maxAttempts <= 0 {
		maxAttempts = 3
	}
	if baseDelay <= 0 {
		baseDelay = time.Second
	}

	return func(next pool.Func[I, O]) pool.Func[I, O] {
		return func(ctx context.Context, item I, args pool.Args) (pool.Maybe[O], error) {
			var lastErr error
			for attempt := range maxAttempts {
				res, err := next(ctx, item, args)
				if err == nil {
					return res, nil
				}
				lastErr = err

				if attempt < maxAttempts-1 {
					delay := baseDelay * time.Duration(1<<uint(attempt)) //nolint:gosec // bounded by maxAttempts
					jitter := time.Duration(float64(delay) * 0.2 * rand.Float64())
					delay += jitter

					select {
					case <-ctx.Done():
						return pool.None[O](), ctx.Err()
					case <-time.After(delay):
					}
				}
			}
			return pool.None[O](), fmt.Errorf("failed after %d attempts: %w", maxAttempts, lastErr)
		}
	}
}

// Timeout bounds each call with a per-item context deadline.
func Timeout[I, O any](timeout time.Duration) Middleware[I, O] {
	if timeout <= 0 {
		timeout = time.Minute
	}
	return func(next pool.Func[I, O]) pool.Func[I, O] {
		return func(ctx context.Context, item I, args pool.Args) (pool.Maybe[O], error) {
			ctx, cancel := context.WithTimeout(ctx, timeout)
			defer cancel()
			return next(ctx, item, args)
		}
	}
}

// Recovery converts a panic inside next into an error result instead of
// crashing the worker goroutine.
func Recovery[I, O any](handler func(any)) Middleware[I, O] {
	return func(next pool.Func[I, O]) pool.Func[I, O] {
		return func(ctx context.Context, item I, args pool.Args) (res pool.Maybe[O], err error) {
			defer func() {
				if r := recover(); r != nil {
					if handler != nil {
						handler(r)
					}
					res = pool.None[O]()
					switch rt := r.(type) {
					case error:
						err = fmt.Errorf("panic recovered: %w", rt)
					default:
						err = fmt.Errorf("panic recovered: %v", rt)
					}
				}
			}()
			return next(ctx, item, args)
		}
	}
}

// RateLimit throttles calls to at most limiter's allowed rate before
// forwarding to next. This has no equivalent in go-pkgz/pool, whose workers
// are pre-started and unthrottled; callpool's Submission layer is the
// natural place to add backpressure a caller opts into.
func RateLimit[I, O any](limiter *rate.Limiter) Middleware[I, O] {
	return func(next pool.Func[I, O]) pool.Func[I, O] {
		return func(ctx context.Context, item I, args pool.Args) (pool.Maybe[O], error) {
			if err := limiter.Wait(ctx); err != nil {
				return pool.None[O](), err
			}
			return next(ctx, item, args)
		}
	}
}

// Validator rejects items that fail validate before they reach next.
func Validator[I, O any](validate func(I) error) Middleware[I, O] {
	return func(next pool.Func[I, O]) pool.Func[I, O] {
		return func(ctx context.Context, item I, args pool.Args) (pool.Maybe[O], error) {
			if err := validate(item); err != nil {
				return pool.None[O](), fmt.Errorf("validation failed: %w", err)
			}
			return next(ctx, item, args)
		}
	}
}
