// Package pool provides a worker-pool engine that applies a bound function to a
// stream of input items across a fixed number of goroutines, delivering results
// either in input order or in completion order.
//
// # Basic usage
//
//	p, err := pool.NewPool[string, string](4)
//	if err != nil {
//	    return err
//	}
//	defer p.Close(context.Background())
//
//	fn := pool.Func[string, string](func(ctx context.Context, item string, _ pool.Args) (pool.Maybe[string], error) {
//	    return pool.Some(strings.ToUpper(item)), nil
//	})
//
//	values, errs := pool.RunOn(context.Background(), p, fn, inputs)
//	for v := range values {
//	    if v.HasValue {
//	        fmt.Println(v.Value)
//	    }
//	}
//
// # Workers are admitted lazily
//
// A Pool does not start any goroutines at construction time. The first item
// submitted through RunOn admits the first worker; further admissions happen
// only while no existing worker is idle, up to the pool's configured cap. This
// means a Pool that is created but never submitted to costs nothing beyond its
// bookkeeping structures.
//
// # Ordering and routing
//
// Each call to RunOn owns its own result channel; concurrent RunOn calls
// against the same Pool never see each other's results. By default results
// are reassembled into input order; NoSort delivers them as workers finish.
//
// # Errors
//
// Per-item errors never terminate a worker or a Submission — they are
// delivered on the errs channel returned by RunOn, tagged with the input
// index. Binding, initialization, and shutdown errors are distinct sentinel
// errors (ErrBinding, ErrInitialization, ErrShutdown) documented in errors.go.
package pool
