package rivulet

import "context"

// MapParallel runs transform over every value from source with up to
// opts.MaxDegreeOfParallelism concurrent attempts, and returns the
// collected results once the whole source has been consumed. If
// opts.OrderedOutput is set the returned slice matches source order
// exactly; otherwise it contains every successful and fallback value in
// completion order, with no ordering guarantee across items.
func MapParallel[T, R any](ctx context.Context, source Source[T], transform TransformFunc[T, R], opts Options[T, R]) ([]R, error) {
	out, wait := run(ctx, source, transform, opts)

	var results []R
	for rec := range out {
		results = append(results, rec.Value)
	}
	if err := wait(); err != nil {
		return nil, err
	}
	return results, nil
}

// MapParallelStream is the lazy-sequence form of MapParallel: it returns a
// channel of records as they become available, and a function the caller
// invokes after draining the channel to obtain the pipeline's final
// outcome. The channel is always closed, even on error or cancellation.
func MapParallelStream[T, R any](ctx context.Context, source Source[T], transform TransformFunc[T, R], opts Options[T, R]) (<-chan Record[R], func() error) {
	return run(ctx, source, transform, opts)
}

// ForEachParallel runs action over every value from source purely for its
// side effects, with the same concurrency, retry, and error-routing
// semantics as MapParallel.
func ForEachParallel[T any](ctx context.Context, source Source[T], action ActionFunc[T], opts Options[T, struct{}]) error {
	transform := func(ctx context.Context, v T) (struct{}, error) {
		return struct{}{}, action(ctx, v)
	}
	out, wait := run(ctx, source, transform, opts)
	for range out {
	}
	return wait()
}
