package rivulet

import (
	"context"
	"fmt"

	"github.com/rivulet-engine/rivulet/pool"
)

// Source is either a synchronous sequence or a lazy async sequence. Next
// returns the next value and true, or the zero value and false once the
// source is exhausted. A non-nil error is always fatal to the pipeline.
type Source[T any] interface {
	Next(ctx context.Context) (T, bool, error)
}

// sliceSource adapts a plain slice into a Source, for the common
// synchronous-sequence case.
type sliceSource[T any] struct {
	items []T
	pos   int
}

// FromSlice wraps a slice as a synchronous Source.
func FromSlice[T any](items []T) Source[T] {
	return &sliceSource[T]{items: items}
}

func (s *sliceSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	if err := ctx.Err(); err != nil {
		return zero, false, err
	}
	if s.pos >= len(s.items) {
		return zero, false, nil
	}
	v := s.items[s.pos]
	s.pos++
	return v, true, nil
}

// chanSource adapts a channel into a Source, for a lazy async sequence fed
// by another goroutine.
type chanSource[T any] struct {
	ch <-chan T
}

// FromChannel wraps ch as a lazy async Source. Closing ch signals
// exhaustion; FromChannel itself never closes ch.
func FromChannel[T any](ch <-chan T) Source[T] {
	return &chanSource[T]{ch: ch}
}

func (s *chanSource[T]) Next(ctx context.Context) (T, bool, error) {
	var zero T
	select {
	case v, ok := <-s.ch:
		if !ok {
			return zero, false, nil
		}
		return v, true, nil
	case <-ctx.Done():
		return zero, false, ctx.Err()
	}
}

// runProducer reads source to exhaustion, writing each value into in with a
// strictly increasing index starting at 0, then closes in for writes. A
// source error is wrapped in ErrSourceEnumeration and returned; the caller
// is expected to treat that as fatal regardless of ErrorMode.
func runProducer[T any](ctx context.Context, source Source[T], in queueWriter[T]) error {
	defer in.CloseWrite()

	var index int64
	for {
		v, ok, err := source.Next(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("%w: %v", ErrSourceEnumeration, err)
		}
		if !ok {
			return nil
		}
		if err := in.WriteAsync(ctx, pool.Record[T]{Index: index, Value: v}); err != nil {
			return err
		}
		index++
	}
}

// queueWriter is the minimal surface runProducer needs from a
// *queue.Queue[pool.Record[T]], kept narrow so producer.go doesn't need to
// import the queue package's generic instantiation directly in its signature.
type queueWriter[T any] interface {
	WriteAsync(ctx context.Context, item pool.Record[T]) error
	CloseWrite()
}
