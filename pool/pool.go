package pool

import (
	"context"
	"fmt"
	"sync/atomic"

	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"

	"github.com/rivulet-engine/rivulet/adaptive"
	"github.com/rivulet-engine/rivulet/queue"
	"github.com/rivulet-engine/rivulet/retry"
)

// Record pairs a source index with a value flowing through the pipeline.
// The index is the stable, monotonic identifier used for ordering,
// reordering, and hook parameters.
type Record[T any] struct {
	Index int64
	Value T
}

// Config configures a Pool. T is the item type read from Input; R is the
// type produced by Transform and written to Output.
type Config[T, R any] struct {
	// MaxDegreeOfParallelism is the hard ceiling on concurrent transforms
	// and the number of worker goroutines spawned by Run. Must be >= 1.
	MaxDegreeOfParallelism int

	// Controller, if non-nil, is acquired after the hard ceiling on every
	// item and activates the soft adaptive concurrency gate.
	Controller *adaptive.Controller

	Transform   retry.TransformFunc[T, R]
	RetryConfig retry.Config[R]

	Input  *queue.Queue[Record[T]]
	Output *queue.Queue[Record[R]]

	// OnStartItem and OnCompleteItem are best-effort lifecycle hooks
	// carrying the stable worker index.
	OnStartItem    func(workerIndex int, index int64)
	OnCompleteItem func(workerIndex int, index int64)

	// OnThrottle fires (best-effort) when the pool is at capacity and the
	// input queue is non-empty, sampled every ThrottleSampleEvery
	// completions. Zero uses DefaultThrottleSampleEvery.
	OnThrottle          func(inFlight int)
	ThrottleSampleEvery int

	// HandleFailure is invoked for every Failure outcome. Returning true
	// tells the pool to stop (FailFast-style); the pool then returns the
	// outcome's error from Run. A nil HandleFailure never stops the pool.
	HandleFailure func(ctx context.Context, workerIndex int, outcome retry.Outcome[R]) (stop bool)
}

// DefaultThrottleSampleEvery is the completion sampling period used when
// Config.ThrottleSampleEvery is zero.
const DefaultThrottleSampleEvery = 16

func (c Config[T, R]) validate() error {
	if c.MaxDegreeOfParallelism < 1 {
		return fmt.Errorf("%w: MaxDegreeOfParallelism must be >= 1, got %d", ErrInvalidConfig, c.MaxDegreeOfParallelism)
	}
	if c.Transform == nil {
		return fmt.Errorf("%w: Transform must not be nil", ErrInvalidConfig)
	}
	if c.Input == nil || c.Output == nil {
		return fmt.Errorf("%w: Input and Output queues must not be nil", ErrInvalidConfig)
	}
	return nil
}

// Pool is a fixed set of cooperative workers pulling from Input, delegating
// each item to the retry engine, and routing outcomes onward. The zero
// value is not usable; construct with New.
type Pool[T, R any] struct {
	cfg Config[T, R]
	sem *semaphore.Weighted

	active      atomic.Int64
	completions atomic.Int64
}

// New validates cfg and returns a ready Pool.
func New[T, R any](cfg Config[T, R]) (*Pool[T, R], error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if cfg.ThrottleSampleEvery <= 0 {
		cfg.ThrottleSampleEvery = DefaultThrottleSampleEvery
	}
	return &Pool[T, R]{
		cfg: cfg,
		sem: semaphore.NewWeighted(int64(cfg.MaxDegreeOfParallelism)),
	}, nil
}

// Run spawns MaxDegreeOfParallelism workers under one errgroup and blocks
// until the input queue is drained and closed, a worker observes ctx
// cancellation, or a HandleFailure callback requests a stop. The first
// worker error cancels the group's derived context, which in turn unblocks
// every other worker's queue reads and permit acquisitions.
func (p *Pool[T, R]) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < p.cfg.MaxDegreeOfParallelism; i++ {
		workerIndex := i
		g.Go(func() error {
			return p.workerLoop(gctx, workerIndex)
		})
	}
	return g.Wait()
}
