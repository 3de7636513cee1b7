package rivulet

import (
	"context"
	"errors"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/rivulet-engine/rivulet/observe"
	"github.com/rivulet-engine/rivulet/pool"
	"github.com/rivulet-engine/rivulet/queue"
	"github.com/rivulet-engine/rivulet/reorder"
	"github.com/rivulet-engine/rivulet/retry"
)

// Record is one (index, value) pair flowing out of a pipeline, preserving
// the source index regardless of whether output order is restored.
type Record[R any] = pool.Record[R]

// aggregator collects the state shared across the producer, the worker
// pool, and the output consumer: the composite-error list, and the single
// fatal cause that triggers cancellation.
type aggregator struct {
	mu         sync.Mutex
	collected  []ItemError
	fatal      error
	fatalOnce  sync.Once
	cancelFunc context.CancelFunc
}

func (a *aggregator) record(idx int64, err error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.collected = append(a.collected, ItemError{Index: idx, Err: err})
}

func (a *aggregator) triggerFatal(err error) {
	a.fatalOnce.Do(func() {
		a.mu.Lock()
		a.fatal = err
		a.mu.Unlock()
		a.cancelFunc()
	})
}

func (a *aggregator) snapshot() ([]ItemError, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.collected, a.fatal
}

// engine runs one pipeline operation end to end: producer, worker pool,
// optional reorder buffer, and the termination sequence.
type engine[T, R any] struct {
	opts Options[T, R]
	agg  *aggregator

	inputQ  *queue.Queue[pool.Record[T]]
	outputQ *queue.Queue[pool.Record[R]]

	out chan Record[R]
}

// run executes opts against source and transform, streaming results onto
// the returned channel as they become available (in source order if
// OrderedOutput, otherwise completion order). The returned function blocks
// until the pipeline has fully drained and reports the final outcome.
func run[T, R any](ctx context.Context, source Source[T], transform TransformFunc[T, R], opts Options[T, R]) (<-chan Record[R], func() error) {
	opts = opts.withDefaults()
	if err := opts.Validate(); err != nil {
		out := make(chan Record[R])
		close(out)
		return out, func() error { return err }
	}

	pipelineCtx, cancel := context.WithCancel(ctx)

	e := &engine[T, R]{
		opts:    opts,
		agg:     &aggregator{cancelFunc: cancel},
		inputQ:  queue.New[pool.Record[T]](opts.ChannelCapacity),
		outputQ: queue.New[pool.Record[R]](opts.ChannelCapacity),
		out:     make(chan Record[R]),
	}

	waitErr := make(chan error, 1)
	go func() {
		waitErr <- e.execute(pipelineCtx, cancel, source, transform)
	}()

	var once sync.Once
	var finalErr error
	wait := func() error {
		once.Do(func() { finalErr = <-waitErr })
		return finalErr
	}
	return e.out, wait
}

func (e *engine[T, R]) execute(ctx context.Context, cancel context.CancelFunc, source Source[T], transform TransformFunc[T, R]) error {
	defer close(e.out)
	defer cancel()

	controller, err := e.opts.AdaptiveConcurrency.toAdaptiveController(e.opts.MaxDegreeOfParallelism)
	if err != nil {
		return err
	}
	if controller != nil {
		defer controller.Dispose()
	}

	retryCfg := e.buildRetryConfig()
	p, err := pool.New(pool.Config[T, R]{
		MaxDegreeOfParallelism: e.opts.MaxDegreeOfParallelism,
		Controller:             controller,
		Transform:              transform,
		RetryConfig:            retryCfg,
		Input:                  e.inputQ,
		Output:                 e.outputQ,
		OnStartItem:            e.onStartItem,
		OnCompleteItem:         e.onCompleteItem,
		OnThrottle:             e.onThrottle,
		ThrottleSampleEvery:    pool.DefaultThrottleSampleEvery,
		HandleFailure:          e.handleFailure,
	})
	if err != nil {
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		if err := runProducer(gctx, source, e.inputQ); err != nil {
			e.agg.triggerFatal(err)
			return err
		}
		return nil
	})
	g.Go(func() error {
		err := p.Run(gctx)
		e.outputQ.CloseWrite()
		if err != nil {
			e.agg.triggerFatal(err)
		}
		return err
	})
	g.Go(func() error {
		return e.consumeOutput(gctx)
	})

	_ = g.Wait()

	invokeBestEffort(func() {
		if e.opts.OnDrainAsync != nil {
			e.opts.OnDrainAsync(ctx)
		}
	})
	e.opts.MetricSink.DrainEvents()

	collected, fatal := e.agg.snapshot()
	var finalErr error
	switch {
	case fatal != nil:
		finalErr = fatal
	case ctx.Err() != nil:
		finalErr = ctx.Err()
	case len(collected) > 0:
		finalErr = &CompositeError{Errors: collected}
	}

	e.logOutcome(ctx, finalErr, len(collected))
	return finalErr
}

// logOutcome reports how the pipeline ended (drain, cancellation, or
// composite-error summary), best-effort so a misbehaving Logger never
// affects the pipeline's own result.
func (e *engine[T, R]) logOutcome(ctx context.Context, finalErr error, failedCount int) {
	invokeBestEffort(func() {
		switch {
		case finalErr == nil:
			e.opts.Logger.Info(ctx, "pipeline drained")
		case errors.Is(finalErr, context.Canceled) || errors.Is(finalErr, context.DeadlineExceeded):
			e.opts.Logger.Warn(ctx, "pipeline cancelled",
				observe.Field{Key: "error", Value: finalErr.Error()})
		case failedCount > 0:
			e.opts.Logger.Error(ctx, "pipeline completed with composite error",
				observe.Field{Key: "failed_items", Value: failedCount})
		default:
			e.opts.Logger.Error(ctx, "pipeline failed",
				observe.Field{Key: "error", Value: finalErr.Error()})
		}
	})
}

func (e *engine[T, R]) buildRetryConfig() retry.Config[R] {
	return retry.Config[R]{
		MaxRetries:     e.opts.MaxRetries,
		BaseDelay:      e.opts.BaseDelay,
		Strategy:       e.opts.BackoffStrategy,
		IsTransient:    e.opts.IsTransient,
		PerItemTimeout: e.opts.PerItemTimeout,
		OnRetry: func(ctx context.Context, index int64, attempt int, err error) {
			e.opts.MetricSink.TotalRetries()
			if e.opts.OnRetry != nil {
				e.opts.OnRetry(ctx, index, attempt, err)
			}
		},
		OnFallback: e.opts.OnFallback,
	}
}

func (e *engine[T, R]) onStartItem(_ int, index int64) {
	e.opts.MetricSink.ItemsStarted()
	if e.opts.OnStartItem != nil {
		e.opts.OnStartItem(context.Background(), index)
	}
}

func (e *engine[T, R]) onCompleteItem(_ int, index int64) {
	e.opts.MetricSink.ItemsCompleted()
	if e.opts.OnCompleteItem != nil {
		e.opts.OnCompleteItem(context.Background(), index)
	}
}

func (e *engine[T, R]) onThrottle(inFlight int) {
	e.opts.MetricSink.ThrottleEvents()
	if e.opts.OnThrottleAsync != nil {
		e.opts.OnThrottleAsync(context.Background(), inFlight)
	}
}

// handleFailure implements the ErrorMode routing table.
func (e *engine[T, R]) handleFailure(ctx context.Context, _ int, outcome retry.Outcome[R]) (stop bool) {
	e.opts.MetricSink.TotalFailures()

	switch e.opts.ErrorMode {
	case CollectAndContinue:
		e.agg.record(outcome.Index, outcome.Err)
		return false
	case BestEffort:
		if e.opts.OnErrorAsync == nil {
			return false // silently dropped: BestEffort with no hook
		}
		if invokeBestEffortErrorHook(ctx, e.opts.OnErrorAsync, outcome.Index, outcome.Err) {
			e.agg.record(outcome.Index, outcome.Err)
			return false
		}
		e.agg.triggerFatal(outcome.Err)
		return true
	default: // FailFast
		e.agg.triggerFatal(outcome.Err)
		return true
	}
}

// invokeBestEffortErrorHook runs OnErrorAsync, recovering a panic into
// false (treated as FailFast) so a misbehaving hook fails closed rather
// than silently continuing.
func invokeBestEffortErrorHook(ctx context.Context, hook func(context.Context, int64, error) bool, index int64, err error) (result bool) {
	defer func() {
		if r := recover(); r != nil {
			result = false
		}
	}()
	return hook(ctx, index, err)
}

// consumeOutput drains the output queue, restoring source order through a
// reorder.Buffer when OrderedOutput is set, and forwards every record to
// e.out until the output queue closes or ctx is done.
func (e *engine[T, R]) consumeOutput(ctx context.Context) error {
	var buf *reorder.Buffer[Record[R]]
	if e.opts.OrderedOutput {
		buf = reorder.New[Record[R]]()
	}

	for {
		rec, ok, err := e.outputQ.ReadAsync(ctx)
		if err != nil {
			return err
		}
		if !ok {
			if buf != nil {
				for _, r := range buf.Close() {
					if !e.emit(ctx, r) {
						return ctx.Err()
					}
				}
			}
			return nil
		}

		if buf == nil {
			if !e.emit(ctx, rec) {
				return ctx.Err()
			}
			continue
		}

		ready, err := buf.Push(rec.Index, rec)
		if err != nil {
			return err
		}
		for _, r := range ready {
			if !e.emit(ctx, r) {
				return ctx.Err()
			}
		}
	}
}

func (e *engine[T, R]) emit(ctx context.Context, rec Record[R]) bool {
	select {
	case e.out <- rec:
		return true
	case <-ctx.Done():
		return false
	}
}
