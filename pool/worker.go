package pool

import (
	"context"
	"time"

	"github.com/rivulet-engine/rivulet/retry"
)

// workerLoop implements the per-worker read-process-route cycle. A nil
// return means the worker observed a closed, drained input queue; any other
// return is either ctx cancellation or a HandleFailure-requested stop, both
// of which propagate through the errgroup to cancel sibling workers.
func (p *Pool[T, R]) workerLoop(ctx context.Context, workerIndex int) error {
	for {
		rec, ok, err := p.cfg.Input.ReadAsync(ctx)
		if err != nil {
			return err
		}
		if !ok {
			return nil
		}

		invokeBestEffort(func() {
			if p.cfg.OnStartItem != nil {
				p.cfg.OnStartItem(workerIndex, rec.Index)
			}
		})

		outcome, err := p.runItem(ctx, rec)
		if err != nil {
			return err
		}

		switch outcome.Kind {
		case retry.KindSuccess, retry.KindFallback:
			if err := p.cfg.Output.WriteAsync(ctx, Record[R]{Index: outcome.Index, Value: outcome.Value}); err != nil {
				return err
			}
			invokeBestEffort(func() {
				if p.cfg.OnCompleteItem != nil {
					p.cfg.OnCompleteItem(workerIndex, rec.Index)
				}
			})
			p.afterCompletion()
		case retry.KindCancelled:
			return outcome.Err
		case retry.KindFailure:
			if p.cfg.HandleFailure != nil && p.cfg.HandleFailure(ctx, workerIndex, outcome) {
				return outcome.Err
			}
			p.afterCompletion()
		}
	}
}

// runItem acquires the hard ceiling permit, then (if configured) the
// adaptive soft permit, runs the retry engine, and releases both permits in
// reverse acquisition order.
func (p *Pool[T, R]) runItem(ctx context.Context, rec Record[T]) (retry.Outcome[R], error) {
	var zero retry.Outcome[R]

	if err := p.sem.Acquire(ctx, 1); err != nil {
		return zero, err
	}
	if p.cfg.Controller != nil {
		if err := p.cfg.Controller.Acquire(ctx); err != nil {
			p.sem.Release(1)
			return zero, err
		}
	}

	p.active.Add(1)
	start := time.Now()
	outcome := retry.Run(ctx, rec.Index, rec.Value, p.cfg.Transform, p.cfg.RetryConfig)
	latency := time.Since(start)
	p.active.Add(-1)

	success := outcome.Kind == retry.KindSuccess || outcome.Kind == retry.KindFallback
	if p.cfg.Controller != nil {
		p.cfg.Controller.Release(latency, success)
	}
	p.sem.Release(1)

	return outcome, nil
}

// afterCompletion samples the throttle condition: every ThrottleSampleEvery
// completions, fire OnThrottle if the pool is at capacity and items remain
// queued.
func (p *Pool[T, R]) afterCompletion() {
	n := p.completions.Add(1)
	if p.cfg.OnThrottle == nil || n%int64(p.cfg.ThrottleSampleEvery) != 0 {
		return
	}
	active := int(p.active.Load())
	atCapacity := active >= p.cfg.MaxDegreeOfParallelism
	if p.cfg.Controller != nil {
		atCapacity = atCapacity || active >= p.cfg.Controller.Current()
	}
	if atCapacity && p.cfg.Input.Len() > 0 {
		invokeBestEffort(func() { p.cfg.OnThrottle(active) })
	}
}

func invokeBestEffort(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
