package rivulet

import (
	"context"
	"sync/atomic"

	"github.com/rivulet-engine/rivulet/health"
)

// HealthChecker adapts a running pipeline's throttle and cancellation state
// into a health.Checker, so a Rivulet pipeline can be registered alongside
// other components in a health.Aggregator.
//
// It is deliberately a passive observer: construct one, wire its
// Throttled/Cancelled methods into Options.OnThrottleAsync and a
// cancellation-aware hook, and register it with an aggregator. Nothing
// about the pipeline's own execution depends on it.
type HealthChecker struct {
	name string

	throttleEvents       atomic.Int64
	concurrencyIncreases atomic.Int64
	degradedThreshold    int64
	cancelled            atomic.Bool
	hadFailures          atomic.Bool
}

// NewHealthChecker returns a HealthChecker reporting StatusDegraded once
// Throttled has been called degradedAfter more times than
// ConcurrencyIncreased since the last Reset, and StatusUnhealthy once
// Cancelled has been called with hadFailures true. degradedAfter <= 0 means
// throttling never degrades the reported status.
func NewHealthChecker(name string, degradedAfter int64) *HealthChecker {
	return &HealthChecker{name: name, degradedThreshold: degradedAfter}
}

// Throttled is wired into Options.OnThrottleAsync to observe backpressure.
func (h *HealthChecker) Throttled(context.Context, int) {
	h.throttleEvents.Add(1)
}

// ConcurrencyIncreased is wired into AdaptiveConfig.OnConcurrencyChange to
// observe the controller's own response to backpressure. It offsets prior
// Throttled calls, so a pipeline that throttled and then scaled up in
// response does not read as degraded.
func (h *HealthChecker) ConcurrencyIncreased(old, new int) {
	if new > old {
		h.concurrencyIncreases.Add(1)
	}
}

// Cancelled marks the pipeline as having ended via cancellation. Wire it
// from whatever observes the pipeline's final error (e.g. after MapParallel
// returns an error satisfying errors.Is(err, ErrCancelled) or
// context.Canceled). hadFailures reports whether the error aggregator was
// non-empty at that point (e.g. a non-nil *CompositeError, or any recorded
// item failures the caller tracked some other way); a pipeline cancelled by
// the caller's own context before any item failed is not unhealthy.
func (h *HealthChecker) Cancelled(hadFailures bool) {
	h.cancelled.Store(true)
	if hadFailures {
		h.hadFailures.Store(true)
	}
}

// Reset clears throttle and cancellation state, for reuse across pipeline
// runs sharing one HealthChecker.
func (h *HealthChecker) Reset() {
	h.throttleEvents.Store(0)
	h.concurrencyIncreases.Store(0)
	h.cancelled.Store(false)
	h.hadFailures.Store(false)
}

// Name implements health.Checker.
func (h *HealthChecker) Name() string { return h.name }

// Check implements health.Checker.
func (h *HealthChecker) Check(ctx context.Context) health.Result {
	if h.cancelled.Load() && h.hadFailures.Load() {
		return health.Unhealthy(h.name+": pipeline cancelled with recorded failures", ErrCancelled)
	}
	net := h.throttleEvents.Load() - h.concurrencyIncreases.Load()
	if h.degradedThreshold > 0 && net >= h.degradedThreshold {
		return health.Degraded(h.name + ": throttling observed without a matching concurrency increase").
			WithDetails(map[string]any{
				"throttle_events":       h.throttleEvents.Load(),
				"concurrency_increases": h.concurrencyIncreases.Load(),
			})
	}
	return health.Healthy(h.name + ": running within capacity")
}
