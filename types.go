package rivulet

import (
	"context"
	"time"

	"github.com/rivulet-engine/rivulet/observe"
	"github.com/rivulet-engine/rivulet/retry"
)

// ErrorMode selects how per-item failures are routed.
type ErrorMode int

const (
	// FailFast records the error, cancels the pipeline, and stops the
	// producer and all workers. It is the default.
	FailFast ErrorMode = iota
	// CollectAndContinue records the error and keeps processing other
	// items; the pipeline surfaces a CompositeError at the end.
	CollectAndContinue
	// BestEffort consults OnErrorAsync for each failure: true continues
	// like CollectAndContinue, false cancels like FailFast, and a nil hook
	// silently drops the failed item.
	BestEffort
)

func (m ErrorMode) String() string {
	switch m {
	case FailFast:
		return "fail_fast"
	case CollectAndContinue:
		return "collect_and_continue"
	case BestEffort:
		return "best_effort"
	default:
		return "unknown"
	}
}

// TransformFunc is the shape of a user transform: given a value and a
// context carrying the pipeline's cancellation (and, if configured, a
// per-item timeout), produce a result or an error.
type TransformFunc[T, R any] func(ctx context.Context, value T) (R, error)

// ActionFunc is the shape of a user action for ForEachParallel: it performs
// a side effect and reports only success or failure.
type ActionFunc[T any] func(ctx context.Context, value T) error

// AdaptiveConfig activates the soft adaptive-concurrency gate. A zero
// value (via Options.AdaptiveConcurrency == nil) keeps the pipeline's only
// gate the hard MaxDegreeOfParallelism ceiling.
type AdaptiveConfig struct {
	MinConcurrency     int
	MaxConcurrency     int
	InitialConcurrency int
	SampleInterval     time.Duration
	TargetLatency      time.Duration
	MinSuccessRate     float64
	IncreaseStrategy   AdaptiveStrategy
	DecreaseStrategy   AdaptiveStrategy
	OnConcurrencyChange func(old, new int)
}

// AdaptiveStrategy mirrors adaptive.Strategy at the Options boundary so
// callers of this package never need to import the adaptive package
// directly.
type AdaptiveStrategy int

const (
	AIMD AdaptiveStrategy = iota
	Aggressive
	Gradual
)

// Options parameterises every pipeline operation.
type Options[T, R any] struct {
	// MaxDegreeOfParallelism is the hard ceiling on concurrent transforms.
	// Defaults to runtime.NumCPU() when zero.
	MaxDegreeOfParallelism int

	// PerItemTimeout cancels an individual attempt after this budget. Zero
	// disables per-attempt deadlines.
	PerItemTimeout time.Duration

	// ErrorMode selects failure routing. Defaults to FailFast.
	ErrorMode ErrorMode

	// MaxRetries bounds additional attempts beyond the first.
	MaxRetries int

	// BaseDelay seeds the backoff strategy. Defaults to 100ms.
	BaseDelay time.Duration

	// BackoffStrategy selects the backoff curve. Defaults to Exponential.
	BackoffStrategy retry.Strategy

	// IsTransient classifies a failure as retry-eligible. Nil means no
	// retries regardless of MaxRetries.
	IsTransient retry.Classifier

	// OnRetry and OnFallback implement the retry lifecycle.
	OnRetry    func(ctx context.Context, index int64, attempt int, err error)
	OnFallback func(index int64, err error) R

	// OrderedOutput enables the reorder buffer.
	OrderedOutput bool

	// ChannelCapacity bounds the input and output queues. Defaults to 1024.
	ChannelCapacity int

	// AdaptiveConcurrency, if non-nil, activates the feedback-controlled
	// soft concurrency gate.
	AdaptiveConcurrency *AdaptiveConfig

	// Lifecycle hooks. All are best-effort: a panicking hook is recovered
	// and never aborts the pipeline.
	OnStartItem    func(ctx context.Context, index int64)
	OnCompleteItem func(ctx context.Context, index int64)
	OnErrorAsync   func(ctx context.Context, index int64, err error) bool
	OnThrottleAsync func(ctx context.Context, inFlight int)
	OnDrainAsync   func(ctx context.Context)

	// MetricSink, if non-nil, receives the pipeline's aggregate counters.
	MetricSink MetricSink

	// Logger receives pipeline lifecycle events (drain, cancellation,
	// composite-error summary). Defaults to a no-op logger when nil.
	Logger observe.Logger
}
