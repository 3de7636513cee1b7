package rivulet

import (
	"fmt"
	"runtime"
	"time"

	"github.com/rivulet-engine/rivulet/adaptive"
	"github.com/rivulet-engine/rivulet/observe"
	"github.com/rivulet-engine/rivulet/queue"
	"github.com/rivulet-engine/rivulet/retry"
)

const defaultChannelCapacity = queue.DefaultCapacity

// withDefaults returns a copy of o with every zero-valued field defaulted.
func (o Options[T, R]) withDefaults() Options[T, R] {
	if o.MaxDegreeOfParallelism <= 0 {
		o.MaxDegreeOfParallelism = runtime.NumCPU()
	}
	if o.BaseDelay <= 0 {
		o.BaseDelay = 100 * time.Millisecond
	}
	if o.ChannelCapacity <= 0 {
		o.ChannelCapacity = defaultChannelCapacity
	}
	if o.MetricSink == nil {
		o.MetricSink = noopMetricSink{}
	}
	if o.Logger == nil {
		o.Logger = observe.NewNoopLogger()
	}
	return o
}

// Validate reports a configuration error naming the offending field.
// Validation failures surface before any work starts.
func (o Options[T, R]) Validate() error {
	if o.MaxDegreeOfParallelism < 0 {
		return fmt.Errorf("%w: max_degree_of_parallelism must be >= 1, got %d", ErrInvalidOptions, o.MaxDegreeOfParallelism)
	}
	if o.MaxRetries < 0 {
		return fmt.Errorf("%w: max_retries must be >= 0, got %d", ErrInvalidOptions, o.MaxRetries)
	}
	if o.BackoffStrategy < retry.Exponential || o.BackoffStrategy > retry.Constant {
		return fmt.Errorf("%w: unknown backoff_strategy %v", ErrInvalidOptions, o.BackoffStrategy)
	}
	if o.ErrorMode < FailFast || o.ErrorMode > BestEffort {
		return fmt.Errorf("%w: unknown error_mode %v", ErrInvalidOptions, o.ErrorMode)
	}
	if o.ChannelCapacity < 0 {
		return fmt.Errorf("%w: channel_capacity must be >= 1, got %d", ErrInvalidOptions, o.ChannelCapacity)
	}
	if ac := o.AdaptiveConcurrency; ac != nil {
		if err := ac.validate(o.MaxDegreeOfParallelism); err != nil {
			return err
		}
	}
	return nil
}

// validate applies adaptive_concurrency's validation rules, plus clamping
// Max to the hard DOP ceiling.
func (a *AdaptiveConfig) validate(hardCeiling int) error {
	maxC := a.MaxConcurrency
	if hardCeiling > 0 && maxC > hardCeiling {
		maxC = hardCeiling
	}
	if a.MinConcurrency < 1 {
		return fmt.Errorf("%w: adaptive_concurrency.min_concurrency must be >= 1, got %d", ErrInvalidOptions, a.MinConcurrency)
	}
	if maxC < a.MinConcurrency {
		return fmt.Errorf("%w: adaptive_concurrency.max_concurrency must be >= min_concurrency, got %d < %d", ErrInvalidOptions, maxC, a.MinConcurrency)
	}
	if a.InitialConcurrency != 0 && (a.InitialConcurrency < a.MinConcurrency || a.InitialConcurrency > maxC) {
		return fmt.Errorf("%w: adaptive_concurrency.initial_concurrency must be within [min_concurrency, max_concurrency], got %d", ErrInvalidOptions, a.InitialConcurrency)
	}
	if a.SampleInterval <= 0 {
		return fmt.Errorf("%w: adaptive_concurrency.sample_interval must be > 0", ErrInvalidOptions)
	}
	if a.TargetLatency < 0 {
		return fmt.Errorf("%w: adaptive_concurrency.target_latency must be > 0 when set", ErrInvalidOptions)
	}
	if a.MinSuccessRate < 0 || a.MinSuccessRate > 1 {
		return fmt.Errorf("%w: adaptive_concurrency.min_success_rate must be within [0,1]", ErrInvalidOptions)
	}
	return nil
}

// toAdaptiveController builds the adaptive.Controller for ac, clamping Max
// to hardCeiling: DOP is the hard ceiling, the controller is the soft gate
// beneath it.
func (a *AdaptiveConfig) toAdaptiveController(hardCeiling int) (*adaptive.Controller, error) {
	if a == nil {
		return nil, nil
	}
	maxC := a.MaxConcurrency
	if hardCeiling > 0 && maxC > hardCeiling {
		maxC = hardCeiling
	}
	return adaptive.New(adaptive.Config{
		Min:                 a.MinConcurrency,
		Max:                 maxC,
		Initial:             a.InitialConcurrency,
		SampleInterval:      a.SampleInterval,
		TargetLatency:       a.TargetLatency,
		MinSuccessRate:      a.MinSuccessRate,
		IncreaseStrategy:    adaptive.Strategy(a.IncreaseStrategy),
		DecreaseStrategy:    adaptive.Strategy(a.DecreaseStrategy),
		OnConcurrencyChange: a.OnConcurrencyChange,
	})
}
