package adaptive

import "errors"

// Sentinel errors for adaptive controller configuration.
var (
	// ErrInvalidMin indicates Config.Min < 1.
	ErrInvalidMin = errors.New("adaptive: min_concurrency must be >= 1")

	// ErrInvalidMax indicates Config.Max < Config.Min.
	ErrInvalidMax = errors.New("adaptive: max_concurrency must be >= min_concurrency")

	// ErrInvalidInitial indicates Config.Initial is outside [Min, Max].
	ErrInvalidInitial = errors.New("adaptive: initial_concurrency must be within [min_concurrency, max_concurrency]")

	// ErrInvalidSampleInterval indicates Config.SampleInterval <= 0.
	ErrInvalidSampleInterval = errors.New("adaptive: sample_interval must be > 0")

	// ErrInvalidTargetLatency indicates Config.TargetLatency < 0.
	ErrInvalidTargetLatency = errors.New("adaptive: target_latency must be > 0 when set")

	// ErrInvalidSuccessRate indicates Config.MinSuccessRate is outside [0,1].
	ErrInvalidSuccessRate = errors.New("adaptive: min_success_rate must be within [0,1]")
)
