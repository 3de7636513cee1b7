package retry

import (
	"time"

	cbackoff "github.com/cenkalti/backoff/v5"
)

// Strategy selects how the delay between attempts grows.
type Strategy int

const (
	// Exponential doubles the delay each attempt: base * 2^(attempt-1).
	Exponential Strategy = iota
	// ExponentialJitter is Exponential scaled by a uniform(0.5, 1.5) factor.
	ExponentialJitter
	// Linear grows the delay linearly: base * attempt.
	Linear
	// Constant uses the same delay for every retry.
	Constant
)

func (s Strategy) String() string {
	switch s {
	case Exponential:
		return "exponential"
	case ExponentialJitter:
		return "exponential-jitter"
	case Linear:
		return "linear"
	case Constant:
		return "constant"
	default:
		return "unknown"
	}
}

// backoffSource produces successive delays; it is satisfied both by
// github.com/cenkalti/backoff/v5's BackOff implementations and by
// linearBackOff below.
type backoffSource interface {
	NextBackOff() time.Duration
}

// linearBackOff grows its delay by base on every call, implementing the same
// BackOff contract cenkalti/backoff/v5 uses so it composes with the rest of
// the strategies through a single interface.
type linearBackOff struct {
	base    time.Duration
	max     time.Duration
	attempt int
}

func (l *linearBackOff) NextBackOff() time.Duration {
	l.attempt++
	d := l.base * time.Duration(l.attempt)
	if l.max > 0 && d > l.max {
		d = l.max
	}
	return d
}

// newBackoffSource builds the delay generator for a strategy. base and max
// are the configured base_delay and the clamp ceiling (callers default the
// ceiling to a conservative 30s when unset).
func newBackoffSource(strategy Strategy, base, max time.Duration) backoffSource {
	switch strategy {
	case ExponentialJitter:
		return cbackoff.NewExponentialBackOff(
			cbackoff.WithInitialInterval(base),
			cbackoff.WithMultiplier(2.0),
			cbackoff.WithRandomizationFactor(0.5),
			cbackoff.WithMaxInterval(max),
		)
	case Linear:
		return &linearBackOff{base: base, max: max}
	case Constant:
		return cbackoff.NewConstantBackOff(base)
	default: // Exponential, no jitter.
		return cbackoff.NewExponentialBackOff(
			cbackoff.WithInitialInterval(base),
			cbackoff.WithMultiplier(2.0),
			cbackoff.WithRandomizationFactor(0),
			cbackoff.WithMaxInterval(max),
		)
	}
}
