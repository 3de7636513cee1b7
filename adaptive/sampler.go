package adaptive

import "math"

// Strategy selects the step-size rule used to grow or shrink the effective
// concurrency on a sampling tick. The same three names apply independently
// to IncreaseStrategy and DecreaseStrategy — a caller may mix, e.g.
// Aggressive increases with Gradual decreases.
type Strategy int

const (
	// AIMD is additive-increase (+1) / multiplicative-decrease (/2, floor).
	AIMD Strategy = iota
	// Aggressive increases by max(2, 25% of current) and halves on decrease.
	Aggressive
	// Gradual increases by 1 every other window and shrinks by 25% (ceil).
	Gradual
)

func (s Strategy) String() string {
	switch s {
	case AIMD:
		return "aimd"
	case Aggressive:
		return "aggressive"
	case Gradual:
		return "gradual"
	default:
		return "unknown"
	}
}

// increaseStep computes the additive step for one tick. windowIndex counts
// ticks since the controller started (0-based), used by Gradual's
// "every other window" rule.
func increaseStep(s Strategy, current, windowIndex int) int {
	switch s {
	case Aggressive:
		step := current / 4
		if step < 2 {
			step = 2
		}
		return step
	case Gradual:
		if windowIndex%2 == 0 {
			return 1
		}
		return 0
	default: // AIMD
		return 1
	}
}

// decreaseValue computes the new concurrency value (not a delta) for one
// decrease tick.
func decreaseValue(s Strategy, current int) int {
	switch s {
	case Gradual:
		return int(math.Ceil(float64(current) * 0.75))
	default: // AIMD, Aggressive
		v := current / 2
		if v < 1 {
			v = 1
		}
		return v
	}
}
