package adaptive

import (
	"context"
	"sync"
	"time"
)

// Config configures an adaptive Controller.
type Config struct {
	// Min is the smallest effective concurrency the controller will settle
	// on. Must be >= 1.
	Min int

	// Max is the largest effective concurrency the controller will settle
	// on. Must be >= Min. A caller composing this controller behind a hard
	// max_degree_of_parallelism ceiling should clamp Max to that ceiling.
	Max int

	// Initial is the starting concurrency. Defaults to Min if zero.
	Initial int

	// SampleInterval is how often the background sampler ticks. Must be > 0.
	SampleInterval time.Duration

	// TargetLatency, if > 0, triggers a decrease when the window's average
	// latency exceeds it. Zero disables the latency check.
	TargetLatency time.Duration

	// MinSuccessRate triggers a decrease when the window's success rate
	// falls below it. Defaults to 1.0 if zero.
	MinSuccessRate float64

	// IncreaseStrategy and DecreaseStrategy select the step-size rule used
	// on each tick (see Strategy).
	IncreaseStrategy Strategy
	DecreaseStrategy Strategy

	// OnConcurrencyChange, if set, is invoked (best-effort) whenever a tick
	// changes the effective concurrency.
	OnConcurrencyChange func(old, new int)
}

// Validate reports a configuration error naming the offending field.
func (c Config) Validate() error {
	if c.Min < 1 {
		return ErrInvalidMin
	}
	if c.Max < c.Min {
		return ErrInvalidMax
	}
	if c.Initial != 0 && (c.Initial < c.Min || c.Initial > c.Max) {
		return ErrInvalidInitial
	}
	if c.SampleInterval <= 0 {
		return ErrInvalidSampleInterval
	}
	if c.TargetLatency < 0 {
		return ErrInvalidTargetLatency
	}
	if c.MinSuccessRate < 0 || c.MinSuccessRate > 1 {
		return ErrInvalidSuccessRate
	}
	return nil
}

type window struct {
	latencySum time.Duration
	count      int
	successes  int
	failures   int
}

// Controller implements a feedback-controlled permit gate: effective
// concurrency expands or contracts on a timer based on observed latency and
// success rate. The zero value is not usable; construct with New.
type Controller struct {
	cfg Config

	mu          sync.Mutex
	current     int
	outstanding int
	waiters     []chan struct{}
	win         window
	windowIndex int

	stopCh   chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
}

// New validates cfg and starts the background sampler.
func New(cfg Config) (*Controller, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if cfg.Initial == 0 {
		cfg.Initial = cfg.Min
	}
	if cfg.MinSuccessRate == 0 {
		cfg.MinSuccessRate = 1.0
	}

	c := &Controller{
		cfg:     cfg,
		current: cfg.Initial,
		stopCh:  make(chan struct{}),
	}
	c.wg.Add(1)
	go c.run()
	return c, nil
}

// Acquire suspends until a permit is available, the controller is disposed,
// or ctx is done. On dispose it returns nil without holding a permit — the
// caller is expected to be unwinding anyway.
func (c *Controller) Acquire(ctx context.Context) error {
	for {
		c.mu.Lock()
		select {
		case <-c.stopCh:
			c.mu.Unlock()
			return nil
		default:
		}
		if c.outstanding < c.current {
			c.outstanding++
			c.mu.Unlock()
			return nil
		}
		ch := make(chan struct{})
		c.waiters = append(c.waiters, ch)
		c.mu.Unlock()

		select {
		case <-ch:
			continue
		case <-ctx.Done():
			c.removeWaiter(ch)
			return ctx.Err()
		case <-c.stopCh:
			c.removeWaiter(ch)
			return nil
		}
	}
}

// Release returns a permit and records one latency/success sample for the
// current window. Exactly one Release call is required per successful
// Acquire.
func (c *Controller) Release(latency time.Duration, success bool) {
	c.mu.Lock()
	if c.outstanding > 0 {
		c.outstanding--
	}
	c.win.count++
	c.win.latencySum += latency
	if success {
		c.win.successes++
	} else {
		c.win.failures++
	}
	c.wakeLocked(1)
	c.mu.Unlock()
}

// Current returns the current effective concurrency.
func (c *Controller) Current() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// Dispose stops the background sampler and releases any in-flight Acquire
// calls without a permit. Idempotent.
func (c *Controller) Dispose() {
	c.stopOnce.Do(func() { close(c.stopCh) })
	c.wg.Wait()
}

func (c *Controller) removeWaiter(target chan struct{}) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for i, ch := range c.waiters {
		if ch == target {
			c.waiters = append(c.waiters[:i], c.waiters[i+1:]...)
			return
		}
	}
}

// wakeLocked wakes up to n waiters. Must be called with c.mu held.
func (c *Controller) wakeLocked(n int) {
	for i := 0; i < n && len(c.waiters) > 0; i++ {
		ch := c.waiters[0]
		c.waiters = c.waiters[1:]
		close(ch)
	}
}

func (c *Controller) run() {
	defer c.wg.Done()
	ticker := time.NewTicker(c.cfg.SampleInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			c.tick()
		case <-c.stopCh:
			return
		}
	}
}

func (c *Controller) tick() {
	c.mu.Lock()
	if c.win.count == 0 {
		c.mu.Unlock()
		return
	}

	avgLatency := c.win.latencySum / time.Duration(c.win.count)
	total := c.win.successes + c.win.failures
	successRate := 1.0
	if total > 0 {
		successRate = float64(c.win.successes) / float64(total)
	}

	old := c.current
	next := old
	switch {
	case successRate < c.cfg.MinSuccessRate:
		next = decreaseValue(c.cfg.DecreaseStrategy, old)
	case c.cfg.TargetLatency > 0 && avgLatency > c.cfg.TargetLatency:
		next = decreaseValue(c.cfg.DecreaseStrategy, old)
	default:
		next = old + increaseStep(c.cfg.IncreaseStrategy, old, c.windowIndex)
	}
	if next < c.cfg.Min {
		next = c.cfg.Min
	}
	if next > c.cfg.Max {
		next = c.cfg.Max
	}

	c.current = next
	c.windowIndex++
	c.win = window{}

	if freed := next - old; freed > 0 {
		c.wakeLocked(freed)
	}
	hook := c.cfg.OnConcurrencyChange
	c.mu.Unlock()

	if next != old && hook != nil {
		invokeBestEffort(func() { hook(old, next) })
	}
}

func invokeBestEffort(fn func()) {
	defer func() { _ = recover() }()
	fn()
}
