package retry

// Classifier decides whether a failed attempt is eligible for retry. A nil
// Classifier means "no retries": the first failure is terminal, matching
// the is_transient option's documented default (absent => no retries).
type Classifier func(err error) bool

// AlwaysTransient treats every error as retryable. Useful in tests and for
// callers who want unconditional retry up to MaxRetries.
func AlwaysTransient(error) bool { return true }

// NeverTransient treats every error as terminal, equivalent to leaving
// Classifier nil but useful when a caller wants to be explicit.
func NeverTransient(error) bool { return false }
