package retry

import "errors"

// Sentinel errors for retry operations.
var (
	// ErrAttemptTimeout wraps the underlying error when a per-item timeout
	// fires. It is passed through the configured Classifier like any other
	// error; if no Classifier is configured, the attempt is not retried
	// (matching the "is_transient absent => no retries" rule for all error
	// kinds, timeouts included).
	ErrAttemptTimeout = errors.New("retry: attempt timed out")

	// ErrInvalidConfig is returned by Config.Validate for out-of-range fields.
	ErrInvalidConfig = errors.New("retry: invalid configuration")
)
