package rivulet

import (
	"errors"
	"strconv"
)

// Sentinel errors for the Rivulet engine.
var (
	// ErrInvalidOptions is returned by a pipeline operation synchronously,
	// before any work starts, when Options fails validation.
	ErrInvalidOptions = errors.New("rivulet: invalid options")

	// ErrSourceEnumeration wraps a panic or error raised by the source
	// sequence itself. Always fatal to the pipeline.
	ErrSourceEnumeration = errors.New("rivulet: source enumeration failed")

	// ErrCancelled marks the pipeline's own cancellation token having
	// fired, distinct from any transform failure. Cancellation takes
	// precedence over any aggregated failures collected before it.
	ErrCancelled = errors.New("rivulet: pipeline cancelled")
)

// CompositeError aggregates every per-item failure collected under
// CollectAndContinue, or under BestEffort when on_error_async returns true.
type CompositeError struct {
	// Errors holds one ItemError per failed item, in the order it was
	// observed by the aggregator (not necessarily source order).
	Errors []ItemError
}

// ItemError pairs a source index with the error that failed it.
type ItemError struct {
	Index int64
	Err   error
}

func (e *CompositeError) Error() string {
	if len(e.Errors) == 0 {
		return "rivulet: composite error with no recorded failures"
	}
	if len(e.Errors) == 1 {
		return "rivulet: 1 item failed: " + e.Errors[0].Err.Error()
	}
	return "rivulet: " + strconv.Itoa(len(e.Errors)) + " items failed (first: " + e.Errors[0].Err.Error() + ")"
}

// Unwrap exposes every inner error so errors.Is/errors.As can traverse the
// aggregate, matching the "named sentinel + detail struct" idiom used
// elsewhere in this module.
func (e *CompositeError) Unwrap() []error {
	errs := make([]error, len(e.Errors))
	for i, ie := range e.Errors {
		errs[i] = ie.Err
	}
	return errs
}
