// Package retry implements the per-item attempt state machine described as
// the RetryEngine in the Rivulet engine design: one transform attempt, with
// an optional per-item timeout, classified and retried with backoff, and
// ultimately resolved into a Success, Fallback, Failure, or Cancelled
// Outcome.
//
// Backoff delay generation for the Exponential, ExponentialJitter, and
// Constant strategies is delegated to github.com/cenkalti/backoff/v5's
// BackOff implementations; Linear is a small adapter satisfying the same
// interface. Engine-level concerns the library does not have an opinion on
// — transient-error classification, per-attempt hooks, fallback values, and
// distinguishing engine cancellation from a per-item timeout — are owned by
// Run.
package retry
