// Package reorder restores source order from a stream of (index, value)
// pairs that may arrive out of order because of concurrent processing
// upstream.
//
// A Buffer is active only when a pipeline is configured with
// ordered_output = true. It tracks the next index it expects to emit and
// holds everything that arrived early in a small deferred map, draining it
// as the gap closes.
package reorder
