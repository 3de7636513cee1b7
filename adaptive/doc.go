// Package adaptive implements the AdaptiveController from the Rivulet
// engine design: a permit-bounded gate whose effective concurrency expands
// or contracts based on a periodic sample of attempt latency and success
// rate.
//
// Controller is the soft gate that sits below the WorkerPool's hard
// max_degree_of_parallelism ceiling and never exceeds it (Max is clamped to
// that ceiling at construction). A worker acquires the hard ceiling first,
// then the controller permit, and releases in the reverse order.
package adaptive
