// Package pool implements the WorkerPool from the Rivulet engine design: a
// fixed-size set of cooperative workers pulling items off an input queue,
// delegating each to the retry package, and routing the result onward.
//
// Concurrency is gated by two composed layers: a hard ceiling
// (golang.org/x/sync/semaphore.Weighted, sized to max_degree_of_parallelism)
// that every worker always acquires first, and an optional soft gate
// (adaptive.Controller) acquired second when adaptive concurrency is
// configured. Permits release in the reverse order they were acquired.
// Workers and the lifecycle they drive are orchestrated with
// golang.org/x/sync/errgroup so the first worker error cancels the group.
package pool
