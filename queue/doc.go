// Package queue implements the bounded FIFO that sits between the producer,
// the worker pool, and the consumer of a Rivulet pipeline.
//
// A Queue[T] is a single-producer/multi-consumer channel wrapper: writers
// suspend while the queue is full, readers suspend while it is empty, and a
// one-time close drains any buffered items before readers observe the queue
// as closed. The zero value is not usable; construct with New.
package queue
