package observe

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// RivuletMetricSink adapts an OpenTelemetry meter to the root package's
// MetricSink interface (ItemsStarted/ItemsCompleted/TotalRetries/
// TotalFailures/ThrottleEvents/DrainEvents, each a no-arg method), so a
// pipeline's aggregate counters are exported the same way item-level
// execution metrics are. It satisfies that interface structurally; this
// package does not import the root package, since the root package imports
// this one for Logger.
type RivuletMetricSink struct {
	ctx context.Context

	itemsStarted   metric.Int64Counter
	itemsCompleted metric.Int64Counter
	retries        metric.Int64Counter
	failures       metric.Int64Counter
	throttles      metric.Int64Counter
	drains         metric.Int64Counter
}

// NewRivuletMetricSink builds a RivuletMetricSink from meter. The returned
// sink's methods take no context (to satisfy rivulet.MetricSink's no-arg
// signature), so ctx is fixed at construction and used for every Add call;
// pass context.Background() unless the meter's exporter needs something
// more specific.
func NewRivuletMetricSink(ctx context.Context, meter metric.Meter) (*RivuletMetricSink, error) {
	itemsStarted, err := meter.Int64Counter("rivulet.items.started",
		metric.WithDescription("Total items dequeued from the source"),
		metric.WithUnit("{item}"))
	if err != nil {
		return nil, err
	}
	itemsCompleted, err := meter.Int64Counter("rivulet.items.completed",
		metric.WithDescription("Total items that produced an output value (success or fallback)"),
		metric.WithUnit("{item}"))
	if err != nil {
		return nil, err
	}
	retries, err := meter.Int64Counter("rivulet.retries.total",
		metric.WithDescription("Total retry attempts across all items"),
		metric.WithUnit("{retry}"))
	if err != nil {
		return nil, err
	}
	failures, err := meter.Int64Counter("rivulet.failures.total",
		metric.WithDescription("Total items that exhausted retries or were dropped"),
		metric.WithUnit("{failure}"))
	if err != nil {
		return nil, err
	}
	throttles, err := meter.Int64Counter("rivulet.throttle.events",
		metric.WithDescription("Total backpressure/throttle events observed"),
		metric.WithUnit("{event}"))
	if err != nil {
		return nil, err
	}
	drains, err := meter.Int64Counter("rivulet.drain.events",
		metric.WithDescription("Total pipeline drain completions"),
		metric.WithUnit("{event}"))
	if err != nil {
		return nil, err
	}

	return &RivuletMetricSink{
		ctx:            ctx,
		itemsStarted:   itemsStarted,
		itemsCompleted: itemsCompleted,
		retries:        retries,
		failures:       failures,
		throttles:      throttles,
		drains:         drains,
	}, nil
}

func (s *RivuletMetricSink) ItemsStarted()   { s.itemsStarted.Add(s.ctx, 1) }
func (s *RivuletMetricSink) ItemsCompleted() { s.itemsCompleted.Add(s.ctx, 1) }
func (s *RivuletMetricSink) TotalRetries()   { s.retries.Add(s.ctx, 1) }
func (s *RivuletMetricSink) TotalFailures()  { s.failures.Add(s.ctx, 1) }
func (s *RivuletMetricSink) ThrottleEvents() { s.throttles.Add(s.ctx, 1) }
func (s *RivuletMetricSink) DrainEvents()    { s.drains.Add(s.ctx, 1) }
