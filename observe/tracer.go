package observe

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	tracenoop "go.opentelemetry.io/otel/trace/noop"
)

// ItemMeta contains metadata about a pipeline item for telemetry purposes.
type ItemMeta struct {
	ID        string   // Fully qualified item ID (pipeline.name or just name)
	Pipeline string   // Pipeline name (may be empty)
	Name      string   // Item name (required)
	Version   string   // Transform version (optional)
	Tags      []string // Discovery tags for discovery (optional)
	Category  string   // Item category (optional)
}

// SpanName returns the deterministic span name for this item.
// Format: item.process.<pipeline>.<name> or item.process.<name>
func (m ItemMeta) SpanName() string {
	if m.Pipeline != "" {
		return "item.process." + m.Pipeline + "." + m.Name
	}
	return "item.process." + m.Name
}

// ItemID returns the fully qualified item identifier.
// If ID field is set, returns it. Otherwise constructs from pipeline and name.
func (m ItemMeta) ItemID() string {
	if m.ID != "" {
		return m.ID
	}
	if m.Pipeline != "" {
		return m.Pipeline + "." + m.Name
	}
	return m.Name
}

// Validate reports ErrMissingItemName when Name is empty.
func (m ItemMeta) Validate() error {
	if m.Name == "" {
		return ErrMissingItemName
	}
	return nil
}

// Tracer wraps OpenTelemetry tracing with per-item span management.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: StartSpan returns a context derived from ctx that carries the new span.
// - Errors: EndSpan must be best-effort and must not panic.
type Tracer interface {
	// StartSpan starts a new span for item processing.
	StartSpan(ctx context.Context, meta ItemMeta) (context.Context, trace.Span)

	// EndSpan ends the span, recording any error.
	EndSpan(span trace.Span, err error)
}

// tracerImpl is the concrete implementation of Tracer.
type tracerImpl struct {
	tracer trace.Tracer
}

// newTracer creates a new Tracer wrapping the given OpenTelemetry tracer.
func newTracer(t trace.Tracer) Tracer {
	return &tracerImpl{tracer: t}
}

// StartSpan starts a new span with item metadata as attributes.
func (t *tracerImpl) StartSpan(ctx context.Context, meta ItemMeta) (context.Context, trace.Span) {
	spanName := meta.SpanName()

	// Build attributes
	attrs := []attribute.KeyValue{
		attribute.String("item.id", meta.ItemID()),
		attribute.String("item.name", meta.Name),
		attribute.Bool("item.error", false), // Will be updated in EndSpan if error
	}

	// Add pipeline if present
	if meta.Pipeline != "" {
		attrs = append(attrs, attribute.String("item.pipeline", meta.Pipeline))
	}

	// Add optional attributes if present
	if meta.Version != "" {
		attrs = append(attrs, attribute.String("item.version", meta.Version))
	}
	if meta.Category != "" {
		attrs = append(attrs, attribute.String("item.category", meta.Category))
	}
	if len(meta.Tags) > 0 {
		attrs = append(attrs, attribute.StringSlice("item.tags", meta.Tags))
	}

	ctx, span := t.tracer.Start(ctx, spanName,
		trace.WithAttributes(attrs...),
		trace.WithSpanKind(trace.SpanKindInternal),
	)

	return ctx, span
}

// EndSpan ends the span and records the error status if present.
func (t *tracerImpl) EndSpan(span trace.Span, err error) {
	if err != nil {
		span.SetStatus(codes.Error, err.Error())
		span.SetAttributes(attribute.Bool("item.error", true))
		span.RecordError(err)
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// noopTracer is a tracer that does nothing.
type noopTracer struct {
	noop trace.Tracer
}

// newNoopTracer creates a no-op tracer.
func newNoopTracer() Tracer {
	return &noopTracer{
		noop: tracenoop.NewTracerProvider().Tracer("noop"),
	}
}

func (t *noopTracer) StartSpan(ctx context.Context, meta ItemMeta) (context.Context, trace.Span) {
	return t.noop.Start(ctx, meta.SpanName())
}

func (t *noopTracer) EndSpan(span trace.Span, err error) {
	span.End()
}
