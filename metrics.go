package rivulet

// MetricSink is an optional capability: a pipeline that is given one
// increments these counters as it runs. Implementations expose them via
// whichever observability convention is idiomatic; the observe package
// provides an OpenTelemetry-backed one.
type MetricSink interface {
	ItemsStarted()
	ItemsCompleted()
	TotalRetries()
	TotalFailures()
	ThrottleEvents()
	DrainEvents()
}

// noopMetricSink discards every counter. Used when Options.MetricSink is
// nil so the pipeline's hot path never has to check for a nil sink.
type noopMetricSink struct{}

func (noopMetricSink) ItemsStarted()   {}
func (noopMetricSink) ItemsCompleted() {}
func (noopMetricSink) TotalRetries()   {}
func (noopMetricSink) TotalFailures()  {}
func (noopMetricSink) ThrottleEvents() {}
func (noopMetricSink) DrainEvents()    {}
