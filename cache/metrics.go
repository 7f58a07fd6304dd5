package cache

// Metrics receives cache lookup events. telemetry.NewCacheMetrics returns an
// implementation backed by OpenTelemetry counters.
type Metrics interface {
	Hit()
	Miss()
}

// NoopMetrics discards all events.
type NoopMetrics struct{}

func (NoopMetrics) Hit()  {}
func (NoopMetrics) Miss() {}
