package telemetry

import (
	"context"

	"go.opentelemetry.io/otel/metric"
)

// CacheMetrics counts response cache hits and misses on an OpenTelemetry
// meter. It satisfies cache.Metrics.
type CacheMetrics struct {
	hits   metric.Int64Counter
	misses metric.Int64Counter
}

func NewCacheMetrics(meter metric.Meter) (*CacheMetrics, error) {
	hits, err := meter.Int64Counter("serveme.cache.hits",
		metric.WithDescription("Responses served from the cache"),
		metric.WithUnit("{response}"))
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter("serveme.cache.misses",
		metric.WithDescription("Responses rendered on a cache miss"),
		metric.WithUnit("{response}"))
	if err != nil {
		return nil, err
	}

	return &CacheMetrics{hits: hits, misses: misses}, nil
}

func (metrics *CacheMetrics) Hit()  { metrics.hits.Add(context.Background(), 1) }
func (metrics *CacheMetrics) Miss() { metrics.misses.Add(context.Background(), 1) }
