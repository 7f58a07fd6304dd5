package cache

import (
	"sync"

	"golang.org/x/sync/singleflight"
)

// ResponseCache stores fully rendered responses keyed by route. Entries never
// expire and are never evicted, so the table grows no further than the set of
// routes that have been served at least once.
type ResponseCache struct {
	mu         sync.Mutex
	entries    map[string][]byte
	metrics    Metrics
	legacyKeys bool

	// group collapses concurrent renders of the same missing key into one.
	group singleflight.Group
}

// Option configures a ResponseCache.
type Option func(*ResponseCache)

// WithMetrics installs a hit/miss recorder.
func WithMetrics(metrics Metrics) Option {
	return func(cache *ResponseCache) {
		cache.metrics = metrics
	}
}

// WithLegacyMethodKeys keys entries by request method alone instead of by
// (path, method). Every route sharing a method then shares one cached
// response, whichever rendered first. Only for setups that depend on that
// behavior; leave it off otherwise.
func WithLegacyMethodKeys() Option {
	return func(cache *ResponseCache) {
		cache.legacyKeys = true
	}
}

// NewResponseCache returns an empty cache.
func NewResponseCache(options ...Option) *ResponseCache {
	cache := &ResponseCache{
		entries: make(map[string][]byte),
		metrics: NoopMetrics{},
	}

	for _, option := range options {
		option(cache)
	}

	return cache
}

func (cache *ResponseCache) key(path string, method string) string {
	if cache.legacyKeys {
		return method
	}
	return method + " " + path
}

// Get returns the rendered response stored for a route, if any.
func (cache *ResponseCache) Get(path string, method string) ([]byte, bool) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	rendered, found := cache.entries[cache.key(path, method)]
	if found {
		cache.metrics.Hit()
	} else {
		cache.metrics.Miss()
	}

	return rendered, found
}

// Put stores the rendered response for a route, replacing any previous entry.
func (cache *ResponseCache) Put(path string, method string, rendered []byte) {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	cache.entries[cache.key(path, method)] = rendered
}

// GetOrRender returns the cached response for a route, rendering and storing
// it on a miss. Concurrent misses for the same route collapse into a single
// render whose result all callers share.
func (cache *ResponseCache) GetOrRender(path string, method string, render func() []byte) []byte {
	if rendered, found := cache.Get(path, method); found {
		return rendered
	}

	rendered, _, _ := cache.group.Do(cache.key(path, method), func() (any, error) {
		body := render()
		cache.Put(path, method, body)
		return body, nil
	})

	return rendered.([]byte)
}

// Len reports the number of stored entries.
func (cache *ResponseCache) Len() int {
	cache.mu.Lock()
	defer cache.mu.Unlock()

	return len(cache.entries)
}
