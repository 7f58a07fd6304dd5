package cache

import (
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

func TestCacheGetPut(t *testing.T) {
	cache := NewResponseCache()

	if _, found := cache.Get("/hello", "GET"); found {
		t.Fatal("expected empty cache to miss")
	}

	rendered := []byte("HTTP/1.1 200 OK\r\nContent-Length: 2\r\nContent-Type: text/html\r\n\r\nhi")
	cache.Put("/hello", "GET", rendered)

	got, found := cache.Get("/hello", "GET")
	if !found {
		t.Fatal("expected hit after Put")
	}
	if string(got) != string(rendered) {
		t.Errorf("expected %q, got %q", rendered, got)
	}
}

func TestCacheKeysIsolateRoutes(t *testing.T) {
	cache := NewResponseCache()

	cache.Put("/a", "GET", []byte("A"))
	cache.Put("/b", "GET", []byte("B"))
	cache.Put("/a", "POST", []byte("C"))

	if got, _ := cache.Get("/a", "GET"); string(got) != "A" {
		t.Errorf("expected A, got %q", got)
	}
	if got, _ := cache.Get("/b", "GET"); string(got) != "B" {
		t.Errorf("expected B, got %q", got)
	}
	if got, _ := cache.Get("/a", "POST"); string(got) != "C" {
		t.Errorf("expected C, got %q", got)
	}
	if cache.Len() != 3 {
		t.Errorf("expected 3 entries, got %d", cache.Len())
	}
}

func TestCacheLegacyMethodKeysCollide(t *testing.T) {
	cache := NewResponseCache(WithLegacyMethodKeys())

	got := cache.GetOrRender("/a", "GET", func() []byte { return []byte("A") })
	if string(got) != "A" {
		t.Fatalf("expected A, got %q", got)
	}

	// Same method, different path: the first rendered response answers.
	got = cache.GetOrRender("/b", "GET", func() []byte { return []byte("B") })
	if string(got) != "A" {
		t.Errorf("expected A for /b under legacy keys, got %q", got)
	}
	if cache.Len() != 1 {
		t.Errorf("expected 1 entry, got %d", cache.Len())
	}
}

func TestCacheGetOrRenderStoresOnce(t *testing.T) {
	cache := NewResponseCache()

	var renders int
	render := func() []byte {
		renders++
		return []byte("body")
	}

	cache.GetOrRender("/x", "GET", render)
	cache.GetOrRender("/x", "GET", render)

	if renders != 1 {
		t.Errorf("expected 1 render, got %d", renders)
	}
}

func TestCacheGetOrRenderCoalesces(t *testing.T) {
	cache := NewResponseCache()

	var renders atomic.Int32
	release := make(chan struct{})
	render := func() []byte {
		renders.Add(1)
		<-release
		return []byte("shared")
	}

	var wg sync.WaitGroup
	results := make([][]byte, 8)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i] = cache.GetOrRender("/slow", "GET", render)
		}()
	}

	// Let every goroutine miss and join the flight before releasing it.
	time.Sleep(50 * time.Millisecond)
	close(release)
	wg.Wait()

	if got := renders.Load(); got != 1 {
		t.Errorf("expected a single render, got %d", got)
	}
	for i, result := range results {
		if string(result) != "shared" {
			t.Errorf("goroutine %d: expected shared body, got %q", i, result)
		}
	}
}

type countingMetrics struct {
	hits   int
	misses int
}

func (metrics *countingMetrics) Hit()  { metrics.hits++ }
func (metrics *countingMetrics) Miss() { metrics.misses++ }

func TestCacheMetrics(t *testing.T) {
	metrics := &countingMetrics{}
	cache := NewResponseCache(WithMetrics(metrics))

	cache.Get("/x", "GET")
	cache.Put("/x", "GET", []byte("X"))
	cache.Get("/x", "GET")
	cache.Get("/x", "GET")

	if metrics.misses != 1 {
		t.Errorf("expected 1 miss, got %d", metrics.misses)
	}
	if metrics.hits != 2 {
		t.Errorf("expected 2 hits, got %d", metrics.hits)
	}
}

func BenchmarkCacheHit(b *testing.B) {
	cache := NewResponseCache()
	cache.Put("/bench", "GET", []byte("cached response bytes"))

	for b.Loop() {
		if _, found := cache.Get("/bench", "GET"); !found {
			b.Fatal("expected hit")
		}
	}
}
