// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard dependencies
// on specific observability backends. Consumers register hooks at startup to
// receive events about the canvas (tiles added and removed, gestures started
// and finished), cache operations, and image source HTTP calls.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// Hooks are registered by main, not by libraries, so the library packages
// stay free of any observability framework.
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCanvasHooks(&myCanvasHooks{})
//	    observability.SetCacheHooks(&myCacheHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Canvas().OnGestureStart(ctx, observability.GestureResize, id)
//	// ... frames ...
//	observability.Canvas().OnGestureEnd(ctx, observability.GestureResize, id, duration, false)
package observability

import (
	"context"
	"sync"
	"time"
)

// Gesture kinds reported to [CanvasHooks].
const (
	GestureDrag   = "drag"
	GestureResize = "resize"
)

// =============================================================================
// Canvas Hooks
// =============================================================================

// CanvasHooks receives events from the tile canvas.
type CanvasHooks interface {
	// Tile lifecycle
	OnTileAdded(ctx context.Context, id, image string)
	OnTileAddFailed(ctx context.Context, err error)
	OnTileRemoved(ctx context.Context, id string)

	// Gesture lifecycle. cancelled is true when the gesture ended without a
	// commit (pointer capture lost, escape key, explicit cancel).
	OnGestureStart(ctx context.Context, kind, id string)
	OnGestureEnd(ctx context.Context, kind, id string, duration time.Duration, cancelled bool)
}

// =============================================================================
// Cache Hooks
// =============================================================================

// CacheHooks receives events from cache operations.
type CacheHooks interface {
	// OnCacheHit records a cache hit.
	OnCacheHit(ctx context.Context, keyType string)

	// OnCacheMiss records a cache miss.
	OnCacheMiss(ctx context.Context, keyType string)

	// OnCacheSet records a cache write.
	OnCacheSet(ctx context.Context, keyType string, size int)
}

// =============================================================================
// HTTP Hooks
// =============================================================================

// HTTPHooks receives events from HTTP client operations.
type HTTPHooks interface {
	// OnRequest records an outgoing HTTP request.
	OnRequest(ctx context.Context, method, host, path string)

	// OnResponse records an HTTP response.
	OnResponse(ctx context.Context, method, host, path string, statusCode int, duration time.Duration)

	// OnError records an HTTP error (network failure, timeout).
	OnError(ctx context.Context, method, host, path string, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCanvasHooks is a no-op implementation of CanvasHooks.
type NoopCanvasHooks struct{}

func (NoopCanvasHooks) OnTileAdded(context.Context, string, string)    {}
func (NoopCanvasHooks) OnTileAddFailed(context.Context, error)         {}
func (NoopCanvasHooks) OnTileRemoved(context.Context, string)          {}
func (NoopCanvasHooks) OnGestureStart(context.Context, string, string) {}
func (NoopCanvasHooks) OnGestureEnd(context.Context, string, string, time.Duration, bool) {
}

// NoopCacheHooks is a no-op implementation of CacheHooks.
type NoopCacheHooks struct{}

func (NoopCacheHooks) OnCacheHit(context.Context, string)      {}
func (NoopCacheHooks) OnCacheMiss(context.Context, string)     {}
func (NoopCacheHooks) OnCacheSet(context.Context, string, int) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	canvasHooks CanvasHooks = NoopCanvasHooks{}
	cacheHooks  CacheHooks  = NoopCacheHooks{}
	httpHooks   HTTPHooks   = NoopHTTPHooks{}
	hooksMu     sync.RWMutex
)

// SetCanvasHooks registers custom canvas hooks.
// This should be called once at application startup before any canvas is used.
func SetCanvasHooks(h CanvasHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		canvasHooks = h
	}
}

// SetCacheHooks registers custom cache hooks.
// This should be called once at application startup before any cache operations.
func SetCacheHooks(h CacheHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		cacheHooks = h
	}
}

// SetHTTPHooks registers custom HTTP hooks.
// This should be called once at application startup before any HTTP operations.
func SetHTTPHooks(h HTTPHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		httpHooks = h
	}
}

// Canvas returns the registered canvas hooks.
func Canvas() CanvasHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return canvasHooks
}

// Cache returns the registered cache hooks.
func Cache() CacheHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return cacheHooks
}

// HTTP returns the registered HTTP hooks.
func HTTP() HTTPHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return httpHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	canvasHooks = NoopCanvasHooks{}
	cacheHooks = NoopCacheHooks{}
	httpHooks = NoopHTTPHooks{}
}
