// Package observability provides hooks for metrics, tracing, and logging.
//
// Consumers register hooks at startup to receive events about push runs and
// CyREST calls, without the libraries depending on a specific backend.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetPushHooks(&myPushHooks{})
//	    observability.SetHTTPHooks(&myHTTPHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Push().OnStepStart(ctx, runID, "network-created")
//	// ... call CyREST ...
//	observability.Push().OnStepComplete(ctx, runID, "network-created", duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Push Hooks
// =============================================================================

// PushHooks receives events from the push pipeline.
type PushHooks interface {
	// OnFilter reports the outcome of the containment filter.
	OnFilter(ctx context.Context, runID, target string, nodeCount, edgeCount int)

	// Step events, one pair per state transition.
	OnStepStart(ctx context.Context, runID, step string)
	OnStepComplete(ctx context.Context, runID, step string, duration time.Duration, err error)
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

// NoopPushHooks is a no-op implementation of PushHooks.
type NoopPushHooks struct{}

func (NoopPushHooks) OnFilter(context.Context, string, string, int, int)                   {}
func (NoopPushHooks) OnStepStart(context.Context, string, string)                          {}
func (NoopPushHooks) OnStepComplete(context.Context, string, string, time.Duration, error) {}

// NoopHTTPHooks is a no-op implementation of HTTPHooks.
type NoopHTTPHooks struct{}

func (NoopHTTPHooks) OnRequest(context.Context, string, string, string)                      {}
func (NoopHTTPHooks) OnResponse(context.Context, string, string, string, int, time.Duration) {}
func (NoopHTTPHooks) OnError(context.Context, string, string, string, error)                 {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	pushHooks PushHooks = NoopPushHooks{}
	httpHooks HTTPHooks = NoopHTTPHooks{}
	hooksMu   sync.RWMutex
)

// SetPushHooks registers custom push hooks.
// This should be called once at application startup before any push runs.
func SetPushHooks(h PushHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		pushHooks = h
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

// Push returns the registered push hooks.
func Push() PushHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return pushHooks
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
	pushHooks = NoopPushHooks{}
	httpHooks = NoopHTTPHooks{}
}
