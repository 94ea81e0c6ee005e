// Package observability provides hooks for metrics, tracing, and logging.
//
// This package enables optional instrumentation without adding hard
// dependencies on specific observability backends. Consumers can register
// hooks at startup to receive events about combine pipeline execution and
// external tool invocations.
//
// # Architecture
//
// The package uses a simple hooks pattern:
//   - Define hook interfaces for different event categories
//   - Provide no-op default implementations
//   - Allow registration of custom implementations at startup
//
// This approach:
//   - Avoids import cycles (hooks are registered by main, not by libraries)
//   - Keeps the core library dependency-free from observability frameworks
//   - Allows different backends (OpenTelemetry, Prometheus, etc.)
//
// # Usage
//
// Register hooks at application startup:
//
//	func main() {
//	    observability.SetCombineHooks(&myCombineHooks{})
//	    // ... run application
//	}
//
// Libraries call hooks to emit events:
//
//	observability.Combine().OnStageStart(ctx, "label", n)
//	// ... run the stage ...
//	observability.Combine().OnStageComplete(ctx, "label", n, duration, err)
package observability

import (
	"context"
	"sync"
	"time"
)

// =============================================================================
// Combine Hooks
// =============================================================================

// CombineHooks receives events from the grid-combine pipeline.
//
// Stages are "label" (per-image label stamping), "append" (per-row horizontal
// concatenation), and "composite" (final vertical concatenation).
type CombineHooks interface {
	// OnToolProbe records the result of probing the external image tool.
	OnToolProbe(ctx context.Context, tool, version string, err error)

	// OnStageStart records the start of a pipeline stage over n inputs.
	OnStageStart(ctx context.Context, stage string, n int)

	// OnStageComplete records completion of a pipeline stage.
	OnStageComplete(ctx context.Context, stage string, n int, duration time.Duration, err error)
}

// =============================================================================
// Tool Hooks
// =============================================================================

// ToolHooks receives events from individual external tool invocations.
type ToolHooks interface {
	// OnInvoke records an external command about to run.
	OnInvoke(ctx context.Context, tool string, args []string)

	// OnResult records the outcome of an external command.
	OnResult(ctx context.Context, tool string, duration time.Duration, err error)
}

// =============================================================================
// No-op Implementations
// =============================================================================

// NoopCombineHooks is a no-op implementation of CombineHooks.
type NoopCombineHooks struct{}

func (NoopCombineHooks) OnToolProbe(context.Context, string, string, error)                 {}
func (NoopCombineHooks) OnStageStart(context.Context, string, int)                          {}
func (NoopCombineHooks) OnStageComplete(context.Context, string, int, time.Duration, error) {}

// NoopToolHooks is a no-op implementation of ToolHooks.
type NoopToolHooks struct{}

func (NoopToolHooks) OnInvoke(context.Context, string, []string)             {}
func (NoopToolHooks) OnResult(context.Context, string, time.Duration, error) {}

// =============================================================================
// Global Hook Registry
// =============================================================================

var (
	combineHooks CombineHooks = NoopCombineHooks{}
	toolHooks    ToolHooks    = NoopToolHooks{}
	hooksMu      sync.RWMutex
)

// SetCombineHooks registers custom combine hooks.
// This should be called once at application startup before any pipeline runs.
func SetCombineHooks(h CombineHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		combineHooks = h
	}
}

// SetToolHooks registers custom tool hooks.
// This should be called once at application startup before any pipeline runs.
func SetToolHooks(h ToolHooks) {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	if h != nil {
		toolHooks = h
	}
}

// Combine returns the registered combine hooks.
func Combine() CombineHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return combineHooks
}

// Tool returns the registered tool hooks.
func Tool() ToolHooks {
	hooksMu.RLock()
	defer hooksMu.RUnlock()
	return toolHooks
}

// Reset restores all hooks to their no-op defaults.
// This is primarily useful for testing.
func Reset() {
	hooksMu.Lock()
	defer hooksMu.Unlock()
	combineHooks = NoopCombineHooks{}
	toolHooks = NoopToolHooks{}
}
