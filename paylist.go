package paylist

import (
	"context"
	"io"
	"log/slog"

	"github.com/aretw0/paylist/internal/runtime"
	"github.com/aretw0/paylist/pkg/domain"
)

// Version is the current release of paylist.
const Version = "0.3.0"

// Engine is the high-level entry point for the paylist library.
// It wraps the internal runtime and provides a simplified API for consumers.
type Engine struct {
	runtime   *runtime.Engine
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	correlate bool
}

// Option defines a functional option for configuring the Engine.
type Option func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) Option {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets a custom structured logger for the engine.
func WithLogger(logger *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// WithRequestCorrelation only accepts payment-method responses that answer the
// most recent "Get List". Off by default: late responses are accepted as-is.
func WithRequestCorrelation(enabled bool) Option {
	return func(e *Engine) {
		e.correlate = enabled
	}
}

// New initializes a new Engine.
func New(opts ...Option) *Engine {
	eng := &Engine{}
	for _, opt := range opts {
		opt(eng)
	}

	// Ensure logger is initialized (so we don't pass nil to runtime)
	if eng.logger == nil {
		eng.logger = slog.New(slog.NewJSONHandler(io.Discard, nil))
	}

	eng.runtime = runtime.NewEngine(
		runtime.WithLifecycleHooks(eng.hooks),
		runtime.WithLogger(eng.logger),
		runtime.WithRequestCorrelation(eng.correlate),
	)
	return eng
}

// Mount creates the state of a new form and the requests to send right away.
func (e *Engine) Mount(ctx context.Context) (*domain.State, []domain.Request) {
	return e.runtime.Mount(ctx)
}

// Apply processes one event and returns the next state plus the requests to send.
func (e *Engine) Apply(ctx context.Context, state *domain.State, ev domain.Event) (*domain.State, []domain.Request) {
	return e.runtime.Apply(ctx, state, ev)
}

// Render projects the state onto the visible controls.
func (e *Engine) Render(state *domain.State) domain.View {
	return runtime.Render(state)
}
