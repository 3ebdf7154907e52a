package runner

import (
	"log/slog"

	"github.com/aretw0/paylist/pkg/ports"
)

// Option defines a functional option for configuring the Runner.
type Option func(*Runner)

// WithEngine configures the form engine. Required.
func WithEngine(engine ports.FormEngine) Option {
	return func(r *Runner) {
		r.engine = engine
	}
}

// WithConnection configures the open upstream connection. Required.
func WithConnection(conn ports.Connection) Option {
	return func(r *Runner) {
		r.conn = conn
	}
}

// WithStore snapshots the form state after every step.
func WithStore(store ports.StateStore) Option {
	return func(r *Runner) {
		r.Store = store
	}
}

// WithSessionID names the snapshot kept in the store.
// This is required if WithStore is used.
func WithSessionID(id string) Option {
	return func(r *Runner) {
		r.SessionID = id
	}
}

// WithLogger configures the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Runner) {
		r.Logger = logger
	}
}

// WithInputHandler configures a custom IOHandler.
func WithInputHandler(handler IOHandler) Option {
	return func(r *Runner) {
		r.Handler = handler
	}
}

// WithRenderer configures the content renderer used by the default TextHandler.
func WithRenderer(renderer ContentRenderer) Option {
	return func(r *Runner) {
		r.Renderer = renderer
	}
}
