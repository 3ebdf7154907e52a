// Package cli wires configuration, adapters and the engine for the paylist commands.
package cli

import (
	"io"
	"log/slog"

	"github.com/aretw0/paylist/internal/config"
	"github.com/aretw0/paylist/internal/logging"
)

// RunOptions configures `paylist run`.
type RunOptions struct {
	Config    config.Config
	Debug     bool
	JSON      bool
	Offline   bool
	Quiet     bool
	SessionID string

	// Input and Output default to Stdin and Stdout.
	Input  io.Reader
	Output io.Writer
}

// ServeOptions configures `paylist serve` and `paylist mcp`.
type ServeOptions struct {
	Config  config.Config
	Debug   bool
	Offline bool

	// SSE switches `paylist mcp` from stdio to the SSE transport on Config.Server.Addr.
	SSE     bool
	BaseURL string
}

// createLogger configures the application logger.
// Debug forces the debug level; otherwise the configured level applies.
func createLogger(cfg config.Config, debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.New(cfg.Level())
}

// createQuietLogger is used by interactive modes, where only debug output goes to stderr.
func createQuietLogger(debug bool) *slog.Logger {
	if debug {
		return logging.New(slog.LevelDebug)
	}
	return logging.NewNop()
}
