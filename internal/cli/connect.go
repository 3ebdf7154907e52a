package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/paylist/internal/config"
	"github.com/aretw0/paylist/pkg/adapters/memory"
	"github.com/aretw0/paylist/pkg/adapters/websocket"
	"github.com/aretw0/paylist/pkg/ports"
)

// Conn is a connection the CLI owns and closes on exit.
type Conn interface {
	ports.Connection
	Close() error
}

// connect opens the upstream connection. Offline mode answers from the built-in
// sample data instead of dialing.
func connect(ctx context.Context, cfg config.Config, offline bool, logger *slog.Logger) (Conn, error) {
	if offline {
		logger.Info("using offline sample data")
		return memory.NewConnection(memory.WithResponder(memory.SampleResponder)), nil
	}

	conn, err := websocket.Dial(ctx, cfg.Endpoint,
		websocket.WithAppID(cfg.AppID),
		websocket.WithLanguage(cfg.Language),
		websocket.WithRateLimit(cfg.RateLimit.RPS, cfg.RateLimit.Burst),
		websocket.WithLogger(logger),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s: %w", cfg.Endpoint, err)
	}
	logger.Info("connected", "endpoint", cfg.Endpoint, "app_id", cfg.AppID)
	return conn, nil
}
