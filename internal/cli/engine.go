package cli

import (
	"log/slog"

	"github.com/aretw0/paylist"
	"github.com/aretw0/paylist/internal/config"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/observability"
	"github.com/prometheus/client_golang/prometheus"
)

// createEngine builds the form engine with logging hooks and, when reg is not nil,
// prometheus metrics.
func createEngine(cfg config.Config, logger *slog.Logger, reg prometheus.Registerer) *paylist.Engine {
	hooks := []domain.LifecycleHooks{observability.LogHooks(logger)}
	if reg != nil {
		hooks = append(hooks, observability.NewMetrics(reg).Hooks())
	}

	return paylist.New(
		paylist.WithLogger(logger),
		paylist.WithLifecycleHooks(observability.Combine(hooks...)),
		paylist.WithRequestCorrelation(cfg.CorrelateRequests),
	)
}
