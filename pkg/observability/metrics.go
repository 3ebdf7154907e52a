package observability

import (
	"context"
	"log/slog"

	"github.com/aretw0/paylist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the controller counters.
type Metrics struct {
	Transitions *prometheus.CounterVec
	Ignored     *prometheus.CounterVec
	Requests    *prometheus.CounterVec
}

// NewMetrics creates the counters and registers them on reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Transitions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paylist_transitions_total",
				Help: "Events accepted by the form controller",
			},
			[]string{"event", "from", "to"},
		),
		Ignored: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paylist_ignored_events_total",
				Help: "Events dropped because they are not valid in the current phase",
			},
			[]string{"event", "phase"},
		),
		Requests: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "paylist_requests_total",
				Help: "Outbound requests emitted by the form controller",
			},
			[]string{"type"},
		),
	}
	reg.MustRegister(m.Transitions, m.Ignored, m.Requests)
	return m
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(_ context.Context, e *domain.TransitionEvent) {
			m.Transitions.WithLabelValues(string(e.Event), string(e.From), string(e.To)).Inc()
		},
		OnIgnored: func(_ context.Context, e *domain.TransitionEvent) {
			m.Ignored.WithLabelValues(string(e.Event), string(e.From)).Inc()
		},
		OnRequest: func(_ context.Context, e *domain.RequestEvent) {
			m.Requests.WithLabelValues(string(e.Request.Type)).Inc()
		},
	}
}

// LogHooks returns lifecycle hooks that log every callback at debug level.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "transition", "event", e.Event, "from", e.From, "to", e.To)
		},
		OnIgnored: func(ctx context.Context, e *domain.TransitionEvent) {
			logger.DebugContext(ctx, "event ignored", "event", e.Event, "phase", e.From)
		},
		OnRequest: func(ctx context.Context, e *domain.RequestEvent) {
			logger.DebugContext(ctx, "request", "type", e.Request.Type, "country", e.Request.Country, "req_id", e.Request.ID)
		},
	}
}

// Combine fans each callback out to every non-nil hook in order.
func Combine(all ...domain.LifecycleHooks) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnTransition: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range all {
				if h.OnTransition != nil {
					h.OnTransition(ctx, e)
				}
			}
		},
		OnIgnored: func(ctx context.Context, e *domain.TransitionEvent) {
			for _, h := range all {
				if h.OnIgnored != nil {
					h.OnIgnored(ctx, e)
				}
			}
		},
		OnRequest: func(ctx context.Context, e *domain.RequestEvent) {
			for _, h := range all {
				if h.OnRequest != nil {
					h.OnRequest(ctx, e)
				}
			}
		},
	}
}
