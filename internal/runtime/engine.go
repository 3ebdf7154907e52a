package runtime

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/aretw0/paylist/pkg/domain"
)

// Engine is the workflow controller of the payment-method form.
// It is stateless: every call receives the current State and returns the next one,
// so a host may keep one State per mounted form.
type Engine struct {
	hooks     domain.LifecycleHooks
	logger    *slog.Logger
	correlate bool
	now       func() time.Time
}

// EngineOption configures the Engine.
type EngineOption func(*Engine)

// WithLifecycleHooks registers observability hooks.
func WithLifecycleHooks(hooks domain.LifecycleHooks) EngineOption {
	return func(e *Engine) {
		e.hooks = hooks
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithRequestCorrelation makes the engine accept a payment-methods response only
// when it answers the most recent Fetch.
func WithRequestCorrelation(enabled bool) EngineOption {
	return func(e *Engine) {
		e.correlate = enabled
	}
}

// WithClock overrides the time source used for hook timestamps.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		e.now = now
	}
}

// NewEngine creates a new engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
		now:    time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Mount creates the Idle state of a new form and the single "list countries" request.
func (e *Engine) Mount(ctx context.Context) (*domain.State, []domain.Request) {
	state := domain.NewState()
	req := e.nextRequest(state, domain.RequestListCountries, "")
	e.logger.Debug("form mounted", "req_id", req.ID)
	e.emitRequest(ctx, req)
	return state, []domain.Request{req}
}

// Apply processes one event to completion and returns the next state together with
// the requests the host must send. Events that are not valid in the current phase
// are ignored: the returned state equals the input and no request is issued.
func (e *Engine) Apply(ctx context.Context, state *domain.State, ev domain.Event) (*domain.State, []domain.Request) {
	if state == nil {
		state = domain.NewState()
	}

	var (
		next     *domain.State
		requests []domain.Request
		ok       bool
	)

	switch ev.Type {
	case domain.EventCountriesReceived:
		next, ok = e.onCountries(state, ev)
	case domain.EventCountrySelected:
		next, ok = e.onSelect(state, ev)
	case domain.EventFetchClicked:
		next, requests, ok = e.onFetch(state)
	case domain.EventClearClicked:
		next, ok = e.onClear(state)
	case domain.EventMethodsReceived:
		next, ok = e.onMethods(state, ev)
	}

	if !ok {
		e.emitIgnored(ctx, state, ev)
		return state.Clone(), nil
	}

	e.emitTransition(ctx, state, next, ev)
	for _, req := range requests {
		e.emitRequest(ctx, req)
	}
	return next, requests
}

func (e *Engine) onCountries(state *domain.State, ev domain.Event) (*domain.State, bool) {
	if state.Phase != domain.PhaseIdle {
		return nil, false
	}

	next := state.Clone()
	next.Countries = make([]domain.Country, 0, len(ev.Countries)+1)
	next.Countries = append(next.Countries, domain.Placeholder())
	for _, c := range ev.Countries {
		// The empty value is reserved for the placeholder.
		if c.IsPlaceholder() {
			e.logger.Debug("dropping country without code", "label", c.Label)
			continue
		}
		next.Countries = append(next.Countries, c)
	}
	next.Selection = domain.Selection{}
	next.Phase = domain.PhaseCountriesLoaded
	return next, true
}

func (e *Engine) onSelect(state *domain.State, ev domain.Event) (*domain.State, bool) {
	if state.Phase == domain.PhaseIdle {
		return nil, false
	}

	// Picking the placeholder behaves like Clear.
	if ev.Value == "" {
		return e.onClear(state)
	}

	if !state.HasCountry(ev.Value) {
		return nil, false
	}
	if state.Selection.Active() && state.Selection.Value == ev.Value {
		return nil, false
	}

	next := state.Clone()
	next.Selection = domain.Selected(ev.Value)
	next.PendingFetch = 0
	next.Phase = domain.PhaseCountrySelected
	return next, true
}

func (e *Engine) onFetch(state *domain.State) (*domain.State, []domain.Request, bool) {
	if !state.Selection.Active() {
		return nil, nil, false
	}

	next := state.Clone()
	req := e.nextRequest(next, domain.RequestListPaymentMethods, next.Selection.Value)
	next.PendingFetch = req.ID
	return next, []domain.Request{req}, true
}

func (e *Engine) onClear(state *domain.State) (*domain.State, bool) {
	if !state.Selection.Active() {
		return nil, false
	}

	next := state.Clone()
	next.Selection = domain.Selection{}
	next.Methods = nil
	next.MethodsLoaded = false
	next.PendingFetch = 0
	next.Phase = domain.PhaseCountriesLoaded
	return next, true
}

func (e *Engine) onMethods(state *domain.State, ev domain.Event) (*domain.State, bool) {
	if !state.Selection.Active() {
		return nil, false
	}
	if e.correlate && (state.PendingFetch == 0 || ev.RequestID != state.PendingFetch) {
		e.logger.Debug("dropping uncorrelated payment methods",
			"req_id", ev.RequestID,
			"pending", state.PendingFetch,
		)
		return nil, false
	}

	next := state.Clone()
	next.Methods = domain.CloneMethods(ev.Methods)
	if next.Methods == nil {
		next.Methods = []domain.PaymentMethod{}
	}
	next.MethodsLoaded = true
	next.Phase = domain.PhaseMethodsLoaded
	return next, true
}

// nextRequest allocates the next request id on state.
func (e *Engine) nextRequest(state *domain.State, typ domain.RequestType, country string) domain.Request {
	state.LastRequestID++
	return domain.Request{
		Type:    typ,
		Country: country,
		ID:      state.LastRequestID,
	}
}

func (e *Engine) emitTransition(ctx context.Context, from, to *domain.State, ev domain.Event) {
	if e.hooks.OnTransition != nil {
		e.hooks.OnTransition(ctx, &domain.TransitionEvent{
			Timestamp: e.now(),
			Event:     ev.Type,
			From:      from.Phase,
			To:        to.Phase,
		})
	}
}

func (e *Engine) emitIgnored(ctx context.Context, state *domain.State, ev domain.Event) {
	if e.hooks.OnIgnored != nil {
		e.hooks.OnIgnored(ctx, &domain.TransitionEvent{
			Timestamp: e.now(),
			Event:     ev.Type,
			From:      state.Phase,
			To:        state.Phase,
		})
	}
}

func (e *Engine) emitRequest(ctx context.Context, req domain.Request) {
	if e.hooks.OnRequest != nil {
		e.hooks.OnRequest(ctx, &domain.RequestEvent{
			Timestamp: e.now(),
			Request:   req,
		})
	}
}
