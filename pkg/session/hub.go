package session

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/aretw0/paylist/internal/logging"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/ports"
	"github.com/google/uuid"
)

// route remembers which form a request on the shared connection belongs to.
type route struct {
	formID  string
	localID int64
}

// ViewObserver is told about every visible change of a form.
type ViewObserver func(formID string, before, after domain.View)

// Hub runs many forms over one shared connection.
type Hub struct {
	engine   ports.FormEngine
	sessions *Manager
	conn     ports.Connection
	logger   *slog.Logger
	newID    func() string
	observe  ViewObserver

	mu     sync.Mutex
	wireID int64
	routes map[int64]route
}

// HubOption configures a Hub.
type HubOption func(*Hub)

// WithHubLogger sets the hub logger.
func WithHubLogger(logger *slog.Logger) HubOption {
	return func(h *Hub) {
		h.logger = logger
	}
}

// WithIDGenerator overrides how form IDs are minted.
func WithIDGenerator(fn func() string) HubOption {
	return func(h *Hub) {
		h.newID = fn
	}
}

// WithViewObserver registers fn for view changes caused by Dispatch or by responses.
func WithViewObserver(fn ViewObserver) HubOption {
	return func(h *Hub) {
		h.observe = fn
	}
}

// NewHub creates a Hub. The connection must already be open.
func NewHub(engine ports.FormEngine, sessions *Manager, conn ports.Connection, opts ...HubOption) *Hub {
	h := &Hub{
		engine:   engine,
		sessions: sessions,
		conn:     conn,
		logger:   logging.NewNop(),
		newID:    uuid.NewString,
		routes:   make(map[int64]route),
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

// Mount creates a form and sends its initial requests.
func (h *Hub) Mount(ctx context.Context) (string, domain.View, error) {
	formID := h.newID()
	state, reqs := h.engine.Mount(ctx)
	if err := h.sessions.Create(ctx, formID, state); err != nil {
		return "", domain.View{}, err
	}
	h.logger.Debug("form mounted", "form_id", formID)

	h.send(ctx, formID, reqs)
	return formID, h.engine.Render(state), nil
}

// Dispatch applies a user event to a form and sends whatever it requests.
func (h *Hub) Dispatch(ctx context.Context, formID string, ev domain.Event) (domain.View, error) {
	var (
		reqs   []domain.Request
		before domain.View
	)
	state, err := h.sessions.Update(ctx, formID, func(s *domain.State) (*domain.State, error) {
		before = h.engine.Render(s)
		var next *domain.State
		next, reqs = h.engine.Apply(ctx, s, ev)
		return next, nil
	})
	if err != nil {
		return domain.View{}, err
	}

	view := h.engine.Render(state)
	if h.observe != nil && domain.Diff(&before, &view) != nil {
		h.observe(formID, before, view)
	}
	h.send(ctx, formID, reqs)
	return view, nil
}

// View renders the current state of a form.
func (h *Hub) View(ctx context.Context, formID string) (domain.View, error) {
	state, err := h.sessions.Load(ctx, formID)
	if err != nil {
		return domain.View{}, err
	}
	return h.engine.Render(state), nil
}

// Forms lists the mounted form IDs.
func (h *Hub) Forms(ctx context.Context) ([]string, error) {
	return h.sessions.List(ctx)
}

// Unmount discards a form. Responses still in flight for it are dropped.
func (h *Hub) Unmount(ctx context.Context, formID string) error {
	if _, err := h.sessions.Load(ctx, formID); err != nil {
		return err
	}
	if err := h.sessions.Delete(ctx, formID); err != nil {
		return err
	}

	h.mu.Lock()
	for id, r := range h.routes {
		if r.formID == formID {
			delete(h.routes, id)
		}
	}
	h.mu.Unlock()

	h.logger.Debug("form unmounted", "form_id", formID)
	return nil
}

// Listen routes connection events to their forms until ctx is done or the
// connection closes, in which case it returns domain.ErrConnectionClosed.
func (h *Hub) Listen(ctx context.Context) error {
	events := h.conn.Events()
	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-events:
			if !ok {
				return domain.ErrConnectionClosed
			}
			h.deliver(ctx, ev)
		}
	}
}

func (h *Hub) deliver(ctx context.Context, ev domain.Event) {
	h.mu.Lock()
	r, ok := h.routes[ev.RequestID]
	if ok {
		delete(h.routes, ev.RequestID)
	}
	h.mu.Unlock()

	if !ok {
		h.logger.Debug("dropping response without a form", "type", ev.Type, "req_id", ev.RequestID)
		return
	}

	ev.RequestID = r.localID
	_, err := h.Dispatch(ctx, r.formID, ev)
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		h.logger.Debug("response for unmounted form", "form_id", r.formID)
	case err != nil:
		h.logger.Warn("failed to apply response", "form_id", r.formID, "err", err)
	}
}

// send rewrites each request ID to a connection-wide one before sending.
// Failures are logged only: the form just never receives an answer.
func (h *Hub) send(ctx context.Context, formID string, reqs []domain.Request) {
	for _, req := range reqs {
		h.mu.Lock()
		h.wireID++
		wire := h.wireID
		h.routes[wire] = route{formID: formID, localID: req.ID}
		h.mu.Unlock()

		out := req
		out.ID = wire
		if err := h.conn.Send(ctx, out); err != nil {
			h.mu.Lock()
			delete(h.routes, wire)
			h.mu.Unlock()
			h.logger.Warn("send failed", "form_id", formID, "type", req.Type, "err", err)
		}
	}
}
