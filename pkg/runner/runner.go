package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"

	"github.com/aretw0/paylist/internal/logging"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/ports"
)

// ErrNotConfigured is returned by Run when the engine or connection is missing.
var ErrNotConfigured = errors.New("runner requires an engine and a connection")

// Runner handles the event loop of a single form using the provided IO.
// It uses an IOHandler strategy to abstract the interaction mode (Text vs JSON).
type Runner struct {
	// Handler is the strategy for IO. Defaults to a TextHandler on Stdin/Stdout.
	Handler IOHandler

	// Logger is used for internal debug logging.
	Logger *slog.Logger

	// Store, when set, receives a snapshot of the state under SessionID after every step.
	Store     ports.StateStore
	SessionID string

	// Renderer is applied by the default TextHandler.
	Renderer ContentRenderer

	engine ports.FormEngine
	conn   ports.Connection
	state  *domain.State
}

// NewRunner creates a Runner.
func NewRunner(opts ...Option) *Runner {
	r := &Runner{
		Logger: logging.NewNop(),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// State returns the last state reached by Run.
func (r *Runner) State() *domain.State {
	return r.state
}

// Run mounts the form and processes commands and connection events one at a time
// until the user quits, input ends, or ctx is cancelled. It returns
// domain.ErrConnectionClosed if the upstream goes away first.
func (r *Runner) Run(ctx context.Context) error {
	if r.engine == nil || r.conn == nil {
		return ErrNotConfigured
	}
	handler := r.resolveHandler()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	state, reqs := r.engine.Mount(ctx)
	if err := r.commit(ctx, state, reqs); err != nil {
		return err
	}
	view := r.engine.Render(state)
	if err := handler.Output(ctx, view); err != nil {
		return fmt.Errorf("output error: %w", err)
	}

	inputs, stopInput := r.pumpInput(ctx, handler)
	defer func() {
		cancel()
		stopInput()
	}()
	events := r.conn.Events()

	for {
		var ev domain.Event

		select {
		case <-ctx.Done():
			return nil

		case in, ok := <-inputs:
			if !ok {
				return nil
			}
			if in.err != nil {
				if errors.Is(in.err, domain.ErrUnknownCommand) {
					if err := handler.SystemOutput(ctx, fmt.Sprintf("Error: %v", in.err)); err != nil {
						return fmt.Errorf("output error: %w", err)
					}
					continue
				}
				if errors.Is(in.err, io.EOF) || ctx.Err() != nil {
					return nil
				}
				return fmt.Errorf("input error: %w", in.err)
			}

			switch in.cmd.Action {
			case ActionQuit:
				return nil
			case ActionView:
				if err := handler.Output(ctx, view); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			case ActionList:
				if err := handler.SystemOutput(ctx, FormatOptions(view)); err != nil {
					return fmt.Errorf("output error: %w", err)
				}
				continue
			}
			ev, _ = in.cmd.Event()

		case e, ok := <-events:
			if !ok {
				r.Logger.Warn("connection closed")
				_ = handler.SystemOutput(ctx, "Connection closed.")
				return domain.ErrConnectionClosed
			}
			ev = e
		}

		state, reqs = r.engine.Apply(ctx, state, ev)
		if err := r.commit(ctx, state, reqs); err != nil {
			return err
		}

		next := r.engine.Render(state)
		if domain.Diff(&view, &next) != nil {
			if err := handler.Output(ctx, next); err != nil {
				return fmt.Errorf("output error: %w", err)
			}
		}
		view = next
	}
}

// commit records the state and sends requests. Send failures are logged and
// otherwise ignored: the form simply never sees an answer.
func (r *Runner) commit(ctx context.Context, state *domain.State, reqs []domain.Request) error {
	r.state = state

	if r.Store != nil && r.SessionID != "" {
		if err := r.Store.Save(ctx, r.SessionID, state); err != nil {
			return fmt.Errorf("critical persistence error: %w", err)
		}
		r.Logger.Debug("state saved", "session_id", r.SessionID, "phase", state.Phase)
	}

	for _, req := range reqs {
		if err := r.conn.Send(ctx, req); err != nil {
			r.Logger.Warn("send failed", "type", req.Type, "req_id", req.ID, "err", err)
		}
	}
	return nil
}

type commandResult struct {
	cmd Command
	err error
}

// pumpInput reads commands on a separate goroutine so the loop can also wait on events.
// The returned func blocks until the goroutine has exited; ctx must be cancelled first.
func (r *Runner) pumpInput(ctx context.Context, handler IOHandler) (<-chan commandResult, func()) {
	ch := make(chan commandResult)
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(ch)
		for {
			cmd, err := handler.Input(ctx)
			select {
			case ch <- commandResult{cmd: cmd, err: err}:
			case <-ctx.Done():
				return
			}
			if err != nil && !errors.Is(err, domain.ErrUnknownCommand) {
				return
			}
			if err == nil && cmd.Action == ActionQuit {
				return
			}
		}
	}()
	return ch, wg.Wait
}

// resolveHandler ensures a valid IOHandler is set.
func (r *Runner) resolveHandler() IOHandler {
	if r.Handler != nil {
		return r.Handler
	}
	r.Handler = NewTextHandler(os.Stdin, os.Stdout, WithTextHandlerRenderer(r.Renderer))
	return r.Handler
}
