package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/aretw0/paylist/pkg/domain"
)

// ErrNotResponse is returned by Deliver for events a connection cannot carry.
var ErrNotResponse = errors.New("not a connection response")

// Responder produces the inbound events that answer a request.
type Responder func(req domain.Request) []domain.Event

// Connection implements ports.Connection without any network.
// Inbound events are queued without bound, so Deliver and Send never block the caller.
type Connection struct {
	mu        sync.Mutex
	sent      []domain.Request
	pending   []domain.Event
	closed    bool
	responder Responder

	notify chan struct{}
	events chan domain.Event
	done   chan struct{}
}

// ConnectionOption configures a Connection.
type ConnectionOption func(*Connection)

// WithResponder answers every sent request with the responder's events.
func WithResponder(r Responder) ConnectionOption {
	return func(c *Connection) {
		c.responder = r
	}
}

// NewConnection creates an open in-memory connection.
func NewConnection(opts ...ConnectionOption) *Connection {
	c := &Connection{
		notify: make(chan struct{}, 1),
		events: make(chan domain.Event),
		done:   make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}
	go c.pump()
	return c
}

// Send records the request and, if a responder is set, queues its answer.
func (c *Connection) Send(ctx context.Context, req domain.Request) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return domain.ErrConnectionClosed
	}
	c.sent = append(c.sent, req)
	responder := c.responder
	c.mu.Unlock()

	if responder != nil {
		for _, ev := range responder(req) {
			c.enqueue(ev)
		}
	}
	return nil
}

// Events delivers queued inbound events in order.
func (c *Connection) Events() <-chan domain.Event {
	return c.events
}

// Deliver queues an inbound event as if it had arrived from the upstream.
// Only response events are accepted.
func (c *Connection) Deliver(ev domain.Event) error {
	if !ev.IsResponse() {
		return fmt.Errorf("%w: %s", ErrNotResponse, ev.Type)
	}
	if !c.enqueue(ev) {
		return domain.ErrConnectionClosed
	}
	return nil
}

// Sent returns a copy of every request sent so far.
func (c *Connection) Sent() []domain.Request {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]domain.Request, len(c.sent))
	copy(out, c.sent)
	return out
}

// Close stops delivery and closes the Events channel. Queued events are dropped.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true
	close(c.done)
	return nil
}

func (c *Connection) enqueue(ev domain.Event) bool {
	c.mu.Lock()
	if c.closed {
		c.mu.Unlock()
		return false
	}
	c.pending = append(c.pending, ev)
	c.mu.Unlock()

	select {
	case c.notify <- struct{}{}:
	default:
	}
	return true
}

func (c *Connection) pump() {
	defer close(c.events)
	for {
		c.mu.Lock()
		var (
			ev  domain.Event
			has bool
		)
		if len(c.pending) > 0 {
			ev, has = c.pending[0], true
			c.pending = c.pending[1:]
		}
		c.mu.Unlock()

		if !has {
			select {
			case <-c.notify:
				continue
			case <-c.done:
				return
			}
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}
