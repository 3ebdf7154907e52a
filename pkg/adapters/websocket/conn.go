// Package websocket implements ports.Connection over a persistent websocket
// to a Deriv-style upstream.
package websocket

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/url"
	"sync"
	"time"

	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/protocol"
	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"
)

// DefaultEndpoint is the public Deriv websocket API.
const DefaultEndpoint = "wss://ws.derivws.com/websockets/v3"

// DefaultAppID is the public demo application id.
const DefaultAppID = "1089"

// Conn is a live websocket connection.
// Sends are serialized and paced by a token bucket; inbound frames are decoded
// by a single reader goroutine and delivered on Events.
type Conn struct {
	ws      *websocket.Conn
	logger  *slog.Logger
	limiter *rate.Limiter

	writeTimeout time.Duration

	writeMu sync.Mutex
	events  chan domain.Event

	closeOnce sync.Once
	done      chan struct{}
}

type config struct {
	appID        string
	language     string
	logger       *slog.Logger
	dialer       *websocket.Dialer
	limit        rate.Limit
	burst        int
	writeTimeout time.Duration
}

// Option configures Dial.
type Option func(*config)

// WithAppID sets the app_id query parameter.
func WithAppID(id string) Option {
	return func(c *config) { c.appID = id }
}

// WithLanguage sets the l query parameter.
func WithLanguage(lang string) Option {
	return func(c *config) { c.language = lang }
}

// WithLogger sets the logger for dropped frames and read errors.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) { c.logger = l }
}

// WithRateLimit paces outbound frames. rps <= 0 disables pacing.
func WithRateLimit(rps float64, burst int) Option {
	return func(c *config) {
		if rps <= 0 {
			c.limit = rate.Inf
		} else {
			c.limit = rate.Limit(rps)
		}
		if burst < 1 {
			burst = 1
		}
		c.burst = burst
	}
}

// WithDialer overrides the websocket dialer.
func WithDialer(d *websocket.Dialer) Option {
	return func(c *config) { c.dialer = d }
}

// Dial connects to endpoint and starts reading.
func Dial(ctx context.Context, endpoint string, opts ...Option) (*Conn, error) {
	cfg := config{
		appID:        DefaultAppID,
		language:     "EN",
		logger:       slog.New(slog.NewTextHandler(io.Discard, nil)),
		dialer:       websocket.DefaultDialer,
		limit:        rate.Limit(5),
		burst:        5,
		writeTimeout: 10 * time.Second,
	}
	for _, opt := range opts {
		opt(&cfg)
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return nil, fmt.Errorf("invalid endpoint %q: %w", endpoint, err)
	}
	q := u.Query()
	if cfg.appID != "" {
		q.Set("app_id", cfg.appID)
	}
	if cfg.language != "" {
		q.Set("l", cfg.language)
	}
	u.RawQuery = q.Encode()

	ws, _, err := cfg.dialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to dial %s: %w", u.Redacted(), err)
	}

	c := &Conn{
		ws:           ws,
		logger:       cfg.logger,
		limiter:      rate.NewLimiter(cfg.limit, cfg.burst),
		writeTimeout: cfg.writeTimeout,
		events:       make(chan domain.Event, 16),
		done:         make(chan struct{}),
	}
	go c.readLoop()
	return c, nil
}

// Send encodes req and writes it as one text frame.
func (c *Conn) Send(ctx context.Context, req domain.Request) error {
	select {
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
	}

	payload, err := protocol.Encode(req)
	if err != nil {
		return err
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if err := c.ws.SetWriteDeadline(time.Now().Add(c.writeTimeout)); err != nil {
		return c.writeErr(err)
	}
	if err := c.ws.WriteMessage(websocket.TextMessage, payload); err != nil {
		return c.writeErr(err)
	}
	c.logger.Debug("frame sent", "type", req.Type, "req_id", req.ID)
	return nil
}

func (c *Conn) writeErr(err error) error {
	select {
	case <-c.done:
		return domain.ErrConnectionClosed
	default:
		return fmt.Errorf("websocket write: %w", err)
	}
}

// Events yields decoded responses. It is closed when the connection ends.
func (c *Conn) Events() <-chan domain.Event {
	return c.events
}

// Done is closed once the connection has been closed by either side.
func (c *Conn) Done() <-chan struct{} {
	return c.done
}

// Close sends a close frame and tears the connection down.
func (c *Conn) Close() error {
	var err error
	c.closeOnce.Do(func() {
		close(c.done)

		c.writeMu.Lock()
		msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		_ = c.ws.WriteControl(websocket.CloseMessage, msg, time.Now().Add(time.Second))
		c.writeMu.Unlock()

		err = c.ws.Close()
	})
	return err
}

func (c *Conn) readLoop() {
	defer close(c.events)
	defer c.closeOnce.Do(func() {
		close(c.done)
		_ = c.ws.Close()
	})

	for {
		mtype, data, err := c.ws.ReadMessage()
		if err != nil {
			if !isNormalClose(err) {
				select {
				case <-c.done:
				default:
					c.logger.Warn("websocket read failed", "error", err)
				}
			}
			return
		}
		if mtype != websocket.TextMessage && mtype != websocket.BinaryMessage {
			continue
		}

		ev, ok := protocol.Decode(data)
		if !ok {
			c.logger.Debug("dropping unrecognised frame", "size", len(data))
			continue
		}

		select {
		case c.events <- ev:
		case <-c.done:
			return
		}
	}
}

func isNormalClose(err error) bool {
	if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
		return true
	}
	return errors.Is(err, io.EOF)
}
