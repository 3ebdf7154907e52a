package websocket_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/aretw0/paylist/pkg/adapters/websocket"
	"github.com/aretw0/paylist/pkg/domain"
	gorilla "github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// upstream is a scripted fake of the remote API.
type upstream struct {
	mu      sync.Mutex
	query   map[string]string
	frames  []map[string]any
	replies func(req map[string]any) []string
}

func (u *upstream) handler(t *testing.T) http.Handler {
	upgrader := gorilla.Upgrader{}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		u.mu.Lock()
		u.query = map[string]string{
			"app_id": r.URL.Query().Get("app_id"),
			"l":      r.URL.Query().Get("l"),
		}
		u.mu.Unlock()

		ws, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Errorf("upgrade: %v", err)
			return
		}
		defer ws.Close()

		for {
			_, data, err := ws.ReadMessage()
			if err != nil {
				return
			}
			var req map[string]any
			if err := json.Unmarshal(data, &req); err != nil {
				t.Errorf("bad frame: %v", err)
				return
			}
			u.mu.Lock()
			u.frames = append(u.frames, req)
			u.mu.Unlock()

			for _, reply := range u.replies(req) {
				if err := ws.WriteMessage(gorilla.TextMessage, []byte(reply)); err != nil {
					return
				}
			}
		}
	})
}

func dial(t *testing.T, u *upstream, opts ...websocket.Option) *websocket.Conn {
	t.Helper()
	srv := httptest.NewServer(u.handler(t))
	t.Cleanup(srv.Close)

	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
	dialer := &gorilla.Dialer{HandshakeTimeout: 2 * time.Second}
	opts = append([]websocket.Option{websocket.WithDialer(dialer)}, opts...)
	conn, err := websocket.Dial(context.Background(), endpoint, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func next(t *testing.T, conn *websocket.Conn) domain.Event {
	t.Helper()
	select {
	case ev, ok := <-conn.Events():
		require.True(t, ok, "events closed")
		return ev
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for event")
		return domain.Event{}
	}
}

func TestConn_RoundTrip(t *testing.T) {
	u := &upstream{replies: func(req map[string]any) []string {
		if _, ok := req["residence_list"]; ok {
			return []string{
				`{"msg_type":"ping","ping":"pong"}`,
				`{"msg_type":"residence_list","req_id":1,"residence_list":[{"value":"in","text":"India"}]}`,
			}
		}
		return []string{`{"msg_type":"payment_methods","req_id":2,"payment_methods":[{"id":"upi","display_name":"UPI"}]}`}
	}}
	conn := dial(t, u, websocket.WithAppID("4242"), websocket.WithLanguage("PT"))
	ctx := context.Background()

	require.NoError(t, conn.Send(ctx, domain.Request{Type: domain.RequestListCountries, ID: 1}))
	ev := next(t, conn)
	assert.Equal(t, domain.EventCountriesReceived, ev.Type, "unrecognised frames are dropped")
	assert.Equal(t, int64(1), ev.RequestID)
	assert.Equal(t, []domain.Country{{Value: "in", Label: "India"}}, ev.Countries)

	require.NoError(t, conn.Send(ctx, domain.Request{Type: domain.RequestListPaymentMethods, Country: "in", ID: 2}))
	ev = next(t, conn)
	assert.Equal(t, domain.EventMethodsReceived, ev.Type)
	require.Len(t, ev.Methods, 1)
	assert.Equal(t, "UPI", ev.Methods[0].Field("display_name"))

	u.mu.Lock()
	defer u.mu.Unlock()
	assert.Equal(t, "4242", u.query["app_id"])
	assert.Equal(t, "PT", u.query["l"])
	require.Len(t, u.frames, 2)
	assert.Equal(t, "in", u.frames[1]["payment_methods"])
}

func TestConn_ErrorFramesAreDropped(t *testing.T) {
	u := &upstream{replies: func(req map[string]any) []string {
		return []string{
			`{"msg_type":"residence_list","error":{"code":"RateLimit","message":"slow down"}}`,
			`{"msg_type":"residence_list","residence_list":[]}`,
		}
	}}
	conn := dial(t, u)

	require.NoError(t, conn.Send(context.Background(), domain.Request{Type: domain.RequestListCountries, ID: 1}))
	ev := next(t, conn)
	assert.Empty(t, ev.Countries)
}

func TestConn_CloseEndsEvents(t *testing.T) {
	u := &upstream{replies: func(map[string]any) []string { return nil }}
	conn := dial(t, u)

	require.NoError(t, conn.Close())

	select {
	case _, ok := <-conn.Events():
		assert.False(t, ok)
	case <-time.After(2 * time.Second):
		t.Fatal("events not closed after Close")
	}

	err := conn.Send(context.Background(), domain.Request{Type: domain.RequestListCountries, ID: 1})
	assert.ErrorIs(t, err, domain.ErrConnectionClosed)
}

func TestConn_RateLimitRespectsContext(t *testing.T) {
	u := &upstream{replies: func(map[string]any) []string { return nil }}
	conn := dial(t, u, websocket.WithRateLimit(0.5, 1))

	ctx := context.Background()
	require.NoError(t, conn.Send(ctx, domain.Request{Type: domain.RequestListCountries, ID: 1}))

	short, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	err := conn.Send(short, domain.Request{Type: domain.RequestListCountries, ID: 2})
	assert.Error(t, err, "second frame must wait for a token")
}

func TestDial_HandshakeTimeout(t *testing.T) {
	release := make(chan struct{})
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		<-release
	}))
	t.Cleanup(srv.Close)
	t.Cleanup(func() { close(release) })

	endpoint := "ws" + strings.TrimPrefix(srv.URL, "http")
	start := time.Now()
	_, err := websocket.Dial(context.Background(), endpoint,
		websocket.WithDialer(&gorilla.Dialer{HandshakeTimeout: 100 * time.Millisecond}),
	)
	require.Error(t, err)
	assert.Less(t, time.Since(start), 2*time.Second)
}
