package http_test

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/aretw0/paylist"
	paylisthttp "github.com/aretw0/paylist/pkg/adapters/http"
	"github.com/aretw0/paylist/pkg/adapters/memory"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/observability"
	"github.com/aretw0/paylist/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	conn := memory.NewConnection(memory.WithResponder(memory.SampleResponder))
	t.Cleanup(func() { _ = conn.Close() })

	reg := prometheus.NewRegistry()
	metrics := observability.NewMetrics(reg)
	streams := paylisthttp.NewStreamManager(nil)

	hub := session.NewHub(
		paylist.New(paylist.WithLifecycleHooks(metrics.Hooks())),
		session.NewManager(memory.NewStore()),
		conn,
		session.WithViewObserver(streams.Publish),
	)
	go func() { _ = hub.Listen(ctx) }()

	handler, err := paylisthttp.NewHandler(hub,
		paylisthttp.WithStreams(streams),
		paylisthttp.WithGatherer(reg),
	)
	require.NoError(t, err)

	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	return srv
}

func do(t *testing.T, method, url, body string) (*http.Response, paylisthttp.FormResponse) {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	var form paylisthttp.FormResponse
	if resp.StatusCode < 300 && resp.StatusCode != http.StatusNoContent {
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&form))
	}
	return resp, form
}

func waitForView(t *testing.T, base, id string, cond func(domain.View) bool) domain.View {
	t.Helper()
	var last domain.View
	require.Eventually(t, func() bool {
		resp, form := do(t, http.MethodGet, base+"/forms/"+id, "")
		if resp.StatusCode != http.StatusOK {
			return false
		}
		last = form.View
		return cond(form.View)
	}, 2*time.Second, 10*time.Millisecond)
	return last
}

func TestServer_FormLifecycle(t *testing.T) {
	srv := newServer(t)

	resp, form := do(t, http.MethodPost, srv.URL+"/forms", "")
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.NotEmpty(t, form.ID)
	assert.False(t, form.View.FetchEnabled)
	assert.Nil(t, form.View.Table)

	waitForView(t, srv.URL, form.ID, func(v domain.View) bool { return len(v.Options) > 0 })

	resp, selected := do(t, http.MethodPost, srv.URL+"/forms/"+form.ID+"/select", `{"value":"in"}`)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "in", selected.View.SelectedValue)
	assert.True(t, selected.View.ClearEnabled)

	resp, _ = do(t, http.MethodPost, srv.URL+"/forms/"+form.ID+"/fetch", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)

	v := waitForView(t, srv.URL, form.ID, func(v domain.View) bool { return v.Table != nil })
	assert.Equal(t, "UPI", v.Table.Rows[0].Field("display_name"))

	resp, cleared := do(t, http.MethodPost, srv.URL+"/forms/"+form.ID+"/clear", "")
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Nil(t, cleared.View.Table)
	assert.Equal(t, "", cleared.View.SelectedValue)

	resp, _ = do(t, http.MethodDelete, srv.URL+"/forms/"+form.ID, "")
	assert.Equal(t, http.StatusNoContent, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, srv.URL+"/forms/"+form.ID, "")
	assert.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestServer_UnknownForm(t *testing.T) {
	srv := newServer(t)

	for _, tc := range []struct{ method, path, body string }{
		{http.MethodGet, "/forms/ghost", ""},
		{http.MethodPost, "/forms/ghost/fetch", ""},
		{http.MethodPost, "/forms/ghost/select", `{"value":"in"}`},
		{http.MethodDelete, "/forms/ghost", ""},
	} {
		resp, _ := do(t, tc.method, srv.URL+tc.path, tc.body)
		assert.Equal(t, http.StatusNotFound, resp.StatusCode, "%s %s", tc.method, tc.path)
	}
}

func TestServer_RejectsInvalidSelect(t *testing.T) {
	srv := newServer(t)
	_, form := do(t, http.MethodPost, srv.URL+"/forms", "")

	for _, body := range []string{`{}`, `{"value":42}`, `{"value":"in","extra":true}`} {
		resp, _ := do(t, http.MethodPost, srv.URL+"/forms/"+form.ID+"/select", body)
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, body)
	}
}

func TestServer_ListForms(t *testing.T) {
	srv := newServer(t)
	_, a := do(t, http.MethodPost, srv.URL+"/forms", "")
	_, b := do(t, http.MethodPost, srv.URL+"/forms", "")

	resp, err := http.Get(srv.URL + "/forms")
	require.NoError(t, err)
	defer resp.Body.Close()

	var body struct {
		Forms []string `json:"forms"`
	}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.ElementsMatch(t, []string{a.ID, b.ID}, body.Forms)
}

func TestServer_HealthMetricsAndSpec(t *testing.T) {
	srv := newServer(t)
	do(t, http.MethodPost, srv.URL+"/forms", "")

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	metrics, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(metrics), `paylist_requests_total{type="list_countries"}`)

	resp, err = http.Get(srv.URL + "/openapi.yaml")
	require.NoError(t, err)
	spec, _ := io.ReadAll(resp.Body)
	resp.Body.Close()
	assert.Contains(t, string(spec), "openapi: 3.0.3")
}

func TestServer_SubscribeEvents(t *testing.T) {
	srv := newServer(t)
	_, form := do(t, http.MethodPost, srv.URL+"/forms", "")
	waitForView(t, srv.URL, form.ID, func(v domain.View) bool { return len(v.Options) > 0 })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, srv.URL+"/forms/"+form.ID+"/events", nil)
	require.NoError(t, err)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, "text/event-stream", resp.Header.Get("Content-Type"))

	lines := make(chan string, 16)
	go func() {
		scanner := bufio.NewScanner(resp.Body)
		scanner.Buffer(make([]byte, 0, 64*1024), 1<<20)
		for scanner.Scan() {
			lines <- scanner.Text()
		}
		close(lines)
	}()

	expect := func(prefix string) string {
		t.Helper()
		for {
			select {
			case line, ok := <-lines:
				require.True(t, ok, "stream ended before %q", prefix)
				if strings.HasPrefix(line, prefix) {
					return line
				}
			case <-ctx.Done():
				t.Fatalf("timed out waiting for %q", prefix)
			}
		}
	}

	expect("event: view")
	do(t, http.MethodPost, srv.URL+"/forms/"+form.ID+"/select", `{"value":"br"}`)
	expect("event: diff")
	data := expect("data: ")
	assert.Contains(t, data, fmt.Sprintf(`"selected_value":%q`, "br"))
}
