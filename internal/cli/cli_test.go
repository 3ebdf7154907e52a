package cli

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/aretw0/paylist"
	"github.com/aretw0/paylist/internal/config"
	"github.com/aretw0/paylist/internal/logging"
	"github.com/aretw0/paylist/pkg/adapters/memory"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRunForm_OfflineQuit(t *testing.T) {
	var out bytes.Buffer
	err := RunForm(context.Background(), RunOptions{
		Config:  config.Default(),
		Offline: true,
		Quiet:   true,
		Input:   strings.NewReader("quit\n"),
		Output:  &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "Payment methods")
}

func TestRunForm_BannerUnlessQuiet(t *testing.T) {
	var out bytes.Buffer
	err := RunForm(context.Background(), RunOptions{
		Config:  config.Default(),
		Offline: true,
		Input:   strings.NewReader(""),
		Output:  &out,
	})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "v"+paylist.Version)
}

func TestRunForm_JSONHasNoBanner(t *testing.T) {
	var out bytes.Buffer
	err := RunForm(context.Background(), RunOptions{
		Config:  config.Default(),
		Offline: true,
		JSON:    true,
		Input:   strings.NewReader(`{"action":"quit"}` + "\n"),
		Output:  &out,
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(out.String(), `{"type":"view"`), out.String())
}

func TestStartHub_OfflineMountsForms(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := startHub(ctx, ServeOptions{Config: config.Default(), Offline: true}, logging.NewNop(), prometheus.NewRegistry())
	require.NoError(t, err)
	defer rt.close()

	id, _, err := rt.hub.Mount(ctx)
	require.NoError(t, err)

	assert.Eventually(t, func() bool {
		view, err := rt.hub.View(ctx, id)
		return err == nil && len(view.Options) == len(memory.SampleCountries)+1
	}, time.Second, 10*time.Millisecond)

	view, err := rt.hub.Dispatch(ctx, id, domain.SelectCountry("in"))
	require.NoError(t, err)
	assert.Equal(t, "in", view.SelectedValue)
}

func TestStartHub_ListenEndsOnClose(t *testing.T) {
	rt, err := startHub(context.Background(), ServeOptions{Config: config.Default(), Offline: true}, logging.NewNop(), nil)
	require.NoError(t, err)

	rt.close()
	select {
	case <-rt.listen:
	case <-time.After(time.Second):
		t.Fatal("listener did not stop")
	}
}

func TestSetupPersistence_Redis(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := config.Default()
	cfg.Redis.Addr = mr.Addr()

	manager, closeStore, err := setupPersistence(context.Background(), cfg, logging.NewNop())
	require.NoError(t, err)
	defer closeStore()

	state := domain.NewState()
	require.NoError(t, manager.Create(context.Background(), "f1", state))
	ids, err := manager.List(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"f1"}, ids)
}

func TestSetupPersistence_RedisUnreachable(t *testing.T) {
	cfg := config.Default()
	cfg.Redis.Addr = "127.0.0.1:1"

	_, _, err := setupPersistence(context.Background(), cfg, logging.NewNop())
	assert.Error(t, err)
}

func TestSnapshotStore_RequiresNameAndRedis(t *testing.T) {
	store, closeStore := snapshotStore(config.Default(), "demo")
	assert.Nil(t, store)
	assert.NoError(t, closeStore())
}

func TestCreateEngine_LogsEachEventOnce(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	engine := createEngine(config.Default(), logger, nil)
	ctx := context.Background()

	state, _ := engine.Mount(ctx)
	state, _ = engine.Apply(ctx, state, domain.CountriesReceived(domain.Country{Value: "in", Label: "India"}))
	_, _ = engine.Apply(ctx, state, domain.Fetch())

	out := buf.String()
	assert.Equal(t, 1, strings.Count(out, "msg=transition"), out)
	assert.Equal(t, 1, strings.Count(out, `msg="event ignored"`), out)
}
