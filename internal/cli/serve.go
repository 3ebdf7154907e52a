package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	httpAdapter "github.com/aretw0/paylist/pkg/adapters/http"
	"github.com/aretw0/paylist/pkg/session"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

const shutdownTimeout = 5 * time.Second

// hubRuntime is everything a multi-form surface needs, torn down by close.
type hubRuntime struct {
	hub    *session.Hub
	listen chan error
	close  func()
}

// startHub connects upstream, builds the Hub and starts routing responses to forms.
func startHub(ctx context.Context, opts ServeOptions, logger *slog.Logger, reg prometheus.Registerer, hubOpts ...session.HubOption) (*hubRuntime, error) {
	conn, err := connect(ctx, opts.Config, opts.Offline, logger)
	if err != nil {
		return nil, err
	}
	manager, closeStore, err := setupPersistence(ctx, opts.Config, logger)
	if err != nil {
		_ = conn.Close()
		return nil, err
	}

	engine := createEngine(opts.Config, logger, reg)
	hub := session.NewHub(engine, manager, conn, append([]session.HubOption{session.WithHubLogger(logger)}, hubOpts...)...)

	listenCtx, cancel := context.WithCancel(ctx)
	rt := &hubRuntime{hub: hub, listen: make(chan error, 1)}
	go func() { rt.listen <- hub.Listen(listenCtx) }()

	rt.close = func() {
		cancel()
		if err := conn.Close(); err != nil {
			logger.Warn("closing connection", "err", err)
		}
		if err := closeStore(); err != nil {
			logger.Warn("closing store", "err", err)
		}
	}
	return rt, nil
}

// Serve runs the REST API over a shared upstream connection until ctx is done.
func Serve(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Config, opts.Debug)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))

	streams := httpAdapter.NewStreamManager(logger)
	rt, err := startHub(ctx, opts, logger, reg, session.WithViewObserver(streams.Publish))
	if err != nil {
		return err
	}
	defer rt.close()

	handler, err := httpAdapter.NewHandler(rt.hub,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithGatherer(reg),
	)
	if err != nil {
		return fmt.Errorf("failed to build handler: %w", err)
	}

	srv := &http.Server{
		Addr:              opts.Config.Server.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		logger.Info("paylist server listening", "addr", srv.Addr)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("server error: %w", err)

	case err := <-rt.listen:
		if err == nil {
			shutdown(srv, logger)
			return nil
		}
		logger.Error("upstream connection lost", "err", err)
		shutdown(srv, logger)
		return fmt.Errorf("upstream went away: %w", err)

	case <-ctx.Done():
		logger.Info("shutting down")
		shutdown(srv, logger)
		return nil
	}
}

func shutdown(srv *http.Server, logger *slog.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Warn("graceful shutdown did not complete", "timeout", shutdownTimeout, "err", err)
		_ = srv.Close()
	}
}
