package cli

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/aretw0/paylist/internal/config"
	"github.com/aretw0/paylist/pkg/adapters/memory"
	"github.com/aretw0/paylist/pkg/adapters/redis"
	"github.com/aretw0/paylist/pkg/ports"
	"github.com/aretw0/paylist/pkg/session"
)

// setupPersistence builds the form store and session manager. A configured redis
// address selects the redis store with a distributed lock; otherwise forms live in memory.
// The returned func releases the backend.
func setupPersistence(ctx context.Context, cfg config.Config, logger *slog.Logger) (*session.Manager, func() error, error) {
	if cfg.Redis.Addr == "" {
		return session.NewManager(memory.NewStore(), session.WithLogger(logger)), func() error { return nil }, nil
	}

	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithTTL(cfg.Redis.TTL))
	if err := store.Client().Ping(ctx).Err(); err != nil {
		_ = store.Close()
		return nil, nil, fmt.Errorf("redis unreachable at %s: %w", cfg.Redis.Addr, err)
	}
	logger.Info("using redis store", "addr", cfg.Redis.Addr, "ttl", cfg.Redis.TTL)

	manager := session.NewManager(store,
		session.WithLocker(redis.NewLocker(store.Client(), redis.DefaultPrefix)),
		session.WithLogger(logger),
	)
	return manager, store.Close, nil
}

// snapshotStore returns the store `paylist run` snapshots into, or nil when the
// run is not named or no redis is configured.
func snapshotStore(cfg config.Config, sessionID string) (ports.StateStore, func() error) {
	if sessionID == "" || cfg.Redis.Addr == "" {
		return nil, func() error { return nil }
	}
	store := redis.New(cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, redis.WithTTL(cfg.Redis.TTL))
	return store, store.Close
}
