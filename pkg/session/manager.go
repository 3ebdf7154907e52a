package session

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/aretw0/paylist/internal/logging"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/ports"
)

// ErrFormExists is returned by Create when the ID is already mounted.
var ErrFormExists = errors.New("form already exists")

// lockEntry holds the mutex and the reference count.
type lockEntry struct {
	mu   sync.Mutex
	refs int
}

// Manager orchestrates access to form state, ensuring safe concurrent updates.
// Lock entries are reference counted and dropped once unused.
type Manager struct {
	store ports.StateStore

	mu    sync.Mutex
	locks map[string]*lockEntry

	locker  ports.DistributedLocker
	lockTTL time.Duration
	logger  *slog.Logger
}

// Option configures the Manager.
type Option func(*Manager)

// WithLocker enables distributed locking.
func WithLocker(locker ports.DistributedLocker) Option {
	return func(m *Manager) {
		m.locker = locker
	}
}

// WithLockTTL bounds how long a distributed lock survives a crashed holder.
func WithLockTTL(ttl time.Duration) Option {
	return func(m *Manager) {
		m.lockTTL = ttl
	}
}

// WithLogger configures a logger for the Manager.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) {
		m.logger = logger
	}
}

// NewManager creates a Manager over the given store.
func NewManager(store ports.StateStore, opts ...Option) *Manager {
	m := &Manager{
		store:   store,
		locks:   make(map[string]*lockEntry),
		lockTTL: 30 * time.Second,
		logger:  logging.NewNop(),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// acquire gets or creates a lock entry and increments its reference count.
// The caller must lock entry.mu and call release after unlocking.
func (m *Manager) acquire(formID string) *lockEntry {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[formID]
	if !exists {
		entry = &lockEntry{}
		m.locks[formID] = entry
	}
	entry.refs++
	return entry
}

// release decrements the reference count and deletes the entry at zero.
func (m *Manager) release(formID string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, exists := m.locks[formID]
	if !exists {
		return
	}

	entry.refs--
	if entry.refs <= 0 {
		delete(m.locks, formID)
	}
}

// Create stores the initial state of a new form.
func (m *Manager) Create(ctx context.Context, formID string, state *domain.State) error {
	return m.WithLock(ctx, formID, func(ctx context.Context) error {
		_, err := m.store.Load(ctx, formID)
		if err == nil {
			return fmt.Errorf("%w: %s", ErrFormExists, formID)
		}
		if !errors.Is(err, domain.ErrSessionNotFound) {
			return fmt.Errorf("failed to check form existence: %w", err)
		}
		return m.store.Save(ctx, formID, state)
	})
}

// Load retrieves a form's state.
func (m *Manager) Load(ctx context.Context, formID string) (*domain.State, error) {
	var state *domain.State
	err := m.WithLock(ctx, formID, func(ctx context.Context) error {
		var err error
		state, err = m.store.Load(ctx, formID)
		return err
	})
	return state, err
}

// Update loads the state, applies fn and saves the result, all under the form's lock.
// Nothing is saved when fn fails.
func (m *Manager) Update(ctx context.Context, formID string, fn func(*domain.State) (*domain.State, error)) (*domain.State, error) {
	var next *domain.State
	err := m.WithLock(ctx, formID, func(ctx context.Context) error {
		current, err := m.store.Load(ctx, formID)
		if err != nil {
			return err
		}
		next, err = fn(current)
		if err != nil {
			return err
		}
		return m.store.Save(ctx, formID, next)
	})
	if err != nil {
		return nil, err
	}
	return next, nil
}

// Delete removes the form from the store.
func (m *Manager) Delete(ctx context.Context, formID string) error {
	return m.WithLock(ctx, formID, func(ctx context.Context) error {
		return m.store.Delete(ctx, formID)
	})
}

// List delegates to the store.
func (m *Manager) List(ctx context.Context) ([]string, error) {
	return m.store.List(ctx)
}

// WithLock executes fn while holding the form's lock.
func (m *Manager) WithLock(ctx context.Context, formID string, fn func(context.Context) error) error {
	entry := m.acquire(formID)
	entry.mu.Lock()
	defer func() {
		entry.mu.Unlock()
		m.release(formID)
	}()

	if m.locker != nil {
		unlock, err := m.locker.Lock(ctx, formID, m.lockTTL)
		if err != nil {
			return fmt.Errorf("failed to acquire distributed lock: %w", err)
		}
		defer func() {
			if err := unlock(ctx); err != nil {
				m.logger.Warn("Failed to release distributed lock (will expire via TTL)",
					"form_id", formID,
					"err", err,
				)
			}
		}()
	}

	return fn(ctx)
}
