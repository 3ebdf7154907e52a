package ports

import (
	"context"
	"testing"
	"time"

	"github.com/aretw0/paylist/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// contractState builds a non-trivial state so that stores must round-trip every field.
func contractState() *domain.State {
	return &domain.State{
		Phase: domain.PhaseMethodsLoaded,
		Countries: []domain.Country{
			domain.Placeholder(),
			{Value: "in", Label: "India"},
		},
		Selection:     domain.Selected("in"),
		Methods:       []domain.PaymentMethod{{"id": "visa", "display_name": "Visa"}},
		MethodsLoaded: true,
		LastRequestID: 2,
		PendingFetch:  2,
	}
}

// RunStateStoreContract runs a suite of tests to verify that a StateStore implementation
// adheres to the defined interface contract.
func RunStateStoreContract(t *testing.T, store StateStore) {
	ctx := context.Background()
	sessionID := "contract-test-session-" + time.Now().Format("20060102150405")

	t.Run("Save and Load", func(t *testing.T) {
		state := contractState()

		err := store.Save(ctx, sessionID, state)
		require.NoError(t, err, "Save should not return error")

		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err, "Load should not return error")
		assert.Equal(t, state.Phase, loaded.Phase)
		assert.Equal(t, state.Countries, loaded.Countries)
		assert.Equal(t, state.Selection, loaded.Selection)
		assert.True(t, loaded.MethodsLoaded)
		assert.Equal(t, state.PendingFetch, loaded.PendingFetch)
		require.Len(t, loaded.Methods, 1)
		assert.Equal(t, "Visa", loaded.Methods[0].Field("display_name"))
	})

	t.Run("Load Is Isolated", func(t *testing.T) {
		loaded, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		loaded.Countries[1].Label = "Mutated"

		again, err := store.Load(ctx, sessionID)
		require.NoError(t, err)
		assert.Equal(t, "India", again.Countries[1].Label, "callers must not alias stored state")
	})

	t.Run("Load Non-Existent", func(t *testing.T) {
		_, err := store.Load(ctx, "non-existent-"+sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		err := store.Save(ctx, sessionID, domain.NewState())
		require.NoError(t, err)

		err = store.Delete(ctx, sessionID)
		require.NoError(t, err, "Delete should not return error")

		_, err = store.Load(ctx, sessionID)
		assert.ErrorIs(t, err, domain.ErrSessionNotFound, "Load after Delete should return ErrSessionNotFound")
	})

	t.Run("List", func(t *testing.T) {
		id1 := sessionID + "-1"
		id2 := sessionID + "-2"
		_ = store.Save(ctx, id1, domain.NewState())
		_ = store.Save(ctx, id2, domain.NewState())

		defer func() {
			_ = store.Delete(ctx, id1)
			_ = store.Delete(ctx, id2)
		}()

		sessions, err := store.List(ctx)
		require.NoError(t, err)
		assert.Contains(t, sessions, id1)
		assert.Contains(t, sessions, id2)
	})
}
