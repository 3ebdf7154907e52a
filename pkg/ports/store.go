package ports

import (
	"context"

	"github.com/aretw0/paylist/pkg/domain"
)

// StateStore keeps the state of mounted forms.
// A form's entry exists from mount to unmount only; nothing outlives the form.
type StateStore interface {
	// Save persists the state for a given form ID.
	Save(ctx context.Context, sessionID string, state *domain.State) error

	// Load retrieves the state for a given form ID.
	// Returns domain.ErrSessionNotFound if the form does not exist.
	Load(ctx context.Context, sessionID string) (*domain.State, error)

	// Delete removes the state for a given form ID.
	Delete(ctx context.Context, sessionID string) error

	// List returns the IDs of the mounted forms.
	List(ctx context.Context) ([]string, error)
}
