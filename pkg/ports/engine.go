package ports

import (
	"context"

	"github.com/aretw0/paylist/pkg/domain"
)

// FormEngine defines the interface for the workflow core.
// It holds no state: adapters keep one domain.State per mounted form.
type FormEngine interface {
	// Mount creates a new form state and the requests to send immediately.
	Mount(ctx context.Context) (*domain.State, []domain.Request)

	// Apply processes one event and returns the next state plus the requests to send.
	Apply(ctx context.Context, state *domain.State, ev domain.Event) (*domain.State, []domain.Request)

	// Render projects the state onto the visible controls.
	Render(state *domain.State) domain.View
}
