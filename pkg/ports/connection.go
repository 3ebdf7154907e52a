package ports

import (
	"context"

	"github.com/aretw0/paylist/pkg/domain"
)

// Connection is the open bidirectional channel to the upstream API.
// The surrounding shell owns it and must open it before mounting a form.
type Connection interface {
	// Send transmits a request. It does not wait for the answer, which arrives
	// later on Events.
	Send(ctx context.Context, req domain.Request) error

	// Events delivers recognized inbound messages in arrival order.
	// Unrecognized messages never appear here. The channel is closed when the
	// connection ends.
	Events() <-chan domain.Event
}
