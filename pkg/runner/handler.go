package runner

import (
	"context"

	"github.com/aretw0/paylist/pkg/domain"
)

// IOHandler defines the strategy for interacting with the user.
// This allows switching between Text (CLI/TUI) and JSON (Structured) modes.
// Input runs on its own goroutine, concurrently with the output methods.
type IOHandler interface {
	// Output presents the current form.
	Output(ctx context.Context, view domain.View) error

	// Input reads the next command. Unparseable lines yield an error wrapping
	// domain.ErrUnknownCommand; io.EOF ends the session.
	Input(ctx context.Context) (Command, error)

	// SystemOutput presents a meta-message (errors, option listings, status).
	SystemOutput(ctx context.Context, msg string) error
}

// ContentRenderer transforms markdown before it is written (e.g. to ANSI).
type ContentRenderer func(string) (string, error)
