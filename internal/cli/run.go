package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/paylist"
	"github.com/aretw0/paylist/internal/presentation/tui"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/runner"
)

// RunForm mounts a single form and drives it from the terminal until the user quits.
func RunForm(ctx context.Context, opts RunOptions) error {
	in, out := opts.Input, opts.Output
	if in == nil {
		in = os.Stdin
	}
	if out == nil {
		out = os.Stdout
	}
	logger := createQuietLogger(opts.Debug)

	if !opts.JSON && !opts.Quiet {
		tui.PrintBanner(out, paylist.Version)
		tui.Hint(out, "Commands: select <code> · fetch · clear · list · view · quit")
	}

	conn, err := connect(ctx, opts.Config, opts.Offline, logger)
	if err != nil {
		return err
	}
	defer conn.Close()

	store, closeStore := snapshotStore(opts.Config, opts.SessionID)
	defer closeStore()

	runnerOpts := []runner.Option{
		runner.WithEngine(createEngine(opts.Config, logger, nil)),
		runner.WithConnection(conn),
		runner.WithLogger(logger),
		runner.WithInputHandler(createHandler(in, out, opts.JSON)),
	}
	if store != nil {
		runnerOpts = append(runnerOpts, runner.WithStore(store), runner.WithSessionID(opts.SessionID))
	}

	err = runner.NewRunner(runnerOpts...).Run(ctx)
	return handleExecutionError(err)
}

// createHandler picks the IO strategy. Glamour rendering is only used on a terminal.
func createHandler(in io.Reader, out io.Writer, jsonMode bool) runner.IOHandler {
	if jsonMode {
		return runner.NewJSONHandler(in, out)
	}
	var handlerOpts []runner.TextHandlerOption
	if f, ok := out.(*os.File); ok && tui.IsTerminal(f) {
		handlerOpts = append(handlerOpts, runner.WithTextHandlerRenderer(tui.NewRenderer()))
	}
	return runner.NewTextHandler(in, out, handlerOpts...)
}

// handleExecutionError maps interruptions to a clean exit.
func handleExecutionError(err error) error {
	if err == nil || errors.Is(err, context.Canceled) || errors.Is(err, io.EOF) {
		return nil
	}
	if errors.Is(err, domain.ErrConnectionClosed) {
		return fmt.Errorf("upstream went away: %w", err)
	}
	return err
}
