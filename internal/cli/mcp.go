package cli

import (
	"context"
	"fmt"

	"github.com/aretw0/paylist/pkg/adapters/mcp"
)

// ServeMCP exposes the form tools over MCP, on stdio or SSE.
// Logs go to stderr so they never corrupt the stdio JSON-RPC stream.
func ServeMCP(ctx context.Context, opts ServeOptions) error {
	logger := createLogger(opts.Config, opts.Debug)

	rt, err := startHub(ctx, opts, logger, nil)
	if err != nil {
		return err
	}
	defer rt.close()

	srv := mcp.NewServer(rt.hub, logger)

	if !opts.SSE {
		logger.Info("starting MCP server (stdio)")
		if err := srv.ServeStdio(); err != nil {
			return fmt.Errorf("mcp server failed: %w", err)
		}
		return nil
	}

	baseURL := opts.BaseURL
	if baseURL == "" {
		baseURL = "http://localhost" + opts.Config.Server.Addr
	}
	logger.Info("starting MCP server (SSE)", "addr", opts.Config.Server.Addr)
	return srv.ServeSSE(ctx, opts.Config.Server.Addr, baseURL)
}
