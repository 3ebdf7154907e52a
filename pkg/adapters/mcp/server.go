// Package mcp exposes mounted payment-method forms as Model Context Protocol tools.
package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/paylist"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/runner"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// FormResponse is the structured result of every form tool.
type FormResponse struct {
	ID   string      `json:"id" jsonschema_description:"Form identifier"`
	View domain.View `json:"view" jsonschema_description:"Visible state of the form"`
}

// Forms is the multi-form surface the tools drive. session.Hub implements it.
type Forms interface {
	Mount(ctx context.Context) (string, domain.View, error)
	Dispatch(ctx context.Context, formID string, ev domain.Event) (domain.View, error)
	View(ctx context.Context, formID string) (domain.View, error)
	Unmount(ctx context.Context, formID string) error
	Forms(ctx context.Context) ([]string, error)
}

// Server wraps a Forms service and exposes it as an MCP Server.
type Server struct {
	forms     Forms
	logger    *slog.Logger
	mcpServer *server.MCPServer
}

// NewServer creates a new MCP Server instance.
func NewServer(forms Forms, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	s := &Server{
		forms:     forms,
		logger:    logger,
		mcpServer: server.NewMCPServer("paylist-mcp", paylist.Version),
	}
	s.registerTools()
	s.registerResources()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the MCP SSE transport on addr until ctx is done.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP Server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	formID := mcp.WithString("form_id", mcp.Required(), mcp.Description("Identifier returned by mount_form"))

	s.mcpServer.AddTool(mcp.NewTool("mount_form",
		mcp.WithDescription("Mount a new payment-method form. Its country list loads asynchronously; call view_form to see it."),
		mcp.WithOutputSchema[FormResponse](),
	), mcp.NewStructuredToolHandler(s.handleMount))

	s.mcpServer.AddTool(mcp.NewTool("view_form",
		mcp.WithDescription("Return the current view of a form."),
		formID,
		mcp.WithOutputSchema[FormResponse](),
	), mcp.NewStructuredToolHandler(s.handleView))

	s.mcpServer.AddTool(mcp.NewTool("select_country",
		mcp.WithDescription("Select a country by its code. An empty value selects the placeholder, which clears the form."),
		formID,
		mcp.WithString("value", mcp.Description("Country code, e.g. \"in\"")),
		mcp.WithOutputSchema[FormResponse](),
	), mcp.NewStructuredToolHandler(s.handleSelect))

	s.mcpServer.AddTool(mcp.NewTool("fetch_payment_methods",
		mcp.WithDescription("Press \"Get List\": request the payment methods of the selected country. The table appears once the answer arrives."),
		formID,
		mcp.WithOutputSchema[FormResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvent(domain.Fetch)))

	s.mcpServer.AddTool(mcp.NewTool("clear_selection",
		mcp.WithDescription("Press \"Clear\": reset the selection and discard the table."),
		formID,
		mcp.WithOutputSchema[FormResponse](),
	), mcp.NewStructuredToolHandler(s.handleEvent(domain.Clear)))

	s.mcpServer.AddTool(mcp.NewTool("unmount_form",
		mcp.WithDescription("Discard a form."),
		formID,
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		id := request.GetString("form_id", "")
		if err := s.forms.Unmount(ctx, id); err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("unmount failed: %v", err)), nil
		}
		return mcp.NewToolResultText("unmounted " + id), nil
	})
}

func (s *Server) handleMount(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormResponse, error) {
	id, view, err := s.forms.Mount(ctx)
	if err != nil {
		return FormResponse{}, fmt.Errorf("mount failed: %w", err)
	}
	return FormResponse{ID: id, View: view}, nil
}

func (s *Server) handleView(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormResponse, error) {
	id, err := requireFormID(args)
	if err != nil {
		return FormResponse{}, err
	}
	view, err := s.forms.View(ctx, id)
	if err != nil {
		return FormResponse{}, fmt.Errorf("view failed: %w", err)
	}
	return FormResponse{ID: id, View: view}, nil
}

func (s *Server) handleSelect(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormResponse, error) {
	id, err := requireFormID(args)
	if err != nil {
		return FormResponse{}, err
	}

	value, _ := args["value"].(string)
	clean, err := runner.SanitizeInput(value)
	if err != nil {
		s.logger.Warn("MCP select_country: input rejected", "err", err, "size", len(value))
		return FormResponse{}, fmt.Errorf("input rejected: %w", err)
	}
	return s.dispatch(ctx, id, domain.SelectCountry(clean))
}

func (s *Server) handleEvent(build func() domain.Event) func(context.Context, mcp.CallToolRequest, map[string]interface{}) (FormResponse, error) {
	return func(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (FormResponse, error) {
		id, err := requireFormID(args)
		if err != nil {
			return FormResponse{}, err
		}
		return s.dispatch(ctx, id, build())
	}
}

func (s *Server) dispatch(ctx context.Context, id string, ev domain.Event) (FormResponse, error) {
	view, err := s.forms.Dispatch(ctx, id, ev)
	if err != nil {
		return FormResponse{}, fmt.Errorf("%s failed: %w", ev.Type, err)
	}
	return FormResponse{ID: id, View: view}, nil
}

func requireFormID(args map[string]interface{}) (string, error) {
	id, _ := args["form_id"].(string)
	if id == "" {
		return "", errors.New("form_id is required")
	}
	return id, nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource("paylist://forms", "Mounted forms",
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		ids, err := s.forms.Forms(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to list forms: %w", err)
		}
		if ids == nil {
			ids = []string{}
		}
		jsonBytes, _ := json.Marshal(ids)

		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      "paylist://forms",
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}
