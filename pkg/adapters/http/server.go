package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/aretw0/paylist"
	"github.com/aretw0/paylist/pkg/domain"
	"github.com/aretw0/paylist/pkg/runner"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// FormService is the multi-form surface served over HTTP. session.Hub implements it.
type FormService interface {
	Mount(ctx context.Context) (string, domain.View, error)
	Dispatch(ctx context.Context, formID string, ev domain.Event) (domain.View, error)
	View(ctx context.Context, formID string) (domain.View, error)
	Unmount(ctx context.Context, formID string) error
	Forms(ctx context.Context) ([]string, error)
}

// FormResponse is the body of every form endpoint.
type FormResponse struct {
	ID   string      `json:"id"`
	View domain.View `json:"view"`
}

// SelectRequest is the body of POST /forms/{id}/select.
type SelectRequest struct {
	Value string `json:"value"`
}

// Server holds the HTTP handlers.
type Server struct {
	Forms   FormService
	Streams *StreamManager

	logger   *slog.Logger
	gatherer prometheus.Gatherer
	apiVer   string
}

// Option configures the handler.
type Option func(*Server)

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithStreams serves SSE view diffs published on sm.
func WithStreams(sm *StreamManager) Option {
	return func(s *Server) {
		s.Streams = sm
	}
}

// WithGatherer exposes g on /metrics instead of the default registry.
func WithGatherer(g prometheus.Gatherer) Option {
	return func(s *Server) {
		s.gatherer = g
	}
}

// NewHandler creates the HTTP handler. It fails if the embedded OpenAPI document is invalid.
func NewHandler(forms FormService, opts ...Option) (http.Handler, error) {
	s := &Server{
		Forms:    forms,
		logger:   slog.Default(),
		gatherer: prometheus.DefaultGatherer,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.Streams == nil {
		s.Streams = NewStreamManager(s.logger)
	}

	doc, err := GetSwagger()
	if err != nil {
		return nil, err
	}
	s.apiVer = doc.Info.Version

	validate, err := requestValidator(doc, s.logger)
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/yaml")
		_, _ = w.Write(rawSpec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		_, _ = w.Write([]byte(swaggerHTML))
	})
	r.Handle("/metrics", promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{}))

	r.Group(func(r chi.Router) {
		r.Use(validate)

		r.Get("/health", s.GetHealth)
		r.Get("/info", s.GetInfo)

		r.Route("/forms", func(r chi.Router) {
			r.Get("/", s.ListForms)
			r.Post("/", s.MountForm)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", s.ViewForm)
				r.Delete("/", s.UnmountForm)
				r.Post("/select", s.SelectCountry)
				r.Post("/fetch", s.FetchPaymentMethods)
				r.Post("/clear", s.ClearSelection)
				r.Get("/events", s.SubscribeEvents)
			})
		})
	})

	return r, nil
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <title>Paylist API</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => { window.ui = SwaggerUIBundle({ url: '/openapi.yaml', dom_id: '#swagger-ui' }); };
</script>
</body>
</html>
`

// GetHealth handles GET /health.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles GET /info.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"app":         "paylist-http",
		"version":     paylist.Version,
		"api_version": s.apiVer,
	})
}

// ListForms handles GET /forms.
func (s *Server) ListForms(w http.ResponseWriter, r *http.Request) {
	forms, err := s.Forms.Forms(r.Context())
	if err != nil {
		s.fail(w, "ListForms", err)
		return
	}
	if forms == nil {
		forms = []string{}
	}
	writeJSON(w, http.StatusOK, map[string][]string{"forms": forms})
}

// MountForm handles POST /forms.
func (s *Server) MountForm(w http.ResponseWriter, r *http.Request) {
	id, view, err := s.Forms.Mount(r.Context())
	if err != nil {
		s.fail(w, "MountForm", err)
		return
	}
	writeJSON(w, http.StatusCreated, FormResponse{ID: id, View: view})
}

// ViewForm handles GET /forms/{id}.
func (s *Server) ViewForm(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	view, err := s.Forms.View(r.Context(), id)
	if err != nil {
		s.fail(w, "ViewForm", err)
		return
	}
	writeJSON(w, http.StatusOK, FormResponse{ID: id, View: view})
}

// UnmountForm handles DELETE /forms/{id}.
func (s *Server) UnmountForm(w http.ResponseWriter, r *http.Request) {
	if err := s.Forms.Unmount(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.fail(w, "UnmountForm", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SelectCountry handles POST /forms/{id}/select.
func (s *Server) SelectCountry(w http.ResponseWriter, r *http.Request) {
	var body SelectRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.logger.Warn("SelectCountry: invalid request body", "err", err)
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	value, err := runner.SanitizeInput(body.Value)
	if err != nil {
		s.logger.Warn("SelectCountry: input rejected", "err", err, "size", len(body.Value))
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid input: %v", err))
		return
	}
	s.dispatch(w, r, domain.SelectCountry(value))
}

// FetchPaymentMethods handles POST /forms/{id}/fetch.
func (s *Server) FetchPaymentMethods(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, domain.Fetch())
}

// ClearSelection handles POST /forms/{id}/clear.
func (s *Server) ClearSelection(w http.ResponseWriter, r *http.Request) {
	s.dispatch(w, r, domain.Clear())
}

func (s *Server) dispatch(w http.ResponseWriter, r *http.Request, ev domain.Event) {
	id := chi.URLParam(r, "id")
	view, err := s.Forms.Dispatch(r.Context(), id, ev)
	if err != nil {
		s.fail(w, string(ev.Type), err)
		return
	}
	writeJSON(w, http.StatusOK, FormResponse{ID: id, View: view})
}

// SubscribeEvents handles GET /forms/{id}/events (SSE). The first message is the
// full view; later messages are diffs.
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		writeError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	id := chi.URLParam(r, "id")
	ch, cancel := s.Streams.Subscribe(id)
	defer cancel()

	view, err := s.Forms.View(r.Context(), id)
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}
	initial, err := json.Marshal(view)
	if err != nil {
		s.fail(w, "SubscribeEvents", err)
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: view\ndata: %s\n\n", initial)
	flusher.Flush()

	s.logger.Debug("SSE: client subscribed", "form_id", id)
	for {
		select {
		case <-r.Context().Done():
			s.logger.Debug("SSE: client disconnected", "form_id", id)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			fmt.Fprintf(w, "event: diff\ndata: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

func (s *Server) fail(w http.ResponseWriter, op string, err error) {
	if errors.Is(err, domain.ErrSessionNotFound) {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}
	s.logger.Error(op+" failed", "err", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
