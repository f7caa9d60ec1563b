package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/davidbz/tollgate/internal/config"
	"github.com/davidbz/tollgate/internal/http/middleware"
	"github.com/davidbz/tollgate/internal/observability"
	"github.com/davidbz/tollgate/internal/payment"
)

// Server represents the HTTP server.
type Server struct {
	config      config.ServerConfig
	handler     *Handler
	gate        *payment.Gate
	middlewares middleware.Middleware
	registry    *prometheus.Registry
	srv         *http.Server
}

// NewServer creates a new HTTP server.
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	gate *payment.Gate,
	middlewares middleware.Middleware,
	registry *prometheus.Registry,
) *Server {
	s := &Server{
		config:      *cfg,
		handler:     handler,
		gate:        gate,
		middlewares: middlewares,
		registry:    registry,
		srv:         nil,
	}

	s.srv = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Routes(),
		ReadTimeout:       time.Duration(cfg.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(cfg.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(cfg.WriteTimeout) * time.Second,
	}

	return s
}

// Routes builds the route table wrapped in the middleware chain.
func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()

	// Free routes.
	mux.HandleFunc("GET /{$}", s.handler.HandleRoot)
	mux.HandleFunc("GET /health", s.handler.HandleHealth)
	mux.Handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	mux.HandleFunc("GET /pricing", s.handler.HandlePricing)
	mux.HandleFunc("POST /pricing/calculate", s.handler.HandleCalculate)
	mux.HandleFunc("GET /pricing/policy", s.handler.HandleGetPolicy)
	mux.HandleFunc("PUT /pricing/policy", s.handler.HandlePutPolicy)
	mux.HandleFunc("GET /v1/tasks", s.handler.HandleListTasks)

	// Paid routes.
	modelGate := s.gate.Middleware(payment.RouteOptions{
		ServiceDescription: "",
		EndpointFunc:       ModelEndpoint,
		CategoryFunc:       nil,
	})
	mux.Handle("POST /models/{org}/{model}", modelGate(http.HandlerFunc(s.handler.HandleModel)))

	task := s.handler.TaskGuard(s.taskGate(http.HandlerFunc(s.handler.HandleTask)))
	mux.Handle("POST /v1/{task}", task)
	mux.Handle("POST /v1/{task}/{org}/{model}", task)

	mux.HandleFunc("/", s.handler.HandleNotFound)

	return s.middlewares(mux)
}

// taskGate prices task calls by the model TaskGuard resolved and describes
// the resource by task name.
func (s *Server) taskGate(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gate := s.gate.Middleware(payment.RouteOptions{
			ServiceDescription: "Hugging Face " + observability.GetTask(r.Context()),
			EndpointFunc:       TaskEndpoint,
			CategoryFunc:       nil,
		})
		gate(next).ServeHTTP(w, r)
	})
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.Int("port", s.config.Port))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
