// internal/api/server.go
package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	apihandler "github.com/cosmocloud/stockcopilot/internal/api/handler/api"
	"github.com/cosmocloud/stockcopilot/internal/api/handler/web"
	"github.com/cosmocloud/stockcopilot/internal/api/middleware"
	"github.com/cosmocloud/stockcopilot/internal/app"
	"github.com/cosmocloud/stockcopilot/internal/metrics"
)

// Server represents the HTTP server for the stock copilot
type Server struct {
	httpServer *http.Server
	logger     *zap.Logger
	mux        *http.ServeMux
	deps       Dependencies
	apiKey     string
}

// Config holds server configuration
type Config struct {
	Host           string
	Port           int
	APIKey         string
	TemplatesDir   string
	RequestTimeout time.Duration
	MetricsPath    string
}

// Dependencies holds the collaborators the routes are served from.
// Metrics is optional.
type Dependencies struct {
	App     *app.App
	Metrics *metrics.Registry
}

// NewServer creates a new HTTP server
func NewServer(cfg Config, deps Dependencies, logger *zap.Logger) (*Server, error) {
	if deps.App == nil {
		return nil, fmt.Errorf("server requires an app")
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	mux := http.NewServeMux()

	s := &Server{
		logger: logger,
		mux:    mux,
		deps:   deps,
		apiKey: cfg.APIKey,
	}

	// Set up routes
	if err := s.setupRoutes(cfg); err != nil {
		return nil, fmt.Errorf("setting up routes: %w", err)
	}

	var handler http.Handler = mux
	if deps.Metrics != nil {
		handler = metrics.HTTPMiddleware(deps.Metrics)(handler)
	}
	handler = metrics.LoggingMiddleware(logger)(handler)

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: timeout,
		IdleTimeout:  60 * time.Second,
	}

	return s, nil
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(cfg Config) error {
	// Web UI routes
	webHandler, err := web.NewHandler(s.deps.App, cfg.TemplatesDir, s.logger.Named("web"))
	if err != nil {
		return fmt.Errorf("creating web handler: %w", err)
	}

	s.mux.HandleFunc("GET /{$}", webHandler.Index)
	s.mux.HandleFunc("POST /{$}", webHandler.Index)
	s.mux.HandleFunc("GET /result/{stock}", webHandler.Result)
	s.mux.HandleFunc("GET /info/{stock}", webHandler.Info)

	// JSON API routes
	stocks := apihandler.NewStockHandler(s.deps.App)
	insights := apihandler.NewInsightHandler(s.deps.App)

	s.api("GET /api/v1/rating/{symbol}", stocks.Rating)
	s.api("GET /api/v1/resolve", stocks.Resolve)
	s.api("GET /api/v1/info/{symbol}", stocks.Info)
	s.api("GET /api/v1/chart/{symbol}", stocks.Chart)
	s.api("GET /api/v1/ai-rating/{symbol}", stocks.AIRating)
	s.api("POST /api/v1/insight", insights.Ask)

	s.mux.HandleFunc("GET /api/health", s.handleHealth)

	if s.deps.Metrics != nil && cfg.MetricsPath != "" {
		s.mux.Handle("GET "+cfg.MetricsPath, promhttp.HandlerFor(s.deps.Metrics, promhttp.HandlerOpts{}))
	}

	return nil
}

// api registers a JSON route behind API key auth.
func (s *Server) api(pattern string, h http.HandlerFunc) {
	s.mux.Handle(pattern, middleware.APIKeyAuth(s.apiKey)(h))
}

// Handler returns the root handler with middleware applied.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// Addr returns the listen address.
func (s *Server) Addr() string {
	return s.httpServer.Addr
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.httpServer.Addr))
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	fmt.Fprintf(w, `{"status":"ok","source":%q,"llm":%t}`, s.deps.App.SourceName(), s.deps.App.LLMEnabled())
}
