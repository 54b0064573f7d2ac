// Package server exposes the studio over HTTP: the JSON API, the dashboard,
// live events over WebSocket and, optionally, the MCP endpoint.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/ncsound919/OG-Glass/internal/config"
	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/services"
)

// Options carries the optional collaborators of a Server.
type Options struct {
	// MCPHandler is mounted at /mcp when set.
	MCPHandler http.Handler
	Logger     logging.Logger
}

// Server is the HTTP front of a Studio.
type Server struct {
	config     *config.Config
	studio     *services.Studio
	logger     logging.Logger
	hub        *Hub
	limiter    *RateLimiter
	origins    originPolicy
	mcpHandler http.Handler

	httpServer   *http.Server
	serverMutex  sync.Mutex
	shutdownOnce sync.Once
}

// New creates a server for studio. Nothing listens until Start.
func New(cfg *config.Config, studio *services.Studio, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}
	logger = logger.WithComponent("server")

	return &Server{
		config:  cfg,
		studio:  studio,
		logger:  logger,
		hub:     NewHub(logger),
		origins: originPolicy{allowed: cfg.Server.AllowedOrigins},
		limiter: NewRateLimiter(RateLimitConfig{
			RequestsPerMinute: cfg.RateLimit.WriteRequestsPerMinute,
			Enabled:           cfg.RateLimit.Enabled,
		}, logger),
		mcpHandler: opts.MCPHandler,
	}
}

// Handler returns the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	write := s.limiter.Middleware

	mux.HandleFunc("GET /{$}", s.handleDashboard)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /ws", s.handleWebSocket)

	mux.HandleFunc("GET /api/presets", s.handleListPresets)
	mux.Handle("POST /api/presets/load", write(http.HandlerFunc(s.handleLoadPreset)))
	mux.Handle("POST /api/presets/swap", write(http.HandlerFunc(s.handleSwapPreset)))
	mux.Handle("POST /api/presets/diff", write(http.HandlerFunc(s.handleDiff)))

	mux.HandleFunc("GET /api/session", s.handleSession)
	mux.HandleFunc("GET /api/tokens", s.handleTokens)
	mux.Handle("POST /api/tokens/export", write(http.HandlerFunc(s.handleExport)))
	mux.Handle("POST /api/tokens/overrides", write(http.HandlerFunc(s.handleOverrides)))

	mux.Handle("POST /api/validate", write(http.HandlerFunc(s.handleValidate)))
	mux.Handle("POST /api/correct", write(http.HandlerFunc(s.handleCorrect)))
	mux.Handle("POST /api/scaffold", write(http.HandlerFunc(s.handleScaffold)))

	mux.HandleFunc("GET /api/styles", s.handleStyles)
	mux.Handle("POST /api/styles/suggest", write(http.HandlerFunc(s.handleSuggestStyle)))
	mux.Handle("POST /api/palette", write(http.HandlerFunc(s.handlePalette)))

	mux.HandleFunc("GET /api/components", s.handleComponents)
	mux.HandleFunc("GET /api/layouts", s.handleLayouts)
	mux.Handle("POST /api/components/generate", write(http.HandlerFunc(s.handleGenerate)))

	if s.mcpHandler != nil {
		mux.Handle("/mcp", s.mcpHandler)
	}

	var handler http.Handler = mux
	handler = CORSMiddleware(s.origins)(handler)
	handler = SecurityMiddleware(s.securityConfig(), s.logger)(handler)
	handler = LoggingMiddleware(s.logger)(handler)
	handler = RequestIDMiddleware(handler)

	return handler
}

func (s *Server) securityConfig() *SecurityConfig {
	sec := DefaultSecurityConfig()
	sec.AllowedOrigins = s.config.Server.AllowedOrigins
	return sec
}

// Start serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.config.Server.Addr())
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Start over an existing listener.
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	events, cancel := s.studio.Subscribe()
	defer cancel()

	hubCtx, stopHub := context.WithCancel(ctx)
	defer stopHub()
	go s.hub.Run(hubCtx, events)

	s.serverMutex.Lock()
	s.httpServer = &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}
	srv := s.httpServer
	s.serverMutex.Unlock()

	s.logger.Info(ctx, "Server listening", "addr", listener.Addr().String())

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancelShutdown()
		return s.Shutdown(shutdownCtx)
	}
}

// Shutdown stops accepting requests, disconnects live clients and waits for
// in-flight requests until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	var err error
	s.shutdownOnce.Do(func() {
		s.logger.Info(ctx, "Shutting down server")

		s.hub.closeAll()
		s.limiter.Stop()

		s.serverMutex.Lock()
		srv := s.httpServer
		s.serverMutex.Unlock()

		if srv != nil {
			err = srv.Shutdown(ctx)
		}
	})
	return err
}
