// Package server serves the MCP endpoint over streamable HTTP.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	mcpserver "github.com/mark3labs/mcp-go/server"

	common "github.com/bobmcallan/firstrade-mcp/internal/common"
	"github.com/bobmcallan/firstrade-mcp/internal/config"
)

// Server manages the HTTP server and routes.
type Server struct {
	router chi.Router
	server *http.Server
	logger *common.Logger
	mcp    http.Handler
}

// New creates an HTTP server exposing mcpSrv at /mcp.
func New(cfg *config.Config, mcpSrv *mcpserver.MCPServer, logger *common.Logger) *Server {
	s := &Server{
		logger: logger,
		mcp: mcpserver.NewStreamableHTTPServer(mcpSrv,
			mcpserver.WithStateLess(true),
		),
	}

	s.router = s.setupRoutes()

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	s.server = &http.Server{
		Addr:        addr,
		Handler:     s.router,
		ReadTimeout: 30 * time.Second,
		IdleTimeout: 120 * time.Second,
	}

	return s
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	s.logger.Info().Str("address", s.server.Addr).Msg("HTTP server starting")

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server failed: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info().Msg("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	s.logger.Info().Msg("HTTP server stopped")
	return nil
}

// Handler returns the HTTP handler for testing.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}
