package server

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	common "github.com/bobmcallan/firstrade-mcp/internal/common"
)

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() chi.Router {
	r := chi.NewRouter()
	r.Use(s.correlationIDMiddleware, s.loggingMiddleware, s.recoveryMiddleware, maxBodySizeMiddleware(1<<20))

	// MCP endpoint (JSON-RPC over HTTP)
	r.Handle("/mcp", s.mcp)

	r.Get("/health", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.NotFound(s.handleNotFound)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleVersion(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"version": common.Version,
		"build":   common.Build,
		"commit":  common.GitCommit,
	})
}

// handleNotFound returns a JSON 404 for unmatched routes.
func (s *Server) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{
		"error":   "Not Found",
		"message": "The requested endpoint does not exist",
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
