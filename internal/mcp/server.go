// Package mcp exposes the brokerage operations as MCP tools.
package mcp

import (
	"fmt"

	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/firstrade-mcp/internal/broker"
	common "github.com/bobmcallan/firstrade-mcp/internal/common"
	"github.com/bobmcallan/firstrade-mcp/internal/config"
)

// Instructions is the short description advertised at session start.
const Instructions = "Firstrade MCP Server"

// NewServer validates the operation table and returns an MCP server with
// every operation registered against backend.
func NewServer(cfg *config.Config, backend Backend, logger *common.Logger) (*server.MCPServer, error) {
	ops := broker.Operations()
	if err := broker.ValidateOperations(ops); err != nil {
		return nil, fmt.Errorf("invalid operation table: %w", err)
	}

	s := server.NewMCPServer(
		cfg.Server.Name,
		common.GetVersion(),
		server.WithToolCapabilities(true),
		server.WithInstructions(Instructions),
		server.WithRecovery(),
	)

	count := RegisterTools(s, backend, cfg.API.Addr(), ops, logger)

	logger.Info().
		Int("tools", count).
		Str("api_host", cfg.API.Addr()).
		Msg("MCP server initialized")

	return s, nil
}
