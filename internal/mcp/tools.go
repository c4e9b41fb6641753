package mcp

import (
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/firstrade-mcp/internal/broker"
	common "github.com/bobmcallan/firstrade-mcp/internal/common"
)

// BuildTool converts an operation into an mcp.Tool with its parameter schema.
func BuildTool(op broker.Operation) mcp.Tool {
	opts := []mcp.ToolOption{mcp.WithDescription(op.Description)}
	for _, p := range op.Params {
		opts = append(opts, buildParamOption(p))
	}
	return mcp.NewTool(op.Name, opts...)
}

// buildParamOption maps a parameter onto the matching mcp-go tool option.
// Parameters are optional in the schema; ToolHandler reports a missing one
// as a tool error naming the parameter.
func buildParamOption(p broker.ParamSpec) mcp.ToolOption {
	var opts []mcp.PropertyOption
	if p.Description != "" {
		opts = append(opts, mcp.Description(p.Description))
	}

	switch p.Name {
	case broker.ParamID:
		opts = append(opts, mcp.Min(0), mcp.Max(255))
		return mcp.WithNumber(string(p.Name), opts...)
	default:
		return mcp.WithString(string(p.Name), opts...)
	}
}

// RegisterTools registers one tool per operation and returns how many were added.
func RegisterTools(s *server.MCPServer, backend Backend, base string, ops []broker.Operation, logger *common.Logger) int {
	for _, op := range ops {
		s.AddTool(BuildTool(op), ToolHandler(backend, base, op, logger))
	}
	return len(ops)
}
