package mcp

import (
	"encoding/json"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bobmcallan/firstrade-mcp/internal/broker"
)

// errorResult creates an MCP error result.
func errorResult(message string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.NewTextContent(message),
		},
		IsError: true,
	}
}

// adapterErrorResult renders an AdapterError as an error result carrying
// kind, message and reason as structured content.
func adapterErrorResult(err error) *mcp.CallToolResult {
	ae, ok := broker.AsAdapterError(err)
	if !ok {
		return errorResult(fmt.Sprintf("Error: %v", err))
	}
	result := errorResult(ae.Message)
	result.StructuredContent = ae.Fields()
	return result
}

// jsonResult forwards the backend payload unmodified as text content.
func jsonResult(payload json.RawMessage) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{mcp.NewTextContent(string(payload))},
	}
}
