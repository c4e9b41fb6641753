package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/bobmcallan/firstrade-mcp/internal/broker"
	common "github.com/bobmcallan/firstrade-mcp/internal/common"
)

// Backend sends a resolved endpoint and returns the JSON body.
// *broker.Client is the production implementation.
type Backend interface {
	Do(ctx context.Context, ep broker.Endpoint) (json.RawMessage, error)
}

// ToolHandler routes one tool call: extract and check parameters, resolve the
// endpoint, send it, and wrap the backend JSON. Every failure becomes an
// IsError result; the handler itself never returns a Go error.
func ToolHandler(backend Backend, base string, op broker.Operation, logger *common.Logger) server.ToolHandlerFunc {
	return func(ctx context.Context, r mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		log := logger.WithCorrelationId(uuid.NewString())

		params, err := extractParams(op, r)
		if err == nil {
			err = broker.CheckParams(op, params)
		}
		if err != nil {
			log.Warn().Str("tool", op.Name).Str("error", err.Error()).Msg("tool call rejected")
			return adapterErrorResult(err), nil
		}

		ep, err := broker.Resolve(base, op, params)
		if err != nil {
			return adapterErrorResult(err), nil
		}

		log.Debug().Str("tool", op.Name).Str("method", string(ep.Method)).Str("url", ep.URL).Msg("tool call")

		payload, err := backend.Do(ctx, ep)
		if err != nil {
			log.Warn().Str("tool", op.Name).Str("error", err.Error()).Msg("tool call failed")
			return adapterErrorResult(err), nil
		}
		return jsonResult(payload), nil
	}
}

// extractParams reads the parameters op declares from the request arguments.
// Absent values stay nil; CheckParams decides whether that is an error.
func extractParams(op broker.Operation, r mcp.CallToolRequest) (broker.Params, error) {
	var params broker.Params
	args := r.GetArguments()

	for _, spec := range op.Params {
		raw, ok := args[string(spec.Name)]
		if !ok || raw == nil {
			continue
		}

		switch spec.Name {
		case broker.ParamID:
			id, err := parseID(raw)
			if err != nil {
				return params, broker.InvalidParameter(op.Name, string(spec.Name), err)
			}
			params.ID = &id
		case broker.ParamName, broker.ParamSymbol:
			s, ok := raw.(string)
			if !ok {
				return params, broker.InvalidParameter(op.Name, string(spec.Name), fmt.Errorf("expected a string, got %T", raw))
			}
			if spec.Name == broker.ParamName {
				params.Name = &s
			} else {
				params.Symbol = &s
			}
		}
	}
	return params, nil
}

// parseID accepts a watchlist id as a JSON number or a numeric string.
func parseID(raw any) (uint8, error) {
	switch v := raw.(type) {
	case float64:
		if v != math.Trunc(v) || v < 0 || v > math.MaxUint8 {
			return 0, fmt.Errorf("id must be an integer between 0 and 255, got %v", v)
		}
		return uint8(v), nil
	case int:
		if v < 0 || v > math.MaxUint8 {
			return 0, fmt.Errorf("id must be an integer between 0 and 255, got %d", v)
		}
		return uint8(v), nil
	case json.Number:
		return parseIDString(v.String())
	case string:
		return parseIDString(v)
	default:
		return 0, fmt.Errorf("id must be an integer, got %T", raw)
	}
}

func parseIDString(s string) (uint8, error) {
	n, err := strconv.ParseUint(strings.TrimSpace(s), 10, 8)
	if err != nil {
		return 0, fmt.Errorf("id must be an integer between 0 and 255, got %q", s)
	}
	return uint8(n), nil
}
