package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/ta-agent/taagent/internal/agent"
)

// toolHandler adapts Registry.Call to an MCP handler. The outcome JSON is
// returned as text either way; failures also set IsError.
func (s *Server) toolHandler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		args := request.GetArguments()
		if args == nil {
			args = map[string]any{}
		}
		raw, err := json.Marshal(args)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding arguments: %v", err)), nil
		}

		start := time.Now()
		outcome := s.registry.Call(ctx, name, raw)
		elapsed := time.Since(start)

		if s.auditor != nil {
			call := agent.ToolCall{SessionID: SessionID, Tool: name, Arguments: string(raw), Outcome: outcome, Duration: elapsed}
			if err := s.auditor.Record(ctx, call); err != nil {
				s.logger.Warn().Err(err).Str("tool", name).Msg("audit record failed")
			}
		}

		body, err := json.Marshal(outcome)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("encoding result: %v", err)), nil
		}

		ev := s.logger.Debug()
		if !outcome.Success {
			ev = s.logger.Warn().Str("kind", string(outcome.Error.Kind))
		}
		ev.Str("tool", name).Dur("elapsed", elapsed).Msg("mcp tool call")

		if !outcome.Success {
			return mcp.NewToolResultError(string(body)), nil
		}
		return mcp.NewToolResultText(string(body)), nil
	}
}
