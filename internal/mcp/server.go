package mcp

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
	mcplib "github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"github.com/plexatic/storeconnect/internal/domains"
)

// New assembles the MCP server and registers every tool exposed by the
// given domain handlers. The server speaks JSON-RPC over stdio, so all
// logging must go to stderr.
func New(version string, log *slog.Logger, handlers ...domains.Handler) *server.MCPServer {
	s := server.NewMCPServer(
		"storeconnect",
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithToolHandlerMiddleware(requestLogger(log)),
	)

	for _, h := range handlers {
		tools := h.Tools()
		s.AddTools(tools...)
		log.Debug("registered tool category",
			"category", h.Category(),
			"tools", len(tools))
	}

	return s
}

// Serve runs the server on stdin/stdout until the client disconnects.
func Serve(s *server.MCPServer) error {
	return server.ServeStdio(s)
}

// requestLogger tags every tool call with a request id and records its
// outcome and duration.
func requestLogger(log *slog.Logger) server.ToolHandlerMiddleware {
	return func(next server.ToolHandlerFunc) server.ToolHandlerFunc {
		return func(ctx context.Context, req mcplib.CallToolRequest) (*mcplib.CallToolResult, error) {
			requestID := uuid.NewString()
			start := time.Now()

			res, err := next(ctx, req)

			attrs := []any{
				"request_id", requestID,
				"tool", req.Params.Name,
				"duration_ms", time.Since(start).Milliseconds(),
			}
			switch {
			case err != nil:
				log.Error("tool call failed", append(attrs, "error", err)...)
			case res != nil && res.IsError:
				log.Warn("tool call returned error result", attrs...)
			default:
				log.Debug("tool call completed", attrs...)
			}
			return res, err
		}
	}
}
