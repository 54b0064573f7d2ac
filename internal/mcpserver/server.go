// Package mcpserver exposes the studio as Model Context Protocol tools over
// stdio or streamable HTTP.
package mcpserver

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	apperrors "github.com/ncsound919/OG-Glass/internal/errors"
	"github.com/ncsound919/OG-Glass/internal/logging"
	"github.com/ncsound919/OG-Glass/internal/services"
	"github.com/ncsound919/OG-Glass/internal/version"
)

// DefaultName is the server name announced during the MCP handshake.
const DefaultName = "ogglass"

// Options configures a Server.
type Options struct {
	Name   string
	Logger logging.Logger
}

// Server registers every studio tool on an MCP server.
type Server struct {
	studio *services.Studio
	logger logging.Logger
	mcp    *server.MCPServer
}

// New creates the MCP server and registers its tools.
func New(studio *services.Studio, opts Options) *Server {
	name := opts.Name
	if name == "" {
		name = DefaultName
	}
	logger := opts.Logger
	if logger == nil {
		logger = logging.Discard()
	}

	s := &Server{
		studio: studio,
		logger: logger.WithComponent("mcp"),
		mcp: server.NewMCPServer(name, version.Short(),
			server.WithToolCapabilities(false),
			server.WithRecovery(),
		),
	}
	s.registerTools()

	return s
}

// MCPServer returns the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcp
}

// ServeStdio speaks MCP over in and out until ctx is cancelled or in closes.
// Nothing else may write to out.
func (s *Server) ServeStdio(ctx context.Context, in io.Reader, out io.Writer) error {
	s.logger.Info(ctx, "MCP server listening on stdio")

	err := server.NewStdioServer(s.mcp).Listen(ctx, in, out)
	if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// HTTPHandler serves MCP over streamable HTTP; the REST server mounts it at
// /mcp.
func (s *Server) HTTPHandler() http.Handler {
	return server.NewStreamableHTTPServer(s.mcp)
}

// handler is the shape every tool implementation shares.
type handler func(ctx context.Context, req mcp.CallToolRequest) (interface{}, error)

// wrap turns a handler into an mcp-go tool handler: results become indented
// JSON text, failures become tool errors carrying the error message.
func (s *Server) wrap(name string, h handler) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result, err := h(ctx, req)
		if err != nil {
			s.logger.Debug(ctx, "Tool call failed", "tool", name, "error", err.Error())
			return mcp.NewToolResultError(message(err)), nil
		}

		raw, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			s.logger.Error(ctx, err, "Failed to encode tool result", "tool", name)
			return mcp.NewToolResultError("failed to encode result"), nil
		}
		return mcp.NewToolResultText(string(raw)), nil
	}
}

func message(err error) string {
	return apperrors.Describe(err)
}
