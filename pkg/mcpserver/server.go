// Package mcpserver exposes the workflow steps as MCP tools over stdio.
package mcpserver

import (
	"context"
	"encoding/json"
	"io"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
	"github.com/pkg/errors"

	"github.com/jingkaihe/skillbox/pkg/logger"
	"github.com/jingkaihe/skillbox/pkg/steps"
)

// Name is the server name reported to MCP clients.
const Name = "skillbox"

const instructions = `skillbox manages OpenSpec change proposals.
Typical flow: init, proposal, tasks, implement (mode next then done per task), archive.
Every tool returns JSON; failures have "success": false and a message.`

// Server wraps an MCP server whose tools are dispatcher steps.
type Server struct {
	dispatcher *steps.Dispatcher
	mcp        *server.MCPServer
	tools      []mcp.Tool
}

// New registers one tool per step of d.
func New(d *steps.Dispatcher, version string) (*Server, error) {
	s := &Server{
		dispatcher: d,
		mcp: server.NewMCPServer(
			Name,
			version,
			server.WithToolCapabilities(false),
			server.WithRecovery(),
			server.WithInstructions(instructions),
		),
	}

	for _, step := range d.Steps() {
		schema, err := json.Marshal(step.Schema())
		if err != nil {
			return nil, errors.Wrapf(err, "failed to marshal input schema for %s", step.Name)
		}
		tool := mcp.NewToolWithRawSchema(step.Name, step.Description, schema)
		s.mcp.AddTool(tool, s.handler(step.Name))
		s.tools = append(s.tools, tool)
	}
	return s, nil
}

// Tools returns the registered tool definitions.
func (s *Server) Tools() []mcp.Tool {
	return s.tools
}

// MCP returns the underlying server.
func (s *Server) MCP() *server.MCPServer {
	return s.mcp
}

// Serve speaks MCP over in and out until ctx is cancelled or in is closed.
func (s *Server) Serve(ctx context.Context, in io.Reader, out io.Writer) error {
	logger.G(ctx).WithField("tools", len(s.tools)).Info("serving MCP over stdio")
	return server.NewStdioServer(s.mcp).Listen(ctx, in, out)
}

func (s *Server) handler(name string) server.ToolHandlerFunc {
	return func(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		result := s.dispatcher.Run(ctx, name, req.GetArguments())

		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, errors.Wrapf(err, "failed to encode result of %s", name)
		}
		if _, failed := result.(steps.Failure); failed {
			return mcp.NewToolResultError(string(data)), nil
		}
		return mcp.NewToolResultText(string(data)), nil
	}
}
