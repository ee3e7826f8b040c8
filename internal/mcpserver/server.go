package mcpserver

import (
	"github.com/mark3labs/mcp-go/server"
)

// Version is reported to MCP clients during initialization.
var Version = "dev"

// New builds an MCP server with the idea scoring tool registered.
func New(scorer IdeaScorer) *server.MCPServer {
	s := server.NewMCPServer(
		"validateai",
		Version,
		server.WithToolCapabilities(true),
		server.WithRecovery(),
		server.WithInstructions("Use score_idea to get a strict, structured verdict on a product idea. "+
			"Pass the previous score to see how an iteration moved."),
	)
	tool := NewScoreTool(scorer)
	s.AddTool(tool.Definition(), tool.Handle)
	return s
}
