package mcp

import (
	"log/slog"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

// New creates an MCP server with all tools and resources registered.
func New(ds DataSource, version string, log *slog.Logger) *server.MCPServer {
	s := server.NewMCPServer("SwingSense", version,
		server.WithToolCapabilities(false),
		server.WithResourceCapabilities(false, false),
		server.WithInstructions("SwingSense kettlebell analysis server. Query stored video analyses: rep-by-rep speed metrics, anaerobic threshold (ANT) detection results, and aggregate training summaries."),
	)

	h := &handlers{ds: ds, log: log}

	// Tools
	s.AddTools(
		server.ServerTool{Tool: toolListAnalyses, Handler: h.listAnalyses},
		server.ServerTool{Tool: toolGetAnalysis, Handler: h.getAnalysis},
		server.ServerTool{Tool: toolGetRepMetrics, Handler: h.getRepMetrics},
		server.ServerTool{Tool: toolGetANTSummary, Handler: h.getANTSummary},
	)

	// Resources
	s.AddResources(
		server.ServerResource{Resource: resRecentAnalyses, Handler: h.recentAnalyses},
	)

	return s
}

// handlers holds dependencies for MCP tool/resource handlers.
type handlers struct {
	ds  DataSource
	log *slog.Logger
}

// --- Resource definitions ---

var resRecentAnalyses = mcp.NewResource(
	"swingsense://recent_analyses",
	"Recent Analyses",
	mcp.WithResourceDescription("The 20 most recent video analyses with movement type, rep counts, and ANT outcomes"),
	mcp.WithMIMEType("application/json"),
)
