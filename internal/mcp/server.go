package mcp

import (
	"context"
	"net/http"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/takeshy/drivevids/internal/gemini"
	"github.com/takeshy/drivevids/internal/view"
)

// Server wraps the MCP server with catalog-specific tools
type Server struct {
	mcpServer *mcp.Server
	catalog   *view.Controller
	assistant *gemini.Assistant
}

// NewServer creates a new MCP server backed by the catalog controller.
// assistant may be nil; the AI tools then return empty results.
func NewServer(catalog *view.Controller, assistant *gemini.Assistant, version string) *Server {
	mcpServer := mcp.NewServer(&mcp.Implementation{
		Name:    "drivevids",
		Version: version,
	}, nil)

	s := &Server{
		mcpServer: mcpServer,
		catalog:   catalog,
		assistant: assistant,
	}
	s.registerTools()
	return s
}

// registerTools registers all MCP tools
func (s *Server) registerTools() {
	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "list_videos",
		Description: "List the videos of the Drive folder, optionally filtered by a case-insensitive name substring and sorted by name.",
	}, s.handleListVideos)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "refresh_catalog",
		Description: "Re-fetch the video list from Google Drive.",
	}, s.handleRefresh)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "suggest_terms",
		Description: "Suggest up to three related search terms for a query, based on the video names. Requires a Gemini API key.",
	}, s.handleSuggest)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "ai_filter",
		Description: "Return the videos whose names are semantically relevant to a natural language query. Requires a Gemini API key.",
	}, s.handleAIFilter)

	mcp.AddTool(s.mcpServer, &mcp.Tool{
		Name:        "video_links",
		Description: "Return the viewer, preview, thumbnail and download URLs of a video.",
	}, s.handleVideoLinks)
}

// RunStdio runs the server using stdio transport
func (s *Server) RunStdio(ctx context.Context) error {
	return s.mcpServer.Run(ctx, &mcp.StdioTransport{})
}

// NewHTTPHandler creates an HTTP handler for SSE transport
func (s *Server) NewHTTPHandler() http.Handler {
	return mcp.NewSSEHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// NewStreamableHTTPHandler creates a streamable HTTP handler
func (s *Server) NewStreamableHTTPHandler() http.Handler {
	return mcp.NewStreamableHTTPHandler(func(req *http.Request) *mcp.Server {
		return s.mcpServer
	}, nil)
}

// ensureLoaded fetches the catalog on first use.
func (s *Server) ensureLoaded(ctx context.Context) error {
	if s.catalog.Loaded() {
		return nil
	}
	return s.catalog.Refresh(ctx)
}
