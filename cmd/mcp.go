package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	mcpserver "github.com/takeshy/drivevids/internal/mcp"
	"github.com/takeshy/drivevids/internal/web"
)

var (
	mcpTransport string
	mcpPort      int
	mcpAPIKey    string
)

var mcpCmd = &cobra.Command{
	Use:   "mcp",
	Short: "Start MCP server for AI assistant integration",
	Long: `Start a Model Context Protocol (MCP) server that exposes the video
catalog to AI assistants: list_videos, refresh_catalog, suggest_terms,
ai_filter and video_links.

Transport options:
  stdio: Standard input/output (default, for local CLI integration)
  sse:   Server-Sent Events over HTTP (requires API key)
  http:  Streamable HTTP (requires API key)

Examples:
  drivevids mcp
  drivevids mcp --transport http --port 8080 --serve-api-key mysecretkey

Claude Desktop Configuration (~/.config/claude/claude_desktop_config.json):
  {
    "mcpServers": {
      "drivevids": {
        "command": "/path/to/drivevids",
        "args": ["mcp"],
        "env": {
          "DRIVEVIDS_API_KEY": "your-drive-api-key",
          "GEMINI_API_KEY": "your-gemini-api-key"
        }
      }
    }
  }`,
	RunE: runMCP,
}

func init() {
	mcpCmd.Flags().StringVar(&mcpTransport, "transport", "stdio", "Transport type: stdio, sse, or http")
	mcpCmd.Flags().IntVar(&mcpPort, "port", 0, "Port for HTTP/SSE server (default: server.port from config, or 8080)")
	mcpCmd.Flags().StringVar(&mcpAPIKey, "serve-api-key", "", "API key for HTTP authentication (or DRIVEVIDS_SERVE_API_KEY env var)")
	rootCmd.AddCommand(mcpCmd)
}

func runMCP(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if mcpPort != 0 {
		cfg.Server.Port = mcpPort
	}
	if mcpAPIKey != "" {
		cfg.Server.APIKey = mcpAPIKey
	}

	logger := newLogger()
	a, err := newApp(cfg, logger)
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	server := mcpserver.NewServer(a.ctl, a.assistant, Version)
	ctx := cmd.Context()

	switch mcpTransport {
	case "stdio":
		fmt.Fprintln(os.Stderr, "Starting MCP server on stdio...")
		return server.RunStdio(ctx)

	case "sse", "http":
		if cfg.Server.APIKey == "" {
			return fmt.Errorf("API key required for HTTP server. Use --serve-api-key or set DRIVEVIDS_SERVE_API_KEY environment variable")
		}
		handler := server.NewHTTPHandler()
		name := "SSE"
		if mcpTransport == "http" {
			handler = server.NewStreamableHTTPHandler()
			name = "HTTP"
		}
		handler = web.APIKeyMiddleware(cfg.Server.APIKey, logger, handler)
		addr := fmt.Sprintf(":%d", cfg.Server.Port)
		fmt.Fprintf(os.Stderr, "Starting MCP %s server on http://localhost%s (API key authentication enabled)\n", name, addr)
		return listenAndServe(ctx, addr, handler)

	default:
		return fmt.Errorf("unknown transport: %s (must be stdio, sse, or http)", mcpTransport)
	}
}
