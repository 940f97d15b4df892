package cmd

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/spf13/cobra"

	mcpserver "github.com/takeshy/drivevids/internal/mcp"
	"github.com/takeshy/drivevids/internal/transfer"
	"github.com/takeshy/drivevids/internal/view"
	"github.com/takeshy/drivevids/internal/web"
)

var (
	servePort   int
	serveAPIKey string
	serveDir    string
	serveMCP    bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the web UI",
	Long: `Start a web UI for browsing the folder's videos: search, sort, grid or
list layout, preview, selection, downloads and link copying.

Small videos are saved by the server into the download directory; large ones
send the browser to Drive. With --mcp the MCP tools are also served at /mcp
(streamable HTTP) and /sse.

Examples:
  drivevids serve --port 8080
  drivevids serve --serve-api-key mysecretkey --mcp

  # Or use environment variables
  export DRIVEVIDS_SERVE_API_KEY=mysecretkey
  drivevids serve`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port for the HTTP server (default: server.port from config, or 8080)")
	serveCmd.Flags().StringVar(&serveAPIKey, "serve-api-key", "", "API key required by the server (or DRIVEVIDS_SERVE_API_KEY env var)")
	serveCmd.Flags().StringVarP(&serveDir, "dir", "d", "", "Directory for server-side downloads")
	serveCmd.Flags().BoolVar(&serveMCP, "mcp", false, "Also serve MCP tools at /mcp and /sse")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if servePort != 0 {
		cfg.Server.Port = servePort
	}
	if serveAPIKey != "" {
		cfg.Server.APIKey = serveAPIKey
	}
	if serveDir != "" {
		cfg.Downloads.Dir = serveDir
	}

	history, err := openHistory(cfg)
	if err != nil {
		return err
	}

	logger := newLogger()
	saver := transfer.NewSaver(cfg.Downloads.Dir, nil)
	a, err := newApp(cfg, logger, view.WithSaver(recordingSaver{saver: saver, history: history, logger: logger}))
	if err != nil {
		return err
	}
	defer a.ctl.Close()

	opts := web.Options{
		Controller: a.ctl,
		Assistant:  a.assistant,
		APIKey:     cfg.Server.APIKey,
		Logger:     logger,
		Verbose:    verbose,
		Version:    Version,
	}
	if serveMCP {
		if cfg.Server.APIKey == "" {
			return fmt.Errorf("API key required for MCP over HTTP. Use --serve-api-key or set DRIVEVIDS_SERVE_API_KEY environment variable")
		}
		m := mcpserver.NewServer(a.ctl, a.assistant, Version)
		opts.MCP = m.NewStreamableHTTPHandler()
		opts.SSE = m.NewHTTPHandler()
	}

	auth := "no authentication"
	if cfg.Server.APIKey != "" {
		auth = "API key authentication enabled"
	}
	fmt.Fprintf(os.Stderr, "Starting web UI on http://localhost:%d (%s)\n", cfg.Server.Port, auth)
	fmt.Fprintf(os.Stderr, "Downloads go to %s\n", saver.Dir())

	return listenAndServe(cmd.Context(), fmt.Sprintf(":%d", cfg.Server.Port), web.NewServer(opts))
}

// listenAndServe runs the server until ctx is cancelled, then shuts it down.
func listenAndServe(ctx context.Context, addr string, handler http.Handler) error {
	server := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(os.Stderr, "\nShutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}
	return nil
}
