package cmd

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/takeshy/drivevids/internal/config"
)

var (
	Version    = "dev"
	apiKey     string
	geminiKey  string
	folderID   string
	configFile string
	verbose    bool
)

var rootCmd = &cobra.Command{
	Use:     "drivevids",
	Short:   "Browse and download the videos of a Google Drive folder",
	Version: Version,
	Long: `drivevids lists the videos stored in a Google Drive folder, lets you
search, sort, select and download them from the terminal or a web UI, and
optionally uses Gemini to suggest search terms and filter by meaning.

Configuration is read from ~/.drivevids.yaml (or --config), then from
environment variables, then from flags.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute runs the root command. SIGINT and SIGTERM cancel the command
// context.
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&apiKey, "api-key", "k", "", "Google Drive API key (or set DRIVEVIDS_API_KEY / GOOGLE_API_KEY env var)")
	rootCmd.PersistentFlags().StringVar(&geminiKey, "gemini-key", "", "Gemini API key for AI features (or set GEMINI_API_KEY env var)")
	rootCmd.PersistentFlags().StringVarP(&folderID, "folder", "f", "", "Drive folder id (or set DRIVEVIDS_FOLDER_ID env var)")
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "", "Path to config file (default: ~/.drivevids.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Log requests and background transfers")
}

// loadConfig reads the config file and environment, then applies flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(configFile)
	if err != nil {
		return nil, err
	}
	if apiKey != "" {
		cfg.Drive.APIKey = apiKey
	}
	if geminiKey != "" {
		cfg.Gemini.APIKey = geminiKey
	}
	if folderID != "" {
		cfg.Drive.FolderID = folderID
	}
	return cfg, nil
}

func getAPIKey(cfg *config.Config) (string, error) {
	if cfg.Drive.APIKey == "" {
		return "", fmt.Errorf("API key not provided. Use --api-key flag or set DRIVEVIDS_API_KEY environment variable")
	}
	return cfg.Drive.APIKey, nil
}

func getGeminiKey(cfg *config.Config) (string, error) {
	if cfg.Gemini.APIKey == "" {
		return "", fmt.Errorf("Gemini API key not provided. Use --gemini-key flag or set GEMINI_API_KEY environment variable")
	}
	return cfg.Gemini.APIKey, nil
}

func newLogger() *log.Logger {
	return log.New(os.Stderr, "drivevids: ", log.LstdFlags)
}
