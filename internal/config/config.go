package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"gopkg.in/yaml.v2"

	"github.com/takeshy/drivevids/internal/drive"
	"github.com/takeshy/drivevids/internal/links"
	"github.com/takeshy/drivevids/internal/view"
)

const (
	defaultConfigFile = ".drivevids.yaml"

	// DefaultFolderID is the Drive folder listed when none is configured.
	DefaultFolderID = "1lVuYpQgI5Ledq9q3Hnv555Fhw46SiY0T"
)

// Config is the root configuration structure
type Config struct {
	Drive     DriveConfig     `yaml:"drive"`
	Gemini    GeminiConfig    `yaml:"gemini"`
	Display   DisplayConfig   `yaml:"display"`
	Links     links.Templates `yaml:"links"`
	Downloads DownloadConfig  `yaml:"downloads"`
	Server    ServerConfig    `yaml:"server"`
}

type DriveConfig struct {
	APIKey   string `yaml:"api_key"`
	FolderID string `yaml:"folder_id"`
	PageSize int    `yaml:"page_size"`
}

type GeminiConfig struct {
	APIKey string `yaml:"api_key"`
	Model  string `yaml:"model"`
}

type DisplayConfig struct {
	Locale   string `yaml:"locale"`
	TimeZone string `yaml:"time_zone"`
}

type DownloadConfig struct {
	Dir             string `yaml:"dir"`
	HistoryFile     string `yaml:"history_file"`
	LargeFileMB     int64  `yaml:"large_file_mb"`
	ExternalDelayMS int    `yaml:"external_delay_ms"`
	FlagTimeoutMS   int    `yaml:"flag_timeout_ms"`
	StaggerMS       int    `yaml:"stagger_ms"`
	BulkTimeoutMS   int    `yaml:"bulk_timeout_ms"`
	CopyFeedbackMS  int    `yaml:"copy_feedback_ms"`
}

type ServerConfig struct {
	Port   int    `yaml:"port"`
	APIKey string `yaml:"api_key"`
}

// DefaultPath returns ~/.drivevids.yaml
func DefaultPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("failed to get home directory: %w", err)
	}
	return filepath.Join(home, defaultConfigFile), nil
}

// Load reads the configuration file, applies environment overrides and
// validates the result. An empty path means the default file, which may be
// absent; an explicit path must exist.
func Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		p, err := DefaultPath()
		if err != nil {
			return nil, err
		}
		path = p
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	case errors.Is(err, os.ErrNotExist) && !explicit:
	default:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// applyEnvOverrides allows environment variables to override config values
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("DRIVEVIDS_API_KEY"); key != "" {
		c.Drive.APIKey = key
	} else if key := os.Getenv("GOOGLE_API_KEY"); key != "" && c.Drive.APIKey == "" {
		c.Drive.APIKey = key
	}
	if folder := os.Getenv("DRIVEVIDS_FOLDER_ID"); folder != "" {
		c.Drive.FolderID = folder
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.Gemini.APIKey = key
	}
	if model := os.Getenv("GEMINI_MODEL"); model != "" {
		c.Gemini.Model = model
	}
	if locale := os.Getenv("DRIVEVIDS_LOCALE"); locale != "" {
		c.Display.Locale = locale
	}
	if dir := os.Getenv("DRIVEVIDS_DOWNLOAD_DIR"); dir != "" {
		c.Downloads.Dir = dir
	}
	if port := os.Getenv("PORT"); port != "" {
		if p, err := strconv.Atoi(port); err == nil {
			c.Server.Port = p
		}
	}
	if key := os.Getenv("DRIVEVIDS_SERVE_API_KEY"); key != "" {
		c.Server.APIKey = key
	}
}

// Validate fills defaults and checks values. A missing Drive API key is
// not an error here: fetching reports it.
func (c *Config) Validate() error {
	if c.Drive.FolderID == "" {
		c.Drive.FolderID = DefaultFolderID
	}
	if c.Drive.PageSize == 0 {
		c.Drive.PageSize = drive.MaxPageSize
	}
	if c.Drive.PageSize < 0 || c.Drive.PageSize > drive.MaxPageSize {
		return fmt.Errorf("drive page size must be between 1 and %d", drive.MaxPageSize)
	}

	if c.Display.Locale == "" {
		c.Display.Locale = "pt-BR"
	}
	if _, err := c.Location(); err != nil {
		return err
	}

	if _, err := links.NewBuilder(c.Links); err != nil {
		return err
	}

	if c.Downloads.Dir == "" {
		c.Downloads.Dir = "."
	}
	if c.Downloads.LargeFileMB < 0 {
		return fmt.Errorf("large_file_mb must not be negative")
	}
	for name, v := range map[string]int{
		"external_delay_ms": c.Downloads.ExternalDelayMS,
		"flag_timeout_ms":   c.Downloads.FlagTimeoutMS,
		"stagger_ms":        c.Downloads.StaggerMS,
		"bulk_timeout_ms":   c.Downloads.BulkTimeoutMS,
		"copy_feedback_ms":  c.Downloads.CopyFeedbackMS,
	} {
		if v < 0 {
			return fmt.Errorf("%s must not be negative", name)
		}
	}

	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	return nil
}

// Location resolves the configured time zone, local time when unset.
func (c *Config) Location() (*time.Location, error) {
	if c.Display.TimeZone == "" {
		return time.Local, nil
	}
	loc, err := time.LoadLocation(c.Display.TimeZone)
	if err != nil {
		return nil, fmt.Errorf("invalid time zone %q: %w", c.Display.TimeZone, err)
	}
	return loc, nil
}

// Policy returns the download policy with configured overrides applied.
func (c *Config) Policy() view.Policy {
	p := view.DefaultPolicy()
	if c.Downloads.LargeFileMB > 0 {
		p.LargeFileThreshold = c.Downloads.LargeFileMB * 1024 * 1024
	}
	setMS(&p.ExternalDelay, c.Downloads.ExternalDelayMS)
	setMS(&p.FlagTimeout, c.Downloads.FlagTimeoutMS)
	setMS(&p.Stagger, c.Downloads.StaggerMS)
	setMS(&p.BulkTimeout, c.Downloads.BulkTimeoutMS)
	setMS(&p.CopyFeedback, c.Downloads.CopyFeedbackMS)
	return p
}

func setMS(d *time.Duration, ms int) {
	if ms > 0 {
		*d = time.Duration(ms) * time.Millisecond
	}
}
