package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/takeshy/drivevids/internal/links"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{
		"DRIVEVIDS_API_KEY", "GOOGLE_API_KEY", "DRIVEVIDS_FOLDER_ID", "GEMINI_API_KEY",
		"GEMINI_MODEL", "DRIVEVIDS_LOCALE", "DRIVEVIDS_DOWNLOAD_DIR", "PORT", "DRIVEVIDS_SERVE_API_KEY",
	} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte(body), 0o600); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_FileAndDefaults(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
drive:
  api_key: file-key
  folder_id: folder-1
display:
  locale: en-US
  time_zone: UTC
downloads:
  dir: /tmp/videos
  large_file_mb: 50
  stagger_ms: 250
`)

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Drive.APIKey != "file-key" || cfg.Drive.FolderID != "folder-1" {
		t.Errorf("drive config %+v", cfg.Drive)
	}
	if cfg.Drive.PageSize != 1000 {
		t.Errorf("page size default = %d", cfg.Drive.PageSize)
	}
	if cfg.Server.Port != 8080 {
		t.Errorf("port default = %d", cfg.Server.Port)
	}

	p := cfg.Policy()
	if p.LargeFileThreshold != 50*1024*1024 {
		t.Errorf("threshold = %d", p.LargeFileThreshold)
	}
	if p.Stagger != 250*time.Millisecond {
		t.Errorf("stagger = %v", p.Stagger)
	}
	if p.CopyFeedback != 2*time.Second {
		t.Errorf("copy feedback default = %v", p.CopyFeedback)
	}

	loc, err := cfg.Location()
	if err != nil || loc != time.UTC {
		t.Errorf("location %v, err %v", loc, err)
	}
}

func TestLoad_EnvOverrides(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, "drive:\n  api_key: file-key\n")
	t.Setenv("DRIVEVIDS_API_KEY", "env-key")
	t.Setenv("GEMINI_API_KEY", "gem")
	t.Setenv("PORT", "9090")

	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Drive.APIKey != "env-key" {
		t.Errorf("api key = %q", cfg.Drive.APIKey)
	}
	if cfg.Gemini.APIKey != "gem" {
		t.Errorf("gemini key = %q", cfg.Gemini.APIKey)
	}
	if cfg.Server.Port != 9090 {
		t.Errorf("port = %d", cfg.Server.Port)
	}
	if cfg.Drive.FolderID != DefaultFolderID {
		t.Errorf("folder = %q", cfg.Drive.FolderID)
	}
}

func TestLoad_GoogleKeyFallback(t *testing.T) {
	clearEnv(t)
	t.Setenv("GOOGLE_API_KEY", "g")
	cfg, err := Load(writeConfig(t, ""))
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.Drive.APIKey != "g" {
		t.Errorf("api key = %q", cfg.Drive.APIKey)
	}
}

func TestLoad_MissingFiles(t *testing.T) {
	clearEnv(t)
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("explicit missing file should fail")
	}

	t.Setenv("HOME", t.TempDir())
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("absent default file should be fine: %v", err)
	}
	if cfg.Drive.APIKey != "" {
		t.Errorf("unexpected key %q", cfg.Drive.APIKey)
	}
}

func TestValidate_Rejects(t *testing.T) {
	cases := map[string]Config{
		"page size": {Drive: DriveConfig{PageSize: 5000}},
		"time zone": {Display: DisplayConfig{TimeZone: "Nowhere/Special"}},
		"template":  {Links: links.Templates{Viewer: "https://x/{name}"}},
		"negative":  {Downloads: DownloadConfig{StaggerMS: -1}},
		"port":      {Server: ServerConfig{Port: 70000}},
	}
	for name, cfg := range cases {
		if err := cfg.Validate(); err == nil {
			t.Errorf("%s: expected validation error", name)
		}
	}
}
