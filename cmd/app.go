package cmd

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/atotto/clipboard"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/config"
	"github.com/takeshy/drivevids/internal/drive"
	"github.com/takeshy/drivevids/internal/gemini"
	"github.com/takeshy/drivevids/internal/links"
	"github.com/takeshy/drivevids/internal/store"
	"github.com/takeshy/drivevids/internal/transfer"
	"github.com/takeshy/drivevids/internal/view"
)

// app wires the catalog, controller and assistant from one config.
type app struct {
	cfg       *config.Config
	logger    *log.Logger
	links     *links.Builder
	ctl       *view.Controller
	assistant *gemini.Assistant
}

func newApp(cfg *config.Config, logger *log.Logger, opts ...view.Option) (*app, error) {
	lb, err := links.NewBuilder(cfg.Links)
	if err != nil {
		return nil, err
	}
	loc, err := cfg.Location()
	if err != nil {
		return nil, err
	}

	fetcher := catalog.NewFetcher(catalog.Config{
		APIKey:   cfg.Drive.APIKey,
		FolderID: cfg.Drive.FolderID,
		PageSize: cfg.Drive.PageSize,
		Locale:   cfg.Display.Locale,
		Location: loc,
	}, lb, driveHTTPOption())

	base := []view.Option{
		view.WithLinks(lb),
		view.WithPolicy(cfg.Policy()),
		view.WithLogger(logger),
	}
	ctl := view.New(fetcher, append(base, opts...)...)

	var assistant *gemini.Assistant
	if cfg.Gemini.APIKey != "" {
		assistant = gemini.NewAssistant(gemini.NewClient(cfg.Gemini.APIKey), cfg.Gemini.Model, logger)
	} else {
		assistant = gemini.NewAssistant(nil, cfg.Gemini.Model, logger)
	}

	return &app{cfg: cfg, logger: logger, links: lb, ctl: ctl, assistant: assistant}, nil
}

// load fetches the catalog once.
func (a *app) load(ctx context.Context) error {
	if err := a.ctl.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to fetch videos: %w", err)
	}
	return nil
}

func driveHTTPOption() drive.Option {
	return drive.WithHTTPClient(&http.Client{Timeout: 60 * time.Second})
}

// recordingSaver saves through the transfer saver and records each
// finished file in the download history.
type recordingSaver struct {
	saver   *transfer.Saver
	history *store.Manager
	logger  *log.Logger
}

func (r recordingSaver) Save(ctx context.Context, id, name, link string) (string, error) {
	path, err := r.saver.Save(ctx, id, name, link)
	if err != nil {
		return "", err
	}
	if _, err := r.history.Record(id, name, path); err != nil {
		r.logger.Printf("history: %v", err)
		return path, nil
	}
	if err := r.history.Save(); err != nil {
		r.logger.Printf("history: %v", err)
	}
	return path, nil
}

func openHistory(cfg *config.Config) (*store.Manager, error) {
	return store.NewManager(cfg.Downloads.HistoryFile, cfg.Drive.FolderID)
}

// systemClipboard writes to the OS clipboard.
type systemClipboard struct{}

func (systemClipboard) WriteAll(text string) error {
	return clipboard.WriteAll(text)
}

// printOpener prints links it cannot open itself.
type printOpener struct{}

func (printOpener) Open(link string) error {
	fmt.Printf("File is large, download it in a browser:\n  %s\n", link)
	return nil
}
