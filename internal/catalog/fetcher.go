package catalog

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/takeshy/drivevids/internal/drive"
	"github.com/takeshy/drivevids/internal/links"
)

var (
	// ErrMissingCredential is returned before any request when no API key is configured.
	ErrMissingCredential = errors.New("drive API key not configured")
	// ErrUnavailable is returned when any page of the listing fails.
	ErrUnavailable = errors.New("video catalog unavailable")
)

// Lister lists every file matching a query across all pages.
type Lister interface {
	ListAllFiles(ctx context.Context, opts drive.ListOptions) ([]drive.File, error)
}

// Config holds everything a Fetcher needs; nothing is read from the environment.
type Config struct {
	APIKey   string
	FolderID string
	PageSize int
	Locale   string
	Location *time.Location
}

// Fetcher retrieves and normalizes the folder's video catalog.
type Fetcher struct {
	cfg    Config
	lister Lister
	links  *links.Builder
	dates  DateFormatter
}

// NewFetcher creates a fetcher backed by the Drive API client.
func NewFetcher(cfg Config, lb *links.Builder, opts ...drive.Option) *Fetcher {
	return NewFetcherWithLister(cfg, drive.NewClient(cfg.APIKey, opts...), lb)
}

// NewFetcherWithLister creates a fetcher over an arbitrary lister.
func NewFetcherWithLister(cfg Config, lister Lister, lb *links.Builder) *Fetcher {
	if lb == nil {
		lb = links.MustDefault()
	}
	return &Fetcher{
		cfg:    cfg,
		lister: lister,
		links:  lb,
		dates:  NewDateFormatter(cfg.Locale, cfg.Location),
	}
}

// Fetch lists all pages and returns the normalized catalog in the order
// received. It never returns a partial catalog.
func (f *Fetcher) Fetch(ctx context.Context) ([]Video, error) {
	if f.cfg.APIKey == "" {
		return nil, ErrMissingCredential
	}

	files, err := f.lister.ListAllFiles(ctx, drive.ListOptions{
		Query:    drive.FolderVideosQuery(f.cfg.FolderID),
		PageSize: f.cfg.PageSize,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}

	videos := make([]Video, 0, len(files))
	seen := make(map[string]bool, len(files))
	for _, file := range files {
		if file.ID == "" || seen[file.ID] {
			continue
		}
		seen[file.ID] = true
		videos = append(videos, Normalize(file, f.links, f.dates))
	}
	return videos, nil
}
