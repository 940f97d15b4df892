// Package view holds the catalog together with the ephemeral browsing state
// (search, sort, selection, transient per-item flags) and derives the list
// to render.
package view

import (
	"context"
	"errors"
	"io"
	"log"
	"sync"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/links"
	"github.com/takeshy/drivevids/internal/transfer"
)

// ErrNotFound is returned for ids that are not in the catalog.
var ErrNotFound = errors.New("video not found")

// Source produces a complete catalog.
type Source interface {
	Fetch(ctx context.Context) ([]catalog.Video, error)
}

// Saver performs a background transfer of one file.
type Saver interface {
	Save(ctx context.Context, id, name, link string) (string, error)
}

// Opener hands a link to something outside the process, e.g. a browser.
type Opener interface {
	Open(link string) error
}

// Clipboard receives copied links.
type Clipboard interface {
	WriteAll(text string) error
}

// Policy holds the thresholds and delays of the download and copy actions.
type Policy struct {
	// LargeFileThreshold: files above it are opened externally.
	LargeFileThreshold int64
	// ExternalDelay clears the in-progress flag of an external open.
	ExternalDelay time.Duration
	// FlagTimeout clears the in-progress flag of a background transfer
	// that has not completed yet.
	FlagTimeout time.Duration
	// Stagger separates the triggers of a bulk download.
	Stagger time.Duration
	// BulkTimeout clears the bulk flag after the last trigger.
	BulkTimeout time.Duration
	// CopyFeedback clears the copied flag.
	CopyFeedback time.Duration
}

// DefaultPolicy returns the stock thresholds and delays.
func DefaultPolicy() Policy {
	return Policy{
		LargeFileThreshold: 100 * 1024 * 1024,
		ExternalDelay:      time.Second,
		FlagTimeout:        3 * time.Second,
		Stagger:            time.Second,
		BulkTimeout:        5 * time.Second,
		CopyFeedback:       2 * time.Second,
	}
}

// DownloadMode tells the caller what Download did.
type DownloadMode int

const (
	// DownloadSkipped: unknown id, no link, or already in progress.
	DownloadSkipped DownloadMode = iota
	// DownloadExternal: the link should be opened outside the process.
	DownloadExternal
	// DownloadBackground: the file is being saved in the background.
	DownloadBackground
)

// Option customizes a Controller
type Option func(*Controller)

// WithSaver sets the background transfer implementation.
func WithSaver(s Saver) Option { return func(c *Controller) { c.saver = s } }

// WithOpener sets the external opener for large files.
func WithOpener(o Opener) Option { return func(c *Controller) { c.opener = o } }

// WithClipboard sets the clipboard for CopyLink.
func WithClipboard(cb Clipboard) Option { return func(c *Controller) { c.clipboard = cb } }

// WithLinks sets the URL templates.
func WithLinks(lb *links.Builder) Option { return func(c *Controller) { c.links = lb } }

// WithPolicy overrides DefaultPolicy.
func WithPolicy(p Policy) Option { return func(c *Controller) { c.policy = p } }

// WithLogger sets the diagnostics logger.
func WithLogger(l *log.Logger) Option { return func(c *Controller) { c.logger = l } }

// Controller owns the catalog and all browsing state. It is safe for
// concurrent use.
type Controller struct {
	source    Source
	saver     Saver
	opener    Opener
	clipboard Clipboard
	links     *links.Builder
	policy    Policy
	logger    *log.Logger

	group  singleflight.Group
	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu          sync.Mutex
	videos      []catalog.Video
	index       map[string]int
	loaded      bool
	loading     bool
	lastErr     error
	query       string
	order       SortOrder
	mode        Mode
	selected    map[string]bool
	previewing  string
	copied      string
	copyGen     uint64
	downloading map[string]*transfer.Handle
	bulk        bool
	bulkGen     uint64
	bulkTimers  []*time.Timer
	handles     map[*transfer.Handle]struct{}
	failed      int
}

// New creates a controller with an empty catalog.
func New(source Source, opts ...Option) *Controller {
	ctx, cancel := context.WithCancel(context.Background())
	c := &Controller{
		source:      source,
		policy:      DefaultPolicy(),
		ctx:         ctx,
		cancel:      cancel,
		index:       map[string]int{},
		order:       Ascending,
		mode:        Grid,
		selected:    map[string]bool{},
		downloading: map[string]*transfer.Handle{},
		handles:     map[*transfer.Handle]struct{}{},
	}
	for _, opt := range opts {
		opt(c)
	}
	if c.links == nil {
		c.links = links.MustDefault()
	}
	if c.logger == nil {
		c.logger = log.New(io.Discard, "", 0)
	}
	return c
}

// Refresh fetches the catalog and replaces it wholesale. Concurrent calls
// share one in-flight fetch. On failure the previous catalog is kept and
// the error is recorded.
func (c *Controller) Refresh(ctx context.Context) error {
	_, err, _ := c.group.Do("catalog", func() (any, error) {
		c.mu.Lock()
		c.loading = true
		c.mu.Unlock()

		videos, err := c.source.Fetch(ctx)
		c.apply(videos, err)
		return nil, err
	})
	return err
}

func (c *Controller) apply(videos []catalog.Video, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.loading = false
	if err != nil {
		c.lastErr = err
		c.logger.Printf("refresh failed: %v", err)
		return
	}

	c.videos = videos
	c.index = make(map[string]int, len(videos))
	for i, v := range videos {
		c.index[v.ID] = i
	}
	c.loaded = true
	c.lastErr = nil

	for id := range c.selected {
		if _, ok := c.index[id]; !ok {
			delete(c.selected, id)
		}
	}
	for id := range c.downloading {
		if _, ok := c.index[id]; !ok {
			delete(c.downloading, id)
		}
	}
	if _, ok := c.index[c.previewing]; !ok {
		c.previewing = ""
	}
	if _, ok := c.index[c.copied]; !ok {
		c.copied = ""
	}
}

// Err returns the error of the last failed refresh, nil after a success.
func (c *Controller) Err() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.lastErr
}

// Loaded reports whether at least one refresh has succeeded.
func (c *Controller) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.loaded
}

// Links returns the URL builder used for previews and copied links.
func (c *Controller) Links() *links.Builder {
	return c.links
}

// Videos returns a copy of the full catalog in fetch order.
func (c *Controller) Videos() []catalog.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]catalog.Video(nil), c.videos...)
}

// Video looks up one catalog entry.
func (c *Controller) Video(id string) (catalog.Video, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.videoLocked(id)
}

func (c *Controller) videoLocked(id string) (catalog.Video, bool) {
	i, ok := c.index[id]
	if !ok {
		return catalog.Video{}, false
	}
	return c.videos[i], true
}

// SetQuery sets the search text.
func (c *Controller) SetQuery(q string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.query = q
}

// SetSort sets the sort direction.
func (c *Controller) SetSort(o SortOrder) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.order = o
}

// SetViewMode sets grid or list layout.
func (c *Controller) SetViewMode(m Mode) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.mode = m
}

// Visible derives the filtered, sorted list from the current state.
func (c *Controller) Visible() []catalog.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.visibleLocked()
}

func (c *Controller) visibleLocked() []catalog.Video {
	return Derive(c.videos, c.query, c.order)
}

// Toggle adds id to the selection if absent, removes it if present.
// Unknown ids are ignored. It reports whether id is selected afterwards.
func (c *Controller) Toggle(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; !ok {
		return false
	}
	if c.selected[id] {
		delete(c.selected, id)
		return false
	}
	c.selected[id] = true
	return true
}

// ToggleAll clears the selection when every visible entry is selected,
// otherwise replaces the selection with the visible entries.
func (c *Controller) ToggleAll() {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleLocked()
	if allSelected(visible, c.selected) {
		c.selected = map[string]bool{}
		return
	}
	c.selected = make(map[string]bool, len(visible))
	for _, v := range visible {
		c.selected[v.ID] = true
	}
}

// AllSelected reports whether the visible list is non-empty and every
// visible entry is selected.
func (c *Controller) AllSelected() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return allSelected(c.visibleLocked(), c.selected)
}

func allSelected(visible []catalog.Video, selected map[string]bool) bool {
	if len(visible) == 0 {
		return false
	}
	for _, v := range visible {
		if !selected[v.ID] {
			return false
		}
	}
	return true
}

// Selected returns the selected entries in catalog order.
func (c *Controller) Selected() []catalog.Video {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.selectedLocked()
}

func (c *Controller) selectedLocked() []catalog.Video {
	var out []catalog.Video
	for _, v := range c.videos {
		if c.selected[v.ID] {
			out = append(out, v)
		}
	}
	return out
}

// ClearSelection empties the selection.
func (c *Controller) ClearSelection() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.selected = map[string]bool{}
}

// Preview marks id as the entry being previewed.
func (c *Controller) Preview(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.index[id]; !ok {
		return false
	}
	c.previewing = id
	return true
}

// ClosePreview clears the previewed entry.
func (c *Controller) ClosePreview() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.previewing = ""
}

// CopyLink writes the viewer URL of id to the clipboard, if any, and raises
// the copied flag for Policy.CopyFeedback. A later copy restarts the delay.
// Ids outside the catalog return ErrNotFound and leave the flag untouched.
func (c *Controller) CopyLink(id string) (string, error) {
	c.mu.Lock()
	_, ok := c.videoLocked(id)
	c.mu.Unlock()
	if !ok {
		return "", ErrNotFound
	}
	url := c.links.Viewer(id)

	var err error
	if c.clipboard != nil {
		if err = c.clipboard.WriteAll(url); err != nil {
			c.logger.Printf("copy link %s: %v", id, err)
		}
	}

	c.mu.Lock()
	c.copied = id
	c.copyGen++
	gen := c.copyGen
	c.mu.Unlock()

	time.AfterFunc(c.policy.CopyFeedback, func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.copyGen == gen {
			c.copied = ""
		}
	})
	return url, err
}

// Close cancels every outstanding transfer and pending bulk trigger.
func (c *Controller) Close() {
	c.mu.Lock()
	for _, t := range c.bulkTimers {
		if t.Stop() {
			c.wg.Done()
		}
	}
	c.bulkTimers = nil
	c.bulk = false
	c.bulkGen++
	for h := range c.handles {
		h.Cancel()
	}
	c.mu.Unlock()
	c.cancel()
}

// Wait blocks until every started or scheduled transfer has returned, or
// ctx is done.
func (c *Controller) Wait(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		c.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
