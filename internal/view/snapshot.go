package view

import "github.com/takeshy/drivevids/internal/catalog"

// Item is a visible entry together with its transient flags.
type Item struct {
	catalog.Video
	Selected    bool   `json:"selected"`
	Downloading bool   `json:"downloading"`
	Copied      bool   `json:"copied"`
	ViewerURL   string `json:"viewerUrl"`
}

// Snapshot is a consistent copy of the controller state for rendering.
type Snapshot struct {
	Items           []Item         `json:"videos"`
	Total           int            `json:"total"`
	Query           string         `json:"query"`
	Order           SortOrder      `json:"order"`
	Mode            Mode           `json:"viewMode"`
	SelectedCount   int            `json:"selectedCount"`
	AllSelected     bool           `json:"allSelected"`
	BulkDownloading bool           `json:"bulkDownloading"`
	Loading         bool           `json:"loading"`
	Loaded          bool           `json:"loaded"`
	Error           string         `json:"error,omitempty"`
	Preview         *catalog.Video `json:"preview,omitempty"`
	PreviewURL      string         `json:"previewUrl,omitempty"`
}

// Snapshot derives the visible list and copies every flag under one lock.
func (c *Controller) Snapshot() Snapshot {
	c.mu.Lock()
	defer c.mu.Unlock()

	visible := c.visibleLocked()
	items := make([]Item, len(visible))
	for i, v := range visible {
		_, busy := c.downloading[v.ID]
		items[i] = Item{
			Video:       v,
			Selected:    c.selected[v.ID],
			Downloading: busy,
			Copied:      c.copied == v.ID,
			ViewerURL:   c.links.Viewer(v.ID),
		}
	}

	s := Snapshot{
		Items:           items,
		Total:           len(c.videos),
		Query:           c.query,
		Order:           c.order,
		Mode:            c.mode,
		SelectedCount:   len(c.selected),
		AllSelected:     allSelected(visible, c.selected),
		BulkDownloading: c.bulk,
		Loading:         c.loading,
		Loaded:          c.loaded,
	}
	if c.lastErr != nil {
		s.Error = c.lastErr.Error()
	}
	if v, ok := c.videoLocked(c.previewing); ok {
		s.Preview = &v
		s.PreviewURL = c.links.Preview(v.ID)
	}
	return s
}
