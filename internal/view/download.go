package view

import (
	"context"
	"time"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/transfer"
)

// Download starts the single-item download of id. Entries above
// Policy.LargeFileThreshold (or any entry when no Saver is configured) are
// handed to the Opener and reported as DownloadExternal together with the
// link; the in-progress flag then clears after Policy.ExternalDelay.
// Smaller entries are saved in the background and the flag clears on
// completion or after Policy.FlagTimeout.
func (c *Controller) Download(id string) (DownloadMode, string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	v, ok := c.videoLocked(id)
	if !ok || !v.Downloadable() {
		return DownloadSkipped, ""
	}
	if _, busy := c.downloading[id]; busy {
		return DownloadSkipped, ""
	}

	if v.SizeBytes > c.policy.LargeFileThreshold || c.saver == nil {
		if c.opener != nil {
			if err := c.opener.Open(v.DownloadLink); err != nil {
				c.logger.Printf("open %s: %v", id, err)
			}
		}
		h := transfer.Start(c.ctx, c.policy.ExternalDelay, nil)
		c.downloading[id] = h
		go c.clearWhenDone(id, h)
		return DownloadExternal, v.DownloadLink
	}

	h := c.startSaveLocked(v, c.policy.FlagTimeout)
	c.downloading[id] = h
	go c.clearWhenDone(id, h)
	return DownloadBackground, v.DownloadLink
}

func (c *Controller) clearWhenDone(id string, h *transfer.Handle) {
	<-h.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.downloading[id] == h {
		delete(c.downloading, id)
	}
}

// startSaveLocked starts a background save and tracks it until the work
// returns. c.mu must be held.
func (c *Controller) startSaveLocked(v catalog.Video, timeout time.Duration) *transfer.Handle {
	saver := c.saver
	h := transfer.Start(c.ctx, timeout, func(ctx context.Context) error {
		path, err := saver.Save(ctx, v.ID, v.Name, v.DownloadLink)
		if err != nil {
			c.logger.Printf("download %s: %v", v.ID, err)
			c.mu.Lock()
			c.failed++
			c.mu.Unlock()
			return err
		}
		c.logger.Printf("saved %s to %s", v.Name, path)
		return nil
	})
	c.handles[h] = struct{}{}
	c.wg.Add(1)
	go func() {
		defer c.wg.Done()
		<-h.Finished()
		c.mu.Lock()
		delete(c.handles, h)
		c.mu.Unlock()
	}()
	return h
}

// BulkDownload schedules one background transfer per selected entry with a
// link, in catalog order, Policy.Stagger apart. The selection is cleared
// immediately. The bulk flag clears when the last transfer completes or
// Policy.BulkTimeout after the last trigger, whichever comes first. It
// returns the number of scheduled transfers; nothing is scheduled while a
// bulk download is already in progress.
func (c *Controller) BulkDownload() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.bulk {
		return 0
	}

	var items []catalog.Video
	for _, v := range c.selectedLocked() {
		if v.Downloadable() {
			items = append(items, v)
		}
	}
	c.selected = map[string]bool{}
	if len(items) == 0 || c.saver == nil {
		return 0
	}

	c.bulk = true
	c.bulkGen++
	gen := c.bulkGen
	c.bulkTimers = c.bulkTimers[:0]
	for i, v := range items {
		last := i == len(items)-1
		c.wg.Add(1)
		t := time.AfterFunc(time.Duration(i)*c.policy.Stagger, func() {
			defer c.wg.Done()
			c.triggerBulk(gen, v, last)
		})
		c.bulkTimers = append(c.bulkTimers, t)
	}
	return len(items)
}

func (c *Controller) triggerBulk(gen uint64, v catalog.Video, last bool) {
	c.mu.Lock()
	if c.bulkGen != gen || c.ctx.Err() != nil {
		c.mu.Unlock()
		return
	}
	var timeout time.Duration
	if last {
		timeout = c.policy.BulkTimeout
	}
	h := c.startSaveLocked(v, timeout)
	c.mu.Unlock()

	if !last {
		return
	}
	<-h.Done()
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.bulkGen == gen {
		c.bulk = false
		c.bulkTimers = nil
	}
}

// Downloading reports whether a single-item download of id is in progress.
func (c *Controller) Downloading(id string) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	_, ok := c.downloading[id]
	return ok
}

// Failed returns how many background saves have returned an error,
// including those that failed after their flag timed out.
func (c *Controller) Failed() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.failed
}

// BulkInProgress reports whether a bulk download is in progress.
func (c *Controller) BulkInProgress() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.bulk
}
