// Package editor implements the content editing workflow used by the admin
// CLI: load sections from the content API, mutate a working copy, diff it
// against the loaded snapshot and submit only the changed records.
package editor

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
)

// Record is one content entry as exchanged with the content API. ID zero
// marks a record that has not been persisted yet.
type Record struct {
	ID           uint   `json:"id"`
	Section      string `json:"section"`
	ContentKey   string `json:"content_key"`
	ContentValue string `json:"content_value"`
	ContentType  string `json:"content_type"`
	OrderIndex   int    `json:"order_index"`
}

// Sections maps a section name to its ordered records.
type Sections map[string][]Record

// API is the content endpoint surface the controller depends on.
type API interface {
	FetchContent(ctx context.Context, section string) (Sections, error)
	SaveContent(ctx context.Context, records []Record) error
}

// ErrStaleLoad reports that a Load finished after a newer Load had already
// started; its result was discarded.
var ErrStaleLoad = errors.New("load superseded by a newer load")

// ErrEmptyContent reports that the API returned no sections at all.
var ErrEmptyContent = errors.New("content API returned no sections")

// Controller keeps a working copy and a frozen snapshot of the loaded
// content. Edits never touch the snapshot; Save submits the difference.
type Controller struct {
	api API

	mu       sync.Mutex
	working  Sections
	original Sections
	epoch    uint64
}

func NewController(api API) *Controller {
	return &Controller{api: api}
}

// Load fetches every section and resets both copies to the result. A Load
// that is overtaken by a newer one discards its response and reports
// ErrStaleLoad.
func (c *Controller) Load(ctx context.Context) error {
	c.mu.Lock()
	c.epoch++
	epoch := c.epoch
	c.mu.Unlock()

	sections, err := c.api.FetchContent(ctx, "")
	if err != nil {
		return err
	}
	if len(sections) == 0 {
		return ErrEmptyContent
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.epoch != epoch {
		return ErrStaleLoad
	}
	c.working = cloneSections(sections)
	c.original = cloneSections(sections)
	return nil
}

// Mutate sets the value for key within section. An existing record is
// replaced copy-on-write; a missing one is appended with ID zero, an
// inferred content type and the next order index.
func (c *Controller) Mutate(section, key, value string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.working == nil {
		c.working = Sections{}
	}
	list := c.working[section]

	for i, rec := range list {
		if rec.ContentKey == key {
			updated := make([]Record, len(list))
			copy(updated, list)
			updated[i].ContentValue = value
			c.working[section] = updated
			return
		}
	}

	updated := make([]Record, len(list), len(list)+1)
	copy(updated, list)
	c.working[section] = append(updated, Record{
		Section:      section,
		ContentKey:   key,
		ContentValue: value,
		ContentType:  InferContentType(key),
		OrderIndex:   len(list),
	})
}

// HasChanges reports whether the working copy differs from the snapshot.
func (c *Controller) HasChanges() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.changedLocked()) > 0
}

// Changed returns the records Save would submit, ordered by section then
// order index.
func (c *Controller) Changed() []Record {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.changedLocked()
}

// Save submits the changed records as one batch. A clean working copy is a
// no-op. On success the snapshot is replaced by the working copy; on
// failure both copies are left untouched so the caller can retry.
func (c *Controller) Save(ctx context.Context) error {
	c.mu.Lock()
	changed := c.changedLocked()
	c.mu.Unlock()

	if len(changed) == 0 {
		return nil
	}
	if err := c.api.SaveContent(ctx, changed); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.original = cloneSections(c.working)
	return nil
}

// Cancel discards every edit by restoring the working copy from the
// snapshot.
func (c *Controller) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.working = cloneSections(c.original)
}

// Sections returns a copy of the working sections for display.
func (c *Controller) Sections() Sections {
	c.mu.Lock()
	defer c.mu.Unlock()
	return cloneSections(c.working)
}

// changedLocked diffs the working copy against the snapshot. Records are
// matched by ID; a record the server has not assigned an ID yet falls back
// to (section, content_key) identity, so an appended record goes clean
// once the post-save snapshot holds it.
func (c *Controller) changedLocked() []Record {
	byID := map[uint]Record{}
	byKey := map[string]Record{}
	for _, list := range c.original {
		for _, rec := range list {
			if rec.ID != 0 {
				byID[rec.ID] = rec
			}
			byKey[rec.Section+"\x00"+rec.ContentKey] = rec
		}
	}

	var changed []Record
	for _, list := range c.working {
		for _, rec := range list {
			orig, ok := byID[rec.ID]
			if rec.ID == 0 {
				orig, ok = byKey[rec.Section+"\x00"+rec.ContentKey]
			}
			if !ok || orig.ContentValue != rec.ContentValue {
				changed = append(changed, rec)
			}
		}
	}

	sort.SliceStable(changed, func(i, j int) bool {
		if changed[i].Section != changed[j].Section {
			return changed[i].Section < changed[j].Section
		}
		return changed[i].OrderIndex < changed[j].OrderIndex
	})
	return changed
}

// InferContentType derives the content type from the key name: keys that
// mention image, logo or photo hold image paths, everything else is text.
func InferContentType(key string) string {
	k := strings.ToLower(key)
	if strings.Contains(k, "image") || strings.Contains(k, "logo") || strings.Contains(k, "photo") {
		return "image"
	}
	return "text"
}

func cloneSections(src Sections) Sections {
	if src == nil {
		return nil
	}
	dst := make(Sections, len(src))
	for section, list := range src {
		copied := make([]Record, len(list))
		copy(copied, list)
		dst[section] = copied
	}
	return dst
}
