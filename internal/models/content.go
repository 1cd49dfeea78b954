package models

import (
	"strings"
	"time"
)

// ContentEntry is one editable text or image value of a page section.
// Entries are addressed by (section, content_key); the numeric ID is the
// server's source of truth once persisted, and 0 marks an entry the admin
// editor created locally but has not saved yet.
type ContentEntry struct {
	ID           uint      `json:"id"            gorm:"primaryKey;autoIncrement"`
	Section      string    `json:"section"       gorm:"size:64;not null;uniqueIndex:idx_section_key"`
	ContentKey   string    `json:"content_key"   gorm:"size:128;not null;uniqueIndex:idx_section_key"`
	ContentValue string    `json:"content_value" gorm:"type:longtext"`
	ContentType  string    `json:"content_type"  gorm:"size:16"`
	OrderIndex   int       `json:"order_index"`
	CreatedAt    time.Time `json:"created"`
	UpdatedAt    time.Time `json:"modified"`
}

func (ContentEntry) TableName() string { return "content_entries" }

const (
	ContentTypeText  = "text"
	ContentTypeImage = "image"
)

// InferContentType derives the content type from the key name. Keys that
// reference imagery carry image URLs, everything else is plain text.
func InferContentType(key string) string {
	k := strings.ToLower(key)
	for _, marker := range []string{"image", "logo", "photo"} {
		if strings.Contains(k, marker) {
			return ContentTypeImage
		}
	}
	return ContentTypeText
}

// SectionMap maps a section name to its entries in display order.
type SectionMap map[string][]ContentEntry
