package models

import "time"

// PostModel is a blog post shown on the marketing site.
type PostModel struct {
	Base
	Slug        string     `json:"slug"         gorm:"size:191;uniqueIndex;not null"`
	Title       string     `json:"title"        gorm:"not null"`
	Summary     string     `json:"summary"      gorm:"type:text"`
	Text        string     `json:"text"         gorm:"type:longtext"`
	CoverImage  string     `json:"cover_image"  gorm:"size:512"`
	IsPublished bool       `json:"is_published" gorm:"default:false"`
	PublishedAt *time.Time `json:"published_at"`
}

func (PostModel) TableName() string { return "posts" }
