// Package carousel holds the media carousel and lightbox state machine used
// by the gallery pages. It has no HTTP or rendering concerns so the slide
// logic can be driven from handlers and tests alike.
package carousel

import (
	"fmt"
	"sort"
)

type MediaKind string

const (
	KindImage MediaKind = "image"
	KindVideo MediaKind = "video"
)

type SlideType string

const (
	SlideSingle SlideType = "single"
	SlideDouble SlideType = "double"
)

// MediaItem is one displayable asset. Poster is required for videos; a
// video without one would open on a blank frame.
type MediaItem struct {
	Kind   MediaKind `json:"type"`
	Src    string    `json:"src"`
	Alt    string    `json:"alt,omitempty"`
	Poster string    `json:"poster,omitempty"`
}

// IsVideo reports whether the item needs a video element to render.
func (m MediaItem) IsVideo() bool { return m.Kind == KindVideo }

// Slide is one navigational position. A single slide holds exactly one
// item, a double slide exactly two rendered side by side.
type Slide struct {
	ID    string      `json:"id"`
	Type  SlideType   `json:"type"`
	Items []MediaItem `json:"items"`
}

// Row is the flat per-asset shape slides are grouped from. Rows sharing a
// GroupID collapse into one slide.
type Row struct {
	ID         string
	Kind       MediaKind
	Src        string
	Alt        string
	Poster     string
	GroupID    string
	GroupType  SlideType
	OrderIndex int
}

// GroupSlides folds flat rows into ordered slides. Rows with an empty
// GroupID become standalone single slides. Videos missing a poster are
// skipped. Rows within a group must agree on GroupType, and a double
// group must contain exactly two usable items.
func GroupSlides(rows []Row) ([]Slide, error) {
	sorted := make([]Row, len(rows))
	copy(sorted, rows)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].OrderIndex < sorted[j].OrderIndex
	})

	var slides []Slide
	groupPos := map[string]int{}

	for _, row := range sorted {
		if row.Kind == KindVideo && row.Poster == "" {
			continue
		}
		item := MediaItem{Kind: row.Kind, Src: row.Src, Alt: row.Alt, Poster: row.Poster}

		if row.GroupID == "" {
			slides = append(slides, Slide{ID: row.ID, Type: SlideSingle, Items: []MediaItem{item}})
			continue
		}

		if pos, ok := groupPos[row.GroupID]; ok {
			slide := &slides[pos]
			if slideTypeOf(row) != slide.Type {
				return nil, fmt.Errorf("media group %q mixes group types", row.GroupID)
			}
			slide.Items = append(slide.Items, item)
			continue
		}

		groupPos[row.GroupID] = len(slides)
		slides = append(slides, Slide{ID: row.GroupID, Type: slideTypeOf(row), Items: []MediaItem{item}})
	}

	for _, slide := range slides {
		switch slide.Type {
		case SlideSingle:
			if len(slide.Items) != 1 {
				return nil, fmt.Errorf("single slide %q has %d items", slide.ID, len(slide.Items))
			}
		case SlideDouble:
			if len(slide.Items) != 2 {
				return nil, fmt.Errorf("double slide %q has %d items, want 2", slide.ID, len(slide.Items))
			}
		default:
			return nil, fmt.Errorf("slide %q has unknown type %q", slide.ID, slide.Type)
		}
	}
	return slides, nil
}

func slideTypeOf(row Row) SlideType {
	if row.GroupType == "" {
		return SlideSingle
	}
	return row.GroupType
}
