package media

import (
	"errors"
	"fmt"
	"strings"

	"github.com/lumen-studio/site-core/internal/carousel"
	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/gorm"
)

type CreateMediaDTO struct {
	Kind       string `json:"kind" binding:"required,oneof=image video"`
	Src        string `json:"src" binding:"required"`
	Alt        string `json:"alt"`
	Poster     string `json:"poster"`
	GroupID    string `json:"group_id"`
	GroupType  string `json:"group_type" binding:"omitempty,oneof=single double"`
	OrderIndex int    `json:"order_index"`
	Published  *bool  `json:"published"`
}

type UpdateMediaDTO struct {
	Alt        *string `json:"alt"`
	Poster     *string `json:"poster"`
	GroupID    *string `json:"group_id"`
	GroupType  *string `json:"group_type" binding:"omitempty,oneof=single double"`
	OrderIndex *int    `json:"order_index"`
	Published  *bool   `json:"published"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(publishedOnly bool) ([]models.MediaAsset, error) {
	query := s.db.Order("order_index ASC, created_at ASC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	var assets []models.MediaAsset
	return assets, query.Find(&assets).Error
}

// Slides folds the published assets into carousel slides with their src
// paths rewritten to served URLs. Videos route through the range-aware
// video endpoint so seeking works; plain static serving would break it.
func (s *Service) Slides(apiBase string) ([]carousel.Slide, error) {
	assets, err := s.List(true)
	if err != nil {
		return nil, err
	}

	rows := make([]carousel.Row, 0, len(assets))
	for _, a := range assets {
		rows = append(rows, carousel.Row{
			ID:         a.ID,
			Kind:       carousel.MediaKind(a.Kind),
			Src:        ServeURL(apiBase, a.Kind, a.Src),
			Alt:        a.Alt,
			Poster:     ServeURL(apiBase, models.MediaKindImage, a.Poster),
			GroupID:    a.GroupID,
			GroupType:  carousel.SlideType(a.GroupType),
			OrderIndex: a.OrderIndex,
		})
	}
	return carousel.GroupSlides(rows)
}

func (s *Service) GetByID(id string) (*models.MediaAsset, error) {
	var asset models.MediaAsset
	if err := s.db.First(&asset, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &asset, nil
}

func (s *Service) Create(dto *CreateMediaDTO) (*models.MediaAsset, error) {
	if dto.Kind == models.MediaKindVideo && dto.Poster == "" {
		return nil, fmt.Errorf("videos need a poster image")
	}
	if dto.GroupID != "" && dto.GroupType == "" {
		return nil, fmt.Errorf("grouped media needs a group_type")
	}

	asset := models.MediaAsset{
		Kind:       dto.Kind,
		Src:        dto.Src,
		Alt:        dto.Alt,
		Poster:     dto.Poster,
		GroupID:    dto.GroupID,
		GroupType:  dto.GroupType,
		OrderIndex: dto.OrderIndex,
		Published:  true,
	}
	if dto.Published != nil {
		asset.Published = *dto.Published
	}
	return &asset, s.db.Create(&asset).Error
}

func (s *Service) Update(id string, dto *UpdateMediaDTO) (*models.MediaAsset, error) {
	asset, err := s.GetByID(id)
	if err != nil || asset == nil {
		return asset, err
	}

	updates := map[string]interface{}{}
	if dto.Alt != nil {
		updates["alt"] = *dto.Alt
	}
	if dto.Poster != nil {
		updates["poster"] = *dto.Poster
	}
	if dto.GroupID != nil {
		updates["group_id"] = *dto.GroupID
	}
	if dto.GroupType != nil {
		updates["group_type"] = *dto.GroupType
	}
	if dto.OrderIndex != nil {
		updates["order_index"] = *dto.OrderIndex
	}
	if dto.Published != nil {
		updates["published"] = *dto.Published
	}
	return asset, s.db.Model(asset).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.MediaAsset{}, "id = ?", id).Error
}

// ServeURL rewrites a stored media path to its public URL. Absolute URLs
// pass through untouched; images serve from /storage, videos from the
// /api/video range endpoint.
func ServeURL(apiBase, kind, path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://") {
		return path
	}
	base := strings.TrimRight(apiBase, "/")
	trimmed := strings.TrimLeft(path, "/")
	if kind == models.MediaKindVideo {
		return base + "/api/video/" + trimmed
	}
	return base + "/storage/" + trimmed
}
