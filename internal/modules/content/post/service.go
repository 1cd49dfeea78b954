package post

import (
	"errors"
	"time"

	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/pkg/pagination"
	"github.com/lumen-studio/site-core/internal/pkg/response"
	"gorm.io/gorm"
)

type CreatePostDTO struct {
	Slug       string `json:"slug" binding:"required"`
	Title      string `json:"title" binding:"required"`
	Summary    string `json:"summary"`
	Text       string `json:"text"`
	CoverImage string `json:"cover_image"`
	Publish    bool   `json:"publish"`
}

type UpdatePostDTO struct {
	Slug       *string `json:"slug"`
	Title      *string `json:"title"`
	Summary    *string `json:"summary"`
	Text       *string `json:"text"`
	CoverImage *string `json:"cover_image"`
	Publish    *bool   `json:"publish"`
}

// ErrSlugTaken reports a create with a slug that already exists.
var ErrSlugTaken = errors.New("slug already exists")

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// ListPublished returns published posts, newest first.
func (s *Service) ListPublished(q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).
		Where("is_published = ?", true).
		Order("published_at DESC")

	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

func (s *Service) ListAll(q pagination.Query) ([]models.PostModel, response.Pagination, error) {
	tx := s.db.Model(&models.PostModel{}).Order("created_at DESC")
	var posts []models.PostModel
	pag, err := pagination.Paginate(tx, q, &posts)
	return posts, pag, err
}

// GetBySlug returns a published post, or any post when includeDrafts is
// set.
func (s *Service) GetBySlug(slug string, includeDrafts bool) (*models.PostModel, error) {
	query := s.db.Where("slug = ?", slug)
	if !includeDrafts {
		query = query.Where("is_published = ?", true)
	}

	var post models.PostModel
	if err := query.First(&post).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &post, nil
}

func (s *Service) Create(dto *CreatePostDTO) (*models.PostModel, error) {
	var count int64
	s.db.Model(&models.PostModel{}).Where("slug = ?", dto.Slug).Count(&count)
	if count > 0 {
		return nil, ErrSlugTaken
	}

	post := models.PostModel{
		Slug:        dto.Slug,
		Title:       dto.Title,
		Summary:     dto.Summary,
		Text:        dto.Text,
		CoverImage:  dto.CoverImage,
		IsPublished: dto.Publish,
	}
	if dto.Publish {
		now := time.Now()
		post.PublishedAt = &now
	}
	return &post, s.db.Create(&post).Error
}

func (s *Service) Update(id string, dto *UpdatePostDTO) (*models.PostModel, error) {
	var post models.PostModel
	if err := s.db.First(&post, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}

	updates := map[string]interface{}{}
	if dto.Slug != nil {
		updates["slug"] = *dto.Slug
	}
	if dto.Title != nil {
		updates["title"] = *dto.Title
	}
	if dto.Summary != nil {
		updates["summary"] = *dto.Summary
	}
	if dto.Text != nil {
		updates["text"] = *dto.Text
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if dto.Publish != nil {
		updates["is_published"] = *dto.Publish
		if *dto.Publish && post.PublishedAt == nil {
			updates["published_at"] = time.Now()
		}
	}
	return &post, s.db.Model(&post).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.PostModel{}, "id = ?", id).Error
}
