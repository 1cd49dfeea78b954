package project

import (
	"errors"

	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/gorm"
)

type CreateProjectDTO struct {
	Name        string `json:"name" binding:"required"`
	Description string `json:"description"`
	CoverImage  string `json:"cover_image"`
	ProjectURL  string `json:"project_url"`
	OrderIndex  int    `json:"order_index"`
	Published   *bool  `json:"published"`
}

type UpdateProjectDTO struct {
	Name        *string `json:"name"`
	Description *string `json:"description"`
	CoverImage  *string `json:"cover_image"`
	ProjectURL  *string `json:"project_url"`
	OrderIndex  *int    `json:"order_index"`
	Published   *bool   `json:"published"`
}

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

func (s *Service) List(publishedOnly bool) ([]models.ProjectModel, error) {
	query := s.db.Order("order_index ASC, created_at ASC")
	if publishedOnly {
		query = query.Where("published = ?", true)
	}
	var projects []models.ProjectModel
	return projects, query.Find(&projects).Error
}

func (s *Service) GetByID(id string) (*models.ProjectModel, error) {
	var project models.ProjectModel
	if err := s.db.First(&project, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &project, nil
}

func (s *Service) Create(dto *CreateProjectDTO) (*models.ProjectModel, error) {
	project := models.ProjectModel{
		Name:        dto.Name,
		Description: dto.Description,
		CoverImage:  dto.CoverImage,
		ProjectURL:  dto.ProjectURL,
		OrderIndex:  dto.OrderIndex,
		Published:   true,
	}
	if dto.Published != nil {
		project.Published = *dto.Published
	}
	return &project, s.db.Create(&project).Error
}

func (s *Service) Update(id string, dto *UpdateProjectDTO) (*models.ProjectModel, error) {
	project, err := s.GetByID(id)
	if err != nil || project == nil {
		return project, err
	}

	updates := map[string]interface{}{}
	if dto.Name != nil {
		updates["name"] = *dto.Name
	}
	if dto.Description != nil {
		updates["description"] = *dto.Description
	}
	if dto.CoverImage != nil {
		updates["cover_image"] = *dto.CoverImage
	}
	if dto.ProjectURL != nil {
		updates["project_url"] = *dto.ProjectURL
	}
	if dto.OrderIndex != nil {
		updates["order_index"] = *dto.OrderIndex
	}
	if dto.Published != nil {
		updates["published"] = *dto.Published
	}
	return project, s.db.Model(project).Updates(updates).Error
}

func (s *Service) Delete(id string) error {
	return s.db.Delete(&models.ProjectModel{}, "id = ?", id).Error
}
