package models

// ProjectModel is one portfolio entry.
type ProjectModel struct {
	Base
	Name        string `json:"name"        gorm:"not null"`
	Description string `json:"description" gorm:"type:text"`
	CoverImage  string `json:"cover_image" gorm:"size:512"`
	ProjectURL  string `json:"project_url" gorm:"size:512"`
	OrderIndex  int    `json:"order_index"`
	Published   bool   `json:"published"   gorm:"default:true"`
}

func (ProjectModel) TableName() string { return "projects" }
