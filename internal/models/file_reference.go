package models

// FileReference tracks uploaded files so the cleanup job can remove
// uploads that were never attached to saved content.
type FileReference struct {
	Base
	Path     string `json:"path"      gorm:"size:512;not null"`
	FileName string `json:"file_name" gorm:"size:255;index"`
	Status   string `json:"status"    gorm:"size:16;default:pending"` // pending | attached
}

func (FileReference) TableName() string { return "file_references" }
