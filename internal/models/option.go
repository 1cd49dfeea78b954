package models

// OptionModel is a key-value store row; site options live here as JSON
// under the "configs" key.
type OptionModel struct {
	Base
	Name  string `json:"name"  gorm:"size:80;uniqueIndex;not null"`
	Value string `json:"value" gorm:"type:longtext"`
}

func (OptionModel) TableName() string { return "options" }
