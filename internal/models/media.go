package models

// MediaAsset is one image or video row of the gallery. Rows that share a
// GroupID render as a single carousel slide; GroupType must agree across
// the group and decides whether the slide shows one item or a side-by-side
// pair.
type MediaAsset struct {
	Base
	Kind       string `json:"kind"        gorm:"size:16;not null"` // image | video
	Src        string `json:"src"         gorm:"size:512;not null"`
	Alt        string `json:"alt"         gorm:"size:255"`
	Poster     string `json:"poster"      gorm:"size:512"` // videos only
	GroupID    string `json:"group_id"    gorm:"size:64;index"`
	GroupType  string `json:"group_type"  gorm:"size:16"` // single | double
	OrderIndex int    `json:"order_index"`
	Published  bool   `json:"published"   gorm:"default:true"`
}

func (MediaAsset) TableName() string { return "media_assets" }

const (
	MediaKindImage = "image"
	MediaKindVideo = "video"
)
