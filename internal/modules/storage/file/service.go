package file

import (
	"os"
	"path/filepath"
	"time"

	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/gorm"
)

// DefaultOrphanAge is how long an upload may stay unattached before the
// cleanup job removes it.
const DefaultOrphanAge = 60 * time.Minute

type Service struct {
	db        *gorm.DB
	staticDir string
}

func NewService(db *gorm.DB, staticDir string) *Service {
	return &Service{db: db, staticDir: staticDir}
}

// Track records a fresh upload as pending until content references it.
func (s *Service) Track(path, fileName string) error {
	return s.db.Create(&models.FileReference{
		Path:     path,
		FileName: fileName,
		Status:   "pending",
	}).Error
}

// ListOrphans returns pending references older than maxAge.
func (s *Service) ListOrphans(maxAge time.Duration) ([]models.FileReference, error) {
	cutoff := time.Now().Add(-maxAge)
	var refs []models.FileReference
	err := s.db.Where("status = ? AND created_at <= ?", "pending", cutoff).
		Order("created_at ASC").
		Find(&refs).Error
	return refs, err
}

// CleanupOrphans resolves pending references older than maxAge: uploads
// that content or media meanwhile references are marked attached, the rest
// are deleted along with their local file.
func (s *Service) CleanupOrphans(maxAge time.Duration) (attached, deleted int, err error) {
	refs, err := s.ListOrphans(maxAge)
	if err != nil {
		return 0, 0, err
	}

	for _, ref := range refs {
		referenced, err := s.isReferenced(ref.Path)
		if err != nil {
			return attached, deleted, err
		}
		if referenced {
			if err := s.db.Model(&ref).Update("status", "attached").Error; err != nil {
				return attached, deleted, err
			}
			attached++
			continue
		}

		if rel := safeRelPath(ref.Path); rel != "" {
			_ = os.Remove(filepath.Join(s.staticDir, filepath.FromSlash(rel)))
		}
		if err := s.db.Delete(&models.FileReference{}, "id = ?", ref.ID).Error; err != nil {
			return attached, deleted, err
		}
		deleted++
	}
	return attached, deleted, nil
}

func (s *Service) isReferenced(path string) (bool, error) {
	var count int64
	if err := s.db.Model(&models.ContentEntry{}).
		Where("content_value LIKE ?", "%"+path+"%").
		Count(&count).Error; err != nil {
		return false, err
	}
	if count > 0 {
		return true, nil
	}

	if err := s.db.Model(&models.MediaAsset{}).
		Where("src LIKE ? OR poster LIKE ?", "%"+path+"%", "%"+path+"%").
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}
