package content

import (
	"errors"
	"fmt"

	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/gorm"
)

type Service struct {
	db *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Sections returns entries grouped by section in display order. An empty
// section name returns every section.
func (s *Service) Sections(section string) (models.SectionMap, error) {
	query := s.db.Order("section ASC, order_index ASC, id ASC")
	if section != "" {
		query = query.Where("section = ?", section)
	}

	var entries []models.ContentEntry
	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}

	sections := models.SectionMap{}
	for _, entry := range entries {
		sections[entry.Section] = append(sections[entry.Section], entry)
	}
	return sections, nil
}

// BatchUpsert applies the changed subset the editor submits in a single
// transaction. Entries with an ID update that row; entries without one are
// matched by (section, content_key) and created when absent. The content
// type is inferred server-side when the client leaves it empty.
func (s *Service) BatchUpsert(entries []models.ContentEntry) ([]models.ContentEntry, error) {
	result := make([]models.ContentEntry, 0, len(entries))

	err := s.db.Transaction(func(tx *gorm.DB) error {
		for _, entry := range entries {
			if entry.Section == "" || entry.ContentKey == "" {
				return fmt.Errorf("entry %d is missing section or content_key", entry.ID)
			}
			if entry.ContentType == "" {
				entry.ContentType = models.InferContentType(entry.ContentKey)
			}

			saved, err := upsertEntry(tx, entry)
			if err != nil {
				return err
			}
			result = append(result, *saved)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

func upsertEntry(tx *gorm.DB, entry models.ContentEntry) (*models.ContentEntry, error) {
	if entry.ID != 0 {
		var existing models.ContentEntry
		if err := tx.First(&existing, "id = ?", entry.ID).Error; err != nil {
			return nil, fmt.Errorf("entry %d does not exist: %w", entry.ID, err)
		}
		updates := map[string]interface{}{
			"content_value": entry.ContentValue,
			"content_type":  entry.ContentType,
			"order_index":   entry.OrderIndex,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	}

	var existing models.ContentEntry
	err := tx.Where("section = ? AND content_key = ?", entry.Section, entry.ContentKey).
		First(&existing).Error
	switch {
	case err == nil:
		updates := map[string]interface{}{
			"content_value": entry.ContentValue,
			"content_type":  entry.ContentType,
		}
		if err := tx.Model(&existing).Updates(updates).Error; err != nil {
			return nil, err
		}
		return &existing, nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		if err := tx.Create(&entry).Error; err != nil {
			return nil, err
		}
		return &entry, nil
	default:
		return nil, err
	}
}
