// Package configs manages the mutable site configuration persisted as
// JSON in the options table.
package configs

import (
	"encoding/json"
	"errors"
	"sync"

	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/models"
	"gorm.io/gorm"
)

const optionName = "configs"

type Service struct {
	db *gorm.DB

	mu     sync.RWMutex
	cached *config.SiteConfig
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db}
}

// Get returns the site configuration, falling back to defaults until the
// admin saves one. The parsed value is cached until Invalidate.
func (s *Service) Get() (config.SiteConfig, error) {
	s.mu.RLock()
	if s.cached != nil {
		cfg := *s.cached
		s.mu.RUnlock()
		return cfg, nil
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.cached != nil {
		return *s.cached, nil
	}

	cfg := config.DefaultSiteConfig()
	var opt models.OptionModel
	err := s.db.First(&opt, "name = ?", optionName).Error
	switch {
	case err == nil:
		if err := json.Unmarshal([]byte(opt.Value), &cfg); err != nil {
			return cfg, err
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		// Defaults stand until the admin saves.
	default:
		return cfg, err
	}

	s.cached = &cfg
	return cfg, nil
}

// Patch merges a partial JSON document over the current configuration and
// persists the result.
func (s *Service) Patch(raw json.RawMessage) (config.SiteConfig, error) {
	cfg, err := s.Get()
	if err != nil {
		return cfg, err
	}
	if err := json.Unmarshal(raw, &cfg); err != nil {
		return cfg, err
	}

	value, err := json.Marshal(cfg)
	if err != nil {
		return cfg, err
	}

	var opt models.OptionModel
	err = s.db.First(&opt, "name = ?", optionName).Error
	switch {
	case err == nil:
		err = s.db.Model(&opt).Update("value", string(value)).Error
	case errors.Is(err, gorm.ErrRecordNotFound):
		err = s.db.Create(&models.OptionModel{Name: optionName, Value: string(value)}).Error
	}
	if err != nil {
		return cfg, err
	}

	s.mu.Lock()
	s.cached = &cfg
	s.mu.Unlock()
	return cfg, nil
}

// Invalidate drops the cache; the next Get reloads from the database.
func (s *Service) Invalidate() {
	s.mu.Lock()
	s.cached = nil
	s.mu.Unlock()
}
