package configs

import (
	"encoding/json"
	"testing"

	"github.com/lumen-studio/site-core/internal/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testService(t *testing.T) *Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.OptionModel{}))
	return NewService(db)
}

func TestGetReturnsDefaultsWhenUnset(t *testing.T) {
	svc := testService(t)

	cfg, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, 2, cfg.Upload.MaxSizeMB)
	assert.Equal(t, "Lumen Studio", cfg.SEO.Title)
}

func TestPatchMergesAndPersists(t *testing.T) {
	svc := testService(t)

	cfg, err := svc.Patch(json.RawMessage(`{"seo":{"title":"New Title"},"upload":{"max_size_mb":4}}`))
	require.NoError(t, err)
	assert.Equal(t, "New Title", cfg.SEO.Title)
	assert.Equal(t, 4, cfg.Upload.MaxSizeMB)

	// A fresh service over the same DB sees the persisted value.
	fresh := NewService(svc.db)
	cfg, err = fresh.Get()
	require.NoError(t, err)
	assert.Equal(t, "New Title", cfg.SEO.Title)
	assert.Equal(t, 4, cfg.Upload.MaxSizeMB)
}

func TestInvalidateDropsCache(t *testing.T) {
	svc := testService(t)

	_, err := svc.Get()
	require.NoError(t, err)

	// Mutate the stored row behind the cache's back.
	other := NewService(svc.db)
	_, err = other.Patch(json.RawMessage(`{"seo":{"title":"Behind"}}`))
	require.NoError(t, err)

	cached, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Lumen Studio", cached.SEO.Title)

	svc.Invalidate()
	reloaded, err := svc.Get()
	require.NoError(t, err)
	assert.Equal(t, "Behind", reloaded.SEO.Title)
}
