package content

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/pkg/response"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.ContentEntry{}))
	return db
}

func seedEntries(t *testing.T, db *gorm.DB) []models.ContentEntry {
	t.Helper()
	entries := []models.ContentEntry{
		{Section: "hero", ContentKey: "headline", ContentValue: "Welcome", ContentType: "text", OrderIndex: 0},
		{Section: "hero", ContentKey: "hero_image", ContentValue: "uploads/hero.jpg", ContentType: "image", OrderIndex: 1},
		{Section: "about", ContentKey: "body", ContentValue: "We build things", ContentType: "text", OrderIndex: 0},
	}
	require.NoError(t, db.Create(&entries).Error)
	return entries
}

func TestSectionsGroupsInDisplayOrder(t *testing.T) {
	db := testDB(t)
	seedEntries(t, db)
	svc := NewService(db)

	sections, err := svc.Sections("")
	require.NoError(t, err)
	require.Len(t, sections, 2)
	require.Len(t, sections["hero"], 2)
	assert.Equal(t, "headline", sections["hero"][0].ContentKey)
	assert.Equal(t, "hero_image", sections["hero"][1].ContentKey)
}

func TestSectionsFiltersBySection(t *testing.T) {
	db := testDB(t)
	seedEntries(t, db)
	svc := NewService(db)

	sections, err := svc.Sections("about")
	require.NoError(t, err)
	require.Len(t, sections, 1)
	assert.Len(t, sections["about"], 1)
}

func TestBatchUpsertUpdatesByID(t *testing.T) {
	db := testDB(t)
	seeded := seedEntries(t, db)
	svc := NewService(db)

	saved, err := svc.BatchUpsert([]models.ContentEntry{
		{ID: seeded[0].ID, Section: "hero", ContentKey: "headline", ContentValue: "Hello"},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.Equal(t, "Hello", saved[0].ContentValue)

	var stored models.ContentEntry
	require.NoError(t, db.First(&stored, seeded[0].ID).Error)
	assert.Equal(t, "Hello", stored.ContentValue)
}

func TestBatchUpsertCreatesNewEntryWithInferredType(t *testing.T) {
	db := testDB(t)
	seedEntries(t, db)
	svc := NewService(db)

	saved, err := svc.BatchUpsert([]models.ContentEntry{
		{Section: "hero", ContentKey: "team_photo", ContentValue: "uploads/team.jpg", OrderIndex: 2},
	})
	require.NoError(t, err)
	require.Len(t, saved, 1)
	assert.NotZero(t, saved[0].ID)
	assert.Equal(t, models.ContentTypeImage, saved[0].ContentType)
}

func TestBatchUpsertMatchesBySectionAndKey(t *testing.T) {
	db := testDB(t)
	seeded := seedEntries(t, db)
	svc := NewService(db)

	// ID zero but the key already exists: update in place, no duplicate.
	_, err := svc.BatchUpsert([]models.ContentEntry{
		{Section: "hero", ContentKey: "headline", ContentValue: "Replaced"},
	})
	require.NoError(t, err)

	var count int64
	db.Model(&models.ContentEntry{}).Where("section = ? AND content_key = ?", "hero", "headline").Count(&count)
	assert.EqualValues(t, 1, count)

	var stored models.ContentEntry
	require.NoError(t, db.First(&stored, seeded[0].ID).Error)
	assert.Equal(t, "Replaced", stored.ContentValue)
}

func TestBatchUpsertIsAtomic(t *testing.T) {
	db := testDB(t)
	seeded := seedEntries(t, db)
	svc := NewService(db)

	_, err := svc.BatchUpsert([]models.ContentEntry{
		{ID: seeded[0].ID, Section: "hero", ContentKey: "headline", ContentValue: "changed"},
		{ID: 9999, Section: "hero", ContentKey: "ghost", ContentValue: "x"},
	})
	require.Error(t, err)

	var stored models.ContentEntry
	require.NoError(t, db.First(&stored, seeded[0].ID).Error)
	assert.Equal(t, "Welcome", stored.ContentValue)
}

func newTestRouter(db *gorm.DB, authed bool) (*gin.Engine, *Handler) {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(NewService(db))
	authMW := func(c *gin.Context) {
		if !authed {
			response.Unauthorized(c)
		}
	}
	h.RegisterRoutes(r.Group("/api/v1"), authMW)
	return r, h
}

func TestHandlerSectionsEnvelope(t *testing.T) {
	db := testDB(t)
	seedEntries(t, db)
	router, _ := newTestRouter(db, false)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/content?section=hero", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var payload struct {
		Data map[string][]models.ContentEntry `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	assert.Len(t, payload.Data["hero"], 2)
}

func TestHandlerBatchUpsertRequiresAuth(t *testing.T) {
	db := testDB(t)
	router, _ := newTestRouter(db, false)

	body, _ := json.Marshal([]models.ContentEntry{{Section: "hero", ContentKey: "headline", ContentValue: "x"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/content", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestHandlerBatchUpsertSavesAndNotifies(t *testing.T) {
	db := testDB(t)
	router, h := newTestRouter(db, true)

	notified := false
	h.OnSaved = func(ctx context.Context) { notified = true }

	body, _ := json.Marshal([]models.ContentEntry{{Section: "hero", ContentKey: "headline", ContentValue: "x"}})
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/content", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, notified)

	var count int64
	db.Model(&models.ContentEntry{}).Count(&count)
	assert.EqualValues(t, 1, count)
}

func TestHandlerRejectsEmptyBatch(t *testing.T) {
	db := testDB(t)
	router, _ := newTestRouter(db, true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/api/v1/content", bytes.NewReader([]byte("[]")))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
