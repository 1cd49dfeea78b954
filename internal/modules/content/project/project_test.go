package project

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/models"
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
	require.NoError(t, db.AutoMigrate(&models.ProjectModel{}))
	return db
}

func boolPtr(b bool) *bool { return &b }

func TestListOrdersByOrderIndex(t *testing.T) {
	svc := NewService(testDB(t))

	_, err := svc.Create(&CreateProjectDTO{Name: "second", OrderIndex: 2})
	require.NoError(t, err)
	_, err = svc.Create(&CreateProjectDTO{Name: "first", OrderIndex: 1})
	require.NoError(t, err)
	_, err = svc.Create(&CreateProjectDTO{Name: "hidden", OrderIndex: 0, Published: boolPtr(false)})
	require.NoError(t, err)

	published, err := svc.List(true)
	require.NoError(t, err)
	require.Len(t, published, 2)
	assert.Equal(t, "first", published[0].Name)
	assert.Equal(t, "second", published[1].Name)

	all, err := svc.List(false)
	require.NoError(t, err)
	assert.Len(t, all, 3)
}

func TestUpdateAppliesPartialChanges(t *testing.T) {
	svc := NewService(testDB(t))

	created, err := svc.Create(&CreateProjectDTO{Name: "site", Description: "old"})
	require.NoError(t, err)

	updated, err := svc.Update(created.ID, &UpdateProjectDTO{Description: strPtr("new")})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Description)
	assert.Equal(t, "site", updated.Name)

	missing, err := svc.Update("no-such-id", &UpdateProjectDTO{Description: strPtr("x")})
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func strPtr(s string) *string { return &s }

func TestMutationsRequireAuth(t *testing.T) {
	db := testDB(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	rg := router.Group("/api/v1")
	deny := func(c *gin.Context) {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"ok": 0})
	}
	NewHandler(NewService(db)).RegisterRoutes(rg, deny)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/projects", strings.NewReader(`{"name":"x"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/v1/projects", nil))
	assert.Equal(t, http.StatusOK, w.Code)
}
