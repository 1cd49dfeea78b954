package render

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/modules/content/content"
	"github.com/lumen-studio/site-core/internal/modules/content/media"
	"github.com/lumen-studio/site-core/internal/modules/content/post"
	"github.com/lumen-studio/site-core/internal/modules/content/project"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type staticConfig struct{ cfg config.SiteConfig }

func (s staticConfig) Get() (config.SiteConfig, error) { return s.cfg, nil }

func newRenderRouter(t *testing.T) (*gin.Engine, *gorm.DB) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&models.ContentEntry{}, &models.PostModel{}, &models.ProjectModel{},
		&models.MediaAsset{}, &models.UserModel{}, &models.UserSession{},
	))

	h, err := NewHandler(
		db,
		staticConfig{cfg: config.DefaultSiteConfig()},
		content.NewService(db),
		post.NewService(db),
		project.NewService(db),
		media.NewService(db),
	)
	require.NoError(t, err)

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h.RegisterPages(r)
	return r, db
}

func get(router *gin.Engine, path string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
	return w
}

func TestHomeRendersSections(t *testing.T) {
	router, db := newRenderRouter(t)
	require.NoError(t, db.Create(&models.ContentEntry{
		Section: "hero", ContentKey: "headline", ContentValue: "Build boldly", ContentType: "text",
	}).Error)

	w := get(router, "/")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Build boldly")
	assert.Contains(t, w.Body.String(), `data-section="hero"`)
}

func TestBlogPostRendersMarkdown(t *testing.T) {
	router, db := newRenderRouter(t)
	svc := post.NewService(db)
	_, err := svc.Create(&post.CreatePostDTO{
		Slug: "hello", Title: "Hello", Text: "# Heading\n\nSome **bold** text", Publish: true,
	})
	require.NoError(t, err)

	w := get(router, "/blog/hello")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "<h1>Heading</h1>")
	assert.Contains(t, w.Body.String(), "<strong>bold</strong>")
}

func TestBlogPostNotFound(t *testing.T) {
	router, _ := newRenderRouter(t)

	w := get(router, "/blog/nope")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Contains(t, w.Body.String(), "Page not found")
}

func TestGalleryRendersSlides(t *testing.T) {
	router, db := newRenderRouter(t)
	require.NoError(t, db.Create(&models.MediaAsset{
		Kind: models.MediaKindImage, Src: "uploads/a.jpg", Alt: "studio shot", Published: true,
	}).Error)

	w := get(router, "/gallery")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "/storage/uploads/a.jpg")
	assert.Contains(t, w.Body.String(), "studio shot")
}

func TestAdminRedirectsWithoutToken(t *testing.T) {
	router, _ := newRenderRouter(t)

	w := get(router, "/admin")
	require.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/login", w.Header().Get("Location"))
}

func TestMarkdownEscapesRawHTML(t *testing.T) {
	html, err := Markdown("before <script>alert(1)</script> after")
	require.NoError(t, err)
	assert.NotContains(t, string(html), "<script>")
}
