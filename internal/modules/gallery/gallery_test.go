package gallery

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/carousel"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/modules/content/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

type fakeClock struct{ now time.Time }

func (f *fakeClock) Now() time.Time          { return f.now }
func (f *fakeClock) Advance(d time.Duration) { f.now = f.now.Add(d) }

func newGalleryRouter(t *testing.T) (*gin.Engine, *fakeClock) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&models.MediaAsset{}))

	seed := []models.MediaAsset{
		{Kind: models.MediaKindImage, Src: "uploads/a.jpg", OrderIndex: 0, Published: true},
		{Kind: models.MediaKindImage, Src: "uploads/b.jpg", OrderIndex: 1, Published: true},
		{Kind: models.MediaKindImage, Src: "uploads/c.jpg", OrderIndex: 2, Published: true},
	}
	require.NoError(t, db.Create(&seed).Error)

	clock := &fakeClock{now: time.Date(2026, 1, 10, 12, 0, 0, 0, time.UTC)}

	gin.SetMode(gin.TestMode)
	r := gin.New()
	h := NewHandler(media.NewService(db), "https://example.com").WithClock(clock)
	h.RegisterRoutes(r.Group("/api/v1"), nil)
	return r, clock
}

func startSession(t *testing.T, router *gin.Engine) *http.Cookie {
	t.Helper()
	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/gallery/session", nil))
	require.Equal(t, http.StatusCreated, w.Code)

	for _, cookie := range w.Result().Cookies() {
		if cookie.Name == SessionCookie {
			return cookie
		}
	}
	t.Fatal("session cookie not set")
	return nil
}

func postCommand(t *testing.T, router *gin.Engine, cookie *http.Cookie, path string, body string) stateEnvelope {
	t.Helper()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery"+path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var envelope stateEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	return envelope
}

func TestSessionLifecycle(t *testing.T) {
	router, clock := newGalleryRouter(t)
	cookie := startSession(t, router)

	st := postCommand(t, router, cookie, "/open/1", "").State
	assert.True(t, st.Open)
	assert.Equal(t, 1, st.Index)
	assert.True(t, st.ScrollLocked)

	postCommand(t, router, cookie, "/next", "")
	clock.Advance(carousel.SettleDelay)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery/state", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	var envelope stateEnvelope
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &envelope))
	assert.Equal(t, 2, envelope.State.Index)
}

func TestRapidNextIsDropped(t *testing.T) {
	router, clock := newGalleryRouter(t)
	cookie := startSession(t, router)

	postCommand(t, router, cookie, "/open/0", "")
	postCommand(t, router, cookie, "/next", "")
	postCommand(t, router, cookie, "/next", "")
	clock.Advance(carousel.SettleDelay)

	st := postCommand(t, router, cookie, "/settle", "").State
	assert.Equal(t, 1, st.Index)
}

func TestSwipeUpDismisses(t *testing.T) {
	router, _ := newGalleryRouter(t)
	cookie := startSession(t, router)

	postCommand(t, router, cookie, "/open/0", "")
	st := postCommand(t, router, cookie, "/swipe", `{"dx":5,"dy":90}`).State

	assert.False(t, st.Open)
	assert.False(t, st.ScrollLocked)
}

func TestMissingSessionIs404(t *testing.T) {
	router, _ := newGalleryRouter(t)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/api/v1/gallery/next", nil))
	assert.Equal(t, http.StatusNotFound, w.Code)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery/next", nil)
	req.AddCookie(&http.Cookie{Name: SessionCookie, Value: "unknown"})
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestBadIndexIs400(t *testing.T) {
	router, _ := newGalleryRouter(t)
	cookie := startSession(t, router)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/gallery/open/abc", nil)
	req.AddCookie(cookie)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}
