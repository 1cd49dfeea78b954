package file

import (
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/pkg/pagination"
	"github.com/lumen-studio/site-core/internal/pkg/response"
	"github.com/lumen-studio/site-core/internal/pkg/s3"
	"github.com/lumen-studio/site-core/internal/upload"
)

// SiteConfigSource yields the live site configuration; the configs module
// implements it.
type SiteConfigSource interface {
	Get() (config.SiteConfig, error)
}

// Handler manages image uploads, media file serving and orphan cleanup.
type Handler struct {
	svc       *Service
	cfg       SiteConfigSource
	staticDir string
}

func NewHandler(svc *Service, cfg SiteConfigSource, staticDir string) *Handler {
	return &Handler{svc: svc, cfg: cfg, staticDir: staticDir}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.POST("/content/upload-image", authMW, h.uploadImage)

	files := rg.Group("/files", authMW)
	files.GET("/orphans", h.listOrphans)
	files.POST("/orphans/cleanup", h.cleanupOrphans)
	files.DELETE("/:name", h.deleteFile)
}

// RegisterMediaRoutes mounts the public media endpoints on the engine
// root: images under /storage, videos under the range-aware /api/video.
func (h *Handler) RegisterMediaRoutes(r *gin.Engine) {
	r.GET("/storage/*path", h.serveStatic)
	r.HEAD("/storage/*path", h.serveStatic)
	r.GET("/api/video/*path", h.serveVideo)
	r.HEAD("/api/video/*path", h.serveVideo)
}

func (h *Handler) uploadImage(c *gin.Context) {
	fileHeader, err := c.FormFile("image")
	if err != nil {
		response.BadRequest(c, "image file is required")
		return
	}

	site, err := h.cfg.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	opts := site.Upload

	// The size cap gets its own status so the editor can show the
	// dedicated message instead of a generic failure.
	maxBytes := int64(opts.MaxSizeMB) << 20
	if maxBytes > 0 && fileHeader.Size > maxBytes {
		response.PayloadTooLarge(c, fmt.Sprintf("image exceeds the %dMB upload limit", opts.MaxSizeMB))
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	defer src.Close()
	payload, err := io.ReadAll(src)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	contentType := detectContentType(fileHeader.Filename, payload, fileHeader.Header.Get("Content-Type"))
	result := upload.Validate(
		upload.File{Name: fileHeader.Filename, Size: int64(len(payload)), MIME: contentType},
		upload.ImageConstraints(opts.MaxSizeMB, strings.Split(opts.AllowedFormats, ",")),
	)
	if !result.IsValid {
		response.UnprocessableEntity(c, strings.Join(result.Errors, "; "))
		return
	}

	filename := buildFileName(fileHeader.Filename)
	var path string
	if opts.UseS3 {
		uploader, err := s3.NewUploader(opts.S3)
		if err != nil {
			response.InternalError(c, err)
			return
		}
		now := time.Now()
		key := fmt.Sprintf("uploads/%s/%s/%s", now.Format("2006"), now.Format("01"), filename)
		path, err = uploader.Upload(c.Request.Context(), key, payload, contentType)
		if err != nil {
			response.InternalError(c, err)
			return
		}
	} else {
		dir := filepath.Join(h.staticDir, "uploads")
		if err := os.MkdirAll(dir, 0o755); err != nil {
			response.InternalError(c, err)
			return
		}
		if err := os.WriteFile(filepath.Join(dir, filename), payload, 0o644); err != nil {
			response.InternalError(c, err)
			return
		}
		path = "uploads/" + filename
	}

	if err := h.svc.Track(path, filename); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": gin.H{"path": path}})
}

func (h *Handler) serveStatic(c *gin.Context) {
	rel := safeRelPath(c.Param("path"))
	if rel == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(h.staticDir, filepath.FromSlash(rel))
	if info, err := os.Stat(path); err != nil || info.IsDir() {
		response.NotFound(c)
		return
	}

	c.Header("Cache-Control", "public, max-age=31536000")
	c.File(path)
}

// serveVideo streams with explicit Range support so players can seek.
func (h *Handler) serveVideo(c *gin.Context) {
	rel := safeRelPath(c.Param("path"))
	if rel == "" {
		response.NotFound(c)
		return
	}

	path := filepath.Join(h.staticDir, filepath.FromSlash(rel))
	f, err := os.Open(path)
	if err != nil {
		response.NotFound(c)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		response.NotFound(c)
		return
	}

	c.Header("Accept-Ranges", "bytes")
	c.Header("Content-Type", detectContentType(rel, nil, ""))
	http.ServeContent(c.Writer, c.Request, filepath.Base(path), info.ModTime(), f)
}

func (h *Handler) listOrphans(c *gin.Context) {
	q := pagination.FromContext(c)
	tx := h.svc.db.Model(&models.FileReference{}).
		Where("status = ?", "pending").
		Order("created_at DESC")

	var refs []models.FileReference
	pag, err := pagination.Paginate(tx, q, &refs)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, refs, pag)
}

func (h *Handler) cleanupOrphans(c *gin.Context) {
	maxAge := DefaultOrphanAge
	if raw := strings.TrimSpace(c.Query("max_age_minutes")); raw != "" {
		if v, err := strconv.Atoi(raw); err == nil && v > 0 {
			maxAge = time.Duration(v) * time.Minute
		}
	}

	attached, deleted, err := h.svc.CleanupOrphans(maxAge)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"attached": attached, "deleted": deleted})
}

func (h *Handler) deleteFile(c *gin.Context) {
	name := safeRelPath(c.Param("name"))
	if name == "" || strings.Contains(name, "/") {
		response.BadRequest(c, "invalid file name")
		return
	}

	_ = os.Remove(filepath.Join(h.staticDir, "uploads", name))
	if err := h.svc.db.Where("file_name = ?", name).Delete(&models.FileReference{}).Error; err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
