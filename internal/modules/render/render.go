// Package render serves the public pages and the admin shell as
// server-rendered HTML from embedded templates.
package render

import (
	"embed"
	"html/template"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/middleware"
	"github.com/lumen-studio/site-core/internal/modules/content/content"
	"github.com/lumen-studio/site-core/internal/modules/content/media"
	"github.com/lumen-studio/site-core/internal/modules/content/post"
	"github.com/lumen-studio/site-core/internal/modules/content/project"
	"github.com/lumen-studio/site-core/internal/pkg/pagination"
	"gorm.io/gorm"
)

//go:embed templates/*.html
var templateFS embed.FS

// SiteConfigSource yields the live site configuration.
type SiteConfigSource interface {
	Get() (config.SiteConfig, error)
}

type Handler struct {
	db       *gorm.DB
	cfg      SiteConfigSource
	contents *content.Service
	posts    *post.Service
	projects *project.Service
	media    *media.Service
	tpl      *template.Template
}

func NewHandler(
	db *gorm.DB,
	cfg SiteConfigSource,
	contents *content.Service,
	posts *post.Service,
	projects *project.Service,
	mediaSvc *media.Service,
) (*Handler, error) {
	tpl, err := template.ParseFS(templateFS, "templates/*.html")
	if err != nil {
		return nil, err
	}
	return &Handler{
		db:       db,
		cfg:      cfg,
		contents: contents,
		posts:    posts,
		projects: projects,
		media:    mediaSvc,
		tpl:      tpl,
	}, nil
}

// RegisterPages mounts the rendered pages on the engine root.
func (h *Handler) RegisterPages(r *gin.Engine) {
	r.GET("/", h.home)
	r.GET("/blog", h.blogIndex)
	r.GET("/blog/:slug", h.blogPost)
	r.GET("/projects", h.projectsPage)
	r.GET("/gallery", h.galleryPage)
	r.GET("/contact-us", h.contactPage)
	r.GET("/login", h.loginPage)

	admin := r.Group("/admin", middleware.RequireAdminPage(h.db, "/login"))
	admin.GET("", h.adminPage)
}

type pageData struct {
	Site config.SEOConfig
	Data gin.H
}

func (h *Handler) render(c *gin.Context, status int, name string, data gin.H) {
	site, err := h.cfg.Get()
	if err != nil {
		c.String(http.StatusInternalServerError, "configuration unavailable")
		return
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	c.Status(status)
	if err := h.tpl.ExecuteTemplate(c.Writer, name, pageData{Site: site.SEO, Data: data}); err != nil {
		_ = c.Error(err)
	}
}

func (h *Handler) home(c *gin.Context) {
	sections, err := h.contents.Sections("")
	if err != nil {
		c.String(http.StatusInternalServerError, "content unavailable")
		return
	}
	h.render(c, http.StatusOK, "home.html", gin.H{"Sections": sections})
}

func (h *Handler) blogIndex(c *gin.Context) {
	posts, pag, err := h.posts.ListPublished(pagination.FromContext(c))
	if err != nil {
		c.String(http.StatusInternalServerError, "posts unavailable")
		return
	}
	h.render(c, http.StatusOK, "blog.html", gin.H{
		"Posts":      posts,
		"Pagination": pag,
		"NextPage":   pag.CurrentPage + 1,
	})
}

func (h *Handler) blogPost(c *gin.Context) {
	p, err := h.posts.GetBySlug(c.Param("slug"), false)
	if err != nil {
		c.String(http.StatusInternalServerError, "post unavailable")
		return
	}
	if p == nil {
		h.render(c, http.StatusNotFound, "notfound.html", gin.H{})
		return
	}
	body, err := Markdown(p.Text)
	if err != nil {
		c.String(http.StatusInternalServerError, "post unavailable")
		return
	}
	h.render(c, http.StatusOK, "post.html", gin.H{"Post": p, "Body": body})
}

func (h *Handler) projectsPage(c *gin.Context) {
	projects, err := h.projects.List(true)
	if err != nil {
		c.String(http.StatusInternalServerError, "projects unavailable")
		return
	}
	h.render(c, http.StatusOK, "projects.html", gin.H{"Projects": projects})
}

func (h *Handler) galleryPage(c *gin.Context) {
	site, err := h.cfg.Get()
	if err != nil {
		c.String(http.StatusInternalServerError, "configuration unavailable")
		return
	}
	slides, err := h.media.Slides(site.URL.APIBase)
	if err != nil {
		c.String(http.StatusInternalServerError, "gallery unavailable")
		return
	}
	h.render(c, http.StatusOK, "gallery.html", gin.H{"Slides": slides})
}

func (h *Handler) contactPage(c *gin.Context) {
	h.render(c, http.StatusOK, "contact.html", gin.H{})
}

func (h *Handler) loginPage(c *gin.Context) {
	h.render(c, http.StatusOK, "login.html", gin.H{})
}

func (h *Handler) adminPage(c *gin.Context) {
	sections, err := h.contents.Sections("")
	if err != nil {
		c.String(http.StatusInternalServerError, "content unavailable")
		return
	}
	h.render(c, http.StatusOK, "admin.html", gin.H{"Sections": sections})
}
