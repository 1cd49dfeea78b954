package post

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/middleware"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/pkg/pagination"
	"github.com/lumen-studio/site-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	posts := rg.Group("/posts")
	posts.GET("", h.list)
	posts.GET("/:slug", h.getBySlug)

	authed := posts.Group("", authMW)
	authed.POST("", h.create)
	authed.PUT("/id/:id", h.update)
	authed.PATCH("/id/:id", h.update)
	authed.DELETE("/id/:id", h.delete)
}

// list returns published posts; signed-in admins can pass all=true to see
// drafts too.
func (h *Handler) list(c *gin.Context) {
	q := pagination.FromContext(c)

	var (
		posts []models.PostModel
		pag   response.Pagination
		err   error
	)
	if c.Query("all") == "true" && middleware.IsAuthenticated(c) {
		posts, pag, err = h.svc.ListAll(q)
	} else {
		posts, pag, err = h.svc.ListPublished(q)
	}
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.Paged(c, posts, pag)
}

func (h *Handler) getBySlug(c *gin.Context) {
	post, err := h.svc.GetBySlug(c.Param("slug"), false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, post)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Create(&dto)
	if err != nil {
		if errors.Is(err, ErrSlugTaken) {
			response.Conflict(c, err.Error())
			return
		}
		response.InternalError(c, err)
		return
	}
	response.Created(c, post)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdatePostDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	post, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if post == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, post)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
