package media

import (
	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/pkg/response"
)

type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	media := rg.Group("/media")
	media.GET("", h.list)

	authed := media.Group("", authMW)
	authed.GET("/all", h.listAll)
	authed.POST("", h.create)
	authed.PUT("/:id", h.update)
	authed.PATCH("/:id", h.update)
	authed.DELETE("/:id", h.delete)
}

func (h *Handler) list(c *gin.Context) {
	assets, err := h.svc.List(true)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, assets)
}

func (h *Handler) listAll(c *gin.Context) {
	assets, err := h.svc.List(false)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, assets)
}

func (h *Handler) create(c *gin.Context) {
	var dto CreateMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	asset, err := h.svc.Create(&dto)
	if err != nil {
		response.UnprocessableEntity(c, err.Error())
		return
	}
	response.Created(c, asset)
}

func (h *Handler) update(c *gin.Context) {
	var dto UpdateMediaDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	asset, err := h.svc.Update(c.Param("id"), &dto)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if asset == nil {
		response.NotFound(c)
		return
	}
	response.OK(c, asset)
}

func (h *Handler) delete(c *gin.Context) {
	if err := h.svc.Delete(c.Param("id")); err != nil {
		response.InternalError(c, err)
		return
	}
	response.NoContent(c)
}
