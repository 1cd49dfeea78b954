package content

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/models"
	"github.com/lumen-studio/site-core/internal/pkg/response"
)

type Handler struct {
	svc *Service

	// OnSaved runs after a successful batch upsert; the app hooks the
	// response cache purge here.
	OnSaved func(ctx context.Context)
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, authMW gin.HandlerFunc) {
	rg.GET("/content", h.sections)
	rg.PUT("/content", authMW, h.batchUpsert)
}

func (h *Handler) sections(c *gin.Context) {
	sections, err := h.svc.Sections(c.Query("section"))
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"data": sections})
}

func (h *Handler) batchUpsert(c *gin.Context) {
	var entries []models.ContentEntry
	if err := c.ShouldBindJSON(&entries); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if len(entries) == 0 {
		response.BadRequest(c, "no entries submitted")
		return
	}

	saved, err := h.svc.BatchUpsert(entries)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	if h.OnSaved != nil {
		h.OnSaved(c.Request.Context())
	}
	response.OK(c, saved)
}
