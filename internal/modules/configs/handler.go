package configs

import (
	"encoding/json"
	"io"

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
	g := rg.Group("/configs", authMW)
	g.GET("", h.get)
	g.PATCH("", h.patch)
}

func (h *Handler) get(c *gin.Context) {
	cfg, err := h.svc.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}

func (h *Handler) patch(c *gin.Context) {
	raw, err := io.ReadAll(io.LimitReader(c.Request.Body, 1<<20))
	if err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	if !json.Valid(raw) {
		response.BadRequest(c, "body must be a JSON object")
		return
	}

	cfg, err := h.svc.Patch(raw)
	if err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, cfg)
}
