// Package contact accepts contact-form submissions and forwards them to
// the site owner by email.
package contact

import (
	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/config"
	"github.com/lumen-studio/site-core/internal/pkg/mail"
	"github.com/lumen-studio/site-core/internal/pkg/response"
)

// SiteConfigSource yields the live site configuration.
type SiteConfigSource interface {
	Get() (config.SiteConfig, error)
}

type SubmitDTO struct {
	Name    string `json:"name" binding:"required,max=120"`
	Email   string `json:"email" binding:"required,email"`
	Phone   string `json:"phone" binding:"max=40"`
	Message string `json:"message" binding:"required,max=5000"`
}

type Handler struct {
	cfg SiteConfigSource

	// newSender builds a sender per request from the live mail config;
	// tests substitute it.
	newSender func(mail.Config) *mail.Sender
}

func NewHandler(cfg SiteConfigSource) *Handler {
	return &Handler{cfg: cfg, newSender: mail.New}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	rg.POST("/contact", h.submit)
}

func (h *Handler) submit(c *gin.Context) {
	var dto SubmitDTO
	if err := c.ShouldBindJSON(&dto); err != nil {
		response.BadRequest(c, err.Error())
		return
	}

	site, err := h.cfg.Get()
	if err != nil {
		response.InternalError(c, err)
		return
	}

	to := site.Mail.ContactTo
	if to == "" {
		to = site.Mail.From
	}

	sender := h.newSender(site.Mail)
	if err := sender.SendContact(to, mail.ContactData{
		Name:     dto.Name,
		Email:    dto.Email,
		Phone:    dto.Phone,
		Body:     dto.Message,
		SiteName: site.SEO.Title,
	}); err != nil {
		response.InternalError(c, err)
		return
	}
	response.OK(c, gin.H{"message": "thanks, we will get back to you soon"})
}
