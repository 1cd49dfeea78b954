// Package gallery serves the lightbox state machine over HTTP. Each
// visitor gets a server-held carousel session addressed by cookie; the
// page scripts post navigation commands and re-render from the returned
// state snapshot.
package gallery

import (
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/lumen-studio/site-core/internal/carousel"
	"github.com/lumen-studio/site-core/internal/modules/content/media"
	"github.com/lumen-studio/site-core/internal/pkg/response"
	gocache "github.com/patrickmn/go-cache"
)

const (
	// SessionCookie addresses a visitor's gallery session.
	SessionCookie = "site-gallery"

	sessionTTL      = 30 * time.Minute
	cleanupInterval = 10 * time.Minute
)

type session struct {
	mu  sync.Mutex
	ctl *carousel.Controller
}

type stateEnvelope struct {
	State  carousel.State   `json:"state"`
	Slides []carousel.Slide `json:"slides,omitempty"`
}

type Handler struct {
	media    *media.Service
	sessions *gocache.Cache
	apiBase  string
	clock    carousel.Clock
}

func NewHandler(mediaSvc *media.Service, apiBase string) *Handler {
	return &Handler{
		media:    mediaSvc,
		sessions: gocache.New(sessionTTL, cleanupInterval),
		apiBase:  apiBase,
	}
}

// WithClock injects a clock for tests.
func (h *Handler) WithClock(clock carousel.Clock) *Handler {
	h.clock = clock
	return h
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, _ gin.HandlerFunc) {
	g := rg.Group("/gallery")
	g.POST("/session", h.createSession)
	g.GET("/state", h.state)
	g.POST("/next", h.command(func(c *carousel.Controller) { c.Next() }))
	g.POST("/prev", h.command(func(c *carousel.Controller) { c.Prev() }))
	g.POST("/close", h.command(func(c *carousel.Controller) { c.Close() }))
	g.POST("/escape", h.command(func(c *carousel.Controller) { c.Escape() }))
	g.POST("/settle", h.command(func(c *carousel.Controller) { c.SettleTransition() }))
	g.POST("/open/:index", h.indexCommand((*carousel.Controller).Open))
	g.POST("/select/:index", h.indexCommand((*carousel.Controller).SelectDot))
	g.POST("/toggle/:index", h.indexCommand((*carousel.Controller).ToggleMedia))
	g.POST("/swipe", h.swipe)
}

func (h *Handler) createSession(c *gin.Context) {
	slides, err := h.media.Slides(h.apiBase)
	if err != nil {
		response.InternalError(c, err)
		return
	}

	id := uuid.New().String()
	sess := &session{ctl: carousel.New(slides, h.clock)}
	h.sessions.Set(id, sess, sessionTTL)

	c.SetCookie(SessionCookie, id, int(sessionTTL/time.Second), "/", "", false, true)
	response.Created(c, stateEnvelope{State: sess.ctl.State(), Slides: slides})
}

func (h *Handler) state(c *gin.Context) {
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	st := sess.ctl.State()
	sess.mu.Unlock()
	response.OK(c, stateEnvelope{State: st})
}

func (h *Handler) command(apply func(*carousel.Controller)) gin.HandlerFunc {
	return func(c *gin.Context) {
		sess, ok := h.lookup(c)
		if !ok {
			return
		}
		sess.mu.Lock()
		apply(sess.ctl)
		st := sess.ctl.State()
		sess.mu.Unlock()
		response.OK(c, stateEnvelope{State: st})
	}
}

func (h *Handler) indexCommand(apply func(*carousel.Controller, int)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var uri struct {
			Index int `uri:"index" binding:"min=0"`
		}
		if err := c.ShouldBindUri(&uri); err != nil {
			response.BadRequest(c, "index must be a non-negative number")
			return
		}
		sess, ok := h.lookup(c)
		if !ok {
			return
		}
		sess.mu.Lock()
		apply(sess.ctl, uri.Index)
		st := sess.ctl.State()
		sess.mu.Unlock()
		response.OK(c, stateEnvelope{State: st})
	}
}

func (h *Handler) swipe(c *gin.Context) {
	var body struct {
		DX float64 `json:"dx"`
		DY float64 `json:"dy"`
	}
	if err := c.ShouldBindJSON(&body); err != nil {
		response.BadRequest(c, err.Error())
		return
	}
	sess, ok := h.lookup(c)
	if !ok {
		return
	}
	sess.mu.Lock()
	sess.ctl.Swipe(body.DX, body.DY)
	st := sess.ctl.State()
	sess.mu.Unlock()
	response.OK(c, stateEnvelope{State: st})
}

func (h *Handler) lookup(c *gin.Context) (*session, bool) {
	id, err := c.Cookie(SessionCookie)
	if err != nil || id == "" {
		response.NotFoundMsg(c, "gallery session expired; reload the page")
		return nil, false
	}
	v, ok := h.sessions.Get(id)
	if !ok {
		response.NotFoundMsg(c, "gallery session expired; reload the page")
		return nil, false
	}
	h.sessions.Set(id, v, sessionTTL)
	return v.(*session), true
}
