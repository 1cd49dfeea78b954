package app

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/lumen-studio/site-core/internal/middleware"
	"github.com/lumen-studio/site-core/internal/modules/auth/auth"
	"github.com/lumen-studio/site-core/internal/modules/configs"
	"github.com/lumen-studio/site-core/internal/modules/contact"
	"github.com/lumen-studio/site-core/internal/modules/content/content"
	"github.com/lumen-studio/site-core/internal/modules/content/media"
	"github.com/lumen-studio/site-core/internal/modules/content/post"
	"github.com/lumen-studio/site-core/internal/modules/content/project"
	"github.com/lumen-studio/site-core/internal/modules/gallery"
	"github.com/lumen-studio/site-core/internal/modules/render"
	"github.com/lumen-studio/site-core/internal/modules/storage/file"
	pkgredis "github.com/lumen-studio/site-core/internal/pkg/redis"
	"github.com/lumen-studio/site-core/internal/pkg/response"
)

const apiPrefix = "/api/v1"

func (a *App) registerRoutes(rc *pkgredis.Client, staticDir string) error {
	r := a.router
	db := a.db
	authMW := middleware.Auth(db)

	r.NoRoute(func(c *gin.Context) {
		response.NotFound(c)
	})
	r.NoMethod(func(c *gin.Context) {
		response.MethodNotAllowed(c)
	})

	// Shared services
	cfgSvc := configs.NewService(db)
	contentSvc := content.NewService(db)
	mediaSvc := media.NewService(db)
	postSvc := post.NewService(db)
	projectSvc := project.NewService(db)
	fileSvc := file.NewService(db, staticDir)
	fileHandler := file.NewHandler(fileSvc, cfgSvc, staticDir)

	// Static uploads and range-capable video delivery live on the engine
	// root, outside the API cache.
	fileHandler.RegisterMediaRoutes(r)

	// Server-rendered pages
	pages, err := render.NewHandler(db, cfgSvc, contentSvc, postSvc, projectSvc, mediaSvc)
	if err != nil {
		return err
	}
	pages.RegisterPages(r)

	// Versioned API
	api := r.Group(apiPrefix)
	api.Use(middleware.OptionalAuth(db))
	api.Use(middleware.RateLimit(rc.Raw()))
	api.Use(middleware.Idempotence(rc.Raw()))
	api.Use(middleware.HTTPCache(rc.Raw(), middleware.HTTPCacheOptions{
		TTL:     15 * time.Second,
		Disable: a.cfg.IsDev(),
		SkipPaths: []string{
			apiPrefix + "/gallery/*",
			apiPrefix + "/auth/*",
		},
	}))

	api.GET("/ping", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"data": "pong"}) })

	// Content sections; saves flush the anonymous response cache so the
	// public pages pick up edits immediately.
	contentHandler := content.NewHandler(contentSvc)
	contentHandler.OnSaved = func(ctx context.Context) {
		cfgSvc.Invalidate()
		_, _ = middleware.PurgeHTTPCache(ctx, rc.Raw())
	}
	contentHandler.RegisterRoutes(api, authMW)

	mediaHandler := media.NewHandler(mediaSvc)
	mediaHandler.RegisterRoutes(api, authMW)

	site, err := cfgSvc.Get()
	if err != nil {
		return err
	}
	gallery.NewHandler(mediaSvc, site.URL.APIBase).RegisterRoutes(api, authMW)

	post.NewHandler(postSvc).RegisterRoutes(api, authMW)
	project.NewHandler(projectSvc).RegisterRoutes(api, authMW)
	auth.NewHandler(auth.NewService(db)).RegisterRoutes(api, authMW)
	configs.NewHandler(cfgSvc).RegisterRoutes(api, authMW)
	contact.NewHandler(cfgSvc).RegisterRoutes(api, authMW)
	fileHandler.RegisterRoutes(api, authMW)

	return nil
}
