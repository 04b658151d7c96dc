package api

import (
	"time"

	"github.com/gin-gonic/gin"

	"github.com/eejihoon/scrappers/api/handler"
	"github.com/eejihoon/scrappers/api/middleware"
	"github.com/eejihoon/scrappers/config"
)

// NewRouter creates a configured Gin engine with all routes and middleware.
//
// Middleware chain:
//
//	Global:  Recovery → Logger
//	API:     Auth (if enabled) → RateLimit
//
// Health endpoint is intentionally outside auth so monitoring probes always work.
func NewRouter(runs *handler.RunManager, cfg *config.Config, startTime time.Time) *gin.Engine {
	gin.SetMode(cfg.Server.Mode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(gin.Logger())

	v1 := r.Group("/api/v1")

	// Health endpoint, no auth required.
	v1.GET("/health", handler.Health(runs, startTime))

	// Protected group: auth + rate limit.
	protected := v1.Group("")
	if cfg.Auth.Enabled {
		protected.Use(middleware.Auth(cfg.Auth.APIKeys))
	}
	protected.Use(middleware.RateLimit(cfg.RateLimit))

	protected.POST("/runs", handler.PostRun(runs))
	protected.GET("/runs/:id", handler.GetRun(runs))

	return r
}
