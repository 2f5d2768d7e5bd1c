package api

import (
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/jroosing/osdns/internal/api/handlers"
	"github.com/jroosing/osdns/internal/api/middleware"
	"github.com/jroosing/osdns/internal/config"

	_ "github.com/jroosing/osdns/internal/api/docs" // swagger docs
)

// RegisterRoutes wires the API endpoints onto the engine.
func RegisterRoutes(r *gin.Engine, h *handlers.Handler, cfg *config.Config) {
	// Swagger UI at /swagger/*
	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	api := r.Group("/api/v1")

	api.GET("/health", h.Health)

	// Optional API key protection for everything but the health probe.
	protected := api.Group("")
	if cfg != nil && cfg.API.APIKey != "" {
		protected.Use(middleware.RequireAPIKey(cfg.API.APIKey))
	}

	protected.GET("/resolve", h.Resolve)
	protected.GET("/stats", h.Stats)
	protected.GET("/history", h.History)
}
