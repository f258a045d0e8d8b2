package http

import (
	"github.com/gin-gonic/gin"
	"github.com/trolleywatch/backend/config"
)

// SetupRouter creates and configures the Gin router
func SetupRouter(cfg *config.Config, handler *Handler) *gin.Engine {
	// Set Gin mode based on environment
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Global middleware
	router.Use(RecoveryMiddleware())
	router.Use(LoggerMiddleware())
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	router.GET("/health", handler.HealthCheck)
	router.GET("/search", handler.SearchStore)
	router.GET("/cheapest", handler.Cheapest)
	router.GET("/bulk-cheapest-perkg", handler.BulkCheapestPerKg)

	return router
}
