package http

import (
	"github.com/gin-gonic/gin"
	"github.com/macrolens/intake/config"
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
	router.Use(LoggerMiddleware(handler.logger))
	router.Use(CORSMiddleware(cfg.Server.AllowedOrigins))

	// Health check endpoint
	router.GET("/health", handler.HealthCheck)

	// API v1 routes
	v1 := router.Group("/api/v1")
	v1.Use(RateLimitMiddleware(cfg.RateLimit.PerIP))
	{
		foods := v1.Group("/foods")
		{
			foods.GET("", handler.ListFoods)
			foods.POST("", handler.AddFood)
			foods.GET("/:name", handler.GetFood)
		}

		v1.GET("/match", handler.Match)
		v1.GET("/conversions", handler.Conversions)
		v1.GET("/suggestions", handler.Suggest)
		v1.POST("/meals/summary", handler.MealSummary)
	}

	return router
}
