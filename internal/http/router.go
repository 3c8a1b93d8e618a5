package http

import (
	"strings"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"go.ngs.io/vsop87/internal/usecase"
)

// SetupRouter creates and configures the Gin router.
// allowedOrigins is a comma-separated list; empty allows every origin.
func SetupRouter(positionUC *usecase.PositionUseCase, allowedOrigins string) *gin.Engine {

	router := gin.Default()

	// Setup CORS middleware.
	corsConfig := cors.DefaultConfig()
	if allowedOrigins != "" {
		origins := strings.Split(allowedOrigins, ",")
		for i := range origins {
			origins[i] = strings.TrimSpace(origins[i])
		}
		corsConfig.AllowOrigins = origins
	} else {
		corsConfig.AllowAllOrigins = true
	}

	router.Use(cors.New(corsConfig))

	// Create handler.
	handler := NewHandler(positionUC)

	// API v1 routes.
	v1 := router.Group("/v1")
	v1.GET("/positions", handler.GetPositions)
	v1.GET("/models", handler.GetModels)

	// Health check.
	router.GET("/health", handler.HealthCheck)

	return router
}
