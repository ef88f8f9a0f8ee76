package routes

import (
	"github.com/gin-gonic/gin"

	"video2quiz/internal/api/v1/handlers"
	"video2quiz/internal/api/v1/services"
)

// ServiceContainer holds all services needed by handlers.
type ServiceContainer struct {
	IntakeService services.IntakeService
	StatusService services.StatusService
}

// RegisterRoutes registers all v1 API routes.
func RegisterRoutes(router *gin.RouterGroup, container *ServiceContainer) {
	jobHandler := handlers.NewJobHandler(container.IntakeService, container.StatusService)

	jobs := router.Group("/jobs")
	{
		jobs.POST("", jobHandler.Create)
		jobs.POST("/upload", jobHandler.Upload)
		jobs.GET("/:id/status", jobHandler.GetStatus)
	}
}
