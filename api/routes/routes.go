package routes

import (
	"github.com/gin-gonic/gin"

	"github.com/kamazuxa/tender/api/handlers"
	"github.com/kamazuxa/tender/api/middleware"
)

// SetupRoutes wires all HTTP routes.
func SetupRoutes(r *gin.Engine, h *handlers.Handlers) {
	r.Use(middleware.CORS())

	v1 := r.Group("/api/v1")

	tenders := v1.Group("/tenders")
	{
		tenders.POST("/analyze", h.Tender.Analyze)
		tenders.GET("/status/:taskId", h.Tender.GetStatus)
		tenders.GET("/report/:taskId", h.Tender.GetReport)
		tenders.DELETE("/task/:taskId", h.Tender.CancelTask)
	}
}
