package v1

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers all API routes. The mobile client calls the report
// endpoints both with and without a trailing slash, so both forms are bound.
func (h *Handler) RegisterRoutes(api *gin.RouterGroup) {
	auth := api.Group("/auth")
	{
		auth.POST("/register", h.register)
		auth.POST("/login", h.login)
	}

	reports := api.Group("/reports")
	reports.Use(JWTAuthMiddleware(h.authService, h.logger))
	{
		reports.GET("", h.listReports)
		reports.GET("/", h.listReports)
		reports.POST("", h.createReport)
		reports.POST("/", h.createReport)
		reports.GET("/map", h.mapMarkers)
		reports.PUT("/confirm/:report_id", h.confirmReport)
		reports.DELETE("/:report_id", h.deleteReport)
	}

	api.GET("/system/health", h.healthCheck)
}
