package content

import (
	"aidirectory-backend/internal/middleware"
	"aidirectory-backend/internal/models"

	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the same set of routes for every content type under its route path.
func RegisterRoutes(router *gin.RouterGroup) {
	for _, t := range models.AllContentTypes() {
		h := NewHandler(t)
		group := router.Group("/" + t.RoutePath())
		{
			group.GET("", middleware.OptionalAuth(), h.List)
			group.GET("/categories", h.Categories)
			group.GET("/:slug", middleware.OptionalAuth(), h.Get)
			group.POST("", middleware.AuthMiddleware(), h.Create)
			group.PUT("/:slug", middleware.AuthMiddleware(), h.Update)
			group.DELETE("/:slug", middleware.AuthMiddleware(), h.Delete)
			group.PATCH("/:slug/status", middleware.AdminAuthMiddleware(), h.SetStatus)
		}
	}
}
