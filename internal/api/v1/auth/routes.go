package auth

import (
	"aidirectory-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup, h *Handler) {
	auth := router.Group("/auth")
	auth.GET("/github/login", h.Login)
	auth.GET("/github/callback", h.Callback)
	auth.POST("/logout", middleware.AuthMiddleware(), Logout)
}
