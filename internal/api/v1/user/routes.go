package user

import "github.com/gin-gonic/gin"

// RegisterRoutes mounts routes that need an authenticated user.
func RegisterRoutes(router *gin.RouterGroup) {
	auth := router.Group("/auth")
	auth.GET("/user", CurrentUser)
}

func RegisterPublicRoutes(router *gin.RouterGroup) {
	router.GET("/users/:login", Profile)
}
