package collections

import (
	"aidirectory-backend/internal/middleware"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/collections")
	{
		group.GET("/public", ListPublicCollections)
		group.GET("/:id", middleware.OptionalAuth(), GetCollection)

		owner := group.Group("", middleware.AuthMiddleware())
		owner.GET("", ListCollections)
		owner.POST("", CreateCollection)
		owner.PUT("/:id", UpdateCollection)
		owner.DELETE("/:id", DeleteCollection)
		owner.POST("/:id/items", AddItem)
		owner.DELETE("/:id/items/:itemId", RemoveItem)
	}
}
