package favorites

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/favorites")
	{
		group.POST("", ToggleFavorite)
		group.GET("", ListFavorites)
		group.DELETE("/:type/:id", RemoveFavorite)
	}
}
