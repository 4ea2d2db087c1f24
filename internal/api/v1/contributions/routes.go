package contributions

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	group := router.Group("/contributions")
	{
		group.POST("", Submit)
		group.GET("", List)
	}
}
