package moderation

import "github.com/gin-gonic/gin"

func RegisterRoutes(router *gin.RouterGroup) {
	router.GET("/pending", ListPending)
	router.GET("/export/:type", ExportContent)
}
