package api

import (
	"github.com/gin-gonic/gin"
)

func SetupRoutes(router *gin.Engine, handler *Handler) {
	api := router.Group("/api")
	{
		api.GET("/analyses", handler.GetAnalyses)
		api.GET("/analyses/top", handler.GetTopAnalyses)
		api.GET("/regions", handler.GetRegions)
		api.POST("/refresh", handler.Refresh)
		api.GET("/health", handler.Health)
	}
}
