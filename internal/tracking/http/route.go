package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, optionalAuthMiddleware gin.HandlerFunc) {
	group := g.Group("/properties/:id/views")
	{
		group.POST("", optionalAuthMiddleware, h.Heartbeat)
		group.GET("/stats", authMiddleware, h.Stats)
	}
}
