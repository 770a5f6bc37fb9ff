package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/properties/:id/blocked-dates")
	group.Use(authMiddleware)
	{
		group.GET("", h.List)
		group.POST("", h.Block)
		group.DELETE("", h.Unblock)
	}
}
