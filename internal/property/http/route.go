package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *PropertyHandler, authMiddleware, optionalAuthMiddleware gin.HandlerFunc) {
	group := g.Group("/properties")

	// Public Routes
	group.GET("", optionalAuthMiddleware, h.List)
	group.GET("/:id", optionalAuthMiddleware, h.Get)

	// Host Routes
	group.POST("", authMiddleware, h.Create)
	group.PATCH("/:id", authMiddleware, h.Update)
	group.DELETE("/:id", authMiddleware, h.Delete)
}
