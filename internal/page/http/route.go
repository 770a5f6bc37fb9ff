package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, adminMiddleware gin.HandlerFunc) {
	group := g.Group("/pages")

	// === Public Routes ===
	{
		group.GET("", h.List)
		group.GET("/:slug", h.Get)
	}

	// === Administration Routes (System Admin Only) ===
	adminGroup := group.Group("")
	adminGroup.Use(authMiddleware, adminMiddleware)
	{
		adminGroup.POST("", h.Create)
		adminGroup.PATCH("/:slug", h.Update)
		adminGroup.DELETE("/:slug", h.Delete)
	}
}
