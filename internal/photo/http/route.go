package http

import "github.com/gin-gonic/gin"

// RegisterRoutes registers photo routes. Reads are public for active listings.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware, optionalAuthMiddleware gin.HandlerFunc) {
	group := g.Group("/properties/:id/photos")
	{
		group.GET("", optionalAuthMiddleware, h.List)
		group.POST("", authMiddleware, h.Upload)
		group.GET("/:photoId", optionalAuthMiddleware, h.Serve)
		group.GET("/:photoId/thumbnail", optionalAuthMiddleware, h.ServeThumbnail)
		group.DELETE("/:photoId", authMiddleware, h.Delete)
	}
}
