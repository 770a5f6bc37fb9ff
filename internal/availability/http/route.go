package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes mounts the public calendar endpoints under /properties/:id.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, optionalAuthMiddleware gin.HandlerFunc) {
	group := g.Group("/properties/:id")
	group.Use(optionalAuthMiddleware)
	{
		group.GET("/calendar", h.Calendar)
		group.GET("/availability", h.Check)
	}
}
