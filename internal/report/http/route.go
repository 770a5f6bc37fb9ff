package http

import (
	"github.com/gin-gonic/gin"
)

func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	g.GET("/host/dashboard", authMiddleware, h.Dashboard)
	g.GET("/properties/:id/report", authMiddleware, h.PropertyReport)
}
