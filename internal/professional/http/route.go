package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers professional account routes (including auth).
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/professionals")

	// Public routes
	group.POST("/register", h.Register)
	group.POST("/login", h.Login)
	group.GET("/:id/avatar", h.DownloadAvatar)

	// Authenticated routes
	group.GET("/me", authMiddleware, h.Me)
	group.PATCH("/me", authMiddleware, h.UpdateMe)
	group.PUT("/me/avatar", authMiddleware, h.UploadAvatar)
}
