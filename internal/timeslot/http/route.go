package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers time-slot related routes.
// Availability is public; every mutation requires the professional's token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/time-slots")

	group.GET("", h.FindAvailable) // Public availability query

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("/day", h.ListByDate)         // All slots for one day
		authed.POST("", h.Create)                // Create a single slot
		authed.POST("/generate", h.Generate)     // Bulk-generate slots for a day
		authed.POST("/:id/release", h.Release)   // Manually reopen a slot
		authed.DELETE("/:id", h.Delete)          // Delete an unreferenced slot
		authed.DELETE("/day", h.DeleteByDate)    // Delete a day's unreferenced slots
	}
}
