package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers service-type related routes.
// The listing of a professional's active services is public so patients can
// pick a service before booking; every other route requires the owner's token.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/service-types")

	group.GET("", h.ListPublic) // Public listing of a professional's active services

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("/me", h.List)       // List the caller's service types
		authed.GET("/:id", h.Get)       // Get service type details
		authed.POST("", h.Create)       // Create service type
		authed.PATCH("/:id", h.Update)  // Update service type
		authed.DELETE("/:id", h.Delete) // Delete service type
	}
}
