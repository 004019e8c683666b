package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers booking related routes.
// Booking, lookup, cancel and reschedule are public: the client UI has no
// account, the booking UUID works as the capability. Listing and completing
// belong to the professional.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/bookings")

	group.POST("", h.Create)                     // Public booking flow
	group.GET("/:id", h.Get)                     // Booking details
	group.POST("/:id/cancel", h.Cancel)          // Cancel a confirmed booking
	group.POST("/:id/reschedule", h.Reschedule)  // Move a booking to another slot

	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.GET("", h.List)                   // Professional's booking list
		authed.GET("/stats", h.Stats)            // Dashboard counters
		authed.POST("/:id/complete", h.Complete) // Mark booking as done
	}
}
