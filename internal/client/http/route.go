package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers client identity routes. Clients have no account
// or password; the record exists so bookings can be tied back to a person.
func RegisterRoutes(g *gin.RouterGroup, h *Handler) {
	group := g.Group("/clients")

	group.POST("", h.Upsert)
	group.GET("/:id/bookings", h.ListBookings)
}
