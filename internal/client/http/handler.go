package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agendafacil-backend/internal/booking"
	bookinghttp "github.com/agendafacil/agendafacil-backend/internal/booking/http"
	"github.com/agendafacil/agendafacil-backend/internal/client"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/response"
)

type Handler struct {
	service  client.Service
	bookings booking.Service
}

func NewHandler(service client.Service, bookings booking.Service) *Handler {
	return &Handler{
		service:  service,
		bookings: bookings,
	}
}

// Upsert registers or refreshes a client keyed by email.
func (h *Handler) Upsert(c *gin.Context) {
	var req UpsertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	cl, err := h.service.Upsert(c.Request.Context(), client.UpsertRequest{
		Email: req.Email,
		Name:  req.Name,
		Phone: req.Phone,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(cl))
}

// ListBookings returns a client's booking history, newest first.
func (h *Handler) ListBookings(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var params request.ListParams
	if err := c.ShouldBindQuery(&params); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	if _, err := h.service.GetByID(c.Request.Context(), uri.ID); err != nil {
		response.Error(c, err)
		return
	}

	bookings, total, err := h.bookings.List(c.Request.Context(), booking.Filter{
		ClientID: uri.ID,
		Page:     params.Page,
		PageSize: params.PageSize,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]bookinghttp.BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = bookinghttp.NewResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, params.Page, params.PageSize, total))
}
