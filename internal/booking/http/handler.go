package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/booking"
	"github.com/agendafacil/agendafacil-backend/internal/notification/whatsapp"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/response"
)

type Handler struct {
	service     booking.Service
	countryCode string
}

func NewHandler(service booking.Service, countryCode string) *Handler {
	return &Handler{service: service, countryCode: countryCode}
}

// Create is the public booking endpoint. Besides the booking it returns the
// WhatsApp confirmation link so the client UI can open the chat directly.
func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Create(c.Request.Context(), booking.CreateRequest{
		ProfessionalID: body.ProfessionalID,
		ServiceTypeID:  body.ServiceTypeID,
		TimeSlotID:     body.TimeSlotID,
		PatientName:    body.PatientName,
		PatientPhone:   body.PatientPhone,
		PatientEmail:   body.PatientEmail,
		Notes:          body.Notes,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	message := whatsapp.ClientConfirmationMessage(whatsapp.ConfirmationData{
		PatientName: b.PatientName,
		ServiceName: b.ServiceTypeName,
		Date:        b.SlotDate.Format("02/01/2006"),
		Time:        clock(b.StartTime),
	})
	link := whatsapp.Link(b.PatientPhone, h.countryCode, message)

	c.JSON(http.StatusCreated, CreateBookingResponse{
		Booking:      NewResponse(b),
		WhatsAppLink: link,
	})
}

func (h *Handler) Get(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

// List returns the authenticated professional's bookings.
func (h *Handler) List(c *gin.Context) {
	var req ListBookingsRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.Filter{
		ProfessionalID: auth.GetProfessionalID(c),
		Status:         req.Status,
		DateFrom:       req.DateFrom,
		DateTo:         req.DateTo,
		Page:           req.Page,
		PageSize:       req.PageSize,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, req.Page, req.PageSize, total))
}

func (h *Handler) Cancel(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	result, err := h.service.Cancel(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, CancelBookingResponse{
		Booking:      NewResponse(result.Booking),
		SlotReleased: result.SlotReleased,
	})
}

func (h *Handler) Reschedule(c *gin.Context) {
	var uri request.ByIDRequest
	if err := c.ShouldBindUri(&uri); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	var body RescheduleRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	b, err := h.service.Reschedule(c.Request.Context(), uri.ID, body.TimeSlotID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

// Complete marks a past booking as done. Only the owning professional may
// call it.
func (h *Handler) Complete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}
	if b.ProfessionalID != auth.GetProfessionalID(c) {
		response.Error(c, booking.ErrNotFound)
		return
	}

	b, err = h.service.MarkCompleted(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(b))
}

func (h *Handler) Stats(c *gin.Context) {
	stats, err := h.service.Stats(c.Request.Context(), auth.GetProfessionalID(c))
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, StatsResponse{
		ActiveServiceTypes: stats.ActiveServiceTypes,
		TodayBookings:      stats.TodayBookings,
		MonthBookings:      stats.MonthBookings,
		UpcomingBookings:   stats.UpcomingBookings,
	})
}

func clock(hhmmss string) string {
	if len(hhmmss) >= 5 {
		return hhmmss[:5]
	}
	return hhmmss
}
