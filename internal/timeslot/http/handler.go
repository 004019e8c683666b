package http

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/agendafacil/agendafacil-backend/internal/auth"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/response"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

type Handler struct {
	service    timeslot.Service
	windowDays int
}

// NewHandler creates the time-slot handler. windowDays caps how far ahead
// the public availability query looks when no end date is given.
func NewHandler(service timeslot.Service, windowDays int) *Handler {
	if windowDays <= 0 {
		windowDays = 30
	}
	return &Handler{service: service, windowDays: windowDays}
}

// getOwned fetches the slot and checks it belongs to the caller.
func (h *Handler) getOwned(c *gin.Context, id string) (*timeslot.TimeSlot, bool) {
	slot, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return nil, false
	}
	if slot.ProfessionalID != auth.GetProfessionalID(c) {
		response.Error(c, timeslot.ErrNotFound)
		return nil, false
	}
	return slot, true
}

// FindAvailable is the public availability query clients book from.
func (h *Handler) FindAvailable(c *gin.Context) {
	var req AvailabilityRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := timeslot.AvailabilityFilter{
		ProfessionalID: req.ProfessionalID,
		ServiceTypeID:  req.ServiceTypeID,
	}
	if req.From != nil {
		filter.From = *req.From
	} else {
		filter.From = time.Now().UTC().Truncate(24 * time.Hour)
	}
	if req.To != nil {
		filter.To = *req.To
	} else {
		filter.To = filter.From.AddDate(0, 0, h.windowDays)
	}

	slots, err := h.service.FindAvailable(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

// ListByDate returns all of the caller's slots for one day, booked or not.
func (h *Handler) ListByDate(c *gin.Context) {
	var req ByDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	slots, err := h.service.ListByDate(c.Request.Context(), auth.GetProfessionalID(c), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	items := make([]TimeSlotResponse, len(slots))
	for i, s := range slots {
		items[i] = NewResponse(s)
	}

	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	slot, err := h.service.Create(c.Request.Context(), timeslot.CreateRequest{
		ProfessionalID: auth.GetProfessionalID(c),
		Date:           date,
		StartTime:      body.StartTime,
		EndTime:        body.EndTime,
		ServiceTypeID:  body.ServiceTypeID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, NewResponse(slot))
}

func (h *Handler) Generate(c *gin.Context) {
	var body GenerateRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	date, err := time.Parse("2006-01-02", body.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid date"})
		return
	}

	created, err := h.service.Generate(c.Request.Context(), timeslot.GenerateRequest{
		ProfessionalID:  auth.GetProfessionalID(c),
		Date:            date,
		StartTime:       body.StartTime,
		EndTime:         body.EndTime,
		DurationMinutes: body.DurationMinutes,
		ServiceTypeID:   body.ServiceTypeID,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusCreated, GenerateResponse{Created: created})
}

// Release reopens a slot that stayed blocked after a failed booking flow.
func (h *Handler) Release(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if _, ok := h.getOwned(c, req.ID); !ok {
		return
	}

	slot, err := h.service.Release(c.Request.Context(), req.ID)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, NewResponse(slot))
}

func (h *Handler) Delete(c *gin.Context) {
	var req request.ByIDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request", "details": err.Error()})
		return
	}

	if _, ok := h.getOwned(c, req.ID); !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), req.ID); err != nil {
		response.Error(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) DeleteByDate(c *gin.Context) {
	var req ByDateRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	deleted, err := h.service.DeleteByDate(c.Request.Context(), auth.GetProfessionalID(c), req.Date)
	if err != nil {
		response.Error(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"deleted": deleted})
}
