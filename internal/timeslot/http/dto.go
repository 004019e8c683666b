package http

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

// AvailabilityRequest defines query parameters for the public availability
// endpoint.
type AvailabilityRequest struct {
	ProfessionalID string     `form:"professional_id" binding:"required,uuid"`
	From           *time.Time `form:"from" time_format:"2006-01-02"`
	To             *time.Time `form:"to" time_format:"2006-01-02"`
	ServiceTypeID  string     `form:"service_type_id" binding:"omitempty,uuid"`
}

// ByDateRequest selects the caller's slots for a single day.
type ByDateRequest struct {
	Date time.Time `form:"date" time_format:"2006-01-02" binding:"required"`
}

type TimeSlotResponse struct {
	ID             string    `json:"id"`
	ProfessionalID string    `json:"professional_id"`
	SlotDate       string    `json:"slot_date"` // yyyy-MM-dd
	StartTime      string    `json:"start_time"`
	EndTime        string    `json:"end_time"`
	IsAvailable    bool      `json:"is_available"`
	ServiceTypeID  *string   `json:"service_type_id"`
	CreatedAt      time.Time `json:"created_at"`
}

func NewResponse(s *timeslot.TimeSlot) TimeSlotResponse {
	return TimeSlotResponse{
		ID:             s.ID,
		ProfessionalID: s.ProfessionalID,
		SlotDate:       s.SlotDate.Format("2006-01-02"),
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		IsAvailable:    s.IsAvailable,
		ServiceTypeID:  s.ServiceTypeID,
		CreatedAt:      s.CreatedAt,
	}
}

type CreateRequest struct {
	Date          string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime     string  `json:"start_time" binding:"required"`
	EndTime       string  `json:"end_time" binding:"required"`
	ServiceTypeID *string `json:"service_type_id" binding:"omitempty,uuid"`
}

type GenerateRequest struct {
	Date            string  `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime       string  `json:"start_time" binding:"required"`
	EndTime         string  `json:"end_time" binding:"required"`
	DurationMinutes int     `json:"duration_minutes" binding:"required,min=1,max=1440"`
	ServiceTypeID   *string `json:"service_type_id" binding:"omitempty,uuid"`
}

type GenerateResponse struct {
	Created int `json:"created"`
}
