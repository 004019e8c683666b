package http

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/booking"
	"github.com/agendafacil/agendafacil-backend/internal/pkg/request"
)

// CreateBookingRequest is the public booking payload. The patient email is
// optional; when present it registers the patient as a known client.
type CreateBookingRequest struct {
	ProfessionalID string  `json:"professional_id" binding:"required,uuid"`
	ServiceTypeID  string  `json:"service_type_id" binding:"required,uuid"`
	TimeSlotID     string  `json:"time_slot_id" binding:"required,uuid"`
	PatientName    string  `json:"patient_name" binding:"required,min=1,max=200"`
	PatientPhone   string  `json:"patient_phone" binding:"required,min=1,max=30"`
	PatientEmail   *string `json:"patient_email" binding:"omitempty,max=254"`
	Notes          *string `json:"notes" binding:"omitempty,max=2000"`
}

// ListBookingsRequest defines query parameters for the professional's
// booking list.
type ListBookingsRequest struct {
	request.ListParams
	Status   string     `form:"status" binding:"omitempty,oneof=confirmed cancelled completed"`
	DateFrom *time.Time `form:"date_from" time_format:"2006-01-02"`
	DateTo   *time.Time `form:"date_to" time_format:"2006-01-02"`
}

type RescheduleRequest struct {
	TimeSlotID string `json:"time_slot_id" binding:"required,uuid"`
}

type BookingResponse struct {
	ID              string    `json:"id"`
	ProfessionalID  string    `json:"professional_id"`
	ServiceTypeID   *string   `json:"service_type_id"`
	ServiceTypeName string    `json:"service_type_name"`
	DurationMinutes int       `json:"duration_minutes"`
	TimeSlotID      *string   `json:"time_slot_id"`
	SlotDate        string    `json:"slot_date"` // yyyy-MM-dd
	StartTime       string    `json:"start_time"`
	EndTime         string    `json:"end_time"`
	ClientID        *string   `json:"client_id"`
	PatientName     string    `json:"patient_name"`
	PatientPhone    string    `json:"patient_phone"`
	PatientEmail    *string   `json:"patient_email"`
	Notes           *string   `json:"notes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

func NewResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:              b.ID,
		ProfessionalID:  b.ProfessionalID,
		ServiceTypeID:   b.ServiceTypeID,
		ServiceTypeName: b.ServiceTypeName,
		DurationMinutes: b.DurationMinutes,
		TimeSlotID:      b.TimeSlotID,
		SlotDate:        b.SlotDate.Format("2006-01-02"),
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		ClientID:        b.ClientID,
		PatientName:     b.PatientName,
		PatientPhone:    b.PatientPhone,
		PatientEmail:    b.PatientEmail,
		Notes:           b.Notes,
		Status:          string(b.Status),
		CreatedAt:       b.CreatedAt,
		UpdatedAt:       b.UpdatedAt,
	}
}

// CreateBookingResponse wraps the booking with the WhatsApp link the client
// UI opens right after booking.
type CreateBookingResponse struct {
	Booking      BookingResponse `json:"booking"`
	WhatsAppLink string          `json:"whatsapp_link"`
}

// CancelBookingResponse reports whether the slot was freed along with the
// cancellation.
type CancelBookingResponse struct {
	Booking      BookingResponse `json:"booking"`
	SlotReleased bool            `json:"slot_released"`
}

// StatsResponse carries the professional dashboard counters.
type StatsResponse struct {
	ActiveServiceTypes int `json:"active_service_types"`
	TodayBookings      int `json:"today_bookings"`
	MonthBookings      int `json:"month_bookings"`
	UpcomingBookings   int `json:"upcoming_bookings"`
}
