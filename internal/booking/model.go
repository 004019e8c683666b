package booking

import (
	"net/http"
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var (
	ErrNotFound               = apperror.NotFound("booking not found")
	ErrServiceTypeNotFound    = apperror.NotFound("service type not found")
	ErrServiceTypeInactive    = apperror.Validation("service type is not accepting bookings")
	ErrSlotNotFound           = apperror.NotFound("time slot not found")
	ErrSlotTypeMismatch       = apperror.Validation("time slot is reserved for another service type")
	ErrSlotInPast             = apperror.Validation("time slot is in the past")
	ErrPatientNameRequired    = apperror.Validation("patient name is required")
	ErrPatientPhoneRequired   = apperror.Validation("patient phone is required")
	ErrInvalidPatientEmail    = apperror.Validation("patient email is not valid")
	ErrAlreadyFinalized       = apperror.Conflict("booking is already cancelled or completed")
	ErrSameSlot               = apperror.Validation("booking already uses this time slot")
	// ErrReservationOrphaned reports the partial-failure state where the slot
	// was reserved, the booking insert failed, and the compensating release
	// also failed. The slot must be released manually.
	ErrReservationOrphaned = apperror.New(http.StatusInternalServerError, "booking was not created and its reserved slot could not be released")
)

type Status string

const (
	StatusConfirmed Status = "confirmed"
	StatusCancelled Status = "cancelled"
	StatusCompleted Status = "completed"
)

// Booking is an appointment tying a patient to a professional's time slot.
// Slot and service type details are denormalized for list and detail views.
type Booking struct {
	ID             string
	ProfessionalID string

	ServiceTypeID   *string
	ServiceTypeName string
	DurationMinutes int

	TimeSlotID *string
	SlotDate   time.Time
	StartTime  string
	EndTime    string

	ClientID     *string
	PatientName  string
	PatientPhone string
	PatientEmail *string
	Notes        *string

	Status    Status
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Filter defines parameters for listing bookings.
type Filter struct {
	ProfessionalID string
	ClientID       string
	Status         string
	DateFrom       *time.Time // Filter bookings whose slot date is on or after this day
	DateTo         *time.Time // Filter bookings whose slot date is on or before this day
	Page           int
	PageSize       int
}

// Stats summarizes a professional's dashboard counters. Cancelled bookings
// are excluded from every counter.
type Stats struct {
	ActiveServiceTypes int
	TodayBookings      int
	MonthBookings      int
	UpcomingBookings   int
}
