package timeslot

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.NotFound("time slot not found")
	ErrAlreadyReserved      = apperror.Conflict("time slot is no longer available")
	ErrOverlap              = apperror.Conflict("time slot overlaps an existing slot")
	ErrInUse                = apperror.Conflict("time slot is referenced by a booking")
	ErrInvalidTimeRange     = apperror.Validation("start time must be before end time")
	ErrInvalidDuration      = apperror.Validation("slot duration must be a positive number of minutes")
	ErrInvalidClockFormat   = apperror.Validation("times must be in HH:MM or HH:MM:SS format")
	ErrProfessionalRequired = apperror.Validation("professional id is required")
)

// TimeSlot is a bookable window in a professional's agenda.
// Only the availability flag is ever mutated after creation.
type TimeSlot struct {
	ID             string
	ProfessionalID string
	SlotDate       time.Time // date only, midnight UTC
	StartTime      string    // HH:MM:SS
	EndTime        string    // HH:MM:SS
	IsAvailable    bool
	ServiceTypeID  *string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// AvailabilityFilter defines parameters for querying open slots.
type AvailabilityFilter struct {
	ProfessionalID string
	From           time.Time
	To             time.Time
	// When set, matches slots bound to this service type or to none.
	ServiceTypeID string
}
