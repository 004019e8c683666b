package servicetype

import (
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var (
	ErrNotFound             = apperror.NotFound("service type not found")
	ErrProfessionalRequired = apperror.Validation("professional id is required")
	ErrNameRequired         = apperror.Validation("name is required")
	ErrInvalidDuration      = apperror.Validation("duration must be a positive number of minutes")
	ErrInUse                = apperror.Conflict("service type is referenced by bookings")
)

// ServiceType represents a bookable kind of appointment (e.g. Consulta, 30 min).
type ServiceType struct {
	ID              string
	ProfessionalID  string
	Name            string
	DurationMinutes int
	Description     *string
	IsActive        bool
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// Filter defines parameters for listing service types.
type Filter struct {
	ProfessionalID string
	ActiveOnly     bool
}
