package timeslot

import (
	"context"
	"net/http"
	"regexp"
	"time"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
)

var clockPattern = regexp.MustCompile(`^([01]\d|2[0-3]):[0-5]\d(:[0-5]\d)?$`)

type CreateRequest struct {
	ProfessionalID string
	Date           time.Time
	StartTime      string
	EndTime        string
	ServiceTypeID  *string
}

type GenerateRequest struct {
	ProfessionalID  string
	Date            time.Time
	StartTime       string
	EndTime         string
	DurationMinutes int
	ServiceTypeID   *string
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*TimeSlot, error)
	GetByID(ctx context.Context, id string) (*TimeSlot, error)
	ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*TimeSlot, error)
	FindAvailable(ctx context.Context, filter AvailabilityFilter) ([]*TimeSlot, error)
	Reserve(ctx context.Context, id string) (*TimeSlot, error)
	Release(ctx context.Context, id string) (*TimeSlot, error)
	Generate(ctx context.Context, req GenerateRequest) (int, error)
	Delete(ctx context.Context, id string) error
	DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error)
}

type service struct {
	repo Repository
}

func NewService(repo Repository) Service {
	return &service{repo: repo}
}

// normalizeClock turns HH:MM into HH:MM:SS and validates the format.
func normalizeClock(clock string) (string, error) {
	if !clockPattern.MatchString(clock) {
		return "", ErrInvalidClockFormat
	}
	if len(clock) == 5 {
		return clock + ":00", nil
	}
	return clock, nil
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*TimeSlot, error) {
	if req.ProfessionalID == "" {
		return nil, ErrProfessionalRequired
	}

	start, err := normalizeClock(req.StartTime)
	if err != nil {
		return nil, err
	}
	end, err := normalizeClock(req.EndTime)
	if err != nil {
		return nil, err
	}
	if start >= end {
		return nil, ErrInvalidTimeRange
	}

	hasOverlap, err := s.repo.HasOverlap(ctx, req.ProfessionalID, req.Date, start, end)
	if err != nil {
		return nil, err
	}
	if hasOverlap {
		return nil, ErrOverlap
	}

	slot := &TimeSlot{
		ProfessionalID: req.ProfessionalID,
		SlotDate:       req.Date,
		StartTime:      start,
		EndTime:        end,
		IsAvailable:    true,
		ServiceTypeID:  req.ServiceTypeID,
	}

	if err := s.repo.Create(ctx, slot); err != nil {
		return nil, err
	}
	return slot, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*TimeSlot, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*TimeSlot, error) {
	return s.repo.ListByDate(ctx, professionalID, date)
}

func (s *service) FindAvailable(ctx context.Context, filter AvailabilityFilter) ([]*TimeSlot, error) {
	if filter.To.Before(filter.From) {
		return nil, ErrInvalidTimeRange
	}
	return s.repo.ListAvailable(ctx, filter)
}

func (s *service) Reserve(ctx context.Context, id string) (*TimeSlot, error) {
	return s.repo.Reserve(ctx, id)
}

func (s *service) Release(ctx context.Context, id string) (*TimeSlot, error) {
	return s.repo.Release(ctx, id)
}

func (s *service) Generate(ctx context.Context, req GenerateRequest) (int, error) {
	if req.ProfessionalID == "" {
		return 0, ErrProfessionalRequired
	}

	start, err := normalizeClock(req.StartTime)
	if err != nil {
		return 0, err
	}
	end, err := normalizeClock(req.EndTime)
	if err != nil {
		return 0, err
	}
	if start >= end {
		return 0, ErrInvalidTimeRange
	}
	if req.DurationMinutes <= 0 {
		return 0, ErrInvalidDuration
	}

	count, err := s.repo.Generate(ctx, req.ProfessionalID, req.Date, start, end, req.DurationMinutes, req.ServiceTypeID)
	if err != nil {
		return 0, apperror.Wrap(err, http.StatusBadGateway, "slot generation is unavailable")
	}
	return count, nil
}

func (s *service) Delete(ctx context.Context, id string) error {
	return s.repo.Delete(ctx, id)
}

func (s *service) DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error) {
	return s.repo.DeleteByDate(ctx, professionalID, date)
}
