package booking

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/client"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

type CreateRequest struct {
	ProfessionalID string
	ServiceTypeID  string
	TimeSlotID     string
	PatientName    string
	PatientPhone   string
	PatientEmail   *string
	Notes          *string
}

// CancelResult reports a cancellation outcome. SlotReleased is false when
// the booking was cancelled but its slot could not be freed; the slot
// release endpoint resolves that state manually.
type CancelResult struct {
	Booking      *Booking
	SlotReleased bool
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Booking, error)
	GetByID(ctx context.Context, id string) (*Booking, error)
	List(ctx context.Context, filter Filter) ([]*Booking, int, error)
	Cancel(ctx context.Context, id string) (*CancelResult, error)
	Reschedule(ctx context.Context, id string, newSlotID string) (*Booking, error)
	Stats(ctx context.Context, professionalID string) (*Stats, error)
	MarkCompleted(ctx context.Context, id string) (*Booking, error)
}

type service struct {
	repo          Repository
	slots         timeslot.Service
	serviceTypes  servicetype.Service
	professionals professional.Service
	clients       client.Service
	notifier      Notifier
	log           *zap.Logger
}

func NewService(
	repo Repository,
	slots timeslot.Service,
	serviceTypes servicetype.Service,
	professionals professional.Service,
	clients client.Service,
	notifier Notifier,
	log *zap.Logger,
) Service {
	if notifier == nil {
		notifier = NopNotifier{}
	}
	return &service{
		repo:          repo,
		slots:         slots,
		serviceTypes:  serviceTypes,
		professionals: professionals,
		clients:       clients,
		notifier:      notifier,
		log:           log,
	}
}

// Create reserves the slot, then inserts the booking. A failed insert
// compensates by releasing the slot again; if that release also fails the
// caller gets ErrReservationOrphaned and the slot stays blocked until it is
// released manually.
func (s *service) Create(ctx context.Context, req CreateRequest) (*Booking, error) {
	req.PatientName = strings.TrimSpace(req.PatientName)
	req.PatientPhone = strings.TrimSpace(req.PatientPhone)
	if req.PatientName == "" {
		return nil, ErrPatientNameRequired
	}
	if req.PatientPhone == "" {
		return nil, ErrPatientPhoneRequired
	}
	if req.PatientEmail != nil && !client.IsValidEmail(client.NormalizeEmail(*req.PatientEmail)) {
		return nil, ErrInvalidPatientEmail
	}

	prof, err := s.professionals.GetByID(ctx, req.ProfessionalID)
	if err != nil {
		return nil, err
	}

	st, err := s.serviceTypes.GetByID(ctx, req.ServiceTypeID)
	if err != nil {
		if errors.Is(err, servicetype.ErrNotFound) {
			return nil, ErrServiceTypeNotFound
		}
		return nil, err
	}
	if st.ProfessionalID != prof.ID {
		return nil, ErrServiceTypeNotFound
	}
	if !st.IsActive {
		return nil, ErrServiceTypeInactive
	}

	slot, err := s.slots.GetByID(ctx, req.TimeSlotID)
	if err != nil {
		if errors.Is(err, timeslot.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if slot.ProfessionalID != prof.ID {
		return nil, ErrSlotNotFound
	}
	if slot.ServiceTypeID != nil && *slot.ServiceTypeID != st.ID {
		return nil, ErrSlotTypeMismatch
	}
	if slotStart(slot).Before(time.Now().UTC()) {
		return nil, ErrSlotInPast
	}

	var clientID *string
	if req.PatientEmail != nil {
		c, err := s.clients.Upsert(ctx, client.UpsertRequest{
			Email: *req.PatientEmail,
			Name:  req.PatientName,
			Phone: &req.PatientPhone,
		})
		if err != nil {
			return nil, fmt.Errorf("upsert client failed: %w", err)
		}
		clientID = &c.ID
	}

	slot, err = s.slots.Reserve(ctx, slot.ID)
	if err != nil {
		if errors.Is(err, timeslot.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	b := &Booking{
		ProfessionalID: prof.ID,
		ServiceTypeID:  &st.ID,
		TimeSlotID:     &slot.ID,
		ClientID:       clientID,
		PatientName:    req.PatientName,
		PatientPhone:   req.PatientPhone,
		PatientEmail:   req.PatientEmail,
		Notes:          req.Notes,
		Status:         StatusConfirmed,
	}
	if err := s.repo.Create(ctx, b); err != nil {
		if _, relErr := s.slots.Release(ctx, slot.ID); relErr != nil {
			s.log.Error("reserved slot could not be released after failed booking insert",
				zap.String("slot_id", slot.ID),
				zap.NamedError("insert_error", err),
				zap.NamedError("release_error", relErr),
			)
			return nil, ErrReservationOrphaned
		}
		return nil, fmt.Errorf("create booking failed: %w", err)
	}

	b.ServiceTypeName = st.Name
	b.DurationMinutes = st.DurationMinutes
	b.SlotDate = slot.SlotDate
	b.StartTime = slot.StartTime
	b.EndTime = slot.EndTime

	s.notifier.BookingConfirmed(context.WithoutCancel(ctx), s.buildEvent(b, prof))
	return b, nil
}

func (s *service) GetByID(ctx context.Context, id string) (*Booking, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *service) List(ctx context.Context, filter Filter) ([]*Booking, int, error) {
	return s.repo.List(ctx, filter)
}

// Cancel marks the booking cancelled before releasing its slot, so the slot
// never reopens while the booking still reads as confirmed.
func (s *service) Cancel(ctx context.Context, id string) (*CancelResult, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, ErrAlreadyFinalized
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCancelled); err != nil {
		return nil, err
	}
	b.Status = StatusCancelled

	released := true
	if b.TimeSlotID != nil {
		if _, err := s.slots.Release(ctx, *b.TimeSlotID); err != nil {
			s.log.Warn("slot release failed after cancellation",
				zap.String("booking_id", b.ID),
				zap.String("slot_id", *b.TimeSlotID),
				zap.Error(err),
			)
			released = false
		}
	}

	s.notifier.BookingCancelled(context.WithoutCancel(ctx), s.buildEvent(b, s.lookupProfessional(ctx, b.ProfessionalID)))
	return &CancelResult{Booking: b, SlotReleased: released}, nil
}

// Reschedule reserves the new slot before touching anything else, so a
// conflict on the new slot leaves the booking fully intact.
func (s *service) Reschedule(ctx context.Context, id string, newSlotID string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, ErrAlreadyFinalized
	}
	if b.TimeSlotID != nil && *b.TimeSlotID == newSlotID {
		return nil, ErrSameSlot
	}

	newSlot, err := s.slots.GetByID(ctx, newSlotID)
	if err != nil {
		if errors.Is(err, timeslot.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}
	if newSlot.ProfessionalID != b.ProfessionalID {
		return nil, ErrSlotNotFound
	}
	if newSlot.ServiceTypeID != nil && (b.ServiceTypeID == nil || *newSlot.ServiceTypeID != *b.ServiceTypeID) {
		return nil, ErrSlotTypeMismatch
	}
	if slotStart(newSlot).Before(time.Now().UTC()) {
		return nil, ErrSlotInPast
	}

	newSlot, err = s.slots.Reserve(ctx, newSlotID)
	if err != nil {
		if errors.Is(err, timeslot.ErrNotFound) {
			return nil, ErrSlotNotFound
		}
		return nil, err
	}

	if err := s.repo.ReassignSlot(ctx, id, newSlotID); err != nil {
		if _, relErr := s.slots.Release(ctx, newSlotID); relErr != nil {
			s.log.Error("new slot could not be released after failed reassign",
				zap.String("booking_id", id),
				zap.String("slot_id", newSlotID),
				zap.NamedError("reassign_error", err),
				zap.NamedError("release_error", relErr),
			)
		}
		return nil, err
	}

	if b.TimeSlotID != nil {
		if _, err := s.slots.Release(ctx, *b.TimeSlotID); err != nil {
			s.log.Warn("old slot release failed after reschedule",
				zap.String("booking_id", b.ID),
				zap.String("slot_id", *b.TimeSlotID),
				zap.Error(err),
			)
		}
	}

	b.TimeSlotID = &newSlot.ID
	b.SlotDate = newSlot.SlotDate
	b.StartTime = newSlot.StartTime
	b.EndTime = newSlot.EndTime
	return b, nil
}

// MarkCompleted finalizes a confirmed booking and frees its slot.
func (s *service) MarkCompleted(ctx context.Context, id string) (*Booking, error) {
	b, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if b.Status != StatusConfirmed {
		return nil, ErrAlreadyFinalized
	}

	if err := s.repo.UpdateStatus(ctx, id, StatusCompleted); err != nil {
		return nil, err
	}
	b.Status = StatusCompleted

	if b.TimeSlotID != nil {
		if _, err := s.slots.Release(ctx, *b.TimeSlotID); err != nil {
			s.log.Warn("slot release failed after completion",
				zap.String("booking_id", b.ID),
				zap.String("slot_id", *b.TimeSlotID),
				zap.Error(err),
			)
		}
	}
	return b, nil
}

func (s *service) Stats(ctx context.Context, professionalID string) (*Stats, error) {
	stats, err := s.repo.Stats(ctx, professionalID, time.Now().UTC())
	if err != nil {
		return nil, err
	}

	types, err := s.serviceTypes.List(ctx, servicetype.Filter{
		ProfessionalID: professionalID,
		ActiveOnly:     true,
	})
	if err != nil {
		return nil, err
	}
	stats.ActiveServiceTypes = len(types)

	return stats, nil
}

// slotStart combines the slot date with its wall-clock start time.
func slotStart(slot *timeslot.TimeSlot) time.Time {
	clock, err := time.Parse("15:04:05", slot.StartTime)
	if err != nil {
		return slot.SlotDate
	}
	return time.Date(slot.SlotDate.Year(), slot.SlotDate.Month(), slot.SlotDate.Day(),
		clock.Hour(), clock.Minute(), clock.Second(), 0, time.UTC)
}

func (s *service) lookupProfessional(ctx context.Context, id string) *professional.Professional {
	prof, err := s.professionals.GetByID(ctx, id)
	if err != nil {
		s.log.Warn("professional lookup for notification failed",
			zap.String("professional_id", id),
			zap.Error(err),
		)
		return nil
	}
	return prof
}

func (s *service) buildEvent(b *Booking, prof *professional.Professional) Event {
	evt := Event{
		BookingID:    b.ID,
		PatientName:  b.PatientName,
		PatientPhone: b.PatientPhone,
		ServiceName:  b.ServiceTypeName,
		Date:         b.SlotDate.Format("02/01/2006"),
	}
	if len(b.StartTime) >= 5 {
		evt.Time = b.StartTime[:5]
	}
	if prof != nil {
		if prof.DisplayName != nil {
			evt.ProfessionalName = *prof.DisplayName
		} else {
			evt.ProfessionalName = prof.Email
		}
		if prof.Phone != nil {
			evt.ProfessionalPhone = *prof.Phone
		}
	}
	return evt
}
