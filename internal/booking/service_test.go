package booking_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/booking"
	"github.com/agendafacil/agendafacil-backend/internal/client"
	"github.com/agendafacil/agendafacil-backend/internal/professional"
	"github.com/agendafacil/agendafacil-backend/internal/servicetype"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

//
// Fakes
//

type fakeRepo struct {
	mu         sync.Mutex
	seq        int
	items      map[string]*booking.Booking
	failCreate bool
	stats      booking.Stats
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{items: map[string]*booking.Booking{}}
}

func (r *fakeRepo) Create(ctx context.Context, b *booking.Booking) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.failCreate {
		return errors.New("insert failed")
	}
	r.seq++
	b.ID = fmt.Sprintf("booking-%d", r.seq)
	b.CreatedAt = time.Now()
	b.UpdatedAt = b.CreatedAt
	clone := *b
	r.items[b.ID] = &clone
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*booking.Booking, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return nil, booking.ErrNotFound
	}
	clone := *b
	return &clone, nil
}

func (r *fakeRepo) List(ctx context.Context, filter booking.Filter) ([]*booking.Booking, int, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []*booking.Booking
	for _, b := range r.items {
		if filter.ProfessionalID != "" && b.ProfessionalID != filter.ProfessionalID {
			continue
		}
		if filter.ClientID != "" && (b.ClientID == nil || *b.ClientID != filter.ClientID) {
			continue
		}
		if filter.Status != "" && string(b.Status) != filter.Status {
			continue
		}
		clone := *b
		out = append(out, &clone)
	}
	return out, len(out), nil
}

func (r *fakeRepo) UpdateStatus(ctx context.Context, id string, status booking.Status) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.Status = status
	return nil
}

func (r *fakeRepo) Stats(ctx context.Context, professionalID string, now time.Time) (*booking.Stats, error) {
	s := r.stats
	return &s, nil
}

func (r *fakeRepo) ReassignSlot(ctx context.Context, id string, newSlotID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	b, ok := r.items[id]
	if !ok {
		return booking.ErrNotFound
	}
	b.TimeSlotID = &newSlotID
	return nil
}

type fakeSlots struct {
	mu          sync.Mutex
	items       map[string]*timeslot.TimeSlot
	failRelease bool
}

func newFakeSlots() *fakeSlots {
	return &fakeSlots{items: map[string]*timeslot.TimeSlot{}}
}

func (s *fakeSlots) add(slot *timeslot.TimeSlot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[slot.ID] = slot
}

func (s *fakeSlots) GetByID(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.items[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	clone := *slot
	return &clone, nil
}

func (s *fakeSlots) Reserve(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	slot, ok := s.items[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	if !slot.IsAvailable {
		return nil, timeslot.ErrAlreadyReserved
	}
	slot.IsAvailable = false
	clone := *slot
	return &clone, nil
}

func (s *fakeSlots) Release(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failRelease {
		return nil, errors.New("release failed")
	}
	slot, ok := s.items[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	slot.IsAvailable = true
	clone := *slot
	return &clone, nil
}

func (s *fakeSlots) available(id string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.items[id].IsAvailable
}

func (s *fakeSlots) Create(ctx context.Context, req timeslot.CreateRequest) (*timeslot.TimeSlot, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeSlots) ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*timeslot.TimeSlot, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeSlots) FindAvailable(ctx context.Context, filter timeslot.AvailabilityFilter) ([]*timeslot.TimeSlot, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeSlots) Generate(ctx context.Context, req timeslot.GenerateRequest) (int, error) {
	return 0, errors.New("not implemented")
}

func (s *fakeSlots) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

func (s *fakeSlots) DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error) {
	return 0, errors.New("not implemented")
}

type fakeServiceTypes struct {
	items map[string]*servicetype.ServiceType
}

func (s *fakeServiceTypes) GetByID(ctx context.Context, id string) (*servicetype.ServiceType, error) {
	st, ok := s.items[id]
	if !ok {
		return nil, servicetype.ErrNotFound
	}
	clone := *st
	return &clone, nil
}

func (s *fakeServiceTypes) Create(ctx context.Context, req servicetype.CreateRequest) (*servicetype.ServiceType, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeServiceTypes) List(ctx context.Context, filter servicetype.Filter) ([]*servicetype.ServiceType, error) {
	var out []*servicetype.ServiceType
	for _, st := range s.items {
		if filter.ProfessionalID != "" && st.ProfessionalID != filter.ProfessionalID {
			continue
		}
		if filter.ActiveOnly && !st.IsActive {
			continue
		}
		out = append(out, st)
	}
	return out, nil
}

func (s *fakeServiceTypes) Update(ctx context.Context, id string, req servicetype.UpdateRequest) (*servicetype.ServiceType, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeServiceTypes) Delete(ctx context.Context, id string) error {
	return errors.New("not implemented")
}

type fakeProfessionals struct {
	items map[string]*professional.Professional
}

func (s *fakeProfessionals) GetByID(ctx context.Context, id string) (*professional.Professional, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, professional.ErrNotFound
	}
	clone := *p
	return &clone, nil
}

func (s *fakeProfessionals) Register(ctx context.Context, email, password, displayName string) (*professional.Professional, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeProfessionals) Login(ctx context.Context, email, password string) (*professional.Professional, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeProfessionals) UpdateProfile(ctx context.Context, id string, req professional.UpdateProfileRequest) (*professional.Professional, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeProfessionals) UploadAvatar(ctx context.Context, id string, header *multipart.FileHeader) (*professional.Professional, error) {
	return nil, errors.New("not implemented")
}

func (s *fakeProfessionals) DownloadAvatar(ctx context.Context, id string) (io.ReadCloser, error) {
	return nil, errors.New("not implemented")
}

type fakeClients struct {
	mu  sync.Mutex
	seq int
}

func (s *fakeClients) Upsert(ctx context.Context, req client.UpsertRequest) (*client.Client, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	return &client.Client{
		ID:    fmt.Sprintf("client-%d", s.seq),
		Email: client.NormalizeEmail(req.Email),
		Name:  req.Name,
		Phone: req.Phone,
	}, nil
}

func (s *fakeClients) GetByID(ctx context.Context, id string) (*client.Client, error) {
	return nil, client.ErrNotFound
}

func (s *fakeClients) GetByEmail(ctx context.Context, email string) (*client.Client, error) {
	return nil, client.ErrNotFound
}

type recordingNotifier struct {
	mu        sync.Mutex
	confirmed []booking.Event
	cancelled []booking.Event
}

func (n *recordingNotifier) BookingConfirmed(ctx context.Context, evt booking.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.confirmed = append(n.confirmed, evt)
}

func (n *recordingNotifier) BookingCancelled(ctx context.Context, evt booking.Event) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.cancelled = append(n.cancelled, evt)
}

//
// Fixture
//

type fixture struct {
	repo     *fakeRepo
	slots    *fakeSlots
	notifier *recordingNotifier
	service  booking.Service
}

const (
	proID  = "11111111-1111-1111-1111-111111111111"
	typeID = "22222222-2222-2222-2222-222222222222"
	slotID = "33333333-3333-3333-3333-333333333333"
)

// futureDate returns a date n days from now, at UTC midnight, so fixtures
// never fall behind the past-slot check.
func futureDate(days int) time.Time {
	now := time.Now().UTC()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC).AddDate(0, 0, days)
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	repo := newFakeRepo()
	slots := newFakeSlots()
	notifier := &recordingNotifier{}

	phone := "11988887777"
	name := "Dra. Ana"
	professionals := &fakeProfessionals{items: map[string]*professional.Professional{
		proID: {ID: proID, Email: "ana@example.com", DisplayName: &name, Phone: &phone, IsActive: true},
	}}

	serviceTypes := &fakeServiceTypes{items: map[string]*servicetype.ServiceType{
		typeID: {ID: typeID, ProfessionalID: proID, Name: "Consulta", DurationMinutes: 30, IsActive: true},
	}}

	slots.add(&timeslot.TimeSlot{
		ID:             slotID,
		ProfessionalID: proID,
		SlotDate:       futureDate(14),
		StartTime:      "09:00:00",
		EndTime:        "09:30:00",
		IsAvailable:    true,
	})

	svc := booking.NewService(repo, slots, serviceTypes, professionals, &fakeClients{}, notifier, zap.NewNop())

	return &fixture{
		repo:     repo,
		slots:    slots,
		notifier: notifier,
		service:  svc,
	}
}

func validCreateRequest() booking.CreateRequest {
	return booking.CreateRequest{
		ProfessionalID: proID,
		ServiceTypeID:  typeID,
		TimeSlotID:     slotID,
		PatientName:    "João Silva",
		PatientPhone:   "(11) 91234-5678",
	}
}

//
// Create
//

func TestCreateBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	assert.Equal(t, booking.StatusConfirmed, b.Status)
	assert.Equal(t, "Consulta", b.ServiceTypeName)
	assert.Equal(t, 30, b.DurationMinutes)
	assert.False(t, f.slots.available(slotID), "slot must be reserved after booking")

	require.Len(t, f.notifier.confirmed, 1)
	evt := f.notifier.confirmed[0]
	assert.Equal(t, b.ID, evt.BookingID)
	assert.Equal(t, futureDate(14).Format("02/01/2006"), evt.Date)
	assert.Equal(t, "09:00", evt.Time)
	assert.Equal(t, "Dra. Ana", evt.ProfessionalName)
	assert.Equal(t, "11988887777", evt.ProfessionalPhone)
}

func TestCreateBookingWithEmailRegistersClient(t *testing.T) {
	f := newFixture(t)

	email := "joao@example.com"
	req := validCreateRequest()
	req.PatientEmail = &email

	b, err := f.service.Create(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, b.ClientID)
	assert.Equal(t, "client-1", *b.ClientID)
}

func TestCreateBookingValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*booking.CreateRequest)
		wantErr error
	}{
		{
			name:    "missing patient name",
			mutate:  func(r *booking.CreateRequest) { r.PatientName = "   " },
			wantErr: booking.ErrPatientNameRequired,
		},
		{
			name:    "missing patient phone",
			mutate:  func(r *booking.CreateRequest) { r.PatientPhone = "" },
			wantErr: booking.ErrPatientPhoneRequired,
		},
		{
			name: "invalid patient email",
			mutate: func(r *booking.CreateRequest) {
				bad := "not-an-email"
				r.PatientEmail = &bad
			},
			wantErr: booking.ErrInvalidPatientEmail,
		},
		{
			name:    "unknown service type",
			mutate:  func(r *booking.CreateRequest) { r.ServiceTypeID = "99999999-9999-9999-9999-999999999999" },
			wantErr: booking.ErrServiceTypeNotFound,
		},
		{
			name:    "unknown slot",
			mutate:  func(r *booking.CreateRequest) { r.TimeSlotID = "99999999-9999-9999-9999-999999999999" },
			wantErr: booking.ErrSlotNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture(t)
			req := validCreateRequest()
			tt.mutate(&req)

			_, err := f.service.Create(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, f.slots.available(slotID), "failed validation must not reserve the slot")
			assert.Empty(t, f.notifier.confirmed)
		})
	}
}

func TestCreateBookingInactiveServiceType(t *testing.T) {
	f := newFixture(t)

	inactiveID := "44444444-4444-4444-4444-444444444444"
	fst := &fakeServiceTypes{items: map[string]*servicetype.ServiceType{
		inactiveID: {ID: inactiveID, ProfessionalID: proID, Name: "Retorno", DurationMinutes: 15, IsActive: false},
	}}
	name := "Dra. Ana"
	svc := booking.NewService(f.repo, f.slots, fst, &fakeProfessionals{items: map[string]*professional.Professional{
		proID: {ID: proID, Email: "ana@example.com", DisplayName: &name, IsActive: true},
	}}, &fakeClients{}, f.notifier, zap.NewNop())

	req := validCreateRequest()
	req.ServiceTypeID = inactiveID

	_, err := svc.Create(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrServiceTypeInactive)
}

func TestCreateBookingSlotTypeMismatch(t *testing.T) {
	f := newFixture(t)

	otherType := "55555555-5555-5555-5555-555555555555"
	typedSlotID := "66666666-6666-6666-6666-666666666666"
	f.slots.add(&timeslot.TimeSlot{
		ID:             typedSlotID,
		ProfessionalID: proID,
		SlotDate:       futureDate(15),
		StartTime:      "10:00:00",
		EndTime:        "10:30:00",
		IsAvailable:    true,
		ServiceTypeID:  &otherType,
	})

	req := validCreateRequest()
	req.TimeSlotID = typedSlotID

	_, err := f.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrSlotTypeMismatch)
	assert.True(t, f.slots.available(typedSlotID))
}

func TestCreateBookingPastSlot(t *testing.T) {
	f := newFixture(t)

	pastSlotID := "88888888-8888-8888-8888-888888888888"
	f.slots.add(&timeslot.TimeSlot{
		ID:             pastSlotID,
		ProfessionalID: proID,
		SlotDate:       futureDate(-1),
		StartTime:      "09:00:00",
		EndTime:        "09:30:00",
		IsAvailable:    true,
	})

	req := validCreateRequest()
	req.TimeSlotID = pastSlotID

	_, err := f.service.Create(context.Background(), req)
	assert.ErrorIs(t, err, booking.ErrSlotInPast)
	assert.True(t, f.slots.available(pastSlotID))
}

func TestCreateBookingReservedSlot(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = f.service.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, timeslot.ErrAlreadyReserved)
	require.Len(t, f.notifier.confirmed, 1, "losing attempt must not notify")
}

func TestCreateBookingInsertFailureReleasesSlot(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreate = true

	_, err := f.service.Create(context.Background(), validCreateRequest())
	require.Error(t, err)
	assert.NotErrorIs(t, err, booking.ErrReservationOrphaned)
	assert.True(t, f.slots.available(slotID), "compensation must release the reserved slot")
	assert.Empty(t, f.notifier.confirmed)
}

func TestCreateBookingOrphanedReservation(t *testing.T) {
	f := newFixture(t)
	f.repo.failCreate = true
	f.slots.failRelease = true

	_, err := f.service.Create(context.Background(), validCreateRequest())
	assert.ErrorIs(t, err, booking.ErrReservationOrphaned)
	f.slots.failRelease = false
	assert.False(t, f.slots.available(slotID), "orphaned slot stays blocked until released manually")
}

func TestConcurrentCreateSingleWinner(t *testing.T) {
	f := newFixture(t)

	const attempts = 8
	errs := make(chan error, attempts)

	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.service.Create(context.Background(), validCreateRequest())
			errs <- err
		}()
	}
	wg.Wait()
	close(errs)

	var won, lost int
	for err := range errs {
		switch {
		case err == nil:
			won++
		case errors.Is(err, timeslot.ErrAlreadyReserved):
			lost++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}

	assert.Equal(t, 1, won, "exactly one attempt wins the slot")
	assert.Equal(t, attempts-1, lost)
	assert.Len(t, f.repo.items, 1)
	assert.False(t, f.slots.available(slotID))
}

//
// Cancel
//

func TestCancelBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	result, err := f.service.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	assert.Equal(t, booking.StatusCancelled, result.Booking.Status)
	assert.True(t, result.SlotReleased)
	assert.True(t, f.slots.available(slotID), "cancellation must release the slot")
	require.Len(t, f.notifier.cancelled, 1)

	// Terminal state: cancelling again fails
	_, err = f.service.Cancel(context.Background(), b.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyFinalized)
}

func TestCancelBookingReleaseFailure(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	f.slots.failRelease = true
	result, err := f.service.Cancel(context.Background(), b.ID)
	require.NoError(t, err, "cancellation itself must not fail when the release does")

	assert.Equal(t, booking.StatusCancelled, result.Booking.Status)
	assert.False(t, result.SlotReleased)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCancelled, stored.Status)
}

func TestCancelUnknownBooking(t *testing.T) {
	f := newFixture(t)

	_, err := f.service.Cancel(context.Background(), "99999999-9999-9999-9999-999999999999")
	assert.ErrorIs(t, err, booking.ErrNotFound)
}

//
// Reschedule
//

func TestRescheduleBooking(t *testing.T) {
	f := newFixture(t)

	newSlotID := "77777777-7777-7777-7777-777777777777"
	f.slots.add(&timeslot.TimeSlot{
		ID:             newSlotID,
		ProfessionalID: proID,
		SlotDate:       futureDate(16),
		StartTime:      "14:00:00",
		EndTime:        "14:30:00",
		IsAvailable:    true,
	})

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := f.service.Reschedule(context.Background(), b.ID, newSlotID)
	require.NoError(t, err)

	require.NotNil(t, updated.TimeSlotID)
	assert.Equal(t, newSlotID, *updated.TimeSlotID)
	assert.Equal(t, "14:00:00", updated.StartTime)
	assert.True(t, f.slots.available(slotID), "old slot must be released")
	assert.False(t, f.slots.available(newSlotID), "new slot must be reserved")
}

func TestRescheduleConflictLeavesBookingIntact(t *testing.T) {
	f := newFixture(t)

	takenSlotID := "77777777-7777-7777-7777-777777777777"
	f.slots.add(&timeslot.TimeSlot{
		ID:             takenSlotID,
		ProfessionalID: proID,
		SlotDate:       futureDate(16),
		StartTime:      "14:00:00",
		EndTime:        "14:30:00",
		IsAvailable:    false,
	})

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = f.service.Reschedule(context.Background(), b.ID, takenSlotID)
	assert.ErrorIs(t, err, timeslot.ErrAlreadyReserved)

	stored, err := f.repo.GetByID(context.Background(), b.ID)
	require.NoError(t, err)
	require.NotNil(t, stored.TimeSlotID)
	assert.Equal(t, slotID, *stored.TimeSlotID, "booking must keep its original slot")
	assert.False(t, f.slots.available(slotID), "original slot must stay reserved")
}

func TestRescheduleSameSlot(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	_, err = f.service.Reschedule(context.Background(), b.ID, slotID)
	assert.ErrorIs(t, err, booking.ErrSameSlot)
}

func TestRescheduleCancelledBooking(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)
	_, err = f.service.Cancel(context.Background(), b.ID)
	require.NoError(t, err)

	_, err = f.service.Reschedule(context.Background(), b.ID, slotID)
	assert.ErrorIs(t, err, booking.ErrAlreadyFinalized)
}

//
// Complete
//

func TestMarkCompleted(t *testing.T) {
	f := newFixture(t)

	b, err := f.service.Create(context.Background(), validCreateRequest())
	require.NoError(t, err)

	updated, err := f.service.MarkCompleted(context.Background(), b.ID)
	require.NoError(t, err)
	assert.Equal(t, booking.StatusCompleted, updated.Status)
	assert.True(t, f.slots.available(slotID), "completed booking frees the slot")

	_, err = f.service.MarkCompleted(context.Background(), b.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyFinalized)

	_, err = f.service.Cancel(context.Background(), b.ID)
	assert.ErrorIs(t, err, booking.ErrAlreadyFinalized)
}

//
// Stats
//

func TestStats(t *testing.T) {
	f := newFixture(t)
	f.repo.stats = booking.Stats{TodayBookings: 2, MonthBookings: 5, UpcomingBookings: 3}

	stats, err := f.service.Stats(context.Background(), proID)
	require.NoError(t, err)

	assert.Equal(t, 1, stats.ActiveServiceTypes, "fixture has one active service type")
	assert.Equal(t, 2, stats.TodayBookings)
	assert.Equal(t, 5, stats.MonthBookings)
	assert.Equal(t, 3, stats.UpcomingBookings)
}
