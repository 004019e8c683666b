package timeslot_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/agendafacil/agendafacil-backend/internal/pkg/apperror"
	"github.com/agendafacil/agendafacil-backend/internal/timeslot"
)

type fakeRepo struct {
	slots       map[string]*timeslot.TimeSlot
	hasOverlap  bool
	generateErr error
	generated   int
	created     *timeslot.TimeSlot
	getCalls    int
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{slots: map[string]*timeslot.TimeSlot{}}
}

func (r *fakeRepo) Create(ctx context.Context, slot *timeslot.TimeSlot) error {
	slot.ID = "slot-1"
	r.created = slot
	return nil
}

func (r *fakeRepo) GetByID(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	r.getCalls++
	s, ok := r.slots[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	return s, nil
}

func (r *fakeRepo) ListByDate(ctx context.Context, professionalID string, date time.Time) ([]*timeslot.TimeSlot, error) {
	return nil, nil
}

func (r *fakeRepo) ListAvailable(ctx context.Context, filter timeslot.AvailabilityFilter) ([]*timeslot.TimeSlot, error) {
	return nil, nil
}

func (r *fakeRepo) Reserve(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	if !s.IsAvailable {
		return nil, timeslot.ErrAlreadyReserved
	}
	s.IsAvailable = false
	return s, nil
}

func (r *fakeRepo) Release(ctx context.Context, id string) (*timeslot.TimeSlot, error) {
	s, ok := r.slots[id]
	if !ok {
		return nil, timeslot.ErrNotFound
	}
	s.IsAvailable = true
	return s, nil
}

func (r *fakeRepo) Generate(ctx context.Context, professionalID string, date time.Time, start, end string, durationMinutes int, serviceTypeID *string) (int, error) {
	if r.generateErr != nil {
		return 0, r.generateErr
	}
	return r.generated, nil
}

func (r *fakeRepo) HasOverlap(ctx context.Context, professionalID string, date time.Time, start, end string) (bool, error) {
	return r.hasOverlap, nil
}

func (r *fakeRepo) Delete(ctx context.Context, id string) error {
	if _, ok := r.slots[id]; !ok {
		return timeslot.ErrNotFound
	}
	delete(r.slots, id)
	return nil
}

func (r *fakeRepo) DeleteByDate(ctx context.Context, professionalID string, date time.Time) (int, error) {
	return 0, nil
}

var testDate = time.Date(2026, 9, 10, 0, 0, 0, 0, time.UTC)

func TestCreateSlot(t *testing.T) {
	repo := newFakeRepo()
	svc := timeslot.NewService(repo)

	slot, err := svc.Create(context.Background(), timeslot.CreateRequest{
		ProfessionalID: "pro-1",
		Date:           testDate,
		StartTime:      "09:00",
		EndTime:        "09:30",
	})
	require.NoError(t, err)

	assert.Equal(t, "09:00:00", slot.StartTime, "HH:MM must be normalized to HH:MM:SS")
	assert.Equal(t, "09:30:00", slot.EndTime)
	assert.True(t, slot.IsAvailable, "new slots start out available")
}

func TestCreateSlotValidation(t *testing.T) {
	tests := []struct {
		name    string
		req     timeslot.CreateRequest
		wantErr error
	}{
		{
			name:    "missing professional",
			req:     timeslot.CreateRequest{Date: testDate, StartTime: "09:00", EndTime: "10:00"},
			wantErr: timeslot.ErrProfessionalRequired,
		},
		{
			name:    "bad clock format",
			req:     timeslot.CreateRequest{ProfessionalID: "pro-1", Date: testDate, StartTime: "9am", EndTime: "10:00"},
			wantErr: timeslot.ErrInvalidClockFormat,
		},
		{
			name:    "out of range hour",
			req:     timeslot.CreateRequest{ProfessionalID: "pro-1", Date: testDate, StartTime: "25:00", EndTime: "26:00"},
			wantErr: timeslot.ErrInvalidClockFormat,
		},
		{
			name:    "start not before end",
			req:     timeslot.CreateRequest{ProfessionalID: "pro-1", Date: testDate, StartTime: "10:00", EndTime: "10:00"},
			wantErr: timeslot.ErrInvalidTimeRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := timeslot.NewService(newFakeRepo())
			_, err := svc.Create(context.Background(), tt.req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestCreateSlotOverlap(t *testing.T) {
	repo := newFakeRepo()
	repo.hasOverlap = true
	svc := timeslot.NewService(repo)

	_, err := svc.Create(context.Background(), timeslot.CreateRequest{
		ProfessionalID: "pro-1",
		Date:           testDate,
		StartTime:      "09:00",
		EndTime:        "09:30",
	})
	assert.ErrorIs(t, err, timeslot.ErrOverlap)
}

func TestReserveAndRelease(t *testing.T) {
	repo := newFakeRepo()
	repo.slots["s1"] = &timeslot.TimeSlot{ID: "s1", IsAvailable: true}
	svc := timeslot.NewService(repo)

	slot, err := svc.Reserve(context.Background(), "s1")
	require.NoError(t, err)
	assert.False(t, slot.IsAvailable)

	_, err = svc.Reserve(context.Background(), "s1")
	assert.ErrorIs(t, err, timeslot.ErrAlreadyReserved)

	slot, err = svc.Release(context.Background(), "s1")
	require.NoError(t, err)
	assert.True(t, slot.IsAvailable)

	// Releasing an available slot is a no-op
	_, err = svc.Release(context.Background(), "s1")
	assert.NoError(t, err)
}

func TestGenerate(t *testing.T) {
	repo := newFakeRepo()
	repo.generated = 16
	svc := timeslot.NewService(repo)

	count, err := svc.Generate(context.Background(), timeslot.GenerateRequest{
		ProfessionalID:  "pro-1",
		Date:            testDate,
		StartTime:       "09:00",
		EndTime:         "17:00",
		DurationMinutes: 30,
	})
	require.NoError(t, err)
	assert.Equal(t, 16, count)
}

func TestGenerateValidation(t *testing.T) {
	svc := timeslot.NewService(newFakeRepo())

	_, err := svc.Generate(context.Background(), timeslot.GenerateRequest{
		ProfessionalID:  "pro-1",
		Date:            testDate,
		StartTime:       "09:00",
		EndTime:         "17:00",
		DurationMinutes: 0,
	})
	assert.ErrorIs(t, err, timeslot.ErrInvalidDuration)
}

func TestGenerateUpstreamFailure(t *testing.T) {
	repo := newFakeRepo()
	repo.generateErr = errors.New("function unavailable")
	svc := timeslot.NewService(repo)

	_, err := svc.Generate(context.Background(), timeslot.GenerateRequest{
		ProfessionalID:  "pro-1",
		Date:            testDate,
		StartTime:       "09:00",
		EndTime:         "17:00",
		DurationMinutes: 30,
	})
	require.Error(t, err)

	var appErr *apperror.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, http.StatusBadGateway, appErr.Code)
}

func TestDelete(t *testing.T) {
	repo := newFakeRepo()
	repo.slots["slot-1"] = &timeslot.TimeSlot{ID: "slot-1", IsAvailable: true}
	svc := timeslot.NewService(repo)

	require.NoError(t, svc.Delete(context.Background(), "slot-1"))
	assert.NotContains(t, repo.slots, "slot-1")

	err := svc.Delete(context.Background(), "missing")
	assert.ErrorIs(t, err, timeslot.ErrNotFound)
	assert.Zero(t, repo.getCalls, "delete must not issue an extra lookup")
}
