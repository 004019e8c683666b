package booking

import "context"

// Event carries everything a notification channel needs to message the
// patient and the professional about a booking mutation.
type Event struct {
	BookingID         string
	PatientName       string
	PatientPhone      string
	ServiceName       string
	Date              string // dd/MM/yyyy
	Time              string // HH:MM
	ProfessionalName  string
	ProfessionalPhone string
}

// Notifier receives booking lifecycle events. Implementations must not
// block and must never surface errors to the caller: a failed notification
// never fails the booking.
type Notifier interface {
	BookingConfirmed(ctx context.Context, evt Event)
	BookingCancelled(ctx context.Context, evt Event)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) BookingConfirmed(ctx context.Context, evt Event) {}
func (NopNotifier) BookingCancelled(ctx context.Context, evt Event) {}
