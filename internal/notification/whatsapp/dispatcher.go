package whatsapp

import (
	"context"

	"go.uber.org/zap"

	"github.com/agendafacil/agendafacil-backend/internal/booking"
)

// Dispatcher turns booking events into WhatsApp deep links. Composition is
// offloaded to a goroutine, so callers never wait on it and never see its
// errors.
type Dispatcher struct {
	countryCode string
	log         *zap.Logger
}

func NewDispatcher(countryCode string, log *zap.Logger) *Dispatcher {
	return &Dispatcher{countryCode: countryCode, log: log}
}

var _ booking.Notifier = (*Dispatcher)(nil)

func (d *Dispatcher) BookingConfirmed(_ context.Context, evt booking.Event) {
	go d.dispatch(evt, func(data ConfirmationData) {
		clientLink := Link(evt.PatientPhone, d.countryCode, ClientConfirmationMessage(data))
		d.log.Info("booking confirmation composed",
			zap.String("booking_id", evt.BookingID),
			zap.String("client_link", clientLink),
		)

		if evt.ProfessionalPhone == "" {
			return
		}
		professionalLink := Link(evt.ProfessionalPhone, d.countryCode, ProfessionalAlertMessage(data))
		d.log.Info("professional alert composed",
			zap.String("booking_id", evt.BookingID),
			zap.String("professional_link", professionalLink),
		)
	})
}

func (d *Dispatcher) BookingCancelled(_ context.Context, evt booking.Event) {
	go d.dispatch(evt, func(data ConfirmationData) {
		clientLink := Link(evt.PatientPhone, d.countryCode, CancellationMessage(data))
		d.log.Info("booking cancellation composed",
			zap.String("booking_id", evt.BookingID),
			zap.String("client_link", clientLink),
		)
	})
}

func (d *Dispatcher) dispatch(evt booking.Event, compose func(ConfirmationData)) {
	defer func() {
		if r := recover(); r != nil {
			d.log.Error("notification dispatch panicked",
				zap.String("booking_id", evt.BookingID),
				zap.Any("panic", r),
			)
		}
	}()

	compose(ConfirmationData{
		PatientName:      evt.PatientName,
		PatientPhone:     evt.PatientPhone,
		ServiceName:      evt.ServiceName,
		Date:             evt.Date,
		Time:             evt.Time,
		ProfessionalName: evt.ProfessionalName,
	})
}
