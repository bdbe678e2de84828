package appointment

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

// CancelAppointment marks an appointment cancelled and then releases its
// slot. The ledger goes first: a failure in between leaves the slot blocked,
// never double-booked.
type CancelAppointment struct {
	calendar domain.CalendarStore
	ledger   domain.Ledger
	audit    *audit.Dispatcher
	now      timezone.Clock
}

func NewCancelAppointment(
	calendar domain.CalendarStore,
	ledger domain.Ledger,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *CancelAppointment {
	return &CancelAppointment{
		calendar: calendar,
		ledger:   ledger,
		audit:    audit,
		now:      now,
	}
}

func (uc *CancelAppointment) Execute(
	ctx context.Context,
	requesterID string,
	appointmentID string,
) (ap *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.cancel")
	span.SetAttributes(attribute.String("appointment.id", appointmentID))
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, httperr.CodeOf(err))
		}
		span.End()
	}()

	ap, err = uc.ledger.Get(ctx, appointmentID)
	if err != nil {
		return nil, persistence(err)
	}

	if err := domain.AuthorizeOwner(ap, requesterID); err != nil {
		return nil, err
	}

	if err := domain.CanCancel(domain.StatusOf(ap)); err != nil {
		return nil, err
	}

	// A concurrent cancel that won the race surfaces here as already_cancelled,
	// so only one caller ever reaches the release below.
	now := uc.now()
	if err := uc.ledger.MarkCancelled(ctx, ap.ID, now); err != nil {
		return nil, persistence(err)
	}
	ap.Cancelled = true
	ap.CancelledAt = &now

	// the appointment is already cancelled, so the release must not be cut
	// short by the caller going away
	ctx, cancel := releaseContext(ctx)
	defer cancel()

	slot := domain.Slot{Date: ap.Date, Time: ap.Time}
	if err := uc.calendar.Release(ctx, ap.ProviderID, slot); err != nil {
		slog.ErrorContext(ctx, "cancelled appointment still holds its slot",
			"appointment_id", ap.ID,
			"provider_id", ap.ProviderID,
			"slot", slot.String(),
			"err", err,
		)

		uc.audit.Dispatch(audit.Event{
			ProviderID:  ap.ProviderID,
			RequesterID: requesterID,
			Action:      audit.ActionAppointmentInconsistent,
			Entity:      "appointment",
			EntityID:    ap.ID,
			Metadata: map[string]any{
				"date":          ap.Date,
				"time":          ap.Time,
				"release_error": err.Error(),
			},
		})

		return nil, httperr.Wrap(
			httperr.CodeInconsistent,
			err,
			"appointment cancelled but slot not released; manual reconciliation required",
		)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID:  ap.ProviderID,
		RequesterID: requesterID,
		Action:      audit.ActionAppointmentCancelled,
		Entity:      "appointment",
		EntityID:    ap.ID,
		Metadata: map[string]any{
			"date": ap.Date,
			"time": ap.Time,
		},
	})

	return ap, nil
}
