package appointment

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

// ======================================================
// INPUT
// ======================================================

type BookAppointmentInput struct {
	RequesterID string
	ProviderID  string
	Slot        domain.Slot
}

// ======================================================
// USE CASE
// ======================================================

// BookAppointment reserves a slot on the provider calendar and records the
// appointment in the ledger. The reservation is released again when the
// ledger write fails.
type BookAppointment struct {
	providers domain.ProviderDirectory
	calendar  domain.CalendarStore
	ledger    domain.Ledger
	audit     *audit.Dispatcher
	now       timezone.Clock
}

func NewBookAppointment(
	providers domain.ProviderDirectory,
	calendar domain.CalendarStore,
	ledger domain.Ledger,
	audit *audit.Dispatcher,
	now timezone.Clock,
) *BookAppointment {
	return &BookAppointment{
		providers: providers,
		calendar:  calendar,
		ledger:    ledger,
		audit:     audit,
		now:       now,
	}
}

// ======================================================
// EXECUTE
// ======================================================

func (uc *BookAppointment) Execute(
	ctx context.Context,
	in BookAppointmentInput,
) (ap *models.Appointment, err error) {

	ctx, span := tracer.Start(ctx, "appointment.book")
	span.SetAttributes(
		attribute.String("provider.id", in.ProviderID),
		attribute.String("slot.date", in.Slot.Date),
		attribute.String("slot.time", in.Slot.Time),
	)
	defer func() {
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, httperr.CodeOf(err))
		}
		span.End()
	}()

	if in.RequesterID == "" || in.ProviderID == "" {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "requester and provider are required")
	}

	// --------------------------------------------------
	// 1. Provider
	// --------------------------------------------------
	provider, err := uc.providers.GetProvider(ctx, in.ProviderID)
	if err != nil {
		return nil, persistence(err)
	}

	// --------------------------------------------------
	// 2. Reserve (atomic per provider)
	// --------------------------------------------------
	if err := uc.calendar.Reserve(ctx, in.ProviderID, in.Slot); err != nil {
		return nil, persistence(err)
	}

	// --------------------------------------------------
	// 3. Ledger, fee snapshotted from the resolved provider
	// --------------------------------------------------
	ap = domain.New(in.RequesterID, provider, in.Slot, uc.now())

	if _, err := uc.ledger.Create(ctx, ap); err != nil {
		return nil, uc.compensate(ctx, in, err)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID:  in.ProviderID,
		RequesterID: in.RequesterID,
		Action:      audit.ActionAppointmentBooked,
		Entity:      "appointment",
		EntityID:    ap.ID,
		Metadata: map[string]any{
			"date": in.Slot.Date,
			"time": in.Slot.Time,
			"fee":  ap.Fee.String(),
		},
	})

	return ap, nil
}

// compensate releases the reservation made for a booking whose ledger write
// failed. If the release fails too the slot stays reserved with no
// appointment behind it, which is reported as inconsistent.
func (uc *BookAppointment) compensate(
	ctx context.Context,
	in BookAppointmentInput,
	cause error,
) error {

	meta := map[string]any{
		"date":  in.Slot.Date,
		"time":  in.Slot.Time,
		"cause": cause.Error(),
	}

	ctx, cancel := releaseContext(ctx)
	defer cancel()

	if relErr := uc.calendar.Release(ctx, in.ProviderID, in.Slot); relErr != nil {
		slog.ErrorContext(ctx, "booking left an orphaned reservation",
			"provider_id", in.ProviderID,
			"slot", in.Slot.String(),
			"ledger_err", cause,
			"release_err", relErr,
		)

		meta["release_error"] = relErr.Error()
		uc.audit.Dispatch(audit.Event{
			ProviderID:  in.ProviderID,
			RequesterID: in.RequesterID,
			Action:      audit.ActionAppointmentInconsistent,
			Entity:      "slot",
			EntityID:    in.Slot.String(),
			Metadata:    meta,
		})

		return httperr.Wrap(
			httperr.CodeInconsistent,
			errors.Join(cause, relErr),
			"slot reserved but appointment not recorded; manual reconciliation required",
		)
	}

	slog.WarnContext(ctx, "booking compensated after ledger failure",
		"provider_id", in.ProviderID,
		"slot", in.Slot.String(),
		"err", cause,
	)

	uc.audit.Dispatch(audit.Event{
		ProviderID:  in.ProviderID,
		RequesterID: in.RequesterID,
		Action:      audit.ActionReservationCompensated,
		Entity:      "slot",
		EntityID:    in.Slot.String(),
		Metadata:    meta,
	})

	return httperr.Wrap(httperr.CodePersistenceFailure, cause, "could not record appointment")
}
