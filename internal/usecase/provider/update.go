package provider

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
)

// SetAvailability toggles whether a provider accepts new reservations.
// Existing appointments are untouched.
type SetAvailability struct {
	providers domain.ProviderDirectory
	calendar  domain.CalendarStore
	audit     *audit.Dispatcher
}

func NewSetAvailability(
	providers domain.ProviderDirectory,
	calendar domain.CalendarStore,
	audit *audit.Dispatcher,
) *SetAvailability {
	return &SetAvailability{
		providers: providers,
		calendar:  calendar,
		audit:     audit,
	}
}

func (uc *SetAvailability) Execute(
	ctx context.Context,
	providerID string,
	available bool,
) error {

	if _, err := uc.providers.GetProvider(ctx, providerID); err != nil {
		return err
	}

	if err := uc.calendar.SetAvailability(ctx, providerID, available); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     audit.ActionProviderUpdated,
		Entity:     "provider",
		EntityID:   providerID,
		Metadata:   map[string]any{"available": available},
	})
	return nil
}

// UpdateFee changes the fee charged on future bookings only.
type UpdateFee struct {
	providers domain.ProviderDirectory
	audit     *audit.Dispatcher
}

func NewUpdateFee(
	providers domain.ProviderDirectory,
	audit *audit.Dispatcher,
) *UpdateFee {
	return &UpdateFee{
		providers: providers,
		audit:     audit,
	}
}

func (uc *UpdateFee) Execute(
	ctx context.Context,
	providerID string,
	fee decimal.Decimal,
) error {

	if fee.IsNegative() {
		return httperr.ErrBusinessf(httperr.CodeInvalidRequest, "fee must not be negative")
	}
	fee = fee.Round(feePlaces)

	if err := uc.providers.UpdateFee(ctx, providerID, fee); err != nil {
		return err
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: providerID,
		Action:     audit.ActionProviderUpdated,
		Entity:     "provider",
		EntityID:   providerID,
		Metadata:   map[string]any{"fee": fee.String()},
	})
	return nil
}
