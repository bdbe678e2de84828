package provider

import (
	"context"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// feePlaces matches the numeric(12,2) fee column.
const feePlaces = 2

type CreateProviderInput struct {
	ID         string
	Name       string
	Speciality string
	Available  bool
	Fee        decimal.Decimal
}

// CreateProvider registers a provider in the directory and seeds its
// availability flag in the calendar store.
type CreateProvider struct {
	providers domain.ProviderDirectory
	calendar  domain.CalendarStore
	audit     *audit.Dispatcher
}

func NewCreateProvider(
	providers domain.ProviderDirectory,
	calendar domain.CalendarStore,
	audit *audit.Dispatcher,
) *CreateProvider {
	return &CreateProvider{
		providers: providers,
		calendar:  calendar,
		audit:     audit,
	}
}

func (uc *CreateProvider) Execute(
	ctx context.Context,
	in CreateProviderInput,
) (*models.Provider, error) {

	id := strings.TrimSpace(in.ID)
	name := strings.TrimSpace(in.Name)
	if id == "" || name == "" {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "provider id and name are required")
	}
	if in.Fee.IsNegative() {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "fee must not be negative")
	}

	p := &models.Provider{
		ID:         id,
		Name:       name,
		Speciality: strings.TrimSpace(in.Speciality),
		Available:  in.Available,
		Fee:        in.Fee.Round(feePlaces),
	}

	if err := uc.providers.CreateProvider(ctx, p); err != nil {
		return nil, err
	}

	// The directory row exists from here on. Without the calendar flag every
	// reserve for this provider fails until availability is set again.
	if err := uc.calendar.SetAvailability(ctx, p.ID, p.Available); err != nil {
		slog.ErrorContext(ctx, "provider created without calendar availability",
			"provider_id", p.ID,
			"err", err,
		)

		uc.audit.Dispatch(audit.Event{
			ProviderID: p.ID,
			Action:     audit.ActionProviderInconsistent,
			Entity:     "provider",
			EntityID:   p.ID,
			Metadata:   map[string]any{"calendar_error": err.Error()},
		})

		return nil, httperr.Wrap(
			httperr.CodeInconsistent,
			err,
			"provider created but calendar availability not stored; set availability again",
		)
	}

	uc.audit.Dispatch(audit.Event{
		ProviderID: p.ID,
		Action:     audit.ActionProviderCreated,
		Entity:     "provider",
		EntityID:   p.ID,
		Metadata: map[string]any{
			"available": p.Available,
			"fee":       p.Fee.String(),
		},
	})

	return p, nil
}
