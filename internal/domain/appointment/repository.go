package appointment

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// Implementations report failures as httperr.BusinessError values carrying
// the not_found, provider_unavailable, already_booked, already_cancelled or
// persistence_failure codes.

type ProviderDirectory interface {
	GetProvider(
		ctx context.Context,
		providerID string,
	) (*models.Provider, error)

	CreateProvider(
		ctx context.Context,
		p *models.Provider,
	) error

	UpdateFee(
		ctx context.Context,
		providerID string,
		fee decimal.Decimal,
	) error
}

// CalendarStore owns the booked-slot sets and the availability flag.
// Reserve is a single atomic check-and-insert per provider.
type CalendarStore interface {
	Reserve(
		ctx context.Context,
		providerID string,
		slot Slot,
	) error

	// Release is idempotent: releasing a slot that is not booked succeeds.
	Release(
		ctx context.Context,
		providerID string,
		slot Slot,
	) error

	SetAvailability(
		ctx context.Context,
		providerID string,
		available bool,
	) error

	BookedSlots(
		ctx context.Context,
		providerID string,
		date string,
	) ([]string, error)
}

type Ledger interface {
	// Create assigns the id when ap.ID is empty and returns it.
	Create(
		ctx context.Context,
		ap *models.Appointment,
	) (string, error)

	Get(
		ctx context.Context,
		id string,
	) (*models.Appointment, error)

	// ListByRequester returns active and cancelled appointments, newest first.
	ListByRequester(
		ctx context.Context,
		requesterID string,
	) ([]models.Appointment, error)

	MarkCancelled(
		ctx context.Context,
		id string,
		at time.Time,
	) error
}
