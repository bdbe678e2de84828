package appointment

import (
	"time"

	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// ===============================
// Domain Actions
// ===============================

// New builds an active appointment for a reserved slot. The fee and the
// provider projection are copied so later provider edits never reach it.
func New(
	requesterID string,
	provider *models.Provider,
	slot Slot,
	now time.Time,
) *models.Appointment {
	return &models.Appointment{
		ProviderID:   provider.ID,
		RequesterID:  requesterID,
		Date:         slot.Date,
		Time:         slot.Time,
		Fee:          provider.Fee,
		ProviderData: provider.Snapshot(),
		Cancelled:    false,
		CreatedAt:    now,
	}
}

func Cancel(ap *models.Appointment, now time.Time) error {
	if err := CanCancel(StatusOf(ap)); err != nil {
		return err
	}

	ap.Cancelled = true
	ap.CancelledAt = &now
	return nil
}

// AuthorizeOwner fails with unauthorized unless requesterID created ap.
func AuthorizeOwner(ap *models.Appointment, requesterID string) error {
	if ap.RequesterID != requesterID {
		return httperr.ErrBusinessf(httperr.CodeUnauthorized, "appointment belongs to another requester")
	}
	return nil
}
