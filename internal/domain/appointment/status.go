package appointment

import (
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// ===============================
// Appointment Status
// ===============================

type Status string

const (
	StatusActive    Status = "active"
	StatusCancelled Status = "cancelled"
)

func StatusOf(ap *models.Appointment) Status {
	if ap.Cancelled {
		return StatusCancelled
	}
	return StatusActive
}

// ===============================
// Validations
// ===============================

// CanCancel allows the single Active -> Cancelled transition.
func CanCancel(current Status) error {
	if current != StatusActive {
		return httperr.ErrBusinessf(httperr.CodeAlreadyCancelled, "appointment is already cancelled")
	}
	return nil
}
