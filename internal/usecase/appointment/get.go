package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/dto"
)

type GetAppointment struct {
	ledger domain.Ledger
}

func NewGetAppointment(ledger domain.Ledger) *GetAppointment {
	return &GetAppointment{ledger: ledger}
}

func (uc *GetAppointment) Execute(
	ctx context.Context,
	requesterID string,
	appointmentID string,
) (*dto.AppointmentDTO, error) {

	ap, err := uc.ledger.Get(ctx, appointmentID)
	if err != nil {
		return nil, persistence(err)
	}

	if err := domain.AuthorizeOwner(ap, requesterID); err != nil {
		return nil, err
	}

	out := dto.FromAppointment(ap)
	return &out, nil
}
