package appointment

import (
	"context"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/dto"
)

type ListAppointments struct {
	ledger domain.Ledger
}

func NewListAppointments(
	ledger domain.Ledger,
) *ListAppointments {
	return &ListAppointments{
		ledger: ledger,
	}
}

func (uc *ListAppointments) Execute(
	ctx context.Context,
	requesterID string,
) ([]dto.AppointmentDTO, error) {

	ctx, span := tracer.Start(ctx, "appointment.list")
	defer span.End()

	appointments, err := uc.ledger.ListByRequester(ctx, requesterID)
	if err != nil {
		return nil, persistence(err)
	}

	out := make([]dto.AppointmentDTO, 0, len(appointments))
	for i := range appointments {
		out = append(out, dto.FromAppointment(&appointments[i]))
	}

	return out, nil
}
