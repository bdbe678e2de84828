package provider

import (
	"context"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/dto"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/validators"
)

type GetProvider struct {
	providers domain.ProviderDirectory
}

func NewGetProvider(providers domain.ProviderDirectory) *GetProvider {
	return &GetProvider{providers: providers}
}

func (uc *GetProvider) Execute(
	ctx context.Context,
	providerID string,
) (*dto.ProviderDetailDTO, error) {

	p, err := uc.providers.GetProvider(ctx, providerID)
	if err != nil {
		return nil, err
	}

	out := dto.FromProvider(p)
	return &out, nil
}

// ListBookedSlots returns the booked time labels of one provider date,
// sorted ascending.
type ListBookedSlots struct {
	calendar domain.CalendarStore
}

func NewListBookedSlots(calendar domain.CalendarStore) *ListBookedSlots {
	return &ListBookedSlots{calendar: calendar}
}

func (uc *ListBookedSlots) Execute(
	ctx context.Context,
	providerID string,
	date string,
) ([]string, error) {

	if !validators.IsDateKey(date) {
		return nil, httperr.ErrBusinessf(httperr.CodeInvalidRequest, "date must be YYYY-MM-DD")
	}

	return uc.calendar.BookedSlots(ctx, providerID, date)
}
