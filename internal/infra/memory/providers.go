package memory

import (
	"context"
	"sync"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// providerCalendar guards one provider record and its booked slots. Its
// mutex is the only lock held during reserve/release, so distinct providers
// never contend with each other.
type providerCalendar struct {
	mu       sync.Mutex
	provider models.Provider
	booked   map[string]map[string]struct{}
}

// ProviderStore is an in-process ProviderDirectory and CalendarStore.
type ProviderStore struct {
	mu        sync.RWMutex
	providers map[string]*providerCalendar
}

func NewProviderStore() *ProviderStore {
	return &ProviderStore{
		providers: make(map[string]*providerCalendar),
	}
}

func (s *ProviderStore) lookup(providerID string) (*providerCalendar, error) {
	s.mu.RLock()
	pc, ok := s.providers[providerID]
	s.mu.RUnlock()

	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "provider %s not found", providerID)
	}
	return pc, nil
}

// --------------------------------------------------
// Directory
// --------------------------------------------------

func (s *ProviderStore) GetProvider(
	ctx context.Context,
	providerID string,
) (*models.Provider, error) {

	pc, err := s.lookup(providerID)
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	p := pc.provider
	return &p, nil
}

func (s *ProviderStore) CreateProvider(
	ctx context.Context,
	p *models.Provider,
) error {

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.providers[p.ID]; ok {
		return httperr.ErrBusinessf(httperr.CodeAlreadyExists, "provider %s already exists", p.ID)
	}

	s.providers[p.ID] = &providerCalendar{
		provider: *p,
		booked:   make(map[string]map[string]struct{}),
	}
	return nil
}

func (s *ProviderStore) UpdateFee(
	ctx context.Context,
	providerID string,
	fee decimal.Decimal,
) error {

	pc, err := s.lookup(providerID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	pc.provider.Fee = fee
	pc.mu.Unlock()
	return nil
}

// --------------------------------------------------
// Calendar
// --------------------------------------------------

func (s *ProviderStore) Reserve(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	pc, err := s.lookup(providerID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	if !pc.provider.Available {
		return httperr.ErrBusinessf(httperr.CodeProviderUnavailable, "provider %s is not available", providerID)
	}

	day, ok := pc.booked[slot.Date]
	if !ok {
		day = make(map[string]struct{})
		pc.booked[slot.Date] = day
	}

	if _, taken := day[slot.Time]; taken {
		return httperr.ErrBusinessf(httperr.CodeAlreadyBooked, "slot %s is already booked", slot)
	}

	day[slot.Time] = struct{}{}
	return nil
}

func (s *ProviderStore) Release(
	ctx context.Context,
	providerID string,
	slot domain.Slot,
) error {

	pc, err := s.lookup(providerID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	day, ok := pc.booked[slot.Date]
	if !ok {
		return nil
	}

	delete(day, slot.Time)
	if len(day) == 0 {
		delete(pc.booked, slot.Date)
	}
	return nil
}

func (s *ProviderStore) SetAvailability(
	ctx context.Context,
	providerID string,
	available bool,
) error {

	pc, err := s.lookup(providerID)
	if err != nil {
		return err
	}

	pc.mu.Lock()
	pc.provider.Available = available
	pc.mu.Unlock()
	return nil
}

func (s *ProviderStore) BookedSlots(
	ctx context.Context,
	providerID string,
	date string,
) ([]string, error) {

	pc, err := s.lookup(providerID)
	if err != nil {
		return nil, err
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	out := make([]string, 0, len(pc.booked[date]))
	for label := range pc.booked[date] {
		out = append(out, label)
	}
	slices.Sort(out)
	return out, nil
}

// Compile-time check
var (
	_ domain.ProviderDirectory = (*ProviderStore)(nil)
	_ domain.CalendarStore     = (*ProviderStore)(nil)
)
