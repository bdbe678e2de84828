package appointment

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/infra/memory"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
	"github.com/BruksfildServices01/slot-scheduler/internal/timezone"
)

var (
	errLedgerDown   = errors.New("ledger down")
	errCalendarDown = errors.New("calendar down")
	bookedAt        = time.Date(2024, 5, 20, 9, 0, 0, 0, time.UTC)
)

// flakyLedger fails Create/MarkCancelled on demand and otherwise delegates.
// abortCreate and abortAfterCancel cancel the caller's context, the way a
// client disconnect does mid-request.
type flakyLedger struct {
	*memory.Ledger
	failCreate bool
	failCancel bool

	abortCreate      context.CancelFunc
	abortAfterCancel context.CancelFunc
}

func (l *flakyLedger) Create(ctx context.Context, ap *models.Appointment) (string, error) {
	if l.abortCreate != nil {
		l.abortCreate()
		return "", ctx.Err()
	}
	if l.failCreate {
		return "", errLedgerDown
	}
	return l.Ledger.Create(ctx, ap)
}

func (l *flakyLedger) MarkCancelled(ctx context.Context, id string, at time.Time) error {
	if l.failCancel {
		return errLedgerDown
	}
	if err := l.Ledger.MarkCancelled(ctx, id, at); err != nil {
		return err
	}
	if l.abortAfterCancel != nil {
		l.abortAfterCancel()
	}
	return nil
}

// flakyCalendar fails Release on demand and otherwise delegates.
type flakyCalendar struct {
	*memory.ProviderStore
	failRelease bool
}

// Release honours cancellation like the database and redis stores do.
func (c *flakyCalendar) Release(ctx context.Context, providerID string, slot domain.Slot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if c.failRelease {
		return errCalendarDown
	}
	return c.ProviderStore.Release(ctx, providerID, slot)
}

type recordingSink struct {
	mu      sync.Mutex
	actions []string
}

func (s *recordingSink) Record(_ context.Context, ev audit.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.actions = append(s.actions, ev.Action)
	return nil
}

type fixture struct {
	store    *memory.ProviderStore
	calendar *flakyCalendar
	ledger   *flakyLedger
	sink     *recordingSink
	audit    *audit.Dispatcher
	book     *BookAppointment
	cancel   *CancelAppointment
	list     *ListAppointments
	get      *GetAppointment
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	store := memory.NewProviderStore()
	require.NoError(t, store.CreateProvider(context.Background(), &models.Provider{
		ID:         "P1",
		Name:       "Dr. Ana",
		Speciality: "Dermatology",
		Available:  true,
		Fee:        decimal.RequireFromString("150.00"),
	}))

	f := &fixture{
		store:    store,
		calendar: &flakyCalendar{ProviderStore: store},
		ledger:   &flakyLedger{Ledger: memory.NewLedger()},
		sink:     &recordingSink{},
	}
	f.audit = audit.NewDispatcher(f.sink)
	t.Cleanup(func() { _ = f.audit.Close(context.Background()) })

	clock := timezone.Fixed(bookedAt)
	f.book = NewBookAppointment(store, f.calendar, f.ledger, f.audit, clock)
	f.cancel = NewCancelAppointment(f.calendar, f.ledger, f.audit, clock)
	f.list = NewListAppointments(f.ledger)
	f.get = NewGetAppointment(f.ledger)
	return f
}

// auditActions flushes the dispatcher and returns what reached the sink.
func (f *fixture) auditActions(t *testing.T) []string {
	t.Helper()
	require.NoError(t, f.audit.Close(context.Background()))
	f.sink.mu.Lock()
	defer f.sink.mu.Unlock()
	return append([]string(nil), f.sink.actions...)
}

func (f *fixture) booked(t *testing.T, providerID, date string) []string {
	t.Helper()
	labels, err := f.store.BookedSlots(context.Background(), providerID, date)
	require.NoError(t, err)
	return labels
}

func bookInput(requester string) BookAppointmentInput {
	return BookAppointmentInput{
		RequesterID: requester,
		ProviderID:  "P1",
		Slot:        domain.Slot{Date: "2024-06-01", Time: "10:00"},
	}
}
