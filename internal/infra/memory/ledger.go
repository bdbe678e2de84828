package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/exp/slices"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// Ledger keeps appointments in insertion order. Records are copied on the
// way in and out so callers never share state with the store.
type Ledger struct {
	mu    sync.RWMutex
	byID  map[string]*models.Appointment
	order []string
}

func NewLedger() *Ledger {
	return &Ledger{
		byID: make(map[string]*models.Appointment),
	}
}

func (l *Ledger) Create(
	ctx context.Context,
	ap *models.Appointment,
) (string, error) {

	l.mu.Lock()
	defer l.mu.Unlock()

	if ap.ID == "" {
		ap.ID = uuid.NewString()
	}
	if _, ok := l.byID[ap.ID]; ok {
		return "", httperr.ErrBusinessf(httperr.CodePersistenceFailure, "appointment %s already exists", ap.ID)
	}

	stored := *ap
	l.byID[ap.ID] = &stored
	l.order = append(l.order, ap.ID)
	return ap.ID, nil
}

func (l *Ledger) Get(
	ctx context.Context,
	id string,
) (*models.Appointment, error) {

	l.mu.RLock()
	defer l.mu.RUnlock()

	ap, ok := l.byID[id]
	if !ok {
		return nil, httperr.ErrBusinessf(httperr.CodeNotFound, "appointment %s not found", id)
	}

	out := *ap
	return &out, nil
}

func (l *Ledger) ListByRequester(
	ctx context.Context,
	requesterID string,
) ([]models.Appointment, error) {

	l.mu.RLock()
	defer l.mu.RUnlock()

	// newest insertion first so equal timestamps keep reverse insertion order
	out := make([]models.Appointment, 0)
	for i := len(l.order) - 1; i >= 0; i-- {
		ap := l.byID[l.order[i]]
		if ap.RequesterID == requesterID {
			out = append(out, *ap)
		}
	}

	slices.SortStableFunc(out, func(a, b models.Appointment) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	return out, nil
}

func (l *Ledger) MarkCancelled(
	ctx context.Context,
	id string,
	at time.Time,
) error {

	l.mu.Lock()
	defer l.mu.Unlock()

	ap, ok := l.byID[id]
	if !ok {
		return httperr.ErrBusinessf(httperr.CodeNotFound, "appointment %s not found", id)
	}

	return domain.Cancel(ap, at)
}

// Compile-time check
var _ domain.Ledger = (*Ledger)(nil)
