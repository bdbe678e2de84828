package audit

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

const (
	ActionAppointmentBooked       = "appointment_booked"
	ActionAppointmentCancelled    = "appointment_cancelled"
	ActionReservationCompensated  = "reservation_compensated"
	ActionAppointmentInconsistent = "appointment_inconsistent"
	ActionProviderCreated         = "provider_created"
	ActionProviderUpdated         = "provider_updated"
	ActionProviderInconsistent    = "provider_inconsistent"
)

type Event struct {
	ProviderID  string
	RequesterID string
	Action      string
	Entity      string
	EntityID    string
	Metadata    any
	OccurredAt  time.Time
}

// Sink receives dispatched events. A failing sink never affects the others.
type Sink interface {
	Record(ctx context.Context, ev Event) error
}

type Dispatcher struct {
	sinks []Sink
	queue chan Event
	done  chan struct{}

	closeOnce sync.Once
	mu        sync.RWMutex
	closed    bool
}

func NewDispatcher(sinks ...Sink) *Dispatcher {
	d := &Dispatcher{
		sinks: sinks,
		queue: make(chan Event, 100),
		done:  make(chan struct{}),
	}

	go d.worker()
	return d
}

func (d *Dispatcher) worker() {
	defer close(d.done)

	for ev := range d.queue {
		for _, s := range d.sinks {
			if err := s.Record(context.Background(), ev); err != nil {
				slog.Error("audit sink failed", "action", ev.Action, "entity_id", ev.EntityID, "err", err)
			}
		}
	}
}

// Dispatch enqueues ev without blocking. Audit never breaks a request: when
// the queue is full or the dispatcher is closed the event is dropped.
func (d *Dispatcher) Dispatch(ev Event) {
	if ev.OccurredAt.IsZero() {
		ev.OccurredAt = time.Now()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		slog.Warn("audit dispatcher closed, dropping event", "action", ev.Action)
		return
	}

	select {
	case d.queue <- ev:
	default:
		slog.Warn("audit queue full, dropping event", "action", ev.Action)
	}
}

// Close stops accepting events and waits until queued ones reach the sinks
// or ctx ends.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.closeOnce.Do(func() {
		d.mu.Lock()
		d.closed = true
		close(d.queue)
		d.mu.Unlock()
	})

	select {
	case <-d.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
