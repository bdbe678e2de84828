package audit

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSink struct {
	mu     sync.Mutex
	events []Event
	err    error
}

func (s *recordingSink) Record(_ context.Context, ev Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, ev)
	return s.err
}

func (s *recordingSink) actions() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, 0, len(s.events))
	for _, ev := range s.events {
		out = append(out, ev.Action)
	}
	return out
}

func TestDispatcherDeliversToEverySink(t *testing.T) {
	failing := &recordingSink{err: errors.New("boom")}
	ok := &recordingSink{}
	d := NewDispatcher(failing, ok)

	d.Dispatch(Event{Action: ActionAppointmentBooked, EntityID: "a1"})
	d.Dispatch(Event{Action: ActionAppointmentCancelled, EntityID: "a1"})

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, d.Close(ctx))

	want := []string{ActionAppointmentBooked, ActionAppointmentCancelled}
	assert.Equal(t, want, failing.actions())
	assert.Equal(t, want, ok.actions())
}

func TestDispatcherStampsOccurredAt(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)

	d.Dispatch(Event{Action: ActionAppointmentBooked})
	require.NoError(t, d.Close(context.Background()))

	require.Len(t, sink.events, 1)
	assert.False(t, sink.events[0].OccurredAt.IsZero())
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	sink := &recordingSink{}
	d := NewDispatcher(sink)
	require.NoError(t, d.Close(context.Background()))
	require.NoError(t, d.Close(context.Background()))

	assert.NotPanics(t, func() {
		d.Dispatch(Event{Action: ActionAppointmentBooked})
	})
	assert.Empty(t, sink.actions())
}
