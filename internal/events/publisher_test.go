package events

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
)

func TestRoutingKey(t *testing.T) {
	assert.Equal(t, "appointment.booked", RoutingKey(audit.ActionAppointmentBooked))
	assert.Equal(t, "appointment.cancelled", RoutingKey(audit.ActionAppointmentCancelled))
	assert.Equal(t, "appointment.inconsistent", RoutingKey(audit.ActionAppointmentInconsistent))
	assert.Equal(t, "provider.inconsistent", RoutingKey(audit.ActionProviderInconsistent))
	assert.Equal(t, "audit.something_else", RoutingKey("something_else"))
}

func TestNewMessage(t *testing.T) {
	at := time.Date(2024, 6, 1, 10, 0, 0, 0, time.FixedZone("BRT", -3*3600))
	msg := NewMessage(audit.Event{
		ProviderID:  "p1",
		RequesterID: "u1",
		Action:      audit.ActionAppointmentBooked,
		Entity:      "appointment",
		EntityID:    "a1",
		OccurredAt:  at,
	})

	assert.Equal(t, "appointment.booked", msg.Event)
	assert.Equal(t, 1, msg.Version)
	assert.Equal(t, time.UTC, msg.OccurredAt.Location())

	b, err := json.Marshal(msg)
	require.NoError(t, err)
	assert.Contains(t, string(b), `"entity_id":"a1"`)
	assert.NotContains(t, string(b), "metadata")
}
