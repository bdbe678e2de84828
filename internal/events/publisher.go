package events

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
)

// Publisher forwards audit events to a RabbitMQ topic exchange.
type Publisher struct {
	conn     *amqp.Connection
	ch       *amqp.Channel
	exchange string
}

func NewPublisher(url, exchange string) (*Publisher, error) {
	conn, err := amqp.Dial(url)
	if err != nil {
		return nil, fmt.Errorf("dial rabbitmq: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, "topic", true, false, false, false, nil); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, fmt.Errorf("declare exchange: %w", err)
	}
	return &Publisher{conn: conn, ch: ch, exchange: exchange}, nil
}

// Message is the JSON body published for every event.
type Message struct {
	Event       string    `json:"event"`
	Version     int       `json:"version"`
	ProviderID  string    `json:"provider_id,omitempty"`
	RequesterID string    `json:"requester_id,omitempty"`
	Entity      string    `json:"entity,omitempty"`
	EntityID    string    `json:"entity_id,omitempty"`
	Metadata    any       `json:"metadata,omitempty"`
	OccurredAt  time.Time `json:"occurred_at"`
}

// RoutingKey maps an audit action to its topic key, e.g.
// appointment_booked -> appointment.booked.
func RoutingKey(action string) string {
	switch action {
	case audit.ActionAppointmentBooked:
		return "appointment.booked"
	case audit.ActionAppointmentCancelled:
		return "appointment.cancelled"
	case audit.ActionReservationCompensated:
		return "appointment.compensated"
	case audit.ActionAppointmentInconsistent:
		return "appointment.inconsistent"
	case audit.ActionProviderCreated:
		return "provider.created"
	case audit.ActionProviderUpdated:
		return "provider.updated"
	case audit.ActionProviderInconsistent:
		return "provider.inconsistent"
	default:
		return "audit." + action
	}
}

func NewMessage(ev audit.Event) Message {
	return Message{
		Event:       RoutingKey(ev.Action),
		Version:     1,
		ProviderID:  ev.ProviderID,
		RequesterID: ev.RequesterID,
		Entity:      ev.Entity,
		EntityID:    ev.EntityID,
		Metadata:    ev.Metadata,
		OccurredAt:  ev.OccurredAt.UTC(),
	}
}

func (p *Publisher) Record(ctx context.Context, ev audit.Event) error {
	msg := NewMessage(ev)
	return p.PublishJSON(ctx, msg.Event, msg)
}

func (p *Publisher) PublishJSON(ctx context.Context, key string, v any) error {
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return p.ch.PublishWithContext(ctx, p.exchange, key, false, false, amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now(),
		Body:         b,
	})
}

func (p *Publisher) Close() error {
	if p.ch != nil {
		_ = p.ch.Close()
	}
	if p.conn != nil {
		return p.conn.Close()
	}
	return nil
}

var _ audit.Sink = (*Publisher)(nil)
