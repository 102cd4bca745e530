package messaging

import (
	"context"
	"log/slog"

	"github.com/google/uuid"
)

// Event is the envelope published for every domain change.
type Event struct {
	ID      string
	Type    string
	Key     string
	Payload []byte
}

// NewEvent stamps a fresh event id on the given type, key and payload.
func NewEvent(eventType, key string, payload []byte) Event {
	return Event{
		ID:      uuid.NewString(),
		Type:    eventType,
		Key:     key,
		Payload: payload,
	}
}

// EventProducer is the outbound port for publishing domain events.
type EventProducer interface {
	Publish(ctx context.Context, e Event) error
}

// LogProducer only logs events. It stands in when no broker is configured.
type LogProducer struct {
	Logger *slog.Logger
}

func (p LogProducer) Publish(_ context.Context, e Event) error {
	p.Logger.Info("event not published (no broker configured)",
		"event_id", e.ID,
		"event_type", e.Type,
		"key", e.Key,
	)
	return nil
}
