package kafkax

import (
	"context"
	"fmt"

	"github.com/segmentio/kafka-go"

	"exampleapi/internal/messaging"
)

type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Producer publishes domain events to a single Kafka topic.
type Producer struct {
	writer messageWriter
	topic  string
}

// NewProducer creates a Producer writing to topic on the given brokers.
func NewProducer(brokers, topic string) *Producer {
	w := &kafka.Writer{
		Addr:                   kafka.TCP(SplitBrokers(brokers)...),
		Balancer:               &kafka.Hash{},
		AllowAutoTopicCreation: true,
	}
	return &Producer{writer: w, topic: topic}
}

var _ messaging.EventProducer = (*Producer)(nil)

// Publish writes e synchronously. The event key drives partitioning.
func (p *Producer) Publish(ctx context.Context, e messaging.Event) error {
	if err := p.writer.WriteMessages(ctx, p.message(ctx, e)); err != nil {
		return fmt.Errorf("kafka write %s: %w", e.Type, err)
	}
	return nil
}

func (p *Producer) message(ctx context.Context, e messaging.Event) kafka.Message {
	msg := kafka.Message{
		Topic: p.topic,
		Key:   []byte(e.Key),
		Value: e.Payload,
		Headers: []kafka.Header{
			{Key: HeaderEventID, Value: []byte(e.ID)},
			{Key: HeaderEventType, Value: []byte(e.Type)},
		},
	}
	msg.Headers = injectTraceHeaders(ctx, msg.Headers)
	return msg
}

func (p *Producer) Close() error {
	return p.writer.Close()
}
