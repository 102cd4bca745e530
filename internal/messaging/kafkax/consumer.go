package kafkax

import (
	"context"
	"log/slog"
	"time"

	"github.com/segmentio/kafka-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// Handler receives the raw message value as text.
type Handler func(ctx context.Context, message string) error

type messageReader interface {
	ReadMessage(ctx context.Context) (kafka.Message, error)
	Close() error
}

// ConsumerConfig selects the subscription.
type ConsumerConfig struct {
	Brokers string
	GroupID string
	Topic   string
}

// Consumer delivers messages from one topic to a Handler, one at a time.
type Consumer struct {
	reader         messageReader
	logger         *slog.Logger
	handler        Handler
	backoff        time.Duration
	handlerTimeout time.Duration
}

func NewConsumer(logger *slog.Logger, cfg ConsumerConfig, handler Handler) *Consumer {
	reader := kafka.NewReader(kafka.ReaderConfig{
		Brokers:  SplitBrokers(cfg.Brokers),
		GroupID:  cfg.GroupID,
		Topic:    cfg.Topic,
		MinBytes: 1,
		MaxBytes: 10e6,
	})
	return &Consumer{
		reader:         reader,
		logger:         logger.With("component", "kafka_consumer", "topic", cfg.Topic),
		handler:        handler,
		backoff:        time.Second,
		handlerTimeout: 30 * time.Second,
	}
}

// Run blocks until ctx is cancelled. Read and handler errors are logged and skipped.
// A message already read when ctx is cancelled is still handed to the handler,
// since its offset is committed by then; Run returns once that handler finishes.
func (c *Consumer) Run(ctx context.Context) {
	defer c.reader.Close()

	for {
		msg, err := c.reader.ReadMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.logger.Error("kafka read error", "err", err)
			select {
			case <-ctx.Done():
				return
			case <-time.After(c.backoff):
			}
			continue
		}

		c.dispatch(ctx, msg)
	}
}

func (c *Consumer) dispatch(ctx context.Context, msg kafka.Message) {
	ctxMsg, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.timeout())
	defer cancel()
	ctxMsg = extractTraceContext(ctxMsg, msg)
	ctxSpan, span := otel.Tracer("kafka").Start(ctxMsg, "kafka.consume",
		trace.WithSpanKind(trace.SpanKindConsumer),
		trace.WithAttributes(
			attribute.String("messaging.system", "kafka"),
			attribute.String("messaging.destination", msg.Topic),
			attribute.Int64("messaging.kafka.offset", msg.Offset),
		),
	)
	defer span.End()

	if err := c.handler(ctxSpan, string(msg.Value)); err != nil {
		c.logger.Error("handler error",
			"err", err,
			"event_id", HeaderValue(msg.Headers, HeaderEventID),
			"offset", msg.Offset,
		)
		span.RecordError(err)
	}
}

func (c *Consumer) timeout() time.Duration {
	if c.handlerTimeout <= 0 {
		return 30 * time.Second
	}
	return c.handlerTimeout
}
