package kafkax

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
	"go.opentelemetry.io/otel/trace"

	"exampleapi/internal/logger"
	"exampleapi/internal/messaging"
)

type fakeWriter struct {
	msgs []kafka.Message
	err  error
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

type fakeReader struct {
	mu     sync.Mutex
	msgs   []kafka.Message
	errs   []error
	closed bool
}

func (r *fakeReader) ReadMessage(ctx context.Context) (kafka.Message, error) {
	r.mu.Lock()
	if len(r.errs) > 0 {
		err := r.errs[0]
		r.errs = r.errs[1:]
		r.mu.Unlock()
		return kafka.Message{}, err
	}
	if len(r.msgs) > 0 {
		m := r.msgs[0]
		r.msgs = r.msgs[1:]
		r.mu.Unlock()
		return m, nil
	}
	r.mu.Unlock()
	<-ctx.Done()
	return kafka.Message{}, ctx.Err()
}

func (r *fakeReader) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	return nil
}

func TestSplitBrokers(t *testing.T) {
	assert.Equal(t, []string{"a:9092", "b:9092"}, SplitBrokers(" a:9092, ,b:9092 "))
	assert.Empty(t, SplitBrokers(""))
}

func TestHeaderCarrier_RoundTrip(t *testing.T) {
	prev := otel.GetTextMapPropagator()
	otel.SetTextMapPropagator(propagation.TraceContext{})
	defer otel.SetTextMapPropagator(prev)

	traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
	spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
	sc := trace.NewSpanContext(trace.SpanContextConfig{
		TraceID:    traceID,
		SpanID:     spanID,
		TraceFlags: trace.FlagsSampled,
	})
	ctx := trace.ContextWithSpanContext(context.Background(), sc)

	headers := injectTraceHeaders(ctx, []kafka.Header{{Key: HeaderEventID, Value: []byte("e1")}})
	assert.NotEmpty(t, HeaderValue(headers, "traceparent"))
	assert.Equal(t, "e1", HeaderValue(headers, HeaderEventID))

	got := trace.SpanContextFromContext(extractTraceContext(context.Background(), kafka.Message{Headers: headers}))
	assert.Equal(t, traceID, got.TraceID())
	assert.Equal(t, spanID, got.SpanID())
}

func TestHeaderCarrier_SetOverwrites(t *testing.T) {
	c := &headerCarrier{headers: []kafka.Header{{Key: "k", Value: []byte("old")}}}
	c.Set("k", "new")
	c.Set("other", "v")

	assert.Len(t, c.headers, 2)
	assert.Equal(t, "new", c.Get("k"))
	assert.ElementsMatch(t, []string{"k", "other"}, c.Keys())
}

func TestProducer_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := &Producer{writer: w, topic: "example.events"}

	e := messaging.NewEvent("example.created", "key-1", []byte(`{"id":"1"}`))
	require.NoError(t, p.Publish(context.Background(), e))

	require.Len(t, w.msgs, 1)
	msg := w.msgs[0]
	assert.Equal(t, "example.events", msg.Topic)
	assert.Equal(t, "key-1", string(msg.Key))
	assert.Equal(t, `{"id":"1"}`, string(msg.Value))
	assert.Equal(t, e.ID, HeaderValue(msg.Headers, HeaderEventID))
	assert.Equal(t, "example.created", HeaderValue(msg.Headers, HeaderEventType))
}

func TestProducer_PublishError(t *testing.T) {
	p := &Producer{writer: &fakeWriter{err: errors.New("broker down")}, topic: "t"}

	err := p.Publish(context.Background(), messaging.NewEvent("example.created", "k", nil))

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "kafka write example.created: broker down")
}

func TestConsumer_Run(t *testing.T) {
	r := &fakeReader{
		errs: []error{errors.New("transient")},
		msgs: []kafka.Message{
			{Topic: "example.queue", Value: []byte("first")},
			{Topic: "example.queue", Value: []byte("second")},
			{Topic: "example.queue", Value: []byte("third")},
		},
	}

	var (
		mu  sync.Mutex
		got []string
	)
	ctx, cancel := context.WithCancel(context.Background())
	handler := func(_ context.Context, message string) error {
		mu.Lock()
		defer mu.Unlock()
		got = append(got, message)
		if message == "second" {
			return errors.New("handler failed")
		}
		if len(got) == 3 {
			cancel()
		}
		return nil
	}

	c := &Consumer{reader: r, logger: logger.Discard(), handler: handler, backoff: time.Millisecond}

	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"first", "second", "third"}, got)
	assert.True(t, r.closed)
}

func TestConsumer_FinishesInFlightMessageOnCancel(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{{Topic: "example.queue", Value: []byte("in-flight")}}}

	started := make(chan struct{})
	release := make(chan struct{})
	handlerErr := make(chan error, 1)
	handler := func(ctx context.Context, _ string) error {
		close(started)
		<-release
		handlerErr <- ctx.Err()
		return nil
	}

	c := &Consumer{reader: r, logger: logger.Discard(), handler: handler, backoff: time.Millisecond, handlerTimeout: time.Minute}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		c.Run(ctx)
		close(done)
	}()

	<-started
	cancel()

	select {
	case <-done:
		t.Fatal("consumer returned before the in-flight handler finished")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	assert.NoError(t, <-handlerErr)

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("consumer did not stop after cancel")
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	assert.True(t, r.closed)
}

func TestConsumer_HandlerTimeout(t *testing.T) {
	r := &fakeReader{msgs: []kafka.Message{{Topic: "example.queue", Value: []byte("slow")}}}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	handlerErr := make(chan error, 1)
	handler := func(hctx context.Context, _ string) error {
		<-hctx.Done()
		handlerErr <- hctx.Err()
		cancel()
		return hctx.Err()
	}

	c := &Consumer{reader: r, logger: logger.Discard(), handler: handler, backoff: time.Millisecond, handlerTimeout: 10 * time.Millisecond}
	c.Run(ctx)

	assert.ErrorIs(t, <-handlerErr, context.DeadlineExceeded)
}

func TestReadyCheck_NoBrokers(t *testing.T) {
	err := ReadyCheck("")(context.Background())
	assert.EqualError(t, err, "kafka brokers not configured")
}
