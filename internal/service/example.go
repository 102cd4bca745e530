package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"exampleapi/internal/client"
	"exampleapi/internal/dto"
	"exampleapi/internal/messaging"
	"exampleapi/internal/model"
)

var (
	ErrIDRequired       = errors.New("id is required")
	ErrExampleRequired  = errors.New("example is required")
	ErrResourceNotFound = errors.New("external resource not found")
)

// Event types published after each change.
const (
	EventExampleCreated = "example.created"
	EventExampleUpdated = "example.updated"
)

// ExampleService defines the use cases around the Example entity.
type ExampleService interface {
	// Create builds a new Example from req, then publishes and notifies example.created.
	Create(ctx context.Context, req dto.ExampleRequest) (*model.Example, error)

	// Update replaces the details of e, then publishes and notifies example.updated.
	// The caller owns e and must serialize concurrent updates.
	Update(ctx context.Context, e *model.Example, req dto.ExampleRequest) error

	// FetchResource returns the external resource body for id.
	FetchResource(ctx context.Context, id string) (string, error)
}

type exampleService struct {
	client   client.ExternalServiceClient
	producer messaging.EventProducer
}

// NewExampleService constructs a new ExampleService.
func NewExampleService(c client.ExternalServiceClient, p messaging.EventProducer) ExampleService {
	return &exampleService{client: c, producer: p}
}

func (s *exampleService) Create(ctx context.Context, req dto.ExampleRequest) (*model.Example, error) {
	e := model.NewExample(req.Name, req.Description)
	if err := s.announce(ctx, EventExampleCreated, e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *exampleService) Update(ctx context.Context, e *model.Example, req dto.ExampleRequest) error {
	if e == nil {
		return ErrExampleRequired
	}
	e.UpdateDetails(req.Name, req.Description)
	return s.announce(ctx, EventExampleUpdated, e)
}

func (s *exampleService) FetchResource(ctx context.Context, id string) (string, error) {
	if id == "" {
		return "", ErrIDRequired
	}
	body, ok := s.client.FetchExternalData(ctx, id)
	if !ok {
		return "", ErrResourceNotFound
	}
	return body, nil
}

// announce publishes the event first; the external notification is best effort and
// only attempted once the event is on the bus.
func (s *exampleService) announce(ctx context.Context, eventType string, e *model.Example) error {
	payload, err := json.Marshal(dto.FromExample(e))
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	if err := s.producer.Publish(ctx, messaging.NewEvent(eventType, e.ID().String(), payload)); err != nil {
		return fmt.Errorf("publish event: %w", err)
	}

	s.client.NotifyExternalService(ctx, eventType, string(payload))
	return nil
}
