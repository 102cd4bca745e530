package mocks

import (
	"context"

	"exampleapi/internal/messaging"
	"github.com/stretchr/testify/mock"
)

type MockEventProducer struct {
	mock.Mock
}

func (m *MockEventProducer) Publish(ctx context.Context, e messaging.Event) error {
	args := m.Called(ctx, e)
	return args.Error(0)
}
