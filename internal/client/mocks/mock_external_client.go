package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"
)

type MockExternalServiceClient struct {
	mock.Mock
}

func (m *MockExternalServiceClient) FetchExternalData(ctx context.Context, resourceID string) (string, bool) {
	args := m.Called(ctx, resourceID)
	return args.String(0), args.Bool(1)
}

func (m *MockExternalServiceClient) NotifyExternalService(ctx context.Context, eventType, payload string) {
	m.Called(ctx, eventType, payload)
}
