package mocks

import (
	"context"

	"exampleapi/internal/dto"
	"exampleapi/internal/model"
	"github.com/stretchr/testify/mock"
)

type MockExampleService struct {
	mock.Mock
}

func (m *MockExampleService) Create(ctx context.Context, req dto.ExampleRequest) (*model.Example, error) {
	args := m.Called(ctx, req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.Example), args.Error(1)
}

func (m *MockExampleService) Update(ctx context.Context, e *model.Example, req dto.ExampleRequest) error {
	args := m.Called(ctx, e, req)
	return args.Error(0)
}

func (m *MockExampleService) FetchResource(ctx context.Context, id string) (string, error) {
	args := m.Called(ctx, id)
	return args.String(0), args.Error(1)
}
