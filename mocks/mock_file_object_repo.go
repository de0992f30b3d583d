package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linkbox/internal/domain"
)

// MockFileObjectRepo is a mock implementation of port.FileObjectRepository.
type MockFileObjectRepo struct {
	mock.Mock
}

func (m *MockFileObjectRepo) Create(ctx context.Context, obj *domain.FileObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}

func (m *MockFileObjectRepo) GetByID(ctx context.Context, id string) (*domain.FileObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileObject), args.Error(1)
}
