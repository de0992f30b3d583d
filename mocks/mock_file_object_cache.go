package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linkbox/internal/domain"
)

// MockFileObjectCache is a mock implementation of port.FileObjectCache.
type MockFileObjectCache struct {
	mock.Mock
}

func (m *MockFileObjectCache) Get(ctx context.Context, id string) (*domain.FileObject, bool, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Bool(1), args.Error(2)
	}
	return args.Get(0).(*domain.FileObject), args.Bool(1), args.Error(2)
}

func (m *MockFileObjectCache) Set(ctx context.Context, obj *domain.FileObject) error {
	args := m.Called(ctx, obj)
	return args.Error(0)
}
