package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"linkbox/internal/domain"
	"linkbox/internal/service"
)

// MockTransferService is a mock implementation of service.TransferService.
type MockTransferService struct {
	mock.Mock
}

func (m *MockTransferService) RequestUpload(ctx context.Context, input service.RequestUploadInput) (*service.UploadResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*service.UploadResult), args.Error(1)
}

func (m *MockTransferService) GetMetadata(ctx context.Context, id string) (*domain.FileObject, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.FileObject), args.Error(1)
}

func (m *MockTransferService) GetDownloadReference(ctx context.Context, id string) (*domain.DownloadReference, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DownloadReference), args.Error(1)
}
