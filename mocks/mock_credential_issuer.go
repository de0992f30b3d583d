package mocks

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"linkbox/internal/domain"
	"linkbox/internal/port"
)

// MockCredentialIssuer is a mock implementation of port.CredentialIssuer.
type MockCredentialIssuer struct {
	mock.Mock
}

func (m *MockCredentialIssuer) IssueUploadGrant(ctx context.Context, input port.UploadGrantInput) (*domain.UploadGrant, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UploadGrant), args.Error(1)
}

func (m *MockCredentialIssuer) IssueDownloadGrant(ctx context.Context, storageKey string, ttl time.Duration) (*domain.DownloadReference, error) {
	args := m.Called(ctx, storageKey, ttl)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.DownloadReference), args.Error(1)
}
