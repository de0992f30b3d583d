package port

import (
	"context"
	"time"

	"linkbox/internal/domain"
)

// UploadGrantInput holds the constraints baked into an upload policy.
type UploadGrantInput struct {
	StorageKey   string
	ContentType  string
	MaxSizeBytes int64
	TTL          time.Duration
}

// CredentialIssuer mints time-bounded transfer credentials against the
// backing object store. Failures wrap domain.ErrIssuer. Implementations hold
// no per-call state and are safe for concurrent use.
type CredentialIssuer interface {
	IssueUploadGrant(ctx context.Context, input UploadGrantInput) (*domain.UploadGrant, error)
	IssueDownloadGrant(ctx context.Context, storageKey string, ttl time.Duration) (*domain.DownloadReference, error)
}
