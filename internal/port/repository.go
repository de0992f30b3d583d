package port

import (
	"context"

	"linkbox/internal/domain"
)

// FileObjectRepository defines the contract for file metadata persistence.
// Records are create-once; there is no update or delete.
type FileObjectRepository interface {
	// Create fails with domain.ErrConflict when the id or storage key exists.
	Create(ctx context.Context, obj *domain.FileObject) error
	// GetByID fails with domain.ErrNotFound when no record exists.
	GetByID(ctx context.Context, id string) (*domain.FileObject, error)
}

// FileObjectCache is an optional read-through cache in front of the
// repository. Only immutable records are cached, never grants.
type FileObjectCache interface {
	Get(ctx context.Context, id string) (*domain.FileObject, bool, error)
	Set(ctx context.Context, obj *domain.FileObject) error
}
