// Package storage selects the CredentialIssuer implementation for the
// configured object store.
package storage

import (
	"context"
	"fmt"

	"linkbox/internal/config"
	"linkbox/internal/port"
	"linkbox/internal/storage/minio"
	"linkbox/internal/storage/s3"
)

// NewCredentialIssuer returns the issuer for cfg.Provider.
func NewCredentialIssuer(ctx context.Context, cfg *config.StorageConfig) (port.CredentialIssuer, error) {
	switch cfg.Provider {
	case config.StorageProviderS3, "":
		return s3.NewCredentialIssuer(ctx, cfg)
	case config.StorageProviderMinio:
		return minio.NewCredentialIssuer(cfg)
	default:
		return nil, fmt.Errorf("unsupported storage provider %q", cfg.Provider)
	}
}
