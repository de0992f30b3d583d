package domain

import (
	"time"

	"linkbox/internal/postpolicy"
)

// FileObject is the persisted metadata for one issued upload grant.
// Records are immutable once created.
type FileObject struct {
	ID               string    `db:"id" json:"id"`
	OriginalFilename string    `db:"original_filename" json:"original_filename"`
	StorageKey       string    `db:"s3_key" json:"s3_key"`
	ContentType      *string   `db:"content_type" json:"content_type"`
	SizeBytes        *int64    `db:"size_bytes" json:"size_bytes"`
	CreatedAt        time.Time `db:"created_at" json:"created_at"`
}

// UploadGrant is a policy-constrained browser POST credential. It is minted
// per request and never persisted.
type UploadGrant struct {
	URL        string                 `json:"url"`
	Fields     map[string]string      `json:"fields"`
	Conditions []postpolicy.Condition `json:"conditions"`
	ExpiresAt  time.Time              `json:"expires_at"`
}

// DownloadReference points a client at the bytes behind a storage key.
type DownloadReference struct {
	URL        string                `json:"url"`
	StorageKey string                `json:"storage_key"`
	Kind       DownloadReferenceKind `json:"kind"`
	ExpiresAt  *time.Time            `json:"expires_at,omitempty"`
}
