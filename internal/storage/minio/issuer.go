// Package minio issues transfer credentials against MinIO or any other
// S3-compatible endpoint through minio-go.
package minio

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"

	"linkbox/internal/config"
	"linkbox/internal/domain"
	"linkbox/internal/port"
	"linkbox/internal/postpolicy"
)

type issuer struct {
	client *minio.Client
	bucket string
	now    func() time.Time
}

// NewCredentialIssuer creates a minio-backed CredentialIssuer. The endpoint
// may carry a scheme; without one TLS is assumed.
func NewCredentialIssuer(cfg *config.StorageConfig) (port.CredentialIssuer, error) {
	host, secure, err := parseEndpoint(cfg.Endpoint)
	if err != nil {
		return nil, err
	}

	client, err := minio.New(host, &minio.Options{
		Creds:        credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:       secure,
		Region:       cfg.Region,
		BucketLookup: minio.BucketLookupPath,
	})
	if err != nil {
		return nil, fmt.Errorf("creating minio client: %w", err)
	}

	return &issuer{client: client, bucket: cfg.Bucket, now: time.Now}, nil
}

func parseEndpoint(endpoint string) (host string, secure bool, err error) {
	endpoint = strings.TrimSpace(endpoint)
	if endpoint == "" {
		return "", false, fmt.Errorf("minio endpoint is required")
	}
	if !strings.Contains(endpoint, "://") {
		return strings.TrimRight(endpoint, "/"), true, nil
	}

	u, err := url.Parse(endpoint)
	if err != nil {
		return "", false, fmt.Errorf("parsing minio endpoint: %w", err)
	}
	return u.Host, u.Scheme == "https", nil
}

func (c *issuer) IssueUploadGrant(ctx context.Context, input port.UploadGrantInput) (*domain.UploadGrant, error) {
	if strings.TrimSpace(input.StorageKey) == "" || input.MaxSizeBytes <= 0 || input.TTL <= 0 {
		return nil, fmt.Errorf("%w: storage key, positive max size and ttl are required", domain.ErrInvalidArgument)
	}

	policy := minio.NewPostPolicy()
	if err := policy.SetBucket(c.bucket); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}
	if err := policy.SetKey(input.StorageKey); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}
	if err := policy.SetContentType(input.ContentType); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}
	if err := policy.SetContentLengthRange(0, input.MaxSizeBytes); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}
	if err := policy.SetExpires(c.now().UTC().Add(input.TTL)); err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}

	u, formData, err := c.client.PresignedPostPolicy(ctx, policy)
	if err != nil {
		return nil, fmt.Errorf("%w: minio presign post: %w", domain.ErrIssuer, err)
	}

	// Read the constraints back from what was actually signed.
	doc, err := postpolicy.Decode(formData["policy"])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}

	return &domain.UploadGrant{
		URL:        u.String(),
		Fields:     formData,
		Conditions: doc.Conditions,
		ExpiresAt:  doc.Expiration,
	}, nil
}

func (c *issuer) IssueDownloadGrant(ctx context.Context, storageKey string, ttl time.Duration) (*domain.DownloadReference, error) {
	if storageKey == "" || ttl <= 0 {
		return nil, fmt.Errorf("%w: storage key and positive ttl are required", domain.ErrInvalidArgument)
	}

	now := c.now().UTC()
	u, err := c.client.PresignedGetObject(ctx, c.bucket, storageKey, ttl, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: minio presign get: %w", domain.ErrIssuer, err)
	}

	expiresAt := now.Add(ttl)
	return &domain.DownloadReference{
		URL:        u.String(),
		StorageKey: storageKey,
		Kind:       domain.DownloadSigned,
		ExpiresAt:  &expiresAt,
	}, nil
}
