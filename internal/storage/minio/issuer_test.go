package minio_test

import (
	"context"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbox/internal/config"
	"linkbox/internal/domain"
	"linkbox/internal/port"
	"linkbox/internal/postpolicy"
	"linkbox/internal/storage/minio"
)

func newTestIssuer(t *testing.T, endpoint string) port.CredentialIssuer {
	t.Helper()
	// Region is set so no bucket-location lookup goes over the network.
	iss, err := minio.NewCredentialIssuer(&config.StorageConfig{
		Provider:  config.StorageProviderMinio,
		Region:    "us-east-1",
		Bucket:    "linkbox-dev",
		Endpoint:  endpoint,
		AccessKey: "minioadmin",
		SecretKey: "minioadmin",
	})
	require.NoError(t, err)
	return iss
}

func TestNewCredentialIssuer_RequiresEndpoint(t *testing.T) {
	_, err := minio.NewCredentialIssuer(&config.StorageConfig{Bucket: "b"})
	assert.ErrorContains(t, err, "endpoint")
}

func TestIssueUploadGrant_PolicyConstraints(t *testing.T) {
	iss := newTestIssuer(t, "http://localhost:9000")
	in := port.UploadGrantInput{
		StorageKey:   "uploads/aB3xY9-cat.png",
		ContentType:  "image/png",
		MaxSizeBytes: 1024,
		TTL:          time.Hour,
	}

	before := time.Now().UTC()
	grant, err := iss.IssueUploadGrant(context.Background(), in)
	require.NoError(t, err)

	assert.Equal(t, "http://localhost:9000/linkbox-dev/", grant.URL)
	assert.Equal(t, in.StorageKey, grant.Fields["key"])
	assert.Equal(t, "image/png", grant.Fields["Content-Type"])
	assert.Equal(t, "AWS4-HMAC-SHA256", grant.Fields["x-amz-algorithm"])
	assert.NotEmpty(t, grant.Fields["x-amz-signature"])
	assert.WithinDuration(t, before.Add(time.Hour), grant.ExpiresAt, 5*time.Second)

	doc, err := postpolicy.Decode(grant.Fields["policy"])
	require.NoError(t, err)

	rng, ok := doc.Find(postpolicy.MatchContentLengthRange, "")
	require.True(t, ok)
	assert.Equal(t, int64(1024), rng.Max)

	upload := postpolicy.Upload{Bucket: "linkbox-dev", Fields: grant.Fields, Size: 1024, At: before}
	assert.NoError(t, doc.Check(upload))

	upload.Size = 1025
	assert.ErrorIs(t, doc.Check(upload), postpolicy.ErrConditionFailed)
}

func TestIssueUploadGrant_InvalidInput(t *testing.T) {
	iss := newTestIssuer(t, "localhost:9000")

	_, err := iss.IssueUploadGrant(context.Background(), port.UploadGrantInput{
		StorageKey: "uploads/x", ContentType: "text/plain", TTL: time.Minute,
	})
	assert.ErrorIs(t, err, domain.ErrInvalidArgument)
}

func TestIssueDownloadGrant_SignedURL(t *testing.T) {
	iss := newTestIssuer(t, "https://storage.example.com")

	ref, err := iss.IssueDownloadGrant(context.Background(), "uploads/aB3xY9-cat.png", time.Hour)
	require.NoError(t, err)
	assert.Equal(t, domain.DownloadSigned, ref.Kind)
	require.NotNil(t, ref.ExpiresAt)

	u, err := url.Parse(ref.URL)
	require.NoError(t, err)
	assert.Equal(t, "https", u.Scheme)
	assert.Equal(t, "storage.example.com", u.Host)
	assert.True(t, strings.HasPrefix(u.Path, "/linkbox-dev/uploads/"), u.Path)
	assert.Equal(t, "3600", u.Query().Get("X-Amz-Expires"))
}

func TestIssueDownloadGrant_TTLOutOfRange(t *testing.T) {
	iss := newTestIssuer(t, "localhost:9000")

	_, err := iss.IssueDownloadGrant(context.Background(), "uploads/x", 8*24*time.Hour)
	assert.ErrorIs(t, err, domain.ErrIssuer)
}
