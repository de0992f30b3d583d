package storage_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"linkbox/internal/config"
	"linkbox/internal/storage"
)

func TestNewCredentialIssuer(t *testing.T) {
	base := config.StorageConfig{
		Region:    "us-east-1",
		Bucket:    "linkbox-test",
		AccessKey: "AKIDEXAMPLE",
		SecretKey: "secret",
	}

	s3cfg := base
	s3cfg.Provider = config.StorageProviderS3
	iss, err := storage.NewCredentialIssuer(context.Background(), &s3cfg)
	require.NoError(t, err)
	assert.NotNil(t, iss)

	minioCfg := base
	minioCfg.Provider = config.StorageProviderMinio
	minioCfg.Endpoint = "http://localhost:9000"
	iss, err = storage.NewCredentialIssuer(context.Background(), &minioCfg)
	require.NoError(t, err)
	assert.NotNil(t, iss)

	bad := base
	bad.Provider = "gcs"
	iss, err = storage.NewCredentialIssuer(context.Background(), &bad)
	assert.Nil(t, iss)
	assert.ErrorContains(t, err, "unsupported storage provider")
}
