package s3

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"

	"linkbox/internal/config"
	"linkbox/internal/domain"
	"linkbox/internal/port"
	"linkbox/internal/postpolicy"
)

type issuer struct {
	bucket    string
	presigner *s3.PresignClient
	now       func() time.Time
}

// NewCredentialIssuer creates an S3-backed CredentialIssuer. Static keys in
// cfg take precedence over the default AWS credential chain.
func NewCredentialIssuer(ctx context.Context, cfg *config.StorageConfig) (port.CredentialIssuer, error) {
	var opts []func(*awsconfig.LoadOptions) error
	opts = append(opts, awsconfig.WithRegion(cfg.Region))

	if cfg.AccessKey != "" && cfg.SecretKey != "" {
		opts = append(opts, awsconfig.WithCredentialsProvider(
			credentials.NewStaticCredentialsProvider(cfg.AccessKey, cfg.SecretKey, ""),
		))
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("loading aws config: %w", err)
	}

	return newIssuer(awsCfg, cfg), nil
}

func newIssuer(awsCfg aws.Config, cfg *config.StorageConfig) *issuer {
	var s3Opts []func(*s3.Options)
	if cfg.Endpoint != "" {
		s3Opts = append(s3Opts, func(o *s3.Options) {
			o.BaseEndpoint = aws.String(cfg.Endpoint)
			o.UsePathStyle = true
		})
	}

	client := s3.NewFromConfig(awsCfg, s3Opts...)
	return &issuer{
		bucket:    cfg.Bucket,
		presigner: s3.NewPresignClient(client),
		now:       time.Now,
	}
}

func (c *issuer) IssueUploadGrant(ctx context.Context, input port.UploadGrantInput) (*domain.UploadGrant, error) {
	if err := validateUploadInput(input); err != nil {
		return nil, err
	}

	req, err := c.presigner.PresignPostObject(ctx, &s3.PutObjectInput{
		Bucket:      aws.String(c.bucket),
		Key:         aws.String(input.StorageKey),
		ContentType: aws.String(input.ContentType),
	}, func(o *s3.PresignPostOptions) {
		o.Expires = input.TTL
		o.Conditions = []interface{}{
			[]interface{}{postpolicy.MatchContentLengthRange, 0, input.MaxSizeBytes},
			map[string]string{"Content-Type": input.ContentType},
		}
	})
	if err != nil {
		return nil, fmt.Errorf("%w: s3 presign post: %w", domain.ErrIssuer, err)
	}

	// Read the constraints back from what was actually signed.
	doc, err := postpolicy.Decode(req.Values["policy"])
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrIssuer, err)
	}

	fields := make(map[string]string, len(req.Values)+1)
	for k, v := range req.Values {
		fields[k] = v
	}
	fields["Content-Type"] = input.ContentType

	return &domain.UploadGrant{
		URL:        req.URL,
		Fields:     fields,
		Conditions: doc.Conditions,
		ExpiresAt:  doc.Expiration,
	}, nil
}

func (c *issuer) IssueDownloadGrant(ctx context.Context, storageKey string, ttl time.Duration) (*domain.DownloadReference, error) {
	if storageKey == "" || ttl <= 0 {
		return nil, fmt.Errorf("%w: storage key and positive ttl are required", domain.ErrInvalidArgument)
	}

	now := c.now().UTC()
	result, err := c.presigner.PresignGetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(c.bucket),
		Key:    aws.String(storageKey),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return nil, fmt.Errorf("%w: s3 presign: %w", domain.ErrIssuer, err)
	}

	expiresAt := now.Add(ttl)
	return &domain.DownloadReference{
		URL:        result.URL,
		StorageKey: storageKey,
		Kind:       domain.DownloadSigned,
		ExpiresAt:  &expiresAt,
	}, nil
}

func validateUploadInput(input port.UploadGrantInput) error {
	switch {
	case strings.TrimSpace(input.StorageKey) == "":
		return fmt.Errorf("%w: storage key is required", domain.ErrInvalidArgument)
	case input.MaxSizeBytes <= 0:
		return fmt.Errorf("%w: max size must be positive", domain.ErrInvalidArgument)
	case input.TTL <= 0:
		return fmt.Errorf("%w: ttl must be positive", domain.ErrInvalidArgument)
	}
	return nil
}
