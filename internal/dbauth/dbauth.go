// Package dbauth supplies database connection passwords, either the static
// one from configuration or a per-connection RDS IAM auth token.
package dbauth

import (
	"context"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/feature/rds/auth"

	"linkbox/internal/config"
	"linkbox/internal/port"
)

// New returns the credential provider selected by cfg.IAMAuth. With IAM auth
// enabled, AWS credentials come from the default credential chain.
func New(ctx context.Context, cfg *config.DBConfig) (port.ConnCredentialProvider, error) {
	if !cfg.IAMAuth {
		return NewStatic(cfg.Password), nil
	}

	awsCfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(cfg.Region))
	if err != nil {
		return nil, fmt.Errorf("loading AWS config for RDS IAM auth: %w", err)
	}
	return NewRDSIAM(cfg.Endpoint(), cfg.Region, cfg.User, awsCfg.Credentials), nil
}

// Static always returns the same password.
type Static struct {
	password string
}

func NewStatic(password string) *Static {
	return &Static{password: password}
}

func (s *Static) Password(_ context.Context) (string, error) {
	return s.password, nil
}

// RDSIAM mints a fresh IAM auth token for every new connection. Tokens are
// valid for 15 minutes, which only has to cover the connection handshake.
type RDSIAM struct {
	endpoint string
	region   string
	user     string
	creds    aws.CredentialsProvider
}

func NewRDSIAM(endpoint, region, user string, creds aws.CredentialsProvider) *RDSIAM {
	return &RDSIAM{endpoint: endpoint, region: region, user: user, creds: creds}
}

func (p *RDSIAM) Password(ctx context.Context) (string, error) {
	token, err := auth.BuildAuthToken(ctx, p.endpoint, p.region, p.user, p.creds)
	if err != nil {
		return "", fmt.Errorf("building RDS IAM auth token: %w", err)
	}
	return token, nil
}
