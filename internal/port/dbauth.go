package port

import "context"

// ConnCredentialProvider supplies the password used when a new database
// connection is opened. Implementations may mint short-lived tokens.
type ConnCredentialProvider interface {
	Password(ctx context.Context) (string, error)
}
