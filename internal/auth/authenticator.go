// Package auth is the identity provider: it registers users, checks their
// credentials and issues the session tokens the API trusts.
package auth

import (
	"context"

	"github.com/mmynk/splitledger/internal/models"
)

// Authenticator registers and verifies users. Implementations differ in the
// credential they accept; the service layer only sees this interface.
type Authenticator interface {
	// Register creates a new account. The email must not be taken.
	Register(ctx context.Context, email, displayName, credential string) (*models.User, error)

	// Authenticate returns the user whose credential matches, or
	// ErrInvalidCredentials.
	Authenticate(ctx context.Context, email, credential string) (*models.User, error)

	// ValidateCredential checks the credential against the implementation's rules.
	ValidateCredential(credential string) error

	// User returns the user with the given ID.
	User(ctx context.Context, id string) (*models.User, error)
}
