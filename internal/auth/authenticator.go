package auth

import (
	"context"

	"github.com/mmynk/mealbook/internal/models"
)

// Authenticator maps a presented credential to an access level.
// This abstraction allows swapping between different auth methods without
// changing the service layer code.
type Authenticator interface {
	// Authenticate returns the level granted by credential, or
	// ErrInvalidCredentials when it grants none.
	Authenticate(ctx context.Context, credential string) (models.AccessLevel, error)
}
