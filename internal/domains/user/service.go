package user

import (
	"context"
)

// Service defines the business logic for registration and login.
type Service interface {
	// Register creates an account and returns a signed access token.
	// Errors: ErrEmailAlreadyExists when the email is taken.
	Register(ctx context.Context, req RegisterRequest) (*TokenResponse, error)

	// Login verifies credentials and returns a signed access token.
	// Errors: ErrInvalidCredentials for unknown email or wrong password.
	Login(ctx context.Context, req LoginRequest) (*TokenResponse, error)
}
