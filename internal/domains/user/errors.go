package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrEmailAlreadyExists = errors.New("User already exists")
)

// Service-level (business logic) errors
var (
	ErrInvalidCredentials = errors.New("Invalid credentials")
)
