package user

import (
	"context"
)

// Repository defines data access for the user domain.
// Exposing an interface keeps the Postgres implementation swappable and
// lets services be tested against an in-memory double.
type Repository interface {
	// Create inserts a new user and returns it with generated id and timestamps.
	// Errors: ErrEmailAlreadyExists on duplicate email.
	Create(ctx context.Context, u *User) (*User, error)

	// FindByEmail loads the columns needed for authentication.
	// Errors: ErrUserNotFound if the email is unknown.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByEmail checks uniqueness without fetching the row.
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
