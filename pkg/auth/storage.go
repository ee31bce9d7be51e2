package auth

import "context"

// Storage is the user store capability this package depends on. The backing
// store enforces email uniqueness; CreateUser surfaces a violated constraint
// as ErrEmailTaken so concurrent first-logins for the same address resolve
// deterministically.
type Storage interface {
	// GetUserByEmail looks up a user by normalized email. Returns
	// ErrUserNotFound when no record exists.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// CreateUser inserts a new user and returns it with the assigned id and
	// creation timestamp. Returns ErrEmailTaken when the email is already
	// registered.
	CreateUser(ctx context.Context, user *User) (*User, error)

	// SetUserVerified marks the user's email as verified.
	SetUserVerified(ctx context.Context, userID int64) error

	// ListUsers returns all users for administrative read paths.
	ListUsers(ctx context.Context) ([]User, error)
}
