package user

import "context"

// Repository is the user data access contract.
type Repository interface {
	// Create inserts the user and returns its id.
	// Returns ErrUsernameTaken or ErrEmailTaken on a unique violation; the
	// database constraint is the final authority over duplicates.
	Create(ctx context.Context, u *User) (int64, error)

	// FindByID returns ErrUserNotFound when no such user exists.
	FindByID(ctx context.Context, id int64) (*User, error)

	// FindByEmail is the login lookup. Returns ErrUserNotFound when absent.
	FindByEmail(ctx context.Context, email string) (*User, error)

	// ExistsByUsername and ExistsByEmail back the friendly duplicate
	// pre-checks at registration.
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
}
