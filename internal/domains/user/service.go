package user

import "context"

// Service is the authentication business logic contract. Session
// establishment itself lives at the HTTP layer; the service only answers
// identity questions.
type Service interface {
	// Register creates an account. Duplicate username/email are rejected by
	// query before any write; only a bcrypt hash of the password is stored.
	Register(ctx context.Context, req RegisterRequest) (*User, error)

	// Authenticate checks credentials and returns the matching user, or
	// ErrInvalidCredentials without disclosing which field was wrong.
	Authenticate(ctx context.Context, req LoginRequest) (*User, error)

	// GetByID resolves a session's user id to the full record.
	GetByID(ctx context.Context, id int64) (*User, error)
}
