package user

import "errors"

// Repository-level errors
var (
	ErrUserNotFound  = errors.New("user not found")
	ErrUsernameTaken = errors.New("username already exists")
	ErrEmailTaken    = errors.New("email already exists")
)

// Service-level errors
var (
	// ErrInvalidCredentials is deliberately generic: the caller must not be
	// able to tell whether the email or the password was wrong.
	ErrInvalidCredentials = errors.New("invalid email or password")
)
