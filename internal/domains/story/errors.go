package story

import "errors"

var (
	ErrStoryNotFound = errors.New("story not found")

	// ErrNotAuthor: the caller is authenticated but lacks the author flag.
	ErrNotAuthor = errors.New("only authors can create stories")

	ErrNotAuthenticated = errors.New("authentication required")
)
