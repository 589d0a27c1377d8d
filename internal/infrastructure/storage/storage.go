package storage

import (
	"context"
	"errors"
)

// Upload boundary failures, surfaced to the user as form errors.
var (
	ErrExtensionNotAllowed = errors.New("file extension not allowed")
	ErrTooLarge            = errors.New("file exceeds the maximum upload size")
)

// Backend persists processed cover images under an opaque name.
type Backend interface {
	Save(ctx context.Context, name string, data []byte, contentType string) error
	Remove(ctx context.Context, name string) error
	// URL returns the public path a stored file is served from.
	URL(name string) string
}
