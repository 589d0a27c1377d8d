package storage

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// formats maps allowed extensions to the re-encode format and content type.
var formats = map[string]struct {
	format      string
	contentType string
}{
	".jpg":  {"jpeg", "image/jpeg"},
	".jpeg": {"jpeg", "image/jpeg"},
	".png":  {"png", "image/png"},
}

// Uploader is the cover-image pipeline: allow-list the extension, downscale,
// then persist under a random name so originals never collide or leak.
type Uploader struct {
	backend   Backend
	processor *ImageProcessor
	maxBytes  int64
}

func NewUploader(backend Backend, processor *ImageProcessor, maxBytes int64) *Uploader {
	return &Uploader{
		backend:   backend,
		processor: processor,
		maxBytes:  maxBytes,
	}
}

// Store validates and persists one upload, returning the stored filename.
// The size cap is also enforced at the HTTP boundary; this check covers
// callers that bypass it.
func (u *Uploader) Store(ctx context.Context, data []byte, originalName string) (string, error) {
	if int64(len(data)) > u.maxBytes {
		return "", ErrTooLarge
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	spec, ok := formats[ext]
	if !ok {
		return "", ErrExtensionNotAllowed
	}

	processed, err := u.processor.Thumbnail(data, spec.format)
	if err != nil {
		return "", err
	}

	name := newObjectName(ext)
	if err := u.backend.Save(ctx, name, processed, spec.contentType); err != nil {
		return "", err
	}
	return name, nil
}

// URL resolves a stored filename to its public location.
func (u *Uploader) URL(name string) string {
	return u.backend.URL(name)
}

// newObjectName returns a 32-char hex token plus the original extension.
func newObjectName(ext string) string {
	return strings.ReplaceAll(uuid.NewString(), "-", "") + ext
}
