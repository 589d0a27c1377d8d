package storage

import (
	"bytes"
	"fmt"
	"image"
	"image/jpeg"
	"image/png"

	"github.com/disintegration/imaging"
)

// Cover images are downscaled to fit this bounding box, aspect preserved.
// Images already inside the box are stored as-is, never upscaled.
const thumbnailBound = 400

type ImageProcessor struct{}

func NewImageProcessor() *ImageProcessor {
	return &ImageProcessor{}
}

// Thumbnail decodes data, fits it within the bounding box and re-encodes it
// in the given format ("jpeg" or "png").
func (p *ImageProcessor) Thumbnail(data []byte, format string) ([]byte, error) {
	img, _, err := image.Decode(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("cannot decode image: %w", err)
	}

	resized := imaging.Fit(img, thumbnailBound, thumbnailBound, imaging.Lanczos)

	b := new(bytes.Buffer)
	switch format {
	case "png":
		err = png.Encode(b, resized)
	case "jpeg":
		err = jpeg.Encode(b, resized, &jpeg.Options{Quality: 90})
	default:
		return nil, fmt.Errorf("unsupported image format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("cannot encode %s: %w", format, err)
	}
	return b.Bytes(), nil
}
