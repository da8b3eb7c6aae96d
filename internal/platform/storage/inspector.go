package storage

import (
	"errors"
	"image"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"

	_ "golang.org/x/image/webp" // Import for webp decoding support
)

// ImageInspector resolves pixel dimensions from an image stream using the
// registered decoders. Decoding only the header keeps this cheap even for
// large files.
type ImageInspector struct{}

func NewImageInspector() *ImageInspector {
	return &ImageInspector{}
}

// Inspect returns the width and height of the image in r.
func (i *ImageInspector) Inspect(r io.Reader) (int, int, error) {
	if r == nil {
		return 0, 0, errors.New("reader cannot be nil")
	}

	cfg, _, err := image.DecodeConfig(r)
	if err != nil {
		return 0, 0, err
	}

	return cfg.Width, cfg.Height, nil
}
