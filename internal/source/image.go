package source

import (
	"context"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"os"
)

// ImageSource is a PNG or JPEG file.
type ImageSource struct {
	path string
}

func NewImageSource(path string) *ImageSource {
	return &ImageSource{path: path}
}

func (s *ImageSource) Dimensions(ctx context.Context) (int, int, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return 0, 0, err
	}
	defer f.Close()

	cfg, _, err := image.DecodeConfig(f)
	if err != nil {
		return 0, 0, fmt.Errorf("unable to read image dimensions: %w", err)
	}
	return cfg.Width, cfg.Height, nil
}

func (s *ImageSource) Render(ctx context.Context) (image.Image, error) {
	f, err := os.Open(s.path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", s.path, err)
	}
	return img, nil
}

func (s *ImageSource) Close() error {
	return nil
}
