// Package source finds, validates and decodes the full-page screenshots that
// are turned into scrolling animations.
package source

import (
	"context"
	"errors"
	"fmt"
	"image"
	"path/filepath"
	"regexp"
	"strings"
)

// Source is one input page.
type Source interface {
	// Dimensions reports the size of the page without fully decoding it where possible.
	Dimensions(ctx context.Context) (width, height int, err error)
	Render(ctx context.Context) (image.Image, error)
	Close() error
}

// Limits accepted by CheckDimensions.
const (
	MinWidth  = 300
	MinHeight = 500
	MaxHeight = 20000
)

var (
	ErrNotImage  = errors.New("not a supported image file")
	ErrTooNarrow = errors.New("image too narrow")
	ErrTooShort  = errors.New("image too short")
	ErrTooTall   = errors.New("image too tall")
)

// RejectError marks an input that was refused by validation rather than
// failing during processing.
type RejectError struct {
	Path   string
	Reason string
	Err    error
}

func (e *RejectError) Error() string {
	return fmt.Sprintf("%s - %s", e.Path, e.Reason)
}

func (e *RejectError) Unwrap() error {
	return e.Err
}

// CheckDimensions rejects pages outside the supported size range.
func CheckDimensions(path string, width, height int) error {
	switch {
	case width < MinWidth:
		return &RejectError{Path: path, Reason: fmt.Sprintf("Width %d < %dpx minimum", width, MinWidth), Err: ErrTooNarrow}
	case height < MinHeight:
		return &RejectError{Path: path, Reason: fmt.Sprintf("Height %d outside [%d, %d] range", height, MinHeight, MaxHeight), Err: ErrTooShort}
	case height > MaxHeight:
		return &RejectError{Path: path, Reason: fmt.Sprintf("Height %d outside [%d, %d] range", height, MinHeight, MaxHeight), Err: ErrTooTall}
	}
	return nil
}

// Options configure how inputs other than plain images are rendered.
type Options struct {
	DPI int // PDF rendering resolution
}

// Open picks the source implementation for path: URLs are captured in a
// headless browser, everything else is identified by its magic bytes.
func Open(ctx context.Context, path string, opts Options) (Source, error) {
	if IsURL(path) {
		return NewURLSource(path), nil
	}

	format, err := DetectFormat(path)
	if err != nil {
		return nil, &RejectError{Path: path, Reason: err.Error(), Err: ErrNotImage}
	}
	switch format {
	case FormatPNG, FormatJPEG:
		return NewImageSource(path), nil
	case FormatPDF:
		return NewFitzPDFSource(path, opts.DPI)
	default:
		return nil, &RejectError{Path: path, Reason: "Not a valid PNG, JPEG or PDF file", Err: ErrNotImage}
	}
}

// IsURL reports whether the input is a web page rather than a file.
func IsURL(path string) bool {
	return strings.HasPrefix(path, "http://") || strings.HasPrefix(path, "https://")
}

var (
	whitespace = regexp.MustCompile(`\s+`)
	unsafeName = regexp.MustCompile(`[^a-zA-Z0-9_-]`)
)

// SanitizeBasename derives the output base name from an input path or URL.
func SanitizeBasename(path string) string {
	if IsURL(path) {
		path = strings.TrimRight(strings.SplitN(path, "://", 2)[1], "/")
		path = strings.NewReplacer("/", "_", ".", "_").Replace(path)
	}
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	base = whitespace.ReplaceAllString(base, "_")
	return unsafeName.ReplaceAllString(base, "")
}
