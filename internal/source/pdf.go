package source

import (
	"context"
	"fmt"
	"image"
	"image/color"
	"math"

	"github.com/disintegration/imaging"
	"github.com/gen2brain/go-fitz"
	"golang.org/x/image/draw"
)

// DefaultDPI is used when no resolution is configured.
const DefaultDPI = 150

// FitzPDFSource renders every page of a PDF and stacks them top to bottom
// into one tall page, the way long design exports are delivered.
type FitzPDFSource struct {
	doc  *fitz.Document
	path string
	dpi  int
}

func NewFitzPDFSource(path string, dpi int) (*FitzPDFSource, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, err
	}
	if dpi <= 0 {
		dpi = DefaultDPI
	}
	return &FitzPDFSource{doc: doc, path: path, dpi: dpi}, nil
}

func (f *FitzPDFSource) scale() float64 {
	return float64(f.dpi) / 72.0
}

func (f *FitzPDFSource) Dimensions(ctx context.Context) (int, int, error) {
	if f.doc.NumPage() == 0 {
		return 0, 0, fmt.Errorf("%s has no pages", f.path)
	}

	width, height := 0, 0
	for i := 0; i < f.doc.NumPage(); i++ {
		rect, err := f.doc.Bound(i)
		if err != nil {
			return 0, 0, err
		}
		w := int(math.Round(float64(rect.Dx()) * f.scale()))
		if w > width {
			width = w
		}
		height += int(math.Round(float64(rect.Dy()) * f.scale()))
	}
	return width, height, nil
}

func (f *FitzPDFSource) Render(ctx context.Context) (image.Image, error) {
	pages := make([]image.Image, 0, f.doc.NumPage())
	width, height := 0, 0
	for i := 0; i < f.doc.NumPage(); i++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		img, err := f.doc.ImageDPI(i, float64(f.dpi))
		if err != nil {
			return nil, fmt.Errorf("render page %d: %w", i+1, err)
		}
		pages = append(pages, img)
		if img.Bounds().Dx() > width {
			width = img.Bounds().Dx()
		}
		height += img.Bounds().Dy()
	}
	if len(pages) == 0 {
		return nil, fmt.Errorf("%s has no pages", f.path)
	}

	canvas := imaging.New(width, height, color.White)
	y := 0
	for _, page := range pages {
		b := page.Bounds()
		x := (width - b.Dx()) / 2
		draw.Draw(canvas, image.Rect(x, y, x+b.Dx(), y+b.Dy()), page, b.Min, draw.Src)
		y += b.Dy()
	}
	return canvas, nil
}

func (f *FitzPDFSource) Close() error {
	return f.doc.Close()
}
