// Package compositor turns a window of the content into a device-framed
// image: crop, pad, round the corners, place on the canvas, add the bezel.
package compositor

import (
	"fmt"
	"image"
	"image/png"
	"math"

	"github.com/disintegration/imaging"
	"golang.org/x/image/draw"

	"github.com/ivlev/mockup-scroller/internal/device"
	"github.com/ivlev/mockup-scroller/internal/segment"
	"github.com/ivlev/mockup-scroller/internal/system"
)

type Compositor struct {
	profile    device.Profile
	background *image.Uniform
	mask       *image.Alpha
	bezel      *image.NRGBA
}

// New prepares the mask and bezel of the profile once, they are shared by all frames.
func New(p device.Profile) (*Compositor, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	bezel, err := p.BezelImage()
	if err != nil {
		return nil, fmt.Errorf("bezel: %w", err)
	}
	return &Compositor{
		profile:    p,
		background: image.NewUniform(p.BackgroundColor()),
		mask:       p.ScreenMask(),
		bezel:      bezel,
	}, nil
}

func (c *Compositor) Profile() device.Profile {
	return c.profile
}

// Resize scales img to the viewport width, keeping its aspect ratio.
func (c *Compositor) Resize(img image.Image) *image.NRGBA {
	return imaging.Resize(img, c.profile.Viewport.W, 0, imaging.Lanczos)
}

// Window copies the w x h region of content starting at row top. Rows past
// the bottom of the content are filled with the background colour, so the
// result is always exactly w x h.
func (c *Compositor) Window(content image.Image, top, w, h int) *image.NRGBA {
	dst := system.GetImage(image.Rect(0, 0, w, h))
	draw.Draw(dst, dst.Bounds(), c.background, image.Point{}, draw.Src)

	b := content.Bounds()
	src := image.Rect(b.Min.X, b.Min.Y+top, b.Min.X+w, b.Min.Y+top+h).Intersect(b)
	if !src.Empty() {
		draw.Draw(dst, image.Rect(0, 0, src.Dx(), src.Dy()), content, src.Min, draw.Src)
	}
	return dst
}

// Mask keeps win only where the screen mask is opaque (dest-in).
func (c *Compositor) Mask(win *image.NRGBA) *image.NRGBA {
	dst := system.GetImage(win.Rect)
	draw.DrawMask(dst, dst.Bounds(), win, image.Point{}, c.mask, image.Point{}, draw.Src)
	return dst
}

// Frame renders the framed device image with the content scrolled to offset.
// Release the result when done with it.
func (c *Compositor) Frame(content image.Image, offset int) *image.NRGBA {
	v := c.profile.Viewport

	win := c.Window(content, offset, v.W, v.H)
	masked := c.Mask(win)
	system.PutImage(win)
	defer system.PutImage(masked)

	canvas := system.GetImage(image.Rect(0, 0, c.profile.Canvas.Width, c.profile.Canvas.Height))
	draw.Draw(canvas, canvas.Bounds(), c.background, image.Point{}, draw.Src)
	draw.Draw(canvas, image.Rect(v.X, v.Y, v.X+v.W, v.Y+v.H), masked, image.Point{}, draw.Over)
	draw.Draw(canvas, canvas.Bounds(), c.bezel, image.Point{}, draw.Over)
	return canvas
}

// ScreenWindow is the height in content pixels that becomes height pixels
// of a width-wide screen image.
func ScreenWindow(contentWidth, width, height int) int {
	if width <= 0 || contentWidth == width {
		return height
	}
	return int(math.Round(float64(height) * float64(contentWidth) / float64(width)))
}

// Screen renders an unframed, square-cornered width x height screenshot of
// the segment.
func (c *Compositor) Screen(content image.Image, seg segment.Segment, width, height int) *image.NRGBA {
	cw := content.Bounds().Dx()
	win := c.Window(content, seg.Start, cw, ScreenWindow(cw, width, height))
	if cw == width {
		return win
	}
	defer system.PutImage(win)
	return imaging.Resize(win, width, height, imaging.Lanczos)
}

// Release hands an image produced by the compositor back for reuse.
func (c *Compositor) Release(img *image.NRGBA) {
	system.PutImage(img)
}

// WritePNG encodes img to path.
func WritePNG(path string, img image.Image, level png.CompressionLevel) error {
	if err := imaging.Save(img, path, imaging.PNGCompressionLevel(level)); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
