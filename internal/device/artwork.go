package device

import (
	"image"
	"image/color"

	"golang.org/x/image/draw"
	"golang.org/x/image/vector"
)

// kappa places cubic control points so that a quarter arc approximates a circle.
const kappa = 0.5522847498

// roundedRect adds a closed rounded rectangle to the path. Reversed outlines
// cancel the coverage of forward ones, which is how holes are cut.
func roundedRect(z *vector.Rasterizer, x, y, w, h, r float64, reverse bool) {
	if r*2 > w {
		r = w / 2
	}
	if r*2 > h {
		r = h / 2
	}
	if r < 0 {
		r = 0
	}
	k := r * kappa
	x0, y0, x1, y1 := float32(x), float32(y), float32(x+w), float32(y+h)
	rr, kk := float32(r), float32(k)

	z.MoveTo(x0+rr, y0)
	if !reverse {
		z.LineTo(x1-rr, y0)
		z.CubeTo(x1-rr+kk, y0, x1, y0+rr-kk, x1, y0+rr)
		z.LineTo(x1, y1-rr)
		z.CubeTo(x1, y1-rr+kk, x1-rr+kk, y1, x1-rr, y1)
		z.LineTo(x0+rr, y1)
		z.CubeTo(x0+rr-kk, y1, x0, y1-rr+kk, x0, y1-rr)
		z.LineTo(x0, y0+rr)
		z.CubeTo(x0, y0+rr-kk, x0+rr-kk, y0, x0+rr, y0)
	} else {
		z.CubeTo(x0+rr-kk, y0, x0, y0+rr-kk, x0, y0+rr)
		z.LineTo(x0, y1-rr)
		z.CubeTo(x0, y1-rr+kk, x0+rr-kk, y1, x0+rr, y1)
		z.LineTo(x1-rr, y1)
		z.CubeTo(x1-rr+kk, y1, x1, y1-rr+kk, x1, y1-rr)
		z.LineTo(x1, y0+rr)
		z.CubeTo(x1, y0+rr-kk, x1-rr+kk, y0, x1-rr, y0)
	}
	z.ClosePath()
}

// ring adds a stroke of the given width centred on the rounded rect outline.
func ring(z *vector.Rasterizer, r Rect, radius, width float64) {
	half := width / 2
	roundedRect(z, float64(r.X)-half, float64(r.Y)-half, float64(r.W)+width, float64(r.H)+width, radius+half, false)
	roundedRect(z, float64(r.X)+half, float64(r.Y)+half, float64(r.W)-width, float64(r.H)-width, radius-half, true)
}

func coverage(z *vector.Rasterizer) *image.Alpha {
	w, h := z.Size().X, z.Size().Y
	a := image.NewAlpha(image.Rect(0, 0, w, h))
	z.Draw(a, a.Bounds(), image.Opaque, image.Point{})
	return a
}

// ScreenMask is the viewport-sized alpha mask with the screen's rounded corners.
func (p Profile) ScreenMask() *image.Alpha {
	v := p.Viewport
	z := vector.NewRasterizer(v.W, v.H)
	roundedRect(z, 0, 0, float64(v.W), float64(v.H), p.CornerRadius, false)
	return coverage(z)
}

// BezelImage renders the bezel artwork at canvas size. Everything outside the
// device body, and the screen itself, is transparent.
func (p Profile) BezelImage() (*image.NRGBA, error) {
	b := p.Bezel
	w, h := p.Canvas.Width, p.Canvas.Height
	out := image.NewNRGBA(image.Rect(0, 0, w, h))

	body, err := ParseColor(b.BodyColor)
	if err != nil {
		return nil, err
	}
	stroke, err := ParseColor(b.StrokeColor)
	if err != nil {
		return nil, err
	}

	if b.Body.W > 0 && b.Body.H > 0 {
		z := vector.NewRasterizer(w, h)
		roundedRect(z, float64(b.Body.X), float64(b.Body.Y), float64(b.Body.W), float64(b.Body.H), b.BodyRadius, false)
		v := p.Viewport
		roundedRect(z, float64(v.X), float64(v.Y), float64(v.W), float64(v.H), p.CornerRadius, true)
		fill(out, coverage(z), body)
	}

	if b.GlassStroke > 0 {
		z := vector.NewRasterizer(w, h)
		ring(z, b.Glass, b.GlassRadius, b.GlassStroke)
		fill(out, coverage(z), stroke)
	}

	if b.ScreenStroke > 0 && b.ScreenOpacity > 0 {
		z := vector.NewRasterizer(w, h)
		ring(z, p.Viewport, p.CornerRadius, b.ScreenStroke)
		c := stroke
		c.A = uint8(255 * b.ScreenOpacity)
		fill(out, coverage(z), c)
	}
	return out, nil
}

func fill(dst *image.NRGBA, mask *image.Alpha, c color.NRGBA) {
	draw.DrawMask(dst, dst.Bounds(), image.NewUniform(c), image.Point{}, mask, image.Point{}, draw.Over)
}
