// Package device describes the phone the content is framed in.
package device

import (
	"fmt"
	"image/color"
	"os"

	"github.com/lucasb-eyer/go-colorful"
	"gopkg.in/yaml.v3"
)

// Rect is a rectangle in canvas coordinates.
type Rect struct {
	X int `yaml:"x"`
	Y int `yaml:"y"`
	W int `yaml:"w"`
	H int `yaml:"h"`
}

// Size is a canvas size in pixels.
type Size struct {
	Width  int `yaml:"width"`
	Height int `yaml:"height"`
}

// Bezel is the artwork drawn over the screen: a device body with a cutout
// for the screen, a glass ring and a faint border around the screen.
type Bezel struct {
	Body          Rect    `yaml:"body"`
	BodyRadius    float64 `yaml:"body_radius"`
	BodyColor     string  `yaml:"body_color"`
	Glass         Rect    `yaml:"glass"`
	GlassRadius   float64 `yaml:"glass_radius"`
	GlassStroke   float64 `yaml:"glass_stroke"`
	StrokeColor   string  `yaml:"stroke_color"`
	ScreenStroke  float64 `yaml:"screen_stroke"`
	ScreenOpacity float64 `yaml:"screen_opacity"`
}

// Profile is the geometry and styling of a framing target.
type Profile struct {
	Name         string  `yaml:"name"`
	Canvas       Size    `yaml:"canvas"`
	Viewport     Rect    `yaml:"viewport"`
	CornerRadius float64 `yaml:"corner_radius"`
	Background   string  `yaml:"background"`
	Bezel        Bezel   `yaml:"bezel"`
}

// IPhoneSEPortrait is the default profile.
var IPhoneSEPortrait = Profile{
	Name:         "iPhone SE",
	Canvas:       Size{Width: 1000, Height: 2000},
	Viewport:     Rect{X: 125, Y: 333, W: 750, H: 1334},
	CornerRadius: 40,
	Background:   "#0B0F13",
	Bezel: Bezel{
		Body:          Rect{X: 50, Y: 30, W: 900, H: 1940},
		BodyRadius:    100,
		BodyColor:     "#0D0F12",
		Glass:         Rect{X: 70, Y: 50, W: 860, H: 1900},
		GlassRadius:   90,
		GlassStroke:   4,
		StrokeColor:   "#1A1E25",
		ScreenStroke:  2,
		ScreenOpacity: 0.5,
	},
}

// LoadProfile reads a profile from a YAML file.
func LoadProfile(path string) (Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Profile{}, err
	}

	var p Profile
	if err := yaml.Unmarshal(data, &p); err != nil {
		return Profile{}, fmt.Errorf("failed to parse device profile: %w", err)
	}
	if err := p.Validate(); err != nil {
		return Profile{}, err
	}
	return p, nil
}

// Validate checks that the viewport lies inside the canvas and colours parse.
func (p Profile) Validate() error {
	if p.Canvas.Width <= 0 || p.Canvas.Height <= 0 {
		return fmt.Errorf("device %q: canvas must be positive, got %dx%d", p.Name, p.Canvas.Width, p.Canvas.Height)
	}
	v := p.Viewport
	if v.W <= 0 || v.H <= 0 || v.X < 0 || v.Y < 0 || v.X+v.W > p.Canvas.Width || v.Y+v.H > p.Canvas.Height {
		return fmt.Errorf("device %q: viewport %+v outside canvas %dx%d", p.Name, v, p.Canvas.Width, p.Canvas.Height)
	}
	if p.CornerRadius < 0 || p.CornerRadius*2 > float64(min(v.W, v.H)) {
		return fmt.Errorf("device %q: corner radius %.1f does not fit the viewport", p.Name, p.CornerRadius)
	}
	for _, c := range []string{p.Background, p.Bezel.BodyColor, p.Bezel.StrokeColor} {
		if _, err := ParseColor(c); err != nil {
			return fmt.Errorf("device %q: %w", p.Name, err)
		}
	}
	return nil
}

// BackgroundColor is the canvas fill, also used to pad short frames.
func (p Profile) BackgroundColor() color.NRGBA {
	c, err := ParseColor(p.Background)
	if err != nil {
		return color.NRGBA{A: 255}
	}
	return c
}

// ParseColor parses a #RRGGBB colour. An empty string is transparent.
func ParseColor(hex string) (color.NRGBA, error) {
	if hex == "" {
		return color.NRGBA{}, nil
	}
	c, err := colorful.Hex(hex)
	if err != nil {
		return color.NRGBA{}, fmt.Errorf("invalid colour %q: %w", hex, err)
	}
	r, g, b := c.RGB255()
	return color.NRGBA{R: r, G: g, B: b, A: 255}, nil
}
