package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"runtime"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/ivlev/mockup-scroller/internal/device"
	"github.com/ivlev/mockup-scroller/internal/motion"
	"github.com/ivlev/mockup-scroller/internal/upload"
)

type Config struct {
	InputPath    string                 `yaml:"-"`
	OutputDir    string                 `yaml:"-"`
	Speed        string                 `yaml:"speed"`
	Model        string                 `yaml:"model"`
	Segments     bool                   `yaml:"segments"`
	ScreenWidth  int                    `yaml:"screen_width"`
	ScreenHeight int                    `yaml:"screen_height"`
	Workers      int                    `yaml:"workers"`
	DPI          int                    `yaml:"dpi"`
	GIFWidth     int                    `yaml:"gif_width"`
	Extensions   []string               `yaml:"extensions"`
	Speeds       map[string]motion.Tier `yaml:"speeds"`
	Swipes       []motion.SwipeStep     `yaml:"swipes"`
	Device       device.Profile         `yaml:"device"`
	Upload       UploadConfig           `yaml:"upload"`
	Watch        bool                   `yaml:"-"`
	ShowStats    bool                   `yaml:"-"`
	PlanOut      string                 `yaml:"-"`
	PlanIn       string                 `yaml:"-"`
	BuildVersion string                 `yaml:"-"`
}

type UploadConfig struct {
	Enabled         bool   `yaml:"enabled"`
	Folder          string `yaml:"folder"`
	QR              bool   `yaml:"qr"`
	upload.Settings `yaml:",inline"`
}

// Default returns the built-in configuration.
func Default() *Config {
	speeds := make(map[string]motion.Tier, len(motion.Tiers))
	for name, tier := range motion.Tiers {
		speeds[name] = tier
	}
	return &Config{
		Speed:        "normal",
		Model:        string(motion.Linear),
		Segments:     true,
		ScreenWidth:  device.IPhoneSEPortrait.Viewport.W,
		ScreenHeight: 1600,
		Workers:      runtime.NumCPU(),
		DPI:          150,
		GIFWidth:     800,
		Extensions:   []string{".png"},
		Speeds:       speeds,
		Swipes:       append([]motion.SwipeStep(nil), motion.DefaultSwipes...),
		Device:       device.IPhoneSEPortrait,
	}
}

// LoadFile overlays the YAML file at path onto c. Keys missing from the
// file keep their current values.
func (c *Config) LoadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config: %w", err)
	}
	return nil
}

// Environment variables read by LoadEnv.
const (
	EnvBucket  = "MOCKUP_S3_BUCKET"
	EnvCDNURL  = "MOCKUP_CDN_URL"
	EnvRegion  = "AWS_REGION"
	EnvProfile = "AWS_PROFILE"
)

// LoadEnv loads the dotenv file at path, if present, and applies upload
// settings found in the environment.
func (c *Config) LoadEnv(path string) error {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load %s: %w", path, err)
		}
	}

	for env, dst := range map[string]*string{
		EnvBucket:  &c.Upload.Bucket,
		EnvCDNURL:  &c.Upload.CDNURL,
		EnvRegion:  &c.Upload.Region,
		EnvProfile: &c.Upload.Profile,
	} {
		if v := os.Getenv(env); v != "" {
			*dst = v
		}
	}
	return nil
}

// Tier returns the speed preset selected by c.Speed.
func (c *Config) Tier() (motion.Tier, error) {
	tier, ok := c.Speeds[c.Speed]
	if !ok {
		return motion.Tier{}, fmt.Errorf("unknown speed: %s", c.Speed)
	}
	return tier, nil
}

// Validate checks required fields and value ranges.
func (c *Config) Validate() error {
	if c.InputPath == "" {
		return fmt.Errorf("--input is required")
	}
	if c.OutputDir == "" {
		return fmt.Errorf("--out is required")
	}
	switch c.Speed {
	case "slow", "normal", "fast":
	default:
		return fmt.Errorf("--speed must be one of slow, normal, fast, got %q", c.Speed)
	}
	tier, err := c.Tier()
	if err != nil {
		return err
	}
	if tier.TargetPPF <= 0 || tier.MinFrames > tier.MaxFrames {
		return fmt.Errorf("speed %s: invalid tier %+v", c.Speed, tier)
	}
	switch motion.Model(c.Model) {
	case motion.Linear, motion.Unbounded, motion.Swipe:
	default:
		return fmt.Errorf("--model must be one of linear, unbounded, swipe, got %q", c.Model)
	}
	if c.Model == string(motion.Swipe) {
		if len(c.Swipes) == 0 {
			return fmt.Errorf("swipe model needs at least one swipe step")
		}
		for i, s := range c.Swipes {
			if s.DistanceFactor <= 0 || s.SwipeFrames < 2 || s.PauseFrames < 0 {
				return fmt.Errorf("swipe step %d: invalid %+v", i, s)
			}
		}
	}
	if c.ScreenHeight < 100 {
		return fmt.Errorf("--screen-height must be at least 100, got %d", c.ScreenHeight)
	}
	if c.ScreenWidth <= 0 {
		return fmt.Errorf("screen width must be positive, got %d", c.ScreenWidth)
	}
	if c.Workers < 1 {
		return fmt.Errorf("--workers must be at least 1, got %d", c.Workers)
	}
	if c.Upload.Enabled && c.Upload.Bucket == "" {
		return fmt.Errorf("upload enabled but no bucket configured (set %s)", EnvBucket)
	}
	return c.Device.Validate()
}
