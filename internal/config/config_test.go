package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/ivlev/mockup-scroller/internal/motion"
)

func validConfig() *Config {
	c := Default()
	c.InputPath = "screens"
	c.OutputDir = "out"
	return c
}

func TestDefaultIsValid(t *testing.T) {
	if err := validConfig().Validate(); err != nil {
		t.Fatalf("Default config invalid: %v", err)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		modify func(c *Config)
		errMsg string
	}{
		{"missing input", func(c *Config) { c.InputPath = "" }, "--input"},
		{"missing out", func(c *Config) { c.OutputDir = "" }, "--out"},
		{"bad speed", func(c *Config) { c.Speed = "warp" }, "--speed"},
		{"bad model", func(c *Config) { c.Model = "bounce" }, "--model"},
		{"short screen", func(c *Config) { c.ScreenHeight = 10 }, "--screen-height"},
		{"no workers", func(c *Config) { c.Workers = 0 }, "--workers"},
		{"empty swipes", func(c *Config) { c.Model = "swipe"; c.Swipes = nil }, "swipe"},
		{"bad swipe", func(c *Config) { c.Model = "swipe"; c.Swipes = []motion.SwipeStep{{DistanceFactor: 0.5, SwipeFrames: 1}} }, "swipe step"},
		{"upload without bucket", func(c *Config) { c.Upload.Enabled = true }, "bucket"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := validConfig()
			tt.modify(c)
			err := c.Validate()
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.errMsg) {
				t.Errorf("Expected error containing %q, got %v", tt.errMsg, err)
			}
		})
	}
}

func TestLoadFileOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "mockup.yaml")
	data := []byte(`speed: fast
model: swipe
screen_height: 1200
speeds:
  fast:
    target_ppf: 40
    min_frames: 90
    max_frames: 150
swipes:
  - distance_factor: 0.5
    swipe_frames: 12
    pause_frames: 10
upload:
  enabled: true
  bucket: my-bucket
  cdn_url: https://cdn.example.com
  folder: campaign
`)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}

	c := validConfig()
	if err := c.LoadFile(path); err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := c.Validate(); err != nil {
		t.Fatalf("Overlayed config invalid: %v", err)
	}

	if c.Speed != "fast" || c.Model != "swipe" || c.ScreenHeight != 1200 {
		t.Errorf("Scalars not overlayed: %+v", c)
	}
	tier, _ := c.Tier()
	if tier.TargetPPF != 40 {
		t.Errorf("Expected fast tier override, got %+v", tier)
	}
	if _, ok := c.Speeds["slow"]; !ok {
		t.Error("Expected built-in tiers to survive the overlay")
	}
	if motion.Tiers["fast"].TargetPPF != 30 {
		t.Error("Overlay must not modify the built-in tiers")
	}
	if len(c.Swipes) != 1 || c.Swipes[0].SwipeFrames != 12 {
		t.Errorf("Unexpected swipes %+v", c.Swipes)
	}
	if !c.Upload.Enabled || c.Upload.Bucket != "my-bucket" || c.Upload.CDNURL != "https://cdn.example.com" || c.Upload.Folder != "campaign" {
		t.Errorf("Unexpected upload config %+v", c.Upload)
	}
	if c.Device.Viewport.H != 1334 {
		t.Errorf("Device should keep defaults, got %+v", c.Device.Viewport)
	}
}

func TestLoadFileMissing(t *testing.T) {
	if err := Default().LoadFile(filepath.Join(t.TempDir(), "missing.yaml")); err == nil {
		t.Error("Expected error for missing file")
	}
}

func TestLoadEnv(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	if err := os.WriteFile(path, []byte("MOCKUP_S3_BUCKET=env-bucket\nMOCKUP_CDN_URL=https://env.example.com\n"), 0644); err != nil {
		t.Fatal(err)
	}
	t.Setenv(EnvBucket, "")
	t.Setenv(EnvCDNURL, "")
	t.Setenv(EnvRegion, "ca-central-1")
	os.Unsetenv(EnvBucket)
	os.Unsetenv(EnvCDNURL)

	c := Default()
	if err := c.LoadEnv(path); err != nil {
		t.Fatalf("LoadEnv failed: %v", err)
	}
	if c.Upload.Bucket != "env-bucket" || c.Upload.CDNURL != "https://env.example.com" || c.Upload.Region != "ca-central-1" {
		t.Errorf("Unexpected upload config %+v", c.Upload)
	}

	if err := Default().LoadEnv(filepath.Join(t.TempDir(), "absent.env")); err != nil {
		t.Errorf("Missing dotenv file should be ignored, got %v", err)
	}
}
