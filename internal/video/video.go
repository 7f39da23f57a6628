package video

import (
	"context"
	"fmt"
	"os/exec"
	"path/filepath"

	"github.com/ivlev/mockup-scroller/internal/system"
)

// Job describes one animation: a directory of sequentially numbered frames
// and where the result goes.
type Job struct {
	FramesDir  string
	Pattern    string // printf-style frame name, e.g. "home.%06d.png"
	FPS        int
	OutputPath string
}

// FramePattern is the name pattern for frames of the given base name.
func FramePattern(baseName string) string {
	return baseName + ".%06d.png"
}

// FrameName is the file name of frame i.
func FrameName(baseName string, i int) string {
	return fmt.Sprintf(FramePattern(baseName), i)
}

type GIFEncoder interface {
	Encode(ctx context.Context, job Job) error
}

// FFmpegEncoder builds the GIF in two passes: a palette generated from all
// frames, then the frames mapped onto that palette with dithering.
type FFmpegEncoder struct {
	Binary string // defaults to "ffmpeg"
	Width  int    // output width, height follows the aspect ratio
}

func NewFFmpegEncoder() *FFmpegEncoder {
	return &FFmpegEncoder{Binary: "ffmpeg", Width: 800}
}

func (e *FFmpegEncoder) binary() string {
	if e.Binary == "" {
		return "ffmpeg"
	}
	return e.Binary
}

// PalettePath is the transient palette image for job.
func PalettePath(job Job) string {
	ext := filepath.Ext(job.OutputPath)
	return job.OutputPath[:len(job.OutputPath)-len(ext)] + ".palette.png"
}

func (e *FFmpegEncoder) paletteArgs(job Job, palette string) []string {
	return []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", job.FPS),
		"-i", filepath.Join(job.FramesDir, job.Pattern),
		"-vf", "palettegen=stats_mode=diff",
		"-frames:v", "1",
		palette,
	}
}

func (e *FFmpegEncoder) gifArgs(job Job, palette string) []string {
	width := e.Width
	if width <= 0 {
		width = 800
	}
	return []string{
		"-y",
		"-framerate", fmt.Sprintf("%d", job.FPS),
		"-i", filepath.Join(job.FramesDir, job.Pattern),
		"-i", palette,
		"-lavfi", fmt.Sprintf("scale=%d:-1,paletteuse=dither=floyd_steinberg", width),
		job.OutputPath,
	}
}

func (e *FFmpegEncoder) Encode(ctx context.Context, job Job) error {
	palette := PalettePath(job)
	defer system.CleanupFile(palette)

	cmd := exec.CommandContext(ctx, e.binary(), e.paletteArgs(job, palette)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg palettegen error: %w, output: %s", err, string(out))
	}

	cmd = exec.CommandContext(ctx, e.binary(), e.gifArgs(job, palette)...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("ffmpeg paletteuse error: %w, output: %s", err, string(out))
	}
	return nil
}
