// Package engine drives the per-file pipeline: validate, resize, sequence,
// composite, encode, export segments and publish.
package engine

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log"
	"os"
	"path/filepath"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/ivlev/mockup-scroller/internal/compositor"
	"github.com/ivlev/mockup-scroller/internal/config"
	"github.com/ivlev/mockup-scroller/internal/motion"
	"github.com/ivlev/mockup-scroller/internal/plan"
	"github.com/ivlev/mockup-scroller/internal/segment"
	"github.com/ivlev/mockup-scroller/internal/source"
	"github.com/ivlev/mockup-scroller/internal/system"
	"github.com/ivlev/mockup-scroller/internal/upload"
	"github.com/ivlev/mockup-scroller/internal/video"
)

// Opener turns an input path into a Source. source.Open is the default.
type Opener func(ctx context.Context, path string, opts source.Options) (source.Source, error)

type Project struct {
	Config     *config.Config
	Compositor *compositor.Compositor
	Sequencer  motion.Sequencer
	Open       Opener
	Encoder    video.GIFEncoder
	Uploader   upload.Uploader // nil disables publishing

	stored   *plan.Plan
	planOut  *plan.Plan
	frames   int
	debounce time.Duration // watch mode, zero means the watcher default
}

// Outputs lists the files written for one input.
type Outputs struct {
	Base   string
	GIF    string
	Framed []string
	Screen []string
}

// Files returns every output, animation first.
func (o Outputs) Files() []string {
	var files []string
	if o.GIF != "" {
		files = append(files, o.GIF)
	}
	files = append(files, o.Framed...)
	return append(files, o.Screen...)
}

// Summary counts the outcome of a run. Rejected inputs are also failures.
type Summary struct {
	Processed int
	Succeeded int
	Failed    int
	Rejected  int
}

func (s Summary) String() string {
	return fmt.Sprintf("Processed: %d | Succeeded: %d | Failed: %d", s.Processed, s.Succeeded, s.Failed)
}

// ExitCode is 4 when any input failed, 0 otherwise.
func (s Summary) ExitCode() int {
	if s.Failed > 0 {
		return 4
	}
	return 0
}

func NewProject(cfg *config.Config, open Opener, enc video.GIFEncoder, up upload.Uploader) (*Project, error) {
	comp, err := compositor.New(cfg.Device)
	if err != nil {
		return nil, err
	}
	tier, err := cfg.Tier()
	if err != nil {
		return nil, err
	}
	seq, err := motion.New(cfg.Model, tier, cfg.Swipes)
	if err != nil {
		return nil, err
	}
	if open == nil {
		open = source.Open
	}

	p := &Project{
		Config:     cfg,
		Compositor: comp,
		Sequencer:  seq,
		Open:       open,
		Encoder:    enc,
		Uploader:   up,
	}

	if cfg.PlanIn != "" {
		p.stored, err = plan.Read(cfg.PlanIn)
		if err != nil {
			return nil, fmt.Errorf("failed to read plan: %w", err)
		}
		fmt.Printf("[*] Using plan: %s\n", cfg.PlanIn)
	}
	if cfg.PlanOut != "" {
		p.planOut = plan.New(cfg.Speed, cfg.Model)
	}
	return p, nil
}

// Run processes files one after another. Per-file failures are counted and
// the batch continues; an upload failure or cancellation stops the run.
func (p *Project) Run(ctx context.Context, files []string) (Summary, error) {
	var sum Summary
	startTime := time.Now()

	if err := system.EnsureDir(p.Config.OutputDir); err != nil {
		return sum, fmt.Errorf("failed to create output directory: %w", err)
	}

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return sum, err
		}
		if err := p.processOne(ctx, path, &sum); err != nil {
			return sum, err
		}
	}

	if p.Config.ShowStats {
		p.report(sum, time.Since(startTime))
	}
	return sum, nil
}

// processOne runs a single input and records the outcome in sum. Only fatal
// errors are returned.
func (p *Project) processOne(ctx context.Context, path string, sum *Summary) error {
	start := time.Now()
	sum.Processed++

	out, err := p.ProcessFile(ctx, path)
	if err == nil && p.Uploader != nil && p.planOut == nil {
		err = p.publish(ctx, out)
	}

	var reject *source.RejectError
	switch {
	case err == nil:
		sum.Succeeded++
	case errors.As(err, &reject):
		fmt.Printf("REJECTED: %s\n", reject.Error())
		sum.Failed++
		sum.Rejected++
	case errors.Is(err, upload.ErrUploadFailed):
		sum.Failed++
		fmt.Printf("ERROR: %s - %v (%s)\n", source.SanitizeBasename(path), err, time.Since(start).Round(time.Millisecond))
		return err
	case ctx.Err() != nil:
		sum.Failed++
		return ctx.Err()
	default:
		sum.Failed++
		fmt.Printf("ERROR: %s - %v (%s)\n", source.SanitizeBasename(path), err, time.Since(start).Round(time.Millisecond))
	}

	if p.Config.ShowStats {
		if ms, err := system.ReadMemoryStats(); err == nil {
			fmt.Printf("[*] %s | %s\n", time.Since(start).Round(time.Millisecond), ms)
		}
	}
	return nil
}

// ProcessFile renders the animation and the segments of one input. In plan
// output mode it only records the plan entry.
func (p *Project) ProcessFile(ctx context.Context, path string) (Outputs, error) {
	absPath, err := filepath.Abs(path)
	if err != nil || source.IsURL(path) {
		absPath = path
	}
	fmt.Printf("PROCESSING: %s\n", absPath)

	base := source.SanitizeBasename(path)
	out := Outputs{Base: base}

	src, err := p.Open(ctx, path, source.Options{DPI: p.Config.DPI})
	if err != nil {
		return out, err
	}
	defer src.Close()

	w, h, err := src.Dimensions(ctx)
	if err != nil {
		if source.IsURL(path) {
			return out, err
		}
		return out, &source.RejectError{Path: path, Reason: err.Error(), Err: source.ErrNotImage}
	}
	if err := source.CheckDimensions(path, w, h); err != nil {
		return out, err
	}

	img, err := src.Render(ctx)
	if err != nil {
		return out, err
	}
	content := p.Compositor.Resize(img)

	viewport := p.Compositor.Profile().Viewport
	contentHeight := content.Bounds().Dy()
	scrollable := max(0, contentHeight-viewport.H)
	screenWindow := compositor.ScreenWindow(content.Bounds().Dx(), p.Config.ScreenWidth, p.Config.ScreenHeight)

	if p.planOut != nil {
		window := 0
		if p.Config.Segments {
			window = screenWindow
		}
		p.planOut.Add(plan.Build(base, contentHeight, viewport.H, window, p.Sequencer))
		if err := plan.Write(p.planOut, p.Config.PlanOut); err != nil {
			return out, fmt.Errorf("failed to write plan: %w", err)
		}
		fmt.Printf("PLANNED: %s -> %s\n", base, p.Config.PlanOut)
		return out, nil
	}

	offsets := p.offsets(base, scrollable, viewport.H)

	out.GIF, err = p.animate(ctx, content, base, offsets)
	if err != nil {
		return out, err
	}

	if p.Config.Segments {
		out.Framed, err = p.writeFramed(content, base, segment.Partition(contentHeight, viewport.H))
		if err != nil {
			return out, err
		}
		out.Screen, err = p.writeScreens(content, base, segment.Partition(contentHeight, screenWindow))
		if err != nil {
			return out, err
		}
	}

	fmt.Printf("DONE: %s (gif, %d framed, %d screen)\n", base, len(out.Framed), len(out.Screen))
	return out, nil
}

func (p *Project) offsets(base string, scrollable, viewportHeight int) []int {
	if p.stored != nil {
		if e, ok := p.stored.Lookup(base); ok {
			return e.ClampedOffsets(scrollable)
		}
		log.Printf("[!] No plan entry for %s, computing offsets", base)
	}
	return p.Sequencer.Offsets(scrollable, viewportHeight)
}

// animate writes one framed PNG per offset into a scratch directory, encodes
// them and removes the directory again.
func (p *Project) animate(ctx context.Context, content image.Image, base string, offsets []int) (string, error) {
	framesDir := filepath.Join(p.Config.OutputDir, base+".frames")
	if err := system.EnsureDir(framesDir); err != nil {
		return "", err
	}
	defer system.CleanupDir(framesDir)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.Config.Workers)
	for i, y := range offsets {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			frame := p.Compositor.Frame(content, y)
			defer p.Compositor.Release(frame)
			return compositor.WritePNG(filepath.Join(framesDir, video.FrameName(base, i)), frame, png.BestSpeed)
		})
	}
	if err := g.Wait(); err != nil {
		return "", fmt.Errorf("render frames: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return "", err
	}
	p.frames += len(offsets)
	fmt.Printf("[>] Rendered %d frames\n", len(offsets))

	gif := system.OutputPath(p.Config.OutputDir, base, "framed.scroll.gif")
	job := video.Job{
		FramesDir:  framesDir,
		Pattern:    video.FramePattern(base),
		FPS:        motion.FPS,
		OutputPath: gif,
	}
	if err := p.Encoder.Encode(ctx, job); err != nil {
		return "", err
	}
	return gif, nil
}

func (p *Project) writeFramed(content image.Image, base string, segments []segment.Segment) ([]string, error) {
	var paths []string
	for i, seg := range segments {
		frame := p.Compositor.Frame(content, seg.Start)
		path := system.OutputPath(p.Config.OutputDir, base, fmt.Sprintf("framed.%d.png", i+1))
		err := compositor.WritePNG(path, frame, png.DefaultCompression)
		p.Compositor.Release(frame)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

func (p *Project) writeScreens(content image.Image, base string, segments []segment.Segment) ([]string, error) {
	var paths []string
	for i, seg := range segments {
		img := p.Compositor.Screen(content, seg, p.Config.ScreenWidth, p.Config.ScreenHeight)
		path := system.OutputPath(p.Config.OutputDir, base, fmt.Sprintf("screen.%d.png", i+1))
		err := compositor.WritePNG(path, img, png.DefaultCompression)
		p.Compositor.Release(img)
		if err != nil {
			return paths, err
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// publish uploads the outputs of one input. The folder defaults to the
// input's base name.
func (p *Project) publish(ctx context.Context, out Outputs) error {
	folder := p.Config.Upload.Folder
	if folder == "" {
		folder = out.Base
	}

	results, err := p.Uploader.Upload(ctx, out.Files(), folder)
	if err != nil {
		if !errors.Is(err, upload.ErrUploadFailed) {
			err = fmt.Errorf("%w: %v", upload.ErrUploadFailed, err)
		}
		return err
	}

	for _, r := range results {
		if r.Local != out.GIF {
			continue
		}
		fmt.Printf("[+++] Preview: %s\n", r.URL)
		if p.Config.Upload.QR {
			if err := system.PrintQR(os.Stdout, r.URL); err != nil {
				log.Printf("[!] QR code: %v", err)
			}
		}
	}
	return nil
}

func (p *Project) report(sum Summary, total time.Duration) {
	fps := 0.0
	if total > 0 {
		fps = float64(p.frames) / total.Seconds()
	}
	report := fmt.Sprintf(
		"--- [PERFORMANCE REPORT] ---\n"+
			"Build: %s\n"+
			"Total Time: %.2fs\n"+
			"Frames: %d\n"+
			"Effective FPS: %.2f\n",
		p.Config.BuildVersion, total.Seconds(), p.frames, fps,
	)
	if ms, err := system.ReadMemoryStats(); err == nil {
		report += "Memory: " + ms.String() + "\n"
	}
	fmt.Print(report + "----------------------------\n")

	logEntry := fmt.Sprintf("[%s] Build: %s | Input: %s | Files: %d | Failed: %d | Frames: %d | Total: %.2fs | FPS: %.2f\n",
		time.Now().Format("2006-01-02 15:04:05"),
		p.Config.BuildVersion,
		p.Config.InputPath,
		sum.Processed,
		sum.Failed,
		p.frames,
		total.Seconds(),
		fps,
	)
	f, err := os.OpenFile(filepath.Join(p.Config.OutputDir, "benchmark.log"), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		log.Printf("[!] Failed to write benchmark.log: %v", err)
		return
	}
	defer f.Close()
	if _, err := f.WriteString(logEntry); err != nil {
		log.Printf("[!] Failed to write benchmark.log: %v", err)
	}
}
